package conversations

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"voiceagent-platform/internal/tasks"
	"voiceagent-platform/internal/voiceai"
)

type fakeSource struct {
	list      voiceai.ConversationList
	listErr   error
	details   map[string]voiceai.ConversationDetail
	detailErr map[string]error
}

func (f *fakeSource) ListConversations(_ context.Context, _ string) (voiceai.ConversationList, error) {
	return f.list, f.listErr
}

func (f *fakeSource) ConversationDetail(_ context.Context, id string) (voiceai.ConversationDetail, error) {
	if err, ok := f.detailErr[id]; ok {
		return voiceai.ConversationDetail{}, err
	}
	d, ok := f.details[id]
	if !ok {
		return voiceai.ConversationDetail{}, errors.New("unknown conversation")
	}
	return d, nil
}

func refs(ids ...string) voiceai.ConversationList {
	var list voiceai.ConversationList
	for _, id := range ids {
		list.Conversations = append(list.Conversations, voiceai.ConversationRef{ConversationID: id})
	}
	return list
}

func doneDetail() voiceai.ConversationDetail {
	return voiceai.ConversationDetail{Status: "done", Transcript: json.RawMessage(`[]`)}
}

func newStore() *MemoryStore {
	s := NewMemoryStore()
	s.RegisterAgent("agent-1", "u1", "remote-agent-1")
	return s
}

func TestSync_PersistsUnseenTerminalConversations(t *testing.T) {
	store := newStore()
	src := &fakeSource{
		list: refs("conv-1", "conv-2"),
		details: map[string]voiceai.ConversationDetail{
			"conv-1": doneDetail(),
			"conv-2": {Status: "failed"},
		},
	}
	r := NewReconciler(store, src, nil)

	res, err := r.Sync(context.Background(), "u1", "agent-1")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(res.NewConversations) != 2 {
		t.Fatalf("expected 2 new conversations, got %v", res.NewConversations)
	}
	if len(res.Skipped) != 0 {
		t.Fatalf("expected no skips, got %v", res.Skipped)
	}
	c, ok := store.Stored("conv-2")
	if !ok {
		t.Fatalf("expected conv-2 stored")
	}
	if c.Status != "failed" {
		t.Fatalf("expected raw remote status preserved, got %q", c.Status)
	}
	if c.AgentID != "agent-1" {
		t.Fatalf("expected local agent id, got %q", c.AgentID)
	}
}

func TestSync_SecondRunIsEmpty(t *testing.T) {
	store := newStore()
	src := &fakeSource{
		list:    refs("conv-1"),
		details: map[string]voiceai.ConversationDetail{"conv-1": doneDetail()},
	}
	r := NewReconciler(store, src, nil)

	if _, err := r.Sync(context.Background(), "u1", "agent-1"); err != nil {
		t.Fatalf("first run: %v", err)
	}
	res, err := r.Sync(context.Background(), "u1", "agent-1")
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if len(res.NewConversations) != 0 {
		t.Fatalf("expected second run to add nothing, got %v", res.NewConversations)
	}
	if store.Count() != 1 {
		t.Fatalf("expected a single stored conversation, got %d", store.Count())
	}
}

func TestSync_DeduplicatesWithinRemoteList(t *testing.T) {
	store := newStore()
	src := &fakeSource{
		list:    refs("conv-1", "conv-1", "conv-1"),
		details: map[string]voiceai.ConversationDetail{"conv-1": doneDetail()},
	}
	r := NewReconciler(store, src, nil)

	res, err := r.Sync(context.Background(), "u1", "agent-1")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(res.NewConversations) != 1 || store.Count() != 1 {
		t.Fatalf("expected one persisted conversation, got %v (%d stored)", res.NewConversations, store.Count())
	}
}

func TestSync_SkipsNonTerminalUntilDone(t *testing.T) {
	store := newStore()
	src := &fakeSource{
		list:    refs("conv-1"),
		details: map[string]voiceai.ConversationDetail{"conv-1": {Status: "in_progress"}},
	}
	r := NewReconciler(store, src, nil)

	res, err := r.Sync(context.Background(), "u1", "agent-1")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(res.NewConversations) != 0 || len(res.Skipped) != 0 {
		t.Fatalf("in-flight conversation must be a silent skip, got %+v", res)
	}
	if store.Count() != 0 {
		t.Fatalf("in-flight conversation must not be persisted")
	}

	// The call ends; the next run picks it up.
	src.details["conv-1"] = doneDetail()
	res, err = r.Sync(context.Background(), "u1", "agent-1")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(res.NewConversations) != 1 || store.Count() != 1 {
		t.Fatalf("expected conversation persisted once terminal, got %+v", res)
	}
}

func TestSync_IsolatesPerItemFailures(t *testing.T) {
	store := newStore()
	src := &fakeSource{
		list: refs("conv-1", "conv-2", "conv-3"),
		details: map[string]voiceai.ConversationDetail{
			"conv-1": doneDetail(),
			"conv-3": doneDetail(),
		},
		detailErr: map[string]error{"conv-2": errors.New("boom")},
	}
	r := NewReconciler(store, src, nil)

	res, err := r.Sync(context.Background(), "u1", "agent-1")
	if err != nil {
		t.Fatalf("one bad item must not abort the batch: %v", err)
	}
	if len(res.NewConversations) != 2 {
		t.Fatalf("expected the healthy items persisted, got %v", res.NewConversations)
	}
	if len(res.Skipped) != 1 || res.Skipped[0].ConversationID != "conv-2" {
		t.Fatalf("expected conv-2 reported as skipped, got %v", res.Skipped)
	}
	if res.Skipped[0].Reason == "" {
		t.Fatalf("expected a reason on the skip")
	}
}

func TestSync_AbortsWhenRemoteListFails(t *testing.T) {
	store := newStore()
	src := &fakeSource{listErr: voiceai.ErrRemoteUnavailable}
	r := NewReconciler(store, src, nil)

	_, err := r.Sync(context.Background(), "u1", "agent-1")
	if !errors.Is(err, voiceai.ErrRemoteUnavailable) {
		t.Fatalf("expected remote unavailable, got %v", err)
	}
	if store.Count() != 0 {
		t.Fatalf("a failed list fetch must not write anything")
	}
}

func TestSync_UnknownAgent(t *testing.T) {
	store := NewMemoryStore()
	r := NewReconciler(store, &fakeSource{}, nil)

	_, err := r.Sync(context.Background(), "u1", "nope")
	if !errors.Is(err, ErrAgentNotFound) {
		t.Fatalf("expected ErrAgentNotFound, got %v", err)
	}
}

func TestSync_ForeignAgentReadsAsNotFound(t *testing.T) {
	store := newStore()
	src := &fakeSource{
		list:    refs("conv-1"),
		details: map[string]voiceai.ConversationDetail{"conv-1": doneDetail()},
	}
	r := NewReconciler(store, src, nil)

	_, err := r.Sync(context.Background(), "u2", "agent-1")
	if !errors.Is(err, ErrAgentNotFound) {
		t.Fatalf("expected a foreign agent to read as not found, got %v", err)
	}
	if store.Count() != 0 {
		t.Fatalf("a foreign caller must not trigger any writes")
	}
}

func TestSync_LinksTaskThroughCallID(t *testing.T) {
	store := newStore()
	store.RegisterTaskCall("CA123", "task-1")
	src := &fakeSource{
		list: refs("conv-1"),
		details: map[string]voiceai.ConversationDetail{
			"conv-1": {
				Status:   "done",
				Metadata: json.RawMessage(`{"phone_call":{"call_sid":"CA123"}}`),
			},
		},
	}
	r := NewReconciler(store, src, nil)

	if _, err := r.Sync(context.Background(), "u1", "agent-1"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	convID, status, ok := store.Link("task-1")
	if !ok {
		t.Fatalf("expected task-1 linked")
	}
	if convID != "conv-1" || status != tasks.StatusFinished {
		t.Fatalf("got link (%q, %q)", convID, status)
	}
	c, _ := store.Stored("conv-1")
	if c.TaskID != "task-1" || c.CallID != "CA123" {
		t.Fatalf("expected task and call ids on the row, got %+v", c)
	}
}

func TestSync_UnmatchedCallIDLeavesTasksAlone(t *testing.T) {
	store := newStore()
	src := &fakeSource{
		list: refs("conv-1"),
		details: map[string]voiceai.ConversationDetail{
			"conv-1": {
				Status:   "done",
				Metadata: json.RawMessage(`{"phone_call":{"call_sid":"CA999"}}`),
			},
		},
	}
	r := NewReconciler(store, src, nil)

	res, err := r.Sync(context.Background(), "u1", "agent-1")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(res.NewConversations) != 1 {
		t.Fatalf("conversation must persist even without a matching task")
	}
	c, _ := store.Stored("conv-1")
	if c.TaskID != "" {
		t.Fatalf("expected no task linked, got %q", c.TaskID)
	}
	if len(store.links) != 0 {
		t.Fatalf("no task should have been touched")
	}
}

type recordingAudit struct {
	runs     int
	failures []string
}

func (a *recordingAudit) LogSyncRun(_ context.Context, _ string, _, _ int) error {
	a.runs++
	return nil
}

func (a *recordingAudit) LogSyncItemFailure(_ context.Context, _, conversationID, _ string) error {
	a.failures = append(a.failures, conversationID)
	return nil
}

func TestSync_NotifiesAuditSink(t *testing.T) {
	store := newStore()
	src := &fakeSource{
		list:      refs("conv-1", "conv-2"),
		details:   map[string]voiceai.ConversationDetail{"conv-1": doneDetail()},
		detailErr: map[string]error{"conv-2": errors.New("boom")},
	}
	sink := &recordingAudit{}
	r := NewReconciler(store, src, sink)

	if _, err := r.Sync(context.Background(), "u1", "agent-1"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if sink.runs != 1 {
		t.Fatalf("expected one run event, got %d", sink.runs)
	}
	if len(sink.failures) != 1 || sink.failures[0] != "conv-2" {
		t.Fatalf("expected conv-2 failure audited, got %v", sink.failures)
	}
}
