package conversations

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"voiceagent-platform/internal/auth"
	"voiceagent-platform/internal/voiceai"

	"github.com/gin-gonic/gin"
)

func syncRequestFor(t *testing.T, userID, agentID string) (*httptest.ResponseRecorder, *gin.Context) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(http.MethodPost, "/v1/agents/sync", strings.NewReader(`{"agent_id":"`+agentID+`"}`))
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req = req.WithContext(auth.WithIdentity(req.Context(), userID))
	}
	c.Request = req
	return w, c
}

func TestSyncHandler_RunsAndReleasesLock(t *testing.T) {
	store := newStore()
	src := &fakeSource{
		list:    refs("conv-1"),
		details: map[string]voiceai.ConversationDetail{"conv-1": doneDetail()},
	}
	locks := NewMemoryAgentLocks()
	h := Handlers{Reconciler: NewReconciler(store, src, nil), Locks: locks}

	w, c := syncRequestFor(t, "u1", "agent-1")
	h.Sync(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var body struct {
		Success          bool     `json:"success"`
		NewConversations []string `json:"newConversations"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !body.Success || len(body.NewConversations) != 1 {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}

	// Lock must be free again after the run.
	if _, ok, _ := locks.Acquire(context.Background(), "agent-1"); !ok {
		t.Fatalf("expected the lock released after a completed sync")
	}
}

func TestSyncHandler_BusyAgentGets409(t *testing.T) {
	locks := NewMemoryAgentLocks()
	if _, ok, err := locks.Acquire(context.Background(), "agent-1"); !ok || err != nil {
		t.Fatalf("setup acquire failed: ok=%v err=%v", ok, err)
	}

	h := Handlers{Reconciler: NewReconciler(newStore(), &fakeSource{}, nil), Locks: locks}
	w, c := syncRequestFor(t, "u1", "agent-1")
	h.Sync(c)

	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 while another sync holds the agent, got %d", w.Code)
	}
}

func TestSyncHandler_ForeignAgentGets404(t *testing.T) {
	store := newStore()
	h := Handlers{Reconciler: NewReconciler(store, &fakeSource{}, nil), Locks: NewMemoryAgentLocks()}

	w, c := syncRequestFor(t, "u2", "agent-1")
	h.Sync(c)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for an agent the caller does not own, got %d", w.Code)
	}
	if store.Count() != 0 {
		t.Fatalf("a foreign caller must not trigger any writes")
	}
}

func TestSyncHandler_RequiresIdentity(t *testing.T) {
	h := Handlers{Reconciler: NewReconciler(newStore(), &fakeSource{}, nil), Locks: NewMemoryAgentLocks()}

	w, c := syncRequestFor(t, "", "agent-1")
	h.Sync(c)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without identity, got %d", w.Code)
	}
}

func TestMemoryAgentLocks_ExclusivePerAgent(t *testing.T) {
	locks := NewMemoryAgentLocks()
	ctx := context.Background()

	release, ok, err := locks.Acquire(ctx, "agent-1")
	if !ok || err != nil {
		t.Fatalf("first acquire: ok=%v err=%v", ok, err)
	}

	if _, ok, _ := locks.Acquire(ctx, "agent-1"); ok {
		t.Fatalf("second acquire must fail while the first holder is live")
	}
	// A different agent is unaffected.
	if _, ok, _ := locks.Acquire(ctx, "agent-2"); !ok {
		t.Fatalf("locks must be scoped per agent")
	}

	release(ctx)
	if _, ok, _ := locks.Acquire(ctx, "agent-1"); !ok {
		t.Fatalf("release must free the agent for the next run")
	}
}
