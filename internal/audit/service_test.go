package audit

import (
	"context"
	"testing"
)

func TestService_AppendRequiresAgentAndType(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo)

	if err := svc.Append(context.Background(), Event{Type: EventTypeSyncRun}); err == nil {
		t.Fatalf("expected error")
	}
	if err := svc.Append(context.Background(), Event{AgentID: "a"}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestService_AppendsImmutableEvents(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo)

	if err := svc.LogSyncItemFailure(context.Background(), "agent-1", "conv-1", "detail fetch failed"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	evs := repo.Events()
	if len(evs) != 1 {
		t.Fatalf("expected 1 event")
	}
	if evs[0].ConversationID != "conv-1" {
		t.Fatalf("expected conversation captured")
	}
	if evs[0].Type != EventTypeSyncItemFailure {
		t.Fatalf("expected sync_item_failure")
	}
	if evs[0].ID == "" || evs[0].CreatedAt.IsZero() {
		t.Fatalf("expected id and timestamp to be filled")
	}
}

func TestService_LogSyncRun(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo)

	if err := svc.LogSyncRun(context.Background(), "agent-1", 3, 1); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	evs := repo.Events()
	if len(evs) != 1 || evs[0].Type != EventTypeSyncRun {
		t.Fatalf("expected sync_run event, got %+v", evs)
	}
}
