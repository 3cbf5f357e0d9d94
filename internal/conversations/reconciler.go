package conversations

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"voiceagent-platform/pkg/logger"

	"github.com/google/uuid"
)

// AuditSink receives best-effort audit notifications from sync runs.
// Failures to audit never affect the run itself.
type AuditSink interface {
	LogSyncRun(ctx context.Context, agentID string, newCount, skippedCount int) error
	LogSyncItemFailure(ctx context.Context, agentID, conversationID, reason string) error
}

// SkippedConversation reports one conversation the run could not persist.
// Conversations skipped because they are still in flight are not listed;
// they are expected to appear in a later run.
type SkippedConversation struct {
	ConversationID string `json:"conversation_id"`
	Reason         string `json:"reason"`
}

// SyncResult is the outcome of one reconciliation run.
type SyncResult struct {
	NewConversations []string              `json:"newConversations"`
	Skipped          []SkippedConversation `json:"skipped"`
}

// Reconciler pulls the remote conversation list for an agent, diffs it
// against local state, and persists every unseen terminal conversation,
// linking tasks through the telephony call id where possible.
//
// Failure policy: resolving the agent and fetching the remote list are
// fatal, since a partial list cannot be diffed safely. Everything after that is
// isolated per conversation: one bad record is logged and skipped, the rest
// of the batch proceeds.
type Reconciler struct {
	store  Store
	source Source
	audit  AuditSink
	clock  func() time.Time
}

func NewReconciler(store Store, source Source, auditSink AuditSink) *Reconciler {
	return &Reconciler{
		store:  store,
		source: source,
		audit:  auditSink,
		clock:  time.Now,
	}
}

// Sync runs one reconciliation pass for an agent the user owns.
func (r *Reconciler) Sync(ctx context.Context, userID, agentID string) (SyncResult, error) {
	log := logger.From(ctx).With("agent_id", agentID)

	remoteAgentID, err := r.store.AgentRemoteID(ctx, userID, agentID)
	if err != nil {
		return SyncResult{}, err
	}

	existing, err := r.store.ExistingConversationIDs(ctx, agentID)
	if err != nil {
		return SyncResult{}, fmt.Errorf("%w: loading existing conversations: %v", ErrStore, err)
	}
	log.Debug("loaded existing conversations", "count", len(existing))

	list, err := r.source.ListConversations(ctx, remoteAgentID)
	if err != nil {
		// Without the full remote list the diff is meaningless; abort.
		return SyncResult{}, fmt.Errorf("fetching remote conversation list: %w", err)
	}
	log.Debug("fetched remote conversations", "count", len(list.Conversations))

	result := SyncResult{NewConversations: []string{}, Skipped: []SkippedConversation{}}

	for _, ref := range list.Conversations {
		convID := ref.ConversationID
		if convID == "" {
			continue
		}
		if _, seen := existing[convID]; seen {
			continue
		}
		// Guard against duplicates within one remote list response.
		existing[convID] = struct{}{}

		if skipped, reason := r.syncOne(ctx, log, agentID, convID); skipped {
			if reason != "" {
				result.Skipped = append(result.Skipped, SkippedConversation{ConversationID: convID, Reason: reason})
				r.auditItemFailure(ctx, agentID, convID, reason)
			}
			continue
		}
		result.NewConversations = append(result.NewConversations, convID)
	}

	if r.audit != nil {
		if err := r.audit.LogSyncRun(ctx, agentID, len(result.NewConversations), len(result.Skipped)); err != nil {
			log.Warn("sync audit failed", "err", err)
		}
	}
	return result, nil
}

// syncOne processes a single unseen conversation. skipped=true with an empty
// reason means a benign skip (conversation still in flight); a non-empty
// reason means an isolated failure worth reporting.
func (r *Reconciler) syncOne(ctx context.Context, log *slog.Logger, agentID, convID string) (skipped bool, reason string) {
	itemLog := log.With("conversation_id", convID)

	detail, err := r.source.ConversationDetail(ctx, convID)
	if err != nil {
		itemLog.Error("conversation detail fetch failed", "err", err)
		return true, "detail fetch failed"
	}

	if !IsTerminalRemoteStatus(detail.Status) {
		// Still in flight; absent from local state it will be picked up
		// by a later run once terminal.
		itemLog.Debug("skipping non-terminal conversation", "status", detail.Status)
		return true, ""
	}

	callID, _ := ExtractCallID(detail.Metadata)

	var taskID string
	if callID != "" {
		id, found, err := r.store.FindTaskByCallID(ctx, callID)
		if err != nil {
			itemLog.Error("task lookup failed", "call_id", callID, "err", err)
			return true, "task lookup failed"
		}
		if found {
			taskID = id
		}
	}

	inserted, err := r.store.InsertConversation(ctx, Conversation{
		ID:             uuid.NewString(),
		ConversationID: convID,
		CallID:         callID,
		AgentID:        agentID,
		TaskID:         taskID,
		Status:         detail.Status,
		Transcript:     detail.Transcript,
		Metadata:       detail.Metadata,
		Analysis:       detail.Analysis,
		CreatedAt:      r.clock().UTC(),
	})
	if err != nil {
		itemLog.Error("conversation insert failed", "err", err)
		return true, "insert failed"
	}
	if !inserted {
		// Lost a race with a concurrent run; the row exists, nothing to report.
		itemLog.Debug("conversation already stored")
		return true, ""
	}

	if taskID != "" {
		status := MapRemoteStatus(detail.Status)
		if err := r.store.LinkTask(ctx, taskID, convID, status); err != nil {
			// The conversation itself is persisted; only the link failed.
			itemLog.Error("task link failed", "task_id", taskID, "err", err)
			r.auditItemFailure(ctx, agentID, convID, "task link failed")
		} else {
			itemLog.Info("task linked", "task_id", taskID, "status", status)
		}
	}

	return false, ""
}

func (r *Reconciler) auditItemFailure(ctx context.Context, agentID, convID, reason string) {
	if r.audit == nil {
		return
	}
	_ = r.audit.LogSyncItemFailure(ctx, agentID, convID, reason)
}
