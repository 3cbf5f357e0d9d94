package conversations

import (
	"context"
	"errors"

	"voiceagent-platform/internal/tasks"
	"voiceagent-platform/internal/voiceai"
)

var (
	// ErrAgentNotFound aborts a sync run: without the agent's remote
	// identifier there is nothing to reconcile against.
	ErrAgentNotFound = errors.New("conversations: agent not found")

	// ErrStore marks a local persistence failure. Isolated per
	// conversation; a single bad write must not abort the batch.
	ErrStore = errors.New("conversations: store failure")
)

// Store is the only component permitted to read or write the local
// conversation and task rows during reconciliation.
type Store interface {
	// AgentRemoteID resolves a local agent id to the remote agent id,
	// scoped to the owning user. Returns ErrAgentNotFound when the agent
	// (or its remote pointer) is missing or owned by someone else.
	AgentRemoteID(ctx context.Context, userID, agentID string) (string, error)

	// ExistingConversationIDs returns the remote conversation ids already
	// stored for this agent. Used purely for dedup; order irrelevant.
	ExistingConversationIDs(ctx context.Context, agentID string) (map[string]struct{}, error)

	// FindTaskByCallID returns the task whose call_id matches, if any.
	// Zero matches is not an error; found=false distinguishes a miss
	// from a query failure.
	FindTaskByCallID(ctx context.Context, callID string) (taskID string, found bool, err error)

	// InsertConversation persists a conversation exactly once. A
	// duplicate remote conversation id is a success-no-op reported as
	// inserted=false; the guarantee must come from a uniqueness
	// constraint on the write path, not a pre-check.
	InsertConversation(ctx context.Context, c Conversation) (inserted bool, err error)

	// LinkTask sets the task's conversation_id and normalized status.
	LinkTask(ctx context.Context, taskID, conversationID string, status tasks.Status) error
}

// Source is the remote side of reconciliation. Implemented by
// voiceai.Client; fakes stand in for tests.
type Source interface {
	ListConversations(ctx context.Context, remoteAgentID string) (voiceai.ConversationList, error)
	ConversationDetail(ctx context.Context, conversationID string) (voiceai.ConversationDetail, error)
}
