package conversations

import (
	"encoding/json"
	"time"
)

// Conversation mirrors one remote call record. ConversationID is the remote
// system's globally unique identifier and the dedup key: a conversation is
// inserted exactly once and never mutated afterwards; only the linked task's
// status and conversation_id change on a successful link.
//
// Status is the raw remote string, deliberately distinct from the task's
// normalized enum.
type Conversation struct {
	ID             string          `json:"id"`
	ConversationID string          `json:"conversation_id"`
	CallID         string          `json:"call_id,omitempty"`
	AgentID        string          `json:"agent_id"`
	TaskID         string          `json:"task_id,omitempty"`
	Status         string          `json:"status"`
	Transcript     json.RawMessage `json:"transcript,omitempty"`
	Metadata       json.RawMessage `json:"metadata,omitempty"`
	Analysis       json.RawMessage `json:"analysis,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}
