package audit

import "time"

// Event is an immutable, append-only sync audit record.
//
// Invariants:
// - Events are never updated or deleted.
// - agent_id is required; every audited action happens in the scope of one agent.
// - Audit capture is best-effort; do not block sync flows on audit failures.
//
// Storage recommendation (Postgres):
// - Table audit_events with an INSERT-only policy.
// - Optional: trigger to prevent UPDATE/DELETE.
// - Optional: partition by time for retention.

type Event struct {
	ID      string `json:"id" db:"id"`
	AgentID string `json:"agent_id" db:"agent_id"`

	// Type indicates the business category of the audit record.
	Type EventType `json:"type" db:"type"`

	// Target identifiers (optional, depending on the event type).
	ConversationID string `json:"conversation_id,omitempty" db:"conversation_id"`
	TaskID         string `json:"task_id,omitempty" db:"task_id"`

	// Message is a short human-readable description for internal ops.
	Message string `json:"message,omitempty" db:"message"`

	// Metadata is optional JSON for full details.
	Metadata string `json:"metadata,omitempty" db:"metadata"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type EventType string

const (
	EventTypeSyncRun         EventType = "sync_run"
	EventTypeSyncItemFailure EventType = "sync_item_failure"
)
