package tasks

import "time"

// Status is the normalized task lifecycle state.
//
// Transitions:
//   idle -> processing        (call initiated)
//   idle -> failed            (initiation failed before the call was placed)
//   processing -> finished    (reconciliation, remote "done")
//   processing -> failed      (reconciliation, remote "failed")
//   processing -> unknown     (reconciliation, unrecognized remote status)
//
// Terminal states never revert.
type Status string

const (
	StatusIdle       Status = "idle"
	StatusProcessing Status = "processing"
	StatusFinished   Status = "finished"
	StatusFailed     Status = "failed"
	StatusUnknown    Status = "unknown"
)

func (s Status) Valid() bool {
	switch s {
	case StatusIdle, StatusProcessing, StatusFinished, StatusFailed, StatusUnknown:
		return true
	default:
		return false
	}
}

// Terminal reports whether the task has reached a final state.
func (s Status) Terminal() bool {
	switch s {
	case StatusFinished, StatusFailed, StatusUnknown:
		return true
	default:
		return false
	}
}

// CanTransition enforces the forward-only lifecycle above.
func CanTransition(from, to Status) bool {
	if !from.Valid() || !to.Valid() || from == to {
		return false
	}
	switch from {
	case StatusIdle:
		return to == StatusProcessing || to == StatusFailed
	case StatusProcessing:
		return to.Terminal()
	default:
		return false
	}
}

// Task is one outbound-call work item scoped to an agent.
//
// CallID is set once a call is initiated remotely; ConversationID is set once
// reconciliation links a remote conversation back to this task.
type Task struct {
	ID             string    `json:"id"`
	AgentID        string    `json:"agent_id"`
	Name           string    `json:"name,omitempty"`
	ToPhoneNumber  string    `json:"to_phone_number"`
	Status         Status    `json:"status"`
	CallID         string    `json:"call_id,omitempty"`
	ConversationID string    `json:"conversation_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
