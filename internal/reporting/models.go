package reporting

import "time"

// Common filtering inputs.

type TimeRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// AgentSummaryRequest requests aggregated task and conversation metrics for
// one agent. Ownership isolation: UserID is required.

type AgentSummaryRequest struct {
	UserID  string    `json:"-"`
	AgentID string    `json:"agent_id"`
	Range   TimeRange `json:"range"`
}

type AgentSummary struct {
	AgentID string `json:"agent_id"`

	TotalTasks      int `json:"total_tasks"`
	IdleTasks       int `json:"idle_tasks"`
	ProcessingTasks int `json:"processing_tasks"`
	FinishedTasks   int `json:"finished_tasks"`
	FailedTasks     int `json:"failed_tasks"`
	UnknownTasks    int `json:"unknown_tasks"`

	TotalConversations  int `json:"total_conversations"`
	LinkedConversations int `json:"linked_conversations"`

	// CompletionRate is finished tasks over tasks that left idle.
	CompletionRate float64 `json:"completion_rate"`
}
