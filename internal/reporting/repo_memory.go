package reporting

import (
	"context"
	"errors"
	"sync"
	"time"

	"voiceagent-platform/internal/tasks"
)

// MemoryRepo is a simple in-memory reporting repository for tests and early
// development. It enforces ownership isolation on reads.

type MemoryRepo struct {
	mu sync.Mutex

	Tasks       []tasks.Task
	AgentOwners map[string]string // agent id -> user id

	ConversationAgents []memConversation
}

type memConversation struct {
	AgentID   string
	TaskID    string
	CreatedAt time.Time
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{AgentOwners: map[string]string{}}
}

// AddConversation records a conversation for aggregation.
func (r *MemoryRepo) AddConversation(agentID, taskID string, createdAt time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ConversationAgents = append(r.ConversationAgents, memConversation{AgentID: agentID, TaskID: taskID, CreatedAt: createdAt})
}

func (r *MemoryRepo) ListTasks(_ context.Context, userID, agentID string, from, to time.Time) ([]tasks.Task, error) {
	if userID == "" {
		return nil, errors.New("user_id required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.AgentOwners[agentID] != userID {
		return nil, ErrNotFound
	}
	out := make([]tasks.Task, 0)
	for _, t := range r.Tasks {
		if t.AgentID != agentID {
			continue
		}
		if !t.CreatedAt.IsZero() {
			if t.CreatedAt.Before(from) || !t.CreatedAt.Before(to) {
				continue
			}
		}
		out = append(out, t)
	}
	return out, nil
}

func (r *MemoryRepo) CountConversations(_ context.Context, agentID string, from, to time.Time) (int, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var total, linked int
	for _, c := range r.ConversationAgents {
		if c.AgentID != agentID {
			continue
		}
		if !c.CreatedAt.IsZero() {
			if c.CreatedAt.Before(from) || !c.CreatedAt.Before(to) {
				continue
			}
		}
		total++
		if c.TaskID != "" {
			linked++
		}
	}
	return total, linked, nil
}
