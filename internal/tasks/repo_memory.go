package tasks

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MemoryRepo is an in-memory Repository useful for tests. Ownership checks
// require knowing which user owns which agent, so owners are registered
// explicitly.
type MemoryRepo struct {
	mu          sync.Mutex
	tasks       map[string]Task
	agentOwners map[string]string // agent id -> user id
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		tasks:       make(map[string]Task),
		agentOwners: make(map[string]string),
	}
}

// RegisterAgentOwner declares which user owns an agent so ownership-scoped
// reads behave like the SQL join.
func (r *MemoryRepo) RegisterAgentOwner(agentID, userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.agentOwners[agentID] = userID
}

func (r *MemoryRepo) Create(ctx context.Context, t Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks[t.ID] = t
	return nil
}

func (r *MemoryRepo) GetOwned(ctx context.Context, userID, taskID string) (Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[taskID]
	if !ok || r.agentOwners[t.AgentID] != userID {
		return Task{}, ErrNotFound
	}
	return t, nil
}

func (r *MemoryRepo) ListByAgent(ctx context.Context, userID, agentID string) ([]Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.agentOwners[agentID] != userID {
		return nil, nil
	}
	var out []Task
	for _, t := range r.tasks {
		if t.AgentID == agentID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *MemoryRepo) SetStatus(ctx context.Context, taskID string, to Status, callID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[taskID]
	if !ok {
		return ErrNotFound
	}
	if !CanTransition(t.Status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, t.Status, to)
	}
	t.Status = to
	if callID != "" {
		t.CallID = callID
	}
	t.UpdatedAt = time.Now().UTC()
	r.tasks[taskID] = t
	return nil
}

// Get returns a task without ownership checks; test helper.
func (r *MemoryRepo) Get(taskID string) (Task, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[taskID]
	return t, ok
}
