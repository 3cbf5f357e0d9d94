package agents

import (
	"context"
	"sync"
)

// MemoryRepo is an in-memory Repository useful for tests.
// It is not intended for production use.

type MemoryRepo struct {
	mu     sync.Mutex
	agents map[string]Agent
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{agents: make(map[string]Agent)}
}

func (r *MemoryRepo) Create(ctx context.Context, a Agent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.agents[a.ID] = a
	return nil
}

func (r *MemoryRepo) GetOwned(ctx context.Context, userID, agentID string) (Agent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.agents[agentID]
	if !ok || a.UserID != userID {
		return Agent{}, ErrNotFound
	}
	return a, nil
}

func (r *MemoryRepo) ListByUser(ctx context.Context, userID string) ([]Agent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Agent
	for _, a := range r.agents {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}
