package conversations

import (
	"context"
	"sync"
	"time"

	"voiceagent-platform/pkg/logger"
	"voiceagent-platform/pkg/utils"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// syncLockTTL bounds how long a crashed sync can block its agent.
const syncLockTTL = 2 * time.Minute

// AgentLocks serializes sync runs per agent. Acquire returns ok=false when
// another run holds the agent; release is a no-op if the holder's lease
// already expired.
type AgentLocks interface {
	Acquire(ctx context.Context, agentID string) (release func(context.Context), ok bool, err error)
}

// RedisAgentLocks backs AgentLocks with the token-guarded redis lock, so the
// serialization holds across processes.
type RedisAgentLocks struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisAgentLocks(rdb *redis.Client) *RedisAgentLocks {
	return &RedisAgentLocks{rdb: rdb, ttl: syncLockTTL}
}

func (l *RedisAgentLocks) Acquire(ctx context.Context, agentID string) (func(context.Context), bool, error) {
	key := "sync:conversations:" + agentID
	token := uuid.NewString()
	ok, err := utils.AcquireSyncLock(ctx, l.rdb, key, token, l.ttl)
	if err != nil || !ok {
		return nil, false, err
	}
	release := func(ctx context.Context) {
		if err := utils.ReleaseSyncLock(ctx, l.rdb, key, token); err != nil {
			logger.From(ctx).Warn("sync lock release failed", "agent_id", agentID, "err", err)
		}
	}
	return release, true, nil
}

// MemoryAgentLocks is a single-process AgentLocks for tests. It mirrors the
// redis semantics: exclusive per key, release guarded by the holder's token.
type MemoryAgentLocks struct {
	mu   sync.Mutex
	held map[string]string // agent id -> holder token
}

func NewMemoryAgentLocks() *MemoryAgentLocks {
	return &MemoryAgentLocks{held: make(map[string]string)}
}

func (l *MemoryAgentLocks) Acquire(_ context.Context, agentID string) (func(context.Context), bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, busy := l.held[agentID]; busy {
		return nil, false, nil
	}
	token := uuid.NewString()
	l.held[agentID] = token

	release := func(context.Context) {
		l.mu.Lock()
		defer l.mu.Unlock()
		if l.held[agentID] == token {
			delete(l.held, agentID)
		}
	}
	return release, true, nil
}
