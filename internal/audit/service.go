package audit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Repository is the persistence contract for audit events.
//
// It MUST be append-only.
// No Update/Delete methods are provided by design.

type Repository interface {
	Append(ctx context.Context, e Event) error
}

// Service records internal sync audit information.
//
// IMPORTANT:
// - Audit is internal-only. Do not expose these records to users by default.
// - Callers should treat audit logging as best-effort.

type Service struct {
	repo  Repository
	clock func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, clock: time.Now}
}

var ErrInvalidEvent = errors.New("audit: invalid event")

func (s *Service) Append(ctx context.Context, e Event) error {
	if s.repo == nil {
		return errors.New("audit: repository not configured")
	}
	if e.AgentID == "" {
		return ErrInvalidEvent
	}
	if e.Type == "" {
		return ErrInvalidEvent
	}

	now := s.clock().UTC()
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	return s.repo.Append(ctx, e)
}

// LogSyncRun records the outcome of one reconciliation run.
func (s *Service) LogSyncRun(ctx context.Context, agentID string, newCount, skippedCount int) error {
	return s.Append(ctx, Event{
		AgentID: agentID,
		Type:    EventTypeSyncRun,
		Message: fmt.Sprintf("synced %d new conversations, %d skipped", newCount, skippedCount),
	})
}

// LogSyncItemFailure records one isolated per-conversation failure.
func (s *Service) LogSyncItemFailure(ctx context.Context, agentID, conversationID, reason string) error {
	return s.Append(ctx, Event{
		AgentID:        agentID,
		Type:           EventTypeSyncItemFailure,
		ConversationID: conversationID,
		Message:        reason,
	})
}
