package reporting

import (
	"context"
	"errors"
	"time"

	"voiceagent-platform/internal/tasks"
)

var (
	ErrInvalidRequest = errors.New("reporting: invalid request")
	ErrNotFound       = errors.New("reporting: agent not found")
)

// Repository abstracts data access for reporting.
//
// Implementations must enforce ownership filtering: an agent another user
// owns reads as not-found, never as an empty summary.
type Repository interface {
	ListTasks(ctx context.Context, userID, agentID string, from, to time.Time) ([]tasks.Task, error)

	// CountConversations returns the stored conversation count for the
	// agent and how many of those are linked back to a task.
	CountConversations(ctx context.Context, agentID string, from, to time.Time) (total, linked int, err error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service { return &Service{repo: repo} }

func (s *Service) AgentSummary(ctx context.Context, req AgentSummaryRequest) (AgentSummary, error) {
	if req.UserID == "" || req.AgentID == "" {
		return AgentSummary{}, ErrInvalidRequest
	}
	if req.Range.From.IsZero() || req.Range.To.IsZero() || !req.Range.To.After(req.Range.From) {
		return AgentSummary{}, ErrInvalidRequest
	}
	if s.repo == nil {
		return AgentSummary{}, errors.New("reporting: repository not configured")
	}

	rows, err := s.repo.ListTasks(ctx, req.UserID, req.AgentID, req.Range.From, req.Range.To)
	if err != nil {
		return AgentSummary{}, err
	}

	out := AgentSummary{AgentID: req.AgentID}
	for _, t := range rows {
		out.TotalTasks++
		switch t.Status {
		case tasks.StatusIdle:
			out.IdleTasks++
		case tasks.StatusProcessing:
			out.ProcessingTasks++
		case tasks.StatusFinished:
			out.FinishedTasks++
		case tasks.StatusFailed:
			out.FailedTasks++
		case tasks.StatusUnknown:
			out.UnknownTasks++
		}
	}

	total, linked, err := s.repo.CountConversations(ctx, req.AgentID, req.Range.From, req.Range.To)
	if err != nil {
		return AgentSummary{}, err
	}
	out.TotalConversations = total
	out.LinkedConversations = linked

	if attempted := out.TotalTasks - out.IdleTasks; attempted > 0 {
		out.CompletionRate = float64(out.FinishedTasks) / float64(attempted)
	}
	return out, nil
}
