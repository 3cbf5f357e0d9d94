package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"voiceagent-platform/internal/agents"
	"voiceagent-platform/internal/profiles"
	"voiceagent-platform/internal/voiceai"

	"github.com/google/uuid"
)

var (
	ErrInvalidArgument   = errors.New("tasks: invalid argument")
	ErrNotFound          = errors.New("tasks: not found")
	ErrInvalidTransition = errors.New("tasks: invalid status transition")
)

// Repository is the persistence contract for tasks.
type Repository interface {
	Create(ctx context.Context, t Task) error
	GetOwned(ctx context.Context, userID, taskID string) (Task, error)
	ListByAgent(ctx context.Context, userID, agentID string) ([]Task, error)

	// SetStatus applies a guarded transition. callID, when non-empty, is
	// recorded alongside the new status. Fails with ErrInvalidTransition
	// when the lifecycle would move backwards.
	SetStatus(ctx context.Context, taskID string, to Status, callID string) error
}

// AgentSource resolves agents owned by a user.
type AgentSource interface {
	GetOwned(ctx context.Context, userID, agentID string) (agents.Agent, error)
}

// CallPlacer places outbound calls through the remote system.
type CallPlacer interface {
	OutboundCall(ctx context.Context, req voiceai.OutboundCallRequest) (voiceai.OutboundCallResult, error)
}

type Service struct {
	repo     Repository
	agents   AgentSource
	profiles profiles.Repository
	caller   CallPlacer
	clock    func() time.Time
}

func NewService(repo Repository, agentSrc AgentSource, profileRepo profiles.Repository, caller CallPlacer) *Service {
	return &Service{
		repo:     repo,
		agents:   agentSrc,
		profiles: profileRepo,
		caller:   caller,
		clock:    time.Now,
	}
}

type CreateTaskRequest struct {
	AgentID       string `json:"agent_id"`
	Name          string `json:"name,omitempty"`
	ToPhoneNumber string `json:"to_phone_number"`
}

// Create records a new task in idle state for an agent the user owns.
func (s *Service) Create(ctx context.Context, userID string, req CreateTaskRequest) (Task, error) {
	if userID == "" || req.AgentID == "" {
		return Task{}, ErrInvalidArgument
	}
	if req.ToPhoneNumber == "" {
		return Task{}, fmt.Errorf("%w: to_phone_number is required", ErrInvalidArgument)
	}
	if _, err := s.agents.GetOwned(ctx, userID, req.AgentID); err != nil {
		return Task{}, err
	}

	now := s.clock().UTC()
	t := Task{
		ID:            uuid.NewString(),
		AgentID:       req.AgentID,
		Name:          req.Name,
		ToPhoneNumber: req.ToPhoneNumber,
		Status:        StatusIdle,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return Task{}, err
	}
	return t, nil
}

func (s *Service) Get(ctx context.Context, userID, taskID string) (Task, error) {
	if userID == "" || taskID == "" {
		return Task{}, ErrInvalidArgument
	}
	return s.repo.GetOwned(ctx, userID, taskID)
}

func (s *Service) ListByAgent(ctx context.Context, userID, agentID string) ([]Task, error) {
	if userID == "" || agentID == "" {
		return nil, ErrInvalidArgument
	}
	return s.repo.ListByAgent(ctx, userID, agentID)
}

// InitiateCall places the outbound call for an idle task. On success the task
// carries the telephony call sid and moves to processing; any failure before
// or during call placement marks the task failed so it never sits idle with a
// half-placed call behind it.
func (s *Service) InitiateCall(ctx context.Context, userID, taskID string) (Task, error) {
	if userID == "" || taskID == "" {
		return Task{}, ErrInvalidArgument
	}

	t, err := s.repo.GetOwned(ctx, userID, taskID)
	if err != nil {
		return Task{}, err
	}
	if t.Status != StatusIdle {
		return Task{}, fmt.Errorf("%w: task %s is %s", ErrInvalidTransition, t.ID, t.Status)
	}

	agent, err := s.agents.GetOwned(ctx, userID, t.AgentID)
	if err != nil {
		s.markFailed(ctx, t.ID)
		return Task{}, err
	}

	prof, err := s.profiles.Get(ctx, userID)
	if err != nil || prof.PhoneNumberID == "" {
		s.markFailed(ctx, t.ID)
		if err == nil {
			err = profiles.ErrNotFound
		}
		return Task{}, fmt.Errorf("tasks: phone number not configured: %w", err)
	}

	res, err := s.caller.OutboundCall(ctx, voiceai.OutboundCallRequest{
		AgentID:            agent.RemoteAgentID,
		AgentPhoneNumberID: prof.PhoneNumberID,
		ToNumber:           t.ToPhoneNumber,
	})
	if err != nil {
		s.markFailed(ctx, t.ID)
		return Task{}, err
	}

	if err := s.repo.SetStatus(ctx, t.ID, StatusProcessing, res.CallSid); err != nil {
		return Task{}, err
	}

	t.Status = StatusProcessing
	t.CallID = res.CallSid
	t.UpdatedAt = s.clock().UTC()
	return t, nil
}

// markFailed is best-effort bookkeeping on an initiation failure path; the
// original error is what the caller needs to see.
func (s *Service) markFailed(ctx context.Context, taskID string) {
	_ = s.repo.SetStatus(ctx, taskID, StatusFailed, "")
}
