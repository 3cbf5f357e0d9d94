package agents

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"voiceagent-platform/internal/voiceai"

	"github.com/google/uuid"
)

var (
	ErrInvalidArgument = errors.New("agents: invalid argument")
	ErrNotFound        = errors.New("agents: not found")
)

// Repository is the persistence contract for agents.
// All reads are scoped to the owning user.
type Repository interface {
	Create(ctx context.Context, a Agent) error
	GetOwned(ctx context.Context, userID, agentID string) (Agent, error)
	ListByUser(ctx context.Context, userID string) ([]Agent, error)
}

// RemoteAgents is the subset of the voiceai client used by this service.
type RemoteAgents interface {
	CreateAgent(ctx context.Context, req voiceai.CreateAgentRequest) (voiceai.CreateAgentResult, error)
	GetAgent(ctx context.Context, remoteAgentID string) (json.RawMessage, error)
	UpdateAgent(ctx context.Context, remoteAgentID string, updates json.RawMessage) (json.RawMessage, error)
}

type Service struct {
	repo   Repository
	remote RemoteAgents
	clock  func() time.Time
}

func NewService(repo Repository, remote RemoteAgents) *Service {
	return &Service{repo: repo, remote: remote, clock: time.Now}
}

// Create provisions a remote agent and mirrors it locally. The remote call
// happens first: a local row without a remote counterpart would be useless.
func (s *Service) Create(ctx context.Context, userID string, req CreateAgentRequest) (Agent, error) {
	if userID == "" {
		return Agent{}, ErrInvalidArgument
	}
	if req.Name == "" {
		return Agent{}, fmt.Errorf("%w: name is required", ErrInvalidArgument)
	}
	if req.Language == "" {
		req.Language = DefaultLanguage
	}
	if !isSupported(SupportedLanguages, req.Language) {
		return Agent{}, fmt.Errorf("%w: unsupported language %q", ErrInvalidArgument, req.Language)
	}
	if req.LLMModel == "" {
		req.LLMModel = DefaultLLMModel
	}
	if !isSupported(SupportedModels, req.LLMModel) {
		return Agent{}, fmt.Errorf("%w: unsupported model %q", ErrInvalidArgument, req.LLMModel)
	}
	if req.VoiceID == "" {
		req.VoiceID = DefaultVoiceID
	}
	if req.FirstMessage == "" {
		req.FirstMessage = fmt.Sprintf("Hi, I'm %s. How can I help you today?", req.Name)
	}

	created, err := s.remote.CreateAgent(ctx, voiceai.CreateAgentRequest{
		ConversationConfig: voiceai.ConversationConfig{
			Agent: voiceai.AgentConfig{
				FirstMessage: req.FirstMessage,
				Language:     req.Language,
				Prompt: voiceai.PromptConfig{
					Prompt: req.Prompt,
					LLM:    req.LLMModel,
				},
			},
			TTS: voiceai.TTSConfig{VoiceID: req.VoiceID},
		},
		Name:        req.Name,
		Description: fmt.Sprintf("Voice agent named %s", req.Name),
	})
	if err != nil {
		return Agent{}, err
	}
	if created.AgentID == "" {
		return Agent{}, fmt.Errorf("agents: remote create returned no agent id")
	}

	now := s.clock().UTC()
	a := Agent{
		ID:            uuid.NewString(),
		UserID:        userID,
		Name:          req.Name,
		RemoteAgentID: created.AgentID,
		Language:      req.Language,
		LLMModel:      req.LLMModel,
		Prompt:        req.Prompt,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return Agent{}, err
	}
	return a, nil
}

func (s *Service) Get(ctx context.Context, userID, agentID string) (Agent, error) {
	if userID == "" || agentID == "" {
		return Agent{}, ErrInvalidArgument
	}
	return s.repo.GetOwned(ctx, userID, agentID)
}

func (s *Service) List(ctx context.Context, userID string) ([]Agent, error) {
	if userID == "" {
		return nil, ErrInvalidArgument
	}
	return s.repo.ListByUser(ctx, userID)
}

// RemoteConfig fetches the remote agent configuration verbatim for an agent
// the user owns.
func (s *Service) RemoteConfig(ctx context.Context, userID, agentID string) (json.RawMessage, error) {
	a, err := s.Get(ctx, userID, agentID)
	if err != nil {
		return nil, err
	}
	return s.remote.GetAgent(ctx, a.RemoteAgentID)
}

// UpdateRemoteConfig relays a partial configuration update to the remote
// system for an agent the user owns. The updates payload is opaque here.
func (s *Service) UpdateRemoteConfig(ctx context.Context, userID, agentID string, updates json.RawMessage) (json.RawMessage, error) {
	if len(updates) == 0 {
		return nil, fmt.Errorf("%w: updates payload is required", ErrInvalidArgument)
	}
	a, err := s.Get(ctx, userID, agentID)
	if err != nil {
		return nil, err
	}
	return s.remote.UpdateAgent(ctx, a.RemoteAgentID, updates)
}
