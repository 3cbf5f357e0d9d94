package agents

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"voiceagent-platform/internal/voiceai"
)

type fakeRemote struct {
	createReq  voiceai.CreateAgentRequest
	createErr  error
	agentID    string
	getCalls   int
	lastRemote string
}

func (f *fakeRemote) CreateAgent(ctx context.Context, req voiceai.CreateAgentRequest) (voiceai.CreateAgentResult, error) {
	f.createReq = req
	if f.createErr != nil {
		return voiceai.CreateAgentResult{}, f.createErr
	}
	return voiceai.CreateAgentResult{AgentID: f.agentID}, nil
}

func (f *fakeRemote) GetAgent(ctx context.Context, remoteAgentID string) (json.RawMessage, error) {
	f.getCalls++
	f.lastRemote = remoteAgentID
	return json.RawMessage(`{"name":"remote"}`), nil
}

func (f *fakeRemote) UpdateAgent(ctx context.Context, remoteAgentID string, updates json.RawMessage) (json.RawMessage, error) {
	f.lastRemote = remoteAgentID
	return updates, nil
}

func TestCreate_AppliesDefaultsAndPersists(t *testing.T) {
	repo := NewMemoryRepo()
	remote := &fakeRemote{agentID: "el-1"}
	svc := NewService(repo, remote)

	a, err := svc.Create(context.Background(), "user-1", CreateAgentRequest{Name: "Sales Bot"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if a.RemoteAgentID != "el-1" {
		t.Fatalf("expected remote id el-1, got %q", a.RemoteAgentID)
	}
	if a.Language != DefaultLanguage || a.LLMModel != DefaultLLMModel {
		t.Fatalf("expected defaults applied, got %+v", a)
	}
	if remote.createReq.ConversationConfig.TTS.VoiceID != DefaultVoiceID {
		t.Fatalf("expected default voice, got %q", remote.createReq.ConversationConfig.TTS.VoiceID)
	}
	if remote.createReq.ConversationConfig.Agent.FirstMessage == "" {
		t.Fatalf("expected derived first message")
	}

	got, err := repo.GetOwned(context.Background(), "user-1", a.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.RemoteAgentID != "el-1" {
		t.Fatalf("unexpected stored agent: %+v", got)
	}
}

func TestCreate_RejectsUnsupportedLanguageAndModel(t *testing.T) {
	svc := NewService(NewMemoryRepo(), &fakeRemote{agentID: "el-1"})

	_, err := svc.Create(context.Background(), "u", CreateAgentRequest{Name: "a", Language: "xx"})
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
	_, err = svc.Create(context.Background(), "u", CreateAgentRequest{Name: "a", LLMModel: "gpt-99"})
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestCreate_RemoteFailureDoesNotPersist(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo, &fakeRemote{createErr: voiceai.ErrRemoteUnavailable})

	_, err := svc.Create(context.Background(), "u", CreateAgentRequest{Name: "a"})
	if !errors.Is(err, voiceai.ErrRemoteUnavailable) {
		t.Fatalf("expected remote error, got %v", err)
	}
	list, _ := repo.ListByUser(context.Background(), "u")
	if len(list) != 0 {
		t.Fatalf("expected no local rows after remote failure")
	}
}

func TestRemoteConfig_ResolvesOwnedAgent(t *testing.T) {
	repo := NewMemoryRepo()
	remote := &fakeRemote{agentID: "el-7"}
	svc := NewService(repo, remote)

	a, err := svc.Create(context.Background(), "user-1", CreateAgentRequest{Name: "a"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.RemoteConfig(context.Background(), "user-1", a.ID); err != nil {
		t.Fatalf("remote config: %v", err)
	}
	if remote.lastRemote != "el-7" {
		t.Fatalf("expected lookup by remote id, got %q", remote.lastRemote)
	}

	// Another user cannot reach it.
	if _, err := svc.RemoteConfig(context.Background(), "user-2", a.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign user, got %v", err)
	}
}
