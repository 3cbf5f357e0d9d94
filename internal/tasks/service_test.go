package tasks

import (
	"context"
	"errors"
	"testing"
	"time"

	"voiceagent-platform/internal/agents"
	"voiceagent-platform/internal/profiles"
	"voiceagent-platform/internal/voiceai"
)

type fakeCaller struct {
	req     voiceai.OutboundCallRequest
	callSid string
	err     error
}

func (f *fakeCaller) OutboundCall(ctx context.Context, req voiceai.OutboundCallRequest) (voiceai.OutboundCallResult, error) {
	f.req = req
	if f.err != nil {
		return voiceai.OutboundCallResult{}, f.err
	}
	return voiceai.OutboundCallResult{CallSid: f.callSid}, nil
}

type env struct {
	repo     *MemoryRepo
	agents   *agents.MemoryRepo
	profiles *profiles.MemoryRepo
	caller   *fakeCaller
	svc      *Service
}

func newEnv(t *testing.T) env {
	t.Helper()
	e := env{
		repo:     NewMemoryRepo(),
		agents:   agents.NewMemoryRepo(),
		profiles: profiles.NewMemoryRepo(),
		caller:   &fakeCaller{callSid: "CA100"},
	}
	e.svc = NewService(e.repo, e.agents, e.profiles, e.caller)
	return e
}

func (e env) addAgent(t *testing.T, userID, agentID, remoteID string) {
	t.Helper()
	err := e.agents.Create(context.Background(), agents.Agent{
		ID: agentID, UserID: userID, Name: "a", RemoteAgentID: remoteID,
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("agent: %v", err)
	}
	e.repo.RegisterAgentOwner(agentID, userID)
}

func TestCreate_StartsIdle(t *testing.T) {
	e := newEnv(t)
	e.addAgent(t, "user-1", "agent-1", "el-1")

	task, err := e.svc.Create(context.Background(), "user-1", CreateTaskRequest{
		AgentID:       "agent-1",
		ToPhoneNumber: "+15550001111",
		Name:          "follow up",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if task.Status != StatusIdle {
		t.Fatalf("expected idle, got %s", task.Status)
	}
	if task.CallID != "" || task.ConversationID != "" {
		t.Fatalf("new task must not carry call/conversation ids: %+v", task)
	}
}

func TestCreate_RejectsForeignAgent(t *testing.T) {
	e := newEnv(t)
	e.addAgent(t, "user-1", "agent-1", "el-1")

	_, err := e.svc.Create(context.Background(), "user-2", CreateTaskRequest{
		AgentID:       "agent-1",
		ToPhoneNumber: "+15550001111",
	})
	if !errors.Is(err, agents.ErrNotFound) {
		t.Fatalf("expected agents.ErrNotFound, got %v", err)
	}
}

func TestInitiateCall_MovesToProcessingWithCallSid(t *testing.T) {
	e := newEnv(t)
	e.addAgent(t, "user-1", "agent-1", "el-1")
	_ = e.profiles.Upsert(context.Background(), profiles.Profile{UserID: "user-1", PhoneNumberID: "pn-9"})

	task, _ := e.svc.Create(context.Background(), "user-1", CreateTaskRequest{AgentID: "agent-1", ToPhoneNumber: "+15550001111"})

	got, err := e.svc.InitiateCall(context.Background(), "user-1", task.ID)
	if err != nil {
		t.Fatalf("initiate: %v", err)
	}
	if got.Status != StatusProcessing || got.CallID != "CA100" {
		t.Fatalf("unexpected task after initiation: %+v", got)
	}
	if e.caller.req.AgentID != "el-1" || e.caller.req.AgentPhoneNumberID != "pn-9" || e.caller.req.ToNumber != "+15550001111" {
		t.Fatalf("unexpected outbound request: %+v", e.caller.req)
	}
}

func TestInitiateCall_RemoteFailureMarksFailed(t *testing.T) {
	e := newEnv(t)
	e.addAgent(t, "user-1", "agent-1", "el-1")
	_ = e.profiles.Upsert(context.Background(), profiles.Profile{UserID: "user-1", PhoneNumberID: "pn-9"})
	e.caller.err = voiceai.ErrRemoteUnavailable

	task, _ := e.svc.Create(context.Background(), "user-1", CreateTaskRequest{AgentID: "agent-1", ToPhoneNumber: "+15550001111"})

	_, err := e.svc.InitiateCall(context.Background(), "user-1", task.ID)
	if !errors.Is(err, voiceai.ErrRemoteUnavailable) {
		t.Fatalf("expected remote error, got %v", err)
	}
	stored, _ := e.repo.Get(task.ID)
	if stored.Status != StatusFailed {
		t.Fatalf("expected failed, got %s", stored.Status)
	}
}

func TestInitiateCall_MissingPhoneNumberMarksFailed(t *testing.T) {
	e := newEnv(t)
	e.addAgent(t, "user-1", "agent-1", "el-1")

	task, _ := e.svc.Create(context.Background(), "user-1", CreateTaskRequest{AgentID: "agent-1", ToPhoneNumber: "+15550001111"})

	if _, err := e.svc.InitiateCall(context.Background(), "user-1", task.ID); err == nil {
		t.Fatalf("expected error without profile phone number")
	}
	stored, _ := e.repo.Get(task.ID)
	if stored.Status != StatusFailed {
		t.Fatalf("expected failed, got %s", stored.Status)
	}
}

func TestInitiateCall_RejectsNonIdleTask(t *testing.T) {
	e := newEnv(t)
	e.addAgent(t, "user-1", "agent-1", "el-1")
	_ = e.profiles.Upsert(context.Background(), profiles.Profile{UserID: "user-1", PhoneNumberID: "pn-9"})

	task, _ := e.svc.Create(context.Background(), "user-1", CreateTaskRequest{AgentID: "agent-1", ToPhoneNumber: "+15550001111"})
	if _, err := e.svc.InitiateCall(context.Background(), "user-1", task.ID); err != nil {
		t.Fatalf("first initiation: %v", err)
	}
	if _, err := e.svc.InitiateCall(context.Background(), "user-1", task.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}
