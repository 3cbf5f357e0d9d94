package conversations

import (
	"context"
	"sync"

	"voiceagent-platform/internal/tasks"
)

// MemoryStore is an in-memory Store used by tests.
type MemoryStore struct {
	mu sync.Mutex

	agents    map[string]memAgent // agent id -> owner + remote id
	taskCalls map[string]string   // call id -> task id

	byConvID map[string]Conversation
	links    map[string]linkedTask // task id -> link
}

type memAgent struct {
	UserID        string
	RemoteAgentID string
}

type linkedTask struct {
	ConversationID string
	Status         tasks.Status
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		agents:    make(map[string]memAgent),
		taskCalls: make(map[string]string),
		byConvID:  make(map[string]Conversation),
		links:     make(map[string]linkedTask),
	}
}

// RegisterAgent maps a local agent id to its owner and remote counterpart.
func (s *MemoryStore) RegisterAgent(agentID, userID, remoteAgentID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.agents[agentID] = memAgent{UserID: userID, RemoteAgentID: remoteAgentID}
}

// RegisterTaskCall associates a task with a telephony call id.
func (s *MemoryStore) RegisterTaskCall(callID, taskID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.taskCalls[callID] = taskID
}

func (s *MemoryStore) AgentRemoteID(_ context.Context, userID, agentID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.agents[agentID]
	if !ok || a.UserID != userID || a.RemoteAgentID == "" {
		return "", ErrAgentNotFound
	}
	return a.RemoteAgentID, nil
}

func (s *MemoryStore) ExistingConversationIDs(_ context.Context, agentID string) (map[string]struct{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]struct{})
	for id, c := range s.byConvID {
		if c.AgentID == agentID {
			out[id] = struct{}{}
		}
	}
	return out, nil
}

func (s *MemoryStore) FindTaskByCallID(_ context.Context, callID string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.taskCalls[callID]
	return id, ok, nil
}

func (s *MemoryStore) InsertConversation(_ context.Context, c Conversation) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byConvID[c.ConversationID]; exists {
		return false, nil
	}
	s.byConvID[c.ConversationID] = c
	return true, nil
}

func (s *MemoryStore) LinkTask(_ context.Context, taskID, conversationID string, status tasks.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.links[taskID] = linkedTask{ConversationID: conversationID, Status: status}
	return nil
}

// Stored returns the persisted conversation for a remote id, for assertions.
func (s *MemoryStore) Stored(conversationID string) (Conversation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.byConvID[conversationID]
	return c, ok
}

// Count reports how many conversations are persisted.
func (s *MemoryStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byConvID)
}

// Link returns the link recorded for a task, for assertions.
func (s *MemoryStore) Link(taskID string) (string, tasks.Status, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.links[taskID]
	return l.ConversationID, l.Status, ok
}
