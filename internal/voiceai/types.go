package voiceai

import "encoding/json"

// Wire types mirror the ElevenLabs Conversational AI API. Field shapes are
// part of the interop contract and must not be "improved".

type ConversationList struct {
	Conversations []ConversationRef `json:"conversations"`
}

type ConversationRef struct {
	ConversationID string `json:"conversation_id"`
}

// ConversationDetail is the per-conversation record. Transcript, metadata and
// analysis are opaque to this service and stored verbatim; only Status and the
// call sid buried in Metadata are ever inspected.
type ConversationDetail struct {
	Status     string          `json:"status"`
	Transcript json.RawMessage `json:"transcript"`
	Metadata   json.RawMessage `json:"metadata"`
	Analysis   json.RawMessage `json:"analysis"`
}

type CreateAgentRequest struct {
	ConversationConfig ConversationConfig `json:"conversation_config"`
	Name               string             `json:"name"`
	Description        string             `json:"description,omitempty"`
}

type ConversationConfig struct {
	Agent AgentConfig `json:"agent"`
	TTS   TTSConfig   `json:"tts"`
}

type AgentConfig struct {
	FirstMessage string       `json:"first_message"`
	Language     string       `json:"language"`
	Prompt       PromptConfig `json:"prompt"`
}

type PromptConfig struct {
	Prompt string `json:"prompt"`
	LLM    string `json:"llm"`
}

type TTSConfig struct {
	VoiceID string `json:"voice_id"`
}

type CreateAgentResult struct {
	AgentID string `json:"agent_id"`
}

type OutboundCallRequest struct {
	AgentID            string `json:"agent_id"`
	AgentPhoneNumberID string `json:"agent_phone_number_id"`
	ToNumber           string `json:"to_number"`
}

type OutboundCallResult struct {
	CallSid string `json:"callSid"`
}
