package agents

import "time"

// Agent is a locally stored voice agent pointing at its remote counterpart.
//
// RemoteAgentID is immutable after creation: configuration changes go to the
// remote system through the pass-through endpoints, never by repointing the
// local row.
type Agent struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	Name          string    `json:"name"`
	RemoteAgentID string    `json:"elevenlabs_agent_id"`
	Language      string    `json:"language,omitempty"`
	LLMModel      string    `json:"llm_model,omitempty"`
	Prompt        string    `json:"prompt,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// CreateAgentRequest is the user-facing creation payload. Voice, language and
// model selections are validated against the allow-lists below before any
// remote call is made.
type CreateAgentRequest struct {
	Name         string `json:"name"`
	FirstMessage string `json:"first_message,omitempty"`
	Language     string `json:"language,omitempty"`
	Prompt       string `json:"prompt,omitempty"`
	LLMModel     string `json:"llm_model,omitempty"`
	VoiceID      string `json:"voice_id,omitempty"`
}

// SupportedLanguages are the language codes accepted by the remote system.
var SupportedLanguages = []string{
	"en", "es", "fr", "de", "it", "pt", "pl", "hi", "ar", "zh", "ja", "ko",
	"nl", "ru", "tr", "cs", "da", "fi", "el", "hu", "id", "no", "ro", "sk",
	"sv", "th", "uk", "vi",
}

// SupportedModels are the LLM identifiers accepted by the remote system.
var SupportedModels = []string{
	"gpt-4o-mini",
	"gpt-4o",
	"gpt-4-turbo",
	"gpt-3.5-turbo",
	"gemini-1.5-pro",
	"gemini-1.5-flash",
	"claude-3-7-sonnet",
	"claude-3-5-sonnet",
	"claude-3-haiku",
}

// DefaultVoiceID is the remote system's "Rachel" voice.
const DefaultVoiceID = "21m00Tcm4TlvDq8ikWAM"

const (
	DefaultLanguage = "en"
	DefaultLLMModel = "gpt-4o-mini"
)

func isSupported(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
