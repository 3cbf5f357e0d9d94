package config

import "testing"

func validBase() Config {
	return Config{
		App:     AppConfig{Env: "local", Port: 8080},
		DB:      DBConfig{Host: "localhost", Port: 5432, User: "postgres", Password: "x", Name: "voiceagent", SSLMode: ""},
		Redis:   RedisConfig{Host: "localhost", Port: 6379},
		Auth:    AuthConfig{JWTSecret: "secret"},
		VoiceAI: VoiceAIConfig{APIKey: "xi-key"},
	}
}

func TestValidate_ReportsMissingRequired(t *testing.T) {
	c := Config{}
	if err := c.Validate(); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestValidate_ProductionRequiresSSLMode(t *testing.T) {
	c := validBase()
	c.App.Env = "production"
	c.Auth.JWTIssuer = "voiceagent"
	c.Auth.JWTAudience = "api"
	if err := c.Validate(); err == nil {
		t.Fatalf("expected error for production without DB_SSLMODE")
	}
}

func TestValidate_LocalDefaultsSSLMode(t *testing.T) {
	c := validBase()
	if err := c.Validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if c.DB.SSLMode != "disable" {
		t.Fatalf("expected sslmode disable default, got %q", c.DB.SSLMode)
	}
}

func TestValidate_RequiresVoiceAIKey(t *testing.T) {
	c := validBase()
	c.VoiceAI.APIKey = ""
	if err := c.Validate(); err == nil {
		t.Fatalf("expected error for missing ELEVENLABS_API_KEY")
	}
}

func TestValidate_VoiceAIDefaults(t *testing.T) {
	c := validBase()
	if err := c.Validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if c.VoiceAI.BaseURL != defaultVoiceAIBaseURL {
		t.Fatalf("expected default base url, got %q", c.VoiceAI.BaseURL)
	}
	if c.VoiceAI.Timeout <= 0 {
		t.Fatalf("expected default timeout, got %v", c.VoiceAI.Timeout)
	}
}

func TestValidate_ContactRequiresRecipientWhenKeySet(t *testing.T) {
	c := validBase()
	c.Contact.ResendAPIKey = "re_123"
	if err := c.Validate(); err == nil {
		t.Fatalf("expected error for missing CONTACT_RECIPIENT_EMAIL")
	}
	c.Contact.RecipientEmail = "ops@voiceagent.app"
	if err := c.Validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if c.Contact.FromAddress == "" {
		t.Fatalf("expected default from address")
	}
}
