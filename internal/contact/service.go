package contact

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var (
	ErrInvalidArgument = errors.New("contact: invalid argument")

	// ErrDeliveryFailed marks a mail provider failure.
	ErrDeliveryFailed = errors.New("contact: delivery failed")
)

const defaultResendBaseURL = "https://api.resend.com"

// Message is one inbound contact-form submission.
type Message struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject,omitempty"`
	Body    string `json:"message"`
}

func (m Message) validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidArgument)
	}
	if strings.TrimSpace(m.Body) == "" {
		return fmt.Errorf("%w: message is required", ErrInvalidArgument)
	}
	email := strings.TrimSpace(m.Email)
	if email == "" || !strings.Contains(email, "@") {
		return fmt.Errorf("%w: a valid email is required", ErrInvalidArgument)
	}
	return nil
}

// Service relays contact messages through the Resend mail API.
type Service struct {
	baseURL   string
	apiKey    string
	from      string
	recipient string
	http      *http.Client
}

func NewService(apiKey, fromAddress, recipient string, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Service{
		baseURL:   defaultResendBaseURL,
		apiKey:    apiKey,
		from:      fromAddress,
		recipient: recipient,
		http:      &http.Client{Timeout: timeout},
	}
}

// WithBaseURL overrides the API base, used by tests.
func (s *Service) WithBaseURL(u string) *Service {
	s.baseURL = strings.TrimRight(u, "/")
	return s
}

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	ReplyTo string   `json:"reply_to,omitempty"`
	Subject string   `json:"subject"`
	Text    string   `json:"text"`
}

// Send validates and relays one message. The sender's address goes into
// reply_to; the from address must be a domain verified with the provider.
func (s *Service) Send(ctx context.Context, m Message) error {
	if err := m.validate(); err != nil {
		return err
	}
	if s.apiKey == "" || s.recipient == "" {
		return fmt.Errorf("%w: mail provider not configured", ErrDeliveryFailed)
	}

	subject := strings.TrimSpace(m.Subject)
	if subject == "" {
		subject = "New contact message from " + strings.TrimSpace(m.Name)
	}

	payload := resendRequest{
		From:    s.from,
		To:      []string{s.recipient},
		ReplyTo: strings.TrimSpace(m.Email),
		Subject: subject,
		Text:    fmt.Sprintf("From: %s <%s>\n\n%s", strings.TrimSpace(m.Name), strings.TrimSpace(m.Email), m.Body),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: encoding request: %v", ErrDeliveryFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: provider returned %d: %s", ErrDeliveryFailed, resp.StatusCode, string(snippet))
	}
	return nil
}
