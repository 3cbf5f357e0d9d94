package voiceai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"voiceagent-platform/internal/config"
)

// ErrRemoteUnavailable marks a failed call to the ElevenLabs API: transport
// error, timeout, or non-2xx response. Callers decide whether the failure is
// fatal (conversation list) or isolated (single conversation detail).
var ErrRemoteUnavailable = errors.New("voiceai: remote unavailable")

const apiKeyHeader = "xi-api-key"

// Client is the single place that talks to the ElevenLabs Conversational AI
// API. It performs no retries and no interpretation of payloads beyond JSON
// decoding; policy belongs to callers.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(cfg config.VoiceAIConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("voiceai: api key is required")
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		return nil, errors.New("voiceai: base url is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: timeout},
	}, nil
}

// ListConversations returns the remote conversation list for an agent.
func (c *Client) ListConversations(ctx context.Context, remoteAgentID string) (ConversationList, error) {
	if remoteAgentID == "" {
		return ConversationList{}, errors.New("voiceai: remote agent id is required")
	}
	var out ConversationList
	path := "/v1/convai/conversations?agent_id=" + url.QueryEscape(remoteAgentID)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return ConversationList{}, err
	}
	return out, nil
}

// ConversationDetail returns the full record for one conversation.
func (c *Client) ConversationDetail(ctx context.Context, conversationID string) (ConversationDetail, error) {
	if conversationID == "" {
		return ConversationDetail{}, errors.New("voiceai: conversation id is required")
	}
	var out ConversationDetail
	path := "/v1/convai/conversations/" + url.PathEscape(conversationID)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return ConversationDetail{}, err
	}
	return out, nil
}

// CreateAgent provisions a new remote agent and returns its identifier.
func (c *Client) CreateAgent(ctx context.Context, req CreateAgentRequest) (CreateAgentResult, error) {
	var out CreateAgentResult
	if err := c.do(ctx, http.MethodPost, "/v1/convai/agents/create", req, &out); err != nil {
		return CreateAgentResult{}, err
	}
	return out, nil
}

// GetAgent fetches the remote agent configuration verbatim.
func (c *Client) GetAgent(ctx context.Context, remoteAgentID string) (json.RawMessage, error) {
	if remoteAgentID == "" {
		return nil, errors.New("voiceai: remote agent id is required")
	}
	var out json.RawMessage
	path := "/v1/convai/agents/" + url.PathEscape(remoteAgentID)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateAgent applies a partial update to the remote agent configuration.
// The updates payload is passed through untouched.
func (c *Client) UpdateAgent(ctx context.Context, remoteAgentID string, updates json.RawMessage) (json.RawMessage, error) {
	if remoteAgentID == "" {
		return nil, errors.New("voiceai: remote agent id is required")
	}
	var out json.RawMessage
	path := "/v1/convai/agents/" + url.PathEscape(remoteAgentID)
	if err := c.do(ctx, http.MethodPatch, path, updates, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// OutboundCall asks the remote system to place a call through its Twilio
// integration and returns the telephony call identifier.
func (c *Client) OutboundCall(ctx context.Context, req OutboundCallRequest) (OutboundCallResult, error) {
	if req.AgentID == "" || req.AgentPhoneNumberID == "" || req.ToNumber == "" {
		return OutboundCallResult{}, errors.New("voiceai: agent_id, agent_phone_number_id and to_number are required")
	}
	var out OutboundCallResult
	if err := c.do(ctx, http.MethodPost, "/v1/convai/twilio/outbound_call", req, &out); err != nil {
		return OutboundCallResult{}, err
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var rdr io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("voiceai: encode request: %w", err)
		}
		rdr = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return fmt.Errorf("voiceai: build request: %w", err)
	}
	req.Header.Set(apiKeyHeader, c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrRemoteUnavailable, method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet := readSnippet(resp.Body)
		return fmt.Errorf("%w: %s %s: status %d: %s", ErrRemoteUnavailable, method, path, resp.StatusCode, snippet)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %s %s: decode response: %v", ErrRemoteUnavailable, method, path, err)
	}
	return nil
}

const maxErrorSnippet = 512

func readSnippet(r io.Reader) string {
	b, err := io.ReadAll(io.LimitReader(r, maxErrorSnippet))
	if err != nil || len(b) == 0 {
		return "(no body)"
	}
	return string(b)
}
