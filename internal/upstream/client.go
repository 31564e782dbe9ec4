// Package upstream dispatches augmented chat completion requests to the
// inference service.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/NightBlaze752/openai-nim-proxy/internal/config"
)

// Doer sends a chat completion request body upstream and returns the
// raw response so the caller can stream or single-shot it.
type Doer interface {
	CreateChatCompletion(ctx context.Context, body map[string]any) (*http.Response, error)
}

// Client is the HTTP client for the upstream service. The request body
// is an untyped map: merged override fragments may introduce fields no
// typed SDK request can carry.
type Client struct {
	apiBase    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates an upstream client from configuration.
func NewClient(cfg config.UpstreamConfig) *Client {
	apiBase := strings.TrimRight(cfg.APIBase, "/")
	if !strings.HasPrefix(apiBase, "http://") && !strings.HasPrefix(apiBase, "https://") {
		apiBase = "http://" + apiBase
	}

	return &Client{
		apiBase: apiBase,
		apiKey:  cfg.APIKey,
		// No client timeout: streamed responses stay open for the
		// lifetime of the request context.
		httpClient: &http.Client{},
	}
}

// CreateChatCompletion posts the request body to the upstream chat
// completions endpoint. Responses with error statuses are returned to
// the caller undisturbed; closing the body is the caller's job.
func (c *Client) CreateChatCompletion(ctx context.Context, body map[string]any) (*http.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiBase+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/event-stream")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upstream request: %w", err)
	}
	return resp, nil
}
