package mocks

import (
	"context"
	"io"
	"net/http"
	"strings"
)

// MockUpstream implements upstream.Doer for testing
type MockUpstream struct {
	CreateChatCompletionFunc func(ctx context.Context, body map[string]any) (*http.Response, error)
}

func (m *MockUpstream) CreateChatCompletion(ctx context.Context, body map[string]any) (*http.Response, error) {
	if m.CreateChatCompletionFunc != nil {
		return m.CreateChatCompletionFunc(ctx, body)
	}
	return Response(http.StatusOK, "application/json", `{"choices":[]}`), nil
}

// Response builds an *http.Response with a string body for mock returns.
func Response(status int, contentType, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{contentType}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}
