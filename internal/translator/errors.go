package translator

import (
	"encoding/json"
	"strings"

	"github.com/NightBlaze752/openai-nim-proxy/internal/models"
)

const genericUpstreamError = "upstream request failed"

// NormalizeUpstreamError shapes an upstream failure (5xx or transport
// error) into the downstream error envelope. Pass status 0 for
// transport-level failures.
func NormalizeUpstreamError(status int, body []byte) *models.ErrorResponse {
	code := status
	if code == 0 {
		code = 500
	}
	return models.NewErrorResponse(bestErrorMessage(body), code)
}

// bestErrorMessage picks the most useful message out of an upstream
// error body: a string body, then error.message, then message, then a
// generic fallback.
func bestErrorMessage(body []byte) string {
	var parsed any
	if err := json.Unmarshal(body, &parsed); err != nil {
		if text := strings.TrimSpace(string(body)); text != "" {
			return text
		}
		return genericUpstreamError
	}

	switch v := parsed.(type) {
	case string:
		if v != "" {
			return v
		}
	case map[string]any:
		if errObj, ok := v["error"].(map[string]any); ok {
			if msg, ok := errObj["message"].(string); ok && msg != "" {
				return msg
			}
		}
		if msg, ok := v["message"].(string); ok && msg != "" {
			return msg
		}
	}
	return genericUpstreamError
}
