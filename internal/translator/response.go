package translator

import (
	"encoding/json"
	"fmt"

	"github.com/NightBlaze752/openai-nim-proxy/internal/models"
	"github.com/NightBlaze752/openai-nim-proxy/internal/reasoning"
)

// TranslateResponse converts a non-streamed upstream response document
// into the downstream form: the client-requested model name is echoed
// back, missing finish reasons default to "stop", missing usage stays
// all-zero, and when display is enabled each choice's reasoning is
// prepended to its content as a delimited block.
func TranslateResponse(data []byte, clientModel string, display bool, openTag, closeTag string) (*models.ChatCompletionResponse, error) {
	var resp models.ChatCompletionResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("parse upstream response: %w", err)
	}

	resp.Model = clientModel
	if resp.Object == "" {
		resp.Object = "chat.completion"
	}

	for i := range resp.Choices {
		choice := &resp.Choices[i]
		if choice.FinishReason == "" {
			choice.FinishReason = "stop"
		}
		if !display || choice.Message == nil {
			continue
		}
		if text := reasoning.ExtractFromMessage(choice.Message); text != "" {
			content, _ := choice.Message["content"].(string)
			choice.Message["content"] = reasoning.WrapBlock(openTag, closeTag, text) + content
		}
	}

	return &resp, nil
}
