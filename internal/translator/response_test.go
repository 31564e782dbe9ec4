package translator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const upstreamResponse = `{
	"id": "chatcmpl-123",
	"object": "chat.completion",
	"created": 1700000000,
	"model": "deepseek-ai/deepseek-r1",
	"choices": [{
		"index": 0,
		"message": {"role": "assistant", "content": "answer", "reasoning_content": "why"},
		"finish_reason": "stop"
	}],
	"usage": {"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15}
}`

func TestTranslateResponse_DisplayEnabled(t *testing.T) {
	resp, err := TranslateResponse([]byte(upstreamResponse), "gpt-4o", true, "<think>", "</think>")
	require.NoError(t, err)

	assert.Equal(t, "gpt-4o", resp.Model)
	require.Len(t, resp.Choices, 1)
	assert.Equal(t, "<think>\nwhy\n</think>\n\nanswer", resp.Choices[0].Message["content"])
	assert.Equal(t, "stop", resp.Choices[0].FinishReason)
	assert.Equal(t, 15, resp.Usage.TotalTokens)
}

func TestTranslateResponse_DisplayDisabled(t *testing.T) {
	resp, err := TranslateResponse([]byte(upstreamResponse), "gpt-4o", false, "<think>", "</think>")
	require.NoError(t, err)

	assert.Equal(t, "answer", resp.Choices[0].Message["content"])
}

func TestTranslateResponse_Defaults(t *testing.T) {
	body := `{"id":"x","choices":[{"index":0,"message":{"role":"assistant","content":"hi"}}]}`

	resp, err := TranslateResponse([]byte(body), "gpt-4o", true, "<think>", "</think>")
	require.NoError(t, err)

	assert.Equal(t, "chat.completion", resp.Object)
	assert.Equal(t, "stop", resp.Choices[0].FinishReason)
	assert.Zero(t, resp.Usage.PromptTokens)
	assert.Zero(t, resp.Usage.CompletionTokens)
	assert.Zero(t, resp.Usage.TotalTokens)
}

func TestTranslateResponse_NoReasoningField(t *testing.T) {
	body := `{"choices":[{"index":0,"message":{"role":"assistant","content":"plain"},"finish_reason":"length"}]}`

	resp, err := TranslateResponse([]byte(body), "gpt-4o", true, "<think>", "</think>")
	require.NoError(t, err)

	assert.Equal(t, "plain", resp.Choices[0].Message["content"])
	assert.Equal(t, "length", resp.Choices[0].FinishReason)
}

func TestTranslateResponse_MalformedJSON(t *testing.T) {
	_, err := TranslateResponse([]byte("not json"), "gpt-4o", true, "<think>", "</think>")
	assert.Error(t, err)
}
