package translator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/NightBlaze752/openai-nim-proxy/internal/config"
)

func TestBuildUpstreamBody_Defaults(t *testing.T) {
	cfg := &config.Config{}
	body := map[string]any{
		"model":    "gpt-4o",
		"messages": []any{map[string]any{"role": "user", "content": "hi"}},
	}

	payload := BuildUpstreamBody(body, "deepseek-ai/deepseek-r1", cfg)

	assert.Equal(t, "deepseek-ai/deepseek-r1", payload["model"])
	assert.Equal(t, 0.6, payload["temperature"])
	assert.Equal(t, 1024, payload["max_tokens"])
	assert.NotContains(t, payload, "chat_template_kwargs")
}

func TestBuildUpstreamBody_ClientValuesKept(t *testing.T) {
	cfg := &config.Config{}
	body := map[string]any{
		"model":       "m",
		"temperature": 0.2,
		"max_tokens":  77,
	}

	payload := BuildUpstreamBody(body, "m", cfg)

	assert.Equal(t, 0.2, payload["temperature"])
	assert.Equal(t, 77, payload["max_tokens"])
}

func TestBuildUpstreamBody_ThinkingHint(t *testing.T) {
	displayCfg := &config.Config{
		Reasoning: config.ReasoningConfig{DisplayModels: []string{"r1"}},
	}
	payload := BuildUpstreamBody(map[string]any{"model": "m"}, "deepseek-r1", displayCfg)
	kwargs := payload["chat_template_kwargs"].(map[string]any)
	assert.Equal(t, true, kwargs["thinking"])

	alwaysCfg := &config.Config{
		Reasoning: config.ReasoningConfig{AlwaysHintThinking: true},
	}
	payload = BuildUpstreamBody(map[string]any{"model": "m"}, "plain-model", alwaysCfg)
	kwargs = payload["chat_template_kwargs"].(map[string]any)
	assert.Equal(t, true, kwargs["thinking"])
}

func TestBuildUpstreamBody_MergePrecedence(t *testing.T) {
	cfg := &config.Config{
		Merge: config.MergeConfig{
			Body: map[string]any{"temperature": 0.3, "top_p": 0.8},
			ModelBody: map[string]map[string]any{
				"deepseek-r1": {"temperature": 0.1},
			},
			ExtraBody: map[string]any{
				"nvext": map[string]any{"a": 1},
			},
			ModelExtraBody: map[string]map[string]any{
				"deepseek-r1": {"nvext": map[string]any{"b": 2}},
			},
		},
	}
	body := map[string]any{"model": "gpt-4o", "temperature": 0.9}

	payload := BuildUpstreamBody(body, "deepseek-r1", cfg)

	// Per-model body overrides global body, which overrides the client.
	assert.Equal(t, 0.1, payload["temperature"])
	assert.Equal(t, 0.8, payload["top_p"])
	// Extra-body fragments merge together and flatten to the top level.
	nvext := payload["nvext"].(map[string]any)
	assert.Equal(t, 1, nvext["a"])
	assert.Equal(t, 2, nvext["b"])
	assert.NotContains(t, payload, "extra_body")
}

func TestBuildUpstreamBody_ClientExtraBodyFlattened(t *testing.T) {
	cfg := &config.Config{}
	body := map[string]any{
		"model":      "m",
		"extra_body": map[string]any{"vendor_opt": "on"},
	}

	payload := BuildUpstreamBody(body, "m", cfg)

	assert.Equal(t, "on", payload["vendor_opt"])
	assert.NotContains(t, payload, "extra_body")
}

func TestBuildUpstreamBody_DoesNotMutateInputs(t *testing.T) {
	cfg := &config.Config{
		Merge: config.MergeConfig{
			Body: map[string]any{"nested": map[string]any{"k": "v"}},
		},
	}
	body := map[string]any{"model": "gpt-4o"}

	payload := BuildUpstreamBody(body, "m", cfg)
	payload["nested"].(map[string]any)["k"] = "mutated"

	assert.Equal(t, "v", cfg.Merge.Body["nested"].(map[string]any)["k"])
	assert.NotContains(t, body, "temperature")
	assert.Equal(t, "gpt-4o", body["model"])
}
