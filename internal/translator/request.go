// Package translator implements the reasoning-aware translation between
// the downstream chat completion protocol and the extended upstream
// variant: request augmentation on the way out, reasoning extraction and
// reassembly on the way back.
package translator

import (
	"github.com/NightBlaze752/openai-nim-proxy/internal/config"
	"github.com/NightBlaze752/openai-nim-proxy/internal/merge"
)

const (
	defaultTemperature = 0.6
	defaultMaxTokens   = 1024
)

// BuildUpstreamBody augments the inbound request body for the upstream
// service. Precedence, later wins: base request, thinking-mode hint,
// global body fragment, per-model body fragment, global extra-body
// fragment, per-model extra-body fragment. Configuration fragments are
// deep-copied before merging; the inbound body is not mutated.
func BuildUpstreamBody(body map[string]any, resolvedModel string, cfg *config.Config) map[string]any {
	payload := merge.DeepCopy(body)
	payload["model"] = resolvedModel

	if _, ok := payload["temperature"]; !ok {
		payload["temperature"] = defaultTemperature
	}
	if _, ok := payload["max_tokens"]; !ok {
		payload["max_tokens"] = defaultMaxTokens
	}

	if cfg.Reasoning.AlwaysHintThinking || cfg.DisplayReasoning(resolvedModel) {
		merge.Merge(payload, map[string]any{
			"chat_template_kwargs": map[string]any{"thinking": true},
		})
	}

	merge.Merge(payload, merge.DeepCopy(cfg.Merge.Body))
	merge.Merge(payload, merge.DeepCopy(cfg.Merge.ModelBody[resolvedModel]))

	extra, _ := payload["extra_body"].(map[string]any)
	extra = merge.Merge(extra, merge.DeepCopy(cfg.Merge.ExtraBody))
	extra = merge.Merge(extra, merge.DeepCopy(cfg.Merge.ModelExtraBody[resolvedModel]))
	delete(payload, "extra_body")

	// Flatten extra_body into the top level, matching how SDK clients
	// dispatch it. Extra-body entries win on collision.
	for key, value := range extra {
		payload[key] = value
	}

	return payload
}
