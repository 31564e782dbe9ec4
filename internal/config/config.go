package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	defaultPort     = 8080
	defaultOpenTag  = "<think>"
	defaultCloseTag = "</think>"
)

// Config is the process-wide proxy configuration. It is loaded once at
// startup and treated as read-only afterwards; merge fragments are
// deep-copied before use so no request mutates it.
type Config struct {
	Server       ServerConfig      `yaml:"server"`
	Upstream     UpstreamConfig    `yaml:"upstream"`
	ModelAliases map[string]string `yaml:"model_aliases,omitempty"`
	Reasoning    ReasoningConfig   `yaml:"reasoning"`
	Merge        MergeConfig       `yaml:"merge"`
}

// ServerConfig defines the downstream listener.
type ServerConfig struct {
	Port   int    `yaml:"port"`
	APIKey string `yaml:"api_key,omitempty"`
}

// UpstreamConfig points at the inference service.
type UpstreamConfig struct {
	APIBase string `yaml:"api_base"`
	APIKey  string `yaml:"api_key,omitempty"`
}

// ReasoningConfig controls how reasoning content is surfaced.
type ReasoningConfig struct {
	// DisplayModels is a case-insensitive substring allowlist matched
	// against the resolved upstream model id.
	DisplayModels []string `yaml:"display_models,omitempty"`
	OpenTag       string   `yaml:"open_tag,omitempty"`
	CloseTag      string   `yaml:"close_tag,omitempty"`
	// AlwaysHintThinking injects the thinking-mode hint for every
	// model, not only allowlisted ones.
	AlwaysHintThinking bool `yaml:"always_hint_thinking,omitempty"`
}

// MergeConfig holds the request override fragments. Body fragments are
// merged into the top level of the outgoing request; extra-body
// fragments are merged into its extra_body mapping. Per-model fragments
// are keyed by resolved upstream model id.
type MergeConfig struct {
	Body           map[string]any            `yaml:"body,omitempty"`
	ModelBody      map[string]map[string]any `yaml:"model_body,omitempty"`
	ExtraBody      map[string]any            `yaml:"extra_body,omitempty"`
	ModelExtraBody map[string]map[string]any `yaml:"model_extra_body,omitempty"`
}

// LoadConfig loads configuration from a YAML file and applies defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = defaultPort
	}
	if c.Reasoning.OpenTag == "" {
		c.Reasoning.OpenTag = defaultOpenTag
	}
	if c.Reasoning.CloseTag == "" {
		c.Reasoning.CloseTag = defaultCloseTag
	}
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.Upstream.APIBase) == "" {
		return fmt.Errorf("upstream.api_base must be provided")
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be a valid TCP port, got %d", c.Server.Port)
	}
	return nil
}

// ResolveModel maps a client-supplied model name through the alias
// table, falling back to the name unchanged.
func (c *Config) ResolveModel(name string) string {
	if resolved, ok := c.ModelAliases[name]; ok {
		return resolved
	}
	return name
}

// DisplayReasoning reports whether reasoning content should be surfaced
// for the resolved upstream model.
func (c *Config) DisplayReasoning(resolvedModel string) bool {
	model := strings.ToLower(resolvedModel)
	for _, candidate := range c.Reasoning.DisplayModels {
		if candidate == "" {
			continue
		}
		if strings.Contains(model, strings.ToLower(candidate)) {
			return true
		}
	}
	return false
}
