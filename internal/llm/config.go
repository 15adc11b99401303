package llm

import (
	"fmt"
	"time"
)

// Config holds all LLM-related configuration.
type Config struct {
	// Enabled controls whether generation is active at all.
	Enabled bool `yaml:"enabled"`

	// ProviderOrder specifies the fallback order for providers.
	ProviderOrder []ProviderType `yaml:"provider_order"`

	// Providers contains provider-specific configurations.
	Providers ProvidersConfig `yaml:"providers"`

	// Timeout bounds a single generation request.
	Timeout time.Duration `yaml:"timeout"`
}

// ProvidersConfig contains configuration for each provider type.
type ProvidersConfig struct {
	Anthropic AnthropicConfig `yaml:"anthropic"`
	OpenAI    OpenAIConfig    `yaml:"openai"`
}

// AnthropicConfig configures the Anthropic API provider.
type AnthropicConfig struct {
	Enabled bool `yaml:"enabled"`

	// APIKey is the Anthropic API key. If empty, reads from the
	// ANTHROPIC_API_KEY environment variable.
	APIKey string `yaml:"api_key"`

	// Model specifies the model to use.
	Model string `yaml:"model"`

	// MaxTokens limits the response length.
	MaxTokens int `yaml:"max_tokens"`
}

// OpenAIConfig configures the OpenAI API provider.
type OpenAIConfig struct {
	Enabled bool `yaml:"enabled"`

	// APIKey is the OpenAI API key. If empty, reads from the
	// OPENAI_API_KEY environment variable.
	APIKey string `yaml:"api_key"`

	// Model specifies the model to use.
	Model string `yaml:"model"`

	// MaxTokens limits the response length.
	MaxTokens int `yaml:"max_tokens"`

	// BaseURL overrides the API endpoint (for Azure/proxies).
	BaseURL string `yaml:"base_url"`

	// Organization optionally specifies the organization ID.
	Organization string `yaml:"organization"`
}

// DefaultConfig returns the default LLM configuration: both providers
// enabled (keys read from the environment), Anthropic first.
func DefaultConfig() *Config {
	return &Config{
		Enabled:       true,
		ProviderOrder: []ProviderType{ProviderAnthropic, ProviderOpenAI},
		Providers: ProvidersConfig{
			Anthropic: AnthropicConfig{Enabled: true},
			OpenAI:    OpenAIConfig{Enabled: true},
		},
		Timeout: 60 * time.Second,
	}
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if len(c.ProviderOrder) == 0 {
		return fmt.Errorf("llm enabled but provider_order is empty")
	}
	for _, pt := range c.ProviderOrder {
		switch pt {
		case ProviderAnthropic, ProviderOpenAI:
		default:
			return fmt.Errorf("unknown provider type: %s", pt)
		}
	}
	if c.Timeout <= 0 {
		c.Timeout = 60 * time.Second
	}
	return nil
}
