// Package llm provides the language-generation capability behind resume
// reduction. Providers with different request/response shapes are unified
// behind one Generate(prompt) -> text contract; the manager routes requests
// through an ordered fallback chain.
package llm

import "context"

// ProviderType identifies the LLM provider.
type ProviderType string

const (
	ProviderAnthropic ProviderType = "anthropic"
	ProviderOpenAI    ProviderType = "openai"
)

// Provider defines the interface for LLM providers.
type Provider interface {
	// Type returns the provider type identifier.
	Type() ProviderType

	// Name returns the human-readable provider name.
	Name() string

	// Available checks if the provider is currently configured and usable.
	Available(ctx context.Context) bool

	// Generate completes the given prompt and returns the raw text
	// response. Single request/response, no streaming, no retry.
	Generate(ctx context.Context, prompt string) (string, error)

	// Close releases any resources held by the provider.
	Close() error
}

// ProviderFactory creates providers of a given type.
type ProviderFactory func(cfg *Config) (Provider, error)
