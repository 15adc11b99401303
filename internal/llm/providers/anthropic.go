package providers

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/codetrail/codetrail/internal/llm"
)

const defaultAnthropicModel = "claude-sonnet-4-20250514"

// AnthropicProvider implements the Provider interface using the official
// Anthropic Go SDK.
type AnthropicProvider struct {
	client    anthropic.Client
	model     string
	maxTokens int
	available bool
}

// NewAnthropicProvider creates a new Anthropic provider.
func NewAnthropicProvider(cfg *llm.Config) (llm.Provider, error) {
	apiCfg := cfg.Providers.Anthropic
	if !apiCfg.Enabled {
		return nil, fmt.Errorf("anthropic provider is disabled")
	}

	apiKey := apiCfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}

	p := &AnthropicProvider{
		client:    anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:     apiCfg.Model,
		maxTokens: apiCfg.MaxTokens,
		available: apiKey != "",
	}

	if p.model == "" {
		p.model = defaultAnthropicModel
	}
	if p.maxTokens == 0 {
		p.maxTokens = 1024
	}

	return p, nil
}

// Type returns the provider type.
func (p *AnthropicProvider) Type() llm.ProviderType {
	return llm.ProviderAnthropic
}

// Name returns the human-readable provider name.
func (p *AnthropicProvider) Name() string {
	return fmt.Sprintf("Anthropic API (%s)", p.model)
}

// Available checks if the provider is available.
func (p *AnthropicProvider) Available(ctx context.Context) bool {
	return p.available
}

// Generate completes the prompt via the Messages API and concatenates the
// text content blocks of the response.
func (p *AnthropicProvider) Generate(ctx context.Context, prompt string) (string, error) {
	if !p.available {
		return "", fmt.Errorf("anthropic API is not available (missing API key)")
	}

	resp, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: int64(p.maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic request failed: %w", err)
	}

	var parts []string
	for _, block := range resp.Content {
		if block.Type == "text" {
			parts = append(parts, block.Text)
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("anthropic response contained no text content")
	}

	return strings.Join(parts, "\n"), nil
}

// Close releases provider resources.
func (p *AnthropicProvider) Close() error {
	return nil
}
