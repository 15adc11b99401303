package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/codetrail/codetrail/internal/llm"
)

const (
	defaultOpenAIURL   = "https://api.openai.com/v1/chat/completions"
	defaultOpenAIModel = "gpt-4-turbo"
)

// OpenAIProvider implements the Provider interface using OpenAI's Chat
// Completions API over plain HTTP.
type OpenAIProvider struct {
	apiKey       string
	model        string
	maxTokens    int
	baseURL      string
	organization string
	client       *http.Client
	available    bool
}

// NewOpenAIProvider creates a new OpenAI API provider.
func NewOpenAIProvider(cfg *llm.Config) (llm.Provider, error) {
	apiCfg := cfg.Providers.OpenAI
	if !apiCfg.Enabled {
		return nil, fmt.Errorf("openai provider is disabled")
	}

	p := &OpenAIProvider{
		apiKey:       apiCfg.APIKey,
		model:        apiCfg.Model,
		maxTokens:    apiCfg.MaxTokens,
		baseURL:      apiCfg.BaseURL,
		organization: apiCfg.Organization,
		client:       &http.Client{},
	}

	if p.apiKey == "" {
		p.apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if p.model == "" {
		p.model = defaultOpenAIModel
	}
	if p.maxTokens == 0 {
		p.maxTokens = 1024
	}
	if p.baseURL == "" {
		p.baseURL = defaultOpenAIURL
	}

	p.available = p.apiKey != ""

	return p, nil
}

// Type returns the provider type.
func (p *OpenAIProvider) Type() llm.ProviderType {
	return llm.ProviderOpenAI
}

// Name returns the human-readable provider name.
func (p *OpenAIProvider) Name() string {
	return fmt.Sprintf("OpenAI API (%s)", p.model)
}

// Available checks if the provider is available.
func (p *OpenAIProvider) Available(ctx context.Context) bool {
	return p.available
}

// Generate completes the prompt using the Chat Completions API.
func (p *OpenAIProvider) Generate(ctx context.Context, prompt string) (string, error) {
	if !p.available {
		return "", fmt.Errorf("openai API is not available (missing API key)")
	}

	apiReq := openAIRequest{
		Model: p.model,
		Messages: []openAIMessage{
			{Role: "user", Content: prompt},
		},
		MaxTokens:   p.maxTokens,
		Temperature: 0.2,
	}

	reqBody, err := json.Marshal(apiReq)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", p.baseURL, bytes.NewReader(reqBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	if p.organization != "" {
		httpReq.Header.Set("OpenAI-Organization", p.organization)
	}

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("API request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp openAIError
		if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
			return "", fmt.Errorf("API error (%d): %s", resp.StatusCode, errResp.Error.Message)
		}
		return "", fmt.Errorf("API error (%d): %s", resp.StatusCode, string(body))
	}

	var apiResp openAIResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if len(apiResp.Choices) == 0 {
		return "", fmt.Errorf("openai response contained no choices")
	}

	return apiResp.Choices[0].Message.Content, nil
}

// Close releases provider resources.
func (p *OpenAIProvider) Close() error {
	return nil
}

// API request/response types.

type openAIRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
	Temperature float64         `json:"temperature,omitempty"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIResponse struct {
	Choices []struct {
		Message openAIMessage `json:"message"`
	} `json:"choices"`
}

type openAIError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}
