package llm

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/codetrail/codetrail/internal/logger"
)

// Errors returned by the manager.
var (
	ErrDisabled    = errors.New("llm generation is disabled")
	ErrNoProviders = errors.New("no providers available")
)

// Manager routes generation requests through the configured provider
// fallback chain. One request is in flight per call; the manager performs
// no retries beyond falling through to the next provider.
type Manager struct {
	cfg       *Config
	providers map[ProviderType]Provider
	mu        sync.Mutex
}

// NewManager creates a new LLM manager from the given config and factories.
// Providers that fail to construct are skipped with a warning.
func NewManager(cfg *Config, factories map[ProviderType]ProviderFactory) (*Manager, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid llm config: %w", err)
	}

	m := &Manager{
		cfg:       cfg,
		providers: make(map[ProviderType]Provider),
	}

	for _, pt := range cfg.ProviderOrder {
		factory, ok := factories[pt]
		if !ok {
			continue
		}
		provider, err := factory(cfg)
		if err != nil {
			logger.Warn().
				Str("provider", string(pt)).
				Err(err).
				Msg("Failed to create provider, skipping")
			continue
		}
		m.providers[pt] = provider
	}

	return m, nil
}

// Generate completes the prompt using the first available provider in the
// fallback chain. The last provider error is returned when all fail.
func (m *Manager) Generate(ctx context.Context, prompt string) (string, error) {
	if !m.cfg.Enabled {
		return "", ErrDisabled
	}

	var lastErr error
	for _, pt := range m.cfg.ProviderOrder {
		provider, ok := m.providers[pt]
		if !ok {
			continue
		}
		if !provider.Available(ctx) {
			logger.Debug().
				Str("provider", string(pt)).
				Msg("Provider not available, trying next")
			continue
		}

		reqCtx, cancel := context.WithTimeout(ctx, m.cfg.Timeout)
		start := time.Now()
		text, err := provider.Generate(reqCtx, prompt)
		cancel()

		if err != nil {
			lastErr = err
			logger.Warn().
				Str("provider", string(pt)).
				Err(err).
				Msg("Provider generation failed, trying next")
			continue
		}

		logger.Debug().
			Str("provider", string(pt)).
			Dur("latency", time.Since(start)).
			Int("response_chars", len(text)).
			Msg("Generation complete")

		return text, nil
	}

	if lastErr != nil {
		return "", fmt.Errorf("all providers failed: %w", lastErr)
	}
	return "", ErrNoProviders
}

// AvailableProviders returns the currently available provider types in
// fallback order.
func (m *Manager) AvailableProviders(ctx context.Context) []ProviderType {
	var available []ProviderType
	for _, pt := range m.cfg.ProviderOrder {
		if provider, ok := m.providers[pt]; ok && provider.Available(ctx) {
			available = append(available, pt)
		}
	}
	return available
}

// Close releases all provider resources.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var errs []error
	for _, provider := range m.providers {
		if err := provider.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("errors closing providers: %v", errs)
	}
	return nil
}
