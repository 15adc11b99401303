package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/codetrail/codetrail/internal/llm"
)

const (
	globalConfigDir  = ".codetrail"
	projectConfigDir = ".codetrail"
	configFileName   = "config.yaml"
)

// Loader handles loading and merging configuration files.
type Loader struct {
	globalPath  string
	projectPath string
}

// NewLoader creates a new configuration loader. Project config is resolved
// relative to projectDir, defaulting to the working directory.
func NewLoader(projectDir string) (*Loader, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}

	if projectDir == "" {
		projectDir, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
	}

	return &Loader{
		globalPath:  filepath.Join(homeDir, globalConfigDir, configFileName),
		projectPath: filepath.Join(projectDir, projectConfigDir, configFileName),
	}, nil
}

// Load loads and merges configuration: defaults, then global config, then
// project config, later sources taking precedence.
func (l *Loader) Load() (*Config, error) {
	cfg := DefaultConfig()

	globalCfg, err := l.loadFile(l.globalPath)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load global config: %w", err)
	}
	if globalCfg != nil {
		cfg = mergeConfigs(cfg, globalCfg)
	}

	projectCfg, err := l.loadFile(l.projectPath)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load project config: %w", err)
	}
	if projectCfg != nil {
		cfg = mergeConfigs(cfg, projectCfg)
	}

	return cfg, nil
}

// LoadFromFile loads configuration from a specific file, merged over the
// defaults so fields the file leaves out keep their default values.
func (l *Loader) LoadFromFile(path string) (*Config, error) {
	cfg, err := l.loadFile(path)
	if err != nil {
		return nil, err
	}
	return mergeConfigs(DefaultConfig(), cfg), nil
}

func (l *Loader) loadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return &cfg, nil
}

// mergeConfigs merges two configurations, with override taking precedence
// for any field it sets.
func mergeConfigs(base, override *Config) *Config {
	result := &Config{
		Version: coalesce(override.Version, base.Version),
		Settings: Settings{
			LogLevel: coalesce(override.Settings.LogLevel, base.Settings.LogLevel),
			LogFile:  coalesce(override.Settings.LogFile, base.Settings.LogFile),
		},
		Tracking: Tracking{
			ChangeLogPath:     coalesce(override.Tracking.ChangeLogPath, base.Tracking.ChangeLogPath),
			IgnoreFile:        coalesce(override.Tracking.IgnoreFile, base.Tracking.IgnoreFile),
			SessionDBPath:     coalesce(override.Tracking.SessionDBPath, base.Tracking.SessionDBPath),
			ContextMargin:     coalesceInt(override.Tracking.ContextMargin, base.Tracking.ContextMargin),
			RecentLimit:       coalesceInt(override.Tracking.RecentLimit, base.Tracking.RecentLimit),
			DaysToKeep:        coalesceInt(override.Tracking.DaysToKeep, base.Tracking.DaysToKeep),
			FlushAfterSeconds: coalesceInt(override.Tracking.FlushAfterSeconds, base.Tracking.FlushAfterSeconds),
		},
		LLM: mergeLLM(base.LLM, override.LLM),
	}
	return result
}

// mergeLLM merges llm blocks. A nil override means the file had no llm
// block and the base is kept as-is. When the block is present, Enabled is
// taken verbatim: a plain bool cannot distinguish "not set" from "set to
// false", so block presence is the explicitness signal.
func mergeLLM(base, override *llm.Config) *llm.Config {
	if base == nil {
		base = llm.DefaultConfig()
	}
	if override == nil {
		return base
	}

	merged := *base
	merged.Enabled = override.Enabled
	if len(override.ProviderOrder) > 0 {
		merged.ProviderOrder = override.ProviderOrder
	}
	if override.Timeout > 0 {
		merged.Timeout = override.Timeout
	}
	if override.Providers.Anthropic.APIKey != "" || override.Providers.Anthropic.Model != "" {
		merged.Providers.Anthropic = override.Providers.Anthropic
	}
	if override.Providers.OpenAI.APIKey != "" || override.Providers.OpenAI.Model != "" {
		merged.Providers.OpenAI = override.Providers.OpenAI
	}
	return &merged
}

func coalesce(override, base string) string {
	if override != "" {
		return override
	}
	return base
}

func coalesceInt(override, base int) int {
	if override != 0 {
		return override
	}
	return base
}
