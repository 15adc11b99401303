package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfigFile(t *testing.T, dir, content string) {
	t.Helper()
	cfgDir := filepath.Join(dir, ".codetrail")
	if err := os.MkdirAll(cfgDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(cfgDir, "config.yaml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadDefaultsWhenNoFiles(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	loader, err := NewLoader(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := loader.Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Tracking.ContextMargin != 2 || cfg.Settings.LogLevel != "info" {
		t.Errorf("missing files should yield defaults, got margin=%d level=%q",
			cfg.Tracking.ContextMargin, cfg.Settings.LogLevel)
	}
}

func TestLoadMergePrecedence(t *testing.T) {
	home := t.TempDir()
	project := t.TempDir()
	t.Setenv("HOME", home)

	writeConfigFile(t, home, `
settings:
  log_level: warn
tracking:
  recent_limit: 10
  days_to_keep: 30
`)
	writeConfigFile(t, project, `
settings:
  log_level: debug
tracking:
  recent_limit: 5
`)

	loader, err := NewLoader(project)
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := loader.Load()
	if err != nil {
		t.Fatal(err)
	}

	// Project wins over global.
	if cfg.Settings.LogLevel != "debug" {
		t.Errorf("got LogLevel=%q, want project override \"debug\"", cfg.Settings.LogLevel)
	}
	if cfg.Tracking.RecentLimit != 5 {
		t.Errorf("got RecentLimit=%d, want project override 5", cfg.Tracking.RecentLimit)
	}
	// Global wins over defaults where the project is silent.
	if cfg.Tracking.DaysToKeep != 30 {
		t.Errorf("got DaysToKeep=%d, want global override 30", cfg.Tracking.DaysToKeep)
	}
	// Defaults fill everything else.
	if cfg.Tracking.ContextMargin != 2 {
		t.Errorf("got ContextMargin=%d, want default 2", cfg.Tracking.ContextMargin)
	}
}

func TestLoadLLMDisabledInFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	writeConfigFile(t, home, `
llm:
  enabled: false
`)

	loader, err := NewLoader(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := loader.Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.LLM.Enabled {
		t.Error("llm.enabled: false in a config file must disable generation")
	}
	// Fields the block leaves out keep their defaults.
	if len(cfg.LLM.ProviderOrder) == 0 {
		t.Error("provider order should fall back to defaults")
	}
	if cfg.LLM.Timeout <= 0 {
		t.Error("timeout should fall back to defaults")
	}
}

func TestLoadLLMBlockAbsentKeepsDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	writeConfigFile(t, home, `
settings:
  log_level: warn
`)

	loader, err := NewLoader(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := loader.Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.LLM == nil || !cfg.LLM.Enabled {
		t.Error("a file without an llm block must keep generation enabled")
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	writeConfigFile(t, home, "settings: [not a map")

	loader, err := NewLoader(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := loader.Load(); err == nil {
		t.Error("malformed global config should fail loudly")
	}
}

func TestLoadFromFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	if err := os.WriteFile(path, []byte("settings:\n  log_level: trace\n"), 0644); err != nil {
		t.Fatal(err)
	}

	loader, err := NewLoader(dir)
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := loader.LoadFromFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Settings.LogLevel != "trace" {
		t.Errorf("got LogLevel=%q, want \"trace\"", cfg.Settings.LogLevel)
	}
	// A minimal file merges over defaults rather than zeroing them.
	if cfg.Tracking.ContextMargin != 2 {
		t.Errorf("got ContextMargin=%d, want default 2", cfg.Tracking.ContextMargin)
	}
	if cfg.Tracking.RecentLimit != 20 {
		t.Errorf("got RecentLimit=%d, want default 20", cfg.Tracking.RecentLimit)
	}
	if cfg.LLM == nil || !cfg.LLM.Enabled {
		t.Error("llm defaults should survive LoadFromFile")
	}
}
