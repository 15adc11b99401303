// Package config defines codetrail's configuration and its loader.
package config

import (
	"github.com/codetrail/codetrail/internal/llm"
)

// Config represents the complete codetrail configuration.
type Config struct {
	Version  string   `yaml:"version"`
	Settings Settings `yaml:"settings"`
	Tracking Tracking `yaml:"tracking"`

	// LLM is a pointer so a loaded file's llm block is distinguishable
	// from an absent one: when present, its Enabled value is taken
	// verbatim during merging.
	LLM *llm.Config `yaml:"llm,omitempty"`
}

// Settings contains global configuration settings.
type Settings struct {
	LogLevel string `yaml:"log_level"`
	LogFile  string `yaml:"log_file,omitempty"`
}

// Tracking contains change-tracking configuration.
type Tracking struct {
	// ChangeLogPath is the JSON Lines change log location. Empty means
	// ~/.codetrail/changes.jsonl.
	ChangeLogPath string `yaml:"change_log_path,omitempty"`

	// IgnoreFile overrides the rules file location. Empty means
	// .codetrailignore in the tracked root.
	IgnoreFile string `yaml:"ignore_file,omitempty"`

	// SessionDBPath is the SQLite session store location. Empty means
	// ~/.codetrail/sessions.db.
	SessionDBPath string `yaml:"session_db_path,omitempty"`

	// ContextMargin is the number of context lines on each side of the
	// dirty range.
	ContextMargin int `yaml:"context_margin"`

	// RecentLimit bounds how many change summaries feed a resume.
	RecentLimit int `yaml:"recent_limit"`

	// DaysToKeep is the prune cutoff for cleanup.
	DaysToKeep int `yaml:"days_to_keep"`

	// FlushAfterSeconds is the watch-mode quiet period before a file's
	// tracking is flushed.
	FlushAfterSeconds int `yaml:"flush_after_seconds"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Version: "1",
		Settings: Settings{
			LogLevel: "info",
		},
		Tracking: Tracking{
			ContextMargin:     2,
			RecentLimit:       20,
			DaysToKeep:        7,
			FlushAfterSeconds: 30,
		},
		LLM: llm.DefaultConfig(),
	}
}
