package cli

import (
	"fmt"
	"os"

	"github.com/codetrail/codetrail/internal/changelog"
	"github.com/codetrail/codetrail/internal/config"
	"github.com/codetrail/codetrail/internal/ignore"
	"github.com/codetrail/codetrail/internal/logger"
	"github.com/codetrail/codetrail/internal/tracker"
)

// app is the explicitly-constructed context object passed to commands:
// config plus the tracking components built from it. Created once per
// command invocation, no ambient globals.
type app struct {
	cfg     *config.Config
	root    string
	store   *changelog.Store
	filter  *ignore.Filter
	tracker *tracker.Tracker
}

// newApp loads configuration, initializes logging, and constructs the
// tracking components.
func newApp() (*app, error) {
	loader, err := config.NewLoader(projectDir)
	if err != nil {
		return nil, err
	}

	var cfg *config.Config
	if configFile != "" {
		cfg, err = loader.LoadFromFile(configFile)
	} else {
		cfg, err = loader.Load()
	}
	if err != nil {
		return nil, err
	}

	level := cfg.Settings.LogLevel
	if verbose {
		level = "debug"
	}
	if err := logger.Init(level, cfg.Settings.LogFile); err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}

	root := projectDir
	if root == "" {
		root, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
	}

	store, err := changelog.NewStore(cfg.Tracking.ChangeLogPath)
	if err != nil {
		return nil, err
	}

	filter := ignore.NewFilter(root, cfg.Tracking.IgnoreFile)

	tr := tracker.New(filter, store,
		tracker.WithContextMargin(cfg.Tracking.ContextMargin))

	return &app{
		cfg:     cfg,
		root:    root,
		store:   store,
		filter:  filter,
		tracker: tr,
	}, nil
}
