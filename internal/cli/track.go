package cli

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/codetrail/codetrail/internal/logger"
	"github.com/codetrail/codetrail/internal/watch"
)

var trackCmd = &cobra.Command{
	Use:   "track",
	Short: "Watch the project and track file edits",
	Long: `Track watches the project directory for file writes and records them as
line-scoped changes. A file's tracking is flushed to the change log after a
quiet period, or when tracking stops.

Stop with Ctrl-C; pending edits are flushed before exit.`,
	RunE: runTrack,
}

func init() {
	rootCmd.AddCommand(trackCmd)
}

func runTrack(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	flushAfter := time.Duration(a.cfg.Tracking.FlushAfterSeconds) * time.Second
	watcher := watch.New(a.root, a.tracker, a.filter, flushAfter)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = watcher.Run(ctx)

	// Teardown: flush all live states so no unpersisted edits are lost.
	summaries := a.tracker.StopTrackingAll()
	if len(summaries) > 0 {
		logger.Info().
			Int("flushed", len(summaries)).
			Msg("Flushed pending changes on shutdown")
	}
	fmt.Printf("Tracking stopped, %d pending change(s) flushed.\n", len(summaries))

	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
