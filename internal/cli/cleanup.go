package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/codetrail/codetrail/internal/session"
)

var cleanupDays int

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Prune old change and session records",
	Long: `Cleanup rewrites the change log keeping only records newer than the
cutoff, and deletes session snapshots older than the same cutoff.`,
	RunE: runCleanup,
}

func init() {
	cleanupCmd.Flags().IntVar(&cleanupDays, "days", 0, "Days of history to keep (default from config)")
	rootCmd.AddCommand(cleanupCmd)
}

func runCleanup(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	days := cleanupDays
	if days <= 0 {
		days = a.cfg.Tracking.DaysToKeep
	}

	dropped, err := a.tracker.CleanupOldChanges(days)
	if err != nil {
		return err
	}
	fmt.Printf("Pruned %d change record(s) older than %d day(s).\n", dropped, days)

	store, err := session.NewSQLiteStore(a.cfg.Tracking.SessionDBPath)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	deleted, err := store.CleanupOldRecords(time.Duration(days) * 24 * time.Hour)
	if err != nil {
		return err
	}
	fmt.Printf("Pruned %d session record(s).\n", deleted)

	return nil
}
