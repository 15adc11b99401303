package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var changesLimit int

var changesCmd = &cobra.Command{
	Use:   "changes",
	Short: "Show recent tracked changes",
	Long:  `Changes prints the most recent change summaries from the change log.`,
	RunE:  runChanges,
}

func init() {
	changesCmd.Flags().IntVarP(&changesLimit, "limit", "n", 0, "Maximum number of changes to show (default from config)")
	rootCmd.AddCommand(changesCmd)
}

func runChanges(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	limit := changesLimit
	if limit <= 0 {
		limit = a.cfg.Tracking.RecentLimit
	}

	fmt.Println(a.tracker.FormattedRecentChanges(limit))
	return nil
}
