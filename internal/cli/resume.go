package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/codetrail/codetrail/internal/llm"
	"github.com/codetrail/codetrail/internal/llm/providers"
	"github.com/codetrail/codetrail/internal/resume"
	"github.com/codetrail/codetrail/internal/session"
)

var (
	resumeClassic bool
	resumeLimit   int
	resumeRaw     bool
)

var resumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Summarize what you were working on",
	Long: `Resume reduces your recent change history into a natural-language summary
of what you were doing, with tasks, file relationships, and next steps.

With --classic, the summary is built from recorded session snapshots
(branch, last commit, diff, file list) instead of the change tracker.`,
	RunE: runResume,
}

func init() {
	resumeCmd.Flags().BoolVar(&resumeClassic, "classic", false, "Use session snapshots instead of tracked changes")
	resumeCmd.Flags().IntVarP(&resumeLimit, "limit", "n", 0, "Number of recent changes to include (default from config)")
	resumeCmd.Flags().BoolVar(&resumeRaw, "raw", false, "Print the raw model output without styling")
	rootCmd.AddCommand(resumeCmd)
}

func runResume(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	manager, err := llm.NewManager(a.cfg.LLM, providers.DefaultFactories())
	if err != nil {
		return err
	}
	defer func() { _ = manager.Close() }()

	reducer := resume.NewReducer(manager)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var result *resume.Result
	if resumeClassic {
		result, err = runClassicResume(ctx, a, reducer)
	} else {
		limit := resumeLimit
		if limit <= 0 {
			limit = a.cfg.Tracking.RecentLimit
		}
		formatted := a.tracker.FormattedRecentChanges(limit)
		result, err = reducer.Reduce(ctx, formatted)
	}
	if err != nil {
		return err
	}

	if resumeRaw || result.Payload == nil {
		fmt.Println(result.Raw)
		return nil
	}

	fmt.Println(renderPayload(result.Payload))
	return nil
}

// runClassicResume feeds the latest session snapshot through the classic
// reduction path.
func runClassicResume(ctx context.Context, a *app, reducer *resume.Reducer) (*resume.Result, error) {
	store, err := session.NewSQLiteStore(a.cfg.Tracking.SessionDBPath)
	if err != nil {
		return nil, err
	}
	defer func() { _ = store.Close() }()

	records, err := store.RecentRecords(1)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("no recorded sessions; run 'codetrail session record' first")
	}

	return reducer.ReduceClassic(ctx, records[0].Format())
}
