package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/codetrail/codetrail/internal/session"
)

var sessionLimit int

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Record and list session snapshots",
	Long: `Session snapshots capture coarse facts about the current session: git
branch, last commit, working diff, and the list of touched files. They feed
the --classic resume path.`,
}

var sessionRecordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record a snapshot of the current session",
	RunE:  runSessionRecord,
}

var sessionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded session snapshots",
	RunE:  runSessionList,
}

func init() {
	sessionListCmd.Flags().IntVarP(&sessionLimit, "limit", "n", 10, "Maximum number of snapshots to show")
	sessionCmd.AddCommand(sessionRecordCmd, sessionListCmd)
	rootCmd.AddCommand(sessionCmd)
}

func runSessionRecord(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	store, err := session.NewSQLiteStore(a.cfg.Tracking.SessionDBPath)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	recorder := session.NewRecorder(a.root, store)
	rec, err := recorder.Snapshot(context.Background())
	if err != nil {
		return err
	}

	if rec.Branch != "" {
		fmt.Printf("Recorded session %s on branch %s (%d touched file(s)).\n",
			rec.ID, rec.Branch, len(rec.Files))
	} else {
		fmt.Printf("Recorded session %s (not a git repository).\n", rec.ID)
	}
	return nil
}

func runSessionList(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	store, err := session.NewSQLiteStore(a.cfg.Tracking.SessionDBPath)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	records, err := store.RecentRecords(sessionLimit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("No recorded sessions.")
		return nil
	}

	for _, rec := range records {
		branch := rec.Branch
		if branch == "" {
			branch = "-"
		}
		fmt.Printf("%s  %s  branch=%s  files=%d\n",
			rec.Timestamp.Format("2006-01-02 15:04"), rec.ID, branch, len(rec.Files))
	}
	return nil
}
