// Package session records coarse-grained session facts (branch, last
// commit, working diff, touched files) keyed by timestamp. These feed the
// "classic" resume path, independent of the line-scoped change tracker.
package session

import (
	"fmt"
	"strings"
	"time"
)

// Record is one session snapshot.
type Record struct {
	ID         string    `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	WorkDir    string    `json:"work_dir"`
	Branch     string    `json:"branch"`
	LastCommit string    `json:"last_commit"`
	Diff       string    `json:"diff"`
	Files      []string  `json:"files"`
}

// Format renders the record as the plain-text session snapshot fed to the
// classic resume prompt.
func (r *Record) Format() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "recorded: %s\n", r.Timestamp.Format(time.RFC3339))
	fmt.Fprintf(&sb, "directory: %s\n", r.WorkDir)
	if r.Branch != "" {
		fmt.Fprintf(&sb, "branch: %s\n", r.Branch)
	}
	if r.LastCommit != "" {
		fmt.Fprintf(&sb, "last commit: %s\n", r.LastCommit)
	}
	if len(r.Files) > 0 {
		sb.WriteString("touched files:\n")
		for _, f := range r.Files {
			fmt.Fprintf(&sb, "  - %s\n", f)
		}
	}
	if r.Diff != "" {
		sb.WriteString("working diff:\n")
		sb.WriteString(r.Diff)
		if !strings.HasSuffix(r.Diff, "\n") {
			sb.WriteString("\n")
		}
	}

	return sb.String()
}
