package tracker

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/codetrail/codetrail/internal/changelog"
	"github.com/codetrail/codetrail/internal/logger"
)

// NoRecentChanges is returned by FormattedRecentChanges when the window is
// empty. Callers branch on this exact sentinel.
const NoRecentChanges = "No recent changes found."

// FormattedRecentChanges reads up to limit most-recent records from the
// change log, re-sorts them descending by end time, and renders each as a
// fixed-shape text block joined by blank lines. This string is the raw
// material for resume prompts.
func (t *Tracker) FormattedRecentChanges(limit int) string {
	records, err := t.store.ReadRecent(limit)
	if err != nil {
		logger.Debug().Err(err).Msg("Failed to read recent changes")
		return NoRecentChanges
	}
	if len(records) == 0 {
		return NoRecentChanges
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].EndTime > records[j].EndTime
	})

	blocks := make([]string, 0, len(records))
	for i, rec := range records {
		blocks = append(blocks, formatRecord(i+1, rec, t.now()))
	}
	return strings.Join(blocks, "\n\n")
}

// formatRecord renders one change summary as a text block.
func formatRecord(index int, rec *changelog.ChangeSummary, now time.Time) string {
	age := relativeAge(rec.EndTime, now)

	var sb strings.Builder
	fmt.Fprintf(&sb, "[%d] %s\n", index, filepath.Base(rec.FilePath))
	fmt.Fprintf(&sb, "    path: %s\n", rec.FilePath)
	fmt.Fprintf(&sb, "    lines %d-%d (%s)\n", rec.StartLine, rec.EndLine, age)
	fmt.Fprintf(&sb, "    changed lines: %s\n", joinInts(rec.ChangedLines))
	fmt.Fprintf(&sb, "    before: %q\n", rec.Before)
	fmt.Fprintf(&sb, "    after: %q", rec.After)
	return sb.String()
}

// relativeAge renders a millisecond timestamp as a human-relative age.
func relativeAge(ms int64, now time.Time) string {
	then := time.UnixMilli(ms)
	if then.After(now) {
		return "just now"
	}
	return humanize.RelTime(then, now, "ago", "from now")
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprintf("%d", v)
	}
	return strings.Join(parts, ", ")
}
