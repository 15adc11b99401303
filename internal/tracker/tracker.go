// Package tracker maintains per-file live edit state and collapses edit
// events into line-scoped change summaries.
//
// Each tracked path moves through a two-state machine: Untracked -> Live ->
// (flushed back to) Untracked. A live state holds the baseline content
// captured at tracking start plus the set of line indices touched since.
// Stopping tracking re-reads the file, expands the dirty range by a fixed
// context margin, and persists the before/after window to the change log.
package tracker

import (
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/codetrail/codetrail/internal/changelog"
	"github.com/codetrail/codetrail/internal/ignore"
	"github.com/codetrail/codetrail/internal/logger"
)

// DefaultContextMargin is the number of extra lines included on each side of
// the dirty range when extracting before/after text.
const DefaultContextMargin = 2

// EditEvent is one discrete edit delivered by the hosting editor or watcher.
// Line indices are zero-based and inclusive.
type EditEvent struct {
	Path      string
	StartLine int
	EndLine   int
}

// liveState is the in-memory record for one currently-tracked file. A path
// has at most one live state at a time.
type liveState struct {
	path          string
	baselineLines []string
	startedAt     time.Time
	dirty         map[int]struct{}
}

// Tracker is the per-file change tracking state machine. All methods are
// safe for concurrent use; the internal lock also guarantees that a stop for
// one path can never race itself.
type Tracker struct {
	filter *ignore.Filter
	store  *changelog.Store
	margin int
	now    func() time.Time

	// mu guards live and is held across stop's disk I/O, so a stop for a
	// path already mid-stop cannot start concurrently.
	mu   sync.Mutex
	live map[string]*liveState
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithContextMargin overrides the context margin.
func WithContextMargin(lines int) Option {
	return func(t *Tracker) {
		if lines >= 0 {
			t.margin = lines
		}
	}
}

// WithClock overrides the time source. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// New creates a tracker that gates edits through filter and persists change
// summaries to store.
func New(filter *ignore.Filter, store *changelog.Store, opts ...Option) *Tracker {
	t := &Tracker{
		filter: filter,
		store:  store,
		margin: DefaultContextMargin,
		now:    time.Now,
		live:   make(map[string]*liveState),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// StartTracking captures the baseline content for path and creates a live
// state with an empty dirty set. A missing or unreadable file is a log-only
// no-op; tracking operations never propagate I/O failures.
func (t *Tracker) StartTracking(path string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.startLocked(path)
}

func (t *Tracker) startLocked(path string) *liveState {
	if st, ok := t.live[path]; ok {
		return st
	}

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Debug().
			Str("path", path).
			Err(err).
			Msg("Cannot start tracking, file unreadable")
		return nil
	}

	st := &liveState{
		path:          path,
		baselineLines: splitLines(string(data)),
		startedAt:     t.now(),
		dirty:         make(map[int]struct{}),
	}
	t.live[path] = st

	logger.Debug().
		Str("path", path).
		Int("baseline_lines", len(st.baselineLines)).
		Msg("Started tracking")

	return st
}

// RecordChange records one edit event. Ignored paths are discarded silently.
// When no live state exists for the path one is created first, so a first
// edit is never lost because tracking had not been explicitly started.
// Recording the same line twice is a no-op beyond set membership.
func (t *Tracker) RecordChange(ev EditEvent) {
	if t.filter != nil && t.filter.ShouldIgnore(ev.Path) {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	st, ok := t.live[ev.Path]
	if !ok {
		st = t.startLocked(ev.Path)
		if st == nil {
			return
		}
	}

	for line := ev.StartLine; line <= ev.EndLine; line++ {
		if line >= 0 {
			st.dirty[line] = struct{}{}
		}
	}
}

// StopTracking is the terminal transition for a path. It returns nil, and
// removes any live state, when no live state exists, the file no longer
// exists on disk, or no lines were touched. Otherwise it builds the change
// summary, persists it, and returns it.
//
// The live state is removed unconditionally after persistence is attempted,
// and the computed summary is returned to the caller even when persistence
// failed: the in-memory result is the contract, durability is best-effort.
func (t *Tracker) StopTracking(path string) *changelog.ChangeSummary {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopLocked(path)
}

func (t *Tracker) stopLocked(path string) *changelog.ChangeSummary {
	st, ok := t.live[path]
	if !ok {
		return nil
	}
	delete(t.live, path)

	if len(st.dirty) == 0 {
		logger.Debug().Str("path", path).Msg("No net change, dropping live state")
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Debug().
			Str("path", path).
			Err(err).
			Msg("File gone at stop, dropping live state")
		return nil
	}
	currentLines := splitLines(string(data))

	changed := make([]int, 0, len(st.dirty))
	for line := range st.dirty {
		changed = append(changed, line)
	}
	sort.Ints(changed)

	firstDirty := changed[0]
	lastDirty := changed[len(changed)-1]

	// Expand by the context margin, clamped to the current content bounds.
	// When the file shrank, both ends clamp to the new last index so the
	// summary's line numbers always describe the current file's coordinate
	// space, even when every dirty line was truncated away.
	lastIndex := len(currentLines) - 1
	startLine := max(0, firstDirty-t.margin)
	endLine := min(lastIndex, lastDirty+t.margin)
	if startLine > lastIndex {
		startLine = lastIndex
	}
	if endLine < startLine {
		endLine = startLine
	}

	summary := &changelog.ChangeSummary{
		FilePath:     path,
		StartTime:    st.startedAt.UnixMilli(),
		EndTime:      t.now().UnixMilli(),
		StartLine:    startLine,
		EndLine:      endLine,
		Before:       sliceLines(st.baselineLines, startLine, endLine),
		After:        sliceLines(currentLines, startLine, endLine),
		ChangedLines: changed,
	}

	if err := t.store.Append(summary); err != nil {
		logger.Error().
			Str("path", path).
			Err(err).
			Msg("Failed to persist change summary")
	}

	return summary
}

// StopTrackingAll stops tracking for every live path and collects the
// non-nil summaries. Order follows a snapshot of the live-path set taken
// once at entry; a failure for one path never aborts the batch.
func (t *Tracker) StopTrackingAll() []*changelog.ChangeSummary {
	t.mu.Lock()
	defer t.mu.Unlock()

	paths := make([]string, 0, len(t.live))
	for path := range t.live {
		paths = append(paths, path)
	}

	var summaries []*changelog.ChangeSummary
	for _, path := range paths {
		if s := t.stopLocked(path); s != nil {
			summaries = append(summaries, s)
		}
	}
	return summaries
}

// TrackedPaths returns the currently-live paths.
func (t *Tracker) TrackedPaths() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	paths := make([]string, 0, len(t.live))
	for path := range t.live {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// CleanupOldChanges rewrites the change log keeping only records whose
// EndTime is within the last daysToKeep days. Returns the number of records
// dropped. This is a destructive compaction, not a soft delete.
func (t *Tracker) CleanupOldChanges(daysToKeep int) (int, error) {
	records, err := t.store.ReadAll()
	if err != nil {
		return 0, err
	}

	cutoff := t.now().UnixMilli() - int64(daysToKeep)*86_400_000
	survivors := make([]*changelog.ChangeSummary, 0, len(records))
	for _, rec := range records {
		if rec.EndTime >= cutoff {
			survivors = append(survivors, rec)
		}
	}

	dropped := len(records) - len(survivors)
	if dropped == 0 {
		return 0, nil
	}

	if err := t.store.Rewrite(survivors); err != nil {
		return 0, err
	}

	logger.Info().
		Int("dropped", dropped).
		Int("kept", len(survivors)).
		Msg("Pruned change log")

	return dropped, nil
}

// splitLines splits content into lines. A trailing carriage return is
// stripped so CRLF files compare cleanly against LF baselines.
func splitLines(content string) []string {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

// sliceLines joins lines[start..end] (inclusive, clamped) with newlines.
func sliceLines(lines []string, start, end int) string {
	if start < 0 {
		start = 0
	}
	if end > len(lines)-1 {
		end = len(lines) - 1
	}
	if start > end {
		return ""
	}
	return strings.Join(lines[start:end+1], "\n")
}
