// Package watch feeds filesystem write events into the change tracker. It
// stands in for an editor's edit-event stream when codetrail runs as a CLI:
// each write is converted into a line-range edit event by comparing the
// file's new content against the previous snapshot, and a per-file debounce
// flushes tracking after a quiet period, simulating a save.
package watch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/codetrail/codetrail/internal/ignore"
	"github.com/codetrail/codetrail/internal/logger"
	"github.com/codetrail/codetrail/internal/tracker"
)

// DefaultFlushAfter is the quiet period after which a file's tracking is
// flushed to the change log.
const DefaultFlushAfter = 30 * time.Second

// Watcher converts filesystem events under a root directory into tracker
// edit events.
type Watcher struct {
	root       string
	tracker    *tracker.Tracker
	filter     *ignore.Filter
	flushAfter time.Duration

	mu        sync.Mutex
	snapshots map[string][]string
	timers    map[string]*time.Timer
}

// New creates a watcher over root.
func New(root string, tr *tracker.Tracker, filter *ignore.Filter, flushAfter time.Duration) *Watcher {
	if flushAfter <= 0 {
		flushAfter = DefaultFlushAfter
	}
	return &Watcher{
		root:       root,
		tracker:    tr,
		filter:     filter,
		flushAfter: flushAfter,
		snapshots:  make(map[string][]string),
		timers:     make(map[string]*time.Timer),
	}
}

// Run watches the root tree until ctx is cancelled. New subdirectories are
// added to the watch as they appear. On return all pending flush timers are
// stopped; the caller is responsible for the final StopTrackingAll.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = fw.Close() }()

	if err := filepath.WalkDir(w.root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // skip unreadable entries
		}
		if d.IsDir() {
			if w.filter.ShouldIgnore(path) {
				return filepath.SkipDir
			}
			return fw.Add(path)
		}
		return nil
	}); err != nil {
		return err
	}

	logger.Info().
		Str("root", w.root).
		Msg("Watching for changes")

	for {
		select {
		case <-ctx.Done():
			w.stopTimers()
			return ctx.Err()

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(fw, event)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Debug().Err(err).Msg("Watcher error")
		}
	}
}

func (w *Watcher) handleEvent(fw *fsnotify.Watcher, event fsnotify.Event) {
	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return
	}

	info, err := os.Stat(event.Name)
	if err != nil {
		return
	}

	if info.IsDir() {
		if event.Op&fsnotify.Create != 0 && !w.filter.ShouldIgnore(event.Name) {
			_ = fw.Add(event.Name)
		}
		return
	}

	if w.filter.ShouldIgnore(event.Name) {
		return
	}

	w.recordWrite(event.Name)
}

// recordWrite diffs the file against its previous snapshot and feeds the
// touched line range to the tracker.
func (w *Watcher) recordWrite(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	newLines := splitLines(string(data))

	w.mu.Lock()
	oldLines, seen := w.snapshots[path]
	w.snapshots[path] = newLines
	w.mu.Unlock()

	if !seen {
		// First sighting: baseline only, no dirty lines yet.
		w.tracker.StartTracking(path)
		w.scheduleFlush(path)
		return
	}

	start, end, changed := changedRange(oldLines, newLines)
	if !changed {
		return
	}

	w.tracker.RecordChange(tracker.EditEvent{
		Path:      path,
		StartLine: start,
		EndLine:   end,
	})
	w.scheduleFlush(path)
}

// scheduleFlush (re)arms the per-file debounce timer.
func (w *Watcher) scheduleFlush(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.timers[path]; ok {
		timer.Stop()
	}
	w.timers[path] = time.AfterFunc(w.flushAfter, func() {
		w.mu.Lock()
		delete(w.timers, path)
		w.mu.Unlock()

		if summary := w.tracker.StopTracking(path); summary != nil {
			logger.Info().
				Str("path", path).
				Int("start_line", summary.StartLine).
				Int("end_line", summary.EndLine).
				Msg("Flushed change summary")
		}
	})
}

func (w *Watcher) stopTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, timer := range w.timers {
		timer.Stop()
		delete(w.timers, path)
	}
}

// changedRange computes the touched line range between two snapshots as the
// first and last differing line indices, in the coordinate space of the new
// content. Returns ok=false when the snapshots are identical.
func changedRange(oldLines, newLines []string) (start, end int, ok bool) {
	// Common prefix.
	prefix := 0
	for prefix < len(oldLines) && prefix < len(newLines) && oldLines[prefix] == newLines[prefix] {
		prefix++
	}
	if prefix == len(oldLines) && prefix == len(newLines) {
		return 0, 0, false
	}

	// Common suffix, not overlapping the prefix.
	suffix := 0
	for suffix < len(oldLines)-prefix && suffix < len(newLines)-prefix &&
		oldLines[len(oldLines)-1-suffix] == newLines[len(newLines)-1-suffix] {
		suffix++
	}

	start = prefix
	end = len(newLines) - 1 - suffix
	if end < start {
		// Pure deletion: pin the range to the line where content was removed.
		end = start
	}
	return start, end, true
}

// splitLines mirrors the tracker's line splitting so ranges line up.
func splitLines(content string) []string {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
