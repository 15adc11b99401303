package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/codetrail/codetrail/internal/changelog"
	"github.com/codetrail/codetrail/internal/ignore"
	"github.com/codetrail/codetrail/internal/logger"
	"github.com/codetrail/codetrail/internal/tracker"
)

func TestMain(m *testing.M) {
	logger.InitQuiet()
	os.Exit(m.Run())
}

func TestChangedRange(t *testing.T) {
	cases := []struct {
		name       string
		old, new   []string
		start, end int
		ok         bool
	}{
		{
			name: "identical",
			old:  []string{"a", "b", "c"},
			new:  []string{"a", "b", "c"},
			ok:   false,
		},
		{
			name:  "single line change",
			old:   []string{"a", "b", "c"},
			new:   []string{"a", "B", "c"},
			start: 1, end: 1, ok: true,
		},
		{
			name:  "insertion",
			old:   []string{"a", "b", "c"},
			new:   []string{"a", "x", "y", "b", "c"},
			start: 1, end: 2, ok: true,
		},
		{
			name:  "deletion pins to removal point",
			old:   []string{"a", "b", "c", "d"},
			new:   []string{"a", "d"},
			start: 1, end: 1, ok: true,
		},
		{
			name:  "append",
			old:   []string{"a", "b"},
			new:   []string{"a", "b", "c"},
			start: 2, end: 2, ok: true,
		},
		{
			name:  "change at start",
			old:   []string{"a", "b", "c"},
			new:   []string{"A", "b", "c"},
			start: 0, end: 0, ok: true,
		},
		{
			name:  "full rewrite",
			old:   []string{"a", "b"},
			new:   []string{"x", "y", "z"},
			start: 0, end: 2, ok: true,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			start, end, ok := changedRange(tc.old, tc.new)
			if ok != tc.ok {
				t.Fatalf("got ok=%v, want %v", ok, tc.ok)
			}
			if !ok {
				return
			}
			if start != tc.start || end != tc.end {
				t.Errorf("got range %d-%d, want %d-%d", start, end, tc.start, tc.end)
			}
		})
	}
}

func newTestWatcher(t *testing.T) (*Watcher, *tracker.Tracker, string) {
	t.Helper()
	tmpDir := t.TempDir()
	store, err := changelog.NewStore(filepath.Join(tmpDir, "changes.jsonl"))
	if err != nil {
		t.Fatal(err)
	}
	rulesPath := filepath.Join(tmpDir, ignore.RulesFileName)
	if err := os.WriteFile(rulesPath, []byte(""), 0644); err != nil {
		t.Fatal(err)
	}
	filter := ignore.NewFilter(tmpDir, rulesPath)
	tr := tracker.New(filter, store)
	// A long flush window so the debounce never fires during the test.
	return New(tmpDir, tr, filter, time.Hour), tr, tmpDir
}

func TestRecordWriteBaselinesThenTracks(t *testing.T) {
	w, tr, tmpDir := newTestWatcher(t)
	path := filepath.Join(tmpDir, "main.go")
	if err := os.WriteFile(path, []byte("a\nb\nc\nd\ne\nf\ng\nh\n"), 0644); err != nil {
		t.Fatal(err)
	}

	// First sighting establishes the baseline without dirty lines.
	w.recordWrite(path)
	if len(tr.TrackedPaths()) != 1 {
		t.Fatal("first write should start tracking")
	}

	if err := os.WriteFile(path, []byte("a\nb\nc\nd\nE\nf\ng\nh\n"), 0644); err != nil {
		t.Fatal(err)
	}
	w.recordWrite(path)

	summary := tr.StopTracking(path)
	if summary == nil {
		t.Fatal("edited file should yield a summary")
	}
	// Line 4 changed; margin 2 expands to 2-6.
	if summary.StartLine != 2 || summary.EndLine != 6 {
		t.Errorf("got range %d-%d, want 2-6", summary.StartLine, summary.EndLine)
	}
	if len(summary.ChangedLines) != 1 || summary.ChangedLines[0] != 4 {
		t.Errorf("got changedLines %v, want [4]", summary.ChangedLines)
	}
}

func TestRecordWriteIdenticalContent(t *testing.T) {
	w, tr, tmpDir := newTestWatcher(t)
	path := filepath.Join(tmpDir, "main.go")
	if err := os.WriteFile(path, []byte("a\nb\n"), 0644); err != nil {
		t.Fatal(err)
	}

	w.recordWrite(path)
	w.recordWrite(path) // same content, no dirty lines

	if summary := tr.StopTracking(path); summary != nil {
		t.Error("unchanged rewrite should not produce a summary")
	}
}

func TestRecordWriteMissingFile(t *testing.T) {
	w, tr, tmpDir := newTestWatcher(t)

	w.recordWrite(filepath.Join(tmpDir, "gone.go"))
	if len(tr.TrackedPaths()) != 0 {
		t.Error("unreadable file should be skipped")
	}
}
