package changelog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pgregory.net/rapid"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "changes.jsonl"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	return store
}

func TestAppendCreatesFile(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewStore(filepath.Join(tmpDir, "nested", "changes.jsonl"))
	if err != nil {
		t.Fatal(err)
	}

	rec := &ChangeSummary{FilePath: "/tmp/a.go", StartTime: 1, EndTime: 2}
	if err := store.Append(rec); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	if _, err := os.Stat(store.Path()); err != nil {
		t.Errorf("Log file was not created: %v", err)
	}
}

func TestReadAllMissingFile(t *testing.T) {
	store := newTestStore(t)

	records, err := store.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll on missing file should not error: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("got %d records from missing file, want 0", len(records))
	}
}

func TestReadRecentLimit(t *testing.T) {
	store := newTestStore(t)

	for i := 0; i < 5; i++ {
		rec := &ChangeSummary{FilePath: "/tmp/a.go", StartTime: int64(i), EndTime: int64(i)}
		if err := store.Append(rec); err != nil {
			t.Fatal(err)
		}
	}

	records, err := store.ReadRecent(3)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}
	// Last 3 in file order, oldest of the window first.
	if records[0].EndTime != 2 || records[2].EndTime != 4 {
		t.Errorf("wrong window: endTimes %d..%d, want 2..4", records[0].EndTime, records[2].EndTime)
	}
}

func TestReadSkipsMalformedLines(t *testing.T) {
	store := newTestStore(t)

	good := &ChangeSummary{FilePath: "/tmp/a.go", StartTime: 1, EndTime: 2}
	if err := store.Append(good); err != nil {
		t.Fatal(err)
	}

	f, err := os.OpenFile(store.Path(), os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.WriteString("this is not json\n"); err != nil {
		t.Fatal(err)
	}
	_ = f.Close()

	if err := store.Append(good); err != nil {
		t.Fatal(err)
	}

	records, err := store.ReadAll()
	if err != nil {
		t.Fatalf("Malformed line should not abort the read: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("got %d records, want 2 (malformed line skipped)", len(records))
	}
}

func TestRewrite(t *testing.T) {
	store := newTestStore(t)

	for i := 0; i < 4; i++ {
		if err := store.Append(&ChangeSummary{FilePath: "/tmp/a.go", EndTime: int64(i)}); err != nil {
			t.Fatal(err)
		}
	}

	keep := []*ChangeSummary{
		{FilePath: "/tmp/a.go", EndTime: 2},
		{FilePath: "/tmp/a.go", EndTime: 3},
	}
	if err := store.Rewrite(keep); err != nil {
		t.Fatalf("Rewrite failed: %v", err)
	}

	records, err := store.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records after rewrite, want 2", len(records))
	}
	if records[0].EndTime != 2 || records[1].EndTime != 3 {
		t.Errorf("rewrite changed record order: %v, %v", records[0].EndTime, records[1].EndTime)
	}

	data, err := os.ReadFile(store.Path())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(string(data), "\n") {
		t.Error("rewritten log missing trailing newline")
	}
}

// Property: appending N well-formed records and reading them back yields the
// same N records in the same relative order.
func TestRoundTripProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		dir, err := os.MkdirTemp("", "changelog-rapid-*")
		if err != nil {
			rt.Fatal(err)
		}
		defer os.RemoveAll(dir)

		store, err := NewStore(filepath.Join(dir, "changes.jsonl"))
		if err != nil {
			rt.Fatal(err)
		}

		n := rapid.IntRange(1, 20).Draw(rt, "n")
		var want []*ChangeSummary
		for i := 0; i < n; i++ {
			start := rapid.Int64Range(0, 1_700_000_000_000).Draw(rt, "start")
			lineA := rapid.IntRange(0, 500).Draw(rt, "lineA")
			lineB := lineA + rapid.IntRange(0, 50).Draw(rt, "span")
			rec := &ChangeSummary{
				FilePath:     rapid.StringMatching(`/[a-z]{1,8}/[a-z]{1,8}\.go`).Draw(rt, "path"),
				StartTime:    start,
				EndTime:      start + rapid.Int64Range(0, 60_000).Draw(rt, "dur"),
				StartLine:    lineA,
				EndLine:      lineB,
				Before:       rapid.StringN(0, 200, -1).Draw(rt, "before"),
				After:        rapid.StringN(0, 200, -1).Draw(rt, "after"),
				ChangedLines: []int{lineA, lineB},
			}
			if err := store.Append(rec); err != nil {
				rt.Fatal(err)
			}
			want = append(want, rec)
		}

		got, err := store.ReadRecent(n)
		if err != nil {
			rt.Fatal(err)
		}
		if len(got) != n {
			rt.Fatalf("got %d records, want %d", len(got), n)
		}
		for i := range want {
			if got[i].FilePath != want[i].FilePath ||
				got[i].StartTime != want[i].StartTime ||
				got[i].EndTime != want[i].EndTime ||
				got[i].StartLine != want[i].StartLine ||
				got[i].EndLine != want[i].EndLine ||
				got[i].Before != want[i].Before ||
				got[i].After != want[i].After {
				rt.Fatalf("record %d does not round-trip: got %+v, want %+v", i, got[i], want[i])
			}
		}
	})
}
