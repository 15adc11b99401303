package changelog

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/codetrail/codetrail/internal/logger"
)

// Store is an append-only JSON Lines store of change summaries. The log file
// is the only durable source of truth for past changes; in-memory tracker
// state is ephemeral and lost on restart unless flushed here.
type Store struct {
	path string
	mu   sync.Mutex
}

// NewStore creates a store backed by the given file path. An empty path
// defaults to ~/.codetrail/changes.jsonl.
func NewStore(path string) (*Store, error) {
	if path == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, ".codetrail", "changes.jsonl")
	}
	return &Store{path: path}, nil
}

// Path returns the log file path.
func (s *Store) Path() string {
	return s.path
}

// Append serializes rec to one line and appends it to the log file,
// creating the file and its directory if absent.
func (s *Store) Append(rec *ChangeSummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal change summary: %w", err)
	}

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open change log: %w", err)
	}
	defer func() { _ = f.Close() }()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to append change summary: %w", err)
	}

	logger.Debug().
		Str("file", rec.FilePath).
		Int("start_line", rec.StartLine).
		Int("end_line", rec.EndLine).
		Msg("Appended change summary")

	return nil
}

// ReadRecent returns the last limit records in file order (oldest of the
// window first). Callers re-sort by EndTime when recency order is required.
// Unparseable lines are skipped rather than failing the whole read.
func (s *Store) ReadRecent(limit int) ([]*ChangeSummary, error) {
	records, err := s.ReadAll()
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(records) > limit {
		records = records[len(records)-limit:]
	}
	return records, nil
}

// ReadAll returns every parseable record in file order. A missing log file
// reads as an empty log.
func (s *Store) ReadAll() ([]*ChangeSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open change log: %w", err)
	}
	defer func() { _ = f.Close() }()

	var records []*ChangeSummary
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var rec ChangeSummary
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			logger.Debug().
				Int("line", lineNo).
				Err(err).
				Msg("Skipping malformed change log line")
			continue
		}
		records = append(records, &rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read change log: %w", err)
	}

	return records, nil
}

// Rewrite replaces the log contents with exactly the given records, one per
// line with a trailing newline. The write goes through a temp file in the
// same directory so the rename is atomic.
func (s *Store) Rewrite(records []*ChangeSummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "changes-*.jsonl.tmp")
	if err != nil {
		return fmt.Errorf("failed to rewrite change log: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	w := bufio.NewWriter(tmp)
	for _, rec := range records {
		data, err := json.Marshal(rec)
		if err != nil {
			_ = tmp.Close()
			return fmt.Errorf("failed to marshal change summary: %w", err)
		}
		if _, err := w.Write(append(data, '\n')); err != nil {
			_ = tmp.Close()
			return fmt.Errorf("failed to rewrite change log: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to rewrite change log: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to rewrite change log: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("failed to rewrite change log: %w", err)
	}

	return nil
}
