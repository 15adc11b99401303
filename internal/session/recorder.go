package session

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/codetrail/codetrail/internal/logger"
)

// GitRunner executes a git command and returns its output. This abstraction
// allows stubbing the subprocess in tests.
type GitRunner func(workDir string, args ...string) (string, error)

// defaultGitRunner runs git as a real subprocess.
func defaultGitRunner(workDir string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = workDir
	out, err := cmd.Output()
	return string(out), err
}

// Recorder captures session snapshots and persists them to a Store.
type Recorder struct {
	WorkDir string
	Runner  GitRunner // if nil, uses the real git subprocess
	store   Store
}

// NewRecorder creates a recorder for the given working directory.
func NewRecorder(workDir string, store Store) *Recorder {
	return &Recorder{WorkDir: workDir, store: store}
}

// Snapshot captures the current session facts, saves them, and returns the
// record. A non-git directory produces a record with empty git fields
// rather than an error.
func (r *Recorder) Snapshot(ctx context.Context) (*Record, error) {
	runner := r.Runner
	if runner == nil {
		runner = defaultGitRunner
	}

	rec := &Record{
		ID:        uuid.NewString(),
		Timestamp: time.Now(),
		WorkDir:   r.WorkDir,
	}

	// Branch lookup doubles as the "is this a git repo?" check.
	branch, err := runner(r.WorkDir, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		if isExitCode128(err) {
			logger.Debug().
				Str("dir", r.WorkDir).
				Msg("Not a git repository, recording without git facts")
			return rec, r.save(rec)
		}
		return nil, fmt.Errorf("failed to read git branch: %w", err)
	}
	rec.Branch = strings.TrimSpace(branch)

	lastCommit, err := runner(r.WorkDir, "log", "-1", "--oneline")
	if err != nil {
		return nil, fmt.Errorf("failed to read last commit: %w", err)
	}
	rec.LastCommit = strings.TrimSpace(lastCommit)

	diff, err := runner(r.WorkDir, "diff")
	if err != nil {
		return nil, fmt.Errorf("failed to read working diff: %w", err)
	}
	rec.Diff = diff

	status, err := runner(r.WorkDir, "status", "--porcelain")
	if err != nil {
		return nil, fmt.Errorf("failed to read git status: %w", err)
	}
	rec.Files = parseStatusFiles(status)

	return rec, r.save(rec)
}

func (r *Recorder) save(rec *Record) error {
	if r.store == nil {
		return nil
	}
	if err := r.store.SaveRecord(rec); err != nil {
		return fmt.Errorf("failed to persist session record: %w", err)
	}
	return nil
}

// parseStatusFiles extracts file paths from `git status --porcelain` output.
func parseStatusFiles(out string) []string {
	var files []string
	for _, line := range strings.Split(out, "\n") {
		if len(line) < 4 {
			continue
		}
		path := strings.TrimSpace(line[3:])
		// Renames show as "old -> new"; keep the new path.
		if idx := strings.Index(path, " -> "); idx >= 0 {
			path = path[idx+4:]
		}
		if path != "" {
			files = append(files, path)
		}
	}
	return files
}

// isExitCode128 reports whether err is an *exec.ExitError with exit code
// 128, which git uses for "not a repository".
func isExitCode128(err error) bool {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode() == 128
	}
	return false
}
