// Package ignore decides which paths are excluded from change tracking.
//
// Rules live in a workspace-relative file, one glob pattern per line. When
// the file is missing a fixed default set is written to disk and adopted in
// memory, which keeps the tracker from ever recording changes to its own
// bookkeeping files.
package ignore

import (
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/codetrail/codetrail/internal/logger"
)

// RulesFileName is the default rules file name, resolved relative to the
// tracked root.
const RulesFileName = ".codetrailignore"

// Filter answers whether a path or file name is excluded from tracking.
// Matching is case-sensitive glob semantics; '*' does not cross path
// separators. The match path never returns an error: any load failure falls
// back silently to the in-memory default set.
type Filter struct {
	root      string
	rulesPath string

	mu       sync.RWMutex
	patterns []string
}

// NewFilter creates a filter for the given tracked root. rulesPath may be
// empty, in which case the rules file is resolved to root/.codetrailignore.
// The rules file is loaded immediately; if absent, the default rule set is
// materialized to disk and adopted in memory.
func NewFilter(root, rulesPath string) *Filter {
	if rulesPath == "" {
		rulesPath = filepath.Join(root, RulesFileName)
	}
	f := &Filter{
		root:      root,
		rulesPath: rulesPath,
	}
	f.patterns = f.load()
	return f
}

// ShouldIgnore reports whether the given absolute path matches any loaded
// pattern. The path is made relative to the tracked root and normalized to
// forward slashes before matching.
func (f *Filter) ShouldIgnore(absPath string) bool {
	rel, err := filepath.Rel(f.root, absPath)
	if err != nil {
		rel = absPath
	}
	rel = filepath.ToSlash(rel)

	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, p := range f.patterns {
		if matchPattern(p, rel) {
			return true
		}
	}
	return false
}

// ShouldIgnoreByName applies only the patterns that contain no path
// separator to the bare file name, so name-only rules apply regardless of
// directory.
func (f *Filter) ShouldIgnoreByName(fileName string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, p := range f.patterns {
		if strings.Contains(p, "/") {
			continue
		}
		if ok, err := path.Match(p, fileName); err == nil && ok {
			return true
		}
	}
	return false
}

// AddPattern adds a pattern to the in-memory rule set. Adding an existing
// pattern is a no-op; nothing is persisted to disk.
func (f *Filter) AddPattern(p string) {
	p = normalize(p)
	if p == "" {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.patterns {
		if existing == p {
			return
		}
	}
	f.patterns = append(f.patterns, p)
}

// RemovePattern removes a pattern from the in-memory rule set.
func (f *Filter) RemovePattern(p string) {
	p = normalize(p)
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, existing := range f.patterns {
		if existing == p {
			f.patterns = append(f.patterns[:i], f.patterns[i+1:]...)
			return
		}
	}
}

// Reload re-reads the rules file from disk, replacing the in-memory state.
func (f *Filter) Reload() {
	patterns := f.load()
	f.mu.Lock()
	f.patterns = patterns
	f.mu.Unlock()
}

// Patterns returns a copy of the current in-memory rule set in load order.
func (f *Filter) Patterns() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]string, len(f.patterns))
	copy(out, f.patterns)
	return out
}

// RulesPath returns the path of the rules file.
func (f *Filter) RulesPath() string {
	return f.rulesPath
}

// load reads the rules file, bootstrapping the default document when it does
// not exist. Any I/O error falls back to the in-memory defaults.
func (f *Filter) load() []string {
	data, err := os.ReadFile(f.rulesPath)
	if err != nil {
		if os.IsNotExist(err) {
			if werr := f.writeDefaults(); werr != nil {
				logger.Debug().
					Str("path", f.rulesPath).
					Err(werr).
					Msg("Failed to write default ignore rules")
			}
		} else {
			logger.Debug().
				Str("path", f.rulesPath).
				Err(err).
				Msg("Failed to read ignore rules, using defaults")
		}
		return DefaultPatterns()
	}

	var patterns []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, normalize(line))
	}
	return patterns
}

// writeDefaults materializes the default rule document to disk.
func (f *Filter) writeDefaults() error {
	if dir := filepath.Dir(f.rulesPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	var sb strings.Builder
	sb.WriteString(defaultFileHeader)
	sb.WriteString("\n")
	for _, p := range defaultPatterns {
		sb.WriteString(p)
		sb.WriteString("\n")
	}
	return os.WriteFile(f.rulesPath, []byte(sb.String()), 0644)
}

// normalize forces forward slashes. Idempotent.
func normalize(p string) string {
	return filepath.ToSlash(strings.TrimSpace(p))
}

// matchPattern matches one pattern against a slash-normalized relative path.
// Three forms are supported:
//   - "dir/**" matches dir and everything under it
//   - patterns without a separator match any single path segment
//   - anything else is a full relative-path glob match
func matchPattern(pattern, rel string) bool {
	if prefix, ok := strings.CutSuffix(pattern, "/**"); ok {
		return rel == prefix || strings.HasPrefix(rel, prefix+"/")
	}

	if !strings.Contains(pattern, "/") {
		for _, segment := range strings.Split(rel, "/") {
			if ok, err := path.Match(pattern, segment); err == nil && ok {
				return true
			}
		}
		return false
	}

	ok, err := path.Match(pattern, rel)
	return err == nil && ok
}
