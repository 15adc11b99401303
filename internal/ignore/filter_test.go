package ignore

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestBootstrapWritesDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	rulesPath := filepath.Join(tmpDir, RulesFileName)

	f := NewFilter(tmpDir, rulesPath)

	data, err := os.ReadFile(rulesPath)
	if err != nil {
		t.Fatalf("Default rules file was not written: %v", err)
	}
	if !strings.Contains(string(data), "node_modules/**") {
		t.Error("Default rules file missing node_modules pattern")
	}
	if !strings.Contains(string(data), "#") {
		t.Error("Default rules file missing header comment")
	}

	if len(f.Patterns()) != len(DefaultPatterns()) {
		t.Errorf("got %d in-memory patterns, want %d", len(f.Patterns()), len(DefaultPatterns()))
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	rulesPath := filepath.Join(tmpDir, RulesFileName)

	content := "# comment\n\n*.tmp\nsrc/*.gen.go\n"
	if err := os.WriteFile(rulesPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	f := NewFilter(tmpDir, rulesPath)

	patterns := f.Patterns()
	if len(patterns) != 2 {
		t.Fatalf("got %d patterns, want 2 (comments and blanks skipped): %v", len(patterns), patterns)
	}
	if patterns[0] != "*.tmp" || patterns[1] != "src/*.gen.go" {
		t.Errorf("patterns not in file order: %v", patterns)
	}
}

func TestShouldIgnoreNameOnlyPattern(t *testing.T) {
	tmpDir := t.TempDir()
	f := NewFilter(tmpDir, writeRules(t, tmpDir, "*.log\n"))

	cases := []struct {
		path string
		want bool
	}{
		{filepath.Join(tmpDir, "session.log"), true},
		{filepath.Join(tmpDir, "session.log.txt"), false},
		{filepath.Join(tmpDir, "sub", "dir", "debug.log"), true},
		{filepath.Join(tmpDir, "main.go"), false},
	}
	for _, tc := range cases {
		if got := f.ShouldIgnore(tc.path); got != tc.want {
			t.Errorf("ShouldIgnore(%q) = %v, want %v", tc.path, got, tc.want)
		}
	}
}

func TestShouldIgnorePathPattern(t *testing.T) {
	tmpDir := t.TempDir()
	f := NewFilter(tmpDir, writeRules(t, tmpDir, "src/*.gen.go\nnode_modules/**\n"))

	if !f.ShouldIgnore(filepath.Join(tmpDir, "src", "api.gen.go")) {
		t.Error("src/*.gen.go should match src/api.gen.go")
	}
	if f.ShouldIgnore(filepath.Join(tmpDir, "src", "deep", "api.gen.go")) {
		t.Error("src/*.gen.go should not cross directories")
	}
	if !f.ShouldIgnore(filepath.Join(tmpDir, "node_modules", "pkg", "index.js")) {
		t.Error("node_modules/** should match the whole subtree")
	}
	if !f.ShouldIgnore(filepath.Join(tmpDir, "node_modules")) {
		t.Error("node_modules/** should match the directory itself")
	}
}

func TestShouldIgnoreByName(t *testing.T) {
	tmpDir := t.TempDir()
	f := NewFilter(tmpDir, writeRules(t, tmpDir, "*.log\nsrc/*.gen.go\n"))

	if !f.ShouldIgnoreByName("session.log") {
		t.Error("name-only pattern *.log should match session.log")
	}
	if f.ShouldIgnoreByName("session.log.txt") {
		t.Error("*.log should not match session.log.txt")
	}
	// Patterns with a separator never apply to bare names.
	if f.ShouldIgnoreByName("api.gen.go") {
		t.Error("path pattern src/*.gen.go should not apply to a bare name")
	}
}

func TestAddRemovePattern(t *testing.T) {
	tmpDir := t.TempDir()
	f := NewFilter(tmpDir, writeRules(t, tmpDir, "*.log\n"))

	f.AddPattern("*.bak")
	f.AddPattern("*.bak") // idempotent
	if got := len(f.Patterns()); got != 2 {
		t.Errorf("got %d patterns after duplicate add, want 2", got)
	}

	f.RemovePattern("*.bak")
	if got := len(f.Patterns()); got != 1 {
		t.Errorf("got %d patterns after remove, want 1", got)
	}

	// Mutations are in-memory only.
	data, _ := os.ReadFile(f.RulesPath())
	if strings.Contains(string(data), "*.bak") {
		t.Error("AddPattern should not persist to disk")
	}
}

func TestReload(t *testing.T) {
	tmpDir := t.TempDir()
	rulesPath := writeRules(t, tmpDir, "*.log\n")
	f := NewFilter(tmpDir, rulesPath)

	f.AddPattern("*.bak")
	if err := os.WriteFile(rulesPath, []byte("*.tmp\n"), 0644); err != nil {
		t.Fatal(err)
	}

	f.Reload()

	patterns := f.Patterns()
	if len(patterns) != 1 || patterns[0] != "*.tmp" {
		t.Errorf("Reload should replace in-memory state, got %v", patterns)
	}
}

func TestLoadErrorFallsBackToDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	// A directory at the rules path forces a read error that is not
	// IsNotExist.
	rulesPath := filepath.Join(tmpDir, "rules-dir")
	if err := os.Mkdir(rulesPath, 0755); err != nil {
		t.Fatal(err)
	}

	f := NewFilter(tmpDir, rulesPath)

	if len(f.Patterns()) != len(DefaultPatterns()) {
		t.Error("Load error should fall back to the in-memory default set")
	}
}

func writeRules(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, RulesFileName)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}
