package ignore

// defaultPatterns is the rule set materialized to disk when no rules file
// exists. It covers the tool's own bookkeeping files (so tracking can never
// feed back on its own log), dependency directories, build output, editor
// and OS artifacts, and lockfiles.
var defaultPatterns = []string{
	// codetrail bookkeeping
	".codetrail/**",
	".codetrailignore",
	"changes.jsonl",
	// version control
	".git/**",
	// dependency directories
	"node_modules/**",
	"vendor/**",
	".venv/**",
	"__pycache__/**",
	// build output
	"dist/**",
	"build/**",
	"out/**",
	"target/**",
	"*.o",
	"*.pyc",
	"*.class",
	// editor and OS artifacts
	".idea/**",
	".vscode/**",
	".DS_Store",
	"Thumbs.db",
	"*.swp",
	"*.swo",
	"*~",
	// lockfiles
	"package-lock.json",
	"yarn.lock",
	"pnpm-lock.yaml",
	"Cargo.lock",
	"go.sum",
	// logs
	"*.log",
}

const defaultFileHeader = `# codetrail ignore rules
# One glob pattern per line. Blank lines and lines starting with '#' are
# skipped. Patterns without a path separator match any path segment;
# patterns ending in /** match the whole subtree.
`

// DefaultPatterns returns a copy of the built-in rule set.
func DefaultPatterns() []string {
	out := make([]string, len(defaultPatterns))
	copy(out, defaultPatterns)
	return out
}
