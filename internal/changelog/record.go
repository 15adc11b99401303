// Package changelog persists change summaries as an append-only JSON Lines
// file: one record per line, newest appended last.
package changelog

// ChangeSummary is the durable record of one tracked edit session for one
// file. It is immutable once created; the store never updates or deletes
// individual records except through bulk prune-rewrites.
type ChangeSummary struct {
	FilePath  string `json:"filePath"`
	StartTime int64  `json:"startTime"` // ms since epoch
	EndTime   int64  `json:"endTime"`   // ms since epoch, >= StartTime

	// StartLine and EndLine delimit the minimal-plus-context contiguous
	// line range covering all dirty lines. Zero-based, inclusive, in the
	// coordinate space of the file's current content.
	StartLine int `json:"startLine"`
	EndLine   int `json:"endLine"`

	// Before and After hold the text of that exact line range taken from
	// the baseline and current content respectively.
	Before string `json:"before"`
	After  string `json:"after"`

	// ChangedLines lists the dirty line indices in ascending order. They
	// may be non-contiguous inside [StartLine, EndLine].
	ChangedLines []int `json:"changedLines"`
}
