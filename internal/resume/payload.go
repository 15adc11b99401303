// Package resume reduces a window of change summaries into a single
// natural-language "what you were doing" resume via the LLM capability.
package resume

import (
	"encoding/json"
	"strings"

	"github.com/tidwall/gjson"
)

// Payload is the structured resume shape. Models are asked to respond with
// this JSON object; when they respond with plain text instead, the raw text
// is passed through for literal display and Payload stays nil.
type Payload struct {
	Summary           string             `json:"summary"`
	Tasks             []Task             `json:"tasks"`
	FileRelationships []FileRelationship `json:"fileRelationships"`
	NextSteps         []NextStep         `json:"nextSteps"`
}

// Task describes one unit of recent work tied to a file.
type Task struct {
	File      string `json:"file"`
	FilePath  string `json:"filePath"`
	Lines     []int  `json:"lines"`
	Task      string `json:"task"`
	Context   string `json:"context"`
	Timestamp string `json:"timestamp"`
	Changes   string `json:"changes"`
	Priority  string `json:"priority"`
}

// FileRelationship describes how recently-edited files relate.
type FileRelationship struct {
	Type        string   `json:"type"`
	Files       []string `json:"files"`
	Description string   `json:"description"`
}

// NextStep is a suggested follow-up action.
type NextStep struct {
	Action      string `json:"action"`
	File        string `json:"file"`
	Lines       []int  `json:"lines"`
	Description string `json:"description"`
}

// Result is the reduction outcome handed to the renderer. Raw always holds
// the cleaned model output; Payload is non-nil only when that output was
// JSON-shaped.
type Result struct {
	Raw     string
	Payload *Payload
}

// ParsePayload attempts to interpret text as a structured payload. It never
// fails: non-JSON text yields nil so the caller falls back to literal
// display. No schema validation beyond JSON-shape is performed.
func ParsePayload(text string) *Payload {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "{") || !gjson.Valid(trimmed) {
		return nil
	}
	var p Payload
	if err := json.Unmarshal([]byte(trimmed), &p); err != nil {
		return nil
	}
	return &p
}

// FallbackPayload is the fixed payload returned when there is no recent
// activity to summarize.
func FallbackPayload() *Payload {
	return &Payload{
		Summary:           "No recent coding activity detected",
		Tasks:             []Task{},
		FileRelationships: []FileRelationship{},
		NextSteps: []NextStep{
			{
				Action:      "start",
				Description: "Start coding to build up a change history, then ask for a resume again.",
			},
		},
	}
}
