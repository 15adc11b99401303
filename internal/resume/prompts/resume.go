// Package prompts contains the instruction templates for resume generation.
package prompts

import "strings"

// Resume builds the instruction template for structured resume generation.
// The formatted change block is appended after this template.
func Resume() string {
	var sb strings.Builder

	sb.WriteString("You are helping a developer resume work after a break.\n\n")

	sb.WriteString("Below is a log of their recent code changes. Each entry shows the ")
	sb.WriteString("file, the affected line range, when the change happened, and the ")
	sb.WriteString("text before and after the edit.\n\n")

	sb.WriteString("Reconstruct what they were working on. Respond with a single JSON ")
	sb.WriteString("object, no surrounding prose, with exactly these fields:\n\n")

	sb.WriteString("{\n")
	sb.WriteString("  \"summary\": \"one-paragraph description of what they were doing\",\n")
	sb.WriteString("  \"tasks\": [{\"file\", \"filePath\", \"lines\": [start, end], \"task\", \"context\", \"timestamp\", \"changes\", \"priority\"}],\n")
	sb.WriteString("  \"fileRelationships\": [{\"type\", \"files\", \"description\"}],\n")
	sb.WriteString("  \"nextSteps\": [{\"action\", \"file\", \"lines\": [start, end], \"description\"}]\n")
	sb.WriteString("}\n\n")

	sb.WriteString("Guidelines:\n")
	sb.WriteString("- Group related edits into one task; do not emit one task per log entry.\n")
	sb.WriteString("- priority is one of \"high\", \"medium\", \"low\" based on how unfinished the work looks.\n")
	sb.WriteString("- nextSteps should be concrete: a file, a line range, and what to do there.\n")
	sb.WriteString("- Use only information present in the log. Do not invent files or changes.\n\n")

	sb.WriteString("Recent changes:")

	return sb.String()
}
