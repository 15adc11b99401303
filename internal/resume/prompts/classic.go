package prompts

import "strings"

// Classic builds the instruction template for the plain-text session-facts
// resume. The recorded session facts are appended after this template.
func Classic() string {
	var sb strings.Builder

	sb.WriteString("You are helping a developer resume work after a break.\n\n")

	sb.WriteString("Below is a snapshot of their last coding session: the git branch, ")
	sb.WriteString("last commit, working diff, and the list of files they touched.\n\n")

	sb.WriteString("Write a short plain-text resume with exactly these four sections, ")
	sb.WriteString("in this order, each starting with the literal header line:\n\n")

	sb.WriteString("Recent Work:\n")
	sb.WriteString("What you were doing:\n")
	sb.WriteString("Next Steps:\n")
	sb.WriteString("Context:\n\n")

	sb.WriteString("Keep each section to a few sentences. Base everything on the ")
	sb.WriteString("snapshot; do not invent work that is not visible in it.\n\n")

	sb.WriteString("Session snapshot:")

	return sb.String()
}
