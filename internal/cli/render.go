package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/codetrail/codetrail/internal/resume"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10")).MarginTop(1)
	fileStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	bodyStyle    = lipgloss.NewStyle().PaddingLeft(2)
)

// renderPayload renders a structured resume payload for the terminal.
func renderPayload(p *resume.Payload) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Where you left off"))
	sb.WriteString("\n")
	sb.WriteString(bodyStyle.Render(p.Summary))
	sb.WriteString("\n")

	if len(p.Tasks) > 0 {
		sb.WriteString(sectionStyle.Render("Tasks"))
		sb.WriteString("\n")
		for _, t := range p.Tasks {
			line := fmt.Sprintf("%s %s", fileStyle.Render(t.File), t.Task)
			if len(t.Lines) == 2 {
				line += dimStyle.Render(fmt.Sprintf(" (lines %d-%d)", t.Lines[0], t.Lines[1]))
			}
			if t.Priority != "" {
				line += dimStyle.Render(" [" + t.Priority + "]")
			}
			sb.WriteString(bodyStyle.Render("• " + line))
			sb.WriteString("\n")
		}
	}

	if len(p.FileRelationships) > 0 {
		sb.WriteString(sectionStyle.Render("File relationships"))
		sb.WriteString("\n")
		for _, rel := range p.FileRelationships {
			line := fmt.Sprintf("%s: %s", fileStyle.Render(strings.Join(rel.Files, ", ")), rel.Description)
			sb.WriteString(bodyStyle.Render("• " + line))
			sb.WriteString("\n")
		}
	}

	if len(p.NextSteps) > 0 {
		sb.WriteString(sectionStyle.Render("Next steps"))
		sb.WriteString("\n")
		for _, step := range p.NextSteps {
			line := step.Description
			if step.File != "" {
				line = fileStyle.Render(step.File) + ": " + line
			}
			sb.WriteString(bodyStyle.Render("• " + line))
			sb.WriteString("\n")
		}
	}

	return strings.TrimRight(sb.String(), "\n")
}
