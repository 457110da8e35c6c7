// Package diagprint renders a diagnostic for a terminal, using the same
// ANSI-256 color-by-number lipgloss styling convention the tracker uses
// for its views (lipgloss.NewStyle().Foreground(lipgloss.Color("N"))).
package diagprint

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/schollz/mdfc/internal/diag"
)

var (
	codeStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	kindStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	locationStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	contextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
)

// Render formats d as a multi-line, colorized terminal report.
func Render(d *diag.Diagnostic) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s %s: %s\n", codeStyle.Render(d.Code), kindStyle.Render(string(d.Kind)), d.Message)

	if loc := location(d); loc != "" {
		fmt.Fprintf(&b, "  %s\n", locationStyle.Render(loc))
	}
	if d.Context != "" {
		fmt.Fprintf(&b, "  %s\n", contextStyle.Render(d.Context))
	}
	if d.Help != "" {
		fmt.Fprintf(&b, "  help: %s\n", helpStyle.Render(d.Help))
	}

	return b.String()
}

func location(d *diag.Diagnostic) string {
	var parts []string
	if d.File != "" {
		parts = append(parts, d.File)
	}
	if d.Line > 0 {
		parts = append(parts, fmt.Sprintf("line %d", d.Line))
	}
	if d.Column > 0 {
		parts = append(parts, fmt.Sprintf("col %d", d.Column))
	}
	if d.StepIndex >= 0 {
		parts = append(parts, fmt.Sprintf("step %d", d.StepIndex))
	}
	if d.Lane >= 0 {
		parts = append(parts, fmt.Sprintf("lane %d", d.Lane))
	}
	if d.HasTimeUs {
		parts = append(parts, fmt.Sprintf("t=%dus", d.TimeUs))
	}
	return strings.Join(parts, ", ")
}
