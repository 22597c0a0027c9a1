// Package ui renders pipeline results for the terminal using lipgloss.
package ui

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	accent  = lipgloss.Color("#5B8DEF")
	good    = lipgloss.Color("#4ECDC4")
	caution = lipgloss.Color("#FFE66D")
	bad     = lipgloss.Color("#FF6B6B")
	muted   = lipgloss.Color("#666666")
	rule    = lipgloss.Color("#333")

	SuccessStyle = lipgloss.NewStyle().Foreground(good)
	WarningStyle = lipgloss.NewStyle().Foreground(caution)
	SubtleStyle  = lipgloss.NewStyle().Foreground(muted)
	BoldStyle    = lipgloss.NewStyle().Bold(true)

	// NegativeStyle highlights outflows and shortfalls.
	NegativeStyle = lipgloss.NewStyle().Foreground(bad)

	TableHeaderStyle = BoldStyle.BorderStyle(lipgloss.NormalBorder()).BorderBottom(true).BorderForeground(rule)
	TableCellStyle   = lipgloss.NewStyle().PaddingRight(2)

	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)
	panelStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(rule).Padding(0, 1)
)

const (
	SuccessIcon = "✓"
	WarningIcon = "!"
)

// FormatSuccess prefixes message with a check mark.
func FormatSuccess(message string) string {
	return SuccessStyle.Render(SuccessIcon + " " + message)
}

// FormatWarning prefixes message with a warning mark.
func FormatWarning(message string) string {
	return WarningStyle.Render(WarningIcon + " " + message)
}

// FormatNote renders a low-key informational line.
func FormatNote(message string) string {
	return SubtleStyle.Render(message)
}

// FormatTitle renders a section heading followed by a blank line.
func FormatTitle(title string) string {
	return sectionStyle.MarginBottom(1).Render(title)
}

// RenderBox frames content under a heading.
func RenderBox(title, content string) string {
	return panelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, sectionStyle.Render(title), content))
}
