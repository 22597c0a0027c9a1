package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// Table renders rows as aligned columns under a bold header. Columns listed
// in right are right-aligned.
func Table(header []string, rows [][]string, right ...int) string {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i := range header {
			if i < len(row) && lipgloss.Width(row[i]) > widths[i] {
				widths[i] = lipgloss.Width(row[i])
			}
		}
	}

	alignRight := make(map[int]bool, len(right))
	for _, i := range right {
		alignRight[i] = true
	}

	line := func(cells []string, style lipgloss.Style) string {
		parts := make([]string, len(header))
		for i := range header {
			var cell string
			if i < len(cells) {
				cell = cells[i]
			}
			s := TableCellStyle.Width(widths[i] + 2)
			if alignRight[i] {
				s = s.Align(lipgloss.Right)
			}
			parts[i] = s.Render(cell)
		}
		return style.Render(lipgloss.JoinHorizontal(lipgloss.Top, parts...))
	}

	var b strings.Builder
	b.WriteString(line(header, TableHeaderStyle))
	for _, row := range rows {
		b.WriteString("\n")
		b.WriteString(line(row, lipgloss.NewStyle()))
	}
	return b.String()
}

// Money formats an amount with two decimals.
func Money(d decimal.Decimal) string {
	s := d.StringFixed(2)
	if d.IsNegative() {
		return NegativeStyle.Render(s)
	}
	return s
}
