package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/splitbook/internal/categorize"
	"github.com/cleared-dev/splitbook/internal/model"
	"github.com/cleared-dev/splitbook/internal/report"
)

const dateLayout = "2006-01-02"

// Duplicates lists duplicate groups with the files each appears in.
func Duplicates(groups []model.DuplicateGroup) string {
	if len(groups) == 0 {
		return FormatSuccess("No duplicates across files")
	}
	rows := make([][]string, 0, len(groups))
	for _, g := range groups {
		rows = append(rows, []string{
			g.Date.Format(dateLayout),
			Money(g.Amount),
			g.Title,
			g.Reference,
			strings.Join(g.Sources(), ", "),
		})
	}
	return Table([]string{"Date", "Amount", "Title", "Reference", "Files"}, rows, 1)
}

// Contributors lists ranked contributors, marking the selected ones.
func Contributors(ranked []model.Contributor, selected []string) string {
	sel := make(map[string]bool, len(selected))
	for _, s := range selected {
		sel[strings.ToLower(s)] = true
	}
	rows := make([][]string, 0, len(ranked))
	for i, c := range ranked {
		mark := ""
		if sel[strings.ToLower(c.Name)] {
			mark = SuccessIcon
		}
		rows = append(rows, []string{strconv.Itoa(i + 1), c.Name, Money(c.Total), strconv.Itoa(c.Count), mark})
	}
	return Table([]string{"#", "Name", "Total", "Payments", ""}, rows, 0, 2, 3)
}

// Suggestions lists uncategorized expense titles by impact.
func Suggestions(items []model.TitleSuggestion, limit int) string {
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	rows := make([][]string, 0, len(items))
	for _, s := range items {
		rows = append(rows, []string{s.Title, Money(s.Total), strconv.Itoa(s.Count)})
	}
	return Table([]string{"Title", "Total", "Count"}, rows, 1, 2)
}

// Patterns lists mined keywords with example titles.
func Patterns(patterns []model.TitlePattern) string {
	rows := make([][]string, 0, len(patterns))
	for _, p := range patterns {
		rows = append(rows, []string{p.Keyword, Money(p.Total), strconv.Itoa(p.Count), strings.Join(p.Examples, " | ")})
	}
	return Table([]string{"Keyword", "Total", "Count", "Examples"}, rows, 1, 2)
}

// Progress renders categorization progress as a one-line summary.
func Progress(p categorize.Progress) string {
	line := fmt.Sprintf("%d%% categorized by amount (%d of %d expenses, %s uncategorized)",
		p.PercentComplete, p.Categorized, p.TotalExpenses, p.UncategorizedAmount.StringFixed(2))
	if p.PercentComplete == 100 {
		return FormatSuccess(line)
	}
	return FormatWarning(line)
}

// Quality renders the data-quality summary.
func Quality(q report.DataQuality) string {
	if q.TransactionCount == 0 {
		return RenderBox("Data quality", SubtleStyle.Render("no transactions"))
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Range:        %s to %s\n", q.Start.Format(dateLayout), q.End.Format(dateLayout))
	fmt.Fprintf(&b, "Files:        %d\n", q.FileCount)
	fmt.Fprintf(&b, "Transactions: %d (%d income, %d expenses)\n", q.TransactionCount, q.IncomeCount, q.ExpenseCount)
	fmt.Fprintf(&b, "Duplicates:   %d removed\n", q.DuplicatesRemoved)
	fmt.Fprintf(&b, "Gaps:         %s", gaps(q))
	return RenderBox("Data quality", b.String())
}

func gaps(q report.DataQuality) string {
	if len(q.MissingMonths) == 0 && len(q.MissingWeeks) == 0 {
		return SuccessStyle.Render("none")
	}
	parts := []string{}
	if len(q.MissingMonths) > 0 {
		parts = append(parts, "months "+strings.Join(q.MissingMonths, ", "))
	}
	if len(q.MissingWeeks) > 0 {
		parts = append(parts, fmt.Sprintf("%d weeks without transactions", len(q.MissingWeeks)))
	}
	return WarningStyle.Render(strings.Join(parts, "; "))
}

// CashFlow renders a cash flow series.
func CashFlow(points []report.CashFlowPoint) string {
	rows := make([][]string, 0, len(points))
	for _, p := range points {
		rows = append(rows, []string{p.Period, Money(p.Income), Money(p.Outgoings), Money(p.Net), Money(p.Balance)})
	}
	return Table([]string{"Period", "Income", "Outgoings", "Net", "Cumulative"}, rows, 1, 2, 3, 4)
}

// Contributions renders per-contributor totals and the equalisation transfer.
func Contributions(sums []report.ContributorSummary, eq report.Equalisation) string {
	rows := make([][]string, 0, len(sums))
	for _, s := range sums {
		rows = append(rows, []string{s.Name, Money(s.Total), Money(s.MonthlyAverage)})
	}
	out := Table([]string{"Contributor", "Total", "Monthly avg"}, rows, 1, 2)
	if eq.From != "" && eq.Amount.IsPositive() {
		out += "\n\n" + BoldStyle.Render(fmt.Sprintf("%s pays %s %s to equalise (difference %s)",
			eq.From, eq.To, eq.Amount.StringFixed(2), eq.Difference.StringFixed(2)))
	}
	return out
}

// Spending renders category totals with their share of all spending.
func Spending(totals []report.CategoryTotal) string {
	sum := decimal.Zero
	for _, t := range totals {
		sum = sum.Add(t.Amount)
	}
	rows := make([][]string, 0, len(totals))
	for _, t := range totals {
		share := "0%"
		if sum.IsPositive() {
			share = t.Amount.Div(sum).Mul(decimal.NewFromInt(100)).Round(0).String() + "%"
		}
		rows = append(rows, []string{t.Category, Money(t.Amount), strconv.Itoa(t.Count), share})
	}
	return Table([]string{"Category", "Spent", "Count", "Share"}, rows, 1, 2, 3)
}

// Report renders the full report.
func Report(d report.Data) string {
	sections := []string{
		Quality(d.Quality),
		FormatTitle("Cash flow"),
		CashFlow(d.CashFlow),
		"",
		FormatTitle("Contributions"),
		Contributions(d.Summaries, d.Equalisation),
		"",
		FormatTitle("Spending by category"),
		Spending(d.CategoryTotals),
	}
	return strings.Join(sections, "\n")
}
