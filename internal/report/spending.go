package report

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/splitbook/internal/model"
)

// CategoryAmount is the absolute spending and transaction count of a category.
type CategoryAmount struct {
	Amount decimal.Decimal
	Count  int
}

// SpendingMonth holds one month's spending per category.
type SpendingMonth struct {
	Month      string
	Categories map[string]CategoryAmount
}

// Spending is the per-month category breakdown of expenses.
type Spending struct {
	Categories []string // union over the whole range, sorted
	Months     []SpendingMonth
}

func categoryOf(t model.Transaction) string {
	if t.HasCategory() {
		return t.Category
	}
	return model.UncategorizedLabel
}

// SpendingByCategory breaks expenses down by month and category. Expenses
// without a category land in model.UncategorizedLabel. Every month carries
// every category seen anywhere in the range.
func SpendingByCategory(txns []model.Transaction, months []string) Spending {
	index := make(map[string]int, len(months))
	for i, m := range months {
		index[m] = i
	}

	seen := make(map[string]bool)
	var cats []string
	for _, t := range txns {
		if !t.IsExpense() {
			continue
		}
		if _, ok := index[MonthKey(t.Date)]; !ok {
			continue
		}
		c := categoryOf(t)
		if !seen[c] {
			seen[c] = true
			cats = append(cats, c)
		}
	}
	sort.Strings(cats)

	out := Spending{Categories: cats, Months: make([]SpendingMonth, len(months))}
	for i, m := range months {
		byCat := make(map[string]CategoryAmount, len(cats))
		for _, c := range cats {
			byCat[c] = CategoryAmount{Amount: decimal.Zero}
		}
		out.Months[i] = SpendingMonth{Month: m, Categories: byCat}
	}

	for _, t := range txns {
		if !t.IsExpense() {
			continue
		}
		i, ok := index[MonthKey(t.Date)]
		if !ok {
			continue
		}
		c := categoryOf(t)
		ca := out.Months[i].Categories[c]
		ca.Amount = ca.Amount.Add(t.Amount.Abs())
		ca.Count++
		out.Months[i].Categories[c] = ca
	}
	return out
}

// CategoryTotal is a category's spending over the whole range.
type CategoryTotal struct {
	Category string
	Amount   decimal.Decimal
	Count    int
}

// CategoryTotals sums expenses per category, largest first, then by name.
func CategoryTotals(txns []model.Transaction) []CategoryTotal {
	index := make(map[string]int)
	var out []CategoryTotal
	for _, t := range txns {
		if !t.IsExpense() {
			continue
		}
		c := categoryOf(t)
		i, ok := index[c]
		if !ok {
			i = len(out)
			index[c] = i
			out = append(out, CategoryTotal{Category: c, Amount: decimal.Zero})
		}
		out[i].Amount = out[i].Amount.Add(t.Amount.Abs())
		out[i].Count++
	}
	sort.Slice(out, func(a, b int) bool {
		if !out[a].Amount.Equal(out[b].Amount) {
			return out[a].Amount.GreaterThan(out[b].Amount)
		}
		return out[a].Category < out[b].Category
	})
	return out
}
