// Package categorize assigns spending categories to expense transactions
// from user-defined title patterns.
package categorize

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/splitbook/internal/model"
)

// SuggestTargets groups uncategorized expenses by trimmed title and orders the
// groups by total absolute amount, largest first. Equal totals keep
// first-seen order.
func SuggestTargets(txns []model.Transaction) []model.TitleSuggestion {
	index := make(map[string]int)
	var out []model.TitleSuggestion
	for _, t := range txns {
		if !t.IsExpense() || t.HasCategory() {
			continue
		}
		title := strings.TrimSpace(t.Title)
		i, ok := index[title]
		if !ok {
			i = len(out)
			index[title] = i
			out = append(out, model.TitleSuggestion{Title: title, Total: decimal.Zero})
		}
		out[i].Total = out[i].Total.Add(t.Amount.Abs())
		out[i].Count++
	}

	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Total.GreaterThan(out[b].Total)
	})
	return out
}

// ApplyMappings returns a copy of txns with categories assigned to
// uncategorized expenses. Exact mappings are tried before contains mappings;
// within each tier the first matching mapping in input order wins. Income and
// already categorized transactions pass through unchanged.
func ApplyMappings(txns []model.Transaction, mappings []model.CategoryMapping) []model.Transaction {
	m := NewMatcher(mappings)
	out := make([]model.Transaction, len(txns))
	for i, t := range txns {
		if !t.IsExpense() || t.HasCategory() {
			out[i] = t
			continue
		}
		if category, ok := m.Match(t.Title); ok {
			out[i] = t.WithCategory(category)
			continue
		}
		out[i] = t
	}
	return out
}

type rule struct {
	pattern  string // lower-cased, trimmed
	category string
}

// Matcher evaluates category mappings against titles.
type Matcher struct {
	exact    []rule
	contains []rule
}

// NewMatcher splits mappings into the exact and contains tiers, keeping
// their relative order. Mappings with an empty pattern or category, or an
// unknown match type, are ignored.
func NewMatcher(mappings []model.CategoryMapping) *Matcher {
	m := &Matcher{}
	for _, mp := range mappings {
		p := strings.ToLower(strings.TrimSpace(mp.Pattern))
		if p == "" || mp.Category == "" {
			continue
		}
		switch mp.MatchType {
		case model.MatchExact:
			m.exact = append(m.exact, rule{pattern: p, category: mp.Category})
		case model.MatchContains:
			m.contains = append(m.contains, rule{pattern: p, category: mp.Category})
		}
	}
	return m
}

// Match returns the category for title, if any mapping applies.
func (m *Matcher) Match(title string) (string, bool) {
	t := strings.ToLower(strings.TrimSpace(title))
	for _, r := range m.exact {
		if r.pattern == t {
			return r.category, true
		}
	}
	for _, r := range m.contains {
		if strings.Contains(t, r.pattern) {
			return r.category, true
		}
	}
	return "", false
}

// Autocomplete returns the known categories containing input
// (case-insensitive), sorted. Blank input returns every known category.
func Autocomplete(input string, known []string) []string {
	q := strings.ToLower(strings.TrimSpace(input))
	var out []string
	for _, k := range known {
		if q == "" || strings.Contains(strings.ToLower(k), q) {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

// KnownCategories returns the distinct categories named by defaults,
// mappings and assigned transactions, sorted.
func KnownCategories(txns []model.Transaction, mappings []model.CategoryMapping, defaults []string) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(c string) {
		c = strings.TrimSpace(c)
		if c == "" || seen[c] {
			return
		}
		seen[c] = true
		out = append(out, c)
	}
	for _, c := range defaults {
		add(c)
	}
	for _, m := range mappings {
		add(m.Category)
	}
	for _, t := range txns {
		add(t.Category)
	}
	sort.Strings(out)
	return out
}

// Progress summarizes how much of the expense side has been categorized.
type Progress struct {
	TotalExpenses       int
	Categorized         int
	Uncategorized       int
	CategorizedAmount   decimal.Decimal
	UncategorizedAmount decimal.Decimal
	PercentComplete     int
}

// ComputeProgress measures categorization progress by amount. With no
// expense amount at all the work counts as complete.
func ComputeProgress(txns []model.Transaction) Progress {
	p := Progress{CategorizedAmount: decimal.Zero, UncategorizedAmount: decimal.Zero}
	for _, t := range txns {
		if !t.IsExpense() {
			continue
		}
		p.TotalExpenses++
		if t.HasCategory() {
			p.Categorized++
			p.CategorizedAmount = p.CategorizedAmount.Add(t.Amount.Abs())
		} else {
			p.Uncategorized++
			p.UncategorizedAmount = p.UncategorizedAmount.Add(t.Amount.Abs())
		}
	}

	total := p.CategorizedAmount.Add(p.UncategorizedAmount)
	if total.IsZero() {
		p.PercentComplete = 100
		return p
	}
	p.PercentComplete = int(p.CategorizedAmount.Div(total).Mul(decimal.NewFromInt(100)).Round(0).IntPart())
	return p
}
