package report

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/splitbook/internal/model"
)

// ContributionPoint holds each tracked contributor's income for one month.
type ContributionPoint struct {
	Month      string
	Amounts    map[string]decimal.Decimal
	Cumulative map[string]decimal.Decimal
}

// Contributions sums tagged income per contributor per month. Every
// contributor appears in every month, zero-filled.
func Contributions(txns []model.Transaction, contributors, months []string) []ContributionPoint {
	index := make(map[string]int, len(months))
	points := make([]ContributionPoint, len(months))
	for i, m := range months {
		index[m] = i
		points[i] = ContributionPoint{
			Month:      m,
			Amounts:    zeroMap(contributors),
			Cumulative: zeroMap(contributors),
		}
	}

	for _, t := range txns {
		if !t.IsIncome() {
			continue
		}
		i, ok := index[MonthKey(t.Date)]
		if !ok {
			continue
		}
		if _, tracked := points[i].Amounts[t.Contributor]; !tracked {
			continue
		}
		points[i].Amounts[t.Contributor] = points[i].Amounts[t.Contributor].Add(t.Amount)
	}

	running := zeroMap(contributors)
	for i := range points {
		for _, c := range contributors {
			running[c] = running[c].Add(points[i].Amounts[c])
			points[i].Cumulative[c] = running[c]
		}
	}
	return points
}

func zeroMap(keys []string) map[string]decimal.Decimal {
	m := make(map[string]decimal.Decimal, len(keys))
	for _, k := range keys {
		m[k] = decimal.Zero
	}
	return m
}

// ContributorSummary is a contributor's total over the report range.
type ContributorSummary struct {
	Name           string
	Total          decimal.Decimal
	MonthlyAverage decimal.Decimal
}

// Summaries totals tagged income per contributor and averages it over
// monthCount months. Results are sorted by total, largest first; equal
// totals keep the order of contributors.
func Summaries(txns []model.Transaction, contributors []string, monthCount int) []ContributorSummary {
	totals := zeroMap(contributors)
	for _, t := range txns {
		if !t.IsIncome() {
			continue
		}
		if cur, ok := totals[t.Contributor]; ok {
			totals[t.Contributor] = cur.Add(t.Amount)
		}
	}

	out := make([]ContributorSummary, 0, len(contributors))
	seen := make(map[string]bool)
	for _, c := range contributors {
		if seen[c] {
			continue
		}
		seen[c] = true
		avg := decimal.Zero
		if monthCount > 0 {
			avg = totals[c].Div(decimal.NewFromInt(int64(monthCount)))
		}
		out = append(out, ContributorSummary{Name: c, Total: totals[c], MonthlyAverage: avg})
	}

	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Total.GreaterThan(out[b].Total)
	})
	return out
}

// Equalisation is the transfer that evens out the two largest contributors.
type Equalisation struct {
	From       string // lower contributor
	To         string // higher contributor
	Difference decimal.Decimal
	Amount     decimal.Decimal // Difference / 2
}

// Equalise compares the two contributors with the largest totals, ignoring
// the Other bucket. With fewer than two contributors both amounts are zero.
func Equalise(summaries []ContributorSummary) Equalisation {
	var people []ContributorSummary
	for _, s := range summaries {
		if s.Name != model.OtherContributor {
			people = append(people, s)
		}
	}
	sort.SliceStable(people, func(a, b int) bool {
		return people[a].Total.GreaterThan(people[b].Total)
	})

	eq := Equalisation{Difference: decimal.Zero, Amount: decimal.Zero}
	switch len(people) {
	case 0:
		return eq
	case 1:
		eq.To = people[0].Name
		return eq
	}

	high, low := people[0], people[1]
	eq.To, eq.From = high.Name, low.Name
	eq.Difference = high.Total.Sub(low.Total).Abs()
	eq.Amount = eq.Difference.Div(decimal.NewFromInt(2))
	return eq
}
