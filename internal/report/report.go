// Package report derives cash flow, contribution and spending summaries from
// a cleaned, tagged transaction set. Every function is pure and returns
// zeroed results for empty input.
package report

import (
	"github.com/cleared-dev/splitbook/internal/model"
)

// Options parameterize Build.
type Options struct {
	// Contributors are the tracked contributor names, usually including
	// model.OtherContributor.
	Contributors []string
	// DuplicatesRemoved is reported verbatim in the quality summary.
	DuplicatesRemoved int
}

// Data is the complete report for one transaction set.
type Data struct {
	Months         []string
	Quality        DataQuality
	CashFlow       []CashFlowPoint
	WeeklyCashFlow []CashFlowPoint
	Contributions  []ContributionPoint
	Summaries      []ContributorSummary
	Equalisation   Equalisation
	Spending       Spending
	CategoryTotals []CategoryTotal
}

// Build computes the whole report from scratch.
func Build(txns []model.Transaction, opts Options) Data {
	months := Months(txns)
	summaries := Summaries(txns, opts.Contributors, len(months))
	return Data{
		Months:         months,
		Quality:        Quality(txns, opts.DuplicatesRemoved),
		CashFlow:       CashFlow(txns, months, MonthKey),
		WeeklyCashFlow: WeeklyCashFlow(txns),
		Contributions:  Contributions(txns, opts.Contributors, months),
		Summaries:      summaries,
		Equalisation:   Equalise(summaries),
		Spending:       SpendingByCategory(txns, months),
		CategoryTotals: CategoryTotals(txns),
	}
}
