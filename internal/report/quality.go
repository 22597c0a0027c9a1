package report

import (
	"time"

	"github.com/cleared-dev/splitbook/internal/model"
)

// DataQuality describes coverage of the imported statements.
type DataQuality struct {
	Start             time.Time // zero when there are no transactions
	End               time.Time
	FileCount         int
	TransactionCount  int
	IncomeCount       int
	ExpenseCount      int
	DuplicatesRemoved int
	MissingWeeks      []string
	MissingMonths     []string
}

// Quality computes coverage metrics. duplicatesRemoved is reported as given.
func Quality(txns []model.Transaction, duplicatesRemoved int) DataQuality {
	q := DataQuality{TransactionCount: len(txns), DuplicatesRemoved: duplicatesRemoved}

	files := make(map[string]bool)
	weeks := make(map[string]bool)
	months := make(map[string]bool)
	for _, t := range txns {
		files[t.Source] = true
		weeks[WeekKey(t.Date)] = true
		months[MonthKey(t.Date)] = true
		switch {
		case t.IsIncome():
			q.IncomeCount++
		case t.IsExpense():
			q.ExpenseCount++
		}
	}
	q.FileCount = len(files)

	start, end, ok := DateRange(txns)
	if !ok {
		return q
	}
	q.Start, q.End = start, end
	q.MissingWeeks = missing(WeekRange(start, end), weeks)
	q.MissingMonths = missing(MonthRange(start, end), months)
	return q
}

func missing(keys []string, present map[string]bool) []string {
	var out []string
	for _, k := range keys {
		if !present[k] {
			out = append(out, k)
		}
	}
	return out
}
