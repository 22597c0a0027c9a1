package report

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/splitbook/internal/model"
)

// CashFlowPoint is the cash flow of one period.
type CashFlowPoint struct {
	Period    string
	Income    decimal.Decimal
	Outgoings decimal.Decimal // absolute
	Net       decimal.Decimal
	Balance   decimal.Decimal // running sum of Net
}

// CashFlow buckets txns into periods using keyOf. Every period appears once,
// zero-filled, in the given order. Transactions outside periods are ignored.
func CashFlow(txns []model.Transaction, periods []string, keyOf func(time.Time) string) []CashFlowPoint {
	points := make([]CashFlowPoint, len(periods))
	index := make(map[string]int, len(periods))
	for i, p := range periods {
		index[p] = i
		points[i] = CashFlowPoint{
			Period:    p,
			Income:    decimal.Zero,
			Outgoings: decimal.Zero,
			Net:       decimal.Zero,
			Balance:   decimal.Zero,
		}
	}

	for _, t := range txns {
		i, ok := index[keyOf(t.Date)]
		if !ok {
			continue
		}
		switch {
		case t.IsIncome():
			points[i].Income = points[i].Income.Add(t.Amount)
		case t.IsExpense():
			points[i].Outgoings = points[i].Outgoings.Add(t.Amount.Abs())
		}
	}

	balance := decimal.Zero
	for i := range points {
		points[i].Net = points[i].Income.Sub(points[i].Outgoings)
		balance = balance.Add(points[i].Net)
		points[i].Balance = balance
	}
	return points
}

// MonthlyCashFlow returns the cash flow of every month spanned by txns.
func MonthlyCashFlow(txns []model.Transaction) []CashFlowPoint {
	return CashFlow(txns, Months(txns), MonthKey)
}

// WeeklyCashFlow returns the cash flow of every ISO week spanned by txns.
func WeeklyCashFlow(txns []model.Transaction) []CashFlowPoint {
	return CashFlow(txns, Weeks(txns), WeekKey)
}
