package report

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/splitbook/internal/model"
)

func day(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func tx(date time.Time, amount string) model.Transaction {
	return model.Transaction{Date: date, Amount: decimal.RequireFromString(amount), Source: "a.csv"}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestKeys(t *testing.T) {
	assert.Equal(t, "2024-05", MonthKey(day(2024, 5, 31)))
	assert.Equal(t, "2024-W01", WeekKey(day(2024, 1, 1)))
	assert.Equal(t, "2020-W53", WeekKey(day(2021, 1, 3)), "ISO year differs from calendar year")
	assert.Equal(t, "2025-W01", WeekKey(day(2024, 12, 30)))
}

func TestMonthRange(t *testing.T) {
	assert.Equal(t, []string{"2023-11", "2023-12", "2024-01", "2024-02"}, MonthRange(day(2023, 11, 30), day(2024, 2, 1)))
	assert.Equal(t, []string{"2024-05"}, MonthRange(day(2024, 5, 1), day(2024, 5, 31)))
	assert.Empty(t, MonthRange(day(2024, 6, 1), day(2024, 5, 1)))
}

func TestWeekRange(t *testing.T) {
	// Sunday to the Monday eight days later spans three ISO weeks.
	got := WeekRange(day(2024, 5, 5), day(2024, 5, 13))
	assert.Equal(t, []string{"2024-W18", "2024-W19", "2024-W20"}, got)

	got = WeekRange(day(2024, 12, 28), day(2025, 1, 6))
	assert.Equal(t, []string{"2024-W52", "2025-W01", "2025-W02"}, got)
}

func TestRangesHaveUniqueKeys(t *testing.T) {
	for _, keys := range [][]string{
		WeekRange(day(2023, 1, 1), day(2024, 12, 31)),
		MonthRange(day(2020, 1, 15), day(2024, 12, 1)),
	} {
		seen := map[string]bool{}
		for _, k := range keys {
			assert.False(t, seen[k], "duplicate key %s", k)
			seen[k] = true
		}
	}
	assert.Len(t, MonthRange(day(2020, 1, 15), day(2024, 12, 1)), 60)
}

func TestMonthlyCashFlow(t *testing.T) {
	txns := []model.Transaction{
		tx(day(2024, 5, 1), "1000"),
		tx(day(2024, 5, 9), "-400"),
		tx(day(2024, 6, 2), "500"),
		tx(day(2024, 6, 30), "-200"),
	}

	got := MonthlyCashFlow(txns)
	require.Len(t, got, 2)
	assert.Equal(t, "2024-05", got[0].Period)
	assert.True(t, got[0].Income.Equal(dec("1000")))
	assert.True(t, got[0].Outgoings.Equal(dec("400")))
	assert.True(t, got[0].Net.Equal(dec("600")))
	assert.True(t, got[0].Balance.Equal(dec("600")))
	assert.True(t, got[1].Net.Equal(dec("300")))
	assert.True(t, got[1].Balance.Equal(dec("900")))
}

func TestCashFlow_ZeroFill(t *testing.T) {
	txns := []model.Transaction{
		tx(day(2024, 1, 5), "100"),
		tx(day(2024, 4, 5), "-50"),
	}

	got := MonthlyCashFlow(txns)
	require.Len(t, got, 4)
	assert.Equal(t, "2024-02", got[1].Period)
	assert.True(t, got[1].Net.IsZero())
	assert.True(t, got[2].Balance.Equal(dec("100")))
	assert.True(t, got[3].Balance.Equal(dec("50")))

	assert.Empty(t, MonthlyCashFlow(nil))
	assert.Empty(t, WeeklyCashFlow(nil))
}

func TestWeeklyCashFlow(t *testing.T) {
	txns := []model.Transaction{
		tx(day(2024, 5, 6), "10"),
		tx(day(2024, 5, 26), "-4"),
	}
	got := WeeklyCashFlow(txns)
	require.Len(t, got, 3)
	assert.Equal(t, "2024-W19", got[0].Period)
	assert.Equal(t, "2024-W21", got[2].Period)
	assert.True(t, got[2].Balance.Equal(dec("6")))
}

func tagged(date time.Time, amount, who string) model.Transaction {
	return tx(date, amount).WithContributor(who)
}

func TestContributions(t *testing.T) {
	txns := []model.Transaction{
		tagged(day(2024, 5, 1), "500", "Alex"),
		tagged(day(2024, 5, 2), "300", "Jordan"),
		tagged(day(2024, 7, 1), "200", "Alex"),
		tagged(day(2024, 7, 1), "999", "Stranger"),
		tx(day(2024, 7, 3), "-50"),
	}
	months := Months(txns)

	got := Contributions(txns, []string{"Alex", "Jordan"}, months)
	require.Len(t, got, 3)
	assert.True(t, got[0].Amounts["Alex"].Equal(dec("500")))
	assert.True(t, got[1].Amounts["Alex"].IsZero(), "June is zero-filled")
	assert.True(t, got[1].Cumulative["Alex"].Equal(dec("500")))
	assert.True(t, got[2].Cumulative["Alex"].Equal(dec("700")))
	assert.True(t, got[2].Cumulative["Jordan"].Equal(dec("300")))
	_, ok := got[2].Amounts["Stranger"]
	assert.False(t, ok, "only tracked contributors are reported")
}

func TestSummariesAndEqualisation(t *testing.T) {
	txns := []model.Transaction{
		tagged(day(2024, 5, 1), "600", "Jordan"),
		tagged(day(2024, 5, 1), "1000", "Alex"),
		tagged(day(2024, 6, 1), "50", "Other"),
	}

	sums := Summaries(txns, []string{"Jordan", "Alex", "Other"}, 2)
	require.Len(t, sums, 3)
	assert.Equal(t, "Alex", sums[0].Name)
	assert.True(t, sums[0].MonthlyAverage.Equal(dec("500")))
	assert.Equal(t, "Jordan", sums[1].Name)

	eq := Equalise(sums)
	assert.True(t, eq.Difference.Equal(dec("400")))
	assert.True(t, eq.Amount.Equal(dec("200")))
	assert.Equal(t, "Jordan", eq.From)
	assert.Equal(t, "Alex", eq.To)
}

func TestEqualise_UsesTopTwoOnly(t *testing.T) {
	eq := Equalise([]ContributorSummary{
		{Name: "C", Total: dec("100")},
		{Name: "A", Total: dec("900")},
		{Name: "B", Total: dec("700")},
	})
	assert.Equal(t, "A", eq.To)
	assert.Equal(t, "B", eq.From)
	assert.True(t, eq.Amount.Equal(dec("100")))
}

func TestEqualise_SingleOrNone(t *testing.T) {
	eq := Equalise([]ContributorSummary{{Name: "Alex", Total: dec("1000")}, {Name: "Other", Total: dec("5")}})
	assert.True(t, eq.Difference.IsZero())
	assert.True(t, eq.Amount.IsZero())
	assert.Equal(t, "Alex", eq.To)
	assert.Empty(t, eq.From)

	eq = Equalise(nil)
	assert.True(t, eq.Amount.IsZero())
}

func TestSummaries_NoMonths(t *testing.T) {
	sums := Summaries(nil, []string{"Alex"}, 0)
	require.Len(t, sums, 1)
	assert.True(t, sums[0].Total.IsZero())
	assert.True(t, sums[0].MonthlyAverage.IsZero())
}

func TestSpendingByCategory(t *testing.T) {
	txns := []model.Transaction{
		tx(day(2024, 5, 1), "-40").WithCategory("Groceries"),
		tx(day(2024, 5, 2), "-10").WithCategory("Groceries"),
		tx(day(2024, 5, 3), "-7"),
		tx(day(2024, 7, 1), "-100").WithCategory("Rent"),
		tx(day(2024, 7, 1), "100"),
	}

	got := SpendingByCategory(txns, Months(txns))
	assert.Equal(t, []string{"Groceries", "Rent", model.UncategorizedLabel}, got.Categories)
	require.Len(t, got.Months, 3)

	may := got.Months[0].Categories
	assert.True(t, may["Groceries"].Amount.Equal(dec("50")))
	assert.Equal(t, 2, may["Groceries"].Count)
	assert.True(t, may[model.UncategorizedLabel].Amount.Equal(dec("7")))
	assert.True(t, may["Rent"].Amount.IsZero())

	june := got.Months[1].Categories
	assert.Len(t, june, 3, "every category appears in every month")

	assert.Empty(t, SpendingByCategory(nil, nil).Categories)
}

func TestCategoryTotals(t *testing.T) {
	txns := []model.Transaction{
		tx(day(2024, 5, 1), "-10").WithCategory("B"),
		tx(day(2024, 5, 1), "-10").WithCategory("A"),
		tx(day(2024, 5, 1), "-30"),
		tx(day(2024, 5, 1), "30"),
	}
	got := CategoryTotals(txns)
	require.Len(t, got, 3)
	assert.Equal(t, model.UncategorizedLabel, got[0].Category)
	assert.Equal(t, "A", got[1].Category)
	assert.Equal(t, "B", got[2].Category)
}

func TestQuality(t *testing.T) {
	a := tx(day(2024, 1, 3), "100")
	b := tx(day(2024, 3, 20), "-5")
	b.Source = "b.csv"
	c := tx(day(2024, 3, 21), "0")

	q := Quality([]model.Transaction{a, b, c}, 4)
	assert.Equal(t, day(2024, 1, 3), q.Start)
	assert.Equal(t, day(2024, 3, 21), q.End)
	assert.Equal(t, 2, q.FileCount)
	assert.Equal(t, 3, q.TransactionCount)
	assert.Equal(t, 1, q.IncomeCount)
	assert.Equal(t, 1, q.ExpenseCount)
	assert.Equal(t, 4, q.DuplicatesRemoved)
	assert.Equal(t, []string{"2024-02"}, q.MissingMonths)
	assert.Contains(t, q.MissingWeeks, "2024-W05")
	assert.NotContains(t, q.MissingWeeks, "2024-W01")
	assert.NotContains(t, q.MissingWeeks, "2024-W12")
}

func TestQuality_Empty(t *testing.T) {
	q := Quality(nil, 0)
	assert.True(t, q.Start.IsZero())
	assert.Zero(t, q.FileCount)
	assert.Empty(t, q.MissingMonths)
	assert.Empty(t, q.MissingWeeks)
}

func TestBuild(t *testing.T) {
	txns := []model.Transaction{
		tagged(day(2024, 5, 1), "1000", "Alex"),
		tagged(day(2024, 5, 2), "600", "Jordan"),
		tx(day(2024, 5, 3), "-400").WithCategory("Rent"),
		tx(day(2024, 6, 3), "-200"),
	}

	data := Build(txns, Options{Contributors: []string{"Alex", "Jordan", "Other"}, DuplicatesRemoved: 1})
	assert.Equal(t, []string{"2024-05", "2024-06"}, data.Months)
	assert.Len(t, data.CashFlow, 2)
	assert.True(t, data.CashFlow[1].Balance.Equal(dec("1000")))
	assert.Len(t, data.Contributions, 2)
	assert.Equal(t, "Alex", data.Summaries[0].Name)
	assert.True(t, data.Equalisation.Amount.Equal(dec("200")))
	assert.Equal(t, 1, data.Quality.DuplicatesRemoved)
	assert.Equal(t, []string{"Rent", model.UncategorizedLabel}, data.Spending.Categories)
	assert.NotEmpty(t, data.WeeklyCashFlow)
}

func TestBuild_Empty(t *testing.T) {
	data := Build(nil, Options{})
	assert.Empty(t, data.Months)
	assert.Empty(t, data.CashFlow)
	assert.Empty(t, data.Summaries)
	assert.True(t, data.Equalisation.Amount.IsZero())
}
