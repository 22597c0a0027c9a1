package categorize

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/splitbook/internal/model"
)

func expense(amount, title string) model.Transaction {
	return model.Transaction{Amount: decimal.RequireFromString(amount), Title: title}
}

func TestSuggestTargets(t *testing.T) {
	txns := []model.Transaction{
		expense("-10", "Coffee"),
		expense("-100", " Rent "),
		expense("-15", "Coffee"),
		expense("-5", "coffee"),
		expense("50", "Refund"),
		expense("-999", "Done").WithCategory("Big"),
	}

	got := SuggestTargets(txns)
	require.Len(t, got, 3)
	assert.Equal(t, "Rent", got[0].Title)
	assert.Equal(t, "Coffee", got[1].Title)
	assert.True(t, got[1].Total.Equal(decimal.NewFromInt(25)))
	assert.Equal(t, 2, got[1].Count)
	assert.Equal(t, "coffee", got[2].Title, "case is not folded")
}

func TestApplyMappings_ExactBeatsContains(t *testing.T) {
	txns := []model.Transaction{expense("-20", "K-MARKET KAMPPI")}
	mappings := []model.CategoryMapping{
		{Pattern: "market", Category: "Shopping", MatchType: model.MatchContains},
		{Pattern: "k-market kamppi", Category: "Groceries", MatchType: model.MatchExact},
	}

	got := ApplyMappings(txns, mappings)
	assert.Equal(t, "Groceries", got[0].Category)
}

func TestApplyMappings_FirstContainsWins(t *testing.T) {
	txns := []model.Transaction{expense("-20", "HELEN OY ELECTRICITY")}
	mappings := []model.CategoryMapping{
		{Pattern: "electricity", Category: "Utilities", MatchType: model.MatchContains},
		{Pattern: "helen", Category: "Energy", MatchType: model.MatchContains},
	}
	assert.Equal(t, "Utilities", ApplyMappings(txns, mappings)[0].Category)

	mappings[0], mappings[1] = mappings[1], mappings[0]
	assert.Equal(t, "Energy", ApplyMappings(txns, mappings)[0].Category)
}

func TestApplyMappings_PassThrough(t *testing.T) {
	txns := []model.Transaction{
		expense("100", "SALARY"),
		expense("-5", "SALARY").WithCategory("Manual"),
		expense("-5", "UNKNOWN"),
		expense("-7", "  salary  "),
	}
	mappings := []model.CategoryMapping{
		{Pattern: "Salary", Category: "Work", MatchType: model.MatchExact},
	}

	got := ApplyMappings(txns, mappings)
	assert.Empty(t, got[0].Category, "income is never categorized")
	assert.Equal(t, "Manual", got[1].Category, "existing category kept")
	assert.Empty(t, got[2].Category)
	assert.Equal(t, "Work", got[3].Category, "exact compares trimmed, case-insensitive")
	assert.Empty(t, txns[3].Category, "input not mutated")
}

func TestNewMatcher_SkipsInvalidMappings(t *testing.T) {
	m := NewMatcher([]model.CategoryMapping{
		{Pattern: "", Category: "All", MatchType: model.MatchContains},
		{Pattern: "bus", Category: "", MatchType: model.MatchContains},
		{Pattern: "bus", Category: "Regex", MatchType: "regex"},
		{Pattern: "bus", Category: "Transport", MatchType: model.MatchContains},
	})
	got, ok := m.Match("HSL BUS")
	require.True(t, ok)
	assert.Equal(t, "Transport", got)

	_, ok = m.Match("nothing")
	assert.False(t, ok)
}

func TestAutocomplete(t *testing.T) {
	known := []string{"Groceries", "Rent", "Eating out", "Gifts"}

	assert.Equal(t, []string{"Eating out", "Gifts", "Groceries", "Rent"}, Autocomplete("", known))
	assert.Equal(t, []string{"Eating out", "Gifts", "Groceries", "Rent"}, Autocomplete("   ", known))
	assert.Equal(t, []string{"Gifts", "Groceries"}, Autocomplete("G", known))
	assert.Equal(t, []string{"Rent"}, Autocomplete("ENT", known))
	assert.Empty(t, Autocomplete("x", nil))
}

func TestKnownCategories(t *testing.T) {
	txns := []model.Transaction{expense("-1", "a").WithCategory("Rent"), expense("-1", "b")}
	mappings := []model.CategoryMapping{{Pattern: "x", Category: "Groceries", MatchType: model.MatchExact}}

	got := KnownCategories(txns, mappings, []string{"Rent", " Travel "})
	assert.Equal(t, []string{"Groceries", "Rent", "Travel"}, got)
}

func TestComputeProgress(t *testing.T) {
	txns := []model.Transaction{
		expense("-30", "a").WithCategory("X"),
		expense("-60", "b"),
		expense("-10", "c"),
		expense("500", "income"),
	}

	p := ComputeProgress(txns)
	assert.Equal(t, 3, p.TotalExpenses)
	assert.Equal(t, 1, p.Categorized)
	assert.Equal(t, 2, p.Uncategorized)
	assert.True(t, p.CategorizedAmount.Equal(decimal.NewFromInt(30)))
	assert.True(t, p.UncategorizedAmount.Equal(decimal.NewFromInt(70)))
	assert.Equal(t, 30, p.PercentComplete)
}

func TestComputeProgress_Rounding(t *testing.T) {
	txns := []model.Transaction{
		expense("-2", "a").WithCategory("X"),
		expense("-1", "b"),
	}
	assert.Equal(t, 67, ComputeProgress(txns).PercentComplete)
}

func TestComputeProgress_NoExpenses(t *testing.T) {
	p := ComputeProgress([]model.Transaction{expense("10", "in")})
	assert.Equal(t, 100, p.PercentComplete)
	assert.Equal(t, 0, p.TotalExpenses)

	assert.Equal(t, 100, ComputeProgress(nil).PercentComplete)
}
