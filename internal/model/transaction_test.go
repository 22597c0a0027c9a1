package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTransactionDirection(t *testing.T) {
	tests := []struct {
		amount  string
		income  bool
		expense bool
	}{
		{"10.00", true, false},
		{"-0.01", false, true},
		{"0", false, false},
	}
	for _, tt := range tests {
		txn := Transaction{Amount: decimal.RequireFromString(tt.amount)}
		assert.Equal(t, tt.income, txn.IsIncome(), "IsIncome(%s)", tt.amount)
		assert.Equal(t, tt.expense, txn.IsExpense(), "IsExpense(%s)", tt.amount)
	}
}

func TestWithHelpersCopy(t *testing.T) {
	orig := Transaction{ID: "a-0", Amount: decimal.NewFromInt(-5)}

	tagged := orig.WithCategory("Food").WithContributor("Alex").WithDuplicate(true)

	assert.Empty(t, orig.Category)
	assert.Empty(t, orig.Contributor)
	assert.False(t, orig.Duplicate)
	assert.Equal(t, "Food", tagged.Category)
	assert.Equal(t, "Alex", tagged.Contributor)
	assert.True(t, tagged.Duplicate)
	assert.True(t, tagged.HasCategory())
}

func TestClone(t *testing.T) {
	assert.Nil(t, Clone(nil))

	txns := []Transaction{{ID: "a-0"}, {ID: "a-1"}}
	c := Clone(txns)
	c[0].ID = "changed"
	assert.Equal(t, "a-0", txns[0].ID)
}

func TestMatchTypeValid(t *testing.T) {
	assert.True(t, MatchExact.Valid())
	assert.True(t, MatchContains.Valid())
	assert.False(t, MatchType("regex").Valid())
}

func TestDuplicateGroupSources(t *testing.T) {
	g := DuplicateGroup{Transactions: []Transaction{
		{Source: "b.csv"}, {Source: "a.csv"}, {Source: "b.csv"},
	}}
	assert.Equal(t, []string{"b.csv", "a.csv"}, g.Sources())
}
