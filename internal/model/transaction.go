package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is one bank ledger entry parsed from a statement CSV.
//
// The core fields are set once during ingestion. Category, Contributor and
// Duplicate are annotations added by later pipeline stages; stages return
// modified copies through the With* helpers and never edit a shared value.
type Transaction struct {
	ID        string    // "<source>-<row>", see id.FormatTransactionID
	Date      time.Time // booking date, midnight UTC
	Amount    decimal.Decimal
	Sender    string
	Recipient string
	Name      string // payer or payee name
	Title     string
	Message   string
	Reference string // opaque, never numeric
	Balance   string // verbatim balance column
	Currency  string
	Source    string // source file label

	Category    string // empty = uncategorized
	Contributor string // empty = not an income transaction
	Duplicate   bool
}

// IsIncome reports whether the transaction is an inflow.
func (t Transaction) IsIncome() bool { return t.Amount.IsPositive() }

// IsExpense reports whether the transaction is an outflow.
func (t Transaction) IsExpense() bool { return t.Amount.IsNegative() }

// HasCategory reports whether a category has been assigned.
func (t Transaction) HasCategory() bool { return t.Category != "" }

// WithCategory returns a copy carrying category.
func (t Transaction) WithCategory(category string) Transaction {
	t.Category = category
	return t
}

// WithContributor returns a copy carrying contributor.
func (t Transaction) WithContributor(contributor string) Transaction {
	t.Contributor = contributor
	return t
}

// WithDuplicate returns a copy with the duplicate flag set to dup.
func (t Transaction) WithDuplicate(dup bool) Transaction {
	t.Duplicate = dup
	return t
}

// Clone returns a shallow copy of txns backed by a new array.
func Clone(txns []Transaction) []Transaction {
	if txns == nil {
		return nil
	}
	out := make([]Transaction, len(txns))
	copy(out, txns)
	return out
}
