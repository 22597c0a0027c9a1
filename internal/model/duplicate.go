package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DuplicateGroup is a set of transactions with the same identity key
// appearing in two or more source files.
type DuplicateGroup struct {
	Date         time.Time
	Amount       decimal.Decimal
	Title        string
	Reference    string
	Transactions []Transaction // ingestion order
}

// Sources returns the distinct source labels in first-seen order.
func (g DuplicateGroup) Sources() []string {
	seen := make(map[string]bool)
	var out []string
	for _, t := range g.Transactions {
		if !seen[t.Source] {
			seen[t.Source] = true
			out = append(out, t.Source)
		}
	}
	return out
}
