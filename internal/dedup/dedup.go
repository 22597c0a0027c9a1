// Package dedup finds transactions repeated across overlapping statement files.
//
// Two transactions are the same ledger entry when they share the identity key
// (calendar day, amount, title, reference) and come from different files.
// Repeats inside one file are legitimate and never flagged on their own.
package dedup

import (
	"sort"

	"github.com/cleared-dev/splitbook/internal/model"
)

type key struct {
	day       string
	amount    string
	title     string
	reference string
}

func keyOf(t model.Transaction) key {
	return key{
		day:       t.Date.Format("2006-01-02"),
		amount:    t.Amount.String(),
		title:     t.Title,
		reference: t.Reference,
	}
}

// FindDuplicateGroups partitions txns by identity key and keeps partitions
// spanning at least two source files, sorted by date.
func FindDuplicateGroups(txns []model.Transaction) []model.DuplicateGroup {
	index := make(map[key]int)
	var parts [][]model.Transaction
	for _, t := range txns {
		k := keyOf(t)
		i, ok := index[k]
		if !ok {
			i = len(parts)
			index[k] = i
			parts = append(parts, nil)
		}
		parts[i] = append(parts[i], t)
	}

	var groups []model.DuplicateGroup
	for _, members := range parts {
		if len(members) < 2 || !spansFiles(members) {
			continue
		}
		first := members[0]
		groups = append(groups, model.DuplicateGroup{
			Date:         first.Date,
			Amount:       first.Amount,
			Title:        first.Title,
			Reference:    first.Reference,
			Transactions: members,
		})
	}

	sort.SliceStable(groups, func(a, b int) bool {
		return groups[a].Date.Before(groups[b].Date)
	})
	return groups
}

func spansFiles(members []model.Transaction) bool {
	for _, t := range members[1:] {
		if t.Source != members[0].Source {
			return true
		}
	}
	return false
}

// TransactionsToRemove returns every group member except the first one.
// The first member is the earliest inserted, not the chronologically first.
func TransactionsToRemove(groups []model.DuplicateGroup) []model.Transaction {
	var out []model.Transaction
	for _, g := range groups {
		if len(g.Transactions) > 1 {
			out = append(out, g.Transactions[1:]...)
		}
	}
	return out
}

// ApplyRemoval returns txns without the transactions in toRemove, matched by ID.
func ApplyRemoval(txns, toRemove []model.Transaction) []model.Transaction {
	drop := idSet(toRemove)
	out := make([]model.Transaction, 0, len(txns))
	for _, t := range txns {
		if !drop[t.ID] {
			out = append(out, t)
		}
	}
	return out
}

// MarkDuplicates returns a copy of txns with Duplicate set on every member
// of any group and cleared on everything else.
func MarkDuplicates(txns []model.Transaction, groups []model.DuplicateGroup) []model.Transaction {
	dup := make(map[string]bool)
	for _, g := range groups {
		for _, t := range g.Transactions {
			dup[t.ID] = true
		}
	}
	out := make([]model.Transaction, len(txns))
	for i, t := range txns {
		out[i] = t.WithDuplicate(dup[t.ID])
	}
	return out
}

// Count returns the number of transactions TransactionsToRemove would drop.
func Count(groups []model.DuplicateGroup) int {
	n := 0
	for _, g := range groups {
		if len(g.Transactions) > 1 {
			n += len(g.Transactions) - 1
		}
	}
	return n
}

func idSet(txns []model.Transaction) map[string]bool {
	s := make(map[string]bool, len(txns))
	for _, t := range txns {
		s[t.ID] = true
	}
	return s
}
