// Package export writes cleaned, annotated transactions and the mapping
// document in a form the importer can read back.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/cleared-dev/splitbook/internal/id"
	"github.com/cleared-dev/splitbook/internal/importer"
	"github.com/cleared-dev/splitbook/internal/locale"
	"github.com/cleared-dev/splitbook/internal/model"
	"github.com/cleared-dev/splitbook/internal/report"
)

// Annotation column names appended after the statement columns.
const (
	ColCategory    = "Category"
	ColContributor = "Contributor"
	ColDuplicate   = "Duplicate"
)

const (
	numFields      = 13
	colCategory    = 10
	colContributor = 11
	colDuplicate   = 12
)

// Header returns the exported column names.
func Header() []string {
	h := make([]string, 0, numFields)
	h = append(h, importer.Columns...)
	return append(h, ColCategory, ColContributor, ColDuplicate)
}

// MarshalTransaction converts a Transaction to an export row.
func MarshalTransaction(t model.Transaction) []string {
	row := make([]string, numFields)
	// Statement columns follow importer.Columns.
	row[0] = locale.FormatStatementDate(t.Date)
	row[1] = locale.FormatDecimal(t.Amount)
	row[2] = t.Sender
	row[3] = t.Recipient
	row[4] = t.Name
	row[5] = t.Title
	row[6] = t.Message
	row[7] = t.Reference
	row[8] = t.Balance
	row[9] = t.Currency
	row[colCategory] = t.Category
	row[colContributor] = t.Contributor
	row[colDuplicate] = strconv.FormatBool(t.Duplicate)
	return row
}

// WriteTransactions writes txns (including header) in the statement layout
// with annotation columns appended.
func WriteTransactions(w io.Writer, txns []model.Transaction) error {
	cw := csv.NewWriter(w)
	cw.Comma = importer.Delimiter
	defer cw.Flush()

	if err := cw.Write(Header()); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, t := range txns {
		if err := cw.Write(MarshalTransaction(t)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadTransactions ingests an exported file and restores its annotations.
// Files without annotation columns are ingested as plain statements.
func ReadTransactions(content, source string) ([]model.Transaction, error) {
	txns, err := importer.Ingest(content, source)
	if err != nil {
		return nil, err
	}

	header, records, err := importer.ReadRecords(content)
	if err != nil {
		return nil, fmt.Errorf("reading annotations: %w", err)
	}
	if len(header) < numFields || strings.TrimSpace(header[colCategory]) != ColCategory {
		return txns, nil
	}

	rows := make(map[int][]string, len(records))
	for _, r := range records {
		rows[r.Row] = r.Fields
	}
	for i, t := range txns {
		_, row, err := id.ParseTransactionID(t.ID)
		if err != nil {
			return nil, fmt.Errorf("transaction %s: %w", t.ID, err)
		}
		rec := rows[row]
		if len(rec) < numFields {
			continue
		}
		dup, err := strconv.ParseBool(strings.TrimSpace(rec[colDuplicate]))
		if err != nil && rec[colDuplicate] != "" {
			return nil, fmt.Errorf("row %d: parsing duplicate flag %q: %w", row, rec[colDuplicate], err)
		}
		txns[i] = t.WithCategory(strings.TrimSpace(rec[colCategory])).
			WithContributor(strings.TrimSpace(rec[colContributor])).
			WithDuplicate(dup)
	}
	return txns, nil
}

// SplitByMonth groups txns by "YYYY-MM", keeping their order.
func SplitByMonth(txns []model.Transaction) map[string][]model.Transaction {
	out := make(map[string][]model.Transaction)
	for _, t := range txns {
		k := report.MonthKey(t.Date)
		out[k] = append(out[k], t)
	}
	return out
}

func sortedKeys(m map[string][]model.Transaction) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
