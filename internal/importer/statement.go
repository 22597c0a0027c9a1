package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/cleared-dev/splitbook/internal/id"
	"github.com/cleared-dev/splitbook/internal/locale"
	"github.com/cleared-dev/splitbook/internal/model"
)

// Statement column names, in export order.
const (
	ColBookingDate = "Booking date"
	ColAmount      = "Amount"
	ColSender      = "Sender"
	ColRecipient   = "Recipient"
	ColName        = "Name"
	ColTitle       = "Title"
	ColMessage     = "Message"
	ColReference   = "Reference number"
	ColBalance     = "Balance"
	ColCurrency    = "Currency"
)

// Columns lists the ten required statement columns in order.
var Columns = []string{
	ColBookingDate, ColAmount, ColSender, ColRecipient, ColName,
	ColTitle, ColMessage, ColReference, ColBalance, ColCurrency,
}

// Delimiter separates statement fields.
const Delimiter = ';'

// ParseError reports a file- or row-level ingestion failure.
type ParseError struct {
	Source string
	Row    int // 0-based data row index, -1 if not row specific
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Row >= 0 {
		return fmt.Sprintf("%s: row %d: %s", e.Source, e.Row, e.Reason)
	}
	return fmt.Sprintf("%s: %s", e.Source, e.Reason)
}

func (e *ParseError) Unwrap() error { return e.Err }

// StatementParser parses the fixed ten-column semicolon statement export.
type StatementParser struct{}

// Format returns the parser name.
func (p *StatementParser) Format() string { return "statement" }

// Parse reads a statement from r. source labels the resulting transactions.
func (p *StatementParser) Parse(r io.Reader, source string) ([]model.Transaction, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", source, err)
	}
	return Ingest(string(data), source)
}

// Record is one data row of a statement. Row is its 0-based index among
// the lines after the header, empty lines included.
type Record struct {
	Row    int
	Fields []string
}

// ReadRecords splits statement content into its header and data rows.
// encoding/csv skips empty lines, so their positions are recovered from
// the reader's offsets to keep row indexes line based. A quoted field
// spanning several lines still counts as one row.
func ReadRecords(content string) ([]string, []Record, error) {
	text := strings.TrimPrefix(content, "\ufeff")
	cr := csv.NewReader(strings.NewReader(text))
	cr.Comma = Delimiter
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, &ParseError{Row: -1, Reason: err.Error(), Err: err}
	}

	consumed := strings.Count(text[:cr.InputOffset()], "\n")
	var (
		rows []Record
		row  int
	)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return header, rows, nil
		}
		if err != nil {
			pe := &ParseError{Row: row, Reason: err.Error(), Err: err}
			var csvErr *csv.ParseError
			if errors.As(err, &csvErr) && csvErr.StartLine > consumed {
				pe.Row = row + csvErr.StartLine - consumed - 1
			}
			return header, rows, pe
		}

		line, _ := cr.FieldPos(0)
		row += line - consumed - 1
		rows = append(rows, Record{Row: row, Fields: rec})
		row++
		consumed = strings.Count(text[:cr.InputOffset()], "\n")
	}
}

// Ingest parses raw statement content. Rows with a blank booking date are
// skipped but still consume a row index, so IDs stay stable.
func Ingest(content, source string) ([]model.Transaction, error) {
	if strings.TrimSpace(strings.TrimPrefix(content, "\ufeff")) == "" {
		return nil, &ParseError{Source: source, Row: -1, Reason: "empty file"}
	}

	header, rows, err := ReadRecords(content)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Source = source
			return nil, pe
		}
		return nil, &ParseError{Source: source, Row: -1, Reason: err.Error(), Err: err}
	}
	if len(rows) == 0 {
		return nil, &ParseError{Source: source, Row: -1, Reason: "no data rows"}
	}

	cols, missing := indexColumns(header)
	if len(missing) > 0 {
		return nil, &ParseError{
			Source: source,
			Row:    -1,
			Reason: "missing required columns: " + strings.Join(missing, ", "),
		}
	}

	var txns []model.Transaction
	for _, rec := range rows {
		txn, skip, err := parseStatementRow(rec.Fields, cols)
		if err != nil {
			return nil, &ParseError{Source: source, Row: rec.Row, Reason: err.Error(), Err: err}
		}
		if skip {
			continue
		}
		txn.ID = id.FormatTransactionID(source, rec.Row)
		txn.Source = source
		txns = append(txns, txn)
	}
	return txns, nil
}

// indexColumns maps required column names to their header positions.
func indexColumns(header []string) (map[string]int, []string) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if _, dup := pos[name]; !dup {
			pos[name] = i
		}
	}

	cols := make(map[string]int, len(Columns))
	var missing []string
	for _, c := range Columns {
		i, ok := pos[c]
		if !ok {
			missing = append(missing, c)
			continue
		}
		cols[c] = i
	}
	return cols, missing
}

func parseStatementRow(rec []string, cols map[string]int) (model.Transaction, bool, error) {
	for _, c := range Columns {
		if cols[c] >= len(rec) {
			return model.Transaction{}, false, fmt.Errorf("missing column %q (row has %d fields)", c, len(rec))
		}
	}
	field := func(c string) string { return rec[cols[c]] }

	rawDate := strings.TrimSpace(field(ColBookingDate))
	if rawDate == "" {
		return model.Transaction{}, true, nil
	}

	date, err := locale.ParseStatementDate(rawDate)
	if err != nil {
		return model.Transaction{}, false, fmt.Errorf("parsing booking date: %w", err)
	}
	amount, err := locale.ParseDecimal(field(ColAmount))
	if err != nil {
		return model.Transaction{}, false, fmt.Errorf("parsing amount: %w", err)
	}

	return model.Transaction{
		Date:      date,
		Amount:    amount,
		Sender:    strings.TrimSpace(field(ColSender)),
		Recipient: strings.TrimSpace(field(ColRecipient)),
		Name:      strings.TrimSpace(field(ColName)),
		Title:     strings.TrimSpace(field(ColTitle)),
		Message:   strings.TrimSpace(field(ColMessage)),
		Reference: field(ColReference),
		Balance:   strings.TrimSpace(field(ColBalance)),
		Currency:  strings.TrimSpace(field(ColCurrency)),
	}, false, nil
}
