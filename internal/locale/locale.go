// Package locale converts the bank statement's textual fields into values.
//
// Amounts use "." as thousands separator and "," as decimal separator
// ("1.234,56"). Booking dates are "YYYY/M/D" with unpadded month and day.
package locale

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// FormatError reports a malformed scalar field.
type FormatError struct {
	Field  string // "amount" or "date"
	Value  string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// ParseDecimal parses a European-notation amount.
func ParseDecimal(text string) (decimal.Decimal, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return decimal.Decimal{}, &FormatError{Field: "amount", Value: text, Reason: "empty"}
	}
	s = strings.ReplaceAll(s, ".", "")
	s = strings.Replace(s, ",", ".", 1)

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, &FormatError{Field: "amount", Value: text, Reason: "not a number"}
	}
	return d, nil
}

// FormatDecimal renders d in the statement's notation with two decimals and
// no thousands separator. ParseDecimal(FormatDecimal(d)) == d for values with
// at most two decimals.
func FormatDecimal(d decimal.Decimal) string {
	return strings.Replace(d.StringFixed(2), ".", ",", 1)
}

// ParseStatementDate parses a "YYYY/M/D" booking date into midnight UTC.
func ParseStatementDate(text string) (time.Time, error) {
	parts := strings.Split(strings.TrimSpace(text), "/")
	if len(parts) != 3 {
		return time.Time{}, &FormatError{Field: "date", Value: text, Reason: "expected YYYY/M/D"}
	}

	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return time.Time{}, &FormatError{Field: "date", Value: text, Reason: fmt.Sprintf("component %q is not a number", p)}
		}
		nums[i] = n
	}

	year, month, day := nums[0], nums[1], nums[2]
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, &FormatError{Field: "date", Value: text, Reason: "no such calendar date"}
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes 2024/2/30 to March 1st.
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return time.Time{}, &FormatError{Field: "date", Value: text, Reason: "no such calendar date"}
	}
	return t, nil
}

// FormatStatementDate renders t as "YYYY/M/D".
func FormatStatementDate(t time.Time) string {
	return fmt.Sprintf("%d/%d/%d", t.Year(), int(t.Month()), t.Day())
}
