package report

import (
	"fmt"
	"time"

	"github.com/cleared-dev/splitbook/internal/model"
)

// MonthKey returns the "YYYY-MM" bucket of t.
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}

// WeekKey returns the ISO 8601 "YYYY-Www" bucket of t.
func WeekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%04d-W%02d", year, week)
}

// MonthRange returns every month key from start to end inclusive.
func MonthRange(start, end time.Time) []string {
	cur := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, time.UTC)
	var out []string
	for !cur.After(last) {
		out = append(out, MonthKey(cur))
		cur = cur.AddDate(0, 1, 0)
	}
	return out
}

// WeekRange returns every ISO week key from start to end inclusive.
func WeekRange(start, end time.Time) []string {
	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	e := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	// Step Mondays so no week is skipped.
	cur := s.AddDate(0, 0, -((int(s.Weekday()) + 6) % 7))
	var out []string
	for !cur.After(e) {
		out = append(out, WeekKey(cur))
		cur = cur.AddDate(0, 0, 7)
	}
	return out
}

// DateRange returns the earliest and latest transaction dates.
// ok is false when txns is empty.
func DateRange(txns []model.Transaction) (start, end time.Time, ok bool) {
	for i, t := range txns {
		if i == 0 || t.Date.Before(start) {
			start = t.Date
		}
		if i == 0 || t.Date.After(end) {
			end = t.Date
		}
	}
	return start, end, len(txns) > 0
}

// Months returns the month keys spanned by txns.
func Months(txns []model.Transaction) []string {
	start, end, ok := DateRange(txns)
	if !ok {
		return nil
	}
	return MonthRange(start, end)
}

// Weeks returns the ISO week keys spanned by txns.
func Weeks(txns []model.Transaction) []string {
	start, end, ok := DateRange(txns)
	if !ok {
		return nil
	}
	return WeekRange(start, end)
}
