package categorize

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/cleared-dev/splitbook/internal/model"
)

// DefaultPatternLimit is how many keywords ExtractTitlePatterns returns by default.
const DefaultPatternLimit = 30

const (
	minTokenLen      = 3
	minPatternCount  = 2
	maxPatternSample = 3
)

// stopWords never become keywords: articles and prepositions, company
// suffixes, city names, month abbreviations and statement boilerplate.
var stopWords = map[string]bool{
	"the": true, "and": true, "for": true, "with": true, "from": true, "via": true,
	"och": true, "med": true, "ja": true,
	"oyj": true, "ltd": true, "inc": true, "llc": true, "gmbh": true, "abp": true, "ky": true, "tmi": true, "plc": true,
	"helsinki": true, "espoo": true, "vantaa": true, "tampere": true, "turku": true, "oulu": true,
	"stockholm": true, "tallinn": true, "london": true, "berlin": true,
	"jan": true, "feb": true, "mar": true, "apr": true, "may": true, "jun": true,
	"jul": true, "aug": true, "sep": true, "oct": true, "nov": true, "dec": true,
	"card": true, "payment": true, "purchase": true, "transfer": true, "invoice": true,
	"reference": true, "www": true, "com": true, "net": true,
}

// Tokenize splits title on anything that is not a Latin letter or a digit
// and returns the lower-cased tokens that can serve as keywords.
func Tokenize(title string) []string {
	fields := strings.FieldsFunc(cases.Lower(language.Und).String(title), func(r rune) bool {
		return !(unicode.Is(unicode.Latin, r) || unicode.IsDigit(r))
	})
	var out []string
	for _, f := range fields {
		if utf8.RuneCountInString(f) < minTokenLen || stopWords[f] || isNumeric(f) {
			continue
		}
		out = append(out, f)
	}
	return out
}

func isNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// ExtractTitlePatterns mines keywords shared by at least two uncategorized
// expenses. Each keyword counts once per transaction. Results are ordered by
// total absolute amount, largest first, with first-seen order on ties, and
// carry up to three distinct example titles. limit <= 0 uses DefaultPatternLimit.
func ExtractTitlePatterns(txns []model.Transaction, limit int) []model.TitlePattern {
	if limit <= 0 {
		limit = DefaultPatternLimit
	}

	index := make(map[string]int)
	var all []model.TitlePattern
	for _, t := range txns {
		if !t.IsExpense() || t.HasCategory() {
			continue
		}
		title := strings.TrimSpace(t.Title)
		seen := make(map[string]bool)
		for _, tok := range Tokenize(title) {
			if seen[tok] {
				continue
			}
			seen[tok] = true

			i, ok := index[tok]
			if !ok {
				i = len(all)
				index[tok] = i
				all = append(all, model.TitlePattern{Keyword: tok, Total: decimal.Zero})
			}
			p := &all[i]
			p.Total = p.Total.Add(t.Amount.Abs())
			p.Count++
			if len(p.Examples) < maxPatternSample && !contains(p.Examples, title) {
				p.Examples = append(p.Examples, title)
			}
		}
	}

	var out []model.TitlePattern
	for _, p := range all {
		if p.Count >= minPatternCount {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Total.GreaterThan(out[b].Total)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
