// Package contributors identifies and ranks the payers behind income.
package contributors

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

// Unlimited asks Rank for every contributor.
const Unlimited = 0

// ExtractName returns the first run of a-z letters in the lower-cased payer
// name, falling back to the title when the name is blank. It returns "" when
// neither contains a letter.
func ExtractName(t model.Transaction) string {
	src := strings.TrimSpace(t.Name)
	if src == "" {
		src = t.Title
	}
	src = cases.Lower(language.Und).String(src)

	start := strings.IndexFunc(src, isASCIILetter)
	if start < 0 {
		return ""
	}
	end := strings.IndexFunc(src[start:], func(r rune) bool { return !isASCIILetter(r) })
	if end < 0 {
		return src[start:]
	}
	return src[start : start+end]
}

func isASCIILetter(r rune) bool { return r >= 'a' && r <= 'z' }

// NormalizeName capitalizes the first character and lower-cases the rest.
func NormalizeName(name string) string {
	if name == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(name)
	return string(unicode.ToUpper(r)) + cases.Lower(language.Und).String(name[size:])
}

// Rank groups income by normalized payer name and returns the top limit
// contributors by total amount. Equal totals keep first-seen order. Income
// with no extractable name is left out. limit <= 0 returns all.
func Rank(txns []model.Transaction, limit int) []model.Contributor {
	index := make(map[string]int)
	var out []model.Contributor
	for _, t := range txns {
		if !t.IsIncome() {
			continue
		}
		name := NormalizeName(ExtractName(t))
		if name == "" {
			continue
		}
		i, ok := index[name]
		if !ok {
			i = len(out)
			index[name] = i
			out = append(out, model.Contributor{Name: name, Total: decimal.Zero})
		}
		out[i].Total = out[i].Total.Add(t.Amount)
		out[i].Count++
	}

	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Total.GreaterThan(out[b].Total)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Tag returns a copy of txns where every income transaction carries the
// matching selected contributor, or model.OtherContributor. Other
// transactions have their contributor cleared.
func Tag(txns []model.Transaction, selected []string) []model.Transaction {
	want := make(map[string]bool, len(selected))
	for _, s := range selected {
		want[strings.ToLower(strings.TrimSpace(s))] = true
	}

	out := make([]model.Transaction, len(txns))
	for i, t := range txns {
		if !t.IsIncome() {
			out[i] = t.WithContributor("")
			continue
		}
		name := ExtractName(t)
		if name != "" && want[name] {
			out[i] = t.WithContributor(NormalizeName(name))
			continue
		}
		out[i] = t.WithContributor(model.OtherContributor)
	}
	return out
}

// Tracked returns the normalized selection plus the Other bucket, which is
// the contributor list reports aggregate over.
func Tracked(selected []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, s := range selected {
		n := NormalizeName(strings.ToLower(strings.TrimSpace(s)))
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	if !seen[model.OtherContributor] {
		out = append(out, model.OtherContributor)
	}
	return out
}

// Names returns the names of ranked contributors.
func Names(ranked []model.Contributor) []string {
	out := make([]string, len(ranked))
	for i, c := range ranked {
		out[i] = c.Name
	}
	return out
}
