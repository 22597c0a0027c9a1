package model

import "github.com/shopspring/decimal"

// MatchType selects how a CategoryMapping pattern is compared to a title.
type MatchType string

const (
	MatchExact    MatchType = "exact"
	MatchContains MatchType = "contains"
)

// Valid reports whether m is a known match type.
func (m MatchType) Valid() bool {
	return m == MatchExact || m == MatchContains
}

// UncategorizedLabel is the synthetic bucket for expenses without a category.
const UncategorizedLabel = "Uncategorized"

// CategoryMapping assigns Category to expense titles matching Pattern.
type CategoryMapping struct {
	Pattern   string
	Category  string
	MatchType MatchType
}

// TitleSuggestion is one entry in the categorization review queue.
type TitleSuggestion struct {
	Title string
	Total decimal.Decimal // sum of absolute amounts
	Count int
}

// TitlePattern is a keyword shared by several uncategorized expense titles.
type TitlePattern struct {
	Keyword  string
	Total    decimal.Decimal
	Count    int
	Examples []string
}
