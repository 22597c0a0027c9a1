package model

import "github.com/shopspring/decimal"

// OtherContributor labels income that matches no selected contributor.
const OtherContributor = "Other"

// Contributor is a payer ranked by total income.
type Contributor struct {
	Name  string
	Total decimal.Decimal
	Count int
}
