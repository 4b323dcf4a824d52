package domain

import "github.com/shopspring/decimal"

// RateSnapshot is the rate table published by the upstream for a single day,
// expressed relative to Base. Rates are exact decimals as received on the wire.
type RateSnapshot struct {
	Base  string
	Date  Date
	Rates map[string]decimal.Decimal
}

// RateHistory holds the per-day rate tables published over a date range.
type RateHistory struct {
	Base  string
	Start Date
	End   Date
	Rates map[Date]map[string]decimal.Decimal
}
