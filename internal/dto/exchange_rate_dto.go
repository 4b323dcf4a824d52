package dto

import (
	"github.com/SscSPs/fx_rates_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LatestRatesRequest asks for the most recently published rate table.
type LatestRatesRequest struct {
	CurrencyCode string `form:"currency_code" binding:"required,fxcurrency"`
}

// LatestRatesResponse is the upstream's single-date table, returned unchanged.
type LatestRatesResponse struct {
	Base  string                     `json:"base"`
	Date  domain.Date                `json:"date"`
	Rates map[string]decimal.Decimal `json:"rates"`
}

// ConvertRequest asks for an amount conversion between two currencies as of a
// given date. Date and Amount arrive as strings and are parsed by the
// service so a malformed value surfaces as a validation failure, not a
// binding panic.
type ConvertRequest struct {
	FromCurrencyCode string `form:"from_currency_code" binding:"required,fxcurrency"`
	ToCurrencyCode   string `form:"to_currency_code" binding:"required,fxcurrency"`
	Date             string `form:"date" binding:"required"`
	Amount           string `form:"amount" binding:"required"`
}

// ConvertResponse carries the query inputs plus the computed result.
type ConvertResponse struct {
	FromCurrencyCode string          `json:"fromCurrencyCode"`
	ToCurrencyCode   string          `json:"toCurrencyCode"`
	Date             domain.Date     `json:"date"`
	Amount           decimal.Decimal `json:"amount"`
	Result           decimal.Decimal `json:"result"`
}

// ListRatesRequest asks for a paginated rate history over a date range.
// PageNumber and PageSize default to 1 and 10 when unset.
type ListRatesRequest struct {
	CurrencyCode string `form:"currency_code" binding:"required,fxcurrency"`
	From         string `form:"from" binding:"required"`
	To           string `form:"to" binding:"required"`
	PageNumber   int    `form:"page_number" binding:"omitempty,min=1"`
	PageSize     int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// HistoricRate is one flattened (date, currency, rate) row.
type HistoricRate struct {
	Date         domain.Date     `json:"date"`
	CurrencyCode string          `json:"currencyCode"`
	Rate         decimal.Decimal `json:"rate"`
}

// ListRatesResponse is one page of flattened history rows together with the
// originally requested range and the resolved pagination.
type ListRatesResponse struct {
	StartDate  domain.Date    `json:"startDate"`
	EndDate    domain.Date    `json:"endDate"`
	Base       string         `json:"base"`
	PageNumber int            `json:"pageNumber"`
	PageSize   int            `json:"pageSize"`
	Rates      []HistoricRate `json:"rates"`
}
