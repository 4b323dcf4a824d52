package services

import (
	"context"

	"github.com/SscSPs/fx_rates_app/internal/dto"
)

// ExchangeRateReaderSvc defines the read operations over FX rates.
type ExchangeRateReaderSvc interface {
	// LatestRates retrieves the most recently published rate table for a base
	// currency.
	LatestRates(ctx context.Context, req dto.LatestRatesRequest) (*dto.LatestRatesResponse, error)

	// Convert converts an amount between two currencies as of a given date.
	Convert(ctx context.Context, req dto.ConvertRequest) (*dto.ConvertResponse, error)

	// ListRates retrieves a paginated, sorted rate history over a date range.
	ListRates(ctx context.Context, req dto.ListRatesRequest) (*dto.ListRatesResponse, error)
}

// ExchangeRateSvcFacade combines all exchange rate service interfaces.
type ExchangeRateSvcFacade interface {
	ExchangeRateReaderSvc
}
