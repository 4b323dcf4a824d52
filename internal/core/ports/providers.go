package ports

import (
	"context"

	"github.com/SscSPs/fx_rates_app/internal/core/domain"
)

// RateProvider is implemented by upstream FX rate backends. Each method
// returns found=false with a nil error when the upstream explicitly has no
// data for the query; errors are reserved for validation, transport and
// upstream faults.
type RateProvider interface {
	// LatestRates returns the most recently published rate table for base.
	LatestRates(ctx context.Context, base string) (*domain.RateSnapshot, bool, error)

	// RateOn returns the rate table for base on the given date, restricted to
	// the single target symbol.
	RateOn(ctx context.Context, date domain.Date, base, symbol string) (*domain.RateSnapshot, bool, error)

	// RatesBetween returns the per-day rate tables for base over [from, to].
	RatesBetween(ctx context.Context, base string, from, to domain.Date) (*domain.RateHistory, bool, error)
}
