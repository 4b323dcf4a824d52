package frankfurter

import (
	"context"
	"fmt"
	"strings"

	"github.com/SscSPs/fx_rates_app/internal/core/domain"
	"github.com/SscSPs/fx_rates_app/internal/core/ports"
	"github.com/SscSPs/fx_rates_app/internal/ratecache"
)

// ProviderID is the identifier under which this provider registers.
const ProviderID = "frankfurter"

// Provider memoizes Client results by semantic query key. Single-date tables
// and ranged histories live in separate caches since they cache different
// shapes; both expire at the upstream's daily publish cutoff.
type Provider struct {
	client    *Client
	snapshots *ratecache.Cache[*domain.RateSnapshot]
	histories *ratecache.Cache[*domain.RateHistory]
}

// NewProvider wraps client with caches expiring at the given UTC cutoff hour.
func NewProvider(client *Client, cutoffHourUTC int) *Provider {
	return NewProviderWithClock(client, cutoffHourUTC, nil)
}

// NewProviderWithClock is NewProvider with an injectable cache clock.
func NewProviderWithClock(client *Client, cutoffHourUTC int, clock ratecache.Clock) *Provider {
	if clock == nil {
		return &Provider{
			client:    client,
			snapshots: ratecache.New[*domain.RateSnapshot](cutoffHourUTC),
			histories: ratecache.New[*domain.RateHistory](cutoffHourUTC),
		}
	}
	return &Provider{
		client:    client,
		snapshots: ratecache.NewWithClock[*domain.RateSnapshot](cutoffHourUTC, clock),
		histories: ratecache.NewWithClock[*domain.RateHistory](cutoffHourUTC, clock),
	}
}

// LatestRates returns the latest table for base, keyed by base alone.
func (p *Provider) LatestRates(ctx context.Context, base string) (*domain.RateSnapshot, bool, error) {
	base = strings.ToUpper(base)
	return p.snapshots.GetOrCompute(ctx, base, func(ctx context.Context) (*domain.RateSnapshot, bool, error) {
		return p.client.LatestRates(ctx, base)
	})
}

// RateOn returns the base→symbol table on date. The key carries the full
// semantic triple; the fetch itself is scoped to the pair upstream.
func (p *Provider) RateOn(ctx context.Context, date domain.Date, base, symbol string) (*domain.RateSnapshot, bool, error) {
	base = strings.ToUpper(base)
	symbol = strings.ToUpper(symbol)
	key := fmt.Sprintf("%s_%s_%s", date, base, symbol)
	return p.snapshots.GetOrCompute(ctx, key, func(ctx context.Context) (*domain.RateSnapshot, bool, error) {
		return p.client.RateOn(ctx, date, base, symbol)
	})
}

// RatesBetween returns the per-day tables for base over [from, to]. Page
// number and size never appear in the key: the cached unit is the full range
// and pagination happens after retrieval.
func (p *Provider) RatesBetween(ctx context.Context, base string, from, to domain.Date) (*domain.RateHistory, bool, error) {
	base = strings.ToUpper(base)
	key := fmt.Sprintf("%s_%s_%s", base, from, to)
	return p.histories.GetOrCompute(ctx, key, func(ctx context.Context) (*domain.RateHistory, bool, error) {
		return p.client.RatesBetween(ctx, base, from, to)
	})
}

var _ ports.RateProvider = (*Provider)(nil)
