package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/SscSPs/fx_rates_app/internal/apperrors"
	"github.com/SscSPs/fx_rates_app/internal/core/domain"
	"github.com/SscSPs/fx_rates_app/internal/core/ports"
	"github.com/SscSPs/fx_rates_app/internal/dto"
	"github.com/shopspring/decimal"
)

// restrictedCurrencyCodes are rejected on every currency field of every
// operation, before any cache or network activity.
var restrictedCurrencyCodes = map[string]struct{}{
	"TRY": {},
	"PLN": {},
	"THB": {},
	"MXN": {},
}

// ExchangeRateService provides the read operations over FX rates: it
// validates requests, queries the active provider and shapes the results.
type ExchangeRateService struct {
	provider ports.RateProvider
}

// NewExchangeRateService resolves the active provider from the registry. An
// unknown provider identifier is a configuration error surfaced at startup.
func NewExchangeRateService(registry *ProviderRegistry, providerID string) (*ExchangeRateService, error) {
	provider, err := registry.Resolve(providerID)
	if err != nil {
		return nil, err
	}
	return &ExchangeRateService{provider: provider}, nil
}

// LatestRates returns the most recently published rate table for the
// requested base currency, unchanged.
func (s *ExchangeRateService) LatestRates(ctx context.Context, req dto.LatestRatesRequest) (*dto.LatestRatesResponse, error) {
	base, err := normalizeCurrencyCode(req.CurrencyCode)
	if err != nil {
		return nil, err
	}

	snapshot, found, err := s.provider.LatestRates(ctx, base)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: no rate table for base %s", apperrors.ErrNotFound, base)
	}

	return &dto.LatestRatesResponse{
		Base:  snapshot.Base,
		Date:  snapshot.Date,
		Rates: snapshot.Rates,
	}, nil
}

// Convert computes amount * rate for the requested pair and date using exact
// decimal arithmetic. A pair the upstream has no rate for resolves to
// ErrNotFound, never a fault.
func (s *ExchangeRateService) Convert(ctx context.Context, req dto.ConvertRequest) (*dto.ConvertResponse, error) {
	from, err := normalizeCurrencyCode(req.FromCurrencyCode)
	if err != nil {
		return nil, err
	}
	to, err := normalizeCurrencyCode(req.ToCurrencyCode)
	if err != nil {
		return nil, err
	}
	date, err := parseRequestDate(req.Date)
	if err != nil {
		return nil, err
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid amount %q", apperrors.ErrValidation, req.Amount)
	}

	snapshot, found, err := s.provider.RateOn(ctx, date, from, to)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: no rates for base %s on %s", apperrors.ErrNotFound, from, date)
	}
	rate, ok := snapshot.Rates[to]
	if !ok {
		return nil, fmt.Errorf("%w: no %s->%s rate on %s", apperrors.ErrNotFound, from, to, date)
	}

	return &dto.ConvertResponse{
		FromCurrencyCode: from,
		ToCurrencyCode:   to,
		Date:             date,
		Amount:           amount,
		Result:           amount.Mul(rate),
	}, nil
}

// ListRates returns one page of the flattened, sorted rate history for the
// requested base currency and date range.
func (s *ExchangeRateService) ListRates(ctx context.Context, req dto.ListRatesRequest) (*dto.ListRatesResponse, error) {
	base, err := normalizeCurrencyCode(req.CurrencyCode)
	if err != nil {
		return nil, err
	}
	from, err := parseRequestDate(req.From)
	if err != nil {
		return nil, err
	}
	to, err := parseRequestDate(req.To)
	if err != nil {
		return nil, err
	}

	history, found, err := s.provider.RatesBetween(ctx, base, from, to)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: no rates for base %s between %s and %s", apperrors.ErrNotFound, base, from, to)
	}

	return shapeHistoryPage(history, from, to, base, req.PageNumber, req.PageSize), nil
}

// normalizeCurrencyCode uppercases a currency code and enforces the static
// exclusion set and basic shape.
func normalizeCurrencyCode(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return "", fmt.Errorf("%w: currency code is required", apperrors.ErrValidation)
	}
	if len(code) != 3 || !isAlpha(code) {
		return "", fmt.Errorf("%w: currency code %q must be 3 letters", apperrors.ErrValidation, code)
	}
	if _, restricted := restrictedCurrencyCodes[code]; restricted {
		return "", fmt.Errorf("%w: currency code %s is not allowed", apperrors.ErrValidation, code)
	}
	return code, nil
}

func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

func parseRequestDate(s string) (domain.Date, error) {
	date, err := domain.ParseDate(s)
	if err != nil {
		return domain.Date{}, fmt.Errorf("%w: %s", apperrors.ErrValidation, err)
	}
	return date, nil
}
