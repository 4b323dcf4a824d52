// Package frankfurter adapts the Frankfurter HTTP API to the RateProvider
// port. Outbound calls run through a retry policy and a shared circuit
// breaker; results are memoized per provider in a publish-cutoff-aware cache.
package frankfurter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/SscSPs/fx_rates_app/internal/apperrors"
	"github.com/SscSPs/fx_rates_app/internal/core/domain"
	"github.com/cenkalti/backoff/v4"
	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker/v2"
)

// ClientConfig holds the upstream endpoint and resilience tuning for one
// Frankfurter client.
type ClientConfig struct {
	// BaseURL is the upstream root, e.g. "https://api.frankfurter.dev".
	BaseURL string
	// HTTPTimeout bounds each individual attempt.
	HTTPTimeout time.Duration
	// MaxRetries is the number of retries after the initial attempt. Only
	// timeout-classified faults are retried.
	MaxRetries uint64
	// RetryInitialInterval seeds the exponential backoff between retries.
	RetryInitialInterval time.Duration
	// BreakerMinRequests is the minimum sample throughput before the breaker
	// may trip.
	BreakerMinRequests uint32
	// BreakerFailureRatio is the timeout-fault ratio at which the breaker
	// opens once the minimum throughput is met.
	BreakerFailureRatio float64
	// BreakDuration is how long the breaker stays open before probing.
	BreakDuration time.Duration
}

// Client performs resilient HTTP calls against the Frankfurter API and parses
// the payloads into domain snapshots. The circuit breaker is shared by all
// calls through this client.
type Client struct {
	httpClient    *http.Client
	baseURL       *url.URL
	breaker       *gobreaker.CircuitBreaker[*fetchResult]
	maxRetries    uint64
	retryInterval time.Duration
	logger        *slog.Logger
}

// fetchResult is the outcome of one upstream call: either a payload or an
// explicit "no data" answer.
type fetchResult struct {
	body  []byte
	found bool
}

// NewClient builds a Client with its own circuit breaker.
func NewClient(cfg ClientConfig, logger *slog.Logger) (*Client, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid frankfurter base URL %q: %w", cfg.BaseURL, err)
	}

	settings := gobreaker.Settings{
		Name:    "frankfurter",
		Timeout: cfg.BreakDuration,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.Requests >= cfg.BreakerMinRequests &&
				float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.BreakerFailureRatio
		},
		// Only timeout-class faults count toward the breaker. Absence and
		// unexpected upstream statuses are answers, not signs of an
		// unreachable upstream.
		IsSuccessful: func(err error) bool {
			return err == nil || !isTimeout(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	}

	return &Client{
		httpClient:    &http.Client{Timeout: cfg.HTTPTimeout},
		baseURL:       base,
		breaker:       gobreaker.NewCircuitBreaker[*fetchResult](settings),
		maxRetries:    cfg.MaxRetries,
		retryInterval: cfg.RetryInitialInterval,
		logger:        logger,
	}, nil
}

// LatestRates fetches the most recently published rate table for base.
func (c *Client) LatestRates(ctx context.Context, base string) (*domain.RateSnapshot, bool, error) {
	query := url.Values{}
	query.Set("base", base)
	body, found, err := c.get(ctx, []string{"v1", "latest"}, query)
	if err != nil || !found {
		return nil, false, err
	}
	return c.parseSnapshot(body)
}

// RateOn fetches the rate table for base on date, restricted to symbol.
func (c *Client) RateOn(ctx context.Context, date domain.Date, base, symbol string) (*domain.RateSnapshot, bool, error) {
	query := url.Values{}
	query.Set("base", base)
	query.Set("symbols", symbol)
	body, found, err := c.get(ctx, []string{"v1", date.String()}, query)
	if err != nil || !found {
		return nil, false, err
	}
	return c.parseSnapshot(body)
}

// RatesBetween fetches the per-day rate tables for base over [from, to].
func (c *Client) RatesBetween(ctx context.Context, base string, from, to domain.Date) (*domain.RateHistory, bool, error) {
	query := url.Values{}
	query.Set("base", base)
	body, found, err := c.get(ctx, []string{"v1", from.String() + ".." + to.String()}, query)
	if err != nil || !found {
		return nil, false, err
	}
	return c.parseHistory(body)
}

// get performs one logical query: retry loop around the shared breaker around
// a single HTTP attempt. found=false with a nil error is the upstream's
// explicit "no data" answer.
func (c *Client) get(ctx context.Context, pathSegments []string, query url.Values) ([]byte, bool, error) {
	u := c.baseURL.JoinPath(pathSegments...)
	u.RawQuery = query.Encode()
	target := u.String()

	attempt := func() (*fetchResult, error) {
		res, err := c.breaker.Execute(func() (*fetchResult, error) {
			return c.doRequest(ctx, target)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				return nil, backoff.Permanent(fmt.Errorf("%w: %w", apperrors.ErrCircuitOpen, err))
			}
			if isTimeout(err) {
				// Retryable; the backoff policy decides whether to go again.
				return nil, err
			}
			return nil, backoff.Permanent(err)
		}
		return res, nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(
			backoff.WithInitialInterval(c.retryInterval),
		), c.maxRetries),
		ctx,
	)

	res, err := backoff.RetryWithData(attempt, policy)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrCircuitOpen), errors.Is(err, apperrors.ErrUpstream):
			return nil, false, err
		case errors.Is(err, context.Canceled):
			// Caller gave up; not an upstream verdict.
			return nil, false, err
		case isTimeout(err):
			return nil, false, fmt.Errorf("%w: retries exhausted: %w", apperrors.ErrUnavailable, err)
		default:
			return nil, false, fmt.Errorf("%w: %w", apperrors.ErrUpstream, err)
		}
	}
	return res.body, res.found, nil
}

// doRequest is a single HTTP attempt with the upstream's status contract
// applied: 404/422 mean "no data", any other non-200 status is fatal.
func (c *Client) doRequest(ctx context.Context, target string) (*fetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: building request: %w", apperrors.ErrUpstream, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close() //nolint:errcheck

	switch resp.StatusCode {
	case http.StatusNotFound, http.StatusUnprocessableEntity:
		c.logger.Debug("Upstream reported no data", slog.String("url", target), slog.Int("status", resp.StatusCode))
		return &fetchResult{found: false}, nil
	case http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("%w: reading response body: %w", apperrors.ErrUpstream, err)
		}
		return &fetchResult{body: body, found: true}, nil
	default:
		return nil, fmt.Errorf("%w: unexpected status %d", apperrors.ErrUpstream, resp.StatusCode)
	}
}

// snapshotPayload mirrors the single-date wire format, e.g.
// {"base":"EUR","date":"2025-02-14","rates":{"USD":1.0478}}.
type snapshotPayload struct {
	Base  string                     `json:"base"`
	Date  domain.Date                `json:"date"`
	Rates map[string]decimal.Decimal `json:"rates"`
}

// historyPayload mirrors the ranged wire format; rates are keyed by date.
type historyPayload struct {
	Base      string                                     `json:"base"`
	StartDate domain.Date                                `json:"start_date"`
	EndDate   domain.Date                                `json:"end_date"`
	Rates     map[domain.Date]map[string]decimal.Decimal `json:"rates"`
}

func (c *Client) parseSnapshot(body []byte) (*domain.RateSnapshot, bool, error) {
	var payload snapshotPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, false, fmt.Errorf("%w: decoding rate table: %w", apperrors.ErrUpstream, err)
	}
	return &domain.RateSnapshot{
		Base:  payload.Base,
		Date:  payload.Date,
		Rates: payload.Rates,
	}, true, nil
}

func (c *Client) parseHistory(body []byte) (*domain.RateHistory, bool, error) {
	var payload historyPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, false, fmt.Errorf("%w: decoding rate history: %w", apperrors.ErrUpstream, err)
	}
	return &domain.RateHistory{
		Base:  payload.Base,
		Start: payload.StartDate,
		End:   payload.EndDate,
		Rates: payload.Rates,
	}, true, nil
}

// isTimeout classifies a transport error as a timeout fault. Caller
// cancellation is deliberately excluded: it aborts the retry loop via the
// context but is not evidence of an unhealthy upstream.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
