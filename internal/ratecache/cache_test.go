package ratecache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/fx_rates_app/internal/ratecache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cutoffHour = 15

// fakeClock lets tests move time forward between calls.
type fakeClock struct {
	current time.Time
}

func (f *fakeClock) Now() time.Time { return f.current }

func (f *fakeClock) Set(t time.Time) { f.current = t }

func newCache(t *testing.T, start time.Time) (*ratecache.Cache[string], *fakeClock) {
	t.Helper()
	clock := &fakeClock{current: start}
	return ratecache.NewWithClock[string](cutoffHour, clock.Now), clock
}

func countingCompute(value string, found bool) (func(context.Context) (string, bool, error), *int) {
	calls := 0
	return func(context.Context) (string, bool, error) {
		calls++
		return value, found, nil
	}, &calls
}

func TestGetOrCompute_HitWithinWindow(t *testing.T) {
	cache, _ := newCache(t, time.Date(2025, 2, 14, 10, 0, 0, 0, time.UTC))
	compute, calls := countingCompute("EUR-table", true)

	ctx := context.Background()
	v, found, err := cache.GetOrCompute(ctx, "EUR", compute)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "EUR-table", v)

	v, found, err = cache.GetOrCompute(ctx, "EUR", compute)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "EUR-table", v)
	assert.Equal(t, 1, *calls, "second call within the window must not recompute")
}

func TestGetOrCompute_EntryBeforeCutoffExpiresAtCutoff(t *testing.T) {
	cache, clock := newCache(t, time.Date(2025, 2, 14, 14, 59, 59, 0, time.UTC))
	compute, calls := countingCompute("v", true)

	ctx := context.Background()
	_, _, err := cache.GetOrCompute(ctx, "k", compute)
	require.NoError(t, err)

	// One second later the daily publish happens and the entry is stale.
	clock.Set(time.Date(2025, 2, 14, 15, 0, 0, 0, time.UTC))
	_, _, err = cache.GetOrCompute(ctx, "k", compute)
	require.NoError(t, err)
	assert.Equal(t, 2, *calls)
}

func TestGetOrCompute_EntryAfterCutoffExpiresNextDay(t *testing.T) {
	cache, clock := newCache(t, time.Date(2025, 2, 14, 15, 0, 1, 0, time.UTC))
	compute, calls := countingCompute("v", true)

	ctx := context.Background()
	_, _, err := cache.GetOrCompute(ctx, "k", compute)
	require.NoError(t, err)

	// Still valid just before the next day's cutoff.
	clock.Set(time.Date(2025, 2, 15, 14, 59, 59, 0, time.UTC))
	_, _, err = cache.GetOrCompute(ctx, "k", compute)
	require.NoError(t, err)
	assert.Equal(t, 1, *calls)

	// Expired at the next day's cutoff.
	clock.Set(time.Date(2025, 2, 15, 15, 0, 0, 0, time.UTC))
	_, _, err = cache.GetOrCompute(ctx, "k", compute)
	require.NoError(t, err)
	assert.Equal(t, 2, *calls)
}

func TestGetOrCompute_AbsenceIsCached(t *testing.T) {
	cache, _ := newCache(t, time.Date(2025, 2, 14, 10, 0, 0, 0, time.UTC))
	compute, calls := countingCompute("", false)

	ctx := context.Background()
	_, found, err := cache.GetOrCompute(ctx, "XXX", compute)
	require.NoError(t, err)
	assert.False(t, found)

	_, found, err = cache.GetOrCompute(ctx, "XXX", compute)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, 1, *calls, "absence must be served from cache")
}

func TestGetOrCompute_ErrorIsNotCached(t *testing.T) {
	cache, _ := newCache(t, time.Date(2025, 2, 14, 10, 0, 0, 0, time.UTC))
	calls := 0
	compute := func(context.Context) (string, bool, error) {
		calls++
		return "", false, errors.New("boom")
	}

	ctx := context.Background()
	_, _, err := cache.GetOrCompute(ctx, "k", compute)
	require.Error(t, err)
	assert.Equal(t, 0, cache.Len())

	_, _, err = cache.GetOrCompute(ctx, "k", compute)
	require.Error(t, err)
	assert.Equal(t, 2, calls, "failed computations must be retried on the next lookup")
}

func TestGetOrCompute_KeysAreIndependent(t *testing.T) {
	cache, _ := newCache(t, time.Date(2025, 2, 14, 10, 0, 0, 0, time.UTC))
	computeA, callsA := countingCompute("a", true)
	computeB, callsB := countingCompute("b", true)

	ctx := context.Background()
	va, _, err := cache.GetOrCompute(ctx, "A", computeA)
	require.NoError(t, err)
	vb, _, err := cache.GetOrCompute(ctx, "B", computeB)
	require.NoError(t, err)

	assert.Equal(t, "a", va)
	assert.Equal(t, "b", vb)
	assert.Equal(t, 1, *callsA)
	assert.Equal(t, 1, *callsB)
	assert.Equal(t, 2, cache.Len())
}
