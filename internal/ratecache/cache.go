// Package ratecache memoizes upstream rate lookups by semantic key.
//
// The upstream publishes a new rate table once per day at a fixed UTC cutoff
// hour, so entries are not given a fixed TTL: an entry created before today's
// cutoff is valid until today's cutoff, and one created at or after it is
// valid until tomorrow's. An explicit "upstream has no data" outcome is
// cached the same way as a value; errors are never cached.
package ratecache

import (
	"context"
	"sync"
	"time"
)

// Clock returns the current time. Injectable for expiry tests.
type Clock func() time.Time

// Cache is a concurrency-safe in-memory memoizer with publish-cutoff expiry.
//
// The check-then-compute sequence is deliberately not atomic: two concurrent
// misses on the same key may both invoke compute, each result being stored in
// turn (last write wins on the expiration timestamp). Both callers observe
// the same upstream value, so the duplicate fetch is the only cost.
type Cache[V any] struct {
	mu            sync.RWMutex
	entries       map[string]entry[V]
	cutoffHourUTC int
	now           Clock
}

type entry[V any] struct {
	value     V
	found     bool
	expiresAt time.Time
}

// New returns a Cache whose entries expire at the given UTC cutoff hour.
func New[V any](cutoffHourUTC int) *Cache[V] {
	return NewWithClock[V](cutoffHourUTC, time.Now)
}

// NewWithClock is New with an injectable clock.
func NewWithClock[V any](cutoffHourUTC int, now Clock) *Cache[V] {
	return &Cache[V]{
		entries:       make(map[string]entry[V]),
		cutoffHourUTC: cutoffHourUTC,
		now:           now,
	}
}

// GetOrCompute returns the cached value (or cached absence) for key if it is
// still within its validity window. Otherwise it invokes compute, stores the
// outcome unless compute failed, and returns it. found=false with a nil error
// means the upstream reported no data for the key.
func (c *Cache[V]) GetOrCompute(ctx context.Context, key string, compute func(context.Context) (V, bool, error)) (V, bool, error) {
	now := c.now().UTC()

	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if ok && now.Before(e.expiresAt) {
		return e.value, e.found, nil
	}

	value, found, err := compute(ctx)
	if err != nil {
		var zero V
		return zero, false, err
	}

	c.mu.Lock()
	c.entries[key] = entry[V]{value: value, found: found, expiresAt: c.nextCutoff(now)}
	c.mu.Unlock()

	return value, found, nil
}

// Len returns the number of stored entries, expired or not.
func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// nextCutoff returns the first publish cutoff instant strictly after now.
func (c *Cache[V]) nextCutoff(now time.Time) time.Time {
	cutoff := time.Date(now.Year(), now.Month(), now.Day(), c.cutoffHourUTC, 0, 0, 0, time.UTC)
	if now.Before(cutoff) {
		return cutoff
	}
	return cutoff.Add(24 * time.Hour)
}
