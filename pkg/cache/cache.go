// Package cache provides a single-value TTL cache. It replaces the pattern
// of a bare value-plus-timestamp pair guarded by nothing: lifetime and
// locking are explicit so the cache stays correct when handlers run on
// multiple goroutines.
package cache

import (
	"sync"
	"time"
)

// Cache holds one value with a timestamp and serves it until the TTL
// elapses or Invalidate is called.
type Cache[T any] struct {
	mu     sync.Mutex
	value  T
	stored time.Time
	filled bool
	ttl    time.Duration
	now    func() time.Time
}

// New returns a cache with the given TTL. A non-positive TTL disables
// caching entirely: Get never reports a hit.
func New[T any](ttl time.Duration) *Cache[T] {
	return NewWithClock[T](ttl, time.Now)
}

// NewWithClock returns a cache using the supplied clock, for tests that need
// to control TTL expiry.
func NewWithClock[T any](ttl time.Duration, now func() time.Time) *Cache[T] {
	return &Cache[T]{ttl: ttl, now: now}
}

// Get returns the cached value and whether it is still fresh.
func (c *Cache[T]) Get() (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.filled || c.ttl <= 0 || c.now().Sub(c.stored) >= c.ttl {
		var zero T
		return zero, false
	}
	return c.value, true
}

// Set stores a value and restarts the TTL window.
func (c *Cache[T]) Set(value T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.value = value
	c.stored = c.now()
	c.filled = true
}

// Invalidate discards the cached value so the next Get misses regardless of
// the TTL.
func (c *Cache[T]) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	c.value = zero
	c.filled = false
}
