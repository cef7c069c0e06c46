// Package cache provides the expiring key-value cache that fronts best-effort
// remote lookups such as weather.
package cache

import (
	"sync"
	"time"
)

// Entry pairs a cached value with the instant it was stored. Entries are
// replaced wholesale on refresh, never mutated in place.
type Entry[V any] struct {
	Value    V         `json:"value"`
	StoredAt time.Time `json:"stored_at"`
}

// TTLCache keeps one entry per key and considers it valid while
// now - storedAt < ttl. A stale entry is reported absent on Get but is left
// in place; the next Put overwrites it. There is no size bound, which is
// acceptable only for small bounded key spaces (one entry per searched
// location string).
type TTLCache[K comparable, V any] struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[K]Entry[V]
	now     func() time.Time
}

func New[K comparable, V any](ttl time.Duration) *TTLCache[K, V] {
	return &TTLCache[K, V]{
		ttl:     ttl,
		entries: make(map[K]Entry[V]),
		now:     time.Now,
	}
}

// Get returns the cached value for key while the entry is still fresh.
func (c *TTLCache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	if !ok || c.now().Sub(entry.StoredAt) >= c.ttl {
		var zero V
		return zero, false
	}
	return entry.Value, true
}

// Put stores value under key, unconditionally overwriting any prior entry.
func (c *TTLCache[K, V]) Put(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = Entry[V]{Value: value, StoredAt: c.now()}
}

// Snapshot copies out the current entries, stale ones included, for an
// external collaborator to persist. The cache itself never touches disk.
func (c *TTLCache[K, V]) Snapshot() map[K]Entry[V] {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[K]Entry[V], len(c.entries))
	for k, e := range c.entries {
		out[k] = e
	}
	return out
}

// Restore loads previously persisted entries. Staleness is re-evaluated on
// read, so restoring expired entries is harmless.
func (c *TTLCache[K, V]) Restore(entries map[K]Entry[V]) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, e := range entries {
		c.entries[k] = e
	}
}

// SetClock replaces the time source. Tests use this to step across the TTL
// boundary deterministically.
func (c *TTLCache[K, V]) SetClock(now func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}
