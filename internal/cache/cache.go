package cache

import (
	"sync"
	"time"
)

// entry pairs a cached value with the time it was stored.
type entry struct {
	value    any
	storedAt time.Time
}

// TimedCache is a concurrency-safe in-memory key/value store with a single
// global time-to-live. Entries are never evicted on read; stale entries are
// simply reported as not fresh until they are overwritten or swept.
type TimedCache struct {
	mu   sync.RWMutex
	data map[string]entry
	ttl  time.Duration
}

// New creates a TimedCache. If ttl is <= 0 entries never go stale.
func New(ttl time.Duration) *TimedCache {
	return &TimedCache{
		data: make(map[string]entry),
		ttl:  ttl,
	}
}

// Get returns the value stored under key, regardless of freshness.
func (c *TimedCache) Get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ent, ok := c.data[key]
	if !ok {
		return nil, false
	}
	return ent.value, true
}

// Put stores value under key, overwriting any previous entry and resetting
// its freshness clock.
func (c *TimedCache) Put(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data[key] = entry{value: value, storedAt: time.Now()}
}

// IsFresh reports whether key holds a value younger than the TTL.
// Absent keys are never fresh.
func (c *TimedCache) IsFresh(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ent, ok := c.data[key]
	if !ok {
		return false
	}
	if c.ttl <= 0 {
		return true
	}
	return time.Since(ent.storedAt) < c.ttl
}

// GetFresh combines the freshness check and the read under one lock so that
// concurrent callers cannot observe an entry between staleness and overwrite.
func (c *TimedCache) GetFresh(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ent, ok := c.data[key]
	if !ok {
		return nil, false
	}
	if c.ttl > 0 && time.Since(ent.storedAt) >= c.ttl {
		return nil, false
	}
	return ent.value, true
}

// SweepStale removes every entry older than the TTL and returns how many
// were dropped. Keeps long-lived processes from accumulating dead entries.
func (c *TimedCache) SweepStale() int {
	if c.ttl <= 0 {
		return 0
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	cutoff := time.Now().Add(-c.ttl)
	removed := 0
	for key, ent := range c.data {
		if ent.storedAt.Before(cutoff) || ent.storedAt.Equal(cutoff) {
			delete(c.data, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of entries currently held, fresh or stale.
func (c *TimedCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}
