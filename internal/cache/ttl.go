// Package cache holds the process-wide, time-bounded caches shared across requests.
package cache

import (
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

type entry[V any] struct {
	storedAt time.Time
	value    V
}

// TTL maps keys to values that expire after a fixed age. Concurrent misses on the same key
// share one loader call. Expired entries are swept on write, at most once per ttl, so callers
// should use one ttl per cache.
type TTL[V any] struct {
	mu        sync.RWMutex
	entries   map[string]entry[V]
	lastSweep time.Time
	flight    singleflight.Group
	now       func() time.Time
}

func NewTTL[V any]() *TTL[V] {
	return &TTL[V]{
		entries: make(map[string]entry[V]),
		now:     time.Now,
	}
}

// GetOrFetch returns the cached value for key when it is younger than ttl, otherwise runs
// loader once for all concurrent callers of key. Loader errors are returned and not cached.
func (c *TTL[V]) GetOrFetch(key string, ttl time.Duration, loader func() (V, error)) (V, error) {
	if v, ok := c.lookup(key, ttl); ok {
		return v, nil
	}

	res, err, _ := c.flight.Do(key, func() (any, error) {
		// a flight that finished between our lookup and Do has already stored the value
		if v, ok := c.lookup(key, ttl); ok {
			return v, nil
		}
		v, err := loader()
		if err != nil {
			return v, err
		}
		c.store(key, v, ttl)
		return v, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return res.(V), nil
}

func (c *TTL[V]) store(key string, v V, ttl time.Duration) {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()

	if now.Sub(c.lastSweep) >= ttl {
		for k, e := range c.entries {
			if now.Sub(e.storedAt) >= ttl {
				delete(c.entries, k)
			}
		}
		c.lastSweep = now
	}
	c.entries[key] = entry[V]{storedAt: now, value: v}
}

func (c *TTL[V]) lookup(key string, ttl time.Duration) (V, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || c.now().Sub(e.storedAt) >= ttl {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Len reports the number of stored entries, including expired ones not yet swept.
func (c *TTL[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
