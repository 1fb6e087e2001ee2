package cache

import (
	"sync"
	"time"
)

type localEntry[V any] struct {
	value     V
	expiresAt time.Time // zero means no expiration
}

// LocalOptions controls construction of a Local cache.
type LocalOptions struct {
	// ConcurrencySafe guards every operation with a RWMutex.
	ConcurrencySafe bool
}

// Local is a map-backed in-process cache with optional per-entry TTL.
// Expired entries read as misses; there is no background janitor.
type Local[K comparable, V any] struct {
	mu    *sync.RWMutex // nil when not concurrency safe
	items map[K]localEntry[V]
}

// NewLocal constructs an empty Local cache.
func NewLocal[K comparable, V any](opts LocalOptions) *Local[K, V] {
	var mu *sync.RWMutex
	if opts.ConcurrencySafe {
		mu = &sync.RWMutex{}
	}
	return &Local[K, V]{
		mu:    mu,
		items: make(map[K]localEntry[V]),
	}
}

func (c *Local[K, V]) rlock() func() {
	if c.mu == nil {
		return func() {}
	}
	c.mu.RLock()
	return c.mu.RUnlock
}

func (c *Local[K, V]) lock() func() {
	if c.mu == nil {
		return func() {}
	}
	c.mu.Lock()
	return c.mu.Unlock
}

func (e localEntry[V]) expired(at time.Time) bool {
	return !e.expiresAt.IsZero() && at.After(e.expiresAt)
}

// Get returns the value under key if present and not expired.
func (c *Local[K, V]) Get(key K) (V, bool) {
	defer c.rlock()()

	e, ok := c.items[key]
	if !ok || e.expired(now()) {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set stores value under key. A ttl <= 0 never expires.
func (c *Local[K, V]) Set(key K, value V, ttl time.Duration) {
	defer c.lock()()

	var exp time.Time
	if ttl > 0 {
		exp = now().Add(ttl)
	}
	c.items[key] = localEntry[V]{value: value, expiresAt: exp}
}

// Delete removes key. Missing keys are ignored.
func (c *Local[K, V]) Delete(key K) {
	defer c.lock()()
	delete(c.items, key)
}

// Len counts live entries.
func (c *Local[K, V]) Len() int {
	defer c.rlock()()

	at := now()
	n := 0
	for _, e := range c.items {
		if !e.expired(at) {
			n++
		}
	}
	return n
}

// Clear drops every entry.
func (c *Local[K, V]) Clear() {
	defer c.lock()()
	c.items = make(map[K]localEntry[V])
}
