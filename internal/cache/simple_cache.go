package cache

import (
	"sync"
	"time"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time // zero means no expiration
}

// SimpleCache is a map-backed Cache with no background janitor: expired
// entries linger until overwritten, purged, or the cache is cleared.
type SimpleCache[K comparable, V any] struct {
	// nil when the cache was built without ConcurrencySafe.
	mu    *sync.RWMutex
	items map[K]entry[V]
}

// Options controls construction of a SimpleCache.
type Options struct {
	// ConcurrencySafe guards all operations with a RWMutex. Leave it off
	// for caches only ever touched from a single goroutine.
	ConcurrencySafe bool
}

// NewSimpleCache constructs an empty SimpleCache.
func NewSimpleCache[K comparable, V any](opts Options) *SimpleCache[K, V] {
	c := &SimpleCache[K, V]{items: make(map[K]entry[V])}
	if opts.ConcurrencySafe {
		c.mu = &sync.RWMutex{}
	}
	return c
}

func (c *SimpleCache[K, V]) rlock() func() {
	if c.mu == nil {
		return func() {}
	}
	c.mu.RLock()
	return c.mu.RUnlock
}

func (c *SimpleCache[K, V]) wlock() func() {
	if c.mu == nil {
		return func() {}
	}
	c.mu.Lock()
	return c.mu.Unlock
}

// now is stubbed out in tests.
var now = time.Now

func (e entry[V]) expired(at time.Time) bool {
	return !e.expiresAt.IsZero() && at.After(e.expiresAt)
}

// Get returns the value for key, treating expired entries as misses.
func (c *SimpleCache[K, V]) Get(key K) (V, bool) {
	defer c.rlock()()

	e, ok := c.items[key]
	if !ok || e.expired(now()) {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set stores value under key. A ttl <= 0 means no expiration.
func (c *SimpleCache[K, V]) Set(key K, value V, ttl time.Duration) {
	defer c.wlock()()

	var exp time.Time
	if ttl > 0 {
		exp = now().Add(ttl)
	}
	c.items[key] = entry[V]{value: value, expiresAt: exp}
}

// Delete removes key if present.
func (c *SimpleCache[K, V]) Delete(key K) {
	defer c.wlock()()
	delete(c.items, key)
}

// Has reports whether key is present and not expired.
func (c *SimpleCache[K, V]) Has(key K) bool {
	defer c.rlock()()

	e, ok := c.items[key]
	return ok && !e.expired(now())
}

// Len counts the non-expired entries.
func (c *SimpleCache[K, V]) Len() int {
	defer c.rlock()()

	count := 0
	at := now()
	for _, e := range c.items {
		if !e.expired(at) {
			count++
		}
	}
	return count
}

// Clear drops every entry.
func (c *SimpleCache[K, V]) Clear() {
	defer c.wlock()()
	c.items = make(map[K]entry[V])
}

// PurgeExpired removes expired entries eagerly.
func (c *SimpleCache[K, V]) PurgeExpired() {
	defer c.wlock()()

	at := now()
	for k, e := range c.items {
		if e.expired(at) {
			delete(c.items, k)
		}
	}
}

var _ Cache[any, any] = (*SimpleCache[any, any])(nil)
