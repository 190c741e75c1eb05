// Package cache provides a small in-process TTL cache used to keep
// dashboard summaries and repository commit stats from being recomputed
// on every request.
package cache

import "time"

// Cache is a key-value store with per-entry TTL. Whether an
// implementation is safe for concurrent use is up to its constructor.
type Cache[K comparable, V any] interface {
	// Get returns the value and whether it was present and not expired.
	Get(key K) (V, bool)

	// Set stores a value. A ttl <= 0 means the entry never expires.
	Set(key K, value V, ttl time.Duration)

	// Delete removes a key if present.
	Delete(key K)

	// Has reports whether a key is present and not expired.
	Has(key K) bool

	// Len counts the non-expired entries.
	Len() int

	// Clear drops every entry.
	Clear()

	// PurgeExpired removes expired entries eagerly. Get and Has already
	// treat expired entries as misses, so calling this is optional.
	PurgeExpired()
}
