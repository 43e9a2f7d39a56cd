// Package cache stores opaque byte values under string keys.
//
// The CLI uses it to keep parsed package catalogs between runs: parsing
// every sync database takes far longer than decoding one JSON blob, and
// the catalog only changes when the databases do. Keys embed the database
// stamps, so stale entries are never hit; they expire after their TTL.
//
// Two implementations are provided:
//   - [FileCache]: one file per key under a directory (XDG cache home)
//   - [NullCache]: stores nothing, for --no-cache and tests
package cache

import (
	"context"
	"time"
)

// Cache is a byte-value store with optional expiry.
type Cache interface {
	// Get returns the value for key and whether it was present and fresh.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}
