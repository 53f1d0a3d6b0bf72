// Package cache provides response caching for the bigtime pipeline's
// GitHub API traffic, plus the retry/backoff helper used around transient
// upstream failures.
//
// Two backends are provided: a file cache for normal CLI runs and a Redis
// cache for scheduled runners that share a cache across machines. A null
// backend disables caching entirely (--refresh, tests).
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values under string keys with per-entry TTL.
// Implementations must treat expired and missing entries identically: a
// miss, never an error.
type Cache interface {
	// Get retrieves a value. The bool reports whether a fresh entry existed.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of zero means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any backend resources.
	Close() error
}
