// Package cache provides the byte-level caches behind remote metadata
// lookups.
//
// Three backends implement [Cache]:
//
//   - [FileCache]: JSON entry files under a directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for `depsync serve` deployments
//   - [NullCache]: stores nothing, for --no-cache and tests
//
// Keys come from a [Keyer] so that deployments can namespace entries with
// [NewScopedKeyer]. Retry helpers ([Retryable], [RetryWithBackoff]) are shared
// with the HTTP integrations.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values with an optional TTL.
type Cache interface {
	// Get returns the value and true on a hit. Misses are not errors.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data. A ttl <= 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}
