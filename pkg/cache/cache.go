// Package cache provides byte-oriented caches for registry responses.
//
// Descriptor lookups are the most expensive operation of a run, and the
// same POM (or parent POM) is requested many times across builds. Clients
// in [integrations] store raw responses through the [Cache] interface.
//
// Implementations:
//   - [FileCache]: one file per entry under a directory (CLI default)
//   - [RedisCache]: shared cache for CI fleets
//   - [NullCache]: caching disabled
//
// Use [Namespace] to scope keys per data source.
//
// [integrations]: github.com/matzehuels/licensetower/pkg/integrations
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values by key with an optional TTL.
type Cache interface {
	// Get returns the cached value. hit is false on a miss or an expired entry.
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)
	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases resources held by the cache.
	Close() error
}
