package cache

import (
	"context"
	"time"
)

// ScopedCache prefixes every key before delegating to an inner cache.
//
// Example usage:
//
//	poms := cache.Namespace(inner, "maven:pom:")
//	poms.Set(ctx, "junit:junit:4.13.2", data, ttl) // key "maven:pom:junit:junit:4.13.2"
type ScopedCache struct {
	inner  Cache
	prefix string
}

// Namespace returns a cache view that prefixes keys with prefix.
// Namespaces nest: Namespace(Namespace(c, "a:"), "b:") uses "a:b:".
// A nil inner cache is replaced by a [NullCache].
func Namespace(inner Cache, prefix string) Cache {
	if inner == nil {
		inner = NewNullCache()
	}
	if s, ok := inner.(*ScopedCache); ok {
		return &ScopedCache{inner: s.inner, prefix: s.prefix + prefix}
	}
	return &ScopedCache{inner: inner, prefix: prefix}
}

// Prefix returns the full key prefix of this view.
func (s *ScopedCache) Prefix() string { return s.prefix }

// Get retrieves a prefixed key.
func (s *ScopedCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return s.inner.Get(ctx, s.prefix+key)
}

// Set stores a prefixed key.
func (s *ScopedCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return s.inner.Set(ctx, s.prefix+key, data, ttl)
}

// Delete removes a prefixed key.
func (s *ScopedCache) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, s.prefix+key)
}

// Close closes the inner cache.
func (s *ScopedCache) Close() error { return s.inner.Close() }

var _ Cache = (*ScopedCache)(nil)
