package osql

import (
	"context"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Cache is the interface for caching query results.
// Users should implement this interface with their preferred caching solution
// (e.g., Redis, Memcached, in-memory).
type Cache interface {
	// Get retrieves a value from the cache.
	// Returns nil, nil if the key doesn't exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in the cache with an optional TTL.
	// If ttl is 0, the value should not expire.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value from the cache.
	Delete(ctx context.Context, key string) error

	// DeletePrefix removes all values with the given prefix.
	DeletePrefix(ctx context.Context, prefix string) error

	// Clear removes all values from the cache.
	Clear(ctx context.Context) error
}

// CacheKey identifies a cached query result.
type CacheKey struct {
	Table     string
	Operation string
	QueryID   string
}

// String returns the string representation of the cache key. Keys of one
// table share the Prefix, so a write can drop them together.
func (k CacheKey) String() string {
	return k.Prefix() + k.Operation + ":" + k.QueryID
}

// Prefix returns the table-wide prefix of the key.
func (k CacheKey) Prefix() string {
	return k.Table + ":"
}

// cacheEntry carries its own deadline, since ttl is chosen per Set.
type cacheEntry struct {
	value   []byte
	expires time.Time
}

// MemoryCache is an in-process Cache backed by an expirable LRU. It is safe
// for concurrent use.
type MemoryCache struct {
	lru *expirable.LRU[string, cacheEntry]
	now func() time.Time
}

// MemoryCacheOption configures a MemoryCache.
type MemoryCacheOption func(*memoryCacheOptions)

type memoryCacheOptions struct {
	size   int
	maxAge time.Duration
}

// WithMaxEntries bounds the cache, evicting the least recently used entry
// beyond n. Zero means unbounded.
func WithMaxEntries(n int) MemoryCacheOption {
	return func(o *memoryCacheOptions) {
		o.size = n
	}
}

// WithMaxAge sets the longest any entry lives, whatever the ttl passed to Set.
func WithMaxAge(d time.Duration) MemoryCacheOption {
	return func(o *memoryCacheOptions) {
		o.maxAge = d
	}
}

// NewMemoryCache returns an empty MemoryCache.
func NewMemoryCache(opts ...MemoryCacheOption) *MemoryCache {
	var o memoryCacheOptions
	for _, opt := range opts {
		opt(&o)
	}
	return &MemoryCache{
		lru: expirable.NewLRU[string, cacheEntry](o.size, nil, o.maxAge),
		now: time.Now,
	}
}

// Get implements Cache.
func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	e, ok := c.lru.Get(key)
	if !ok {
		return nil, nil
	}
	if !e.expires.IsZero() && !c.now().Before(e.expires) {
		c.lru.Remove(key)
		return nil, nil
	}
	return e.value, nil
}

// Set implements Cache.
func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	e := cacheEntry{value: value}
	if ttl > 0 {
		e.expires = c.now().Add(ttl)
	}
	c.lru.Add(key, e)
	return nil
}

// Delete implements Cache.
func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.lru.Remove(key)
	return nil
}

// DeletePrefix implements Cache.
func (c *MemoryCache) DeletePrefix(_ context.Context, prefix string) error {
	for _, key := range c.lru.Keys() {
		if strings.HasPrefix(key, prefix) {
			c.lru.Remove(key)
		}
	}
	return nil
}

// Clear implements Cache.
func (c *MemoryCache) Clear(_ context.Context) error {
	c.lru.Purge()
	return nil
}

// Len returns the number of stored entries, expired ones included.
func (c *MemoryCache) Len() int {
	return c.lru.Len()
}

var _ Cache = (*MemoryCache)(nil)
