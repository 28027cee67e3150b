package client

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// DefaultStaleTime bounds how long a cached read is served without a
// refetch being allowed.
const DefaultStaleTime = 30 * time.Second

type cacheEntry struct {
	key       QueryKey
	value     any
	fetchedAt time.Time
	staleTime time.Duration
}

func (e *cacheEntry) stale(now time.Time) bool {
	return now.Sub(e.fetchedAt) > e.staleTime
}

// QueryCache is the process-wide read cache for gateway queries. Entries are
// keyed by QueryKey; a stale entry is still served immediately while a
// background refetch replaces it. Concurrent fetches for the same key are
// collapsed to a single request.
//
// The cache is an explicit object owned by the caller, not a package
// singleton; its lifetime is the application session.
type QueryCache struct {
	mu        sync.RWMutex
	entries   map[string]*cacheEntry
	group     singleflight.Group
	staleTime time.Duration
	now       func() time.Time
}

// QueryCacheOption configures a QueryCache
type QueryCacheOption func(*QueryCache)

// WithStaleTime overrides the default staleness bound for new entries
func WithStaleTime(d time.Duration) QueryCacheOption {
	return func(c *QueryCache) {
		c.staleTime = d
	}
}

// WithClock overrides the time source, for tests
func WithClock(now func() time.Time) QueryCacheOption {
	return func(c *QueryCache) {
		c.now = now
	}
}

// NewQueryCache creates an empty query cache
func NewQueryCache(opts ...QueryCacheOption) *QueryCache {
	c := &QueryCache{
		entries:   make(map[string]*cacheEntry),
		staleTime: DefaultStaleTime,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached value for key. stale reports whether the entry has
// outlived its staleness bound; the value is returned either way.
func (c *QueryCache) Get(key QueryKey) (value any, ok bool, stale bool) {
	c.mu.RLock()
	entry, ok := c.entries[key.Canonical()]
	c.mu.RUnlock()
	if !ok {
		return nil, false, false
	}
	return entry.value, true, entry.stale(c.now())
}

// Set stores a value under key with the cache's default staleness bound
func (c *QueryCache) Set(key QueryKey, value any) {
	c.SetWithStaleTime(key, value, c.staleTime)
}

// SetWithStaleTime stores a value with an entry-specific staleness bound
func (c *QueryCache) SetWithStaleTime(key QueryKey, value any, staleTime time.Duration) {
	c.mu.Lock()
	c.entries[key.Canonical()] = &cacheEntry{
		key:       key,
		value:     value,
		fetchedAt: c.now(),
		staleTime: staleTime,
	}
	c.mu.Unlock()
}

// Invalidate removes every entry whose key starts with prefix and returns
// how many were dropped. The next read for a dropped key refetches.
func (c *QueryCache) Invalidate(prefix QueryKey) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	dropped := 0
	for canonical, entry := range c.entries {
		if entry.key.HasPrefix(prefix) {
			delete(c.entries, canonical)
			dropped++
		}
	}
	return dropped
}

// Len returns the number of cached entries
func (c *QueryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Fetch reads through the cache. A fresh entry is returned as-is; a stale
// entry is returned immediately with stale=true while a background refetch
// updates it; a miss blocks on the fetch. In-flight fetches for the same key
// are deduplicated.
func (c *QueryCache) Fetch(ctx context.Context, key QueryKey, fetch func(ctx context.Context) (any, error)) (any, bool, error) {
	canonical := key.Canonical()

	c.mu.RLock()
	entry, ok := c.entries[canonical]
	c.mu.RUnlock()

	if ok {
		if !entry.stale(c.now()) {
			return entry.value, false, nil
		}
		// Serve stale, refresh in the background. Refresh failures keep
		// the stale entry; the next read tries again.
		go func() {
			_, _, _ = c.group.Do(canonical, func() (any, error) {
				value, err := fetch(context.WithoutCancel(ctx))
				if err != nil {
					return nil, err
				}
				c.Set(key, value)
				return value, nil
			})
		}()
		return entry.value, true, nil
	}

	value, err, _ := c.group.Do(canonical, func() (any, error) {
		value, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		c.Set(key, value)
		return value, nil
	})
	if err != nil {
		return nil, false, err
	}
	return value, false, nil
}
