package client

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryCacheGetSet(t *testing.T) {
	cache := NewQueryCache()
	key := AccrualQueryKey("LOAN-1")

	_, ok, _ := cache.Get(key)
	assert.False(t, ok)

	cache.Set(key, "value")
	value, ok, stale := cache.Get(key)
	require.True(t, ok)
	assert.False(t, stale)
	assert.Equal(t, "value", value)
}

func TestQueryCacheStaleness(t *testing.T) {
	now := time.Now()
	var mu sync.Mutex
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}
	cache := NewQueryCache(WithStaleTime(10*time.Second), WithClock(clock))
	key := ECLQueryKey("LOAN-1")
	cache.Set(key, "v1")

	_, _, stale := cache.Get(key)
	assert.False(t, stale)

	mu.Lock()
	now = now.Add(11 * time.Second)
	mu.Unlock()

	value, ok, stale := cache.Get(key)
	require.True(t, ok)
	assert.True(t, stale)
	assert.Equal(t, "v1", value)
}

func TestQueryCacheInvalidatePrefix(t *testing.T) {
	cache := NewQueryCache()
	cache.Set(CloseHistoryQueryKey(), "history")
	cache.Set(PeriodCloseQueryKey("2026-07-31"), "july")
	cache.Set(AccrualQueryKey("LOAN-1"), "accrual")

	dropped := cache.Invalidate(QueryKey{"period-close"})
	assert.Equal(t, 2, dropped)
	assert.Equal(t, 1, cache.Len())

	_, ok, _ := cache.Get(AccrualQueryKey("LOAN-1"))
	assert.True(t, ok)
}

func TestQueryCacheFetchMiss(t *testing.T) {
	cache := NewQueryCache()
	var calls atomic.Int32

	value, stale, err := cache.Fetch(context.Background(), AccrualQueryKey("LOAN-1"), func(ctx context.Context) (any, error) {
		calls.Add(1)
		return "fetched", nil
	})
	require.NoError(t, err)
	assert.False(t, stale)
	assert.Equal(t, "fetched", value)
	assert.Equal(t, int32(1), calls.Load())

	// Second read hits the cache.
	_, _, err = cache.Fetch(context.Background(), AccrualQueryKey("LOAN-1"), func(ctx context.Context) (any, error) {
		calls.Add(1)
		return "refetched", nil
	})
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestQueryCacheFetchError(t *testing.T) {
	cache := NewQueryCache()
	wantErr := errors.New("boom")

	_, _, err := cache.Fetch(context.Background(), AccrualQueryKey("LOAN-1"), func(ctx context.Context) (any, error) {
		return nil, wantErr
	})
	require.ErrorIs(t, err, wantErr)

	// Failed fetches leave no entry behind.
	_, ok, _ := cache.Get(AccrualQueryKey("LOAN-1"))
	assert.False(t, ok)
}

func TestQueryCacheFetchDeduplicatesConcurrent(t *testing.T) {
	cache := NewQueryCache()
	var calls atomic.Int32
	release := make(chan struct{})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			value, _, err := cache.Fetch(context.Background(), PortfolioECLQueryKey(), func(ctx context.Context) (any, error) {
				calls.Add(1)
				<-release
				return "summary", nil
			})
			assert.NoError(t, err)
			assert.Equal(t, "summary", value)
		}()
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
}

func TestQueryCacheFetchServesStaleThenRefreshes(t *testing.T) {
	now := time.Now()
	var mu sync.Mutex
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}
	cache := NewQueryCache(WithStaleTime(10*time.Second), WithClock(clock))
	key := SystemStatusQueryKey()
	cache.Set(key, "old")

	mu.Lock()
	now = now.Add(time.Minute)
	mu.Unlock()

	value, stale, err := cache.Fetch(context.Background(), key, func(ctx context.Context) (any, error) {
		return "new", nil
	})
	require.NoError(t, err)
	assert.True(t, stale)
	assert.Equal(t, "old", value)

	// The background refresh replaces the entry.
	require.Eventually(t, func() bool {
		v, ok, _ := cache.Get(key)
		return ok && v == "new"
	}, time.Second, 10*time.Millisecond)
}
