package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryIdempotencyStoreMarkProcessed(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()

	ctx := context.Background()

	t.Run("first claim wins", func(t *testing.T) {
		fresh, err := store.MarkProcessed(ctx, "cancel-writeoff:WR-1001:agent-7", time.Hour)
		require.NoError(t, err)
		assert.True(t, fresh)
	})

	t.Run("replayed key is rejected", func(t *testing.T) {
		key := "cancel-writeoff:WR-1002:agent-7"

		fresh, err := store.MarkProcessed(ctx, key, time.Hour)
		require.NoError(t, err)
		assert.True(t, fresh)

		fresh, err = store.MarkProcessed(ctx, key, time.Hour)
		require.NoError(t, err)
		assert.False(t, fresh, "replay within TTL should be suppressed")
	})

	t.Run("expired key can be claimed again", func(t *testing.T) {
		key := "cancel-writeoff:WR-1003:agent-9"

		fresh, err := store.MarkProcessed(ctx, key, 10*time.Millisecond)
		require.NoError(t, err)
		assert.True(t, fresh)

		time.Sleep(20 * time.Millisecond)

		fresh, err = store.MarkProcessed(ctx, key, 10*time.Millisecond)
		require.NoError(t, err)
		assert.True(t, fresh, "expired claim should not block a new command")
	})
}

func TestInMemoryIdempotencyStoreIsProcessed(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()

	ctx := context.Background()

	t.Run("unknown key", func(t *testing.T) {
		processed, err := store.IsProcessed(ctx, "cancel-writeoff:WR-9999:agent-1")
		require.NoError(t, err)
		assert.False(t, processed)
	})

	t.Run("claimed key", func(t *testing.T) {
		key := "cancel-writeoff:WR-2001:agent-1"
		_, err := store.MarkProcessed(ctx, key, time.Hour)
		require.NoError(t, err)

		processed, err := store.IsProcessed(ctx, key)
		require.NoError(t, err)
		assert.True(t, processed)
	})

	t.Run("expired key reads as unprocessed", func(t *testing.T) {
		key := "cancel-writeoff:WR-2002:agent-1"
		_, err := store.MarkProcessed(ctx, key, 10*time.Millisecond)
		require.NoError(t, err)

		time.Sleep(20 * time.Millisecond)

		processed, err := store.IsProcessed(ctx, key)
		require.NoError(t, err)
		assert.False(t, processed)
	})
}

func TestInMemoryIdempotencyStoreSize(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()

	ctx := context.Background()
	require.Equal(t, 0, store.Size())

	_, err := store.MarkProcessed(ctx, "cancel-writeoff:WR-3001:agent-7", time.Hour)
	require.NoError(t, err)
	_, err = store.MarkProcessed(ctx, "cancel-writeoff:WR-3002:agent-7", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 2, store.Size())

	// a replay must not grow the store
	_, err = store.MarkProcessed(ctx, "cancel-writeoff:WR-3001:agent-7", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 2, store.Size())
}

func TestInMemoryIdempotencyStoreCleanupEvictsExpired(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()

	ctx := context.Background()

	_, err := store.MarkProcessed(ctx, "expiring-1", 10*time.Millisecond)
	require.NoError(t, err)
	_, err = store.MarkProcessed(ctx, "expiring-2", 10*time.Millisecond)
	require.NoError(t, err)
	_, err = store.MarkProcessed(ctx, "durable", time.Hour)
	require.NoError(t, err)
	require.Equal(t, 3, store.Size())

	time.Sleep(20 * time.Millisecond)
	store.cleanup()

	assert.Equal(t, 1, store.Size())

	processed, err := store.IsProcessed(ctx, "durable")
	require.NoError(t, err)
	assert.True(t, processed)

	processed, err = store.IsProcessed(ctx, "expiring-1")
	require.NoError(t, err)
	assert.False(t, processed)
}

func TestInMemoryIdempotencyStoreConcurrentClaims(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()

	ctx := context.Background()
	const workers = 100
	const key = "cancel-writeoff:WR-4001:agent-7"

	results := make(chan bool, workers)
	for i := 0; i < workers; i++ {
		go func() {
			fresh, err := store.MarkProcessed(ctx, key, time.Hour)
			results <- err == nil && fresh
		}()
	}

	claims := 0
	for i := 0; i < workers; i++ {
		if <-results {
			claims++
		}
	}

	assert.Equal(t, 1, claims, "exactly one concurrent claim should win")
}

func TestInMemoryIdempotencyStoreDistinctKeysDoNotCollide(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()

	ctx := context.Background()
	for i := 0; i < 10; i++ {
		fresh, err := store.MarkProcessed(ctx, fmt.Sprintf("cancel-writeoff:WR-%d:agent-7", i), time.Hour)
		require.NoError(t, err)
		assert.True(t, fresh)
	}
	assert.Equal(t, 10, store.Size())
}

func TestInMemoryIdempotencyStoreClose(t *testing.T) {
	store := NewInMemoryIdempotencyStore()

	require.NoError(t, store.Close())
	require.NoError(t, store.Close(), "double close must be safe")
}
