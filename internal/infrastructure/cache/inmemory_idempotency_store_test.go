package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryIdempotencyStore_MarkProcessed(t *testing.T) {
	ctx := context.Background()

	t.Run("first mark returns true, second returns false", func(t *testing.T) {
		store := NewInMemoryIdempotencyStore()
		defer store.Close()

		first, err := store.MarkProcessed(ctx, "checkout:finalize:abc", time.Minute)
		require.NoError(t, err)
		assert.True(t, first)

		second, err := store.MarkProcessed(ctx, "checkout:finalize:abc", time.Minute)
		require.NoError(t, err)
		assert.False(t, second)
	})

	t.Run("expired keys can be marked again", func(t *testing.T) {
		store := NewInMemoryIdempotencyStore()
		defer store.Close()

		_, err := store.MarkProcessed(ctx, "key", time.Millisecond)
		require.NoError(t, err)

		time.Sleep(5 * time.Millisecond)

		again, err := store.MarkProcessed(ctx, "key", time.Minute)
		require.NoError(t, err)
		assert.True(t, again)
	})

	t.Run("only one concurrent caller wins", func(t *testing.T) {
		store := NewInMemoryIdempotencyStore()
		defer store.Close()

		const workers = 20
		var wg sync.WaitGroup
		var mu sync.Mutex
		winners := 0

		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				won, err := store.MarkProcessed(ctx, "contested", time.Minute)
				require.NoError(t, err)
				if won {
					mu.Lock()
					winners++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 1, winners)
	})
}

func TestInMemoryIdempotencyStore_IsProcessed(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryIdempotencyStore()
	defer store.Close()

	processed, err := store.IsProcessed(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, processed)

	_, err = store.MarkProcessed(ctx, "present", time.Minute)
	require.NoError(t, err)

	processed, err = store.IsProcessed(ctx, "present")
	require.NoError(t, err)
	assert.True(t, processed)
}

func TestInMemoryIdempotencyStore_Cleanup(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()

	ctx := context.Background()
	_, err := store.MarkProcessed(ctx, "short-lived", time.Millisecond)
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	store.cleanup()

	assert.Equal(t, 0, store.Size())
}
