package cache

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

func TestStore_GetOrLoad_CollapsesConcurrentMisses(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32
	release := make(chan struct{})
	loader := func(context.Context) (any, error) {
		calls.Add(1)
		<-release
		return "fram", nil
	}

	const callers = 16
	var wg sync.WaitGroup
	results := make(chan any, callers)
	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := store.GetOrLoad(context.Background(), "team:slug:fram", loader)
			if err == nil {
				results <- v
			}
		}()
	}

	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()
	close(results)

	count := 0
	for v := range results {
		assert.Equal(t, "fram", v)
		count++
	}
	assert.Equal(t, callers, count)
	assert.Equal(t, int32(1), calls.Load())
}

func TestStore_GetOrLoad_DoesNotCacheErrors(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32
	loader := func(context.Context) (any, error) {
		if calls.Add(1) == 1 {
			return nil, errors.New("connection reset")
		}
		return "ok", nil
	}

	_, err := store.GetOrLoad(context.Background(), "k", loader)
	require.Error(t, err)

	v, err := store.GetOrLoad(context.Background(), "k", loader)
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
}

func TestStore_GetOrLoad_NilLoader(t *testing.T) {
	_, err := NewStore(time.Minute).GetOrLoad(context.Background(), "k", nil)
	assert.ErrorIs(t, err, ErrNilLoader)
}

func TestStore_InvalidationDuringLoadIsNotStored(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewStore(time.Minute)

	v, err := store.GetOrLoad(ctx, "team:list", func(context.Context) (any, error) {
		store.DeletePrefix(ctx, "team:")
		return "stale", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "stale", v)
	assert.Zero(t, store.Len())

	v, err = store.GetOrLoad(ctx, "team:list", func(context.Context) (any, error) {
		return "fresh", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "fresh", v)
	assert.Equal(t, 1, store.Len())
}

func TestStore_Expiry(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store := NewStore(time.Second)
	store.now = func() time.Time { return now }

	store.Set(context.Background(), "k", 1)
	_, ok := store.Get(context.Background(), "k")
	require.True(t, ok)

	now = now.Add(2 * time.Second)
	_, ok = store.Get(context.Background(), "k")
	assert.False(t, ok)
	assert.Zero(t, store.Len())
}

func TestStore_NoTTLKeepsEntries(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store := NewStore(0)
	store.now = func() time.Time { return now }

	store.Set(context.Background(), "k", 1)
	now = now.Add(24 * time.Hour)
	v, ok := store.Get(context.Background(), "k")
	require.True(t, ok)
	assert.Equal(t, 1, v)
}

func TestStore_DeletePrefix(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	ctx := context.Background()
	store.Set(ctx, "team:list", 1)
	store.Set(ctx, "team:slug:valur", 2)
	store.Set(ctx, "other", 3)

	store.DeletePrefix(ctx, "team:")
	assert.Equal(t, 1, store.Len())
	_, ok := store.Get(ctx, "other")
	assert.True(t, ok)
}
