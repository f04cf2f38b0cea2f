package theo

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_PutGet(t *testing.T) {
	cache := NewMemoryCache(DefaultMemoryCacheConfig(), nil)
	ctx := context.Background()

	entry, ok, err := cache.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, entry)

	require.NoError(t, cache.Put(ctx, &CompiledEntry{Digest: "d1", Name: "a.theo", Output: "<p></p>"}))

	entry, ok, err = cache.Get(ctx, "d1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "a.theo", entry.Name)
	assert.Equal(t, "<p></p>", entry.Output)
	assert.False(t, entry.CreatedAt.IsZero())
}

func TestMemoryCache_ReturnsCopies(t *testing.T) {
	cache := NewMemoryCache(DefaultMemoryCacheConfig(), nil)
	ctx := context.Background()

	original := &CompiledEntry{Digest: "d1", Output: "a"}
	require.NoError(t, cache.Put(ctx, original))
	original.Output = "changed"

	entry, _, err := cache.Get(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, "a", entry.Output)

	entry.Output = "mutated"
	again, _, err := cache.Get(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, "a", again.Output)
}

func TestMemoryCache_TTL(t *testing.T) {
	cache := NewMemoryCache(MemoryCacheConfig{TTL: time.Minute}, nil)
	ctx := context.Background()

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }

	require.NoError(t, cache.Put(ctx, &CompiledEntry{Digest: "d1", Output: "x"}))

	now = now.Add(30 * time.Second)
	_, ok, err := cache.Get(ctx, "d1")
	require.NoError(t, err)
	assert.True(t, ok)

	now = now.Add(30 * time.Second)
	_, ok, err = cache.Get(ctx, "d1")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, cache.Len())
}

func TestMemoryCache_EvictsOldest(t *testing.T) {
	cache := NewMemoryCache(MemoryCacheConfig{MaxEntries: 2}, nil)
	ctx := context.Background()

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }

	for i := 1; i <= 3; i++ {
		now = now.Add(time.Second)
		require.NoError(t, cache.Put(ctx, &CompiledEntry{Digest: fmt.Sprintf("d%d", i)}))
	}

	assert.Equal(t, 2, cache.Len())
	_, ok, _ := cache.Get(ctx, "d1")
	assert.False(t, ok)
	_, ok, _ = cache.Get(ctx, "d3")
	assert.True(t, ok)
}

func TestMemoryCache_ReplaceDoesNotEvict(t *testing.T) {
	cache := NewMemoryCache(MemoryCacheConfig{MaxEntries: 2}, nil)
	ctx := context.Background()

	require.NoError(t, cache.Put(ctx, &CompiledEntry{Digest: "d1", Output: "a"}))
	require.NoError(t, cache.Put(ctx, &CompiledEntry{Digest: "d2", Output: "b"}))
	require.NoError(t, cache.Put(ctx, &CompiledEntry{Digest: "d1", Output: "c"}))

	assert.Equal(t, 2, cache.Len())
	entry, ok, _ := cache.Get(ctx, "d1")
	require.True(t, ok)
	assert.Equal(t, "c", entry.Output)
}

func TestMemoryCache_Errors(t *testing.T) {
	cache := NewMemoryCache(DefaultMemoryCacheConfig(), nil)
	ctx := context.Background()

	err := cache.Put(ctx, &CompiledEntry{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrMsgCacheEmptyDigest)

	require.Error(t, cache.Put(ctx, nil))

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	_, _, err = cache.Get(canceled, "d1")
	assert.ErrorIs(t, err, context.Canceled)

	require.NoError(t, cache.Close())
	_, _, err = cache.Get(ctx, "d1")
	assert.Contains(t, err.Error(), ErrMsgCacheClosed)
	err = cache.Put(ctx, &CompiledEntry{Digest: "d1"})
	assert.Contains(t, err.Error(), ErrMsgCacheClosed)
}

func TestMemoryCache_Concurrent(t *testing.T) {
	cache := NewMemoryCache(MemoryCacheConfig{MaxEntries: 16}, nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			digest := fmt.Sprintf("d%d", i%20)
			_ = cache.Put(ctx, &CompiledEntry{Digest: digest, Output: digest})
			_, _, _ = cache.Get(ctx, digest)
		}(i)
	}
	wg.Wait()

	assert.LessOrEqual(t, cache.Len(), 16)
}
