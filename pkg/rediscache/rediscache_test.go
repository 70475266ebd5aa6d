package rediscache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/python-discord/sir-robin-go/pkg/config"
)

func newTestCache(t *testing.T, namespace string) *Cache {
	t.Helper()

	client, err := NewClient(config.Redis{}, true)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return NewCache(client, namespace)
}

func TestCacheSetGet(t *testing.T) {
	ctx := context.Background()
	cache := newTestCache(t, "test_cache")

	require.NoError(t, cache.Set(ctx, "answer", 42))

	val, err := cache.Get(ctx, "answer")
	require.NoError(t, err)
	assert.Equal(t, "42", val)

	n, err := cache.GetInt(ctx, "answer")
	require.NoError(t, err)
	assert.Equal(t, int64(42), n)
}

func TestCacheGetMissing(t *testing.T) {
	ctx := context.Background()
	cache := newTestCache(t, "test_cache")

	_, err := cache.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCacheBool(t *testing.T) {
	ctx := context.Background()
	cache := newTestCache(t, "test_cache")

	require.NoError(t, cache.Set(ctx, "is_running", true))
	val, err := cache.GetBool(ctx, "is_running")
	require.NoError(t, err)
	assert.True(t, val)
}

func TestCacheNamespaceIsolation(t *testing.T) {
	ctx := context.Background()

	client, err := NewClient(config.Redis{}, true)
	require.NoError(t, err)
	defer func() { _ = client.Close() }()

	first := NewCache(client, "first")
	second := NewCache(client, "second")

	require.NoError(t, first.Set(ctx, "key", "value"))

	ok, err := second.Contains(ctx, "key")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCacheIncrementAndLength(t *testing.T) {
	ctx := context.Background()
	cache := newTestCache(t, "counts")

	n, err := cache.Increment(ctx, "board_1", 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = cache.Increment(ctx, "board_1", 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	require.NoError(t, cache.Set(ctx, "board_2", 7))

	length, err := cache.Length(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), length)
}

func TestCacheUpdateItemsDeleteClear(t *testing.T) {
	ctx := context.Background()
	cache := newTestCache(t, "state")

	require.NoError(t, cache.Update(ctx, map[string]any{
		"year":        2021,
		"current_day": 3,
	}))

	items, err := cache.Items(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"year": "2021", "current_day": "3"}, items)

	require.NoError(t, cache.Delete(ctx, "current_day"))
	ok, err := cache.Contains(ctx, "current_day")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cache.Clear(ctx))
	length, err := cache.Length(ctx)
	require.NoError(t, err)
	assert.Zero(t, length)
}

func TestCacheExpire(t *testing.T) {
	ctx := context.Background()
	cache := newTestCache(t, "expiring")

	require.NoError(t, cache.Set(ctx, "key", "value"))
	require.NoError(t, cache.Expire(ctx, time.Hour))
}
