package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel/infras/otel/mocks"
	"hotel/shared/cache"
)

type roomCacheEntry struct {
	ID    string  `json:"id"`
	Price float64 `json:"price"`
}

func newCache(t *testing.T) (cache.RedisCache, *miniredis.Miniredis) {
	t.Helper()

	server, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(server.Close)

	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return cache.NewRedisCache(client, mocks.NewOtel()), server
}

func TestRedisCache_SaveAndGet(t *testing.T) {
	redisCache, server := newCache(t)
	ctx := context.Background()

	require.NoError(t, redisCache.Save(ctx, "room:get:r-1", roomCacheEntry{ID: "r-1", Price: 120}, 60))

	var got roomCacheEntry
	require.NoError(t, redisCache.Get(ctx, "room:get:r-1", &got))
	assert.Equal(t, roomCacheEntry{ID: "r-1", Price: 120}, got)
	assert.Equal(t, 60, int(server.TTL("room:get:r-1").Seconds()))
}

func TestRedisCache_GetString(t *testing.T) {
	redisCache, _ := newCache(t)
	ctx := context.Background()

	require.NoError(t, redisCache.Save(ctx, "session:revoked:t-1", "1", 60))

	var got string
	require.NoError(t, redisCache.Get(ctx, "session:revoked:t-1", &got))
	assert.Equal(t, "1", got)
}

func TestRedisCache_GetMissing(t *testing.T) {
	redisCache, _ := newCache(t)

	var got roomCacheEntry
	err := redisCache.Get(context.Background(), "room:get:missing", &got)

	assert.ErrorIs(t, err, cache.Nil)
}

func TestRedisCache_Exists(t *testing.T) {
	redisCache, _ := newCache(t)
	ctx := context.Background()

	exists, err := redisCache.Exists(ctx, "booking:get:b-1")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, redisCache.Save(ctx, "booking:get:b-1", "x", 60))

	exists, err = redisCache.Exists(ctx, "booking:get:b-1")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestRedisCache_ClearByPrefix(t *testing.T) {
	redisCache, server := newCache(t)
	ctx := context.Background()

	for _, key := range []string{"room:gets:1", "room:gets:2", "room:count:1", "booking:gets:1"} {
		require.NoError(t, redisCache.Save(ctx, key, "x", 60))
	}

	require.NoError(t, redisCache.Clear(ctx, "room:gets*"))

	assert.False(t, server.Exists("room:gets:1"))
	assert.False(t, server.Exists("room:gets:2"))
	assert.True(t, server.Exists("room:count:1"))
	assert.True(t, server.Exists("booking:gets:1"))
}

func TestRedisCache_Delete(t *testing.T) {
	redisCache, server := newCache(t)
	ctx := context.Background()

	require.NoError(t, redisCache.Save(ctx, "settings:get", "x", 60))
	require.NoError(t, redisCache.Delete(ctx, "settings:get"))

	assert.False(t, server.Exists("settings:get"))
}

func TestRedisCache_SaveWithoutExpiry(t *testing.T) {
	redisCache, server := newCache(t)

	require.NoError(t, redisCache.Save(context.Background(), "analytics:report:6months", []byte(`{"revenue":200}`), 0))

	value, err := server.Get("analytics:report:6months")
	require.NoError(t, err)
	assert.JSONEq(t, `{"revenue":200}`, value)
	assert.Zero(t, server.TTL("analytics:report:6months"))
}

func TestRedisCache_IncrementKeepsFirstExpiry(t *testing.T) {
	redisCache, server := newCache(t)
	ctx := context.Background()

	count, err := redisCache.Increment(ctx, "limiter:ip", 60)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	server.FastForward(40 * time.Second)

	count, err = redisCache.Increment(ctx, "limiter:ip", 60)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.Equal(t, 20*time.Second, server.TTL("limiter:ip"))

	server.FastForward(21 * time.Second)

	count, err = redisCache.Increment(ctx, "limiter:ip", 60)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
