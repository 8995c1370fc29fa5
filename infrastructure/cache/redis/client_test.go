package redis

import (
	"context"
	"testing"
	"time"

	"github.com/Ev3lynx727/containerd-apps-tokped-scrapper/core/errors"
	"github.com/Ev3lynx727/containerd-apps-tokped-scrapper/pkg/config"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	cache, err := NewRedisCache(config.RedisConfig{Address: mr.Addr(), Timeout: time.Second})
	require.NoError(t, err)
	t.Cleanup(func() { cache.Close() })
	return cache, mr
}

func TestNewRedisCache_InvalidAddress(t *testing.T) {
	cache, err := NewRedisCache(config.RedisConfig{Address: ""})

	assert.Error(t, err)
	assert.Nil(t, cache)
}

func TestNewRedisCache_DoesNotRequireReachableServer(t *testing.T) {
	cache, err := NewRedisCache(config.RedisConfig{Address: "127.0.0.1:1", Timeout: 100 * time.Millisecond})
	require.NoError(t, err)
	defer cache.Close()

	err = cache.Ping(context.Background())
	assert.True(t, errors.IsCacheUnavailable(err))
}

func TestRedisCache_SetGet(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "search:sepatu:3", []byte("payload"), time.Hour))

	got, err := cache.Get(ctx, "search:sepatu:3")
	require.NoError(t, err)
	assert.Equal(t, "payload", string(got))
	assert.Equal(t, time.Hour, mr.TTL("search:sepatu:3"))
}

func TestRedisCache_ZeroTTLNeverExpires(t *testing.T) {
	cache, mr := newTestCache(t)

	require.NoError(t, cache.Set(context.Background(), "k", []byte("v"), 0))

	assert.Zero(t, mr.TTL("k"))
}

func TestRedisCache_GetMissing(t *testing.T) {
	cache, _ := newTestCache(t)

	got, err := cache.Get(context.Background(), "missing")

	assert.Nil(t, got)
	assert.True(t, errors.IsCacheMiss(err))
}

func TestRedisCache_GetExpired(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()
	require.NoError(t, cache.Set(ctx, "k", []byte("v"), time.Minute))

	mr.FastForward(2 * time.Minute)

	_, err := cache.Get(ctx, "k")
	assert.True(t, errors.IsCacheMiss(err))
}

func TestRedisCache_Delete(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()
	require.NoError(t, cache.Set(ctx, "k", []byte("v"), time.Minute))

	require.NoError(t, cache.Delete(ctx, "k"))
	require.NoError(t, cache.Delete(ctx, "never-existed"))

	assert.False(t, mr.Exists("k"))
}

func TestRedisCache_Incr(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	n, err := cache.Incr(ctx, "k:hits", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = cache.Incr(ctx, "k:hits", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.Equal(t, time.Minute, mr.TTL("k:hits"), "ttl is only set on creation")
}

func TestRedisCache_Stats(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()
	require.NoError(t, cache.Set(ctx, "a", []byte("1"), time.Minute))
	require.NoError(t, cache.Set(ctx, "b", []byte("2"), time.Minute))

	status, err := cache.Stats(ctx)

	require.NoError(t, err)
	assert.True(t, status.Reachable)
	assert.Equal(t, Backend, status.Backend)
	assert.Equal(t, int64(2), status.Keys)
}

func TestRedisCache_ServerGoneIsUnavailable(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()
	mr.Close()

	_, err := cache.Get(ctx, "k")
	assert.True(t, errors.IsCacheUnavailable(err))

	err = cache.Set(ctx, "k", []byte("v"), time.Minute)
	assert.True(t, errors.IsCacheUnavailable(err))

	status, err := cache.Stats(ctx)
	assert.Error(t, err)
	assert.False(t, status.Reachable)
}

func TestRedisCache_CallerContextErrorIsNotUnavailable(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := cache.Get(ctx, "k")
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, errors.IsCacheUnavailable(err))

	err = cache.Set(ctx, "k", []byte("v"), time.Minute)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, errors.IsCacheUnavailable(err))
}

func TestUsedMemory(t *testing.T) {
	info := "# Memory\r\nused_memory:1048576\r\nused_memory_human:1.00M\r\n"

	assert.Equal(t, int64(1048576), usedMemory(info))
	assert.Zero(t, usedMemory("# Memory\r\n"))
}
