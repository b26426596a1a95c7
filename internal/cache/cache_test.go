package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCacheExpires(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	c := NewMemoryCache()
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	value, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("v"), value)

	now = now.Add(time.Minute)
	_, ok, err = c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryCacheWithoutTTLAndDelete(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	require.NoError(t, c.Set(ctx, "a", []byte("1"), 0))
	require.NoError(t, c.Set(ctx, "b", []byte("2"), 0))
	require.NoError(t, c.Delete(ctx, "a"))

	_, ok, _ := c.Get(ctx, "a")
	assert.False(t, ok)
	value, ok, _ := c.Get(ctx, "b")
	assert.True(t, ok)
	assert.Equal(t, []byte("2"), value)
}

func TestMemoryCacheCopiesValue(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	value := []byte("abc")
	require.NoError(t, c.Set(ctx, "k", value, 0))
	value[0] = 'x'

	got, _, _ := c.Get(ctx, "k")
	assert.Equal(t, []byte("abc"), got)
}

func TestNewRedisCacheRejectsBadURL(t *testing.T) {
	_, err := NewRedisCache("not a url")
	assert.Error(t, err)
}

func TestRedisCacheUnreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond, MaxRetries: -1})
	rc := NewRedisCacheFromClient(client)
	t.Cleanup(func() { _ = rc.Close() })

	_, ok, err := rc.Get(context.Background(), "k")
	assert.Error(t, err)
	assert.False(t, ok)
	assert.Error(t, rc.HealthCheck(context.Background()))
}
