package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := NewCache([]string{mr.Addr()}, "", false)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestCache_SetGetDelete(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "otp", "u1", "123456", time.Minute))
	assert.True(t, mr.Exists("otp:u1"))

	v, err := c.Get(ctx, "otp", "u1")
	require.NoError(t, err)
	assert.Equal(t, "123456", v)

	ttl, err := c.GetTTL(ctx, "otp", "u1")
	require.NoError(t, err)
	assert.Equal(t, time.Minute, ttl)

	require.NoError(t, c.Delete(ctx, "otp", "u1"))
	_, err = c.Get(ctx, "otp", "u1")
	assert.ErrorIs(t, err, redis.Nil)
}

func TestCache_IncrWithExpire(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		got, err := c.IncrWithExpire(ctx, "otp_rate", "u1", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	assert.Equal(t, time.Minute, mr.TTL("otp_rate:u1"))

	mr.FastForward(time.Minute)
	got, err := c.IncrWithExpire(ctx, "otp_rate", "u1", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got)
}

func TestCache_Ping(t *testing.T) {
	c, mr := newTestCache(t)
	require.NoError(t, c.Ping(context.Background()))

	mr.Close()
	assert.Error(t, c.Ping(context.Background()))
}
