package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
)

func exercise(t *testing.T, c Client) {
	t.Helper()
	ctx := context.Background()

	_, err := c.Get(ctx, "missing")
	require.True(t, IsNotFound(err))

	buf := []byte("hello")
	require.NoError(t, c.Set(ctx, "k", buf, time.Minute))
	buf[0] = 'X'

	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, "hello", string(got))

	require.NoError(t, c.Delete(ctx, "k"))
	require.NoError(t, c.Delete(ctx, "k"))
	_, err = c.Get(ctx, "k")
	require.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, c.Ping(ctx))
}

func TestMemoryClient(t *testing.T) {
	c, err := New(Config{Kind: "memory", Prefix: "t"})
	require.NoError(t, err)
	defer c.Close()
	exercise(t, c)
}

func TestRedisClient(t *testing.T) {
	m := miniredis.RunT(t)
	c, err := New(Config{Kind: "redis", Addr: m.Addr(), Prefix: "sj"})
	require.NoError(t, err)
	defer c.Close()
	exercise(t, c)

	require.NoError(t, c.Set(context.Background(), "ttl", []byte("v"), time.Second))
	require.True(t, m.Exists("sj:ttl"))
	m.FastForward(2 * time.Second)
	_, err = c.Get(context.Background(), "ttl")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRedisClient_Unreachable(t *testing.T) {
	m := miniredis.RunT(t)
	addr := m.Addr()
	m.Close()
	_, err := NewRedis(Config{Addr: addr})
	require.Error(t, err)
}

func TestNew_Kinds(t *testing.T) {
	c, err := New(Config{Kind: "none"})
	require.NoError(t, err)
	require.Nil(t, c)

	_, err = New(Config{Kind: "memcached"})
	require.Error(t, err)
}
