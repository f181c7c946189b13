package cache

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"
)

// startRedis runs a throwaway Redis container and returns its address.
func startRedis(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping redis container test in short mode")
	}
	ctx := context.Background()

	container, err := tcredis.Run(ctx,
		"redis:7.4-alpine",
		testcontainers.WithWaitStrategy(
			wait.ForLog("Ready to accept connections").
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate redis container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	return fmt.Sprintf("%s:%s", host, port.Port())
}

func TestRedisClient_GetSetDelete(t *testing.T) {
	addr := startRedis(t)
	ctx := context.Background()

	c, err := NewRedisClient(ctx, RedisConfig{Addr: addr})
	require.NoError(t, err)
	defer c.Close()

	_, err = c.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, c.Set(ctx, "analysis:k", []byte(`{"entries":[]}`), time.Minute))
	got, err := c.Get(ctx, "analysis:k")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"entries":[]}`), got)

	require.NoError(t, c.Delete(ctx, "analysis:k"))
	_, err = c.Get(ctx, "analysis:k")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestRedisClient_Prefix(t *testing.T) {
	addr := startRedis(t)
	ctx := context.Background()

	defaulted, err := NewRedisClient(ctx, RedisConfig{Addr: addr})
	require.NoError(t, err)
	defer defaulted.Close()

	custom, err := NewRedisClient(ctx, RedisConfig{Addr: addr, Prefix: "other:"})
	require.NoError(t, err)
	defer custom.Close()

	require.NoError(t, defaulted.Set(ctx, "k", []byte("a"), time.Minute))
	require.NoError(t, custom.Set(ctx, "k", []byte("b"), time.Minute))

	raw := goredis.NewClient(&goredis.Options{Addr: addr})
	defer raw.Close()

	v, err := raw.Get(ctx, "homellm:k").Result()
	require.NoError(t, err)
	assert.Equal(t, "a", v)

	v, err = raw.Get(ctx, "other:k").Result()
	require.NoError(t, err)
	assert.Equal(t, "b", v)

	got, err := custom.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("b"), got)
}

func TestRedisClient_Expiry(t *testing.T) {
	addr := startRedis(t)
	ctx := context.Background()

	c, err := NewRedisClient(ctx, RedisConfig{Addr: addr})
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Set(ctx, "short", []byte("v"), time.Second))
	assert.Eventually(t, func() bool {
		_, err := c.Get(ctx, "short")
		return errors.Is(err, ErrCacheMiss)
	}, 5*time.Second, 100*time.Millisecond)
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := NewRedisClient(ctx, RedisConfig{Addr: "127.0.0.1:1"})
	assert.Error(t, err)
}
