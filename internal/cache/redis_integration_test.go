//go:build integration

package cache

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func newRedisClient(t *testing.T) *RedisClient {
	t.Helper()
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	testcontainers.CleanupContainer(t, container)
	if err != nil {
		t.Fatalf("failed to start redis container: %v", err)
	}

	url, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	client, err := NewRedisClient(ctx, RedisConfig{URL: url, PoolSize: 4, DialTimeout: 5 * time.Second})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRedisStore_Integration(t *testing.T) {
	ctx := context.Background()
	client := newRedisClient(t)
	require.NoError(t, client.Health(ctx))

	store := NewRedisStore(client)

	_, err := store.Get(ctx, "states:DE")
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, store.Set(ctx, "states:DE", []byte(`[{"code":"BY"}]`), time.Minute))
	got, err := store.Get(ctx, "states:DE")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"code":"BY"}]`, string(got))

	ttl, err := client.TTL(ctx, keyPrefix+"states:DE").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}

func TestProvider_WithRedis_Integration(t *testing.T) {
	ctx := context.Background()
	client := newRedisClient(t)
	up := &countingUpstream{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	// Two providers sharing one Redis behave like two service replicas.
	a := NewProvider(up, NewRedisStore(client), time.Minute, logger)
	b := NewProvider(up, NewRedisStore(client), time.Minute, logger)

	_, err := a.ListStates(ctx, "DE")
	require.NoError(t, err)
	states, err := b.ListStates(ctx, "DE")
	require.NoError(t, err)

	assert.Equal(t, "Bavaria", states[0].Name)
	assert.Equal(t, int32(1), up.calls.Load())
}

func TestNewRedisClient_EmptyURL(t *testing.T) {
	client, err := NewRedisClient(context.Background(), RedisConfig{})
	assert.NoError(t, err)
	assert.Nil(t, client)
}
