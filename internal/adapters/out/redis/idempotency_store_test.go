package redis_test

import (
	"testing"
	"time"

	redisadapter "kirana/internal/adapters/out/redis"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T, ttl time.Duration) (*redisadapter.IdempotencyStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := redisadapter.NewClient("redis://" + mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return redisadapter.NewIdempotencyStore(client, ttl), mr
}

func TestIdempotencyStore_Claim(t *testing.T) {
	store, _ := newStore(t, time.Hour)
	ctx := t.Context()

	first, err := store.Claim(ctx, "POST /orders/1/assign", "k-1")
	require.NoError(t, err)
	second, err := store.Claim(ctx, "POST /orders/1/assign", "k-1")
	require.NoError(t, err)
	otherScope, err := store.Claim(ctx, "POST /orders/2/assign", "k-1")
	require.NoError(t, err)

	assert.True(t, first)
	assert.False(t, second)
	assert.True(t, otherScope)
}

func TestIdempotencyStore_ExpiresAfterTTL(t *testing.T) {
	store, mr := newStore(t, time.Minute)
	ctx := t.Context()

	ok, err := store.Claim(ctx, "s", "k")
	require.NoError(t, err)
	require.True(t, ok)

	mr.FastForward(2 * time.Minute)

	ok, err = store.Claim(ctx, "s", "k")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestIdempotencyStore_Release(t *testing.T) {
	store, _ := newStore(t, time.Hour)
	ctx := t.Context()

	_, err := store.Claim(ctx, "s", "k")
	require.NoError(t, err)
	require.NoError(t, store.Release(ctx, "s", "k"))

	ok, err := store.Claim(ctx, "s", "k")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestNewClient_InvalidURL(t *testing.T) {
	_, err := redisadapter.NewClient("not-a-url")

	assert.Error(t, err)
}
