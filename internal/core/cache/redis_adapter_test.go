package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAdapter(t *testing.T) (*RedisAdapter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)

	adapter, err := NewRedisAdapter("redis://" + mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { adapter.Close() })

	return adapter, mr
}

func TestRedisAdapter_GetSet(t *testing.T) {
	adapter, _ := newTestAdapter(t)
	ctx := context.Background()

	err := adapter.Set(ctx, "cart:s1", []byte(`{"items":[]}`), 10*time.Second)
	assert.NoError(t, err)

	got, err := adapter.Get(ctx, "cart:s1")
	assert.NoError(t, err)
	assert.Equal(t, []byte(`{"items":[]}`), got)
}

func TestRedisAdapter_GetNotFound(t *testing.T) {
	adapter, _ := newTestAdapter(t)

	_, err := adapter.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "key not found")
}

func TestRedisAdapter_Delete(t *testing.T) {
	adapter, _ := newTestAdapter(t)
	ctx := context.Background()

	require.NoError(t, adapter.Set(ctx, "checkout:data:s1", []byte("draft"), 0))
	assert.NoError(t, adapter.Delete(ctx, "checkout:data:s1"))

	_, err := adapter.Get(ctx, "checkout:data:s1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisAdapter_TTL(t *testing.T) {
	adapter, mr := newTestAdapter(t)
	ctx := context.Background()

	require.NoError(t, adapter.Set(ctx, "ttl", []byte("expires_soon"), time.Second))

	_, err := adapter.Get(ctx, "ttl")
	assert.NoError(t, err)

	mr.FastForward(2 * time.Second)

	_, err = adapter.Get(ctx, "ttl")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisAdapter_SetNX(t *testing.T) {
	adapter, mr := newTestAdapter(t)
	ctx := context.Background()

	ok, err := adapter.SetNX(ctx, "payment:processing:s1", []byte("1"), 5*time.Second)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = adapter.SetNX(ctx, "payment:processing:s1", []byte("1"), 5*time.Second)
	require.NoError(t, err)
	assert.False(t, ok)

	mr.FastForward(6 * time.Second)

	ok, err = adapter.SetNX(ctx, "payment:processing:s1", []byte("1"), 5*time.Second)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisAdapter_Ping(t *testing.T) {
	adapter, _ := newTestAdapter(t)
	assert.NoError(t, adapter.Ping(context.Background()))
}

func TestRedisAdapter_InvalidURL(t *testing.T) {
	_, err := NewRedisAdapter("invalid://url")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse Redis URL")
}
