package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEventCache(t *testing.T) (*GatewayEventCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewGatewayEventCache(client), mr
}

func TestGatewayEventCache_MissThenHit(t *testing.T) {
	cache, mr := newEventCache(t)
	ctx := context.Background()
	outcome := []byte(`{"outcome":"recorded","transaction_id":"8d1c"}`)

	got, err := cache.Get(ctx, "payment:ch_001")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, cache.Set(ctx, "payment:ch_001", outcome, 72*time.Hour))

	got, err = cache.Get(ctx, "payment:ch_001")
	require.NoError(t, err)
	assert.JSONEq(t, string(outcome), string(got))
	assert.True(t, mr.Exists("gateway_event:payment:ch_001"))
	assert.Equal(t, 72*time.Hour, mr.TTL("gateway_event:payment:ch_001"))
}

func TestGatewayEventCache_KindsDoNotCollide(t *testing.T) {
	cache, _ := newEventCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "payment:ch_002", []byte("payment"), time.Hour))
	require.NoError(t, cache.Set(ctx, "refund:ch_002", []byte("refund"), time.Hour))

	p, err := cache.Get(ctx, "payment:ch_002")
	require.NoError(t, err)
	r, err := cache.Get(ctx, "refund:ch_002")
	require.NoError(t, err)
	assert.Equal(t, "payment", string(p))
	assert.Equal(t, "refund", string(r))
}

func TestGatewayEventCache_Expires(t *testing.T) {
	cache, mr := newEventCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "payment:ch_003", []byte("x"), time.Minute))
	mr.FastForward(2 * time.Minute)

	got, err := cache.Get(ctx, "payment:ch_003")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestGatewayEventCache_BackendError(t *testing.T) {
	cache, mr := newEventCache(t)
	ctx := context.Background()
	mr.SetError("ERR backend unavailable")

	_, err := cache.Get(ctx, "payment:ch_004")
	assert.ErrorContains(t, err, "gateway event get")
	assert.ErrorContains(t, cache.Set(ctx, "payment:ch_004", []byte("x"), time.Hour), "gateway event set")
}
