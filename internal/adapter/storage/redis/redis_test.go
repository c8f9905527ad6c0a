package redis

import (
	"context"
	"strconv"
	"testing"
	"time"

	"tutor-settlement/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func configFor(t *testing.T, mr *miniredis.Miniredis) config.RedisConfig {
	t.Helper()
	cfg := config.RedisConfig{Host: mr.Host(), PoolSize: 4, DialTimeout: time.Second}
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)
	cfg.Port = port
	return cfg
}

func TestOptions_MapsConfig(t *testing.T) {
	opts := options(config.RedisConfig{
		Host:         "redis.example.com",
		Port:         6380,
		Password:     "pw",
		DB:           2,
		PoolSize:     30,
		ReadTimeout:  time.Second,
		WriteTimeout: 3 * time.Second,
	})

	assert.Equal(t, "redis.example.com:6380", opts.Addr)
	assert.Equal(t, "pw", opts.Password)
	assert.Equal(t, 2, opts.DB)
	assert.Equal(t, 30, opts.PoolSize)
	assert.Equal(t, time.Second, opts.ReadTimeout)
	assert.Equal(t, 3*time.Second, opts.WriteTimeout)
}

func TestNewClient_Connects(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewClient(context.Background(), configFor(t, mr), zerolog.Nop())
	require.NoError(t, err)
	defer client.Close()

	assert.NoError(t, client.Set(context.Background(), "k", "v", 0).Err())
	got, err := mr.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}

func TestNewClient_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := configFor(t, mr)
	mr.Close()

	client, err := NewClient(context.Background(), cfg, zerolog.Nop())
	assert.Error(t, err)
	assert.Nil(t, client)
	assert.Contains(t, err.Error(), cfg.Addr())
}

func TestHealthCheck(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := NewClient(context.Background(), configFor(t, mr), zerolog.Nop())
	require.NoError(t, err)
	defer client.Close()

	hc := NewHealthCheck(client)
	assert.Equal(t, "redis", hc.Name())
	require.NoError(t, hc.Ping(context.Background()))
	assert.True(t, mr.Exists(healthWriteKey))

	mr.SetError("LOADING Redis is loading the dataset in memory")
	assert.Error(t, hc.Ping(context.Background()))
	mr.SetError("")
	assert.NoError(t, hc.Ping(context.Background()))
}
