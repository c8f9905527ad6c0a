package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// GatewayEventCache implements ports.GatewayEventCache using Redis.
// Keys are gateway event keys such as "payment:<gateway id>".
type GatewayEventCache struct {
	client *goredis.Client
	prefix string
}

// NewGatewayEventCache creates a new Redis-backed gateway event cache.
func NewGatewayEventCache(client *goredis.Client) *GatewayEventCache {
	return &GatewayEventCache{
		client: client,
		prefix: "gateway_event:",
	}
}

// Get retrieves the acknowledged result of a processed event.
// Returns nil, nil if the event was not seen.
func (c *GatewayEventCache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis gateway event get: %w", err)
	}
	return val, nil
}

// Set remembers the result of a processed event for ttl.
func (c *GatewayEventCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.prefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis gateway event set: %w", err)
	}
	return nil
}
