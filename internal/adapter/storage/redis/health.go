package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const healthWriteKey = "tse:health:write"

// HealthCheck implements ports.HealthChecker for Redis.
//
// A ping alone passes against a read-only replica, so the check also writes a
// short-lived key: workflow locks and gateway dedup both need a writable node.
type HealthCheck struct {
	client *goredis.Client
}

// NewHealthCheck creates a Redis health checker.
func NewHealthCheck(client *goredis.Client) *HealthCheck {
	return &HealthCheck{client: client}
}

// Ping checks that Redis is reachable and accepts writes.
func (h *HealthCheck) Ping(ctx context.Context) error {
	if err := h.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	if err := h.client.Set(ctx, healthWriteKey, time.Now().Unix(), 10*time.Second).Err(); err != nil {
		return fmt.Errorf("write check: %w", err)
	}
	return nil
}

// Name returns the dependency name.
func (h *HealthCheck) Name() string {
	return "redis"
}
