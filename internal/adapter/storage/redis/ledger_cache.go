package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"tutor-settlement/internal/core/domain"

	goredis "github.com/redis/go-redis/v9"
)

// LedgerCache implements ports.LedgerCache, storing transaction lists as JSON.
type LedgerCache struct {
	client *goredis.Client
	prefix string
}

// NewLedgerCache creates a new Redis-backed ledger list cache.
func NewLedgerCache(client *goredis.Client) *LedgerCache {
	return &LedgerCache{
		client: client,
		prefix: "ledger:",
	}
}

// GetList returns the cached list for key. The bool is false on a miss.
func (c *LedgerCache) GetList(ctx context.Context, key string) ([]domain.Transaction, bool, error) {
	raw, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis ledger get: %w", err)
	}

	var txns []domain.Transaction
	if err := json.Unmarshal(raw, &txns); err != nil {
		return nil, false, fmt.Errorf("decode cached ledger: %w", err)
	}
	return txns, true, nil
}

// SetList caches txns under key for ttl.
func (c *LedgerCache) SetList(ctx context.Context, key string, txns []domain.Transaction, ttl time.Duration) error {
	if txns == nil {
		txns = []domain.Transaction{}
	}
	raw, err := json.Marshal(txns)
	if err != nil {
		return fmt.Errorf("encode ledger: %w", err)
	}
	if err := c.client.Set(ctx, c.prefix+key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("redis ledger set: %w", err)
	}
	return nil
}

// Invalidate drops the cached lists for keys.
func (c *LedgerCache) Invalidate(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = c.prefix + k
	}
	if err := c.client.Del(ctx, full...).Err(); err != nil {
		return fmt.Errorf("redis ledger invalidate: %w", err)
	}
	return nil
}
