package service

import (
	"context"
	"time"

	"tutor-settlement/internal/core/domain"
	"tutor-settlement/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// CachedLedger decorates a ports.Ledger with a Redis cache for list reads.
// Cache failures are logged and fall through to the inner ledger.
type CachedLedger struct {
	ports.Ledger
	cache ports.LedgerCache
	ttl   time.Duration
	log   zerolog.Logger
}

// NewCachedLedger wraps inner. A zero ttl defaults to one minute.
func NewCachedLedger(inner ports.Ledger, cache ports.LedgerCache, ttl time.Duration, log zerolog.Logger) *CachedLedger {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &CachedLedger{Ledger: inner, cache: cache, ttl: ttl, log: log}
}

func userCacheKey(id uuid.UUID) string    { return "user:" + id.String() }
func bookingCacheKey(id uuid.UUID) string { return "booking:" + id.String() }

func (c *CachedLedger) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Transaction, error) {
	return c.cachedList(ctx, userCacheKey(userID), func() ([]domain.Transaction, error) {
		return c.Ledger.ListByUser(ctx, userID)
	})
}

func (c *CachedLedger) ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]domain.Transaction, error) {
	return c.cachedList(ctx, bookingCacheKey(bookingID), func() ([]domain.Transaction, error) {
		return c.Ledger.ListByBooking(ctx, bookingID)
	})
}

func (c *CachedLedger) CreateTransaction(ctx context.Context, dbTx pgx.Tx, t *domain.Transaction) (*domain.Transaction, error) {
	created, err := c.Ledger.CreateTransaction(ctx, dbTx, t)
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx, created)
	return created, nil
}

func (c *CachedLedger) UpdateStatus(ctx context.Context, dbTx pgx.Tx, req ports.StatusUpdate) (*domain.Transaction, error) {
	t, err := c.Ledger.UpdateStatus(ctx, dbTx, req)
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx, t)
	return t, nil
}

func (c *CachedLedger) MarkScheduledRefund(ctx context.Context, dbTx pgx.Tx, req ports.ScheduledRefund) (*domain.Transaction, error) {
	t, err := c.Ledger.MarkScheduledRefund(ctx, dbTx, req)
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx, t)
	return t, nil
}

func (c *CachedLedger) ApplySettlementStep(ctx context.Context, dbTx pgx.Tx, before, after *domain.Transaction) (bool, error) {
	ok, err := c.Ledger.ApplySettlementStep(ctx, dbTx, before, after)
	if err != nil || !ok {
		return ok, err
	}
	c.invalidate(ctx, after)
	return true, nil
}

func (c *CachedLedger) cachedList(ctx context.Context, key string, load func() ([]domain.Transaction, error)) ([]domain.Transaction, error) {
	txns, hit, err := c.cache.GetList(ctx, key)
	if err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("ledger cache read failed, falling through to DB")
	}
	if hit {
		return txns, nil
	}

	txns, err = load()
	if err != nil {
		return nil, err
	}
	if err := c.cache.SetList(ctx, key, txns, c.ttl); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("ledger cache write failed")
	}
	return txns, nil
}

func (c *CachedLedger) invalidate(ctx context.Context, t *domain.Transaction) {
	var keys []string
	if t.SourceUserID != nil {
		keys = append(keys, userCacheKey(*t.SourceUserID))
	}
	if t.DestinationUserID != nil {
		keys = append(keys, userCacheKey(*t.DestinationUserID))
	}
	if t.BookingID != nil {
		keys = append(keys, bookingCacheKey(*t.BookingID))
	}
	if len(keys) == 0 {
		return
	}
	if err := c.cache.Invalidate(ctx, keys...); err != nil {
		c.log.Warn().Err(err).Strs("keys", keys).Msg("ledger cache invalidation failed")
	}
}
