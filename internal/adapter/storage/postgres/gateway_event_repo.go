package postgres

import (
	"context"
	"fmt"

	"tutor-settlement/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// GatewayEventRepo implements ports.GatewayEventRepository.
type GatewayEventRepo struct {
	pool Pool
}

// NewGatewayEventRepo creates a new GatewayEventRepo.
func NewGatewayEventRepo(pool Pool) *GatewayEventRepo {
	return &GatewayEventRepo{pool: pool}
}

// Create inserts an event log within a database transaction. The primary key
// on event_key rejects a concurrent second delivery at commit.
func (r *GatewayEventRepo) Create(ctx context.Context, tx pgx.Tx, e *domain.GatewayEventLog) error {
	query := `INSERT INTO gateway_events (event_key, transaction_id, response_json, created_at)
		VALUES ($1, $2, $3, $4)`

	_, err := tx.Exec(ctx, query, e.Key, e.TransactionID, e.ResponseJSON, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert gateway event: %w", err)
	}
	return nil
}

// Get fetches an event log by key.
func (r *GatewayEventRepo) Get(ctx context.Context, key string) (*domain.GatewayEventLog, error) {
	query := `SELECT event_key, transaction_id, response_json, created_at FROM gateway_events WHERE event_key = $1`

	e := &domain.GatewayEventLog{}
	err := r.pool.QueryRow(ctx, query, key).Scan(&e.Key, &e.TransactionID, &e.ResponseJSON, &e.CreatedAt)
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get gateway event: %w", err)
	}
	return e, nil
}
