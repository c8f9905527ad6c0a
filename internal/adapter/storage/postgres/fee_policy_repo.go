package postgres

import (
	"context"
	"fmt"

	"tutor-settlement/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

const feePolicyColumnList = `id, fee_percentage, minimum_fee, maximum_fee, teacher_payout_wait_hours,
		is_active, description, created_at`

// FeePolicyRepo implements ports.FeePolicyRepository.
type FeePolicyRepo struct {
	pool Pool
}

// NewFeePolicyRepo creates a new FeePolicyRepo.
func NewFeePolicyRepo(pool Pool) *FeePolicyRepo {
	return &FeePolicyRepo{pool: pool}
}

// GetActive returns the active policy, or nil when none is stored.
func (r *FeePolicyRepo) GetActive(ctx context.Context) (*domain.FeePolicy, error) {
	query := `SELECT ` + feePolicyColumnList + ` FROM fee_policies WHERE is_active LIMIT 1`
	p, err := scanFeePolicy(r.pool.QueryRow(ctx, query))
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get active fee policy: %w", err)
	}
	return p, nil
}

// List returns every policy, newest first.
func (r *FeePolicyRepo) List(ctx context.Context) ([]domain.FeePolicy, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+feePolicyColumnList+` FROM fee_policies ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list fee policies: %w", err)
	}
	defer rows.Close()

	policies := []domain.FeePolicy{}
	for rows.Next() {
		p, err := scanFeePolicy(rows)
		if err != nil {
			return nil, fmt.Errorf("scan fee policy row: %w", err)
		}
		policies = append(policies, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate fee policy rows: %w", err)
	}
	return policies, nil
}

// Create deactivates the current policy and inserts p as active in the same transaction.
func (r *FeePolicyRepo) Create(ctx context.Context, tx pgx.Tx, p *domain.FeePolicy) error {
	if _, err := tx.Exec(ctx, `UPDATE fee_policies SET is_active = false WHERE is_active`); err != nil {
		return fmt.Errorf("deactivate fee policies: %w", err)
	}

	query := `INSERT INTO fee_policies (` + feePolicyColumnList + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := tx.Exec(ctx, query,
		p.ID, p.FeePercentage, p.MinimumFee, p.MaximumFee, p.PayoutWaitHours,
		p.IsActive, p.Description, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert fee policy: %w", err)
	}
	return nil
}

func scanFeePolicy(row pgx.Row) (*domain.FeePolicy, error) {
	p := &domain.FeePolicy{}
	err := row.Scan(
		&p.ID, &p.FeePercentage, &p.MinimumFee, &p.MaximumFee, &p.PayoutWaitHours,
		&p.IsActive, &p.Description, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}
