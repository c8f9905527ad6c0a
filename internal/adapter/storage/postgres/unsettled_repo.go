package postgres

import (
	"context"
	"fmt"

	"tutor-settlement/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

const unsettledColumnList = `id, gateway_ref, conflict_type, amount, currency, description, status,
		resolution_action, resolution_amount, resolution_notes, resolved_at, created_at`

// UnsettledRepo implements ports.UnsettledFinanceRepository.
type UnsettledRepo struct {
	pool Pool
}

// NewUnsettledRepo creates a new UnsettledRepo.
func NewUnsettledRepo(pool Pool) *UnsettledRepo {
	return &UnsettledRepo{pool: pool}
}

// Create inserts an exception record outside any caller transaction.
func (r *UnsettledRepo) Create(ctx context.Context, u *domain.UnsettledFinance) error {
	return insertUnsettled(ctx, r.pool, u)
}

// CreateTx inserts an exception record inside tx, so it commits or rolls back
// together with the caller's bookkeeping.
func (r *UnsettledRepo) CreateTx(ctx context.Context, tx pgx.Tx, u *domain.UnsettledFinance) error {
	return insertUnsettled(ctx, tx, u)
}

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func insertUnsettled(ctx context.Context, db execer, u *domain.UnsettledFinance) error {
	query := `INSERT INTO unsettled_finances (` + unsettledColumnList + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := db.Exec(ctx, query,
		u.ID, u.GatewayRef, u.ConflictType, u.Amount, u.Currency, u.Description, u.Status,
		u.ResolutionAction, u.ResolutionAmount, u.ResolutionNotes, u.ResolvedAt, u.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert unsettled finance: %w", err)
	}
	return nil
}

// GetByID fetches a record by UUID.
func (r *UnsettledRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.UnsettledFinance, error) {
	query := `SELECT ` + unsettledColumnList + ` FROM unsettled_finances WHERE id = $1`
	u, err := scanUnsettled(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get unsettled finance: %w", err)
	}
	return u, nil
}

// ListByStatus returns records newest first; a nil status lists everything.
func (r *UnsettledRepo) ListByStatus(ctx context.Context, status *domain.UnsettledStatus) ([]domain.UnsettledFinance, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if status != nil {
		rows, err = r.pool.Query(ctx, `SELECT `+unsettledColumnList+` FROM unsettled_finances
			WHERE status = $1 ORDER BY created_at DESC`, *status)
	} else {
		rows, err = r.pool.Query(ctx, `SELECT `+unsettledColumnList+` FROM unsettled_finances
			ORDER BY created_at DESC`)
	}
	if err != nil {
		return nil, fmt.Errorf("list unsettled finances: %w", err)
	}
	defer rows.Close()

	items := []domain.UnsettledFinance{}
	for rows.Next() {
		u, err := scanUnsettled(rows)
		if err != nil {
			return nil, fmt.Errorf("scan unsettled finance row: %w", err)
		}
		items = append(items, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate unsettled finance rows: %w", err)
	}
	return items, nil
}

// Resolve writes the resolution while the row is still open.
func (r *UnsettledRepo) Resolve(ctx context.Context, u *domain.UnsettledFinance) (bool, error) {
	query := `UPDATE unsettled_finances SET status = $1, resolution_action = $2, resolution_amount = $3,
		resolution_notes = $4, resolved_at = $5
		WHERE id = $6 AND status = 'open'`

	tag, err := r.pool.Exec(ctx, query,
		u.Status, u.ResolutionAction, u.ResolutionAmount, u.ResolutionNotes, u.ResolvedAt, u.ID,
	)
	if err != nil {
		return false, fmt.Errorf("resolve unsettled finance: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// SumOpen totals the amount of every open record.
func (r *UnsettledRepo) SumOpen(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM unsettled_finances WHERE status = 'open'`,
	).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum open unsettled finances: %w", err)
	}
	return total, nil
}

func scanUnsettled(row pgx.Row) (*domain.UnsettledFinance, error) {
	u := &domain.UnsettledFinance{}
	err := row.Scan(
		&u.ID, &u.GatewayRef, &u.ConflictType, &u.Amount, &u.Currency, &u.Description, &u.Status,
		&u.ResolutionAction, &u.ResolutionAmount, &u.ResolutionNotes, &u.ResolvedAt, &u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return u, nil
}
