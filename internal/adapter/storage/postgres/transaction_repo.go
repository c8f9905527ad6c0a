package postgres

import (
	"context"
	"fmt"
	"time"

	"tutor-settlement/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const txColumnList = `id, transaction_type, gross_amount, fee_amount, net_amount, currency,
		source_user_id, destination_user_id, status, workflow_stage, gateway_ref,
		booking_id, enrollment_id, parent_transaction_id, refund_amount,
		scheduled_at, cancellation_deadline, payout_eligible_at, completed_at, scheduled_refund_at,
		notes, created_at, updated_at`

const paymentTypes = `('course_payment', 'booking_payment')`

// TransactionRepo implements ports.TransactionRepository.
type TransactionRepo struct {
	pool Pool
}

// NewTransactionRepo creates a new TransactionRepo.
func NewTransactionRepo(pool Pool) *TransactionRepo {
	return &TransactionRepo{pool: pool}
}

// Create inserts a new transaction within a database transaction.
func (r *TransactionRepo) Create(ctx context.Context, tx pgx.Tx, t *domain.Transaction) error {
	query := `INSERT INTO transactions (` + txColumnList + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)`

	_, err := tx.Exec(ctx, query,
		t.ID, t.Type, t.GrossAmount, t.FeeAmount, t.NetAmount, t.Currency,
		t.SourceUserID, t.DestinationUserID, t.Status, t.Stage, t.GatewayRef,
		t.BookingID, t.EnrollmentID, t.ParentTransactionID, t.RefundAmount,
		t.ScheduledAt, t.CancellationDeadline, t.PayoutEligibleAt, t.CompletedAt, t.ScheduledRefundAt,
		t.Notes, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// GetByID fetches a transaction by UUID.
func (r *TransactionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	query := `SELECT ` + txColumnList + ` FROM transactions WHERE id = $1`
	return scanTransaction(r.pool.QueryRow(ctx, query, id))
}

// GetByIDForUpdate fetches and row-locks a transaction inside tx.
func (r *TransactionRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Transaction, error) {
	query := `SELECT ` + txColumnList + ` FROM transactions WHERE id = $1 FOR UPDATE`
	return scanTransaction(tx.QueryRow(ctx, query, id))
}

// GetByGatewayRef fetches the payment recorded for a gateway transaction id.
func (r *TransactionRepo) GetByGatewayRef(ctx context.Context, ref string) (*domain.Transaction, error) {
	query := `SELECT ` + txColumnList + ` FROM transactions
		WHERE gateway_ref = $1 AND transaction_type IN ` + paymentTypes
	return scanTransaction(r.pool.QueryRow(ctx, query, ref))
}

// GetPaymentByBooking fetches the payment of a booking.
func (r *TransactionRepo) GetPaymentByBooking(ctx context.Context, bookingID uuid.UUID) (*domain.Transaction, error) {
	query := `SELECT ` + txColumnList + ` FROM transactions
		WHERE booking_id = $1 AND transaction_type = 'booking_payment'
		ORDER BY created_at DESC LIMIT 1`
	return scanTransaction(r.pool.QueryRow(ctx, query, bookingID))
}

// GetPaymentByEnrollment fetches the payment of a course enrollment.
func (r *TransactionRepo) GetPaymentByEnrollment(ctx context.Context, enrollmentID uuid.UUID) (*domain.Transaction, error) {
	query := `SELECT ` + txColumnList + ` FROM transactions
		WHERE enrollment_id = $1 AND transaction_type = 'course_payment'
		ORDER BY created_at DESC LIMIT 1`
	return scanTransaction(r.pool.QueryRow(ctx, query, enrollmentID))
}

// ListByUser returns every transaction where the user pays or receives, newest first.
func (r *TransactionRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Transaction, error) {
	query := `SELECT ` + txColumnList + ` FROM transactions
		WHERE source_user_id = $1 OR destination_user_id = $1
		ORDER BY created_at DESC`
	return queryTransactions(ctx, r.pool, query, userID)
}

// ListByBooking returns the payment of a booking and its derived payout/refund rows.
func (r *TransactionRepo) ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]domain.Transaction, error) {
	query := `SELECT ` + txColumnList + ` FROM transactions
		WHERE booking_id = $1
		ORDER BY created_at`
	return queryTransactions(ctx, r.pool, query, bookingID)
}

// Update writes the mutable columns if the stored stage still equals expectedStage.
func (r *TransactionRepo) Update(ctx context.Context, tx pgx.Tx, t *domain.Transaction, expectedStage domain.SettlementStage) (bool, error) {
	query := `UPDATE transactions SET status = $1, workflow_stage = $2, refund_amount = $3,
		payout_eligible_at = $4, completed_at = $5, scheduled_refund_at = $6, notes = $7, updated_at = $8
		WHERE id = $9 AND workflow_stage = $10`

	tag, err := tx.Exec(ctx, query,
		t.Status, t.Stage, t.RefundAmount,
		t.PayoutEligibleAt, t.CompletedAt, t.ScheduledRefundAt, t.Notes, t.UpdatedAt,
		t.ID, expectedStage,
	)
	if err != nil {
		return false, fmt.Errorf("update transaction: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// HasChild reports whether a non-failed child of childType exists for parentID.
// tx may be nil to read outside a transaction.
func (r *TransactionRepo) HasChild(ctx context.Context, tx pgx.Tx, parentID uuid.UUID, childType domain.TransactionType) (bool, error) {
	var q querier = r.pool
	if tx != nil {
		q = tx
	}

	query := `SELECT EXISTS(SELECT 1 FROM transactions
		WHERE parent_transaction_id = $1 AND transaction_type = $2 AND status <> 'failed')`

	var exists bool
	if err := q.QueryRow(ctx, query, parentID, childType).Scan(&exists); err != nil {
		return false, fmt.Errorf("check child transaction: %w", err)
	}
	return exists, nil
}

// ListPayable returns escrowed payments past their payout eligibility that have no payout yet.
func (r *TransactionRepo) ListPayable(ctx context.Context, now time.Time, limit int) ([]domain.Transaction, error) {
	query := `SELECT ` + txColumnList + ` FROM transactions t
		WHERE t.transaction_type IN ` + paymentTypes + `
		  AND t.status = 'completed'
		  AND t.workflow_stage IN ('student_to_admin', 'admin_to_teacher')
		  AND t.payout_eligible_at <= $1
		  AND NOT EXISTS (SELECT 1 FROM transactions p
		                  WHERE p.parent_transaction_id = t.id AND p.transaction_type = 'teacher_payout')
		ORDER BY t.payout_eligible_at
		LIMIT $2`
	return queryTransactions(ctx, r.pool, query, now, limit)
}

// ListDueRefunds returns cancelled payments with a positive refund whose scheduled time passed
// and that have no refund yet.
func (r *TransactionRepo) ListDueRefunds(ctx context.Context, now time.Time, limit int) ([]domain.Transaction, error) {
	query := `SELECT ` + txColumnList + ` FROM transactions t
		WHERE t.transaction_type IN ` + paymentTypes + `
		  AND t.status = 'cancelled'
		  AND t.workflow_stage = 'refund_to_student'
		  AND t.scheduled_refund_at <= $1
		  AND COALESCE(t.refund_amount, t.gross_amount) > 0
		  AND NOT EXISTS (SELECT 1 FROM transactions c
		                  WHERE c.parent_transaction_id = t.id AND c.transaction_type = 'refund')
		ORDER BY t.scheduled_refund_at
		LIMIT $2`
	return queryTransactions(ctx, r.pool, query, now, limit)
}

// GetFinanceTotals aggregates ledger totals for the finance summary.
func (r *TransactionRepo) GetFinanceTotals(ctx context.Context) (*domain.FinanceSummary, error) {
	query := `SELECT
		COALESCE(SUM(gross_amount) FILTER (WHERE transaction_type IN ` + paymentTypes + ` AND status IN ('processing', 'completed', 'cancelled')), 0) AS revenue,
		COALESCE(SUM(gross_amount) FILTER (WHERE transaction_type = 'teacher_payout' AND status = 'completed'), 0) AS payouts,
		COALESCE(SUM(gross_amount) FILTER (WHERE transaction_type = 'refund' AND status = 'completed'), 0) AS refunds,
		COALESCE(SUM(fee_amount) FILTER (WHERE transaction_type IN ` + paymentTypes + ` AND status IN ('processing', 'completed')), 0) AS fees,
		COALESCE(SUM(refund_amount) FILTER (WHERE transaction_type IN ` + paymentTypes + ` AND status = 'cancelled'
			AND NOT EXISTS (SELECT 1 FROM transactions c WHERE c.parent_transaction_id = transactions.id AND c.transaction_type = 'refund')), 0) AS pending_refunds,
		COUNT(DISTINCT source_user_id) FILTER (WHERE transaction_type IN ` + paymentTypes + ` AND status IN ('processing', 'completed', 'cancelled')) AS paying_students,
		COUNT(DISTINCT destination_user_id) FILTER (WHERE transaction_type = 'teacher_payout' AND status = 'completed') AS paid_teachers
		FROM transactions`

	s := &domain.FinanceSummary{}
	err := r.pool.QueryRow(ctx, query).Scan(
		&s.TotalRevenue, &s.TotalTeacherPayouts, &s.TotalRefunds, &s.TotalFeesCollected,
		&s.PendingRefunds, &s.PayingStudents, &s.PaidTeachers,
	)
	if err != nil {
		return nil, fmt.Errorf("get finance totals: %w", err)
	}
	return s, nil
}

func queryTransactions(ctx context.Context, q querier, query string, args ...any) ([]domain.Transaction, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	txns := []domain.Transaction{}
	for rows.Next() {
		t, err := scanTransactionFields(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction row: %w", err)
		}
		txns = append(txns, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transaction rows: %w", err)
	}
	return txns, nil
}

// scanTransaction scans a single row, returning (nil, nil) when there is none.
func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	t, err := scanTransactionFields(row)
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan transaction: %w", err)
	}
	return t, nil
}

func scanTransactionFields(row pgx.Row) (*domain.Transaction, error) {
	t := &domain.Transaction{}
	err := row.Scan(
		&t.ID, &t.Type, &t.GrossAmount, &t.FeeAmount, &t.NetAmount, &t.Currency,
		&t.SourceUserID, &t.DestinationUserID, &t.Status, &t.Stage, &t.GatewayRef,
		&t.BookingID, &t.EnrollmentID, &t.ParentTransactionID, &t.RefundAmount,
		&t.ScheduledAt, &t.CancellationDeadline, &t.PayoutEligibleAt, &t.CompletedAt, &t.ScheduledRefundAt,
		&t.Notes, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return t, nil
}
