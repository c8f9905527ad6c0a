package postgres

import (
	"context"
	"fmt"
	"time"

	"tutor-settlement/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const workflowColumnList = `id, transaction_id, workflow_type, current_stage, next_stage, next_action_at,
		last_processed_at, status, cancellation_window_hours, teacher_payout_delay_hours,
		processing_errors, created_at, updated_at`

// WorkflowRepo implements ports.WorkflowRepository.
type WorkflowRepo struct {
	pool Pool
}

// NewWorkflowRepo creates a new WorkflowRepo.
func NewWorkflowRepo(pool Pool) *WorkflowRepo {
	return &WorkflowRepo{pool: pool}
}

// Create inserts a workflow. The partial unique index rejects a second active
// workflow for the same transaction.
func (r *WorkflowRepo) Create(ctx context.Context, tx pgx.Tx, wf *domain.Workflow) error {
	query := `INSERT INTO settlement_workflows (` + workflowColumnList + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := tx.Exec(ctx, query,
		wf.ID, wf.TransactionID, wf.Type, wf.CurrentStage, wf.NextStage, wf.NextActionAt,
		wf.LastProcessedAt, wf.Status, wf.CancellationWindowHours, wf.TeacherPayoutDelayHours,
		errorsOrEmpty(wf.ProcessingErrors), wf.CreatedAt, wf.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert workflow: %w", err)
	}
	return nil
}

// GetByID fetches a workflow by UUID.
func (r *WorkflowRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Workflow, error) {
	query := `SELECT ` + workflowColumnList + ` FROM settlement_workflows WHERE id = $1`
	return scanWorkflow(r.pool.QueryRow(ctx, query, id))
}

// GetActiveByTransaction fetches the active workflow of a transaction. tx may be nil.
func (r *WorkflowRepo) GetActiveByTransaction(ctx context.Context, tx pgx.Tx, transactionID uuid.UUID) (*domain.Workflow, error) {
	var q querier = r.pool
	if tx != nil {
		q = tx
	}
	query := `SELECT ` + workflowColumnList + ` FROM settlement_workflows
		WHERE transaction_id = $1 AND status = 'active'`
	return scanWorkflow(q.QueryRow(ctx, query, transactionID))
}

// ListActive returns active workflows, oldest first.
func (r *WorkflowRepo) ListActive(ctx context.Context, limit int) ([]domain.Workflow, error) {
	query := `SELECT ` + workflowColumnList + ` FROM settlement_workflows
		WHERE status = 'active'
		ORDER BY created_at
		LIMIT $1`
	return r.query(ctx, query, limit)
}

// ListDue returns active workflows whose next action has arrived.
func (r *WorkflowRepo) ListDue(ctx context.Context, now time.Time, limit int) ([]domain.Workflow, error) {
	query := `SELECT ` + workflowColumnList + ` FROM settlement_workflows
		WHERE status = 'active' AND next_action_at IS NOT NULL AND next_action_at <= $1
		ORDER BY next_action_at
		LIMIT $2`
	return r.query(ctx, query, now, limit)
}

// Update stores wf if the row is still active at expectedStage.
func (r *WorkflowRepo) Update(ctx context.Context, tx pgx.Tx, wf *domain.Workflow, expectedStage domain.WorkflowStage) (bool, error) {
	query := `UPDATE settlement_workflows SET current_stage = $1, next_stage = $2, next_action_at = $3,
		last_processed_at = $4, status = $5, teacher_payout_delay_hours = $6, processing_errors = $7, updated_at = $8
		WHERE id = $9 AND current_stage = $10 AND status = 'active'`

	tag, err := tx.Exec(ctx, query,
		wf.CurrentStage, wf.NextStage, wf.NextActionAt,
		wf.LastProcessedAt, wf.Status, wf.TeacherPayoutDelayHours, errorsOrEmpty(wf.ProcessingErrors), wf.UpdatedAt,
		wf.ID, expectedStage,
	)
	if err != nil {
		return false, fmt.Errorf("update workflow: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *WorkflowRepo) query(ctx context.Context, query string, args ...any) ([]domain.Workflow, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list workflows: %w", err)
	}
	defer rows.Close()

	workflows := []domain.Workflow{}
	for rows.Next() {
		wf, err := scanWorkflowFields(rows)
		if err != nil {
			return nil, fmt.Errorf("scan workflow row: %w", err)
		}
		workflows = append(workflows, *wf)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate workflow rows: %w", err)
	}
	return workflows, nil
}

func scanWorkflow(row pgx.Row) (*domain.Workflow, error) {
	wf, err := scanWorkflowFields(row)
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan workflow: %w", err)
	}
	return wf, nil
}

func scanWorkflowFields(row pgx.Row) (*domain.Workflow, error) {
	wf := &domain.Workflow{}
	err := row.Scan(
		&wf.ID, &wf.TransactionID, &wf.Type, &wf.CurrentStage, &wf.NextStage, &wf.NextActionAt,
		&wf.LastProcessedAt, &wf.Status, &wf.CancellationWindowHours, &wf.TeacherPayoutDelayHours,
		&wf.ProcessingErrors, &wf.CreatedAt, &wf.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if wf.ProcessingErrors == nil {
		wf.ProcessingErrors = []string{}
	}
	return wf, nil
}

// errorsOrEmpty keeps the NOT NULL processing_errors column from receiving NULL.
func errorsOrEmpty(errs []string) []string {
	if errs == nil {
		return []string{}
	}
	return errs
}
