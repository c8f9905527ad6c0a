package postgres

import (
	"context"
	"testing"
	"time"

	"tutor-settlement/internal/core/domain"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWorkflow() *domain.Workflow {
	now := time.Now().UTC().Truncate(time.Microsecond)
	next := domain.WorkflowStageWaitingPayoutDelay
	at := now.Add(time.Hour)
	return &domain.Workflow{
		ID:                      uuid.New(),
		TransactionID:           uuid.New(),
		Type:                    domain.WorkflowTypeClassBooking,
		CurrentStage:            domain.WorkflowStagePaymentReceived,
		NextStage:               &next,
		NextActionAt:            &at,
		Status:                  domain.WorkflowStatusActive,
		CancellationWindowHours: 6,
		TeacherPayoutDelayHours: 24,
		ProcessingErrors:        []string{},
		CreatedAt:               now,
		UpdatedAt:               now,
	}
}

func workflowColumns() []string {
	return []string{"id", "transaction_id", "workflow_type", "current_stage", "next_stage", "next_action_at",
		"last_processed_at", "status", "cancellation_window_hours", "teacher_payout_delay_hours",
		"processing_errors", "created_at", "updated_at"}
}

func workflowRows(wfs ...*domain.Workflow) *pgxmock.Rows {
	rows := pgxmock.NewRows(workflowColumns())
	for _, wf := range wfs {
		rows.AddRow(wf.ID, wf.TransactionID, wf.Type, wf.CurrentStage, wf.NextStage, wf.NextActionAt,
			wf.LastProcessedAt, wf.Status, wf.CancellationWindowHours, wf.TeacherPayoutDelayHours,
			wf.ProcessingErrors, wf.CreatedAt, wf.UpdatedAt)
	}
	return rows
}

func TestWorkflowRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWorkflowRepo(mock)
	wf := newTestWorkflow()
	wf.ProcessingErrors = nil

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO settlement_workflows").
		WithArgs(wf.ID, wf.TransactionID, wf.Type, wf.CurrentStage, wf.NextStage, wf.NextActionAt,
			wf.LastProcessedAt, wf.Status, 6, 24, []string{}, wf.CreatedAt, wf.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	dbTx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	assert.NoError(t, repo.Create(context.Background(), dbTx, wf))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWorkflowRepo_GetByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWorkflowRepo(mock)
	wf := newTestWorkflow()

	mock.ExpectQuery("SELECT .+ FROM settlement_workflows WHERE id").
		WithArgs(wf.ID).
		WillReturnRows(workflowRows(wf))

	result, err := repo.GetByID(context.Background(), wf.ID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, domain.WorkflowStagePaymentReceived, result.CurrentStage)
	assert.Equal(t, domain.WorkflowStageWaitingPayoutDelay, *result.NextStage)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWorkflowRepo_GetActiveByTransaction_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWorkflowRepo(mock)

	mock.ExpectQuery("SELECT .+ FROM settlement_workflows\\s+WHERE transaction_id = \\$1 AND status = 'active'").
		WithArgs(pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows(workflowColumns()))

	result, err := repo.GetActiveByTransaction(context.Background(), nil, uuid.New())
	assert.NoError(t, err)
	assert.Nil(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWorkflowRepo_ListDue(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWorkflowRepo(mock)
	now := time.Now().UTC()
	a, b := newTestWorkflow(), newTestWorkflow()
	b.ProcessingErrors = []string{"boom"}

	mock.ExpectQuery("next_action_at IS NOT NULL AND next_action_at <= \\$1").
		WithArgs(now, 100).
		WillReturnRows(workflowRows(a, b))

	result, err := repo.ListDue(context.Background(), now, 100)
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, []string{"boom"}, result[1].ProcessingErrors)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWorkflowRepo_ListActive(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWorkflowRepo(mock)

	mock.ExpectQuery("SELECT .+ FROM settlement_workflows\\s+WHERE status = 'active'").
		WithArgs(20).
		WillReturnRows(workflowRows(newTestWorkflow()))

	result, err := repo.ListActive(context.Background(), 20)
	require.NoError(t, err)
	assert.Len(t, result, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWorkflowRepo_Update_LostRace(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWorkflowRepo(mock)
	wf := newTestWorkflow()
	wf.CurrentStage = domain.WorkflowStageWaitingPayoutDelay

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE settlement_workflows SET .+ WHERE id = \\$9 AND current_stage = \\$10 AND status = 'active'").
		WithArgs(wf.CurrentStage, wf.NextStage, wf.NextActionAt, wf.LastProcessedAt, wf.Status, 24,
			[]string{}, wf.UpdatedAt, wf.ID, domain.WorkflowStagePaymentReceived).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	dbTx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	ok, err := repo.Update(context.Background(), dbTx, wf, domain.WorkflowStagePaymentReceived)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}
