package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"tutor-settlement/internal/core/domain"
	"tutor-settlement/internal/core/ports"
	"tutor-settlement/internal/core/ports/mocks"
	"tutor-settlement/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func setupLedger(t *testing.T) (*LedgerService, *mocks.MockTransactionRepository) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockTransactionRepository(ctrl)
	return NewLedgerService(repo, zerolog.Nop()), repo
}

// ==================== CreateTransaction ====================

func TestLedger_CreateTransaction_Success(t *testing.T) {
	svc, repo := setupLedger(t)
	ctx := context.Background()
	tx := &mockTx{}

	payment := newPayment()
	payment.ID = uuid.Nil
	repo.EXPECT().Create(ctx, tx, payment).Return(nil)

	result, err := svc.CreateTransaction(ctx, tx, payment)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, result.ID)
}

func TestLedger_CreateTransaction_RejectsBadSplit(t *testing.T) {
	svc, _ := setupLedger(t)

	payment := newPayment()
	payment.NetAmount = dec("99.00")

	_, err := svc.CreateTransaction(context.Background(), &mockTx{}, payment)
	assertAppError(t, err, "PAY_008")
}

func TestLedger_CreateTransaction_RejectsMissingParties(t *testing.T) {
	svc, _ := setupLedger(t)

	payment := newPayment()
	payment.SourceUserID = nil

	_, err := svc.CreateTransaction(context.Background(), &mockTx{}, payment)
	assertAppError(t, err, "PAY_008")
}

func TestLedger_CreateTransaction_RepoError(t *testing.T) {
	svc, repo := setupLedger(t)
	ctx := context.Background()
	tx := &mockTx{}

	repo.EXPECT().Create(ctx, tx, gomock.Any()).Return(errors.New("connection reset"))

	_, err := svc.CreateTransaction(ctx, tx, newPayment())
	assertAppError(t, err, apperror.CodeInternal)
}

// ==================== Reads ====================

func TestLedger_GetTransaction_NotFoundIsNil(t *testing.T) {
	svc, repo := setupLedger(t)
	id := uuid.New()
	repo.EXPECT().GetByID(gomock.Any(), id).Return(nil, nil)

	result, err := svc.GetTransaction(context.Background(), id)
	assert.NoError(t, err)
	assert.Nil(t, result)
}

func TestLedger_ListByUser_Empty(t *testing.T) {
	svc, repo := setupLedger(t)
	id := uuid.New()
	repo.EXPECT().ListByUser(gomock.Any(), id).Return([]domain.Transaction{}, nil)

	result, err := svc.ListByUser(context.Background(), id)
	require.NoError(t, err)
	assert.NotNil(t, result)
	assert.Empty(t, result)
}

// ==================== UpdateStatus ====================

func TestLedger_UpdateStatus_Forward(t *testing.T) {
	svc, repo := setupLedger(t)
	ctx := context.Background()
	tx := &mockTx{}

	pending := newPayment()
	pending.Status = domain.TransactionStatusPending
	repo.EXPECT().GetByIDForUpdate(ctx, tx, pending.ID).Return(pending, nil)
	repo.EXPECT().Update(ctx, tx, pending, domain.StageStudentToAdmin).Return(true, nil)

	result, err := svc.UpdateStatus(ctx, tx, ports.StatusUpdate{
		TransactionID: pending.ID,
		Status:        domain.TransactionStatusProcessing,
		Now:           testNow,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionStatusProcessing, result.Status)
	assert.Nil(t, result.CompletedAt)
}

func TestLedger_UpdateStatus_CompletedStampsCompletedAt(t *testing.T) {
	svc, repo := setupLedger(t)
	ctx := context.Background()
	tx := &mockTx{}

	processing := newPayment()
	processing.Status = domain.TransactionStatusProcessing
	stage := domain.StageAdminToTeacher
	repo.EXPECT().GetByIDForUpdate(ctx, tx, processing.ID).Return(processing, nil)
	repo.EXPECT().Update(ctx, tx, gomock.Any(), domain.StageStudentToAdmin).Return(true, nil)

	result, err := svc.UpdateStatus(ctx, tx, ports.StatusUpdate{
		TransactionID: processing.ID,
		Status:        domain.TransactionStatusCompleted,
		Stage:         &stage,
		Now:           testNow,
	})
	require.NoError(t, err)
	require.NotNil(t, result.CompletedAt)
	assert.Equal(t, testNow, *result.CompletedAt)
	assert.Equal(t, domain.StageAdminToTeacher, result.Stage)
}

func TestLedger_UpdateStatus_RegressionRejected(t *testing.T) {
	svc, repo := setupLedger(t)
	ctx := context.Background()
	tx := &mockTx{}

	completed := newPayment()
	repo.EXPECT().GetByIDForUpdate(ctx, tx, completed.ID).Return(completed, nil)
	// No Update expected: a rejected transition writes nothing.

	_, err := svc.UpdateStatus(ctx, tx, ports.StatusUpdate{
		TransactionID: completed.ID,
		Status:        domain.TransactionStatusPending,
		Now:           testNow,
	})
	assertAppError(t, err, apperror.CodeInvalidTransition)
}

func TestLedger_UpdateStatus_NotFound(t *testing.T) {
	svc, repo := setupLedger(t)
	ctx := context.Background()
	tx := &mockTx{}
	id := uuid.New()

	repo.EXPECT().GetByIDForUpdate(ctx, tx, id).Return(nil, nil)

	_, err := svc.UpdateStatus(ctx, tx, ports.StatusUpdate{TransactionID: id, Status: domain.TransactionStatusFailed})
	assertAppError(t, err, apperror.CodeNotFound)
}

func TestLedger_UpdateStatus_LostRace(t *testing.T) {
	svc, repo := setupLedger(t)
	ctx := context.Background()
	tx := &mockTx{}

	pending := newPayment()
	pending.Status = domain.TransactionStatusPending
	repo.EXPECT().GetByIDForUpdate(ctx, tx, pending.ID).Return(pending, nil)
	repo.EXPECT().Update(ctx, tx, gomock.Any(), domain.StageStudentToAdmin).Return(false, nil)

	_, err := svc.UpdateStatus(ctx, tx, ports.StatusUpdate{
		TransactionID: pending.ID,
		Status:        domain.TransactionStatusFailed,
		Now:           testNow,
	})
	assertAppError(t, err, apperror.CodeInvalidTransition)
}

// ==================== MarkScheduledRefund ====================

func TestLedger_MarkScheduledRefund_Success(t *testing.T) {
	svc, repo := setupLedger(t)
	ctx := context.Background()
	tx := &mockTx{}

	payment := newPayment()
	refundAt := testNow.Add(48 * time.Hour)
	repo.EXPECT().GetByIDForUpdate(ctx, tx, payment.ID).Return(payment, nil)
	repo.EXPECT().Update(ctx, tx, gomock.Any(), domain.StageStudentToAdmin).Return(true, nil)

	result, err := svc.MarkScheduledRefund(ctx, tx, ports.ScheduledRefund{
		TransactionID: payment.ID,
		RefundAt:      refundAt,
		Amount:        dec("100.00"),
		Note:          "booking cancelled",
		Now:           testNow,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionStatusCancelled, result.Status)
	assert.Equal(t, domain.StageRefundToStudent, result.Stage)
	require.NotNil(t, result.ScheduledRefundAt)
	assert.Equal(t, refundAt, *result.ScheduledRefundAt)
	assert.True(t, result.RefundAmount.Valid)
	assert.True(t, result.RefundAmount.Decimal.Equal(dec("100.00")))
	assert.Contains(t, result.Notes, "booking cancelled")
}

func TestLedger_MarkScheduledRefund_AfterDisbursement(t *testing.T) {
	svc, repo := setupLedger(t)
	ctx := context.Background()
	tx := &mockTx{}

	paid := newPayment()
	paid.Stage = domain.StageCompleted
	repo.EXPECT().GetByIDForUpdate(ctx, tx, paid.ID).Return(paid, nil)

	_, err := svc.MarkScheduledRefund(ctx, tx, ports.ScheduledRefund{
		TransactionID: paid.ID, Amount: dec("10.00"), Now: testNow,
	})
	assertAppError(t, err, apperror.CodeInvalidTransition)
}

func TestLedger_MarkScheduledRefund_AlreadyCancelled(t *testing.T) {
	svc, repo := setupLedger(t)
	ctx := context.Background()
	tx := &mockTx{}

	cancelled := newPayment()
	cancelled.Status = domain.TransactionStatusCancelled
	repo.EXPECT().GetByIDForUpdate(ctx, tx, cancelled.ID).Return(cancelled, nil)

	_, err := svc.MarkScheduledRefund(ctx, tx, ports.ScheduledRefund{
		TransactionID: cancelled.ID, Amount: dec("10.00"), Now: testNow,
	})
	assertAppError(t, err, apperror.CodeInvalidTransition)
}

func TestLedger_MarkScheduledRefund_ExceedsGross(t *testing.T) {
	svc, repo := setupLedger(t)
	ctx := context.Background()
	tx := &mockTx{}

	payment := newPayment()
	repo.EXPECT().GetByIDForUpdate(ctx, tx, payment.ID).Return(payment, nil)

	_, err := svc.MarkScheduledRefund(ctx, tx, ports.ScheduledRefund{
		TransactionID: payment.ID, Amount: dec("100.01"), Now: testNow,
	})
	assertAppError(t, err, "PAY_007")
}

// ==================== ApplySettlementStep ====================

func TestLedger_ApplySettlementStep_ReleaseToTeacher(t *testing.T) {
	svc, repo := setupLedger(t)
	ctx := context.Background()
	tx := &mockTx{}

	before := newPayment()
	after := *before
	after.Status = domain.TransactionStatusProcessing
	after.Stage = domain.StageAdminToTeacher
	repo.EXPECT().Update(ctx, tx, &after, domain.StageStudentToAdmin).Return(true, nil)

	ok, err := svc.ApplySettlementStep(ctx, tx, before, &after)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLedger_ApplySettlementStep_RejectsStageRegression(t *testing.T) {
	svc, _ := setupLedger(t)

	before := newPayment()
	before.Stage = domain.StageCompleted
	after := *before
	after.Stage = domain.StageAdminToTeacher

	_, err := svc.ApplySettlementStep(context.Background(), &mockTx{}, before, &after)
	assertAppError(t, err, apperror.CodeInvalidTransition)
}

func TestLedger_ApplySettlementStep_RejectsStatusRegression(t *testing.T) {
	svc, _ := setupLedger(t)

	before := newPayment()
	after := *before
	after.Status = domain.TransactionStatusPending

	_, err := svc.ApplySettlementStep(context.Background(), &mockTx{}, before, &after)
	assertAppError(t, err, apperror.CodeInvalidTransition)
}

func TestLedger_ApplySettlementStep_LostRace(t *testing.T) {
	svc, repo := setupLedger(t)
	ctx := context.Background()
	tx := &mockTx{}

	before := newPayment()
	eligible := testNow
	after := *before
	after.PayoutEligibleAt = &eligible
	repo.EXPECT().Update(ctx, tx, &after, domain.StageStudentToAdmin).Return(false, nil)

	ok, err := svc.ApplySettlementStep(ctx, tx, before, &after)
	require.NoError(t, err)
	assert.False(t, ok)
}
