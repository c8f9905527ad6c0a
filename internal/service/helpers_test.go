package service

import (
	"context"
	"io"
	"testing"
	"time"

	"tutor-settlement/internal/core/domain"
	"tutor-settlement/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockTx implements pgx.Tx for testing
type mockTx struct{ pgx.Tx }

func (m *mockTx) Rollback(_ context.Context) error { return nil }
func (m *mockTx) Commit(_ context.Context) error   { return nil }

func newTestLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

func assertAppError(t *testing.T, err error, expectedCode string) {
	t.Helper()
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, expectedCode, appErr.Code)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

var testNow = time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

func testSettings() Settings {
	s := DefaultSettings()
	s.Workers = 2
	return s
}

// newPayment returns a completed booking payment held in escrow.
func newPayment() *domain.Transaction {
	student, teacher, booking := uuid.New(), uuid.New(), uuid.New()
	ref := "ch_" + uuid.NewString()[:8]
	return &domain.Transaction{
		ID:                uuid.New(),
		Type:              domain.TransactionTypeBookingPayment,
		GrossAmount:       dec("100.00"),
		FeeAmount:         dec("2.00"),
		NetAmount:         dec("98.00"),
		Currency:          "USD",
		SourceUserID:      &student,
		DestinationUserID: &teacher,
		Status:            domain.TransactionStatusCompleted,
		Stage:             domain.StageStudentToAdmin,
		GatewayRef:        &ref,
		BookingID:         &booking,
		CreatedAt:         testNow.Add(-72 * time.Hour),
		UpdatedAt:         testNow.Add(-72 * time.Hour),
	}
}

// payablePayment returns a payment whose workflow finished and whose payout is due.
func payablePayment() *domain.Transaction {
	t := newPayment()
	eligible := testNow.Add(-time.Hour)
	t.Stage = domain.StageAdminToTeacher
	t.PayoutEligibleAt = &eligible
	return t
}

func newActiveWorkflow(tx *domain.Transaction, stage domain.WorkflowStage, nextAt time.Time) *domain.Workflow {
	wf := domain.NewWorkflow(tx, nextAt, 6, domain.DefaultFeePolicy(), testNow.Add(-72*time.Hour))
	wf.CurrentStage = stage
	return wf
}
