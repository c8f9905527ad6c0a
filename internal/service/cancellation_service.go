package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tutor-settlement/internal/core/domain"
	"tutor-settlement/internal/core/ports"
	"tutor-settlement/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// CancellationServiceImpl implements ports.CancellationService.
type CancellationServiceImpl struct {
	bookingRepo    ports.BookingRepository
	enrollmentRepo ports.EnrollmentRepository
	txRepo         ports.TransactionRepository
	workflows      ports.WorkflowService
	transactor     ports.DBTransactor
	settings       Settings
	log            zerolog.Logger
}

// NewCancellationService creates a new CancellationServiceImpl.
func NewCancellationService(
	bookingRepo ports.BookingRepository,
	enrollmentRepo ports.EnrollmentRepository,
	txRepo ports.TransactionRepository,
	workflows ports.WorkflowService,
	transactor ports.DBTransactor,
	settings Settings,
	log zerolog.Logger,
) *CancellationServiceImpl {
	return &CancellationServiceImpl{
		bookingRepo:    bookingRepo,
		enrollmentRepo: enrollmentRepo,
		txRepo:         txRepo,
		workflows:      workflows,
		transactor:     transactor,
		settings:       settings.withDefaults(),
		log:            log,
	}
}

// CancelBooking cancels a class and schedules a full refund of its payment.
// It returns the cancelled payment, or nil when the booking was never paid.
func (s *CancellationServiceImpl) CancelBooking(ctx context.Context, bookingID uuid.UUID, now time.Time) (*domain.Transaction, error) {
	b, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get booking: %w", err))
	}
	if b == nil {
		return nil, apperror.ErrNotFound("booking")
	}
	if b.Status == domain.BookingStatusCancelled {
		return nil, apperror.ErrAlreadyCancelled()
	}
	if !domain.CanCancelAt(b.ScheduledAt, now, s.settings.CancellationWindow) {
		return nil, apperror.ErrTooLateToCancel(domain.WindowHours(s.settings.CancellationWindow))
	}

	payment, err := s.txRepo.GetPaymentByBooking(ctx, bookingID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get booking payment: %w", err))
	}
	if payment != nil && !payment.CanScheduleRefund() {
		if payment.IsDisbursed() {
			// Money already left escrow; nothing can be routed back automatically.
			return nil, apperror.ErrInvalidTransition(string(payment.Stage), string(domain.StageRefundToStudent))
		}
		s.log.Warn().
			Str("booking_id", bookingID.String()).
			Str("tx_id", payment.ID.String()).
			Str("stage", string(payment.Stage)).
			Str("status", string(payment.Status)).
			Msg("cancelling booking without scheduling a refund")
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	if err := s.bookingRepo.MarkCancelled(ctx, dbTx, bookingID); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("cancel booking: %w", err))
	}

	var cancelled *domain.Transaction
	if payment != nil && payment.CanScheduleRefund() {
		cancelled, err = s.workflows.Cancel(ctx, dbTx, ports.CancelRequest{
			TransactionID: payment.ID,
			RefundAmount:  payment.GrossAmount,
			Reason:        fmt.Sprintf("booking %s cancelled by student", bookingID),
			Now:           now,
		})
		if err != nil {
			return nil, err
		}
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	evt := s.log.Info().Str("booking_id", bookingID.String())
	if cancelled != nil {
		evt = evt.Str("tx_id", cancelled.ID.String()).Str("refund_amount", cancelled.RefundAmount.Decimal.StringFixed(2))
	}
	evt.Msg("booking cancelled")
	return cancelled, nil
}

// BulkCancel cancels each booking independently. Partial success is normal.
func (s *CancellationServiceImpl) BulkCancel(ctx context.Context, bookingIDs []uuid.UUID, now time.Time) (*domain.BulkCancelResult, error) {
	result := &domain.BulkCancelResult{
		Successful: []uuid.UUID{},
		Failed:     []domain.BulkCancelFailure{},
	}
	for _, id := range bookingIDs {
		if _, err := s.CancelBooking(ctx, id, now); err != nil {
			result.Failed = append(result.Failed, domain.BulkCancelFailure{ID: id, Reason: s.bulkReason(err)})
			continue
		}
		result.Successful = append(result.Successful, id)
	}

	s.log.Info().
		Int("requested", len(bookingIDs)).
		Int("successful", len(result.Successful)).
		Int("failed", len(result.Failed)).
		Msg("bulk cancellation finished")
	return result, nil
}

func (s *CancellationServiceImpl) bulkReason(err error) string {
	switch {
	case apperror.HasCode(err, apperror.CodeNotFound):
		return domain.ReasonNotFound
	case apperror.HasCode(err, apperror.CodeAlreadyCancelled):
		return domain.ReasonAlreadyCancelled
	case apperror.HasCode(err, apperror.CodeTooLateToCancel):
		return domain.ReasonWithinWindow(s.settings.CancellationWindow)
	}
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}

// CancelEnrollment cancels a course and schedules a refund prorated over the
// classes still outside the cancellation window. Classes inside the window
// block the cancellation unless forceCancel is set.
func (s *CancellationServiceImpl) CancelEnrollment(ctx context.Context, enrollmentID uuid.UUID, forceCancel bool, now time.Time) (*ports.EnrollmentCancellation, error) {
	e, err := s.enrollmentRepo.GetByID(ctx, enrollmentID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get enrollment: %w", err))
	}
	if e == nil {
		return nil, apperror.ErrNotFound("enrollment")
	}
	if e.Status == domain.EnrollmentStatusCancelled {
		return nil, apperror.ErrAlreadyCancelled()
	}

	refund := domain.ComputeEnrollmentRefund(*e, now, s.settings.CancellationWindow)
	if refund.BlockingClasses > 0 && !forceCancel {
		return nil, apperror.ErrForceCancelRequired(refund.BlockingClasses, domain.WindowHours(s.settings.CancellationWindow))
	}

	payment, err := s.txRepo.GetPaymentByEnrollment(ctx, enrollmentID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get enrollment payment: %w", err))
	}
	refundable := payment != nil && payment.CanScheduleRefund()
	if !refundable && refund.RefundAmount.IsPositive() && payment != nil {
		// Money already left escrow; nothing can be routed back automatically.
		return nil, apperror.ErrInvalidTransition(string(payment.Stage), string(domain.StageRefundToStudent))
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	if err := s.enrollmentRepo.MarkCancelled(ctx, dbTx, enrollmentID); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("cancel enrollment: %w", err))
	}

	out := &ports.EnrollmentCancellation{Refund: refund}
	if refundable {
		amount := decimal.Min(refund.RefundAmount, payment.GrossAmount)
		out.Transaction, err = s.workflows.Cancel(ctx, dbTx, ports.CancelRequest{
			TransactionID: payment.ID,
			RefundAmount:  amount,
			Reason: fmt.Sprintf("enrollment %s cancelled: %d of %d classes refundable",
				enrollmentID, refund.RefundableClasses, refund.TotalClasses),
			Now: now,
		})
		if err != nil {
			return nil, err
		}
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Str("enrollment_id", enrollmentID.String()).
		Int("total_classes", refund.TotalClasses).
		Int("completed_classes", refund.CompletedClasses).
		Int("blocking_classes", refund.BlockingClasses).
		Str("refund_amount", refund.RefundAmount.StringFixed(2)).
		Bool("forced", forceCancel).
		Msg("enrollment cancelled")
	return out, nil
}
