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

// errNothingToDo marks an item another path already settled.
var errNothingToDo = errors.New("already settled")

// PayoutServiceImpl implements ports.PayoutService.
type PayoutServiceImpl struct {
	txRepo     ports.TransactionRepository
	pmRepo     ports.PaymentMethodRepository
	ledger     ports.Ledger
	unsettled  ports.UnsettledService
	transactor ports.DBTransactor
	settings   Settings
	log        zerolog.Logger
}

// NewPayoutService creates a new PayoutServiceImpl.
func NewPayoutService(
	txRepo ports.TransactionRepository,
	pmRepo ports.PaymentMethodRepository,
	ledger ports.Ledger,
	unsettled ports.UnsettledService,
	transactor ports.DBTransactor,
	settings Settings,
	log zerolog.Logger,
) *PayoutServiceImpl {
	return &PayoutServiceImpl{
		txRepo:     txRepo,
		pmRepo:     pmRepo,
		ledger:     ledger,
		unsettled:  unsettled,
		transactor: transactor,
		settings:   settings.withDefaults(),
		log:        log,
	}
}

// RunBatch disburses the net amount of every payable payment to its teacher.
// Each payment is settled in its own database transaction; one failure never
// stops the batch.
func (s *PayoutServiceImpl) RunBatch(ctx context.Context, now time.Time) (*ports.BatchReport, error) {
	payable, err := s.txRepo.ListPayable(ctx, now, s.settings.BatchSize)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list payable transactions: %w", err))
	}

	report := &ports.BatchReport{}
	for i := range payable {
		orig := &payable[i]
		payoutID, err := s.payout(ctx, orig, now)
		switch {
		case err == nil:
			report.Paid++
			s.log.Info().
				Str("tx_id", orig.ID.String()).
				Str("payout_id", payoutID.String()).
				Str("amount", orig.NetAmount.StringFixed(2)).
				Msg("teacher payout disbursed")
		case errors.Is(err, errNothingToDo):
			report.Skipped++
		case apperror.HasCode(err, apperror.CodeMissingPaymentMethod):
			report.Skipped++
			s.log.Warn().Err(err).
				Str("tx_id", orig.ID.String()).
				Str("teacher_id", orig.DestinationUserID.String()).
				Msg("payout skipped")
		default:
			report.Failed++
			s.log.Error().Err(err).Str("tx_id", orig.ID.String()).Msg("payout failed")
			s.recordPayoutFailure(ctx, orig, err, now)
		}
	}

	s.log.Info().
		Int("paid", report.Paid).
		Int("skipped", report.Skipped).
		Int("failed", report.Failed).
		Msg("teacher payout batch finished")
	return report, nil
}

func (s *PayoutServiceImpl) payout(ctx context.Context, orig *domain.Transaction, now time.Time) (uuid.UUID, error) {
	if orig.DestinationUserID == nil {
		return uuid.Nil, apperror.ErrInvalidTransaction("payment has no teacher")
	}
	method, err := s.pmRepo.GetDefaultActive(ctx, *orig.DestinationUserID)
	if err != nil {
		return uuid.Nil, apperror.InternalError(fmt.Errorf("get payment method: %w", err))
	}
	if method == nil {
		return uuid.Nil, apperror.ErrMissingPaymentMethod()
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return uuid.Nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	locked, err := s.txRepo.GetByIDForUpdate(ctx, dbTx, orig.ID)
	if err != nil {
		return uuid.Nil, apperror.InternalError(fmt.Errorf("lock transaction: %w", err))
	}
	if locked == nil || !locked.IsPayable(now) {
		return uuid.Nil, errNothingToDo
	}
	exists, err := s.txRepo.HasChild(ctx, dbTx, locked.ID, domain.TransactionTypeTeacherPayout)
	if err != nil {
		return uuid.Nil, apperror.InternalError(fmt.Errorf("check existing payout: %w", err))
	}
	if exists {
		return uuid.Nil, errNothingToDo
	}

	after := *locked
	after.Stage = domain.StageCompleted
	after.UpdatedAt = now

	payoutID := uuid.Nil
	if locked.NetAmount.IsPositive() {
		payout := derivedTransaction(locked, domain.TransactionTypeTeacherPayout, locked.NetAmount, *locked.DestinationUserID, now)
		payout.AppendNote(fmt.Sprintf("payout of %s to %s %s", locked.ID, method.Kind, method.MaskedAccount))
		if _, err := s.ledger.CreateTransaction(ctx, dbTx, payout); err != nil {
			return uuid.Nil, err
		}
		payoutID = payout.ID
		after.AppendNote(fmt.Sprintf("teacher payout %s", payout.ID))
	} else {
		after.AppendNote("nothing to disburse after fees")
	}

	ok, err := s.ledger.ApplySettlementStep(ctx, dbTx, locked, &after)
	if err != nil {
		return uuid.Nil, err
	}
	if !ok {
		return uuid.Nil, errNothingToDo
	}

	if err := dbTx.Commit(ctx); err != nil {
		return uuid.Nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}
	return payoutID, nil
}

func (s *PayoutServiceImpl) recordPayoutFailure(ctx context.Context, orig *domain.Transaction, cause error, now time.Time) {
	req := ports.RecordUnsettled{
		ConflictType: domain.ConflictPayoutFailed,
		Amount:       orig.NetAmount,
		Currency:     orig.Currency,
		Description:  fmt.Sprintf("payout of %s failed: %v", orig.ID, cause),
		Now:          now,
	}
	if orig.GatewayRef != nil {
		req.GatewayRef = *orig.GatewayRef
	}
	if _, err := s.unsettled.Record(ctx, req); err != nil {
		s.log.Error().Err(err).Str("tx_id", orig.ID.String()).Msg("failed to record payout failure")
	}
}

// IssueDueRefunds creates the refund transaction of every cancelled payment
// whose scheduled refund time has passed.
func (s *PayoutServiceImpl) IssueDueRefunds(ctx context.Context, now time.Time) (*ports.BatchReport, error) {
	due, err := s.txRepo.ListDueRefunds(ctx, now, s.settings.BatchSize)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list due refunds: %w", err))
	}

	report := &ports.BatchReport{}
	for i := range due {
		orig := &due[i]
		err := s.issueRefund(ctx, orig, now)
		switch {
		case err == nil:
			report.Paid++
		case errors.Is(err, errNothingToDo):
			report.Skipped++
		default:
			report.Failed++
			s.log.Error().Err(err).Str("tx_id", orig.ID.String()).Msg("scheduled refund failed")
		}
	}

	if len(due) > 0 {
		s.log.Info().
			Int("issued", report.Paid).
			Int("skipped", report.Skipped).
			Int("failed", report.Failed).
			Msg("scheduled refunds issued")
	}
	return report, nil
}

func (s *PayoutServiceImpl) issueRefund(ctx context.Context, orig *domain.Transaction, now time.Time) error {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	locked, err := s.txRepo.GetByIDForUpdate(ctx, dbTx, orig.ID)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("lock transaction: %w", err))
	}
	if locked == nil || locked.Stage != domain.StageRefundToStudent ||
		locked.ScheduledRefundAt == nil || locked.ScheduledRefundAt.After(now) || locked.SourceUserID == nil {
		return errNothingToDo
	}
	exists, err := s.txRepo.HasChild(ctx, dbTx, locked.ID, domain.TransactionTypeRefund)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("check existing refund: %w", err))
	}
	if exists {
		return errNothingToDo
	}

	amount := refundAmountOf(locked)
	if !amount.IsPositive() {
		return errNothingToDo
	}
	refund := derivedTransaction(locked, domain.TransactionTypeRefund, amount, *locked.SourceUserID, now)
	refund.AppendNote(fmt.Sprintf("scheduled refund of %s", locked.ID))
	if _, err := s.ledger.CreateTransaction(ctx, dbTx, refund); err != nil {
		return err
	}

	if err := dbTx.Commit(ctx); err != nil {
		return apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}
	s.log.Info().
		Str("tx_id", locked.ID.String()).
		Str("refund_id", refund.ID.String()).
		Str("amount", amount.StringFixed(2)).
		Msg("refund issued")
	return nil
}

// refundAmountOf returns the amount owed back on a cancelled payment.
func refundAmountOf(t *domain.Transaction) decimal.Decimal {
	if t.RefundAmount.Valid {
		return t.RefundAmount.Decimal
	}
	return t.GrossAmount
}

// derivedTransaction builds a system-originated payout or refund of parent.
// It carries the parent's booking, enrollment and gateway references.
func derivedTransaction(parent *domain.Transaction, typ domain.TransactionType, amount decimal.Decimal, to uuid.UUID, now time.Time) *domain.Transaction {
	dest := to
	parentID := parent.ID
	completed := now
	return &domain.Transaction{
		ID:                  uuid.New(),
		Type:                typ,
		GrossAmount:         amount,
		FeeAmount:           decimal.Zero,
		NetAmount:           amount,
		Currency:            parent.Currency,
		DestinationUserID:   &dest,
		Status:              domain.TransactionStatusCompleted,
		Stage:               domain.StageCompleted,
		GatewayRef:          parent.GatewayRef,
		BookingID:           parent.BookingID,
		EnrollmentID:        parent.EnrollmentID,
		ParentTransactionID: &parentID,
		CompletedAt:         &completed,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
}
