package service

import (
	"context"
	"fmt"

	"tutor-settlement/internal/core/domain"
	"tutor-settlement/internal/core/ports"
	"tutor-settlement/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// LedgerService implements ports.Ledger on top of the transaction repository.
type LedgerService struct {
	txRepo ports.TransactionRepository
	log    zerolog.Logger
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(txRepo ports.TransactionRepository, log zerolog.Logger) *LedgerService {
	return &LedgerService{txRepo: txRepo, log: log}
}

// CreateTransaction validates t and persists it inside dbTx.
func (s *LedgerService) CreateTransaction(ctx context.Context, dbTx pgx.Tx, t *domain.Transaction) (*domain.Transaction, error) {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = t.CreatedAt
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if err := s.txRepo.Create(ctx, dbTx, t); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create transaction: %w", err))
	}

	s.log.Info().
		Str("tx_id", t.ID.String()).
		Str("type", string(t.Type)).
		Str("gross", t.GrossAmount.StringFixed(2)).
		Str("status", string(t.Status)).
		Msg("transaction recorded")
	return t, nil
}

// GetTransaction returns the transaction or nil when it does not exist.
func (s *LedgerService) GetTransaction(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	t, err := s.txRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get transaction: %w", err))
	}
	return t, nil
}

// GetTransactionByGatewayRef returns the payment for a gateway id or nil.
func (s *LedgerService) GetTransactionByGatewayRef(ctx context.Context, ref string) (*domain.Transaction, error) {
	t, err := s.txRepo.GetByGatewayRef(ctx, ref)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get transaction by gateway ref: %w", err))
	}
	return t, nil
}

func (s *LedgerService) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Transaction, error) {
	txns, err := s.txRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list transactions by user: %w", err))
	}
	return txns, nil
}

func (s *LedgerService) ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]domain.Transaction, error) {
	txns, err := s.txRepo.ListByBooking(ctx, bookingID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list transactions by booking: %w", err))
	}
	return txns, nil
}

// UpdateStatus moves a transaction forward. Regressions and changes out of a
// terminal status fail with InvalidTransition and write nothing.
func (s *LedgerService) UpdateStatus(ctx context.Context, dbTx pgx.Tx, req ports.StatusUpdate) (*domain.Transaction, error) {
	t, err := s.lockTransaction(ctx, dbTx, req.TransactionID)
	if err != nil {
		return nil, err
	}

	if !t.Status.CanTransitionTo(req.Status) {
		return nil, apperror.ErrInvalidTransition(string(t.Status), string(req.Status))
	}
	expected := t.Stage
	if req.Stage != nil && *req.Stage != t.Stage {
		if !t.Stage.CanAdvanceTo(*req.Stage) {
			return nil, apperror.ErrInvalidTransition(string(t.Stage), string(*req.Stage))
		}
		t.Stage = *req.Stage
	}

	t.Status = req.Status
	if req.Status == domain.TransactionStatusCompleted {
		completed := req.Now
		t.CompletedAt = &completed
	}
	t.UpdatedAt = req.Now

	if err := s.write(ctx, dbTx, t, expected); err != nil {
		return nil, err
	}
	return t, nil
}

// MarkScheduledRefund cancels a payment and schedules its refund. Funds already
// disbursed to the teacher cannot be routed back.
func (s *LedgerService) MarkScheduledRefund(ctx context.Context, dbTx pgx.Tx, req ports.ScheduledRefund) (*domain.Transaction, error) {
	t, err := s.lockTransaction(ctx, dbTx, req.TransactionID)
	if err != nil {
		return nil, err
	}

	if !t.CanScheduleRefund() {
		return nil, apperror.ErrInvalidTransition(string(t.Stage), string(domain.StageRefundToStudent))
	}
	if req.Amount.IsNegative() {
		return nil, apperror.ErrInvalidAmount()
	}
	if req.Amount.GreaterThan(t.GrossAmount) {
		return nil, apperror.ErrRefundAmountExceedsOriginal()
	}

	expected := t.Stage
	refundAt := req.RefundAt
	t.Status = domain.TransactionStatusCancelled
	t.Stage = domain.StageRefundToStudent
	t.ScheduledRefundAt = &refundAt
	t.RefundAmount.Decimal = domain.RoundMoney(req.Amount)
	t.RefundAmount.Valid = true
	t.AppendNote(req.Note)
	t.UpdatedAt = req.Now

	if err := s.write(ctx, dbTx, t, expected); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("tx_id", t.ID.String()).
		Str("refund_amount", t.RefundAmount.Decimal.StringFixed(2)).
		Time("refund_at", refundAt).
		Msg("refund scheduled")
	return t, nil
}

// ApplySettlementStep persists a change computed by the workflow engine or the
// payout batch. The stage must follow the stage table; the write is a
// compare-and-swap on before.Stage.
func (s *LedgerService) ApplySettlementStep(ctx context.Context, dbTx pgx.Tx, before, after *domain.Transaction) (bool, error) {
	if before.ID != after.ID {
		return false, apperror.ErrInvalidTransaction("settlement step must keep the transaction id")
	}
	if after.Stage != before.Stage && !before.Stage.CanAdvanceTo(after.Stage) {
		return false, apperror.ErrInvalidTransition(string(before.Stage), string(after.Stage))
	}
	if after.Status != before.Status && !settlementStatusAllowed(before, after) {
		return false, apperror.ErrInvalidTransition(string(before.Status), string(after.Status))
	}
	if err := after.Validate(); err != nil {
		return false, err
	}

	ok, err := s.txRepo.Update(ctx, dbTx, after, before.Stage)
	if err != nil {
		return false, apperror.InternalError(fmt.Errorf("apply settlement step: %w", err))
	}
	return ok, nil
}

// settlementStatusAllowed reports whether a settlement step may change the status.
// A received payment (completed) re-enters processing while funds move to the teacher.
func settlementStatusAllowed(before, after *domain.Transaction) bool {
	if before.Status.CanTransitionTo(after.Status) {
		return true
	}
	return before.Status == domain.TransactionStatusCompleted &&
		after.Status == domain.TransactionStatusProcessing &&
		after.Stage == domain.StageAdminToTeacher
}

func (s *LedgerService) lockTransaction(ctx context.Context, dbTx pgx.Tx, id uuid.UUID) (*domain.Transaction, error) {
	t, err := s.txRepo.GetByIDForUpdate(ctx, dbTx, id)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock transaction: %w", err))
	}
	if t == nil {
		return nil, apperror.ErrNotFound("transaction")
	}
	return t, nil
}

func (s *LedgerService) write(ctx context.Context, dbTx pgx.Tx, t *domain.Transaction, expected domain.SettlementStage) error {
	ok, err := s.txRepo.Update(ctx, dbTx, t, expected)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("update transaction: %w", err))
	}
	if !ok {
		return apperror.ErrInvalidTransition(string(expected), string(t.Stage))
	}
	return nil
}
