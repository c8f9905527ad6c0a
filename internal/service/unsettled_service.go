package service

import (
	"context"
	"fmt"
	"time"

	"tutor-settlement/internal/core/domain"
	"tutor-settlement/internal/core/ports"
	"tutor-settlement/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// UnsettledServiceImpl implements ports.UnsettledService.
type UnsettledServiceImpl struct {
	repo ports.UnsettledFinanceRepository
	log  zerolog.Logger
}

// NewUnsettledService creates a new UnsettledServiceImpl.
func NewUnsettledService(repo ports.UnsettledFinanceRepository, log zerolog.Logger) *UnsettledServiceImpl {
	return &UnsettledServiceImpl{repo: repo, log: log}
}

// Record opens an exception record. It is written outside the caller's database
// transaction so it survives a rollback of the failed operation.
func (s *UnsettledServiceImpl) Record(ctx context.Context, req ports.RecordUnsettled) (*domain.UnsettledFinance, error) {
	return s.record(req, func(u *domain.UnsettledFinance) error {
		return s.repo.Create(ctx, u)
	})
}

// RecordTx opens an exception record inside dbTx. Gateway intake uses it to
// commit the record together with the acknowledged event.
func (s *UnsettledServiceImpl) RecordTx(ctx context.Context, dbTx pgx.Tx, req ports.RecordUnsettled) (*domain.UnsettledFinance, error) {
	return s.record(req, func(u *domain.UnsettledFinance) error {
		return s.repo.CreateTx(ctx, dbTx, u)
	})
}

func (s *UnsettledServiceImpl) record(req ports.RecordUnsettled, insert func(*domain.UnsettledFinance) error) (*domain.UnsettledFinance, error) {
	if req.Amount.IsNegative() {
		return nil, apperror.ErrInvalidAmount()
	}
	u := &domain.UnsettledFinance{
		ID:           uuid.New(),
		GatewayRef:   req.GatewayRef,
		ConflictType: req.ConflictType,
		Amount:       domain.RoundMoney(req.Amount),
		Currency:     req.Currency,
		Description:  req.Description,
		Status:       domain.UnsettledStatusOpen,
		CreatedAt:    req.Now,
	}
	if err := insert(u); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("record unsettled finance: %w", err))
	}

	s.log.Warn().
		Str("unsettled_id", u.ID.String()).
		Str("gateway_ref", u.GatewayRef).
		Str("conflict_type", string(u.ConflictType)).
		Str("amount", u.Amount.StringFixed(2)).
		Msg(u.Description)
	return u, nil
}

func (s *UnsettledServiceImpl) ListByStatus(ctx context.Context, status *domain.UnsettledStatus) ([]domain.UnsettledFinance, error) {
	items, err := s.repo.ListByStatus(ctx, status)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list unsettled finances: %w", err))
	}
	return items, nil
}

// Resolve closes an open record exactly once.
func (s *UnsettledServiceImpl) Resolve(ctx context.Context, id uuid.UUID, r domain.Resolution, now time.Time) (*domain.UnsettledFinance, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get unsettled finance: %w", err))
	}
	if u == nil {
		return nil, apperror.ErrNotFound("unsettled finance")
	}
	if err := u.Resolve(r, now); err != nil {
		return nil, err
	}

	ok, err := s.repo.Resolve(ctx, u)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("resolve unsettled finance: %w", err))
	}
	if !ok {
		// Another admin resolved it between the read and the write.
		return nil, apperror.ErrAlreadyResolved()
	}

	s.log.Info().
		Str("unsettled_id", u.ID.String()).
		Str("action", r.Action).
		Msg("unsettled finance resolved")
	return u, nil
}
