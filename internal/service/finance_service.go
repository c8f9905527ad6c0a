package service

import (
	"context"
	"fmt"
	"time"

	"tutor-settlement/internal/core/domain"
	"tutor-settlement/internal/core/ports"
	"tutor-settlement/pkg/apperror"
)

// financeService implements ports.FinanceService.
type financeService struct {
	txRepo        ports.TransactionRepository
	unsettledRepo ports.UnsettledFinanceRepository
}

// NewFinanceService creates a new finance summary service.
func NewFinanceService(txRepo ports.TransactionRepository, unsettledRepo ports.UnsettledFinanceRepository) ports.FinanceService {
	return &financeService{txRepo: txRepo, unsettledRepo: unsettledRepo}
}

// Summary aggregates settled money from the ledger and adds the open conflict amount.
func (s *financeService) Summary(ctx context.Context, now time.Time) (*domain.FinanceSummary, error) {
	summary, err := s.txRepo.GetFinanceTotals(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("finance totals: %w", err))
	}

	open, err := s.unsettledRepo.SumOpen(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("open conflict amount: %w", err))
	}
	summary.OpenConflictAmount = open
	summary.GeneratedAt = now

	return summary, nil
}
