package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"tutor-settlement/internal/core/domain"
	"tutor-settlement/internal/core/ports/mocks"
	"tutor-settlement/pkg/apperror"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestFinanceService_Summary(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockTxRepo := mocks.NewMockTransactionRepository(ctrl)
	mockUnsettled := mocks.NewMockUnsettledFinanceRepository(ctrl)
	svc := NewFinanceService(mockTxRepo, mockUnsettled)

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	mockTxRepo.EXPECT().GetFinanceTotals(gomock.Any()).Return(&domain.FinanceSummary{
		TotalRevenue:        dec("1000.00"),
		TotalTeacherPayouts: dec("700.00"),
		TotalRefunds:        dec("100.00"),
		TotalFeesCollected:  dec("20.00"),
		PendingRefunds:      dec("50.00"),
		PayingStudents:      12,
		PaidTeachers:        4,
	}, nil)
	mockUnsettled.EXPECT().SumOpen(gomock.Any()).Return(dec("35.50"), nil)

	summary, err := svc.Summary(context.Background(), now)
	require.NoError(t, err)
	assert.True(t, summary.OpenConflictAmount.Equal(dec("35.50")))
	assert.True(t, summary.TotalRevenue.Equal(dec("1000.00")))
	assert.Equal(t, int64(12), summary.PayingStudents)
	assert.Equal(t, now, summary.GeneratedAt)
}

func TestFinanceService_Summary_TotalsError(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockTxRepo := mocks.NewMockTransactionRepository(ctrl)
	mockUnsettled := mocks.NewMockUnsettledFinanceRepository(ctrl)
	svc := NewFinanceService(mockTxRepo, mockUnsettled)

	mockTxRepo.EXPECT().GetFinanceTotals(gomock.Any()).Return(nil, errors.New("db down"))

	_, err := svc.Summary(context.Background(), time.Now())
	assertAppError(t, err, apperror.CodeInternal)
}

func TestFinanceService_Summary_OpenSumError(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockTxRepo := mocks.NewMockTransactionRepository(ctrl)
	mockUnsettled := mocks.NewMockUnsettledFinanceRepository(ctrl)
	svc := NewFinanceService(mockTxRepo, mockUnsettled)

	mockTxRepo.EXPECT().GetFinanceTotals(gomock.Any()).Return(&domain.FinanceSummary{}, nil)
	mockUnsettled.EXPECT().SumOpen(gomock.Any()).Return(decimal.Zero, errors.New("db down"))

	_, err := svc.Summary(context.Background(), time.Now())
	assertAppError(t, err, apperror.CodeInternal)
}
