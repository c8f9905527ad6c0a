package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"tutor-settlement/internal/core/domain"
	"tutor-settlement/internal/core/ports"
	"tutor-settlement/internal/core/ports/mocks"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func setupCachedLedger(t *testing.T) (*CachedLedger, *mocks.MockLedger, *mocks.MockLedgerCache) {
	ctrl := gomock.NewController(t)
	inner := mocks.NewMockLedger(ctrl)
	cache := mocks.NewMockLedgerCache(ctrl)
	return NewCachedLedger(inner, cache, 30*time.Second, zerolog.Nop()), inner, cache
}

func TestCachedLedger_ListByUser_Hit(t *testing.T) {
	l, _, cache := setupCachedLedger(t)
	userID := uuid.New()
	cached := []domain.Transaction{*newPayment()}

	cache.EXPECT().GetList(gomock.Any(), "user:"+userID.String()).Return(cached, true, nil)

	result, err := l.ListByUser(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, cached, result)
}

func TestCachedLedger_ListByUser_MissLoadsAndStores(t *testing.T) {
	l, inner, cache := setupCachedLedger(t)
	userID := uuid.New()
	key := "user:" + userID.String()
	stored := []domain.Transaction{*newPayment()}

	cache.EXPECT().GetList(gomock.Any(), key).Return(nil, false, nil)
	inner.EXPECT().ListByUser(gomock.Any(), userID).Return(stored, nil)
	cache.EXPECT().SetList(gomock.Any(), key, stored, 30*time.Second).Return(nil)

	result, err := l.ListByUser(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, stored, result)
}

func TestCachedLedger_ListByBooking_CacheDown(t *testing.T) {
	l, inner, cache := setupCachedLedger(t)
	bookingID := uuid.New()
	key := "booking:" + bookingID.String()

	cache.EXPECT().GetList(gomock.Any(), key).Return(nil, false, errors.New("redis down"))
	inner.EXPECT().ListByBooking(gomock.Any(), bookingID).Return([]domain.Transaction{}, nil)
	cache.EXPECT().SetList(gomock.Any(), key, []domain.Transaction{}, 30*time.Second).Return(errors.New("redis down"))

	result, err := l.ListByBooking(context.Background(), bookingID)
	require.NoError(t, err)
	assert.Empty(t, result)
}

func TestCachedLedger_ListByUser_InnerErrorNotCached(t *testing.T) {
	l, inner, cache := setupCachedLedger(t)
	userID := uuid.New()

	cache.EXPECT().GetList(gomock.Any(), gomock.Any()).Return(nil, false, nil)
	inner.EXPECT().ListByUser(gomock.Any(), userID).Return(nil, errors.New("db down"))

	_, err := l.ListByUser(context.Background(), userID)
	assert.Error(t, err)
}

func TestCachedLedger_MarkScheduledRefund_InvalidatesParties(t *testing.T) {
	l, inner, cache := setupCachedLedger(t)
	ctx := context.Background()
	tx := &mockTx{}
	payment := newPayment()
	req := ports.ScheduledRefund{TransactionID: payment.ID, Amount: dec("100.00"), Now: testNow}

	inner.EXPECT().MarkScheduledRefund(ctx, tx, req).Return(payment, nil)
	cache.EXPECT().Invalidate(ctx,
		"user:"+payment.SourceUserID.String(),
		"user:"+payment.DestinationUserID.String(),
		"booking:"+payment.BookingID.String(),
	).Return(nil)

	result, err := l.MarkScheduledRefund(ctx, tx, req)
	require.NoError(t, err)
	assert.Equal(t, payment, result)
}

func TestCachedLedger_ApplySettlementStep_LostRaceKeepsCache(t *testing.T) {
	l, inner, _ := setupCachedLedger(t)
	ctx := context.Background()
	tx := &mockTx{}
	before := newPayment()
	after := *before

	inner.EXPECT().ApplySettlementStep(ctx, tx, before, &after).Return(false, nil)
	// No Invalidate expected.

	ok, err := l.ApplySettlementStep(ctx, tx, before, &after)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCachedLedger_CreateTransaction_InvalidationFailureIgnored(t *testing.T) {
	l, inner, cache := setupCachedLedger(t)
	ctx := context.Background()
	tx := &mockTx{}
	payment := newPayment()

	inner.EXPECT().CreateTransaction(ctx, tx, payment).Return(payment, nil)
	cache.EXPECT().Invalidate(ctx, gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("redis down"))

	result, err := l.CreateTransaction(ctx, tx, payment)
	require.NoError(t, err)
	assert.Equal(t, payment.ID, result.ID)
}

func TestCachedLedger_GetTransaction_PassesThrough(t *testing.T) {
	l, inner, _ := setupCachedLedger(t)
	payment := newPayment()

	inner.EXPECT().GetTransaction(gomock.Any(), payment.ID).Return(payment, nil)

	result, err := l.GetTransaction(context.Background(), payment.ID)
	require.NoError(t, err)
	assert.Equal(t, payment, result)
}
