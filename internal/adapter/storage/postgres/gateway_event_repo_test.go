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

var gatewayEventColumns = []string{"event_key", "transaction_id", "response_json", "created_at"}

func TestGatewayEventRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewGatewayEventRepo(mock)
	txID := uuid.New()
	e := &domain.GatewayEventLog{
		Key:           domain.BuildPaymentEventKey("ch_001"),
		TransactionID: &txID,
		ResponseJSON:  []byte(`{"outcome":"recorded"}`),
		CreatedAt:     time.Now().UTC().Truncate(time.Microsecond),
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO gateway_events").
		WithArgs(e.Key, e.TransactionID, e.ResponseJSON, e.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.Create(context.Background(), tx, e)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGatewayEventRepo_Get(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewGatewayEventRepo(mock)
	txID := uuid.New()
	now := time.Now().UTC().Truncate(time.Microsecond)

	mock.ExpectQuery("SELECT .+ FROM gateway_events WHERE event_key").
		WithArgs("refund:ch_001").
		WillReturnRows(pgxmock.NewRows(gatewayEventColumns).
			AddRow("refund:ch_001", &txID, []byte(`{"outcome":"recorded"}`), now))

	result, err := repo.Get(context.Background(), "refund:ch_001")
	require.NoError(t, err)
	require.NotNil(t, result)
	require.NotNil(t, result.TransactionID)
	assert.Equal(t, txID, *result.TransactionID)
	assert.Equal(t, []byte(`{"outcome":"recorded"}`), result.ResponseJSON)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGatewayEventRepo_Get_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewGatewayEventRepo(mock)

	mock.ExpectQuery("SELECT .+ FROM gateway_events WHERE event_key").
		WithArgs("payment:missing").
		WillReturnRows(pgxmock.NewRows(gatewayEventColumns))

	result, err := repo.Get(context.Background(), "payment:missing")
	assert.NoError(t, err)
	assert.Nil(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}
