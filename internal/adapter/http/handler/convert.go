package handler

import (
	"time"

	"tutor-settlement/internal/adapter/http/dto"
	"tutor-settlement/internal/core/domain"
	"tutor-settlement/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}

func uuidString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

// pathUUID parses the :name path parameter, rendering a validation error when malformed.
func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func invalidID(name string) error {
	return apperror.Validation("invalid " + name)
}

// toTransactionResponse converts domain.Transaction to DTO.
func toTransactionResponse(tx *domain.Transaction) dto.TransactionResponse {
	resp := dto.TransactionResponse{
		ID:                  tx.ID.String(),
		Type:                string(tx.Type),
		GrossAmount:         money(tx.GrossAmount),
		FeeAmount:           money(tx.FeeAmount),
		NetAmount:           money(tx.NetAmount),
		Currency:            tx.Currency,
		Status:              string(tx.Status),
		WorkflowStage:       string(tx.Stage),
		GatewayRef:          tx.GatewayRef,
		BookingID:           uuidString(tx.BookingID),
		EnrollmentID:        uuidString(tx.EnrollmentID),
		ParentTransactionID: uuidString(tx.ParentTransactionID),
		PayoutEligibleAt:    formatTime(tx.PayoutEligibleAt),
		ScheduledRefundAt:   formatTime(tx.ScheduledRefundAt),
		CreatedAt:           tx.CreatedAt.UTC().Format(time.RFC3339),
		CompletedAt:         formatTime(tx.CompletedAt),
	}
	if tx.RefundAmount.Valid {
		s := money(tx.RefundAmount.Decimal)
		resp.RefundAmount = &s
	}
	return resp
}

func toTransactionList(txs []domain.Transaction) dto.TransactionListResponse {
	items := make([]dto.TransactionResponse, 0, len(txs))
	for i := range txs {
		items = append(items, toTransactionResponse(&txs[i]))
	}
	return dto.TransactionListResponse{Items: items, Total: len(items)}
}
