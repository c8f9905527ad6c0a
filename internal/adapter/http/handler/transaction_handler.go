package handler

import (
	"tutor-settlement/internal/adapter/http/dto"
	"tutor-settlement/internal/core/ports"
	"tutor-settlement/pkg/apperror"
	"tutor-settlement/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// TransactionHandler serves read-only ledger queries.
type TransactionHandler struct {
	ledger   ports.Ledger
	policies ports.FeePolicyService
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(ledger ports.Ledger, policies ports.FeePolicyService) *TransactionHandler {
	return &TransactionHandler{ledger: ledger, policies: policies}
}

// GetTransaction handles GET /api/v1/transactions/:id.
func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		response.Error(c, invalidID("transaction id"))
		return
	}

	tx, err := h.ledger.GetTransaction(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	if tx == nil {
		response.Error(c, apperror.ErrNotFound("Transaction"))
		return
	}
	response.OK(c, toTransactionResponse(tx))
}

// ListByUser handles GET /api/v1/users/:id/transactions.
func (h *TransactionHandler) ListByUser(c *gin.Context) {
	userID, ok := pathUUID(c, "id")
	if !ok {
		response.Error(c, invalidID("user id"))
		return
	}

	txs, err := h.ledger.ListByUser(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toTransactionList(txs))
}

// ListByBooking handles GET /api/v1/bookings/:id/transactions.
func (h *TransactionHandler) ListByBooking(c *gin.Context) {
	bookingID, ok := pathUUID(c, "id")
	if !ok {
		response.Error(c, invalidID("booking id"))
		return
	}

	txs, err := h.ledger.ListByBooking(c.Request.Context(), bookingID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toTransactionList(txs))
}

// PreviewFee handles GET /api/v1/fees/preview?amount=.
func (h *TransactionHandler) PreviewFee(c *gin.Context) {
	gross, err := decimal.NewFromString(c.Query("amount"))
	if err != nil {
		response.Error(c, apperror.ErrInvalidAmount())
		return
	}

	breakdown, err := h.policies.Preview(c.Request.Context(), gross)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.FeePreviewResponse{
		GrossAmount: money(breakdown.Gross),
		FeeAmount:   money(breakdown.Fee),
		NetAmount:   money(breakdown.Net),
	})
}
