package handler

import (
	"errors"
	"io"
	"time"

	"tutor-settlement/internal/adapter/http/dto"
	"tutor-settlement/internal/core/ports"
	"tutor-settlement/pkg/apperror"
	"tutor-settlement/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CancellationHandler handles booking and course cancellations.
type CancellationHandler struct {
	cancellations ports.CancellationService
	now           func() time.Time
}

// NewCancellationHandler creates a new CancellationHandler.
func NewCancellationHandler(cancellations ports.CancellationService) *CancellationHandler {
	return &CancellationHandler{cancellations: cancellations, now: time.Now}
}

// CancelBooking handles POST /api/v1/bookings/:id/cancel.
func (h *CancellationHandler) CancelBooking(c *gin.Context) {
	bookingID, ok := pathUUID(c, "id")
	if !ok {
		response.Error(c, invalidID("booking id"))
		return
	}

	tx, err := h.cancellations.CancelBooking(c.Request.Context(), bookingID, h.now().UTC())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toTransactionResponse(tx))
}

// BulkCancel handles POST /api/v1/bookings/cancel.
// Partial success is reported per booking with 200.
func (h *CancellationHandler) BulkCancel(c *gin.Context) {
	var req dto.BulkCancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	ids := make([]uuid.UUID, 0, len(req.BookingIDs))
	for _, raw := range req.BookingIDs {
		ids = append(ids, uuid.MustParse(raw))
	}

	result, err := h.cancellations.BulkCancel(c.Request.Context(), ids, h.now().UTC())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// CancelEnrollment handles POST /api/v1/enrollments/:id/cancel.
// The body is optional; without it force_cancel is false.
func (h *CancellationHandler) CancelEnrollment(c *gin.Context) {
	enrollmentID, ok := pathUUID(c, "id")
	if !ok {
		response.Error(c, invalidID("enrollment id"))
		return
	}

	var req dto.CancelEnrollmentRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	result, err := h.cancellations.CancelEnrollment(c.Request.Context(), enrollmentID, req.ForceCancel, h.now().UTC())
	if err != nil {
		response.Error(c, err)
		return
	}

	resp := dto.EnrollmentCancellationResponse{Refund: result.Refund}
	if result.Transaction != nil {
		tx := toTransactionResponse(result.Transaction)
		resp.Transaction = &tx
	}
	response.OK(c, resp)
}
