package handler

import (
	"time"

	"tutor-settlement/internal/adapter/http/dto"
	"tutor-settlement/internal/core/domain"
	"tutor-settlement/internal/core/ports"
	"tutor-settlement/pkg/apperror"
	"tutor-settlement/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GatewayHandler receives payment gateway callbacks.
// A well-formed callback is always acknowledged with 200 so the gateway stops retrying;
// business failures are reported in the body as an unsettled outcome.
type GatewayHandler struct {
	events ports.GatewayEventService
	now    func() time.Time
}

// NewGatewayHandler creates a new GatewayHandler.
func NewGatewayHandler(events ports.GatewayEventService) *GatewayHandler {
	return &GatewayHandler{events: events, now: time.Now}
}

// PaymentConfirmed handles POST /api/v1/gateway/payments.
func (h *GatewayHandler) PaymentConfirmed(c *gin.Context) {
	var req dto.PaymentConfirmedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	ev, err := toPaymentEvent(req)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.events.HandlePaymentConfirmed(c.Request.Context(), ev, h.now().UTC())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// RefundIssued handles POST /api/v1/gateway/refunds.
func (h *GatewayHandler) RefundIssued(c *gin.Context) {
	var req dto.RefundIssuedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	result, err := h.events.HandleRefundIssued(c.Request.Context(), domain.RefundIssuedEvent{
		GatewayTransactionID: req.GatewayTransactionID,
		RefundedAmount:       req.RefundedAmount,
	}, h.now().UTC())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

func toPaymentEvent(req dto.PaymentConfirmedRequest) (domain.PaymentConfirmedEvent, error) {
	if (req.CourseID == nil) == (req.Booking == nil) {
		return domain.PaymentConfirmedEvent{}, apperror.Validation("exactly one of course_id and booking is required")
	}

	// binding already checked the uuid format
	ev := domain.PaymentConfirmedEvent{
		GrossAmount:          req.GrossAmount,
		Currency:             req.Currency,
		PayerRef:             uuid.MustParse(req.PayerID),
		PayeeRef:             uuid.MustParse(req.PayeeID),
		GatewayTransactionID: req.GatewayTransactionID,
	}
	if req.CourseID != nil {
		id := uuid.MustParse(*req.CourseID)
		ev.CourseID = &id
	}
	if req.Booking != nil {
		ev.Booking = &domain.BookingMetadata{
			ScheduledAt:     req.Booking.ScheduledAt.UTC(),
			DurationMinutes: req.Booking.DurationMinutes,
		}
	}
	return ev, nil
}
