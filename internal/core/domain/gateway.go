package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BookingMetadata describes the class a booking payment pays for.
type BookingMetadata struct {
	ScheduledAt     time.Time
	DurationMinutes int
}

// PaymentConfirmedEvent is emitted by the gateway collaborator after a successful charge.
// Exactly one of CourseID and Booking is set.
type PaymentConfirmedEvent struct {
	GrossAmount          decimal.Decimal
	Currency             string
	PayerRef             uuid.UUID // student
	PayeeRef             uuid.UUID // teacher
	GatewayTransactionID string
	CourseID             *uuid.UUID
	Booking              *BookingMetadata
}

// TransactionType returns the payment type the event records.
func (e PaymentConfirmedEvent) TransactionType() TransactionType {
	if e.CourseID != nil {
		return TransactionTypeCoursePayment
	}
	return TransactionTypeBookingPayment
}

// RefundIssuedEvent is emitted by the gateway collaborator after it refunded a charge.
type RefundIssuedEvent struct {
	GatewayTransactionID string
	RefundedAmount       decimal.Decimal
}
