package domain

import (
	"time"

	"github.com/google/uuid"
)

// GatewayEventLog is the durable record of a processed gateway event.
// The gateway redelivers events; a second delivery replays ResponseJSON.
type GatewayEventLog struct {
	Key           string
	TransactionID *uuid.UUID
	ResponseJSON  []byte
	CreatedAt     time.Time
}

// BuildPaymentEventKey constructs the dedup key of a payment-confirmed event.
func BuildPaymentEventKey(gatewayRef string) string {
	return "payment:" + gatewayRef
}

// BuildRefundEventKey constructs the dedup key of a refund-issued event.
func BuildRefundEventKey(gatewayRef string) string {
	return "refund:" + gatewayRef
}
