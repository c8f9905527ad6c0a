package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditAction represents the type of audited action.
type AuditAction string

const (
	AuditActionGatewayPayment   AuditAction = "GATEWAY_PAYMENT"
	AuditActionGatewayRefund    AuditAction = "GATEWAY_REFUND"
	AuditActionCancelBooking    AuditAction = "CANCEL_BOOKING"
	AuditActionBulkCancel       AuditAction = "BULK_CANCEL"
	AuditActionCancelEnrollment AuditAction = "CANCEL_ENROLLMENT"
	AuditActionResolveUnsettled AuditAction = "RESOLVE_UNSETTLED"
	AuditActionCreateFeePolicy  AuditAction = "CREATE_FEE_POLICY"
	AuditActionAdvanceWorkflow  AuditAction = "ADVANCE_WORKFLOW"
)

// AuditLog records a single audited action in the system.
type AuditLog struct {
	ID           uuid.UUID   `json:"id"`
	ActorID      *string     `json:"actor_id,omitempty"` // admin subject; nil for gateway callbacks
	Action       AuditAction `json:"action"`
	ResourceType string      `json:"resource_type"`
	ResourceID   string      `json:"resource_id,omitempty"`
	Details      string      `json:"details,omitempty"` // JSON string
	IPAddress    string      `json:"ip_address"`
	CreatedAt    time.Time   `json:"created_at"`
}
