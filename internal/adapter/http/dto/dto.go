package dto

import (
	"time"

	"tutor-settlement/internal/core/domain"

	"github.com/shopspring/decimal"
)

// BookingMetadataRequest describes the class a booking payment pays for.
type BookingMetadataRequest struct {
	ScheduledAt     time.Time `json:"scheduled_at" binding:"required"`
	DurationMinutes int       `json:"duration_minutes" binding:"required,gt=0,lte=1440"`
}

// PaymentConfirmedRequest is the gateway callback for a successful charge.
type PaymentConfirmedRequest struct {
	GatewayTransactionID string                  `json:"gateway_transaction_id" binding:"required,max=100,safe_id"`
	GrossAmount          decimal.Decimal         `json:"gross_amount" binding:"decimal_gt0"`
	Currency             string                  `json:"currency" binding:"required,len=3"`
	PayerID              string                  `json:"payer_id" binding:"required,uuid"`
	PayeeID              string                  `json:"payee_id" binding:"required,uuid"`
	CourseID             *string                 `json:"course_id,omitempty" binding:"omitempty,uuid"`
	Booking              *BookingMetadataRequest `json:"booking,omitempty"`
}

// RefundIssuedRequest is the gateway callback for a refund it executed.
type RefundIssuedRequest struct {
	GatewayTransactionID string          `json:"gateway_transaction_id" binding:"required,max=100,safe_id"`
	RefundedAmount       decimal.Decimal `json:"refunded_amount" binding:"decimal_gt0"`
}

// BulkCancelRequest is the request body for bulk booking cancellation.
type BulkCancelRequest struct {
	BookingIDs []string `json:"booking_ids" binding:"required,min=1,max=100,dive,uuid"`
}

// CancelEnrollmentRequest is the optional body of a course cancellation.
type CancelEnrollmentRequest struct {
	ForceCancel bool `json:"force_cancel"`
}

// ResolveUnsettledRequest is the request body for resolving an unsettled record.
type ResolveUnsettledRequest struct {
	Action string           `json:"action" binding:"required,max=200"`
	Amount *decimal.Decimal `json:"amount,omitempty" binding:"omitempty,decimal_gte0"`
	Notes  string           `json:"notes" binding:"max=2000"`
}

// FeePolicyRequest is the request body for activating a new fee policy.
type FeePolicyRequest struct {
	FeePercentage   decimal.Decimal  `json:"fee_percentage" binding:"decimal_gte0"`
	MinimumFee      decimal.Decimal  `json:"minimum_fee" binding:"decimal_gte0"`
	MaximumFee      *decimal.Decimal `json:"maximum_fee,omitempty" binding:"omitempty,decimal_gte0"`
	PayoutWaitHours int              `json:"teacher_payout_wait_hours" binding:"gte=0,lte=720"`
	Description     string           `json:"description" binding:"max=200"`
}

// TransactionResponse is the response body for a ledger transaction.
// Money is rendered with two decimals.
type TransactionResponse struct {
	ID                  string  `json:"id"`
	Type                string  `json:"transaction_type"`
	GrossAmount         string  `json:"gross_amount"`
	FeeAmount           string  `json:"fee_amount"`
	NetAmount           string  `json:"net_amount"`
	Currency            string  `json:"currency"`
	Status              string  `json:"status"`
	WorkflowStage       string  `json:"workflow_stage"`
	GatewayRef          *string `json:"gateway_ref,omitempty"`
	BookingID           *string `json:"booking_id,omitempty"`
	EnrollmentID        *string `json:"enrollment_id,omitempty"`
	ParentTransactionID *string `json:"parent_transaction_id,omitempty"`
	RefundAmount        *string `json:"refund_amount,omitempty"`
	PayoutEligibleAt    *string `json:"teacher_payout_eligible_at,omitempty"`
	ScheduledRefundAt   *string `json:"scheduled_refund_at,omitempty"`
	CreatedAt           string  `json:"created_at"`
	CompletedAt         *string `json:"completed_at,omitempty"`
}

// TransactionListResponse wraps a transaction list.
type TransactionListResponse struct {
	Items []TransactionResponse `json:"items"`
	Total int                   `json:"total"`
}

// FeePreviewResponse is the fee split of a prospective payment.
type FeePreviewResponse struct {
	GrossAmount string `json:"gross_amount"`
	FeeAmount   string `json:"fee_amount"`
	NetAmount   string `json:"net_amount"`
}

// EnrollmentCancellationResponse reports the prorated refund of a course cancellation.
type EnrollmentCancellationResponse struct {
	Refund      domain.EnrollmentRefund `json:"refund"`
	Transaction *TransactionResponse    `json:"transaction,omitempty"`
}

// FinanceSummaryResponse is the admin finance overview.
type FinanceSummaryResponse struct {
	TotalRevenue        string `json:"total_revenue"`
	TotalTeacherPayouts string `json:"total_teacher_payouts"`
	TotalRefunds        string `json:"total_refunds"`
	TotalFeesCollected  string `json:"total_fees_collected"`
	OpenConflictAmount  string `json:"open_conflict_amount"`
	PendingRefunds      string `json:"pending_refunds"`
	PayingStudents      int64  `json:"paying_students"`
	PaidTeachers        int64  `json:"paid_teachers"`
	GeneratedAt         string `json:"generated_at"`
}

// FeePolicyResponse shows the active policy and its history.
type FeePolicyResponse struct {
	Active  domain.FeePolicy   `json:"active"`
	History []domain.FeePolicy `json:"history"`
}

// WorkflowStepResponse is the outcome of a manual workflow advance.
type WorkflowStepResponse struct {
	Workflow *domain.Workflow `json:"workflow,omitempty"`
	Advanced bool             `json:"advanced"`
	Skipped  bool             `json:"skipped"`
}
