package domain

import (
	"time"

	"tutor-settlement/pkg/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ConflictType classifies why money could not be reconciled automatically.
type ConflictType string

const (
	ConflictFailedEnrollment       ConflictType = "failed_enrollment"
	ConflictFailedBooking          ConflictType = "failed_booking"
	ConflictMissingOriginalPayment ConflictType = "missing_original_payment"
	ConflictWorkflowFailed         ConflictType = "workflow_failed"
	ConflictPayoutFailed           ConflictType = "payout_failed"
	ConflictRefundAfterPayout      ConflictType = "refund_after_payout"
	ConflictRefundExceedsOriginal  ConflictType = "refund_exceeds_original"
	ConflictRefundFailed           ConflictType = "refund_failed"
)

// UnsettledStatus moves only open -> resolved, once.
type UnsettledStatus string

const (
	UnsettledStatusOpen     UnsettledStatus = "open"
	UnsettledStatusResolved UnsettledStatus = "resolved"
)

// UnsettledFinance is an exception record for money needing manual resolution.
type UnsettledFinance struct {
	ID               uuid.UUID           `json:"id"`
	GatewayRef       string              `json:"gateway_ref"`
	ConflictType     ConflictType        `json:"conflict_type"`
	Amount           decimal.Decimal     `json:"amount"`
	Currency         string              `json:"currency"`
	Description      string              `json:"description"`
	Status           UnsettledStatus     `json:"status"`
	ResolutionAction *string             `json:"resolution_action,omitempty"`
	ResolutionAmount decimal.NullDecimal `json:"resolution_amount"`
	ResolutionNotes  *string             `json:"resolution_notes,omitempty"`
	ResolvedAt       *time.Time          `json:"resolved_at,omitempty"`
	CreatedAt        time.Time           `json:"created_at"`
}

// Resolution is the administrative outcome recorded on an unsettled item.
type Resolution struct {
	Action string
	Amount decimal.NullDecimal
	Notes  string
}

// IsOpen returns true until the record is resolved.
func (u *UnsettledFinance) IsOpen() bool {
	return u.Status == UnsettledStatusOpen
}

// Resolve closes the record. A second call fails with AlreadyResolved.
func (u *UnsettledFinance) Resolve(r Resolution, now time.Time) error {
	if !u.IsOpen() {
		return apperror.ErrAlreadyResolved()
	}
	if r.Action == "" {
		return apperror.Validation("resolution action is required")
	}
	if r.Amount.Valid && r.Amount.Decimal.IsNegative() {
		return apperror.ErrInvalidAmount()
	}
	action, notes, at := r.Action, r.Notes, now
	u.Status = UnsettledStatusResolved
	u.ResolutionAction = &action
	u.ResolutionAmount = r.Amount
	u.ResolutionNotes = &notes
	u.ResolvedAt = &at
	return nil
}
