package domain

import (
	"time"

	"tutor-settlement/pkg/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType represents the kind of money movement.
type TransactionType string

const (
	TransactionTypeCoursePayment  TransactionType = "course_payment"
	TransactionTypeBookingPayment TransactionType = "booking_payment"
	TransactionTypeRefund         TransactionType = "refund"
	TransactionTypeTeacherPayout  TransactionType = "teacher_payout"
)

// Valid reports whether t is a known transaction type.
func (t TransactionType) Valid() bool {
	switch t {
	case TransactionTypeCoursePayment, TransactionTypeBookingPayment,
		TransactionTypeRefund, TransactionTypeTeacherPayout:
		return true
	}
	return false
}

// IsPayment reports whether the type is a student payment into escrow.
func (t TransactionType) IsPayment() bool {
	return t == TransactionTypeCoursePayment || t == TransactionTypeBookingPayment
}

// TransactionStatus represents the lifecycle state of a transaction.
type TransactionStatus string

const (
	TransactionStatusPending    TransactionStatus = "pending"
	TransactionStatusProcessing TransactionStatus = "processing"
	TransactionStatusCompleted  TransactionStatus = "completed"
	TransactionStatusFailed     TransactionStatus = "failed"
	TransactionStatusCancelled  TransactionStatus = "cancelled"
)

// Valid reports whether s is a known status.
func (s TransactionStatus) Valid() bool {
	switch s {
	case TransactionStatusPending, TransactionStatusProcessing, TransactionStatusCompleted,
		TransactionStatusFailed, TransactionStatusCancelled:
		return true
	}
	return false
}

// IsTerminal returns true if no further status update is accepted.
func (s TransactionStatus) IsTerminal() bool {
	return s == TransactionStatusCompleted ||
		s == TransactionStatusFailed ||
		s == TransactionStatusCancelled
}

// CanTransitionTo enforces forward-only status updates:
// pending -> processing -> completed, and any non-terminal status -> failed/cancelled.
func (s TransactionStatus) CanTransitionTo(next TransactionStatus) bool {
	if s.IsTerminal() || s == next {
		return false
	}
	switch next {
	case TransactionStatusProcessing:
		return s == TransactionStatusPending
	case TransactionStatusCompleted, TransactionStatusFailed, TransactionStatusCancelled:
		return true
	}
	return false
}

// SettlementStage tracks where the money of a transaction currently sits.
type SettlementStage string

const (
	StageStudentToAdmin  SettlementStage = "student_to_admin"
	StageAdminToTeacher  SettlementStage = "admin_to_teacher"
	StageRefundToStudent SettlementStage = "refund_to_student"
	StageCompleted       SettlementStage = "completed"
)

// Valid reports whether s is a known stage.
func (s SettlementStage) Valid() bool {
	switch s {
	case StageStudentToAdmin, StageAdminToTeacher, StageRefundToStudent, StageCompleted:
		return true
	}
	return false
}

// stageTransitions lists the allowed forward moves of a transaction's stage.
// refund_to_student and completed are final.
var stageTransitions = map[SettlementStage][]SettlementStage{
	StageStudentToAdmin: {StageAdminToTeacher, StageCompleted, StageRefundToStudent},
	StageAdminToTeacher: {StageCompleted, StageRefundToStudent},
}

// CanAdvanceTo reports whether a transaction may move from stage s to next.
func (s SettlementStage) CanAdvanceTo(next SettlementStage) bool {
	for _, allowed := range stageTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Transaction is a single money movement. Rows are never deleted.
type Transaction struct {
	ID                   uuid.UUID           `json:"id"`
	Type                 TransactionType     `json:"type"`
	GrossAmount          decimal.Decimal     `json:"gross_amount"`
	FeeAmount            decimal.Decimal     `json:"fee_amount"`
	NetAmount            decimal.Decimal     `json:"net_amount"`
	Currency             string              `json:"currency"`
	SourceUserID         *uuid.UUID          `json:"source_user_id,omitempty"` // nil for system-originated payouts/refunds
	DestinationUserID    *uuid.UUID          `json:"destination_user_id,omitempty"`
	Status               TransactionStatus   `json:"status"`
	Stage                SettlementStage     `json:"workflow_stage"`
	GatewayRef           *string             `json:"gateway_ref,omitempty"`
	BookingID            *uuid.UUID          `json:"booking_id,omitempty"`
	EnrollmentID         *uuid.UUID          `json:"enrollment_id,omitempty"`
	ParentTransactionID  *uuid.UUID          `json:"parent_transaction_id,omitempty"`
	RefundAmount         decimal.NullDecimal `json:"refund_amount"`
	ScheduledAt          *time.Time          `json:"scheduled_at,omitempty"`
	CancellationDeadline *time.Time          `json:"cancellation_deadline,omitempty"`
	PayoutEligibleAt     *time.Time          `json:"teacher_payout_eligible_at,omitempty"`
	CompletedAt          *time.Time          `json:"completed_at,omitempty"`
	ScheduledRefundAt    *time.Time          `json:"scheduled_refund_at,omitempty"`
	Notes                string              `json:"notes,omitempty"`
	CreatedAt            time.Time           `json:"created_at"`
	UpdatedAt            time.Time           `json:"updated_at"`
}

// IsPayment returns true for student payments held in escrow.
func (t *Transaction) IsPayment() bool {
	return t.Type.IsPayment()
}

// IsDisbursed returns true once the funds reached the teacher.
func (t *Transaction) IsDisbursed() bool {
	return t.Stage == StageCompleted && t.IsPayment()
}

// IsPayable returns true when the payout batch may disburse this transaction at now.
func (t *Transaction) IsPayable(now time.Time) bool {
	return t.IsPayment() &&
		t.Status == TransactionStatusCompleted &&
		(t.Stage == StageStudentToAdmin || t.Stage == StageAdminToTeacher) &&
		t.PayoutEligibleAt != nil && !t.PayoutEligibleAt.After(now)
}

// CanScheduleRefund returns true when the payment can still be routed back to the student.
func (t *Transaction) CanScheduleRefund() bool {
	return t.IsPayment() &&
		t.Stage != StageCompleted &&
		t.Stage != StageRefundToStudent &&
		t.Status != TransactionStatusCancelled &&
		t.Status != TransactionStatusFailed
}

// AppendNote adds a line to the free-text notes.
func (t *Transaction) AppendNote(note string) {
	if note == "" {
		return
	}
	if t.Notes == "" {
		t.Notes = note
		return
	}
	t.Notes += "\n" + note
}

// Validate checks the amount split, party presence and enum values.
func (t *Transaction) Validate() error {
	if !t.Type.Valid() {
		return apperror.ErrInvalidTransaction("unknown transaction type")
	}
	if !t.Status.Valid() {
		return apperror.ErrInvalidTransaction("unknown transaction status")
	}
	if !t.Stage.Valid() {
		return apperror.ErrInvalidTransaction("unknown workflow stage")
	}
	if !t.GrossAmount.IsPositive() {
		return apperror.ErrInvalidAmount()
	}
	if t.FeeAmount.IsNegative() || t.NetAmount.IsNegative() {
		return apperror.ErrInvalidTransaction("fee and net amounts must not be negative")
	}
	if !t.NetAmount.Equal(t.GrossAmount.Sub(t.FeeAmount)) {
		return apperror.ErrInvalidTransaction("net amount must equal gross amount minus fee")
	}
	if t.Currency == "" {
		return apperror.ErrInvalidTransaction("currency is required")
	}

	switch t.Type {
	case TransactionTypeCoursePayment, TransactionTypeBookingPayment:
		if t.SourceUserID == nil || t.DestinationUserID == nil {
			return apperror.ErrInvalidTransaction("payments require a student and a teacher")
		}
	case TransactionTypeRefund, TransactionTypeTeacherPayout:
		if t.SourceUserID != nil {
			return apperror.ErrInvalidTransaction("system transactions have no source party")
		}
		if t.DestinationUserID == nil || t.ParentTransactionID == nil {
			return apperror.ErrInvalidTransaction("derived transactions require a destination and a parent")
		}
	}
	return nil
}
