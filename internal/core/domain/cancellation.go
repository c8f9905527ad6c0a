package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CanCancelAt reports whether a class starting at scheduledAt may still be cancelled at now.
// Cancellation is allowed strictly before scheduledAt - window.
func CanCancelAt(scheduledAt, now time.Time, window time.Duration) bool {
	return now.Before(scheduledAt.Add(-window))
}

// WindowHours renders a cancellation window for user-facing messages.
func WindowHours(window time.Duration) int {
	return int(window / time.Hour)
}

// Bulk cancellation failure reasons.
const (
	ReasonAlreadyCancelled = "already cancelled"
	ReasonNotFound         = "not found"
)

// ReasonWithinWindow is the bulk failure reason for a class inside the window.
func ReasonWithinWindow(window time.Duration) string {
	return fmt.Sprintf("within %d hours", WindowHours(window))
}

// BulkCancelFailure is one rejected item of a bulk cancellation.
type BulkCancelFailure struct {
	ID     uuid.UUID `json:"id"`
	Reason string    `json:"reason"`
}

// BulkCancelResult reports per-booking outcomes; partial success is expected.
type BulkCancelResult struct {
	Successful []uuid.UUID         `json:"successful"`
	Failed     []BulkCancelFailure `json:"failed"`
}

// EnrollmentRefund is the prorated refund of a course cancellation.
type EnrollmentRefund struct {
	TotalClasses      int             `json:"total_classes"`
	CompletedClasses  int             `json:"completed_classes"`
	BlockingClasses   int             `json:"classes_within_window"`
	RefundableClasses int             `json:"refundable_classes"`
	RefundAmount      decimal.Decimal `json:"refund_amount"`
}

// ComputeEnrollmentRefund prorates the course price over classes still refundable at now.
// refundable = total - completed - within window; refund = price * refundable / total.
// Classes that already started without completing count as within the window.
// A course without sessions is refunded in full.
func ComputeEnrollmentRefund(e CourseEnrollment, now time.Time, window time.Duration) EnrollmentRefund {
	r := EnrollmentRefund{TotalClasses: e.TotalClasses()}
	for _, s := range e.Sessions {
		switch {
		case s.Status == SessionStatusCompleted:
			r.CompletedClasses++
		case s.Status == SessionStatusCancelled:
		case !CanCancelAt(s.ScheduledAt, now, window):
			r.BlockingClasses++
		}
	}

	if r.TotalClasses == 0 {
		r.RefundAmount = RoundMoney(e.TotalPrice)
		return r
	}

	r.RefundableClasses = r.TotalClasses - r.CompletedClasses - r.BlockingClasses
	if r.RefundableClasses < 0 {
		r.RefundableClasses = 0
	}
	r.RefundAmount = RoundMoney(
		e.TotalPrice.Mul(decimal.NewFromInt(int64(r.RefundableClasses))).
			Div(decimal.NewFromInt(int64(r.TotalClasses))),
	)
	return r
}
