package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// FinanceSummary aggregates settled money. It is computed from transactions, never stored.
type FinanceSummary struct {
	TotalRevenue        decimal.Decimal `json:"total_revenue"`
	TotalTeacherPayouts decimal.Decimal `json:"total_teacher_payouts"`
	TotalRefunds        decimal.Decimal `json:"total_refunds"`
	TotalFeesCollected  decimal.Decimal `json:"total_fees_collected"`
	OpenConflictAmount  decimal.Decimal `json:"open_conflict_amount"`
	PendingRefunds      decimal.Decimal `json:"pending_refunds"` // scheduled but not yet issued
	PayingStudents      int64           `json:"paying_students"`
	PaidTeachers        int64           `json:"paid_teachers"`
	GeneratedAt         time.Time       `json:"generated_at"`
}
