package domain

import (
	"time"

	"tutor-settlement/pkg/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultPayoutWaitHours applies when a policy does not set a payout wait.
const DefaultPayoutWaitHours = 24

// moneyPlaces is the scale of every stored amount (NUMERIC(12,2)).
const moneyPlaces = 2

var hundred = decimal.NewFromInt(100)

// FeePolicy is the platform fee schedule. Exactly one policy is active at a time.
type FeePolicy struct {
	ID              uuid.UUID           `json:"id"`
	FeePercentage   decimal.Decimal     `json:"fee_percentage"`
	MinimumFee      decimal.Decimal     `json:"minimum_fee"`
	MaximumFee      decimal.NullDecimal `json:"maximum_fee"`
	PayoutWaitHours int                 `json:"teacher_payout_wait_hours"`
	IsActive        bool                `json:"is_active"`
	Description     string              `json:"description,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
}

// DefaultFeePolicy returns the policy used when none is stored: 2%, min 0.50, no max, 24h wait.
func DefaultFeePolicy() FeePolicy {
	return FeePolicy{
		FeePercentage:   decimal.NewFromInt(2),
		MinimumFee:      decimal.RequireFromString("0.50"),
		PayoutWaitHours: DefaultPayoutWaitHours,
		IsActive:        true,
		Description:     "Default platform fee",
	}
}

// WaitHours returns the teacher payout wait, falling back to the default.
func (p FeePolicy) WaitHours() int {
	if p.PayoutWaitHours > 0 {
		return p.PayoutWaitHours
	}
	return DefaultPayoutWaitHours
}

// Validate checks the policy bounds before it is stored.
func (p FeePolicy) Validate() error {
	if p.FeePercentage.IsNegative() || p.FeePercentage.GreaterThan(hundred) {
		return apperror.Validation("fee_percentage must be between 0 and 100")
	}
	if p.MinimumFee.IsNegative() {
		return apperror.Validation("minimum_fee must not be negative")
	}
	if p.MaximumFee.Valid && p.MaximumFee.Decimal.LessThan(p.MinimumFee) {
		return apperror.Validation("maximum_fee must not be lower than minimum_fee")
	}
	if p.PayoutWaitHours < 0 {
		return apperror.Validation("teacher_payout_wait_hours must not be negative")
	}
	return nil
}

// FeeBreakdown is the split of a gross amount into platform fee and teacher net.
type FeeBreakdown struct {
	Gross decimal.Decimal `json:"gross_amount"`
	Fee   decimal.Decimal `json:"fee_amount"`
	Net   decimal.Decimal `json:"net_amount"`
}

// ComputeFee applies policy to gross:
// fee = max(gross*pct/100, minimum), capped at maximum when set, rounded to cents
// and never above gross. net = gross - fee.
func ComputeFee(gross decimal.Decimal, policy FeePolicy) (FeeBreakdown, error) {
	if !gross.IsPositive() {
		return FeeBreakdown{}, apperror.ErrInvalidAmount()
	}
	if !gross.Equal(gross.Round(moneyPlaces)) {
		return FeeBreakdown{}, apperror.Validation("amount must have at most 2 decimal places")
	}

	fee := gross.Mul(policy.FeePercentage).Div(hundred)
	fee = decimal.Max(fee, policy.MinimumFee)
	if policy.MaximumFee.Valid {
		fee = decimal.Min(fee, policy.MaximumFee.Decimal)
	}
	fee = fee.Round(moneyPlaces)
	if fee.IsNegative() {
		fee = decimal.Zero
	}
	if fee.GreaterThan(gross) {
		fee = gross
	}

	return FeeBreakdown{
		Gross: gross,
		Fee:   fee,
		Net:   gross.Sub(fee),
	}, nil
}

// RoundMoney rounds an amount to cents, half away from zero.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(moneyPlaces)
}
