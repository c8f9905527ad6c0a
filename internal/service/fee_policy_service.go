package service

import (
	"context"
	"fmt"
	"time"

	"tutor-settlement/internal/core/domain"
	"tutor-settlement/internal/core/ports"
	"tutor-settlement/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// FeePolicyServiceImpl implements ports.FeePolicyService.
type FeePolicyServiceImpl struct {
	repo       ports.FeePolicyRepository
	transactor ports.DBTransactor
	fallback   domain.FeePolicy
	log        zerolog.Logger
}

// NewFeePolicyService creates a fee policy service. fallback applies while no policy is stored.
func NewFeePolicyService(
	repo ports.FeePolicyRepository,
	transactor ports.DBTransactor,
	fallback domain.FeePolicy,
	log zerolog.Logger,
) *FeePolicyServiceImpl {
	return &FeePolicyServiceImpl{
		repo:       repo,
		transactor: transactor,
		fallback:   fallback,
		log:        log,
	}
}

// ParseDefaultPolicy builds the fallback policy from configured decimal strings.
// An empty maximum leaves the fee uncapped.
func ParseDefaultPolicy(pct, minimum, maximum string, waitHours int) (domain.FeePolicy, error) {
	p := domain.DefaultFeePolicy()

	var err error
	if pct != "" {
		if p.FeePercentage, err = decimal.NewFromString(pct); err != nil {
			return domain.FeePolicy{}, fmt.Errorf("parse fee_percentage: %w", err)
		}
	}
	if minimum != "" {
		if p.MinimumFee, err = decimal.NewFromString(minimum); err != nil {
			return domain.FeePolicy{}, fmt.Errorf("parse minimum_fee: %w", err)
		}
	}
	if maximum != "" {
		maxFee, err := decimal.NewFromString(maximum)
		if err != nil {
			return domain.FeePolicy{}, fmt.Errorf("parse maximum_fee: %w", err)
		}
		p.MaximumFee = decimal.NewNullDecimal(maxFee)
	}
	if waitHours > 0 {
		p.PayoutWaitHours = waitHours
	}
	if err := p.Validate(); err != nil {
		return domain.FeePolicy{}, err
	}
	return p, nil
}

// ResolvePolicy returns the active stored policy, or the fallback when none exists.
func (s *FeePolicyServiceImpl) ResolvePolicy(ctx context.Context) (domain.FeePolicy, error) {
	p, err := s.repo.GetActive(ctx)
	if err != nil {
		return domain.FeePolicy{}, apperror.InternalError(fmt.Errorf("get active fee policy: %w", err))
	}
	if p == nil {
		return s.fallback, nil
	}
	return *p, nil
}

// Create stores p as the only active policy.
func (s *FeePolicyServiceImpl) Create(ctx context.Context, p domain.FeePolicy, now time.Time) (*domain.FeePolicy, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	p.ID = uuid.New()
	p.IsActive = true
	p.CreatedAt = now
	if p.PayoutWaitHours == 0 {
		p.PayoutWaitHours = domain.DefaultPayoutWaitHours
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	if err := s.repo.Create(ctx, dbTx, &p); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create fee policy: %w", err))
	}
	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Str("policy_id", p.ID.String()).
		Str("fee_percentage", p.FeePercentage.String()).
		Str("minimum_fee", p.MinimumFee.StringFixed(2)).
		Int("payout_wait_hours", p.PayoutWaitHours).
		Msg("fee policy activated")
	return &p, nil
}

func (s *FeePolicyServiceImpl) List(ctx context.Context) ([]domain.FeePolicy, error) {
	policies, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list fee policies: %w", err))
	}
	return policies, nil
}

// Preview computes the split of gross under the current policy.
func (s *FeePolicyServiceImpl) Preview(ctx context.Context, gross decimal.Decimal) (domain.FeeBreakdown, error) {
	p, err := s.ResolvePolicy(ctx)
	if err != nil {
		return domain.FeeBreakdown{}, err
	}
	return domain.ComputeFee(gross, p)
}
