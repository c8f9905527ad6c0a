package postgres

import (
	"context"
	"fmt"

	"tutor-settlement/internal/core/domain"

	"github.com/google/uuid"
)

// PaymentMethodRepo implements ports.PaymentMethodRepository.
type PaymentMethodRepo struct {
	pool Pool
}

// NewPaymentMethodRepo creates a new PaymentMethodRepo.
func NewPaymentMethodRepo(pool Pool) *PaymentMethodRepo {
	return &PaymentMethodRepo{pool: pool}
}

// GetDefaultActive returns the teacher's default active payout method, or nil.
func (r *PaymentMethodRepo) GetDefaultActive(ctx context.Context, teacherID uuid.UUID) (*domain.PaymentMethod, error) {
	m := &domain.PaymentMethod{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, teacher_id, kind, masked_account, is_default, is_active
		 FROM payment_methods
		 WHERE teacher_id = $1 AND is_default AND is_active
		 LIMIT 1`, teacherID,
	).Scan(&m.ID, &m.TeacherID, &m.Kind, &m.MaskedAccount, &m.IsDefault, &m.IsActive)
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get payment method: %w", err)
	}
	return m, nil
}
