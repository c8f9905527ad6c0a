package postgres

import (
	"context"
	"fmt"

	"tutor-settlement/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// BookingRepo implements ports.BookingRepository.
type BookingRepo struct {
	pool Pool
}

// NewBookingRepo creates a new BookingRepo.
func NewBookingRepo(pool Pool) *BookingRepo {
	return &BookingRepo{pool: pool}
}

// Create inserts a booking provisioned from gateway metadata.
func (r *BookingRepo) Create(ctx context.Context, tx pgx.Tx, b *domain.Booking) error {
	query := `INSERT INTO bookings (id, student_id, teacher_id, scheduled_at, duration_minutes, status)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := tx.Exec(ctx, query, b.ID, b.StudentID, b.TeacherID, b.ScheduledAt, b.DurationMinutes, b.Status)
	if err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}
	return nil
}

// GetByID fetches a booking by UUID.
func (r *BookingRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	query := `SELECT id, student_id, teacher_id, scheduled_at, duration_minutes, status
		FROM bookings WHERE id = $1`

	b := &domain.Booking{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&b.ID, &b.StudentID, &b.TeacherID, &b.ScheduledAt, &b.DurationMinutes, &b.Status,
	)
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get booking: %w", err)
	}
	return b, nil
}

// MarkCancelled flags the booking cancelled.
func (r *BookingRepo) MarkCancelled(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	_, err := tx.Exec(ctx,
		`UPDATE bookings SET status = $1, cancelled_at = now() WHERE id = $2`,
		domain.BookingStatusCancelled, id,
	)
	if err != nil {
		return fmt.Errorf("cancel booking: %w", err)
	}
	return nil
}
