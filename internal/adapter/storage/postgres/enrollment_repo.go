package postgres

import (
	"context"
	"fmt"

	"tutor-settlement/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// EnrollmentRepo implements ports.EnrollmentRepository.
type EnrollmentRepo struct {
	pool Pool
}

// NewEnrollmentRepo creates a new EnrollmentRepo.
func NewEnrollmentRepo(pool Pool) *EnrollmentRepo {
	return &EnrollmentRepo{pool: pool}
}

// CreateFromCourse inserts the enrollment and copies the course schedule into its sessions.
func (r *EnrollmentRepo) CreateFromCourse(ctx context.Context, tx pgx.Tx, e *domain.CourseEnrollment) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO course_enrollments (id, course_id, student_id, teacher_id, total_price, status)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		e.ID, e.CourseID, e.StudentID, e.TeacherID, e.TotalPrice, e.Status,
	)
	if err != nil {
		return fmt.Errorf("insert enrollment: %w", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO class_sessions (id, enrollment_id, scheduled_at, duration_minutes, status)
		 SELECT gen_random_uuid(), $1, scheduled_at, duration_minutes, $2
		 FROM course_classes WHERE course_id = $3`,
		e.ID, domain.SessionStatusScheduled, e.CourseID,
	)
	if err != nil {
		return fmt.Errorf("create class sessions: %w", err)
	}

	sessions, err := listSessions(ctx, tx, e.ID)
	if err != nil {
		return err
	}
	e.Sessions = sessions
	return nil
}

// GetByID fetches an enrollment with its sessions.
func (r *EnrollmentRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.CourseEnrollment, error) {
	e := &domain.CourseEnrollment{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, course_id, student_id, teacher_id, total_price, status
		 FROM course_enrollments WHERE id = $1`, id,
	).Scan(&e.ID, &e.CourseID, &e.StudentID, &e.TeacherID, &e.TotalPrice, &e.Status)
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get enrollment: %w", err)
	}

	sessions, err := listSessions(ctx, r.pool, id)
	if err != nil {
		return nil, err
	}
	e.Sessions = sessions
	return e, nil
}

// MarkCancelled cancels the enrollment and every session not yet held.
func (r *EnrollmentRepo) MarkCancelled(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	_, err := tx.Exec(ctx,
		`UPDATE course_enrollments SET status = $1, cancelled_at = now() WHERE id = $2`,
		domain.EnrollmentStatusCancelled, id,
	)
	if err != nil {
		return fmt.Errorf("cancel enrollment: %w", err)
	}

	_, err = tx.Exec(ctx,
		`UPDATE class_sessions SET status = $1 WHERE enrollment_id = $2 AND status = $3`,
		domain.SessionStatusCancelled, id, domain.SessionStatusScheduled,
	)
	if err != nil {
		return fmt.Errorf("cancel class sessions: %w", err)
	}
	return nil
}

func listSessions(ctx context.Context, q querier, enrollmentID uuid.UUID) ([]domain.ClassSession, error) {
	rows, err := q.Query(ctx,
		`SELECT id, scheduled_at, duration_minutes, status
		 FROM class_sessions WHERE enrollment_id = $1 ORDER BY scheduled_at`, enrollmentID,
	)
	if err != nil {
		return nil, fmt.Errorf("list class sessions: %w", err)
	}
	defer rows.Close()

	sessions := []domain.ClassSession{}
	for rows.Next() {
		var s domain.ClassSession
		if err := rows.Scan(&s.ID, &s.ScheduledAt, &s.DurationMinutes, &s.Status); err != nil {
			return nil, fmt.Errorf("scan class session: %w", err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate class sessions: %w", err)
	}
	return sessions, nil
}
