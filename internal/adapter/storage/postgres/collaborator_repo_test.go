package postgres

import (
	"context"
	"testing"
	"time"

	"tutor-settlement/internal/core/domain"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingRepo_CreateAndGet(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewBookingRepo(mock)
	b := &domain.Booking{
		ID:              uuid.New(),
		StudentID:       uuid.New(),
		TeacherID:       uuid.New(),
		ScheduledAt:     time.Now().UTC().Add(24 * time.Hour).Truncate(time.Microsecond),
		DurationMinutes: 60,
		Status:          domain.BookingStatusScheduled,
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO bookings").
		WithArgs(b.ID, b.StudentID, b.TeacherID, b.ScheduledAt, 60, domain.BookingStatusScheduled).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectQuery("SELECT .+ FROM bookings WHERE id").
		WithArgs(b.ID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "student_id", "teacher_id", "scheduled_at", "duration_minutes", "status"}).
			AddRow(b.ID, b.StudentID, b.TeacherID, b.ScheduledAt, 60, domain.BookingStatusScheduled))

	dbTx, err := mock.Begin(context.Background())
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), dbTx, b))

	got, err := repo.GetByID(context.Background(), b.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, b.EndsAt(), got.EndsAt())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepo_MarkCancelled(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewBookingRepo(mock)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE bookings SET status").
		WithArgs(domain.BookingStatusCancelled, id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	dbTx, err := mock.Begin(context.Background())
	require.NoError(t, err)
	assert.NoError(t, repo.MarkCancelled(context.Background(), dbTx, id))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepo_CreateFromCourse(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewEnrollmentRepo(mock)
	e := &domain.CourseEnrollment{
		ID:         uuid.New(),
		CourseID:   uuid.New(),
		StudentID:  uuid.New(),
		TeacherID:  uuid.New(),
		TotalPrice: decimal.RequireFromString("800.00"),
		Status:     domain.EnrollmentStatusActive,
	}
	first := time.Now().UTC().Add(72 * time.Hour).Truncate(time.Microsecond)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO course_enrollments").
		WithArgs(e.ID, e.CourseID, e.StudentID, e.TeacherID, e.TotalPrice, domain.EnrollmentStatusActive).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO class_sessions .+ FROM course_classes WHERE course_id").
		WithArgs(e.ID, domain.SessionStatusScheduled, e.CourseID).
		WillReturnResult(pgxmock.NewResult("INSERT", 2))
	mock.ExpectQuery("SELECT .+ FROM class_sessions WHERE enrollment_id").
		WithArgs(e.ID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "scheduled_at", "duration_minutes", "status"}).
			AddRow(uuid.New(), first, 60, domain.SessionStatusScheduled).
			AddRow(uuid.New(), first.Add(7*24*time.Hour), 90, domain.SessionStatusScheduled))

	dbTx, err := mock.Begin(context.Background())
	require.NoError(t, err)
	require.NoError(t, repo.CreateFromCourse(context.Background(), dbTx, e))

	assert.Equal(t, 2, e.TotalClasses())
	end, ok := e.LastClassEndsAt()
	require.True(t, ok)
	assert.Equal(t, first.Add(7*24*time.Hour+90*time.Minute), end)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepo_GetByID_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewEnrollmentRepo(mock)

	mock.ExpectQuery("SELECT .+ FROM course_enrollments WHERE id").
		WithArgs(pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id", "course_id", "student_id", "teacher_id", "total_price", "status"}))

	e, err := repo.GetByID(context.Background(), uuid.New())
	assert.NoError(t, err)
	assert.Nil(t, e)
}

func TestEnrollmentRepo_MarkCancelled(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewEnrollmentRepo(mock)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE course_enrollments SET status").
		WithArgs(domain.EnrollmentStatusCancelled, id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("UPDATE class_sessions SET status").
		WithArgs(domain.SessionStatusCancelled, id, domain.SessionStatusScheduled).
		WillReturnResult(pgxmock.NewResult("UPDATE", 3))

	dbTx, err := mock.Begin(context.Background())
	require.NoError(t, err)
	assert.NoError(t, repo.MarkCancelled(context.Background(), dbTx, id))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentMethodRepo_GetDefaultActive(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPaymentMethodRepo(mock)
	teacher := uuid.New()

	mock.ExpectQuery("FROM payment_methods\\s+WHERE teacher_id = \\$1 AND is_default AND is_active").
		WithArgs(teacher).
		WillReturnRows(pgxmock.NewRows([]string{"id", "teacher_id", "kind", "masked_account", "is_default", "is_active"}).
			AddRow(uuid.New(), teacher, "upi", "****@okbank", true, true))
	mock.ExpectQuery("FROM payment_methods").
		WithArgs(pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id", "teacher_id", "kind", "masked_account", "is_default", "is_active"}))

	m, err := repo.GetDefaultActive(context.Background(), teacher)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, "upi", m.Kind)

	m, err = repo.GetDefaultActive(context.Background(), uuid.New())
	assert.NoError(t, err)
	assert.Nil(t, m)
}

func TestAuditRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAuditRepo(mock)
	entry := &domain.AuditLog{
		ID:           uuid.New(),
		ActorID:      strPtr("admin"),
		Action:       domain.AuditActionResolveUnsettled,
		ResourceType: "unsettled_finance",
		ResourceID:   uuid.NewString(),
		IPAddress:    "10.0.0.1",
		CreatedAt:    time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO audit_logs").
		WithArgs(entry.ID, entry.ActorID, "RESOLVE_UNSETTLED", "unsettled_finance",
			entry.ResourceID, nil, "10.0.0.1", entry.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	assert.NoError(t, repo.Create(context.Background(), entry))
	assert.NoError(t, mock.ExpectationsWereMet())
}
