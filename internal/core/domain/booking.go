package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Booking, Enrollment and PaymentMethod are owned by collaborator services.
// They are read here to compute schedules, proration and payout targets.

type BookingStatus string

const (
	BookingStatusScheduled BookingStatus = "scheduled"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Booking is a single 1:1 class.
type Booking struct {
	ID              uuid.UUID     `json:"id"`
	StudentID       uuid.UUID     `json:"student_id"`
	TeacherID       uuid.UUID     `json:"teacher_id"`
	ScheduledAt     time.Time     `json:"scheduled_at"`
	DurationMinutes int           `json:"duration_minutes"`
	Status          BookingStatus `json:"status"`
}

// EndsAt returns the scheduled end of the class.
func (b *Booking) EndsAt() time.Time {
	return b.ScheduledAt.Add(time.Duration(b.DurationMinutes) * time.Minute)
}

type EnrollmentStatus string

const (
	EnrollmentStatusActive    EnrollmentStatus = "active"
	EnrollmentStatusCompleted EnrollmentStatus = "completed"
	EnrollmentStatusCancelled EnrollmentStatus = "cancelled"
)

type SessionStatus string

const (
	SessionStatusScheduled SessionStatus = "scheduled"
	SessionStatusCompleted SessionStatus = "completed"
	SessionStatusCancelled SessionStatus = "cancelled"
)

// ClassSession is one class of a course enrollment.
type ClassSession struct {
	ID              uuid.UUID     `json:"id"`
	ScheduledAt     time.Time     `json:"scheduled_at"`
	DurationMinutes int           `json:"duration_minutes"`
	Status          SessionStatus `json:"status"`
}

// CourseEnrollment is a student's purchase of a multi-class course.
type CourseEnrollment struct {
	ID         uuid.UUID        `json:"id"`
	CourseID   uuid.UUID        `json:"course_id"`
	StudentID  uuid.UUID        `json:"student_id"`
	TeacherID  uuid.UUID        `json:"teacher_id"`
	TotalPrice decimal.Decimal  `json:"total_price"`
	Status     EnrollmentStatus `json:"status"`
	Sessions   []ClassSession   `json:"sessions"`
}

// TotalClasses returns the number of sessions in the course.
func (e *CourseEnrollment) TotalClasses() int {
	return len(e.Sessions)
}

// LastClassEndsAt returns the end of the latest session, or false if there are none.
func (e *CourseEnrollment) LastClassEndsAt() (time.Time, bool) {
	var last time.Time
	for _, s := range e.Sessions {
		end := s.ScheduledAt.Add(time.Duration(s.DurationMinutes) * time.Minute)
		if end.After(last) {
			last = end
		}
	}
	return last, !last.IsZero()
}

// FirstClassAt returns the start of the earliest session, or false if there are none.
func (e *CourseEnrollment) FirstClassAt() (time.Time, bool) {
	var first time.Time
	for _, s := range e.Sessions {
		if first.IsZero() || s.ScheduledAt.Before(first) {
			first = s.ScheduledAt
		}
	}
	return first, !first.IsZero()
}

// PaymentMethod is a teacher's payout destination.
type PaymentMethod struct {
	ID            uuid.UUID `json:"id"`
	TeacherID     uuid.UUID `json:"teacher_id"`
	Kind          string    `json:"kind"` // bank_account, upi, paypal
	MaskedAccount string    `json:"masked_account"`
	IsDefault     bool      `json:"is_default"`
	IsActive      bool      `json:"is_active"`
}
