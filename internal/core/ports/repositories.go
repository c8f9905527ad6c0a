package ports

import (
	"context"
	"time"

	"tutor-settlement/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=repositories.go -destination=mocks/mock_repositories.go -package=mocks

// TransactionRepository defines persistence operations for ledger transactions.
// Methods accepting pgx.Tx are used inside transaction blocks; ...ForUpdate locks the row.
type TransactionRepository interface {
	Create(ctx context.Context, tx pgx.Tx, t *domain.Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error)
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Transaction, error)
	GetByGatewayRef(ctx context.Context, ref string) (*domain.Transaction, error)
	GetPaymentByBooking(ctx context.Context, bookingID uuid.UUID) (*domain.Transaction, error)
	GetPaymentByEnrollment(ctx context.Context, enrollmentID uuid.UUID) (*domain.Transaction, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Transaction, error)
	ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]domain.Transaction, error)
	// Update writes every mutable column only if the stored stage still equals expectedStage.
	// It returns false when the row changed concurrently.
	Update(ctx context.Context, tx pgx.Tx, t *domain.Transaction, expectedStage domain.SettlementStage) (bool, error)
	HasChild(ctx context.Context, tx pgx.Tx, parentID uuid.UUID, childType domain.TransactionType) (bool, error)
	// Sweep queries
	ListPayable(ctx context.Context, now time.Time, limit int) ([]domain.Transaction, error)
	ListDueRefunds(ctx context.Context, now time.Time, limit int) ([]domain.Transaction, error)
	// Reporting
	GetFinanceTotals(ctx context.Context) (*domain.FinanceSummary, error)
}

// WorkflowRepository defines persistence operations for settlement workflows.
type WorkflowRepository interface {
	Create(ctx context.Context, tx pgx.Tx, wf *domain.Workflow) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Workflow, error)
	GetActiveByTransaction(ctx context.Context, tx pgx.Tx, transactionID uuid.UUID) (*domain.Workflow, error)
	ListActive(ctx context.Context, limit int) ([]domain.Workflow, error)
	// ListDue returns active workflows whose next_action_at <= now. Rows with a NULL next_action_at never match.
	ListDue(ctx context.Context, now time.Time, limit int) ([]domain.Workflow, error)
	// Update is a compare-and-swap on (current_stage, status = active); false means the tick lost a race.
	Update(ctx context.Context, tx pgx.Tx, wf *domain.Workflow, expectedStage domain.WorkflowStage) (bool, error)
}

// UnsettledFinanceRepository persists exception records. Writes use the pool directly
// so a record survives the rollback of the operation that failed.
type UnsettledFinanceRepository interface {
	Create(ctx context.Context, u *domain.UnsettledFinance) error
	// CreateTx inserts inside tx for callers that must commit the record atomically with their own writes.
	CreateTx(ctx context.Context, tx pgx.Tx, u *domain.UnsettledFinance) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.UnsettledFinance, error)
	ListByStatus(ctx context.Context, status *domain.UnsettledStatus) ([]domain.UnsettledFinance, error)
	// Resolve stores the resolution only while the row is still open; false means it was already resolved.
	Resolve(ctx context.Context, u *domain.UnsettledFinance) (bool, error)
	SumOpen(ctx context.Context) (decimal.Decimal, error)
}

// FeePolicyRepository persists fee schedules.
type FeePolicyRepository interface {
	GetActive(ctx context.Context) (*domain.FeePolicy, error)
	List(ctx context.Context) ([]domain.FeePolicy, error)
	// Create deactivates every other policy and inserts p as the active one.
	Create(ctx context.Context, tx pgx.Tx, p *domain.FeePolicy) error
}

// BookingRepository reads and updates the collaborator-owned bookings table.
type BookingRepository interface {
	Create(ctx context.Context, tx pgx.Tx, b *domain.Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
	MarkCancelled(ctx context.Context, tx pgx.Tx, id uuid.UUID) error
}

// EnrollmentRepository reads and updates the collaborator-owned enrollments and sessions.
type EnrollmentRepository interface {
	// CreateFromCourse inserts the enrollment, materializes its sessions from the course
	// schedule and loads them into e.Sessions.
	CreateFromCourse(ctx context.Context, tx pgx.Tx, e *domain.CourseEnrollment) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.CourseEnrollment, error)
	MarkCancelled(ctx context.Context, tx pgx.Tx, id uuid.UUID) error
}

// PaymentMethodRepository looks up teacher payout destinations.
type PaymentMethodRepository interface {
	GetDefaultActive(ctx context.Context, teacherID uuid.UUID) (*domain.PaymentMethod, error)
}

// GatewayEventRepository is the durable layer of gateway event dedup.
type GatewayEventRepository interface {
	Create(ctx context.Context, tx pgx.Tx, e *domain.GatewayEventLog) error
	Get(ctx context.Context, key string) (*domain.GatewayEventLog, error)
}

// AuditRepository persists audit log entries.
type AuditRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
