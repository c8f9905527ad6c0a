package ports

import (
	"context"
	"time"

	"tutor-settlement/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=services.go -destination=mocks/mock_services.go -package=mocks

// TokenService handles JWT token operations for the admin console.
type TokenService interface {
	Generate(subject string, role string) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	Subject string
	Role    string
}

// GatewayEventCache is the Redis-layer dedup of gateway events (fast path).
type GatewayEventCache interface {
	Get(ctx context.Context, key string) ([]byte, error) // Returns cached response JSON or nil
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// WorkflowLocker guards a workflow id against concurrent sweeps.
type WorkflowLocker interface {
	// Acquire returns true if the lock was taken, false if another holder has
	// it. The token identifies this hold and must be passed to Release.
	Acquire(ctx context.Context, workflowID uuid.UUID, ttl time.Duration) (token string, ok bool, err error)
	// Release drops the lock only while token still owns it.
	Release(ctx context.Context, workflowID uuid.UUID, token string) error
}

// LedgerCache stores transaction lists keyed by owner or booking.
type LedgerCache interface {
	GetList(ctx context.Context, key string) ([]domain.Transaction, bool, error)
	SetList(ctx context.Context, key string, txns []domain.Transaction, ttl time.Duration) error
	Invalidate(ctx context.Context, keys ...string) error
}

// AuditService records audited actions.
type AuditService interface {
	Log(ctx context.Context, entry *domain.AuditLog)
}

// --- Service Ports (Business Logic) ---

// Ledger is the transaction ledger. It is the only writer of transaction rows.
type Ledger interface {
	CreateTransaction(ctx context.Context, dbTx pgx.Tx, t *domain.Transaction) (*domain.Transaction, error)
	GetTransaction(ctx context.Context, id uuid.UUID) (*domain.Transaction, error)
	GetTransactionByGatewayRef(ctx context.Context, ref string) (*domain.Transaction, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Transaction, error)
	ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]domain.Transaction, error)
	UpdateStatus(ctx context.Context, dbTx pgx.Tx, req StatusUpdate) (*domain.Transaction, error)
	MarkScheduledRefund(ctx context.Context, dbTx pgx.Tx, req ScheduledRefund) (*domain.Transaction, error)
	// ApplySettlementStep persists a workflow-computed change of before into after.
	// It returns false when the stored stage no longer matches before.
	ApplySettlementStep(ctx context.Context, dbTx pgx.Tx, before, after *domain.Transaction) (bool, error)
}

// StatusUpdate holds input for a forward-only status change.
type StatusUpdate struct {
	TransactionID uuid.UUID
	Status        domain.TransactionStatus
	Stage         *domain.SettlementStage
	Now           time.Time
}

// ScheduledRefund holds input for routing a payment back to the student.
type ScheduledRefund struct {
	TransactionID uuid.UUID
	RefundAt      time.Time
	Amount        decimal.Decimal
	Note          string
	Now           time.Time
}

// FeePolicyService resolves the active fee policy and manages its history.
type FeePolicyService interface {
	// ResolvePolicy returns the active policy, or the configured default when none is stored.
	ResolvePolicy(ctx context.Context) (domain.FeePolicy, error)
	Create(ctx context.Context, p domain.FeePolicy, now time.Time) (*domain.FeePolicy, error)
	List(ctx context.Context) ([]domain.FeePolicy, error)
	Preview(ctx context.Context, gross decimal.Decimal) (domain.FeeBreakdown, error)
}

// WorkflowService drives the settlement state machine.
type WorkflowService interface {
	CreateWorkflow(ctx context.Context, dbTx pgx.Tx, tx *domain.Transaction, classEnd time.Time, now time.Time) (*domain.Workflow, error)
	GetWorkflow(ctx context.Context, id uuid.UUID) (*domain.Workflow, error)
	ListActiveWorkflows(ctx context.Context, limit int) ([]domain.Workflow, error)
	ListDue(ctx context.Context, now time.Time, limit int) ([]domain.Workflow, error)
	AdvanceStage(ctx context.Context, workflowID uuid.UUID, now time.Time) (*StepResult, error)
	// Cancel schedules the refund on the ledger and closes the transaction's active workflow
	// in the caller's database transaction.
	Cancel(ctx context.Context, dbTx pgx.Tx, req CancelRequest) (*domain.Transaction, error)
}

// CancelRequest holds input for short-circuiting a settlement into the refund branch.
type CancelRequest struct {
	TransactionID uuid.UUID
	RefundAmount  decimal.Decimal
	Reason        string
	Now           time.Time
}

// StepResult is the outcome of one AdvanceStage call.
type StepResult struct {
	Workflow *domain.Workflow
	Advanced bool
	Skipped  bool // lost a race or already locked; retried on the next tick
	Effects  []domain.Effect
}

// SettlementSweeper advances every due workflow once.
type SettlementSweeper interface {
	Sweep(ctx context.Context, now time.Time) (*SweepReport, error)
}

// SweepReport summarizes a settlement sweep.
type SweepReport struct {
	Selected int
	Advanced int
	Skipped  int
	Failed   int
}

// PayoutService disburses eligible escrow and issues scheduled refunds.
type PayoutService interface {
	RunBatch(ctx context.Context, now time.Time) (*BatchReport, error)
	IssueDueRefunds(ctx context.Context, now time.Time) (*BatchReport, error)
}

// BatchReport summarizes a payout or refund batch.
type BatchReport struct {
	Paid    int
	Skipped int
	Failed  int
}

// UnsettledService tracks money that needs manual resolution.
type UnsettledService interface {
	Record(ctx context.Context, req RecordUnsettled) (*domain.UnsettledFinance, error)
	// RecordTx opens the record inside dbTx.
	RecordTx(ctx context.Context, dbTx pgx.Tx, req RecordUnsettled) (*domain.UnsettledFinance, error)
	ListByStatus(ctx context.Context, status *domain.UnsettledStatus) ([]domain.UnsettledFinance, error)
	Resolve(ctx context.Context, id uuid.UUID, r domain.Resolution, now time.Time) (*domain.UnsettledFinance, error)
}

// RecordUnsettled holds input for opening an unsettled finance record.
type RecordUnsettled struct {
	GatewayRef   string
	ConflictType domain.ConflictType
	Amount       decimal.Decimal
	Currency     string
	Description  string
	Now          time.Time
}

// CancellationService applies the cancellation and refund rules.
type CancellationService interface {
	CancelBooking(ctx context.Context, bookingID uuid.UUID, now time.Time) (*domain.Transaction, error)
	BulkCancel(ctx context.Context, bookingIDs []uuid.UUID, now time.Time) (*domain.BulkCancelResult, error)
	CancelEnrollment(ctx context.Context, enrollmentID uuid.UUID, forceCancel bool, now time.Time) (*EnrollmentCancellation, error)
}

// EnrollmentCancellation is the outcome of a course cancellation.
type EnrollmentCancellation struct {
	Refund      domain.EnrollmentRefund
	Transaction *domain.Transaction
}

// GatewayEventService consumes gateway callbacks. Business failures never surface
// as errors; they become unsettled records.
type GatewayEventService interface {
	HandlePaymentConfirmed(ctx context.Context, ev domain.PaymentConfirmedEvent, now time.Time) (*GatewayResult, error)
	HandleRefundIssued(ctx context.Context, ev domain.RefundIssuedEvent, now time.Time) (*GatewayResult, error)
}

// GatewayOutcome describes what a gateway event produced.
type GatewayOutcome string

const (
	GatewayOutcomeRecorded  GatewayOutcome = "recorded"
	GatewayOutcomeDuplicate GatewayOutcome = "duplicate"
	GatewayOutcomeUnsettled GatewayOutcome = "unsettled"
)

// GatewayResult is acknowledged back to the gateway.
type GatewayResult struct {
	Outcome       GatewayOutcome `json:"outcome"`
	TransactionID *uuid.UUID     `json:"transaction_id,omitempty"`
	UnsettledID   *uuid.UUID     `json:"unsettled_id,omitempty"`
}

// FinanceService builds the admin finance summary.
type FinanceService interface {
	Summary(ctx context.Context, now time.Time) (*domain.FinanceSummary, error)
}
