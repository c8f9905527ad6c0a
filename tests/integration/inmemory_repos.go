package integration

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"tutor-settlement/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

// The in-memory repos enforce the same unique indexes and compare-and-swap
// predicates as the postgres adapters. Values are copied on the way in and
// out so callers never share state with the store.

// --- In-Memory Transaction Repo ---

type inMemoryTransactionRepo struct {
	mu   sync.RWMutex
	txns map[uuid.UUID]domain.Transaction
}

func newInMemoryTransactionRepo() *inMemoryTransactionRepo {
	return &inMemoryTransactionRepo{txns: make(map[uuid.UUID]domain.Transaction)}
}

func (r *inMemoryTransactionRepo) Create(ctx context.Context, tx pgx.Tx, t *domain.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.txns[t.ID]; ok {
		return fmt.Errorf("duplicate transaction id %s", t.ID)
	}
	for _, existing := range r.txns {
		if t.IsPayment() && existing.IsPayment() && t.GatewayRef != nil && existing.GatewayRef != nil &&
			*t.GatewayRef == *existing.GatewayRef {
			return fmt.Errorf("duplicate gateway_ref %s", *t.GatewayRef)
		}
		if t.ParentTransactionID != nil && existing.ParentTransactionID != nil &&
			*t.ParentTransactionID == *existing.ParentTransactionID && t.Type == existing.Type &&
			!t.Type.IsPayment() {
			return fmt.Errorf("duplicate %s for parent %s", t.Type, *t.ParentTransactionID)
		}
	}
	r.txns[t.ID] = *t
	return nil
}

func (r *inMemoryTransactionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.txns[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (r *inMemoryTransactionRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Transaction, error) {
	return r.GetByID(ctx, id)
}

func (r *inMemoryTransactionRepo) GetByGatewayRef(ctx context.Context, ref string) (*domain.Transaction, error) {
	return r.first(func(t domain.Transaction) bool {
		return t.IsPayment() && t.GatewayRef != nil && *t.GatewayRef == ref
	}), nil
}

func (r *inMemoryTransactionRepo) GetPaymentByBooking(ctx context.Context, bookingID uuid.UUID) (*domain.Transaction, error) {
	return r.first(func(t domain.Transaction) bool {
		return t.Type == domain.TransactionTypeBookingPayment && t.BookingID != nil && *t.BookingID == bookingID
	}), nil
}

func (r *inMemoryTransactionRepo) GetPaymentByEnrollment(ctx context.Context, enrollmentID uuid.UUID) (*domain.Transaction, error) {
	return r.first(func(t domain.Transaction) bool {
		return t.Type == domain.TransactionTypeCoursePayment && t.EnrollmentID != nil && *t.EnrollmentID == enrollmentID
	}), nil
}

func (r *inMemoryTransactionRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Transaction, error) {
	out := r.filter(func(t domain.Transaction) bool {
		return (t.SourceUserID != nil && *t.SourceUserID == userID) ||
			(t.DestinationUserID != nil && *t.DestinationUserID == userID)
	})
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *inMemoryTransactionRepo) ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]domain.Transaction, error) {
	out := r.filter(func(t domain.Transaction) bool {
		return t.BookingID != nil && *t.BookingID == bookingID
	})
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *inMemoryTransactionRepo) Update(ctx context.Context, tx pgx.Tx, t *domain.Transaction, expectedStage domain.SettlementStage) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.txns[t.ID]
	if !ok || stored.Stage != expectedStage {
		return false, nil
	}
	r.txns[t.ID] = *t
	return true, nil
}

func (r *inMemoryTransactionRepo) HasChild(ctx context.Context, tx pgx.Tx, parentID uuid.UUID, childType domain.TransactionType) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.hasChildLocked(parentID, childType), nil
}

func (r *inMemoryTransactionRepo) hasChildLocked(parentID uuid.UUID, childType domain.TransactionType) bool {
	for _, c := range r.txns {
		if c.ParentTransactionID != nil && *c.ParentTransactionID == parentID &&
			c.Type == childType && c.Status != domain.TransactionStatusFailed {
			return true
		}
	}
	return false
}

func (r *inMemoryTransactionRepo) ListPayable(ctx context.Context, now time.Time, limit int) ([]domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.Transaction
	for _, t := range r.txns {
		if t.IsPayable(now) && !r.hasChildLocked(t.ID, domain.TransactionTypeTeacherPayout) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PayoutEligibleAt.Before(*out[j].PayoutEligibleAt) })
	return truncate(out, limit), nil
}

func (r *inMemoryTransactionRepo) ListDueRefunds(ctx context.Context, now time.Time, limit int) ([]domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.Transaction
	for _, t := range r.txns {
		if !t.IsPayment() || t.Status != domain.TransactionStatusCancelled || t.Stage != domain.StageRefundToStudent {
			continue
		}
		if t.ScheduledRefundAt == nil || t.ScheduledRefundAt.After(now) {
			continue
		}
		amount := t.GrossAmount
		if t.RefundAmount.Valid {
			amount = t.RefundAmount.Decimal
		}
		if !amount.IsPositive() || r.hasChildLocked(t.ID, domain.TransactionTypeRefund) {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledRefundAt.Before(*out[j].ScheduledRefundAt) })
	return truncate(out, limit), nil
}

func (r *inMemoryTransactionRepo) GetFinanceTotals(ctx context.Context) (*domain.FinanceSummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s := &domain.FinanceSummary{}
	students := map[uuid.UUID]struct{}{}
	teachers := map[uuid.UUID]struct{}{}
	for _, t := range r.txns {
		switch {
		case t.IsPayment():
			switch t.Status {
			case domain.TransactionStatusProcessing, domain.TransactionStatusCompleted:
				s.TotalRevenue = s.TotalRevenue.Add(t.GrossAmount)
				s.TotalFeesCollected = s.TotalFeesCollected.Add(t.FeeAmount)
				students[*t.SourceUserID] = struct{}{}
			case domain.TransactionStatusCancelled:
				s.TotalRevenue = s.TotalRevenue.Add(t.GrossAmount)
				students[*t.SourceUserID] = struct{}{}
				if t.RefundAmount.Valid && !r.hasChildLocked(t.ID, domain.TransactionTypeRefund) {
					s.PendingRefunds = s.PendingRefunds.Add(t.RefundAmount.Decimal)
				}
			}
		case t.Type == domain.TransactionTypeTeacherPayout && t.Status == domain.TransactionStatusCompleted:
			s.TotalTeacherPayouts = s.TotalTeacherPayouts.Add(t.GrossAmount)
			teachers[*t.DestinationUserID] = struct{}{}
		case t.Type == domain.TransactionTypeRefund && t.Status == domain.TransactionStatusCompleted:
			s.TotalRefunds = s.TotalRefunds.Add(t.GrossAmount)
		}
	}
	s.PayingStudents = int64(len(students))
	s.PaidTeachers = int64(len(teachers))
	return s, nil
}

func (r *inMemoryTransactionRepo) first(match func(domain.Transaction) bool) *domain.Transaction {
	out := r.filter(match)
	if len(out) == 0 {
		return nil
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return &out[0]
}

func (r *inMemoryTransactionRepo) filter(match func(domain.Transaction) bool) []domain.Transaction {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []domain.Transaction{}
	for _, t := range r.txns {
		if match(t) {
			out = append(out, t)
		}
	}
	return out
}

// all returns every stored transaction; tests use it to assert ledger totals.
func (r *inMemoryTransactionRepo) all() []domain.Transaction {
	return r.filter(func(domain.Transaction) bool { return true })
}

func truncate(txns []domain.Transaction, limit int) []domain.Transaction {
	if limit > 0 && len(txns) > limit {
		return txns[:limit]
	}
	return txns
}

// --- In-Memory Workflow Repo ---

type inMemoryWorkflowRepo struct {
	mu        sync.RWMutex
	workflows map[uuid.UUID]domain.Workflow
}

func newInMemoryWorkflowRepo() *inMemoryWorkflowRepo {
	return &inMemoryWorkflowRepo{workflows: make(map[uuid.UUID]domain.Workflow)}
}

func (r *inMemoryWorkflowRepo) Create(ctx context.Context, tx pgx.Tx, wf *domain.Workflow) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.workflows {
		if existing.TransactionID == wf.TransactionID && existing.IsActive() {
			return fmt.Errorf("active workflow already exists for transaction %s", wf.TransactionID)
		}
	}
	r.workflows[wf.ID] = cloneWorkflow(*wf)
	return nil
}

func (r *inMemoryWorkflowRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Workflow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	wf, ok := r.workflows[id]
	if !ok {
		return nil, nil
	}
	wf = cloneWorkflow(wf)
	return &wf, nil
}

func (r *inMemoryWorkflowRepo) GetActiveByTransaction(ctx context.Context, tx pgx.Tx, transactionID uuid.UUID) (*domain.Workflow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, wf := range r.workflows {
		if wf.TransactionID == transactionID && wf.IsActive() {
			wf = cloneWorkflow(wf)
			return &wf, nil
		}
	}
	return nil, nil
}

func (r *inMemoryWorkflowRepo) ListActive(ctx context.Context, limit int) ([]domain.Workflow, error) {
	return r.list(limit, func(wf domain.Workflow) bool { return wf.IsActive() },
		func(a, b domain.Workflow) bool { return a.CreatedAt.Before(b.CreatedAt) }), nil
}

func (r *inMemoryWorkflowRepo) ListDue(ctx context.Context, now time.Time, limit int) ([]domain.Workflow, error) {
	return r.list(limit, func(wf domain.Workflow) bool { return wf.IsDue(now) },
		func(a, b domain.Workflow) bool { return a.NextActionAt.Before(*b.NextActionAt) }), nil
}

func (r *inMemoryWorkflowRepo) Update(ctx context.Context, tx pgx.Tx, wf *domain.Workflow, expectedStage domain.WorkflowStage) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.workflows[wf.ID]
	if !ok || stored.CurrentStage != expectedStage || !stored.IsActive() {
		return false, nil
	}
	r.workflows[wf.ID] = cloneWorkflow(*wf)
	return true, nil
}

func (r *inMemoryWorkflowRepo) list(limit int, match func(domain.Workflow) bool, less func(a, b domain.Workflow) bool) []domain.Workflow {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []domain.Workflow{}
	for _, wf := range r.workflows {
		if match(wf) {
			out = append(out, cloneWorkflow(wf))
		}
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func cloneWorkflow(wf domain.Workflow) domain.Workflow {
	wf.ProcessingErrors = append([]string{}, wf.ProcessingErrors...)
	return wf
}

// --- In-Memory Unsettled Finance Repo ---

type inMemoryUnsettledRepo struct {
	mu      sync.RWMutex
	records map[uuid.UUID]domain.UnsettledFinance
}

func newInMemoryUnsettledRepo() *inMemoryUnsettledRepo {
	return &inMemoryUnsettledRepo{records: make(map[uuid.UUID]domain.UnsettledFinance)}
}

func (r *inMemoryUnsettledRepo) Create(ctx context.Context, u *domain.UnsettledFinance) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[u.ID] = *u
	return nil
}

func (r *inMemoryUnsettledRepo) CreateTx(ctx context.Context, tx pgx.Tx, u *domain.UnsettledFinance) error {
	return r.Create(ctx, u)
}

func (r *inMemoryUnsettledRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.UnsettledFinance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.records[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *inMemoryUnsettledRepo) ListByStatus(ctx context.Context, status *domain.UnsettledStatus) ([]domain.UnsettledFinance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []domain.UnsettledFinance{}
	for _, u := range r.records {
		if status == nil || u.Status == *status {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *inMemoryUnsettledRepo) Resolve(ctx context.Context, u *domain.UnsettledFinance) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.records[u.ID]
	if !ok || !stored.IsOpen() {
		return false, nil
	}
	r.records[u.ID] = *u
	return true, nil
}

func (r *inMemoryUnsettledRepo) SumOpen(ctx context.Context) (decimal.Decimal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sum := decimal.Zero
	for _, u := range r.records {
		if u.IsOpen() {
			sum = sum.Add(u.Amount)
		}
	}
	return sum, nil
}

// --- In-Memory Fee Policy Repo ---

type inMemoryFeePolicyRepo struct {
	mu       sync.RWMutex
	policies []domain.FeePolicy
}

func newInMemoryFeePolicyRepo() *inMemoryFeePolicyRepo {
	return &inMemoryFeePolicyRepo{}
}

func (r *inMemoryFeePolicyRepo) GetActive(ctx context.Context) (*domain.FeePolicy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.policies {
		if p.IsActive {
			return &p, nil
		}
	}
	return nil, nil
}

func (r *inMemoryFeePolicyRepo) List(ctx context.Context) ([]domain.FeePolicy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.FeePolicy, len(r.policies))
	for i := range r.policies {
		out[len(out)-1-i] = r.policies[i]
	}
	return out, nil
}

func (r *inMemoryFeePolicyRepo) Create(ctx context.Context, tx pgx.Tx, p *domain.FeePolicy) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.policies {
		r.policies[i].IsActive = false
	}
	stored := *p
	stored.IsActive = true
	r.policies = append(r.policies, stored)
	return nil
}

// --- In-Memory Booking Repo ---

type inMemoryBookingRepo struct {
	mu       sync.RWMutex
	bookings map[uuid.UUID]domain.Booking
}

func newInMemoryBookingRepo() *inMemoryBookingRepo {
	return &inMemoryBookingRepo{bookings: make(map[uuid.UUID]domain.Booking)}
}

func (r *inMemoryBookingRepo) Create(ctx context.Context, tx pgx.Tx, b *domain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bookings[b.ID]; ok {
		return fmt.Errorf("booking %s already exists", b.ID)
	}
	r.bookings[b.ID] = *b
	return nil
}

func (r *inMemoryBookingRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (r *inMemoryBookingRepo) MarkCancelled(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return fmt.Errorf("booking %s not found", id)
	}
	b.Status = domain.BookingStatusCancelled
	r.bookings[id] = b
	return nil
}

// --- In-Memory Enrollment Repo ---

// inMemoryEnrollmentRepo materializes sessions from a course catalogue keyed
// by course id. Unknown courses fail the way a foreign key would.
type inMemoryEnrollmentRepo struct {
	mu          sync.RWMutex
	courses     map[uuid.UUID][]domain.ClassSession
	enrollments map[uuid.UUID]domain.CourseEnrollment
}

func newInMemoryEnrollmentRepo() *inMemoryEnrollmentRepo {
	return &inMemoryEnrollmentRepo{
		courses:     make(map[uuid.UUID][]domain.ClassSession),
		enrollments: make(map[uuid.UUID]domain.CourseEnrollment),
	}
}

func (r *inMemoryEnrollmentRepo) addCourse(courseID uuid.UUID, starts []time.Time, durationMinutes int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sessions := make([]domain.ClassSession, 0, len(starts))
	for _, at := range starts {
		sessions = append(sessions, domain.ClassSession{
			ScheduledAt:     at,
			DurationMinutes: durationMinutes,
			Status:          domain.SessionStatusScheduled,
		})
	}
	r.courses[courseID] = sessions
}

func (r *inMemoryEnrollmentRepo) CreateFromCourse(ctx context.Context, tx pgx.Tx, e *domain.CourseEnrollment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	schedule, ok := r.courses[e.CourseID]
	if !ok {
		return fmt.Errorf("course %s not found", e.CourseID)
	}
	e.Sessions = make([]domain.ClassSession, len(schedule))
	for i, s := range schedule {
		s.ID = uuid.New()
		e.Sessions[i] = s
	}
	stored := *e
	stored.Sessions = append([]domain.ClassSession(nil), e.Sessions...)
	r.enrollments[e.ID] = stored
	return nil
}

func (r *inMemoryEnrollmentRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.CourseEnrollment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.enrollments[id]
	if !ok {
		return nil, nil
	}
	e.Sessions = append([]domain.ClassSession(nil), e.Sessions...)
	return &e, nil
}

func (r *inMemoryEnrollmentRepo) MarkCancelled(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.enrollments[id]
	if !ok {
		return fmt.Errorf("enrollment %s not found", id)
	}
	e.Status = domain.EnrollmentStatusCancelled
	sessions := append([]domain.ClassSession(nil), e.Sessions...)
	for i := range sessions {
		if sessions[i].Status == domain.SessionStatusScheduled {
			sessions[i].Status = domain.SessionStatusCancelled
		}
	}
	e.Sessions = sessions
	r.enrollments[id] = e
	return nil
}

// --- In-Memory Payment Method Repo ---

type inMemoryPaymentMethodRepo struct {
	mu      sync.RWMutex
	methods map[uuid.UUID]domain.PaymentMethod
}

func newInMemoryPaymentMethodRepo() *inMemoryPaymentMethodRepo {
	return &inMemoryPaymentMethodRepo{methods: make(map[uuid.UUID]domain.PaymentMethod)}
}

func (r *inMemoryPaymentMethodRepo) add(teacherID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.methods[teacherID] = domain.PaymentMethod{
		ID:            uuid.New(),
		TeacherID:     teacherID,
		Kind:          "bank_account",
		MaskedAccount: "****4242",
		IsDefault:     true,
		IsActive:      true,
	}
}

func (r *inMemoryPaymentMethodRepo) GetDefaultActive(ctx context.Context, teacherID uuid.UUID) (*domain.PaymentMethod, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	pm, ok := r.methods[teacherID]
	if !ok {
		return nil, nil
	}
	return &pm, nil
}

// --- In-Memory Gateway Event Repo ---

type inMemoryGatewayEventRepo struct {
	mu     sync.RWMutex
	events map[string]domain.GatewayEventLog
}

func newInMemoryGatewayEventRepo() *inMemoryGatewayEventRepo {
	return &inMemoryGatewayEventRepo{events: make(map[string]domain.GatewayEventLog)}
}

func (r *inMemoryGatewayEventRepo) Create(ctx context.Context, tx pgx.Tx, e *domain.GatewayEventLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.events[e.Key]; ok {
		return fmt.Errorf("duplicate gateway event %s", e.Key)
	}
	r.events[e.Key] = *e
	return nil
}

func (r *inMemoryGatewayEventRepo) Get(ctx context.Context, key string) (*domain.GatewayEventLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.events[key]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

// --- In-Memory Audit Repo ---

type inMemoryAuditRepo struct {
	mu      sync.Mutex
	entries []domain.AuditLog
}

func newInMemoryAuditRepo() *inMemoryAuditRepo {
	return &inMemoryAuditRepo{}
}

func (r *inMemoryAuditRepo) Create(ctx context.Context, log *domain.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *log)
	return nil
}

func (r *inMemoryAuditRepo) actions() []domain.AuditAction {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.AuditAction, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.Action)
	}
	return out
}

// --- In-Memory Transactor ---

// inMemoryTransactor runs one database transaction at a time, standing in for
// the row locks the postgres adapters take with SELECT ... FOR UPDATE.
type inMemoryTransactor struct {
	mu sync.Mutex
}

func newInMemoryTransactor() *inMemoryTransactor {
	return &inMemoryTransactor{}
}

func (t *inMemoryTransactor) Begin(ctx context.Context) (pgx.Tx, error) {
	t.mu.Lock()
	return &noopTx{release: t.mu.Unlock}, nil
}

// noopTx satisfies pgx.Tx for the in-memory repos. Commit and Rollback release
// the transactor; the first call wins.
type noopTx struct {
	once    sync.Once
	release func()
}

func (t *noopTx) end() {
	if t.release != nil {
		t.once.Do(t.release)
	}
}

func (t *noopTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }
func (t *noopTx) Commit(ctx context.Context) error          { t.end(); return nil }
func (t *noopTx) Rollback(ctx context.Context) error        { t.end(); return nil }
func (t *noopTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (t *noopTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (t *noopTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (t *noopTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (t *noopTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}
func (t *noopTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (t *noopTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}
func (t *noopTx) Conn() *pgx.Conn { return nil }
