package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	httpHandler "tutor-settlement/internal/adapter/http/handler"
	"tutor-settlement/internal/adapter/http/middleware"
	redisStorage "tutor-settlement/internal/adapter/storage/redis"
	"tutor-settlement/internal/core/domain"
	"tutor-settlement/internal/core/ports"
	"tutor-settlement/internal/service"
	"tutor-settlement/pkg/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testGatewaySecret = "test-gateway-signing-secret"

// testApp builds the full application stack on in-memory repos and miniredis.
// It exercises the real HTTP layer, middleware, handlers, services and Redis
// stores end-to-end; background jobs are driven by calling the services.
type testApp struct {
	server *httptest.Server
	redis  *miniredis.Miniredis

	txRepo      *inMemoryTransactionRepo
	workflows   *inMemoryWorkflowRepo
	bookings    *inMemoryBookingRepo
	enrollments *inMemoryEnrollmentRepo
	methods     *inMemoryPaymentMethodRepo
	audit       *inMemoryAuditRepo

	gateway  ports.GatewayEventService
	workflow ports.WorkflowService
	sweeper  ports.SettlementSweeper
	payouts  ports.PayoutService
	tokens   ports.TokenService
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)

	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	log := logger.New("error", false)

	// In-memory repos
	txRepo := newInMemoryTransactionRepo()
	workflowRepo := newInMemoryWorkflowRepo()
	unsettledRepo := newInMemoryUnsettledRepo()
	feePolicyRepo := newInMemoryFeePolicyRepo()
	bookingRepo := newInMemoryBookingRepo()
	enrollmentRepo := newInMemoryEnrollmentRepo()
	paymentMethodRepo := newInMemoryPaymentMethodRepo()
	gatewayEventRepo := newInMemoryGatewayEventRepo()
	auditRepo := newInMemoryAuditRepo()
	transactor := newInMemoryTransactor()

	settings := service.DefaultSettings()
	settings.Workers = 4

	tokenSvc := service.NewJWTTokenService("test-jwt-secret-key-32bytes!!", time.Hour, "test-issuer")
	ledger := service.NewCachedLedger(
		service.NewLedgerService(txRepo, log), redisStorage.NewLedgerCache(rdb), time.Minute, log,
	)
	feePolicySvc := service.NewFeePolicyService(feePolicyRepo, transactor, domain.DefaultFeePolicy(), log)
	unsettledSvc := service.NewUnsettledService(unsettledRepo, log)
	workflowSvc := service.NewWorkflowService(
		workflowRepo, txRepo, ledger, feePolicySvc, unsettledSvc,
		redisStorage.NewWorkflowLock(rdb), transactor, settings, log,
	)
	gatewaySvc := service.NewGatewayEventService(
		ledger, txRepo, gatewayEventRepo, redisStorage.NewGatewayEventCache(rdb), bookingRepo, enrollmentRepo,
		feePolicySvc, workflowSvc, unsettledSvc, transactor, settings, log,
	)

	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		GatewaySvc:      gatewaySvc,
		CancellationSvc: service.NewCancellationService(bookingRepo, enrollmentRepo, txRepo, workflowSvc, transactor, settings, log),
		Ledger:          ledger,
		FeePolicySvc:    feePolicySvc,
		FinanceSvc:      service.NewFinanceService(txRepo, unsettledRepo),
		UnsettledSvc:    unsettledSvc,
		WorkflowSvc:     workflowSvc,
		TokenSvc:        tokenSvc,
		GatewaySecret:   testGatewaySecret,
		RateLimitStore:  redisStorage.NewRateLimitStore(rdb),
		HealthCheckers:  []ports.HealthChecker{redisStorage.NewHealthCheck(rdb)},
		AuditSvc:        service.NewAuditService(auditRepo, log),
		Logger:          log,
	})

	return &testApp{
		server:      httptest.NewServer(router),
		redis:       mr,
		txRepo:      txRepo,
		workflows:   workflowRepo,
		bookings:    bookingRepo,
		enrollments: enrollmentRepo,
		methods:     paymentMethodRepo,
		audit:       auditRepo,
		gateway:     gatewaySvc,
		workflow:    workflowSvc,
		sweeper:     service.NewSettlementSweeper(workflowSvc, settings, log),
		payouts:     service.NewPayoutService(txRepo, paymentMethodRepo, ledger, unsettledSvc, transactor, settings, log),
		tokens:      tokenSvc,
	}
}

func (a *testApp) close() {
	a.server.Close()
	a.redis.Close()
}

// --- Request helpers ---

type envelope struct {
	Data      json.RawMessage `json:"data"`
	ErrorCode string          `json:"error_code"`
	Message   string          `json:"message"`
}

func (a *testApp) do(t *testing.T, req *http.Request) (int, envelope) {
	t.Helper()
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var env envelope
	require.NoError(t, json.Unmarshal(raw, &env), "body: %s", string(raw))
	return resp.StatusCode, env
}

func (a *testApp) signedPost(t *testing.T, path string, payload interface{}) (int, envelope) {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	ts := fmt.Sprintf("%d", time.Now().Unix())
	req, err := http.NewRequest(http.MethodPost, a.server.URL+path, bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.HeaderTimestamp, ts)
	req.Header.Set(middleware.HeaderSignature, middleware.SignGatewayPayload(testGatewaySecret, ts, body))
	return a.do(t, req)
}

func (a *testApp) post(t *testing.T, path, token string, payload interface{}) (int, envelope) {
	t.Helper()
	var body io.Reader = http.NoBody
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(http.MethodPost, a.server.URL+path, body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return a.do(t, req)
}

func (a *testApp) get(t *testing.T, path, token string) (int, envelope) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, a.server.URL+path, nil)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return a.do(t, req)
}

func (a *testApp) adminToken(t *testing.T) string {
	t.Helper()
	token, _, err := a.tokens.Generate("ops-admin", middleware.RoleAdmin)
	require.NoError(t, err)
	return token
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out), "data: %s", string(env.Data))
	return out
}

type gatewayResult struct {
	Outcome       string `json:"outcome"`
	TransactionID string `json:"transaction_id"`
	UnsettledID   string `json:"unsettled_id"`
}

type transactionView struct {
	ID                string  `json:"id"`
	Type              string  `json:"transaction_type"`
	GrossAmount       string  `json:"gross_amount"`
	FeeAmount         string  `json:"fee_amount"`
	NetAmount         string  `json:"net_amount"`
	Status            string  `json:"status"`
	WorkflowStage     string  `json:"workflow_stage"`
	BookingID         *string `json:"booking_id"`
	EnrollmentID      *string `json:"enrollment_id"`
	RefundAmount      *string `json:"refund_amount"`
	ScheduledRefundAt *string `json:"scheduled_refund_at"`
}

type financeView struct {
	TotalRevenue        string `json:"total_revenue"`
	TotalTeacherPayouts string `json:"total_teacher_payouts"`
	TotalRefunds        string `json:"total_refunds"`
	TotalFeesCollected  string `json:"total_fees_collected"`
	OpenConflictAmount  string `json:"open_conflict_amount"`
	PendingRefunds      string `json:"pending_refunds"`
	PayingStudents      int64  `json:"paying_students"`
	PaidTeachers        int64  `json:"paid_teachers"`
}

func bookingPayment(ref string, student, teacher uuid.UUID, scheduledAt time.Time) map[string]interface{} {
	return map[string]interface{}{
		"gateway_transaction_id": ref,
		"gross_amount":           "100.00",
		"currency":               "USD",
		"payer_id":               student.String(),
		"payee_id":               teacher.String(),
		"booking": map[string]interface{}{
			"scheduled_at":     scheduledAt.UTC().Format(time.RFC3339),
			"duration_minutes": 60,
		},
	}
}

func (a *testApp) payForBooking(t *testing.T, ref string, scheduledAt time.Time) (transactionView, uuid.UUID) {
	t.Helper()
	teacher := uuid.New()
	status, env := a.signedPost(t, "/api/v1/gateway/payments", bookingPayment(ref, uuid.New(), teacher, scheduledAt))
	require.Equal(t, http.StatusOK, status, "%s: %s", env.ErrorCode, env.Message)
	res := decode[gatewayResult](t, env)
	require.Equal(t, "recorded", res.Outcome)

	status, env = a.get(t, "/api/v1/transactions/"+res.TransactionID, "")
	require.Equal(t, http.StatusOK, status)
	return decode[transactionView](t, env), teacher
}

// --- Integration Tests ---

func TestIntegration_HealthCheck(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	resp, err := http.Get(app.server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "healthy", body["status"])
}

func TestIntegration_GatewayCallbackRequiresSignature(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	status, env := app.post(t, "/api/v1/gateway/payments", "", bookingPayment("ch_unsigned", uuid.New(), uuid.New(), time.Now().Add(48*time.Hour)))
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "AUTH_002", env.ErrorCode)
	assert.Empty(t, app.txRepo.all())
}

func TestIntegration_BookingPaymentSettlesToTeacher(t *testing.T) {
	app := newTestApp(t)
	defer app.close()
	ctx := context.Background()

	scheduledAt := time.Now().Add(48 * time.Hour).Truncate(time.Second)
	payment, teacher := app.payForBooking(t, "ch_settle_001", scheduledAt)
	app.methods.add(teacher)

	assert.Equal(t, "booking_payment", payment.Type)
	assert.Equal(t, "100.00", payment.GrossAmount)
	assert.Equal(t, "2.00", payment.FeeAmount)
	assert.Equal(t, "98.00", payment.NetAmount)
	assert.Equal(t, "student_to_admin", payment.WorkflowStage)
	require.NotNil(t, payment.BookingID)

	booking, err := app.bookings.GetByID(ctx, uuid.MustParse(*payment.BookingID))
	require.NoError(t, err)
	require.NotNil(t, booking)
	assert.Equal(t, domain.BookingStatusScheduled, booking.Status)

	// Class ends, the payout delay elapses, then the completion check runs.
	classEnd := scheduledAt.Add(time.Hour)
	eligible := classEnd.Add(24 * time.Hour)
	for _, at := range []time.Time{classEnd, eligible, eligible.Add(2 * time.Minute)} {
		report, err := app.sweeper.Sweep(ctx, at)
		require.NoError(t, err)
		assert.Equal(t, 1, report.Advanced, "sweep at %s", at)
	}

	report, err := app.payouts.RunBatch(ctx, eligible.Add(5*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 1, report.Paid)

	status, env := app.get(t, "/api/v1/bookings/"+*payment.BookingID+"/transactions", "")
	require.Equal(t, http.StatusOK, status)
	list := decode[struct {
		Items []transactionView `json:"items"`
		Total int               `json:"total"`
	}](t, env)
	require.Equal(t, 2, list.Total)
	assert.Equal(t, "completed", list.Items[0].WorkflowStage)
	assert.Equal(t, "teacher_payout", list.Items[1].Type)
	assert.Equal(t, "98.00", list.Items[1].GrossAmount)

	status, env = app.get(t, "/api/v1/admin/finance/summary", app.adminToken(t))
	require.Equal(t, http.StatusOK, status)
	summary := decode[financeView](t, env)
	assert.Equal(t, "100.00", summary.TotalRevenue)
	assert.Equal(t, "98.00", summary.TotalTeacherPayouts)
	assert.Equal(t, "2.00", summary.TotalFeesCollected)
	assert.Equal(t, int64(1), summary.PayingStudents)
	assert.Equal(t, int64(1), summary.PaidTeachers)

	// A refund after the payout cannot be reversed automatically.
	status, env = app.signedPost(t, "/api/v1/gateway/refunds", map[string]interface{}{
		"gateway_transaction_id": "ch_settle_001",
		"refunded_amount":        "100.00",
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "unsettled", decode[gatewayResult](t, env).Outcome)
}

func TestIntegration_DuplicateGatewayDelivery(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	payload := bookingPayment("ch_dup_001", uuid.New(), uuid.New(), time.Now().Add(72*time.Hour))
	status, env := app.signedPost(t, "/api/v1/gateway/payments", payload)
	require.Equal(t, http.StatusOK, status)
	first := decode[gatewayResult](t, env)
	require.Equal(t, "recorded", first.Outcome)

	status, env = app.signedPost(t, "/api/v1/gateway/payments", payload)
	require.Equal(t, http.StatusOK, status)
	second := decode[gatewayResult](t, env)
	assert.Equal(t, "duplicate", second.Outcome)
	assert.Equal(t, first.TransactionID, second.TransactionID)

	// The database layer still deduplicates once Redis forgets the event.
	app.redis.FlushAll()
	status, env = app.signedPost(t, "/api/v1/gateway/payments", payload)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "duplicate", decode[gatewayResult](t, env).Outcome)

	assert.Len(t, app.txRepo.all(), 1)
}

func TestIntegration_CancelBookingSchedulesRefund(t *testing.T) {
	app := newTestApp(t)
	defer app.close()
	ctx := context.Background()

	payment, _ := app.payForBooking(t, "ch_cancel_001", time.Now().Add(48*time.Hour))
	require.NotNil(t, payment.BookingID)

	status, env := app.post(t, "/api/v1/bookings/"+*payment.BookingID+"/cancel", "", nil)
	require.Equal(t, http.StatusOK, status, "%s: %s", env.ErrorCode, env.Message)
	cancelled := decode[transactionView](t, env)
	assert.Equal(t, "cancelled", cancelled.Status)
	assert.Equal(t, "refund_to_student", cancelled.WorkflowStage)
	require.NotNil(t, cancelled.RefundAmount)
	assert.Equal(t, "100.00", *cancelled.RefundAmount)
	require.NotNil(t, cancelled.ScheduledRefundAt)

	status, env = app.post(t, "/api/v1/bookings/"+*payment.BookingID+"/cancel", "", nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "BOOK_002", env.ErrorCode)

	active, err := app.workflow.ListActiveWorkflows(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, active)

	token := app.adminToken(t)
	_, env = app.get(t, "/api/v1/admin/finance/summary", token)
	assert.Equal(t, "100.00", decode[financeView](t, env).PendingRefunds)

	report, err := app.payouts.IssueDueRefunds(ctx, time.Now().Add(49*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, report.Paid)

	_, env = app.get(t, "/api/v1/admin/finance/summary", token)
	summary := decode[financeView](t, env)
	assert.Equal(t, "100.00", summary.TotalRefunds)
	assert.Equal(t, "0.00", summary.PendingRefunds)
	assert.Equal(t, "0.00", summary.TotalFeesCollected)

	assert.Eventually(t, func() bool {
		for _, a := range app.audit.actions() {
			if a == domain.AuditActionCancelBooking {
				return true
			}
		}
		return false
	}, time.Second, 10*time.Millisecond)
}

func TestIntegration_CancelBookingTooLate(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	payment, _ := app.payForBooking(t, "ch_late_001", time.Now().Add(2*time.Hour))

	status, env := app.post(t, "/api/v1/bookings/"+*payment.BookingID+"/cancel", "", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "BOOK_001", env.ErrorCode)
}

func TestIntegration_CourseEnrollmentForceCancel(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	now := time.Now()
	courseID := uuid.New()
	app.enrollments.addCourse(courseID, []time.Time{
		now.Add(2 * time.Hour),
		now.Add(7 * 24 * time.Hour),
		now.Add(14 * 24 * time.Hour),
		now.Add(21 * 24 * time.Hour),
	}, 60)

	status, env := app.signedPost(t, "/api/v1/gateway/payments", map[string]interface{}{
		"gateway_transaction_id": "ch_course_001",
		"gross_amount":           "200.00",
		"currency":               "USD",
		"payer_id":               uuid.New().String(),
		"payee_id":               uuid.New().String(),
		"course_id":              courseID.String(),
	})
	require.Equal(t, http.StatusOK, status)
	res := decode[gatewayResult](t, env)
	require.Equal(t, "recorded", res.Outcome)

	_, env = app.get(t, "/api/v1/transactions/"+res.TransactionID, "")
	payment := decode[transactionView](t, env)
	assert.Equal(t, "course_payment", payment.Type)
	require.NotNil(t, payment.EnrollmentID)

	// The first class starts inside the cancellation window.
	status, env = app.post(t, "/api/v1/enrollments/"+*payment.EnrollmentID+"/cancel", "", nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "BOOK_003", env.ErrorCode)

	status, env = app.post(t, "/api/v1/enrollments/"+*payment.EnrollmentID+"/cancel", "", map[string]bool{"force_cancel": true})
	require.Equal(t, http.StatusOK, status, "%s: %s", env.ErrorCode, env.Message)
	out := decode[struct {
		Refund struct {
			TotalClasses      int `json:"total_classes"`
			BlockingClasses   int `json:"classes_within_window"`
			RefundableClasses int `json:"refundable_classes"`
		} `json:"refund"`
		Transaction *transactionView `json:"transaction"`
	}](t, env)
	assert.Equal(t, 4, out.Refund.TotalClasses)
	assert.Equal(t, 1, out.Refund.BlockingClasses)
	assert.Equal(t, 3, out.Refund.RefundableClasses)
	require.NotNil(t, out.Transaction)
	require.NotNil(t, out.Transaction.RefundAmount)
	assert.Equal(t, "150.00", *out.Transaction.RefundAmount)
}

func TestIntegration_UnknownCourseOpensUnsettledRecord(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	status, env := app.signedPost(t, "/api/v1/gateway/payments", map[string]interface{}{
		"gateway_transaction_id": "ch_orphan_001",
		"gross_amount":           "80.00",
		"currency":               "USD",
		"payer_id":               uuid.New().String(),
		"payee_id":               uuid.New().String(),
		"course_id":              uuid.New().String(),
	})
	require.Equal(t, http.StatusOK, status)
	res := decode[gatewayResult](t, env)
	assert.Equal(t, "unsettled", res.Outcome)
	require.NotEmpty(t, res.UnsettledID)

	// The money is still on the ledger.
	assert.Len(t, app.txRepo.all(), 1)

	token := app.adminToken(t)
	status, env = app.get(t, "/api/v1/admin/unsettled?status=open", token)
	require.Equal(t, http.StatusOK, status)
	open := decode[[]domain.UnsettledFinance](t, env)
	require.Len(t, open, 1)
	assert.Equal(t, domain.ConflictFailedEnrollment, open[0].ConflictType)
	assert.Equal(t, "ch_orphan_001", open[0].GatewayRef)

	_, env = app.get(t, "/api/v1/admin/finance/summary", token)
	assert.Equal(t, "80.00", decode[financeView](t, env).OpenConflictAmount)

	path := "/api/v1/admin/unsettled/" + res.UnsettledID + "/resolve"
	status, env = app.post(t, path, token, map[string]string{"action": "refunded manually", "notes": "student contacted"})
	require.Equal(t, http.StatusOK, status, "%s: %s", env.ErrorCode, env.Message)

	status, env = app.post(t, path, token, map[string]string{"action": "again"})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "FIN_002", env.ErrorCode)

	_, env = app.get(t, "/api/v1/admin/finance/summary", token)
	assert.Equal(t, "0.00", decode[financeView](t, env).OpenConflictAmount)

	assert.Eventually(t, func() bool {
		for _, a := range app.audit.actions() {
			if a == domain.AuditActionResolveUnsettled {
				return true
			}
		}
		return false
	}, time.Second, 10*time.Millisecond)
}

func TestIntegration_RefundBeforePayoutCancelsWorkflow(t *testing.T) {
	app := newTestApp(t)
	defer app.close()
	ctx := context.Background()

	payment, _ := app.payForBooking(t, "ch_refund_001", time.Now().Add(48*time.Hour))

	status, env := app.signedPost(t, "/api/v1/gateway/refunds", map[string]interface{}{
		"gateway_transaction_id": "ch_refund_001",
		"refunded_amount":        "40.00",
	})
	require.Equal(t, http.StatusOK, status)
	res := decode[gatewayResult](t, env)
	assert.Equal(t, "recorded", res.Outcome)

	_, env = app.get(t, "/api/v1/transactions/"+payment.ID, "")
	orig := decode[transactionView](t, env)
	assert.Equal(t, "refund_to_student", orig.WorkflowStage)
	require.NotNil(t, orig.RefundAmount)
	assert.Equal(t, "40.00", *orig.RefundAmount)

	_, env = app.get(t, "/api/v1/transactions/"+res.TransactionID, "")
	refund := decode[transactionView](t, env)
	assert.Equal(t, "refund", refund.Type)
	assert.Equal(t, "40.00", refund.GrossAmount)

	active, err := app.workflow.ListActiveWorkflows(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, active)

	// The refund already exists, so the scheduled refund is not issued twice.
	report, err := app.payouts.IssueDueRefunds(ctx, time.Now().Add(72*time.Hour))
	require.NoError(t, err)
	assert.Zero(t, report.Paid)
}

func TestIntegration_OverRefundOpensUnsettledRecord(t *testing.T) {
	app := newTestApp(t)
	defer app.close()
	ctx := context.Background()

	payment, _ := app.payForBooking(t, "ch_overrefund_001", time.Now().Add(48*time.Hour))

	refund := map[string]interface{}{
		"gateway_transaction_id": "ch_overrefund_001",
		"refunded_amount":        "120.00",
	}
	status, env := app.signedPost(t, "/api/v1/gateway/refunds", refund)
	require.Equal(t, http.StatusOK, status, "%s: %s", env.ErrorCode, env.Message)
	res := decode[gatewayResult](t, env)
	assert.Equal(t, "unsettled", res.Outcome)
	assert.Equal(t, payment.ID, res.TransactionID)
	require.NotEmpty(t, res.UnsettledID)

	// The redelivery replays the same record instead of opening another.
	status, env = app.signedPost(t, "/api/v1/gateway/refunds", refund)
	require.Equal(t, http.StatusOK, status)
	again := decode[gatewayResult](t, env)
	assert.Equal(t, "duplicate", again.Outcome)
	assert.Equal(t, res.UnsettledID, again.UnsettledID)

	status, env = app.get(t, "/api/v1/admin/unsettled?status=open", app.adminToken(t))
	require.Equal(t, http.StatusOK, status)
	open := decode[[]domain.UnsettledFinance](t, env)
	require.Len(t, open, 1)
	assert.Equal(t, domain.ConflictRefundExceedsOriginal, open[0].ConflictType)
	assert.Equal(t, "120.00", open[0].Amount.StringFixed(2))

	// The escrow workflow is untouched.
	active, err := app.workflow.ListActiveWorkflows(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, active, 1)
}

func TestIntegration_AdminFeePolicy(t *testing.T) {
	app := newTestApp(t)
	defer app.close()
	token := app.adminToken(t)

	status, env := app.post(t, "/api/v1/admin/fee-policy", token, map[string]interface{}{
		"fee_percentage":            "5",
		"minimum_fee":               "1.00",
		"teacher_payout_wait_hours": 12,
		"description":               "summer promo",
	})
	require.Equal(t, http.StatusCreated, status, "%s: %s", env.ErrorCode, env.Message)

	status, env = app.get(t, "/api/v1/fees/preview?amount=100", "")
	require.Equal(t, http.StatusOK, status)
	preview := decode[struct {
		FeeAmount string `json:"fee_amount"`
		NetAmount string `json:"net_amount"`
	}](t, env)
	assert.Equal(t, "5.00", preview.FeeAmount)
	assert.Equal(t, "95.00", preview.NetAmount)

	status, env = app.get(t, "/api/v1/admin/fee-policy", token)
	require.Equal(t, http.StatusOK, status)
	policies := decode[struct {
		Active  domain.FeePolicy   `json:"active"`
		History []domain.FeePolicy `json:"history"`
	}](t, env)
	assert.Equal(t, 12, policies.Active.PayoutWaitHours)
	assert.Len(t, policies.History, 1)
}

func TestIntegration_AdminRoutesRequireAdminRole(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	status, env := app.get(t, "/api/v1/admin/finance/summary", "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "AUTH_003", env.ErrorCode)

	token, _, err := app.tokens.Generate("student-1", "student")
	require.NoError(t, err)
	status, env = app.get(t, "/api/v1/admin/finance/summary", token)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "AUTH_005", env.ErrorCode)
}

func TestIntegration_AdminAdvanceWorkflow(t *testing.T) {
	app := newTestApp(t)
	defer app.close()
	ctx := context.Background()
	token := app.adminToken(t)

	app.payForBooking(t, "ch_manual_001", time.Now().Add(48*time.Hour))

	active, err := app.workflow.ListActiveWorkflows(ctx, 10)
	require.NoError(t, err)
	require.Len(t, active, 1)
	wfID := active[0].ID.String()

	status, env := app.get(t, "/api/v1/admin/workflows/"+wfID, token)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, domain.WorkflowStagePaymentReceived, decode[domain.Workflow](t, env).CurrentStage)

	// The class has not ended, so a manual advance is a no-op.
	status, env = app.post(t, "/api/v1/admin/workflows/"+wfID+"/advance", token, nil)
	require.Equal(t, http.StatusOK, status, "%s: %s", env.ErrorCode, env.Message)
	step := decode[struct {
		Advanced bool `json:"advanced"`
		Skipped  bool `json:"skipped"`
	}](t, env)
	assert.False(t, step.Advanced)
	assert.False(t, step.Skipped)

	status, _ = app.get(t, "/api/v1/admin/workflows/"+uuid.NewString(), token)
	assert.Equal(t, http.StatusNotFound, status)
}
