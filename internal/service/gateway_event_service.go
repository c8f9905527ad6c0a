package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"tutor-settlement/internal/core/domain"
	"tutor-settlement/internal/core/ports"
	"tutor-settlement/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const gatewayEventTTL = 24 * time.Hour

// GatewayEventServiceImpl implements ports.GatewayEventService.
type GatewayEventServiceImpl struct {
	ledger         ports.Ledger
	txRepo         ports.TransactionRepository
	eventRepo      ports.GatewayEventRepository
	eventCache     ports.GatewayEventCache
	bookingRepo    ports.BookingRepository
	enrollmentRepo ports.EnrollmentRepository
	policies       ports.FeePolicyService
	workflows      ports.WorkflowService
	unsettled      ports.UnsettledService
	transactor     ports.DBTransactor
	settings       Settings
	log            zerolog.Logger
}

// NewGatewayEventService creates a new GatewayEventServiceImpl.
func NewGatewayEventService(
	ledger ports.Ledger,
	txRepo ports.TransactionRepository,
	eventRepo ports.GatewayEventRepository,
	eventCache ports.GatewayEventCache,
	bookingRepo ports.BookingRepository,
	enrollmentRepo ports.EnrollmentRepository,
	policies ports.FeePolicyService,
	workflows ports.WorkflowService,
	unsettled ports.UnsettledService,
	transactor ports.DBTransactor,
	settings Settings,
	log zerolog.Logger,
) *GatewayEventServiceImpl {
	return &GatewayEventServiceImpl{
		ledger:         ledger,
		txRepo:         txRepo,
		eventRepo:      eventRepo,
		eventCache:     eventCache,
		bookingRepo:    bookingRepo,
		enrollmentRepo: enrollmentRepo,
		policies:       policies,
		workflows:      workflows,
		unsettled:      unsettled,
		transactor:     transactor,
		settings:       settings.withDefaults(),
		log:            log,
	}
}

// HandlePaymentConfirmed records a confirmed charge in escrow, provisions the
// booking or enrollment it paid for and starts its settlement workflow.
//
// The payment is committed first so money received is never lost. The event
// row is written only together with the final outcome, either the workflow or
// an unsettled record, so a redelivery of an event that failed halfway finds
// the payment without an event row and resumes from provisioning.
func (s *GatewayEventServiceImpl) HandlePaymentConfirmed(ctx context.Context, ev domain.PaymentConfirmedEvent, now time.Time) (*ports.GatewayResult, error) {
	if ev.GatewayTransactionID == "" {
		return nil, apperror.Validation("gateway transaction id is required")
	}
	if !ev.GrossAmount.IsPositive() {
		return nil, apperror.ErrInvalidAmount()
	}
	if ev.Currency == "" {
		return nil, apperror.Validation("currency is required")
	}

	key := domain.BuildPaymentEventKey(ev.GatewayTransactionID)
	if res, err := s.replay(ctx, key); err != nil || res != nil {
		return res, err
	}

	payment, err := s.ledger.GetTransactionByGatewayRef(ctx, ev.GatewayTransactionID)
	if err != nil {
		return nil, err
	}
	switch {
	case payment == nil:
		if payment, err = s.recordPayment(ctx, ev, now); err != nil {
			return nil, err
		}
	case !payment.IsPayment() || payment.Stage != domain.StageStudentToAdmin || payment.Status != domain.TransactionStatusCompleted:
		// Already moved on through its workflow.
		return &ports.GatewayResult{Outcome: ports.GatewayOutcomeDuplicate, TransactionID: &payment.ID}, nil
	default:
		s.log.Warn().
			Str("tx_id", payment.ID.String()).
			Str("gateway_ref", ev.GatewayTransactionID).
			Msg("resuming gateway payment left unfinished by an earlier delivery")
	}

	result, err := s.settlePayment(ctx, key, ev, payment, now)
	if err != nil {
		return nil, err
	}
	s.log.Info().
		Str("tx_id", payment.ID.String()).
		Str("gateway_ref", ev.GatewayTransactionID).
		Str("gross", payment.GrossAmount.StringFixed(2)).
		Str("fee", payment.FeeAmount.StringFixed(2)).
		Str("outcome", string(result.Outcome)).
		Msg("gateway payment handled")
	return result, nil
}

// recordPayment commits the escrow payment on its own. The unique gateway
// reference turns a concurrent first delivery into an error here.
func (s *GatewayEventServiceImpl) recordPayment(ctx context.Context, ev domain.PaymentConfirmedEvent, now time.Time) (*domain.Transaction, error) {
	policy, err := s.policies.ResolvePolicy(ctx)
	if err != nil {
		return nil, err
	}
	split, err := domain.ComputeFee(ev.GrossAmount, policy)
	if err != nil {
		return nil, err
	}

	payment := s.newPayment(ev, split, now)
	err = s.inTx(ctx, func(dbTx pgx.Tx) error {
		_, err := s.ledger.CreateTransaction(ctx, dbTx, payment)
		return err
	})
	if err != nil {
		return nil, err
	}
	return payment, nil
}

// settlePayment provisions what the payment bought and finishes the event with
// either a workflow or an unsettled record. A failure to write the unsettled
// record is returned so the gateway retries.
func (s *GatewayEventServiceImpl) settlePayment(ctx context.Context, key string, ev domain.PaymentConfirmedEvent, payment *domain.Transaction, now time.Time) (*ports.GatewayResult, error) {
	classEnd, conflict, err := s.provision(ctx, ev, payment, now)
	if err == nil {
		recorded := &ports.GatewayResult{Outcome: ports.GatewayOutcomeRecorded, TransactionID: &payment.ID}
		res, wfErr := s.finish(ctx, key, payment.ID, recorded, now, func(dbTx pgx.Tx) error {
			_, err := s.workflows.CreateWorkflow(ctx, dbTx, payment, classEnd, now)
			return err
		})
		if wfErr == nil {
			return res, nil
		}
		conflict, err = domain.ConflictWorkflowFailed, wfErr
	}

	s.log.Error().Err(err).
		Str("tx_id", payment.ID.String()).
		Str("gateway_ref", ev.GatewayTransactionID).
		Str("conflict_type", string(conflict)).
		Msg("payment recorded but not provisioned")

	unsettled := &ports.GatewayResult{Outcome: ports.GatewayOutcomeUnsettled, TransactionID: &payment.ID}
	req := ports.RecordUnsettled{
		GatewayRef:   ev.GatewayTransactionID,
		ConflictType: conflict,
		Amount:       payment.GrossAmount,
		Currency:     payment.Currency,
		Description:  fmt.Sprintf("payment %s: %v", payment.ID, err),
		Now:          now,
	}
	return s.finish(ctx, key, payment.ID, unsettled, now, func(dbTx pgx.Tx) error {
		u, err := s.unsettled.RecordTx(ctx, dbTx, req)
		if err != nil {
			return err
		}
		unsettled.UnsettledID = &u.ID
		return nil
	})
}

func (s *GatewayEventServiceImpl) newPayment(ev domain.PaymentConfirmedEvent, split domain.FeeBreakdown, now time.Time) *domain.Transaction {
	student, teacher := ev.PayerRef, ev.PayeeRef
	ref := ev.GatewayTransactionID
	target := uuid.New()
	completed := now

	t := &domain.Transaction{
		ID:                uuid.New(),
		Type:              ev.TransactionType(),
		GrossAmount:       split.Gross,
		FeeAmount:         split.Fee,
		NetAmount:         split.Net,
		Currency:          ev.Currency,
		SourceUserID:      &student,
		DestinationUserID: &teacher,
		Status:            domain.TransactionStatusCompleted,
		Stage:             domain.StageStudentToAdmin,
		GatewayRef:        &ref,
		CompletedAt:       &completed,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if t.Type == domain.TransactionTypeCoursePayment {
		t.EnrollmentID = &target
		return t
	}
	t.BookingID = &target
	if ev.Booking != nil {
		scheduled := ev.Booking.ScheduledAt
		deadline := scheduled.Add(-s.settings.CancellationWindow)
		t.ScheduledAt = &scheduled
		t.CancellationDeadline = &deadline
	}
	return t
}

// provision creates the booking or enrollment the payment refers to and
// returns the end of its last class.
func (s *GatewayEventServiceImpl) provision(ctx context.Context, ev domain.PaymentConfirmedEvent, payment *domain.Transaction, now time.Time) (time.Time, domain.ConflictType, error) {
	if payment.Type == domain.TransactionTypeCoursePayment {
		end, err := s.provisionEnrollment(ctx, ev, payment, now)
		return end, domain.ConflictFailedEnrollment, err
	}
	end, err := s.provisionBooking(ctx, ev, payment)
	return end, domain.ConflictFailedBooking, err
}

func (s *GatewayEventServiceImpl) provisionBooking(ctx context.Context, ev domain.PaymentConfirmedEvent, payment *domain.Transaction) (time.Time, error) {
	if ev.Booking == nil || ev.Booking.ScheduledAt.IsZero() || ev.Booking.DurationMinutes <= 0 {
		return time.Time{}, apperror.Validation("booking payment without class metadata")
	}
	b := &domain.Booking{
		ID:              *payment.BookingID,
		StudentID:       ev.PayerRef,
		TeacherID:       ev.PayeeRef,
		ScheduledAt:     ev.Booking.ScheduledAt,
		DurationMinutes: ev.Booking.DurationMinutes,
		Status:          domain.BookingStatusScheduled,
	}

	existing, err := s.bookingRepo.GetByID(ctx, b.ID)
	if err != nil {
		return time.Time{}, fmt.Errorf("get booking: %w", err)
	}
	if existing != nil {
		return existing.EndsAt(), nil
	}

	err = s.inTx(ctx, func(dbTx pgx.Tx) error {
		return s.bookingRepo.Create(ctx, dbTx, b)
	})
	if err != nil {
		// A concurrent delivery may have created it first.
		if existing, getErr := s.bookingRepo.GetByID(ctx, b.ID); getErr == nil && existing != nil {
			return existing.EndsAt(), nil
		}
		return time.Time{}, fmt.Errorf("create booking: %w", err)
	}
	return b.EndsAt(), nil
}

func (s *GatewayEventServiceImpl) provisionEnrollment(ctx context.Context, ev domain.PaymentConfirmedEvent, payment *domain.Transaction, now time.Time) (time.Time, error) {
	if ev.CourseID == nil {
		return time.Time{}, apperror.Validation("course payment without course id")
	}
	e := &domain.CourseEnrollment{
		ID:         *payment.EnrollmentID,
		CourseID:   *ev.CourseID,
		StudentID:  ev.PayerRef,
		TeacherID:  ev.PayeeRef,
		TotalPrice: payment.GrossAmount,
		Status:     domain.EnrollmentStatusActive,
	}

	existing, err := s.enrollmentRepo.GetByID(ctx, e.ID)
	if err != nil {
		return time.Time{}, fmt.Errorf("get enrollment: %w", err)
	}
	if existing == nil {
		err = s.inTx(ctx, func(dbTx pgx.Tx) error {
			return s.enrollmentRepo.CreateFromCourse(ctx, dbTx, e)
		})
		if err != nil {
			// A concurrent delivery may have created it first.
			if existing, _ = s.enrollmentRepo.GetByID(ctx, e.ID); existing == nil {
				return time.Time{}, fmt.Errorf("create enrollment: %w", err)
			}
		}
	}
	if existing != nil {
		e = existing
	}
	if end, ok := e.LastClassEndsAt(); ok {
		return end, nil
	}
	return now, nil
}

// HandleRefundIssued mirrors a refund the gateway already executed. A refund
// the ledger cannot apply is still acknowledged and opens an unsettled record;
// only infrastructure failures make the gateway retry.
func (s *GatewayEventServiceImpl) HandleRefundIssued(ctx context.Context, ev domain.RefundIssuedEvent, now time.Time) (*ports.GatewayResult, error) {
	if ev.GatewayTransactionID == "" {
		return nil, apperror.Validation("gateway transaction id is required")
	}
	if !ev.RefundedAmount.IsPositive() {
		return nil, apperror.ErrInvalidAmount()
	}

	key := domain.BuildRefundEventKey(ev.GatewayTransactionID)
	if res, err := s.replay(ctx, key); err != nil || res != nil {
		return res, err
	}

	orig, err := s.ledger.GetTransactionByGatewayRef(ctx, ev.GatewayTransactionID)
	if err != nil {
		return nil, err
	}
	if orig == nil {
		return s.refundConflict(ctx, key, ev, domain.ConflictMissingOriginalPayment, nil,
			"refund for a payment this ledger never recorded", now)
	}
	if orig.IsDisbursed() {
		return s.refundConflict(ctx, key, ev, domain.ConflictRefundAfterPayout, orig,
			fmt.Sprintf("gateway refunded %s after its payout to the teacher", orig.ID), now)
	}
	if ev.RefundedAmount.GreaterThan(orig.GrossAmount) {
		return s.refundConflict(ctx, key, ev, domain.ConflictRefundExceedsOriginal, orig,
			fmt.Sprintf("gateway refunded %s of %s %s charged for %s",
				ev.RefundedAmount.StringFixed(2), orig.GrossAmount.StringFixed(2), orig.Currency, orig.ID), now)
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	exists, err := s.txRepo.HasChild(ctx, dbTx, orig.ID, domain.TransactionTypeRefund)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("check existing refund: %w", err))
	}
	if exists {
		return &ports.GatewayResult{Outcome: ports.GatewayOutcomeDuplicate, TransactionID: &orig.ID}, nil
	}

	amount := domain.RoundMoney(ev.RefundedAmount)
	refund, err := s.mirrorRefund(ctx, dbTx, orig, amount, now)
	if err != nil {
		if !apperror.IsBusiness(err) {
			return nil, err
		}
		// The ledger refused the refund, usually because the payout batch
		// settled the payment after it was read above. The money already
		// left the gateway, so it still needs a record.
		dbTx.Rollback(ctx) //nolint:errcheck
		return s.refundRejected(ctx, key, ev, orig, err, now)
	}

	result := &ports.GatewayResult{Outcome: ports.GatewayOutcomeRecorded, TransactionID: &refund.ID}
	if err := s.remember(ctx, dbTx, key, refund.ID, result, now); err != nil {
		return nil, err
	}
	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.cache(ctx, key, result)
	s.log.Info().
		Str("tx_id", orig.ID.String()).
		Str("refund_id", refund.ID.String()).
		Str("gateway_ref", ev.GatewayTransactionID).
		Str("amount", amount.StringFixed(2)).
		Msg("gateway refund recorded")
	return result, nil
}

// mirrorRefund cancels the escrow workflow when the payment is still held and
// records the refund leg.
func (s *GatewayEventServiceImpl) mirrorRefund(ctx context.Context, dbTx pgx.Tx, orig *domain.Transaction, amount decimal.Decimal, now time.Time) (*domain.Transaction, error) {
	var err error
	if orig.CanScheduleRefund() {
		orig, err = s.workflows.Cancel(ctx, dbTx, ports.CancelRequest{
			TransactionID: orig.ID,
			RefundAmount:  amount,
			Reason:        "refunded at the gateway",
			Now:           now,
		})
		if err != nil {
			return nil, err
		}
	}

	refund := derivedTransaction(orig, domain.TransactionTypeRefund, amount, *orig.SourceUserID, now)
	refund.AppendNote(fmt.Sprintf("gateway refund of %s", orig.ID))
	if _, err := s.ledger.CreateTransaction(ctx, dbTx, refund); err != nil {
		return nil, err
	}
	return refund, nil
}

// refundRejected opens an unsettled record for a refund the ledger refused.
func (s *GatewayEventServiceImpl) refundRejected(ctx context.Context, key string, ev domain.RefundIssuedEvent, orig *domain.Transaction, cause error, now time.Time) (*ports.GatewayResult, error) {
	conflict := domain.ConflictRefundFailed
	current, err := s.ledger.GetTransactionByGatewayRef(ctx, ev.GatewayTransactionID)
	if err != nil {
		return nil, err
	}
	if current != nil && current.IsDisbursed() {
		conflict = domain.ConflictRefundAfterPayout
	}

	s.log.Error().Err(cause).
		Str("tx_id", orig.ID.String()).
		Str("gateway_ref", ev.GatewayTransactionID).
		Str("conflict_type", string(conflict)).
		Msg("gateway refund rejected by the ledger")
	return s.refundConflict(ctx, key, ev, conflict, orig,
		fmt.Sprintf("gateway refund of %s rejected: %v", orig.ID, cause), now)
}

func (s *GatewayEventServiceImpl) refundConflict(
	ctx context.Context,
	key string,
	ev domain.RefundIssuedEvent,
	conflict domain.ConflictType,
	orig *domain.Transaction,
	description string,
	now time.Time,
) (*ports.GatewayResult, error) {
	req := ports.RecordUnsettled{
		GatewayRef:   ev.GatewayTransactionID,
		ConflictType: conflict,
		Amount:       ev.RefundedAmount,
		Description:  description,
		Now:          now,
	}
	result := &ports.GatewayResult{Outcome: ports.GatewayOutcomeUnsettled}
	txID := uuid.Nil
	if orig != nil {
		req.Currency = orig.Currency
		txID = orig.ID
		result.TransactionID = &txID
	}

	return s.finish(ctx, key, txID, result, now, func(dbTx pgx.Tx) error {
		u, err := s.unsettled.RecordTx(ctx, dbTx, req)
		if err != nil {
			return err
		}
		result.UnsettledID = &u.ID
		return nil
	})
}

// finish runs write and stores result under key in one database transaction,
// then caches it. When another delivery of the same event finished first its
// stored outcome is returned instead and write never runs.
func (s *GatewayEventServiceImpl) finish(
	ctx context.Context,
	key string,
	txID uuid.UUID,
	result *ports.GatewayResult,
	now time.Time,
	write func(pgx.Tx) error,
) (*ports.GatewayResult, error) {
	var prior *ports.GatewayResult
	err := s.inTx(ctx, func(dbTx pgx.Tx) error {
		logged, err := s.eventRepo.Get(ctx, key)
		if err != nil {
			return apperror.InternalError(fmt.Errorf("db event check: %w", err))
		}
		if logged != nil {
			prior, err = decodeResult(logged.ResponseJSON)
			return err
		}
		if err := write(dbTx); err != nil {
			return err
		}
		return s.remember(ctx, dbTx, key, txID, result, now)
	})
	if err != nil {
		return nil, err
	}
	if prior != nil {
		return prior, nil
	}
	s.cache(ctx, key, result)
	return result, nil
}

// replay returns the stored outcome of an already processed event, checking
// Redis first and the database second.
func (s *GatewayEventServiceImpl) replay(ctx context.Context, key string) (*ports.GatewayResult, error) {
	cached, err := s.eventCache.Get(ctx, key)
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("redis event check failed, falling through to DB")
	}
	if cached == nil {
		logged, err := s.eventRepo.Get(ctx, key)
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("db event check: %w", err))
		}
		if logged == nil {
			return nil, nil
		}
		cached = logged.ResponseJSON
	}

	return decodeResult(cached)
}

// decodeResult reads a stored outcome and marks it as a replay.
func decodeResult(stored []byte) (*ports.GatewayResult, error) {
	var res ports.GatewayResult
	if err := json.Unmarshal(stored, &res); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("unmarshal gateway result: %w", err))
	}
	res.Outcome = ports.GatewayOutcomeDuplicate
	return &res, nil
}

func (s *GatewayEventServiceImpl) remember(ctx context.Context, dbTx pgx.Tx, key string, txID uuid.UUID, result *ports.GatewayResult, now time.Time) error {
	respJSON, err := json.Marshal(result)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("marshal gateway result: %w", err))
	}
	entry := &domain.GatewayEventLog{Key: key, ResponseJSON: respJSON, CreatedAt: now}
	if txID != uuid.Nil {
		entry.TransactionID = &txID
	}
	if err := s.eventRepo.Create(ctx, dbTx, entry); err != nil {
		return apperror.InternalError(fmt.Errorf("save gateway event: %w", err))
	}
	return nil
}

// cache stores the final outcome in Redis (best-effort).
func (s *GatewayEventServiceImpl) cache(ctx context.Context, key string, result *ports.GatewayResult) {
	respJSON, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := s.eventCache.Set(ctx, key, respJSON, gatewayEventTTL); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("failed to cache gateway event in redis")
	}
}

func (s *GatewayEventServiceImpl) inTx(ctx context.Context, fn func(pgx.Tx) error) error {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	if err := fn(dbTx); err != nil {
		return err
	}
	if err := dbTx.Commit(ctx); err != nil {
		return apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}
	return nil
}
