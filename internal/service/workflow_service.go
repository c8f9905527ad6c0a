package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tutor-settlement/internal/core/domain"
	"tutor-settlement/internal/core/ports"
	"tutor-settlement/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// WorkflowServiceImpl implements ports.WorkflowService.
type WorkflowServiceImpl struct {
	wfRepo     ports.WorkflowRepository
	txRepo     ports.TransactionRepository
	ledger     ports.Ledger
	policies   ports.FeePolicyService
	unsettled  ports.UnsettledService
	locker     ports.WorkflowLocker
	transactor ports.DBTransactor
	machine    domain.StateMachine
	settings   Settings
	log        zerolog.Logger
}

// NewWorkflowService creates a new WorkflowServiceImpl. locker may be nil, in
// which case concurrent ticks are resolved by the stage compare-and-swap alone.
func NewWorkflowService(
	wfRepo ports.WorkflowRepository,
	txRepo ports.TransactionRepository,
	ledger ports.Ledger,
	policies ports.FeePolicyService,
	unsettled ports.UnsettledService,
	locker ports.WorkflowLocker,
	transactor ports.DBTransactor,
	settings Settings,
	log zerolog.Logger,
) *WorkflowServiceImpl {
	settings = settings.withDefaults()
	return &WorkflowServiceImpl{
		wfRepo:     wfRepo,
		txRepo:     txRepo,
		ledger:     ledger,
		policies:   policies,
		unsettled:  unsettled,
		locker:     locker,
		transactor: transactor,
		machine:    domain.StateMachine{CompletionDelay: settings.CompletionDelay},
		settings:   settings,
		log:        log,
	}
}

// CreateWorkflow pairs a recorded payment with a workflow whose first action is due at classEnd.
func (s *WorkflowServiceImpl) CreateWorkflow(ctx context.Context, dbTx pgx.Tx, tx *domain.Transaction, classEnd time.Time, now time.Time) (*domain.Workflow, error) {
	if !tx.IsPayment() {
		return nil, apperror.ErrInvalidTransaction("only payments are settled by a workflow")
	}

	existing, err := s.wfRepo.GetActiveByTransaction(ctx, dbTx, tx.ID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("check active workflow: %w", err))
	}
	if existing != nil {
		return nil, apperror.ErrInvalidTransaction("transaction already has an active workflow")
	}

	policy, err := s.policies.ResolvePolicy(ctx)
	if err != nil {
		return nil, err
	}

	wf := domain.NewWorkflow(tx, classEnd, domain.WindowHours(s.settings.CancellationWindow), policy, now)
	if err := s.wfRepo.Create(ctx, dbTx, wf); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create workflow: %w", err))
	}

	s.log.Info().
		Str("workflow_id", wf.ID.String()).
		Str("tx_id", tx.ID.String()).
		Str("type", string(wf.Type)).
		Time("next_action_at", classEnd).
		Msg("settlement workflow created")
	return wf, nil
}

// GetWorkflow returns the workflow or nil.
func (s *WorkflowServiceImpl) GetWorkflow(ctx context.Context, id uuid.UUID) (*domain.Workflow, error) {
	wf, err := s.wfRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get workflow: %w", err))
	}
	return wf, nil
}

func (s *WorkflowServiceImpl) ListActiveWorkflows(ctx context.Context, limit int) ([]domain.Workflow, error) {
	wfs, err := s.wfRepo.ListActive(ctx, limit)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list active workflows: %w", err))
	}
	return wfs, nil
}

func (s *WorkflowServiceImpl) ListDue(ctx context.Context, now time.Time, limit int) ([]domain.Workflow, error) {
	wfs, err := s.wfRepo.ListDue(ctx, now, limit)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list due workflows: %w", err))
	}
	return wfs, nil
}

// AdvanceStage evaluates one tick of a workflow. A tick that loses a race
// (lock held or stage changed underneath) is reported as Skipped, not as an error.
// Domain failures are appended to the workflow's processing errors and returned.
func (s *WorkflowServiceImpl) AdvanceStage(ctx context.Context, workflowID uuid.UUID, now time.Time) (*ports.StepResult, error) {
	release, acquired := s.lock(ctx, workflowID)
	if !acquired {
		return &ports.StepResult{Skipped: true}, nil
	}
	defer release()

	wf, err := s.wfRepo.GetByID(ctx, workflowID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get workflow: %w", err))
	}
	if wf == nil {
		return nil, apperror.ErrNotFound("workflow")
	}
	if !wf.IsActive() {
		return nil, apperror.ErrInvalidTransition(string(wf.Status), string(domain.WorkflowStatusActive))
	}

	tx, err := s.txRepo.GetByID(ctx, wf.TransactionID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get workflow transaction: %w", err))
	}
	if tx == nil {
		cause := apperror.ErrNotFound("transaction")
		return nil, s.recordFailure(ctx, wf, nil, cause, now)
	}

	policy, err := s.policies.ResolvePolicy(ctx)
	if err != nil {
		return nil, err
	}

	adv, err := s.machine.Advance(*wf, *tx, policy, now)
	if err != nil {
		return nil, s.recordFailure(ctx, wf, tx, err, now)
	}
	if !adv.Changed {
		return &ports.StepResult{Workflow: wf}, nil
	}

	applied, err := s.persist(ctx, wf, tx, &adv)
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) && appErr.Code != apperror.CodeInternal {
			return nil, s.recordFailure(ctx, wf, tx, err, now)
		}
		return nil, err
	}
	if !applied {
		s.log.Debug().Str("workflow_id", wf.ID.String()).Msg("workflow changed concurrently, tick skipped")
		return &ports.StepResult{Workflow: wf, Skipped: true}, nil
	}

	for _, e := range adv.Effects {
		s.log.Info().
			Str("workflow_id", wf.ID.String()).
			Str("tx_id", e.TransactionID.String()).
			Str("effect", string(e.Kind)).
			Str("stage", string(adv.Workflow.CurrentStage)).
			Msg(e.Note)
	}

	return &ports.StepResult{
		Workflow: &adv.Workflow,
		Advanced: true,
		Effects:  adv.Effects,
	}, nil
}

// persist writes the ledger change and the workflow in one database transaction.
// It returns false when either compare-and-swap lost.
func (s *WorkflowServiceImpl) persist(ctx context.Context, wf *domain.Workflow, tx *domain.Transaction, adv *domain.Advance) (bool, error) {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return false, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	if adv.TransactionChanged {
		ok, err := s.ledger.ApplySettlementStep(ctx, dbTx, tx, &adv.Transaction)
		if err != nil || !ok {
			return false, err
		}
	}

	ok, err := s.wfRepo.Update(ctx, dbTx, &adv.Workflow, wf.CurrentStage)
	if err != nil {
		return false, apperror.InternalError(fmt.Errorf("update workflow: %w", err))
	}
	if !ok {
		return false, nil
	}

	if err := dbTx.Commit(ctx); err != nil {
		return false, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}
	return true, nil
}

// recordFailure appends cause to the workflow's processing errors. Once the
// configured maximum is reached the workflow fails and an unsettled record is opened.
// It returns cause so callers can surface it.
func (s *WorkflowServiceImpl) recordFailure(ctx context.Context, wf *domain.Workflow, tx *domain.Transaction, cause error, now time.Time) error {
	failed := *wf
	failed.ProcessingErrors = append([]string(nil), wf.ProcessingErrors...)
	exhausted := failed.AppendError(cause.Error(), now, s.settings.MaxProcessingErrors)
	if exhausted {
		failed.Status = domain.WorkflowStatusFailed
		failed.NextActionAt = nil
	}
	processed := now
	failed.LastProcessedAt = &processed
	failed.UpdatedAt = now

	logEvt := s.log.Warn().Err(cause).
		Str("workflow_id", wf.ID.String()).
		Str("stage", string(wf.CurrentStage)).
		Int("errors", len(failed.ProcessingErrors))

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		logEvt.Msg("workflow step failed")
		return cause
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	ok, err := s.wfRepo.Update(ctx, dbTx, &failed, wf.CurrentStage)
	if err != nil || !ok {
		logEvt.Msg("workflow step failed, error not recorded")
		return cause
	}
	if err := dbTx.Commit(ctx); err != nil {
		logEvt.Msg("workflow step failed, error not recorded")
		return cause
	}
	logEvt.Msg("workflow step failed")

	if exhausted {
		s.openWorkflowFailure(ctx, &failed, tx, now)
	}
	return cause
}

func (s *WorkflowServiceImpl) openWorkflowFailure(ctx context.Context, wf *domain.Workflow, tx *domain.Transaction, now time.Time) {
	req := ports.RecordUnsettled{
		ConflictType: domain.ConflictWorkflowFailed,
		Description: fmt.Sprintf("workflow %s failed at %s after %d errors",
			wf.ID, wf.CurrentStage, len(wf.ProcessingErrors)),
		Now: now,
	}
	if tx != nil {
		req.Amount = tx.GrossAmount
		req.Currency = tx.Currency
		if tx.GatewayRef != nil {
			req.GatewayRef = *tx.GatewayRef
		}
	}
	if _, err := s.unsettled.Record(ctx, req); err != nil {
		s.log.Error().Err(err).Str("workflow_id", wf.ID.String()).Msg("failed to record workflow failure")
	}
}

// Cancel schedules the refund of a payment and closes its active workflow, both in dbTx.
func (s *WorkflowServiceImpl) Cancel(ctx context.Context, dbTx pgx.Tx, req ports.CancelRequest) (*domain.Transaction, error) {
	t, err := s.ledger.MarkScheduledRefund(ctx, dbTx, ports.ScheduledRefund{
		TransactionID: req.TransactionID,
		RefundAt:      req.Now.Add(s.settings.RefundDelay),
		Amount:        req.RefundAmount,
		Note:          req.Reason,
		Now:           req.Now,
	})
	if err != nil {
		return nil, err
	}

	wf, err := s.wfRepo.GetActiveByTransaction(ctx, dbTx, req.TransactionID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get active workflow: %w", err))
	}
	if wf == nil {
		return t, nil
	}

	cancelled, err := domain.CancelWorkflow(*wf, req.Now)
	if err != nil {
		return nil, err
	}
	ok, err := s.wfRepo.Update(ctx, dbTx, &cancelled, wf.CurrentStage)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("cancel workflow: %w", err))
	}
	if !ok {
		return nil, apperror.ErrInvalidTransition(string(wf.CurrentStage), string(domain.WorkflowStageRefundToStudent))
	}

	s.log.Info().
		Str("workflow_id", wf.ID.String()).
		Str("tx_id", t.ID.String()).
		Str("reason", req.Reason).
		Msg("settlement workflow cancelled")
	return t, nil
}

// lock takes the per-workflow lock. Redis failures degrade to the database
// compare-and-swap; only an explicit "held by someone else" skips the tick.
func (s *WorkflowServiceImpl) lock(ctx context.Context, id uuid.UUID) (func(), bool) {
	noop := func() {}
	if s.locker == nil {
		return noop, true
	}

	token, ok, err := s.locker.Acquire(ctx, id, s.settings.LockTTL)
	if err != nil {
		s.log.Warn().Err(err).Str("workflow_id", id.String()).Msg("workflow lock unavailable, relying on stage compare-and-swap")
		return noop, true
	}
	if !ok {
		return noop, false
	}
	return func() {
		if err := s.locker.Release(ctx, id, token); err != nil {
			s.log.Warn().Err(err).Str("workflow_id", id.String()).Msg("failed to release workflow lock")
		}
	}, true
}
