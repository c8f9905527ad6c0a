package domain

import (
	"fmt"
	"time"

	"tutor-settlement/pkg/apperror"

	"github.com/google/uuid"
)

// WorkflowType distinguishes one-off class bookings from course purchases.
type WorkflowType string

const (
	WorkflowTypeClassBooking   WorkflowType = "class_booking"
	WorkflowTypeCoursePurchase WorkflowType = "course_purchase"
)

// WorkflowTypeFor maps a payment transaction type to its workflow type.
func WorkflowTypeFor(t TransactionType) WorkflowType {
	if t == TransactionTypeCoursePayment {
		return WorkflowTypeCoursePurchase
	}
	return WorkflowTypeClassBooking
}

// WorkflowStage is a step of the settlement state machine.
type WorkflowStage string

const (
	WorkflowStagePaymentReceived    WorkflowStage = "payment_received"
	WorkflowStageWaitingPayoutDelay WorkflowStage = "waiting_payout_delay"
	WorkflowStageTeacherPayout      WorkflowStage = "teacher_payout"
	WorkflowStageCompleted          WorkflowStage = "completed"
	WorkflowStageRefundToStudent    WorkflowStage = "refund_to_student"
)

// stageRank orders the main line; refund_to_student is a branch off any non-final stage.
var stageRank = map[WorkflowStage]int{
	WorkflowStagePaymentReceived:    0,
	WorkflowStageWaitingPayoutDelay: 1,
	WorkflowStageTeacherPayout:      2,
	WorkflowStageCompleted:          3,
}

// CanMoveTo reports whether a workflow may go from stage s to next without regressing.
func (s WorkflowStage) CanMoveTo(next WorkflowStage) bool {
	if s == WorkflowStageCompleted || s == WorkflowStageRefundToStudent {
		return false
	}
	if next == WorkflowStageRefundToStudent {
		return true
	}
	from, ok := stageRank[s]
	to, ok2 := stageRank[next]
	return ok && ok2 && to > from
}

// WorkflowStatus is the lifecycle of a workflow row.
type WorkflowStatus string

const (
	WorkflowStatusActive    WorkflowStatus = "active"
	WorkflowStatusCompleted WorkflowStatus = "completed"
	WorkflowStatusFailed    WorkflowStatus = "failed"
)

// Workflow governs one transaction's progression to final settlement.
type Workflow struct {
	ID                      uuid.UUID      `json:"id"`
	TransactionID           uuid.UUID      `json:"transaction_id"`
	Type                    WorkflowType   `json:"workflow_type"`
	CurrentStage            WorkflowStage  `json:"current_stage"`
	NextStage               *WorkflowStage `json:"next_stage,omitempty"`
	NextActionAt            *time.Time     `json:"next_action_at,omitempty"` // nil: nothing time-driven pending
	LastProcessedAt         *time.Time     `json:"last_processed_at,omitempty"`
	Status                  WorkflowStatus `json:"status"`
	CancellationWindowHours int            `json:"cancellation_window_hours"`
	TeacherPayoutDelayHours int            `json:"teacher_payout_delay_hours"`
	ProcessingErrors        []string       `json:"processing_errors"`
	CreatedAt               time.Time      `json:"created_at"`
	UpdatedAt               time.Time      `json:"updated_at"`
}

// IsActive returns true while the scheduler may still move the workflow.
func (w *Workflow) IsActive() bool {
	return w.Status == WorkflowStatusActive
}

// IsDue returns true when the next time-driven action has arrived.
func (w *Workflow) IsDue(now time.Time) bool {
	return w.IsActive() && w.NextActionAt != nil && !now.Before(*w.NextActionAt)
}

// AppendError records a processing failure. It returns true once the number of
// recorded errors reaches maxErrors (maxErrors <= 0 disables the limit).
func (w *Workflow) AppendError(msg string, now time.Time, maxErrors int) bool {
	w.ProcessingErrors = append(w.ProcessingErrors, fmt.Sprintf("%s: %s", now.UTC().Format(time.RFC3339), msg))
	return maxErrors > 0 && len(w.ProcessingErrors) >= maxErrors
}

// NewWorkflow builds the workflow paired with a freshly recorded payment.
// classEnd gates the first transition.
func NewWorkflow(tx *Transaction, classEnd time.Time, cancellationWindowHours int, policy FeePolicy, now time.Time) *Workflow {
	next := WorkflowStageWaitingPayoutDelay
	end := classEnd
	return &Workflow{
		ID:                      uuid.New(),
		TransactionID:           tx.ID,
		Type:                    WorkflowTypeFor(tx.Type),
		CurrentStage:            WorkflowStagePaymentReceived,
		NextStage:               &next,
		NextActionAt:            &end,
		Status:                  WorkflowStatusActive,
		CancellationWindowHours: cancellationWindowHours,
		TeacherPayoutDelayHours: policy.WaitHours(),
		ProcessingErrors:        []string{},
		CreatedAt:               now,
		UpdatedAt:               now,
	}
}

// EffectKind names a consequence of a workflow step for collaborators.
type EffectKind string

const (
	EffectPayoutScheduled EffectKind = "payout_scheduled" // payoutEligibleAt stamped
	EffectPayoutReleased  EffectKind = "payout_released"  // funds moving admin -> teacher
	EffectPayable         EffectKind = "payable"          // payout batch may disburse
	EffectReconciled      EffectKind = "reconciled"       // closed because the transaction settled elsewhere
)

// Effect is a side effect the caller applies or reports after a step.
type Effect struct {
	Kind          EffectKind `json:"kind"`
	TransactionID uuid.UUID  `json:"transaction_id"`
	Note          string     `json:"note,omitempty"`
}

// Advance is the outcome of one evaluation of the state machine.
// Changed is false when nothing was due; TransactionChanged marks a ledger write.
type Advance struct {
	Workflow           Workflow
	Transaction        Transaction
	Changed            bool
	TransactionChanged bool
	Effects            []Effect
}

// StateMachine evaluates workflow transitions. The zero value uses a one minute completion delay.
type StateMachine struct {
	CompletionDelay time.Duration
}

// AdvanceWorkflow evaluates one tick with the default completion delay.
func AdvanceWorkflow(wf Workflow, tx Transaction, policy FeePolicy, now time.Time) (Advance, error) {
	return StateMachine{}.Advance(wf, tx, policy, now)
}

// Advance evaluates a single transition for wf at now. Inputs are copied, never mutated.
func (m StateMachine) Advance(wf Workflow, tx Transaction, policy FeePolicy, now time.Time) (Advance, error) {
	wf.ProcessingErrors = append([]string(nil), wf.ProcessingErrors...)
	out := Advance{Workflow: wf, Transaction: tx}
	w := &out.Workflow
	t := &out.Transaction

	if !w.IsActive() {
		return out, apperror.ErrInvalidTransition(string(w.Status), string(WorkflowStatusActive))
	}

	// The transaction settled through another path (payout batch, refund).
	switch {
	case t.Stage == StageCompleted && t.IsPayment():
		m.close(w, WorkflowStageCompleted, now)
		out.Changed = true
		out.Effects = append(out.Effects, Effect{Kind: EffectReconciled, TransactionID: t.ID, Note: "transaction already disbursed"})
		return out, nil
	case t.Stage == StageRefundToStudent:
		m.close(w, WorkflowStageRefundToStudent, now)
		out.Changed = true
		out.Effects = append(out.Effects, Effect{Kind: EffectReconciled, TransactionID: t.ID, Note: "transaction already refunded"})
		return out, nil
	}

	switch w.CurrentStage {
	case WorkflowStageCompleted, WorkflowStageRefundToStudent:
		m.close(w, w.CurrentStage, now)
		out.Changed = true
		return out, nil
	}

	if !w.IsDue(now) {
		return out, nil
	}

	switch w.CurrentStage {
	case WorkflowStagePaymentReceived:
		classEnd := *w.NextActionAt
		wait := policy.WaitHours()
		eligible := classEnd.Add(time.Duration(wait) * time.Hour)

		t.PayoutEligibleAt = &eligible
		t.UpdatedAt = now
		out.TransactionChanged = true

		w.TeacherPayoutDelayHours = wait
		m.move(w, WorkflowStageWaitingPayoutDelay, WorkflowStageTeacherPayout, &eligible, now)
		out.Effects = append(out.Effects, Effect{
			Kind:          EffectPayoutScheduled,
			TransactionID: t.ID,
			Note:          fmt.Sprintf("teacher payout eligible at %s", eligible.UTC().Format(time.RFC3339)),
		})

	case WorkflowStageWaitingPayoutDelay:
		if t.PayoutEligibleAt == nil {
			return out, apperror.ErrMissingPayoutEligibility()
		}
		if now.Before(*t.PayoutEligibleAt) {
			eligible := *t.PayoutEligibleAt
			w.NextActionAt = &eligible
			out.Changed = true
			return out, nil
		}
		if !t.Stage.CanAdvanceTo(StageAdminToTeacher) {
			return out, apperror.ErrInvalidTransition(string(t.Stage), string(StageAdminToTeacher))
		}

		t.Status = TransactionStatusProcessing
		t.Stage = StageAdminToTeacher
		t.UpdatedAt = now
		out.TransactionChanged = true

		check := now.Add(m.completionDelay())
		m.move(w, WorkflowStageTeacherPayout, WorkflowStageCompleted, &check, now)
		out.Effects = append(out.Effects, Effect{Kind: EffectPayoutReleased, TransactionID: t.ID})

	case WorkflowStageTeacherPayout:
		t.Status = TransactionStatusCompleted
		completed := now
		t.CompletedAt = &completed
		t.UpdatedAt = now
		out.TransactionChanged = true

		m.close(w, WorkflowStageCompleted, now)
		out.Effects = append(out.Effects, Effect{Kind: EffectPayable, TransactionID: t.ID})

	default:
		return out, apperror.ErrInvalidTransition(string(w.CurrentStage), "next")
	}

	out.Changed = true
	return out, nil
}

// CancelWorkflow moves an active workflow into the refund branch and terminates it.
// The refund itself is scheduled on the transaction, not on the workflow.
func CancelWorkflow(wf Workflow, now time.Time) (Workflow, error) {
	if !wf.IsActive() || !wf.CurrentStage.CanMoveTo(WorkflowStageRefundToStudent) {
		return wf, apperror.ErrInvalidTransition(string(wf.CurrentStage), string(WorkflowStageRefundToStudent))
	}
	wf.ProcessingErrors = append([]string(nil), wf.ProcessingErrors...)
	next := WorkflowStageCompleted
	processed := now
	wf.CurrentStage = WorkflowStageRefundToStudent
	wf.NextStage = &next
	wf.NextActionAt = nil
	wf.Status = WorkflowStatusCompleted
	wf.LastProcessedAt = &processed
	wf.UpdatedAt = now
	return wf, nil
}

func (m StateMachine) completionDelay() time.Duration {
	if m.CompletionDelay > 0 {
		return m.CompletionDelay
	}
	return time.Minute
}

func (m StateMachine) move(w *Workflow, stage, next WorkflowStage, at *time.Time, now time.Time) {
	processed := now
	w.CurrentStage = stage
	w.NextStage = &next
	w.NextActionAt = at
	w.LastProcessedAt = &processed
	w.UpdatedAt = now
}

func (m StateMachine) close(w *Workflow, stage WorkflowStage, now time.Time) {
	processed := now
	w.CurrentStage = stage
	w.NextStage = nil
	w.NextActionAt = nil
	w.Status = WorkflowStatusCompleted
	w.LastProcessedAt = &processed
	w.UpdatedAt = now
}
