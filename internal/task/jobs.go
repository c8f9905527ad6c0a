package task

import (
	"context"
	"errors"
	"time"

	"tutor-settlement/internal/core/ports"

	"github.com/rs/zerolog"
)

const (
	SettlementSweepJobName = "settlement_sweep"
	PayoutBatchJobName     = "teacher_payout_batch"
)

// SettlementSweepJob advances every due settlement workflow.
type SettlementSweepJob struct {
	sweeper ports.SettlementSweeper
	log     zerolog.Logger
}

func NewSettlementSweepJob(sweeper ports.SettlementSweeper, log zerolog.Logger) *SettlementSweepJob {
	return &SettlementSweepJob{sweeper: sweeper, log: log}
}

func (j *SettlementSweepJob) Name() string { return SettlementSweepJobName }

func (j *SettlementSweepJob) Run(ctx context.Context, now time.Time) error {
	report, err := j.sweeper.Sweep(ctx, now)
	if err != nil {
		return err
	}
	if report.Selected > 0 {
		j.log.Info().
			Int("selected", report.Selected).
			Int("advanced", report.Advanced).
			Int("skipped", report.Skipped).
			Int("failed", report.Failed).
			Msg("settlement sweep")
	}
	return nil
}

// PayoutBatchJob issues due refunds, then disburses eligible teacher payouts.
type PayoutBatchJob struct {
	payouts ports.PayoutService
	log     zerolog.Logger
}

func NewPayoutBatchJob(payouts ports.PayoutService, log zerolog.Logger) *PayoutBatchJob {
	return &PayoutBatchJob{payouts: payouts, log: log}
}

func (j *PayoutBatchJob) Name() string { return PayoutBatchJobName }

// Run keeps going with payouts when the refund pass fails; both errors are reported.
func (j *PayoutBatchJob) Run(ctx context.Context, now time.Time) error {
	_, refundErr := j.payouts.IssueDueRefunds(ctx, now)
	if refundErr != nil {
		j.log.Error().Err(refundErr).Msg("refund pass failed")
	}
	_, payoutErr := j.payouts.RunBatch(ctx, now)
	return errors.Join(refundErr, payoutErr)
}
