package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"tutor-settlement/internal/core/ports"
	"tutor-settlement/pkg/apperror"

	"github.com/panjf2000/ants/v2"
	"github.com/rs/zerolog"
)

// SettlementSweeperImpl implements ports.SettlementSweeper.
type SettlementSweeperImpl struct {
	workflows ports.WorkflowService
	settings  Settings
	log       zerolog.Logger
}

// NewSettlementSweeper creates a sweeper that advances due workflows.
func NewSettlementSweeper(workflows ports.WorkflowService, settings Settings, log zerolog.Logger) *SettlementSweeperImpl {
	return &SettlementSweeperImpl{
		workflows: workflows,
		settings:  settings.withDefaults(),
		log:       log,
	}
}

// Sweep advances every workflow due at now exactly once, fanned out over a
// bounded goroutine pool. Per-workflow failures are counted, never returned.
func (s *SettlementSweeperImpl) Sweep(ctx context.Context, now time.Time) (*ports.SweepReport, error) {
	due, err := s.workflows.ListDue(ctx, now, s.settings.BatchSize)
	if err != nil {
		return nil, err
	}
	report := &ports.SweepReport{Selected: len(due)}
	if len(due) == 0 {
		return report, nil
	}

	pool, err := ants.NewPool(min(s.settings.Workers, len(due)))
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create sweep pool: %w", err))
	}
	defer pool.Release()

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	tally := func(res *ports.StepResult, err error) {
		mu.Lock()
		defer mu.Unlock()
		switch {
		case err != nil:
			report.Failed++
		case res.Skipped || !res.Advanced:
			report.Skipped++
		default:
			report.Advanced++
		}
	}

	for _, wf := range due {
		id := wf.ID
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			res, err := s.workflows.AdvanceStage(ctx, id, now)
			if err != nil {
				s.log.Warn().Err(err).Str("workflow_id", id.String()).Msg("workflow tick failed")
			}
			tally(res, err)
		})
		if submitErr != nil {
			wg.Done()
			s.log.Error().Err(submitErr).Str("workflow_id", id.String()).Msg("failed to submit workflow tick")
			tally(nil, submitErr)
		}
	}
	wg.Wait()

	s.log.Info().
		Int("selected", report.Selected).
		Int("advanced", report.Advanced).
		Int("skipped", report.Skipped).
		Int("failed", report.Failed).
		Msg("settlement sweep finished")
	return report, nil
}
