package task

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog"
)

// Job is a periodic unit of settlement work.
type Job interface {
	Name() string
	Run(ctx context.Context, now time.Time) error
}

// Scheduler runs registered jobs on fixed intervals. A run that outlasts its
// interval is never overlapped by the next one.
type Scheduler struct {
	sched gocron.Scheduler
	clock func() time.Time
	log   zerolog.Logger
}

// NewScheduler creates a stopped scheduler.
func NewScheduler(log zerolog.Logger) (*Scheduler, error) {
	sched, err := gocron.NewScheduler(
		gocron.WithLocation(time.UTC),
		gocron.WithLogger(gocronLogger{log: log}),
	)
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}
	return &Scheduler{
		sched: sched,
		clock: func() time.Time { return time.Now().UTC() },
		log:   log,
	}, nil
}

// Every registers job to run each interval, starting as soon as the
// scheduler starts. ctx is handed to every run.
func (s *Scheduler) Every(ctx context.Context, interval time.Duration, job Job) error {
	if interval <= 0 {
		return fmt.Errorf("job %s: interval must be positive", job.Name())
	}
	_, err := s.sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() { s.run(ctx, job) }),
		gocron.WithName(job.Name()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return fmt.Errorf("register job %s: %w", job.Name(), err)
	}
	s.log.Info().Str("job", job.Name()).Dur("interval", interval).Msg("job registered")
	return nil
}

func (s *Scheduler) run(ctx context.Context, job Job) {
	if ctx.Err() != nil {
		return
	}
	start := s.clock()
	if err := job.Run(ctx, start); err != nil {
		s.log.Error().Err(err).Str("job", job.Name()).Msg("job run failed")
		return
	}
	s.log.Debug().
		Str("job", job.Name()).
		Dur("took", s.clock().Sub(start)).
		Msg("job run finished")
}

// JobNames lists the registered jobs.
func (s *Scheduler) JobNames() []string {
	jobs := s.sched.Jobs()
	names := make([]string, 0, len(jobs))
	for _, j := range jobs {
		names = append(names, j.Name())
	}
	return names
}

func (s *Scheduler) Start() {
	s.sched.Start()
	s.log.Info().Int("jobs", len(s.sched.Jobs())).Msg("scheduler started")
}

// Shutdown stops scheduling and waits for running jobs to return.
func (s *Scheduler) Shutdown() error {
	if err := s.sched.Shutdown(); err != nil {
		return fmt.Errorf("shutdown scheduler: %w", err)
	}
	return nil
}

// gocronLogger routes the scheduler's own messages into zerolog.
type gocronLogger struct {
	log zerolog.Logger
}

func (l gocronLogger) Debug(msg string, args ...any) { l.log.Debug().Fields(args).Msg(msg) }
func (l gocronLogger) Info(msg string, args ...any)  { l.log.Info().Fields(args).Msg(msg) }
func (l gocronLogger) Warn(msg string, args ...any)  { l.log.Warn().Fields(args).Msg(msg) }
func (l gocronLogger) Error(msg string, args ...any) { l.log.Error().Fields(args).Msg(msg) }
