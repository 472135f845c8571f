package sweep

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"

	"github.com/tair/food-waste/pkg/logger"
)

// DefaultSchedule runs the sweep at the top of every hour.
const DefaultSchedule = "0 * * * *"

// Scheduler triggers a Job on a cron schedule
type Scheduler struct {
	cron     *cron.Cron
	job      *Job
	schedule string
}

// NewScheduler creates a scheduler for job. An empty schedule uses DefaultSchedule.
func NewScheduler(job *Job, schedule string) *Scheduler {
	if schedule == "" {
		schedule = DefaultSchedule
	}

	cronLog := cronLogger{}
	return &Scheduler{
		cron: cron.New(
			cron.WithLogger(cronLog),
			cron.WithChain(cron.Recover(cronLog)),
		),
		job:      job,
		schedule: schedule,
	}
}

// Start registers the job and starts the cron goroutine
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, func() {
		s.job.RunOnce(context.Background())
	}); err != nil {
		return fmt.Errorf("invalid sweep schedule %q: %w", s.schedule, err)
	}

	s.cron.Start()

	logger.Logger.Info().
		Str("schedule", s.schedule).
		Msg("Near-expiry sweep scheduler started")
	return nil
}

// Stop stops scheduling new runs and waits for a running sweep to finish
// or for ctx to be done.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()

	select {
	case <-done.Done():
		logger.Logger.Info().Msg("Near-expiry sweep scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// cronLogger adapts the global zerolog logger to cron.Logger
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	logger.Logger.Debug().Fields(keysAndValues).Msg("cron: " + msg)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	logger.Logger.Error().Err(err).Fields(keysAndValues).Msg("cron: " + msg)
}
