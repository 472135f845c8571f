package sweep

import (
	"context"
	"time"

	"github.com/tair/food-waste/internal/inventory/domain"
	"github.com/tair/food-waste/internal/inventory/metrics"
	"github.com/tair/food-waste/internal/inventory/usecase/command"
	"github.com/tair/food-waste/pkg/logger"
)

// Sweeper runs one near-expiry sweep
type Sweeper interface {
	Handle(ctx context.Context, cmd command.SweepNearExpiryCommand) (*domain.SweepSummary, error)
}

// Job runs the sweep against the wall clock and records metrics
type Job struct {
	sweeper Sweeper
	now     domain.Clock
	metrics *metrics.Metrics
}

// NewJob creates a sweep job. A nil clock uses domain.SystemClock.
func NewJob(sweeper Sweeper, clock domain.Clock, m *metrics.Metrics) *Job {
	if clock == nil {
		clock = domain.SystemClock
	}
	return &Job{sweeper: sweeper, now: clock, metrics: m}
}

// Run performs one sweep and returns its outcome
func (j *Job) Run(ctx context.Context) (*domain.SweepSummary, error) {
	start := time.Now()
	summary, err := j.sweeper.Handle(ctx, command.SweepNearExpiryCommand{Now: j.now()})
	elapsed := time.Since(start)

	if j.metrics != nil {
		var marked int64
		if summary != nil {
			marked = summary.Marked
		}
		j.metrics.ObserveSweep(marked, elapsed, err)
	}

	return summary, err
}

// RunOnce performs one sweep and logs the outcome. Errors never escape.
func (j *Job) RunOnce(ctx context.Context) {
	summary, err := j.Run(ctx)
	if err != nil {
		logger.Error(ctx).Err(err).Msg("Near-expiry sweep failed")
		return
	}

	logger.Info(ctx).
		Int64("marked", summary.Marked).
		Str("window", summary.Window.String()).
		Time("ran_at", summary.RanAt).
		Msg("Near-expiry sweep completed")
}
