package analyzer

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

const finalRunTimeout = 30 * time.Second

// Runner is one complete analyze pass.
type Runner interface {
	Run(ctx context.Context) (RunStats, error)
}

// Scheduler runs the analyzer on a periodic interval.
// Each tick is a full run that drains the raw table from the stored watermark.
type Scheduler struct {
	interval time.Duration
	runner   Runner
}

// NewScheduler creates a scheduler for runner.
func NewScheduler(interval time.Duration, runner Runner) *Scheduler {
	return &Scheduler{interval: interval, runner: runner}
}

// Start runs once immediately, then on every tick until ctx is cancelled,
// then once more with a fresh deadline to fold rows that arrived meanwhile.
func (s *Scheduler) Start(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	slog.Info("[Scheduler] Starting analyzer scheduler", "interval", s.interval)

	s.runOnce(ctx)

	for {
		select {
		case <-ticker.C:
			s.runOnce(ctx)
		case <-ctx.Done():
			slog.Info("[Scheduler] Stopping (context cancelled)")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), finalRunTimeout)
			defer cancel()

			slog.Info("[Scheduler] Running final analyze before shutdown...")
			s.runOnce(shutdownCtx)
			slog.Info("[Scheduler] Final analyze complete")

			return nil
		}
	}
}

// runOnce logs failures and keeps the schedule alive; the next tick resumes
// from the last stored watermark.
func (s *Scheduler) runOnce(ctx context.Context) {
	stats, err := s.runner.Run(ctx)
	switch {
	case errors.Is(err, ErrAlreadyRunning):
		slog.Warn("[Scheduler] Previous run still in progress, skipping tick")
	case errors.Is(err, context.Canceled):
		slog.Info("[Scheduler] Run interrupted by context cancellation", "batches_processed", stats.Batches)
	case err != nil:
		slog.Error("[Scheduler] Analyze run failed", "run_id", stats.RunID, "error", err)
	case stats.Batches > 1:
		slog.Info("[Scheduler] Backlog drained", "run_id", stats.RunID, "total_batches", stats.Batches)
	}
}
