package analyzer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/s3meta/s3meta/internal/core/aggregation"
)

// FlushError reports the dimension whose summary write failed.
// When it is returned, other dimensions of the same batch may already have
// committed.
type FlushError struct {
	Dimension aggregation.Dimension
	Err       error
}

func (e *FlushError) Error() string {
	return fmt.Sprintf("flush %s: %v", e.Dimension, e.Err)
}

func (e *FlushError) Unwrap() error {
	return e.Err
}

// FlushCoordinator writes one batch into the summary tables, one pool task
// per dimension.
type FlushCoordinator struct {
	store SummaryStore
	pool  *WorkerPool
}

// NewFlushCoordinator creates a coordinator that dispatches onto pool.
func NewFlushCoordinator(store SummaryStore, pool *WorkerPool) *FlushCoordinator {
	return &FlushCoordinator{store: store, pool: pool}
}

// Flush applies every non-empty dimension of batch and waits for all of them.
// Any failure fails the whole flush with a *FlushError; nothing is retried.
func (f *FlushCoordinator) Flush(ctx context.Context, batch *aggregation.Batch) error {
	deltas := batch.Deltas()
	tasks := make([]func(ctx context.Context) error, 0, len(deltas))

	for _, delta := range deltas {
		if len(delta.Rows) == 0 {
			continue
		}
		tasks = append(tasks, func(ctx context.Context) error {
			return f.flushDimension(ctx, delta)
		})
	}

	if len(tasks) == 0 {
		return nil
	}

	return f.pool.Run(ctx, tasks)
}

func (f *FlushCoordinator) flushDimension(ctx context.Context, delta aggregation.DimensionDelta) error {
	start := time.Now()
	err := f.store.ApplyDeltas(ctx, delta.Dimension, delta.Rows)

	status := "ok"
	if err != nil {
		status = "error"
	}
	flushDuration.WithLabelValues(string(delta.Dimension), status).Observe(time.Since(start).Seconds())

	if err != nil {
		slog.Error("[Flush] Dimension flush failed",
			"dimension", delta.Dimension,
			"keys", len(delta.Rows),
			"error", err,
		)
		return &FlushError{Dimension: delta.Dimension, Err: err}
	}

	slog.Debug("[Flush] Dimension flushed",
		"dimension", delta.Dimension,
		"keys", len(delta.Rows),
		"duration", time.Since(start),
	)
	return nil
}
