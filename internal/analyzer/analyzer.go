package analyzer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/s3meta/s3meta/internal/core/aggregation"
)

const (
	defaultTable     = "objects"
	defaultBatchSize = 1000
)

// ErrAlreadyRunning is returned when Run is called while another run of the
// same Analyzer is in progress.
var ErrAlreadyRunning = errors.New("analyzer run already in progress")

// State is a step of the analyze loop.
type State int32

const (
	StateIdle State = iota
	StateScanning
	StateClassifying
	StateFlushing
	StateAdvancing
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateScanning:
		return "scanning"
	case StateClassifying:
		return "classifying"
	case StateFlushing:
		return "flushing"
	case StateAdvancing:
		return "advancing"
	case StateDone:
		return "done"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Options controls one Analyzer.
type Options struct {
	Table       string // raw table to analyze
	BatchSize   int
	WorkerCount int // flush pool size
	Categories  []aggregation.CategoryMatcher
	Lenient     bool // label unknown categories "uncategorized" instead of aborting the run
	Now         func() time.Time
}

func (o Options) normalized() Options {
	n := o
	if n.Table == "" {
		n.Table = defaultTable
	}
	if n.BatchSize <= 0 {
		n.BatchSize = defaultBatchSize
	}
	if n.WorkerCount <= 0 {
		n.WorkerCount = defaultWorkerCount
	}
	if len(n.Categories) == 0 {
		n.Categories = aggregation.DefaultCategories()
	}
	if n.Now == nil {
		n.Now = time.Now
	}
	return n
}

// RunStats summarizes one Run.
type RunStats struct {
	RunID         string
	Batches       int
	Rows          int64
	Uncategorized int64
	Start         Watermark
	End           Watermark
	Duration      time.Duration
}

// Analyzer folds the raw metadata table into the summary tables, batch by
// batch, resuming from the persisted watermark.
//
// Batches are strictly sequential: batch N+1 is scanned only after batch N's
// watermark is stored. Only the flush of a single batch runs concurrently.
type Analyzer struct {
	scanner BatchScanner
	cursor  OffsetCursor
	flusher *FlushCoordinator
	pool    *WorkerPool
	opts    Options

	state   atomic.Int32
	running atomic.Bool
}

// New creates an Analyzer that owns its flush pool.
func New(scanner BatchScanner, store StatusStore, opts Options) *Analyzer {
	opts = opts.normalized()
	pool := NewWorkerPool(opts.WorkerCount)
	return &Analyzer{
		scanner: scanner,
		cursor:  store,
		flusher: NewFlushCoordinator(store, pool),
		pool:    pool,
		opts:    opts,
	}
}

// State returns the current loop state.
func (a *Analyzer) State() State {
	return State(a.state.Load())
}

// Table returns the raw table this Analyzer reads.
func (a *Analyzer) Table() string {
	return a.opts.Table
}

func (a *Analyzer) setState(s State) {
	a.state.Store(int32(s))
}

// Run drives the analyze loop until a scan returns no rows or a step fails.
//
// Any failure ends the run without advancing the watermark for the in-flight
// batch. When a flush fails after some dimensions committed, running again
// re-applies that batch to those dimensions.
//
// Cancelling ctx stops the run before the next scan; a batch already
// scanned is flushed and its watermark stored first.
func (a *Analyzer) Run(ctx context.Context) (RunStats, error) {
	if !a.running.CompareAndSwap(false, true) {
		return RunStats{}, ErrAlreadyRunning
	}
	defer a.running.Store(false)

	start := time.Now()
	stats, err := a.run(ctx)
	stats.Duration = time.Since(start)
	if err != nil {
		runsTotal.WithLabelValues("error").Inc()
		slog.Error("[Analyzer] Run failed",
			"run_id", stats.RunID,
			"table", a.opts.Table,
			"state", a.State(),
			"batches", stats.Batches,
			"rows", stats.Rows,
			"error", err,
		)
		return stats, err
	}

	runsTotal.WithLabelValues("done").Inc()
	slog.Info("[Analyzer] Run complete",
		"run_id", stats.RunID,
		"table", a.opts.Table,
		"batches", stats.Batches,
		"rows", stats.Rows,
		"uncategorized", stats.Uncategorized,
		"offset", fmt.Sprintf("%d -> %d", stats.Start.Offset, stats.End.Offset),
		"duration", stats.Duration,
	)
	return stats, nil
}

func (a *Analyzer) run(ctx context.Context) (RunStats, error) {
	t0 := a.opts.Now().UTC()
	stats := RunStats{RunID: uuid.NewString()}

	a.setState(StateIdle)
	classifier := aggregation.NewClassifier(a.opts.Categories, t0, !a.opts.Lenient)

	wm, err := a.cursor.LoadWatermark(ctx, a.opts.Table)
	if err != nil {
		return stats, fmt.Errorf("load watermark: %w", err)
	}
	stats.Start = wm
	stats.End = wm

	slog.Info("[Analyzer] Starting run",
		"run_id", stats.RunID,
		"table", a.opts.Table,
		"offset", wm.Offset,
		"last_seq", wm.LastSeq,
		"batch_size", a.opts.BatchSize,
		"workers", a.pool.Size(),
		"lenient", a.opts.Lenient,
	)

	for {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		a.setState(StateScanning)
		rows, err := a.scanner.FetchObjects(ctx, a.opts.Table, wm, a.opts.BatchSize)
		if err != nil {
			return stats, fmt.Errorf("scan %s at offset %d: %w", a.opts.Table, wm.Offset, err)
		}
		if len(rows) == 0 {
			a.setState(StateDone)
			return stats, nil
		}

		a.setState(StateClassifying)
		batch := aggregation.NewBatch()
		var uncategorized int64
		for _, rec := range rows {
			contrib, fallback, err := classifier.Classify(rec)
			if err != nil {
				return stats, fmt.Errorf("classify %q (seq %d): %w", rec.Key, rec.Seq, err)
			}
			if fallback {
				uncategorized++
			}
			batch.Add(contrib, rec.Size)
		}
		if uncategorized > 0 {
			slog.Warn("[Analyzer] Rows matched no category",
				"run_id", stats.RunID,
				"label", aggregation.UncategorizedLabel,
				"rows", uncategorized,
			)
		}

		// A scanned batch is flushed and its watermark stored even if ctx is
		// cancelled meanwhile. Cancellation is only honored between batches.
		commitCtx := context.WithoutCancel(ctx)

		a.setState(StateFlushing)
		if err := a.flusher.Flush(commitCtx, batch); err != nil {
			return stats, fmt.Errorf("flush batch at offset %d: %w", wm.Offset, err)
		}

		a.setState(StateAdvancing)
		next := Watermark{
			Offset:  wm.Offset + int64(len(rows)),
			LastSeq: rows[len(rows)-1].Seq,
		}
		if err := a.cursor.StoreWatermark(commitCtx, a.opts.Table, next); err != nil {
			return stats, fmt.Errorf("store watermark: %w", err)
		}

		slog.Debug("[Analyzer] Batch complete",
			"run_id", stats.RunID,
			"rows", len(rows),
			"offset_advanced", fmt.Sprintf("%d -> %d", wm.Offset, next.Offset),
		)

		wm = next
		stats.End = next
		stats.Batches++
		stats.Rows += int64(len(rows))
		stats.Uncategorized += uncategorized

		batchesTotal.WithLabelValues(a.opts.Table).Inc()
		rowsTotal.WithLabelValues(a.opts.Table).Add(float64(len(rows)))
		uncategorizedTotal.WithLabelValues(a.opts.Table).Add(float64(uncategorized))
		watermarkOffset.WithLabelValues(a.opts.Table).Set(float64(next.Offset))
	}
}
