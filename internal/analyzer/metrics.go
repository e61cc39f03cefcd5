package analyzer

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// runsTotal counts analyzer runs.
	// Labels: status (done, error)
	runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "s3meta",
		Subsystem: "analyzer",
		Name:      "runs_total",
		Help:      "Total analyzer runs by outcome",
	}, []string{"status"})

	// batchesTotal counts batches folded and advanced.
	// Labels: table (raw source table)
	batchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "s3meta",
		Subsystem: "analyzer",
		Name:      "batches_total",
		Help:      "Total batches flushed and advanced",
	}, []string{"table"})

	// rowsTotal counts raw rows folded into the summary tables.
	// Labels: table
	rowsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "s3meta",
		Subsystem: "analyzer",
		Name:      "rows_total",
		Help:      "Total raw rows aggregated",
	}, []string{"table"})

	// uncategorizedTotal counts rows routed to the uncategorized label.
	// Labels: table
	uncategorizedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "s3meta",
		Subsystem: "analyzer",
		Name:      "uncategorized_rows_total",
		Help:      "Rows whose name matched no category in lenient mode",
	}, []string{"table"})

	// flushDuration measures one dimension's summary upsert.
	// Labels: dimension, status (ok, error)
	flushDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "s3meta",
		Subsystem: "analyzer",
		Name:      "flush_duration_seconds",
		Help:      "Per-dimension flush latency in seconds",
		Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	}, []string{"dimension", "status"})

	// watermarkOffset is the persisted row offset per raw table.
	// Labels: table
	watermarkOffset = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "s3meta",
		Subsystem: "analyzer",
		Name:      "watermark_offset",
		Help:      "Rows of the raw table already folded into summaries",
	}, []string{"table"})
)
