package analyzer

import (
	"context"

	v1 "github.com/s3meta/s3meta/internal/api/v1"
	"github.com/s3meta/s3meta/internal/core/aggregation"
	"github.com/s3meta/s3meta/internal/core/storage"
)

// Watermark is the persisted offset cursor of one raw table.
type Watermark = storage.Watermark

// BatchScanner pages the raw metadata table in scan-key order.
//
// Contract: FetchObjects returns at most limit rows whose seq is strictly
// greater than after.LastSeq, ascending by seq. A short page (including an
// empty one) means the end of the table was reached. A row must not become
// visible after a row with a higher seq was returned.
type BatchScanner interface {
	FetchObjects(ctx context.Context, table string, after Watermark, limit int) ([]*v1.ObjectRecord, error)
}

// OffsetCursor persists how far each raw table has been folded.
type OffsetCursor interface {
	// LoadWatermark returns the zero Watermark when the table was never analyzed.
	LoadWatermark(ctx context.Context, table string) (Watermark, error)

	// StoreWatermark is an idempotent upsert keyed by table name.
	StoreWatermark(ctx context.Context, table string, wm Watermark) error
}

// SummaryStore applies additive deltas to the summary table of one dimension.
//
// Each call is independent of every other dimension: there is no transaction
// spanning tables, and nothing ties a successful call to the watermark.
type SummaryStore interface {
	ApplyDeltas(ctx context.Context, dim aggregation.Dimension, rows []aggregation.DeltaRow) error
}

// StatusStore is the write side the analyzer needs from the summary database.
type StatusStore interface {
	OffsetCursor
	SummaryStore
}
