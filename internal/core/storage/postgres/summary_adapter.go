package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/s3meta/s3meta/internal/core/aggregation"
	"github.com/s3meta/s3meta/internal/core/storage"
)

// SummaryAdapter persists analyzer state: the per-table watermark and the
// seven summary tables.
//
// Each ApplyDeltas call commits one summary table in its own transaction.
// The seven tables and the watermark are NOT written atomically together;
// a crash between them can double-count the tables that already committed
// when the batch is replayed.
type SummaryAdapter struct {
	db    *sql.DB
	nowFn func() time.Time
}

// NewSummaryAdapter creates a SummaryAdapter sharing the given connection.
func NewSummaryAdapter(db *sql.DB) *SummaryAdapter {
	return &SummaryAdapter{db: db, nowFn: utcNow}
}

// LoadWatermark returns the persisted watermark for a raw table.
// Returns the zero watermark if the table has never been analyzed.
func (a *SummaryAdapter) LoadWatermark(ctx context.Context, table string) (storage.Watermark, error) {
	var wm storage.Watermark
	err := a.db.QueryRowContext(ctx, queryReadWatermark, table).Scan(&wm.Offset, &wm.LastSeq)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.Watermark{}, nil
	}
	if err != nil {
		return storage.Watermark{}, fmt.Errorf("read watermark for %s: %w", table, err)
	}
	return wm, nil
}

// StoreWatermark upserts the watermark for a raw table.
func (a *SummaryAdapter) StoreWatermark(ctx context.Context, table string, wm storage.Watermark) error {
	if _, err := a.db.ExecContext(ctx, queryUpsertWatermark, table, wm.Offset, wm.LastSeq, a.nowFn()); err != nil {
		return fmt.Errorf("write watermark for %s: %w", table, err)
	}
	return nil
}

// ApplyDeltas additively upserts rows into the summary table of dim in one transaction.
func (a *SummaryAdapter) ApplyDeltas(ctx context.Context, dim aggregation.Dimension, rows []aggregation.DeltaRow) error {
	table, ok := summaryTables[dim]
	if !ok {
		return fmt.Errorf("apply deltas: unknown dimension %q", dim)
	}
	if len(rows) == 0 {
		return nil
	}

	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("apply deltas %s: begin tx: %w", table.name, err)
	}
	defer tx.Rollback() //nolint:errcheck

	upsertStmt, err := tx.PrepareContext(ctx, table.upsertQuery)
	if err != nil {
		return fmt.Errorf("apply deltas %s: prepare upsert: %w", table.name, err)
	}
	defer upsertStmt.Close()

	for _, row := range rows {
		if len(row.Keys) != len(table.keyColumns) {
			return fmt.Errorf(
				"apply deltas %s: key arity mismatch: expected %d, got %d for key %v",
				table.name,
				len(table.keyColumns),
				len(row.Keys),
				row.Keys,
			)
		}

		args := make([]any, 0, len(row.Keys)+2)
		args = append(args, row.Keys...)
		args = append(args, row.Value.Count, row.Value.Size)

		if _, err := upsertStmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("apply deltas %s: upsert %v: %w", table.name, row.Keys, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("apply deltas %s: commit: %w", table.name, err)
	}

	slog.Debug("[SummaryAdapter] Applied deltas",
		"table", table.name,
		"keys", len(rows),
	)
	return nil
}

// QuerySummary reads every row of the summary table of dim, ordered by key.
func (a *SummaryAdapter) QuerySummary(ctx context.Context, dim aggregation.Dimension) ([]aggregation.SummaryRow, error) {
	table, ok := summaryTables[dim]
	if !ok {
		return nil, fmt.Errorf("query summary: unknown dimension %q", dim)
	}

	rows, err := a.db.QueryContext(ctx, table.selectQuery)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table.name, err)
	}
	defer rows.Close()

	var results []aggregation.SummaryRow
	for rows.Next() {
		keys := make([]string, len(table.keyColumns))
		dest := make([]any, 0, len(keys)+2)
		for i := range keys {
			dest = append(dest, &keys[i])
		}
		var row aggregation.SummaryRow
		dest = append(dest, &row.Value.Count, &row.Value.Size)

		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan %s row: %w", table.name, err)
		}
		row.Keys = keys
		results = append(results, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s rows: %w", table.name, err)
	}

	return results, nil
}
