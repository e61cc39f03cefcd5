package projection

import (
	"context"
	"errors"
	"fmt"
	"strings"

	coreagg "github.com/s3meta/s3meta/internal/core/aggregation"
	"github.com/s3meta/s3meta/internal/core/storage"
	"github.com/shopspring/decimal"
)

// avgSizePlaces is the number of decimal places kept for average object sizes.
const avgSizePlaces = 2

// ErrInvalidQuery marks request validation errors that should return HTTP 400.
var ErrInvalidQuery = errors.New("invalid summary query")

// SummaryReader is the read side of the analyzer's persisted state.
type SummaryReader interface {
	QuerySummary(ctx context.Context, dim coreagg.Dimension) ([]coreagg.SummaryRow, error)
	LoadWatermark(ctx context.Context, table string) (storage.Watermark, error)
}

// Service implements the projection/query layer over the summary tables.
// It only reads what the analyzer has already flushed; rows past the
// watermark are not visible until the next run.
type Service struct {
	reader SummaryReader
}

// NewService creates a new projection service.
func NewService(reader SummaryReader) *Service {
	return &Service{reader: reader}
}

// QuerySummary returns every row of one summary table ordered by key.
func (s *Service) QuerySummary(ctx context.Context, dimension string) (*SummaryResponse, error) {
	dim := coreagg.Dimension(strings.TrimSpace(dimension))
	if !dim.Valid() {
		return nil, invalidQueryf("unknown dimension: %s", dimension)
	}

	rows, err := s.reader.QuerySummary(ctx, dim)
	if err != nil {
		return nil, fmt.Errorf("query summary %s: %w", dim, err)
	}

	resp := &SummaryResponse{
		Dimension: string(dim),
		Rows:      make([]SummaryEntry, 0, len(rows)),
	}
	for _, row := range rows {
		resp.Rows = append(resp.Rows, SummaryEntry{
			Key:     row.Keys,
			Files:   row.Value.Count,
			Size:    row.Value.Size,
			AvgSize: averageSize(row.Value),
		})
		resp.TotalFiles += row.Value.Count
		resp.TotalSize += row.Value.Size
	}
	return resp, nil
}

// QueryAll returns every summary table in flush order.
func (s *Service) QueryAll(ctx context.Context) ([]*SummaryResponse, error) {
	out := make([]*SummaryResponse, 0, len(coreagg.Dimensions))
	for _, dim := range coreagg.Dimensions {
		resp, err := s.QuerySummary(ctx, string(dim))
		if err != nil {
			return nil, err
		}
		out = append(out, resp)
	}
	return out, nil
}

// QueryStatus returns the watermark of a raw table.
// A table that was never analyzed reports offset 0.
func (s *Service) QueryStatus(ctx context.Context, table string) (*StatusResponse, error) {
	table = strings.TrimSpace(table)
	if table == "" {
		return nil, invalidQueryf("table is required")
	}

	wm, err := s.reader.LoadWatermark(ctx, table)
	if err != nil {
		return nil, fmt.Errorf("load watermark: %w", err)
	}

	return &StatusResponse{
		Table:   table,
		Offset:  wm.Offset,
		LastSeq: wm.LastSeq,
	}, nil
}

func averageSize(agg coreagg.Aggregate) decimal.Decimal {
	if agg.Count == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(agg.Size).
		Div(decimal.NewFromInt(agg.Count)).
		Round(avgSizePlaces)
}

func invalidQueryf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidQuery, fmt.Sprintf(format, args...))
}
