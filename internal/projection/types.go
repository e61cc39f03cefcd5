package projection

import (
	"github.com/shopspring/decimal"
)

// SummaryEntry is one summary-table row as returned by the read API.
// Key holds the key columns in table order (one, or year then category).
type SummaryEntry struct {
	Key     []string        `json:"key"`
	Files   int64           `json:"files"`
	Size    int64           `json:"size"`
	AvgSize decimal.Decimal `json:"avg_size"`
}

// SummaryResponse is the content of one summary table.
type SummaryResponse struct {
	Dimension  string         `json:"dimension"`
	TotalFiles int64          `json:"total_files"`
	TotalSize  int64          `json:"total_size"`
	Rows       []SummaryEntry `json:"rows"`
}

// StatusResponse reports how far a raw table has been analyzed.
type StatusResponse struct {
	Table   string `json:"table"`
	Offset  int64  `json:"row_offset"`
	LastSeq int64  `json:"last_seq"`
}
