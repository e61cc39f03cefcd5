package storage

import (
	"context"
	"errors"

	v1 "github.com/s3meta/s3meta/internal/api/v1"
)

// ErrDuplicate is returned when an object with the same key already exists in the raw table.
var ErrDuplicate = errors.New("object already exists")

// ObjectStore is the write side of the raw metadata table.
// The analyzer never writes through it; ingestion collaborators do.
type ObjectStore interface {
	// SaveObject inserts one record. Returns ErrDuplicate if the key exists.
	SaveObject(ctx context.Context, obj *v1.ObjectRecord) error

	// SaveObjects inserts records in one transaction, skipping existing keys.
	// Returns how many rows were actually inserted.
	SaveObjects(ctx context.Context, objs []*v1.ObjectRecord) (int, error)
}

// ListingTokenStore persists the object-storage listing continuation token per bucket
// so an interrupted load resumes where it stopped.
type ListingTokenStore interface {
	// ReadListingToken returns the saved token, or "" if none exists.
	ReadListingToken(ctx context.Context, bucket string) (string, error)

	// WriteListingToken upserts the token for bucket.
	WriteListingToken(ctx context.Context, bucket, token string) error
}

// Watermark records how far the analyzer has folded a raw table into the
// summary tables. Offset counts aggregated rows; LastSeq is the scan key of
// the last aggregated row. Rows with seq <= LastSeq are exactly the first
// Offset rows in scan order as long as writers commit in seq order, which
// the postgres adapter enforces with a per-table insert lock.
type Watermark struct {
	Offset  int64 `json:"row_offset"`
	LastSeq int64 `json:"last_seq"`
}
