package v1

import (
	"fmt"
	"path"
	"time"
)

// ObjectRecord is one row of the raw metadata table.
// It mirrors a single entry of an object-storage listing.
type ObjectRecord struct {
	// Key is the full object key inside the bucket. Unique per raw table.
	Key string `json:"key"`

	// Size is the object size in bytes.
	Size int64 `json:"size"`

	// ModifiedEpoch is the last-modified timestamp in Unix seconds.
	ModifiedEpoch int64 `json:"modified"`

	// Name is the base name of Key. Category classification matches against it.
	Name string `json:"name"`

	// StorageClass is passed through verbatim from the listing (e.g. "STANDARD", "GLACIER").
	StorageClass string `json:"storage_class"`

	// Seq is the monotonic scan key assigned by the raw table (BIGSERIAL).
	// It gives the analyzer a stable total order; not exposed in the public API.
	Seq int64 `json:"-"`
}

// Modified returns the last-modified time in UTC.
func (o *ObjectRecord) Modified() time.Time {
	return time.Unix(o.ModifiedEpoch, 0).UTC()
}

// Normalize fills derived fields. Name defaults to the base name of Key.
func (o *ObjectRecord) Normalize() {
	if o.Name == "" && o.Key != "" {
		o.Name = path.Base(o.Key)
	}
}

// Validate ensures the record has all required attributes.
func (o *ObjectRecord) Validate() error {
	if o.Key == "" {
		return fmt.Errorf("key is required")
	}

	if o.Size < 0 {
		return fmt.Errorf("size must be >= 0, got %d", o.Size)
	}

	if o.ModifiedEpoch <= 0 {
		return fmt.Errorf("modified is required")
	}

	if o.StorageClass == "" {
		return fmt.Errorf("storage_class is required")
	}

	return nil
}
