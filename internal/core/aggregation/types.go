package aggregation

// Dimension names one axis of aggregation. Each dimension is persisted
// into its own summary table.
type Dimension string

// The seven analyzed dimensions, six single-key plus one composite.
const (
	DimYear            Dimension = "year"
	DimStorageClass    Dimension = "storage_class"
	DimMega            Dimension = "mega"
	DimKilo            Dimension = "kilo"
	DimMonth           Dimension = "month"
	DimCategory        Dimension = "category"
	DimYearAndCategory Dimension = "year_and_category"
)

// Dimensions lists every dimension in flush order.
var Dimensions = []Dimension{
	DimYear,
	DimStorageClass,
	DimMega,
	DimKilo,
	DimMonth,
	DimCategory,
	DimYearAndCategory,
}

// Valid reports whether d is one of the known dimensions.
func (d Dimension) Valid() bool {
	for _, known := range Dimensions {
		if d == known {
			return true
		}
	}
	return false
}

// Size bucket boundaries.
const (
	KiB int64 = 1 << 10
	MiB int64 = 1 << 20
)

// Aggregate holds the additive statistics of one dimension key.
type Aggregate struct {
	Count int64 // number of raw rows folded into the key
	Size  int64 // sum of their sizes in bytes
}

// Merge adds other into a.
func (a *Aggregate) Merge(other Aggregate) {
	a.Count += other.Count
	a.Size += other.Size
}

// YearCategory is the composite key of the year_and_category dimension.
type YearCategory struct {
	Year     int
	Category string
}

// DeltaRow is one accumulated key and the delta to add to its summary row.
// Keys holds the key column values in table order (one, or two for the
// composite dimension).
type DeltaRow struct {
	Keys  []any
	Value Aggregate
}

// DimensionDelta is everything one batch contributes to a single summary table.
type DimensionDelta struct {
	Dimension Dimension
	Rows      []DeltaRow
}

// SummaryRow is one persisted summary-table row as read back for reporting.
// Keys holds the key columns rendered as text, in table order.
type SummaryRow struct {
	Keys  []string
	Value Aggregate
}
