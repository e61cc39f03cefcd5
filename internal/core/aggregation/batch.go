package aggregation

// Contribution is the set of dimension keys one raw row contributes to.
// Kilo and Month are optional: HasKilo and HasMonth report whether the
// row qualifies for those dimensions.
type Contribution struct {
	Year         int
	StorageClass string
	Mega         int64
	Kilo         int64
	HasKilo      bool
	Month        int
	HasMonth     bool
	Category     string
}

// Batch holds the seven accumulators of one scan batch.
// A Batch is allocated fresh per batch and discarded after flush.
type Batch struct {
	Year            *Table[int]
	StorageClass    *Table[string]
	Mega            *Table[int64]
	Kilo            *Table[int64]
	Month           *Table[int]
	Category        *Table[string]
	YearAndCategory *Table[YearCategory]

	rows int
}

// NewBatch allocates empty accumulators.
func NewBatch() *Batch {
	return &Batch{
		Year:            NewOrderedTable[int](),
		StorageClass:    NewOrderedTable[string](),
		Mega:            NewOrderedTable[int64](),
		Kilo:            NewOrderedTable[int64](),
		Month:           NewOrderedTable[int](),
		Category:        NewOrderedTable[string](),
		YearAndCategory: NewTable[YearCategory](compareYearCategory),
	}
}

// Add folds one classified row of the given size into every dimension it
// contributes to.
func (b *Batch) Add(c Contribution, size int64) {
	b.Year.Add(c.Year, size)
	b.StorageClass.Add(c.StorageClass, size)
	b.Mega.Add(c.Mega, size)
	if c.HasKilo {
		b.Kilo.Add(c.Kilo, size)
	}
	if c.HasMonth {
		b.Month.Add(c.Month, size)
	}
	b.Category.Add(c.Category, size)
	b.YearAndCategory.Add(YearCategory{Year: c.Year, Category: c.Category}, size)
	b.rows++
}

// Rows returns how many rows have been added.
func (b *Batch) Rows() int {
	return b.rows
}

// Deltas converts every accumulator into the rows to upsert, one entry per
// dimension in Dimensions order. Dimensions with no keys have empty Rows.
func (b *Batch) Deltas() []DimensionDelta {
	return []DimensionDelta{
		{Dimension: DimYear, Rows: singleKeyRows(b.Year)},
		{Dimension: DimStorageClass, Rows: singleKeyRows(b.StorageClass)},
		{Dimension: DimMega, Rows: singleKeyRows(b.Mega)},
		{Dimension: DimKilo, Rows: singleKeyRows(b.Kilo)},
		{Dimension: DimMonth, Rows: singleKeyRows(b.Month)},
		{Dimension: DimCategory, Rows: singleKeyRows(b.Category)},
		{Dimension: DimYearAndCategory, Rows: yearCategoryRows(b.YearAndCategory)},
	}
}

func singleKeyRows[K comparable](t *Table[K]) []DeltaRow {
	entries := t.Entries()
	rows := make([]DeltaRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, DeltaRow{Keys: []any{e.Key}, Value: e.Value})
	}
	return rows
}

func yearCategoryRows(t *Table[YearCategory]) []DeltaRow {
	entries := t.Entries()
	rows := make([]DeltaRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, DeltaRow{Keys: []any{e.Key.Year, e.Key.Category}, Value: e.Value})
	}
	return rows
}
