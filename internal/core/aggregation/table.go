package aggregation

import (
	"cmp"
	"slices"
)

// Table is a batch-local additive accumulator keyed by K.
// It has a single writer (the classification step of the current batch)
// and is read-only once the batch is handed to the flush.
type Table[K comparable] struct {
	entries map[K]*Aggregate
	compare func(a, b K) int
}

// Entry is one key of a Table together with its accumulated value.
type Entry[K comparable] struct {
	Key   K
	Value Aggregate
}

// NewTable creates an empty table. compare orders keys for Entries.
func NewTable[K comparable](compare func(a, b K) int) *Table[K] {
	return &Table[K]{
		entries: make(map[K]*Aggregate),
		compare: compare,
	}
}

// NewOrderedTable creates an empty table over a naturally ordered key type.
func NewOrderedTable[K cmp.Ordered]() *Table[K] {
	return NewTable[K](cmp.Compare[K])
}

// Add folds one row of the given size into key.
func (t *Table[K]) Add(key K, size int64) {
	agg, ok := t.entries[key]
	if !ok {
		agg = &Aggregate{}
		t.entries[key] = agg
	}
	agg.Count++
	agg.Size += size
}

// Get returns the accumulated value for key.
func (t *Table[K]) Get(key K) (Aggregate, bool) {
	agg, ok := t.entries[key]
	if !ok {
		return Aggregate{}, false
	}
	return *agg, true
}

// Len returns the number of distinct keys.
func (t *Table[K]) Len() int {
	return len(t.entries)
}

// Entries returns all keys and values sorted by key.
// The downstream merge is commutative so the order only matters for
// reproducible logs and tests.
func (t *Table[K]) Entries() []Entry[K] {
	out := make([]Entry[K], 0, len(t.entries))
	for k, v := range t.entries {
		out = append(out, Entry[K]{Key: k, Value: *v})
	}
	slices.SortFunc(out, func(a, b Entry[K]) int {
		return t.compare(a.Key, b.Key)
	})
	return out
}

// compareYearCategory orders composite keys by year, then category.
func compareYearCategory(a, b YearCategory) int {
	if c := cmp.Compare(a.Year, b.Year); c != 0 {
		return c
	}
	return cmp.Compare(a.Category, b.Category)
}
