package postgres

import "github.com/s3meta/s3meta/internal/core/aggregation"

// SQL for the raw objects table and listing state.

const (
	// querySaveObjectTemplate inserts one listed object into the raw table.
	// ON CONFLICT DO NOTHING returns no rows (sql.ErrNoRows) for an existing key.
	// RETURNING seq exposes the scan key assigned by BIGSERIAL.
	querySaveObjectTemplate = `
		INSERT INTO %s (k, size, modified, name, storage_class)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (k) DO NOTHING
		RETURNING seq
	`

	// queryLockObjectInserts serializes inserting transactions per raw table
	// until commit, so seq values become visible in the order they are drawn.
	// A scan past the last seen seq then never skips a later commit.
	queryLockObjectInserts = `SELECT pg_advisory_xact_lock(hashtext($1))`

	// queryTableHasSeq reports whether the relation exists and has a seq column.
	queryTableHasSeq = `
		SELECT EXISTS (
			SELECT 1 FROM pg_attribute
			WHERE attrelid = to_regclass($1)
			  AND attname = 'seq'
			  AND NOT attisdropped
		)
	`

	// queryFetchObjectsTemplate pages the raw table in strict scan-key order.
	// The table name is substituted after identifier validation and quoting.
	queryFetchObjectsTemplate = `
		SELECT seq, k, size, modified, name, storage_class
		FROM %s
		WHERE seq > $1
		ORDER BY seq ASC
		LIMIT $2
	`

	queryReadListingToken = `SELECT next_token FROM listing_tokens WHERE bucket = $1`

	queryUpsertListingToken = `
		INSERT INTO listing_tokens (bucket, next_token, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (bucket) DO UPDATE
		SET next_token = EXCLUDED.next_token, updated_at = EXCLUDED.updated_at
	`
)

// SQL for the analyzer watermark.

const (
	queryReadWatermark = `SELECT row_offset, last_seq FROM analyze_status WHERE table_name = $1`

	queryUpsertWatermark = `
		INSERT INTO analyze_status (table_name, row_offset, last_seq, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (table_name) DO UPDATE
		SET row_offset = EXCLUDED.row_offset,
			last_seq   = EXCLUDED.last_seq,
			updated_at = EXCLUDED.updated_at
	`
)

// SQL for the seven summary tables. Every upsert is additive: an existing key
// gets the delta added, a new key is inserted with the delta as its value.

const (
	queryUpsertByYear = `
		INSERT INTO by_year AS t (year, files, size)
		VALUES ($1, $2, $3)
		ON CONFLICT (year) DO UPDATE SET
			files = t.files + EXCLUDED.files,
			size  = t.size + EXCLUDED.size
	`

	queryUpsertByStorageClass = `
		INSERT INTO by_storage_class AS t (storage_class, files, size)
		VALUES ($1, $2, $3)
		ON CONFLICT (storage_class) DO UPDATE SET
			files = t.files + EXCLUDED.files,
			size  = t.size + EXCLUDED.size
	`

	queryUpsertByMega = `
		INSERT INTO by_mega AS t (mega, files, size)
		VALUES ($1, $2, $3)
		ON CONFLICT (mega) DO UPDATE SET
			files = t.files + EXCLUDED.files,
			size  = t.size + EXCLUDED.size
	`

	queryUpsertByKilo = `
		INSERT INTO by_kilo AS t (kilo, files, size)
		VALUES ($1, $2, $3)
		ON CONFLICT (kilo) DO UPDATE SET
			files = t.files + EXCLUDED.files,
			size  = t.size + EXCLUDED.size
	`

	queryUpsertByMonth = `
		INSERT INTO by_month AS t (month, files, size)
		VALUES ($1, $2, $3)
		ON CONFLICT (month) DO UPDATE SET
			files = t.files + EXCLUDED.files,
			size  = t.size + EXCLUDED.size
	`

	queryUpsertByCategory = `
		INSERT INTO by_category AS t (category, files, size)
		VALUES ($1, $2, $3)
		ON CONFLICT (category) DO UPDATE SET
			files = t.files + EXCLUDED.files,
			size  = t.size + EXCLUDED.size
	`

	queryUpsertByYearAndCategory = `
		INSERT INTO by_year_and_category AS t (year, category, files, size)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (year, category) DO UPDATE SET
			files = t.files + EXCLUDED.files,
			size  = t.size + EXCLUDED.size
	`
)

// Read queries cast key columns to text so every table scans into the same shape.

const (
	querySelectByYear            = `SELECT year::text, files, size FROM by_year ORDER BY year`
	querySelectByStorageClass    = `SELECT storage_class, files, size FROM by_storage_class ORDER BY storage_class`
	querySelectByMega            = `SELECT mega::text, files, size FROM by_mega ORDER BY mega`
	querySelectByKilo            = `SELECT kilo::text, files, size FROM by_kilo ORDER BY kilo`
	querySelectByMonth           = `SELECT month::text, files, size FROM by_month ORDER BY month`
	querySelectByCategory        = `SELECT category, files, size FROM by_category ORDER BY category`
	querySelectByYearAndCategory = `SELECT year::text, category, files, size FROM by_year_and_category ORDER BY year, category`
)

// summaryTable describes how one dimension is persisted.
type summaryTable struct {
	name        string
	keyColumns  []string
	upsertQuery string
	selectQuery string
}

var summaryTables = map[aggregation.Dimension]summaryTable{
	aggregation.DimYear: {
		name: "by_year", keyColumns: []string{"year"},
		upsertQuery: queryUpsertByYear, selectQuery: querySelectByYear,
	},
	aggregation.DimStorageClass: {
		name: "by_storage_class", keyColumns: []string{"storage_class"},
		upsertQuery: queryUpsertByStorageClass, selectQuery: querySelectByStorageClass,
	},
	aggregation.DimMega: {
		name: "by_mega", keyColumns: []string{"mega"},
		upsertQuery: queryUpsertByMega, selectQuery: querySelectByMega,
	},
	aggregation.DimKilo: {
		name: "by_kilo", keyColumns: []string{"kilo"},
		upsertQuery: queryUpsertByKilo, selectQuery: querySelectByKilo,
	},
	aggregation.DimMonth: {
		name: "by_month", keyColumns: []string{"month"},
		upsertQuery: queryUpsertByMonth, selectQuery: querySelectByMonth,
	},
	aggregation.DimCategory: {
		name: "by_category", keyColumns: []string{"category"},
		upsertQuery: queryUpsertByCategory, selectQuery: querySelectByCategory,
	},
	aggregation.DimYearAndCategory: {
		name: "by_year_and_category", keyColumns: []string{"year", "category"},
		upsertQuery: queryUpsertByYearAndCategory, selectQuery: querySelectByYearAndCategory,
	},
}

// TableName returns the summary table that stores dim.
func TableName(dim aggregation.Dimension) (string, bool) {
	t, ok := summaryTables[dim]
	return t.name, ok
}
