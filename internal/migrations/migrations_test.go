package migrations

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/s3meta/s3meta/internal/core/aggregation"
	"github.com/s3meta/s3meta/internal/core/storage/postgres"
	"github.com/stretchr/testify/require"
)

func readMigration(t *testing.T, name string) string {
	t.Helper()
	data, err := fs.ReadFile(MigrationFiles, name)
	require.NoError(t, err)
	return string(data)
}

func TestMigrationFiles_ArePaired(t *testing.T) {
	ups, err := fs.Glob(MigrationFiles, "*.up.sql")
	require.NoError(t, err)
	require.Len(t, ups, latestVersion)

	for _, up := range ups {
		down := strings.TrimSuffix(up, ".up.sql") + ".down.sql"
		_, err := fs.Stat(MigrationFiles, down)
		require.NoError(t, err, "missing down migration for %s", up)
	}
}

func TestSummaryMigration_CoversEveryDimension(t *testing.T) {
	up := readMigration(t, "000002_create_summaries.up.sql")
	down := readMigration(t, "000002_create_summaries.down.sql")

	require.Contains(t, up, "CREATE TABLE IF NOT EXISTS analyze_status")
	require.Contains(t, down, "DROP TABLE IF EXISTS analyze_status")

	for _, dim := range aggregation.Dimensions {
		table, ok := postgres.TableName(dim)
		require.True(t, ok)
		require.Contains(t, up, "CREATE TABLE IF NOT EXISTS "+table+" (", dim)
		require.Contains(t, down, "DROP TABLE IF EXISTS "+table+";", dim)
	}
	require.Contains(t, up, "ON by_year_and_category (year, category)")
}

func TestRawMigration_KeepsObjectsOutOfClean(t *testing.T) {
	up := readMigration(t, "000001_create_objects.up.sql")
	require.Contains(t, up, "seq           BIGSERIAL")
	require.Contains(t, up, "CREATE TABLE IF NOT EXISTS listing_tokens")

	down := readMigration(t, "000002_create_summaries.down.sql")
	require.NotContains(t, down, "objects")
	require.NotContains(t, down, "listing_tokens")
}
