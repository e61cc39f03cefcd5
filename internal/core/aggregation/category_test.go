package aggregation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseCategories_PreservesOrder(t *testing.T) {
	set, err := ParseCategories([]byte(`
categories:
  - name: html
    pattern: '.*\.html?'
  - name: csv
    pattern: '.*\.csv'
  - name: archive
    pattern: '.*\.(zip|tar|gz)'
`))
	require.NoError(t, err)
	require.Equal(t, []string{"html", "csv", "archive"}, set.Labels())
	require.Len(t, set.Fingerprint, 64)
	require.True(t, set.Matchers[2].Matches("backup.tar"))
	require.True(t, set.Matchers[0].Matches("index.htm"))
}

func TestParseCategories_Errors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "empty list",
			yaml:    "categories: []",
			wantErr: "no categories defined",
		},
		{
			name: "duplicate name",
			yaml: `
categories:
  - {name: csv, pattern: 'a'}
  - {name: csv, pattern: 'b'}
`,
			wantErr: "duplicate name",
		},
		{
			name:    "missing pattern",
			yaml:    "categories:\n  - name: csv\n",
			wantErr: "pattern must not be empty",
		},
		{
			name:    "bad regex",
			yaml:    "categories:\n  - {name: csv, pattern: '(['}\n",
			wantErr: "invalid pattern",
		},
		{
			name:    "missing label",
			yaml:    "categories:\n  - {pattern: '.*'}\n",
			wantErr: "label must not be empty",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseCategories([]byte(tc.yaml))
			require.Error(t, err)
			require.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestLoadCategories_DefaultsWhenMissing(t *testing.T) {
	set, err := LoadCategories("")
	require.NoError(t, err)
	require.Equal(t, []string{"zip", "csv", "html"}, set.Labels())
	require.Equal(t, "builtin", set.Source)

	set, err = LoadCategories(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	require.Equal(t, []string{"zip", "csv", "html"}, set.Labels())
}

func TestLoadCategories_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "categories.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
categories:
  - name: parquet
    pattern: '.*\.parquet'
`), 0o644))

	set, err := LoadCategories(path)
	require.NoError(t, err)
	require.Equal(t, []string{"parquet"}, set.Labels())
	require.Equal(t, path, set.Source)
}

func TestCategoryMatcher_AnchoredAtStart(t *testing.T) {
	m := MustCategoryMatcher("csv", `data/.*\.csv`)
	require.True(t, m.Matches("data/a.csv"))
	require.True(t, m.Matches("data/a.csv.bak"))
	require.False(t, m.Matches("raw/data/a.csv"))
}
