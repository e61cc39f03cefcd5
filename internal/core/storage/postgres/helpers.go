package postgres

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/lib/pq"
	v1 "github.com/s3meta/s3meta/internal/api/v1"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// quoteTable validates a possibly schema-qualified table name and returns it
// quoted for interpolation into SQL text.
func quoteTable(name string) (string, error) {
	parts := strings.Split(name, ".")
	if len(parts) > 2 {
		return "", fmt.Errorf("invalid table name %q", name)
	}
	for i, p := range parts {
		if !identifierPattern.MatchString(p) {
			return "", fmt.Errorf("invalid table name %q", name)
		}
		parts[i] = pq.QuoteIdentifier(p)
	}
	return strings.Join(parts, "."), nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

// scanObjectRow scans one raw-table row into an ObjectRecord.
// Compatible with both sql.Row (single) and sql.Rows (multiple).
func scanObjectRow(row scanner) (*v1.ObjectRecord, error) {
	var obj v1.ObjectRecord
	if err := row.Scan(
		&obj.Seq,
		&obj.Key,
		&obj.Size,
		&obj.ModifiedEpoch,
		&obj.Name,
		&obj.StorageClass,
	); err != nil {
		return nil, fmt.Errorf("failed to scan object row: %w", err)
	}
	return &obj, nil
}
