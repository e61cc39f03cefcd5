package aggregation

import (
	"errors"
	"fmt"
	"time"

	v1 "github.com/s3meta/s3meta/internal/api/v1"
)

// RecencyWindow is how far back from the run start a row still counts
// towards the month dimension.
const RecencyWindow = 360 * 24 * time.Hour

// ErrUnknownCategory matches any *UnknownCategoryError via errors.Is.
var ErrUnknownCategory = errors.New("unknown category")

// UnknownCategoryError is returned when no matcher selects a record's name.
type UnknownCategoryError struct {
	Name string
}

func (e *UnknownCategoryError) Error() string {
	return fmt.Sprintf("unknown category for file %q", e.Name)
}

func (e *UnknownCategoryError) Is(target error) bool {
	return target == ErrUnknownCategory
}

// Classifier derives the dimension keys of raw rows.
// It is a pure function of the record and the run start time T0; the
// matcher list is read-only after construction.
type Classifier struct {
	matchers    []CategoryMatcher
	recentAfter int64 // epoch seconds; rows modified strictly after this get a month key
	strict      bool
}

// NewClassifier builds a classifier for a run that started at t0.
// In strict mode an unmatched name is an error; otherwise it is labelled
// UncategorizedLabel.
func NewClassifier(matchers []CategoryMatcher, t0 time.Time, strict bool) *Classifier {
	ms := make([]CategoryMatcher, len(matchers))
	copy(ms, matchers)
	return &Classifier{
		matchers:    ms,
		recentAfter: t0.Add(-RecencyWindow).Unix(),
		strict:      strict,
	}
}

// Category returns the label of the first matcher that selects name.
func (c *Classifier) Category(name string) (string, bool) {
	for _, m := range c.matchers {
		if m.Matches(name) {
			return m.Label, true
		}
	}
	return "", false
}

// Classify computes the contribution of one record.
// The second return value reports whether the record fell back to
// UncategorizedLabel (lenient mode only).
func (c *Classifier) Classify(rec *v1.ObjectRecord) (Contribution, bool, error) {
	category, ok := c.Category(rec.Name)
	fallback := false
	if !ok {
		if c.strict {
			return Contribution{}, false, &UnknownCategoryError{Name: rec.Name}
		}
		category = UncategorizedLabel
		fallback = true
	}

	modified := rec.Modified()
	contrib := Contribution{
		Year:         modified.Year(),
		StorageClass: rec.StorageClass,
		Mega:         rec.Size / MiB,
		Category:     category,
	}
	if rec.Size < MiB {
		contrib.Kilo = rec.Size / KiB
		contrib.HasKilo = true
	}
	if rec.ModifiedEpoch > c.recentAfter {
		contrib.Month = int(modified.Month())
		contrib.HasMonth = true
	}
	return contrib, fallback, nil
}
