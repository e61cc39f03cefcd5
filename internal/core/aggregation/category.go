package aggregation

import (
	"crypto/sha256"
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// UncategorizedLabel is the category assigned to unmatched names when the
// classifier runs in lenient mode.
const UncategorizedLabel = "uncategorized"

// CategoryMatcher pairs a category label with the name pattern that selects it.
type CategoryMatcher struct {
	Label   string
	Pattern string

	re *regexp.Regexp
}

// NewCategoryMatcher compiles pattern. Like a regex "match" call, the pattern
// is anchored at the start of the name only: ".*\.zip" matches "a.zip.csv".
func NewCategoryMatcher(label, pattern string) (CategoryMatcher, error) {
	if strings.TrimSpace(label) == "" {
		return CategoryMatcher{}, fmt.Errorf("category label must not be empty")
	}
	if pattern == "" {
		return CategoryMatcher{}, fmt.Errorf("category %q: pattern must not be empty", label)
	}
	re, err := regexp.Compile(`^(?:` + pattern + `)`)
	if err != nil {
		return CategoryMatcher{}, fmt.Errorf("category %q: invalid pattern %q: %w", label, pattern, err)
	}
	return CategoryMatcher{Label: label, Pattern: pattern, re: re}, nil
}

// MustCategoryMatcher is like NewCategoryMatcher but panics on error.
// Intended for static lists.
func MustCategoryMatcher(label, pattern string) CategoryMatcher {
	m, err := NewCategoryMatcher(label, pattern)
	if err != nil {
		panic(err)
	}
	return m
}

// Matches reports whether name selects this category.
func (m CategoryMatcher) Matches(name string) bool {
	return m.re != nil && m.re.MatchString(name)
}

// DefaultCategories returns the built-in ordered matcher list.
func DefaultCategories() []CategoryMatcher {
	return []CategoryMatcher{
		MustCategoryMatcher("zip", `.*\.zip`),
		MustCategoryMatcher("csv", `.*\.csv`),
		MustCategoryMatcher("html", `.*\.html`),
	}
}

// CategorySet is an ordered matcher list loaded from a category file.
type CategorySet struct {
	Matchers    []CategoryMatcher
	Fingerprint string // SHA-256 of the raw YAML file; empty for the built-in list
	Source      string
}

// rawCategoryFile is the on-disk YAML shape. Order in the list is the match order.
type rawCategoryFile struct {
	Categories []struct {
		Name    string `yaml:"name"`
		Pattern string `yaml:"pattern"`
	} `yaml:"categories"`
}

// LoadCategories reads an ordered category list from a YAML file.
// An empty path, or a path that does not exist, yields DefaultCategories.
func LoadCategories(path string) (*CategorySet, error) {
	if path == "" {
		return &CategorySet{Matchers: DefaultCategories(), Source: "builtin"}, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &CategorySet{Matchers: DefaultCategories(), Source: "builtin"}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading category file %s: %w", path, err)
	}

	set, err := ParseCategories(data)
	if err != nil {
		return nil, fmt.Errorf("parsing category file %s: %w", path, err)
	}
	set.Source = path
	return set, nil
}

// ParseCategories parses the YAML category list in data.
func ParseCategories(data []byte) (*CategorySet, error) {
	var raw rawCategoryFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if len(raw.Categories) == 0 {
		return nil, fmt.Errorf("no categories defined")
	}

	seen := make(map[string]struct{}, len(raw.Categories))
	matchers := make([]CategoryMatcher, 0, len(raw.Categories))
	for _, c := range raw.Categories {
		if _, dup := seen[c.Name]; dup {
			return nil, fmt.Errorf("category %q: duplicate name", c.Name)
		}
		seen[c.Name] = struct{}{}

		m, err := NewCategoryMatcher(c.Name, c.Pattern)
		if err != nil {
			return nil, err
		}
		matchers = append(matchers, m)
	}

	return &CategorySet{
		Matchers:    matchers,
		Fingerprint: fmt.Sprintf("%x", sha256.Sum256(data)),
	}, nil
}

// Labels returns the category labels in match order.
func (s *CategorySet) Labels() []string {
	out := make([]string, 0, len(s.Matchers))
	for _, m := range s.Matchers {
		out = append(out, m.Label)
	}
	return out
}
