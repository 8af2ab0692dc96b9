// Package catalog provides the Indicator Catalog: the immutable table of
// crisis indicators the engine matches text against. Catalogs are built once
// at startup from the built-in registry, a CUE or YAML file, or the SQLite
// store, and are never mutated afterwards.
package catalog

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/matthewbaird/crisis/internal/types"
)

// ErrEmptyCatalog is returned when a catalog source holds no indicators.
var ErrEmptyCatalog = errors.New("catalog: no indicators")

// ValidationError collects every problem found in a set of entries.
type ValidationError struct {
	Problems []error
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		msgs[i] = p.Error()
	}
	return "catalog: invalid entries: " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Unwrap() []error { return e.Problems }

// Catalog is a read-only set of crisis indicators. It is safe for concurrent
// use.
type Catalog struct {
	indicators []types.CrisisIndicator
	byCategory map[types.Category][]int
}

// New validates entries and returns a catalog holding deep copies of them.
func New(entries []types.CrisisIndicator) (*Catalog, error) {
	if len(entries) == 0 {
		return nil, ErrEmptyCatalog
	}
	if err := Validate(entries); err != nil {
		return nil, err
	}

	c := &Catalog{
		indicators: make([]types.CrisisIndicator, len(entries)),
		byCategory: make(map[types.Category][]int),
	}
	for i, e := range entries {
		e.Context = slices.Clone(e.Context)
		c.indicators[i] = e
		c.byCategory[e.Category] = append(c.byCategory[e.Category], i)
	}
	return c, nil
}

// MustNew is like New but panics on invalid entries. Only for static tables.
func MustNew(entries []types.CrisisIndicator) *Catalog {
	c, err := New(entries)
	if err != nil {
		panic(err)
	}
	return c
}

// Validate checks a set of entries without building a catalog.
func Validate(entries []types.CrisisIndicator) error {
	var problems []error
	seen := make(map[string]int, len(entries))
	for i, e := range entries {
		label := fmt.Sprintf("entry %d (%q)", i, e.Keyword)
		switch {
		case strings.TrimSpace(e.Keyword) == "":
			problems = append(problems, fmt.Errorf("%s: keyword is empty", label))
		case e.Keyword != strings.ToLower(e.Keyword):
			problems = append(problems, fmt.Errorf("%s: keyword must be lowercase", label))
		case !isNormalized(e.Keyword):
			problems = append(problems, fmt.Errorf("%s: keyword must use single spaces with no leading or trailing whitespace", label))
		}
		if !e.Category.Valid() {
			problems = append(problems, fmt.Errorf("%s: unknown category %q", label, e.Category))
		}
		if e.Severity <= types.SeverityNone || e.Severity > types.SeverityCritical {
			problems = append(problems, fmt.Errorf("%s: severity must be low..critical, got %s", label, e.Severity))
		}
		for _, w := range e.Context {
			if strings.TrimSpace(w) == "" || w != strings.ToLower(w) || !isNormalized(w) {
				problems = append(problems, fmt.Errorf("%s: context word %q must be non-empty lowercase with single spaces", label, w))
			}
		}
		key := e.Keyword + "\x00" + string(e.Category)
		if prev, dup := seen[key]; dup {
			problems = append(problems, fmt.Errorf("%s: duplicates entry %d", label, prev))
		} else {
			seen[key] = i
		}
	}
	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// isNormalized reports whether w is already in the whitespace form input text
// is normalized to. Anything else can never match.
func isNormalized(w string) bool {
	return w == strings.Join(strings.Fields(w), " ")
}

// Len returns the number of indicators.
func (c *Catalog) Len() int { return len(c.indicators) }

// Indicators returns a copy of all indicators in catalog order.
func (c *Catalog) Indicators() []types.CrisisIndicator {
	out := make([]types.CrisisIndicator, len(c.indicators))
	for i, ind := range c.indicators {
		ind.Context = slices.Clone(ind.Context)
		out[i] = ind
	}
	return out
}

// ByCategory returns copies of the indicators in one category.
func (c *Catalog) ByCategory(cat types.Category) []types.CrisisIndicator {
	idx := c.byCategory[cat]
	out := make([]types.CrisisIndicator, 0, len(idx))
	for _, i := range idx {
		ind := c.indicators[i]
		ind.Context = slices.Clone(ind.Context)
		out = append(out, ind)
	}
	return out
}

// Each calls fn for every indicator in catalog order without copying.
// fn must not retain or modify the Context slice.
func (c *Catalog) Each(fn func(types.CrisisIndicator)) {
	for _, ind := range c.indicators {
		fn(ind)
	}
}
