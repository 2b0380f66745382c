package core

// filter.go evaluates column filters and the global filter against rows.
//
// Column filters combine with AND: a row is visible only if it satisfies
// every active filter. The global filter is an OR across text-coercible
// columns per search term, ANDed with the column filters.

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"
)

// fold applies Unicode case folding for case-insensitive comparison.
// A Caser is stateful, so one is created per call.
func fold(s string) string {
	return cases.Fold().String(s)
}

// IsActive reports whether v narrows the row set at all.
// Inert filters (empty text, "all" select, unbounded range) behave as absent.
func IsActive(v FilterValue) bool {
	switch f := v.(type) {
	case nil:
		return false
	case TextFilter:
		return strings.TrimSpace(f.Query) != ""
	case SelectFilter:
		return f.Value != "" && f.Value != SelectAll
	case RangeFilter:
		return f.Min != nil || f.Max != nil
	case DateFilter:
		return !f.From.IsZero()
	default:
		return true
	}
}

// SelectAll is the select-filter sentinel meaning every value.
const SelectAll = "*"

// CheckFilter reports whether v may be applied to a column.
func CheckFilter(meta ColumnMeta, v FilterValue) error {
	if v == nil {
		return fmt.Errorf("%w: nil filter for %s", ErrInvalidFilter, meta.ID)
	}
	if meta.Variant == VariantNone {
		return fmt.Errorf("%w: column %s is not filterable", ErrInvalidFilter, meta.ID)
	}
	if v.Variant() != meta.Variant {
		return fmt.Errorf("%w: %s filter on %s column %s", ErrInvalidFilter, v.Variant(), meta.Variant, meta.ID)
	}
	if r, ok := v.(RangeFilter); ok && r.Min != nil && r.Max != nil && *r.Min > *r.Max {
		return fmt.Errorf("%w: range min %v exceeds max %v", ErrInvalidFilter, *r.Min, *r.Max)
	}
	return nil
}

// IsVisible reports whether row satisfies every active filter.
// Filters on unknown columns are ignored. A value that cannot be compared
// (a non-numeric value under a range filter, a non-date under a date
// filter) is reported as an error rather than a silent mismatch.
func IsVisible[R any](row R, filters FilterState, schema *Schema[R]) (bool, error) {
	for _, id := range filters.ids() {
		fv := filters[id]
		if !IsActive(fv) {
			continue
		}
		col, ok := schema.Column(id)
		if !ok {
			continue
		}
		if err := CheckFilter(col.ColumnMeta, fv); err != nil {
			return false, err
		}
		match, err := matchFilter(col.Accessor(row), fv)
		if err != nil {
			return false, fmt.Errorf("column %s: %w", id, err)
		}
		if !match {
			return false, nil
		}
	}
	return true, nil
}

// ids returns the filtered column ids in a stable order.
func (f FilterState) ids() []string {
	ids := make([]string, 0, len(f))
	for id := range f {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// matchFilter evaluates one active filter against a cell value.
func matchFilter(v Value, fv FilterValue) (bool, error) {
	switch f := fv.(type) {
	case TextFilter:
		return strings.Contains(fold(Stringify(v)), fold(strings.TrimSpace(f.Query))), nil

	case SelectFilter:
		return Stringify(v) == f.Value, nil

	case RangeFilter:
		if IsEmpty(v) {
			return false, nil
		}
		n, ok := ToNumber(v)
		if !ok {
			return false, fmt.Errorf("%w: %q", ErrNotNumeric, Stringify(v))
		}
		if f.Min != nil && n < *f.Min {
			return false, nil
		}
		if f.Max != nil && n > *f.Max {
			return false, nil
		}
		return true, nil

	case DateFilter:
		if IsEmpty(v) {
			return false, nil
		}
		t, ok := ToTime(v)
		if !ok {
			return false, fmt.Errorf("%w: %q", ErrNotDate, Stringify(v))
		}
		from, to := f.Bounds()
		day := calendarDay(t)
		return !day.Before(from) && !day.After(to), nil

	default:
		return false, fmt.Errorf("%w: unsupported filter %T", ErrInvalidFilter, fv)
	}
}

// Bounds returns the inclusive day interval of the filter.
// A missing To collapses to From; reversed bounds are swapped.
func (f DateFilter) Bounds() (from, to time.Time) {
	from = calendarDay(f.From)
	to = from
	if f.To != nil && !f.To.IsZero() {
		to = calendarDay(*f.To)
	}
	if to.Before(from) {
		from, to = to, from
	}
	return from, to
}

// MatchesGlobal reports whether row matches the free-text query.
// Every whitespace-separated term must be contained in at least one
// text-coercible, searchable column.
func MatchesGlobal[R any](row R, query string, schema *Schema[R]) bool {
	terms := strings.Fields(fold(query))
	if len(terms) == 0 {
		return true
	}

	var texts []string
	for _, col := range schema.columns {
		if col.NoSearch {
			continue
		}
		v := col.Accessor(row)
		if !isTextCoercible(v) {
			continue
		}
		texts = append(texts, fold(Stringify(v)))
	}

	for _, term := range terms {
		found := false
		for _, text := range texts {
			if strings.Contains(text, term) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// VisibleRows returns the rows passing the global filter and all column
// filters, in input order. Rows whose values cannot be compared are
// excluded and the first such error is returned alongside the result.
func VisibleRows[R any](rows []R, filters FilterState, global string, schema *Schema[R]) ([]R, error) {
	var firstErr error
	out := make([]R, 0, len(rows))

	for _, row := range rows {
		if !MatchesGlobal(row, global, schema) {
			continue
		}
		ok, err := IsVisible(row, filters, schema)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if ok {
			out = append(out, row)
		}
	}

	return out, firstErr
}
