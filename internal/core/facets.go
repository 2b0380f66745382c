package core

import (
	"fmt"
	"sort"
)

// MaxFacetValues caps the distinct values returned for a select facet.
const MaxFacetValues = 5000

// FacetedUniqueValues returns the sorted distinct non-empty values of a
// column over rows. Callers pass the pre-filter row set so facets do not
// shrink as filters narrow.
func FacetedUniqueValues[R any](rows []R, id string, schema *Schema[R]) ([]Value, error) {
	col, ok := schema.Column(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownColumnID, id)
	}

	seen := make(map[string]Value)
	for _, row := range rows {
		v := col.Accessor(row)
		if IsEmpty(v) {
			continue
		}
		key := Stringify(v)
		if _, exists := seen[key]; !exists {
			seen[key] = v
		}
	}

	values := make([]Value, 0, len(seen))
	for _, v := range seen {
		values = append(values, v)
	}
	sort.SliceStable(values, func(i, j int) bool {
		return CompareValues(values[i], values[j]) < 0
	})

	if len(values) > MaxFacetValues {
		values = values[:MaxFacetValues]
	}
	return values, nil
}

// FacetedMinMax returns the numeric bounds of a column over rows.
// ok is false when no row carries a numeric value. Non-numeric, non-empty
// values are reported as ErrNotNumeric.
func FacetedMinMax[R any](rows []R, id string, schema *Schema[R]) (lo, hi float64, ok bool, err error) {
	col, found := schema.Column(id)
	if !found {
		return 0, 0, false, fmt.Errorf("%w: %s", ErrUnknownColumnID, id)
	}

	for _, row := range rows {
		v := col.Accessor(row)
		if IsEmpty(v) {
			continue
		}
		n, isNum := ToNumber(v)
		if !isNum {
			if t, isTime := ToTime(v); isTime {
				n = float64(t.Unix())
			} else {
				return 0, 0, false, fmt.Errorf("column %s: %w: %q", id, ErrNotNumeric, Stringify(v))
			}
		}
		if !ok {
			lo, hi, ok = n, n, true
			continue
		}
		if n < lo {
			lo = n
		}
		if n > hi {
			hi = n
		}
	}
	return lo, hi, ok, nil
}

// Facet is a column's facet summary for filter UIs.
type Facet struct {
	Column string   `json:"column"`
	Values []string `json:"values,omitempty"`
	Min    *float64 `json:"min,omitempty"`
	Max    *float64 `json:"max,omitempty"`
}

// ColumnFacet computes the facet matching the column's filter variant:
// distinct values for select and text columns, bounds for range columns.
func ColumnFacet[R any](rows []R, id string, schema *Schema[R]) (Facet, error) {
	meta, ok := schema.Meta(id)
	if !ok {
		return Facet{}, fmt.Errorf("%w: %s", ErrUnknownColumnID, id)
	}

	facet := Facet{Column: id}
	switch meta.Variant {
	case VariantRange:
		lo, hi, found, err := FacetedMinMax(rows, id, schema)
		if err != nil {
			return Facet{}, err
		}
		if found {
			facet.Min, facet.Max = Float(lo), Float(hi)
		}
	default:
		values, err := FacetedUniqueValues(rows, id, schema)
		if err != nil {
			return Facet{}, err
		}
		facet.Values = make([]string, len(values))
		for i, v := range values {
			facet.Values[i] = Stringify(v)
		}
	}
	return facet, nil
}
