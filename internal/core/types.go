package core

import (
	"time"
)

// Value is a single cell value extracted from a row by a column accessor.
// Expected dynamic types: string, any Go integer or float kind, time.Time,
// bool, or nil.
type Value = any

// Record is the dynamic row type used by sources, the web layer and the CLI.
type Record map[string]any

// Accessor extracts a cell value from a row.
type Accessor[R any] func(R) Value

// FilterVariant selects how a column is filtered.
type FilterVariant string

const (
	VariantNone   FilterVariant = "none"
	VariantText   FilterVariant = "text"
	VariantSelect FilterVariant = "select"
	VariantRange  FilterVariant = "range"
	VariantDate   FilterVariant = "date"
)

// ParseFilterVariant converts a string into a FilterVariant.
// Unknown values map to VariantNone.
func ParseFilterVariant(s string) FilterVariant {
	switch FilterVariant(s) {
	case VariantText, VariantSelect, VariantRange, VariantDate:
		return FilterVariant(s)
	default:
		return VariantNone
	}
}

// DefaultColumnWidth is used when a descriptor declares no width.
const DefaultColumnWidth = 150

// ColumnMeta is the row-type independent part of a column descriptor.
type ColumnMeta struct {
	ID           string        // Stable key for all state maps
	Label        string        // Display label, used for export headers
	Variant      FilterVariant // Filter UI / predicate kind
	Sortable     bool
	DefaultWidth float64
	Options      []string // Choices for select filters (optional)
	NoSearch     bool     // Excludes the column from the global filter
}

// DisplayLabel returns Label, falling back to ID.
func (m ColumnMeta) DisplayLabel() string {
	if m.Label != "" {
		return m.Label
	}
	return m.ID
}

// ColumnDescriptor declares one column of a table.
type ColumnDescriptor[R any] struct {
	ColumnMeta
	Accessor Accessor[R]
}

// Field returns an accessor reading key from a Record.
func Field(key string) Accessor[Record] {
	return func(r Record) Value {
		return r[key]
	}
}

// ColumnLookup resolves column metadata by id.
// Satisfied by *Schema.
type ColumnLookup interface {
	Meta(id string) (ColumnMeta, bool)
}

// RowID is the stable identity of a row.
type RowID string

// KeyFunc derives a RowID from a row.
type KeyFunc[R any] func(R) RowID

// PinSide is the edge a column is pinned to.
type PinSide string

const (
	PinNone  PinSide = ""
	PinLeft  PinSide = "left"
	PinRight PinSide = "right"
)

// SortDirection is the direction of the active sort.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// SortState is the single active sort.
type SortState struct {
	Column    string        `json:"column"`
	Direction SortDirection `json:"direction"`
}

// FilterValue is the value of one column filter. Its concrete type must
// match the column's FilterVariant.
type FilterValue interface {
	Variant() FilterVariant
}

// TextFilter matches rows whose value contains Query (case-insensitive).
type TextFilter struct {
	Query string `json:"query"`
}

// SelectFilter matches rows whose value equals Value.
// An empty Value or "*" means all and leaves the filter inert.
type SelectFilter struct {
	Value string `json:"value"`
}

// RangeFilter matches numeric values within [Min, Max]. Nil bounds are open.
type RangeFilter struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

// DateFilter matches dates within [From, To] at calendar-day granularity.
// A nil To means From is both bounds.
type DateFilter struct {
	From time.Time  `json:"from"`
	To   *time.Time `json:"to,omitempty"`
}

func (TextFilter) Variant() FilterVariant   { return VariantText }
func (SelectFilter) Variant() FilterVariant { return VariantSelect }
func (RangeFilter) Variant() FilterVariant  { return VariantRange }
func (DateFilter) Variant() FilterVariant   { return VariantDate }

// FilterState maps column id to its active filter.
// A missing entry means no filter is applied to that column.
type FilterState map[string]FilterValue

// Clone returns a shallow copy.
func (f FilterState) Clone() FilterState {
	out := make(FilterState, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// Float returns a pointer to v, for building range filters.
func Float(v float64) *float64 { return &v }
