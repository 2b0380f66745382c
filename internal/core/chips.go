package core

// ChipKind identifies how an active filter is described to the user.
type ChipKind string

const (
	ChipInRangeOf        ChipKind = "IN_RANGE_OF"
	ChipEqualsOrContains ChipKind = "EQUALS_OR_CONTAINS"
	ChipIsBetween        ChipKind = "IS_BETWEEN"
	ChipGlobal           ChipKind = "FILTER_ANYTHING"
)

// ChipDateLayout is the date layout used in filter descriptions.
const ChipDateLayout = "2006/01/02"

// FilterChip is a removable description of one active filter.
// Args carries the values interpolated into the localized template;
// an empty "to" argument on a date chip means "now".
type FilterChip struct {
	Column string            `json:"column,omitempty"`
	Kind   ChipKind          `json:"kind"`
	Args   map[string]string `json:"args"`
}

// FilterChips describes every active filter, ordered by column id, with the
// global filter last.
func FilterChips(filters FilterState, global string, lookup ColumnLookup) []FilterChip {
	var chips []FilterChip

	for _, id := range filters.ids() {
		fv := filters[id]
		if !IsActive(fv) {
			continue
		}
		meta, ok := lookup.Meta(id)
		if !ok {
			continue
		}
		field := meta.DisplayLabel()

		switch f := fv.(type) {
		case RangeFilter:
			chips = append(chips, FilterChip{
				Column: id,
				Kind:   ChipInRangeOf,
				Args: map[string]string{
					"field": field,
					"range": boundText(f.Min) + " - " + boundText(f.Max),
				},
			})
		case DateFilter:
			to := ""
			if f.To != nil && !f.To.IsZero() {
				to = f.To.Format(ChipDateLayout)
			}
			chips = append(chips, FilterChip{
				Column: id,
				Kind:   ChipIsBetween,
				Args: map[string]string{
					"field": field,
					"from":  f.From.Format(ChipDateLayout),
					"to":    to,
				},
			})
		case TextFilter:
			chips = append(chips, equalsChip(id, field, f.Query))
		case SelectFilter:
			chips = append(chips, equalsChip(id, field, f.Value))
		}
	}

	if global != "" {
		chips = append(chips, FilterChip{Kind: ChipGlobal, Args: map[string]string{"value": global}})
	}
	return chips
}

func equalsChip(id, field, value string) FilterChip {
	return FilterChip{
		Column: id,
		Kind:   ChipEqualsOrContains,
		Args:   map[string]string{"field": field, "value": value},
	}
}

func boundText(b *float64) string {
	if b == nil {
		return "∞"
	}
	return Stringify(*b)
}
