package core

// layout.go holds column order, pinning, visibility, width and sort state.
//
// Every transition is a value-receiver method that returns a new
// LayoutState and leaves the receiver untouched. Transitions on ids that
// are not part of Order are no-ops, so stale ids from a client are harmless.

import "math"

// MinColumnWidth is the floor applied by Resize.
const MinColumnWidth = 24

// LayoutState is the render-side arrangement of a table's columns.
type LayoutState struct {
	Order  []string           `json:"order"`
	Pins   map[string]PinSide `json:"pins,omitempty"`
	Hidden map[string]bool    `json:"hidden,omitempty"`
	Sort   *SortState         `json:"sort,omitempty"`
	Widths map[string]float64 `json:"widths,omitempty"`
}

// NewLayout returns a layout showing ids in the given order.
func NewLayout(ids []string) LayoutState {
	order := make([]string, len(ids))
	copy(order, ids)
	return LayoutState{
		Order:  order,
		Pins:   map[string]PinSide{},
		Hidden: map[string]bool{},
		Widths: map[string]float64{},
	}
}

func (l LayoutState) clone() LayoutState {
	out := LayoutState{
		Order:  make([]string, len(l.Order)),
		Pins:   make(map[string]PinSide, len(l.Pins)),
		Hidden: make(map[string]bool, len(l.Hidden)),
		Widths: make(map[string]float64, len(l.Widths)),
	}
	copy(out.Order, l.Order)
	for k, v := range l.Pins {
		out.Pins[k] = v
	}
	for k, v := range l.Hidden {
		out.Hidden[k] = v
	}
	for k, v := range l.Widths {
		out.Widths[k] = v
	}
	if l.Sort != nil {
		s := *l.Sort
		out.Sort = &s
	}
	return out
}

func (l LayoutState) indexOf(id string) int {
	for i, o := range l.Order {
		if o == id {
			return i
		}
	}
	return -1
}

// Has reports whether id is part of the layout.
func (l LayoutState) Has(id string) bool { return l.indexOf(id) >= 0 }

// Reorder moves id to toIndex within Order. toIndex is clamped to the
// valid range.
func (l LayoutState) Reorder(id string, toIndex int) LayoutState {
	from := l.indexOf(id)
	if from < 0 {
		return l
	}
	if toIndex < 0 {
		toIndex = 0
	}
	if toIndex >= len(l.Order) {
		toIndex = len(l.Order) - 1
	}
	if from == toIndex {
		return l
	}

	out := l.clone()
	rest := make([]string, 0, len(out.Order)-1)
	rest = append(rest, out.Order[:from]...)
	rest = append(rest, out.Order[from+1:]...)

	order := make([]string, 0, len(out.Order))
	order = append(order, rest[:toIndex]...)
	order = append(order, id)
	order = append(order, rest[toIndex:]...)
	out.Order = order
	return out
}

// Pin fixes id to side. PinNone unpins. Order is not changed.
func (l LayoutState) Pin(id string, side PinSide) LayoutState {
	if !l.Has(id) {
		return l
	}
	out := l.clone()
	switch side {
	case PinLeft, PinRight:
		out.Pins[id] = side
	default:
		delete(out.Pins, id)
	}
	return out
}

// Unpin releases id from either edge.
func (l LayoutState) Unpin(id string) LayoutState {
	return l.Pin(id, PinNone)
}

// PinOf returns the side id is pinned to.
func (l LayoutState) PinOf(id string) PinSide {
	return l.Pins[id]
}

// Resize sets the width of id, clamped to MinColumnWidth.
func (l LayoutState) Resize(id string, width float64) LayoutState {
	if !l.Has(id) {
		return l
	}
	if width < MinColumnWidth || math.IsNaN(width) {
		width = MinColumnWidth
	}
	out := l.clone()
	out.Widths[id] = width
	return out
}

// ResetSize drops the width override of id so its default width applies.
func (l LayoutState) ResetSize(id string) LayoutState {
	if !l.Has(id) {
		return l
	}
	out := l.clone()
	delete(out.Widths, id)
	return out
}

// WidthOf returns the effective width of id.
func (l LayoutState) WidthOf(lookup ColumnLookup, id string) float64 {
	if w, ok := l.Widths[id]; ok {
		return w
	}
	if meta, ok := lookup.Meta(id); ok && meta.DefaultWidth > 0 {
		return meta.DefaultWidth
	}
	return DefaultColumnWidth
}

// ToggleVisibility hides a visible column or shows a hidden one.
func (l LayoutState) ToggleVisibility(id string) LayoutState {
	if !l.Has(id) {
		return l
	}
	out := l.clone()
	if out.Hidden[id] {
		delete(out.Hidden, id)
	} else {
		out.Hidden[id] = true
	}
	return out
}

// SetVisibility shows or hides id.
func (l LayoutState) SetVisibility(id string, visible bool) LayoutState {
	if !l.Has(id) || l.Hidden[id] == !visible {
		return l
	}
	return l.ToggleVisibility(id)
}

// IsVisible reports whether id is shown.
func (l LayoutState) IsVisible(id string) bool {
	return l.Has(id) && !l.Hidden[id]
}

// ToggleSorting sets or cycles the single active sort.
// With dir nil the cycle is none -> asc -> desc -> none; sorting another
// column replaces the current sort. Columns that are not sortable are
// left alone.
func (l LayoutState) ToggleSorting(lookup ColumnLookup, id string, dir *SortDirection) LayoutState {
	if !l.Has(id) {
		return l
	}
	if meta, ok := lookup.Meta(id); !ok || !meta.Sortable {
		return l
	}

	out := l.clone()
	if dir != nil {
		out.Sort = &SortState{Column: id, Direction: *dir}
		return out
	}

	switch {
	case out.Sort == nil || out.Sort.Column != id:
		out.Sort = &SortState{Column: id, Direction: SortAsc}
	case out.Sort.Direction == SortAsc:
		out.Sort = &SortState{Column: id, Direction: SortDesc}
	default:
		out.Sort = nil
	}
	return out
}

// ClearSort removes the active sort.
func (l LayoutState) ClearSort() LayoutState {
	if l.Sort == nil {
		return l
	}
	out := l.clone()
	out.Sort = nil
	return out
}

// SortDirectionOf returns the direction id is sorted in, or "".
func (l LayoutState) SortDirectionOf(id string) SortDirection {
	if l.Sort != nil && l.Sort.Column == id {
		return l.Sort.Direction
	}
	return ""
}

// RenderedColumn is one entry of the physical column sequence.
// Offset is the distance from the pinned edge: for left-pinned columns the
// summed widths of left-pinned columns before it, for right-pinned columns
// the summed widths of right-pinned columns between it and the right edge.
// Unpinned columns have offset 0.
type RenderedColumn struct {
	ID     string        `json:"id"`
	Label  string        `json:"label"`
	Pin    PinSide       `json:"pin,omitempty"`
	Width  float64       `json:"width"`
	Offset float64       `json:"offset"`
	Sort   SortDirection `json:"sort,omitempty"`
}

// RenderSequence returns visible columns as left-pinned, then unpinned,
// then right-pinned, each group in Order.
func (l LayoutState) RenderSequence(lookup ColumnLookup) []RenderedColumn {
	var left, center, right []RenderedColumn

	for _, id := range l.Order {
		if l.Hidden[id] {
			continue
		}
		meta, ok := lookup.Meta(id)
		if !ok {
			continue
		}
		rc := RenderedColumn{
			ID:    id,
			Label: meta.DisplayLabel(),
			Pin:   l.Pins[id],
			Width: l.WidthOf(lookup, id),
			Sort:  l.SortDirectionOf(id),
		}
		switch rc.Pin {
		case PinLeft:
			left = append(left, rc)
		case PinRight:
			right = append(right, rc)
		default:
			center = append(center, rc)
		}
	}

	var offset float64
	for i := range left {
		left[i].Offset = offset
		offset += left[i].Width
	}
	offset = 0
	for i := len(right) - 1; i >= 0; i-- {
		right[i].Offset = offset
		offset += right[i].Width
	}

	seq := make([]RenderedColumn, 0, len(left)+len(center)+len(right))
	seq = append(seq, left...)
	seq = append(seq, center...)
	seq = append(seq, right...)
	return seq
}
