package core

// selection.go tracks selected row identities and derives the
// none/some/all summary over the currently visible rows.

// SelectionStatus is the derived state of the selection over visible rows.
type SelectionStatus string

const (
	SelectedNone SelectionStatus = "none"
	SelectedSome SelectionStatus = "some"
	SelectedAll  SelectionStatus = "all"
)

// SelectionState is the set of selected row identities.
// Methods return new sets and never modify the receiver.
type SelectionState map[RowID]struct{}

// NewSelection returns a selection holding ids.
func NewSelection(ids ...RowID) SelectionState {
	s := make(SelectionState, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s SelectionState) clone() SelectionState {
	out := make(SelectionState, len(s))
	for id := range s {
		out[id] = struct{}{}
	}
	return out
}

// Has reports whether id is selected.
func (s SelectionState) Has(id RowID) bool {
	_, ok := s[id]
	return ok
}

// Toggle flips the selection of id.
func (s SelectionState) Toggle(id RowID) SelectionState {
	out := s.clone()
	if out.Has(id) {
		delete(out, id)
	} else {
		out[id] = struct{}{}
	}
	return out
}

// Set selects or deselects id.
func (s SelectionState) Set(id RowID, selected bool) SelectionState {
	if s.Has(id) == selected {
		return s
	}
	return s.Toggle(id)
}

// Remove drops ids from the selection.
func (s SelectionState) Remove(ids ...RowID) SelectionState {
	out := s.clone()
	for _, id := range ids {
		delete(out, id)
	}
	return out
}

// Prune keeps only ids present in keep.
func (s SelectionState) Prune(keep []RowID) SelectionState {
	allowed := make(map[RowID]struct{}, len(keep))
	for _, id := range keep {
		allowed[id] = struct{}{}
	}
	out := make(SelectionState, len(s))
	for id := range s {
		if _, ok := allowed[id]; ok {
			out[id] = struct{}{}
		}
	}
	return out
}

// Status derives none/some/all from the intersection with visible.
// An empty visible set is always SelectedNone.
func (s SelectionState) Status(visible []RowID) SelectionStatus {
	n := s.CountIn(visible)
	switch {
	case n == 0:
		return SelectedNone
	case n == len(visible):
		return SelectedAll
	default:
		return SelectedSome
	}
}

// CountIn returns how many of visible are selected.
func (s SelectionState) CountIn(visible []RowID) int {
	n := 0
	for _, id := range visible {
		if s.Has(id) {
			n++
		}
	}
	return n
}

// SelectAllVisible selects exactly the visible rows.
func SelectAllVisible(visible []RowID) SelectionState {
	return NewSelection(visible...)
}

// ToggleAllVisible selects every visible row unless all are already
// selected, in which case it clears the selection.
func (s SelectionState) ToggleAllVisible(visible []RowID) SelectionState {
	if s.Status(visible) == SelectedAll {
		return SelectionState{}
	}
	return SelectAllVisible(visible)
}

// SelectedVisible returns the visible rows that are selected, in visible order.
func SelectedVisible[R any](visible []R, s SelectionState, key KeyFunc[R]) []R {
	var out []R
	for _, row := range visible {
		if s.Has(key(row)) {
			out = append(out, row)
		}
	}
	return out
}

// RowIDs maps rows to their identities.
func RowIDs[R any](rows []R, key KeyFunc[R]) []RowID {
	ids := make([]RowID, len(rows))
	for i, row := range rows {
		ids[i] = key(row)
	}
	return ids
}
