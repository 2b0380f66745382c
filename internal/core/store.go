package core

// store.go is the single owner of a table's mutable state.
//
// State changes only through Dispatch. Each dispatch reduces the action
// into a fresh State, reconciles the selection against the rows that are
// still visible, and then notifies subscribers with the new snapshot.
// Derived values (visible rows, render sequence, selection summary) are
// computed by selector methods from a State and are never cached on it.

import (
	"fmt"
	"sync"
)

// DefaultPageSize is the initial page size of a new store.
const DefaultPageSize = 10

// State is an immutable snapshot of one table.
type State[R any] struct {
	Rows          []R
	FetchErr      error // Set by FetchFailed, cleared by ReplaceRows
	FilterErr     error // First value that could not be compared by a filter
	Filters       FilterState
	GlobalFilter  string
	Layout        LayoutState
	Selection     SelectionState
	SelectingMode bool
	PageIndex     int
	PageSize      int
	Version       uint64
}

// Action is a state transition request passed to Dispatch.
type Action interface {
	actionName() string
}

// Listener observes every committed state.
type Listener[R any] func(State[R])

// Store owns a table's state. It is safe for concurrent use; dispatches
// are serialized.
type Store[R any] struct {
	schema *Schema[R]
	key    KeyFunc[R]

	mu        sync.Mutex
	state     State[R]
	listeners map[int]Listener[R]
	nextID    int
}

// NewStore creates a store over schema with an empty row set.
func NewStore[R any](schema *Schema[R], key KeyFunc[R]) *Store[R] {
	return &Store[R]{
		schema: schema,
		key:    key,
		state: State[R]{
			Filters:   FilterState{},
			Layout:    NewLayout(schema.IDs()),
			Selection: SelectionState{},
			PageSize:  DefaultPageSize,
		},
		listeners: make(map[int]Listener[R]),
	}
}

// Schema returns the store's column schema.
func (s *Store[R]) Schema() *Schema[R] { return s.schema }

// Key returns the store's row identity function.
func (s *Store[R]) Key() KeyFunc[R] { return s.key }

// GetState returns the latest snapshot.
func (s *Store[R]) GetState() State[R] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers l for future commits and returns a function that
// removes it.
func (s *Store[R]) Subscribe(l Listener[R]) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners[id] = l

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// Dispatch applies a to the state. Actions that reference unknown columns
// are no-ops. Invalid filters are rejected with an error and leave the
// state unchanged.
func (s *Store[R]) Dispatch(a Action) error {
	s.mu.Lock()
	next, err := s.reduce(s.state, a)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	next = s.reconcile(next)
	next.Version = s.state.Version + 1
	s.state = next

	listeners := make([]Listener[R], 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(next)
	}
	return nil
}

// reconcile recomputes what depends on the visible rows: the selection
// never references a row that is missing or filtered out, and the page
// index stays within range.
func (s *Store[R]) reconcile(st State[R]) State[R] {
	visible, ferr := VisibleRows(st.Rows, st.Filters, st.GlobalFilter, s.schema)
	st.FilterErr = ferr
	st.Selection = st.Selection.Prune(RowIDs(visible, s.key))

	pages := pageCount(len(visible), st.PageSize)
	if st.PageIndex >= pages {
		st.PageIndex = pages - 1
	}
	if st.PageIndex < 0 {
		st.PageIndex = 0
	}
	return st
}

func (s *Store[R]) reduce(st State[R], a Action) (State[R], error) {
	switch act := a.(type) {
	case ReplaceRows[R]:
		rows := make([]R, len(act.Rows))
		copy(rows, act.Rows)
		st.Rows = rows
		st.FetchErr = nil

	case FetchFailed:
		st.Rows = nil
		st.FetchErr = &FetchError{Err: act.Err}

	case SetColumnFilter:
		meta, ok := s.schema.Meta(act.Column)
		if !ok {
			return st, nil
		}
		filters := st.Filters.Clone()
		if !IsActive(act.Value) {
			delete(filters, act.Column)
		} else {
			if err := CheckFilter(meta, act.Value); err != nil {
				return st, err
			}
			filters[act.Column] = act.Value
		}
		st.Filters = filters
		st.PageIndex = 0

	case RemoveFilter:
		if _, ok := st.Filters[act.Column]; !ok {
			return st, nil
		}
		filters := st.Filters.Clone()
		delete(filters, act.Column)
		st.Filters = filters
		st.PageIndex = 0

	case SetGlobalFilter:
		st.GlobalFilter = act.Query
		st.PageIndex = 0

	case ClearFilters:
		st.Filters = FilterState{}
		st.GlobalFilter = ""
		st.PageIndex = 0

	case Reorder:
		st.Layout = st.Layout.Reorder(act.Column, act.ToIndex)
	case Pin:
		st.Layout = st.Layout.Pin(act.Column, act.Side)
	case Unpin:
		st.Layout = st.Layout.Unpin(act.Column)
	case Resize:
		st.Layout = st.Layout.Resize(act.Column, act.Width)
	case ResetSize:
		st.Layout = st.Layout.ResetSize(act.Column)
	case ToggleVisibility:
		st.Layout = st.Layout.ToggleVisibility(act.Column)
	case ToggleSorting:
		st.Layout = st.Layout.ToggleSorting(s.schema, act.Column, act.Direction)
	case ClearSort:
		st.Layout = st.Layout.ClearSort()

	case ToggleRowSelected:
		if !st.SelectingMode {
			return st, nil
		}
		st.Selection = st.Selection.Toggle(act.ID)
	case ToggleAllVisibleSelected:
		if !st.SelectingMode {
			return st, nil
		}
		st.Selection = st.Selection.ToggleAllVisible(RowIDs(s.VisibleRows(st), s.key))
	case SelectAllVisibleRows:
		if !st.SelectingMode {
			return st, nil
		}
		st.Selection = SelectAllVisible(RowIDs(s.VisibleRows(st), s.key))
	case ClearSelection:
		st.Selection = SelectionState{}
	case SetSelectingMode:
		if st.SelectingMode != act.Enabled {
			st.SelectingMode = act.Enabled
			st.Selection = SelectionState{}
		}
	case ToggleSelectingMode:
		st.SelectingMode = !st.SelectingMode
		st.Selection = SelectionState{}
	case RowsDeleted:
		st.Selection = st.Selection.Remove(act.IDs...)

	case SetPage:
		st.PageIndex = max(act.Index, 0)
	case SetPageSize:
		if act.Size <= 0 {
			return st, nil
		}
		st.PageSize = act.Size
		st.PageIndex = 0

	default:
		return st, fmt.Errorf("unsupported action %T", a)
	}
	return st, nil
}

// ----------------------------------------------------------------------------
// Actions
// ----------------------------------------------------------------------------

// ReplaceRows swaps in the full row set from the data source.
type ReplaceRows[R any] struct{ Rows []R }

// FetchFailed records a data source failure. The visible set becomes empty.
type FetchFailed struct{ Err error }

// SetColumnFilter sets or, for inert values, removes a column filter.
type SetColumnFilter struct {
	Column string
	Value  FilterValue
}

// RemoveFilter removes one column filter.
type RemoveFilter struct{ Column string }

// SetGlobalFilter sets the free-text filter.
type SetGlobalFilter struct{ Query string }

// ClearFilters removes all column filters and the global filter.
type ClearFilters struct{}

type Reorder struct {
	Column  string
	ToIndex int
}

type Pin struct {
	Column string
	Side   PinSide
}

type Unpin struct{ Column string }

type Resize struct {
	Column string
	Width  float64
}

type ResetSize struct{ Column string }

type ToggleVisibility struct{ Column string }

// ToggleSorting cycles the sort of Column, or sets Direction when given.
type ToggleSorting struct {
	Column    string
	Direction *SortDirection
}

type ClearSort struct{}

type ToggleRowSelected struct{ ID RowID }

// ToggleAllVisibleSelected selects all visible rows, or clears the
// selection when all visible rows are already selected.
type ToggleAllVisibleSelected struct{}

type SelectAllVisibleRows struct{}

type ClearSelection struct{}

// SetSelectingMode enters or leaves selecting mode. Any change clears the
// selection.
type SetSelectingMode struct{ Enabled bool }

type ToggleSelectingMode struct{}

// RowsDeleted drops deleted row identities from the selection.
type RowsDeleted struct{ IDs []RowID }

type SetPage struct{ Index int }

type SetPageSize struct{ Size int }

func (ReplaceRows[R]) actionName() string           { return "replace_rows" }
func (FetchFailed) actionName() string              { return "fetch_failed" }
func (SetColumnFilter) actionName() string          { return "set_column_filter" }
func (RemoveFilter) actionName() string             { return "remove_filter" }
func (SetGlobalFilter) actionName() string          { return "set_global_filter" }
func (ClearFilters) actionName() string             { return "clear_filters" }
func (Reorder) actionName() string                  { return "reorder" }
func (Pin) actionName() string                      { return "pin" }
func (Unpin) actionName() string                    { return "unpin" }
func (Resize) actionName() string                   { return "resize" }
func (ResetSize) actionName() string                { return "reset_size" }
func (ToggleVisibility) actionName() string         { return "toggle_visibility" }
func (ToggleSorting) actionName() string            { return "toggle_sorting" }
func (ClearSort) actionName() string                { return "clear_sort" }
func (ToggleRowSelected) actionName() string        { return "toggle_row_selected" }
func (ToggleAllVisibleSelected) actionName() string { return "toggle_all_visible_selected" }
func (SelectAllVisibleRows) actionName() string     { return "select_all_visible" }
func (ClearSelection) actionName() string           { return "clear_selection" }
func (SetSelectingMode) actionName() string         { return "set_selecting_mode" }
func (ToggleSelectingMode) actionName() string      { return "toggle_selecting_mode" }
func (RowsDeleted) actionName() string              { return "rows_deleted" }
func (SetPage) actionName() string                  { return "set_page" }
func (SetPageSize) actionName() string              { return "set_page_size" }

// ActionName returns the wire name of an action.
func ActionName(a Action) string { return a.actionName() }

// ----------------------------------------------------------------------------
// Selectors
// ----------------------------------------------------------------------------

// VisibleRows returns the rows passing all filters, in source order.
// Empty while a fetch failure is recorded.
func (s *Store[R]) VisibleRows(st State[R]) []R {
	if st.FetchErr != nil {
		return nil
	}
	rows, _ := VisibleRows(st.Rows, st.Filters, st.GlobalFilter, s.schema)
	return rows
}

// SortedRows returns the visible rows in the active sort order.
func (s *Store[R]) SortedRows(st State[R]) []R {
	return SortRows(s.VisibleRows(st), st.Layout.Sort, s.schema)
}

// PageRows returns the current page of sorted visible rows.
func (s *Store[R]) PageRows(st State[R]) []R {
	rows := s.SortedRows(st)
	size := st.PageSize
	if size <= 0 {
		return rows
	}
	start := st.PageIndex * size
	if start >= len(rows) {
		return nil
	}
	end := start + size
	if end > len(rows) {
		end = len(rows)
	}
	return rows[start:end]
}

// PageCount returns the number of pages of visible rows (at least 1).
func (s *Store[R]) PageCount(st State[R]) int {
	return pageCount(len(s.VisibleRows(st)), st.PageSize)
}

func pageCount(n, size int) int {
	if size <= 0 || n == 0 {
		return 1
	}
	return (n + size - 1) / size
}

// SelectionSummary describes the selection over the visible rows.
type SelectionSummary struct {
	Status   SelectionStatus `json:"status"`
	Selected int             `json:"selected"`
	Visible  int             `json:"visible"`
	Total    int             `json:"total"`
}

// Summary derives the none/some/all selection state.
func (s *Store[R]) Summary(st State[R]) SelectionSummary {
	visible := RowIDs(s.VisibleRows(st), s.key)
	return SelectionSummary{
		Status:   st.Selection.Status(visible),
		Selected: st.Selection.CountIn(visible),
		Visible:  len(visible),
		Total:    len(st.Rows),
	}
}

// SelectedVisibleRows returns the rows bulk actions operate on, in sort order.
func (s *Store[R]) SelectedVisibleRows(st State[R]) []R {
	return SelectedVisible(s.SortedRows(st), st.Selection, s.key)
}

// Render returns the physical column sequence with pin offsets.
func (s *Store[R]) Render(st State[R]) []RenderedColumn {
	return st.Layout.RenderSequence(s.schema)
}

// Chips describes the active filters.
func (s *Store[R]) Chips(st State[R]) []FilterChip {
	return FilterChips(st.Filters, st.GlobalFilter, s.schema)
}

// Row returns the row with id from the full row set.
func (s *Store[R]) Row(st State[R], id RowID) (R, bool) {
	for _, row := range st.Rows {
		if s.key(row) == id {
			return row, true
		}
	}
	var zero R
	return zero, false
}
