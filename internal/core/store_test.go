package core

import (
	"context"
	"errors"
	"testing"
)

func mustDispatch(t *testing.T, s *Store[Record], actions ...Action) {
	t.Helper()
	for _, a := range actions {
		if err := s.Dispatch(a); err != nil {
			t.Fatalf("Dispatch(%s) error = %v", ActionName(a), err)
		}
	}
}

// ----------------------------------------------------------------------------
// Selection Reconciliation Tests
// ----------------------------------------------------------------------------

func TestStore_SelectionPrunedWhenFilterNarrows(t *testing.T) {
	s := newTestStore()
	mustDispatch(t, s,
		ReplaceRows[Record]{Rows: agedRows(5, 10, 15, 20, 25)},
		SetSelectingMode{Enabled: true},
		SelectAllVisibleRows{},
	)
	if got := s.Summary(s.GetState()); got.Status != SelectedAll || got.Selected != 5 {
		t.Fatalf("Summary() = %+v, want all of 5", got)
	}

	mustDispatch(t, s, SetColumnFilter{Column: "age", Value: RangeFilter{Min: Float(10), Max: Float(20)}})

	st := s.GetState()
	if len(st.Selection) != 3 {
		t.Errorf("len(Selection) = %d, want 3", len(st.Selection))
	}
	for _, id := range []RowID{"p5", "p25"} {
		if st.Selection.Has(id) {
			t.Errorf("Selection still has filtered-out row %s", id)
		}
	}
	if got := s.Summary(st); got.Status != SelectedAll || got.Visible != 3 || got.Total != 5 {
		t.Errorf("Summary() = %+v, want all of 3 visible, 5 total", got)
	}
}

func TestStore_SelectionSummaryTransitions(t *testing.T) {
	s := newTestStore()
	mustDispatch(t, s,
		ReplaceRows[Record]{Rows: agedRows(1, 2, 3)},
		SetSelectingMode{Enabled: true},
	)

	if got := s.Summary(s.GetState()).Status; got != SelectedNone {
		t.Errorf("initial status = %s, want none", got)
	}
	mustDispatch(t, s, ToggleRowSelected{ID: "p2"})
	if got := s.Summary(s.GetState()).Status; got != SelectedSome {
		t.Errorf("after one toggle status = %s, want some", got)
	}
	mustDispatch(t, s, ToggleAllVisibleSelected{})
	if got := s.Summary(s.GetState()).Status; got != SelectedAll {
		t.Errorf("after toggle all status = %s, want all", got)
	}
	mustDispatch(t, s, ToggleAllVisibleSelected{})
	if got := s.Summary(s.GetState()).Status; got != SelectedNone {
		t.Errorf("after second toggle all status = %s, want none", got)
	}
}

func TestStore_SelectionRequiresSelectingMode(t *testing.T) {
	s := newTestStore()
	mustDispatch(t, s,
		ReplaceRows[Record]{Rows: agedRows(1, 2)},
		ToggleRowSelected{ID: "p1"},
		SelectAllVisibleRows{},
	)
	if n := len(s.GetState().Selection); n != 0 {
		t.Errorf("len(Selection) = %d outside selecting mode, want 0", n)
	}

	mustDispatch(t, s, SetSelectingMode{Enabled: true}, ToggleRowSelected{ID: "p1"}, SetSelectingMode{Enabled: false})
	if n := len(s.GetState().Selection); n != 0 {
		t.Errorf("len(Selection) = %d after leaving selecting mode, want 0", n)
	}
}

func TestStore_BulkDelete(t *testing.T) {
	s := newTestStore()
	mustDispatch(t, s,
		ReplaceRows[Record]{Rows: agedRows(1, 2, 3, 4, 5)},
		SetSelectingMode{Enabled: true},
		ToggleRowSelected{ID: "p2"},
		ToggleRowSelected{ID: "p4"},
	)
	if got := s.Summary(s.GetState()).Status; got != SelectedSome {
		t.Fatalf("status before delete = %s, want some", got)
	}

	var received []Record
	deleted, err := s.BulkDelete(context.Background(), func(_ context.Context, rows []Record) error {
		received = rows
		return nil
	})
	if err != nil {
		t.Fatalf("BulkDelete() error = %v", err)
	}
	if len(deleted) != 2 || len(received) != 2 {
		t.Fatalf("BulkDelete() deleted %d, callback got %d, want 2 and 2", len(deleted), len(received))
	}
	if got := s.Summary(s.GetState()).Status; got != SelectedNone {
		t.Errorf("status after delete = %s, want none", got)
	}
}

func TestStore_BulkDeleteCallbackFailureKeepsSelection(t *testing.T) {
	s := newTestStore()
	mustDispatch(t, s,
		ReplaceRows[Record]{Rows: agedRows(1, 2)},
		SetSelectingMode{Enabled: true},
		ToggleRowSelected{ID: "p1"},
	)
	boom := errors.New("boom")
	_, err := s.BulkDelete(context.Background(), func(context.Context, []Record) error { return boom })
	if !errors.Is(err, boom) {
		t.Fatalf("BulkDelete() error = %v, want boom", err)
	}
	if !s.GetState().Selection.Has("p1") {
		t.Error("selection cleared after failed delete")
	}
}

func TestStore_BulkDeleteErrors(t *testing.T) {
	s := newTestStore()
	mustDispatch(t, s, ReplaceRows[Record]{Rows: agedRows(1)})
	noop := func(context.Context, []Record) error { return nil }

	if _, err := s.BulkDelete(context.Background(), noop); !errors.Is(err, ErrNotSelecting) {
		t.Errorf("BulkDelete() outside selecting mode error = %v, want ErrNotSelecting", err)
	}
	mustDispatch(t, s, SetSelectingMode{Enabled: true})
	if _, err := s.BulkDelete(context.Background(), noop); !errors.Is(err, ErrNothingSelected) {
		t.Errorf("BulkDelete() with empty selection error = %v, want ErrNothingSelected", err)
	}
}

// ----------------------------------------------------------------------------
// Filter and Fetch Tests
// ----------------------------------------------------------------------------

func TestStore_InvalidFilterRejected(t *testing.T) {
	s := newTestStore()
	before := s.GetState().Version

	err := s.Dispatch(SetColumnFilter{Column: "age", Value: TextFilter{Query: "x"}})
	if !errors.Is(err, ErrInvalidFilter) {
		t.Fatalf("Dispatch() error = %v, want ErrInvalidFilter", err)
	}
	if s.GetState().Version != before {
		t.Error("state changed after rejected filter")
	}
}

func TestStore_UnknownColumnIsNoOp(t *testing.T) {
	s := newTestStore()
	mustDispatch(t, s,
		SetColumnFilter{Column: "nope", Value: TextFilter{Query: "x"}},
		Reorder{Column: "nope", ToIndex: 0},
		Pin{Column: "nope", Side: PinLeft},
		Resize{Column: "nope", Width: 200},
	)
	st := s.GetState()
	if len(st.Filters) != 0 {
		t.Errorf("Filters = %v, want empty", st.Filters)
	}
	if !equalStrings(st.Layout.Order, testSchema().IDs()) {
		t.Errorf("Order = %v, want unchanged", st.Layout.Order)
	}
}

func TestStore_InertFilterRemovesEntry(t *testing.T) {
	s := newTestStore()
	mustDispatch(t, s,
		SetColumnFilter{Column: "gender", Value: SelectFilter{Value: "male"}},
		SetColumnFilter{Column: "gender", Value: SelectFilter{Value: SelectAll}},
	)
	if _, ok := s.GetState().Filters["gender"]; ok {
		t.Error("select-all filter kept in state")
	}
}

func TestStore_FetchFailed(t *testing.T) {
	s := newTestStore()
	mustDispatch(t, s,
		ReplaceRows[Record]{Rows: agedRows(1, 2)},
		SetSelectingMode{Enabled: true},
		SelectAllVisibleRows{},
		FetchFailed{Err: errors.New("connection refused")},
	)
	st := s.GetState()

	var fe *FetchError
	if !errors.As(st.FetchErr, &fe) {
		t.Fatalf("FetchErr = %v, want *FetchError", st.FetchErr)
	}
	if n := len(s.VisibleRows(st)); n != 0 {
		t.Errorf("len(VisibleRows) = %d, want 0", n)
	}
	if len(st.Selection) != 0 {
		t.Errorf("len(Selection) = %d, want 0", len(st.Selection))
	}

	mustDispatch(t, s, ReplaceRows[Record]{Rows: agedRows(3)})
	if st := s.GetState(); st.FetchErr != nil || len(s.VisibleRows(st)) != 1 {
		t.Errorf("after reload FetchErr = %v, visible = %d", st.FetchErr, len(s.VisibleRows(st)))
	}
}

// ----------------------------------------------------------------------------
// Sorting and Pagination Tests
// ----------------------------------------------------------------------------

func TestStore_SortedRowsEmptiesLast(t *testing.T) {
	s := newTestStore()
	rows := agedRows(30, 10, 20)
	rows = append(rows, Record{"id": "nil", "age": nil})
	mustDispatch(t, s, ReplaceRows[Record]{Rows: rows}, ToggleSorting{Column: "age"})

	if got := recordIDs(s.SortedRows(s.GetState())); !equalStrings(got, []string{"p10", "p20", "p30", "nil"}) {
		t.Errorf("asc = %v", got)
	}
	mustDispatch(t, s, ToggleSorting{Column: "age"})
	if got := recordIDs(s.SortedRows(s.GetState())); !equalStrings(got, []string{"p30", "p20", "p10", "nil"}) {
		t.Errorf("desc = %v", got)
	}
}

func TestStore_Pagination(t *testing.T) {
	s := newTestStore()
	mustDispatch(t, s,
		ReplaceRows[Record]{Rows: agedRows(1, 2, 3, 4, 5)},
		SetPageSize{Size: 2},
		SetPage{Index: 2},
	)
	st := s.GetState()
	if got := s.PageCount(st); got != 3 {
		t.Errorf("PageCount() = %d, want 3", got)
	}
	if got := ages(s.PageRows(st)); !equalFloats(got, []float64{5}) {
		t.Errorf("PageRows() = %v, want [5]", got)
	}

	// Narrowing the row set clamps the page index.
	mustDispatch(t, s, SetPage{Index: 2}, ReplaceRows[Record]{Rows: agedRows(1, 2)})
	if got := s.GetState().PageIndex; got != 0 {
		t.Errorf("PageIndex = %d, want 0", got)
	}
}

// ----------------------------------------------------------------------------
// Subscription Tests
// ----------------------------------------------------------------------------

func TestStore_Subscribe(t *testing.T) {
	s := newTestStore()
	var versions []uint64
	unsubscribe := s.Subscribe(func(st State[Record]) {
		versions = append(versions, st.Version)
	})

	mustDispatch(t, s, SetGlobalFilter{Query: "a"}, ClearFilters{})
	unsubscribe()
	mustDispatch(t, s, SetGlobalFilter{Query: "b"})

	if len(versions) != 2 || versions[0] != 1 || versions[1] != 2 {
		t.Errorf("versions = %v, want [1 2]", versions)
	}
}

// ----------------------------------------------------------------------------
// Export Tests
// ----------------------------------------------------------------------------

func TestStore_BulkExportUsesVisibleColumnsInLayoutOrder(t *testing.T) {
	s := newTestStore()
	mustDispatch(t, s,
		ReplaceRows[Record]{Rows: agedRows(7, 8)},
		Reorder{Column: "age", ToIndex: 0},
		ToggleVisibility{Column: "lastUpdate"},
		SetSelectingMode{Enabled: true},
		ToggleRowSelected{ID: "p8"},
	)

	m, err := s.BulkExport([]string{"status"})
	if err != nil {
		t.Fatalf("BulkExport() error = %v", err)
	}
	if want := []string{"Age", "First Name", "Gender"}; !equalStrings(m.Header, want) {
		t.Errorf("Header = %v, want %v", m.Header, want)
	}
	if m.Rows() != 1 || m.Cells[0][0] != "8" {
		t.Errorf("Cells = %v, want one row starting with 8", m.Cells)
	}

	all := s.ExportAll(nil)
	if all.Rows() != 2 || len(all.Header) != 5 {
		t.Errorf("ExportAll() = %d rows x %d columns, want 2 x 5", all.Rows(), len(all.Header))
	}
}

func TestStore_RunRowAction(t *testing.T) {
	s := newTestStore()
	mustDispatch(t, s, ReplaceRows[Record]{Rows: agedRows(1, 2)})

	var clicked Record
	var total int
	err := s.RunRowAction(context.Background(), "p2", func(_ context.Context, row Record, all []Record) error {
		clicked, total = row, len(all)
		return nil
	})
	if err != nil {
		t.Fatalf("RunRowAction() error = %v", err)
	}
	if clicked["id"] != "p2" || total != 2 {
		t.Errorf("action got row %v and %d rows", clicked["id"], total)
	}

	err = s.RunRowAction(context.Background(), "missing", func(context.Context, Record, []Record) error { return nil })
	if !errors.Is(err, ErrRowNotFound) {
		t.Errorf("RunRowAction(missing) error = %v, want ErrRowNotFound", err)
	}
}
