package core

// coordinator.go runs bulk actions over the visible-and-selected rows.
//
// The coordinator never deletes rows itself. Deletion goes through the
// caller's callback; on success the deleted identities are dropped from
// the selection, and the data source is expected to push a fresh row set.

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotSelecting is returned for bulk actions outside selecting mode.
var ErrNotSelecting = errors.New("selecting mode is off")

// ErrNothingSelected is returned when a bulk action has no target rows.
var ErrNothingSelected = errors.New("no rows selected")

// DeleteFunc removes rows from the external data source.
type DeleteFunc[R any] func(ctx context.Context, rows []R) error

// BulkDelete hands the visible selected rows to onDelete and, if it
// succeeds, drops their identities from the selection.
// Returns the rows that were deleted.
func (s *Store[R]) BulkDelete(ctx context.Context, onDelete DeleteFunc[R]) ([]R, error) {
	st := s.GetState()
	if !st.SelectingMode {
		return nil, ErrNotSelecting
	}
	rows := s.SelectedVisibleRows(st)
	if len(rows) == 0 {
		return nil, ErrNothingSelected
	}
	if err := onDelete(ctx, rows); err != nil {
		return nil, fmt.Errorf("bulk delete: %w", err)
	}
	if err := s.Dispatch(RowsDeleted{IDs: RowIDs(rows, s.key)}); err != nil {
		return nil, err
	}
	return rows, nil
}

// BulkExport returns the export matrix of the visible selected rows over
// the visible columns in layout order.
func (s *Store[R]) BulkExport(excludeIDs []string) (Matrix, error) {
	st := s.GetState()
	if !st.SelectingMode {
		return Matrix{}, ErrNotSelecting
	}
	rows := s.SelectedVisibleRows(st)
	if len(rows) == 0 {
		return Matrix{}, ErrNothingSelected
	}
	return ExportRows(rows, OrderedColumns(s.schema, st.Layout, true), excludeIDs), nil
}

// ExportAll returns the export matrix of every row over all columns in
// layout order, regardless of filters and selection.
func (s *Store[R]) ExportAll(excludeIDs []string) Matrix {
	st := s.GetState()
	return ExportRows(st.Rows, OrderedColumns(s.schema, st.Layout, false), excludeIDs)
}

// RowAction is a named context-menu action. It receives the clicked row and
// the full row set.
type RowAction[R any] func(ctx context.Context, row R, all []R) error

// RunRowAction looks up the row with id and invokes action on it.
func (s *Store[R]) RunRowAction(ctx context.Context, id RowID, action RowAction[R]) error {
	st := s.GetState()
	row, ok := s.Row(st, id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrRowNotFound, id)
	}
	return action(ctx, row, st.Rows)
}
