package core

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{"nil error returns empty", nil, ""},
		{"duplicate column", fmt.Errorf("%w: age", ErrDuplicateColumnID), "COL001"},
		{"wrapped not numeric", fmt.Errorf("column age: %w", ErrNotNumeric), "FLT002"},
		{"invalid filter", ErrInvalidFilter, "FLT001"},
		{"row not found", fmt.Errorf("%w: p1", ErrRowNotFound), "ROW001"},
		{"nothing selected", ErrNothingSelected, "ROW002"},
		{"read only source", ErrReadOnlySource, "SRC002"},
		{"validation failure", &ValidationFailure{FieldErrors: map[string][]string{"a": {"x"}}}, "VAL000"},
		{"fetch error", fmt.Errorf("reload: %w", &FetchError{Err: errors.New("boom")}), "SRC001"},
		{"duplicate key pattern", errors.New("ERROR: duplicate key value violates unique constraint"), "DB001"},
		{"connection refused pattern", errors.New("dial tcp: connection refused"), "DB004"},
		{"context canceled", context.Canceled, "REQ001"},
		{"deadline", context.DeadlineExceeded, "REQ002"},
		{"export busy", errors.New("too many exports in progress"), "EXP001"},
		{"unknown", errors.New("something odd"), "ERR000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError() code = %q, want %q (%+v)", got.Code, tt.wantCode, got)
			}
			if tt.err != nil && (got.Message == "" || got.Action == "") {
				t.Errorf("MapError() = %+v, want message and action", got)
			}
		})
	}
}

func TestMapError_ValidationListsFields(t *testing.T) {
	vf := &ValidationFailure{FieldErrors: map[string][]string{"gender": {"x"}, "firstName": {"y"}}}
	want := "Some fields are invalid: firstName, gender"
	if got := MapError(vf).Message; got != want {
		t.Errorf("MapError().Message = %q, want %q", got, want)
	}
}
