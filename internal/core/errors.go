package core

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrDuplicateColumnID is returned when two descriptors share an id.
	ErrDuplicateColumnID = errors.New("duplicate column id")

	// ErrUnknownColumnID is returned by lookups on ids that are not registered.
	// State transitions treat unknown ids as a no-op instead.
	ErrUnknownColumnID = errors.New("unknown column id")

	// ErrInvalidColumn is returned for malformed descriptors.
	ErrInvalidColumn = errors.New("invalid column")

	// ErrInvalidFilter is returned when a filter value does not fit its column.
	ErrInvalidFilter = errors.New("invalid filter")

	// ErrNotNumeric is returned when a range filter meets a non-numeric value.
	ErrNotNumeric = errors.New("value is not numeric")

	// ErrNotDate is returned when a date filter meets a non-date value.
	ErrNotDate = errors.New("value is not a date")

	// ErrRowNotFound is returned when a row id does not exist.
	ErrRowNotFound = errors.New("row not found")

	// ErrReadOnlySource is returned when a data source cannot persist changes.
	ErrReadOnlySource = errors.New("data source is read-only")
)

// ValidationError is a single failed check on a form field.
type ValidationError struct {
	Field   string // Field id
	Value   string // The rejected value
	Message string // Human-readable message
}

func (e ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// ValidationFailure carries every field error of a rejected submission.
type ValidationFailure struct {
	FieldErrors map[string][]string
}

func (e *ValidationFailure) Error() string {
	fields := e.Fields()
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, strings.Join(e.FieldErrors[f], "; ")))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// Fields returns the failing field ids, sorted.
func (e *ValidationFailure) Fields() []string {
	fields := make([]string, 0, len(e.FieldErrors))
	for f := range e.FieldErrors {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

// Errors flattens the failure into ValidationErrors, ordered by field.
func (e *ValidationFailure) Errors() []ValidationError {
	var out []ValidationError
	for _, f := range e.Fields() {
		for _, msg := range e.FieldErrors[f] {
			out = append(out, ValidationError{Field: f, Message: msg})
		}
	}
	return out
}

// FetchError wraps a failure of the external row source.
type FetchError struct {
	Err error
}

func (e *FetchError) Error() string {
	return "fetch failed: " + e.Err.Error()
}

func (e *FetchError) Unwrap() error { return e.Err }
