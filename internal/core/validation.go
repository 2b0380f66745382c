package core

// validation.go validates add/edit form payloads before they are handed to
// the persistence callbacks.
//
// Every field rule runs independently, so a submission reports all of its
// field errors at once. Rules are plain functions that either return the
// (possibly normalized) value or a list of messages.

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// FieldSchema validates and normalizes one form value.
// A non-empty message list rejects the value.
type FieldSchema func(Value) (Value, []string)

// InputKind selects the form control rendered for a field.
type InputKind string

const (
	InputText     InputKind = "input"
	InputSelect   InputKind = "select"
	InputRadio    InputKind = "radio"
	InputCombobox InputKind = "combobox"
)

// FieldRule binds a schema to a field id. The remaining fields describe
// the form control and are ignored by validation.
type FieldRule struct {
	Field       string
	Schema      FieldSchema
	Label       string
	Input       InputKind
	Options     []string
	Placeholder string
}

// ValidationSpec is the ordered rule list shared by add and edit forms.
type ValidationSpec []FieldRule

// Fields returns the field ids in spec order.
func (s ValidationSpec) Fields() []string {
	out := make([]string, len(s))
	for i, r := range s {
		out[i] = r.Field
	}
	return out
}

// Validate runs every rule against values without short-circuiting.
// On success the returned Record holds the normalized values of every spec
// field plus any extra keys passed through unchanged.
func Validate(values map[string]Value, spec ValidationSpec) (Record, *ValidationFailure) {
	out := make(Record, len(values))
	for k, v := range values {
		out[k] = v
	}

	failure := &ValidationFailure{FieldErrors: map[string][]string{}}
	for _, rule := range spec {
		v, msgs := rule.Schema(values[rule.Field])
		if len(msgs) > 0 {
			failure.FieldErrors[rule.Field] = append(failure.FieldErrors[rule.Field], msgs...)
			continue
		}
		out[rule.Field] = v
	}

	if len(failure.FieldErrors) > 0 {
		return nil, failure
	}
	return out, nil
}

// EditDefaults pre-fills an edit form from row: every spec field takes the
// row's value, or "" when the row has none.
func EditDefaults(row Record, spec ValidationSpec) map[string]Value {
	out := make(map[string]Value, len(spec))
	for _, rule := range spec {
		if v, ok := row[rule.Field]; ok && v != nil {
			out[rule.Field] = v
		} else {
			out[rule.Field] = ""
		}
	}
	return out
}

// SubmitFunc persists a validated row.
type SubmitFunc func(ctx context.Context, row Record) error

// ErrNoSubmitHandler is returned when a gateway has no callback for a mode.
var ErrNoSubmitHandler = errors.New("no submit handler configured")

// Gateway validates form payloads and forwards valid rows to external
// persistence callbacks. It performs no persistence itself.
type Gateway struct {
	Spec             ValidationSpec
	OnSubmitNewData  SubmitFunc
	OnSubmitEditData SubmitFunc
}

// SubmitNew validates values and calls OnSubmitNewData on success.
// A *ValidationFailure is returned when any field is rejected; the callback
// is not invoked in that case.
func (g Gateway) SubmitNew(ctx context.Context, values map[string]Value) (Record, error) {
	return g.submit(ctx, values, g.OnSubmitNewData)
}

// SubmitEdit validates values and calls OnSubmitEditData on success.
func (g Gateway) SubmitEdit(ctx context.Context, values map[string]Value) (Record, error) {
	return g.submit(ctx, values, g.OnSubmitEditData)
}

func (g Gateway) submit(ctx context.Context, values map[string]Value, fn SubmitFunc) (Record, error) {
	row, failure := Validate(values, g.Spec)
	if failure != nil {
		return nil, failure
	}
	if fn == nil {
		return nil, ErrNoSubmitHandler
	}
	if err := fn(ctx, row); err != nil {
		return nil, fmt.Errorf("submit: %w", err)
	}
	return row, nil
}

// ----------------------------------------------------------------------------
// Schema builders
// ----------------------------------------------------------------------------

// Chain runs schemas in order, feeding each normalized value to the next.
// It stops at the first schema that rejects the value.
func Chain(schemas ...FieldSchema) FieldSchema {
	return func(v Value) (Value, []string) {
		for _, s := range schemas {
			var msgs []string
			v, msgs = s(v)
			if len(msgs) > 0 {
				return v, msgs
			}
		}
		return v, nil
	}
}

// WithMessage replaces the messages of a rejected value with msg.
func WithMessage(schema FieldSchema, msg string) FieldSchema {
	return func(v Value) (Value, []string) {
		out, msgs := schema(v)
		if len(msgs) > 0 {
			return v, []string{msg}
		}
		return out, nil
	}
}

// Optional skips schema for empty values.
func Optional(schema FieldSchema) FieldSchema {
	return func(v Value) (Value, []string) {
		if IsEmpty(v) {
			return v, nil
		}
		return schema(v)
	}
}

// Required rejects nil and blank values.
func Required() FieldSchema {
	return func(v Value) (Value, []string) {
		if IsEmpty(v) {
			return v, []string{"required field is empty"}
		}
		return v, nil
	}
}

// Text coerces the value to a trimmed string.
func Text() FieldSchema {
	return func(v Value) (Value, []string) {
		return strings.TrimSpace(Stringify(v)), nil
	}
}

// MinLength rejects strings shorter than n characters.
func MinLength(n int) FieldSchema {
	return func(v Value) (Value, []string) {
		s := strings.TrimSpace(Stringify(v))
		if utf8.RuneCountInString(s) < n {
			return v, []string{fmt.Sprintf("must be at least %d characters", n)}
		}
		return s, nil
	}
}

// MaxLength rejects strings longer than n characters.
func MaxLength(n int) FieldSchema {
	return func(v Value) (Value, []string) {
		s := strings.TrimSpace(Stringify(v))
		if utf8.RuneCountInString(s) > n {
			return v, []string{fmt.Sprintf("must be at most %d characters", n)}
		}
		return s, nil
	}
}

// OneOf accepts only the listed values (case-insensitive) and normalizes
// to the listed spelling.
func OneOf(allowed ...string) FieldSchema {
	return func(v Value) (Value, []string) {
		s := strings.TrimSpace(Stringify(v))
		for _, a := range allowed {
			if strings.EqualFold(a, s) {
				return a, nil
			}
		}
		return v, []string{fmt.Sprintf("invalid enum: value must be one of: %s", strings.Join(allowed, ", "))}
	}
}

// Number coerces the value to float64.
func Number() FieldSchema {
	return func(v Value) (Value, []string) {
		n, ok := ToNumber(v)
		if !ok {
			return v, []string{"invalid number format"}
		}
		return n, nil
	}
}

// Between rejects numbers outside [lo, hi].
func Between(lo, hi float64) FieldSchema {
	return func(v Value) (Value, []string) {
		n, ok := ToNumber(v)
		if !ok {
			return v, []string{"invalid number format"}
		}
		if n < lo || n > hi {
			return v, []string{fmt.Sprintf("must be between %s and %s", Stringify(lo), Stringify(hi))}
		}
		return n, nil
	}
}

// Date coerces the value to time.Time.
func Date() FieldSchema {
	return func(v Value) (Value, []string) {
		t, ok := ToTime(v)
		if !ok {
			return v, []string{"invalid date format (use YYYY-MM-DD or similar)"}
		}
		return t, nil
	}
}

// Bool coerces the value to bool.
func Bool() FieldSchema {
	return func(v Value) (Value, []string) {
		if b, ok := v.(bool); ok {
			return b, nil
		}
		b, ok := ParseBool(Stringify(v))
		if !ok {
			return v, []string{"must be yes/no, true/false, or 1/0"}
		}
		return b, nil
	}
}
