package core

import (
	"context"
	"errors"
	"testing"
)

func peopleSpec() ValidationSpec {
	return ValidationSpec{
		{Field: "firstName", Schema: Chain(Required(), MinLength(3))},
		{Field: "gender", Schema: Chain(Required(), OneOf("male", "female"))},
		{Field: "age", Schema: Optional(Between(0, 150))},
	}
}

func TestGateway_InvalidSubmissionSkipsCallback(t *testing.T) {
	called := false
	g := Gateway{
		Spec: peopleSpec(),
		OnSubmitNewData: func(context.Context, Record) error {
			called = true
			return nil
		},
	}

	_, err := g.SubmitNew(context.Background(), map[string]Value{"firstName": "Al"})

	var vf *ValidationFailure
	if !errors.As(err, &vf) {
		t.Fatalf("SubmitNew() error = %v, want *ValidationFailure", err)
	}
	if called {
		t.Error("OnSubmitNewData called for invalid submission")
	}
	if got := vf.Fields(); !equalStrings(got, []string{"firstName", "gender"}) {
		t.Errorf("Fields() = %v, want [firstName gender]", got)
	}
	if msgs := vf.FieldErrors["firstName"]; len(msgs) != 1 || msgs[0] != "must be at least 3 characters" {
		t.Errorf("firstName errors = %v", msgs)
	}
}

func TestGateway_ValidSubmissionNormalizes(t *testing.T) {
	var got Record
	g := Gateway{
		Spec: peopleSpec(),
		OnSubmitEditData: func(_ context.Context, row Record) error {
			got = row
			return nil
		},
	}

	row, err := g.SubmitEdit(context.Background(), map[string]Value{
		"id":        "p1",
		"firstName": "  Alice ",
		"gender":    "FEMALE",
		"age":       "42",
	})
	if err != nil {
		t.Fatalf("SubmitEdit() error = %v", err)
	}
	if got == nil || row["firstName"] != "Alice" || row["gender"] != "female" || row["age"] != 42.0 {
		t.Errorf("SubmitEdit() row = %v", row)
	}
	if row["id"] != "p1" {
		t.Errorf("extra key id = %v, want passed through", row["id"])
	}
}

func TestGateway_CallbackErrorAndMissingHandler(t *testing.T) {
	values := map[string]Value{"firstName": "Alice", "gender": "female"}

	if _, err := (Gateway{Spec: peopleSpec()}).SubmitNew(context.Background(), values); !errors.Is(err, ErrNoSubmitHandler) {
		t.Errorf("SubmitNew() without handler error = %v, want ErrNoSubmitHandler", err)
	}

	boom := errors.New("boom")
	g := Gateway{Spec: peopleSpec(), OnSubmitNewData: func(context.Context, Record) error { return boom }}
	if _, err := g.SubmitNew(context.Background(), values); !errors.Is(err, boom) {
		t.Errorf("SubmitNew() error = %v, want boom", err)
	}
}

func TestEditDefaults(t *testing.T) {
	row := Record{"firstName": "Alice", "age": nil}
	got := EditDefaults(row, peopleSpec())

	want := map[string]Value{"firstName": "Alice", "gender": "", "age": ""}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("EditDefaults()[%s] = %v, want %v", k, got[k], v)
		}
	}
}

// ----------------------------------------------------------------------------
// Schema Builder Tests
// ----------------------------------------------------------------------------

func TestFieldSchemas(t *testing.T) {
	tests := []struct {
		name    string
		schema  FieldSchema
		input   Value
		wantErr bool
	}{
		{"required nil", Required(), nil, true},
		{"required blank", Required(), "   ", true},
		{"required ok", Required(), "x", false},
		{"max length over", MaxLength(3), "abcd", true},
		{"max length runes", MaxLength(3), "äöü", false},
		{"one of miss", OneOf("a", "b"), "c", true},
		{"number ok", Number(), "$1,200.50", false},
		{"number bad", Number(), "abc", true},
		{"between out", Between(0, 10), 11, true},
		{"date ok", Date(), "2024-01-15", false},
		{"date bad", Date(), "not a date", true},
		{"bool ok", Bool(), "yes", false},
		{"bool bad", Bool(), "maybe", true},
		{"optional empty", Optional(Number()), "", false},
		{"chain stops at first failure", Chain(Required(), MinLength(5)), "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, msgs := tt.schema(tt.input)
			if (len(msgs) > 0) != tt.wantErr {
				t.Errorf("schema(%v) messages = %v, wantErr %v", tt.input, msgs, tt.wantErr)
			}
		})
	}
}

func TestValidationFailure_Error(t *testing.T) {
	vf := &ValidationFailure{FieldErrors: map[string][]string{
		"b": {"bad"},
		"a": {"x", "y"},
	}}
	want := "validation failed: a: x; y, b: bad"
	if got := vf.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if n := len(vf.Errors()); n != 3 {
		t.Errorf("len(Errors()) = %d, want 3", n)
	}
}
