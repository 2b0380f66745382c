package core

import (
	"errors"
	"testing"
)

func TestCompareValues(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want int
	}{
		{"numbers", 2, 10.0, -1},
		{"numeric strings compare as numbers", "9", "10", -1},
		{"strings case-insensitive", "apple", "Banana", -1},
		{"equal strings", "a", "A", 0},
		{"times", day(2024, 1, 2), day(2023, 1, 2), 1},
		{"number before string", 5, "abc", -1},
		{"empty last", nil, "abc", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CompareValues(tt.a, tt.b); got != tt.want {
				t.Errorf("CompareValues(%v, %v) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestSortRows_StableAndUnchangedInput(t *testing.T) {
	schema := testSchema()
	rows := []Record{
		{"id": "1", "gender": "male", "firstName": "b"},
		{"id": "2", "gender": "female", "firstName": "a"},
		{"id": "3", "gender": "male", "firstName": "a"},
	}
	got := SortRows(rows, &SortState{Column: "firstName", Direction: SortAsc}, schema)
	if ids := recordIDs(got); !equalStrings(ids, []string{"2", "3", "1"}) {
		t.Errorf("SortRows() = %v, want [2 3 1]", ids)
	}
	if ids := recordIDs(rows); !equalStrings(ids, []string{"1", "2", "3"}) {
		t.Errorf("input reordered: %v", ids)
	}
}

// ----------------------------------------------------------------------------
// Facet Tests
// ----------------------------------------------------------------------------

func TestFacetedUniqueValues(t *testing.T) {
	rows := []Record{
		{"status": "single"}, {"status": "complicated"}, {"status": "single"},
		{"status": ""}, {"status": nil}, {"status": "relationship"},
	}
	values, err := FacetedUniqueValues(rows, "status", testSchema())
	if err != nil {
		t.Fatalf("FacetedUniqueValues() error = %v", err)
	}
	got := make([]string, len(values))
	for i, v := range values {
		got[i] = Stringify(v)
	}
	if want := []string{"complicated", "relationship", "single"}; !equalStrings(got, want) {
		t.Errorf("FacetedUniqueValues() = %v, want %v", got, want)
	}

	if _, err := FacetedUniqueValues(rows, "nope", testSchema()); !errors.Is(err, ErrUnknownColumnID) {
		t.Errorf("unknown column error = %v, want ErrUnknownColumnID", err)
	}
}

func TestFacetedMinMax(t *testing.T) {
	lo, hi, ok, err := FacetedMinMax(agedRows(30, 5, 18), "age", testSchema())
	if err != nil || !ok || lo != 5 || hi != 30 {
		t.Errorf("FacetedMinMax() = %v, %v, %v, %v, want 5, 30, true, nil", lo, hi, ok, err)
	}

	_, _, ok, err = FacetedMinMax([]Record{{"age": nil}}, "age", testSchema())
	if ok || err != nil {
		t.Errorf("FacetedMinMax(all empty) ok = %v, err = %v, want false, nil", ok, err)
	}

	_, _, _, err = FacetedMinMax([]Record{{"age": "old"}}, "age", testSchema())
	if !errors.Is(err, ErrNotNumeric) {
		t.Errorf("FacetedMinMax(non-numeric) error = %v, want ErrNotNumeric", err)
	}
}

func TestColumnFacet(t *testing.T) {
	f, err := ColumnFacet(agedRows(3, 9), "age", testSchema())
	if err != nil {
		t.Fatalf("ColumnFacet(age) error = %v", err)
	}
	if f.Min == nil || *f.Min != 3 || f.Max == nil || *f.Max != 9 {
		t.Errorf("ColumnFacet(age) = %+v, want 3..9", f)
	}

	f, err = ColumnFacet(agedRows(3, 9), "gender", testSchema())
	if err != nil || !equalStrings(f.Values, []string{"female"}) {
		t.Errorf("ColumnFacet(gender) = %+v, %v", f, err)
	}
}

func TestAuditEntry(t *testing.T) {
	ctx := ContextWithIPAddress(t.Context(), "10.0.0.1")
	entry := NewAuditEntry(ctx, AuditLogParams{Action: ActionBulkDelete, TableKey: "people", RowKeys: []RowID{"a", "b"}})

	if entry.ID == "" || entry.Severity != SeverityHigh || entry.RowsAffected != 2 || entry.IPAddress != "10.0.0.1" {
		t.Errorf("NewAuditEntry() = %+v", entry)
	}
	if got := NewAuditEntry(t.Context(), AuditLogParams{Action: ActionExport}).Severity; got != SeverityLow {
		t.Errorf("export severity = %s, want low", got)
	}
}
