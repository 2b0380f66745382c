package core

import (
	"fmt"
	"time"
)

// testSchema is a small people table used across the package tests.
func testSchema() *Schema[Record] {
	return MustSchema(
		ColumnDescriptor[Record]{ColumnMeta: ColumnMeta{ID: "firstName", Label: "First Name", Variant: VariantText, Sortable: true}, Accessor: Field("firstName")},
		ColumnDescriptor[Record]{ColumnMeta: ColumnMeta{ID: "gender", Label: "Gender", Variant: VariantSelect, Options: []string{"male", "female"}}, Accessor: Field("gender")},
		ColumnDescriptor[Record]{ColumnMeta: ColumnMeta{ID: "age", Label: "Age", Variant: VariantRange, Sortable: true, DefaultWidth: 80}, Accessor: Field("age")},
		ColumnDescriptor[Record]{ColumnMeta: ColumnMeta{ID: "lastUpdate", Label: "Last Update", Variant: VariantDate, Sortable: true}, Accessor: Field("lastUpdate")},
		ColumnDescriptor[Record]{ColumnMeta: ColumnMeta{ID: "status", Label: "Status", Variant: VariantSelect}, Accessor: Field("status")},
	)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// agedRows returns one row per age, keyed "p<age>".
func agedRows(ages ...float64) []Record {
	rows := make([]Record, len(ages))
	for i, a := range ages {
		rows[i] = Record{
			"id":        fmt.Sprintf("p%v", a),
			"firstName": fmt.Sprintf("Person %v", a),
			"gender":    "female",
			"age":       a,
			"status":    "single",
		}
	}
	return rows
}

func newTestStore() *Store[Record] {
	return NewStore(testSchema(), RecordKey("id"))
}

func ages(rows []Record) []float64 {
	out := make([]float64, len(rows))
	for i, r := range rows {
		out[i], _ = ToNumber(r["age"])
	}
	return out
}

func equalFloats(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
