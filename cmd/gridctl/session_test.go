package main

import (
	"testing"

	"github.com/JonMunkholm/gridstate/internal/core"
	"github.com/JonMunkholm/gridstate/internal/core/tables"
)

func TestParseSort(t *testing.T) {
	tests := []struct {
		in      string
		want    core.SortDirection
		wantErr bool
	}{
		{"age", core.SortAsc, false},
		{"age:asc", core.SortAsc, false},
		{"age:DESC", core.SortDesc, false},
		{"age:up", "", true},
	}
	for _, tt := range tests {
		got, err := parseSort(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseSort(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err == nil && (got.Column != "age" || *got.Direction != tt.want) {
			t.Errorf("parseSort(%q) = %s %s, want age %s", tt.in, got.Column, *got.Direction, tt.want)
		}
	}
}

func TestStateFlags_Actions(t *testing.T) {
	def, _ := core.Get(tables.PeopleKey)
	schema, err := def.Schema()
	if err != nil {
		t.Fatal(err)
	}

	f := stateFlags{
		filters: []string{"age=18..40", "status=single"},
		global:  "pilot",
		sort:    "lastUpdate:desc",
		hide:    []string{"address"},
	}
	actions, err := f.actions(schema)
	if err != nil {
		t.Fatalf("actions() error = %v", err)
	}

	var names []string
	for _, a := range actions {
		names = append(names, core.ActionName(a))
	}
	want := []string{"set_column_filter", "set_column_filter", "set_global_filter", "toggle_sorting", "toggle_visibility"}
	if len(names) != len(want) {
		t.Fatalf("actions = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("actions[%d] = %s, want %s", i, names[i], want[i])
		}
	}

	if r, ok := actions[0].(core.SetColumnFilter).Value.(core.RangeFilter); !ok || *r.Min != 18 || *r.Max != 40 {
		t.Errorf("age filter = %#v", actions[0])
	}
}

func TestStateFlags_ActionsErrors(t *testing.T) {
	def, _ := core.Get(tables.PeopleKey)
	schema, _ := def.Schema()

	tests := []stateFlags{
		{filters: []string{"age"}},
		{filters: []string{"age=old"}},
		{filters: []string{"nope=x"}},
		{sort: "age:sideways"},
	}
	for _, f := range tests {
		if _, err := f.actions(schema); err == nil {
			t.Errorf("actions(%+v) error = nil, want error", f)
		}
	}
}
