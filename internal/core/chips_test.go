package core

import "testing"

func TestFilterChips(t *testing.T) {
	schema := testSchema()
	filters := FilterState{
		"age":        RangeFilter{Min: Float(10)},
		"firstName":  TextFilter{Query: "ali"},
		"lastUpdate": DateFilter{From: day(2024, 3, 1)},
		"gender":     SelectFilter{Value: SelectAll},
	}

	chips := FilterChips(filters, "hello", schema)
	if len(chips) != 4 {
		t.Fatalf("len(FilterChips()) = %d, want 4: %+v", len(chips), chips)
	}

	tests := []struct {
		idx  int
		kind ChipKind
		args map[string]string
	}{
		{0, ChipInRangeOf, map[string]string{"field": "Age", "range": "10 - ∞"}},
		{1, ChipEqualsOrContains, map[string]string{"field": "First Name", "value": "ali"}},
		{2, ChipIsBetween, map[string]string{"field": "Last Update", "from": "2024/03/01", "to": ""}},
		{3, ChipGlobal, map[string]string{"value": "hello"}},
	}

	for _, tt := range tests {
		c := chips[tt.idx]
		if c.Kind != tt.kind {
			t.Errorf("chips[%d].Kind = %s, want %s", tt.idx, c.Kind, tt.kind)
		}
		for k, v := range tt.args {
			if c.Args[k] != v {
				t.Errorf("chips[%d].Args[%s] = %q, want %q", tt.idx, k, c.Args[k], v)
			}
		}
	}
}

func TestFilterChips_Empty(t *testing.T) {
	if chips := FilterChips(FilterState{}, "", testSchema()); len(chips) != 0 {
		t.Errorf("FilterChips() = %+v, want none", chips)
	}
}
