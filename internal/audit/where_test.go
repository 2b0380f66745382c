package audit

import (
	"testing"
	"time"
)

// ============================================================================
// whereBuilder Tests
// ============================================================================

func TestNewWhereBuilder(t *testing.T) {
	wb := newWhereBuilder()

	if wb.argIndex != 1 {
		t.Errorf("argIndex = %d, want 1", wb.argIndex)
	}
	if len(wb.conditions) != 0 || len(wb.args) != 0 {
		t.Errorf("conditions = %v, args = %v, want empty", wb.conditions, wb.args)
	}
}

func TestWhereBuilder_Build_Empty(t *testing.T) {
	whereClause, args := newWhereBuilder().Build()

	if whereClause != "" {
		t.Errorf("clause = %q, want empty", whereClause)
	}
	if args != nil {
		t.Errorf("args = %v, want nil", args)
	}
}

func TestWhereBuilder_Add(t *testing.T) {
	tests := []struct {
		name       string
		pairs      [][2]string
		wantClause string
		wantArgs   []any
	}{
		{"single", [][2]string{{"action", "export"}}, " WHERE action = $1", []any{"export"}},
		{"multiple", [][2]string{{"action", "export"}, {"table_key", "people"}},
			" WHERE action = $1 AND table_key = $2", []any{"export", "people"}},
		{"empty value skipped", [][2]string{{"action", ""}, {"table_key", "people"}},
			" WHERE table_key = $1", []any{"people"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wb := newWhereBuilder()
			for _, p := range tt.pairs {
				wb.Add(p[0], p[1])
			}
			gotClause, gotArgs := wb.Build()
			if gotClause != tt.wantClause {
				t.Errorf("clause = %q, want %q", gotClause, tt.wantClause)
			}
			if len(gotArgs) != len(tt.wantArgs) {
				t.Fatalf("len(args) = %d, want %d", len(gotArgs), len(tt.wantArgs))
			}
			for i := range gotArgs {
				if gotArgs[i] != tt.wantArgs[i] {
					t.Errorf("args[%d] = %v, want %v", i, gotArgs[i], tt.wantArgs[i])
				}
			}
		})
	}
}

func TestWhereBuilder_NextArgIndex(t *testing.T) {
	wb := newWhereBuilder()
	if wb.NextArgIndex() != 1 {
		t.Errorf("NextArgIndex() = %d, want 1", wb.NextArgIndex())
	}

	wb.Add("col1", "val1")
	if wb.NextArgIndex() != 2 {
		t.Errorf("NextArgIndex() = %d, want 2", wb.NextArgIndex())
	}

	wb.AddTimestampRange("created_at", "start", "end")
	if wb.NextArgIndex() != 4 {
		t.Errorf("NextArgIndex() = %d, want 4", wb.NextArgIndex())
	}
}

func TestListWhere(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)

	clause, args := listWhere(ListOptions{
		TableKey:  "people",
		Severity:  "high",
		StartTime: start,
		EndTime:   end,
	})

	want := " WHERE table_key = $1 AND severity = $2 AND created_at >= $3 AND created_at <= $4"
	if clause != want {
		t.Errorf("clause = %q, want %q", clause, want)
	}
	if len(args) != 4 || args[2] != start || args[3] != end {
		t.Errorf("args = %v", args)
	}
}
