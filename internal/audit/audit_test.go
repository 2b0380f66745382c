package audit

import (
	"context"
	"testing"
	"time"

	"github.com/JonMunkholm/gridstate/internal/core"
)

func entryAt(action core.AuditAction, table string, at time.Time) core.AuditEntry {
	e := core.NewAuditEntry(context.Background(), core.AuditLogParams{
		Action:   action,
		TableKey: table,
		RowKeys:  []core.RowID{"p1"},
	})
	e.CreatedAt = at
	return e
}

// ---- Memory store ----

func TestMemory_ListFiltersAndPages(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(0)
	base := time.Now().Add(-time.Hour)

	for i := 0; i < 5; i++ {
		_ = m.Record(ctx, entryAt(core.ActionRowEdit, "people", base.Add(time.Duration(i)*time.Minute)))
	}
	_ = m.Record(ctx, entryAt(core.ActionExport, "people", base))
	_ = m.Record(ctx, entryAt(core.ActionRowDelete, "orders", base))

	res, err := m.List(ctx, ListOptions{TableKey: "people", Action: core.ActionRowEdit, Limit: 2, Offset: 2})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if res.TotalCount != 5 {
		t.Errorf("TotalCount = %d, want 5", res.TotalCount)
	}
	if res.Page != 2 || res.TotalPages != 3 || res.PageSize != 2 {
		t.Errorf("page = %d/%d size %d, want 2/3 size 2", res.Page, res.TotalPages, res.PageSize)
	}
	if len(res.Entries) != 2 {
		t.Fatalf("len(Entries) = %d, want 2", len(res.Entries))
	}
	if !res.Entries[0].CreatedAt.After(res.Entries[1].CreatedAt) {
		t.Error("entries are not newest first")
	}

	res, _ = m.List(ctx, ListOptions{Severity: core.SeverityHigh})
	if res.TotalCount != 1 || res.Entries[0].TableKey != "orders" {
		t.Errorf("high severity entries = %+v", res.Entries)
	}
}

func TestMemory_EmptyListIsNotNil(t *testing.T) {
	res, err := NewMemory(10).List(context.Background(), ListOptions{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if res.Entries == nil || res.TotalPages != 1 {
		t.Errorf("result = %+v, want empty entries and one page", res)
	}
}

func TestMemory_CapacityDropsOldest(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(2)
	now := time.Now()
	first := entryAt(core.ActionRowAdd, "people", now.Add(-3*time.Minute))
	_ = m.Record(ctx, first)
	_ = m.Record(ctx, entryAt(core.ActionRowAdd, "people", now.Add(-2*time.Minute)))
	_ = m.Record(ctx, entryAt(core.ActionRowAdd, "people", now.Add(-time.Minute)))

	res, _ := m.List(ctx, ListOptions{})
	if res.TotalCount != 2 {
		t.Fatalf("TotalCount = %d, want 2", res.TotalCount)
	}
	for _, e := range res.Entries {
		if e.ID == first.ID {
			t.Error("oldest entry was kept")
		}
	}
}

func TestMemory_Purge(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(0)
	now := time.Now()
	_ = m.Record(ctx, entryAt(core.ActionRowAdd, "people", now.Add(-48*time.Hour)))
	_ = m.Record(ctx, entryAt(core.ActionRowAdd, "people", now))

	n, err := m.Purge(ctx, now.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("Purge() error = %v", err)
	}
	if n != 1 {
		t.Errorf("Purge() = %d, want 1", n)
	}
	res, _ := m.List(ctx, ListOptions{})
	if res.TotalCount != 1 {
		t.Errorf("TotalCount = %d, want 1", res.TotalCount)
	}
}

// ---- Postgres helpers ----

func TestParseIP(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"203.0.113.7", "203.0.113.7"},
		{"203.0.113.7:5123", "203.0.113.7"},
		{"[2001:db8::1]:443", "2001:db8::1"},
		{"not-an-ip", ""},
	}
	for _, tt := range tests {
		got := parseIP(tt.in)
		var s string
		if got != nil {
			s = got.String()
		}
		if s != tt.want {
			t.Errorf("parseIP(%q) = %q, want %q", tt.in, s, tt.want)
		}
	}
}

func TestListOptionsNormalize(t *testing.T) {
	o := ListOptions{Limit: 5000, Offset: -3}.normalize()
	if o.Limit != MaxListLimit || o.Offset != 0 {
		t.Errorf("normalize() = limit %d offset %d, want %d 0", o.Limit, o.Offset, MaxListLimit)
	}
	if o.StartTime.IsZero() || o.EndTime.IsZero() {
		t.Error("normalize() left an open time bound")
	}
	if got := (ListOptions{}).normalize().Limit; got != DefaultListLimit {
		t.Errorf("default limit = %d, want %d", got, DefaultListLimit)
	}
}
