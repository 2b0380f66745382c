package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/JonMunkholm/gridstate/internal/core"
	"github.com/jackc/pgx/v5"
)

func column(id, label string, v core.FilterVariant) core.ColumnDescriptor[core.Record] {
	return core.ColumnDescriptor[core.Record]{
		ColumnMeta: core.ColumnMeta{ID: id, Label: label, Variant: v},
		Accessor:   core.Field(id),
	}
}

func testDef() core.TableDefinition {
	return core.TableDefinition{
		Info:     core.TableInfo{Key: "people", Label: "People"},
		KeyField: "id",
		Columns: []core.ColumnDescriptor[core.Record]{
			column("firstName", "First Name", core.VariantText),
			column("age", "Age", core.VariantRange),
			column("lastUpdate", "Last Update", core.VariantDate),
		},
	}
}

// ---- Coerce ----

func TestCoerce(t *testing.T) {
	got := Coerce(testDef(), core.Record{
		"id":         "p1",
		"firstName":  "  Ada ",
		"age":        "$1,200",
		"lastUpdate": "2024-03-05",
		"extra":      42,
		"blank":      "   ",
	})

	if got["firstName"] != "Ada" {
		t.Errorf("firstName = %v, want Ada", got["firstName"])
	}
	if got["age"] != 1200.0 {
		t.Errorf("age = %v, want 1200", got["age"])
	}
	want := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	if ts, ok := got["lastUpdate"].(time.Time); !ok || !ts.Equal(want) {
		t.Errorf("lastUpdate = %v, want %v", got["lastUpdate"], want)
	}
	if got["extra"] != 42 {
		t.Errorf("extra = %v, want 42", got["extra"])
	}
	if got["blank"] != nil {
		t.Errorf("blank = %v, want nil", got["blank"])
	}
}

func TestCoerce_UnparsableKeepsString(t *testing.T) {
	got := Coerce(testDef(), core.Record{"age": "old", "lastUpdate": "someday"})
	if got["age"] != "old" || got["lastUpdate"] != "someday" {
		t.Errorf("Coerce() = %v, want strings kept", got)
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{"", KindMemory, false},
		{"memory", KindMemory, false},
		{" File ", KindFile, false},
		{"postgres", KindPostgres, false},
		{"mongo", "", true},
	}
	for _, tt := range tests {
		got, err := ParseKind(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseKind(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseKind(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// ---- Memory ----

func TestMemory_Lifecycle(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(testDef(), []core.Record{
		{"id": "p1", "firstName": "Ada", "age": 36.0},
		{"id": "p2", "firstName": "Alan", "age": 41.0},
	})

	if err := m.Insert(ctx, core.Record{"firstName": "Grace", "age": "85"}); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	rows, _ := m.Fetch(ctx)
	if len(rows) != 3 {
		t.Fatalf("len(rows) = %d, want 3", len(rows))
	}
	if id, _ := rows[2]["id"].(string); !strings.HasPrefix(id, "row_") {
		t.Errorf("generated id = %q, want row_ prefix", id)
	}
	if rows[2]["age"] != 85.0 {
		t.Errorf("inserted age = %v, want 85", rows[2]["age"])
	}

	if err := m.Insert(ctx, core.Record{"id": "p1"}); err == nil {
		t.Error("Insert(duplicate) error = nil, want error")
	}

	if err := m.Update(ctx, core.Record{"id": "p2", "firstName": "Alan", "age": "42"}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if err := m.Update(ctx, core.Record{"id": "nope"}); !errors.Is(err, core.ErrRowNotFound) {
		t.Errorf("Update(missing) error = %v, want ErrRowNotFound", err)
	}

	if err := m.Delete(ctx, []core.Record{{"id": "p1"}, {"id": "unknown"}}); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	rows, _ = m.Fetch(ctx)
	if len(rows) != 2 || rows[0]["id"] != "p2" || rows[0]["age"] != 42.0 {
		t.Errorf("rows after delete = %v", rows)
	}
}

func TestMemory_KeylessRowsGetOwnIdentity(t *testing.T) {
	ctx := context.Background()
	def := testDef()
	def.KeyField = ""
	m := NewMemory(def, []core.Record{{"firstName": "dup"}, {"firstName": "dup"}})
	if err := m.Insert(ctx, core.Record{"firstName": "dup"}); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	rows, _ := m.Fetch(ctx)
	seen := make(map[core.RowID]bool)
	for _, r := range rows {
		id := keyOf(def, r)
		if !strings.HasPrefix(string(id), "row_") || seen[id] {
			t.Errorf("row id = %q, want a distinct row_ id", id)
		}
		seen[id] = true
	}

	edited := core.Record{"firstName": "single", core.RowKeyField: rows[1][core.RowKeyField]}
	if err := m.Update(ctx, edited); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if err := m.Delete(ctx, []core.Record{rows[2]}); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	rows, _ = m.Fetch(ctx)
	if len(rows) != 2 || rows[0]["firstName"] != "dup" || rows[1]["firstName"] != "single" {
		t.Errorf("rows = %v, want dup then single", rows)
	}
}

func TestMemory_FetchReturnsCopies(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(testDef(), []core.Record{{"id": "p1", "firstName": "Ada"}})
	rows, _ := m.Fetch(ctx)
	rows[0]["firstName"] = "changed"

	again, _ := m.Fetch(ctx)
	if again[0]["firstName"] != "Ada" {
		t.Errorf("firstName = %v, want Ada", again[0]["firstName"])
	}
}

func TestMemoryProvider_SharesSourceAndSeeds(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "people.json"), `[{"id":"p1","firstName":"Ada","age":"36"}]`)

	p := &MemoryProvider{Seed: FileProvider{Dir: dir}}
	first, err := p.Open(ctx, testDef())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := first.Insert(ctx, core.Record{"id": "p2", "firstName": "Alan"}); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	second, _ := p.Open(ctx, testDef())
	rows, _ := second.Fetch(ctx)
	if len(rows) != 2 {
		t.Fatalf("len(rows) = %d, want 2", len(rows))
	}
	if rows[0]["age"] != 36.0 {
		t.Errorf("seeded age = %v, want 36", rows[0]["age"])
	}
}

// ---- File ----

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestFile_CSVWithBOMAndLabels(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "people.csv"),
		"\xEF\xBB\xBFid,First Name,age,Last Update,note\n"+
			"p1,Ada,36,2024-03-05,x\n"+
			",,,,\n"+
			"p2,\"Alan\",41\n")

	src, err := FileProvider{Dir: dir}.Open(context.Background(), testDef())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	rows, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("len(rows) = %d, want 2", len(rows))
	}
	if rows[0]["id"] != "p1" {
		t.Errorf("id = %v, want p1 (BOM stripped)", rows[0]["id"])
	}
	if rows[0]["firstName"] != "Ada" || rows[0]["note"] != "x" {
		t.Errorf("row 0 = %v", rows[0])
	}
	if rows[1]["age"] != 41.0 {
		t.Errorf("row 1 age = %v, want 41", rows[1]["age"])
	}
	if _, ok := rows[1]["lastUpdate"]; ok {
		t.Errorf("short row has lastUpdate = %v, want unset", rows[1]["lastUpdate"])
	}
}

func TestFile_KeylessRowsNumbered(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "people.json"), `[{"firstName":"dup"},{"firstName":"dup"}]`)
	def := testDef()
	def.KeyField = ""

	src, err := FileProvider{Dir: dir}.Open(context.Background(), def)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	for range 2 {
		rows, err := src.Fetch(context.Background())
		if err != nil {
			t.Fatalf("Fetch() error = %v", err)
		}
		if len(rows) != 2 || keyOf(def, rows[0]) != "rec_1" || keyOf(def, rows[1]) != "rec_2" {
			t.Errorf("row ids = %v, want rec_1 rec_2", rows)
		}
	}
}

func TestFile_ReadOnly(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "people.json"), `[]`)
	src, err := FileProvider{Dir: dir}.Open(context.Background(), testDef())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	ctx := context.Background()
	if err := src.Insert(ctx, core.Record{}); !errors.Is(err, core.ErrReadOnlySource) {
		t.Errorf("Insert() error = %v, want ErrReadOnlySource", err)
	}
	if err := src.Update(ctx, core.Record{}); !errors.Is(err, core.ErrReadOnlySource) {
		t.Errorf("Update() error = %v, want ErrReadOnlySource", err)
	}
	if err := src.Delete(ctx, nil); !errors.Is(err, core.ErrReadOnlySource) {
		t.Errorf("Delete() error = %v, want ErrReadOnlySource", err)
	}
}

func TestFileProvider_Missing(t *testing.T) {
	if _, err := (FileProvider{Dir: t.TempDir()}).Open(context.Background(), testDef()); err == nil {
		t.Error("Open() error = nil, want error for missing file")
	}
}

func TestReadJSON_Empty(t *testing.T) {
	recs, err := ReadJSON(strings.NewReader(""))
	if err != nil || recs != nil {
		t.Errorf("ReadJSON(\"\") = %v, %v, want nil, nil", recs, err)
	}
}

// ---- Postgres statements ----

func TestToDBColumnName(t *testing.T) {
	tests := []struct{ in, want string }{
		{"firstName", "first_name"},
		{"lastUpdate", "last_update"},
		{"id", "id"},
		{"Last Update", "last_update"},
		{"already_snake", "already_snake"},
		{"visits2Count", "visits2_count"},
	}
	for _, tt := range tests {
		if got := toDBColumnName(tt.in); got != tt.want {
			t.Errorf("toDBColumnName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBuildStatements(t *testing.T) {
	def := testDef()
	table := pgx.Identifier{"public", "people"}
	row := core.Record{"id": "p1", "firstName": "Ada", "age": 36.0}

	query, args := buildInsert(table, def, row)
	wantInsert := `INSERT INTO "public"."people" ("age", "first_name", "id") VALUES ($1, $2, $3)`
	if query != wantInsert {
		t.Errorf("insert = %q, want %q", query, wantInsert)
	}
	if len(args) != 3 || args[0] != 36.0 || args[2] != "p1" {
		t.Errorf("insert args = %v", args)
	}

	query, args = buildUpdate(table, def, row)
	wantUpdate := `UPDATE "public"."people" SET "age" = $1, "first_name" = $2 WHERE "id"::text = $3`
	if query != wantUpdate {
		t.Errorf("update = %q, want %q", query, wantUpdate)
	}
	if len(args) != 3 || args[2] != "p1" {
		t.Errorf("update args = %v", args)
	}

	if query, _ := buildUpdate(table, def, core.Record{"id": "p1"}); query != "" {
		t.Errorf("update with only key = %q, want empty", query)
	}

	wantDelete := `DELETE FROM "public"."people" WHERE "id"::text = ANY($1)`
	if got := buildDelete(table, def); got != wantDelete {
		t.Errorf("delete = %q, want %q", got, wantDelete)
	}
}

func TestPostgresProvider_RequiresKeyField(t *testing.T) {
	def := testDef()
	def.KeyField = ""
	if _, err := (PostgresProvider{}).Open(context.Background(), def); err == nil {
		t.Error("Open() error = nil, want error without key field")
	}
}
