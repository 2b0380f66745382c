package grid

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/JonMunkholm/gridstate/internal/audit"
	"github.com/JonMunkholm/gridstate/internal/core"
	"github.com/JonMunkholm/gridstate/internal/core/tables"
	"github.com/JonMunkholm/gridstate/internal/events"
	"github.com/JonMunkholm/gridstate/internal/export"
	"github.com/JonMunkholm/gridstate/internal/i18n"
	"github.com/JonMunkholm/gridstate/internal/source"
)

func person(id, first, last string, age float64, status string) core.Record {
	return core.Record{
		"id":         id,
		"firstName":  first,
		"lastName":   last,
		"gender":     "female",
		"jobType":    "Engineer",
		"address":    "1 Main St",
		"locality":   "Norway",
		"age":        age,
		"visits":     10.0,
		"status":     status,
		"lastUpdate": time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
	}
}

func peopleRows() []core.Record {
	return []core.Record{
		person("p1", "Alice", "Smith", 30, "single"),
		person("p2", "Bruno", "Rossi", 45, "relationship"),
		person("p3", "Chidi", "Okafor", 25, "complicated"),
		person("p4", "Dmitri", "Petrov", 38, "single"),
		person("p5", "Elif", "Kaya", 41, "relationship"),
	}
}

type fixture struct {
	svc    *Service
	audit  *audit.Memory
	events *events.Recorder
}

func newFixture(t *testing.T, opts Options) fixture {
	t.Helper()
	f := fixture{audit: audit.NewMemory(0), events: &events.Recorder{}}
	if opts.Provider == nil {
		opts.Provider = source.NewMemoryProvider(map[string][]core.Record{"people": peopleRows()})
	}
	opts.Audit = f.audit
	opts.Events = f.events
	f.svc = NewService(opts)
	return f
}

func (f fixture) open(t *testing.T) *Session {
	t.Helper()
	sess, err := f.svc.Open(context.Background(), "people")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	return sess
}

func (f fixture) actions(t *testing.T) []core.AuditAction {
	t.Helper()
	res, err := f.audit.List(context.Background(), audit.ListOptions{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	out := make([]core.AuditAction, len(res.Entries))
	for i, e := range res.Entries {
		out[i] = e.Action
	}
	return out
}

func mustDispatch(t *testing.T, sess *Session, actions ...core.Action) {
	t.Helper()
	for _, a := range actions {
		if err := sess.Dispatch(a); err != nil {
			t.Fatalf("Dispatch(%s) error = %v", core.ActionName(a), err)
		}
	}
}

func rowIDs(rows []core.Record) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = core.Stringify(r["id"])
	}
	return out
}

type failingProvider struct{ err error }

func (p failingProvider) Open(context.Context, core.TableDefinition) (source.Source, error) {
	return failingSource{err: p.err}, nil
}

type failingSource struct{ err error }

func (s failingSource) Fetch(context.Context) ([]core.Record, error) { return nil, s.err }
func (s failingSource) Insert(context.Context, core.Record) error    { return s.err }
func (s failingSource) Update(context.Context, core.Record) error    { return s.err }
func (s failingSource) Delete(context.Context, []core.Record) error  { return s.err }

// ----------------------------------------------------------------------------
// Service Tests
// ----------------------------------------------------------------------------

func TestOpen_UnknownTable(t *testing.T) {
	f := newFixture(t, Options{})
	_, err := f.svc.Open(context.Background(), "nope")
	if !errors.Is(err, ErrTableNotFound) {
		t.Errorf("Open() error = %v, want ErrTableNotFound", err)
	}
	if got := core.MapError(err).Code; got != "SES002" {
		t.Errorf("MapError().Code = %s, want SES002", got)
	}
}

func TestOpen_LoadsRows(t *testing.T) {
	f := newFixture(t, Options{})
	sess := f.open(t)

	st := sess.State()
	if len(st.Rows) != 5 {
		t.Errorf("len(Rows) = %d, want 5", len(st.Rows))
	}
	if st.PageSize != core.DefaultPageSize {
		t.Errorf("PageSize = %d, want %d", st.PageSize, core.DefaultPageSize)
	}
	if !strings.HasPrefix(sess.ID, "ses_") {
		t.Errorf("ID = %q, want ses_ prefix", sess.ID)
	}
	if got := f.events.Topics(); len(got) != 1 || got[0] != events.TopicSessionOpened {
		t.Errorf("Topics() = %v, want [%s]", got, events.TopicSessionOpened)
	}
}

func TestOpen_DemoRows(t *testing.T) {
	rows := tables.DemoPeople(30, 7, time.Now())
	f := newFixture(t, Options{
		Provider: source.NewMemoryProvider(map[string][]core.Record{"people": rows}),
	})
	sess := f.open(t)
	if got := len(sess.State().Rows); got != 30 {
		t.Errorf("len(Rows) = %d, want 30", got)
	}
	if got := sess.store.PageCount(sess.State()); got != 3 {
		t.Errorf("PageCount() = %d, want 3", got)
	}
}

func TestOpen_FetchFailureIsKeptInState(t *testing.T) {
	f := newFixture(t, Options{Provider: failingProvider{err: errors.New("connection refused")}})
	sess := f.open(t)

	st := sess.State()
	var fe *core.FetchError
	if !errors.As(st.FetchErr, &fe) {
		t.Fatalf("FetchErr = %v, want *FetchError", st.FetchErr)
	}
	v := sess.View(i18n.EN)
	if v.FetchError == nil || v.FetchError.Code != "SRC001" {
		t.Errorf("View().FetchError = %+v, want SRC001", v.FetchError)
	}
	if len(v.Rows) != 0 {
		t.Errorf("len(View().Rows) = %d, want 0", len(v.Rows))
	}
	if err := sess.Reload(context.Background()); !errors.As(err, &fe) {
		t.Errorf("Reload() error = %v, want *FetchError", err)
	}
}

func TestOpen_MaxSessions(t *testing.T) {
	f := newFixture(t, Options{MaxSessions: 1})
	f.open(t)
	_, err := f.svc.Open(context.Background(), "people")
	if !errors.Is(err, ErrTooManySessions) {
		t.Errorf("Open() error = %v, want ErrTooManySessions", err)
	}
}

func TestSessionLookupAndClose(t *testing.T) {
	f := newFixture(t, Options{})
	sess := f.open(t)
	ctx := context.Background()

	got, err := f.svc.Session(sess.ID)
	if err != nil || got != sess {
		t.Fatalf("Session() = %v, %v, want the opened session", got, err)
	}
	if err := f.svc.Close(ctx, sess.ID); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if _, err := f.svc.Session(sess.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Session() after Close error = %v, want ErrSessionNotFound", err)
	}
	if err := f.svc.Close(ctx, sess.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("second Close() error = %v, want ErrSessionNotFound", err)
	}

	topics := f.events.Topics()
	if topics[len(topics)-1] != events.TopicSessionClosed {
		t.Errorf("last topic = %s, want %s", topics[len(topics)-1], events.TopicSessionClosed)
	}
}

func TestReap(t *testing.T) {
	f := newFixture(t, Options{SessionTTL: time.Minute})
	f.open(t)
	f.open(t)
	ctx := context.Background()

	if got := f.svc.Reap(ctx, time.Now()); got != 0 {
		t.Errorf("Reap(now) = %d, want 0", got)
	}
	if got := f.svc.Reap(ctx, time.Now().Add(2*time.Minute)); got != 2 {
		t.Errorf("Reap(now+2m) = %d, want 2", got)
	}
	if got := f.svc.Len(); got != 0 {
		t.Errorf("Len() = %d, want 0", got)
	}
}

func TestSessionsAreIndependent(t *testing.T) {
	f := newFixture(t, Options{})
	a := f.open(t)
	b := f.open(t)

	mustDispatch(t, a, core.SetGlobalFilter{Query: "alice"})
	if got := len(a.store.VisibleRows(a.State())); got != 1 {
		t.Errorf("a visible = %d, want 1", got)
	}
	if got := len(b.store.VisibleRows(b.State())); got != 5 {
		t.Errorf("b visible = %d, want 5", got)
	}
}

// ----------------------------------------------------------------------------
// View Tests
// ----------------------------------------------------------------------------

func TestView(t *testing.T) {
	f := newFixture(t, Options{PageSize: 2})
	sess := f.open(t)

	v := sess.View("")
	if v.Language != i18n.EN {
		t.Errorf("Language = %s, want en", v.Language)
	}
	if len(v.Columns) != 10 || v.Columns[0].ID != "firstName" {
		t.Fatalf("Columns = %+v, want 10 starting with firstName", v.Columns)
	}
	if len(v.Rows) != 2 || v.Rows[0].ID != "p1" || v.Rows[0].Cells[0] != "Alice" {
		t.Errorf("Rows = %+v, want p1 Alice first of 2", v.Rows)
	}
	if v.PageCount != 3 || v.PageLabel != "Page 1 of 3" {
		t.Errorf("PageCount = %d, PageLabel = %q, want 3, Page 1 of 3", v.PageCount, v.PageLabel)
	}
	if v.SelectedLabel != "0 of 5 row(s) selected." {
		t.Errorf("SelectedLabel = %q", v.SelectedLabel)
	}
	if len(v.Actions) != 1 || v.Actions[0] != ActionDeleteRow {
		t.Errorf("Actions = %v, want [%s]", v.Actions, ActionDeleteRow)
	}

	mustDispatch(t, sess,
		core.SetColumnFilter{Column: "status", Value: core.SelectFilter{Value: "single"}},
		core.SetSelectingMode{Enabled: true},
		core.ToggleRowSelected{ID: "p4"},
		core.Pin{Column: "age", Side: core.PinLeft},
	)
	v = sess.View(i18n.DE)
	if v.Columns[0].ID != "age" {
		t.Errorf("first column = %s, want pinned age", v.Columns[0].ID)
	}
	if len(v.Chips) != 1 || v.Chips[0].Text == "" {
		t.Errorf("Chips = %+v, want one described chip", v.Chips)
	}
	if v.Summary.Selected != 1 || v.Summary.Visible != 2 {
		t.Errorf("Summary = %+v, want 1 of 2", v.Summary)
	}
	if v.SelectedLabel != "1 von 2 Zeile(n) ausgewählt." {
		t.Errorf("SelectedLabel = %q", v.SelectedLabel)
	}
	if !v.Rows[1].Selected || v.Rows[0].Selected {
		t.Errorf("row selection flags = %v, %v, want false, true", v.Rows[0].Selected, v.Rows[1].Selected)
	}
}

func TestFacets(t *testing.T) {
	f := newFixture(t, Options{})
	sess := f.open(t)

	facet, err := sess.Facets("age")
	if err != nil {
		t.Fatalf("Facets(age) error = %v", err)
	}
	if facet.Min == nil || *facet.Min != 25 || facet.Max == nil || *facet.Max != 45 {
		t.Errorf("age facet = %+v, want 25..45", facet)
	}

	facet, err = sess.Facets("status")
	if err != nil {
		t.Fatalf("Facets(status) error = %v", err)
	}
	if strings.Join(facet.Values, ",") != "complicated,relationship,single" {
		t.Errorf("status values = %v", facet.Values)
	}

	if _, err := sess.Facets("nope"); !errors.Is(err, core.ErrUnknownColumnID) {
		t.Errorf("Facets(nope) error = %v, want ErrUnknownColumnID", err)
	}
}

func TestFacets_IgnoreActiveFilters(t *testing.T) {
	f := newFixture(t, Options{})
	sess := f.open(t)
	mustDispatch(t, sess,
		core.SetColumnFilter{Column: "status", Value: core.SelectFilter{Value: "single"}},
		core.SetColumnFilter{Column: "age", Value: core.RangeFilter{Min: core.Float(35)}},
	)
	if v := sess.View(i18n.EN); len(v.Rows) != 1 {
		t.Fatalf("visible rows = %d, want 1", len(v.Rows))
	}

	facet, err := sess.Facets("age")
	if err != nil {
		t.Fatalf("Facets(age) error = %v", err)
	}
	if facet.Min == nil || *facet.Min != 25 || facet.Max == nil || *facet.Max != 45 {
		t.Errorf("age facet = %+v, want 25..45", facet)
	}
	facet, err = sess.Facets("status")
	if err != nil {
		t.Fatalf("Facets(status) error = %v", err)
	}
	if strings.Join(facet.Values, ",") != "complicated,relationship,single" {
		t.Errorf("status values = %v, want all three", facet.Values)
	}
}

// ----------------------------------------------------------------------------
// Mutation Tests
// ----------------------------------------------------------------------------

func TestSubmitNew(t *testing.T) {
	f := newFixture(t, Options{})
	sess := f.open(t)
	ctx := context.Background()

	_, err := sess.SubmitNew(ctx, map[string]core.Value{"firstName": "Al"})
	var vf *core.ValidationFailure
	if !errors.As(err, &vf) {
		t.Fatalf("SubmitNew(invalid) error = %v, want *ValidationFailure", err)
	}
	if len(sess.State().Rows) != 5 || len(f.actions(t)) != 0 {
		t.Errorf("invalid submit changed rows or audit")
	}

	row, err := sess.SubmitNew(ctx, map[string]core.Value{
		"firstName": "Grace", "lastName": "Hopper", "address": "2 Navy Way",
		"status": "single", "gender": "female", "locality": "Denmark", "age": "85",
	})
	if err != nil {
		t.Fatalf("SubmitNew() error = %v", err)
	}
	if row["firstName"] != "Grace" {
		t.Errorf("row = %v", row)
	}
	if got := len(sess.State().Rows); got != 6 {
		t.Errorf("len(Rows) = %d, want 6", got)
	}
	if got := f.actions(t); len(got) != 1 || got[0] != core.ActionRowAdd {
		t.Errorf("audit actions = %v, want [row_add]", got)
	}
	topics := f.events.Topics()
	if topics[len(topics)-1] != events.TopicRowAdded {
		t.Errorf("last topic = %s, want %s", topics[len(topics)-1], events.TopicRowAdded)
	}

	var added core.Record
	for _, r := range sess.State().Rows {
		if r["firstName"] == "Grace" {
			added = r
		}
	}
	if added["age"] != 85.0 {
		t.Errorf("stored age = %v (%T), want float64 85", added["age"], added["age"])
	}
	if id, _ := added["id"].(string); !strings.HasPrefix(id, "row_") {
		t.Errorf("generated id = %v, want row_ prefix", added["id"])
	}
}

func TestSubmitEdit(t *testing.T) {
	f := newFixture(t, Options{})
	sess := f.open(t)
	ctx := context.Background()

	values, err := sess.EditDefaults("p1")
	if err != nil {
		t.Fatalf("EditDefaults() error = %v", err)
	}
	if values["firstName"] != "Alice" {
		t.Errorf("EditDefaults()[firstName] = %v, want Alice", values["firstName"])
	}

	values["firstName"] = "Alicia"
	values["id"] = "hijack"
	updated, err := sess.SubmitEdit(ctx, "p1", values)
	if err != nil {
		t.Fatalf("SubmitEdit() error = %v", err)
	}
	if updated["id"] != "p1" || updated["age"] != 30.0 {
		t.Errorf("updated = %v, want id p1 and age kept", updated)
	}

	row, ok := sess.store.Row(sess.State(), "p1")
	if !ok || row["firstName"] != "Alicia" || row["lastName"] != "Smith" {
		t.Errorf("stored row = %v", row)
	}
	if got := f.actions(t); len(got) != 1 || got[0] != core.ActionRowEdit {
		t.Errorf("audit actions = %v, want [row_edit]", got)
	}

	if _, err := sess.EditDefaults("missing"); !errors.Is(err, core.ErrRowNotFound) {
		t.Errorf("EditDefaults(missing) error = %v, want ErrRowNotFound", err)
	}
	if _, err := sess.SubmitEdit(ctx, "missing", values); !errors.Is(err, core.ErrRowNotFound) {
		t.Errorf("SubmitEdit(missing) error = %v, want ErrRowNotFound", err)
	}
}

func TestDeleteSelected(t *testing.T) {
	f := newFixture(t, Options{})
	sess := f.open(t)
	ctx := context.Background()

	if _, err := sess.DeleteSelected(ctx); !errors.Is(err, core.ErrNotSelecting) {
		t.Errorf("DeleteSelected() error = %v, want ErrNotSelecting", err)
	}
	mustDispatch(t, sess, core.SetSelectingMode{Enabled: true})
	if _, err := sess.DeleteSelected(ctx); !errors.Is(err, core.ErrNothingSelected) {
		t.Errorf("DeleteSelected() error = %v, want ErrNothingSelected", err)
	}

	mustDispatch(t, sess,
		core.ToggleRowSelected{ID: "p1"},
		core.ToggleRowSelected{ID: "p2"},
	)
	deleted, err := sess.DeleteSelected(ctx)
	if err != nil {
		t.Fatalf("DeleteSelected() error = %v", err)
	}
	if got := strings.Join(rowIDs(deleted), ","); got != "p1,p2" {
		t.Errorf("deleted = %s, want p1,p2", got)
	}

	st := sess.State()
	if got := strings.Join(rowIDs(st.Rows), ","); got != "p3,p4,p5" {
		t.Errorf("rows = %s, want p3,p4,p5", got)
	}
	if len(st.Selection) != 0 {
		t.Errorf("Selection = %v, want empty", st.Selection)
	}

	res, _ := f.audit.List(ctx, audit.ListOptions{})
	if len(res.Entries) != 1 || res.Entries[0].Action != core.ActionBulkDelete || res.Entries[0].RowsAffected != 2 {
		t.Errorf("audit = %+v, want one bulk_delete of 2", res.Entries)
	}
}

// ----------------------------------------------------------------------------
// Keyless Table Tests
// ----------------------------------------------------------------------------

const notesTable = `
[[table]]
key = "grid_notes"
group = "Test"
label = "Notes"

[[table.column]]
id = "title"
label = "Title"
filter = "text"

[[table.field]]
id = "title"
label = "Title"
type = "text"
required = true
`

var registerNotes = sync.OnceValue(func() error {
	defs, err := tables.Decode(strings.NewReader(notesTable))
	if err != nil {
		return err
	}
	for _, def := range defs {
		core.Register(def)
	}
	return nil
})

func openNotes(t *testing.T) (*Session, *source.MemoryProvider) {
	t.Helper()
	if err := registerNotes(); err != nil {
		t.Fatalf("register notes: %v", err)
	}
	p := source.NewMemoryProvider(map[string][]core.Record{
		"grid_notes": {{"title": "alpha"}, {"title": "dup"}, {"title": "dup"}},
	})
	f := newFixture(t, Options{Provider: p})
	sess, err := f.svc.Open(context.Background(), "grid_notes")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	return sess, p
}

func titles(rows []core.Record) string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = core.Stringify(r["title"])
	}
	return strings.Join(out, ",")
}

func TestKeyless_SubmitEdit(t *testing.T) {
	sess, _ := openNotes(t)
	key := sess.store.Key()
	id := key(sess.State().Rows[0])

	updated, err := sess.SubmitEdit(context.Background(), id, map[string]core.Value{"title": "alphabet"})
	if err != nil {
		t.Fatalf("SubmitEdit() error = %v", err)
	}
	if key(updated) != id {
		t.Errorf("edited row id = %s, want %s", key(updated), id)
	}
	if got := titles(sess.State().Rows); got != "alphabet,dup,dup" {
		t.Errorf("rows = %s, want alphabet,dup,dup", got)
	}
	if row, ok := sess.store.Row(sess.State(), id); !ok || row["title"] != "alphabet" {
		t.Errorf("Row(%s) = %v, %v", id, row, ok)
	}
}

func TestKeyless_IdenticalRowsSelectIndependently(t *testing.T) {
	sess, _ := openNotes(t)
	rows := sess.State().Rows
	key := sess.store.Key()
	if key(rows[1]) == key(rows[2]) {
		t.Fatalf("identical rows share id %s", key(rows[1]))
	}

	mustDispatch(t, sess,
		core.SetSelectingMode{Enabled: true},
		core.ToggleRowSelected{ID: key(rows[1])},
	)
	sum := sess.View(i18n.EN).Summary
	if sum.Selected != 1 || sum.Visible != 3 {
		t.Errorf("Summary = %+v, want 1 of 3", sum)
	}

	deleted, err := sess.DeleteSelected(context.Background())
	if err != nil {
		t.Fatalf("DeleteSelected() error = %v", err)
	}
	if len(deleted) != 1 {
		t.Errorf("deleted %d rows, want 1", len(deleted))
	}
	if got := titles(sess.State().Rows); got != "alpha,dup" {
		t.Errorf("rows = %s, want alpha,dup", got)
	}
}

func TestDeleteSelected_ReadOnlySource(t *testing.T) {
	dir := t.TempDir()
	csv := "id,First Name,Last Name,Age\np1,Alice,Smith,30\np2,Bruno,Rossi,45\n"
	if err := os.WriteFile(filepath.Join(dir, "people.csv"), []byte(csv), 0o644); err != nil {
		t.Fatal(err)
	}
	f := newFixture(t, Options{Provider: source.FileProvider{Dir: dir}})
	sess := f.open(t)

	if got := len(sess.State().Rows); got != 2 {
		t.Fatalf("len(Rows) = %d, want 2", got)
	}
	mustDispatch(t, sess, core.SetSelectingMode{Enabled: true}, core.SelectAllVisibleRows{})
	if _, err := sess.DeleteSelected(context.Background()); !errors.Is(err, core.ErrReadOnlySource) {
		t.Errorf("DeleteSelected() error = %v, want ErrReadOnlySource", err)
	}
	if got := len(sess.State().Selection); got != 2 {
		t.Errorf("selection after failed delete = %d, want 2", got)
	}
	if len(f.actions(t)) != 0 {
		t.Error("failed delete was audited")
	}
}

func TestDeleteRow(t *testing.T) {
	f := newFixture(t, Options{})
	sess := f.open(t)
	ctx := context.Background()

	if err := sess.DeleteRow(ctx, "p3"); err != nil {
		t.Fatalf("DeleteRow() error = %v", err)
	}
	if _, ok := sess.store.Row(sess.State(), "p3"); ok {
		t.Error("p3 still present")
	}
	res, _ := f.audit.List(ctx, audit.ListOptions{})
	if len(res.Entries) != 1 || res.Entries[0].Severity != core.SeverityHigh {
		t.Errorf("audit = %+v, want one high severity entry", res.Entries)
	}
	if err := sess.DeleteRow(ctx, "p3"); !errors.Is(err, core.ErrRowNotFound) {
		t.Errorf("DeleteRow(p3) again error = %v, want ErrRowNotFound", err)
	}
}

func TestRunAction(t *testing.T) {
	f := newFixture(t, Options{})
	sess := f.open(t)
	ctx := context.Background()

	var gotID any
	var gotAll int
	sess.RegisterAction("COPY_TO_CLIPBOARD", func(_ context.Context, row core.Record, all []core.Record) error {
		gotID, gotAll = row["id"], len(all)
		return nil
	})
	if got := strings.Join(sess.Actions(), ","); got != "COPY_TO_CLIPBOARD,DELETE_ROW" {
		t.Errorf("Actions() = %s", got)
	}
	if err := sess.RunAction(ctx, "COPY_TO_CLIPBOARD", "p2"); err != nil {
		t.Fatalf("RunAction() error = %v", err)
	}
	if gotID != "p2" || gotAll != 5 {
		t.Errorf("action got row %v with %d rows, want p2 with 5", gotID, gotAll)
	}
	if err := sess.RunAction(ctx, "NOPE", "p2"); !errors.Is(err, ErrUnknownAction) {
		t.Errorf("RunAction(NOPE) error = %v, want ErrUnknownAction", err)
	}
}

// ----------------------------------------------------------------------------
// Export Tests
// ----------------------------------------------------------------------------

func TestExport_All(t *testing.T) {
	f := newFixture(t, Options{})
	sess := f.open(t)
	mustDispatch(t, sess, core.SetGlobalFilter{Query: "alice"})

	res, err := sess.Export(context.Background(), ExportRequest{Scope: ScopeAll, Format: export.FormatCSV, Filename: "people"})
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if res.Rows != 5 {
		t.Errorf("Rows = %d, want 5 regardless of filters", res.Rows)
	}
	if res.Name != "people.csv" || res.ContentType != export.FormatCSV.ContentType() {
		t.Errorf("Name = %s, ContentType = %s", res.Name, res.ContentType)
	}
	if !strings.HasPrefix(string(res.Data), "First Name,Last Name,") {
		t.Errorf("Data starts %q", string(res.Data[:min(40, len(res.Data))]))
	}
	if got := f.actions(t); len(got) != 1 || got[0] != core.ActionExport {
		t.Errorf("audit actions = %v, want [export]", got)
	}
}

func TestExport_Selected(t *testing.T) {
	f := newFixture(t, Options{})
	sess := f.open(t)
	ctx := context.Background()

	if _, err := sess.Export(ctx, ExportRequest{Format: export.FormatCSV}); !errors.Is(err, core.ErrNotSelecting) {
		t.Errorf("Export() error = %v, want ErrNotSelecting", err)
	}

	mustDispatch(t, sess,
		core.SetSelectingMode{Enabled: true},
		core.ToggleRowSelected{ID: "p1"},
		core.ToggleRowSelected{ID: "p2"},
		core.SetGlobalFilter{Query: "bruno"},
		core.ToggleVisibility{Column: "address"},
	)
	res, err := sess.Export(ctx, ExportRequest{Scope: ScopeSelected, Format: export.FormatCSV, Exclude: []string{"age"}})
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if res.Rows != 1 {
		t.Errorf("Rows = %d, want 1 visible selected row", res.Rows)
	}
	header := strings.SplitN(string(res.Data), "\n", 2)[0]
	if strings.Contains(header, "Age") || strings.Contains(header, "Address") {
		t.Errorf("header = %q, want no Age or Address", header)
	}
	if res.Name != "export.csv" {
		t.Errorf("Name = %s, want export.csv", res.Name)
	}
}

func TestExport_UnknownScope(t *testing.T) {
	f := newFixture(t, Options{})
	sess := f.open(t)
	_, err := sess.Export(context.Background(), ExportRequest{Scope: "page"})
	if err == nil || core.MapError(err).Code != "EXP003" {
		t.Errorf("Export() error = %v, want EXP003", err)
	}
}

func TestExport_SaveToSink(t *testing.T) {
	dir := t.TempDir()
	f := newFixture(t, Options{Sink: export.DirSink{Dir: dir}})
	sess := f.open(t)

	res, err := sess.Export(context.Background(), ExportRequest{Scope: ScopeAll, Format: export.FormatJSON, Save: true})
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if res.Location == "" {
		t.Fatal("Location is empty")
	}
	if _, err := os.Stat(filepath.Join(dir, "export.json")); err != nil {
		t.Errorf("saved file: %v", err)
	}
}

func TestExport_LimiterBusy(t *testing.T) {
	limiter := NewExportLimiter(1, 20*time.Millisecond)
	f := newFixture(t, Options{Limiter: limiter})
	sess := f.open(t)

	if !limiter.TryAcquire() {
		t.Fatal("TryAcquire() = false")
	}
	defer limiter.Release()

	_, err := sess.Export(context.Background(), ExportRequest{Scope: ScopeAll, Format: export.FormatCSV})
	if !errors.Is(err, ErrTooManyExports) {
		t.Errorf("Export() error = %v, want ErrTooManyExports", err)
	}
	if got := core.MapError(err).Code; got != "EXP001" {
		t.Errorf("MapError().Code = %s, want EXP001", got)
	}
}
