package grid

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/JonMunkholm/gridstate/internal/core"
	"github.com/JonMunkholm/gridstate/internal/events"
	"github.com/JonMunkholm/gridstate/internal/export"
	"github.com/JonMunkholm/gridstate/internal/i18n"
	"github.com/JonMunkholm/gridstate/internal/logging"
	"github.com/JonMunkholm/gridstate/internal/source"
)

var (
	// ErrUnknownAction is returned by RunAction for unregistered action names.
	ErrUnknownAction = errors.New("unknown row action")

	// ErrUnknownScope is returned by Export for an unsupported scope.
	ErrUnknownScope = errors.New("unknown export scope")
)

// ActionDeleteRow is the built-in context-menu action removing one row.
const ActionDeleteRow = i18n.KeyDeleteRow

// Session is one open table.
type Session struct {
	ID      string
	Created time.Time

	def   core.TableDefinition
	store *core.Store[core.Record]
	src   source.Source
	svc   *Service

	lastUsed atomic.Int64

	actionsMu sync.RWMutex
	actions   map[string]core.RowAction[core.Record]
}

func newSession(id string, def core.TableDefinition, store *core.Store[core.Record], src source.Source, svc *Service) *Session {
	sess := &Session{
		ID:      id,
		Created: time.Now().UTC(),
		def:     def,
		store:   store,
		src:     src,
		svc:     svc,
		actions: make(map[string]core.RowAction[core.Record]),
	}
	sess.touch()
	sess.actions[ActionDeleteRow] = sess.deleteRowAction
	return sess
}

func (s *Session) touch() { s.lastUsed.Store(time.Now().UnixNano()) }

// LastUsed returns when the session was last looked up or changed.
func (s *Session) LastUsed() time.Time { return time.Unix(0, s.lastUsed.Load()) }

// Table returns the session's table definition.
func (s *Session) Table() core.TableDefinition { return s.def }

// Store returns the underlying state store.
func (s *Session) Store() *core.Store[core.Record] { return s.store }

// State returns the current state snapshot.
func (s *Session) State() core.State[core.Record] { return s.store.GetState() }

// Dispatch applies a state action.
func (s *Session) Dispatch(a core.Action) error {
	s.touch()
	return s.store.Dispatch(a)
}

// Reload fetches the rows again. On failure the state holds the fetch
// error and an empty row set.
func (s *Session) Reload(ctx context.Context) error {
	s.touch()
	rows, err := s.src.Fetch(ctx)
	if err != nil {
		if derr := s.store.Dispatch(core.FetchFailed{Err: err}); derr != nil {
			return derr
		}
		return &core.FetchError{Err: err}
	}
	return s.store.Dispatch(core.ReplaceRows[core.Record]{Rows: rows})
}

// Facets summarizes column id over the full row set.
func (s *Session) Facets(id string) (core.Facet, error) {
	return core.ColumnFacet(s.State().Rows, id, s.store.Schema())
}

// ----------------------------------------------------------------------------
// Row mutations
// ----------------------------------------------------------------------------

// SubmitNew validates values and inserts the row into the source.
func (s *Session) SubmitNew(ctx context.Context, values map[string]core.Value) (core.Record, error) {
	s.touch()
	gw := core.Gateway{Spec: s.def.Validation, OnSubmitNewData: s.src.Insert}
	row, err := gw.SubmitNew(ctx, values)
	if err != nil {
		return nil, err
	}

	params := core.AuditLogParams{Action: core.ActionRowAdd, RowData: row, RowsAffected: 1}
	if s.def.KeyField != "" && !core.IsEmpty(row[s.def.KeyField]) {
		params.RowKeys = []core.RowID{s.store.Key()(row)}
	}
	s.record(ctx, params)
	s.reloadAfter(ctx, "add")
	return row, nil
}

// EditDefaults returns the form values of the row with id.
func (s *Session) EditDefaults(id core.RowID) (map[string]core.Value, error) {
	row, ok := s.store.Row(s.State(), id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrRowNotFound, id)
	}
	return core.EditDefaults(row, s.def.Validation), nil
}

// SubmitEdit validates values and writes them over the row with id. Fields
// outside the form keep their current values.
func (s *Session) SubmitEdit(ctx context.Context, id core.RowID, values map[string]core.Value) (core.Record, error) {
	s.touch()
	current, ok := s.store.Row(s.State(), id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrRowNotFound, id)
	}

	var updated core.Record
	gw := core.Gateway{
		Spec: s.def.Validation,
		OnSubmitEditData: func(ctx context.Context, row core.Record) error {
			updated = mergeRecord(current, row)
			for _, f := range []string{s.def.KeyField, core.RowKeyField} {
				if v, ok := current[f]; ok && f != "" {
					updated[f] = v
				}
			}
			return s.src.Update(ctx, updated)
		},
	}
	if _, err := gw.SubmitEdit(ctx, values); err != nil {
		return nil, err
	}

	s.record(ctx, core.AuditLogParams{
		Action:  core.ActionRowEdit,
		RowKeys: []core.RowID{id},
		RowData: updated,
		Detail:  map[string]any{"before": current},
	})
	s.reloadAfter(ctx, "edit")
	return updated, nil
}

// DeleteSelected removes the visible selected rows through the source.
// Selecting mode must be on.
func (s *Session) DeleteSelected(ctx context.Context) ([]core.Record, error) {
	s.touch()
	rows, err := s.store.BulkDelete(ctx, s.src.Delete)
	if err != nil {
		return nil, err
	}
	s.record(ctx, core.AuditLogParams{
		Action:  core.ActionBulkDelete,
		RowKeys: core.RowIDs(rows, s.store.Key()),
	})
	s.reloadAfter(ctx, "bulk delete")
	return rows, nil
}

// DeleteRow removes the row with id.
func (s *Session) DeleteRow(ctx context.Context, id core.RowID) error {
	return s.RunAction(ctx, ActionDeleteRow, id)
}

func (s *Session) deleteRowAction(ctx context.Context, row core.Record, _ []core.Record) error {
	if err := s.src.Delete(ctx, []core.Record{row}); err != nil {
		return fmt.Errorf("delete row: %w", err)
	}
	id := s.store.Key()(row)
	if err := s.store.Dispatch(core.RowsDeleted{IDs: []core.RowID{id}}); err != nil {
		return err
	}
	s.record(ctx, core.AuditLogParams{
		Action:  core.ActionRowDelete,
		RowKeys: []core.RowID{id},
		RowData: row,
	})
	s.reloadAfter(ctx, "delete")
	return nil
}

// reloadAfter refreshes rows after a successful mutation. A failed refresh
// is left in state for the caller to render; the mutation itself stands.
func (s *Session) reloadAfter(ctx context.Context, op string) {
	if err := s.Reload(ctx); err != nil {
		logging.FromContext(ctx).Warn("reload after mutation failed",
			"session", s.ID, "table", s.def.Info.Key, "op", op, "error", err)
	}
}

// ----------------------------------------------------------------------------
// Row actions
// ----------------------------------------------------------------------------

// RegisterAction adds or replaces a named row action.
func (s *Session) RegisterAction(name string, action core.RowAction[core.Record]) {
	s.actionsMu.Lock()
	defer s.actionsMu.Unlock()
	s.actions[name] = action
}

// Actions returns the registered action names, sorted.
func (s *Session) Actions() []string {
	s.actionsMu.RLock()
	defer s.actionsMu.RUnlock()
	names := make([]string, 0, len(s.actions))
	for name := range s.actions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RunAction invokes the action called name on the row with id.
func (s *Session) RunAction(ctx context.Context, name string, id core.RowID) error {
	s.touch()
	s.actionsMu.RLock()
	action, ok := s.actions[name]
	s.actionsMu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownAction, name)
	}
	return s.store.RunRowAction(ctx, id, action)
}

// ----------------------------------------------------------------------------
// Export
// ----------------------------------------------------------------------------

// ExportScope picks the rows an export covers.
type ExportScope string

const (
	// ScopeSelected exports the visible selected rows over visible columns.
	ScopeSelected ExportScope = "selected"
	// ScopeAll exports every row over every column.
	ScopeAll ExportScope = "all"
)

// ExportRequest describes one export.
type ExportRequest struct {
	Scope    ExportScope
	Format   export.Format
	Filename string
	// Exclude lists column ids left out of the file.
	Exclude []string
	// Save also stores the file in the service's sink.
	Save bool
}

// ExportResult is an encoded export.
type ExportResult struct {
	Name        string        `json:"name"`
	Format      export.Format `json:"format"`
	ContentType string        `json:"contentType"`
	Rows        int           `json:"rows"`
	Location    string        `json:"location,omitempty"`
	Data        []byte        `json:"-"`
}

// Export builds the matrix for req.Scope and encodes it.
func (s *Session) Export(ctx context.Context, req ExportRequest) (*ExportResult, error) {
	s.touch()
	if req.Format == "" {
		req.Format = export.FormatXLSX
	}
	if req.Scope == "" {
		req.Scope = ScopeSelected
	}

	var m core.Matrix
	switch req.Scope {
	case ScopeSelected:
		var err error
		if m, err = s.store.BulkExport(req.Exclude); err != nil {
			return nil, err
		}
	case ScopeAll:
		m = s.store.ExportAll(req.Exclude)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownScope, req.Scope)
	}

	if err := s.svc.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	data, err := export.Encode(req.Format, m)
	s.svc.limiter.Release()
	if err != nil {
		return nil, fmt.Errorf("export %s: %w", s.def.Info.Key, err)
	}

	res := &ExportResult{
		Name:        export.Filename(req.Filename, req.Format),
		Format:      req.Format,
		ContentType: req.Format.ContentType(),
		Rows:        m.Rows(),
		Data:        data,
	}
	if req.Save && s.svc.sink != nil {
		loc, err := s.svc.sink.Put(ctx, res.Name, res.ContentType, data)
		if err != nil {
			return nil, fmt.Errorf("save export: %w", err)
		}
		res.Location = loc
	}

	s.record(ctx, core.AuditLogParams{
		Action:       core.ActionExport,
		RowsAffected: res.Rows,
		Detail: map[string]any{
			"format":   string(res.Format),
			"scope":    string(req.Scope),
			"name":     res.Name,
			"location": res.Location,
		},
	})
	return res, nil
}

// ----------------------------------------------------------------------------
// Audit
// ----------------------------------------------------------------------------

// record writes an audit entry and publishes it. Failures are logged.
func (s *Session) record(ctx context.Context, params core.AuditLogParams) {
	params.TableKey = s.def.Info.Key
	params.SessionID = s.ID
	entry := core.NewAuditEntry(ctx, params)

	log := logging.FromContext(ctx)
	if err := s.svc.audit.Record(ctx, entry); err != nil {
		log.Error("audit record failed", "session", s.ID, "table", entry.TableKey, "action", entry.Action, "error", err)
	}
	log.Info("table changed",
		"session", s.ID,
		"table", entry.TableKey,
		"action", entry.Action,
		"rows", entry.RowsAffected,
	)
	s.svc.publish(ctx, events.New(events.TopicForAction(entry.Action), entry.TableKey, s.ID, entry))
}

func mergeRecord(base, over core.Record) core.Record {
	out := make(core.Record, len(base)+len(over))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range over {
		out[k] = v
	}
	return out
}
