package web

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/JonMunkholm/gridstate/internal/core"
	"github.com/JonMunkholm/gridstate/internal/export"
	"github.com/JonMunkholm/gridstate/internal/grid"
	"github.com/JonMunkholm/gridstate/internal/logging"
	"github.com/JonMunkholm/gridstate/internal/web/templates"
	"github.com/go-chi/chi/v5"
)

// TableResponse describes a registered table.
type TableResponse struct {
	Key     string           `json:"key"`
	Group   string           `json:"group"`
	Label   string           `json:"label"`
	Columns []ColumnResponse `json:"columns"`
}

// ColumnResponse describes a column of a table.
type ColumnResponse struct {
	ID       string             `json:"id"`
	Label    string             `json:"label"`
	Variant  core.FilterVariant `json:"variant"`
	Sortable bool               `json:"sortable"`
	Options  []string           `json:"options,omitempty"`
}

// SessionResponse summarizes an open session.
type SessionResponse struct {
	ID       string `json:"id"`
	Table    string `json:"table"`
	Created  string `json:"created"`
	LastUsed string `json:"lastUsed"`
}

func tableResponse(def core.TableDefinition) TableResponse {
	resp := TableResponse{Key: def.Info.Key, Group: def.Info.Group, Label: def.Info.Label}
	for _, c := range def.Columns {
		resp.Columns = append(resp.Columns, ColumnResponse{
			ID:       c.ID,
			Label:    c.DisplayLabel(),
			Variant:  c.Variant,
			Sortable: c.Sortable,
			Options:  c.Options,
		})
	}
	return resp
}

func sessionResponse(sess *grid.Session) SessionResponse {
	return SessionResponse{
		ID:       sess.ID,
		Table:    sess.Table().Info.Key,
		Created:  sess.Created.Format("2006-01-02T15:04:05Z07:00"),
		LastUsed: sess.LastUsed().UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

// ----------------------------------------------------------------------------
// Pages
// ----------------------------------------------------------------------------

// handleIndex lists the registered tables.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "Tables", templates.Index(tableGroups(s.svc.Tables())))
}

// tableGroups groups defs for the index page. Definitions arrive sorted by
// group, so a group ends where the next one starts.
func tableGroups(defs []core.TableDefinition) []templates.TableGroup {
	var groups []templates.TableGroup
	for _, def := range defs {
		if len(groups) == 0 || groups[len(groups)-1].Name != def.Info.Group {
			groups = append(groups, templates.TableGroup{Name: def.Info.Group})
		}
		g := &groups[len(groups)-1]
		g.Tables = append(g.Tables, templates.TableLink{Key: def.Info.Key, Label: def.Info.Label})
	}
	return groups
}

// handleOpenTablePage opens a session and redirects to its page.
func (s *Server) handleOpenTablePage(w http.ResponseWriter, r *http.Request) {
	sess, err := s.svc.Open(r.Context(), chi.URLParam(r, "tableKey"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.redirectToSession(w, r, sess.ID)
}

// handleSessionPage renders the current page of a session.
func (s *Server) handleSessionPage(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	v := sess.View(s.languageFor(r))
	s.render(w, r, v.Label, templates.Session(v))
}

// handleSessionForm applies one state action posted by a page control.
func (s *Server) handleSessionForm(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	req, err := formAction(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	a, err := toAction(req, sess.Store().Schema())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if err := sess.Dispatch(a); err != nil {
		s.respondError(w, r, err)
		return
	}
	s.redirectToSession(w, r, sess.ID)
}

// redirectToSession sends the browser back to the session page, keeping
// an explicit ?lang.
func (s *Server) redirectToSession(w http.ResponseWriter, r *http.Request, id string) {
	target := "/sessions/" + url.PathEscape(id)
	if lang := r.URL.Query().Get("lang"); lang != "" {
		target += "?lang=" + url.QueryEscape(lang)
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

// ----------------------------------------------------------------------------
// API: tables and sessions
// ----------------------------------------------------------------------------

// handleListTables returns all registered tables.
func (s *Server) handleListTables(w http.ResponseWriter, r *http.Request) {
	defs := s.svc.Tables()
	out := make([]TableResponse, 0, len(defs))
	for _, def := range defs {
		out = append(out, tableResponse(def))
	}
	writeJSON(w, out)
}

// handleStatus reports open sessions and export capacity.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"sessions": s.svc.Len(),
		"exports":  s.svc.Limiter().Status(),
	})
}

// handleOpenSession opens a session on {"table": key} and returns its view.
func (s *Server) handleOpenSession(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Table string `json:"table"`
	}
	raw, err := readBody(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if err := decodeJSON(raw, &body); err != nil {
		s.respondError(w, r, err)
		return
	}
	if body.Table == "" {
		s.respondError(w, r, fmt.Errorf("%w: missing table", grid.ErrTableNotFound))
		return
	}

	sess, err := s.svc.Open(r.Context(), body.Table)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/sessions/"+url.PathEscape(sess.ID))
	writeJSONStatus(w, http.StatusCreated, sess.View(s.languageFor(r)))
}

// handleListSessions returns the open sessions.
func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions := s.svc.Sessions()
	out := make([]SessionResponse, 0, len(sessions))
	for _, sess := range sessions {
		out = append(out, sessionResponse(sess))
	}
	writeJSON(w, out)
}

// handleGetView returns the rendered view of a session.
func (s *Server) handleGetView(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, sess.View(s.languageFor(r)))
}

// handleCloseSession closes a session.
func (s *Server) handleCloseSession(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Close(r.Context(), chi.URLParam(r, "sessionID")); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleDispatch applies one action or an array of actions and returns the
// resulting view. Every action is decoded before any is applied, so a
// malformed batch changes nothing.
func (s *Server) handleDispatch(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	body, err := readBody(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	reqs, err := decodeActions(body)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	schema := sess.Store().Schema()
	actions := make([]core.Action, 0, len(reqs))
	for _, req := range reqs {
		a, err := toAction(req, schema)
		if err != nil {
			s.respondError(w, r, err)
			return
		}
		actions = append(actions, a)
	}
	for _, a := range actions {
		if err := sess.Dispatch(a); err != nil {
			s.respondError(w, r, fmt.Errorf("%s: %w", core.ActionName(a), err))
			return
		}
	}
	writeJSON(w, sess.View(s.languageFor(r)))
}

// handleReload fetches the rows again. A failed fetch is reported in the
// returned view as well as the status code.
func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	if err := sess.Reload(r.Context()); err != nil {
		var fe *core.FetchError
		if errors.As(err, &fe) {
			writeJSONStatus(w, http.StatusBadGateway, sess.View(s.languageFor(r)))
			return
		}
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, sess.View(s.languageFor(r)))
}

// handleFacets returns the filter choices of a column.
func (s *Server) handleFacets(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	facet, err := sess.Facets(chi.URLParam(r, "column"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, facet)
}

// ----------------------------------------------------------------------------
// API: export
// ----------------------------------------------------------------------------

// handleExport encodes the session rows. Query parameters:
//
//	scope    selected (default) or all
//	format   csv, json, xlsx or parquet
//	filename download name without extension
//	exclude  comma-separated column ids left out
//	save     when true, store the file and return its location as JSON
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	formatName := q.Get("format")
	if formatName == "" {
		formatName = s.cfg.Export.DefaultFormat
	}
	format, err := export.ParseFormat(formatName)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	req := grid.ExportRequest{
		Scope:    grid.ExportScope(q.Get("scope")),
		Format:   format,
		Filename: q.Get("filename"),
		Exclude:  parseList(r, "exclude"),
		Save:     q.Get("save") == "true",
	}
	res, err := sess.Export(r.Context(), req)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if req.Save {
		writeJSON(w, res)
		return
	}

	w.Header().Set("Content-Type", res.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, res.Name))
	if _, err := w.Write(res.Data); err != nil {
		logging.FromContext(r.Context()).Warn("export write failed", "session", sess.ID, "error", err)
	}
}
