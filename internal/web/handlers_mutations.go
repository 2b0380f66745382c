package web

import (
	"net/http"

	"github.com/JonMunkholm/gridstate/internal/core"
	"github.com/go-chi/chi/v5"
)

// RowResponse is the result of a row mutation.
type RowResponse struct {
	Row core.Record `json:"row"`
}

// DeleteResponse reports the rows removed by a bulk delete.
type DeleteResponse struct {
	Deleted []core.RowID `json:"deleted"`
	Count   int          `json:"count"`
}

// handleAddRow validates a new row and inserts it.
func (s *Server) handleAddRow(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	values, err := decodeValues(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	row, err := sess.SubmitNew(r.Context(), values)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, RowResponse{Row: row})
}

// handleEditDefaults returns the values pre-filling the edit form of a row.
func (s *Server) handleEditDefaults(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	values, err := sess.EditDefaults(core.RowID(chi.URLParam(r, "rowID")))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, values)
}

// handleEditRow validates values and writes them over a row.
func (s *Server) handleEditRow(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	values, err := decodeValues(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	row, err := sess.SubmitEdit(r.Context(), core.RowID(chi.URLParam(r, "rowID")), values)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, RowResponse{Row: row})
}

// handleDeleteRow removes one row.
func (s *Server) handleDeleteRow(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	if err := sess.DeleteRow(r.Context(), core.RowID(chi.URLParam(r, "rowID"))); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleRowAction runs a registered row action.
func (s *Server) handleRowAction(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	name := chi.URLParam(r, "action")
	if err := sess.RunAction(r.Context(), name, core.RowID(chi.URLParam(r, "rowID"))); err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, sess.View(s.languageFor(r)))
}

// handleDeleteSelected removes the visible selected rows.
func (s *Server) handleDeleteSelected(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	rows, err := sess.DeleteSelected(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	ids := core.RowIDs(rows, sess.Store().Key())
	writeJSON(w, DeleteResponse{Deleted: ids, Count: len(ids)})
}

// ----------------------------------------------------------------------------
// Page forms
// ----------------------------------------------------------------------------

// handleDeleteRowForm removes one row and returns to the page.
func (s *Server) handleDeleteRowForm(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	if err := sess.DeleteRow(r.Context(), core.RowID(chi.URLParam(r, "rowID"))); err != nil {
		s.respondError(w, r, err)
		return
	}
	s.redirectToSession(w, r, sess.ID)
}

// handleDeleteSelectedForm removes the selected rows and returns to the page.
func (s *Server) handleDeleteSelectedForm(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	if _, err := sess.DeleteSelected(r.Context()); err != nil {
		s.respondError(w, r, err)
		return
	}
	s.redirectToSession(w, r, sess.ID)
}
