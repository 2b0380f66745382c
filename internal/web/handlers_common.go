// Package web provides HTTP handlers for table sessions.
// This file contains shared utilities and helper functions used across handlers.
package web

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/JonMunkholm/gridstate/internal/core"
	"github.com/JonMunkholm/gridstate/internal/grid"
	"github.com/JonMunkholm/gridstate/internal/i18n"
	"github.com/JonMunkholm/gridstate/internal/logging"
	"github.com/JonMunkholm/gridstate/internal/web/templates"
	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
)

// MaxBodySize is the maximum accepted JSON body (1MB).
const MaxBodySize = 1 << 20

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < 1 {
		return defaultVal
	}
	return i
}

// parseDateParam parses a YYYY-MM-DD query parameter. When endOfDay is set
// the result is the last second of that day.
func parseDateParam(r *http.Request, name string, endOfDay bool) time.Time {
	val := r.URL.Query().Get(name)
	if val == "" {
		return time.Time{}
	}
	t, err := time.Parse("2006-01-02", val)
	if err != nil {
		return time.Time{}
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Second)
	}
	return t
}

// parseList splits a comma-separated query parameter, dropping blanks.
func parseList(r *http.Request, name string) []string {
	var out []string
	for _, part := range strings.Split(r.URL.Query().Get(name), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// languageFor picks the request language: ?lang wins over Accept-Language,
// and the service default applies when neither is given.
func (s *Server) languageFor(r *http.Request) i18n.Language {
	if code := r.URL.Query().Get("lang"); code != "" {
		if lang, ok := i18n.Parse(code); ok {
			return lang
		}
	}
	if accept := r.Header.Get("Accept-Language"); accept != "" {
		return i18n.Match(accept)
	}
	return s.svc.Language()
}

// session resolves the {sessionID} URL parameter, writing the error
// response when it is unknown.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*grid.Session, bool) {
	sess, err := s.svc.Session(chi.URLParam(r, "sessionID"))
	if err != nil {
		s.respondError(w, r, err)
		return nil, false
	}
	return sess, true
}

// readBody reads a bounded request body.
func readBody(r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, MaxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if len(body) > MaxBodySize {
		return nil, fmt.Errorf("%w: limit is %d bytes", ErrBodyTooLarge, MaxBodySize)
	}
	return body, nil
}

// decodeJSON unmarshals a non-empty JSON body into v.
func decodeJSON(body []byte, v any) error {
	if len(bytes.TrimSpace(body)) == 0 {
		return ErrEmptyBody
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode values: %w", err)
	}
	return nil
}

// decodeValues reads a JSON object of form values.
func decodeValues(r *http.Request) (map[string]core.Value, error) {
	body, err := readBody(r)
	if err != nil {
		return nil, err
	}
	var values map[string]core.Value
	if err := decodeJSON(body, &values); err != nil {
		return nil, err
	}
	if values == nil {
		return nil, ErrEmptyBody
	}
	return values, nil
}

// render writes a full HTML page.
func (s *Server) render(w http.ResponseWriter, r *http.Request, title string, body templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.Layout(title, s.languageFor(r), body).Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render page", "path", r.URL.Path, "error", err)
	}
}

// formAction converts a posted HTML form into a state action request.
func formAction(r *http.Request) (ActionRequest, error) {
	if err := r.ParseForm(); err != nil {
		return ActionRequest{}, fmt.Errorf("parse form: %w", err)
	}
	req := ActionRequest{
		Type:      r.PostForm.Get("type"),
		Column:    r.PostForm.Get("column"),
		Query:     r.PostForm.Get("query"),
		Side:      r.PostForm.Get("side"),
		Direction: r.PostForm.Get("direction"),
		ID:        r.PostForm.Get("id"),
		Enabled:   r.PostForm.Get("enabled") == "true",
	}
	if req.Type == "" {
		return req, fmt.Errorf("%w: missing type", ErrUnknownActionType)
	}
	for name, dst := range map[string]*int{"index": &req.Index, "size": &req.Size, "toIndex": &req.ToIndex} {
		if v := r.PostForm.Get(name); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return req, fmt.Errorf("%w: %s is not a number", core.ErrInvalidFilter, name)
			}
			*dst = n
		}
	}
	if v := r.PostForm.Get("value"); v != "" {
		raw, err := json.Marshal(v)
		if err != nil {
			return req, err
		}
		req.Value = raw
	}
	return req, nil
}
