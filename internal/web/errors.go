package web

// errors.go provides unified error response handling for the web layer.
//
// It ensures all errors are:
//   - Logged with full technical details for debugging (server-side)
//   - Returned to clients as user-friendly messages with action suggestions
//   - Formatted for the client (JSON for the API, an HTML alert for pages)
//
// The error flow:
//  1. Handler encounters an error
//  2. Calls respondError(w, r, err)
//  3. statusFor picks the HTTP status from the error chain
//  4. Error is mapped via core.MapError to get user-friendly message
//  5. Technical error + context is logged with request ID for correlation

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/JonMunkholm/gridstate/internal/core"
	"github.com/JonMunkholm/gridstate/internal/export"
	"github.com/JonMunkholm/gridstate/internal/grid"
	"github.com/JonMunkholm/gridstate/internal/logging"
	"github.com/JonMunkholm/gridstate/internal/web/templates"
)

// ErrorResponse represents the JSON structure for API error responses.
// Includes both machine-readable (Code) and human-readable (Message, Action) fields.
type ErrorResponse struct {
	Error   string              `json:"error"`
	Message string              `json:"message"`
	Action  string              `json:"action,omitempty"`
	Code    string              `json:"code"`
	Fields  map[string][]string `json:"fields,omitempty"`
}

// statusFor maps an error chain to an HTTP status.
func statusFor(err error) int {
	var vf *core.ValidationFailure
	var fe *core.FetchError
	switch {
	case errors.As(err, &vf):
		return http.StatusUnprocessableEntity
	case errors.As(err, &fe):
		return http.StatusBadGateway
	case errors.Is(err, grid.ErrSessionNotFound),
		errors.Is(err, grid.ErrTableNotFound),
		errors.Is(err, core.ErrRowNotFound),
		errors.Is(err, core.ErrUnknownColumnID):
		return http.StatusNotFound
	case errors.Is(err, ErrBodyTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, core.ErrReadOnlySource):
		return http.StatusConflict
	case errors.Is(err, grid.ErrTooManyExports),
		errors.Is(err, grid.ErrTooManySessions):
		return http.StatusServiceUnavailable
	case errors.Is(err, core.ErrInvalidFilter),
		errors.Is(err, core.ErrInvalidColumn),
		errors.Is(err, core.ErrNotSelecting),
		errors.Is(err, core.ErrNothingSelected),
		errors.Is(err, ErrUnknownActionType),
		errors.Is(err, ErrEmptyBody),
		errors.Is(err, grid.ErrUnknownAction),
		errors.Is(err, grid.ErrUnknownScope),
		errors.Is(err, export.ErrUnknownFormat):
		return http.StatusBadRequest
	}
	var se *json.SyntaxError
	var te *json.UnmarshalTypeError
	if errors.As(err, &se) || errors.As(err, &te) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// respondError handles error responses with user-friendly messages.
// It logs the technical error server-side and returns JSON for API
// requests or an HTML alert for pages.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	userMsg := core.MapError(err)

	log := logging.FromContext(r.Context())
	if status >= http.StatusInternalServerError {
		log.Error("request error",
			"path", r.URL.Path,
			"method", r.Method,
			"status", status,
			"error", err.Error(),
			"code", userMsg.Code,
		)
	} else {
		log.Warn("request rejected",
			"path", r.URL.Path,
			"method", r.Method,
			"status", status,
			"error", err.Error(),
			"code", userMsg.Code,
		)
	}

	if status == http.StatusServiceUnavailable {
		w.Header().Set("Retry-After", "5")
	}

	if wantsJSON(r) {
		resp := ErrorResponse{
			Error:   userMsg.Message,
			Message: userMsg.Message,
			Action:  userMsg.Action,
			Code:    userMsg.Code,
		}
		var vf *core.ValidationFailure
		if errors.As(err, &vf) {
			resp.Fields = vf.FieldErrors
		}
		writeJSONStatus(w, status, resp)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := templates.Alert(userMsg).Render(r.Context(), w); err != nil {
		log.Error("render error alert", "error", err)
	}
}

// wantsJSON checks if the client prefers JSON response.
func wantsJSON(r *http.Request) bool {
	// API routes default to JSON
	if strings.HasPrefix(r.URL.Path, "/api/") {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "application/json") ||
		strings.Contains(r.Header.Get("Content-Type"), "application/json")
}
