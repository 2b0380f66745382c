package web

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/JonMunkholm/gridstate/internal/audit"
	"github.com/JonMunkholm/gridstate/internal/core"
	"github.com/JonMunkholm/gridstate/internal/logging"
	"github.com/JonMunkholm/gridstate/internal/web/templates"
)

// auditPageSize is the number of entries per audit page.
const auditPageSize = 50

// auditOptions reads the audit filters from the query string.
func auditOptions(r *http.Request) audit.ListOptions {
	q := r.URL.Query()
	return audit.ListOptions{
		TableKey:  q.Get("table"),
		Action:    core.AuditAction(q.Get("action")),
		Severity:  core.AuditSeverity(q.Get("severity")),
		SessionID: q.Get("session"),
		StartTime: parseDateParam(r, "from", false),
		EndTime:   parseDateParam(r, "to", true),
	}
}

// handleAuditLog renders the audit log page with filtering and pagination.
func (s *Server) handleAuditLog(w http.ResponseWriter, r *http.Request) {
	page := parseIntParam(r, "page", 1)
	opts := auditOptions(r)
	opts.Limit = auditPageSize
	opts.Offset = (page - 1) * auditPageSize

	res, err := s.svc.AuditLog().List(r.Context(), opts)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.render(w, r, "Audit log", templates.AuditLog(res, opts))
}

// handleAuditLogJSON returns one page of audit entries.
func (s *Server) handleAuditLogJSON(w http.ResponseWriter, r *http.Request) {
	page := parseIntParam(r, "page", 1)
	opts := auditOptions(r)
	opts.Limit = parseIntParam(r, "limit", auditPageSize)
	opts.Offset = (page - 1) * opts.Limit

	res, err := s.svc.AuditLog().List(r.Context(), opts)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, res)
}

// handleAuditLogExport exports audit log entries as a streaming CSV file.
// Entries are read page by page so the whole trail is never held in memory.
func (s *Server) handleAuditLogExport(w http.ResponseWriter, r *http.Request) {
	opts := auditOptions(r)
	opts.Limit = audit.MaxListLimit

	// Set headers for streaming download
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("audit_log_%s.csv", timestamp)
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))

	// Create CSV writer that writes directly to response
	csvWriter := csv.NewWriter(w)

	// Write header row first
	if err := csvWriter.Write([]string{
		"ID", "Timestamp", "Action", "Severity", "Table", "Session",
		"IP Address", "User Agent", "Row Keys", "Rows Affected", "Detail",
	}); err != nil {
		return
	}

	log := logging.FromContext(r.Context())
	for {
		res, err := s.svc.AuditLog().List(r.Context(), opts)
		if err != nil {
			// Headers are already sent
			log.Error("audit export failed", "error", err)
			break
		}
		for _, e := range res.Entries {
			if err := csvWriter.Write(auditRecord(e)); err != nil {
				log.Warn("audit export write failed", "error", err)
				return
			}
		}
		csvWriter.Flush()
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
		if len(res.Entries) < opts.Limit {
			break
		}
		opts.Offset += opts.Limit
	}
	csvWriter.Flush()
}

// auditRecord flattens an entry into a CSV row.
func auditRecord(e core.AuditEntry) []string {
	keys := make([]string, len(e.RowKeys))
	for i, k := range e.RowKeys {
		keys[i] = string(k)
	}
	detail := ""
	if len(e.Detail) > 0 {
		if b, err := json.Marshal(e.Detail); err == nil {
			detail = string(b)
		}
	}
	return []string{
		e.ID,
		e.CreatedAt.Format("2006-01-02 15:04:05"),
		string(e.Action),
		string(e.Severity),
		e.TableKey,
		e.SessionID,
		e.IPAddress,
		e.UserAgent,
		strings.Join(keys, ";"),
		strconv.Itoa(e.RowsAffected),
		detail,
	}
}
