// Package audit records and queries the audit trail of table mutations
// and exports.
//
// Entries are built by core.NewAuditEntry and handed to a Store. Two
// stores exist: Memory for single-process deployments and tests, and
// Postgres for an audit_log table shared by every server instance.
// Old entries are removed by Store.Purge, driven by the session janitor.
package audit

import (
	"context"
	"time"

	"github.com/JonMunkholm/gridstate/internal/core"
)

// DefaultListLimit is the page size of List when none is given.
const DefaultListLimit = 50

// MaxListLimit caps the page size of List.
const MaxListLimit = 1000

// Store persists audit entries.
type Store interface {
	Record(ctx context.Context, entry core.AuditEntry) error
	List(ctx context.Context, opts ListOptions) (*ListResult, error)
	// Purge deletes entries created before cutoff and returns how many.
	Purge(ctx context.Context, cutoff time.Time) (int, error)
}

// ListOptions filters and pages List. Zero values match everything.
type ListOptions struct {
	TableKey  string
	Action    core.AuditAction
	Severity  core.AuditSeverity
	SessionID string
	StartTime time.Time
	EndTime   time.Time
	Limit     int
	Offset    int
}

// ListResult is one page of entries, newest first.
type ListResult struct {
	Entries    []core.AuditEntry `json:"entries"`
	TotalCount int64             `json:"totalCount"`
	Page       int               `json:"page"`
	PageSize   int               `json:"pageSize"`
	TotalPages int               `json:"totalPages"`
}

// normalize applies the default limit and time range.
func (o ListOptions) normalize() ListOptions {
	if o.Limit <= 0 {
		o.Limit = DefaultListLimit
	}
	if o.Limit > MaxListLimit {
		o.Limit = MaxListLimit
	}
	if o.Offset < 0 {
		o.Offset = 0
	}
	if o.StartTime.IsZero() {
		o.StartTime = time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	if o.EndTime.IsZero() {
		o.EndTime = time.Now().Add(24 * time.Hour)
	}
	return o
}

func (o ListOptions) matches(e core.AuditEntry) bool {
	if o.TableKey != "" && e.TableKey != o.TableKey {
		return false
	}
	if o.Action != "" && e.Action != o.Action {
		return false
	}
	if o.Severity != "" && e.Severity != o.Severity {
		return false
	}
	if o.SessionID != "" && e.SessionID != o.SessionID {
		return false
	}
	return !e.CreatedAt.Before(o.StartTime) && !e.CreatedAt.After(o.EndTime)
}

func newResult(entries []core.AuditEntry, total int64, o ListOptions) *ListResult {
	totalPages := int((total + int64(o.Limit) - 1) / int64(o.Limit))
	if totalPages < 1 {
		totalPages = 1
	}
	if entries == nil {
		entries = []core.AuditEntry{}
	}
	return &ListResult{
		Entries:    entries,
		TotalCount: total,
		Page:       o.Offset/o.Limit + 1,
		PageSize:   o.Limit,
		TotalPages: totalPages,
	}
}
