package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/netip"
	"time"

	"github.com/JonMunkholm/gridstate/internal/core"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

// DBTX is the subset of *pgxpool.Pool used by the Postgres store.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Schema creates the audit_log table.
const Schema = `CREATE TABLE IF NOT EXISTS audit_log (
	id            UUID PRIMARY KEY,
	action        TEXT NOT NULL,
	severity      TEXT NOT NULL,
	table_key     TEXT NOT NULL,
	session_id    TEXT,
	ip_address    INET,
	user_agent    TEXT,
	row_keys      TEXT[],
	row_data      JSONB,
	rows_affected INTEGER NOT NULL DEFAULT 0,
	detail        JSONB,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS audit_log_table_created_idx ON audit_log (table_key, created_at DESC);`

const selectColumns = `id, action, severity, table_key, session_id, ip_address, user_agent,
	row_keys, row_data, rows_affected, detail, created_at`

// Postgres stores entries in the audit_log table.
type Postgres struct {
	db DBTX
}

// NewPostgres returns a Postgres store on db.
func NewPostgres(db DBTX) *Postgres {
	return &Postgres{db: db}
}

// EnsureSchema creates the audit_log table when missing.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := p.db.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("create audit_log: %w", err)
	}
	return nil
}

func (p *Postgres) Record(ctx context.Context, e core.AuditEntry) error {
	rowData, err := marshalOptional(e.RowData)
	if err != nil {
		return fmt.Errorf("marshal row data: %w", err)
	}
	detail, err := marshalOptional(e.Detail)
	if err != nil {
		return fmt.Errorf("marshal detail: %w", err)
	}
	keys := make([]string, len(e.RowKeys))
	for i, k := range e.RowKeys {
		keys[i] = string(k)
	}

	_, err = p.db.Exec(ctx, `INSERT INTO audit_log
		(id, action, severity, table_key, session_id, ip_address, user_agent,
		 row_keys, row_data, rows_affected, detail, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		e.ID, string(e.Action), string(e.Severity), e.TableKey,
		pgText(e.SessionID), parseIP(e.IPAddress), pgText(e.UserAgent),
		keys, rowData, e.RowsAffected, detail, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

func (p *Postgres) List(ctx context.Context, opts ListOptions) (*ListResult, error) {
	opts = opts.normalize()
	whereClause, args := listWhere(opts)

	var total int64
	if err := p.db.QueryRow(ctx, "SELECT COUNT(*) FROM audit_log"+whereClause, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count audit entries: %w", err)
	}

	next := len(args) + 1
	query := "SELECT " + selectColumns + " FROM audit_log" + whereClause +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", next, next+1)
	args = append(args, opts.Limit, opts.Offset)

	rows, err := p.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query audit entries: %w", err)
	}
	defer rows.Close()

	var entries []core.AuditEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return newResult(entries, total, opts), nil
}

func (p *Postgres) Purge(ctx context.Context, cutoff time.Time) (int, error) {
	tag, err := p.db.Exec(ctx, "DELETE FROM audit_log WHERE created_at < $1", cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge audit entries: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func listWhere(opts ListOptions) (string, []any) {
	wb := newWhereBuilder()
	wb.Add("table_key", opts.TableKey)
	wb.Add("action", string(opts.Action))
	wb.Add("severity", string(opts.Severity))
	wb.Add("session_id", opts.SessionID)
	wb.AddTimestampRange("created_at", opts.StartTime, opts.EndTime)
	return wb.Build()
}

func scanEntry(rows pgx.Rows) (core.AuditEntry, error) {
	var (
		id           pgtype.UUID
		action       string
		severity     string
		tableKey     string
		sessionID    pgtype.Text
		ipAddress    *netip.Addr
		userAgent    pgtype.Text
		rowKeys      []string
		rowData      []byte
		rowsAffected int32
		detail       []byte
		createdAt    pgtype.Timestamptz
	)
	if err := rows.Scan(&id, &action, &severity, &tableKey, &sessionID, &ipAddress,
		&userAgent, &rowKeys, &rowData, &rowsAffected, &detail, &createdAt); err != nil {
		return core.AuditEntry{}, fmt.Errorf("scan audit entry: %w", err)
	}

	e := core.AuditEntry{
		Action:       core.AuditAction(action),
		Severity:     core.AuditSeverity(severity),
		TableKey:     tableKey,
		SessionID:    sessionID.String,
		UserAgent:    userAgent.String,
		RowsAffected: int(rowsAffected),
		CreatedAt:    createdAt.Time,
	}
	if id.Valid {
		e.ID = uuid.UUID(id.Bytes).String()
	}
	if ipAddress != nil {
		e.IPAddress = ipAddress.String()
	}
	for _, k := range rowKeys {
		e.RowKeys = append(e.RowKeys, core.RowID(k))
	}
	if rowData != nil {
		_ = json.Unmarshal(rowData, &e.RowData)
	}
	if detail != nil {
		_ = json.Unmarshal(detail, &e.Detail)
	}
	return e, nil
}

func marshalOptional[T ~map[string]any](v T) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}

func pgText(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}

// parseIP strips a port if present. Unparsable addresses are stored as NULL.
func parseIP(s string) *netip.Addr {
	if s == "" {
		return nil
	}
	host := s
	if h, _, err := net.SplitHostPort(s); err == nil {
		host = h
	}
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return nil
	}
	return &addr
}
