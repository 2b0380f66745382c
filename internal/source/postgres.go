package source

// postgres.go maps a registered table onto a PostgreSQL table of the same
// key. Column ids are stored as snake_case columns ("firstName" is
// first_name); result columns that match no column id keep their database
// name. The key field must be a column with a text-comparable value.

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/JonMunkholm/gridstate/internal/core"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBTX is the subset of *pgxpool.Pool used by Postgres sources.
type DBTX interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

var _ DBTX = (*pgxpool.Pool)(nil)

// PostgresProvider opens Postgres sources on a shared pool.
type PostgresProvider struct {
	DB DBTX
	// Schema qualifies table names when set.
	Schema string
}

// Open returns the source of def. The table is not checked until Fetch.
func (p PostgresProvider) Open(_ context.Context, def core.TableDefinition) (Source, error) {
	if def.KeyField == "" {
		return nil, fmt.Errorf("open %s: postgres tables need a key field", def.Info.Key)
	}
	return &Postgres{db: p.DB, def: def, table: tableIdentifier(p.Schema, def.Info.Key)}, nil
}

// Postgres is a Source over one database table.
type Postgres struct {
	db    DBTX
	def   core.TableDefinition
	table pgx.Identifier
}

// Fetch selects every row, ordered by the key column.
func (s *Postgres) Fetch(ctx context.Context) ([]core.Record, error) {
	query := fmt.Sprintf("SELECT * FROM %s ORDER BY %s",
		s.table.Sanitize(), quoteIdentifier(toDBColumnName(s.def.KeyField)))

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", s.def.Info.Key, err)
	}
	defer rows.Close()

	fields := make([]string, 0, len(rows.FieldDescriptions()))
	byDB := columnsByDBName(s.def)
	for _, fd := range rows.FieldDescriptions() {
		if id, ok := byDB[fd.Name]; ok {
			fields = append(fields, id)
		} else {
			fields = append(fields, fd.Name)
		}
	}

	var out []core.Record
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", s.def.Info.Key, err)
		}
		rec := make(core.Record, len(fields))
		for i, f := range fields {
			rec[f] = fromPg(values[i])
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", s.def.Info.Key, err)
	}
	return CoerceAll(s.def, out), nil
}

// Insert adds row. The database assigns defaults for absent columns.
func (s *Postgres) Insert(ctx context.Context, row core.Record) error {
	query, args := buildInsert(s.table, s.def, Coerce(s.def, row))
	if _, err := s.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("insert %s: %w", s.def.Info.Key, err)
	}
	return nil
}

// Update writes the columns present in row to the row sharing its key.
func (s *Postgres) Update(ctx context.Context, row core.Record) error {
	row = Coerce(s.def, row)
	key := keyOf(s.def, row)
	query, args := buildUpdate(s.table, s.def, row)
	if query == "" {
		return nil
	}
	tag, err := s.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update %s: %w", s.def.Info.Key, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update %s: %w: %s", s.def.Info.Key, core.ErrRowNotFound, key)
	}
	return nil
}

// Delete removes rows by key in one statement.
func (s *Postgres) Delete(ctx context.Context, rows []core.Record) error {
	if len(rows) == 0 {
		return nil
	}
	keys := make([]string, len(rows))
	for i, r := range rows {
		keys[i] = string(keyOf(s.def, r))
	}
	query := buildDelete(s.table, s.def)
	if _, err := s.db.Exec(ctx, query, keys); err != nil {
		return fmt.Errorf("delete %s: %w", s.def.Info.Key, err)
	}
	return nil
}

func tableIdentifier(schema, key string) pgx.Identifier {
	if schema == "" {
		return pgx.Identifier{key}
	}
	return pgx.Identifier{schema, key}
}

// buildInsert returns the INSERT for the fields of row, in sorted field order.
func buildInsert(table pgx.Identifier, def core.TableDefinition, row core.Record) (string, []any) {
	fields := sortedFields(row)
	cols := make([]string, len(fields))
	marks := make([]string, len(fields))
	args := make([]any, len(fields))
	for i, f := range fields {
		cols[i] = quoteIdentifier(toDBColumnName(f))
		marks[i] = fmt.Sprintf("$%d", i+1)
		args[i] = toPg(row[f])
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table.Sanitize(), strings.Join(cols, ", "), strings.Join(marks, ", "))
	return query, args
}

// buildUpdate returns the UPDATE of every non-key field of row, keyed by
// the key field. Returns "" when there is nothing to set.
func buildUpdate(table pgx.Identifier, def core.TableDefinition, row core.Record) (string, []any) {
	var sets []string
	var args []any
	for _, f := range sortedFields(row) {
		if f == def.KeyField {
			continue
		}
		args = append(args, toPg(row[f]))
		sets = append(sets, fmt.Sprintf("%s = $%d", quoteIdentifier(toDBColumnName(f)), len(args)))
	}
	if len(sets) == 0 {
		return "", nil
	}
	args = append(args, string(keyOf(def, row)))
	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s::text = $%d",
		table.Sanitize(), strings.Join(sets, ", "),
		quoteIdentifier(toDBColumnName(def.KeyField)), len(args))
	return query, args
}

// buildDelete returns the DELETE taking a text[] of keys as $1.
func buildDelete(table pgx.Identifier, def core.TableDefinition) string {
	return fmt.Sprintf("DELETE FROM %s WHERE %s::text = ANY($1)",
		table.Sanitize(), quoteIdentifier(toDBColumnName(def.KeyField)))
}

func sortedFields(row core.Record) []string {
	fields := make([]string, 0, len(row))
	for f := range row {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

// quoteIdentifier safely quotes a PostgreSQL identifier.
func quoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// toDBColumnName converts a column id to a database column name.
// "firstName" -> "first_name", "Last Update" -> "last_update".
func toDBColumnName(id string) string {
	var b strings.Builder
	prevLower := false
	for _, r := range id {
		switch {
		case r == ' ' || r == '-':
			b.WriteByte('_')
			prevLower = false
		case unicode.IsUpper(r):
			if prevLower {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			prevLower = false
		default:
			b.WriteRune(r)
			prevLower = unicode.IsLower(r) || unicode.IsDigit(r)
		}
	}
	return b.String()
}

func columnsByDBName(def core.TableDefinition) map[string]string {
	out := make(map[string]string, len(def.Columns)+1)
	for _, c := range def.Columns {
		out[toDBColumnName(c.ID)] = c.ID
	}
	if def.KeyField != "" {
		out[toDBColumnName(def.KeyField)] = def.KeyField
	}
	return out
}

// fromPg converts driver values into the plain Go types cells hold.
func fromPg(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case pgtype.Numeric:
		if !val.Valid {
			return nil
		}
		f, err := val.Float64Value()
		if err != nil || !f.Valid {
			return nil
		}
		return f.Float64
	case [16]byte:
		return uuid.UUID(val).String()
	case int32:
		return float64(val)
	case int64:
		return float64(val)
	case int16:
		return float64(val)
	case float32:
		return float64(val)
	default:
		return val
	}
}

// toPg converts cell values into query arguments.
func toPg(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case time.Time:
		if val.IsZero() {
			return nil
		}
		return val
	default:
		return val
	}
}
