// Package source provides the row sources behind table sessions.
//
// A Source loads the full row set of one table and persists mutations
// made through the row mutation gateway and the bulk-delete coordinator.
// Three providers exist:
//
//   - Memory: rows held in process, optionally seeded from another provider
//   - File: read-only CSV or JSON files, one per table
//   - Postgres: one database table per registered table, via pgx
//
// Every provider returns Records coerced to the column variants of the
// table definition, so range columns hold float64 values and date
// columns hold time.Time values regardless of how the backend stores them.
package source

import (
	"context"
	"fmt"
	"strings"

	"github.com/JonMunkholm/gridstate/internal/core"
)

// Source loads and persists the rows of one table.
type Source interface {
	// Fetch returns the current row set.
	Fetch(ctx context.Context) ([]core.Record, error)
	// Insert persists a new row.
	Insert(ctx context.Context, row core.Record) error
	// Update replaces the row sharing row's key.
	Update(ctx context.Context, row core.Record) error
	// Delete removes rows by key.
	Delete(ctx context.Context, rows []core.Record) error
}

// Provider opens the Source of a table definition.
type Provider interface {
	Open(ctx context.Context, def core.TableDefinition) (Source, error)
}

// Kind names a provider in configuration.
type Kind string

const (
	KindMemory   Kind = "memory"
	KindFile     Kind = "file"
	KindPostgres Kind = "postgres"
)

// ParseKind converts a configuration string into a Kind.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindMemory, KindFile, KindPostgres:
		return k, nil
	case "":
		return KindMemory, nil
	default:
		return "", fmt.Errorf("unknown source kind %q", s)
	}
}

// Coerce converts raw backend values to the types the column variants
// compare on. Strings are cleaned; strings under range columns become
// float64 and strings under date columns become time.Time when they parse.
// Values that do not parse are kept as cleaned strings so filters can
// report them. Fields that are not columns are kept unchanged.
func Coerce(def core.TableDefinition, rec core.Record) core.Record {
	variants := make(map[string]core.FilterVariant, len(def.Columns))
	for _, c := range def.Columns {
		variants[c.ID] = c.Variant
	}

	out := make(core.Record, len(rec))
	for k, v := range rec {
		s, isString := v.(string)
		if !isString {
			out[k] = v
			continue
		}
		s = core.CleanCell(s)
		if s == "" {
			out[k] = nil
			continue
		}
		switch variants[k] {
		case core.VariantRange:
			if f, ok := core.ParseNumber(s); ok {
				out[k] = f
				continue
			}
		case core.VariantDate:
			if t, ok := core.ParseDate(s); ok {
				out[k] = t
				continue
			}
		}
		out[k] = s
	}
	return out
}

// CoerceAll applies Coerce to every record.
func CoerceAll(def core.TableDefinition, recs []core.Record) []core.Record {
	out := make([]core.Record, len(recs))
	for i, r := range recs {
		out[i] = Coerce(def, r)
	}
	return out
}

// needsRowKey reports whether row belongs to a keyless table and has no
// load identity yet.
func needsRowKey(def core.TableDefinition, row core.Record) bool {
	return def.KeyField == "" && core.IsEmpty(row[core.RowKeyField])
}

// keyOf returns the identity of row under def.
func keyOf(def core.TableDefinition, row core.Record) core.RowID {
	return def.KeyFunc()(row)
}
