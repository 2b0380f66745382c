package source

import (
	"context"
	"fmt"
	"sync"

	"github.com/JonMunkholm/gridstate/internal/core"
	"github.com/JonMunkholm/gridstate/internal/idgen"
)

// Memory is a Source holding rows in process. Row order is insertion order.
type Memory struct {
	def core.TableDefinition

	mu   sync.RWMutex
	rows []core.Record
}

// NewMemory returns a Memory source over a copy of rows.
func NewMemory(def core.TableDefinition, rows []core.Record) *Memory {
	m := &Memory{def: def}
	for _, r := range rows {
		r = cloneRecord(r)
		if needsRowKey(def, r) {
			r[core.RowKeyField] = idgen.Must(idgen.PrefixRow)
		}
		m.rows = append(m.rows, r)
	}
	return m
}

// Fetch returns a copy of the rows.
func (m *Memory) Fetch(ctx context.Context) ([]core.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]core.Record, len(m.rows))
	for i, r := range m.rows {
		out[i] = cloneRecord(r)
	}
	return out, nil
}

// Insert appends row. A row without a key field value gets a generated key.
func (m *Memory) Insert(ctx context.Context, row core.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	row = Coerce(m.def, row)
	if f := m.def.KeyField; (f != "" && core.IsEmpty(row[f])) || needsRowKey(m.def, row) {
		id, err := idgen.New(idgen.PrefixRow)
		if err != nil {
			return err
		}
		if f == "" {
			f = core.RowKeyField
		}
		row[f] = id
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	key := keyOf(m.def, row)
	for _, r := range m.rows {
		if keyOf(m.def, r) == key {
			return fmt.Errorf("insert %s: duplicate key %q", m.def.Info.Key, key)
		}
	}
	m.rows = append(m.rows, row)
	return nil
}

// Update replaces the row with the same key. Rows of keyless tables are
// matched on RowKeyField, which the caller must carry over from the
// current row.
func (m *Memory) Update(ctx context.Context, row core.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	row = Coerce(m.def, row)

	m.mu.Lock()
	defer m.mu.Unlock()

	key := keyOf(m.def, row)
	for i, r := range m.rows {
		if keyOf(m.def, r) == key {
			m.rows[i] = row
			return nil
		}
	}
	return fmt.Errorf("update %s: %w: %s", m.def.Info.Key, core.ErrRowNotFound, key)
}

// Delete removes the rows sharing keys with rows. Unknown keys are ignored.
func (m *Memory) Delete(ctx context.Context, rows []core.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	drop := make(map[core.RowID]bool, len(rows))
	for _, r := range rows {
		drop[keyOf(m.def, r)] = true
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.rows[:0]
	for _, r := range m.rows {
		if !drop[keyOf(m.def, r)] {
			kept = append(kept, r)
		}
	}
	for i := len(kept); i < len(m.rows); i++ {
		m.rows[i] = nil
	}
	m.rows = kept
	return nil
}

// Len returns the number of rows held.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rows)
}

// MemoryProvider keeps one Memory source per table for the life of the
// process. A table is seeded on first open from Seed when set, otherwise
// from Rows.
type MemoryProvider struct {
	Seed Provider
	Rows map[string][]core.Record

	mu      sync.Mutex
	sources map[string]*Memory
}

// NewMemoryProvider returns a provider seeded with fixed rows per table key.
func NewMemoryProvider(rows map[string][]core.Record) *MemoryProvider {
	return &MemoryProvider{Rows: rows}
}

// Open returns the table's Memory source, creating it on first use.
func (p *MemoryProvider) Open(ctx context.Context, def core.TableDefinition) (Source, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if m, ok := p.sources[def.Info.Key]; ok {
		return m, nil
	}

	seed := CoerceAll(def, p.Rows[def.Info.Key])
	if p.Seed != nil {
		src, err := p.Seed.Open(ctx, def)
		if err != nil {
			return nil, fmt.Errorf("seed %s: %w", def.Info.Key, err)
		}
		if seed, err = src.Fetch(ctx); err != nil {
			return nil, fmt.Errorf("seed %s: %w", def.Info.Key, err)
		}
	}

	if p.sources == nil {
		p.sources = make(map[string]*Memory)
	}
	m := NewMemory(def, seed)
	p.sources[def.Info.Key] = m
	return m, nil
}

func cloneRecord(r core.Record) core.Record {
	out := make(core.Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
