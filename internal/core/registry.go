package core

import (
	"fmt"
	"sort"
	"sync"
)

// Schema is the normalized, read-only column lookup of one table.
type Schema[R any] struct {
	columns []ColumnDescriptor[R]
	byID    map[string]int
}

// NewSchema normalizes descriptors into a Schema.
// Returns ErrDuplicateColumnID if two descriptors share an id.
func NewSchema[R any](descriptors ...ColumnDescriptor[R]) (*Schema[R], error) {
	s := &Schema[R]{
		columns: make([]ColumnDescriptor[R], 0, len(descriptors)),
		byID:    make(map[string]int, len(descriptors)),
	}

	for _, d := range descriptors {
		if d.ID == "" {
			return nil, fmt.Errorf("%w: empty column id", ErrInvalidColumn)
		}
		if _, exists := s.byID[d.ID]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateColumnID, d.ID)
		}
		if d.DefaultWidth <= 0 {
			d.DefaultWidth = DefaultColumnWidth
		}
		if d.DefaultWidth < MinColumnWidth {
			d.DefaultWidth = MinColumnWidth
		}
		if d.Variant == "" {
			d.Variant = VariantNone
		}
		s.byID[d.ID] = len(s.columns)
		s.columns = append(s.columns, d)
	}

	return s, nil
}

// MustSchema is like NewSchema but panics on error.
// Duplicate column ids are programming errors.
func MustSchema[R any](descriptors ...ColumnDescriptor[R]) *Schema[R] {
	s, err := NewSchema(descriptors...)
	if err != nil {
		panic(err)
	}
	return s
}

// Column returns the descriptor for id.
func (s *Schema[R]) Column(id string) (ColumnDescriptor[R], bool) {
	i, ok := s.byID[id]
	if !ok {
		return ColumnDescriptor[R]{}, false
	}
	return s.columns[i], true
}

// Meta returns the metadata for id.
func (s *Schema[R]) Meta(id string) (ColumnMeta, bool) {
	c, ok := s.Column(id)
	return c.ColumnMeta, ok
}

// Has reports whether id is registered.
func (s *Schema[R]) Has(id string) bool {
	_, ok := s.byID[id]
	return ok
}

// Columns returns the descriptors in declaration order.
func (s *Schema[R]) Columns() []ColumnDescriptor[R] {
	out := make([]ColumnDescriptor[R], len(s.columns))
	copy(out, s.columns)
	return out
}

// IDs returns the column ids in declaration order.
func (s *Schema[R]) IDs() []string {
	ids := make([]string, len(s.columns))
	for i, c := range s.columns {
		ids[i] = c.ID
	}
	return ids
}

// Len returns the number of columns.
func (s *Schema[R]) Len() int { return len(s.columns) }

// ----------------------------------------------------------------------------
// Table registry
// ----------------------------------------------------------------------------

// TableInfo contains display information about a table.
type TableInfo struct {
	Key   string // Unique identifier: "people"
	Group string // Grouping for listings: "Demo"
	Label string // Display name: "People"
}

// TableDefinition is everything needed to open a table over Records.
type TableDefinition struct {
	Info       TableInfo
	Columns    []ColumnDescriptor[Record]
	Validation ValidationSpec
	// KeyField names the Record field holding the row identity.
	// Rows without it are identified by a content hash.
	KeyField string
}

// Schema builds the column schema of the definition.
func (d TableDefinition) Schema() (*Schema[Record], error) {
	return NewSchema(d.Columns...)
}

// KeyFunc returns the row identity function for the definition.
func (d TableDefinition) KeyFunc() KeyFunc[Record] {
	return RecordKey(d.KeyField)
}

var (
	registry   = make(map[string]TableDefinition)
	registryMu sync.RWMutex
)

// Register adds a table definition to the registry.
// Panics if a table with the same key is already registered or if its
// columns do not form a valid schema.
func Register(def TableDefinition) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := registry[def.Info.Key]; exists {
		panic(fmt.Sprintf("table already registered: %s", def.Info.Key))
	}
	if _, err := def.Schema(); err != nil {
		panic(fmt.Sprintf("table %s: %v", def.Info.Key, err))
	}

	registry[def.Info.Key] = def
}

// Get returns a table definition by key.
// Returns false if not found.
func Get(key string) (TableDefinition, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	def, ok := registry[key]
	return def, ok
}

// All returns all registered table definitions.
// Sorted by group then by key for consistent ordering.
func All() []TableDefinition {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make([]TableDefinition, 0, len(registry))
	for _, def := range registry {
		result = append(result, def)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Info.Group != result[j].Info.Group {
			return result[i].Info.Group < result[j].Info.Group
		}
		return result[i].Info.Key < result[j].Info.Key
	})

	return result
}

// ByGroup returns all table definitions for a specific group.
func ByGroup(group string) []TableDefinition {
	var result []TableDefinition
	for _, def := range All() {
		if def.Info.Group == group {
			result = append(result, def)
		}
	}
	return result
}

// Groups returns all unique group names, sorted.
func Groups() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	seen := make(map[string]bool)
	for _, def := range registry {
		seen[def.Info.Group] = true
	}

	groups := make([]string, 0, len(seen))
	for g := range seen {
		groups = append(groups, g)
	}

	sort.Strings(groups)
	return groups
}

// TableCount returns the number of registered tables.
func TableCount() int {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return len(registry)
}

// Clear removes all registered tables.
// Primarily useful for testing.
func Clear() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = make(map[string]TableDefinition)
}
