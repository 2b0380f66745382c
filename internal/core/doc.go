// Package core provides the table state and filtering engine.
//
// This package is the heart of gridstate, containing all domain logic
// independent of any UI or transport layer. It can be driven by the web
// server, the CLI, the terminal browser, or tests without modification.
//
// # Architecture
//
// The package is organized around several key concepts:
//
//   - Schema: An immutable, ordered set of column descriptors. Each
//     descriptor has a stable id, a label, a filter variant and an accessor.
//   - Filters: Per-column predicates (text, select, range, date) plus a
//     global free-text filter. All active filters combine with AND.
//   - Layout: Column order, pinning, visibility, widths and the single
//     active sort. Transitions return a new layout and never mutate.
//   - Selection: Row identities picked by the user, always pruned against
//     the rows currently visible.
//   - Store: The single owner of all state. Views read it through selector
//     methods and change it only by dispatching actions.
//
// # Table Registry
//
// Tables are registered at init time using [Register]. Each [TableDefinition]
// carries the columns, the form validation rules and the key field:
//
//	core.Register(TableDefinition{
//	    Info: TableInfo{Key: "people", Group: "Demo", Label: "People"},
//	    Columns: []ColumnDescriptor[Record]{
//	        {ColumnMeta: ColumnMeta{ID: "firstName", Label: "First Name", Variant: VariantText}, Accessor: Field("firstName")},
//	        {ColumnMeta: ColumnMeta{ID: "age", Label: "Age", Variant: VariantRange, Sortable: true}, Accessor: Field("age")},
//	    },
//	    KeyField: "id",
//	})
//
// # State Flow
//
// Every change goes through [Store.Dispatch]:
//
//  1. The action is validated against the schema (unknown column ids are a no-op)
//  2. The reducer produces the next state
//  3. The selection is pruned to the visible rows and the page index clamped
//  4. Subscribers are notified outside the lock
//
// # Audit Logging
//
// Row additions, edits, deletions and exports are described by [AuditEntry]
// values with severity levels:
//
//   - Low: Exports
//   - Medium: Row additions and edits
//   - High: Single and bulk row deletions
package core
