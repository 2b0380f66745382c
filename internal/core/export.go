package core

// Matrix is a rectangular export: one header row of column labels and one
// cell row per exported row.
type Matrix struct {
	Columns []string   // Column ids, parallel to Header
	Header  []string   // Display labels
	Cells   [][]string // Formatted values, len(Header) per row
	Values  [][]Value  // Raw values, for typed writers
}

// ExportRows builds the export matrix of rows over columns, skipping the
// columns in excludeIDs. Header names come from each descriptor's label.
func ExportRows[R any](rows []R, columns []ColumnDescriptor[R], excludeIDs []string) Matrix {
	excluded := make(map[string]bool, len(excludeIDs))
	for _, id := range excludeIDs {
		excluded[id] = true
	}

	var cols []ColumnDescriptor[R]
	for _, c := range columns {
		if !excluded[c.ID] {
			cols = append(cols, c)
		}
	}

	m := Matrix{
		Columns: make([]string, len(cols)),
		Header:  make([]string, len(cols)),
		Cells:   make([][]string, len(rows)),
		Values:  make([][]Value, len(rows)),
	}
	for i, c := range cols {
		m.Columns[i] = c.ID
		m.Header[i] = c.DisplayLabel()
	}
	for r, row := range rows {
		cells := make([]string, len(cols))
		values := make([]Value, len(cols))
		for i, c := range cols {
			v := c.Accessor(row)
			values[i] = v
			cells[i] = Stringify(v)
		}
		m.Cells[r] = cells
		m.Values[r] = values
	}
	return m
}

// OrderedColumns returns the schema's columns in layout order, optionally
// dropping hidden ones.
func OrderedColumns[R any](schema *Schema[R], layout LayoutState, visibleOnly bool) []ColumnDescriptor[R] {
	var out []ColumnDescriptor[R]
	for _, id := range layout.Order {
		if visibleOnly && layout.Hidden[id] {
			continue
		}
		if c, ok := schema.Column(id); ok {
			out = append(out, c)
		}
	}
	return out
}

// Rows returns the number of data rows.
func (m Matrix) Rows() int { return len(m.Cells) }

// Records returns the matrix as a header row followed by the cell rows.
func (m Matrix) Records() [][]string {
	out := make([][]string, 0, len(m.Cells)+1)
	out = append(out, m.Header)
	out = append(out, m.Cells...)
	return out
}
