package audit

import (
	"fmt"
	"strings"
)

// whereBuilder assembles a parameterized WHERE clause.
// Columns are trusted identifiers; values always go through placeholders.
type whereBuilder struct {
	conditions []string
	args       []any
	argIndex   int
}

func newWhereBuilder() *whereBuilder {
	return &whereBuilder{argIndex: 1}
}

// Add appends "column = $n". Empty values are skipped.
func (wb *whereBuilder) Add(column, value string) {
	if value == "" {
		return
	}
	wb.conditions = append(wb.conditions, fmt.Sprintf("%s = $%d", column, wb.argIndex))
	wb.args = append(wb.args, value)
	wb.argIndex++
}

// AddTimestampRange appends an inclusive range on column.
func (wb *whereBuilder) AddTimestampRange(column string, start, end any) {
	wb.conditions = append(wb.conditions,
		fmt.Sprintf("%s >= $%d AND %s <= $%d", column, wb.argIndex, column, wb.argIndex+1))
	wb.args = append(wb.args, start, end)
	wb.argIndex += 2
}

// NextArgIndex returns the placeholder number the next argument will take.
func (wb *whereBuilder) NextArgIndex() int { return wb.argIndex }

// Build returns the clause with a leading space, or "" with nil args.
func (wb *whereBuilder) Build() (string, []any) {
	if len(wb.conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(wb.conditions, " AND "), wb.args
}
