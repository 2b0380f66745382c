package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/JonMunkholm/gridstate/internal/core"
	"github.com/JonMunkholm/gridstate/internal/grid"
	"github.com/olekukonko/tablewriter"
	"golang.org/x/term"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func renderTable(w io.Writer, header []string, rows [][]string) error {
	table := tablewriter.NewWriter(w)
	h := make([]any, len(header))
	for i, s := range header {
		h[i] = s
	}
	table.Header(h...)
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}

// printView writes one page of v as a table followed by its footer.
func printView(w io.Writer, v grid.View) error {
	header := make([]string, len(v.Columns))
	for i, c := range v.Columns {
		header[i] = c.Label + sortMarker(c.Sort)
	}
	rows := make([][]string, len(v.Rows))
	for i, r := range v.Rows {
		rows[i] = r.Cells
	}

	if len(v.Chips) > 0 {
		texts := make([]string, len(v.Chips))
		for i, c := range v.Chips {
			texts[i] = "[" + c.Text + "]"
		}
		fmt.Fprintln(w, strings.Join(texts, " "))
	}
	if err := renderTable(w, header, rows); err != nil {
		return err
	}
	fmt.Fprintln(w, v.PageLabel)
	return nil
}

func sortMarker(d core.SortDirection) string {
	switch d {
	case core.SortAsc:
		return " ↑"
	case core.SortDesc:
		return " ↓"
	}
	return ""
}

// terminalRows returns the height of the terminal on stdout, or 0 when
// stdout is not a terminal.
func terminalRows() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 0
	}
	_, h, err := term.GetSize(fd)
	if err != nil {
		return 0
	}
	return h
}
