package export

import (
	"fmt"
	"io"

	"github.com/JonMunkholm/gridstate/internal/core"
	"github.com/xuri/excelize/v2"
)

// SheetName is the name of the single sheet in xlsx exports.
const SheetName = "Data"

const xlsxColumnWidth = 18

// WriteXLSX writes m as a one-sheet workbook with a bold header row.
func WriteXLSX(w io.Writer, m core.Matrix) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		return fmt.Errorf("stream writer: %w", err)
	}
	if n := len(m.Header); n > 0 {
		if err := sw.SetColWidth(1, n, xlsxColumnWidth); err != nil {
			return fmt.Errorf("column width: %w", err)
		}
	}

	header := make([]any, len(m.Header))
	for i, h := range m.Header {
		header[i] = excelize.Cell{StyleID: bold, Value: h}
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for r := range m.Cells {
		row := make([]any, len(m.Header))
		for c := range m.Header {
			row[c] = typedValue(m.Values[r][c])
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("write row %d: %w", r+1, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flush sheet: %w", err)
	}
	return f.Write(w)
}
