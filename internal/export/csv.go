package export

import (
	"encoding/csv"
	"encoding/json"
	"io"

	"github.com/JonMunkholm/gridstate/internal/core"
)

// WriteCSV writes the header and cell rows.
func WriteCSV(w io.Writer, m core.Matrix) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(m.Records()); err != nil {
		return err
	}
	return cw.Error()
}

// WriteJSON writes an array of objects keyed by column label.
func WriteJSON(w io.Writer, m core.Matrix) error {
	out := make([]map[string]any, len(m.Cells))
	for r := range m.Cells {
		obj := make(map[string]any, len(m.Header))
		for c, label := range m.Header {
			obj[label] = typedValue(m.Values[r][c])
		}
		out[r] = obj
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
