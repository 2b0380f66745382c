// Package export writes table export matrices as spreadsheet files and
// stores them in a sink.
//
// Formats:
//
//	csv      header row plus formatted cells
//	json     array of objects keyed by column label
//	xlsx     one sheet, bold header, numbers kept numeric
//	parquet  snappy-compressed, one typed column per table column
//
// Sinks are a local directory or an S3-compatible bucket.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/JonMunkholm/gridstate/internal/core"
)

// ErrUnknownFormat is returned for format names that are not supported.
var ErrUnknownFormat = errors.New("unknown export format")

// Format names an export file format.
type Format string

const (
	FormatCSV     Format = "csv"
	FormatJSON    Format = "json"
	FormatXLSX    Format = "xlsx"
	FormatParquet Format = "parquet"
)

// Formats lists the supported formats.
var Formats = []Format{FormatXLSX, FormatCSV, FormatJSON, FormatParquet}

// DefaultFilename is used when an export is requested without a name.
const DefaultFilename = "export"

// ParseFormat converts a name or file extension into a Format.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "."))
	switch f {
	case FormatCSV, FormatJSON, FormatXLSX, FormatParquet:
		return f, nil
	case "excel", "xls":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// Extension returns the file extension, with the dot.
func (f Format) Extension() string { return "." + string(f) }

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatJSON:
		return "application/json"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatParquet:
		return "application/vnd.apache.parquet"
	default:
		return "application/octet-stream"
	}
}

// Write encodes m in format f to w.
func Write(w io.Writer, f Format, m core.Matrix) error {
	switch f {
	case FormatCSV:
		return WriteCSV(w, m)
	case FormatJSON:
		return WriteJSON(w, m)
	case FormatXLSX:
		return WriteXLSX(w, m)
	case FormatParquet:
		return WriteParquet(w, m)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
	}
}

// Encode returns m encoded in format f.
func Encode(f Format, m core.Matrix) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, f, m); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Filename returns a safe file name for name in format f. Directory parts
// are dropped and a missing or wrong extension is replaced.
func Filename(name string, f Format) string {
	name = strings.TrimSpace(path.Base(strings.ReplaceAll(name, `\`, "/")))
	if name == "" || name == "." || name == "/" {
		name = DefaultFilename
	}
	if ext := path.Ext(name); ext != "" {
		if _, err := ParseFormat(ext); err == nil {
			name = strings.TrimSuffix(name, ext)
		}
	}
	if name == "" {
		name = DefaultFilename
	}
	return name + f.Extension()
}

// typedValue returns v as the JSON and spreadsheet writers store it:
// numbers and booleans unchanged, dates as 2006-01-02, everything else
// as formatted text. Empty values are nil.
func typedValue(v core.Value) any {
	if core.IsEmpty(v) {
		return nil
	}
	switch val := v.(type) {
	case bool:
		return val
	case time.Time:
		return val.Format(core.DateLayout)
	}
	if f, ok := numeric(v); ok {
		return f
	}
	return core.Stringify(v)
}

// numeric reports numbers held as Go numeric kinds. Numeric-looking
// strings are text.
func numeric(v core.Value) (float64, bool) {
	if _, isString := v.(string); isString {
		return 0, false
	}
	return core.ToNumber(v)
}
