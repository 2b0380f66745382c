package source

// file.go reads tables from CSV or JSON files in a directory, one file
// per table named after the table key: <dir>/<key>.csv or <dir>/<key>.json.
//
// The file is read on every Fetch so edits on disk show up on reload.
// Files are decoded as UTF-8 with an optional BOM; invalid sequences are
// replaced with U+FFFD.

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/JonMunkholm/gridstate/internal/core"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// FileProvider opens read-only file sources under Dir.
type FileProvider struct {
	Dir string
}

// Open locates the table's file. CSV takes precedence over JSON.
func (p FileProvider) Open(ctx context.Context, def core.TableDefinition) (Source, error) {
	for _, ext := range []string{".csv", ".json"} {
		path := filepath.Join(p.Dir, def.Info.Key+ext)
		if _, err := os.Stat(path); err == nil {
			return &File{def: def, path: path}, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("open %s: %w", def.Info.Key, err)
		}
	}
	return nil, fmt.Errorf("open %s: no %s.csv or %s.json in %s", def.Info.Key, def.Info.Key, def.Info.Key, p.Dir)
}

// File is a read-only Source backed by one CSV or JSON file.
type File struct {
	def  core.TableDefinition
	path string
}

// Path returns the backing file.
func (f *File) Path() string { return f.path }

// Fetch reads and decodes the file.
func (f *File) Fetch(ctx context.Context) ([]core.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fh, err := os.Open(f.path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	var recs []core.Record
	if strings.EqualFold(filepath.Ext(f.path), ".json") {
		recs, err = ReadJSON(fh)
	} else {
		recs, err = ReadCSV(fh, f.def)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(f.path), err)
	}
	recs = CoerceAll(f.def, recs)
	// The file is reread on every Fetch, so record ordinals stay stable
	// between reloads.
	for i, r := range recs {
		if needsRowKey(f.def, r) {
			r[core.RowKeyField] = "rec_" + strconv.Itoa(i+1)
		}
	}
	return recs, nil
}

func (f *File) Insert(context.Context, core.Record) error   { return core.ErrReadOnlySource }
func (f *File) Update(context.Context, core.Record) error   { return core.ErrReadOnlySource }
func (f *File) Delete(context.Context, []core.Record) error { return core.ErrReadOnlySource }

// utf8Reader strips a leading BOM and sanitizes invalid UTF-8.
func utf8Reader(r io.Reader) io.Reader {
	return transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
}

// ReadCSV decodes a CSV with a header row. Header cells are matched to
// column ids first, then case-insensitively to column labels; unmatched
// headers are kept as field names. Short rows leave trailing fields unset.
func ReadCSV(r io.Reader, def core.TableDefinition) ([]core.Record, error) {
	cr := csv.NewReader(utf8Reader(r))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	fields := headerFields(header, def)

	var out []core.Record
	for {
		cells, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if blankLine(cells) {
			continue
		}
		rec := make(core.Record, len(fields))
		for i, field := range fields {
			if field == "" || i >= len(cells) {
				continue
			}
			rec[field] = cells[i]
		}
		out = append(out, rec)
	}
	return out, nil
}

func headerFields(header []string, def core.TableDefinition) []string {
	ids := make(map[string]bool, len(def.Columns))
	labels := make(map[string]string, len(def.Columns))
	for _, c := range def.Columns {
		ids[c.ID] = true
		labels[strings.ToLower(c.DisplayLabel())] = c.ID
	}

	fields := make([]string, len(header))
	for i, h := range header {
		h = core.CleanCell(h)
		switch {
		case ids[h]:
			fields[i] = h
		case labels[strings.ToLower(h)] != "":
			fields[i] = labels[strings.ToLower(h)]
		default:
			fields[i] = h
		}
	}
	return fields
}

func blankLine(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// ReadJSON decodes a JSON array of objects.
func ReadJSON(r io.Reader) ([]core.Record, error) {
	var recs []core.Record
	if err := json.NewDecoder(utf8Reader(r)).Decode(&recs); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}
	return recs, nil
}
