package export

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/JonMunkholm/gridstate/internal/core"
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
)

// WriteParquet writes m as a snappy-compressed parquet file. Each column
// is typed from its values: float64 when every value is a number,
// date32 when every value is a time, bool when every value is a bool,
// and utf8 otherwise. Field names are the column labels.
func WriteParquet(w io.Writer, m core.Matrix) error {
	schema := parquetSchema(m)

	b := array.NewRecordBuilder(memory.NewGoAllocator(), schema)
	defer b.Release()

	for c, field := range schema.Fields() {
		fb := b.Field(c)
		for r := range m.Cells {
			appendValue(fb, field.Type, m.Values[r][c])
		}
	}
	rec := b.NewRecord()
	defer rec.Release()

	// Buffered: the parquet writer may close its sink.
	var buf bytes.Buffer
	props := parquet.NewWriterProperties(parquet.WithCompression(compress.Codecs.Snappy))
	arrowProps := pqarrow.NewArrowWriterProperties(pqarrow.WithStoreSchema())

	writer, err := pqarrow.NewFileWriter(schema, &buf, props, arrowProps)
	if err != nil {
		return fmt.Errorf("create parquet writer: %w", err)
	}
	if err := writer.Write(rec); err != nil {
		writer.Close()
		return fmt.Errorf("write parquet record: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("close parquet writer: %w", err)
	}
	_, err = w.Write(buf.Bytes())
	return err
}

func parquetSchema(m core.Matrix) *arrow.Schema {
	fields := make([]arrow.Field, len(m.Header))
	for c, label := range m.Header {
		fields[c] = arrow.Field{Name: label, Type: columnType(m, c), Nullable: true}
	}
	return arrow.NewSchema(fields, nil)
}

// columnType infers the arrow type of column c. Empty values do not vote;
// an all-empty column is utf8.
func columnType(m core.Matrix, c int) arrow.DataType {
	var numbers, dates, bools, seen int
	for r := range m.Values {
		v := m.Values[r][c]
		if core.IsEmpty(v) {
			continue
		}
		seen++
		switch v.(type) {
		case time.Time:
			dates++
		case bool:
			bools++
		default:
			if _, ok := numeric(v); ok {
				numbers++
			}
		}
	}
	switch {
	case seen == 0:
		return arrow.BinaryTypes.String
	case numbers == seen:
		return arrow.PrimitiveTypes.Float64
	case dates == seen:
		return arrow.FixedWidthTypes.Date32
	case bools == seen:
		return arrow.FixedWidthTypes.Boolean
	default:
		return arrow.BinaryTypes.String
	}
}

func appendValue(b array.Builder, typ arrow.DataType, v core.Value) {
	if core.IsEmpty(v) {
		b.AppendNull()
		return
	}
	switch typ.ID() {
	case arrow.FLOAT64:
		f, _ := numeric(v)
		b.(*array.Float64Builder).Append(f)
	case arrow.DATE32:
		b.(*array.Date32Builder).Append(arrow.Date32FromTime(v.(time.Time)))
	case arrow.BOOL:
		b.(*array.BooleanBuilder).Append(v.(bool))
	default:
		b.(*array.StringBuilder).Append(core.Stringify(v))
	}
}
