package io

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"

	"github.com/quocdat202/pivot/internal/errors"
	"github.com/quocdat202/pivot/internal/table"
	"github.com/quocdat202/pivot/internal/value"
)

// Read reads Parquet data and returns a dataset.
func (r *ParquetReader) Read() (*value.Dataset, error) {
	data, err := io.ReadAll(r.reader)
	if err != nil {
		return nil, fmt.Errorf("reading data: %w", err)
	}

	pqReader, err := file.NewParquetReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("creating parquet file reader: %w", err)
	}
	defer func() { _ = pqReader.Close() }()

	props := pqarrow.ArrowReadProperties{BatchSize: int64(r.options.BatchSize)}
	arrowReader, err := pqarrow.NewFileReader(pqReader, props, r.allocator())
	if err != nil {
		return nil, fmt.Errorf("creating arrow file reader: %w", err)
	}

	tbl, err := arrowReader.ReadTable(context.Background())
	if err != nil {
		return nil, fmt.Errorf("reading table: %w", err)
	}
	defer tbl.Release()

	return arrowTableToDataset(tbl)
}

func (r *ParquetReader) allocator() memory.Allocator {
	if r.mem == nil {
		return memory.NewGoAllocator()
	}
	return r.mem
}

func arrowTableToDataset(tbl arrow.Table) (*value.Dataset, error) {
	schema := tbl.Schema()
	columns := make([]string, schema.NumFields())
	for i, field := range schema.Fields() {
		columns[i] = field.Name
	}

	rows := make([]value.Row, tbl.NumRows())
	for i := range rows {
		rows[i] = make(value.Row, len(columns))
	}

	for c, name := range columns {
		offset := 0
		for _, chunk := range tbl.Column(c).Data().Chunks() {
			for i := 0; i < chunk.Len(); i++ {
				v, err := arrowValue(chunk, i)
				if err != nil {
					return nil, fmt.Errorf("column %s: %w", name, err)
				}
				rows[offset+i][name] = v
			}
			offset += chunk.Len()
		}
	}

	return value.NewDataset(columns, rows), nil
}

func arrowValue(arr arrow.Array, i int) (value.Value, error) {
	if arr.IsNull(i) {
		return value.Null(), nil
	}
	switch a := arr.(type) {
	case *array.Float64:
		return value.Number(a.Value(i)), nil
	case *array.Float32:
		return value.Number(float64(a.Value(i))), nil
	case *array.Int64:
		return value.Number(float64(a.Value(i))), nil
	case *array.Int32:
		return value.Number(float64(a.Value(i))), nil
	case *array.String:
		return value.String(a.Value(i)), nil
	case *array.Boolean:
		return value.Bool(a.Value(i)), nil
	default:
		return value.Value{}, fmt.Errorf("unsupported arrow type: %s", arr.DataType())
	}
}

// Write writes the table to Parquet. Each column becomes a nullable float64,
// boolean or string field depending on the values it holds.
func (w *ParquetWriter) Write(t *table.Table) error {
	mem := w.allocator()
	record, err := tableToRecord(t, mem)
	if err != nil {
		return fmt.Errorf("converting table to arrow: %w", err)
	}
	defer record.Release()

	props := parquet.NewWriterProperties(
		parquet.WithCompression(compressionCodec(w.options.Compression)),
		parquet.WithBatchSize(int64(w.options.BatchSize)),
		parquet.WithAllocator(mem),
	)
	arrowProps := pqarrow.NewArrowWriterProperties(pqarrow.WithAllocator(mem))

	// The file writer closes a sink that is an io.Closer; the caller owns w.writer.
	writer, err := pqarrow.NewFileWriter(record.Schema(), writerOnly{w.writer}, props, arrowProps)
	if err != nil {
		return fmt.Errorf("creating file writer: %w", err)
	}
	if err := writer.Write(record); err != nil {
		_ = writer.Close()
		return fmt.Errorf("writing record: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("closing file writer: %w", err)
	}
	return nil
}

type writerOnly struct{ io.Writer }

func (w *ParquetWriter) allocator() memory.Allocator {
	if w.mem == nil {
		return memory.NewGoAllocator()
	}
	return w.mem
}

func compressionCodec(name string) compress.Compression {
	switch name {
	case "gzip":
		return compress.Codecs.Gzip
	case "lz4":
		return compress.Codecs.Lz4Raw
	case "zstd":
		return compress.Codecs.Zstd
	case "none", "uncompressed":
		return compress.Codecs.Uncompressed
	default:
		return compress.Codecs.Snappy
	}
}

// columnKind picks the arrow type for a column: numeric when every non-nil
// value is a number, boolean when every one is a bool, string otherwise.
func columnKind(t *table.Table, col table.Column) arrow.DataType {
	numbers, bools, seen := true, true, false
	for _, row := range t.Rows {
		v := t.Value(row, col)
		if v.IsNil() {
			continue
		}
		seen = true
		numbers = numbers && v.IsNumber()
		bools = bools && v.IsBool()
	}
	switch {
	case !seen:
		return arrow.BinaryTypes.String
	case numbers:
		return arrow.PrimitiveTypes.Float64
	case bools:
		return arrow.FixedWidthTypes.Boolean
	default:
		return arrow.BinaryTypes.String
	}
}

func tableToRecord(t *table.Table, mem memory.Allocator) (arrow.Record, error) {
	fields := make([]arrow.Field, len(t.Columns))
	for i, col := range t.Columns {
		fields[i] = arrow.Field{Name: col.Header, Type: columnKind(t, col), Nullable: true}
	}
	schema := arrow.NewSchema(fields, nil)

	builder := array.NewRecordBuilder(mem, schema)
	defer builder.Release()

	for i, col := range t.Columns {
		switch b := builder.Field(i).(type) {
		case *array.Float64Builder:
			for _, row := range t.Rows {
				if v := t.Value(row, col); v.IsNumber() {
					b.Append(v.Float())
				} else {
					b.AppendNull()
				}
			}
		case *array.BooleanBuilder:
			for _, row := range t.Rows {
				if v := t.Value(row, col); v.IsBool() {
					flag, _ := v.BoolValue()
					b.Append(flag)
				} else {
					b.AppendNull()
				}
			}
		case *array.StringBuilder:
			for _, row := range t.Rows {
				if v := t.Value(row, col); v.IsNil() {
					b.AppendNull()
				} else {
					b.Append(v.String())
				}
			}
		default:
			return nil, errors.NewInternalError("Export", fmt.Errorf("unexpected builder for column %s", col.Header))
		}
	}

	return builder.NewRecord(), nil
}
