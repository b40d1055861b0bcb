// Package io reads tabular data into datasets and writes rendered pivot
// tables out.
//
// Readers cover CSV, JSON (array or JSON Lines), Excel workbooks and
// Parquet; writers cover CSV, JSON, Excel, Parquet and standalone HTML.
// Every writer consumes the visible projection built by the table package,
// never the full grouped tree.
//
// Parquet readers and writers allocate through Apache Arrow; pass a
// memory.Allocator to control where buffers come from.
package io

import (
	"io"

	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/quocdat202/pivot/internal/config"
	"github.com/quocdat202/pivot/internal/table"
	"github.com/quocdat202/pivot/internal/value"
)

const (
	// DefaultBatchSize is the default batch size for Parquet I/O
	DefaultBatchSize = 1024
	// DefaultSheetName is the worksheet exported tables are written to
	DefaultSheetName = "Pivot Table"
)

// DataReader defines the interface for reading data from various sources
type DataReader interface {
	// Read reads every row from the source
	Read() (*value.Dataset, error)
}

// TableWriter defines the interface for writing rendered tables
type TableWriter interface {
	// Write writes the table's headers and visible rows
	Write(t *table.Table) error
}

// CSVOptions contains configuration options for CSV operations
type CSVOptions struct {
	// Delimiter is the field delimiter (default: comma)
	Delimiter rune
	// Comment is the comment character (default: 0 = disabled)
	Comment rune
	// Header indicates whether the first row contains headers
	Header bool
	// SkipInitialSpace indicates whether to skip initial whitespace
	SkipInitialSpace bool
	// CoerceNumbers converts numeric fields, thousands separators allowed,
	// to numbers when reading
	CoerceNumbers bool
	// QuoteAll quotes every field when writing
	QuoteAll bool
}

// DefaultCSVOptions returns default CSV options
func DefaultCSVOptions() CSVOptions {
	return CSVOptions{
		Delimiter:        ',',
		Comment:          0,
		Header:           true,
		SkipInitialSpace: false,
		CoerceNumbers:    true,
		QuoteAll:         true,
	}
}

// CSVReader reads CSV data into a dataset
type CSVReader struct {
	reader  io.Reader
	options CSVOptions
}

// NewCSVReader creates a new CSV reader with the specified options
func NewCSVReader(reader io.Reader, options CSVOptions) *CSVReader {
	return &CSVReader{
		reader:  reader,
		options: options,
	}
}

// CSVWriter writes tables in CSV format
type CSVWriter struct {
	writer  io.Writer
	options CSVOptions
}

// NewCSVWriter creates a new CSV writer with the specified options
func NewCSVWriter(writer io.Writer, options CSVOptions) *CSVWriter {
	return &CSVWriter{
		writer:  writer,
		options: options,
	}
}

// JSONFormat selects between a single JSON array and JSON Lines
type JSONFormat int

const (
	// JSONAuto detects the format from the first non-space byte
	JSONAuto JSONFormat = iota
	// JSONArray is a single array of objects
	JSONArray
	// JSONLines is one object per line
	JSONLines
)

// JSONOptions contains configuration options for JSON operations
type JSONOptions struct {
	// Format of the input or output
	Format JSONFormat
	// MaxRecords limits the rows read; 0 reads everything
	MaxRecords int
	// Indent pretty-prints array output when non-empty
	Indent string
}

// DefaultJSONOptions returns default JSON options
func DefaultJSONOptions() JSONOptions {
	return JSONOptions{Format: JSONAuto}
}

// JSONReader reads JSON records into a dataset
type JSONReader struct {
	reader  io.Reader
	options JSONOptions
}

// NewJSONReader creates a new JSON reader with the specified options
func NewJSONReader(reader io.Reader, options JSONOptions) *JSONReader {
	return &JSONReader{
		reader:  reader,
		options: options,
	}
}

// JSONWriter writes tables as JSON records keyed by header
type JSONWriter struct {
	writer  io.Writer
	options JSONOptions
}

// NewJSONWriter creates a new JSON writer with the specified options
func NewJSONWriter(writer io.Writer, options JSONOptions) *JSONWriter {
	return &JSONWriter{
		writer:  writer,
		options: options,
	}
}

// ExcelOptions contains configuration options for workbook operations
type ExcelOptions struct {
	// Sheet to read or write; empty reads the first sheet and writes
	// DefaultSheetName
	Sheet string
	// Header indicates whether the first row contains headers
	Header bool
}

// DefaultExcelOptions returns default Excel options
func DefaultExcelOptions() ExcelOptions {
	return ExcelOptions{Header: true}
}

// ExcelReader reads a worksheet into a dataset
type ExcelReader struct {
	reader  io.Reader
	options ExcelOptions
}

// NewExcelReader creates a new Excel reader with the specified options
func NewExcelReader(reader io.Reader, options ExcelOptions) *ExcelReader {
	return &ExcelReader{
		reader:  reader,
		options: options,
	}
}

// ExcelWriter writes tables to an XLSX workbook
type ExcelWriter struct {
	writer  io.Writer
	options ExcelOptions
}

// NewExcelWriter creates a new Excel writer with the specified options
func NewExcelWriter(writer io.Writer, options ExcelOptions) *ExcelWriter {
	return &ExcelWriter{
		writer:  writer,
		options: options,
	}
}

// ParquetOptions contains configuration options for Parquet operations
type ParquetOptions struct {
	// Compression type for Parquet files
	Compression string
	// BatchSize for reading/writing operations
	BatchSize int
}

// DefaultParquetOptions returns default Parquet options
func DefaultParquetOptions() ParquetOptions {
	return ParquetOptions{
		Compression: "snappy",
		BatchSize:   DefaultBatchSize,
	}
}

// ParquetReader reads Parquet data into a dataset
type ParquetReader struct {
	reader  io.Reader
	options ParquetOptions
	mem     memory.Allocator
}

// NewParquetReader creates a new Parquet reader with the specified options
func NewParquetReader(reader io.Reader, options ParquetOptions, mem memory.Allocator) *ParquetReader {
	return &ParquetReader{
		reader:  reader,
		options: options,
		mem:     mem,
	}
}

// ParquetWriter writes tables in Parquet format
type ParquetWriter struct {
	writer  io.Writer
	options ParquetOptions
	mem     memory.Allocator
}

// NewParquetWriter creates a new Parquet writer with the specified options
func NewParquetWriter(writer io.Writer, options ParquetOptions, mem memory.Allocator) *ParquetWriter {
	return &ParquetWriter{
		writer:  writer,
		options: options,
		mem:     mem,
	}
}

// HTMLOptions contains configuration options for HTML export
type HTMLOptions struct {
	// Title of the generated page
	Title string
}

// DefaultHTMLOptions returns default HTML options
func DefaultHTMLOptions() HTMLOptions {
	return HTMLOptions{Title: DefaultSheetName}
}

// HTMLWriter writes tables as a standalone HTML page
type HTMLWriter struct {
	writer  io.Writer
	options HTMLOptions
}

// NewHTMLWriter creates a new HTML writer with the specified options
func NewHTMLWriter(writer io.Writer, options HTMLOptions) *HTMLWriter {
	return &HTMLWriter{
		writer:  writer,
		options: options,
	}
}

// CSVOptionsFromConfig returns the default CSV options with the configured
// delimiter.
func CSVOptionsFromConfig(cfg config.Config) CSVOptions {
	opts := DefaultCSVOptions()
	opts.Delimiter = cfg.WithDefaults().Delimiter()
	return opts
}

// ParquetOptionsFromConfig returns the configured Parquet options.
func ParquetOptionsFromConfig(cfg config.Config) ParquetOptions {
	cfg = cfg.WithDefaults()
	return ParquetOptions{
		Compression: cfg.ParquetCompression,
		BatchSize:   cfg.ParquetBatchSize,
	}
}
