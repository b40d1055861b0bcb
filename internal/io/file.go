package io

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/quocdat202/pivot/internal/config"
	"github.com/quocdat202/pivot/internal/errors"
	"github.com/quocdat202/pivot/internal/table"
	"github.com/quocdat202/pivot/internal/value"
)

// Format identifies a file format.
type Format string

// Supported formats. Text and HTML are output only.
const (
	FormatCSV     Format = "csv"
	FormatTSV     Format = "tsv"
	FormatJSON    Format = "json"
	FormatJSONL   Format = "jsonl"
	FormatExcel   Format = "xlsx"
	FormatParquet Format = "parquet"
	FormatHTML    Format = "html"
	FormatText    Format = "text"
)

var extensionFormats = map[string]Format{
	".csv":     FormatCSV,
	".tsv":     FormatTSV,
	".json":    FormatJSON,
	".jsonl":   FormatJSONL,
	".ndjson":  FormatJSONL,
	".xlsx":    FormatExcel,
	".xlsm":    FormatExcel,
	".parquet": FormatParquet,
	".html":    FormatHTML,
	".htm":     FormatHTML,
	".txt":     FormatText,
}

// InputFormats lists the formats ReadFile accepts.
var InputFormats = []Format{FormatCSV, FormatTSV, FormatJSON, FormatJSONL, FormatExcel, FormatParquet}

// OutputFormats lists the formats WriteFile accepts.
var OutputFormats = []Format{
	FormatText, FormatCSV, FormatTSV, FormatJSON, FormatJSONL, FormatExcel, FormatParquet, FormatHTML,
}

// FormatFromPath returns the format implied by the extension of path.
func FormatFromPath(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if f, ok := extensionFormats[ext]; ok {
		return f, nil
	}
	return "", errors.NewUnsupportedFormatError("FormatFromPath", ext, formatNames(InputFormats))
}

// ParseFormat validates a format name such as "csv" or "xlsx".
func ParseFormat(name string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimPrefix(name, ".")))
	for _, known := range OutputFormats {
		if f == known {
			return f, nil
		}
	}
	if f == "excel" || f == "xlsm" {
		return FormatExcel, nil
	}
	return "", errors.NewUnsupportedFormatError("ParseFormat", name, formatNames(OutputFormats))
}

// NewReader returns a reader for data in format f.
func NewReader(f Format, r io.Reader, cfg config.Config, mem memory.Allocator) (DataReader, error) {
	switch f {
	case FormatCSV:
		return NewCSVReader(r, CSVOptionsFromConfig(cfg)), nil
	case FormatTSV:
		opts := CSVOptionsFromConfig(cfg)
		opts.Delimiter = '\t'
		return NewCSVReader(r, opts), nil
	case FormatJSON, FormatJSONL:
		return NewJSONReader(r, DefaultJSONOptions()), nil
	case FormatExcel:
		return NewExcelReader(r, DefaultExcelOptions()), nil
	case FormatParquet:
		return NewParquetReader(r, ParquetOptionsFromConfig(cfg), mem), nil
	default:
		return nil, errors.NewUnsupportedFormatError("NewReader", string(f), formatNames(InputFormats))
	}
}

// NewWriter returns a writer producing format f. title names the sheet or
// page where the format has one.
func NewWriter(f Format, w io.Writer, cfg config.Config, mem memory.Allocator, title string) (TableWriter, error) {
	switch f {
	case FormatText:
		return NewTextWriter(w), nil
	case FormatCSV:
		return NewCSVWriter(w, CSVOptionsFromConfig(cfg)), nil
	case FormatTSV:
		opts := CSVOptionsFromConfig(cfg)
		opts.Delimiter = '\t'
		return NewCSVWriter(w, opts), nil
	case FormatJSON:
		opts := DefaultJSONOptions()
		opts.Format = JSONArray
		opts.Indent = "  "
		return NewJSONWriter(w, opts), nil
	case FormatJSONL:
		opts := DefaultJSONOptions()
		opts.Format = JSONLines
		return NewJSONWriter(w, opts), nil
	case FormatExcel:
		return NewExcelWriter(w, ExcelOptions{Sheet: title, Header: true}), nil
	case FormatParquet:
		return NewParquetWriter(w, ParquetOptionsFromConfig(cfg), mem), nil
	case FormatHTML:
		return NewHTMLWriter(w, HTMLOptions{Title: title}), nil
	default:
		return nil, errors.NewUnsupportedFormatError("NewWriter", string(f), formatNames(OutputFormats))
	}
}

// ReadFile reads the dataset stored at path, choosing the reader from the
// file extension.
func ReadFile(path string, cfg config.Config) (*value.Dataset, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	reader, err := NewReader(f, file, cfg, memory.NewGoAllocator())
	if err != nil {
		return nil, err
	}
	ds, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return ds, nil
}

// WriteFile writes t to path in format f, or in the format implied by the
// extension when f is empty.
func WriteFile(path string, f Format, t *table.Table, cfg config.Config, title string) (err error) {
	if f == "" {
		if f, err = FormatFromPath(path); err != nil {
			return err
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		if closeErr := file.Close(); err == nil && closeErr != nil {
			err = fmt.Errorf("closing %s: %w", path, closeErr)
		}
	}()

	writer, err := NewWriter(f, file, cfg, memory.NewGoAllocator(), title)
	if err != nil {
		return err
	}
	return writer.Write(t)
}

func formatNames(formats []Format) []string {
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = string(f)
	}
	return names
}
