package io

import (
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/quocdat202/pivot/internal/errors"
	"github.com/quocdat202/pivot/internal/table"
	"github.com/quocdat202/pivot/internal/value"
)

// Read reads CSV data and returns a dataset. Empty lines are skipped; short
// records leave their trailing columns missing and extra fields are
// dropped.
func (r *CSVReader) Read() (*value.Dataset, error) {
	csvReader := csv.NewReader(r.reader)
	csvReader.Comma = r.options.Delimiter
	csvReader.Comment = r.options.Comment
	csvReader.TrimLeadingSpace = r.options.SkipInitialSpace
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, errors.ErrEmptyInput
	}

	var headers []string
	dataRows := records
	if r.options.Header {
		headers = records[0]
		dataRows = records[1:]
	} else {
		headers = make([]string, len(records[0]))
		for i := range headers {
			headers[i] = fmt.Sprintf("column_%d", i)
		}
	}

	rows := make([]value.Row, 0, len(dataRows))
	for _, record := range dataRows {
		row := make(value.Row, len(headers))
		for i, header := range headers {
			if i >= len(record) {
				continue
			}
			row[header] = r.parseField(record[i])
		}
		rows = append(rows, row)
	}

	return value.NewDataset(append([]string(nil), headers...), rows), nil
}

// parseField converts a numeric field, thousands separators stripped, to a
// number and keeps everything else as text.
func (r *CSVReader) parseField(field string) value.Value {
	if r.options.CoerceNumbers && field != "" {
		if f, ok := value.ParseDecimal(strings.ReplaceAll(field, ",", "")); ok {
			return value.Number(f)
		}
	}
	return value.String(field)
}

// Write writes the table's headers and records in CSV format
func (w *CSVWriter) Write(t *table.Table) error {
	if w.options.QuoteAll {
		return w.writeQuoted(t)
	}

	csvWriter := csv.NewWriter(w.writer)
	csvWriter.Comma = w.options.Delimiter

	if w.options.Header {
		if err := csvWriter.Write(t.Headers()); err != nil {
			return fmt.Errorf("writing headers: %w", err)
		}
	}
	for i, record := range t.Records() {
		if err := csvWriter.Write(record); err != nil {
			return fmt.Errorf("writing row %d: %w", i, err)
		}
	}

	csvWriter.Flush()
	return csvWriter.Error()
}

// writeQuoted writes every field quoted, doubling embedded quotes.
func (w *CSVWriter) writeQuoted(t *table.Table) error {
	delimiter := string(w.options.Delimiter)
	writeRecord := func(record []string) error {
		quoted := make([]string, len(record))
		for i, field := range record {
			quoted[i] = `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
		}
		_, err := fmt.Fprintln(w.writer, strings.Join(quoted, delimiter))
		return err
	}

	if w.options.Header {
		if err := writeRecord(t.Headers()); err != nil {
			return fmt.Errorf("writing headers: %w", err)
		}
	}
	for i, record := range t.Records() {
		if err := writeRecord(record); err != nil {
			return fmt.Errorf("writing row %d: %w", i, err)
		}
	}
	return nil
}
