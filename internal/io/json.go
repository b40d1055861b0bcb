package io

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/quocdat202/pivot/internal/table"
	"github.com/quocdat202/pivot/internal/value"
)

// Read reads JSON records and returns a dataset. Columns are ordered by
// first appearance; nested objects and arrays are kept as their JSON text.
func (r *JSONReader) Read() (*value.Dataset, error) {
	br := bufio.NewReader(r.reader)
	format := r.options.Format
	if format == JSONAuto {
		format = detectJSONFormat(br)
	}

	dec := json.NewDecoder(br)
	var (
		columns []string
		seen    = make(map[string]bool)
		rows    []value.Row
	)
	appendRecord := func() error {
		keys, row, err := decodeRecord(dec)
		if err != nil {
			return err
		}
		for _, k := range keys {
			if !seen[k] {
				seen[k] = true
				columns = append(columns, k)
			}
		}
		rows = append(rows, row)
		return nil
	}
	full := func() bool {
		return r.options.MaxRecords > 0 && len(rows) >= r.options.MaxRecords
	}

	switch format {
	case JSONArray:
		if err := expectDelim(dec, '['); err != nil {
			return nil, fmt.Errorf("unmarshaling JSON array: %w", err)
		}
		for dec.More() && !full() {
			if err := appendRecord(); err != nil {
				return nil, fmt.Errorf("unmarshaling JSON record %d: %w", len(rows)+1, err)
			}
		}
		if !full() {
			if err := expectDelim(dec, ']'); err != nil {
				return nil, fmt.Errorf("unmarshaling JSON array: %w", err)
			}
		}
	case JSONLines:
		for dec.More() && !full() {
			if err := appendRecord(); err != nil {
				return nil, fmt.Errorf("unmarshaling JSON line %d: %w", len(rows)+1, err)
			}
		}
	default:
		return nil, fmt.Errorf("unsupported JSON format: %d", r.options.Format)
	}

	if columns == nil {
		columns = []string{}
	}
	if rows == nil {
		rows = []value.Row{}
	}
	return value.NewDataset(columns, rows), nil
}

// detectJSONFormat peeks at the first non-space byte: '[' starts an array,
// anything else is read as JSON Lines.
func detectJSONFormat(br *bufio.Reader) JSONFormat {
	for {
		b, err := br.ReadByte()
		if err != nil {
			return JSONLines
		}
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		}
		_ = br.UnreadByte()
		if b == '[' {
			return JSONArray
		}
		return JSONLines
	}
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}

// decodeRecord decodes one object, returning its keys in document order.
func decodeRecord(dec *json.Decoder) ([]string, value.Row, error) {
	if err := expectDelim(dec, '{'); err != nil {
		return nil, nil, err
	}
	var keys []string
	row := make(value.Row)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, nil, fmt.Errorf("expected object key, got %v", tok)
		}
		var v value.Value
		if err := dec.Decode(&v); err != nil {
			return nil, nil, fmt.Errorf("decoding %q: %w", key, err)
		}
		if _, dup := row[key]; !dup {
			keys = append(keys, key)
		}
		row[key] = v
	}
	if err := expectDelim(dec, '}'); err != nil {
		return nil, nil, err
	}
	return keys, row, nil
}

// Write writes one object per visible row, keyed by column header in
// column order.
func (w *JSONWriter) Write(t *table.Table) error {
	records := make([][]byte, len(t.Rows))
	for i, row := range t.Rows {
		data, err := encodeRecord(t, row)
		if err != nil {
			return fmt.Errorf("marshaling JSON record %d: %w", i, err)
		}
		records[i] = data
	}

	switch w.options.Format {
	case JSONLines:
		for _, data := range records {
			if _, err := w.writer.Write(append(data, '\n')); err != nil {
				return err
			}
		}
		return nil
	case JSONAuto, JSONArray:
		return w.writeArray(records)
	default:
		return fmt.Errorf("unsupported JSON format: %d", w.options.Format)
	}
}

func (w *JSONWriter) writeArray(records [][]byte) error {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, data := range records {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.Write(data)
	}
	buf.WriteByte(']')

	out := buf.Bytes()
	if w.options.Indent != "" {
		var indented bytes.Buffer
		if err := json.Indent(&indented, out, "", w.options.Indent); err != nil {
			return fmt.Errorf("indenting JSON array: %w", err)
		}
		out = append(indented.Bytes(), '\n')
	}
	_, err := w.writer.Write(out)
	return err
}

func encodeRecord(t *table.Table, row table.Row) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for j, col := range t.Columns {
		if j > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(col.Header)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(t.Value(row, col))
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

