package io

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/quocdat202/pivot/internal/model"
	"github.com/quocdat202/pivot/internal/table"
	"github.com/quocdat202/pivot/internal/value"
)

// pixelsPerChar converts table widths in pixels to Excel character widths.
const pixelsPerChar = 7.0

var hexColor = regexp.MustCompile(`^#?[0-9a-fA-F]{6}$`)

// Read reads the configured sheet, the first one by default, and returns a
// dataset. Numeric cells become numbers, empty cells stay missing and blank
// rows are skipped.
func (r *ExcelReader) Read() (*value.Dataset, error) {
	f, err := excelize.OpenReader(r.reader)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheet := r.options.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return value.NewDataset([]string{}, []value.Row{}), nil
		}
		sheet = sheets[0]
	}

	records, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheet, err)
	}
	if len(records) == 0 {
		return value.NewDataset([]string{}, []value.Row{}), nil
	}

	var headers []string
	dataRows := records
	if r.options.Header {
		headers = make([]string, len(records[0]))
		for i, h := range records[0] {
			headers[i] = strings.TrimSpace(h)
			if headers[i] == "" {
				headers[i] = fmt.Sprintf("column_%d", i)
			}
		}
		dataRows = records[1:]
	} else {
		width := 0
		for _, rec := range records {
			width = max(width, len(rec))
		}
		headers = make([]string, width)
		for i := range headers {
			headers[i] = fmt.Sprintf("column_%d", i)
		}
	}

	rows := make([]value.Row, 0, len(dataRows))
	for _, record := range dataRows {
		row := make(value.Row, len(headers))
		for i, cell := range record {
			if i >= len(headers) || cell == "" {
				continue
			}
			if f, ok := value.ParseDecimal(cell); ok {
				row[headers[i]] = value.Number(f)
			} else {
				row[headers[i]] = value.String(cell)
			}
		}
		if len(row) > 0 {
			rows = append(rows, row)
		}
	}

	return value.NewDataset(headers, rows), nil
}

// Write writes the table to a single-sheet workbook: a bold, frozen header
// row followed by the raw cell values, numbers kept numeric.
func (w *ExcelWriter) Write(t *table.Table) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := w.options.Sheet
	if sheet == "" {
		sheet = DefaultSheetName
	}
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	rowNum := 1
	if w.options.Header {
		if err := w.writeHeader(f, sheet, t); err != nil {
			return err
		}
		rowNum++
	}

	styles, err := w.columnStyles(f, t)
	if err != nil {
		return err
	}

	for _, row := range t.Rows {
		cells := make([]interface{}, len(t.Columns))
		for j, col := range t.Columns {
			cells[j] = excelCell(t.Value(row, col))
		}
		start, err := excelize.CoordinatesToCellName(1, rowNum)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, start, &cells); err != nil {
			return fmt.Errorf("writing row %d: %w", rowNum, err)
		}
		for j, col := range t.Columns {
			styleID, ok := styles[j]
			if !ok || !t.Value(row, col).IsNumber() {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(j+1, rowNum)
			if err := f.SetCellStyle(sheet, cell, cell, styleID); err != nil {
				return fmt.Errorf("styling %s: %w", cell, err)
			}
		}
		rowNum++
	}

	if err := f.Write(w.writer); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func (w *ExcelWriter) writeHeader(f *excelize.File, sheet string, t *table.Table) error {
	headers := make([]interface{}, len(t.Columns))
	for j, col := range t.Columns {
		headers[j] = col.Header
		name, err := excelize.ColumnNumberToName(j + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, name, name, float64(col.Width)/pixelsPerChar); err != nil {
			return fmt.Errorf("sizing column %s: %w", name, err)
		}
	}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return fmt.Errorf("writing headers: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}
	if err := f.SetRowStyle(sheet, 1, 1, bold); err != nil {
		return fmt.Errorf("styling headers: %w", err)
	}
	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

// columnStyles creates one style per coloured column, keyed by column index.
func (w *ExcelWriter) columnStyles(f *excelize.File, t *table.Table) (map[int]int, error) {
	styles := make(map[int]int)
	for j, col := range t.Columns {
		if col.Color == nil || !hexColor.MatchString(col.Color.Color) {
			continue
		}
		color := strings.TrimPrefix(col.Color.Color, "#")
		style := &excelize.Style{Font: &excelize.Font{Color: color}}
		if col.Color.Mode == model.ColorBackground {
			style.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{color}}
		}
		id, err := f.NewStyle(style)
		if err != nil {
			return nil, fmt.Errorf("creating style for %s: %w", col.ID, err)
		}
		styles[j] = id
	}
	return styles, nil
}

func excelCell(v value.Value) interface{} {
	if v.IsNil() {
		return ""
	}
	return v.Interface()
}
