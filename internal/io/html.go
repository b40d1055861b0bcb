package io

import (
	"embed"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/safehtml"
	"github.com/google/safehtml/template"

	"github.com/quocdat202/pivot/internal/table"
)

//go:embed templates/*
var templateFS embed.FS

var pageTemplate = template.Must(
	template.New("table.html").ParseFS(template.TrustedFSFromEmbed(templateFS), "templates/table.html"),
)

type htmlPage struct {
	Title   string
	Headers []htmlCell
	Rows    []htmlRow
}

type htmlRow struct {
	Class string
	Cells []htmlCell
}

type htmlCell struct {
	Text   string
	Class  string
	Style  safehtml.Style
	Indent safehtml.Style
	Toggle string
}

// Write renders the table as a standalone HTML page with formatted cell
// text, column colours and hierarchy indentation.
func (w *HTMLWriter) Write(t *table.Table) error {
	page := htmlPage{
		Title:   w.options.Title,
		Headers: make([]htmlCell, len(t.Columns)),
		Rows:    make([]htmlRow, len(t.Rows)),
	}
	if page.Title == "" {
		page.Title = DefaultSheetName
	}

	for j, col := range t.Columns {
		page.Headers[j] = htmlCell{
			Text:  col.Header,
			Class: pinnedClass(col),
			Style: safehtml.StyleFromProperties(safehtml.StyleProperties{Width: px(col.Width)}),
		}
	}

	for i, row := range t.Rows {
		cells := make([]htmlCell, len(t.Columns))
		for j, col := range t.Columns {
			cells[j] = htmlCellFor(t, row, col)
		}
		page.Rows[i] = htmlRow{Cells: cells}
		if row.IsTotal {
			page.Rows[i].Class = "total"
		}
	}

	if err := pageTemplate.Execute(w.writer, page); err != nil {
		return fmt.Errorf("rendering html: %w", err)
	}
	return nil
}

func htmlCellFor(t *table.Table, row table.Row, col table.Column) htmlCell {
	cell := htmlCell{Text: t.Text(row, col), Class: pinnedClass(col)}

	if col.Hierarchy {
		if indent := row.Indent(); indent > 0 {
			cell.Indent = safehtml.StyleFromProperties(safehtml.StyleProperties{
				Display: "inline-block",
				Width:   px(indent),
			})
		}
		if row.Expandable {
			cell.Toggle = "▸"
			if row.Expanded {
				cell.Toggle = "▾"
			}
		}
		return cell
	}

	if t.Value(row, col).IsNumber() {
		cell.Class = strings.TrimSpace(cell.Class + " number")
	}
	if style := t.Style(row, col); !style.IsZero() {
		cell.Style = safehtml.StyleFromProperties(safehtml.StyleProperties{
			Color:           style.Color,
			BackgroundColor: style.Background,
		})
	}
	return cell
}

func pinnedClass(col table.Column) string {
	if col.Pinned {
		return "pinned"
	}
	return ""
}

func px(n int) string {
	return strconv.Itoa(n) + "px"
}
