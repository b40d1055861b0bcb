package io

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/quocdat202/pivot/internal/table"
)

// TextWriter writes tables as aligned plain text for terminals.
type TextWriter struct {
	writer io.Writer
}

// NewTextWriter creates a new text writer.
func NewTextWriter(writer io.Writer) *TextWriter {
	return &TextWriter{writer: writer}
}

// Write prints the headers and the formatted text of every row. Hierarchy
// labels are indented two spaces per level.
func (w *TextWriter) Write(t *table.Table) error {
	tw := tabwriter.NewWriter(w.writer, 0, 0, 2, ' ', 0)

	if _, err := fmt.Fprintln(tw, strings.Join(t.Headers(), "\t")); err != nil {
		return err
	}
	for _, row := range t.Rows {
		cells := make([]string, len(t.Columns))
		for j, col := range t.Columns {
			cells[j] = t.Text(row, col)
			if col.Hierarchy {
				cells[j] = strings.Repeat("  ", max(0, row.Level)) + marker(row) + cells[j]
			}
		}
		if _, err := fmt.Fprintln(tw, strings.Join(cells, "\t")); err != nil {
			return err
		}
	}
	return tw.Flush()
}

func marker(row table.Row) string {
	switch {
	case row.Expandable && row.Expanded:
		return "- "
	case row.Expandable:
		return "+ "
	default:
		return ""
	}
}
