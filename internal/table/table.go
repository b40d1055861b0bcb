// Package table projects a processed pivot onto the rows and columns a view
// or an exporter renders: visible rows only, metric columns in display
// order, with widths, colours and formatted text.
package table

import (
	"slices"
	"strings"

	"github.com/quocdat202/pivot/internal/config"
	"github.com/quocdat202/pivot/internal/engine"
	"github.com/quocdat202/pivot/internal/expansion"
	"github.com/quocdat202/pivot/internal/format"
	"github.com/quocdat202/pivot/internal/model"
	"github.com/quocdat202/pivot/internal/value"
)

// HierarchyColumnID identifies the group hierarchy column.
const HierarchyColumnID = "__row_path__"

// IndentWidth is the indentation per group level, in pixels.
const IndentWidth = 20

// Column describes one rendered column.
type Column struct {
	ID        string                   `json:"id"`
	Header    string                   `json:"header"`
	Width     int                      `json:"width"`
	Aggregate model.AggregateFunction  `json:"aggregate,omitempty"`
	Color     *model.ColumnColorConfig `json:"color,omitempty"`
	Hierarchy bool                     `json:"hierarchy,omitempty"`
	Pinned    bool                     `json:"pinned,omitempty"`
}

// Row is one rendered row. Values holds the raw metric values keyed by
// column ID.
type Row struct {
	Path          []string               `json:"path,omitempty"`
	Label         string                 `json:"label,omitempty"`
	Level         int                    `json:"level"`
	ChildrenCount int                    `json:"children_count,omitempty"`
	IsTotal       bool                   `json:"is_total,omitempty"`
	Expandable    bool                   `json:"expandable,omitempty"`
	Expanded      bool                   `json:"expanded,omitempty"`
	Values        map[string]value.Value `json:"values"`
}

// Indent returns the left padding of the row's label in pixels.
func (r Row) Indent() int {
	return max(0, r.Level) * IndentWidth
}

// Style is the inline style of a cell.
type Style struct {
	Color      string `json:"color,omitempty"`
	Background string `json:"background,omitempty"`
}

// IsZero reports whether the style sets nothing.
func (s Style) IsZero() bool {
	return s == Style{}
}

// Table is the rendered projection of a pivot.
type Table struct {
	Columns []Column `json:"columns"`
	Rows    []Row    `json:"rows"`
	Grouped bool     `json:"grouped"`
}

// Options holds the presentation defaults.
type Options struct {
	DefaultColumnWidth   int
	HierarchyColumnWidth int
}

// OptionsFromConfig takes the column widths from cfg.
func OptionsFromConfig(cfg config.Config) Options {
	cfg = cfg.WithDefaults()
	return Options{
		DefaultColumnWidth:   cfg.DefaultColumnWidth,
		HierarchyColumnWidth: cfg.HierarchyColumnWidth,
	}
}

func (o Options) withDefaults() Options {
	if o.DefaultColumnWidth <= 0 {
		o.DefaultColumnWidth = config.DefaultColumnWidth
	}
	if o.HierarchyColumnWidth <= 0 {
		o.HierarchyColumnWidth = config.DefaultHierarchyColumnWidth
	}
	return o
}

// Build projects result onto a table. Grouped results show the rows visible
// under expanded behind a hierarchy column; flat results show every row.
func Build(result *engine.Result, cfg model.PivotConfig, expanded *expansion.Set, opts Options) *Table {
	opts = opts.withDefaults()
	t := &Table{Grouped: len(cfg.GroupBy) > 0}

	if t.Grouped {
		t.Columns = append(t.Columns, Column{
			ID:        HierarchyColumnID,
			Header:    HierarchyHeader(cfg.GroupBy),
			Width:     opts.HierarchyColumnWidth,
			Hierarchy: true,
		})
	}
	for _, metric := range MetricOrder(cfg) {
		if !cfg.IsMetricVisible(metric) {
			continue
		}
		col := Column{
			ID:        metric,
			Header:    format.FieldName(metric),
			Width:     opts.DefaultColumnWidth,
			Aggregate: cfg.AggregateFor(metric),
		}
		if w, ok := cfg.ColumnWidths[metric]; ok && w > 0 {
			col.Width = w
		}
		if c, ok := cfg.ColumnColors[metric]; ok {
			col.Color = &c
		}
		t.Columns = append(t.Columns, col)
	}
	for i := 0; i < cfg.PinnedColumnsCount && i < len(t.Columns); i++ {
		t.Columns[i].Pinned = true
	}

	if t.Grouped {
		depth := len(cfg.GroupBy)
		for _, g := range expansion.VisibleRows(result.GroupedRows, expanded) {
			t.Rows = append(t.Rows, Row{
				Path:          g.Path,
				Label:         g.Label(),
				Level:         g.Level,
				ChildrenCount: g.ChildrenCount,
				IsTotal:       g.IsTotal,
				Expandable:    g.Expandable(depth),
				Expanded:      g.Expandable(depth) && expanded.Contains(g.Path),
				Values:        g.Values,
			})
		}
	} else {
		for _, r := range result.Rows {
			t.Rows = append(t.Rows, Row{Values: r})
		}
	}
	if t.Rows == nil {
		t.Rows = []Row{}
	}
	return t
}

// HierarchyHeader is the header of the hierarchy column: the display names
// of the group-by columns joined by ", ".
func HierarchyHeader(groupBy []string) string {
	names := make([]string, len(groupBy))
	for i, c := range groupBy {
		names[i] = format.FieldName(c)
	}
	return strings.Join(names, ", ")
}

// MetricOrder returns the configured metrics in display order: those listed
// in ColumnOrder first, then those in MetricsOrder, then the rest in
// configuration order. Names that are not metrics are ignored.
func MetricOrder(cfg model.PivotConfig) []string {
	out := make([]string, 0, len(cfg.Metrics))
	add := func(names []string) {
		for _, n := range names {
			if slices.Contains(cfg.Metrics, n) && !slices.Contains(out, n) {
				out = append(out, n)
			}
		}
	}
	add(cfg.ColumnOrder)
	add(cfg.MetricsOrder)
	add(cfg.Metrics)
	return out
}

// Headers returns the column headers in order.
func (t *Table) Headers() []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Header
	}
	return out
}

// Value returns the raw value of a cell. The hierarchy column holds the
// row label.
func (t *Table) Value(row Row, col Column) value.Value {
	if col.Hierarchy {
		return value.String(row.Label)
	}
	return row.Values[col.ID]
}

// Text returns the display text of a cell.
func (t *Table) Text(row Row, col Column) string {
	if col.Hierarchy {
		return row.Label
	}
	return format.CellValue(row.Values[col.ID], col.ID, col.Aggregate)
}

// Style returns the inline style of a cell. Colours apply to numeric
// values only; background mode tints the background with the colour at
// low opacity and uses it for the text as well.
func (t *Table) Style(row Row, col Column) Style {
	if col.Color == nil || !t.Value(row, col).IsNumber() {
		return Style{}
	}
	switch col.Color.Mode {
	case model.ColorText:
		return Style{Color: col.Color.Color}
	case model.ColorBackground:
		return Style{Color: col.Color.Color, Background: col.Color.Color + "20"}
	default:
		return Style{}
	}
}

// Records returns the raw cell values of every row, with nil values as
// empty strings. Exporters write these below Headers.
func (t *Table) Records() [][]string {
	out := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		rec := make([]string, len(t.Columns))
		for j, col := range t.Columns {
			rec[j] = t.Value(row, col).KeyString()
		}
		out[i] = rec
	}
	return out
}

// FormattedRecords returns the display text of every row.
func (t *Table) FormattedRecords() [][]string {
	out := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		rec := make([]string, len(t.Columns))
		for j, col := range t.Columns {
			rec[j] = t.Text(row, col)
		}
		out[i] = rec
	}
	return out
}
