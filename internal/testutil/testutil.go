// Package testutil provides shared fixtures and assertions for pivot tests.
//
// It consolidates the patterns the package tests repeat:
// - The sixteen-row sample sales dataset and its default configuration
// - Row construction from plain Go values
// - Arrow allocator setup with leak checking for Parquet tests
// - Grouped-row assertions
package testutil

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quocdat202/pivot/internal/grouping"
	"github.com/quocdat202/pivot/internal/model"
	"github.com/quocdat202/pivot/internal/value"
)

// SampleColumns are the columns of the sample sales dataset, in order.
var SampleColumns = []string{"region", "product", "sales", "quantity", "date"} //nolint:gochecknoglobals // fixture

// Sample totals, handy for assertions.
const (
	SampleRowCount      = 16
	SampleTotalSales    = 17650
	SampleTotalQuantity = 1415
)

type sampleRecord struct {
	region, product string
	sales, quantity float64
	date            string
}

//nolint:gochecknoglobals // fixture
var sampleRecords = []sampleRecord{
	{"North", "Widget A", 1200, 100, "2024-01"},
	{"North", "Widget B", 800, 60, "2024-01"},
	{"South", "Widget A", 1500, 120, "2024-01"},
	{"South", "Widget B", 950, 75, "2024-01"},
	{"East", "Widget A", 1100, 90, "2024-01"},
	{"East", "Widget B", 700, 55, "2024-01"},
	{"West", "Widget A", 1300, 105, "2024-01"},
	{"West", "Widget B", 850, 65, "2024-01"},
	{"North", "Widget A", 1400, 115, "2024-02"},
	{"North", "Widget B", 900, 70, "2024-02"},
	{"South", "Widget A", 1600, 130, "2024-02"},
	{"South", "Widget B", 1000, 80, "2024-02"},
	{"East", "Widget A", 1250, 100, "2024-02"},
	{"East", "Widget B", 750, 60, "2024-02"},
	{"West", "Widget A", 1450, 118, "2024-02"},
	{"West", "Widget B", 900, 72, "2024-02"},
}

// SampleRows returns a fresh copy of the sample sales rows.
func SampleRows() []value.Row {
	rows := make([]value.Row, len(sampleRecords))
	for i, r := range sampleRecords {
		rows[i] = value.Row{
			"region":   value.String(r.region),
			"product":  value.String(r.product),
			"sales":    value.Number(r.sales),
			"quantity": value.Number(r.quantity),
			"date":     value.String(r.date),
		}
	}
	return rows
}

// SampleDataset returns the sample sales rows with their column order.
func SampleDataset() *value.Dataset {
	return value.NewDataset(append([]string(nil), SampleColumns...), SampleRows())
}

// SampleConfig returns the configuration the sample dataset is shown with:
// grouped by region with summed sales and quantity.
func SampleConfig() model.PivotConfig {
	cfg := model.DefaultPivotConfig()
	cfg.GroupBy = []string{"region"}
	cfg.Metrics = []string{"sales", "quantity"}
	cfg.Aggregates = map[string]model.AggregateFunction{
		"sales":    model.AggSum,
		"quantity": model.AggSum,
	}
	return cfg
}

// Rows builds rows from plain maps, converting each field with value.Of.
func Rows(fields ...map[string]interface{}) []value.Row {
	rows := make([]value.Row, len(fields))
	for i, f := range fields {
		rows[i] = value.RowOf(f)
	}
	return rows
}

// TestMemoryContext provides an Arrow allocator that is checked for leaks on
// Release.
type TestMemoryContext struct {
	Allocator *memory.CheckedAllocator
	tb        testing.TB
}

// Release asserts that every allocation made through the context was freed.
func (tmc *TestMemoryContext) Release() {
	tmc.Allocator.AssertSize(tmc.tb, 0)
}

// SetupMemoryTest creates a leak-checked allocator for tests.
//
// Example usage:
//
//	mem := testutil.SetupMemoryTest(t)
//	defer mem.Release()
func SetupMemoryTest(tb testing.TB) *TestMemoryContext {
	tb.Helper()
	return &TestMemoryContext{
		Allocator: memory.NewCheckedAllocator(memory.NewGoAllocator()),
		tb:        tb,
	}
}

// Paths returns the path of every grouped row, in order.
func Paths(rows []grouping.GroupedRow) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = r.Path
	}
	return out
}

// FindGroupedRow returns the row whose path equals path.
func FindGroupedRow(t *testing.T, rows []grouping.GroupedRow, path ...string) grouping.GroupedRow {
	t.Helper()
	for _, r := range rows {
		if assert.ObjectsAreEqual(r.Path, path) {
			return r
		}
	}
	require.FailNow(t, "grouped row not found", "path %v", path)
	return grouping.GroupedRow{}
}

// AssertNumber asserts that v is a number equal to expected.
func AssertNumber(t *testing.T, expected float64, v value.Value, msgAndArgs ...interface{}) {
	t.Helper()
	require.True(t, v.IsNumber(), "expected a number, got %s", v.Kind())
	assert.InDelta(t, expected, v.Float(), 1e-9, msgAndArgs...)
}
