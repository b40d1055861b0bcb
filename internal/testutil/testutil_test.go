package testutil_test

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quocdat202/pivot/internal/grouping"
	"github.com/quocdat202/pivot/internal/testutil"
	"github.com/quocdat202/pivot/internal/value"
)

func TestSampleRows(t *testing.T) {
	rows := testutil.SampleRows()
	require.Len(t, rows, testutil.SampleRowCount)

	var sales, quantity float64
	for _, r := range rows {
		sales += r.Get("sales").Float()
		quantity += r.Get("quantity").Float()
	}
	assert.InDelta(t, testutil.SampleTotalSales, sales, 0)
	assert.InDelta(t, testutil.SampleTotalQuantity, quantity, 0)

	rows[0]["region"] = value.String("changed")
	assert.Equal(t, "North", testutil.SampleRows()[0].Get("region").String())
}

func TestSampleDataset(t *testing.T) {
	ds := testutil.SampleDataset()
	assert.Equal(t, testutil.SampleColumns, ds.Columns)
	assert.Equal(t, testutil.SampleRowCount, ds.Len())
	assert.True(t, ds.HasColumn("quantity"))
}

func TestSampleConfig(t *testing.T) {
	cfg := testutil.SampleConfig()
	assert.Equal(t, []string{"region"}, cfg.GroupBy)
	assert.Equal(t, []string{"sales", "quantity"}, cfg.Metrics)
	require.NoError(t, cfg.Validate(testutil.SampleDataset()))
}

func TestRows(t *testing.T) {
	rows := testutil.Rows(
		map[string]interface{}{"region": "North", "sales": 100},
		map[string]interface{}{"region": nil},
	)
	require.Len(t, rows, 2)
	testutil.AssertNumber(t, 100, rows[0].Get("sales"))
	assert.True(t, rows[1].Get("region").IsNull())
}

func TestSetupMemoryTest(t *testing.T) {
	mem := testutil.SetupMemoryTest(t)
	defer mem.Release()

	buf := memory.NewResizableBuffer(mem.Allocator)
	buf.Resize(64)
	assert.Equal(t, 64, buf.Len())
	buf.Release()
}

func TestGroupedRowHelpers(t *testing.T) {
	rows := []grouping.GroupedRow{
		{Path: []string{"Total"}, Level: -1, IsTotal: true},
		{Path: []string{"North"}, Level: 0},
	}
	assert.Equal(t, [][]string{{"Total"}, {"North"}}, testutil.Paths(rows))
	assert.Equal(t, 0, testutil.FindGroupedRow(t, rows, "North").Level)
}
