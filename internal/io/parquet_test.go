package io_test

import (
	"bytes"
	"testing"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quocdat202/pivot/internal/io"
	"github.com/quocdat202/pivot/internal/testutil"
	"github.com/quocdat202/pivot/internal/value"
)

func TestParquet_RoundTrip(t *testing.T) {
	mem := memory.NewGoAllocator()

	compressions := []string{"snappy", "gzip", "zstd", "lz4", "none"}
	for _, compression := range compressions {
		t.Run(compression, func(t *testing.T) {
			opts := io.ParquetOptions{Compression: compression, BatchSize: io.DefaultBatchSize}

			var buf bytes.Buffer
			require.NoError(t, io.NewParquetWriter(&buf, opts, mem).Write(regionTable(t)))

			ds, err := io.NewParquetReader(bytes.NewReader(buf.Bytes()), opts, mem).Read()
			require.NoError(t, err)

			assert.Equal(t, []string{"Region", "Sales", "Quantity"}, ds.Columns)
			require.Len(t, ds.Rows, 5)
			assert.Equal(t, value.String("Total"), ds.Rows[0].Get("Region"))
			testutil.AssertNumber(t, testutil.SampleTotalSales, ds.Rows[0].Get("Sales"))
			testutil.AssertNumber(t, 360, ds.Rows[4].Get("Quantity"))
		})
	}
}

func TestParquet_FlatTableWithNulls(t *testing.T) {
	cfg := testutil.SampleConfig()
	cfg.GroupBy = nil
	cfg.Metrics = []string{"sales", "region"}
	tbl := sampleTable(t, cfg, nil)
	tbl.Rows[1].Values = value.Row{"region": value.Null()}

	var buf bytes.Buffer
	require.NoError(t, io.NewParquetWriter(&buf, io.DefaultParquetOptions(), nil).Write(tbl))

	ds, err := io.NewParquetReader(bytes.NewReader(buf.Bytes()), io.DefaultParquetOptions(), nil).Read()
	require.NoError(t, err)

	require.Len(t, ds.Rows, testutil.SampleRowCount)
	testutil.AssertNumber(t, 1200, ds.Rows[0].Get("Sales"))
	assert.Equal(t, value.String("North"), ds.Rows[0].Get("Region"))
	assert.True(t, ds.Rows[1].Get("Sales").IsNull())
	assert.True(t, ds.Rows[1].Get("Region").IsNull())
}

type closeRecorder struct {
	bytes.Buffer
	closed bool
}

func (c *closeRecorder) Close() error {
	c.closed = true
	return nil
}

func TestParquetWriter_LeavesSinkOpen(t *testing.T) {
	var sink closeRecorder
	require.NoError(t, io.NewParquetWriter(&sink, io.DefaultParquetOptions(), nil).Write(regionTable(t)))

	assert.False(t, sink.closed)
	ds, err := io.NewParquetReader(bytes.NewReader(sink.Bytes()), io.DefaultParquetOptions(), nil).Read()
	require.NoError(t, err)
	assert.Len(t, ds.Rows, 5)
}

func TestParquetReader_Invalid(t *testing.T) {
	_, err := io.NewParquetReader(bytes.NewReader(nil), io.DefaultParquetOptions(), memory.NewGoAllocator()).Read()
	assert.Error(t, err)
}
