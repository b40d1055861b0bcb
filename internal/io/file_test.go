package io_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quocdat202/pivot/internal/config"
	"github.com/quocdat202/pivot/internal/errors"
	"github.com/quocdat202/pivot/internal/io"
	"github.com/quocdat202/pivot/internal/testutil"
)

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want io.Format
	}{
		{"data.csv", io.FormatCSV},
		{"DATA.CSV", io.FormatCSV},
		{"data.tsv", io.FormatTSV},
		{"dir/data.json", io.FormatJSON},
		{"data.jsonl", io.FormatJSONL},
		{"data.ndjson", io.FormatJSONL},
		{"book.xlsx", io.FormatExcel},
		{"table.parquet", io.FormatParquet},
		{"page.html", io.FormatHTML},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := io.FormatFromPath(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := io.FormatFromPath("legacy.xls")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrUnsupportedFormat)
}

func TestParseFormat(t *testing.T) {
	f, err := io.ParseFormat("excel")
	require.NoError(t, err)
	assert.Equal(t, io.FormatExcel, f)

	f, err = io.ParseFormat(".Parquet")
	require.NoError(t, err)
	assert.Equal(t, io.FormatParquet, f)

	_, err = io.ParseFormat("pdf")
	assert.ErrorIs(t, err, errors.ErrUnsupportedFormat)
}

func TestNewReader_OutputOnlyFormats(t *testing.T) {
	_, err := io.NewReader(io.FormatHTML, nil, config.NewConfig(), nil)
	assert.ErrorIs(t, err, errors.ErrUnsupportedFormat)
}

func TestWriteFileReadFile(t *testing.T) {
	dir := t.TempDir()
	cfg := config.NewConfig()

	for _, name := range []string{"out.csv", "out.tsv", "out.json", "out.jsonl", "out.xlsx", "out.parquet"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, io.WriteFile(path, "", regionTable(t), cfg, ""))

			ds, err := io.ReadFile(path, cfg)
			require.NoError(t, err)

			assert.Equal(t, []string{"Region", "Sales", "Quantity"}, ds.Columns)
			require.Len(t, ds.Rows, 5)
			testutil.AssertNumber(t, 3800, ds.Rows[1].Get("Sales"))
		})
	}
}

func TestWriteFile_ExplicitFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.out")
	require.NoError(t, io.WriteFile(path, io.FormatHTML, regionTable(t), config.NewConfig(), "Report"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<title>Report</title>")
}

func TestReadFile_Errors(t *testing.T) {
	_, err := io.ReadFile("data.xls", config.NewConfig())
	assert.ErrorIs(t, err, errors.ErrUnsupportedFormat)

	_, err = io.ReadFile(filepath.Join(t.TempDir(), "missing.csv"), config.NewConfig())
	assert.ErrorIs(t, err, os.ErrNotExist)
}
