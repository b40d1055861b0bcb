package io_test

import (
	"testing"

	"github.com/quocdat202/pivot/internal/engine"
	"github.com/quocdat202/pivot/internal/expansion"
	"github.com/quocdat202/pivot/internal/model"
	"github.com/quocdat202/pivot/internal/table"
	"github.com/quocdat202/pivot/internal/testutil"
	"github.com/quocdat202/pivot/internal/value"
)

// regionTable is the sample dataset grouped by region, collapsed: the total
// row followed by East, North, South and West.
func regionTable(t *testing.T) *table.Table {
	t.Helper()
	return sampleTable(t, testutil.SampleConfig(), nil)
}

func sampleTable(t *testing.T, cfg model.PivotConfig, expanded *expansion.Set) *table.Table {
	t.Helper()
	result := engine.Process(testutil.SampleRows(), cfg)
	return table.Build(result, cfg, expanded, table.Options{})
}

func sampleTableFrom(t *testing.T, rows []value.Row, cfg model.PivotConfig) *table.Table {
	t.Helper()
	return table.Build(engine.Process(rows, cfg), cfg, nil, table.Options{})
}
