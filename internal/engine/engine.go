// Package engine runs the pivot pipeline: filter, sort, split indexing and
// grouping, producing the data a table view is rendered from.
package engine

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/quocdat202/pivot/internal/config"
	"github.com/quocdat202/pivot/internal/grouping"
	"github.com/quocdat202/pivot/internal/model"
	"github.com/quocdat202/pivot/internal/monitoring"
	"github.com/quocdat202/pivot/internal/pipeline"
	"github.com/quocdat202/pivot/internal/value"
)

// Stage names reported to the logger, the metrics collector and the plan.
const (
	StageFilter = "filter"
	StageSort   = "sort"
	StageSplit  = "split"
	StageGroup  = "group"
)

// Result is the processed pivot data. Rows always holds the filtered and
// sorted input rows; GroupedRows is empty when the configuration has no
// group-by columns.
type Result struct {
	Rows              []value.Row              `json:"rows" yaml:"rows" msgpack:"rows"`
	GroupedRows       []grouping.GroupedRow    `json:"grouped_rows" yaml:"grouped_rows" msgpack:"grouped_rows"`
	SplitCombinations []string                 `json:"split_combinations" yaml:"split_combinations" msgpack:"split_combinations"`
	Plan              monitoring.ExecutionPlan `json:"-" yaml:"-" msgpack:"-"`
}

// Grouped reports whether the result carries a grouped-row tree.
func (r *Result) Grouped() bool {
	return len(r.GroupedRows) > 0
}

// Total returns the grand-total row of a grouped result.
func (r *Result) Total() (grouping.GroupedRow, bool) {
	if len(r.GroupedRows) == 0 || !r.GroupedRows[0].IsTotal {
		return grouping.GroupedRow{}, false
	}
	return r.GroupedRows[0], true
}

// Option configures a Process call.
type Option func(*options)

type options struct {
	logger  *slog.Logger
	metrics *monitoring.MetricsCollector
	cfg     config.Config
}

// WithLogger sets the logger stage progress is reported to at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMetrics sets the collector stage timings are recorded in.
func WithMetrics(collector *monitoring.MetricsCollector) Option {
	return func(o *options) {
		o.metrics = collector
	}
}

// WithConfig sets the engine configuration. Zero fields take defaults.
func WithConfig(cfg config.Config) Option {
	return func(o *options) {
		o.cfg = cfg.WithDefaults()
	}
}

func newOptions(opts []Option) *options {
	o := &options{
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics: monitoring.GetGlobalCollector(),
		cfg:     config.GetGlobalConfig().WithDefaults(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Process runs the pipeline over rows. It never fails: unknown columns,
// unknown operators and non-numeric values degrade to their documented
// fallbacks. Neither rows nor cfg is modified.
func Process(rows []value.Row, cfg model.PivotConfig, opts ...Option) *Result {
	o := newOptions(opts)
	plan := monitoring.NewPlanBuilder()
	result := &Result{}
	// o.metrics may be shared; the plan only sees this call's stages.
	local := monitoring.NewMetricsCollector(o.metrics.IsEnabled())

	var filtered []value.Row
	o.stage(local, StageFilter, len(rows), func() int {
		filtered = pipeline.ApplyFilters(rows, cfg.Filters)
		return len(filtered)
	})
	plan.AddStep(StageFilter, describeFilters(cfg.Filters), len(rows), len(filtered))

	o.stage(local, StageSort, len(filtered), func() int {
		result.Rows = pipeline.ApplySort(filtered, cfg.Sort)
		return len(result.Rows)
	})
	plan.AddStep(StageSort, describeSort(cfg.Sort), len(filtered), len(result.Rows))

	o.stage(local, StageSplit, len(result.Rows), func() int {
		result.SplitCombinations = grouping.SplitCombinations(result.Rows, cfg.SplitBy, o.cfg.SplitSeparator)
		return len(result.SplitCombinations)
	})
	plan.AddStep(StageSplit, describeColumns("split by", cfg.SplitBy), len(result.Rows), len(result.SplitCombinations))

	o.stage(local, StageGroup, len(result.Rows), func() int {
		result.GroupedRows = grouping.BuildTree(result.Rows, cfg, o.cfg.TotalLabel)
		return len(result.GroupedRows)
	})
	plan.AddStep(StageGroup, describeColumns("group by", cfg.GroupBy), len(result.Rows), len(result.GroupedRows))

	stages := local.GetMetrics()
	o.metrics.Append(stages...)
	result.Plan = plan.WithMetrics(stages).Build()
	o.logger.Debug("pivot processed",
		"input_rows", len(rows),
		"rows", len(result.Rows),
		"grouped_rows", len(result.GroupedRows),
		"split_combinations", len(result.SplitCombinations))
	return result
}

func (o *options) stage(collector *monitoring.MetricsCollector, name string, rowsIn int, fn func() int) {
	rowsOut, _ := collector.RecordStage(name, rowsIn, func() (int, error) {
		return fn(), nil
	})
	o.logger.Debug("stage complete", "stage", name, "rows_in", rowsIn, "rows_out", rowsOut)
}

func describeFilters(filters []model.FilterConfig) string {
	if len(filters) == 0 {
		return "no filters"
	}
	return fmt.Sprintf("%d filter(s)", len(filters))
}

func describeSort(keys []model.SortConfig) string {
	if len(keys) == 0 {
		return "input order"
	}
	return fmt.Sprintf("%d key(s)", len(keys))
}

func describeColumns(verb string, columns []string) string {
	if len(columns) == 0 {
		return "none"
	}
	return fmt.Sprintf("%s %v", verb, columns)
}
