package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quocdat202/pivot"
	"github.com/quocdat202/pivot/internal/config"
	"github.com/quocdat202/pivot/internal/expansion"
	"github.com/quocdat202/pivot/internal/model"
	"github.com/quocdat202/pivot/internal/monitoring"
	"github.com/quocdat202/pivot/internal/value"
)

type processOptions struct {
	settings  string
	groupBy   []string
	splitBy   []string
	metrics   []string
	filters   []string
	sort      []string
	expand    []string
	expandAll bool
	format    string
	output    string
	explain   bool
	validate  bool
}

func newProcessCmd() *cobra.Command {
	opts := &processOptions{}
	cmd := &cobra.Command{
		Use:   "process <data-file>",
		Short: "Build a pivot table from a data file",
		Long: `Build a pivot table from a data file.

Without --settings and without --group-by or --metric the configuration is
derived from the data: the leading number columns are summed and the first
text column becomes the group-by column.

Group paths for --expand join their elements with "|", for example
--expand 'North|Widget A'.`,
		Example: `  pivot-cli process sales.csv --group-by region,product --metric sales:sum --expand North
  pivot-cli process sales.xlsx --settings view.yaml --format html --output report.html`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProcess(cmd, args[0], opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.settings, "settings", "", "Pivot settings file (.json, .yaml, .msgpack, .token)")
	f.StringSliceVar(&opts.groupBy, "group-by", nil, "Group-by columns, outermost first")
	f.StringSliceVar(&opts.splitBy, "split-by", nil, "Split-by columns")
	f.StringArrayVar(&opts.metrics, "metric", nil, "Metric column with optional aggregate, col[:sum|avg|count|min|max|first|last|none]")
	f.StringArrayVar(&opts.filters, "filter", nil, "Filter as col:op:value with op one of equals, contains, gt, lt, gte, lte")
	f.StringArrayVar(&opts.sort, "sort", nil, "Sort key as col[:asc|desc]")
	f.StringArrayVar(&opts.expand, "expand", nil, "Expand a group path")
	f.BoolVar(&opts.expandAll, "expand-all", false, "Expand every group")
	f.StringVarP(&opts.format, "format", "f", "", "Output format: text, csv, tsv, json, jsonl, xlsx, html or parquet")
	f.StringVarP(&opts.output, "output", "o", "", "Output file path (default: stdout)")
	f.BoolVar(&opts.explain, "explain", false, "Print the execution plan to stderr")
	f.BoolVar(&opts.validate, "validate", false, "Fail when the configuration names unknown columns")
	cmd.MarkFlagsMutuallyExclusive("expand", "expand-all")
	return cmd
}

func runProcess(cmd *cobra.Command, path string, opts *processOptions) error {
	engineCfg, err := loadEngineConfig(cmd)
	if err != nil {
		return err
	}
	logger := engineCfg.NewLogger(cmd.ErrOrStderr())

	ds, err := pivot.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	logger.Debug("dataset loaded", "path", path, "rows", ds.Len(), "columns", ds.Width())

	cfg, err := buildConfig(ds, opts)
	if err != nil {
		return err
	}

	collector := monitoring.ConfigureGlobal(opts.explain || engineCfg.MetricsCollection)
	p := pivot.New(ds, cfg,
		pivot.WithEngineConfig(engineCfg),
		pivot.WithLogger(logger),
		pivot.WithMetrics(collector))
	if opts.validate {
		if err := p.Validate(); err != nil {
			return err
		}
	}

	if opts.expandAll {
		p.ExpandAll()
	}
	for _, key := range opts.expand {
		p.Expand(expansion.ParsePathKey(key)...)
	}

	if err := writeTable(cmd.OutOrStdout(), p, opts); err != nil {
		return err
	}
	if opts.explain {
		fmt.Fprint(cmd.ErrOrStderr(), p.Plan().String())
	}
	return nil
}

func writeTable(out io.Writer, p *pivot.Pivot, opts *processOptions) error {
	if opts.output != "" {
		return p.Export(opts.output, opts.format)
	}
	format := opts.format
	if format == "" {
		format = "text"
	}
	return p.Render(out, format)
}

// buildConfig starts from the settings file, the flags or the data, in that
// order, and applies the flags on top.
func buildConfig(ds *pivot.Dataset, opts *processOptions) (pivot.Config, error) {
	var cfg pivot.Config
	switch {
	case opts.settings != "":
		s, err := pivot.LoadSettings(opts.settings)
		if err != nil {
			return cfg, err
		}
		cfg = pivot.FromSettings(s)
	case len(opts.groupBy) > 0 || len(opts.metrics) > 0:
		cfg = pivot.NewConfig()
	default:
		cfg = pivot.AutoConfigure(ds)
	}

	if len(opts.groupBy) > 0 {
		cfg.GroupBy = append([]string{}, opts.groupBy...)
	}
	if len(opts.splitBy) > 0 {
		cfg.SplitBy = append([]string{}, opts.splitBy...)
	}

	types := pivot.DetectColumnTypes(ds)
	for _, arg := range opts.metrics {
		column, fn, err := parseMetric(arg)
		if err != nil {
			return cfg, err
		}
		cfg = cfg.AddMetric(column, types[column])
		if fn != "" {
			cfg = cfg.SetAggregate(column, fn)
		}
	}
	for _, arg := range opts.filters {
		filter, err := parseFilter(arg)
		if err != nil {
			return cfg, err
		}
		cfg = cfg.AddFilter(filter)
	}
	if len(opts.sort) > 0 {
		keys := make([]pivot.SortConfig, 0, len(opts.sort))
		for _, arg := range opts.sort {
			key, err := parseSort(arg)
			if err != nil {
				return cfg, err
			}
			keys = append(keys, key)
		}
		cfg = cfg.SetSort(keys...)
	}
	return cfg, nil
}

func parseMetric(arg string) (string, pivot.AggregateFunction, error) {
	column, fn, found := strings.Cut(arg, ":")
	if column == "" {
		return "", "", fmt.Errorf("invalid metric %q: missing column", arg)
	}
	if !found {
		return column, "", nil
	}
	agg, err := model.ParseAggregateFunction(strings.ToLower(fn))
	if err != nil {
		return "", "", fmt.Errorf("invalid metric %q: %w", arg, err)
	}
	return column, agg, nil
}

// parseFilter parses col:op:value. A value that is a plain decimal literal
// compares as a number.
func parseFilter(arg string) (pivot.FilterConfig, error) {
	parts := strings.SplitN(arg, ":", 3)
	if len(parts) != 3 || parts[0] == "" {
		return pivot.FilterConfig{}, fmt.Errorf("invalid filter %q: want col:op:value", arg)
	}
	op, err := model.ParseFilterOperator(strings.ToLower(parts[1]))
	if err != nil {
		return pivot.FilterConfig{}, fmt.Errorf("invalid filter %q: %w", arg, err)
	}
	v := value.String(parts[2])
	if n, ok := value.ParseDecimal(parts[2]); ok {
		v = value.Number(n)
	}
	return pivot.FilterConfig{Column: parts[0], Operator: op, Value: v}, nil
}

func parseSort(arg string) (pivot.SortConfig, error) {
	column, dir, _ := strings.Cut(arg, ":")
	if column == "" {
		return pivot.SortConfig{}, fmt.Errorf("invalid sort %q: missing column", arg)
	}
	direction, err := model.ParseSortDirection(strings.ToLower(dir))
	if err != nil {
		return pivot.SortConfig{}, fmt.Errorf("invalid sort %q: %w", arg, err)
	}
	return pivot.SortConfig{Column: column, Direction: direction}, nil
}

// loadEngineConfig reads --config when given and the PIVOT_* environment
// otherwise, and installs the result as the global configuration.
func loadEngineConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")

	var (
		cfg config.Config
		err error
	)
	if path != "" {
		if _, statErr := os.Stat(path); statErr != nil {
			return cfg, fmt.Errorf("config file not found: %s", path)
		}
		if cfg, err = config.LoadFromFile(path); err != nil {
			return cfg, err
		}
	} else {
		cfg = config.LoadFromEnv()
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	pivot.SetEngineConfig(cfg)
	return cfg, nil
}
