// Package pivot provides an in-memory pivot-table engine.
// This package is the sole public API for the library.
//
// Rows are filtered, sorted, grouped into a hierarchy with a grand-total row
// and aggregated per metric. A Pivot keeps the expansion state of the
// hierarchy and projects the visible rows onto a table that can be rendered
// or exported.
package pivot

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/quocdat202/pivot/internal/aggregate"
	"github.com/quocdat202/pivot/internal/codec"
	"github.com/quocdat202/pivot/internal/config"
	"github.com/quocdat202/pivot/internal/engine"
	"github.com/quocdat202/pivot/internal/expansion"
	"github.com/quocdat202/pivot/internal/grouping"
	pivotio "github.com/quocdat202/pivot/internal/io"
	"github.com/quocdat202/pivot/internal/model"
	"github.com/quocdat202/pivot/internal/monitoring"
	"github.com/quocdat202/pivot/internal/table"
	"github.com/quocdat202/pivot/internal/value"
)

// Data types
type (
	// Value is a single cell value: missing, null, string, number or bool.
	Value = value.Value
	// Row maps column names to values.
	Row = value.Row
	// Dataset is an ordered column list plus its rows.
	Dataset = value.Dataset
	// GroupedRow is one row of the grouped hierarchy.
	GroupedRow = grouping.GroupedRow
	// Result is the processed pivot data.
	Result = engine.Result
	// Table is the visible projection of a pivot.
	Table = table.Table
	// ExpansionSet holds the expanded group paths.
	ExpansionSet = expansion.Set
	// ExecutionPlan describes the stages of a Process call.
	ExecutionPlan = monitoring.ExecutionPlan
	// EngineConfig holds labels, detection limits, widths and export settings.
	EngineConfig = config.Config
)

// Configuration types
type (
	Config            = model.PivotConfig
	Settings          = model.PivotSettings
	FilterConfig      = model.FilterConfig
	SortConfig        = model.SortConfig
	ColumnColorConfig = model.ColumnColorConfig
	AggregateFunction = model.AggregateFunction
	FilterOperator    = model.FilterOperator
	SortDirection     = model.SortDirection
	ColorMode         = model.ColorMode
	ColumnType        = model.ColumnType
)

// Aggregate functions
const (
	Sum   = model.AggSum
	Avg   = model.AggAvg
	Count = model.AggCount
	Min   = model.AggMin
	Max   = model.AggMax
	First = model.AggFirst
	Last  = model.AggLast
	None  = model.AggNone
)

// Filter operators
const (
	Equals   = model.OpEquals
	Contains = model.OpContains
	GT       = model.OpGT
	LT       = model.OpLT
	GTE      = model.OpGTE
	LTE      = model.OpLTE
)

// Sort directions
const (
	Asc  = model.Asc
	Desc = model.Desc
)

// Colour modes
const (
	ColorText       = model.ColorText
	ColorBackground = model.ColorBackground
)

// Column types
const (
	TypeBoolean = model.TypeBoolean
	TypeNumber  = model.TypeNumber
	TypeDate    = model.TypeDate
	TypeString  = model.TypeString
)

// Value constructors
var (
	String = value.String
	Number = value.Number
	Bool   = value.Bool
	Null   = value.Null
	Of     = value.Of
)

// Option configures a Pivot or a Process call.
type Option func(*options)

type options struct {
	logger  *slog.Logger
	metrics *monitoring.MetricsCollector
	cfg     config.Config
}

// WithLogger reports pipeline stages to logger at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithMetrics records stage timings in collector.
func WithMetrics(collector *monitoring.MetricsCollector) Option {
	return func(o *options) { o.metrics = collector }
}

// WithEngineConfig overrides the global engine configuration.
func WithEngineConfig(cfg EngineConfig) Option {
	return func(o *options) { o.cfg = cfg.WithDefaults() }
}

func newOptions(opts []Option) *options {
	o := &options{
		metrics: monitoring.GetGlobalCollector(),
		cfg:     config.GetGlobalConfig().WithDefaults(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *options) engineOptions() []engine.Option {
	return []engine.Option{
		engine.WithLogger(o.logger),
		engine.WithMetrics(o.metrics),
		engine.WithConfig(o.cfg),
	}
}

// Process runs the pipeline once over rows. Neither rows nor cfg is
// modified.
func Process(rows []Row, cfg Config, opts ...Option) *Result {
	return engine.Process(rows, cfg, newOptions(opts).engineOptions()...)
}

// NewConfig returns an empty pivot configuration.
func NewConfig() Config {
	return model.DefaultPivotConfig()
}

// NewEngineConfig returns the default engine configuration.
func NewEngineConfig() EngineConfig {
	return config.NewConfig()
}

// SetEngineConfig replaces the global engine configuration.
func SetEngineConfig(cfg EngineConfig) {
	config.SetGlobalConfig(cfg)
}

// NewExpansionSet returns a set holding paths.
func NewExpansionSet(paths ...[]string) *ExpansionSet {
	return expansion.NewSet(paths...)
}

// VisibleRows returns the rows of a grouped tree that are visible under
// expanded.
func VisibleRows(rows []GroupedRow, expanded *ExpansionSet) []GroupedRow {
	return expansion.VisibleRows(rows, expanded)
}

// Aggregate reduces values with fn.
func Aggregate(values []Value, fn AggregateFunction) Value {
	return aggregate.Aggregate(values, fn)
}

// NewDataset creates a dataset; an empty column list is derived from rows.
func NewDataset(columns []string, rows []Row) *Dataset {
	return value.NewDataset(columns, rows)
}

// ReadFile reads a CSV, TSV, JSON, JSON Lines, XLSX or Parquet file.
func ReadFile(path string) (*Dataset, error) {
	return pivotio.ReadFile(path, config.GetGlobalConfig())
}

// DetectColumnTypes classifies the columns of ds from its leading rows.
func DetectColumnTypes(ds *Dataset) map[string]ColumnType {
	return pivotio.DetectColumnTypes(ds, config.GetGlobalConfig().WithDefaults().TypeSampleSize)
}

// AutoConfigure derives a starting configuration for ds: leading number
// columns become summed metrics and the first string column the group-by.
func AutoConfigure(ds *Dataset) Config {
	cfg := config.GetGlobalConfig().WithDefaults()
	return model.AutoConfigure(ds.ColumnNames(), DetectColumnTypes(ds), cfg.AutoMetricLimit)
}

// ToSettings converts cfg into its persisted shape.
func ToSettings(cfg Config) Settings {
	return model.ToSettings(cfg)
}

// FromSettings converts persisted settings into a configuration.
func FromSettings(s Settings) Config {
	return model.FromSettings(s)
}

// EncodeSettings encodes s with the named codec: json, yaml, msgpack or
// token.
func EncodeSettings(s Settings, codecName string) ([]byte, error) {
	c, err := codec.ForName(codecName)
	if err != nil {
		return nil, err
	}
	return c.Marshal(s)
}

// DecodeSettings decodes data with the named codec.
func DecodeSettings(data []byte, codecName string) (Settings, error) {
	c, err := codec.ForName(codecName)
	if err != nil {
		return Settings{}, err
	}
	return c.Unmarshal(data)
}

// LoadSettings reads a settings file, picking the codec from its extension.
func LoadSettings(path string) (Settings, error) {
	c, err := codec.ForPath(path)
	if err != nil {
		return Settings{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("reading settings %s: %w", path, err)
	}
	s, err := c.Unmarshal(data)
	if err != nil {
		return Settings{}, fmt.Errorf("decoding settings %s: %w", path, err)
	}
	return s, nil
}

// SaveSettings writes s to path. An empty codecName is taken from the file
// extension.
func SaveSettings(path string, s Settings, codecName string) error {
	var (
		c   codec.Codec
		err error
	)
	if codecName != "" {
		c, err = codec.ForName(codecName)
	} else {
		c, err = codec.ForPath(path)
	}
	if err != nil {
		return err
	}
	data, err := c.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// Pivot is a dataset together with a configuration and the expansion state
// of its hierarchy. The processed result is computed on first use and
// cached until the configuration changes. A Pivot is not safe for
// concurrent use.
type Pivot struct {
	data     *Dataset
	cfg      Config
	expanded *ExpansionSet
	opts     *options
	result   *Result
}

// New creates a pivot over data.
func New(data *Dataset, cfg Config, opts ...Option) *Pivot {
	if data == nil {
		data = value.NewDataset([]string{}, []Row{})
	}
	return &Pivot{
		data:     data,
		cfg:      cfg.Clone(),
		expanded: expansion.NewSet(),
		opts:     newOptions(opts),
	}
}

// Open reads the file at path and configures it automatically.
func Open(path string, opts ...Option) (*Pivot, error) {
	o := newOptions(opts)
	ds, err := pivotio.ReadFile(path, o.cfg)
	if err != nil {
		return nil, err
	}
	types := pivotio.DetectColumnTypes(ds, o.cfg.TypeSampleSize)
	cfg := model.AutoConfigure(ds.ColumnNames(), types, o.cfg.AutoMetricLimit)
	return &Pivot{data: ds, cfg: cfg, expanded: expansion.NewSet(), opts: o}, nil
}

// Dataset returns the underlying dataset.
func (p *Pivot) Dataset() *Dataset {
	return p.data
}

// Config returns a copy of the configuration.
func (p *Pivot) Config() Config {
	return p.cfg.Clone()
}

// SetConfig replaces the configuration. Expanded paths are kept; paths
// that no longer exist are simply never matched.
func (p *Pivot) SetConfig(cfg Config) {
	p.cfg = cfg.Clone()
	p.result = nil
}

// Update applies fn to the configuration, for use with the Config
// mutation helpers.
func (p *Pivot) Update(fn func(Config) Config) {
	p.SetConfig(fn(p.Config()))
}

// Settings returns the configuration in its persisted shape.
func (p *Pivot) Settings() Settings {
	return model.ToSettings(p.cfg)
}

// Validate checks the configuration against the dataset columns.
func (p *Pivot) Validate() error {
	return p.cfg.Validate(p.data)
}

// Result returns the processed pivot data.
func (p *Pivot) Result() *Result {
	if p.result == nil {
		p.result = engine.Process(p.data.Rows, p.cfg, p.opts.engineOptions()...)
	}
	return p.result
}

// Plan returns the execution plan of the latest processing run.
func (p *Pivot) Plan() ExecutionPlan {
	return p.Result().Plan
}

// Expanded returns a copy of the expansion set.
func (p *Pivot) Expanded() *ExpansionSet {
	return p.expanded.Clone()
}

// Toggle flips the expansion of path and reports whether it is now
// expanded.
func (p *Pivot) Toggle(path ...string) bool {
	return p.expanded.Toggle(path)
}

// Expand expands path.
func (p *Pivot) Expand(path ...string) {
	p.expanded.Add(path)
}

// Collapse collapses path.
func (p *Pivot) Collapse(path ...string) {
	p.expanded.Remove(path)
}

// ExpandAll expands every expandable group.
func (p *Pivot) ExpandAll() {
	p.expanded = expansion.ExpandAll(p.Result().GroupedRows, len(p.cfg.GroupBy))
}

// ExpandToLevel expands every group above level.
func (p *Pivot) ExpandToLevel(level int) {
	p.expanded = expansion.ExpandToLevel(p.Result().GroupedRows, level)
}

// CollapseAll collapses every group.
func (p *Pivot) CollapseAll() {
	p.expanded.Clear()
}

// VisibleRows returns the grouped rows visible under the current expansion
// state.
func (p *Pivot) VisibleRows() []GroupedRow {
	return expansion.VisibleRows(p.Result().GroupedRows, p.expanded)
}

// Table projects the visible rows onto display columns.
func (p *Pivot) Table() *Table {
	return table.Build(p.Result(), p.cfg, p.expanded, table.OptionsFromConfig(p.opts.cfg))
}

// Render writes the visible table to w in the named format: text, csv,
// tsv, json, jsonl, xlsx, parquet or html.
func (p *Pivot) Render(w io.Writer, format string) error {
	f, err := pivotio.ParseFormat(format)
	if err != nil {
		return err
	}
	writer, err := pivotio.NewWriter(f, w, p.opts.cfg, memory.NewGoAllocator(), "")
	if err != nil {
		return err
	}
	return writer.Write(p.Table())
}

// Export writes the visible table to path. An empty format is taken from
// the file extension.
func (p *Pivot) Export(path, format string) error {
	var f pivotio.Format
	if format != "" {
		var err error
		if f, err = pivotio.ParseFormat(format); err != nil {
			return err
		}
	}
	return pivotio.WriteFile(path, f, p.Table(), p.opts.cfg, "")
}
