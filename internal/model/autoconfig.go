package model

// ColumnType is the detected type of a dataset column.
type ColumnType string

// Column types, in detection precedence order.
const (
	TypeBoolean ColumnType = "boolean"
	TypeNumber  ColumnType = "number"
	TypeDate    ColumnType = "date"
	TypeString  ColumnType = "string"
)

// DefaultAutoMetricLimit caps the number of metrics AutoConfigure selects.
const DefaultAutoMetricLimit = 5

// DefaultAggregateFor returns the aggregate a newly added metric starts with:
// sum for number columns, count for everything else.
func DefaultAggregateFor(typ ColumnType) AggregateFunction {
	if typ == TypeNumber {
		return AggSum
	}
	return AggCount
}

// AutoConfigure derives a starting configuration for a freshly loaded
// dataset: up to limit number columns become sum metrics and the first string
// column becomes the only group-by column. A non-positive limit selects
// DefaultAutoMetricLimit.
func AutoConfigure(columns []string, types map[string]ColumnType, limit int) PivotConfig {
	if limit <= 0 {
		limit = DefaultAutoMetricLimit
	}

	cfg := DefaultPivotConfig()
	for _, col := range columns {
		if types[col] != TypeNumber || len(cfg.Metrics) >= limit {
			continue
		}
		cfg.Metrics = append(cfg.Metrics, col)
		cfg.Aggregates[col] = AggSum
	}
	for _, col := range columns {
		if types[col] == TypeString {
			cfg.GroupBy = []string{col}
			break
		}
	}
	return cfg
}
