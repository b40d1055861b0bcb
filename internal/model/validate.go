package model

import "github.com/quocdat202/pivot/internal/validation"

// Validate checks c against the columns of ds and reports every problem at
// once. The engine never calls it: an unknown column simply groups under the
// empty key there, so callers that prefer hard failures validate first.
func (c PivotConfig) Validate(ds validation.ColumnProvider) error {
	const op = "Validate"

	validators := []validation.Validator{
		validation.NewColumnValidator(ds, op, "group_by", c.GroupBy...),
		validation.NewColumnValidator(ds, op, "split_by", c.SplitBy...),
		validation.NewColumnValidator(ds, op, "metrics", c.Metrics...),
	}
	for _, f := range c.Filters {
		validators = append(validators,
			validation.NewColumnValidator(ds, op, "filters", f.Column),
			validation.NewOneOfValidator(f.Operator, FilterOperators, op, f.Column),
		)
	}
	for _, s := range c.Sort {
		validators = append(validators,
			validation.NewColumnValidator(ds, op, "sort", s.Column),
			validation.NewOneOfValidator(s.Direction, []SortDirection{Asc, Desc}, op, s.Column),
		)
	}
	for metric, fn := range c.Aggregates {
		validators = append(validators, validation.NewOneOfValidator(fn, AggregateFunctions, op, metric))
	}
	validators = append(validators, validation.NewMinValidator("pinned_columns_count", c.PinnedColumnsCount, 0, op))
	return validation.ValidateAll(validators...)
}
