// Package viz aggregates a categorical column against a numeric column into
// chart-ready series. Rendering belongs to the display layer, not here.
package viz

import (
	"sort"

	"wrangle/domain/table"
	"wrangle/internal/errors"
)

// Aggregate selects how numeric values are combined per category
type Aggregate string

const (
	AggregateSum  Aggregate = "sum"
	AggregateMean Aggregate = "mean"
)

// ParseAggregate validates an aggregate kind received from a caller
func ParseAggregate(s string) (Aggregate, error) {
	switch Aggregate(s) {
	case AggregateSum, AggregateMean:
		return Aggregate(s), nil
	}
	return "", errors.InvalidInput("unknown aggregate: " + s)
}

// CategoryValue is one (category, aggregate value) pair of a prepared series
type CategoryValue struct {
	Category string  `json:"category"`
	Value    float64 `json:"value"`
}

// Preparer computes top-N category aggregations
type Preparer struct{}

// NewPreparer creates a new visualization preparer
func NewPreparer() *Preparer {
	return &Preparer{}
}

// Prepare returns up to topN (category, aggregate) pairs ordered by aggregate
// value descending, ties broken by the category's first appearance in the
// table. Rows where either cell is missing are excluded from aggregation.
func (p *Preparer) Prepare(t *table.Table, categoricalName, numericName string, topN int, agg Aggregate) ([]CategoryValue, error) {
	if topN <= 0 {
		return nil, errors.InvalidInput("top-N must be a positive integer")
	}

	catCol, ok := t.Column(categoricalName)
	if !ok {
		return nil, errors.ColumnNotFound(categoricalName)
	}
	numCol, ok := t.Column(numericName)
	if !ok {
		return nil, errors.ColumnNotFound(numericName)
	}
	if catCol.Kind != table.KindCategorical {
		return nil, errors.KindMismatch(categoricalName, string(table.KindCategorical), string(catCol.Kind))
	}
	if numCol.Kind != table.KindNumeric {
		return nil, errors.KindMismatch(numericName, string(table.KindNumeric), string(numCol.Kind))
	}

	sums := make(map[string]float64)
	counts := make(map[string]int)
	first := make(map[string]int)
	var order []string

	for row := 0; row < t.RowCount(); row++ {
		catCell := catCol.Cells[row]
		numCell := numCol.Cells[row]
		if catCell.IsMissing || numCell.IsMissing {
			continue
		}
		category := catCell.AsString()
		if _, seen := counts[category]; !seen {
			first[category] = row
			order = append(order, category)
		}
		sums[category] += numCell.AsFloat64()
		counts[category]++
	}

	series := make([]CategoryValue, 0, len(order))
	for _, category := range order {
		value := sums[category]
		if agg == AggregateMean {
			value /= float64(counts[category])
		}
		series = append(series, CategoryValue{Category: category, Value: value})
	}

	sort.SliceStable(series, func(i, j int) bool {
		if series[i].Value != series[j].Value {
			return series[i].Value > series[j].Value
		}
		return first[series[i].Category] < first[series[j].Category]
	})

	if len(series) > topN {
		series = series[:topN]
	}
	return series, nil
}
