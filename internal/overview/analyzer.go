// Package overview computes per-column summary statistics for a table.
package overview

import (
	"wrangle/domain/table"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

// Overview describes a table: shape, per-column kinds and summary statistics.
type Overview struct {
	RowCount    int             `json:"row_count"`
	ColumnCount int             `json:"column_count"`
	Columns     []ColumnSummary `json:"columns"`
}

// ColumnSummary holds the per-column portion of an overview. Exactly one of
// Numeric or Categorical is set, matching the column kind; a numeric column
// with no non-missing values carries neither (statistics undefined, not an
// error).
type ColumnSummary struct {
	Name        string              `json:"name"`
	Kind        table.Kind          `json:"kind"`
	NonMissing  int                 `json:"non_missing"`
	Numeric     *NumericSummary     `json:"numeric,omitempty"`
	Categorical *CategoricalSummary `json:"categorical,omitempty"`
}

// NumericSummary contains statistics for numeric columns
type NumericSummary struct {
	Count    int     `json:"count"`
	Mean     float64 `json:"mean"`
	StdDev   float64 `json:"std_dev"`
	Min      float64 `json:"min"`
	Q25      float64 `json:"q25"`
	Median   float64 `json:"median"`
	Q75      float64 `json:"q75"`
	Max      float64 `json:"max"`
	Skewness float64 `json:"skewness"`
	Kurtosis float64 `json:"kurtosis"`
}

// CategoricalSummary contains statistics for categorical columns
type CategoricalSummary struct {
	DistinctCount int          `json:"distinct_count"`
	TopValues     []ValueCount `json:"top_values"`
}

// ValueCount represents a value and its frequency
type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// topValueLimit caps the reported most-frequent categorical values
const topValueLimit = 5

// Analyzer computes overviews. It has no state and no side effects.
type Analyzer struct{}

// NewAnalyzer creates a new overview analyzer
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Analyze computes the overview of a table. Defined for zero-row tables:
// counts are zero and statistics are absent rather than raising.
func (a *Analyzer) Analyze(t *table.Table) Overview {
	ov := Overview{
		RowCount:    t.RowCount(),
		ColumnCount: t.ColumnCount(),
		Columns:     make([]ColumnSummary, 0, t.ColumnCount()),
	}

	for _, col := range t.Columns {
		summary := ColumnSummary{
			Name:       col.Name,
			Kind:       col.Kind,
			NonMissing: len(col.Cells) - col.MissingCount(),
		}
		switch col.Kind {
		case table.KindNumeric:
			summary.Numeric = numericSummary(col.NonMissingFloats())
		case table.KindCategorical:
			summary.Categorical = categoricalSummary(col.NonMissingStrings())
		}
		ov.Columns = append(ov.Columns, summary)
	}

	return ov
}

func numericSummary(data []float64) *NumericSummary {
	if len(data) == 0 {
		return nil
	}

	mean, _ := stats.Mean(data)
	stdDev, _ := stats.StandardDeviation(data)
	min, _ := stats.Min(data)
	max, _ := stats.Max(data)
	median, _ := stats.Median(data)
	q25, _ := stats.Percentile(data, 25)
	q75, _ := stats.Percentile(data, 75)

	summary := &NumericSummary{
		Count:  len(data),
		Mean:   mean,
		StdDev: stdDev,
		Min:    min,
		Q25:    q25,
		Median: median,
		Q75:    q75,
		Max:    max,
	}

	// Higher moments are unstable below four observations; report zero there.
	if len(data) >= 4 && stdDev > 0 {
		summary.Skewness = stat.Skew(data, nil)
		summary.Kurtosis = stat.ExKurtosis(data, nil)
	}

	return summary
}

func categoricalSummary(values []string) *CategoricalSummary {
	if len(values) == 0 {
		return &CategoricalSummary{}
	}

	frequency := make(map[string]int, len(values))
	order := make([]string, 0, len(values))
	for _, v := range values {
		if frequency[v] == 0 {
			order = append(order, v)
		}
		frequency[v]++
	}

	// Rank by count descending, ties by first appearance in column order.
	top := make([]ValueCount, 0, topValueLimit)
	for len(top) < topValueLimit {
		best := ""
		bestCount := 0
		for _, v := range order {
			if frequency[v] > bestCount {
				best = v
				bestCount = frequency[v]
			}
		}
		if bestCount == 0 {
			break
		}
		top = append(top, ValueCount{Value: best, Count: bestCount})
		frequency[best] = 0
	}

	return &CategoricalSummary{
		DistinctCount: len(order),
		TopValues:     top,
	}
}
