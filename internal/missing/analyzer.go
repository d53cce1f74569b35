// Package missing computes missing-value reports for tables.
package missing

import (
	"wrangle/domain/table"
)

// Analyzer computes per-column missing counts and rates
type Analyzer struct{}

// NewAnalyzer creates a new missing-value analyzer
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Analyze returns a report covering every column of the table, including
// columns with zero missing cells. The rate divides by the table's row count;
// a zero-row table yields rate 0.0 for every column.
func (a *Analyzer) Analyze(t *table.Table) table.MissingReport {
	report := make(table.MissingReport, t.ColumnCount())
	rowCount := t.RowCount()

	for _, col := range t.Columns {
		count := col.MissingCount()
		rate := 0.0
		if rowCount > 0 {
			rate = float64(count) / float64(rowCount)
		}
		report[col.Name] = table.MissingStats{
			MissingCount: count,
			MissingRate:  rate,
		}
	}

	return report
}

// Distribution returns the subset of the report with at least one missing
// cell, keyed by column name, suitable for display as a missing-data
// distribution.
func Distribution(report table.MissingReport) table.MissingReport {
	dist := make(table.MissingReport)
	for name, stats := range report {
		if stats.MissingCount > 0 {
			dist[name] = stats
		}
	}
	return dist
}
