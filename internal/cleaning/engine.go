// Package cleaning applies missing-value remediation strategies to tables.
//
// The engine is pure: it never mutates its input and either returns a wholly
// new table or fails without observable effect. Columns a fill strategy
// targets but cannot fill (no non-missing values to derive a fill from) are
// reported as unfillable in the result rather than raising.
package cleaning

import (
	"log"
	"strconv"

	"wrangle/domain/table"
	"wrangle/internal/errors"

	"github.com/montanaflynn/stats"
)

// Engine applies one cleaning strategy across a table
type Engine struct{}

// NewEngine creates a new cleaning engine
func NewEngine() *Engine {
	return &Engine{}
}

// Clean applies the strategy and returns the cleaned table plus a report of
// what changed. Re-applying a strategy to an already-clean table is a no-op
// returning an equal table and a zero-changes report.
func (e *Engine) Clean(t *table.Table, strategy table.Strategy) (*table.CleaningResult, error) {
	var result *table.CleaningResult
	var err error

	switch strategy.Kind {
	case table.StrategyDropRows:
		result = e.dropRows(t)
	case table.StrategyFillConstant:
		result, err = e.fillConstant(t, strategy.FillValue)
	case table.StrategyFillMedian:
		result = e.fillMedian(t)
	case table.StrategyFillMode:
		result = e.fillMode(t)
	default:
		return nil, errors.InvalidInput("unknown cleaning strategy: " + string(strategy.Kind))
	}

	if err != nil {
		return nil, err
	}

	log.Printf("[Cleaner] Applied %s: %d rows removed, %d cells filled, %d unfillable columns",
		strategy.Kind, result.RowsRemoved, result.CellsFilled, len(result.Unfillable))
	return result, nil
}

// dropRows keeps only rows with no missing cell in any column, preserving
// row order.
func (e *Engine) dropRows(t *table.Table) *table.CleaningResult {
	rowCount := t.RowCount()
	keep := make([]int, 0, rowCount)
	for row := 0; row < rowCount; row++ {
		complete := true
		for _, col := range t.Columns {
			if col.Cells[row].IsMissing {
				complete = false
				break
			}
		}
		if complete {
			keep = append(keep, row)
		}
	}

	columns := make([]table.Column, len(t.Columns))
	for i, col := range t.Columns {
		cells := make([]table.Cell, len(keep))
		for j, row := range keep {
			cells[j] = col.Cells[row]
		}
		columns[i] = table.Column{Name: col.Name, Kind: col.Kind, Cells: cells}
	}

	return &table.CleaningResult{
		Table:       &table.Table{Columns: columns},
		RowsRemoved: rowCount - len(keep),
	}
}

// fillConstant replaces every missing cell with value coerced to the column
// kind. Coercion is validated across all columns before any cell is written,
// so a TYPE_MISMATCH failure leaves nothing half-filled.
func (e *Engine) fillConstant(t *table.Table, value string) (*table.CleaningResult, error) {
	// The empty string is the missing marker's input form; filling with it
	// would leave cells missing while counting them as filled.
	if value == "" {
		return nil, errors.InvalidInput("fill value cannot be empty")
	}

	numericFill, numericErr := strconv.ParseFloat(value, 64)
	for _, col := range t.Columns {
		if col.Kind == table.KindNumeric && col.MissingCount() > 0 && numericErr != nil {
			return nil, errors.TypeMismatch(col.Name, value)
		}
	}

	filled := 0
	columns := make([]table.Column, len(t.Columns))
	for i, col := range t.Columns {
		cells := make([]table.Cell, len(col.Cells))
		for j, cell := range col.Cells {
			if !cell.IsMissing {
				cells[j] = cell
				continue
			}
			if col.Kind == table.KindNumeric {
				cells[j] = table.NewNumericCell(numericFill)
			} else {
				cells[j] = table.NewCategoricalCell(value)
			}
			filled++
		}
		columns[i] = table.Column{Name: col.Name, Kind: col.Kind, Cells: cells}
	}

	return &table.CleaningResult{
		Table:       &table.Table{Columns: columns},
		CellsFilled: filled,
	}, nil
}

// fillMedian fills missing cells of numeric columns with the column median.
// Categorical columns are left untouched: the strategy simply does not apply
// to them, which is not an error.
func (e *Engine) fillMedian(t *table.Table) *table.CleaningResult {
	filled := 0
	var unfillable []string

	columns := make([]table.Column, len(t.Columns))
	for i, col := range t.Columns {
		if col.Kind != table.KindNumeric || col.MissingCount() == 0 {
			columns[i] = col
			continue
		}

		values := col.NonMissingFloats()
		if len(values) == 0 {
			unfillable = append(unfillable, col.Name)
			columns[i] = col
			continue
		}

		median, _ := stats.Median(values)
		cells := make([]table.Cell, len(col.Cells))
		for j, cell := range col.Cells {
			if cell.IsMissing {
				cells[j] = table.NewNumericCell(median)
				filled++
			} else {
				cells[j] = cell
			}
		}
		columns[i] = table.Column{Name: col.Name, Kind: col.Kind, Cells: cells}
	}

	return &table.CleaningResult{
		Table:       &table.Table{Columns: columns},
		CellsFilled: filled,
		Unfillable:  unfillable,
	}
}

// fillMode fills missing cells of every column with the column's most
// frequent non-missing value, ties broken by first appearance in column order.
func (e *Engine) fillMode(t *table.Table) *table.CleaningResult {
	filled := 0
	var unfillable []string

	columns := make([]table.Column, len(t.Columns))
	for i, col := range t.Columns {
		if col.MissingCount() == 0 {
			columns[i] = col
			continue
		}

		mode, ok := columnMode(col)
		if !ok {
			unfillable = append(unfillable, col.Name)
			columns[i] = col
			continue
		}

		cells := make([]table.Cell, len(col.Cells))
		for j, cell := range col.Cells {
			if cell.IsMissing {
				cells[j] = mode
				filled++
			} else {
				cells[j] = cell
			}
		}
		columns[i] = table.Column{Name: col.Name, Kind: col.Kind, Cells: cells}
	}

	return &table.CleaningResult{
		Table:       &table.Table{Columns: columns},
		CellsFilled: filled,
		Unfillable:  unfillable,
	}
}

// columnMode returns the most frequent non-missing cell of the column.
// The second return is false when the column has no non-missing cells.
func columnMode(col table.Column) (table.Cell, bool) {
	counts := make(map[string]int)
	first := make(map[string]int)
	cells := make(map[string]table.Cell)
	order := 0

	for _, cell := range col.Cells {
		if cell.IsMissing {
			continue
		}
		key := cell.String()
		if _, seen := counts[key]; !seen {
			first[key] = order
			cells[key] = cell
			order++
		}
		counts[key]++
	}

	if len(counts) == 0 {
		return table.Cell{}, false
	}

	bestKey := ""
	bestCount := -1
	for key, count := range counts {
		if count > bestCount || (count == bestCount && first[key] < first[bestKey]) {
			bestKey = key
			bestCount = count
		}
	}

	return cells[bestKey], true
}
