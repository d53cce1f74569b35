package table

import "fmt"

// StrategyKind enumerates the supported missing-value remediation policies
type StrategyKind string

const (
	StrategyDropRows     StrategyKind = "drop_rows"
	StrategyFillConstant StrategyKind = "fill_constant"
	StrategyFillMedian   StrategyKind = "fill_median"
	StrategyFillMode     StrategyKind = "fill_mode"
)

// Strategy is the user-selected remediation policy applied uniformly to a
// table's missing cells. FillValue is the raw user input and is only
// meaningful for StrategyFillConstant; coercion to each column's kind happens
// at application time.
type Strategy struct {
	Kind      StrategyKind `json:"kind"`
	FillValue string       `json:"fill_value,omitempty"`
}

// DropRows returns the strategy removing every row with a missing cell
func DropRows() Strategy {
	return Strategy{Kind: StrategyDropRows}
}

// FillConstant returns the strategy filling every missing cell with value
func FillConstant(value string) Strategy {
	return Strategy{Kind: StrategyFillConstant, FillValue: value}
}

// FillMedian returns the strategy filling numeric columns with their median
func FillMedian() Strategy {
	return Strategy{Kind: StrategyFillMedian}
}

// FillMode returns the strategy filling every column with its most frequent value
func FillMode() Strategy {
	return Strategy{Kind: StrategyFillMode}
}

// ParseStrategyKind validates a strategy kind received from a caller
func ParseStrategyKind(s string) (StrategyKind, error) {
	switch StrategyKind(s) {
	case StrategyDropRows, StrategyFillConstant, StrategyFillMedian, StrategyFillMode:
		return StrategyKind(s), nil
	}
	return "", fmt.Errorf("unknown cleaning strategy: %q", s)
}

// CleaningResult is the outcome of applying a strategy. The input table is
// never mutated; Table is always a wholly new instance.
type CleaningResult struct {
	Table       *Table   `json:"table"`
	RowsRemoved int      `json:"rows_removed"`
	CellsFilled int      `json:"cells_filled"`
	// Unfillable lists columns the strategy targeted but could not fill
	// because they have no non-missing values. A soft outcome, not an error.
	Unfillable []string `json:"unfillable,omitempty"`
}

// Changed reports whether the cleaning pass altered the table at all
func (r CleaningResult) Changed() bool {
	return r.RowsRemoved > 0 || r.CellsFilled > 0
}
