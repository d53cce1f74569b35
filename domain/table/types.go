package table

import (
	"fmt"
	"strconv"
)

// Kind represents the inferred type of a column, decided once at load time.
// All downstream components branch on this tag rather than re-inspecting values.
type Kind string

const (
	KindNumeric     Kind = "numeric"
	KindCategorical Kind = "categorical"
)

// Cell represents a single value with an explicit missing marker,
// distinct from any real value.
type Cell struct {
	NumericVal *float64 `json:"numeric_val,omitempty"`
	StringVal  *string  `json:"string_val,omitempty"`
	IsMissing  bool     `json:"is_missing"`
}

// NewNumericCell creates a numeric cell
func NewNumericCell(v float64) Cell {
	return Cell{NumericVal: &v}
}

// NewCategoricalCell creates a categorical cell. The empty string is the
// CSV representation of an absent field and maps to the missing marker.
func NewCategoricalCell(s string) Cell {
	if s == "" {
		return NewMissingCell()
	}
	return Cell{StringVal: &s}
}

// NewMissingCell creates an explicitly missing cell
func NewMissingCell() Cell {
	return Cell{IsMissing: true}
}

// AsFloat64 returns the numeric value, or 0 if missing or categorical
func (c Cell) AsFloat64() float64 {
	if c.NumericVal != nil {
		return *c.NumericVal
	}
	return 0.0
}

// AsString returns the categorical value, or empty string if missing or numeric
func (c Cell) AsString() string {
	if c.StringVal != nil {
		return *c.StringVal
	}
	return ""
}

// String returns a display representation of the cell
func (c Cell) String() string {
	switch {
	case c.IsMissing:
		return "<missing>"
	case c.NumericVal != nil:
		return strconv.FormatFloat(*c.NumericVal, 'g', -1, 64)
	case c.StringVal != nil:
		return *c.StringVal
	}
	return "<invalid>"
}

// Equal reports whether two cells hold the same value or are both missing
func (c Cell) Equal(other Cell) bool {
	if c.IsMissing || other.IsMissing {
		return c.IsMissing == other.IsMissing
	}
	if c.NumericVal != nil && other.NumericVal != nil {
		return *c.NumericVal == *other.NumericVal
	}
	if c.StringVal != nil && other.StringVal != nil {
		return *c.StringVal == *other.StringVal
	}
	return false
}

// Column is a named, typed, ordered sequence of cells
type Column struct {
	Name  string `json:"name"`
	Kind  Kind   `json:"kind"`
	Cells []Cell `json:"cells"`
}

// MissingCount returns the number of missing cells in the column
func (c Column) MissingCount() int {
	count := 0
	for _, cell := range c.Cells {
		if cell.IsMissing {
			count++
		}
	}
	return count
}

// NonMissingFloats returns the non-missing numeric values in column order
func (c Column) NonMissingFloats() []float64 {
	values := make([]float64, 0, len(c.Cells))
	for _, cell := range c.Cells {
		if !cell.IsMissing && cell.NumericVal != nil {
			values = append(values, *cell.NumericVal)
		}
	}
	return values
}

// NonMissingStrings returns the non-missing display values in column order.
// Numeric cells are formatted, so the result is usable for frequency counting
// on any column kind.
func (c Column) NonMissingStrings() []string {
	values := make([]string, 0, len(c.Cells))
	for _, cell := range c.Cells {
		if !cell.IsMissing {
			values = append(values, cell.String())
		}
	}
	return values
}

// Table is an ordered sequence of named columns, all equal length.
type Table struct {
	Columns []Column `json:"columns"`
}

// New validates the column set and returns a Table.
// Column names must be unique and all columns must share the same length.
func New(columns []Column) (*Table, error) {
	seen := make(map[string]bool, len(columns))
	for _, col := range columns {
		if seen[col.Name] {
			return nil, fmt.Errorf("duplicate column name: %s", col.Name)
		}
		seen[col.Name] = true
	}
	if len(columns) > 1 {
		n := len(columns[0].Cells)
		for _, col := range columns[1:] {
			if len(col.Cells) != n {
				return nil, fmt.Errorf("column %s has %d rows, expected %d", col.Name, len(col.Cells), n)
			}
		}
	}
	return &Table{Columns: columns}, nil
}

// RowCount returns the number of rows
func (t *Table) RowCount() int {
	if len(t.Columns) == 0 {
		return 0
	}
	return len(t.Columns[0].Cells)
}

// ColumnCount returns the number of columns
func (t *Table) ColumnCount() int {
	return len(t.Columns)
}

// Column returns the named column, or false if absent
func (t *Table) Column(name string) (*Column, bool) {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			return &t.Columns[i], true
		}
	}
	return nil, false
}

// ColumnNames returns the column names in table order
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		names[i] = col.Name
	}
	return names
}

// MissingCellCount returns the total number of missing cells across all columns
func (t *Table) MissingCellCount() int {
	total := 0
	for _, col := range t.Columns {
		total += col.MissingCount()
	}
	return total
}

// Equal reports whether two tables match in column names, kinds and cell
// values, including missing markers.
func (t *Table) Equal(other *Table) bool {
	if len(t.Columns) != len(other.Columns) {
		return false
	}
	for i, col := range t.Columns {
		o := other.Columns[i]
		if col.Name != o.Name || col.Kind != o.Kind || len(col.Cells) != len(o.Cells) {
			return false
		}
		for j, cell := range col.Cells {
			if !cell.Equal(o.Cells[j]) {
				return false
			}
		}
	}
	return true
}

// MissingStats tracks missing value counts for one column
type MissingStats struct {
	MissingCount int     `json:"missing_count"`
	MissingRate  float64 `json:"missing_rate"`
}

// MissingReport maps column name to its missing value statistics.
// Every column of the source table is present, including clean ones.
type MissingReport map[string]MissingStats
