// Package testkit provides table construction helpers for tests.
package testkit

import (
	"fmt"

	"wrangle/domain/table"
)

// NumericColumn builds a numeric column; nil values are missing cells.
// Accepted value types are int, float64 and nil.
func NumericColumn(name string, values ...interface{}) table.Column {
	cells := make([]table.Cell, len(values))
	for i, v := range values {
		switch val := v.(type) {
		case nil:
			cells[i] = table.NewMissingCell()
		case int:
			cells[i] = table.NewNumericCell(float64(val))
		case float64:
			cells[i] = table.NewNumericCell(val)
		default:
			panic(fmt.Sprintf("unsupported numeric test value %T", v))
		}
	}
	return table.Column{Name: name, Kind: table.KindNumeric, Cells: cells}
}

// CategoricalColumn builds a categorical column; nil values are missing cells
func CategoricalColumn(name string, values ...interface{}) table.Column {
	cells := make([]table.Cell, len(values))
	for i, v := range values {
		switch val := v.(type) {
		case nil:
			cells[i] = table.NewMissingCell()
		case string:
			cells[i] = table.NewCategoricalCell(val)
		default:
			panic(fmt.Sprintf("unsupported categorical test value %T", v))
		}
	}
	return table.Column{Name: name, Kind: table.KindCategorical, Cells: cells}
}

// MustTable builds a table from columns and panics on invariant violations
func MustTable(columns ...table.Column) *table.Table {
	t, err := table.New(columns)
	if err != nil {
		panic(err)
	}
	return t
}

// Col returns the named column and panics when it is absent
func Col(t *table.Table, name string) *table.Column {
	col, ok := t.Column(name)
	if !ok {
		panic("no such column: " + name)
	}
	return col
}

// ScenarioTable is the canonical small fixture used across packages:
// age (numeric: 25, missing, 30) and city (categorical: NY, NY, missing).
func ScenarioTable() *table.Table {
	return MustTable(
		NumericColumn("age", 25, nil, 30),
		CategoricalColumn("city", "NY", "NY", nil),
	)
}
