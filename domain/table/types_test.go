package table

import (
	"testing"
)

func numericCol(name string, values ...float64) Column {
	cells := make([]Cell, len(values))
	for i, v := range values {
		cells[i] = NewNumericCell(v)
	}
	return Column{Name: name, Kind: KindNumeric, Cells: cells}
}

func TestNew_RejectsDuplicateColumnNames(t *testing.T) {
	_, err := New([]Column{
		numericCol("a", 1, 2),
		numericCol("a", 3, 4),
	})
	if err == nil {
		t.Fatal("expected error for duplicate column names")
	}
}

func TestNew_RejectsUnequalColumnLengths(t *testing.T) {
	_, err := New([]Column{
		numericCol("a", 1, 2),
		numericCol("b", 3),
	})
	if err == nil {
		t.Fatal("expected error for unequal column lengths")
	}
}

func TestTable_RowCountEmptyTable(t *testing.T) {
	tbl, err := New(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tbl.RowCount() != 0 || tbl.ColumnCount() != 0 {
		t.Errorf("empty table should have 0 rows and 0 columns, got %d x %d", tbl.RowCount(), tbl.ColumnCount())
	}
}

func TestCell_MissingMarkerDistinctFromValues(t *testing.T) {
	missing := NewMissingCell()
	zero := NewNumericCell(0)
	empty := NewCategoricalCell("")

	if !missing.IsMissing {
		t.Error("missing cell should carry the missing marker")
	}
	if zero.IsMissing {
		t.Error("numeric zero is a real value, not missing")
	}
	if !empty.IsMissing {
		t.Error("empty string input maps to the missing marker")
	}
	if missing.Equal(zero) {
		t.Error("missing must not equal any real value")
	}
	if !missing.Equal(NewMissingCell()) {
		t.Error("two missing cells are equal")
	}
}

func TestColumn_MissingCountAndNonMissing(t *testing.T) {
	col := Column{Name: "x", Kind: KindNumeric, Cells: []Cell{
		NewNumericCell(1),
		NewMissingCell(),
		NewNumericCell(3),
		NewMissingCell(),
	}}

	if got := col.MissingCount(); got != 2 {
		t.Errorf("MissingCount = %d, want 2", got)
	}
	floats := col.NonMissingFloats()
	if len(floats) != 2 || floats[0] != 1 || floats[1] != 3 {
		t.Errorf("NonMissingFloats = %v, want [1 3]", floats)
	}
}

func TestTable_Equal(t *testing.T) {
	a, _ := New([]Column{numericCol("a", 1, 2)})
	b, _ := New([]Column{numericCol("a", 1, 2)})
	c, _ := New([]Column{numericCol("a", 1, 3)})

	if !a.Equal(b) {
		t.Error("identical tables should be equal")
	}
	if a.Equal(c) {
		t.Error("tables with differing cells should not be equal")
	}
}

func TestParseStrategyKind(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"drop_rows", false},
		{"fill_constant", false},
		{"fill_median", false},
		{"fill_mode", false},
		{"fill", true},
		{"", true},
	}

	for _, tt := range tests {
		_, err := ParseStrategyKind(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseStrategyKind(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
	}
}
