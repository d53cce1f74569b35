package excel

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"

	"wrangle/domain/table"
	"wrangle/internal/errors"
	"wrangle/internal/testkit"
)

// buildWorkbook writes rows into the first sheet and returns the xlsx bytes
func buildWorkbook(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("CoordinatesToCellName failed: %v", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("SetSheetRow failed: %v", err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("writing workbook failed: %v", err)
	}
	return buf.Bytes()
}

func TestLoad_FirstSheet(t *testing.T) {
	data := buildWorkbook(t, [][]interface{}{
		{"age", "city"},
		{25, "NY"},
		{30, "LA"},
	})

	tbl, err := NewReader().Load(data)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if tbl.RowCount() != 2 || tbl.ColumnCount() != 2 {
		t.Fatalf("got %d x %d, want 2 x 2", tbl.RowCount(), tbl.ColumnCount())
	}
	if testkit.Col(tbl, "age").Kind != table.KindNumeric {
		t.Error("age should infer numeric")
	}
	if testkit.Col(tbl, "city").Kind != table.KindCategorical {
		t.Error("city should infer categorical")
	}
}

// TestLoad_TrailingEmptyCellsAreMissing: the sheet reader omits trailing
// empty cells, so short rows must pad out as missing.
func TestLoad_TrailingEmptyCellsAreMissing(t *testing.T) {
	data := buildWorkbook(t, [][]interface{}{
		{"a", "b"},
		{1, "x"},
		{2},
	})

	tbl, err := NewReader().Load(data)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if got := testkit.Col(tbl, "b").MissingCount(); got != 1 {
		t.Errorf("b missing count = %d, want 1", got)
	}
}

func TestLoad_NotAWorkbook(t *testing.T) {
	_, err := NewReader().Load([]byte("definitely,not,xlsx\n1,2,3\n"))
	if err == nil {
		t.Fatal("expected error for non-xlsx input")
	}
	if !errors.HasCode(err, errors.CodeParseError) {
		t.Errorf("error code = %s, want %s", errors.GetCode(err), errors.CodeParseError)
	}
}
