// Package excel reads .xlsx workbooks into tables.
package excel

import (
	"bytes"
	"fmt"
	"log"
	"strings"

	"wrangle/domain/table"
	"wrangle/internal/errors"
	"wrangle/internal/loader"

	"github.com/xuri/excelize/v2"
)

// Reader parses the first sheet of an xlsx workbook into a Table, using the
// same header validation and kind inference as the CSV loader.
type Reader struct{}

// NewReader creates a new Excel reader
func NewReader() *Reader {
	return &Reader{}
}

// Load reads an xlsx byte stream. The first sheet's first row is the header;
// empty cells are missing markers.
func (r *Reader) Load(data []byte) (*table.Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, errors.ParseError(0, fmt.Sprintf("failed to open workbook: %v", err))
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.ParseError(0, "workbook has no sheets")
	}
	sheet := sheets[0]

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.ParseError(0, fmt.Sprintf("failed to read sheet %s: %v", sheet, err))
	}

	t, err := loader.FromRecords(rows)
	if err != nil {
		return nil, err
	}

	log.Printf("[ExcelReader] Read sheet %s (%d rows x %d columns)", strings.TrimSpace(sheet), t.RowCount(), t.ColumnCount())
	return t, nil
}
