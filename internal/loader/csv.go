// Package loader parses uploaded byte streams into in-memory tables.
package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"unicode/utf8"

	"wrangle/domain/table"
	"wrangle/internal/errors"
)

// CSVLoader parses comma-separated UTF-8 text with a header row into a Table.
// Column kinds are inferred once here and carried by the Table thereafter.
type CSVLoader struct{}

// NewCSVLoader creates a new CSV loader
func NewCSVLoader() *CSVLoader {
	return &CSVLoader{}
}

// Load reads the full stream and returns a typed Table.
// Fails with a PARSE_ERROR when the stream is not valid UTF-8 delimited text,
// when rows have inconsistent field counts relative to the header, or when
// header names are empty or duplicated.
func (l *CSVLoader) Load(r io.Reader) (*table.Table, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read input stream")
	}
	if !utf8.Valid(raw) {
		return nil, errors.ParseError(0, "input is not valid UTF-8 text")
	}

	reader := csv.NewReader(strings.NewReader(string(raw)))
	records, err := reader.ReadAll()
	if err != nil {
		if parseErr, ok := err.(*csv.ParseError); ok {
			return nil, errors.ParseError(parseErr.Line, parseErr.Err.Error())
		}
		return nil, errors.ParseError(0, err.Error())
	}
	return FromRecords(records)
}

// FromRecords builds a typed Table from pre-split rows: a header row followed
// by data rows of the same width. Shared by the CSV and Excel ingestion
// paths.
func FromRecords(records [][]string) (*table.Table, error) {
	if len(records) == 0 {
		return nil, errors.ParseError(0, "input has no header row")
	}

	headers := records[0]
	dataRows := records[1:]

	seen := make(map[string]bool, len(headers))
	for i, header := range headers {
		name := strings.TrimSpace(header)
		if name == "" {
			return nil, errors.ParseError(1, fmt.Sprintf("header field %d is empty", i+1))
		}
		if seen[name] {
			return nil, errors.ParseError(1, fmt.Sprintf("duplicate column name: %s", name))
		}
		seen[name] = true
		headers[i] = name
	}

	// Rows may be ragged on the Excel path (trailing empty cells are
	// omitted); absent fields are missing. Extra fields are an error.
	for rowIdx, record := range dataRows {
		if len(record) > len(headers) {
			return nil, errors.ParseError(rowIdx+2, fmt.Sprintf("row has %d fields, header has %d", len(record), len(headers)))
		}
	}

	columns := make([]table.Column, len(headers))
	for colIdx, name := range headers {
		values := make([]string, len(dataRows))
		for rowIdx, record := range dataRows {
			if colIdx < len(record) {
				values[rowIdx] = strings.TrimSpace(record[colIdx])
			}
		}
		columns[colIdx] = buildColumn(name, values)
	}

	t, err := table.New(columns)
	if err != nil {
		return nil, errors.Wrap(err, "failed to assemble table")
	}

	log.Printf("[Loader] Parsed %d rows x %d columns", t.RowCount(), t.ColumnCount())
	return t, nil
}

// buildColumn infers the column kind and materializes its cells.
// A column is numeric if every non-missing value parses as a number; a column
// with no non-missing values at all is treated as numeric, matching the
// float promotion the rest of the pipeline expects for empty data.
func buildColumn(name string, values []string) table.Column {
	kind := table.KindNumeric
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, err := strconv.ParseFloat(v, 64); err != nil {
			kind = table.KindCategorical
			break
		}
	}

	cells := make([]table.Cell, len(values))
	for i, v := range values {
		if v == "" {
			cells[i] = table.NewMissingCell()
			continue
		}
		if kind == table.KindNumeric {
			f, _ := strconv.ParseFloat(v, 64)
			cells[i] = table.NewNumericCell(f)
		} else {
			cells[i] = table.NewCategoricalCell(v)
		}
	}

	return table.Column{Name: name, Kind: kind, Cells: cells}
}
