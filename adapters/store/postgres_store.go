package store

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"wrangle/domain/core"
	"wrangle/domain/table"
	"wrangle/internal/errors"
	"wrangle/ports"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// insertBatchRows caps how many rows a single INSERT statement carries
const insertBatchRows = 500

// PostgresStore persists relations as real SQL tables: numeric columns as
// DOUBLE PRECISION, categorical as TEXT, missing cells as NULL. Kinds are
// recovered from the information schema on load, so round-trips are exact.
type PostgresStore struct {
	db     *sqlx.DB
	schema string
}

// NewPostgresStore creates a relation store over an open connection.
// Relations are created in the given schema ("public" if empty).
func NewPostgresStore(db *sqlx.DB, schema string) *PostgresStore {
	if schema == "" {
		schema = "public"
	}
	return &PostgresStore{db: db, schema: schema}
}

func (s *PostgresStore) qualified(name core.RelationName) string {
	return pq.QuoteIdentifier(s.schema) + "." + pq.QuoteIdentifier(name.String())
}

// Save writes the table as a named relation, replacing any existing one.
// The drop, create and inserts run in one transaction so a failed save never
// leaves a partially written relation visible.
func (s *PostgresStore) Save(ctx context.Context, name core.RelationName, t *table.Table) error {
	columnDefs := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		sqlType := "TEXT"
		if col.Kind == table.KindNumeric {
			sqlType = "DOUBLE PRECISION"
		}
		columnDefs[i] = fmt.Sprintf("%s %s", pq.QuoteIdentifier(col.Name), sqlType)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", s.qualified(name))); err != nil {
		return errors.Wrapf(err, "failed to drop existing relation %s", name)
	}

	createSQL := fmt.Sprintf("CREATE TABLE %s (\n\t%s\n)", s.qualified(name), strings.Join(columnDefs, ",\n\t"))
	if _, err := tx.ExecContext(ctx, createSQL); err != nil {
		return errors.Wrapf(err, "failed to create relation %s", name)
	}

	if err := s.insertRows(ctx, tx, name, t); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrapf(err, "failed to commit relation %s", name)
	}

	log.Printf("[PostgresStore] Saved relation %s (%d rows x %d columns)", name, t.RowCount(), t.ColumnCount())
	return nil
}

func (s *PostgresStore) insertRows(ctx context.Context, tx *sqlx.Tx, name core.RelationName, t *table.Table) error {
	rowCount := t.RowCount()
	if rowCount == 0 || t.ColumnCount() == 0 {
		return nil
	}

	quoted := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		quoted[i] = pq.QuoteIdentifier(col.Name)
	}
	columnList := strings.Join(quoted, ", ")

	for start := 0; start < rowCount; start += insertBatchRows {
		end := start + insertBatchRows
		if end > rowCount {
			end = rowCount
		}

		var placeholders []string
		var args []interface{}
		arg := 1
		for row := start; row < end; row++ {
			slots := make([]string, len(t.Columns))
			for i, col := range t.Columns {
				slots[i] = fmt.Sprintf("$%d", arg)
				arg++
				args = append(args, cellArg(col.Cells[row], col.Kind))
			}
			placeholders = append(placeholders, "("+strings.Join(slots, ", ")+")")
		}

		insertSQL := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s",
			s.qualified(name), columnList, strings.Join(placeholders, ", "))
		if _, err := tx.ExecContext(ctx, insertSQL, args...); err != nil {
			return errors.Wrapf(err, "failed to insert rows into relation %s", name)
		}
	}
	return nil
}

// cellArg maps a cell to its SQL parameter; missing cells become NULL
func cellArg(cell table.Cell, kind table.Kind) interface{} {
	if cell.IsMissing {
		return nil
	}
	if kind == table.KindNumeric {
		return cell.AsFloat64()
	}
	return cell.AsString()
}

// Load reads the named relation back into a Table
func (s *PostgresStore) Load(ctx context.Context, name core.RelationName) (*table.Table, error) {
	columns, err := s.relationSchema(ctx, name)
	if err != nil {
		return nil, err
	}
	if len(columns) == 0 {
		return nil, errors.NotFound("relation " + name.String())
	}

	quoted := make([]string, len(columns))
	for i, col := range columns {
		quoted[i] = pq.QuoteIdentifier(col.Name)
	}

	query := fmt.Sprintf("SELECT %s FROM %s", strings.Join(quoted, ", "), s.qualified(name))
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read relation %s", name)
	}
	defer rows.Close()

	for rows.Next() {
		numericVals := make([]sql.NullFloat64, len(columns))
		stringVals := make([]sql.NullString, len(columns))
		dest := make([]interface{}, len(columns))
		for i, col := range columns {
			if col.Kind == table.KindNumeric {
				dest[i] = &numericVals[i]
			} else {
				dest[i] = &stringVals[i]
			}
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, errors.Wrapf(err, "failed to scan relation %s", name)
		}
		for i := range columns {
			columns[i].Cells = append(columns[i].Cells, scannedCell(columns[i].Kind, numericVals[i], stringVals[i]))
		}
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to iterate relation %s", name)
	}

	return table.New(columns)
}

func scannedCell(kind table.Kind, numeric sql.NullFloat64, str sql.NullString) table.Cell {
	if kind == table.KindNumeric {
		if !numeric.Valid {
			return table.NewMissingCell()
		}
		return table.NewNumericCell(numeric.Float64)
	}
	if !str.Valid {
		return table.NewMissingCell()
	}
	return table.NewCategoricalCell(str.String)
}

// relationSchema recovers column names and kinds from the information schema,
// in the relation's original column order.
func (s *PostgresStore) relationSchema(ctx context.Context, name core.RelationName) ([]table.Column, error) {
	query := `
		SELECT column_name, data_type
		FROM information_schema.columns
		WHERE table_schema = $1 AND table_name = $2
		ORDER BY ordinal_position`

	rows, err := s.db.QueryContext(ctx, query, s.schema, name.String())
	if err != nil {
		return nil, errors.Wrapf(err, "failed to describe relation %s", name)
	}
	defer rows.Close()

	var columns []table.Column
	for rows.Next() {
		var columnName, dataType string
		if err := rows.Scan(&columnName, &dataType); err != nil {
			return nil, errors.Wrapf(err, "failed to scan schema of relation %s", name)
		}
		kind := table.KindCategorical
		if dataType == "double precision" {
			kind = table.KindNumeric
		}
		columns = append(columns, table.Column{Name: columnName, Kind: kind})
	}
	return columns, rows.Err()
}

// Delete drops the named relation; dropping an unknown name is a no-op
func (s *PostgresStore) Delete(ctx context.Context, name core.RelationName) error {
	_, err := s.db.ExecContext(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", s.qualified(name)))
	if err != nil {
		return errors.Wrapf(err, "failed to drop relation %s", name)
	}
	return nil
}

// List returns the names of relations in the store's schema
func (s *PostgresStore) List(ctx context.Context) ([]core.RelationName, error) {
	query := `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = $1 AND table_type = 'BASE TABLE'
		ORDER BY table_name`

	var raw []string
	if err := s.db.SelectContext(ctx, &raw, query, s.schema); err != nil {
		return nil, errors.Wrap(err, "failed to list relations")
	}

	names := make([]core.RelationName, len(raw))
	for i, n := range raw {
		names[i] = core.RelationName(n)
	}
	return names, nil
}

var _ ports.RelationStore = (*PostgresStore)(nil)
