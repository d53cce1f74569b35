// Package app wires the wrangling pipeline together: load, analyze, clean,
// persist, verify. Every operation is synchronous and runs to completion
// before returning; there is no shared mutable state across calls beyond the
// relation store itself.
package app

import (
	"context"
	"log"
	"path/filepath"
	"strings"

	"wrangle/adapters/excel"
	"wrangle/domain/core"
	"wrangle/domain/table"
	"wrangle/internal/cleaning"
	"wrangle/internal/errors"
	"wrangle/internal/loader"
	"wrangle/internal/missing"
	"wrangle/internal/overview"
	"wrangle/internal/viz"
	"wrangle/ports"
)

// WrangleService exposes the data-wrangling operations of the system
type WrangleService struct {
	csv      *loader.CSVLoader
	excel    *excel.Reader
	overview *overview.Analyzer
	missing  *missing.Analyzer
	cleaner  *cleaning.Engine
	viz      *viz.Preparer
	store    ports.RelationStore
	blobs    ports.BlobStore
}

// NewWrangleService creates the service over a relation store and a blob
// store for raw uploads. The blob store may be nil, in which case raw
// uploads are not retained.
func NewWrangleService(store ports.RelationStore, blobs ports.BlobStore) *WrangleService {
	return &WrangleService{
		csv:      loader.NewCSVLoader(),
		excel:    excel.NewReader(),
		overview: overview.NewAnalyzer(),
		missing:  missing.NewAnalyzer(),
		cleaner:  cleaning.NewEngine(),
		viz:      viz.NewPreparer(),
		store:    store,
		blobs:    blobs,
	}
}

// LoadUpload parses an uploaded file into a Table, dispatching on the file
// extension (.csv or .xlsx), and retains the raw bytes in the blob store.
func (s *WrangleService) LoadUpload(ctx context.Context, filename string, data []byte) (*table.Table, error) {
	if s.blobs != nil {
		if _, err := s.blobs.Store(ctx, data, filename); err != nil {
			// Retention is best-effort; parsing still proceeds.
			log.Printf("[WrangleService] Warning: failed to retain upload %s: %v", filename, err)
		}
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv", "":
		return s.csv.Load(strings.NewReader(string(data)))
	case ".xlsx":
		return s.excel.Load(data)
	}
	return nil, errors.InvalidInput("unsupported file type: " + filepath.Ext(filename))
}

// Overview computes shape and per-column summary statistics
func (s *WrangleService) Overview(t *table.Table) overview.Overview {
	return s.overview.Analyze(t)
}

// MissingReport computes per-column missing counts and rates
func (s *WrangleService) MissingReport(t *table.Table) table.MissingReport {
	return s.missing.Analyze(t)
}

// Clean applies a remediation strategy and returns the cleaned table plus a
// change report. The input table is never modified.
func (s *WrangleService) Clean(t *table.Table, strategy table.Strategy) (*table.CleaningResult, error) {
	return s.cleaner.Clean(t, strategy)
}

// CleanAndSave cleans the table and persists the result under name.
// The relation is only written when cleaning succeeds.
func (s *WrangleService) CleanAndSave(ctx context.Context, t *table.Table, strategy table.Strategy, name core.RelationName) (*table.CleaningResult, error) {
	result, err := s.cleaner.Clean(t, strategy)
	if err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, name, result.Table); err != nil {
		return nil, err
	}
	return result, nil
}

// LoadRelation reads a previously saved relation
func (s *WrangleService) LoadRelation(ctx context.Context, name core.RelationName) (*table.Table, error) {
	return s.store.Load(ctx, name)
}

// Verify re-loads a saved relation and re-runs the missing-value analysis,
// confirming that cleaning survived persistence.
func (s *WrangleService) Verify(ctx context.Context, name core.RelationName) (table.MissingReport, error) {
	t, err := s.store.Load(ctx, name)
	if err != nil {
		return nil, err
	}
	return s.missing.Analyze(t), nil
}

// ListRelations returns the names of all saved relations
func (s *WrangleService) ListRelations(ctx context.Context) ([]core.RelationName, error) {
	return s.store.List(ctx)
}

// PrepareChart aggregates a categorical column against a numeric column into
// an ordered top-N series for the display layer.
func (s *WrangleService) PrepareChart(t *table.Table, categorical, numeric string, topN int, agg viz.Aggregate) ([]viz.CategoryValue, error) {
	return s.viz.Prepare(t, categorical, numeric, topN, agg)
}
