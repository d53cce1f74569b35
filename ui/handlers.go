package ui

import (
	"encoding/json"
	"io"
	"net/http"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"wrangle/domain/core"
	"wrangle/domain/table"
	"wrangle/internal/errors"
	"wrangle/internal/missing"
	"wrangle/internal/viz"
)

// handleOverview parses the uploaded file and returns shape, per-column
// kinds and summary statistics.
func (a *App) handleOverview(w http.ResponseWriter, r *http.Request) {
	t, ok := a.loadUploadedTable(w, r)
	if !ok {
		return
	}

	ov := a.service.Overview(t)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"num_rows":    ov.RowCount,
		"num_columns": ov.ColumnCount,
		"columns":     ov.Columns,
	})
}

// handleMissingValues returns the per-column missing report plus the subset
// of columns that actually have missing cells.
func (a *App) handleMissingValues(w http.ResponseWriter, r *http.Request) {
	t, ok := a.loadUploadedTable(w, r)
	if !ok {
		return
	}

	report := a.service.MissingReport(t)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"missing_values":            report,
		"missing_data_distribution": missing.Distribution(report),
	})
}

// handleCleanData applies the selected strategy and persists the cleaned
// table as a named relation.
func (a *App) handleCleanData(w http.ResponseWriter, r *http.Request) {
	t, ok := a.loadUploadedTable(w, r)
	if !ok {
		return
	}

	kind, err := table.ParseStrategyKind(r.FormValue("strategy"))
	if err != nil {
		writeError(w, errors.InvalidInput(err.Error()))
		return
	}
	strategy := table.Strategy{Kind: kind, FillValue: r.FormValue("fill_value")}
	if kind == table.StrategyFillConstant && strategy.FillValue == "" {
		writeError(w, errors.InvalidInput("fill_value is required for the fill_constant strategy"))
		return
	}

	relation := r.FormValue("relation")
	if relation == "" {
		relation = relationNameFromFilename(a.uploadedFilename(r))
	}
	name, err := core.ParseRelationName(relation)
	if err != nil {
		writeError(w, errors.InvalidInput(err.Error()))
		return
	}

	result, err := a.service.CleanAndSave(r.Context(), t, strategy, name)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"relation":     name.String(),
		"rows":         result.Table.RowCount(),
		"rows_removed": result.RowsRemoved,
		"cells_filled": result.CellsFilled,
		"unfillable":   result.Unfillable,
	})
}

// handleVisualize returns the top-N category aggregation as a chart-ready
// series.
func (a *App) handleVisualize(w http.ResponseWriter, r *http.Request) {
	t, ok := a.loadUploadedTable(w, r)
	if !ok {
		return
	}

	topN := 10
	if raw := r.FormValue("top_n"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, errors.InvalidInput("top_n must be an integer"))
			return
		}
		topN = parsed
	}

	agg := viz.AggregateSum
	if raw := r.FormValue("aggregate"); raw != "" {
		parsed, err := viz.ParseAggregate(raw)
		if err != nil {
			writeError(w, err)
			return
		}
		agg = parsed
	}

	series, err := a.service.PrepareChart(t, r.FormValue("categorical_column"), r.FormValue("numeric_column"), topN, agg)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"series": series})
}

func (a *App) handleListRelations(w http.ResponseWriter, r *http.Request) {
	names, err := a.service.ListRelations(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"relations": names})
}

func (a *App) handleGetRelation(w http.ResponseWriter, r *http.Request) {
	name, err := core.ParseRelationName(chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, errors.InvalidInput(err.Error()))
		return
	}

	t, err := a.service.LoadRelation(r.Context(), name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (a *App) handleVerifyRelation(w http.ResponseWriter, r *http.Request) {
	name, err := core.ParseRelationName(chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, errors.InvalidInput(err.Error()))
		return
	}

	report, err := a.service.Verify(r.Context(), name)
	if err != nil {
		writeError(w, err)
		return
	}

	clean := true
	for _, stats := range report {
		if stats.MissingCount > 0 {
			clean = false
			break
		}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"relation": name.String(),
		"clean":    clean,
		"missing":  report,
	})
}

// loadUploadedTable reads the multipart "file" field and parses it into a
// Table. Errors are written to the response and ok=false returned.
func (a *App) loadUploadedTable(w http.ResponseWriter, r *http.Request) (*table.Table, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, a.maxFileSize)
	if err := r.ParseMultipartForm(a.maxFileSize); err != nil {
		writeError(w, errors.InvalidInput("invalid multipart request: "+err.Error()))
		return nil, false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, errors.InvalidInput("missing file field"))
		return nil, false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, errors.Wrap(err, "failed to read upload"))
		return nil, false
	}

	t, err := a.service.LoadUpload(r.Context(), header.Filename, data)
	if err != nil {
		writeError(w, err)
		return nil, false
	}
	return t, true
}

func (a *App) uploadedFilename(r *http.Request) string {
	if r.MultipartForm == nil {
		return ""
	}
	files := r.MultipartForm.File["file"]
	if len(files) == 0 {
		return ""
	}
	return files[0].Filename
}

var relationNameCleaner = regexp.MustCompile(`[^a-zA-Z0-9_]+`)

// relationNameFromFilename derives a store-safe relation name from the
// uploaded filename, e.g. "Car Sales.csv" -> "car_sales".
func relationNameFromFilename(filename string) string {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	name := relationNameCleaner.ReplaceAllString(strings.ToLower(base), "_")
	name = strings.Trim(name, "_")
	if name == "" {
		return "cleaned_data"
	}
	if name[0] >= '0' && name[0] <= '9' {
		name = "t_" + name
	}
	return name
}

// writeJSON writes a JSON response with the given status
func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// writeError maps application error codes to HTTP statuses
func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	status := http.StatusInternalServerError
	switch code {
	case errors.CodeParseError, errors.CodeInvalidInput, errors.CodeTypeMismatch, errors.CodeKindMismatch:
		status = http.StatusBadRequest
	case errors.CodeColumnNotFound, errors.CodeNotFound:
		status = http.StatusNotFound
	}
	writeJSON(w, status, map[string]string{"error": err.Error(), "code": code})
}
