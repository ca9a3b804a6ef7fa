package controller

import (
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/unclebandit/crmleopard-backend/internal/service"
)

// 10 MiB cap on uploaded CSVs.
const maxImportSize = 10 << 20

type ImportController struct {
	ImportService *service.ImportService
	Reports       *service.ReportStore
}

// DryRun validates the uploaded CSV without touching the database.
func (c *ImportController) DryRun(w http.ResponseWriter, r *http.Request) {
	csvBytes, opts, ok := c.readUpload(w, r)
	if !ok {
		return
	}

	report, err := c.ImportService.DryRun(csvBytes, opts)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// Commit applies the uploaded CSV and returns the outcome counts plus the
// per-row report download URL.
func (c *ImportController) Commit(w http.ResponseWriter, r *http.Request) {
	csvBytes, opts, ok := c.readUpload(w, r)
	if !ok {
		return
	}

	result, err := c.ImportService.Commit(csvBytes, opts)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// DownloadReport serves a previously generated per-row report CSV.
func (c *ImportController) DownloadReport(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimSuffix(chi.URLParam(r, "token"), ".csv")

	content, ok := c.Reports.Fetch(token)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "report not found or expired"})
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="import_report.csv"`)
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, content)
}

// readUpload pulls the CSV file and import options out of the multipart form.
func (c *ImportController) readUpload(w http.ResponseWriter, r *http.Request) ([]byte, service.ImportOptions, bool) {
	var opts service.ImportOptions

	if err := r.ParseMultipartForm(maxImportSize); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid multipart form"})
		return nil, opts, false
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "missing file field"})
		return nil, opts, false
	}
	defer file.Close()

	csvBytes, err := io.ReadAll(io.LimitReader(file, maxImportSize))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "failed to read upload"})
		return nil, opts, false
	}

	opts.Mode = r.FormValue("mode")
	opts.AutoCreateFields = r.FormValue("auto_create_fields") == "true"
	return csvBytes, opts, true
}
