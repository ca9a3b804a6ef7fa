package controller

import (
	"bytes"
	"net/http"

	"github.com/unclebandit/crmleopard-backend/internal/service"
)

type ExportController struct {
	ExportService *service.ExportService
}

// ExportCustomers returns all customers matching the list filters as CSV.
// The export is buffered so a storage failure still produces a clean error
// response instead of a truncated file.
func (c *ExportController) ExportCustomers(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := c.ExportService.Export(listParams(r), &buf); err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="customers.csv"`)
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
