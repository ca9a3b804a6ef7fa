package controller

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"

	appErrors "github.com/unclebandit/crmleopard-backend/internal/errors"
	"github.com/unclebandit/crmleopard-backend/internal/repository"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

// writeError maps the service error taxonomy onto HTTP statuses: validation
// 422, not found 404, conflict 409, everything else 500.
func writeError(w http.ResponseWriter, err error) {
	var validationErr *appErrors.ValidationError

	switch {
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error": validationErr.Error(),
			"field": validationErr.Field,
		})
	case appErrors.IsNotFound(err):
		writeJSON(w, http.StatusNotFound, map[string]any{
			"error": err.Error(),
		})
	case appErrors.IsConflict(err):
		writeJSON(w, http.StatusConflict, map[string]any{
			"error": err.Error(),
		})
	default:
		log.Error("request failed: ", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"error": "internal server error",
		})
	}
}

func urlID(r *http.Request, name string) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

func badID(w http.ResponseWriter) {
	writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid id"})
}

func badBody(w http.ResponseWriter) {
	writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid body"})
}

// listParams reads the shared filter, sort and pagination query parameters.
func listParams(r *http.Request) repository.ListParams {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	pageSize, _ := strconv.Atoi(q.Get("page_size"))

	return repository.ListParams{
		Search:   q.Get("search"),
		Status:   q.Get("status"),
		Tag:      q.Get("tag"),
		Company:  q.Get("company"),
		SortBy:   q.Get("sort_by"),
		SortDir:  q.Get("sort_dir"),
		Page:     page,
		PageSize: pageSize,
	}
}
