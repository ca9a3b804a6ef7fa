package controller

import (
	"encoding/json"
	"net/http"

	"github.com/unclebandit/crmleopard-backend/internal/service"
)

type FieldController struct {
	FieldService *service.FieldService
}

func (c *FieldController) ListFields(w http.ResponseWriter, r *http.Request) {
	definitions, err := c.FieldService.List()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": definitions})
}

func (c *FieldController) CreateField(w http.ResponseWriter, r *http.Request) {
	var body service.FieldInput
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		badBody(w)
		return
	}

	definition, err := c.FieldService.Create(body)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, definition)
}
