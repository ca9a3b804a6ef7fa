package controller

import (
	"encoding/json"
	"net/http"

	"github.com/unclebandit/crmleopard-backend/internal/service"
)

type InteractionController struct {
	InteractionService *service.InteractionService
}

func (c *InteractionController) ListInteractions(w http.ResponseWriter, r *http.Request) {
	customerID, ok := urlID(r, "customerID")
	if !ok {
		badID(w)
		return
	}

	interactions, pagination, err := c.InteractionService.ListByCustomer(customerID, listParams(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"data":       interactions,
		"pagination": pagination,
	})
}

func (c *InteractionController) GetInteraction(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r, "id")
	if !ok {
		badID(w)
		return
	}

	interaction, err := c.InteractionService.Get(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, interaction)
}

func (c *InteractionController) CreateInteraction(w http.ResponseWriter, r *http.Request) {
	customerID, ok := urlID(r, "customerID")
	if !ok {
		badID(w)
		return
	}

	var body service.InteractionInput
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		badBody(w)
		return
	}

	interaction, err := c.InteractionService.Create(customerID, body)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, interaction)
}

func (c *InteractionController) UpdateInteraction(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r, "id")
	if !ok {
		badID(w)
		return
	}

	var body service.InteractionPatch
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		badBody(w)
		return
	}

	interaction, err := c.InteractionService.Update(id, body)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, interaction)
}

func (c *InteractionController) DeleteInteraction(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r, "id")
	if !ok {
		badID(w)
		return
	}

	if err := c.InteractionService.Delete(id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": id})
}
