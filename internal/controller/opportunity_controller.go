package controller

import (
	"encoding/json"
	"net/http"

	"github.com/unclebandit/crmleopard-backend/internal/service"
)

type OpportunityController struct {
	OpportunityService *service.OpportunityService
}

func (c *OpportunityController) ListOpportunities(w http.ResponseWriter, r *http.Request) {
	customerID, ok := urlID(r, "customerID")
	if !ok {
		badID(w)
		return
	}

	opportunities, pagination, err := c.OpportunityService.ListByCustomer(customerID, listParams(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"data":       opportunities,
		"pagination": pagination,
	})
}

func (c *OpportunityController) GetOpportunity(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r, "id")
	if !ok {
		badID(w)
		return
	}

	opportunity, err := c.OpportunityService.Get(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, opportunity)
}

func (c *OpportunityController) CreateOpportunity(w http.ResponseWriter, r *http.Request) {
	customerID, ok := urlID(r, "customerID")
	if !ok {
		badID(w)
		return
	}

	var body service.OpportunityInput
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		badBody(w)
		return
	}

	opportunity, err := c.OpportunityService.Create(customerID, body)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, opportunity)
}

func (c *OpportunityController) UpdateOpportunity(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r, "id")
	if !ok {
		badID(w)
		return
	}

	var body service.OpportunityPatch
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		badBody(w)
		return
	}

	opportunity, err := c.OpportunityService.Update(id, body)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, opportunity)
}

func (c *OpportunityController) DeleteOpportunity(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r, "id")
	if !ok {
		badID(w)
		return
	}

	if err := c.OpportunityService.Delete(id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": id})
}
