package controller

import (
	"encoding/json"
	"net/http"

	"github.com/unclebandit/crmleopard-backend/internal/service"
)

type CustomerController struct {
	CustomerService *service.CustomerService
}

func (c *CustomerController) ListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, pagination, err := c.CustomerService.List(listParams(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"data":       customers,
		"pagination": pagination,
	})
}

func (c *CustomerController) GetCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r, "customerID")
	if !ok {
		badID(w)
		return
	}

	customer, err := c.CustomerService.Get(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, customer)
}

func (c *CustomerController) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var body service.CustomerInput
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		badBody(w)
		return
	}

	customer, err := c.CustomerService.Create(body)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, customer)
}

func (c *CustomerController) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r, "customerID")
	if !ok {
		badID(w)
		return
	}

	var body service.CustomerPatch
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		badBody(w)
		return
	}

	customer, err := c.CustomerService.Update(id, body)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, customer)
}

func (c *CustomerController) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r, "customerID")
	if !ok {
		badID(w)
		return
	}

	if err := c.CustomerService.Delete(id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": id})
}
