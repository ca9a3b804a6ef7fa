package controller

import (
	"encoding/json"
	"net/http"

	"github.com/unclebandit/crmleopard-backend/internal/service"
)

type TaskController struct {
	TaskService *service.TaskService
}

func (c *TaskController) ListTasks(w http.ResponseWriter, r *http.Request) {
	customerID, ok := urlID(r, "customerID")
	if !ok {
		badID(w)
		return
	}

	tasks, pagination, err := c.TaskService.ListByCustomer(customerID, listParams(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"data":       tasks,
		"pagination": pagination,
	})
}

func (c *TaskController) GetTask(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r, "id")
	if !ok {
		badID(w)
		return
	}

	task, err := c.TaskService.Get(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (c *TaskController) CreateTask(w http.ResponseWriter, r *http.Request) {
	customerID, ok := urlID(r, "customerID")
	if !ok {
		badID(w)
		return
	}

	var body service.TaskInput
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		badBody(w)
		return
	}

	task, err := c.TaskService.Create(customerID, body)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

func (c *TaskController) UpdateTask(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r, "id")
	if !ok {
		badID(w)
		return
	}

	var body service.TaskPatch
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		badBody(w)
		return
	}

	task, err := c.TaskService.Update(id, body)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (c *TaskController) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r, "id")
	if !ok {
		badID(w)
		return
	}

	if err := c.TaskService.Delete(id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": id})
}
