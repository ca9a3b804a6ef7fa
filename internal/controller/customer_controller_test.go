package controller_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/unclebandit/crmleopard-backend/internal/controller"
	appErrors "github.com/unclebandit/crmleopard-backend/internal/errors"
	"github.com/unclebandit/crmleopard-backend/internal/model"
	"github.com/unclebandit/crmleopard-backend/internal/repository"
	"github.com/unclebandit/crmleopard-backend/internal/service"
)

// memCustomerRepo backs the controller tests without a database.
type memCustomerRepo struct {
	nextID    int
	customers map[int]*model.Customer
}

func newMemCustomerRepo() *memCustomerRepo {
	return &memCustomerRepo{nextID: 1, customers: map[int]*model.Customer{}}
}

func (m *memCustomerRepo) sorted() []model.Customer {
	ids := []int{}
	for id := range m.customers {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := []model.Customer{}
	for _, id := range ids {
		out = append(out, *m.customers[id])
	}
	return out
}

func (m *memCustomerRepo) List(p repository.ListParams) ([]model.Customer, int, error) {
	all := m.sorted()
	total := len(all)
	start := p.Offset()
	if start > total {
		return []model.Customer{}, total, nil
	}
	end := start + p.PageSize
	if end > total {
		end = total
	}
	return all[start:end], total, nil
}

func (m *memCustomerRepo) ListAll(p repository.ListParams) ([]model.Customer, error) {
	return m.sorted(), nil
}

func (m *memCustomerRepo) GetByID(id int) (*model.Customer, error) {
	c, ok := m.customers[id]
	if !ok {
		return nil, nil
	}
	copied := *c
	return &copied, nil
}

func (m *memCustomerRepo) Exists(id int) (bool, error) {
	_, ok := m.customers[id]
	return ok, nil
}

func (m *memCustomerRepo) FindByEmail(email string) (*model.Customer, error) {
	for _, c := range m.customers {
		if c.Email == email {
			copied := *c
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *memCustomerRepo) FindByPhone(phone string) (*model.Customer, error) {
	return nil, nil
}

func (m *memCustomerRepo) Create(c *model.Customer, custom map[string]*string) error {
	if c.Email != "" {
		if existing, _ := m.FindByEmail(c.Email); existing != nil {
			return appErrors.NewConflict("email already exists")
		}
	}
	c.ID = m.nextID
	m.nextID++
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	stored := *c
	m.customers[c.ID] = &stored
	return nil
}

func (m *memCustomerRepo) Update(c *model.Customer, custom map[string]*string) error {
	if _, ok := m.customers[c.ID]; !ok {
		return appErrors.NewNotFound("customer", c.ID)
	}
	stored := *c
	m.customers[c.ID] = &stored
	return nil
}

func (m *memCustomerRepo) Delete(id int) error {
	if _, ok := m.customers[id]; !ok {
		return appErrors.NewNotFound("customer", id)
	}
	delete(m.customers, id)
	return nil
}

func (m *memCustomerRepo) GetCustomValues(customerID int) (map[string]string, error) {
	return map[string]string{}, nil
}

type memFieldRepo struct{}

func (m *memFieldRepo) ListDefinitions() ([]model.FieldDefinition, error)    { return nil, nil }
func (m *memFieldRepo) GetByKey(key string) (*model.FieldDefinition, error)  { return nil, nil }
func (m *memFieldRepo) Create(d *model.FieldDefinition) error                { return nil }

func newTestRouter() (*chi.Mux, *memCustomerRepo) {
	repo := newMemCustomerRepo()
	svc := &service.CustomerService{Repo: repo, Fields: &memFieldRepo{}}
	ctrl := &controller.CustomerController{CustomerService: svc}

	r := chi.NewRouter()
	r.Get("/api/customers", ctrl.ListCustomers)
	r.Post("/api/customers", ctrl.CreateCustomer)
	r.Get("/api/customers/{customerID}", ctrl.GetCustomer)
	r.Patch("/api/customers/{customerID}", ctrl.UpdateCustomer)
	r.Delete("/api/customers/{customerID}", ctrl.DeleteCustomer)
	return r, repo
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateAndGetCustomer(t *testing.T) {
	router, _ := newTestRouter()

	w := doJSON(t, router, "POST", "/api/customers", map[string]any{
		"name":  "Wanjiru Kamau",
		"email": "wanjiru@ex.example",
		"tags":  []string{"vip"},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var created model.Customer
	if err := json.NewDecoder(w.Body).Decode(&created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("expected an assigned id")
	}
	if created.Status != "lead" {
		t.Errorf("expected default status lead, got %q", created.Status)
	}

	w = doJSON(t, router, "GET", "/api/customers/1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestCreateCustomerValidationStatus(t *testing.T) {
	router, _ := newTestRouter()

	w := doJSON(t, router, "POST", "/api/customers", map[string]any{"email": "x@ex.example"})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for missing name, got %d", w.Code)
	}

	var payload map[string]any
	if err := json.NewDecoder(w.Body).Decode(&payload); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if payload["field"] != "name" {
		t.Errorf("expected offending field name, got %v", payload["field"])
	}
}

func TestGetCustomerNotFound(t *testing.T) {
	router, _ := newTestRouter()

	w := doJSON(t, router, "GET", "/api/customers/42", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestCreateCustomerConflictStatus(t *testing.T) {
	router, _ := newTestRouter()

	body := map[string]any{"name": "A", "email": "dup@ex.example"}
	if w := doJSON(t, router, "POST", "/api/customers", body); w.Code != http.StatusCreated {
		t.Fatalf("seed create failed: %d", w.Code)
	}
	w := doJSON(t, router, "POST", "/api/customers", body)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate email, got %d", w.Code)
	}
}

func TestListCustomersEnvelope(t *testing.T) {
	router, _ := newTestRouter()

	for i := 0; i < 3; i++ {
		w := doJSON(t, router, "POST", "/api/customers", map[string]any{"name": "Customer"})
		if w.Code != http.StatusCreated {
			t.Fatalf("seed create failed: %d", w.Code)
		}
	}

	w := doJSON(t, router, "GET", "/api/customers?page=1&page_size=2", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var res struct {
		Data       []model.Customer `json:"data"`
		Pagination struct {
			Page       int `json:"page"`
			PageSize   int `json:"page_size"`
			TotalCount int `json:"total_count"`
			TotalPages int `json:"total_pages"`
		} `json:"pagination"`
	}
	if err := json.NewDecoder(w.Body).Decode(&res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(res.Data) != 2 {
		t.Errorf("expected 2 rows, got %d", len(res.Data))
	}
	if res.Pagination.TotalCount != 3 || res.Pagination.TotalPages != 2 {
		t.Errorf("unexpected pagination: %+v", res.Pagination)
	}
}

func TestDeleteCustomerStatus(t *testing.T) {
	router, repo := newTestRouter()

	if w := doJSON(t, router, "POST", "/api/customers", map[string]any{"name": "Temp"}); w.Code != http.StatusCreated {
		t.Fatalf("seed create failed: %d", w.Code)
	}

	w := doJSON(t, router, "DELETE", "/api/customers/1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if len(repo.customers) != 0 {
		t.Error("customer should be gone after delete")
	}

	w = doJSON(t, router, "DELETE", "/api/customers/1", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on second delete, got %d", w.Code)
	}
}
