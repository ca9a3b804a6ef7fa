package service

import (
	appErrors "github.com/unclebandit/crmleopard-backend/internal/errors"
	"github.com/unclebandit/crmleopard-backend/internal/model"
	"github.com/unclebandit/crmleopard-backend/internal/repository"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type CustomerService struct {
	Repo   repository.CustomerRepositoryInterface
	Fields repository.FieldRepositoryInterface

	// Zero values fall back to the package defaults.
	DefaultPageSize int
	MaxPageSize     int
}

// CustomerInput is the create payload.
type CustomerInput struct {
	Name    string         `json:"name" validate:"required"`
	Company string         `json:"company"`
	Title   string         `json:"title"`
	Email   string         `json:"email" validate:"omitempty,email"`
	Phone   string         `json:"phone"`
	Status  string         `json:"status" validate:"omitempty,oneof=lead active inactive churned"`
	Tags    []string       `json:"tags"`
	Note    string         `json:"note"`
	Custom  map[string]any `json:"custom"`
}

// CustomerPatch is the partial update payload; only non-nil fields change.
// Custom entries update individual field values; a null entry clears one.
type CustomerPatch struct {
	Name    *string        `json:"name"`
	Company *string        `json:"company"`
	Title   *string        `json:"title"`
	Email   *string        `json:"email"`
	Phone   *string        `json:"phone"`
	Status  *string        `json:"status"`
	Tags    *[]string      `json:"tags"`
	Note    *string        `json:"note"`
	Custom  map[string]any `json:"custom"`
}

// List returns one page of customers plus the pagination block.
func (s *CustomerService) List(p repository.ListParams) ([]model.Customer, map[string]int, error) {
	p.Clamp(s.defaultSize(), s.maxSize())

	customers, total, err := s.Repo.List(p)
	if err != nil {
		return nil, nil, err
	}
	return customers, paginationBlock(p, total), nil
}

// Get fetches a customer with its decoded custom field values.
func (s *CustomerService) Get(id int) (*model.Customer, error) {
	customer, err := s.Repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, appErrors.NewNotFound("customer", id)
	}

	definitions, err := s.definitions()
	if err != nil {
		return nil, err
	}
	stored, err := s.Repo.GetCustomValues(id)
	if err != nil {
		return nil, err
	}
	custom, err := decodeCustomValues(definitions, stored)
	if err != nil {
		return nil, appErrors.NewStorage("decode custom values", err)
	}
	customer.Custom = custom
	return customer, nil
}

// Create validates the payload and inserts the customer.
func (s *CustomerService) Create(in CustomerInput) (*model.Customer, error) {
	if err := checkStruct(in); err != nil {
		return nil, err
	}
	if in.Status == "" {
		in.Status = model.StatusLead
	}

	definitions, err := s.definitions()
	if err != nil {
		return nil, err
	}
	custom, err := prepareCustomUpdates(definitions, in.Custom, nil)
	if err != nil {
		return nil, err
	}

	customer := &model.Customer{
		Name:    in.Name,
		Company: in.Company,
		Title:   in.Title,
		Email:   in.Email,
		Phone:   in.Phone,
		Status:  in.Status,
		Tags:    normalizeTags(in.Tags),
		Note:    in.Note,
	}
	if err := s.Repo.Create(customer, custom); err != nil {
		return nil, err
	}
	return s.Get(customer.ID)
}

// Update merges the supplied fields over the stored row, re-validates the
// result and writes it back.
func (s *CustomerService) Update(id int, patch CustomerPatch) (*model.Customer, error) {
	customer, err := s.Repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, appErrors.NewNotFound("customer", id)
	}

	if patch.Name != nil {
		customer.Name = *patch.Name
	}
	if patch.Company != nil {
		customer.Company = *patch.Company
	}
	if patch.Title != nil {
		customer.Title = *patch.Title
	}
	if patch.Email != nil {
		customer.Email = *patch.Email
	}
	if patch.Phone != nil {
		customer.Phone = *patch.Phone
	}
	if patch.Status != nil {
		customer.Status = *patch.Status
	}
	if patch.Tags != nil {
		customer.Tags = normalizeTags(*patch.Tags)
	}
	if patch.Note != nil {
		customer.Note = *patch.Note
	}

	merged := CustomerInput{
		Name:   customer.Name,
		Email:  customer.Email,
		Status: customer.Status,
	}
	if err := checkStruct(merged); err != nil {
		return nil, err
	}

	definitions, err := s.definitions()
	if err != nil {
		return nil, err
	}
	stored, err := s.Repo.GetCustomValues(id)
	if err != nil {
		return nil, err
	}
	custom, err := prepareCustomUpdates(definitions, patch.Custom, stored)
	if err != nil {
		return nil, err
	}

	if err := s.Repo.Update(customer, custom); err != nil {
		return nil, err
	}
	return s.Get(id)
}

// Delete removes the customer and all dependent records.
func (s *CustomerService) Delete(id int) error {
	return s.Repo.Delete(id)
}

func (s *CustomerService) definitions() (map[string]model.FieldDefinition, error) {
	list, err := s.Fields.ListDefinitions()
	if err != nil {
		return nil, err
	}
	definitions := map[string]model.FieldDefinition{}
	for _, d := range list {
		definitions[d.Key] = d
	}
	return definitions, nil
}

func (s *CustomerService) defaultSize() int {
	if s.DefaultPageSize > 0 {
		return s.DefaultPageSize
	}
	return defaultPageSize
}

func (s *CustomerService) maxSize() int {
	if s.MaxPageSize > 0 {
		return s.MaxPageSize
	}
	return maxPageSize
}
