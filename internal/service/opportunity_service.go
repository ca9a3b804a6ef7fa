package service

import (
	"github.com/shopspring/decimal"

	appErrors "github.com/unclebandit/crmleopard-backend/internal/errors"
	"github.com/unclebandit/crmleopard-backend/internal/model"
	"github.com/unclebandit/crmleopard-backend/internal/repository"
)

type OpportunityService struct {
	Repo      repository.OpportunityRepositoryInterface
	Customers repository.CustomerRepositoryInterface
}

type OpportunityInput struct {
	Name   string          `json:"name" validate:"required"`
	Status string          `json:"status" validate:"omitempty,oneof=open won lost"`
	Amount decimal.Decimal `json:"amount"`
}

type OpportunityPatch struct {
	Name   *string          `json:"name"`
	Status *string          `json:"status"`
	Amount *decimal.Decimal `json:"amount"`
}

func (s *OpportunityService) ListByCustomer(customerID int, p repository.ListParams) ([]model.Opportunity, map[string]int, error) {
	if err := ensureCustomer(s.Customers, customerID); err != nil {
		return nil, nil, err
	}
	p.Clamp(defaultPageSize, maxPageSize)

	opportunities, total, err := s.Repo.ListByCustomer(customerID, p)
	if err != nil {
		return nil, nil, err
	}
	return opportunities, paginationBlock(p, total), nil
}

func (s *OpportunityService) Get(id int) (*model.Opportunity, error) {
	opportunity, err := s.Repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if opportunity == nil {
		return nil, appErrors.NewNotFound("opportunity", id)
	}
	return opportunity, nil
}

func (s *OpportunityService) Create(customerID int, in OpportunityInput) (*model.Opportunity, error) {
	if err := ensureCustomer(s.Customers, customerID); err != nil {
		return nil, err
	}
	if err := checkStruct(in); err != nil {
		return nil, err
	}
	if in.Amount.IsNegative() {
		return nil, appErrors.NewValidation("amount", "must not be negative")
	}
	if in.Status == "" {
		in.Status = model.OpportunityOpen
	}

	opportunity := &model.Opportunity{
		CustomerID: customerID,
		Name:       in.Name,
		Status:     in.Status,
		Amount:     in.Amount,
	}
	if err := s.Repo.Create(opportunity); err != nil {
		return nil, err
	}
	return opportunity, nil
}

func (s *OpportunityService) Update(id int, patch OpportunityPatch) (*model.Opportunity, error) {
	opportunity, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		opportunity.Name = *patch.Name
	}
	if patch.Status != nil {
		opportunity.Status = *patch.Status
	}
	if patch.Amount != nil {
		opportunity.Amount = *patch.Amount
	}

	if opportunity.Name == "" {
		return nil, appErrors.NewValidation("name", "is required")
	}
	if !model.ValidOpportunityStatus(opportunity.Status) {
		return nil, appErrors.NewValidation("status", "must be one of: open won lost")
	}
	if opportunity.Amount.IsNegative() {
		return nil, appErrors.NewValidation("amount", "must not be negative")
	}

	if err := s.Repo.Update(opportunity); err != nil {
		return nil, err
	}
	return opportunity, nil
}

func (s *OpportunityService) Delete(id int) error {
	return s.Repo.Delete(id)
}
