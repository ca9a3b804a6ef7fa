package service

import (
	"time"

	appErrors "github.com/unclebandit/crmleopard-backend/internal/errors"
	"github.com/unclebandit/crmleopard-backend/internal/model"
	"github.com/unclebandit/crmleopard-backend/internal/repository"
)

type InteractionService struct {
	Repo      repository.InteractionRepositoryInterface
	Customers repository.CustomerRepositoryInterface
}

type InteractionInput struct {
	Type       string    `json:"type" validate:"required,oneof=call meeting email note other"`
	Summary    string    `json:"summary"`
	Content    string    `json:"content"`
	HappenedAt time.Time `json:"happened_at"`
}

type InteractionPatch struct {
	Type       *string    `json:"type"`
	Summary    *string    `json:"summary"`
	Content    *string    `json:"content"`
	HappenedAt *time.Time `json:"happened_at"`
}

// ListByCustomer returns one page of a customer's interactions.
func (s *InteractionService) ListByCustomer(customerID int, p repository.ListParams) ([]model.Interaction, map[string]int, error) {
	if err := ensureCustomer(s.Customers, customerID); err != nil {
		return nil, nil, err
	}
	p.Clamp(defaultPageSize, maxPageSize)

	interactions, total, err := s.Repo.ListByCustomer(customerID, p)
	if err != nil {
		return nil, nil, err
	}
	return interactions, paginationBlock(p, total), nil
}

func (s *InteractionService) Get(id int) (*model.Interaction, error) {
	interaction, err := s.Repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if interaction == nil {
		return nil, appErrors.NewNotFound("interaction", id)
	}
	return interaction, nil
}

// Create logs an interaction for the customer. The parent must exist.
func (s *InteractionService) Create(customerID int, in InteractionInput) (*model.Interaction, error) {
	if err := ensureCustomer(s.Customers, customerID); err != nil {
		return nil, err
	}
	if err := checkStruct(in); err != nil {
		return nil, err
	}
	if in.HappenedAt.IsZero() {
		in.HappenedAt = time.Now().UTC()
	}

	interaction := &model.Interaction{
		CustomerID: customerID,
		Type:       in.Type,
		Summary:    in.Summary,
		Content:    in.Content,
		HappenedAt: in.HappenedAt,
	}
	if err := s.Repo.Create(interaction); err != nil {
		return nil, err
	}
	return interaction, nil
}

// Update merges the supplied fields and re-validates the result.
func (s *InteractionService) Update(id int, patch InteractionPatch) (*model.Interaction, error) {
	interaction, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if patch.Type != nil {
		interaction.Type = *patch.Type
	}
	if patch.Summary != nil {
		interaction.Summary = *patch.Summary
	}
	if patch.Content != nil {
		interaction.Content = *patch.Content
	}
	if patch.HappenedAt != nil {
		interaction.HappenedAt = *patch.HappenedAt
	}

	if !model.ValidInteractionType(interaction.Type) {
		return nil, appErrors.NewValidation("type", "must be one of: call meeting email note other")
	}

	if err := s.Repo.Update(interaction); err != nil {
		return nil, err
	}
	return interaction, nil
}

func (s *InteractionService) Delete(id int) error {
	return s.Repo.Delete(id)
}

// paginationBlock builds the envelope returned next to every list.
func paginationBlock(p repository.ListParams, total int) map[string]int {
	totalPages := (total + p.PageSize - 1) / p.PageSize
	return map[string]int{
		"page":        p.Page,
		"page_size":   p.PageSize,
		"total_count": total,
		"total_pages": totalPages,
	}
}
