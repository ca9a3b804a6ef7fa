package service

import (
	"regexp"

	"github.com/unclebandit/crmleopard-backend/internal/model"
	"github.com/unclebandit/crmleopard-backend/internal/repository"

	appErrors "github.com/unclebandit/crmleopard-backend/internal/errors"
)

var fieldKeyPattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// FieldService manages custom field definitions.
type FieldService struct {
	Repo repository.FieldRepositoryInterface
}

type FieldInput struct {
	Key      string   `json:"key" validate:"required"`
	Label    string   `json:"label"`
	Type     string   `json:"type" validate:"required,oneof=text bool multi_select"`
	Options  []string `json:"options"`
	Required bool     `json:"required"`
}

func (s *FieldService) List() ([]model.FieldDefinition, error) {
	return s.Repo.ListDefinitions()
}

func (s *FieldService) Create(in FieldInput) (*model.FieldDefinition, error) {
	if err := checkStruct(in); err != nil {
		return nil, err
	}
	if !fieldKeyPattern.MatchString(in.Key) {
		return nil, appErrors.NewValidation("key", "must match pattern [A-Za-z0-9_]")
	}
	if in.Type == model.FieldMultiSelect && len(in.Options) == 0 {
		return nil, appErrors.NewValidation("options", "multi_select fields need at least one option")
	}
	if in.Label == "" {
		in.Label = in.Key
	}

	definition := &model.FieldDefinition{
		Key:      in.Key,
		Label:    in.Label,
		Type:     in.Type,
		Options:  in.Options,
		Required: in.Required,
	}
	if err := s.Repo.Create(definition); err != nil {
		return nil, err
	}
	return definition, nil
}
