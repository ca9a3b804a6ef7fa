package service

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	appErrors "github.com/unclebandit/crmleopard-backend/internal/errors"
	"github.com/unclebandit/crmleopard-backend/internal/repository"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// checkStruct runs validator tags over the payload and converts the first
// failure into a field-level ValidationError.
func checkStruct(payload any) error {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			return appErrors.NewValidation(field, "is required")
		case "oneof":
			return appErrors.NewValidation(field, "must be one of: "+fe.Param())
		case "email":
			return appErrors.NewValidation(field, "must be a valid email address")
		default:
			return appErrors.NewValidation(field, "is invalid")
		}
	}
	return appErrors.NewValidation("", err.Error())
}

// normalizeTags trims, drops empties and deduplicates, keeping the first
// occurrence of each tag in the caller's order.
func normalizeTags(tags []string) []string {
	seen := map[string]bool{}
	cleaned := []string{}
	for _, tag := range tags {
		t := strings.TrimSpace(tag)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		cleaned = append(cleaned, t)
	}
	return cleaned
}

// ensureCustomer fails with NotFound when the parent customer id does not
// reference a live row. Every child write goes through this check first.
func ensureCustomer(repo repository.CustomerRepositoryInterface, id int) error {
	exists, err := repo.Exists(id)
	if err != nil {
		return err
	}
	if !exists {
		return appErrors.NewNotFound("customer", id)
	}
	return nil
}
