package service_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/unclebandit/crmleopard-backend/internal/errors"
	"github.com/unclebandit/crmleopard-backend/internal/model"
	"github.com/unclebandit/crmleopard-backend/internal/service"
)

func opportunityFixtures(t *testing.T) *service.OpportunityService {
	t.Helper()
	customers := newFakeCustomerRepo()
	_, err := newCustomerService(customers, newFakeFieldRepo()).
		Create(service.CustomerInput{Name: "Wanjiru"})
	require.NoError(t, err)

	return &service.OpportunityService{Repo: newFakeOpportunityRepo(), Customers: customers}
}

func TestCreateOpportunityDefaults(t *testing.T) {
	svc := opportunityFixtures(t)

	opportunity, err := svc.Create(1, service.OpportunityInput{
		Name:   "Annual plan",
		Amount: decimal.RequireFromString("240000.50"),
	})
	require.NoError(t, err)

	assert.Equal(t, model.OpportunityOpen, opportunity.Status)
	assert.True(t, opportunity.Amount.Equal(decimal.RequireFromString("240000.50")))
}

func TestCreateOpportunityValidation(t *testing.T) {
	svc := opportunityFixtures(t)

	_, err := svc.Create(1, service.OpportunityInput{Name: "Bad", Amount: decimal.NewFromInt(-1)})
	require.Error(t, err)
	assert.True(t, appErrors.IsValidation(err), "negative amounts are rejected")

	_, err = svc.Create(1, service.OpportunityInput{Name: "Bad", Status: "pending"})
	require.Error(t, err)
	assert.True(t, appErrors.IsValidation(err))

	_, err = svc.Create(99, service.OpportunityInput{Name: "Orphan"})
	require.Error(t, err)
	assert.True(t, appErrors.IsNotFound(err))
}

func TestUpdateOpportunityStatus(t *testing.T) {
	svc := opportunityFixtures(t)

	opportunity, err := svc.Create(1, service.OpportunityInput{Name: "Annual plan"})
	require.NoError(t, err)

	won := model.OpportunityWon
	updated, err := svc.Update(opportunity.ID, service.OpportunityPatch{Status: &won})
	require.NoError(t, err)
	assert.Equal(t, "won", updated.Status)

	negative := decimal.NewFromInt(-5)
	_, err = svc.Update(opportunity.ID, service.OpportunityPatch{Amount: &negative})
	require.Error(t, err)
	assert.True(t, appErrors.IsValidation(err))
}
