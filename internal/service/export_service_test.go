package service_test

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unclebandit/crmleopard-backend/internal/model"
	"github.com/unclebandit/crmleopard-backend/internal/repository"
	"github.com/unclebandit/crmleopard-backend/internal/service"
)

func TestExportCustomers(t *testing.T) {
	repo := newFakeCustomerRepo()
	fields := newFakeFieldRepo(
		model.FieldDefinition{Key: "regions", Label: "Regions", Type: model.FieldMultiSelect, Options: []string{"EMEA", "APAC"}},
		model.FieldDefinition{Key: "newsletter", Label: "Newsletter", Type: model.FieldBool},
	)

	regions := `["EMEA","APAC"]`
	require.NoError(t, repo.Create(&model.Customer{
		Name:    `Savannah "HQ", Ltd`,
		Company: "Savannah Logistics",
		Email:   "hq@savannah.example",
		Status:  "active",
		Tags:    []string{"vip", "logistics"},
		Note:    "line one\nline two",
	}, map[string]*string{"regions": &regions}))
	require.NoError(t, repo.Create(&model.Customer{
		Name:   "Otieno",
		Status: "lead",
	}, nil))

	svc := &service.ExportService{Customers: repo, Fields: fields}

	var buf bytes.Buffer
	require.NoError(t, svc.Export(repository.ListParams{}, &buf))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err, "output must round-trip through a CSV reader")
	require.Len(t, records, 3)

	header := records[0]
	assert.Equal(t, []string{
		"id", "name", "company", "title", "email", "phone", "status", "tags", "note",
		"created_at", "updated_at", "custom.newsletter", "custom.regions",
	}, header)

	first := records[1]
	assert.Equal(t, `Savannah "HQ", Ltd`, first[1], "quotes and commas survive the round trip")
	assert.Equal(t, "vip,logistics", first[7])
	assert.Equal(t, "line one\nline two", first[8])
	assert.Equal(t, "", first[11], "unset custom fields export as empty cells")
	assert.Equal(t, "EMEA,APAC", first[12])

	second := records[2]
	assert.Equal(t, "Otieno", second[1])
	assert.Equal(t, "lead", second[6])
}

func TestExportHonorsFilters(t *testing.T) {
	repo := newFakeCustomerRepo()
	svc := &service.ExportService{Customers: repo, Fields: newFakeFieldRepo()}

	require.NoError(t, repo.Create(&model.Customer{Name: "Amina", Status: "active"}, nil))
	require.NoError(t, repo.Create(&model.Customer{Name: "Brian", Status: "lead"}, nil))
	require.NoError(t, repo.Create(&model.Customer{Name: "Carol", Status: "lead"}, nil))

	var buf bytes.Buffer
	require.NoError(t, svc.Export(repository.ListParams{Status: "lead"}, &buf))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 3, "header plus every matching row, not one page")
}
