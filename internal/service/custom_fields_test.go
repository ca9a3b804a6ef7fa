package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unclebandit/crmleopard-backend/internal/model"
	"github.com/unclebandit/crmleopard-backend/internal/service"
)

func TestEncodeFieldValueText(t *testing.T) {
	def := model.FieldDefinition{Key: "industry", Type: model.FieldText}

	encoded, err := service.EncodeFieldValue(def, "Logistics")
	require.NoError(t, err)
	assert.Equal(t, "Logistics", encoded)

	_, err = service.EncodeFieldValue(def, 42)
	assert.Error(t, err)
}

func TestEncodeFieldValueBool(t *testing.T) {
	def := model.FieldDefinition{Key: "newsletter", Type: model.FieldBool}

	encoded, err := service.EncodeFieldValue(def, true)
	require.NoError(t, err)
	assert.Equal(t, "true", encoded)

	// CSV cells arrive as strings.
	encoded, err = service.EncodeFieldValue(def, "False")
	require.NoError(t, err)
	assert.Equal(t, "false", encoded)

	_, err = service.EncodeFieldValue(def, "yes")
	assert.Error(t, err)
}

func TestEncodeFieldValueMultiSelect(t *testing.T) {
	def := model.FieldDefinition{
		Key:     "regions",
		Type:    model.FieldMultiSelect,
		Options: []string{"EMEA", "APAC", "AMER"},
	}

	encoded, err := service.EncodeFieldValue(def, []string{"APAC", "EMEA", "APAC"})
	require.NoError(t, err)
	assert.Equal(t, `["APAC","EMEA"]`, encoded, "duplicates collapse, order preserved")

	encoded, err = service.EncodeFieldValue(def, "EMEA, AMER")
	require.NoError(t, err)
	assert.Equal(t, `["EMEA","AMER"]`, encoded)

	_, err = service.EncodeFieldValue(def, []string{"MOON"})
	assert.Error(t, err, "values outside the option set are rejected")
}

func TestDecodeFieldValue(t *testing.T) {
	boolDef := model.FieldDefinition{Key: "newsletter", Type: model.FieldBool}
	decoded, err := service.DecodeFieldValue(boolDef, "true")
	require.NoError(t, err)
	assert.Equal(t, true, decoded)

	multiDef := model.FieldDefinition{Key: "regions", Type: model.FieldMultiSelect}
	decoded, err = service.DecodeFieldValue(multiDef, `["EMEA","APAC"]`)
	require.NoError(t, err)
	assert.Equal(t, []string{"EMEA", "APAC"}, decoded)

	_, err = service.DecodeFieldValue(multiDef, "not json")
	assert.Error(t, err)
}
