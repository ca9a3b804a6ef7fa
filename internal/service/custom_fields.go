package service

import (
	"encoding/json"
	"fmt"
	"strings"

	appErrors "github.com/unclebandit/crmleopard-backend/internal/errors"
	"github.com/unclebandit/crmleopard-backend/internal/model"
)

// EncodeFieldValue validates a raw custom field value against its definition
// and serializes it to the stored string form. multi_select is stored as a
// JSON array; bool as "true"/"false".
func EncodeFieldValue(def model.FieldDefinition, value any) (string, error) {
	switch def.Type {
	case model.FieldText:
		s, ok := value.(string)
		if !ok {
			return "", appErrors.NewValidation(def.Key, "text fields require string values")
		}
		return s, nil

	case model.FieldBool:
		switch v := value.(type) {
		case bool:
			if v {
				return "true", nil
			}
			return "false", nil
		case string:
			lowered := strings.ToLower(strings.TrimSpace(v))
			if lowered == "true" || lowered == "false" {
				return lowered, nil
			}
		}
		return "", appErrors.NewValidation(def.Key, "boolean fields accept true/false")

	case model.FieldMultiSelect:
		items, err := stringList(value)
		if err != nil {
			return "", appErrors.NewValidation(def.Key, err.Error())
		}
		options := map[string]bool{}
		for _, opt := range def.Options {
			options[opt] = true
		}
		validated := []string{}
		seen := map[string]bool{}
		for _, item := range items {
			if !options[item] {
				return "", appErrors.NewValidation(def.Key, "value must be one of the available options")
			}
			if seen[item] {
				continue
			}
			seen[item] = true
			validated = append(validated, item)
		}
		encoded, err := json.Marshal(validated)
		if err != nil {
			return "", appErrors.NewValidation(def.Key, "could not encode multi select value")
		}
		return string(encoded), nil
	}

	return "", appErrors.NewValidation(def.Key, fmt.Sprintf("unsupported field type %q", def.Type))
}

// DecodeFieldValue converts a stored string back into its API shape.
func DecodeFieldValue(def model.FieldDefinition, stored string) (any, error) {
	switch def.Type {
	case model.FieldText:
		return stored, nil
	case model.FieldBool:
		return stored == "true", nil
	case model.FieldMultiSelect:
		var items []string
		if err := json.Unmarshal([]byte(stored), &items); err != nil {
			return nil, fmt.Errorf("stored multi select value for %q is corrupt: %w", def.Key, err)
		}
		return items, nil
	}
	return nil, fmt.Errorf("unsupported field type %q", def.Type)
}

// prepareCustomUpdates validates an incoming custom payload against the
// known definitions and returns the encoded updates. A nil entry clears the
// field. Required fields must still hold a value after merging with what the
// customer already has stored.
func prepareCustomUpdates(
	definitions map[string]model.FieldDefinition,
	payload map[string]any,
	existing map[string]string,
) (map[string]*string, error) {
	updates := map[string]*string{}

	for key, raw := range payload {
		def, ok := definitions[key]
		if !ok {
			return nil, appErrors.NewValidation(key, "unknown custom field")
		}
		if raw == nil {
			updates[key] = nil
			continue
		}
		encoded, err := EncodeFieldValue(def, raw)
		if err != nil {
			return nil, err
		}
		updates[key] = &encoded
	}

	merged := map[string]bool{}
	for key := range existing {
		merged[key] = true
	}
	for key, value := range updates {
		merged[key] = value != nil
	}
	for key, def := range definitions {
		if def.Required && !merged[key] {
			return nil, appErrors.NewValidation(key, "is required")
		}
	}

	return updates, nil
}

// decodeCustomValues turns stored values into the API map, skipping entries
// whose definition has disappeared.
func decodeCustomValues(
	definitions map[string]model.FieldDefinition,
	stored map[string]string,
) (map[string]any, error) {
	if len(stored) == 0 {
		return nil, nil
	}
	decoded := map[string]any{}
	for key, value := range stored {
		def, ok := definitions[key]
		if !ok {
			continue
		}
		v, err := DecodeFieldValue(def, value)
		if err != nil {
			return nil, err
		}
		decoded[key] = v
	}
	return decoded, nil
}

func stringList(value any) ([]string, error) {
	switch v := value.(type) {
	case []string:
		return v, nil
	case []any:
		items := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("multi select values must be strings")
			}
			items = append(items, s)
		}
		return items, nil
	case string:
		// comma separated form, as produced by CSV import columns
		items := []string{}
		for _, part := range strings.Split(v, ",") {
			if p := strings.TrimSpace(part); p != "" {
				items = append(items, p)
			}
		}
		return items, nil
	}
	return nil, fmt.Errorf("multi select values must be a list")
}
