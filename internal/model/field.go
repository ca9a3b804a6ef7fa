package model

import "time"

// Custom field value types.
const (
	FieldText        = "text"
	FieldBool        = "bool"
	FieldMultiSelect = "multi_select"
)

// FieldTypes lists the accepted values for FieldDefinition.Type.
var FieldTypes = []string{FieldText, FieldBool, FieldMultiSelect}

// FieldDefinition declares a custom customer field: its key, display label,
// value type and, for multi_select, the permitted options. Values themselves
// are stored per customer as encoded strings (multi_select as a JSON array).
type FieldDefinition struct {
	ID        int       `db:"id" json:"id"`
	Key       string    `db:"key" json:"key"`
	Label     string    `db:"label" json:"label"`
	Type      string    `db:"type" json:"type"`
	Options   []string  `db:"options" json:"options,omitempty"`
	Required  bool      `db:"required" json:"required"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ValidFieldType reports whether s is a known custom field type.
func ValidFieldType(s string) bool {
	for _, v := range FieldTypes {
		if v == s {
			return true
		}
	}
	return false
}
