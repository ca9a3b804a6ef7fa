package repository

import (
	"database/sql"
	"encoding/json"

	appErrors "github.com/unclebandit/crmleopard-backend/internal/errors"
	"github.com/unclebandit/crmleopard-backend/internal/model"
)

type FieldRepositoryInterface interface {
	ListDefinitions() ([]model.FieldDefinition, error)
	GetByKey(key string) (*model.FieldDefinition, error)
	Create(d *model.FieldDefinition) error
}

type FieldRepository struct {
	DB *sql.DB
}

const fieldColumns = "id, key, label, type, options, required, created_at"

func (r *FieldRepository) ListDefinitions() ([]model.FieldDefinition, error) {
	rows, err := r.DB.Query("SELECT " + fieldColumns + " FROM field_definitions ORDER BY key ASC")
	if err != nil {
		return nil, appErrors.NewStorage("list field definitions", err)
	}
	defer rows.Close()

	definitions := []model.FieldDefinition{}
	for rows.Next() {
		d, err := scanField(rows)
		if err != nil {
			return nil, err
		}
		definitions = append(definitions, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, appErrors.NewStorage("list field definitions", err)
	}
	return definitions, nil
}

func (r *FieldRepository) GetByKey(key string) (*model.FieldDefinition, error) {
	row := r.DB.QueryRow("SELECT "+fieldColumns+" FROM field_definitions WHERE key=$1", key)
	d, err := scanField(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return d, nil
}

func (r *FieldRepository) Create(d *model.FieldDefinition) error {
	options, err := json.Marshal(d.Options)
	if err != nil {
		return appErrors.NewStorage("encode field options", err)
	}
	query := `
        INSERT INTO field_definitions (key, label, type, options, required, created_at)
        VALUES ($1, $2, $3, $4, $5, NOW())
        RETURNING id, created_at
    `
	err = r.DB.QueryRow(query, d.Key, d.Label, d.Type, string(options), d.Required).
		Scan(&d.ID, &d.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return appErrors.NewConflict("field definition with key '" + d.Key + "' already exists")
		}
		return appErrors.NewStorage("insert field definition", err)
	}
	return nil
}

func scanField(s rowScanner) (*model.FieldDefinition, error) {
	var d model.FieldDefinition
	var options string
	err := s.Scan(&d.ID, &d.Key, &d.Label, &d.Type, &options, &d.Required, &d.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, appErrors.NewStorage("scan field definition", err)
	}
	if options != "" {
		if err := json.Unmarshal([]byte(options), &d.Options); err != nil {
			return nil, appErrors.NewStorage("decode field options", err)
		}
	}
	return &d, nil
}

var _ FieldRepositoryInterface = (*FieldRepository)(nil)
