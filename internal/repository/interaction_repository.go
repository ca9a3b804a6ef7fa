package repository

import (
	"database/sql"
	"fmt"

	appErrors "github.com/unclebandit/crmleopard-backend/internal/errors"
	"github.com/unclebandit/crmleopard-backend/internal/model"
)

type InteractionRepositoryInterface interface {
	ListByCustomer(customerID int, p ListParams) ([]model.Interaction, int, error)
	GetByID(id int) (*model.Interaction, error)
	Create(i *model.Interaction) error
	Update(i *model.Interaction) error
	Delete(id int) error
}

type InteractionRepository struct {
	DB *sql.DB
}

var interactionSortColumns = map[string]string{
	"type":        "type",
	"happened_at": "happened_at",
	"created_at":  "created_at",
}

const interactionColumns = "id, customer_id, type, summary, content, happened_at, created_at, updated_at"

func (r *InteractionRepository) ListByCustomer(customerID int, p ListParams) ([]model.Interaction, int, error) {
	where := " WHERE customer_id=$1"
	args := []interface{}{customerID}
	argPos := 2

	if p.Search != "" {
		where += fmt.Sprintf(" AND (summary ILIKE $%d OR content ILIKE $%d)", argPos, argPos)
		args = append(args, "%"+p.Search+"%")
		argPos++
	}

	query := "SELECT " + interactionColumns + " FROM interactions" + where +
		orderClause(p, interactionSortColumns) +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d", argPos, argPos+1)
	pageArgs := append(append([]interface{}{}, args...), p.PageSize, p.Offset())

	rows, err := r.DB.Query(query, pageArgs...)
	if err != nil {
		return nil, 0, appErrors.NewStorage("list interactions", err)
	}
	defer rows.Close()

	interactions := []model.Interaction{}
	for rows.Next() {
		var i model.Interaction
		if err := rows.Scan(
			&i.ID, &i.CustomerID, &i.Type, &i.Summary, &i.Content,
			&i.HappenedAt, &i.CreatedAt, &i.UpdatedAt,
		); err != nil {
			return nil, 0, appErrors.NewStorage("scan interaction", err)
		}
		interactions = append(interactions, i)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, appErrors.NewStorage("list interactions", err)
	}

	var total int
	if err := r.DB.QueryRow("SELECT COUNT(*) FROM interactions"+where, args...).Scan(&total); err != nil {
		return nil, 0, appErrors.NewStorage("count interactions", err)
	}

	return interactions, total, nil
}

func (r *InteractionRepository) GetByID(id int) (*model.Interaction, error) {
	var i model.Interaction
	err := r.DB.QueryRow("SELECT "+interactionColumns+" FROM interactions WHERE id=$1", id).Scan(
		&i.ID, &i.CustomerID, &i.Type, &i.Summary, &i.Content,
		&i.HappenedAt, &i.CreatedAt, &i.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, appErrors.NewStorage("get interaction", err)
	}
	return &i, nil
}

func (r *InteractionRepository) Create(i *model.Interaction) error {
	query := `
        INSERT INTO interactions (customer_id, type, summary, content, happened_at, created_at)
        VALUES ($1, $2, $3, $4, $5, NOW())
        RETURNING id, created_at
    `
	err := r.DB.QueryRow(query, i.CustomerID, i.Type, i.Summary, i.Content, i.HappenedAt).
		Scan(&i.ID, &i.CreatedAt)
	if err != nil {
		return appErrors.NewStorage("insert interaction", err)
	}
	return nil
}

func (r *InteractionRepository) Update(i *model.Interaction) error {
	query := `
        UPDATE interactions
        SET type=$1, summary=$2, content=$3, happened_at=$4, updated_at=NOW()
        WHERE id=$5
        RETURNING updated_at
    `
	err := r.DB.QueryRow(query, i.Type, i.Summary, i.Content, i.HappenedAt, i.ID).
		Scan(&i.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return appErrors.NewNotFound("interaction", i.ID)
		}
		return appErrors.NewStorage("update interaction", err)
	}
	return nil
}

func (r *InteractionRepository) Delete(id int) error {
	res, err := r.DB.Exec("DELETE FROM interactions WHERE id=$1", id)
	if err != nil {
		return appErrors.NewStorage("delete interaction", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return appErrors.NewStorage("delete interaction", err)
	}
	if affected == 0 {
		return appErrors.NewNotFound("interaction", id)
	}
	return nil
}

var _ InteractionRepositoryInterface = (*InteractionRepository)(nil)
