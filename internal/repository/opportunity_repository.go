package repository

import (
	"database/sql"
	"fmt"

	appErrors "github.com/unclebandit/crmleopard-backend/internal/errors"
	"github.com/unclebandit/crmleopard-backend/internal/model"
)

type OpportunityRepositoryInterface interface {
	ListByCustomer(customerID int, p ListParams) ([]model.Opportunity, int, error)
	GetByID(id int) (*model.Opportunity, error)
	Create(o *model.Opportunity) error
	Update(o *model.Opportunity) error
	Delete(id int) error
}

type OpportunityRepository struct {
	DB *sql.DB
}

var opportunitySortColumns = map[string]string{
	"name":       "name",
	"status":     "status",
	"amount":     "amount",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

const opportunityColumns = "id, customer_id, name, status, amount, created_at, updated_at"

func (r *OpportunityRepository) ListByCustomer(customerID int, p ListParams) ([]model.Opportunity, int, error) {
	where := " WHERE customer_id=$1"
	args := []interface{}{customerID}
	argPos := 2

	if p.Status != "" {
		where += fmt.Sprintf(" AND status=$%d", argPos)
		args = append(args, p.Status)
		argPos++
	}

	query := "SELECT " + opportunityColumns + " FROM opportunities" + where +
		orderClause(p, opportunitySortColumns) +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d", argPos, argPos+1)
	pageArgs := append(append([]interface{}{}, args...), p.PageSize, p.Offset())

	rows, err := r.DB.Query(query, pageArgs...)
	if err != nil {
		return nil, 0, appErrors.NewStorage("list opportunities", err)
	}
	defer rows.Close()

	opportunities := []model.Opportunity{}
	for rows.Next() {
		var o model.Opportunity
		if err := rows.Scan(
			&o.ID, &o.CustomerID, &o.Name, &o.Status, &o.Amount, &o.CreatedAt, &o.UpdatedAt,
		); err != nil {
			return nil, 0, appErrors.NewStorage("scan opportunity", err)
		}
		opportunities = append(opportunities, o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, appErrors.NewStorage("list opportunities", err)
	}

	var total int
	if err := r.DB.QueryRow("SELECT COUNT(*) FROM opportunities"+where, args...).Scan(&total); err != nil {
		return nil, 0, appErrors.NewStorage("count opportunities", err)
	}

	return opportunities, total, nil
}

func (r *OpportunityRepository) GetByID(id int) (*model.Opportunity, error) {
	var o model.Opportunity
	err := r.DB.QueryRow("SELECT "+opportunityColumns+" FROM opportunities WHERE id=$1", id).Scan(
		&o.ID, &o.CustomerID, &o.Name, &o.Status, &o.Amount, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, appErrors.NewStorage("get opportunity", err)
	}
	return &o, nil
}

func (r *OpportunityRepository) Create(o *model.Opportunity) error {
	query := `
        INSERT INTO opportunities (customer_id, name, status, amount, created_at)
        VALUES ($1, $2, $3, $4, NOW())
        RETURNING id, created_at
    `
	err := r.DB.QueryRow(query, o.CustomerID, o.Name, o.Status, o.Amount).
		Scan(&o.ID, &o.CreatedAt)
	if err != nil {
		return appErrors.NewStorage("insert opportunity", err)
	}
	return nil
}

func (r *OpportunityRepository) Update(o *model.Opportunity) error {
	query := `
        UPDATE opportunities
        SET name=$1, status=$2, amount=$3, updated_at=NOW()
        WHERE id=$4
        RETURNING updated_at
    `
	err := r.DB.QueryRow(query, o.Name, o.Status, o.Amount, o.ID).Scan(&o.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return appErrors.NewNotFound("opportunity", o.ID)
		}
		return appErrors.NewStorage("update opportunity", err)
	}
	return nil
}

func (r *OpportunityRepository) Delete(id int) error {
	res, err := r.DB.Exec("DELETE FROM opportunities WHERE id=$1", id)
	if err != nil {
		return appErrors.NewStorage("delete opportunity", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return appErrors.NewStorage("delete opportunity", err)
	}
	if affected == 0 {
		return appErrors.NewNotFound("opportunity", id)
	}
	return nil
}

var _ OpportunityRepositoryInterface = (*OpportunityRepository)(nil)
