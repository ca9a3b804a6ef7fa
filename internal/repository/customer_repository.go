package repository

import (
	"database/sql"
	"fmt"

	appErrors "github.com/unclebandit/crmleopard-backend/internal/errors"
	"github.com/unclebandit/crmleopard-backend/internal/model"
)

// CustomerRepositoryInterface defines the persistence operations used by the
// customer service, importer, exporter and analytics.
type CustomerRepositoryInterface interface {
	List(p ListParams) ([]model.Customer, int, error)
	ListAll(p ListParams) ([]model.Customer, error)
	GetByID(id int) (*model.Customer, error)
	Exists(id int) (bool, error)
	FindByEmail(email string) (*model.Customer, error)
	FindByPhone(phone string) (*model.Customer, error)
	Create(c *model.Customer, custom map[string]*string) error
	Update(c *model.Customer, custom map[string]*string) error
	Delete(id int) error
	GetCustomValues(customerID int) (map[string]string, error)
}

// CustomerRepository is the Postgres implementation.
type CustomerRepository struct {
	DB *sql.DB
}

var customerSortColumns = map[string]string{
	"name":       "name",
	"email":      "email",
	"company":    "company",
	"status":     "status",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

const customerColumns = "id, name, company, title, email, phone, status, tags, note, created_at, updated_at"

// customerFilter builds the WHERE clause shared by List, ListAll and the
// count query. Search is a case-insensitive substring match ORed across
// name/email/phone/company; status, tag and company are exact matches ANDed
// with it. Tag matching is membership in the stored comma-joined set, not a
// substring scan.
func customerFilter(p ListParams) (string, []interface{}) {
	where := " WHERE 1=1"
	args := []interface{}{}
	argPos := 1

	if p.Search != "" {
		where += fmt.Sprintf(
			" AND (name ILIKE $%d OR email ILIKE $%d OR phone ILIKE $%d OR company ILIKE $%d)",
			argPos, argPos, argPos, argPos,
		)
		args = append(args, "%"+p.Search+"%")
		argPos++
	}
	if p.Status != "" {
		where += fmt.Sprintf(" AND status=$%d", argPos)
		args = append(args, p.Status)
		argPos++
	}
	if p.Tag != "" {
		where += fmt.Sprintf(" AND $%d = ANY(string_to_array(tags, ','))", argPos)
		args = append(args, p.Tag)
		argPos++
	}
	if p.Company != "" {
		where += fmt.Sprintf(" AND LOWER(company)=LOWER($%d)", argPos)
		args = append(args, p.Company)
		argPos++
	}

	return where, args
}

// List returns one page of matching customers plus the total match count.
func (r *CustomerRepository) List(p ListParams) ([]model.Customer, int, error) {
	where, args := customerFilter(p)

	query := "SELECT " + customerColumns + " FROM customers" + where +
		orderClause(p, customerSortColumns) +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	pageArgs := append(append([]interface{}{}, args...), p.PageSize, p.Offset())

	rows, err := r.DB.Query(query, pageArgs...)
	if err != nil {
		return nil, 0, appErrors.NewStorage("list customers", err)
	}
	defer rows.Close()

	customers, err := scanCustomers(rows)
	if err != nil {
		return nil, 0, appErrors.NewStorage("scan customers", err)
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM customers" + where
	if err := r.DB.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return nil, 0, appErrors.NewStorage("count customers", err)
	}

	return customers, total, nil
}

// ListAll returns every matching customer, unpaginated. Used by the CSV
// export, which streams the whole filtered set rather than one page.
func (r *CustomerRepository) ListAll(p ListParams) ([]model.Customer, error) {
	where, args := customerFilter(p)
	query := "SELECT " + customerColumns + " FROM customers" + where +
		orderClause(p, customerSortColumns)

	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, appErrors.NewStorage("list customers", err)
	}
	defer rows.Close()

	customers, err := scanCustomers(rows)
	if err != nil {
		return nil, appErrors.NewStorage("scan customers", err)
	}
	return customers, nil
}

// GetByID fetches a customer or returns (nil, nil) when it does not exist.
func (r *CustomerRepository) GetByID(id int) (*model.Customer, error) {
	row := r.DB.QueryRow("SELECT "+customerColumns+" FROM customers WHERE id=$1", id)
	return scanCustomerRow(row)
}

// Exists reports whether the customer id references a live row.
func (r *CustomerRepository) Exists(id int) (bool, error) {
	var count int
	err := r.DB.QueryRow("SELECT COUNT(*) FROM customers WHERE id=$1", id).Scan(&count)
	if err != nil {
		return false, appErrors.NewStorage("customer exists", err)
	}
	return count > 0, nil
}

// FindByEmail fetches by the import natural key, (nil, nil) when absent.
func (r *CustomerRepository) FindByEmail(email string) (*model.Customer, error) {
	row := r.DB.QueryRow("SELECT "+customerColumns+" FROM customers WHERE email=$1", email)
	return scanCustomerRow(row)
}

// FindByPhone fetches by the fallback natural key, (nil, nil) when absent.
func (r *CustomerRepository) FindByPhone(phone string) (*model.Customer, error) {
	row := r.DB.QueryRow("SELECT "+customerColumns+" FROM customers WHERE phone=$1", phone)
	return scanCustomerRow(row)
}

// Create inserts the customer and its custom field values in one
// transaction, filling in the assigned id and timestamps.
func (r *CustomerRepository) Create(c *model.Customer, custom map[string]*string) error {
	tx, err := r.DB.Begin()
	if err != nil {
		return appErrors.NewStorage("begin create customer", err)
	}
	defer tx.Rollback()

	query := `
        INSERT INTO customers (name, company, title, email, phone, status, tags, note, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
        RETURNING id, created_at, updated_at
    `
	err = tx.QueryRow(query,
		c.Name, c.Company, c.Title, nullable(c.Email), nullable(c.Phone),
		c.Status, joinTags(c.Tags), c.Note,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return appErrors.NewConflict("customer with the same email or phone already exists")
		}
		return appErrors.NewStorage("insert customer", err)
	}

	if err := applyCustomValues(tx, c.ID, custom); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return appErrors.NewStorage("commit create customer", err)
	}
	return nil
}

// Update writes the full merged row and the supplied custom value changes in
// one transaction, refreshing updated_at.
func (r *CustomerRepository) Update(c *model.Customer, custom map[string]*string) error {
	tx, err := r.DB.Begin()
	if err != nil {
		return appErrors.NewStorage("begin update customer", err)
	}
	defer tx.Rollback()

	query := `
        UPDATE customers
        SET name=$1, company=$2, title=$3, email=$4, phone=$5, status=$6, tags=$7, note=$8, updated_at=NOW()
        WHERE id=$9
        RETURNING updated_at
    `
	err = tx.QueryRow(query,
		c.Name, c.Company, c.Title, nullable(c.Email), nullable(c.Phone),
		c.Status, joinTags(c.Tags), c.Note, c.ID,
	).Scan(&c.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return appErrors.NewNotFound("customer", c.ID)
		}
		if isUniqueViolation(err) {
			return appErrors.NewConflict("customer with the same email or phone already exists")
		}
		return appErrors.NewStorage("update customer", err)
	}

	if err := applyCustomValues(tx, c.ID, custom); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return appErrors.NewStorage("commit update customer", err)
	}
	return nil
}

// Delete removes the customer and every dependent row in one transaction so
// no partial cascade is ever observable.
func (r *CustomerRepository) Delete(id int) error {
	tx, err := r.DB.Begin()
	if err != nil {
		return appErrors.NewStorage("begin delete customer", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"interactions", "opportunities", "tasks", "customer_field_values"} {
		if _, err := tx.Exec("DELETE FROM "+table+" WHERE customer_id=$1", id); err != nil {
			return appErrors.NewStorage("delete "+table, err)
		}
	}

	res, err := tx.Exec("DELETE FROM customers WHERE id=$1", id)
	if err != nil {
		return appErrors.NewStorage("delete customer", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return appErrors.NewStorage("delete customer", err)
	}
	if affected == 0 {
		return appErrors.NewNotFound("customer", id)
	}

	if err := tx.Commit(); err != nil {
		return appErrors.NewStorage("commit delete customer", err)
	}
	return nil
}

// GetCustomValues returns the stored custom field values keyed by field key.
func (r *CustomerRepository) GetCustomValues(customerID int) (map[string]string, error) {
	rows, err := r.DB.Query(
		"SELECT field_key, value FROM customer_field_values WHERE customer_id=$1", customerID,
	)
	if err != nil {
		return nil, appErrors.NewStorage("get custom values", err)
	}
	defer rows.Close()

	values := map[string]string{}
	for rows.Next() {
		var key string
		var value sql.NullString
		if err := rows.Scan(&key, &value); err != nil {
			return nil, appErrors.NewStorage("scan custom values", err)
		}
		if value.Valid {
			values[key] = value.String
		}
	}
	if err := rows.Err(); err != nil {
		return nil, appErrors.NewStorage("read custom values", err)
	}
	return values, nil
}

// applyCustomValues upserts the supplied custom values inside tx. A nil
// value clears the field.
func applyCustomValues(tx *sql.Tx, customerID int, custom map[string]*string) error {
	for key, value := range custom {
		if value == nil {
			_, err := tx.Exec(
				"DELETE FROM customer_field_values WHERE customer_id=$1 AND field_key=$2",
				customerID, key,
			)
			if err != nil {
				return appErrors.NewStorage("clear custom value", err)
			}
			continue
		}
		_, err := tx.Exec(`
            INSERT INTO customer_field_values (customer_id, field_key, value)
            VALUES ($1, $2, $3)
            ON CONFLICT (customer_id, field_key) DO UPDATE SET value=EXCLUDED.value
        `, customerID, key, *value)
		if err != nil {
			return appErrors.NewStorage("set custom value", err)
		}
	}
	return nil
}

func scanCustomers(rows *sql.Rows) ([]model.Customer, error) {
	customers := []model.Customer{}
	for rows.Next() {
		c, err := scanCustomerFields(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, appErrors.NewStorage("read customer rows", err)
	}
	return customers, nil
}

func scanCustomerRow(row *sql.Row) (*model.Customer, error) {
	c, err := scanCustomerFields(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, appErrors.NewStorage("get customer", err)
	}
	return c, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCustomerFields(s rowScanner) (*model.Customer, error) {
	var c model.Customer
	var email, phone sql.NullString
	var tags string
	err := s.Scan(
		&c.ID, &c.Name, &c.Company, &c.Title, &email, &phone,
		&c.Status, &tags, &c.Note, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.Email = email.String
	c.Phone = phone.String
	c.Tags = splitTags(tags)
	return &c, nil
}

// nullable maps "" to NULL so the partial unique indexes on email/phone skip
// customers that have no value.
func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

var _ CustomerRepositoryInterface = (*CustomerRepository)(nil)
