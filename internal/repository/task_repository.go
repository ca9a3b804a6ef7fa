package repository

import (
	"database/sql"
	"fmt"

	appErrors "github.com/unclebandit/crmleopard-backend/internal/errors"
	"github.com/unclebandit/crmleopard-backend/internal/model"
)

type TaskRepositoryInterface interface {
	ListByCustomer(customerID int, p ListParams) ([]model.Task, int, error)
	GetByID(id int) (*model.Task, error)
	Create(t *model.Task) error
	Update(t *model.Task) error
	Delete(id int) error
	ListPendingSync(limit int) ([]model.Task, error)
	MarkSynced(id int, eventID string) error
}

type TaskRepository struct {
	DB *sql.DB
}

var taskSortColumns = map[string]string{
	"remind_at":  "remind_at",
	"done":       "done",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

const taskColumns = "id, customer_id, remind_at, content, done, sync_enabled, sync_event_id, created_at, updated_at"

func (r *TaskRepository) ListByCustomer(customerID int, p ListParams) ([]model.Task, int, error) {
	where := " WHERE customer_id=$1"
	args := []interface{}{customerID}
	argPos := 2

	if p.Search != "" {
		where += fmt.Sprintf(" AND content ILIKE $%d", argPos)
		args = append(args, "%"+p.Search+"%")
		argPos++
	}

	query := "SELECT " + taskColumns + " FROM tasks" + where +
		orderClause(p, taskSortColumns) +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d", argPos, argPos+1)
	pageArgs := append(append([]interface{}{}, args...), p.PageSize, p.Offset())

	rows, err := r.DB.Query(query, pageArgs...)
	if err != nil {
		return nil, 0, appErrors.NewStorage("list tasks", err)
	}
	defer rows.Close()

	tasks, err := scanTasks(rows)
	if err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.DB.QueryRow("SELECT COUNT(*) FROM tasks"+where, args...).Scan(&total); err != nil {
		return nil, 0, appErrors.NewStorage("count tasks", err)
	}

	return tasks, total, nil
}

func (r *TaskRepository) GetByID(id int) (*model.Task, error) {
	var t model.Task
	var eventID sql.NullString
	err := r.DB.QueryRow("SELECT "+taskColumns+" FROM tasks WHERE id=$1", id).Scan(
		&t.ID, &t.CustomerID, &t.RemindAt, &t.Content, &t.Done,
		&t.SyncEnabled, &eventID, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, appErrors.NewStorage("get task", err)
	}
	t.SyncEventID = eventID.String
	return &t, nil
}

func (r *TaskRepository) Create(t *model.Task) error {
	query := `
        INSERT INTO tasks (customer_id, remind_at, content, done, sync_enabled, created_at)
        VALUES ($1, $2, $3, $4, $5, NOW())
        RETURNING id, created_at
    `
	err := r.DB.QueryRow(query, t.CustomerID, t.RemindAt, t.Content, t.Done, t.SyncEnabled).
		Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return appErrors.NewStorage("insert task", err)
	}
	return nil
}

func (r *TaskRepository) Update(t *model.Task) error {
	query := `
        UPDATE tasks
        SET remind_at=$1, content=$2, done=$3, sync_enabled=$4, updated_at=NOW()
        WHERE id=$5
        RETURNING updated_at
    `
	err := r.DB.QueryRow(query, t.RemindAt, t.Content, t.Done, t.SyncEnabled, t.ID).
		Scan(&t.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return appErrors.NewNotFound("task", t.ID)
		}
		return appErrors.NewStorage("update task", err)
	}
	return nil
}

func (r *TaskRepository) Delete(id int) error {
	res, err := r.DB.Exec("DELETE FROM tasks WHERE id=$1", id)
	if err != nil {
		return appErrors.NewStorage("delete task", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return appErrors.NewStorage("delete task", err)
	}
	if affected == 0 {
		return appErrors.NewNotFound("task", id)
	}
	return nil
}

// ListPendingSync returns tasks flagged for external sync that have no
// remote event yet. The worker drains these.
func (r *TaskRepository) ListPendingSync(limit int) ([]model.Task, error) {
	query := "SELECT " + taskColumns + ` FROM tasks
        WHERE sync_enabled = TRUE AND sync_event_id IS NULL AND done = FALSE
        ORDER BY remind_at ASC LIMIT $1`
	rows, err := r.DB.Query(query, limit)
	if err != nil {
		return nil, appErrors.NewStorage("list pending sync", err)
	}
	defer rows.Close()
	return scanTasks(rows)
}

// MarkSynced records the remote event id after a successful sync.
func (r *TaskRepository) MarkSynced(id int, eventID string) error {
	res, err := r.DB.Exec(
		"UPDATE tasks SET sync_event_id=$1, updated_at=NOW() WHERE id=$2", eventID, id,
	)
	if err != nil {
		return appErrors.NewStorage("mark synced", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return appErrors.NewStorage("mark synced", err)
	}
	if affected == 0 {
		return appErrors.NewNotFound("task", id)
	}
	return nil
}

func scanTasks(rows *sql.Rows) ([]model.Task, error) {
	tasks := []model.Task{}
	for rows.Next() {
		var t model.Task
		var eventID sql.NullString
		if err := rows.Scan(
			&t.ID, &t.CustomerID, &t.RemindAt, &t.Content, &t.Done,
			&t.SyncEnabled, &eventID, &t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, appErrors.NewStorage("scan task", err)
		}
		t.SyncEventID = eventID.String
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, appErrors.NewStorage("list tasks", err)
	}
	return tasks, nil
}

var _ TaskRepositoryInterface = (*TaskRepository)(nil)
