package model

import "time"

// Task is a follow-up reminder tied to a customer. Tasks with SyncEnabled
// are pushed to the external calendar via the reminder-sync queue; once the
// sync succeeds SyncEventID holds the remote event identifier.
type Task struct {
	ID          int        `db:"id" json:"id"`
	CustomerID  int        `db:"customer_id" json:"customer_id"`
	RemindAt    time.Time  `db:"remind_at" json:"remind_at"`
	Content     string     `db:"content" json:"content"`
	Done        bool       `db:"done" json:"done"`
	SyncEnabled bool       `db:"sync_enabled" json:"sync_enabled"`
	SyncEventID string     `db:"sync_event_id" json:"sync_event_id,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}
