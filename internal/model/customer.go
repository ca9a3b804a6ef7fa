package model

import "time"

// Customer statuses accepted by the API and used by filtering and analytics.
const (
	StatusLead     = "lead"
	StatusActive   = "active"
	StatusInactive = "inactive"
	StatusChurned  = "churned"
)

// CustomerStatuses lists the accepted values for Customer.Status.
var CustomerStatuses = []string{StatusLead, StatusActive, StatusInactive, StatusChurned}

type Customer struct {
	ID        int            `db:"id" json:"id"`
	Name      string         `db:"name" json:"name"`
	Company   string         `db:"company" json:"company,omitempty"`
	Title     string         `db:"title" json:"title,omitempty"`
	Email     string         `db:"email" json:"email,omitempty"`
	Phone     string         `db:"phone" json:"phone,omitempty"`
	Status    string         `db:"status" json:"status"`
	Tags      []string       `db:"tags" json:"tags"`
	Note      string         `db:"note" json:"note,omitempty"`
	Custom    map[string]any `db:"-" json:"custom,omitempty"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt time.Time      `db:"updated_at" json:"updated_at"`
}

// ValidStatus reports whether s is one of the accepted customer statuses.
func ValidStatus(s string) bool {
	for _, v := range CustomerStatuses {
		if v == s {
			return true
		}
	}
	return false
}
