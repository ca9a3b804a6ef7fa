package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Opportunity statuses.
const (
	OpportunityOpen = "open"
	OpportunityWon  = "won"
	OpportunityLost = "lost"
)

// OpportunityStatuses lists the accepted values for Opportunity.Status.
var OpportunityStatuses = []string{OpportunityOpen, OpportunityWon, OpportunityLost}

type Opportunity struct {
	ID         int             `db:"id" json:"id"`
	CustomerID int             `db:"customer_id" json:"customer_id"`
	Name       string          `db:"name" json:"name"`
	Status     string          `db:"status" json:"status"`
	Amount     decimal.Decimal `db:"amount" json:"amount"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt  *time.Time      `db:"updated_at" json:"updated_at,omitempty"`
}

// ValidOpportunityStatus reports whether s is a known opportunity status.
func ValidOpportunityStatus(s string) bool {
	for _, v := range OpportunityStatuses {
		if v == s {
			return true
		}
	}
	return false
}
