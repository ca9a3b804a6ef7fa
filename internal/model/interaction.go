package model

import "time"

// Interaction types.
const (
	InteractionCall    = "call"
	InteractionMeeting = "meeting"
	InteractionEmail   = "email"
	InteractionNote    = "note"
	InteractionOther   = "other"
)

// InteractionTypes lists the accepted values for Interaction.Type.
var InteractionTypes = []string{
	InteractionCall, InteractionMeeting, InteractionEmail, InteractionNote, InteractionOther,
}

type Interaction struct {
	ID         int        `db:"id" json:"id"`
	CustomerID int        `db:"customer_id" json:"customer_id"`
	Type       string     `db:"type" json:"type"`
	Summary    string     `db:"summary" json:"summary,omitempty"`
	Content    string     `db:"content" json:"content,omitempty"`
	HappenedAt time.Time  `db:"happened_at" json:"happened_at"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt  *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}

// ValidInteractionType reports whether s is a known interaction type.
func ValidInteractionType(s string) bool {
	for _, v := range InteractionTypes {
		if v == s {
			return true
		}
	}
	return false
}
