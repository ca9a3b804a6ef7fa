package model

// Overview is the analytics summary computed over the current store state.
type Overview struct {
	TotalCustomers       int `json:"total_customers"`
	LeadCount            int `json:"lead_count"`
	OpenOpportunityCount int `json:"open_opportunity_count"`
	OverdueTaskCount     int `json:"overdue_task_count"`
}
