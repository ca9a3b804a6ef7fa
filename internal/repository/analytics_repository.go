package repository

import (
	"database/sql"

	appErrors "github.com/unclebandit/crmleopard-backend/internal/errors"
	"github.com/unclebandit/crmleopard-backend/internal/model"
)

type AnalyticsRepositoryInterface interface {
	Overview() (*model.Overview, error)
}

type AnalyticsRepository struct {
	DB *sql.DB
}

// Overview computes the summary counters against the current store state.
// Each counter is a plain conditional aggregate; nothing is cached.
func (r *AnalyticsRepository) Overview() (*model.Overview, error) {
	o := &model.Overview{}

	counts := []struct {
		query string
		dest  *int
	}{
		{"SELECT COUNT(*) FROM customers", &o.TotalCustomers},
		{"SELECT COUNT(*) FROM customers WHERE status='lead'", &o.LeadCount},
		{"SELECT COUNT(*) FROM opportunities WHERE status='open'", &o.OpenOpportunityCount},
		{"SELECT COUNT(*) FROM tasks WHERE done=FALSE AND remind_at < NOW()", &o.OverdueTaskCount},
	}

	for _, c := range counts {
		if err := r.DB.QueryRow(c.query).Scan(c.dest); err != nil {
			return nil, appErrors.NewStorage("analytics overview", err)
		}
	}

	return o, nil
}

var _ AnalyticsRepositoryInterface = (*AnalyticsRepository)(nil)
