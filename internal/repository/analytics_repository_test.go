package repository_test

import (
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unclebandit/crmleopard-backend/internal/repository"
)

func TestAnalyticsOverview(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := &repository.AnalyticsRepository{DB: db}

	counts := []struct {
		query string
		value int
	}{
		{"SELECT COUNT(*) FROM customers", 42},
		{"SELECT COUNT(*) FROM customers WHERE status='lead'", 17},
		{"SELECT COUNT(*) FROM opportunities WHERE status='open'", 5},
		{"SELECT COUNT(*) FROM tasks WHERE done=FALSE AND remind_at < NOW()", 3},
	}
	for _, c := range counts {
		mock.ExpectQuery(regexp.QuoteMeta(c.query)).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(c.value))
	}

	overview, err := repo.Overview()
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	assert.Equal(t, 42, overview.TotalCustomers)
	assert.Equal(t, 17, overview.LeadCount)
	assert.Equal(t, 5, overview.OpenOpportunityCount)
	assert.Equal(t, 3, overview.OverdueTaskCount)
}
