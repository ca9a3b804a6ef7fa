package service

import (
	"github.com/unclebandit/crmleopard-backend/internal/model"
	"github.com/unclebandit/crmleopard-backend/internal/repository"
)

type AnalyticsService struct {
	Repo repository.AnalyticsRepositoryInterface
}

// Overview returns the summary counters for the dashboard.
func (s *AnalyticsService) Overview() (*model.Overview, error) {
	return s.Repo.Overview()
}
