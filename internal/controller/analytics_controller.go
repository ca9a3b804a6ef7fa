package controller

import (
	"net/http"

	"github.com/unclebandit/crmleopard-backend/internal/service"
)

type AnalyticsController struct {
	AnalyticsService *service.AnalyticsService
}

func (c *AnalyticsController) Overview(w http.ResponseWriter, r *http.Request) {
	overview, err := c.AnalyticsService.Overview()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, overview)
}
