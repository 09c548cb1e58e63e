package handlers

import (
	"net/http"

	"github.com/mreyes/jobtrack/internal/api/middleware"
	"github.com/mreyes/jobtrack/internal/service"
)

type AnalyticsHandler struct {
	jobService *service.JobService
}

func NewAnalyticsHandler(jobService *service.JobService) *AnalyticsHandler {
	return &AnalyticsHandler{jobService: jobService}
}

func (h *AnalyticsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	stats, err := h.jobService.Stats(r.Context(), callerID)
	if err != nil {
		writeServiceError(w, "AnalyticsHandler.Stats", err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}
