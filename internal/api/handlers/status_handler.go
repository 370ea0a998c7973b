package handlers

import (
	"net/http"

	"github.com/promptlover/promptlover-be/internal/monitoring"
)

// StatusHandler serves the latest gallery/host stats snapshot.
type StatusHandler struct {
	stats *monitoring.StatsUpdater
}

// NewStatusHandler creates a new StatusHandler.
func NewStatusHandler(stats *monitoring.StatsUpdater) *StatusHandler {
	return &StatusHandler{stats: stats}
}

// Get returns the most recent stats snapshot.
func (h *StatusHandler) Get(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.stats.Latest())
}
