// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"

	service "github.com/mixtide/pulse/internal/app"
)

// StatsProvider exposes the service's runtime snapshot for /stats.
type StatsProvider interface {
	GetStats() service.Stats
}

// StatsHandler handles stats requests.
type StatsHandler struct {
	statsProvider StatsProvider
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(statsProvider StatsProvider) *StatsHandler {
	return &StatsHandler{statsProvider: statsProvider}
}

// HandleStats handles GET /stats requests with the typed pipeline
// snapshot (queue length, dedupe entries, event and catalog counts).
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.statsProvider.GetStats())
}
