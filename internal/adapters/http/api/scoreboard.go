// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/mixtide/pulse/internal/domain/model"
	"github.com/mixtide/pulse/internal/domain/scoreboard"
)

// ScoreboardDependencies defines the interface for weekly scoreboard reads.
type ScoreboardDependencies interface {
	WeeklyScoreboard(ctx context.Context) ([]scoreboard.Row, time.Time, error)
}

// ScoreboardHandler handles weekly scoreboard requests.
type ScoreboardHandler struct {
	deps ScoreboardDependencies
}

// NewScoreboardHandler creates a new scoreboard handler.
func NewScoreboardHandler(deps ScoreboardDependencies) *ScoreboardHandler {
	return &ScoreboardHandler{deps: deps}
}

type scoreboardResponse struct {
	WeekStart string           `json:"weekStart"`
	Rows      []scoreboard.Row `json:"rows"`
}

// HandleGetScoreboard handles GET /scoreboard/weekly requests. The
// weekStart label comes from the same computation as the rows.
func (h *ScoreboardHandler) HandleGetScoreboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	rows, weekStart, err := h.deps.WeeklyScoreboard(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	if rows == nil {
		rows = []scoreboard.Row{}
	}
	writeJSON(w, http.StatusOK, scoreboardResponse{
		WeekStart: model.WeekLabel(weekStart),
		Rows:      rows,
	})
}
