// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/mixtide/pulse/internal/domain/viralpack"
)

// PackDependencies defines the interface for weekly pack reads.
type PackDependencies interface {
	WeeklyViralPack(ctx context.Context) (viralpack.Pack, error)
}

// PacksHandler handles weekly viral pack requests.
type PacksHandler struct {
	deps PackDependencies
}

// NewPacksHandler creates a new packs handler.
func NewPacksHandler(deps PackDependencies) *PacksHandler {
	return &PacksHandler{deps: deps}
}

type packResponse struct {
	Pack viralpack.Pack `json:"pack"`
}

// HandleGetPack handles GET /packs/weekly requests.
func (h *PacksHandler) HandleGetPack(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	pack, err := h.deps.WeeklyViralPack(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	if pack.Clips == nil {
		pack.Clips = []viralpack.Clip{}
	}
	writeJSON(w, http.StatusOK, packResponse{Pack: pack})
}
