// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/mixtide/pulse/internal/adapters/datastore"
	"github.com/mixtide/pulse/internal/domain/rights"
)

// RightsDependencies defines the interface for rights assessment reads.
type RightsDependencies interface {
	RightsAssessment(ctx context.Context, itemID string) (rights.Assessment, error)
}

// RightsHandler handles rights assessment requests.
type RightsHandler struct {
	deps RightsDependencies
}

// NewRightsHandler creates a new rights handler.
func NewRightsHandler(deps RightsDependencies) *RightsHandler {
	return &RightsHandler{deps: deps}
}

type rightsResponse struct {
	ItemID                string   `json:"itemId"`
	Status                string   `json:"declarationStatus"`
	Mode                  string   `json:"declarationMode"`
	FingerprintConfidence float64  `json:"fingerprintConfidence"`
	Score                 float64  `json:"score"`
	Route                 string   `json:"route"`
	Reasons               []string `json:"reasons"`
}

// HandleGetAssessment handles GET /rights/{item_id} requests.
func (h *RightsHandler) HandleGetAssessment(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	itemID := strings.TrimPrefix(r.URL.Path, "/rights/")
	if itemID == "" || strings.Contains(itemID, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	assessment, err := h.deps.RightsAssessment(r.Context(), itemID)
	if err != nil {
		if errors.Is(err, datastore.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}

	writeJSON(w, http.StatusOK, rightsResponse{
		ItemID:                assessment.ItemID,
		Status:                string(assessment.Status),
		Mode:                  string(assessment.Mode),
		FingerprintConfidence: assessment.FingerprintConfidence,
		Score:                 assessment.Score,
		Route:                 string(assessment.Route),
		Reasons:               assessment.Reasons,
	})
}
