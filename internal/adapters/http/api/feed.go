// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/mixtide/pulse/internal/domain/feed"
)

// FeedDependencies defines the interface for momentum feed reads.
type FeedDependencies interface {
	MomentumFeed(ctx context.Context, limit int) (feed.Result, error)
}

// FeedHandler handles momentum feed requests.
type FeedHandler struct {
	deps FeedDependencies
}

// NewFeedHandler creates a new feed handler.
func NewFeedHandler(deps FeedDependencies) *FeedHandler {
	return &FeedHandler{deps: deps}
}

type feedItem struct {
	ID                string  `json:"id"`
	Title             string  `json:"title"`
	CreatorName       string  `json:"creatorName"`
	Genre             string  `json:"genre"`
	MomentumScore     float64 `json:"momentumScore"`
	AdjustedScore     float64 `json:"adjustedScore"`
	RecentEventScore  float64 `json:"recentEventScore"`
	QualityScore      float64 `json:"qualityScore"`
	SponsoredEligible bool    `json:"sponsoredEligible"`
}

type feedResponse struct {
	Items  []feedItem  `json:"items"`
	Health feed.Health `json:"feedHealth"`
}

// HandleGetFeed handles GET /feed/momentum?limit=N requests.
// The limit is clamped server-side; an omitted limit uses the default
// page size.
func (h *FeedHandler) HandleGetFeed(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		n, err := strconv.Atoi(limitStr)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
			return
		}
		limit = n
	}

	result, err := h.deps.MomentumFeed(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}

	items := make([]feedItem, len(result.Items))
	for i, it := range result.Items {
		items[i] = feedItem{
			ID:                it.ID,
			Title:             it.Title,
			CreatorName:       it.CreatorName,
			Genre:             it.Genre,
			MomentumScore:     it.Score,
			AdjustedScore:     it.AdjustedScore,
			RecentEventScore:  it.RecentEventScore,
			QualityScore:      it.QualityScore,
			SponsoredEligible: it.SponsoredEligible,
		}
	}
	writeJSON(w, http.StatusOK, feedResponse{Items: items, Health: result.Health})
}
