// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/mixtide/pulse/internal/domain/foryou"
)

// ForYouDependencies defines the interface for personalized ranking reads.
type ForYouDependencies interface {
	ForYou(ctx context.Context, viewerID string) ([]foryou.RankedItem, error)
}

// ForYouHandler handles personalized feed requests.
type ForYouHandler struct {
	deps ForYouDependencies
}

// NewForYouHandler creates a new for-you handler.
func NewForYouHandler(deps ForYouDependencies) *ForYouHandler {
	return &ForYouHandler{deps: deps}
}

type forYouItem struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	CreatorName  string  `json:"creatorName"`
	Genre        string  `json:"genre"`
	Total        float64 `json:"total"`
	DirectSignal float64 `json:"directSignal"`
	GenreScore   float64 `json:"genreScore"`
	TrendScore   float64 `json:"trendScore"`
}

type forYouResponse struct {
	ViewerID string       `json:"viewerId"`
	Items    []forYouItem `json:"items"`
}

// HandleGetForYou handles GET /foryou?viewer=ID&limit=N requests.
func (h *ForYouHandler) HandleGetForYou(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	viewerID := r.URL.Query().Get("viewer")
	if viewerID == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
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

	ranked, err := h.deps.ForYou(r.Context(), viewerID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	items := make([]forYouItem, len(ranked))
	for i, it := range ranked {
		items[i] = forYouItem{
			ID:           it.ID,
			Title:        it.Title,
			CreatorName:  it.CreatorName,
			Genre:        it.Genre,
			Total:        it.Total,
			DirectSignal: it.DirectSignal,
			GenreScore:   it.GenreScore,
			TrendScore:   it.TrendScore,
		}
	}
	writeJSON(w, http.StatusOK, forYouResponse{ViewerID: viewerID, Items: items})
}
