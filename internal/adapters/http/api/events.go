// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/mixtide/pulse/internal/domain/model"
)

// EventDependencies defines the interface for event ingestion.
type EventDependencies interface {
	IngestEvent(ctx context.Context, ev model.EngagementEvent) (accepted, duplicate bool)
}

// EventsHandler handles event requests.
type EventsHandler struct {
	deps EventDependencies
}

// NewEventsHandler creates a new events handler.
func NewEventsHandler(deps EventDependencies) *EventsHandler {
	return &EventsHandler{deps: deps}
}

// HandlePostEvent handles POST /events requests.
func (h *EventsHandler) HandlePostEvent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	var ts time.Time
	if req.TS != "" {
		ts, _ = time.Parse(time.RFC3339, req.TS)
	}

	accepted, duplicate := h.deps.IngestEvent(r.Context(), model.EngagementEvent{
		EventID:  req.EventID,
		ItemID:   req.ItemID,
		ViewerID: req.ViewerID,
		Type:     model.EventType(req.Type),
		TS:       ts,
	})
	if duplicate {
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", Duplicate: true})
		return
	}
	if !accepted {
		writeError(w, http.StatusTooManyRequests, "backpressure", ErrBackpressure)
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", Duplicate: false})
}
