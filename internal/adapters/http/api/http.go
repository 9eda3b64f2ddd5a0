// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/mixtide/pulse/internal/domain/feed"
	"github.com/mixtide/pulse/internal/domain/foryou"
	"github.com/mixtide/pulse/internal/domain/model"
	"github.com/mixtide/pulse/internal/domain/rights"
	"github.com/mixtide/pulse/internal/domain/scoreboard"
	"github.com/mixtide/pulse/internal/domain/viralpack"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// IngestEvent pushes an event for async processing. accepted is false
	// on backpressure; duplicate marks a previously seen event id.
	IngestEvent(ctx context.Context, ev model.EngagementEvent) (accepted, duplicate bool)

	// Read operations expose the ranking surfaces. WeeklyScoreboard also
	// reports the week start its rows were computed for.
	MomentumFeed(ctx context.Context, limit int) (feed.Result, error)
	WeeklyScoreboard(ctx context.Context) ([]scoreboard.Row, time.Time, error)
	WeeklyViralPack(ctx context.Context) (viralpack.Pack, error)
	ForYou(ctx context.Context, viewerID string) ([]foryou.RankedItem, error)
	RightsAssessment(ctx context.Context, itemID string) (rights.Assessment, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler     *HealthHandler
	statsHandler      *StatsHandler
	eventsHandler     *EventsHandler
	feedHandler       *FeedHandler
	scoreboardHandler *ScoreboardHandler
	packsHandler      *PacksHandler
	forYouHandler     *ForYouHandler
	rightsHandler     *RightsHandler

	limit func(http.HandlerFunc) http.HandlerFunc
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithRateLimiter installs a per-client rate limit middleware.
func WithRateLimiter(rl *RateLimiter) Option {
	return func(s *Server) {
		if rl != nil {
			s.limit = rl.Middleware
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	s := &Server{
		healthHandler:     NewHealthHandler(),
		statsHandler:      NewStatsHandler(statsProvider),
		eventsHandler:     NewEventsHandler(deps),
		feedHandler:       NewFeedHandler(deps),
		scoreboardHandler: NewScoreboardHandler(deps),
		packsHandler:      NewPacksHandler(deps),
		forYouHandler:     NewForYouHandler(deps),
		rightsHandler:     NewRightsHandler(deps),
		limit:             func(next http.HandlerFunc) http.HandlerFunc { return next },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/metrics", s.healthHandler.HandleMetrics)
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/events", s.limit(MetricsMiddleware(s.eventsHandler.HandlePostEvent, "events")))
	mux.HandleFunc("/feed/momentum", s.limit(MetricsMiddleware(s.feedHandler.HandleGetFeed, "feed")))
	mux.HandleFunc("/scoreboard/weekly", s.limit(MetricsMiddleware(s.scoreboardHandler.HandleGetScoreboard, "scoreboard")))
	mux.HandleFunc("/packs/weekly", s.limit(MetricsMiddleware(s.packsHandler.HandleGetPack, "packs")))
	mux.HandleFunc("/foryou", s.limit(MetricsMiddleware(s.forYouHandler.HandleGetForYou, "foryou")))
	mux.HandleFunc("/rights/", s.limit(MetricsMiddleware(s.rightsHandler.HandleGetAssessment, "rights")))
}

// eventRequest mirrors the wire schema for POST /events.
type eventRequest struct {
	EventID  string `json:"event_id"`
	ItemID   string `json:"item_id"`
	ViewerID string `json:"viewer_id"`
	Type     string `json:"type"`
	TS       string `json:"ts"`
}

func (e eventRequest) validate() error {
	switch {
	case strings.TrimSpace(e.EventID) == "":
		return errors.New("missing event_id")
	case strings.TrimSpace(e.ItemID) == "":
		return errors.New("missing item_id")
	case strings.TrimSpace(e.ViewerID) == "":
		return errors.New("missing viewer_id")
	case strings.TrimSpace(e.Type) == "":
		return errors.New("missing type")
	}
	if !model.KnownEventType(model.EventType(e.Type)) {
		return errors.New("unknown event type")
	}
	if e.TS != "" {
		if _, err := time.Parse(time.RFC3339, e.TS); err != nil {
			return errors.New("invalid ts; must be RFC3339")
		}
	}
	return nil
}

type ackResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
