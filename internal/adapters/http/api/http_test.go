package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mixtide/pulse/internal/adapters/datastore"
	"github.com/mixtide/pulse/internal/adapters/http/api"
	service "github.com/mixtide/pulse/internal/app"
	"github.com/mixtide/pulse/internal/domain/feed"
	"github.com/mixtide/pulse/internal/domain/foryou"
	"github.com/mixtide/pulse/internal/domain/model"
	"github.com/mixtide/pulse/internal/domain/momentum"
	"github.com/mixtide/pulse/internal/domain/rights"
	"github.com/mixtide/pulse/internal/domain/scoreboard"
	"github.com/mixtide/pulse/internal/domain/viralpack"
	. "github.com/smartystreets/goconvey/convey"
)

// stubService implements api.Dependencies with canned responses.
type stubService struct {
	seen       map[string]bool
	reject     bool
	feedErr    error
	lastViewer string
}

func newStubService() *stubService {
	return &stubService{seen: make(map[string]bool)}
}

func (s *stubService) IngestEvent(_ context.Context, ev model.EngagementEvent) (bool, bool) {
	if s.reject {
		return false, false
	}
	if s.seen[ev.EventID] {
		return true, true
	}
	s.seen[ev.EventID] = true
	return true, false
}

func (s *stubService) MomentumFeed(_ context.Context, limit int) (feed.Result, error) {
	if s.feedErr != nil {
		return feed.Result{}, s.feedErr
	}
	items := []feed.Item{
		{
			ScoredItem:    momentum.ScoredItem{CatalogItem: model.CatalogItem{ID: "mash-002", Title: "Neon Beats Remix", CreatorName: "DJ Fusion"}, Score: 9000},
			AdjustedScore: 9012, RecentEventScore: 1, QualityScore: 55,
		},
		{
			ScoredItem:    momentum.ScoredItem{CatalogItem: model.CatalogItem{ID: "mash-001", Title: "Midnight Groove", CreatorName: "Beat Alchemy"}, Score: 2000},
			AdjustedScore: 2000, QualityScore: 61.1,
		},
	}
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return feed.Result{
		Items:  items,
		Health: feed.Health{RisingCount: len(items), QualityThreshold: feed.SponsorThreshold},
	}, nil
}

func (s *stubService) WeeklyScoreboard(context.Context) ([]scoreboard.Row, time.Time, error) {
	weekStart := time.Date(2026, time.March, 9, 0, 0, 0, 0, time.UTC)
	return []scoreboard.Row{
		{Rank: 1, CreatorID: "djfusion", DisplayName: "DJ Fusion", Score: 67.5},
	}, weekStart, nil
}

func (s *stubService) WeeklyViralPack(context.Context) (viralpack.Pack, error) {
	return viralpack.Pack{
		ID: "viral-pack-2026-03-09", PublishWeek: "2026-03-09", Day: "Monday",
		ClipCount: 1,
		Clips: []viralpack.Clip{
			{ID: "pack-clip-1", ItemID: "mash-002", Structure: viralpack.ColdOpen, RightsSafe: true},
		},
	}, nil
}

func (s *stubService) ForYou(_ context.Context, viewerID string) ([]foryou.RankedItem, error) {
	s.lastViewer = viewerID
	return []foryou.RankedItem{
		{CatalogItem: model.CatalogItem{ID: "mash-002", Title: "Neon Beats Remix"}, Total: 15.8},
		{CatalogItem: model.CatalogItem{ID: "mash-001", Title: "Midnight Groove"}, Total: 0.01},
	}, nil
}

func (s *stubService) RightsAssessment(_ context.Context, itemID string) (rights.Assessment, error) {
	if itemID == "mash-404" {
		return rights.Assessment{}, datastore.ErrNotFound
	}
	return rights.Assessment{
		ItemID: itemID, Status: rights.StatusVerified, Mode: rights.ModeOwned,
		FingerprintConfidence: 0.96, Score: 100, Route: rights.RouteAllow,
		Reasons: []string{"Rights declaration is verified."},
	}, nil
}

func (s *stubService) GetStats() service.Stats {
	return service.Stats{Started: true, WorkerCount: 2}
}

func newTestMux(svc *stubService, opts ...api.Option) *http.ServeMux {
	mux := http.NewServeMux()
	server := api.NewServer(svc, svc, opts...)
	server.Register(context.Background(), mux)
	return mux
}

func doRequest(mux *http.ServeMux, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestPostEvent(t *testing.T) {
	Convey("Given the events endpoint", t, func() {
		svc := newStubService()
		mux := newTestMux(svc)
		body := `{"event_id":"e1","item_id":"mash-001","viewer_id":"v1","type":"play","ts":"2026-03-09T12:00:00Z"}`

		Convey("A valid event is accepted", func() {
			rec := doRequest(mux, http.MethodPost, "/events", body)
			So(rec.Code, ShouldEqual, http.StatusAccepted)

			var ack map[string]any
			So(json.Unmarshal(rec.Body.Bytes(), &ack), ShouldBeNil)
			So(ack["status"], ShouldEqual, "accepted")
			So(ack["duplicate"], ShouldEqual, false)
		})

		Convey("A repeated event id reports duplicate with 200", func() {
			So(doRequest(mux, http.MethodPost, "/events", body).Code, ShouldEqual, http.StatusAccepted)

			rec := doRequest(mux, http.MethodPost, "/events", body)
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.String(), ShouldContainSubstring, `"duplicate":true`)
		})

		Convey("Backpressure maps to 429", func() {
			svc.reject = true
			rec := doRequest(mux, http.MethodPost, "/events", body)
			So(rec.Code, ShouldEqual, http.StatusTooManyRequests)
		})

		Convey("Validation failures map to 400", func() {
			for _, bad := range []string{
				`{`,
				`{"item_id":"mash-001","viewer_id":"v1","type":"play"}`,
				`{"event_id":"e1","viewer_id":"v1","type":"play"}`,
				`{"event_id":"e1","item_id":"mash-001","viewer_id":"v1","type":"teleport"}`,
				`{"event_id":"e1","item_id":"mash-001","viewer_id":"v1","type":"play","ts":"yesterday"}`,
			} {
				So(doRequest(mux, http.MethodPost, "/events", bad).Code, ShouldEqual, http.StatusBadRequest)
			}
		})

		Convey("GET is not routed", func() {
			So(doRequest(mux, http.MethodGet, "/events", "").Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestGetFeed(t *testing.T) {
	Convey("Given the momentum feed endpoint", t, func() {
		svc := newStubService()
		mux := newTestMux(svc)

		Convey("The feed returns ranked items with health", func() {
			rec := doRequest(mux, http.MethodGet, "/feed/momentum", "")
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.String(), ShouldContainSubstring, `"adjustedScore":9012`)
			So(rec.Body.String(), ShouldContainSubstring, `"qualityThreshold":65`)
		})

		Convey("A limit query trims the page", func() {
			rec := doRequest(mux, http.MethodGet, "/feed/momentum?limit=1", "")
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.String(), ShouldContainSubstring, "mash-002")
			So(rec.Body.String(), ShouldNotContainSubstring, "mash-001")
		})

		Convey("A malformed limit maps to 400", func() {
			So(doRequest(mux, http.MethodGet, "/feed/momentum?limit=abc", "").Code, ShouldEqual, http.StatusBadRequest)
			So(doRequest(mux, http.MethodGet, "/feed/momentum?limit=0", "").Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestGetScoreboard(t *testing.T) {
	Convey("Given the weekly scoreboard endpoint", t, func() {
		mux := newTestMux(newStubService())

		rec := doRequest(mux, http.MethodGet, "/scoreboard/weekly", "")
		So(rec.Code, ShouldEqual, http.StatusOK)
		So(rec.Body.String(), ShouldContainSubstring, `"creatorId":"djfusion"`)
		So(rec.Body.String(), ShouldContainSubstring, `"rank":1`)
		So(rec.Body.String(), ShouldContainSubstring, `"weekStart":"2026-03-09"`)
	})
}

func TestGetPack(t *testing.T) {
	Convey("Given the weekly pack endpoint", t, func() {
		mux := newTestMux(newStubService())

		rec := doRequest(mux, http.MethodGet, "/packs/weekly", "")
		So(rec.Code, ShouldEqual, http.StatusOK)
		So(rec.Body.String(), ShouldContainSubstring, `"id":"viral-pack-2026-03-09"`)
		So(rec.Body.String(), ShouldContainSubstring, `"structure":"cold_open"`)
	})
}

func TestGetForYou(t *testing.T) {
	Convey("Given the for-you endpoint", t, func() {
		svc := newStubService()
		mux := newTestMux(svc)

		Convey("A viewer id is required", func() {
			So(doRequest(mux, http.MethodGet, "/foryou", "").Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("The ranking is returned for the viewer", func() {
			rec := doRequest(mux, http.MethodGet, "/foryou?viewer=fan", "")
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(svc.lastViewer, ShouldEqual, "fan")
			So(rec.Body.String(), ShouldContainSubstring, `"viewerId":"fan"`)
		})

		Convey("A limit trims the ranking", func() {
			rec := doRequest(mux, http.MethodGet, "/foryou?viewer=fan&limit=1", "")
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.String(), ShouldNotContainSubstring, "mash-001")
		})
	})
}

func TestGetRights(t *testing.T) {
	Convey("Given the rights endpoint", t, func() {
		mux := newTestMux(newStubService())

		Convey("A known item returns its assessment", func() {
			rec := doRequest(mux, http.MethodGet, "/rights/mash-001", "")
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.String(), ShouldContainSubstring, `"route":"allow"`)
		})

		Convey("An unknown item maps to 404", func() {
			So(doRequest(mux, http.MethodGet, "/rights/mash-404", "").Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("A nested path maps to 400", func() {
			So(doRequest(mux, http.MethodGet, "/rights/a/b", "").Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestHealthAndStats(t *testing.T) {
	Convey("Given the operational endpoints", t, func() {
		mux := newTestMux(newStubService())

		Convey("healthz reports ok", func() {
			rec := doRequest(mux, http.MethodGet, "/healthz", "")
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.String(), ShouldContainSubstring, `"status":"ok"`)
		})

		Convey("stats returns the provider payload", func() {
			rec := doRequest(mux, http.MethodGet, "/stats", "")
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.String(), ShouldContainSubstring, `"started":true`)
			So(rec.Body.String(), ShouldContainSubstring, `"workerCount":2`)
		})

		Convey("metrics exposes the Prometheus registry", func() {
			rec := doRequest(mux, http.MethodGet, "/metrics", "")
			So(rec.Code, ShouldEqual, http.StatusOK)
		})
	})
}

func TestRateLimiting(t *testing.T) {
	Convey("Given a server with a tight rate limit", t, func() {
		rl, err := api.NewRateLimiter(1, 2, 16)
		So(err, ShouldBeNil)
		mux := newTestMux(newStubService(), api.WithRateLimiter(rl))

		Convey("Requests beyond the burst are rejected with 429", func() {
			codes := make([]int, 0, 4)
			for i := 0; i < 4; i++ {
				codes = append(codes, doRequest(mux, http.MethodGet, "/feed/momentum", "").Code)
			}
			So(codes[0], ShouldEqual, http.StatusOK)
			So(codes[1], ShouldEqual, http.StatusOK)
			So(codes[3], ShouldEqual, http.StatusTooManyRequests)
		})

		Convey("Operational endpoints bypass the limiter", func() {
			for i := 0; i < 5; i++ {
				So(doRequest(mux, http.MethodGet, "/healthz", "").Code, ShouldEqual, http.StatusOK)
			}
		})
	})
}
