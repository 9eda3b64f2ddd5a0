package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/mixtide/pulse/internal/adapters/datastore"
	"github.com/mixtide/pulse/internal/adapters/weeklycache"
	service "github.com/mixtide/pulse/internal/app"
	"github.com/mixtide/pulse/internal/domain/model"
	"github.com/mixtide/pulse/internal/domain/rights"
	"github.com/mixtide/pulse/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// fixedNow keeps every ranking surface inside the same week as the demo
// catalog's newest items.
var fixedNow = time.Date(2026, time.March, 9, 12, 0, 0, 0, time.UTC)

func startedService(opts ...service.Option) (*service.Service, func()) {
	opts = append([]service.Option{
		service.WithStore(datastore.NewFixtureStore()),
		service.WithClock(func() time.Time { return fixedNow }),
		service.WithWorkerCount(2),
	}, opts...)
	svc := service.New(opts...)
	if err := svc.Start(context.Background()); err != nil {
		panic(err)
	}
	return svc, svc.Stop
}

func TestServiceLifecycle(t *testing.T) {
	Convey("Given a new service", t, func() {
		svc := service.New(service.WithWorkerCount(2))

		Convey("Start and Stop are idempotent", func() {
			ctx := context.Background()
			So(svc.Start(ctx), ShouldBeNil)
			So(svc.Start(ctx), ShouldBeNil)
			svc.Stop()
			svc.Stop()
		})
	})
}

func TestIngestEvent(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc, stop := startedService()
		defer stop()
		ctx := context.Background()

		ev := model.EngagementEvent{
			EventID:  "evt-1",
			ItemID:   "mash-001",
			ViewerID: "v1",
			Type:     model.EventPlay,
			TS:       fixedNow,
		}

		Convey("A fresh event is accepted", func() {
			accepted, duplicate := svc.IngestEvent(ctx, ev)
			So(accepted, ShouldBeTrue)
			So(duplicate, ShouldBeFalse)
		})

		Convey("A duplicate event id is accepted without re-queueing", func() {
			accepted, duplicate := svc.IngestEvent(ctx, ev)
			So(accepted, ShouldBeTrue)
			So(duplicate, ShouldBeFalse)

			accepted, duplicate = svc.IngestEvent(ctx, ev)
			So(accepted, ShouldBeTrue)
			So(duplicate, ShouldBeTrue)

			stats := svc.GetStats()
			So(stats.DedupeEntries, ShouldEqual, 1)
		})
	})
}

func TestMomentumFeed(t *testing.T) {
	Convey("Given a started service on the fixture catalog", t, func() {
		svc, stop := startedService()
		defer stop()
		ctx := context.Background()

		Convey("The feed returns the requested page ranked by adjusted score", func() {
			result, err := svc.MomentumFeed(ctx, 5)
			So(err, ShouldBeNil)
			So(result.Items, ShouldHaveLength, 5)
			So(result.Health.RisingCount, ShouldEqual, 5)
			for i := 1; i < len(result.Items); i++ {
				So(result.Items[i-1].AdjustedScore, ShouldBeGreaterThanOrEqualTo, result.Items[i].AdjustedScore)
			}
		})

		Convey("A non-positive limit falls back to the default page size", func() {
			result, err := svc.MomentumFeed(ctx, 0)
			So(err, ShouldBeNil)
			So(result.Items, ShouldHaveLength, 8)
		})
	})
}

func TestWeeklyScoreboard(t *testing.T) {
	Convey("Given a started service with a weekly cache", t, func() {
		cache, err := weeklycache.OpenSQLite(":memory:")
		So(err, ShouldBeNil)
		svc, stop := startedService(service.WithWeeklyCache(cache))
		defer stop()
		ctx := context.Background()

		Convey("The scoreboard ranks creators with dense ranks", func() {
			rows, weekStart, err := svc.WeeklyScoreboard(ctx)
			So(err, ShouldBeNil)
			So(rows, ShouldNotBeEmpty)
			So(rows[0].Rank, ShouldEqual, 1)
			for i := 1; i < len(rows); i++ {
				So(rows[i].Rank, ShouldEqual, i+1)
				So(rows[i-1].Score, ShouldBeGreaterThanOrEqualTo, rows[i].Score)
			}

			Convey("And the week start follows the service clock", func() {
				So(weekStart.Equal(model.WeekStart(fixedNow)), ShouldBeTrue)
			})

			Convey("And a second read serves the cached copy for the same week", func() {
				again, cachedWeek, err := svc.WeeklyScoreboard(ctx)
				So(err, ShouldBeNil)
				So(again, ShouldResemble, rows)
				So(cachedWeek.Equal(weekStart), ShouldBeTrue)
			})
		})
	})
}

func TestWeeklyViralPack(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc, stop := startedService()
		defer stop()
		ctx := context.Background()

		Convey("The pack carries the weekly envelope and cycled clips", func() {
			pack, err := svc.WeeklyViralPack(ctx)
			So(err, ShouldBeNil)
			So(pack.ID, ShouldEqual, "viral-pack-2026-03-09")
			So(pack.PublishWeek, ShouldEqual, "2026-03-09")
			So(pack.Day, ShouldEqual, "Monday")
			So(pack.ClipCount, ShouldEqual, 20)
			So(pack.Clips, ShouldHaveLength, 20)

			Convey("And every clip passed the rights gate", func() {
				for _, clip := range pack.Clips {
					So(clip.RightsSafe, ShouldBeTrue)
					So(clip.ItemID, ShouldNotEqual, "mash-008") // rejected declaration
				}
			})
		})
	})
}

func TestForYou(t *testing.T) {
	Convey("Given a started service with viewer history", t, func() {
		store := datastore.NewFixtureStore()
		svc, stop := startedService(service.WithStore(store))
		defer stop()
		ctx := context.Background()

		So(store.Append(ctx, model.EngagementEvent{
			EventID: "evt-like", ItemID: "mash-002", ViewerID: "fan",
			Type: model.EventLike, TS: fixedNow,
		}), ShouldBeNil)

		Convey("The liked item leads the viewer's ranking", func() {
			ranked, err := svc.ForYou(ctx, "fan")
			So(err, ShouldBeNil)
			So(ranked, ShouldHaveLength, 9)
			So(ranked[0].ID, ShouldEqual, "mash-002")
			So(ranked[0].DirectSignal, ShouldBeGreaterThan, 0)
		})

		Convey("A cold viewer gets a play-count-driven ranking", func() {
			ranked, err := svc.ForYou(ctx, "stranger")
			So(err, ShouldBeNil)
			So(ranked[0].ID, ShouldEqual, "mash-009") // highest play count
		})
	})
}

func TestRightsAssessment(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc, stop := startedService()
		defer stop()
		ctx := context.Background()

		Convey("A declared item assesses from its profile", func() {
			a, err := svc.RightsAssessment(ctx, "mash-001")
			So(err, ShouldBeNil)
			So(a.Route, ShouldEqual, rights.RouteAllow)
			So(a.Score, ShouldEqual, 100)
		})

		Convey("An undeclared item falls back deterministically", func() {
			a, err := svc.RightsAssessment(ctx, "mash-009")
			So(err, ShouldBeNil)
			So(a.Score, ShouldBeGreaterThan, 0)

			again, err := svc.RightsAssessment(ctx, "mash-009")
			So(err, ShouldBeNil)
			So(again.Score, ShouldEqual, a.Score)
		})

		Convey("An unknown item returns not-found", func() {
			_, err := svc.RightsAssessment(ctx, "mash-404")
			So(err, ShouldEqual, datastore.ErrNotFound)
		})
	})
}
