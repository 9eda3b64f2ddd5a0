package foryou_test

import (
	"testing"
	"time"

	"github.com/mixtide/pulse/internal/domain/foryou"
	"github.com/mixtide/pulse/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func viewerEvent(item string, t model.EventType) model.EngagementEvent {
	return model.EngagementEvent{ItemID: item, ViewerID: "v1", Type: t, TS: time.Now()}
}

func TestRank(t *testing.T) {
	Convey("Given a catalog and a viewer's event log", t, func() {
		catalog := []model.CatalogItem{
			{ID: "liked", Genre: "Trap / House", PlayCount: 1000},
			{ID: "same-genre", Genre: "house", PlayCount: 500},
			{ID: "other-genre", Genre: "Lo-fi / Bossa Nova", PlayCount: 500},
		}

		Convey("Direct signal dominates the liked item's score", func() {
			ranked := foryou.Rank(catalog, []model.EngagementEvent{
				viewerEvent("liked", model.EventLike),
				viewerEvent("liked", model.EventPlay),
			})
			So(ranked[0].ID, ShouldEqual, "liked")
			// direct 5, genre tokens trap+house both carry 5 -> genre 10
			So(ranked[0].DirectSignal, ShouldEqual, 5)
			So(ranked[0].GenreScore, ShouldEqual, 10)
			So(ranked[0].Total, ShouldAlmostEqual, 5*3+10*0.8+0.01, 1e-9)
		})

		Convey("Positive signal propagates to unseen items sharing genre tokens", func() {
			ranked := foryou.Rank(catalog, []model.EngagementEvent{
				viewerEvent("liked", model.EventShare), // +3
			})
			// same-genre shares the "house" token: genre 3, no direct.
			So(ranked[1].ID, ShouldEqual, "same-genre")
			So(ranked[1].DirectSignal, ShouldEqual, 0)
			So(ranked[1].GenreScore, ShouldEqual, 3)
			So(ranked[1].Total, ShouldAlmostEqual, 3*0.8+0.005, 1e-9)
			// other-genre gets only its trend floor.
			So(ranked[2].ID, ShouldEqual, "other-genre")
			So(ranked[2].Total, ShouldAlmostEqual, 0.005, 1e-9)
		})

		Convey("Skips push an item's direct signal negative without poisoning its genre", func() {
			ranked := foryou.Rank(catalog, []model.EngagementEvent{
				viewerEvent("liked", model.EventSkip),
				viewerEvent("liked", model.EventSkip),
			})
			// direct -4, no genre affinity accumulated for non-positive signal.
			So(ranked[2].ID, ShouldEqual, "liked")
			So(ranked[2].Total, ShouldAlmostEqual, -4*3+0.01, 1e-9)
		})

		Convey("With no events, items rank by their trend floor alone", func() {
			ranked := foryou.Rank(catalog, nil)
			So(ranked[0].ID, ShouldEqual, "liked") // 1000 plays
			So(ranked[0].Total, ShouldAlmostEqual, 0.01, 1e-9)
			So(ranked[1].Total, ShouldAlmostEqual, 0.005, 1e-9)
		})

		Convey("Events without an item id are ignored", func() {
			ranked := foryou.Rank(catalog, []model.EngagementEvent{
				{ViewerID: "v1", Type: model.EventLike, TS: time.Now()},
			})
			So(ranked[0].DirectSignal, ShouldEqual, 0)
		})
	})
}
