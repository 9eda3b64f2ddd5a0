package signal_test

import (
	"testing"
	"time"

	"github.com/mixtide/pulse/internal/domain/model"
	"github.com/mixtide/pulse/internal/domain/signal"
	. "github.com/smartystreets/goconvey/convey"
)

func ev(item string, t model.EventType) model.EngagementEvent {
	return model.EngagementEvent{ItemID: item, Type: t, TS: time.Now()}
}

func TestFeedAggregator(t *testing.T) {
	Convey("Given the feed weight table", t, func() {
		agg := signal.NewFeedAggregator()

		Convey("Weights sum per item", func() {
			out := agg.Aggregate([]model.EngagementEvent{
				ev("m1", model.EventImpression), // +1
				ev("m1", model.EventPlay),       // +3
				ev("m1", model.EventShare),      // +8
				ev("m2", model.EventSkip),       // -3
				ev("m2", model.EventLike),       // +5
				ev("m2", model.EventOpen),       // +2
			})
			So(out["m1"], ShouldEqual, 12)
			So(out["m2"], ShouldEqual, 4)
		})

		Convey("Events without an item id are ignored", func() {
			out := agg.Aggregate([]model.EngagementEvent{
				{Type: model.EventPlay, TS: time.Now()},
				ev("m1", model.EventPlay),
			})
			So(len(out), ShouldEqual, 1)
			So(out["m1"], ShouldEqual, 3)
		})

		Convey("Unweighted event types are ignored", func() {
			out := agg.Aggregate([]model.EngagementEvent{
				ev("m1", "boost"),
			})
			So(len(out), ShouldEqual, 0)
		})

		Convey("An empty window yields an empty map", func() {
			out := agg.Aggregate(nil)
			So(out, ShouldNotBeNil)
			So(len(out), ShouldEqual, 0)
		})

		Convey("A custom table replaces the defaults", func() {
			custom := signal.NewFeedAggregator(signal.WithWeights(
				map[model.EventType]float64{model.EventPlay: 10},
			))
			out := custom.Aggregate([]model.EngagementEvent{
				ev("m1", model.EventPlay),
				ev("m1", model.EventShare), // no weight in custom table
			})
			So(out["m1"], ShouldEqual, 10)
		})
	})
}

func TestViewerAggregator(t *testing.T) {
	Convey("Given the personalization weight table", t, func() {
		agg := signal.NewViewerAggregator()

		Convey("Play/open are 2, like/share are 3, skip is -2", func() {
			out := agg.Aggregate([]model.EngagementEvent{
				ev("m1", model.EventPlay),
				ev("m1", model.EventOpen),
				ev("m1", model.EventLike),
				ev("m1", model.EventShare),
				ev("m1", model.EventSkip),
			})
			So(out["m1"], ShouldEqual, 8)
		})

		Convey("Other event types fall back to 0.5", func() {
			out := agg.Aggregate([]model.EngagementEvent{
				ev("m1", model.EventImpression),
			})
			So(out["m1"], ShouldEqual, 0.5)
		})
	})
}

func TestWindow(t *testing.T) {
	Convey("Given a mixed-age event list", t, func() {
		now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
		old := model.EngagementEvent{ItemID: "m1", Type: model.EventPlay, TS: now.AddDate(0, 0, -20)}
		fresh := model.EngagementEvent{ItemID: "m2", Type: model.EventPlay, TS: now.AddDate(0, 0, -3)}

		Convey("Window keeps only events at or after the cutoff", func() {
			kept := signal.Window([]model.EngagementEvent{old, fresh}, now.AddDate(0, 0, -14))
			So(len(kept), ShouldEqual, 1)
			So(kept[0].ItemID, ShouldEqual, "m2")
		})

		Convey("A zero cutoff passes everything", func() {
			kept := signal.Window([]model.EngagementEvent{old, fresh}, time.Time{})
			So(len(kept), ShouldEqual, 2)
		})
	})
}
