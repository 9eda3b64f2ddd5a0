package model_test

import (
	"testing"
	"time"

	"github.com/mixtide/pulse/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestWeekStart(t *testing.T) {
	Convey("Given the weekly boundary helpers", t, func() {
		Convey("A mid-week timestamp snaps back to Monday 00:00", func() {
			// Thursday 2026-02-05 15:04 UTC
			thu := time.Date(2026, 2, 5, 15, 4, 0, 0, time.UTC)
			start := model.WeekStart(thu)
			So(start.Weekday(), ShouldEqual, time.Monday)
			So(start.Format("2006-01-02 15:04"), ShouldEqual, "2026-02-02 00:00")
		})

		Convey("Sunday belongs to the preceding week", func() {
			sun := time.Date(2026, 2, 8, 10, 0, 0, 0, time.UTC)
			So(model.WeekLabel(sun), ShouldEqual, "2026-02-02")
		})

		Convey("Monday is its own week start", func() {
			mon := time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC)
			So(model.WeekStart(mon).Equal(mon), ShouldBeTrue)
		})

		Convey("Release time is Monday 09:00", func() {
			wed := time.Date(2026, 2, 4, 23, 59, 0, 0, time.UTC)
			rel := model.WeekRelease(wed)
			So(rel.Weekday(), ShouldEqual, time.Monday)
			So(rel.Hour(), ShouldEqual, 9)
			So(rel.Format("2006-01-02"), ShouldEqual, "2026-02-02")
		})
	})
}

func TestKnownEventType(t *testing.T) {
	Convey("Given the event type set", t, func() {
		Convey("All six kinds are known", func() {
			for _, et := range []model.EventType{
				model.EventImpression, model.EventPlay, model.EventSkip,
				model.EventLike, model.EventShare, model.EventOpen,
			} {
				So(model.KnownEventType(et), ShouldBeTrue)
			}
		})

		Convey("Anything else is not", func() {
			So(model.KnownEventType("boost"), ShouldBeFalse)
			So(model.KnownEventType(""), ShouldBeFalse)
		})
	})
}
