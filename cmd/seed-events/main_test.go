package main

import (
	"math/rand"
	"testing"

	"github.com/mixtide/pulse/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestGenerate(t *testing.T) {
	Convey("Given the synthetic event generator", t, func() {
		Convey("Every kind it draws from is accepted by ingestion", func() {
			for _, et := range eventTypes {
				So(model.KnownEventType(model.EventType(et)), ShouldBeTrue)
			}
		})

		Convey("A batch without duplicates carries distinct ids and known kinds", func() {
			batch := generate(100, 10, 0, rand.New(rand.NewSource(1)))
			So(batch, ShouldHaveLength, 100)

			ids := make(map[string]struct{}, len(batch))
			for _, ev := range batch {
				So(model.KnownEventType(model.EventType(ev.Type)), ShouldBeTrue)
				ids[ev.EventID] = struct{}{}
			}
			So(ids, ShouldHaveLength, 100)
		})

		Convey("The duplicate fraction re-sends existing event ids", func() {
			batch := generate(100, 10, 10, rand.New(rand.NewSource(2)))
			So(batch, ShouldHaveLength, 110)

			perID := make(map[string]int, len(batch))
			for _, ev := range batch {
				perID[ev.EventID]++
			}
			resent := 0
			for _, n := range perID {
				resent += n - 1
			}
			So(resent, ShouldEqual, 10)
		})
	})
}
