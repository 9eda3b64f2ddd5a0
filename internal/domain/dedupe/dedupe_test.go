package dedupe_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/mixtide/pulse/internal/domain/dedupe"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSeenAndRecord(t *testing.T) {
	Convey("Given a fresh deduper", t, func() {
		ctx := context.Background()
		d := dedupe.NewInMemoryDeduper()

		Convey("The first sighting of an id records it", func() {
			So(d.SeenAndRecord(ctx, "evt-1"), ShouldBeFalse)
			So(d.Size(), ShouldEqual, 1)

			Convey("And the second sighting reports it as seen", func() {
				So(d.SeenAndRecord(ctx, "evt-1"), ShouldBeTrue)
				So(d.Size(), ShouldEqual, 1)
			})
		})

		Convey("Distinct ids are tracked independently", func() {
			So(d.SeenAndRecord(ctx, "evt-1"), ShouldBeFalse)
			So(d.SeenAndRecord(ctx, "evt-2"), ShouldBeFalse)
			So(d.Size(), ShouldEqual, 2)
		})
	})
}

func TestUnrecord(t *testing.T) {
	Convey("Given a recorded id", t, func() {
		ctx := context.Background()
		d := dedupe.NewInMemoryDeduper()
		So(d.SeenAndRecord(ctx, "evt-1"), ShouldBeFalse)

		Convey("Unrecord allows the id to be recorded again", func() {
			d.Unrecord(ctx, "evt-1")
			So(d.Size(), ShouldEqual, 0)
			So(d.SeenAndRecord(ctx, "evt-1"), ShouldBeFalse)
		})

		Convey("Unrecording an unknown id is a no-op", func() {
			d.Unrecord(ctx, "evt-unknown")
			So(d.Size(), ShouldEqual, 1)
		})
	})
}

func TestEviction(t *testing.T) {
	Convey("Given a deduper bounded at 3 ids", t, func() {
		ctx := context.Background()
		d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(3))
		for i := 1; i <= 3; i++ {
			So(d.SeenAndRecord(ctx, fmt.Sprintf("evt-%d", i)), ShouldBeFalse)
		}

		Convey("Recording a fourth id evicts the oldest", func() {
			So(d.SeenAndRecord(ctx, "evt-4"), ShouldBeFalse)
			So(d.Size(), ShouldEqual, 3)
			So(d.SeenAndRecord(ctx, "evt-1"), ShouldBeFalse) // evicted, seen again
		})

		Convey("An unrecorded id does not count against the bound", func() {
			d.Unrecord(ctx, "evt-2")
			So(d.SeenAndRecord(ctx, "evt-4"), ShouldBeFalse)
			So(d.SeenAndRecord(ctx, "evt-1"), ShouldBeTrue) // still resident
		})
	})
}

func TestConcurrentAccess(t *testing.T) {
	Convey("Given concurrent recorders", t, func() {
		ctx := context.Background()
		d := dedupe.NewInMemoryDeduper()

		var wg sync.WaitGroup
		for g := 0; g < 8; g++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := 0; i < 200; i++ {
					d.SeenAndRecord(ctx, fmt.Sprintf("evt-%d", i))
				}
			}()
		}
		wg.Wait()

		Convey("Each id is recorded exactly once", func() {
			So(d.Size(), ShouldEqual, 200)
		})
	})
}
