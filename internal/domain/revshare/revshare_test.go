package revshare_test

import (
	"math"
	"testing"

	"github.com/mixtide/pulse/internal/domain/revshare"
	. "github.com/smartystreets/goconvey/convey"
)

func TestClampRevShareBps(t *testing.T) {
	Convey("Given the bps clamp", t, func() {
		Convey("Values below the floor clamp to 300", func() {
			So(revshare.ClampRevShareBps(100), ShouldEqual, 300)
		})

		Convey("Values above the ceiling clamp to 3000", func() {
			So(revshare.ClampRevShareBps(3900), ShouldEqual, 3000)
		})

		Convey("In-range values round to the nearest point", func() {
			So(revshare.ClampRevShareBps(1200), ShouldEqual, 1200)
			So(revshare.ClampRevShareBps(1200.4), ShouldEqual, 1200)
			So(revshare.ClampRevShareBps(1200.6), ShouldEqual, 1201)
		})

		Convey("NaN falls back to the default", func() {
			So(revshare.ClampRevShareBps(math.NaN()), ShouldEqual, 1200)
		})
	})
}

func TestComputeReferralRevenueShareCents(t *testing.T) {
	Convey("Given the revenue share computation", t, func() {
		Convey("The cut is amount times clamped bps over 10000", func() {
			So(revshare.ComputeReferralRevenueShareCents(10000, 1200), ShouldEqual, 1200)
			So(revshare.ComputeReferralRevenueShareCents(9999, 1200), ShouldEqual, 1200)
		})

		Convey("Out-of-range bps are clamped before applying", func() {
			So(revshare.ComputeReferralRevenueShareCents(10000, 100), ShouldEqual, 300)
			So(revshare.ComputeReferralRevenueShareCents(10000, 3900), ShouldEqual, 3000)
		})

		Convey("Negative amounts are floored at zero", func() {
			So(revshare.ComputeReferralRevenueShareCents(-500, 1200), ShouldEqual, 0)
		})
	})
}

func TestShouldCountReferralConversion(t *testing.T) {
	Convey("Given billing webhook event types", t, func() {
		Convey("Payment completions count", func() {
			So(revshare.ShouldCountReferralConversion("checkout.session.completed"), ShouldBeTrue)
			So(revshare.ShouldCountReferralConversion("invoice.paid"), ShouldBeTrue)
			So(revshare.ShouldCountReferralConversion("payment_intent.succeeded"), ShouldBeTrue)
		})

		Convey("Everything else does not", func() {
			So(revshare.ShouldCountReferralConversion("invoice.created"), ShouldBeFalse)
			So(revshare.ShouldCountReferralConversion(""), ShouldBeFalse)
		})
	})
}
