package config_test

import (
	"runtime"
	"testing"

	"github.com/mixtide/pulse/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.DataSource, convey.ShouldEqual, config.SourceFixture)
			convey.So(cfg.EventWindowDays, convey.ShouldEqual, 14)
			convey.So(cfg.RightsEmptyPoolPolicy, convey.ShouldEqual, "fail-open")
			convey.So(cfg.CacheEnabled, convey.ShouldBeTrue)
			convey.So(cfg.EventQueueSize, convey.ShouldEqual, 100_000)
			convey.So(cfg.WorkerCount, convey.ShouldEqual, runtime.NumCPU()*4)
			convey.So(cfg.DedupeSize, convey.ShouldEqual, 500_000)
			convey.So(cfg.RateLimitRPS, convey.ShouldEqual, 50)
			convey.So(cfg.RateLimitBurst, convey.ShouldEqual, 100)
		})
	})
}
