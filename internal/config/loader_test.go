package config_test

import (
	"context"
	"os"
	"testing"

	"github.com/mixtide/pulse/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func clearConfigEnvVars() {
	for _, key := range []string{
		"PULSE_CONFIG",
		"PULSE_ADDR",
		"PULSE_DATA_SOURCE",
		"PULSE_QUEUE_SIZE",
		"PULSE_WORKER_COUNT",
		"PULSE_DEDUPE_SIZE",
		"PULSE_EVENT_WINDOW_DAYS",
		"PULSE_RIGHTS_EMPTY_POOL_POLICY",
		"PULSE_CACHE_ENABLED",
		"PULSE_RATE_LIMIT_RPS",
	} {
		_ = os.Unsetenv(key)
	}
}

func createTempConfigFile(content string) string {
	f, err := os.CreateTemp("", "pulse-config-*.yaml")
	if err != nil {
		panic(err)
	}
	if _, err := f.WriteString(content); err != nil {
		panic(err)
	}
	_ = f.Close()
	return f.Name()
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.DataSource, convey.ShouldEqual, config.SourceFixture)
				convey.So(cfg.EventWindowDays, convey.ShouldEqual, 14)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("PULSE_ADDR", ":8080")
			_ = os.Setenv("PULSE_DATA_SOURCE", "live")
			_ = os.Setenv("PULSE_QUEUE_SIZE", "50000")
			_ = os.Setenv("PULSE_WORKER_COUNT", "16")
			_ = os.Setenv("PULSE_EVENT_WINDOW_DAYS", "7")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.DataSource, convey.ShouldEqual, config.SourceLive)
				convey.So(cfg.EventQueueSize, convey.ShouldEqual, 50000)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 16)
				convey.So(cfg.EventWindowDays, convey.ShouldEqual, 7)
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
addr: ":9090"
data_source: "live"
queue_size: 30000
worker_count: 24
rights_empty_pool_policy: "fail-closed"
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("PULSE_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.DataSource, convey.ShouldEqual, config.SourceLive)
				convey.So(cfg.EventQueueSize, convey.ShouldEqual, 30000)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 24)
				convey.So(cfg.RightsEmptyPoolPolicy, convey.ShouldEqual, "fail-closed")
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			yamlContent := `
addr: ":9090"
queue_size: 30000
worker_count: 24
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("PULSE_CONFIG", tmpFile)
			_ = os.Setenv("PULSE_ADDR", ":8080")
			_ = os.Setenv("PULSE_WORKER_COUNT", "32")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.EventQueueSize, convey.ShouldEqual, 30000)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 32)
			})
		})

		convey.Convey("When loading config with an invalid data source", func() {
			clearConfigEnvVars()
			_ = os.Setenv("PULSE_DATA_SOURCE", "carrier-pigeon")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an invalid-config error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with a non-existent file", func() {
			clearConfigEnvVars()
			_ = os.Setenv("PULSE_CONFIG", "/nonexistent/pulse.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}
