package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/mtgrater/mtgrater/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

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
				convey.So(cfg.ThrottleSize, convey.ShouldEqual, 20_000)
				convey.So(cfg.NewCardCeiling, convey.ShouldEqual, 1000)
				convey.So(cfg.SeedWorkers, convey.ShouldEqual, 4)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("RATER_ADDR", ":8080")
			_ = os.Setenv("RATER_THROTTLE_SIZE", "5000")
			_ = os.Setenv("RATER_NEW_CARD_CEILING", "400")
			_ = os.Setenv("RATER_SEED_ON_START", "true")
			_ = os.Setenv("RATER_SEED_WORKERS", "8")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.ThrottleSize, convey.ShouldEqual, 5000)
				convey.So(cfg.NewCardCeiling, convey.ShouldEqual, 400)
				convey.So(cfg.SeedOnStart, convey.ShouldBeTrue)
				convey.So(cfg.SeedWorkers, convey.ShouldEqual, 8)
			})
		})

		convey.Convey("When loading config with a YAML file", func() {
			clearConfigEnvVars()
			path := filepath.Join(t.TempDir(), "rater.yaml")
			doc := "addr: \":7070\"\nlog_level: debug\nthrottle_size: 100\n"
			convey.So(os.WriteFile(path, []byte(doc), 0o600), convey.ShouldBeNil)
			_ = os.Setenv("RATER_CONFIG", path)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then file values override defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
				convey.So(cfg.ThrottleSize, convey.ShouldEqual, 100)
			})

			convey.Convey("And env vars override the file", func() {
				_ = os.Setenv("RATER_ADDR", ":6060")

				cfg, err := config.Load(ctx)

				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":6060")
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
			})
		})

		convey.Convey("When the config file path is bogus", func() {
			clearConfigEnvVars()
			_ = os.Setenv("RATER_CONFIG", "/nonexistent/rater.yaml")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then loading fails with the load kind", func() {
				convey.So(err, convey.ShouldWrap, config.ErrLoadConfig)
			})
		})

		convey.Convey("When a value fails validation", func() {
			clearConfigEnvVars()
			_ = os.Setenv("RATER_THROTTLE_SIZE", "0")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then loading fails with the invalid kind", func() {
				convey.So(err, convey.ShouldWrap, config.ErrInvalidConfig)
			})
		})
	})
}

func clearConfigEnvVars() {
	for _, key := range []string{
		"RATER_CONFIG",
		"RATER_ADDR",
		"RATER_LOG_LEVEL",
		"RATER_DATABASE_DSN",
		"RATER_THROTTLE_SIZE",
		"RATER_NEW_CARD_CEILING",
		"RATER_SEED_ON_START",
		"RATER_SEED_WORKERS",
	} {
		_ = os.Unsetenv(key)
	}
}
