package config_test

import (
	"context"
	"os"
	"testing"

	"github.com/okian/gambit/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			// Clear any existing environment variables
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.UpstreamBaseURL, convey.ShouldEqual, "https://lichess.org")
				convey.So(cfg.UpstreamTimeoutMS, convey.ShouldEqual, 10_000)
				convey.So(cfg.ShortMoveThreshold, convey.ShouldEqual, 10)
				convey.So(cfg.MinAnalyzedGames, convey.ShouldEqual, 4)
				convey.So(cfg.MinAnalyzedRatio, convey.ShouldEqual, 0.5)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("GAMBIT_ADDR", ":8080")
			_ = os.Setenv("GAMBIT_UPSTREAM_BASE_URL", "http://localhost:9081")
			_ = os.Setenv("GAMBIT_UPSTREAM_TIMEOUT_MS", "2500")
			_ = os.Setenv("GAMBIT_MIN_ANALYZED_GAMES", "6")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.UpstreamBaseURL, convey.ShouldEqual, "http://localhost:9081")
				convey.So(cfg.UpstreamTimeoutMS, convey.ShouldEqual, 2500)
				convey.So(cfg.MinAnalyzedGames, convey.ShouldEqual, 6)
				convey.So(cfg.MinAnalyzedRatio, convey.ShouldEqual, 0.5)
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
addr: ":9090"
upstream_base_url: "http://upstream.test"
upstream_timeout_ms: 5000
short_move_threshold: 12
min_analyzed_ratio: 0.6
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("GAMBIT_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.UpstreamBaseURL, convey.ShouldEqual, "http://upstream.test")
				convey.So(cfg.UpstreamTimeoutMS, convey.ShouldEqual, 5000)
				convey.So(cfg.ShortMoveThreshold, convey.ShouldEqual, 12)
				convey.So(cfg.MinAnalyzedRatio, convey.ShouldEqual, 0.6)
			})
		})

		convey.Convey("When the configured values are invalid", func() {
			_ = os.Setenv("GAMBIT_UPSTREAM_TIMEOUT_MS", "-1")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then loading fails", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

// clearConfigEnvVars removes every GAMBIT_ variable set by these tests.
func clearConfigEnvVars() {
	for _, key := range []string{
		"GAMBIT_CONFIG",
		"GAMBIT_ADDR",
		"GAMBIT_UPSTREAM_BASE_URL",
		"GAMBIT_UPSTREAM_TIMEOUT_MS",
		"GAMBIT_SHORT_MOVE_THRESHOLD",
		"GAMBIT_MIN_ANALYZED_GAMES",
		"GAMBIT_MIN_ANALYZED_RATIO",
	} {
		_ = os.Unsetenv(key)
	}
}

// createTempConfigFile writes yaml content to a temp file and returns its path.
func createTempConfigFile(content string) string {
	f, err := os.CreateTemp("", "gambit-config-*.yaml")
	if err != nil {
		panic(err)
	}
	if _, err := f.WriteString(content); err != nil {
		panic(err)
	}
	_ = f.Close()
	return f.Name()
}
