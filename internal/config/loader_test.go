package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/okian/biz/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldResemble, config.New())
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("BIZ_ADDR", ":3100")
			_ = os.Setenv("BIZ_REDIS_HOST", "cache.internal")
			_ = os.Setenv("BIZ_REDIS_PORT", "6380")
			_ = os.Setenv("BIZ_DB_USER", "ops")
			_ = os.Setenv("BIZ_POLL_INTERVAL_MS", "2500")
			_ = os.Setenv("BIZ_LOCALE", "en")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":3100")
				convey.So(cfg.RedisHost, convey.ShouldEqual, "cache.internal")
				convey.So(cfg.RedisPort, convey.ShouldEqual, 6380)
				convey.So(cfg.DBUser, convey.ShouldEqual, "ops")
				convey.So(cfg.PollIntervalMS, convey.ShouldEqual, 2500)
				convey.So(cfg.Locale, convey.ShouldEqual, "en")
				convey.So(cfg.DBHost, convey.ShouldEqual, "db")
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			yamlContent := `
# comment
addr: ":4000"
console_addr: ":4001"
db_host: "mysql.local"  # inline comment
db_name: "health"
api_base_url: "http://biz:4000"
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("BIZ_CONFIG", tmpFile)
			_ = os.Setenv("BIZ_DB_NAME", "override")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":4000")
				convey.So(cfg.ConsoleAddr, convey.ShouldEqual, ":4001")
				convey.So(cfg.DBHost, convey.ShouldEqual, "mysql.local")
				convey.So(cfg.DBName, convey.ShouldEqual, "override")
				convey.So(cfg.APIBaseURL, convey.ShouldEqual, "http://biz:4000")
				convey.So(cfg.RedisHost, convey.ShouldEqual, "redis")
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("BIZ_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("BIZ_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("BIZ_REDIS_PORT", "not_a_number")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

func TestConfigValidation(t *testing.T) {
	convey.Convey("Given config validation", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()

		cases := []struct {
			name, key, value, want string
		}{
			{"empty addr", "BIZ_ADDR", "", "addr must not be empty"},
			{"empty console addr", "BIZ_CONSOLE_ADDR", "", "console_addr must not be empty"},
			{"zero poll interval", "BIZ_POLL_INTERVAL_MS", "0", "poll_interval_ms must be positive"},
			{"unknown locale", "BIZ_LOCALE", "fr", "unsupported locale"},
			{"relative base url", "BIZ_API_BASE_URL", "/api", "api_base_url must be an absolute URL"},
		}

		for _, tc := range cases {
			convey.Convey("When loading config with "+tc.name, func() {
				_ = os.Setenv(tc.key, tc.value)
				defer clearConfigEnvVars()

				cfg, err := config.Load(ctx)

				convey.Convey("Then it should return a validation error", func() {
					convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
					convey.So(err.Error(), convey.ShouldContainSubstring, tc.want)
					convey.So(cfg, convey.ShouldBeNil)
				})
			})
		}
	})
}

// Helper functions.

func clearConfigEnvVars() {
	for _, kv := range os.Environ() {
		for i := 0; i < len(kv); i++ {
			if kv[i] == '=' {
				if key := kv[:i]; len(key) > 4 && key[:4] == "BIZ_" {
					_ = os.Unsetenv(key)
				}
				break
			}
		}
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "biz-config-*.yaml")
	if err != nil {
		panic(err)
	}

	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}

	if err := tmpFile.Close(); err != nil {
		panic(err)
	}

	return tmpFile.Name()
}
