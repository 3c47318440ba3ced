package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	service "github.com/okian/biz/internal/app"
	"github.com/okian/biz/internal/config"
)

func TestStoreConfigs(t *testing.T) {
	convey.Convey("Given configuration from the environment", t, func() {
		_ = os.Setenv("BIZ_REDIS_HOST", "cache.internal")
		_ = os.Setenv("BIZ_DB_NAME", "biz_test")
		defer func() {
			_ = os.Unsetenv("BIZ_REDIS_HOST")
			_ = os.Unsetenv("BIZ_DB_NAME")
		}()

		cfg, err := config.Load(context.Background())
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("Then the store configs carry the values", func() {
			convey.So(redisConfig(cfg).Addr(), convey.ShouldEqual, "cache.internal:6379")
			convey.So(mysqlConfig(cfg).Database, convey.ShouldEqual, "biz_test")
			convey.So(mysqlConfig(cfg).DSN(), convey.ShouldContainSubstring, "tcp(db:3306)/biz_test")
		})
	})
}

func TestNewMux(t *testing.T) {
	convey.Convey("Given a mux over a service without stores", t, func() {
		mux, err := newMux(context.Background(), service.New())
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("Then API and docs routes are both served", func() {
			for path, want := range map[string]int{
				"/ping":           http.StatusOK,
				"/api/health":     http.StatusOK,
				"/api/test-redis": http.StatusServiceUnavailable,
				"/openapi.yaml":   http.StatusOK,
				"/api-docs":       http.StatusOK,
			} {
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
				convey.So(w.Code, convey.ShouldEqual, want)
			}
		})
	})

	convey.Convey("Given nil dependencies", t, func() {
		_, err := newMux(context.Background(), nil)
		convey.So(err, convey.ShouldNotBeNil)
	})
}
