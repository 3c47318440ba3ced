package config_test

import (
	"testing"
	"time"

	"github.com/okian/biz/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":3000")
			convey.So(cfg.ConsoleAddr, convey.ShouldEqual, ":8080")
			convey.So(cfg.ServiceName, convey.ShouldEqual, "biz")
			convey.So(cfg.RedisHost, convey.ShouldEqual, "redis")
			convey.So(cfg.RedisPort, convey.ShouldEqual, 6379)
			convey.So(cfg.DBHost, convey.ShouldEqual, "db")
			convey.So(cfg.DBPort, convey.ShouldEqual, 3306)
			convey.So(cfg.DBName, convey.ShouldEqual, "mydb")
			convey.So(cfg.Locale, convey.ShouldEqual, "zh-CN")
			convey.So(cfg.PollInterval(), convey.ShouldEqual, 10*time.Second)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}
