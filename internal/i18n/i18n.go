// Package i18n holds the display strings and timestamp formats for the
// supported locales.
package i18n

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// ErrUnsupportedLocale is returned by New for locales outside Supported.
var ErrUnsupportedLocale = errors.New("unsupported locale")

// Message keys. The English text doubles as the key.
const (
	RedisTestFailed    = "Redis test failed"
	MySQLTestFailed    = "MySQL test failed"
	AllTestFailed      = "Combined test failed"
	NetworkError       = "Network error"
	UnknownError       = "Unknown error"
	TestSucceeded      = "Test succeeded"
	TestFailedLabel    = "Test failed"
	Testing            = "Testing..."
	ErrorPrefix        = "Error"
	ResponseData       = "Response data"
	ClickToStart       = "Click a button above to start testing"
	TestRedis          = "Test Redis"
	TestMySQL          = "Test MySQL"
	TestAll            = "Run all tests"
	RedisCardTitle     = "Redis connectivity test"
	MySQLCardTitle     = "MySQL connectivity test"
	AllCardTitle       = "Combined test results"
	ConsoleTitle       = "Service connectivity tests"
	ConsoleSubtitle    = "Test Redis and MySQL connection status"
	UsageTitle         = "Usage"
	UsageRedis         = "Redis test: checks the Redis cache connection with a SET/GET round trip"
	UsageMySQL         = "MySQL test: checks the MySQL connection by creating a test table and inserting a row"
	UsageAll           = "Combined test: checks the connection status of every service at once"
	DashboardTitle     = "System dashboard"
	DashboardSubtitle  = "Monitor system health and service status"
	ServiceStatus      = "Service status"
	RedisStatus        = "Redis status"
	MySQLStatus        = "MySQL status"
	LastUpdated        = "Last updated"
	SystemInfo         = "System information"
	ServiceName        = "Service name"
	RedisConnection    = "Redis connection"
	MySQLConnection    = "MySQL connection"
	SystemStatus       = "System status"
	RedisNotConnected  = "Redis is not connected"
	MySQLNotConnected  = "MySQL is not connected"
	RedisSetFailed     = "Redis SET failed: %v"
	RedisGetFailed     = "Redis GET failed: %v"
	MigrateFailed      = "Table migration failed: %v"
	InsertFailed       = "Inserting data failed: %v"
	QueryFailed        = "Querying data failed: %v"
	RedisTestSucceeded = "Redis test succeeded"
	MySQLTestSucceeded = "MySQL test succeeded"
	RedisTestValue     = "Hello Redis! Time: %s"
	MySQLTestMessage   = "Hello MySQL! Time: %s"
	Passed             = "passed"
)

var zhHans = map[string]string{
	RedisTestFailed:    "Redis 测试失败",
	MySQLTestFailed:    "MySQL 测试失败",
	AllTestFailed:      "综合测试失败",
	NetworkError:       "网络错误",
	UnknownError:       "未知错误",
	TestSucceeded:      "测试成功",
	TestFailedLabel:    "测试失败",
	Testing:            "测试中...",
	ErrorPrefix:        "错误",
	ResponseData:       "响应数据",
	ClickToStart:       "点击上方按钮开始测试",
	TestRedis:          "测试 Redis",
	TestMySQL:          "测试 MySQL",
	TestAll:            "综合测试",
	RedisCardTitle:     "Redis 连接测试",
	MySQLCardTitle:     "MySQL 连接测试",
	AllCardTitle:       "综合测试结果",
	ConsoleTitle:       "服务连接测试",
	ConsoleSubtitle:    "测试 Redis 和 MySQL 数据库连接状态",
	UsageTitle:         "使用说明",
	UsageRedis:         "Redis 测试: 测试 Redis 缓存服务的连接状态，会执行 SET/GET 操作",
	UsageMySQL:         "MySQL 测试: 测试 MySQL 数据库连接，会创建测试表并插入数据",
	UsageAll:           "综合测试: 同时测试所有服务的连接状态和性能",
	DashboardTitle:     "系统仪表板",
	DashboardSubtitle:  "监控系统健康状况和服务状态",
	ServiceStatus:      "服务状态",
	RedisStatus:        "Redis 状态",
	MySQLStatus:        "MySQL 状态",
	LastUpdated:        "最后更新",
	SystemInfo:         "系统信息",
	ServiceName:        "服务名称",
	RedisConnection:    "Redis 连接",
	MySQLConnection:    "MySQL 连接",
	SystemStatus:       "系统状态",
	RedisNotConnected:  "Redis 未连接",
	MySQLNotConnected:  "MySQL 未连接",
	RedisSetFailed:     "Redis SET 失败: %v",
	RedisGetFailed:     "Redis GET 失败: %v",
	MigrateFailed:      "表迁移失败: %v",
	InsertFailed:       "插入数据失败: %v",
	QueryFailed:        "查询数据失败: %v",
	RedisTestSucceeded: "Redis 测试成功",
	MySQLTestSucceeded: "MySQL 测试成功",
	RedisTestValue:     "Hello Redis! Time: %s",
	MySQLTestMessage:   "Hello MySQL! Time: %s",
	Passed:             "通过",
}

// Supported lists the locales in matcher preference order.
var Supported = []language.Tag{language.SimplifiedChinese, language.English}

var timeLayouts = map[language.Tag]string{
	language.SimplifiedChinese: "2006/1/2 15:04:05",
	language.English:           "1/2/2006, 3:04:05 PM",
}

var (
	matcher  = language.NewMatcher(Supported)
	messages = buildCatalog()
)

func buildCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for key, msg := range zhHans {
		if err := b.SetString(language.SimplifiedChinese, key, msg); err != nil {
			panic(fmt.Sprintf("i18n: register %q: %v", key, err))
		}
	}
	return b
}

// Localizer renders messages and timestamps for one locale.
type Localizer struct {
	tag     language.Tag
	printer *message.Printer
	loc     *time.Location
}

// New returns a Localizer for locale (BCP 47, e.g. "zh-CN" or "en").
func New(locale string) (*Localizer, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrUnsupportedLocale, locale, err)
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedLocale, locale)
	}
	chosen := Supported[idx]
	return &Localizer{
		tag:     chosen,
		printer: message.NewPrinter(chosen, message.Catalog(messages)),
		loc:     time.Local,
	}, nil
}

// MustNew is New that panics on error. Use it for compile-time constants.
func MustNew(locale string) *Localizer {
	l, err := New(locale)
	if err != nil {
		panic(err)
	}
	return l
}

// Default is the zh-CN localizer.
func Default() *Localizer { return MustNew("zh-CN") }

// In returns a copy of l that formats timestamps in loc.
func (l *Localizer) In(loc *time.Location) *Localizer {
	cp := *l
	if loc != nil {
		cp.loc = loc
	}
	return &cp
}

// Tag reports the matched locale.
func (l *Localizer) Tag() language.Tag { return l.tag }

// T translates key, formatting args with fmt verbs.
func (l *Localizer) T(key string, args ...any) string {
	return l.printer.Sprintf(key, args...)
}

// FormatTime renders t in the locale's date-time layout.
func (l *Localizer) FormatTime(t time.Time) string {
	return t.In(l.loc).Format(timeLayouts[l.tag])
}

// FormatTimestamp parses an RFC 3339 string and renders it. Unparsable input
// is returned unchanged.
func (l *Localizer) FormatTimestamp(ts string) string {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return ts
	}
	return l.FormatTime(t)
}
