package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	service "github.com/okian/biz/internal/app"
	"github.com/okian/biz/internal/domain/model"
	"github.com/okian/biz/internal/domain/types"
	"github.com/okian/biz/internal/i18n"
)

var fixedNow = time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC)

type fakeCache struct {
	mu      sync.Mutex
	pingErr error
	setErr  error
	getErr  error
	data    map[string]string
	ttl     time.Duration
	closed  bool
}

func (f *fakeCache) Ping(context.Context) error { return f.pingErr }

func (f *fakeCache) Set(_ context.Context, key, value string, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setErr != nil {
		return f.setErr
	}
	if f.data == nil {
		f.data = map[string]string{}
	}
	f.data[key] = value
	f.ttl = ttl
	return nil
}

func (f *fakeCache) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return "", f.getErr
	}
	return f.data[key], nil
}

func (f *fakeCache) Close() error {
	f.closed = true
	return nil
}

type fakeRecords struct {
	pingErr    error
	migrateErr error
	insertErr  error
	recentErr  error
	rows       []model.TestRecord
	limit      int
}

func (f *fakeRecords) Ping(context.Context) error    { return f.pingErr }
func (f *fakeRecords) Migrate(context.Context) error { return f.migrateErr }

func (f *fakeRecords) Insert(_ context.Context, rec *model.TestRecord) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	rec.ID = uint(len(f.rows) + 1)
	f.rows = append([]model.TestRecord{*rec}, f.rows...)
	return nil
}

func (f *fakeRecords) Recent(_ context.Context, n int) ([]model.TestRecord, error) {
	f.limit = n
	if f.recentErr != nil {
		return nil, f.recentErr
	}
	if n > len(f.rows) {
		n = len(f.rows)
	}
	return f.rows[:n], nil
}

func newService(opts ...service.Option) *service.Service {
	base := []service.Option{
		service.WithClock(func() time.Time { return fixedNow }),
		service.WithLocalizer(i18n.MustNew("zh-CN")),
	}
	return service.New(append(base, opts...)...)
}

func TestService_Health(t *testing.T) {
	Convey("Given a service with both dependencies reachable", t, func() {
		svc := newService(
			service.WithServiceName("biz"),
			service.WithCache(&fakeCache{}),
			service.WithRecords(&fakeRecords{}),
		)

		Convey("Then health should report both as connected", func() {
			So(svc.Health(context.Background()), ShouldResemble, types.HealthStatus{
				Status:    "healthy",
				Service:   "biz",
				Redis:     "connected",
				MySQL:     "connected",
				Timestamp: "2024-03-05T14:07:09Z",
			})
		})
	})

	Convey("Given a service whose redis ping fails and mysql is missing", t, func() {
		svc := newService(service.WithCache(&fakeCache{pingErr: errors.New("refused")}))

		Convey("Then both should be disconnected and the service still healthy", func() {
			hs := svc.Health(context.Background())
			So(hs.Status, ShouldEqual, "healthy")
			So(hs.Redis, ShouldEqual, "disconnected")
			So(hs.MySQL, ShouldEqual, "disconnected")
		})
	})
}

func TestService_TestRedis(t *testing.T) {
	Convey("Given a working redis store", t, func() {
		cache := &fakeCache{}
		svc := newService(service.WithCache(cache))

		Convey("When running the redis test", func() {
			res, err := svc.TestRedis(context.Background())

			Convey("Then the value should round trip with a one minute TTL", func() {
				So(err, ShouldBeNil)
				So(res.Key, ShouldEqual, "test:key")
				So(res.Value, ShouldEqual, "Hello Redis! Time: 2024-03-05T14:07:09Z")
				So(res.Message, ShouldEqual, "Redis 测试成功")
				So(cache.ttl, ShouldEqual, time.Minute)
			})
		})
	})

	Convey("Given no redis store", t, func() {
		_, err := newService().TestRedis(context.Background())

		Convey("Then the error should be not initialized", func() {
			So(errors.Is(err, types.ErrNotInitialized), ShouldBeTrue)
			So(err.Error(), ShouldEqual, "Redis 未连接")
		})
	})

	Convey("Given a failing SET", t, func() {
		svc := newService(service.WithCache(&fakeCache{setErr: errors.New("READONLY")}))
		_, err := svc.TestRedis(context.Background())

		Convey("Then the error should name the SET step", func() {
			So(errors.Is(err, types.ErrTestFailed), ShouldBeTrue)
			So(err.Error(), ShouldEqual, "Redis SET 失败: READONLY")
		})
	})

	Convey("Given a failing GET", t, func() {
		svc := newService(service.WithCache(&fakeCache{getErr: errors.New("timeout")}))
		_, err := svc.TestRedis(context.Background())

		Convey("Then the error should name the GET step", func() {
			So(err.Error(), ShouldEqual, "Redis GET 失败: timeout")
		})
	})
}

func TestService_TestMySQL(t *testing.T) {
	Convey("Given a working mysql store", t, func() {
		records := &fakeRecords{}
		svc := newService(service.WithRecords(records), service.WithLocalizer(i18n.MustNew("en")))

		Convey("When running the mysql test twice", func() {
			_, err := svc.TestMySQL(context.Background())
			So(err, ShouldBeNil)
			res, err := svc.TestMySQL(context.Background())

			Convey("Then the newest records should be returned", func() {
				So(err, ShouldBeNil)
				So(res.Message, ShouldEqual, "MySQL test succeeded")
				So(res.InsertedRecord.ID, ShouldEqual, 2)
				So(res.InsertedRecord.Message, ShouldEqual, "Hello MySQL! Time: 2024-03-05T14:07:09Z")
				So(len(res.RecentRecords), ShouldEqual, 2)
				So(res.RecentRecords[0].ID, ShouldEqual, 2)
				So(records.limit, ShouldEqual, 5)
			})
		})
	})

	Convey("Given no mysql store", t, func() {
		_, err := newService().TestMySQL(context.Background())
		So(errors.Is(err, types.ErrNotInitialized), ShouldBeTrue)
		So(err.Error(), ShouldEqual, "MySQL 未连接")
	})

	Convey("Given failing mysql steps", t, func() {
		cases := []struct {
			records *fakeRecords
			want    string
		}{
			{&fakeRecords{migrateErr: errors.New("denied")}, "表迁移失败: denied"},
			{&fakeRecords{insertErr: errors.New("full")}, "插入数据失败: full"},
			{&fakeRecords{recentErr: errors.New("gone")}, "查询数据失败: gone"},
		}
		for _, tc := range cases {
			_, err := newService(service.WithRecords(tc.records)).TestMySQL(context.Background())
			So(errors.Is(err, types.ErrTestFailed), ShouldBeTrue)
			So(err.Error(), ShouldEqual, tc.want)
		}
	})
}

func TestService_TestAll(t *testing.T) {
	Convey("Given redis failing and mysql missing", t, func() {
		svc := newService(service.WithCache(&fakeCache{pingErr: errors.New("refused")}))

		Convey("Then each dependency should be reported separately", func() {
			res := svc.TestAll(context.Background())
			So(res.Timestamp, ShouldEqual, "2024-03-05T14:07:09Z")
			So(res.Redis, ShouldResemble, types.ProbeResult{Status: "error", Error: "refused"})
			So(res.MySQL, ShouldResemble, types.ProbeResult{Status: "not_initialized"})
		})
	})

	Convey("Given both dependencies reachable", t, func() {
		svc := newService(service.WithCache(&fakeCache{}), service.WithRecords(&fakeRecords{}))
		res := svc.TestAll(context.Background())
		So(res.Redis, ShouldResemble, types.ProbeResult{Status: "connected", Test: "通过"})
		So(res.MySQL, ShouldResemble, types.ProbeResult{Status: "connected", Test: "通过"})
	})
}

func TestService_Close(t *testing.T) {
	Convey("Given a service with a closable cache", t, func() {
		cache := &fakeCache{}
		svc := newService(service.WithCache(cache), service.WithRecords(&fakeRecords{}))

		So(svc.Close(), ShouldBeNil)
		So(cache.closed, ShouldBeTrue)
	})
}
