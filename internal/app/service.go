// Package service implements the connectivity checks behind the biz API:
// the health summary and the Redis, MySQL and combined tests.
package service

import (
	"context"
	"errors"
	"io"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/biz/internal/adapters/repository"
	"github.com/okian/biz/internal/domain/model"
	"github.com/okian/biz/internal/domain/types"
	"github.com/okian/biz/internal/i18n"
	"github.com/okian/biz/pkg/logger"
)

const (
	defaultPingTimeout = 2 * time.Second
	defaultTestTimeout = 5 * time.Second
	redisTestKey       = "test:key"
	redisTestTTL       = time.Minute
	recentRecordLimit  = 5
)

type pinger interface {
	Ping(ctx context.Context) error
}

// Service answers the biz API. A nil cache or records store means the
// dependency was never initialized.
type Service struct {
	cache       repository.Cache
	records     repository.Records
	serviceName string
	loc         *i18n.Localizer
	now         func() time.Time
	pingTimeout time.Duration
	testTimeout time.Duration
	logger      logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithCache sets the Redis store.
func WithCache(c repository.Cache) Option {
	return func(s *Service) { s.cache = c }
}

// WithRecords sets the MySQL store.
func WithRecords(r repository.Records) Option {
	return func(s *Service) { s.records = r }
}

// WithServiceName sets the name reported by Health.
func WithServiceName(name string) Option {
	return func(s *Service) {
		if name != "" {
			s.serviceName = name
		}
	}
}

// WithLocalizer sets the language of result and error messages.
func WithLocalizer(l *i18n.Localizer) Option {
	return func(s *Service) {
		if l != nil {
			s.loc = l
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithTimeouts sets the ping and test timeouts. Non-positive values keep the
// defaults.
func WithTimeouts(ping, test time.Duration) Option {
	return func(s *Service) {
		if ping > 0 {
			s.pingTimeout = ping
		}
		if test > 0 {
			s.testTimeout = test
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service.
func New(opts ...Option) *Service {
	s := &Service{
		serviceName: "biz",
		loc:         i18n.Default(),
		now:         time.Now,
		pingTimeout: defaultPingTimeout,
		testTimeout: defaultTestTimeout,
		logger:      logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type pingResult struct {
	initialized bool
	err         error
}

func (s *Service) ping(ctx context.Context, p pinger) pingResult {
	if p == nil {
		return pingResult{}
	}
	ctx, cancel := context.WithTimeout(ctx, s.pingTimeout)
	defer cancel()
	return pingResult{initialized: true, err: p.Ping(ctx)}
}

// pingBoth pings the dependencies concurrently.
func (s *Service) pingBoth(ctx context.Context) (redis, mysql pingResult) {
	var g errgroup.Group
	g.Go(func() error {
		redis = s.ping(ctx, s.cache)
		return nil
	})
	g.Go(func() error {
		mysql = s.ping(ctx, s.records)
		return nil
	})
	_ = g.Wait()
	return redis, mysql
}

func connectionStatus(r pingResult) string {
	if r.initialized && r.err == nil {
		return types.StatusConnected
	}
	return types.StatusDisconnected
}

// Health summarizes the service and its dependencies.
func (s *Service) Health(ctx context.Context) types.HealthStatus {
	redis, mysql := s.pingBoth(ctx)
	return types.HealthStatus{
		Status:    types.StatusHealthy,
		Service:   s.serviceName,
		Redis:     connectionStatus(redis),
		MySQL:     connectionStatus(mysql),
		Timestamp: s.now().Format(time.RFC3339),
	}
}

// TestRedis writes test:key and reads it back.
func (s *Service) TestRedis(ctx context.Context) (*model.RedisTestResult, error) {
	if s.cache == nil {
		return nil, &types.TestError{Kind: types.ErrNotInitialized, Message: s.loc.T(i18n.RedisNotConnected)}
	}
	ctx, cancel := context.WithTimeout(ctx, s.testTimeout)
	defer cancel()

	value := s.loc.T(i18n.RedisTestValue, s.now().Format(time.RFC3339))
	if err := s.cache.Set(ctx, redisTestKey, value, redisTestTTL); err != nil {
		return nil, s.failed(ctx, i18n.RedisSetFailed, err)
	}

	got, err := s.cache.Get(ctx, redisTestKey)
	if err != nil {
		return nil, s.failed(ctx, i18n.RedisGetFailed, err)
	}

	return &model.RedisTestResult{
		Message:   s.loc.T(i18n.RedisTestSucceeded),
		Key:       redisTestKey,
		Value:     got,
		Timestamp: s.now().Format(time.RFC3339),
	}, nil
}

// TestMySQL migrates the test table, inserts a row and reads the newest rows.
func (s *Service) TestMySQL(ctx context.Context) (*model.MySQLTestResult, error) {
	if s.records == nil {
		return nil, &types.TestError{Kind: types.ErrNotInitialized, Message: s.loc.T(i18n.MySQLNotConnected)}
	}
	ctx, cancel := context.WithTimeout(ctx, s.testTimeout)
	defer cancel()

	if err := s.records.Migrate(ctx); err != nil {
		return nil, s.failed(ctx, i18n.MigrateFailed, err)
	}

	now := s.now()
	rec := model.TestRecord{
		Message:   s.loc.T(i18n.MySQLTestMessage, now.Format(time.RFC3339)),
		Timestamp: now,
	}
	if err := s.records.Insert(ctx, &rec); err != nil {
		return nil, s.failed(ctx, i18n.InsertFailed, err)
	}

	recent, err := s.records.Recent(ctx, recentRecordLimit)
	if err != nil {
		return nil, s.failed(ctx, i18n.QueryFailed, err)
	}

	return &model.MySQLTestResult{
		Message:        s.loc.T(i18n.MySQLTestSucceeded),
		InsertedRecord: rec,
		RecentRecords:  recent,
		Timestamp:      s.now().Format(time.RFC3339),
	}, nil
}

// TestAll pings every dependency and reports each one separately.
func (s *Service) TestAll(ctx context.Context) model.AllTestResult {
	redis, mysql := s.pingBoth(ctx)
	return model.AllTestResult{
		Timestamp: s.now().Format(time.RFC3339),
		Redis:     s.probeResult(redis),
		MySQL:     s.probeResult(mysql),
	}
}

func (s *Service) probeResult(r pingResult) types.ProbeResult {
	switch {
	case !r.initialized:
		return types.ProbeResult{Status: types.StatusNotInitialized}
	case r.err != nil:
		return types.ProbeResult{Status: types.StatusError, Error: r.err.Error()}
	default:
		return types.ProbeResult{Status: types.StatusConnected, Test: s.loc.T(i18n.Passed)}
	}
}

func (s *Service) failed(ctx context.Context, key string, err error) error {
	msg := s.loc.T(key, err)
	s.logger.Warn(ctx, "connectivity test failed", logger.String("reason", msg))
	return &types.TestError{Kind: types.ErrTestFailed, Message: msg, Err: err}
}

// Close releases the stores that hold connections.
func (s *Service) Close() error {
	var errs []error
	for _, dep := range []any{s.cache, s.records} {
		if c, ok := dep.(io.Closer); ok {
			errs = append(errs, c.Close())
		}
	}
	return errors.Join(errs...)
}
