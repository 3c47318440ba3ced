package repository

import (
	"time"

	"github.com/okian/biz/pkg/logger"
)

type settings struct {
	logger          logger.Logger
	maxOpenConns    int
	maxIdleConns    int
	connMaxLifetime time.Duration
}

func newSettings(opts []Option) *settings {
	s := &settings{
		logger:          logger.Nop(),
		maxOpenConns:    10,
		maxIdleConns:    5,
		connMaxLifetime: 30 * time.Minute,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Option configures a store.
type Option func(*settings)

// WithLogger sets the store logger.
func WithLogger(l logger.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithPool sets the MySQL connection pool limits. Non-positive values keep
// the defaults.
func WithPool(maxOpen, maxIdle int, maxLifetime time.Duration) Option {
	return func(s *settings) {
		if maxOpen > 0 {
			s.maxOpenConns = maxOpen
		}
		if maxIdle > 0 {
			s.maxIdleConns = maxIdle
		}
		if maxLifetime > 0 {
			s.connMaxLifetime = maxLifetime
		}
	}
}
