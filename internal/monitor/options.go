package monitor

import (
	"time"

	"github.com/okian/biz/internal/i18n"
	"github.com/okian/biz/pkg/logger"
)

// Option applies a configuration option to the Monitor.
type Option func(*Monitor)

// WithInterval sets the polling interval. Non-positive values are ignored.
func WithInterval(d time.Duration) Option {
	return func(m *Monitor) {
		if d > 0 {
			m.interval = d
		}
	}
}

// WithLogger sets a custom logger for the monitor.
func WithLogger(l logger.Logger) Option {
	return func(m *Monitor) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithLocalizer sets the locale used for labels and timestamps.
func WithLocalizer(l *i18n.Localizer) Option {
	return func(m *Monitor) {
		if l != nil {
			m.loc = l
		}
	}
}

// WithTicker replaces the ticker factory.
func WithTicker(f TickerFunc) Option {
	return func(m *Monitor) {
		if f != nil {
			m.newTicker = f
		}
	}
}

// WithClock overrides time.Now for UpdatedAt.
func WithClock(now func() time.Time) Option {
	return func(m *Monitor) {
		if now != nil {
			m.now = now
		}
	}
}
