// Package monitor implements the health monitor view: it polls the biz
// health endpoint on a fixed interval and keeps the latest result for
// rendering.
package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/okian/biz/internal/domain/types"
	"github.com/okian/biz/internal/i18n"
	"github.com/okian/biz/pkg/logger"
	"github.com/okian/biz/pkg/metrics"
)

// DefaultInterval is the polling period.
const DefaultInterval = 10 * time.Second

// Fetcher retrieves the current health status.
type Fetcher interface {
	FetchHealth(ctx context.Context) (*types.HealthStatus, error)
}

// Phase is the mutually exclusive render state of the view.
type Phase string

const (
	PhaseLoading Phase = "loading"
	PhaseError   Phase = "error"
	PhaseReady   Phase = "ready"
)

// Monitor polls a Fetcher. Each poll runs in its own goroutine and is never
// awaited or cancelled by the next one, so the poll that resolves last owns
// the state.
type Monitor struct {
	fetcher   Fetcher
	interval  time.Duration
	newTicker TickerFunc
	loc       *i18n.Localizer
	now       func() time.Time
	logger    logger.Logger

	mu        sync.RWMutex
	phase     Phase
	health    *types.HealthStatus
	errMsg    string
	updatedAt time.Time

	lifecycle sync.Mutex
	started   bool
	stop      chan struct{}
	done      chan struct{}
	inflight  sync.WaitGroup
}

// New constructs a Monitor in the loading phase.
func New(f Fetcher, opts ...Option) (*Monitor, error) {
	if f == nil {
		return nil, ErrNilFetcher
	}
	m := &Monitor{
		fetcher:   f,
		interval:  DefaultInterval,
		newTicker: newStdTicker,
		loc:       i18n.Default(),
		now:       time.Now,
		logger:    logger.Nop(),
		phase:     PhaseLoading,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Interval reports the polling period.
func (m *Monitor) Interval() time.Duration { return m.interval }

// Start issues one poll immediately and one per interval until Stop is
// called or ctx is done. ctx is also handed to every fetch.
func (m *Monitor) Start(ctx context.Context) error {
	m.lifecycle.Lock()
	defer m.lifecycle.Unlock()
	if m.started {
		return ErrAlreadyStarted
	}
	m.started = true
	m.stop = make(chan struct{})
	m.done = make(chan struct{})

	ticker := m.newTicker(m.interval)
	m.poll(ctx)
	go m.run(ctx, ticker)

	m.logger.Info(ctx, "health monitor started", logger.Duration("interval", m.interval))
	return nil
}

func (m *Monitor) run(ctx context.Context, ticker Ticker) {
	defer close(m.done)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-m.stop:
			return
		case <-ticker.C():
			m.poll(ctx)
		}
	}
}

// Stop halts polling. No poll is issued after Stop returns; polls already
// in flight still complete and update the state.
func (m *Monitor) Stop() {
	m.lifecycle.Lock()
	defer m.lifecycle.Unlock()
	if !m.started || m.stop == nil {
		return
	}
	select {
	case <-m.stop:
	default:
		close(m.stop)
	}
	<-m.done
}

// Wait blocks until the polling loop has exited and every in-flight poll
// has resolved.
func (m *Monitor) Wait() {
	m.lifecycle.Lock()
	done := m.done
	m.lifecycle.Unlock()
	if done != nil {
		<-done
	}
	m.inflight.Wait()
}

func (m *Monitor) poll(ctx context.Context) {
	m.inflight.Add(1)
	go func() {
		defer m.inflight.Done()
		hs, err := m.fetcher.FetchHealth(ctx)
		m.resolve(ctx, hs, err)
	}()
}

func (m *Monitor) resolve(ctx context.Context, hs *types.HealthStatus, err error) {
	metrics.RecordHealthPoll(err == nil && hs != nil)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.updatedAt = m.now()
	if err != nil || hs == nil {
		m.phase = PhaseError
		m.health = nil
		m.errMsg = m.loc.T(i18n.UnknownError)
		if err != nil && err.Error() != "" {
			m.errMsg = err.Error()
		}
		m.logger.Debug(ctx, "health poll failed", logger.String("reason", m.errMsg))
		return
	}
	cp := *hs
	m.phase = PhaseReady
	m.health = &cp
	m.errMsg = ""
}
