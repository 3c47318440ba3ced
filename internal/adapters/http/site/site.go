// Package site serves the console pages: the health dashboard and the
// connectivity test view, as HTML and as JSON snapshots.
package site

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"math"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/okian/biz/internal/adapters/http/api"
	"github.com/okian/biz/internal/console"
	"github.com/okian/biz/internal/domain/types"
	"github.com/okian/biz/internal/i18n"
	"github.com/okian/biz/internal/monitor"
	"github.com/okian/biz/pkg/logger"
	"github.com/okian/biz/pkg/metrics"
)

// Seconds between reloads while a page waits for a pending request.
const pendingRefreshSeconds = 1

// Monitor is the health view the dashboard renders.
type Monitor interface {
	Snapshot() monitor.View
	Interval() time.Duration
}

// Console is the test view the test page renders and triggers.
type Console interface {
	Trigger(ctx context.Context, kind types.TestKind) error
	Snapshot() []console.Card
}

// Site renders the console pages.
type Site struct {
	monitor Monitor
	console Console
	loc     *i18n.Localizer
	logger  logger.Logger
	pages   *template.Template

	// ctx outlives single requests; triggers started from a POST keep
	// running after the redirect.
	ctx context.Context
}

// Option applies a configuration option to the Site.
type Option func(*Site)

// WithLocalizer sets the page language.
func WithLocalizer(l *i18n.Localizer) Option {
	return func(s *Site) {
		if l != nil {
			s.loc = l
		}
	}
}

// WithLogger sets a custom logger for the site.
func WithLogger(l logger.Logger) Option {
	return func(s *Site) {
		if l != nil {
			s.logger = l
		}
	}
}

// New parses the embedded templates.
func New(mon Monitor, con Console, opts ...Option) (*Site, error) {
	if mon == nil {
		return nil, ErrNilMonitor
	}
	if con == nil {
		return nil, ErrNilConsole
	}
	s := &Site{
		monitor: mon,
		console: con,
		loc:     i18n.Default(),
		logger:  logger.Nop(),
		ctx:     context.Background(),
	}
	for _, opt := range opts {
		opt(s)
	}

	pages, err := template.New("site").
		Funcs(template.FuncMap{"t": func(key string) string { return s.loc.T(key) }}).
		ParseFS(staticFS, "static/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	s.pages = pages
	return s, nil
}

// Register attaches the console routes to mux. Tests triggered through
// POST /test/{kind} run under ctx.
func (s *Site) Register(ctx context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	if ctx != nil {
		s.ctx = ctx
	}

	route := func(pattern, endpoint string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, api.MetricsMiddleware(api.RequestID(h), endpoint))
	}

	route("GET /{$}", "root", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/dashboard", http.StatusFound)
	})
	route("GET /dashboard", "dashboard", s.handleDashboard)
	route("GET /dashboard.json", "dashboard_json", s.handleDashboardJSON)
	route("GET /test", "test", s.handleTest)
	route("POST /test/{kind}", "test_trigger", s.handleTrigger)
	route("GET /test.json", "test_json", s.handleTestJSON)

	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(FS())))
	mux.Handle("GET /metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))
}

type dashboardPage struct {
	Lang    string
	Refresh int
	View    monitor.View
}

func (s *Site) handleDashboard(w http.ResponseWriter, r *http.Request) {
	v := s.monitor.Snapshot()
	refresh := int(math.Ceil(s.monitor.Interval().Seconds()))
	if v.Phase == monitor.PhaseLoading || refresh < 1 {
		refresh = pendingRefreshSeconds
	}
	s.render(w, r, "dashboard.html", dashboardPage{
		Lang:    s.loc.Tag().String(),
		Refresh: refresh,
		View:    v,
	})
}

func (s *Site) handleDashboardJSON(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.monitor.Snapshot())
}

type testPage struct {
	Lang    string
	Refresh int
	Cards   []console.Card
}

func (s *Site) handleTest(w http.ResponseWriter, r *http.Request) {
	cards := s.console.Snapshot()
	page := testPage{Lang: s.loc.Tag().String(), Cards: cards}
	for _, c := range cards {
		if c.Loading {
			page.Refresh = pendingRefreshSeconds
			break
		}
	}
	s.render(w, r, "test.html", page)
}

type testSnapshot struct {
	Cards []console.Card `json:"cards"`
}

func (s *Site) handleTestJSON(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, testSnapshot{Cards: s.console.Snapshot()})
}

func (s *Site) handleTrigger(w http.ResponseWriter, r *http.Request) {
	kind, err := types.ParseKind(r.PathValue("kind"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if err := s.console.Trigger(s.ctx, kind); err != nil {
		if errors.Is(err, types.ErrUnknownKind) {
			http.NotFound(w, r)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/test", http.StatusSeeOther)
}

func (s *Site) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	var buf bytes.Buffer
	if err := s.pages.ExecuteTemplate(&buf, name, data); err != nil {
		s.logger.Error(r.Context(), "render page",
			logger.String("page", name),
			logger.String("request_id", api.RequestIDFrom(r.Context())),
			logger.Error(fmt.Errorf("%w: %w", ErrRender, err)))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
