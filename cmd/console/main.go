// Command console serves the health dashboard and the connectivity test
// pages on top of the biz API.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/biz/internal/adapters/http/site"
	"github.com/okian/biz/internal/client"
	"github.com/okian/biz/internal/config"
	"github.com/okian/biz/internal/console"
	"github.com/okian/biz/internal/i18n"
	"github.com/okian/biz/internal/monitor"
	"github.com/okian/biz/pkg/logger"
	"github.com/okian/biz/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout           = 10 * time.Second
	writeTimeout          = 10 * time.Second
	idleTimeout           = 60 * time.Second
	readHeaderTimeout     = 5 * time.Second
	shutdownTimeout       = 30 * time.Second
	systemMetricsInterval = 10 * time.Second
)

// views bundles what the console serves.
type views struct {
	monitor *monitor.Monitor
	console *console.Console
	site    *site.Site
}

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.Named("console")

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Error(ctx, "failed to load config", logger.Error(err))
		os.Exit(1)
	}

	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	v, err := newViews(cfg, log)
	if err != nil {
		log.Error(ctx, "failed to build views", logger.Error(err))
		os.Exit(1)
	}

	if err := v.monitor.Start(ctx); err != nil {
		log.Error(ctx, "failed to start health monitor", logger.Error(err))
		os.Exit(1)
	}

	go metrics.RunSystemUpdater(ctx, systemMetricsInterval)

	mux := http.NewServeMux()
	v.site.Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.ConsoleAddr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server",
			logger.String("addr", cfg.ConsoleAddr),
			logger.String("api_base_url", cfg.APIBaseURL))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "HTTP server failed", logger.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	// ctx is done, so outstanding requests abort promptly.
	v.monitor.Stop()
	v.monitor.Wait()
	v.console.Wait()

	log.Info(ctx, "server stopped")
}

// newViews wires the API client into the monitor, the console and the site.
func newViews(cfg *config.Config, log logger.Logger) (*views, error) {
	loc, err := i18n.New(cfg.Locale)
	if err != nil {
		return nil, err
	}

	api, err := client.New(cfg.APIBaseURL, client.WithLocalizer(loc))
	if err != nil {
		return nil, err
	}

	mon, err := monitor.New(api,
		monitor.WithInterval(cfg.PollInterval()),
		monitor.WithLocalizer(loc),
		monitor.WithLogger(log.Named("monitor")))
	if err != nil {
		return nil, fmt.Errorf("monitor: %w", err)
	}

	con, err := console.New(api,
		console.WithLocalizer(loc),
		console.WithLogger(log.Named("tests")))
	if err != nil {
		return nil, fmt.Errorf("console: %w", err)
	}

	s, err := site.New(mon, con,
		site.WithLocalizer(loc),
		site.WithLogger(log.Named("site")))
	if err != nil {
		return nil, fmt.Errorf("site: %w", err)
	}

	return &views{monitor: mon, console: con, site: s}, nil
}
