// Command biz serves the connectivity API: health summary plus Redis,
// MySQL and combined connectivity tests.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/biz/internal/adapters/http/api"
	"github.com/okian/biz/internal/adapters/http/swagger"
	"github.com/okian/biz/internal/adapters/repository"
	service "github.com/okian/biz/internal/app"
	"github.com/okian/biz/internal/config"
	"github.com/okian/biz/internal/i18n"
	"github.com/okian/biz/pkg/logger"
	"github.com/okian/biz/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout           = 10 * time.Second
	writeTimeout          = 30 * time.Second
	idleTimeout           = 60 * time.Second
	readHeaderTimeout     = 5 * time.Second
	shutdownTimeout       = 30 * time.Second
	connectTimeout        = 5 * time.Second
	connMaxLifetime       = 30 * time.Minute
	systemMetricsInterval = 10 * time.Second
)

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.Named("biz")

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		log.Error(ctx, "failed to load config", logger.Error(err))
		os.Exit(1)
	}

	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	loc, err := i18n.New(cfg.Locale)
	if err != nil {
		log.Error(ctx, "failed to select locale", logger.Error(err))
		os.Exit(1)
	}

	svc := newService(ctx, cfg, loc, log)
	defer func() {
		if err := svc.Close(); err != nil {
			log.Warn(ctx, "closing stores", logger.Error(err))
		}
	}()

	go metrics.RunSystemUpdater(ctx, systemMetricsInterval)

	mux, err := newMux(ctx, svc)
	if err != nil {
		log.Error(ctx, "failed to build routes", logger.Error(err))
		return
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
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

	log.Info(ctx, "server stopped")
}

// newService connects to Redis and MySQL. Neither failure is fatal: a Redis
// client is kept even when the first ping fails, while a MySQL store that
// cannot be opened is left out and reported as not initialized.
func newService(ctx context.Context, cfg *config.Config, loc *i18n.Localizer, log logger.Logger) *service.Service {
	storeLog := log.Named("repository")
	opts := []service.Option{
		service.WithLogger(log.Named("service")),
		service.WithServiceName(cfg.ServiceName),
		service.WithLocalizer(loc),
	}

	redisStore := repository.NewRedisStore(redisConfig(cfg), repository.WithLogger(storeLog))
	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := redisStore.Ping(pingCtx); err != nil {
		log.Warn(ctx, "redis connection failed", logger.String("addr", redisConfig(cfg).Addr()), logger.Error(err))
	} else {
		log.Info(ctx, "redis connected", logger.String("addr", redisConfig(cfg).Addr()))
	}
	opts = append(opts, service.WithCache(redisStore))

	mysqlStore, err := repository.OpenMySQL(mysqlConfig(cfg),
		repository.WithLogger(storeLog),
		repository.WithPool(cfg.DBMaxOpenConns, cfg.DBMaxIdleConns, connMaxLifetime))
	if err != nil {
		log.Warn(ctx, "mysql connection failed", logger.String("host", cfg.DBHost), logger.Error(err))
	} else {
		log.Info(ctx, "mysql connected", logger.String("host", cfg.DBHost))
		opts = append(opts, service.WithRecords(mysqlStore))
	}

	return service.New(opts...)
}

// newMux registers the API and docs routes.
func newMux(ctx context.Context, deps api.Dependencies) (*http.ServeMux, error) {
	mux := http.NewServeMux()
	swagger.Register(ctx, mux)

	apiServer, err := api.NewServer(deps)
	if err != nil {
		return nil, err
	}
	apiServer.Register(ctx, mux)
	return mux, nil
}

func redisConfig(cfg *config.Config) repository.RedisConfig {
	return repository.RedisConfig{
		Host:     cfg.RedisHost,
		Port:     cfg.RedisPort,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}
}

func mysqlConfig(cfg *config.Config) repository.MySQLConfig {
	return repository.MySQLConfig{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		Database: cfg.DBName,
	}
}
