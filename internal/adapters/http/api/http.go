// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/biz/internal/domain/model"
	"github.com/okian/biz/internal/domain/types"
)

// Dependencies required by HTTP handlers. The connectivity service
// satisfies it.
type Dependencies interface {
	Health(ctx context.Context) types.HealthStatus
	TestRedis(ctx context.Context) (*model.RedisTestResult, error)
	TestMySQL(ctx context.Context) (*model.MySQLTestResult, error)
	TestAll(ctx context.Context) model.AllTestResult
}

// Server wires HTTP routes for the biz API.
type Server struct {
	healthHandler       *HealthHandler
	connectivityHandler *ConnectivityHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies) (*Server, error) {
	if deps == nil {
		return nil, ErrNilDependencies
	}
	return &Server{
		healthHandler:       NewHealthHandler(deps),
		connectivityHandler: NewConnectivityHandler(deps),
	}, nil
}

// Register attaches all HTTP routes to mux. The /health and /test-* routes
// mirror their /api counterparts for direct callers such as container
// health checks.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}

	route := func(pattern, endpoint string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, MetricsMiddleware(RequestID(GetOnly(h)), endpoint))
	}

	route("/ping", "ping", s.healthHandler.HandlePing)
	route("/metrics", "metrics", s.healthHandler.HandleMetrics)

	for _, prefix := range []string{"/api", ""} {
		route(prefix+"/health", "health", s.healthHandler.HandleHealth)
		route(prefix+"/test-redis", "test_redis", s.connectivityHandler.HandleRedis)
		route(prefix+"/test-mysql", "test_mysql", s.connectivityHandler.HandleMySQL)
		route(prefix+"/test-all", "test_all", s.connectivityHandler.HandleAll)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes {"error": msg}, the shape the console reads on non-2xx.
func writeError(w http.ResponseWriter, status int, err error) {
	msg := http.StatusText(status)
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	writeJSON(w, status, types.ErrorBody{Error: msg})
}

// statusFor maps a service error to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, types.ErrNotInitialized):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
