package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/okian/biz/internal/domain/types"
	"github.com/okian/biz/pkg/metrics"
)

type pingResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}

// HealthHandler handles liveness, health and metrics requests.
type HealthHandler struct {
	deps    Dependencies
	metrics http.Handler
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(deps Dependencies) *HealthHandler {
	return &HealthHandler{
		deps:    deps,
		metrics: promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}),
	}
}

// HandlePing handles GET /ping. It never touches the dependencies.
func (h *HealthHandler) HandlePing(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, pingResponse{Message: "pong", Status: types.StatusHealthy})
}

// HandleHealth handles GET /api/health. It always answers 200; dependency
// state is reported in the body.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.Health(r.Context()))
}

// HandleMetrics serves the custom Prometheus registry.
func (h *HealthHandler) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	h.metrics.ServeHTTP(w, r)
}
