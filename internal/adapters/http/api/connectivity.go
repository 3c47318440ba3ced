package api

import (
	"net/http"
)

// ConnectivityHandler serves the Redis, MySQL and combined tests.
type ConnectivityHandler struct {
	deps Dependencies
}

// NewConnectivityHandler creates a new connectivity handler.
func NewConnectivityHandler(deps Dependencies) *ConnectivityHandler {
	return &ConnectivityHandler{deps: deps}
}

// HandleRedis handles GET /api/test-redis.
func (h *ConnectivityHandler) HandleRedis(w http.ResponseWriter, r *http.Request) {
	res, err := h.deps.TestRedis(r.Context())
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleMySQL handles GET /api/test-mysql.
func (h *ConnectivityHandler) HandleMySQL(w http.ResponseWriter, r *http.Request) {
	res, err := h.deps.TestMySQL(r.Context())
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleAll handles GET /api/test-all. Per-dependency failures are part of
// the body, so it always answers 200.
func (h *ConnectivityHandler) HandleAll(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.TestAll(r.Context()))
}
