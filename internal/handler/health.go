package handler

import (
	"context"
	"net/http"
	"time"
)

// HealthChecker is anything /readyz can ping.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Dependency is one named readiness check. A nil Checker is reported as
// "not configured" and does not fail readiness.
type Dependency struct {
	Name    string
	Checker HealthChecker
}

// HealthHandler serves /healthz and /readyz.
type HealthHandler struct {
	deps    []Dependency
	timeout time.Duration
}

// NewHealthHandler checks deps in the given order on every /readyz call.
func NewHealthHandler(deps ...Dependency) *HealthHandler {
	return &HealthHandler{deps: deps, timeout: 5 * time.Second}
}

// HealthResponse is the body of both health endpoints.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Healthz handles GET /healthz. It never touches a dependency.
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// Readyz handles GET /readyz: 200 when every configured dependency
// (Postgres, the trip ledger file, Redis) answers, 503 otherwise.
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	resp := HealthResponse{Status: "ok", Checks: make(map[string]string, len(h.deps))}
	code := http.StatusOK

	for _, dep := range h.deps {
		switch err := ping(ctx, dep.Checker); {
		case dep.Checker == nil:
			resp.Checks[dep.Name] = "not configured"
		case err != nil:
			resp.Checks[dep.Name] = "error: " + err.Error()
			resp.Status = "unhealthy"
			code = http.StatusServiceUnavailable
		default:
			resp.Checks[dep.Name] = "ok"
		}
	}

	writeJSON(w, code, resp)
}

func ping(ctx context.Context, c HealthChecker) error {
	if c == nil {
		return nil
	}
	return c.Ping(ctx)
}
