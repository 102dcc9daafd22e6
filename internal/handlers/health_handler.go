package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"
)

// Pinger is a backend that can report whether it is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function such as (*sql.DB).PingContext to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

type HealthHandler struct {
	checks map[string]Pinger
	logger *zap.Logger
}

// NewHealthHandler checks every named backend on each readiness request.
func NewHealthHandler(checks map[string]Pinger, logger *zap.Logger) *HealthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HealthHandler{checks: checks, logger: logger}
}

// Ready handles GET /healthz
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{}
	code := http.StatusOK
	for name, check := range h.checks {
		if err := check.Ping(r.Context()); err != nil {
			h.logger.Warn("readiness check failed", zap.String("backend", name), zap.Error(err))
			status[name] = "unavailable"
			code = http.StatusServiceUnavailable
			continue
		}
		status[name] = "ok"
	}
	writeJSON(w, code, status, h.logger)
}
