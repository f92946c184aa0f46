package api

import (
	"context"
	"net/http"
)

// Pinger reports store reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles health check requests.
type HealthHandler struct {
	pinger Pinger
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(p Pinger) *HealthHandler {
	return &HealthHandler{pinger: p}
}

type healthResponse struct {
	Status string `json:"status"`
}

// HandleHealth handles GET /healthz requests. It answers 503 when the store
// cannot be reached.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	const op = "api.healthz"
	if err := h.pinger.Ping(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, codeUnavailable, WrapKind(op, ErrStore, err))
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}
