package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hongminglow/sg-web/internal/backend"
	"github.com/hongminglow/sg-web/internal/http/respond"
	"github.com/hongminglow/sg-web/internal/models"
)

const backendProbeTimeout = 2 * time.Second

// PriceSource is the public backend call used to probe reachability.
type PriceSource interface {
	Price(ctx context.Context) (models.TradePrice, error)
}

// HealthHandler reports uptime and whether the backend answers.
type HealthHandler struct {
	startedAt time.Time
	probe     PriceSource
}

// NewHealthHandler creates a health endpoint handler. A nil probe skips the backend check.
func NewHealthHandler(startedAt time.Time, probe PriceSource) *HealthHandler {
	return &HealthHandler{startedAt: startedAt, probe: probe}
}

// Register wires the handler into the router.
func (h *HealthHandler) Register(r chi.Router) {
	r.Get("/health", h.handle)
}

func (h *HealthHandler) handle(w http.ResponseWriter, r *http.Request) {
	body := map[string]string{
		"status":  "ok",
		"uptime":  time.Since(h.startedAt).Truncate(time.Second).String(),
		"backend": "unchecked",
	}
	status := http.StatusOK

	if h.probe != nil {
		ctx, cancel := context.WithTimeout(r.Context(), backendProbeTimeout)
		defer cancel()
		body["backend"] = "up"
		// A refusal still proves the backend is there.
		if _, err := h.probe.Price(ctx); err != nil && backend.KindOf(err) == backend.KindNetwork {
			body["backend"] = "down"
			body["status"] = "degraded"
			status = http.StatusServiceUnavailable
		}
	}
	respond.JSON(w, status, body["status"], body)
}
