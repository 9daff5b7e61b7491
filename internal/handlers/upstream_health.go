package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/bobmcallan/vire-options/internal/common"
	"github.com/bobmcallan/vire-options/internal/interfaces"
)

// UpstreamHealthHandler reports whether Alpha Vantage is reachable.
type UpstreamHealthHandler struct {
	logger   *common.Logger
	upstream interfaces.UpstreamPinger
	timeout  time.Duration
}

// NewUpstreamHealthHandler creates a new upstream health handler.
func NewUpstreamHealthHandler(logger *common.Logger, upstream interfaces.UpstreamPinger) *UpstreamHealthHandler {
	return &UpstreamHealthHandler{logger: logger, upstream: upstream, timeout: 3 * time.Second}
}

// ServeHTTP handles GET /api/upstream-health.
func (h *UpstreamHealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.upstream.Ping(ctx); err != nil {
		h.logger.Warn().Err(err).Msg("Alpha Vantage unreachable")
		WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status":   "down",
			"upstream": "alphavantage",
		})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"status":   "ok",
		"upstream": "alphavantage",
	})
}
