package api

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const pingTimeout = 2 * time.Second

type healthHandler struct {
	responder   Responder
	logger      zerolog.Logger
	pinger      Pinger
	startupTime time.Time
}

func newHealthHandler(pinger Pinger, startupTime time.Time) healthHandler {
	logger := log.With().Str("handlerName", "healthHandler").Logger()

	return healthHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		pinger:      pinger,
		startupTime: startupTime,
	}
}

// HealthResponse reports liveness. The service stays up while the primary
// store is down because reads fall back to the bundled dataset.
type HealthResponse struct {
	Status       string `json:"status"`
	PrimaryStore string `json:"primaryStore"`
	Uptime       string `json:"uptime"`
}

// getHealth
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h healthHandler) getHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := HealthResponse{
			Status:       "ok",
			PrimaryStore: "disabled",
			Uptime:       time.Since(h.startupTime).Round(time.Second).String(),
		}

		if h.pinger != nil {
			ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
			defer cancel()
			if err := h.pinger.Ping(ctx); err != nil {
				h.logger.Warn().Err(err).Msg("primary store ping failed")
				resp.Status = "degraded"
				resp.PrimaryStore = "down"
			} else {
				resp.PrimaryStore = "up"
			}
		}

		h.responder.WriteJSON(w, resp)
	}
}
