package handlers

import (
	"net/http"
	"storefront-delivery-service/internal/api/dto"
	"time"
)

type HealthHandler struct {
	Version   string
	StartedAt time.Time
}

// Health provides a minimal liveness check endpoint.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	writeJSON(w, r, http.StatusOK, dto.HealthResponse{
		Status:        "ok",
		Version:       h.Version,
		UptimeSeconds: int64(now.Sub(h.StartedAt).Seconds()),
		Timestamp:     now.UTC().Format(time.RFC3339),
	})
}
