package httpapi

import (
	"context"
	"net/http"
	"time"

	"jobscout-engine/internal/store"
)

type HealthHandler struct {
	DB      *store.DB
	Started time.Time
}

// Health pings the store so a wedged database shows up as a 503.
func (h HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.DB.Pool.PingContext(ctx); err != nil {
		WriteError(w, r, http.StatusServiceUnavailable, "store_unavailable", err.Error())
		return
	}
	writeJSON(w, map[string]any{
		"ok":             true,
		"uptime_seconds": int(time.Since(h.Started).Seconds()),
	})
}
