package httpapi

import (
	"net"
	"net/http"
	"time"

	"jobscout-engine/internal/events"
	"jobscout-engine/internal/store"
)

type MaintenanceHandler struct {
	DB  *store.DB
	Loc *time.Location
	Hub *events.Hub
}

// Purge removes records past their retention date. Localhost only.
func (h MaintenanceHandler) Purge(w http.ResponseWriter, r *http.Request) {
	if !isLocal(r) {
		WriteError(w, r, http.StatusForbidden, "forbidden", "localhost only")
		return
	}

	n, err := h.DB.PurgeExpired(time.Now().In(h.Loc))
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "store_error", err.Error())
		return
	}

	h.Hub.Emit(RequestIDFrom(r.Context()), "postings_purged", map[string]any{"purged": n})
	writeJSON(w, map[string]any{"purged": n})
}

// Checkpoint forces a WAL checkpoint. Localhost only.
func (h MaintenanceHandler) Checkpoint(w http.ResponseWriter, r *http.Request) {
	if !isLocal(r) {
		WriteError(w, r, http.StatusForbidden, "forbidden", "localhost only")
		return
	}

	if err := h.DB.Checkpoint(); err != nil {
		WriteError(w, r, http.StatusInternalServerError, "store_error", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func isLocal(r *http.Request) bool {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return host == "127.0.0.1" || host == "::1" || host == "localhost"
}
