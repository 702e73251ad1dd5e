package httpapi

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"time"

	"jobscout-engine/internal/pipeline"
	"jobscout-engine/internal/store"
)

type RunHandler struct {
	Runner    RunTrigger
	RunStatus *atomic.Value // httpapi.RunStatus
	DB        *store.DB
}

func (h RunHandler) Status(w http.ResponseWriter, r *http.Request) {
	st := h.RunStatus.Load().(RunStatus)
	st.Running = h.Runner.Running()

	lastRun, err := h.DB.LastRun()
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "store_error", err.Error())
		return
	}
	writeJSON(w, map[string]any{
		"status":   st,
		"last_run": lastRun,
	})
}

// Trigger kicks off a pipeline run in the background. A second trigger while
// a run is in flight gets a conflict instead of a second run.
func (h RunHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	if h.Runner.Running() {
		WriteError(w, r, http.StatusConflict, "already_running", "a pipeline run is already in progress")
		return
	}

	st := h.RunStatus.Load().(RunStatus)
	h.RunStatus.Store(RunStatus{
		LastRunAt: time.Now().Format(time.RFC3339),
		Running:   true,
		LastError: "",
		LastOkAt:  st.LastOkAt,
	})

	go func() {
		err := h.Runner.Run(context.Background())

		now := time.Now().Format(time.RFC3339)
		next := h.RunStatus.Load().(RunStatus)
		next.Running = false
		next.LastRunAt = now
		switch {
		case errors.Is(err, pipeline.ErrAlreadyRunning):
			// lost a race with the scheduler; not a failure of this run
		case err != nil:
			next.LastError = err.Error()
		default:
			next.LastError = ""
			next.LastOkAt = now
		}
		h.RunStatus.Store(next)
	}()

	writeJSON(w, map[string]any{"ok": true})
}
