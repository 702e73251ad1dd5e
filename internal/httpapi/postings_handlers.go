package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"jobscout-engine/internal/domain"
	"jobscout-engine/internal/events"
	"jobscout-engine/internal/store"
)

type PostingsHandler struct {
	DB  *store.DB
	Hub *events.Hub
}

// List returns the records sitting at one stage, e.g.
// GET /postings?stage=ready_to_send&discarded=false.
func (h PostingsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	stage, err := domain.ParseStage(q.Get("stage"))
	if err != nil {
		WriteError(w, r, http.StatusBadRequest, "bad_stage", err.Error())
		return
	}
	discarded := false
	if v := q.Get("discarded"); v != "" {
		discarded, err = strconv.ParseBool(v)
		if err != nil {
			WriteError(w, r, http.StatusBadRequest, "bad_query", "discarded must be a bool")
			return
		}
	}

	recs, err := h.DB.QueryByStage(stage, discarded)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "store_error", err.Error())
		return
	}
	if recs == nil {
		recs = []store.Record{}
	}
	writeJSON(w, recs)
}

func (h PostingsHandler) DeleteByPath(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/postings/")
	if id == "" {
		WriteError(w, r, http.StatusBadRequest, "bad_id", "missing posting id")
		return
	}

	if err := h.DB.DeletePosting(id); err != nil {
		WriteError(w, r, http.StatusInternalServerError, "store_error", err.Error())
		return
	}

	h.Hub.Emit(RequestIDFrom(r.Context()), "posting_deleted", map[string]any{"id": id})
	writeJSON(w, map[string]any{"ok": true, "id": id})
}
