package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"jobscout-engine/internal/events"
	"jobscout-engine/internal/policy"
)

type ExclusionsHandler struct {
	Policy *policy.Store
	Hub    *events.Hub
}

func (h ExclusionsHandler) Get(w http.ResponseWriter, r *http.Request) {
	pol, err := h.Policy.Load()
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "policy_error", err.Error())
		return
	}
	writeJSON(w, pol)
}

type addWordReq struct {
	Word string `json:"word"`
}

// AddWord appends one exclusion word, e.g.
// PUT /exclusions/company with {"word":"Acme"}.
func (h ExclusionsHandler) AddWord(w http.ResponseWriter, r *http.Request) {
	cat, err := policy.ParseCategory(strings.TrimPrefix(r.URL.Path, "/exclusions/"))
	if err != nil {
		WriteError(w, r, http.StatusBadRequest, "bad_category", err.Error())
		return
	}

	var req addWordReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}
	if strings.TrimSpace(req.Word) == "" {
		WriteError(w, r, http.StatusBadRequest, "bad_word", "word is empty")
		return
	}

	if err := h.Policy.AddExcludedWord(cat, req.Word); err != nil {
		WriteError(w, r, http.StatusInternalServerError, "policy_error", err.Error())
		return
	}

	h.Hub.Emit(RequestIDFrom(r.Context()), "exclusion_added", map[string]any{
		"category": string(cat),
		"word":     req.Word,
	})
	w.WriteHeader(http.StatusNoContent)
}
