package httpapi

import (
	"encoding/json"
	"net/http"
	"sync/atomic"

	"jobscout-engine/internal/config"
	"jobscout-engine/internal/secrets"
)

type SecretsHandler struct {
	CfgVal *atomic.Value // stores config.Config
}

type setSecretReq struct {
	Value string `json:"value"`
}

func (h SecretsHandler) SetIMAPPassword(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeSecret(w, r)
	if !ok {
		return
	}
	cfg := h.CfgVal.Load().(config.Config)
	if err := secrets.SetIMAPPassword(cfg.Email.Username, cfg.Email.IMAPHost, req.Value); err != nil {
		WriteError(w, r, http.StatusBadRequest, "keyring_error", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h SecretsHandler) SetTelegramToken(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeSecret(w, r)
	if !ok {
		return
	}
	if err := secrets.SetTelegramToken(req.Value); err != nil {
		WriteError(w, r, http.StatusBadRequest, "keyring_error", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h SecretsHandler) SetInferenceToken(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeSecret(w, r)
	if !ok {
		return
	}
	if err := secrets.SetInferenceToken(req.Value); err != nil {
		WriteError(w, r, http.StatusBadRequest, "keyring_error", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func decodeSecret(w http.ResponseWriter, r *http.Request) (setSecretReq, bool) {
	var req setSecretReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "bad_json", "invalid json")
		return req, false
	}
	return req, true
}
