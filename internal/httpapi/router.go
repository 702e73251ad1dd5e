package httpapi

import "net/http"

// NewMux returns the raw mux so main() can still attach /shutdown (needs srv+token).
func NewMux(d Deps) *http.ServeMux {
	mux := http.NewServeMux()

	// Pipeline runs
	rh := RunHandler{Runner: d.Runner, RunStatus: d.RunStatus, DB: d.DB}
	mux.HandleFunc("/run", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: rh.Trigger,
	}))
	mux.HandleFunc("/run/status", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: rh.Status,
	}))

	// Postings
	ph := PostingsHandler{DB: d.DB, Hub: d.Hub}
	mux.HandleFunc("/postings", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ph.List,
	}))
	mux.HandleFunc("/postings/", methodMux(map[string]http.HandlerFunc{
		http.MethodDelete: ph.DeleteByPath, // expects /postings/{id}
	}))

	// Exclusion policy
	xh := ExclusionsHandler{Policy: d.Policy, Hub: d.Hub}
	mux.HandleFunc("/exclusions", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: xh.Get,
	}))
	mux.HandleFunc("/exclusions/", methodMux(map[string]http.HandlerFunc{
		http.MethodPut: xh.AddWord, // expects /exclusions/{category}
	}))

	// Config
	ch := ConfigHandler{
		CfgVal:      d.CfgVal,
		UserCfgPath: d.UserCfgPath,
		LoadCfg:     d.LoadCfg,
	}
	mux.HandleFunc("/config", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Get,
		http.MethodPut: ch.Put,
	}))
	mux.HandleFunc("/config/path", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Path,
	}))

	// Secrets (use cfgVal, NOT a snapshot cfg)
	sh := SecretsHandler{CfgVal: d.CfgVal}
	mux.HandleFunc("/api/secrets/imap", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: sh.SetIMAPPassword,
	}))
	mux.HandleFunc("/api/secrets/telegram", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: sh.SetTelegramToken,
	}))
	mux.HandleFunc("/api/secrets/inference", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: sh.SetInferenceToken,
	}))

	// SSE events
	eh := EventsHandler{Hub: d.Hub}
	mux.HandleFunc("/events", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: eh.ServeSSE,
	}))

	// Maintenance (localhost only)
	mh := MaintenanceHandler{DB: d.DB, Loc: d.Loc, Hub: d.Hub}
	mux.HandleFunc("/db/purge", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: mh.Purge,
	}))
	mux.HandleFunc("/db/checkpoint", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: mh.Checkpoint,
	}))

	hh := HealthHandler{DB: d.DB, Started: d.Started}
	mux.HandleFunc("/healthz", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: hh.Health,
	}))

	return mux
}
