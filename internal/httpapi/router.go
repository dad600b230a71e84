package httpapi

import "net/http"

// NewMux wires every handler; main() wraps the result in the middleware
// chain and owns the server lifecycle.
func NewMux(d Deps) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: HealthHandler{}.Health,
	}))

	// Feed
	lh := ListingsHandler{DB: d.DB, Hub: d.Hub, Feed: d.Feed}
	mux.HandleFunc("/listings", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: lh.List,
	}))
	mux.HandleFunc("/listings/", methodMux(map[string]http.HandlerFunc{
		http.MethodPatch:  lh.PatchByPath,
		http.MethodDelete: lh.DeleteByPath,
	}))

	// Aggregation
	ah := AggregateHandler{
		CfgVal:    d.CfgVal,
		AggStatus: d.AggStatus,
		Run:       d.RunAggregation,
	}
	mux.HandleFunc("/aggregate/run", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: ah.Trigger,
	}))
	mux.HandleFunc("/aggregate/status", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ah.Status,
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

	// Secrets (keychain, not config)
	sh := SecretsHandler{SetSourceToken: d.SetSourceToken}
	mux.HandleFunc("/api/secrets/source", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: sh.SetToken,
	}))

	// SSE events
	eh := EventsHandler{Hub: d.Hub}
	mux.HandleFunc("/events", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: eh.ServeSSE,
	}))

	return mux
}
