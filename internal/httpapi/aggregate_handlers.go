package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"jobradar-engine/internal/aggregate"
	"jobradar-engine/internal/config"
)

type AggregateHandler struct {
	CfgVal    *atomic.Value // config.Config
	AggStatus *atomic.Value // httpapi.AggregateStatus

	Run func(ctx context.Context, cfg config.Config, opts aggregate.Options) (aggregate.Result, error)
}

func (h AggregateHandler) Status(w http.ResponseWriter, r *http.Request) {
	st := h.AggStatus.Load().(AggregateStatus)
	writeJSON(w, st)
}

type runRequest struct {
	Keywords  string `json:"keywords"`  // comma-separated override
	Locations string `json:"locations"` // comma-separated override
	Owner     string `json:"owner"`
}

// Trigger kicks off one aggregation pass in the background. Only one pass
// runs at a time; a second trigger while running is refused, not queued.
func (h AggregateHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	var req runRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req) // empty body means defaults
	}

	st := h.AggStatus.Load().(AggregateStatus)
	if st.Running {
		writeJSON(w, map[string]any{"ok": false, "msg": "already running"})
		return
	}

	h.AggStatus.Store(AggregateStatus{
		LastRunAt: time.Now().Format(time.RFC3339),
		Running:   true,
		LastOkAt:  st.LastOkAt,
	})

	opts := aggregate.Options{
		Keywords:  splitCSV(req.Keywords),
		Locations: splitCSV(req.Locations),
		Owner:     req.Owner,
	}

	go func() {
		cfg := h.CfgVal.Load().(config.Config)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		res, err := h.Run(ctx, cfg, opts)

		now := time.Now().Format(time.RFC3339)
		next := h.AggStatus.Load().(AggregateStatus)
		next.Running = false
		next.LastRunAt = now
		next.LastAdded = res.Added
		if err != nil {
			next.LastError = err.Error()
		} else {
			next.LastError = ""
			next.LastOkAt = now
		}
		h.AggStatus.Store(next)
	}()

	writeJSON(w, map[string]any{"ok": true})
}

func splitCSV(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
