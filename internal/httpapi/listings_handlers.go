package httpapi

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strings"

	"jobradar-engine/internal/domain"
	"jobradar-engine/internal/events"
	"jobradar-engine/internal/feed"
	"jobradar-engine/internal/store"
)

type ListingsHandler struct {
	DB   *sql.DB
	Hub  *events.Hub
	Feed *feed.Service
}

// List serves the mixed feed with conditional-fetch semantics: a client
// replaying the ETag of an unchanged collection gets 304 and no body.
func (h ListingsHandler) List(w http.ResponseWriter, r *http.Request) {
	q, err := feed.ParseQuery(r.URL.Query())
	if err != nil {
		WriteError(w, r, http.StatusBadRequest, "bad_query", err.Error())
		return
	}

	resp, token, err := h.Feed.Feed(r.Context(), q)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "feed_failed", err.Error())
		return
	}

	etag := `"` + token + `"`
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "private, max-age=5")
	if !resp.LastUpdated.IsZero() {
		w.Header().Set("Last-Modified", resp.LastUpdated.UTC().Format(http.TimeFormat))
	}

	if match := strings.TrimSpace(r.Header.Get("If-None-Match")); match != "" && match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	writeJSON(w, resp)
}

type statusPatch struct {
	Status string `json:"status"`
}

// PatchByPath updates one listing's status; expects /listings/{id}.
func (h ListingsHandler) PatchByPath(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/listings/")
	if id == "" {
		WriteError(w, r, http.StatusBadRequest, "bad_id", "missing listing id")
		return
	}

	var p statusPatch
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		WriteError(w, r, http.StatusBadRequest, "bad_body", "invalid JSON: "+err.Error())
		return
	}
	if !domain.ValidStatus(p.Status) {
		WriteError(w, r, http.StatusBadRequest, "bad_status", "unknown status "+p.Status)
		return
	}

	owner := r.URL.Query().Get("owner")
	ok, err := store.UpdateStatus(r.Context(), h.DB, owner, id, p.Status)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "store_error", err.Error())
		return
	}
	if !ok {
		WriteError(w, r, http.StatusNotFound, "not_found", "no such listing")
		return
	}

	reqID := RequestIDFrom(r.Context())
	h.Hub.Publish(events.Make(reqID, events.TypeListingUpdated, map[string]any{"id": id, "status": p.Status}))
	writeJSON(w, map[string]any{"ok": true, "id": id, "status": p.Status})
}

// DeleteByPath removes one listing; expects /listings/{id}.
func (h ListingsHandler) DeleteByPath(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/listings/")
	if id == "" {
		WriteError(w, r, http.StatusBadRequest, "bad_id", "missing listing id")
		return
	}

	owner := r.URL.Query().Get("owner")
	ok, err := store.DeleteListing(r.Context(), h.DB, owner, id)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "store_error", err.Error())
		return
	}
	if !ok {
		WriteError(w, r, http.StatusNotFound, "not_found", "no such listing")
		return
	}

	reqID := RequestIDFrom(r.Context())
	h.Hub.Publish(events.Make(reqID, events.TypeListingDeleted, map[string]any{"id": id}))
	writeJSON(w, map[string]any{"ok": true, "id": id})
}
