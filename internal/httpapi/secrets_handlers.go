package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"
)

type SecretsHandler struct {
	SetSourceToken func(sourceName, token string) error
}

type sourceTokenRequest struct {
	Source string `json:"source"`
	Token  string `json:"token"`
}

// SetToken stores a source API token in the OS keychain. The token never
// touches the config file or the database.
func (h SecretsHandler) SetToken(w http.ResponseWriter, r *http.Request) {
	var req sourceTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "bad_body", "invalid JSON: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Source) == "" || strings.TrimSpace(req.Token) == "" {
		WriteError(w, r, http.StatusBadRequest, "bad_body", "source and token are required")
		return
	}

	if err := h.SetSourceToken(req.Source, req.Token); err != nil {
		WriteError(w, r, http.StatusInternalServerError, "keyring_error", err.Error())
		return
	}
	writeJSON(w, map[string]any{"ok": true})
}
