package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"pixelforge/internal/gateway/repository/prefs"
	"pixelforge/internal/preview"
)

// PrefsHandler serves per-user workspace settings.
type PrefsHandler struct {
	store prefs.Store
}

func NewPrefsHandler(store prefs.Store) *PrefsHandler {
	return &PrefsHandler{store: store}
}

func userID(r *http.Request) string {
	// Single-user deployments run without auth; a reverse proxy may inject
	// the header.
	if v := strings.TrimSpace(r.Header.Get("X-User-Id")); v != "" {
		return v
	}
	return "default"
}

func (h *PrefsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	p, err := h.store.Get(r.Context(), userID(r))
	if errors.Is(err, prefs.ErrNotFound) {
		p = prefs.Preferences{UserID: userID(r), Viewport: string(preview.ViewportDesktop)}
	} else if err != nil {
		writeError(w, err)
		return
	}
	// The token never leaves the server; only report whether one is set.
	hasToken := p.FigmaToken != ""
	p.FigmaToken = ""
	writeJSON(w, http.StatusOK, map[string]any{
		"preferences":     p,
		"figma_token_set": hasToken,
	})
}

func (h *PrefsHandler) HandlePut(w http.ResponseWriter, r *http.Request) {
	var req prefs.Preferences
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	req.UserID = userID(r)
	if req.Viewport != "" {
		if _, err := preview.ParseViewport(req.Viewport); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
	}
	if req.FigmaToken == "" {
		// Keep an already stored token when the client omits it.
		if cur, err := h.store.Get(r.Context(), req.UserID); err == nil {
			req.FigmaToken = cur.FigmaToken
		}
	}
	if err := h.store.Save(r.Context(), req); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
