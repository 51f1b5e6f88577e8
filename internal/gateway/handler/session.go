package handler

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"pixelforge/internal/gateway/repository/prefs"
	"pixelforge/internal/gateway/session"
	"pixelforge/internal/generate"
	"pixelforge/internal/preview"
)

// SessionHandler serves the REST surface of a session: lifecycle, input
// payload updates, explorer tree, preview document and archive download.
type SessionHandler struct {
	svc    *session.Service
	logger *log.Logger

	prefsStore    prefs.Store
	envFigmaToken string
}

type SessionHandlerOption func(*SessionHandler)

// WithFigmaTokenSource lets imports without an explicit token fall back to
// the user's saved preference, then the deployment-wide token.
func WithFigmaTokenSource(store prefs.Store, envToken string) SessionHandlerOption {
	return func(h *SessionHandler) {
		h.prefsStore = store
		h.envFigmaToken = envToken
	}
}

func NewSessionHandler(svc *session.Service, logger *log.Logger, opts ...SessionHandlerOption) *SessionHandler {
	if logger == nil {
		logger = log.Default()
	}
	h := &SessionHandler{svc: svc, logger: logger}
	for _, o := range opts {
		o(h)
	}
	return h
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, session.ErrNoResult),
		errors.Is(err, generate.ErrInputNotReady):
		status = http.StatusConflict
	case errors.Is(err, session.ErrModelNotOffered),
		errors.Is(err, preview.ErrNotPreviewable):
		status = http.StatusBadRequest
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

type createSessionRequest struct {
	Model              string `json:"model,omitempty"`
	Framework          string `json:"framework,omitempty"`
	Language           string `json:"language,omitempty"`
	CustomInstructions string `json:"custom_instructions,omitempty"`
}

type sessionStateResponse struct {
	SessionID   string `json:"session_id"`
	Mode        string `json:"mode"`
	Model       string `json:"model"`
	Framework   string `json:"framework"`
	Language    string `json:"language"`
	View        string `json:"view"`
	Ready       bool   `json:"ready"`
	HasResult   bool   `json:"has_result"`
	Loading     bool   `json:"loading"`
	LoadingText string `json:"loading_text,omitempty"`
	InputError  string `json:"input_error,omitempty"`
}

func (h *SessionHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if r.Body != nil {
		// An empty or malformed body means defaults.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	opts := generate.Options{
		ModelID:            req.Model,
		Framework:          generate.Framework(req.Framework),
		Language:           generate.Language(req.Language),
		CustomInstructions: req.CustomInstructions,
	}
	sess, err := h.svc.Create(opts)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, h.state(sess))
}

func (h *SessionHandler) HandleState(w http.ResponseWriter, r *http.Request) {
	sess, err := h.svc.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.state(sess))
}

func (h *SessionHandler) HandleClose(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Close(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type inputRequest struct {
	Mode string `json:"mode"`

	// image
	ImageBase64 string `json:"image_base64,omitempty"`
	ImageMIME   string `json:"image_mime,omitempty"`

	// html
	HTML string `json:"html,omitempty"`

	// url
	URL string `json:"url,omitempty"`

	// figma
	FigmaURL   string `json:"figma_url,omitempty"`
	FigmaToken string `json:"figma_token,omitempty"`

	// content
	Template string `json:"template,omitempty"`
	Content  string `json:"content,omitempty"`
	Adoption string `json:"adoption,omitempty"`
}

// HandleInput switches the session's mode and installs the mode's payload in
// one call. Switching modes discards the previous payload.
func (h *SessionHandler) HandleInput(w http.ResponseWriter, r *http.Request) {
	sess, err := h.svc.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	var req inputRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	mode, err := generate.ParseMode(req.Mode)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	in := sess.Input()
	in.SetMode(mode)
	switch mode {
	case generate.ModeImage:
		if req.ImageBase64 != "" {
			data, decErr := base64.StdEncoding.DecodeString(req.ImageBase64)
			if decErr != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "image_base64 is not valid base64"})
				return
			}
			in.SetImage(data, req.ImageMIME)
		}
	case generate.ModeHTML:
		if req.HTML != "" {
			in.SetHTML(req.HTML)
		}
	case generate.ModeURL:
		if req.URL != "" {
			in.SetURL(req.URL)
		}
	case generate.ModeFigma:
		if req.FigmaURL != "" {
			token := strings.TrimSpace(req.FigmaToken)
			if token == "" {
				token = h.figmaToken(r)
			}
			payload, impErr := h.svc.ImportFigma(r.Context(), req.FigmaURL, token)
			if impErr != nil {
				writeJSON(w, http.StatusBadGateway, map[string]string{"error": impErr.Error()})
				return
			}
			in.SetFigma(payload)
		}
	case generate.ModeContent:
		if req.Template != "" || req.Content != "" {
			adoption := generate.AdoptionImprove
			if strings.EqualFold(req.Adoption, string(generate.AdoptionStrict)) {
				adoption = generate.AdoptionStrict
			}
			in.SetContent(req.Template, req.Content, adoption)
		}
	}
	writeJSON(w, http.StatusOK, h.state(sess))
}

// figmaToken resolves the credential for an import request that carried
// none: the user's remembered token, then the server's own.
func (h *SessionHandler) figmaToken(r *http.Request) string {
	if h.prefsStore != nil {
		if p, err := h.prefsStore.Get(r.Context(), userID(r)); err == nil && p.FigmaToken != "" {
			return p.FigmaToken
		}
	}
	return h.envFigmaToken
}

type viewRequest struct {
	View string `json:"view"`
}

func (h *SessionHandler) HandleView(w http.ResponseWriter, r *http.Request) {
	sess, err := h.svc.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	var req viewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	switch generate.View(req.View) {
	case generate.ViewCode, generate.ViewPreview:
		sess.SetView(generate.View(req.View))
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "view must be code or preview"})
		return
	}
	writeJSON(w, http.StatusOK, h.state(sess))
}

func (h *SessionHandler) HandleTree(w http.ResponseWriter, r *http.Request) {
	tree, entry, err := h.svc.Tree(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"tree":          tree,
		"default_entry": entry,
	})
}

func (h *SessionHandler) HandlePreview(w http.ResponseWriter, r *http.Request) {
	doc, err := h.svc.PreviewDocument(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Security-Policy", "frame-ancestors 'self'")
	_, _ = w.Write([]byte(doc))
}

func (h *SessionHandler) HandleDownload(w http.ResponseWriter, r *http.Request) {
	data, err := h.svc.Download(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="project.zip"`)
	_, _ = w.Write(data)
}

func (h *SessionHandler) state(sess *generate.Session) sessionStateResponse {
	opts := sess.Options()
	loading, loadingText := sess.Loading()
	return sessionStateResponse{
		SessionID:   sess.ID,
		Mode:        string(sess.Input().Mode()),
		Model:       opts.ModelID,
		Framework:   string(opts.Framework),
		Language:    string(opts.Language),
		View:        string(sess.View()),
		Ready:       sess.Input().Ready(),
		HasResult:   sess.Result() != nil,
		Loading:     loading,
		LoadingText: loadingText,
		InputError:  sess.Input().Error(),
	}
}
