package server

import (
	"net/http"

	"pixelforge/internal/gateway/handler"
	"pixelforge/internal/gateway/handler/rpc"
	"pixelforge/internal/gateway/middleware"
)

func NewMux(
	generationHandler *rpc.GenerationHandler,
	sessionHandler *handler.SessionHandler,
	prefsHandler *handler.PrefsHandler,
	catalogHandler *handler.CatalogHandler,
	previewWSHandler *handler.PreviewWSHandler,
) http.Handler {
	mux := http.NewServeMux()

	// RPC Handlers
	for procedure, h := range generationHandler.Handlers() {
		mux.Handle(procedure, h)
	}

	// REST Handlers
	mux.HandleFunc("POST /api/sessions", sessionHandler.HandleCreate)
	mux.HandleFunc("GET /api/sessions/{id}", sessionHandler.HandleState)
	mux.HandleFunc("DELETE /api/sessions/{id}", sessionHandler.HandleClose)
	mux.HandleFunc("PUT /api/sessions/{id}/input", sessionHandler.HandleInput)
	mux.HandleFunc("PUT /api/sessions/{id}/view", sessionHandler.HandleView)
	mux.HandleFunc("GET /api/sessions/{id}/tree", sessionHandler.HandleTree)
	mux.HandleFunc("GET /api/sessions/{id}/preview", sessionHandler.HandlePreview)
	mux.HandleFunc("GET /api/sessions/{id}/download", sessionHandler.HandleDownload)
	mux.HandleFunc("GET /api/preferences", prefsHandler.HandleGet)
	mux.HandleFunc("PUT /api/preferences", prefsHandler.HandlePut)
	mux.HandleFunc("GET /api/catalog", catalogHandler.HandleCatalog)

	// Preview error channel
	mux.HandleFunc("/ws/preview", previewWSHandler.HandlePreviewWS)

	// Middleware
	return middleware.CORS(mux)
}
