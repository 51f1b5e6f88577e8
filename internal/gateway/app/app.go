package app

import (
	"context"
	"fmt"
	"log"
	"os"

	"pixelforge/internal/gateway/config"
	"pixelforge/internal/gateway/handler"
	"pixelforge/internal/gateway/handler/rpc"
	"pixelforge/internal/gateway/server"
	sessionsvc "pixelforge/internal/gateway/session"
	llmclient "pixelforge/internal/llm/client"
	llmmw "pixelforge/internal/llm/middleware"
	"pixelforge/internal/preview"
)

type App struct {
	server  *server.Server
	backend llmclient.Client
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	catalog, err := config.LoadCatalog(cfg.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	// Dependencies
	stores, err := initStores(cfg)
	if err != nil {
		return nil, err
	}

	gemini, err := llmclient.NewGeminiClient(context.Background(), os.Getenv("GEMINI_API_KEY"), catalog.DefaultModel())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize llm client: %w", err)
	}
	backend := llmmw.Chain(gemini, llmmw.WithLogging(log.Default()))

	hub := preview.NewHub()
	svc := sessionsvc.New(backend, stores.generations, stores.bundles, hub, catalog)

	generationHandler := rpc.NewGenerationHandler(svc)
	sessionHandler := handler.NewSessionHandler(svc, log.Default(),
		handler.WithFigmaTokenSource(stores.prefs, cfg.FigmaToken))
	prefsHandler := handler.NewPrefsHandler(stores.prefs)
	catalogHandler := handler.NewCatalogHandler(catalog)
	previewWSHandler := handler.NewPreviewWSHandler(svc, log.Default())

	// Routing & Server
	mux := server.NewMux(generationHandler, sessionHandler, prefsHandler, catalogHandler, previewWSHandler)
	srv := server.New(cfg.Port, mux)

	return &App{
		server:  srv,
		backend: backend,
	}, nil
}

func (a *App) Start() error {
	return a.server.Start()
}

func (a *App) Shutdown(ctx context.Context) error {
	if err := a.backend.Close(); err != nil {
		log.Printf("close llm client: %v", err)
	}
	return a.server.Shutdown(ctx)
}
