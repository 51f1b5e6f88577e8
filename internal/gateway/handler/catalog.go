package handler

import (
	"net/http"

	"pixelforge/internal/gateway/config"
	"pixelforge/internal/generate"
)

// CatalogHandler exposes the model and framework catalog to clients.
type CatalogHandler struct {
	catalog config.Catalog
}

func NewCatalogHandler(catalog config.Catalog) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

type frameworkEntry struct {
	ID             string `json:"id"`
	Display        string `json:"display"`
	LanguageChoice bool   `json:"language_choice"`
}

func (h *CatalogHandler) HandleCatalog(w http.ResponseWriter, _ *http.Request) {
	fws := make([]frameworkEntry, 0, len(h.catalog.Frameworks))
	for _, f := range h.catalog.Frameworks {
		fw := generate.Framework(f)
		fws = append(fws, frameworkEntry{
			ID:             f,
			Display:        fw.DisplayName(),
			LanguageChoice: fw.HasLanguageChoice(),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"models":        h.catalog.Models,
		"default_model": h.catalog.DefaultModel(),
		"frameworks":    fws,
	})
}
