package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all portfolio routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/portfolio", func(r chi.Router) {
		r.Get("/summary", h.HandleGetSummary)
		r.Get("/assets", h.HandleGetAssets)
		r.Post("/refresh", h.HandleRefresh)
		r.Get("/export.csv", h.HandleExportCSV)
	})
}
