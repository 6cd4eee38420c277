package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all holdings routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/holdings", func(r chi.Router) {
		r.Get("/", h.HandleList)
		r.Post("/", h.HandleAdd)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.HandleGet)
			r.Delete("/", h.HandleDelete)
			r.Put("/quantity", h.HandleUpdateQuantity)
			r.Patch("/metadata", h.HandleUpdateMetadata)
		})
	})
}
