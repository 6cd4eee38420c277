package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all chart routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/charts", func(r chi.Router) {
		r.Get("/sparkline/{id}", h.HandleSparkline)
		r.Get("/distribution", h.HandleDistribution)
		r.Get("/distribution/hit", h.HandleHitTest)
	})
}
