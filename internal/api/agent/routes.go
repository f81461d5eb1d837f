package agent

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers agent routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/agents", func(r chi.Router) {
		r.Post("/", h.CreateAgent)
		r.Get("/", h.ListAgents)

		r.Route("/{agent_id}", func(r chi.Router) {
			r.Get("/", h.GetAgent)
			r.Delete("/", h.DeleteAgent)
		})
	})
}
