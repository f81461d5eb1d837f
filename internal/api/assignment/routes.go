package assignment

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers unified assignment routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/knowledge-base/agents/{agent_id}/assignments", func(r chi.Router) {
		r.Get("/unified", h.GetUnified)
		r.Post("/unified", h.SetUnified)
	})
}
