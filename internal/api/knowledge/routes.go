package knowledge

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers knowledge source routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/knowledge-base", func(r chi.Router) {
		r.Route("/entries", func(r chi.Router) {
			r.Post("/", h.CreateEntry)
			r.Get("/", h.ListEntries)

			r.Route("/{entry_id}", func(r chi.Router) {
				r.Get("/", h.GetEntry)
				r.Delete("/", h.DeleteEntry)
				r.Patch("/usage-context", h.UpdateUsageContext)
				r.Patch("/active", h.SetEntryActive)
				r.Get("/export", h.ExportEntry)
			})
		})

		r.Route("/llamacloud", func(r chi.Router) {
			r.Post("/", h.RegisterIndex)
			r.Get("/", h.ListIndexes)

			r.Route("/{kb_id}", func(r chi.Router) {
				r.Get("/", h.GetIndex)
				r.Delete("/", h.DeleteIndex)
				r.Patch("/active", h.SetIndexActive)
			})
		})
	})
}
