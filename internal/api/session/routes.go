package session

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers workflow session routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/session", func(r chi.Router) {
		r.Post("/", h.Create)
		r.Get("/{id}/status", h.GetStatus)
		r.Post("/{id}/image", h.UploadImage)
		r.Post("/{id}/answers", h.SubmitAnswers)
		r.Post("/{id}/generate", h.Generate)
		r.Delete("/{id}", h.Delete)
	})
}
