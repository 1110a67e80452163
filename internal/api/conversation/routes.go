package conversation

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers chat conversation routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/start-conversation", h.StartConversation)
	r.Post("/chat", h.Chat)
	r.Post("/upload-image-chat", h.UploadImage)

	r.Route("/conversation/{id}", func(r chi.Router) {
		r.Get("/status", h.GetStatus)
		r.Get("/history", h.GetHistory)
		r.Post("/reset", h.Reset)
		r.Get("/report", h.GetReport)
	})
}
