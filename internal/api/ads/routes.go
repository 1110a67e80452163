package ads

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers creative serving routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Get("/view-ad/{filename}", h.View)
	r.Get("/download-ad/{filename}", h.Download)
}
