// Package ads serves generated creatives from the output directory.
// Filenames are whitelisted against the generator's naming scheme, so no
// path element ever reaches the filesystem lookup.
package ads

import (
	"fmt"
	"net/http"
	"path/filepath"
	"regexp"

	"github.com/go-chi/chi/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/adforge/adgen-backend/internal/pkg/response"
)

// Matches the fan-out naming scheme: ad_<request id prefix>_<index>.png
var adFilenameRe = regexp.MustCompile(`^ad_[0-9a-fA-F-]{1,8}_[0-9]+\.png$`)

type Handler struct {
	outputDir string
}

func NewHandler(outputDir string) *Handler {
	return &Handler{outputDir: outputDir}
}

// View handles GET /view-ad/{filename} - inline display
func (h *Handler) View(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, false)
}

// Download handles GET /download-ad/{filename} - attachment download
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, true)
}

func (h *Handler) serve(w http.ResponseWriter, r *http.Request, attachment bool) {
	filename := chi.URLParam(r, "filename")

	if !adFilenameRe.MatchString(filename) {
		ctxzap.Warn(r.Context(), "rejected ad filename", zap.String("filename", filename))
		response.NotFound(w, "ad not found")
		return
	}

	if attachment {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	}

	http.ServeFile(w, r, filepath.Join(h.outputDir, filename))
}
