// Package session exposes the low-level workflow API. It drives the same
// core agent as the chat surface, but each stage is an explicit endpoint
// instead of a conversation turn.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/adforge/adgen-backend/internal/entity"
	"github.com/adforge/adgen-backend/internal/pkg/logger"
	"github.com/adforge/adgen-backend/internal/pkg/response"
	"github.com/adforge/adgen-backend/internal/pkg/validator"
)

type Handler struct {
	usecase   AgentUsecase
	validator *validator.Validator
	uploadDir string
}

func NewHandler(usecase AgentUsecase, validator *validator.Validator, uploadDir string) *Handler {
	return &Handler{
		usecase:   usecase,
		validator: validator,
		uploadDir: uploadDir,
	}
}

// Create handles POST /session - allocate a new session
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "CreateSession")

	session, err := h.usecase.StartSession(ctx)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Created(w, toStartResponse(session))
}

// GetStatus handles GET /session/{id}/status
func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	ctx, sessionID := h.pathContext(r, "GetSessionStatus")

	session, err := h.usecase.GetSession(ctx, sessionID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, toStatusResponse(session))
}

// UploadImage handles POST /session/{id}/image - multipart product photo
func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	ctx, sessionID := h.pathContext(r, "UploadSessionImage")

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		ctxzap.Error(ctx, "failed to parse multipart form", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "failed to parse form")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		ctxzap.Error(ctx, "missing image file", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "image file is required")
		return
	}
	defer file.Close()

	if err := h.validator.ValidateImageUpload(header); err != nil {
		ctxzap.Error(ctx, "failed to validate upload", zap.Error(err))
		h.handleUsecaseError(ctx, w, err)
		return
	}

	imagePath, err := h.saveUpload(sessionID, file, header.Filename)
	if err != nil {
		ctxzap.Error(ctx, "failed to store upload", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "failed to store image")
		return
	}

	session, err := h.usecase.UploadImage(ctx, sessionID, imagePath)
	if err != nil {
		// The stored file is useless without a session record pointing at it.
		os.Remove(imagePath)
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, toUploadResponse(session))
}

// SubmitAnswers handles POST /session/{id}/answers
func (h *Handler) SubmitAnswers(w http.ResponseWriter, r *http.Request) {
	ctx, sessionID := h.pathContext(r, "SubmitAnswers")

	var req entity.SubmitAnswersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctxzap.Error(ctx, "failed to decode request body", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.validator.ValidateSubmitAnswers(&req); err != nil {
		ctxzap.Error(ctx, "failed to validate request", zap.Error(err))
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	session, err := h.usecase.SubmitAnswers(ctx, sessionID, req.Answers)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, toStatusResponse(session))
}

// Generate handles POST /session/{id}/generate - runs the fan-out and
// returns the result once all variations settle.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	ctx, sessionID := h.pathContext(r, "GenerateAds")

	ctxzap.Info(ctx, "starting ad generation")

	result, err := h.usecase.GenerateAds(ctx, sessionID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, result)
}

// Delete handles DELETE /session/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, sessionID := h.pathContext(r, "DeleteSession")

	if err := h.usecase.CleanupSession(ctx, sessionID); err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.NoContent(w)
}

func (h *Handler) saveUpload(sessionID string, file io.Reader, filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = ".jpg"
	}

	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	name := fmt.Sprintf("product_%s_%s%s", sessionID, uuid.NewString()[:8], ext)
	path := filepath.Join(h.uploadDir, name)

	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, file); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("write file: %w", err)
	}

	return path, nil
}

func (h *Handler) pathContext(r *http.Request, action string) (context.Context, string) {
	sessionID := chi.URLParam(r, "id")
	ctx := logger.WithSession(logger.WithAction(r.Context(), action), sessionID)
	return ctx, sessionID
}

func (h *Handler) handleUsecaseError(ctx context.Context, w http.ResponseWriter, err error) {
	ctxzap.Error(ctx, "request failed", zap.Error(err))

	switch {
	case errors.Is(err, entity.ErrSessionNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, entity.ErrInvalidStage):
		response.Conflict(w, err.Error())
	case errors.Is(err, entity.ErrInvalidFile) || errors.Is(err, entity.ErrFileTooLarge) ||
		errors.Is(err, entity.ErrInvalidExtension) || errors.Is(err, entity.ErrMissingField) ||
		errors.Is(err, entity.ErrMissingAnswers) || errors.Is(err, entity.ErrMissingAnalysis):
		response.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, entity.ErrNoAdsGenerated):
		response.Error(w, http.StatusBadGateway, err.Error())
	default:
		response.Error(w, http.StatusInternalServerError, "internal server error")
	}
}
