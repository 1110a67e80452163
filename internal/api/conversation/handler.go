package conversation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/adforge/adgen-backend/internal/entity"
	"github.com/adforge/adgen-backend/internal/pkg/logger"
	"github.com/adforge/adgen-backend/internal/pkg/response"
	"github.com/adforge/adgen-backend/internal/pkg/validator"
)

type Handler struct {
	usecase   ConversationUsecase
	report    ReportGenerator
	validator *validator.Validator
}

func NewHandler(usecase ConversationUsecase, report ReportGenerator, validator *validator.Validator) *Handler {
	return &Handler{
		usecase:   usecase,
		report:    report,
		validator: validator,
	}
}

// StartConversation handles POST /start-conversation
func (h *Handler) StartConversation(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "StartConversation")

	resp, err := h.usecase.StartConversation(ctx)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Created(w, resp)
}

// Chat handles POST /chat - one user message through the state machine
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Chat")

	var req entity.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctxzap.Error(ctx, "failed to decode request body", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.validator.ValidateChatRequest(&req); err != nil {
		ctxzap.Error(ctx, "failed to validate request", zap.Error(err))
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx = logger.WithConversation(ctx, req.ConversationID)

	resp, err := h.usecase.ProcessMessage(ctx, req.ConversationID, req.Message)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, resp)
}

// UploadImage handles POST /upload-image-chat - multipart product photo upload
func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "UploadImageChat")

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		ctxzap.Error(ctx, "failed to parse multipart form", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "failed to parse form")
		return
	}

	// The identifier is optional: an id-less upload opens a fresh
	// conversation and goes straight to the image analysis.
	conversationID := r.FormValue("conversation_id")
	if conversationID == "" {
		started, err := h.usecase.StartConversation(ctx)
		if err != nil {
			h.handleUsecaseError(ctx, w, err)
			return
		}
		conversationID = started.ConversationID
	}
	ctx = logger.WithConversation(ctx, conversationID)

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

	data, err := io.ReadAll(file)
	if err != nil {
		ctxzap.Error(ctx, "failed to read upload", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "failed to read image")
		return
	}

	ctxzap.Info(ctx, "processing image upload",
		zap.String("filename", header.Filename),
		zap.Int64("size_bytes", header.Size),
	)

	resp, err := h.usecase.UploadImage(ctx, conversationID, data, header.Filename)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, resp)
}

// GetStatus handles GET /conversation/{id}/status
func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	ctx, conversationID := h.pathContext(r, "GetConversationStatus")

	status, err := h.usecase.GetStatus(ctx, conversationID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, status)
}

// GetHistory handles GET /conversation/{id}/history
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	ctx, conversationID := h.pathContext(r, "GetConversationHistory")

	history, err := h.usecase.GetHistory(ctx, conversationID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, history)
}

// Reset handles POST /conversation/{id}/reset
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	ctx, conversationID := h.pathContext(r, "ResetConversation")

	ctxzap.Info(ctx, "resetting conversation")

	resp, err := h.usecase.Reset(ctx, conversationID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, resp)
}

// GetReport handles GET /conversation/{id}/report - campaign summary PDF
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	ctx, conversationID := h.pathContext(r, "GetCampaignReport")

	conv, err := h.usecase.GetConversation(ctx, conversationID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	if conv.Result == nil {
		response.Conflict(w, "ads have not been generated yet")
		return
	}

	data, err := h.report.Render(conv)
	if err != nil {
		ctxzap.Error(ctx, "failed to render report", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "failed to render report")
		return
	}

	w.Header().Set("Content-Type", h.report.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"campaign-%s.pdf\"", conversationID))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (h *Handler) pathContext(r *http.Request, action string) (context.Context, string) {
	conversationID := chi.URLParam(r, "id")
	ctx := logger.WithConversation(logger.WithAction(r.Context(), action), conversationID)
	return ctx, conversationID
}

func (h *Handler) handleUsecaseError(ctx context.Context, w http.ResponseWriter, err error) {
	ctxzap.Error(ctx, "request failed", zap.Error(err))

	switch {
	case errors.Is(err, entity.ErrConversationNotFound) || errors.Is(err, entity.ErrSessionNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, entity.ErrInvalidStage):
		response.Conflict(w, err.Error())
	case errors.Is(err, entity.ErrInvalidFile) || errors.Is(err, entity.ErrFileTooLarge) ||
		errors.Is(err, entity.ErrInvalidExtension) || errors.Is(err, entity.ErrMissingField):
		response.Error(w, http.StatusBadRequest, err.Error())
	default:
		response.Error(w, http.StatusInternalServerError, "internal server error")
	}
}
