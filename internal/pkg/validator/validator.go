package validator

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/adforge/adgen-backend/internal/config"
	"github.com/adforge/adgen-backend/internal/entity"
)

// AllowedImageExtensions lists the product image formats the analyzer accepts.
var AllowedImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// Validator validates incoming requests and image uploads
type Validator struct {
	cfg config.ImageUploadConfig
}

func NewValidator(cfg config.ImageUploadConfig) *Validator {
	return &Validator{cfg: cfg}
}

// ValidateImageUpload validates a product image upload
func (v *Validator) ValidateImageUpload(fh *multipart.FileHeader) error {
	if fh == nil {
		return fmt.Errorf("%w: image", entity.ErrMissingField)
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !AllowedImageExtensions[ext] {
		return fmt.Errorf("%w: %s (allowed: jpg, jpeg, png, webp)", entity.ErrInvalidExtension, ext)
	}

	if fh.Size > v.cfg.MaxImageSize {
		return fmt.Errorf("%w: file '%s' is %d bytes (max %d)", entity.ErrFileTooLarge, fh.Filename, fh.Size, v.cfg.MaxImageSize)
	}

	contentType := fh.Header.Get("Content-Type")
	if contentType != "" && !strings.HasPrefix(contentType, "image/") {
		return fmt.Errorf("%w: content type %s", entity.ErrInvalidFile, contentType)
	}

	return nil
}

// ValidateChatRequest validates the chat message body
func (v *Validator) ValidateChatRequest(req *entity.ChatRequest) error {
	if req.ConversationID == "" {
		return fmt.Errorf("%w: conversation_id", entity.ErrMissingField)
	}
	if strings.TrimSpace(req.Message) == "" {
		return fmt.Errorf("%w: message", entity.ErrMissingField)
	}

	return nil
}

// ValidateSubmitAnswers validates a direct answer submission
func (v *Validator) ValidateSubmitAnswers(req *entity.SubmitAnswersRequest) error {
	if len(req.Answers) == 0 {
		return fmt.Errorf("%w: answers", entity.ErrMissingField)
	}

	for i, a := range req.Answers {
		if a.QuestionID == "" {
			return fmt.Errorf("%w: answers[%d].question_id", entity.ErrMissingField, i)
		}
		if strings.TrimSpace(a.Response) == "" {
			return fmt.Errorf("%w: answers[%d].response", entity.ErrMissingField, i)
		}
	}

	return nil
}
