package entity

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	// Lookup errors
	ErrSessionNotFound      = errors.New("session not found")
	ErrConversationNotFound = errors.New("conversation not found")

	// Stage gate errors
	ErrInvalidStage = errors.New("operation not allowed in current stage")

	// Upload/validation errors
	ErrInvalidFile      = errors.New("invalid file")
	ErrFileTooLarge     = errors.New("file too large")
	ErrInvalidExtension = errors.New("invalid file extension")
	ErrMissingField     = errors.New("required field is missing")

	// Generation errors
	ErrMissingAnalysis = errors.New("image analysis missing")
	ErrMissingAnswers  = errors.New("answers missing")
	ErrNoAdsGenerated  = errors.New("failed to generate any ads")
)

// StageError reports a stage-gated operation attempted in the wrong stage.
// It wraps ErrInvalidStage so callers can match with errors.Is.
func StageError(have, want SessionStage) error {
	return fmt.Errorf("%w: stage is '%s', expected '%s'", ErrInvalidStage, have, want)
}
