package conversation

import (
	"context"

	"github.com/adforge/adgen-backend/internal/entity"
	"github.com/adforge/adgen-backend/internal/pkg/classifier"
)

// CoreAgent is the underlying session workflow driven by the orchestrator.
type CoreAgent interface {
	StartSession(ctx context.Context) (*entity.Session, error)
	UploadImage(ctx context.Context, sessionID, imagePath string) (*entity.Session, error)
	SubmitAnswers(ctx context.Context, sessionID string, answers []entity.AnswerSubmission) (*entity.Session, error)
	GenerateAds(ctx context.Context, sessionID string) (*entity.AdGenerationResult, error)
	GetSession(ctx context.Context, sessionID string) (*entity.Session, error)
}

// Classifier extracts structured context from free-text answers.
type Classifier interface {
	Classify(questionType entity.QuestionType, text string) classifier.Extraction
}
