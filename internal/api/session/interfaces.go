package session

import (
	"context"

	"github.com/adforge/adgen-backend/internal/entity"
)

type AgentUsecase interface {
	StartSession(ctx context.Context) (*entity.Session, error)
	UploadImage(ctx context.Context, sessionID, imagePath string) (*entity.Session, error)
	SubmitAnswers(ctx context.Context, sessionID string, answers []entity.AnswerSubmission) (*entity.Session, error)
	GenerateAds(ctx context.Context, sessionID string) (*entity.AdGenerationResult, error)
	GetSession(ctx context.Context, sessionID string) (*entity.Session, error)
	CleanupSession(ctx context.Context, sessionID string) error
}
