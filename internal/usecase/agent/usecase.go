// Package agent implements the core ad generation workflow: one session
// moves strictly forward through UPLOADING -> QUESTIONING -> GENERATING ->
// COMPLETED. Every stage-gated operation validates the current stage before
// touching state; a failed operation leaves the session unchanged.
package agent

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/adforge/adgen-backend/internal/entity"
	"github.com/adforge/adgen-backend/internal/repository"
)

type Config struct {
	OutputDir         string
	Concurrent        bool
	GenerationTimeout time.Duration
}

type UseCase struct {
	sessions   repository.SessionRepository
	analyzer   Analyzer
	classifier Classifier
	generator  Generator
	cfg        Config
}

func NewUseCase(
	sessions repository.SessionRepository,
	analyzer Analyzer,
	classifier Classifier,
	generator Generator,
	cfg Config,
) *UseCase {
	return &UseCase{
		sessions:   sessions,
		analyzer:   analyzer,
		classifier: classifier,
		generator:  generator,
		cfg:        cfg,
	}
}

// StartSession allocates a fresh session in the UPLOADING stage.
func (u *UseCase) StartSession(ctx context.Context) (*entity.Session, error) {
	now := time.Now()
	session := &entity.Session{
		ID:        uuid.NewString(),
		Stage:     entity.SessionStageUploading,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := u.sessions.Create(session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	ctxzap.Info(ctx, "session started", zap.String("session_id", session.ID))
	return session, nil
}

// UploadImage analyzes a stored product image and advances the session to
// QUESTIONING. On analysis failure the session keeps its previous state so
// the client can retry with a different image.
func (u *UseCase) UploadImage(ctx context.Context, sessionID, imagePath string) (*entity.Session, error) {
	session, err := u.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}

	if session.Stage != entity.SessionStageUploading {
		return nil, entity.StageError(session.Stage, entity.SessionStageUploading)
	}

	analysis, err := u.analyzer.Analyze(imagePath)
	if err != nil {
		return nil, fmt.Errorf("analyze image: %w", err)
	}

	session.Analysis = analysis
	session.ImagePath = imagePath
	session.Questions = analysis.SuggestedQuestions
	session.Stage = entity.SessionStageQuestioning
	session.UpdatedAt = time.Now()

	if err := u.sessions.Update(session); err != nil {
		return nil, fmt.Errorf("update session: %w", err)
	}

	ctxzap.Info(ctx, "image analyzed",
		zap.String("session_id", session.ID),
		zap.String("category", string(analysis.Category)),
	)

	return session, nil
}

// SubmitAnswers records the user's answers, running each through the
// classifier, and advances the session to GENERATING.
func (u *UseCase) SubmitAnswers(ctx context.Context, sessionID string, answers []entity.AnswerSubmission) (*entity.Session, error) {
	session, err := u.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}

	if session.Stage != entity.SessionStageQuestioning {
		return nil, entity.StageError(session.Stage, entity.SessionStageQuestioning)
	}

	if len(answers) == 0 {
		return nil, entity.ErrMissingAnswers
	}

	for _, a := range answers {
		session.Answers = append(session.Answers, entity.Answer{
			QuestionID:   a.QuestionID,
			QuestionText: a.QuestionText,
			Response:     a.Response,
			Extraction:   u.classifier.Classify(a.QuestionID, a.Response),
		})
	}

	session.Stage = entity.SessionStageGenerating
	session.UpdatedAt = time.Now()

	if err := u.sessions.Update(session); err != nil {
		return nil, fmt.Errorf("update session: %w", err)
	}

	ctxzap.Info(ctx, "answers recorded",
		zap.String("session_id", session.ID),
		zap.Int("count", len(answers)),
	)

	return session, nil
}

// GenerateAds fans out the four ad variations and stores the result. At
// least one variation must succeed; otherwise the session stays in
// GENERATING so the client can retry.
func (u *UseCase) GenerateAds(ctx context.Context, sessionID string) (*entity.AdGenerationResult, error) {
	session, err := u.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}

	if session.Stage != entity.SessionStageGenerating {
		return nil, entity.StageError(session.Stage, entity.SessionStageGenerating)
	}
	if session.Analysis == nil {
		return nil, entity.ErrMissingAnalysis
	}
	if len(session.Answers) == 0 {
		return nil, entity.ErrMissingAnswers
	}

	result := u.fanOut(ctx, session)

	if !result.Success {
		return result, fmt.Errorf("%w: %s", entity.ErrNoAdsGenerated, result.ErrorMessage)
	}

	session.Result = result
	session.Stage = entity.SessionStageCompleted
	session.UpdatedAt = time.Now()

	if err := u.sessions.Update(session); err != nil {
		return nil, fmt.Errorf("update session: %w", err)
	}

	ctxzap.Info(ctx, "generation completed",
		zap.String("session_id", session.ID),
		zap.String("request_id", result.RequestID),
		zap.Int("ads", len(result.Ads)),
		zap.Float64("total_seconds", result.TotalSeconds),
	)

	return result, nil
}

// GetSession returns the current session snapshot.
func (u *UseCase) GetSession(ctx context.Context, sessionID string) (*entity.Session, error) {
	return u.sessions.Get(sessionID)
}

// CleanupSession removes a session and its uploaded image. Removing a
// session that does not exist is a no-op, so the operation is idempotent.
func (u *UseCase) CleanupSession(ctx context.Context, sessionID string) error {
	session, err := u.sessions.Get(sessionID)
	if err != nil {
		if errors.Is(err, entity.ErrSessionNotFound) {
			return nil
		}
		return err
	}

	if session.ImagePath != "" {
		if err := os.Remove(session.ImagePath); err != nil && !os.IsNotExist(err) {
			ctxzap.Warn(ctx, "failed to remove uploaded image",
				zap.String("path", session.ImagePath), zap.Error(err))
		}
	}

	if err := u.sessions.Delete(sessionID); err != nil && !errors.Is(err, entity.ErrSessionNotFound) {
		return err
	}

	ctxzap.Info(ctx, "session cleaned up", zap.String("session_id", sessionID))
	return nil
}
