package agent

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adforge/adgen-backend/internal/entity"
	"github.com/adforge/adgen-backend/internal/imaging"
	"github.com/adforge/adgen-backend/internal/integration/imagegen"
	"github.com/adforge/adgen-backend/internal/pkg/classifier"
	"github.com/adforge/adgen-backend/internal/repository"
)

type fakeAnalyzer struct {
	analysis *entity.ImageAnalysis
	err      error
}

func (f *fakeAnalyzer) Analyze(string) (*entity.ImageAnalysis, error) {
	return f.analysis, f.err
}

type fakeGenerator struct {
	generate func(req imagegen.Request) ([]byte, error)
}

func (f *fakeGenerator) Generate(_ context.Context, req imagegen.Request) ([]byte, error) {
	return f.generate(req)
}

func testAnalysis() *entity.ImageAnalysis {
	return &entity.ImageAnalysis{
		Category:           entity.CategoryFashion,
		DominantColors:     []string{"#102030", "#405060"},
		ProductFeatures:    []string{"stylish design"},
		BackgroundType:     "clean background",
		QualityScore:       0.9,
		SuggestedQuestions: []string{"q1", "q2", "q3"},
	}
}

func newTestUseCase(t *testing.T, generator Generator) *UseCase {
	t.Helper()
	return NewUseCase(
		repository.NewSessionMemory(0),
		&fakeAnalyzer{analysis: testAnalysis()},
		classifier.NewKeyword(),
		generator,
		Config{
			OutputDir:         t.TempDir(),
			Concurrent:        true,
			GenerationTimeout: 5 * time.Second,
		},
	)
}

func okGenerator() Generator {
	return &fakeGenerator{generate: func(req imagegen.Request) ([]byte, error) {
		return imaging.Placeholder(req.Index, req.RequestID)
	}}
}

func advanceToGenerating(t *testing.T, uc *UseCase) *entity.Session {
	t.Helper()
	ctx := context.Background()

	session, err := uc.StartSession(ctx)
	require.NoError(t, err)

	session, err = uc.UploadImage(ctx, session.ID, "ignored.png")
	require.NoError(t, err)

	session, err = uc.SubmitAnswers(ctx, session.ID, []entity.AnswerSubmission{
		{QuestionID: entity.QuestionTargetAudience, Response: "young professionals"},
		{QuestionID: entity.QuestionBrandTone, Response: "luxury and premium"},
		{QuestionID: entity.QuestionKeyMessage, Response: "Shop now for the best deals"},
	})
	require.NoError(t, err)

	return session
}

func TestSessionLifecycle(t *testing.T) {
	uc := newTestUseCase(t, okGenerator())
	ctx := context.Background()

	session, err := uc.StartSession(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, session.ID)
	assert.Equal(t, entity.SessionStageUploading, session.Stage)

	session, err = uc.UploadImage(ctx, session.ID, "product.png")
	require.NoError(t, err)
	assert.Equal(t, entity.SessionStageQuestioning, session.Stage)
	assert.Equal(t, entity.CategoryFashion, session.Analysis.Category)
	assert.Len(t, session.Questions, 3)

	session, err = uc.SubmitAnswers(ctx, session.ID, []entity.AnswerSubmission{
		{QuestionID: entity.QuestionBrandTone, Response: "bold and dramatic"},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.SessionStageGenerating, session.Stage)
	require.Len(t, session.Answers, 1)
	assert.Equal(t, string(entity.ToneBold), session.Answers[0].Extraction["brand_tone"])
}

func TestStageGates(t *testing.T) {
	uc := newTestUseCase(t, okGenerator())
	ctx := context.Background()

	session, err := uc.StartSession(ctx)
	require.NoError(t, err)

	t.Run("answers before image are rejected", func(t *testing.T) {
		_, err := uc.SubmitAnswers(ctx, session.ID, []entity.AnswerSubmission{
			{QuestionID: entity.QuestionTargetAudience, Response: "anyone"},
		})
		assert.ErrorIs(t, err, entity.ErrInvalidStage)
	})

	t.Run("generation before answers is rejected", func(t *testing.T) {
		_, err := uc.GenerateAds(ctx, session.ID)
		assert.ErrorIs(t, err, entity.ErrInvalidStage)
	})

	_, err = uc.UploadImage(ctx, session.ID, "product.png")
	require.NoError(t, err)

	t.Run("second upload is rejected", func(t *testing.T) {
		_, err := uc.UploadImage(ctx, session.ID, "another.png")
		assert.ErrorIs(t, err, entity.ErrInvalidStage)
	})

	t.Run("unknown session", func(t *testing.T) {
		_, err := uc.GenerateAds(ctx, "missing")
		assert.ErrorIs(t, err, entity.ErrSessionNotFound)
	})
}

func TestUploadImageFailureLeavesSessionUntouched(t *testing.T) {
	uc := NewUseCase(
		repository.NewSessionMemory(0),
		&fakeAnalyzer{err: errors.New("decode failed")},
		classifier.NewKeyword(),
		okGenerator(),
		Config{OutputDir: t.TempDir(), GenerationTimeout: time.Second},
	)
	ctx := context.Background()

	session, err := uc.StartSession(ctx)
	require.NoError(t, err)

	_, err = uc.UploadImage(ctx, session.ID, "broken.png")
	require.Error(t, err)

	got, err := uc.GetSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.SessionStageUploading, got.Stage)
	assert.Nil(t, got.Analysis)
	assert.Empty(t, got.ImagePath)
}

func TestGenerateAdsAllVariations(t *testing.T) {
	uc := newTestUseCase(t, okGenerator())
	ctx := context.Background()

	session := advanceToGenerating(t, uc)

	result, err := uc.GenerateAds(ctx, session.ID)
	require.NoError(t, err)

	assert.True(t, result.Success)
	require.Len(t, result.Ads, 4)
	assert.NotEmpty(t, result.RequestID)

	variations := make([]entity.AdVariationType, 0, 4)
	for _, ad := range result.Ads {
		variations = append(variations, ad.VariationType)
		assert.Contains(t, ad.ImagePath, "/view-ad/ad_")
		assert.Contains(t, ad.PromptUsed, "Shop now for the best deals", "every template carries the key message")
		assert.Contains(t, ad.PromptUsed, "premium, elegant")

		// Only the lifestyle and benefit templates address the audience.
		if ad.VariationType == entity.VariationLifestyle || ad.VariationType == entity.VariationBenefit {
			assert.Contains(t, ad.PromptUsed, "young professionals")
		}

		// The creative must exist on disk under the served filename.
		_, statErr := os.Stat(filepath.Join(uc.cfg.OutputDir, filepath.Base(ad.ImagePath)))
		assert.NoError(t, statErr)
	}
	assert.Equal(t, entity.AdVariations, variations, "ads keep the canonical variation order")

	got, err := uc.GetSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.SessionStageCompleted, got.Stage)
	require.NotNil(t, got.Result)

	t.Run("second generate is rejected", func(t *testing.T) {
		_, err := uc.GenerateAds(ctx, session.ID)
		assert.ErrorIs(t, err, entity.ErrInvalidStage)
	})
}

func TestGenerateAdsFallsBackToPlaceholder(t *testing.T) {
	failing := &fakeGenerator{generate: func(req imagegen.Request) ([]byte, error) {
		if req.Index%2 == 0 {
			return nil, fmt.Errorf("backend unavailable")
		}
		return imaging.Placeholder(req.Index, req.RequestID)
	}}

	uc := newTestUseCase(t, failing)
	session := advanceToGenerating(t, uc)

	result, err := uc.GenerateAds(context.Background(), session.ID)
	require.NoError(t, err)

	// Failed variations are replaced by placeholders, not dropped.
	assert.True(t, result.Success)
	assert.Len(t, result.Ads, 4)
}

func TestGenerateAdsPartialSuccess(t *testing.T) {
	outputDir := filepath.Join(t.TempDir(), "out")
	require.NoError(t, os.MkdirAll(outputDir, 0o755))

	// Sequential mode generates in variation order; replacing the output
	// dir with a regular file before the third variation fails its write
	// and the fourth's, while the first two ads are already stored.
	blocking := &fakeGenerator{generate: func(req imagegen.Request) ([]byte, error) {
		if req.Index == 2 {
			require.NoError(t, os.RemoveAll(outputDir))
			require.NoError(t, os.WriteFile(outputDir, []byte("x"), 0o644))
		}
		return imaging.Placeholder(req.Index, req.RequestID)
	}}

	uc := NewUseCase(
		repository.NewSessionMemory(0),
		&fakeAnalyzer{analysis: testAnalysis()},
		classifier.NewKeyword(),
		blocking,
		Config{OutputDir: outputDir, Concurrent: false, GenerationTimeout: 5 * time.Second},
	)
	ctx := context.Background()
	session := advanceToGenerating(t, uc)

	result, err := uc.GenerateAds(ctx, session.ID)
	require.NoError(t, err)

	assert.True(t, result.Success, "a batch with at least one ad succeeds")
	require.Len(t, result.Ads, 2)
	assert.Equal(t, entity.VariationLifestyle, result.Ads[0].VariationType)
	assert.Equal(t, entity.VariationProductHero, result.Ads[1].VariationType)
	assert.Empty(t, result.ErrorMessage)

	got, err := uc.GetSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.SessionStageCompleted, got.Stage)
}

func TestGenerateAdsTotalFailure(t *testing.T) {
	uc := newTestUseCase(t, okGenerator())
	session := advanceToGenerating(t, uc)

	// Point the output dir at a regular file so every write fails.
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))
	uc.cfg.OutputDir = filepath.Join(blocker, "nested")

	ctx := context.Background()
	_, err := uc.GenerateAds(ctx, session.ID)
	assert.ErrorIs(t, err, entity.ErrNoAdsGenerated)

	got, err := uc.GetSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.SessionStageGenerating, got.Stage, "failed generation keeps the session retryable")
	assert.Nil(t, got.Result)
}

func TestCleanupSession(t *testing.T) {
	uc := newTestUseCase(t, okGenerator())
	ctx := context.Background()

	session, err := uc.StartSession(ctx)
	require.NoError(t, err)

	require.NoError(t, uc.CleanupSession(ctx, session.ID))

	_, err = uc.GetSession(ctx, session.ID)
	assert.ErrorIs(t, err, entity.ErrSessionNotFound)

	t.Run("cleanup is idempotent", func(t *testing.T) {
		assert.NoError(t, uc.CleanupSession(ctx, session.ID))
		assert.NoError(t, uc.CleanupSession(ctx, "missing"))
	})
}
