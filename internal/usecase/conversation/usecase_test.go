package conversation

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adforge/adgen-backend/internal/entity"
	"github.com/adforge/adgen-backend/internal/imaging"
	"github.com/adforge/adgen-backend/internal/integration/imagegen"
	"github.com/adforge/adgen-backend/internal/pkg/classifier"
	"github.com/adforge/adgen-backend/internal/repository"
	"github.com/adforge/adgen-backend/internal/usecase/agent"
)

type fakeAgent struct {
	uploadErr error
	submitErr error
	generate  func() (*entity.AdGenerationResult, error)
}

func (f *fakeAgent) StartSession(context.Context) (*entity.Session, error) {
	return &entity.Session{ID: "sess-1", Stage: entity.SessionStageUploading}, nil
}

func (f *fakeAgent) UploadImage(_ context.Context, sessionID, imagePath string) (*entity.Session, error) {
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	return &entity.Session{
		ID:        sessionID,
		Stage:     entity.SessionStageQuestioning,
		ImagePath: imagePath,
		Analysis: &entity.ImageAnalysis{
			Category:        entity.CategoryFashion,
			DominantColors:  []string{"#101010", "#fafafa", "#c0c0c0", "#808080"},
			ProductFeatures: []string{"stylish design"},
			BackgroundType:  "clean background",
			QualityScore:    0.9,
		},
	}, nil
}

func (f *fakeAgent) SubmitAnswers(_ context.Context, sessionID string, _ []entity.AnswerSubmission) (*entity.Session, error) {
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	return &entity.Session{ID: sessionID, Stage: entity.SessionStageGenerating}, nil
}

func (f *fakeAgent) GenerateAds(context.Context, string) (*entity.AdGenerationResult, error) {
	return f.generate()
}

func (f *fakeAgent) GetSession(_ context.Context, sessionID string) (*entity.Session, error) {
	return &entity.Session{ID: sessionID, Stage: entity.SessionStageQuestioning}, nil
}

func successResult() (*entity.AdGenerationResult, error) {
	ads := make([]entity.GeneratedAd, 0, len(entity.AdVariations))
	for i, variation := range entity.AdVariations {
		ads = append(ads, entity.GeneratedAd{
			VariationType: variation,
			ImagePath:     fmt.Sprintf("/view-ad/ad_req12345_%d.png", i+1),
			PromptUsed:    "prompt",
			ElapsedSecs:   1.5,
		})
	}
	return &entity.AdGenerationResult{
		RequestID:    "req12345",
		Ads:          ads,
		TotalSeconds: 6.2,
		Success:      true,
	}, nil
}

func newConvUseCase(t *testing.T, agent CoreAgent) *UseCase {
	t.Helper()
	return NewUseCase(
		repository.NewConversationMemory(0),
		agent,
		classifier.NewKeyword(),
		Config{UploadDir: t.TempDir()},
	)
}

func startConversation(t *testing.T, uc *UseCase) string {
	t.Helper()
	resp, err := uc.StartConversation(context.Background())
	require.NoError(t, err)
	return resp.ConversationID
}

func uploadImage(t *testing.T, uc *UseCase, conversationID string) *entity.ChatResponse {
	t.Helper()
	resp, err := uc.UploadImage(context.Background(), conversationID, []byte{0xff, 0xd8}, "product.png")
	require.NoError(t, err)
	return resp
}

// advanceToReady walks a fresh conversation through upload and all three
// questions up to the confirmation prompt.
func advanceToReady(t *testing.T, uc *UseCase) string {
	t.Helper()
	ctx := context.Background()

	id := startConversation(t, uc)
	uploadImage(t, uc, id)

	answers := []string{
		"Women aged 25-35 who love fitness",
		"luxury and premium feel",
		"Free shipping on all orders",
	}
	var resp *entity.ChatResponse
	for _, answer := range answers {
		var err error
		resp, err = uc.ProcessMessage(ctx, id, answer)
		require.NoError(t, err)
	}
	require.Equal(t, entity.ConversationStageReadyForGeneration, resp.Stage)

	return id
}

func waitForStage(t *testing.T, uc *UseCase, conversationID string, stage entity.ConversationStage) {
	t.Helper()
	require.Eventually(t, func() bool {
		status, err := uc.GetStatus(context.Background(), conversationID)
		return err == nil && status.Stage == stage
	}, 2*time.Second, 10*time.Millisecond)
}

func TestStartConversation(t *testing.T) {
	uc := newConvUseCase(t, &fakeAgent{generate: successResult})

	resp, err := uc.StartConversation(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, resp.ConversationID)
	assert.Equal(t, entity.ConversationStageWaitingForImage, resp.Stage)
	assert.Contains(t, resp.Message, "Social Media Ad Generator")
	assert.Contains(t, resp.Actions, "upload_image")
	assert.NotEmpty(t, resp.Examples)

	history, err := uc.GetHistory(context.Background(), resp.ConversationID)
	require.NoError(t, err)
	require.Len(t, history.History, 1)
	assert.Equal(t, entity.RoleAgent, history.History[0].Role)
}

func TestChatBeforeUploadReprompts(t *testing.T) {
	uc := newConvUseCase(t, &fakeAgent{generate: successResult})
	id := startConversation(t, uc)

	resp, err := uc.ProcessMessage(context.Background(), id, "I sell sneakers")
	require.NoError(t, err)

	assert.Equal(t, entity.ConversationStageWaitingForImage, resp.Stage)
	assert.Contains(t, resp.Message, "upload")
	assert.Contains(t, resp.Actions, "upload_image")
}

func TestProcessMessageUnknownConversation(t *testing.T) {
	uc := newConvUseCase(t, &fakeAgent{generate: successResult})

	_, err := uc.ProcessMessage(context.Background(), "missing", "hello")
	assert.ErrorIs(t, err, entity.ErrConversationNotFound)
}

func TestUploadImageAsksFirstQuestion(t *testing.T) {
	uc := newConvUseCase(t, &fakeAgent{generate: successResult})
	id := startConversation(t, uc)

	resp := uploadImage(t, uc, id)

	assert.Equal(t, entity.ConversationStageAskingQuestions, resp.Stage)
	assert.Contains(t, resp.Message, "Perfect!")
	assert.Contains(t, resp.Message, "quality looks great", "score above 0.8 earns the quality comment")

	require.NotNil(t, resp.QuestionContext)
	assert.Equal(t, entity.QuestionTargetAudience, resp.QuestionContext.Type)
	assert.Equal(t, 1, resp.QuestionContext.QuestionNumber)
	assert.Equal(t, entity.MaxQuestions, resp.QuestionContext.TotalQuestions)

	require.NotNil(t, resp.AnalysisSummary)
	assert.Equal(t, entity.CategoryFashion, resp.AnalysisSummary.Category)
	assert.Len(t, resp.AnalysisSummary.Colors, 3, "summary shows at most three colors")

	status, err := uc.GetStatus(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, status.ImageUploaded)
	assert.Equal(t, 1, status.QuestionsAsked)
}

func TestUploadImageAnalysisFailure(t *testing.T) {
	uc := newConvUseCase(t, &fakeAgent{
		uploadErr: errors.New("unsupported format"),
		generate:  successResult,
	})
	id := startConversation(t, uc)

	resp, err := uc.UploadImage(context.Background(), id, []byte{0xff}, "broken.png")
	require.NoError(t, err)

	assert.Equal(t, entity.ConversationStageWaitingForImage, resp.Stage)
	assert.Contains(t, resp.Message, "trouble analyzing")
	assert.Contains(t, resp.Message, "unsupported format")

	status, statusErr := uc.GetStatus(context.Background(), id)
	require.NoError(t, statusErr)
	assert.False(t, status.ImageUploaded)
}

func TestQuestionFlowIsMonotonic(t *testing.T) {
	uc := newConvUseCase(t, &fakeAgent{generate: successResult})
	ctx := context.Background()

	id := startConversation(t, uc)
	uploadImage(t, uc, id)

	resp, err := uc.ProcessMessage(ctx, id, "Women aged 25-35 who love fitness")
	require.NoError(t, err)
	require.NotNil(t, resp.QuestionContext)
	assert.Equal(t, 2, resp.QuestionContext.QuestionNumber)
	assert.Equal(t, entity.QuestionBrandTone, resp.QuestionContext.Type)
	assert.Contains(t, resp.Message, "?", "next question text is part of the reply")

	resp, err = uc.ProcessMessage(ctx, id, "luxury and premium feel")
	require.NoError(t, err)
	require.NotNil(t, resp.QuestionContext)
	assert.Equal(t, 3, resp.QuestionContext.QuestionNumber)

	resp, err = uc.ProcessMessage(ctx, id, "Free shipping on all orders")
	require.NoError(t, err)
	assert.Equal(t, entity.ConversationStageReadyForGeneration, resp.Stage)
	assert.Contains(t, resp.Actions, "generate_ads")

	t.Run("summary reflects collected info", func(t *testing.T) {
		assert.Contains(t, resp.InfoSummary, "🎯 **Target Audience:** Women aged 25-35")
		assert.Contains(t, resp.InfoSummary, "🎨 **Brand Tone:** luxury")
		assert.Contains(t, resp.InfoSummary, "💬 **Key Message:** Free shipping")
		assert.Contains(t, resp.InfoSummary, "📂 **Product Category:** Fashion")
	})

	conv, err := uc.GetConversation(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, conv.Collected.BrandTone)
	assert.Equal(t, entity.ToneLuxury, *conv.Collected.BrandTone)
	assert.Nil(t, conv.CurrentQuestion)
}

func TestAmbiguousConfirmationReasks(t *testing.T) {
	uc := newConvUseCase(t, &fakeAgent{generate: successResult})
	id := advanceToReady(t, uc)

	resp, err := uc.ProcessMessage(context.Background(), id, "hmm maybe later")
	require.NoError(t, err)

	assert.Equal(t, entity.ConversationStageReadyForGeneration, resp.Stage)
	assert.False(t, resp.GenerationStarted)
	assert.Contains(t, resp.Message, "Just say 'yes'")
}

func TestNegativeConfirmationOffersModification(t *testing.T) {
	uc := newConvUseCase(t, &fakeAgent{generate: successResult})
	id := advanceToReady(t, uc)

	resp, err := uc.ProcessMessage(context.Background(), id, "no, I want to modify the tone")
	require.NoError(t, err)

	assert.Equal(t, entity.ConversationStageReadyForGeneration, resp.Stage)
	assert.Contains(t, resp.Message, "What would you like to modify")
	assert.Contains(t, resp.Actions, "modify_tone")
}

func TestGenerationRoundTrip(t *testing.T) {
	uc := newConvUseCase(t, &fakeAgent{generate: successResult})
	ctx := context.Background()
	id := advanceToReady(t, uc)

	resp, err := uc.ProcessMessage(ctx, id, "yes, generate them!")
	require.NoError(t, err)
	assert.Equal(t, entity.ConversationStageGenerating, resp.Stage)
	assert.True(t, resp.GenerationStarted)
	assert.Contains(t, resp.Message, "generating your 4 social media ad variations")

	waitForStage(t, uc, id, entity.ConversationStageCompleted)

	status, err := uc.GetStatus(ctx, id)
	require.NoError(t, err)
	assert.True(t, status.GenerationComplete)

	resp, err = uc.ProcessMessage(ctx, id, "show me")
	require.NoError(t, err)
	assert.Contains(t, resp.Message, "🎉 Amazing! Your 4 social media ads are ready!")
	assert.Len(t, resp.Ads, 4)
	assert.InDelta(t, 6.2, resp.GenerationTime, 0.001)
	assert.Contains(t, resp.Actions, "new_product")
}

func TestGenerationFailureAllowsRetry(t *testing.T) {
	agent := &fakeAgent{generate: func() (*entity.AdGenerationResult, error) {
		return nil, errors.New("every variation failed")
	}}
	uc := newConvUseCase(t, agent)
	ctx := context.Background()
	id := advanceToReady(t, uc)

	_, err := uc.ProcessMessage(ctx, id, "yes")
	require.NoError(t, err)

	waitForStage(t, uc, id, entity.ConversationStageGenerationFailed)

	resp, err := uc.ProcessMessage(ctx, id, "what happened?")
	require.NoError(t, err)
	assert.Contains(t, resp.Message, "every variation failed")
	assert.Contains(t, resp.Message, "try again")
	assert.Equal(t, entity.ConversationStageReadyForGeneration, resp.Stage)

	// Retry succeeds once the backend recovers.
	agent.generate = successResult
	resp, err = uc.ProcessMessage(ctx, id, "yes")
	require.NoError(t, err)
	assert.True(t, resp.GenerationStarted)

	waitForStage(t, uc, id, entity.ConversationStageCompleted)
}

// completionGuardRepo flags any update that reverts a stored generation
// result back to a bare GENERATING record.
type completionGuardRepo struct {
	repository.ConversationRepository
	mu        sync.Mutex
	completed bool
	clobbered bool
}

func (g *completionGuardRepo) Update(conv *entity.Conversation) error {
	g.mu.Lock()
	switch {
	case conv.Result != nil:
		g.completed = true
	case g.completed && conv.Stage == entity.ConversationStageGenerating:
		g.clobbered = true
	}
	g.mu.Unlock()
	return g.ConversationRepository.Update(conv)
}

func TestChatDuringGenerationKeepsCompletion(t *testing.T) {
	release := make(chan struct{})
	agentStub := &fakeAgent{generate: func() (*entity.AdGenerationResult, error) {
		<-release
		return successResult()
	}}

	guard := &completionGuardRepo{ConversationRepository: repository.NewConversationMemory(0)}
	uc := NewUseCase(guard, agentStub, classifier.NewKeyword(), Config{UploadDir: t.TempDir()})
	ctx := context.Background()
	id := advanceToReady(t, uc)

	resp, err := uc.ProcessMessage(ctx, id, "yes")
	require.NoError(t, err)
	require.True(t, resp.GenerationStarted)

	// Hammer the conversation with chat turns while the background
	// completion write lands; a turn's stale update must never overwrite
	// the stored result.
	for i := 0; i < 200; i++ {
		if i == 20 {
			close(release)
		}
		_, err := uc.ProcessMessage(ctx, id, "how is it going?")
		require.NoError(t, err)
	}

	waitForStage(t, uc, id, entity.ConversationStageCompleted)

	assert.False(t, guard.clobbered, "a chat turn overwrote the stored completion")

	status, err := uc.GetStatus(ctx, id)
	require.NoError(t, err)
	assert.True(t, status.GenerationComplete)
}

type stubAnalyzer struct {
	analysis *entity.ImageAnalysis
}

func (s *stubAnalyzer) Analyze(string) (*entity.ImageAnalysis, error) {
	return s.analysis, nil
}

type stubGenerator struct {
	generate func(req imagegen.Request) ([]byte, error)
}

func (s *stubGenerator) Generate(_ context.Context, req imagegen.Request) ([]byte, error) {
	return s.generate(req)
}

// Retry after a total generation failure must not resubmit answers: the
// session is already in GENERATING, so a second SubmitAnswers would trip
// the stage gate. Wired against the real core agent to cover that path.
func TestGenerationRetryWithCoreAgent(t *testing.T) {
	// Output path occupied by a regular file: every creative write fails,
	// so the first attempt is a total failure.
	outputDir := filepath.Join(t.TempDir(), "out")
	require.NoError(t, os.WriteFile(outputDir, []byte("x"), 0o644))

	coreAgent := agent.NewUseCase(
		repository.NewSessionMemory(0),
		&stubAnalyzer{analysis: &entity.ImageAnalysis{
			Category:        entity.CategoryFashion,
			DominantColors:  []string{"#101010", "#fafafa"},
			ProductFeatures: []string{"stylish design"},
			BackgroundType:  "clean background",
			QualityScore:    0.9,
		}},
		classifier.NewKeyword(),
		&stubGenerator{generate: func(req imagegen.Request) ([]byte, error) {
			return imaging.Placeholder(req.Index, req.RequestID)
		}},
		agent.Config{OutputDir: outputDir, Concurrent: true, GenerationTimeout: time.Second},
	)

	uc := NewUseCase(
		repository.NewConversationMemory(0),
		coreAgent,
		classifier.NewKeyword(),
		Config{UploadDir: t.TempDir()},
	)
	ctx := context.Background()
	id := advanceToReady(t, uc)

	_, err := uc.ProcessMessage(ctx, id, "yes")
	require.NoError(t, err)
	waitForStage(t, uc, id, entity.ConversationStageGenerationFailed)

	resp, err := uc.ProcessMessage(ctx, id, "what happened?")
	require.NoError(t, err)
	require.Equal(t, entity.ConversationStageReadyForGeneration, resp.Stage)

	// Clear the blockage so the retry can store creatives.
	require.NoError(t, os.Remove(outputDir))
	require.NoError(t, os.MkdirAll(outputDir, 0o755))

	resp, err = uc.ProcessMessage(ctx, id, "yes")
	require.NoError(t, err)
	assert.True(t, resp.GenerationStarted, "retry must start without resubmitting answers")
	assert.Empty(t, resp.Error)

	waitForStage(t, uc, id, entity.ConversationStageCompleted)

	status, err := uc.GetStatus(ctx, id)
	require.NoError(t, err)
	assert.True(t, status.GenerationComplete)
}

func TestSubmitAnswersFailureStaysReady(t *testing.T) {
	uc := newConvUseCase(t, &fakeAgent{
		submitErr: errors.New("session expired"),
		generate:  successResult,
	})
	id := advanceToReady(t, uc)

	resp, err := uc.ProcessMessage(context.Background(), id, "yes")
	require.NoError(t, err)

	assert.Equal(t, entity.ConversationStageReadyForGeneration, resp.Stage)
	assert.False(t, resp.GenerationStarted)
	assert.Equal(t, "session expired", resp.Error)
}

func TestCompletedConversationRestarts(t *testing.T) {
	uc := newConvUseCase(t, &fakeAgent{generate: successResult})
	ctx := context.Background()
	id := advanceToReady(t, uc)

	_, err := uc.ProcessMessage(ctx, id, "yes")
	require.NoError(t, err)
	waitForStage(t, uc, id, entity.ConversationStageCompleted)

	resp, err := uc.ProcessMessage(ctx, id, "let's do another product")
	require.NoError(t, err)
	assert.Equal(t, entity.ConversationStageWaitingForImage, resp.Stage)
	assert.Contains(t, resp.Message, "new product")

	conv, err := uc.GetConversation(ctx, id)
	require.NoError(t, err)
	assert.False(t, conv.ImageUploaded)
	assert.Nil(t, conv.Result)
	assert.Zero(t, conv.QuestionsAsked)
	assert.NotEmpty(t, conv.History, "transcript survives the restart")
}

func TestReset(t *testing.T) {
	uc := newConvUseCase(t, &fakeAgent{generate: successResult})
	ctx := context.Background()

	id := startConversation(t, uc)
	uploadImage(t, uc, id)

	resp, err := uc.Reset(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, entity.ConversationStageWaitingForImage, resp.Stage)
	assert.Contains(t, resp.Actions, "upload_image")

	conv, err := uc.GetConversation(ctx, id)
	require.NoError(t, err)
	assert.False(t, conv.ImageUploaded)
	assert.Nil(t, conv.Analysis)
	assert.Empty(t, conv.SessionID)
}
