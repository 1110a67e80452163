// Package conversation orchestrates the chat flow around the core agent:
// greeting, image upload, three contextual questions, confirmation and
// background generation. The conversation record is the single source of
// truth; transcript history is append-only and never drives control flow.
package conversation

import (
	"context"
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/adforge/adgen-backend/internal/entity"
	"github.com/adforge/adgen-backend/internal/pkg/logger"
	"github.com/adforge/adgen-backend/internal/repository"
)

type Config struct {
	UploadDir string
}

// lockShards sizes the striped lock table for conversation records.
const lockShards = 32

type UseCase struct {
	conversations repository.ConversationRepository
	agent         CoreAgent
	classifier    Classifier
	cfg           Config
	locks         [lockShards]sync.Mutex
}

func NewUseCase(
	conversations repository.ConversationRepository,
	agent CoreAgent,
	classifier Classifier,
	cfg Config,
) *UseCase {
	return &UseCase{
		conversations: conversations,
		agent:         agent,
		classifier:    classifier,
		cfg:           cfg,
	}
}

// StartConversation allocates a conversation and returns the greeting.
// The greeting immediately advances to WAITING_FOR_IMAGE; the GREETING
// stage only exists for clients that create conversations out of band.
func (u *UseCase) StartConversation(ctx context.Context) (*entity.ChatResponse, error) {
	now := time.Now()
	conv := &entity.Conversation{
		ID:        uuid.NewString(),
		Stage:     entity.ConversationStageWaitingForImage,
		CreatedAt: now,
		UpdatedAt: now,
	}

	resp := &entity.ChatResponse{
		ConversationID: conv.ID,
		Stage:          conv.Stage,
		Message:        greetingMessage,
		Actions:        []string{"upload_image"},
		Examples:       greetingExamples,
	}
	appendHistory(conv, entity.RoleAgent, resp.Message)

	if err := u.conversations.Create(conv); err != nil {
		return nil, fmt.Errorf("create conversation: %w", err)
	}

	ctxzap.Info(ctx, "conversation started", zap.String("conversation_id", conv.ID))
	return resp, nil
}

// lockConversation serializes read-modify-write cycles on one conversation.
// The store hands out clones, so two interleaved Get/Update pairs would
// silently drop one side's write; in particular a chat turn must never
// clobber the background completion write.
func (u *UseCase) lockConversation(conversationID string) func() {
	h := fnv.New32a()
	h.Write([]byte(conversationID))
	mu := &u.locks[h.Sum32()%lockShards]
	mu.Lock()
	return mu.Unlock
}

// ProcessMessage routes one user message through the stage state machine.
func (u *UseCase) ProcessMessage(ctx context.Context, conversationID, message string) (*entity.ChatResponse, error) {
	unlock := u.lockConversation(conversationID)
	defer unlock()

	return u.processMessage(ctx, conversationID, message)
}

func (u *UseCase) processMessage(ctx context.Context, conversationID, message string) (*entity.ChatResponse, error) {
	conv, err := u.conversations.Get(conversationID)
	if err != nil {
		return nil, err
	}

	ctx = logger.WithConversation(ctx, conv.ID)
	appendHistory(conv, entity.RoleUser, message)

	var resp *entity.ChatResponse
	switch conv.Stage {
	case entity.ConversationStageGreeting:
		resp = u.handleGreeting(conv)
	case entity.ConversationStageWaitingForImage, entity.ConversationStageAnalyzingImage:
		resp = u.handleWaitingForImage(conv)
	case entity.ConversationStageAskingQuestions:
		resp = u.handleQuestionResponse(conv, message)
	case entity.ConversationStageReadyForGeneration:
		resp = u.handleGenerationRequest(ctx, conv, message)
	case entity.ConversationStageGenerating:
		resp = u.handleGenerating(conv)
	case entity.ConversationStageCompleted:
		resp = u.handleCompletionChat(conv, message)
	case entity.ConversationStageGenerationFailed:
		resp = u.handleGenerationFailed(conv)
	default:
		resp = u.handleUnknownStage(conv)
	}

	appendHistory(conv, entity.RoleAgent, resp.Message)
	conv.UpdatedAt = time.Now()

	if err := u.conversations.Update(conv); err != nil {
		return nil, fmt.Errorf("update conversation: %w", err)
	}

	// The fan-out starts only after the generating stage is persisted, so
	// its completion write can never be clobbered by this update.
	if resp.GenerationStarted {
		bgCtx := ctxzap.ToContext(context.Background(), ctxzap.Extract(ctx))
		go u.generateInBackground(bgCtx, conv.ID, conv.SessionID)
	}

	return resp, nil
}

// UploadImage stores the product photo, runs analysis through the core
// agent and asks the first question. Uploads are accepted in any
// pre-question stage; a second upload is rejected until the flow resets.
func (u *UseCase) UploadImage(ctx context.Context, conversationID string, data []byte, filename string) (*entity.ChatResponse, error) {
	unlock := u.lockConversation(conversationID)
	defer unlock()

	conv, err := u.conversations.Get(conversationID)
	if err != nil {
		return nil, err
	}

	ctx = logger.WithConversation(ctx, conv.ID)

	if conv.ImageUploaded {
		return u.processMessage(ctx, conversationID, "uploaded another image")
	}

	session, err := u.agent.StartSession(ctx)
	if err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}
	conv.SessionID = session.ID
	conv.Stage = entity.ConversationStageAnalyzingImage

	imagePath, err := u.saveUpload(conv.ID, data, filename)
	if err != nil {
		ctxzap.Warn(ctx, "failed to store upload", zap.Error(err))
		conv.Stage = entity.ConversationStageWaitingForImage
		resp := u.reply(conv, invalidImageMessage)
		return u.finish(conv, resp)
	}

	updated, err := u.agent.UploadImage(ctx, session.ID, imagePath)
	if err != nil {
		conv.Stage = entity.ConversationStageWaitingForImage
		resp := u.reply(conv, fmt.Sprintf(analysisFailedMessage, err))
		return u.finish(conv, resp)
	}

	conv.ImageUploaded = true
	conv.ImagePath = imagePath
	conv.Analysis = updated.Analysis
	conv.Stage = entity.ConversationStageAskingQuestions

	resp := u.askFirstQuestion(conv)
	return u.finish(conv, resp)
}

// GetStatus returns the poll snapshot. A generation that finished in the
// background is reconciled into the stored stage here.
func (u *UseCase) GetStatus(ctx context.Context, conversationID string) (*entity.ConversationStatusResponse, error) {
	unlock := u.lockConversation(conversationID)
	defer unlock()

	conv, err := u.conversations.Get(conversationID)
	if err != nil {
		return nil, err
	}

	if reconcile(conv) {
		conv.UpdatedAt = time.Now()
		if err := u.conversations.Update(conv); err != nil {
			return nil, fmt.Errorf("update conversation: %w", err)
		}
	}

	return &entity.ConversationStatusResponse{
		ConversationID:     conv.ID,
		Stage:              conv.Stage,
		QuestionsAsked:     conv.QuestionsAsked,
		ReadyForGeneration: conv.QuestionsAsked >= entity.MaxQuestions,
		ImageUploaded:      conv.ImageUploaded,
		GenerationComplete: conv.Result != nil,
		CreatedAt:          conv.CreatedAt,
	}, nil
}

// GetHistory returns the full transcript.
func (u *UseCase) GetHistory(ctx context.Context, conversationID string) (*entity.HistoryResponse, error) {
	conv, err := u.conversations.Get(conversationID)
	if err != nil {
		return nil, err
	}

	return &entity.HistoryResponse{
		ConversationID: conv.ID,
		History:        conv.History,
	}, nil
}

// Reset clears all conversation state except the identifier so the user
// can start over with a new product.
func (u *UseCase) Reset(ctx context.Context, conversationID string) (*entity.ChatResponse, error) {
	unlock := u.lockConversation(conversationID)
	defer unlock()

	conv, err := u.conversations.Get(conversationID)
	if err != nil {
		return nil, err
	}

	resetConversation(conv)

	resp := u.reply(conv, restartMessage)
	resp.Actions = []string{"upload_image"}
	return u.finish(conv, resp)
}

// GetConversation returns the raw conversation record.
func (u *UseCase) GetConversation(ctx context.Context, conversationID string) (*entity.Conversation, error) {
	return u.conversations.Get(conversationID)
}

func (u *UseCase) saveUpload(conversationID string, data []byte, filename string) (string, error) {
	if len(data) == 0 {
		return "", entity.ErrInvalidFile
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = ".jpg"
	}

	if err := os.MkdirAll(u.cfg.UploadDir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	name := fmt.Sprintf("product_%s_%s%s", conversationID, uuid.NewString()[:8], ext)
	path := filepath.Join(u.cfg.UploadDir, name)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("store upload: %w", err)
	}

	return path, nil
}

// reconcile folds a finished background generation into the stage.
// It only ever moves GENERATING forward, never any other stage.
func reconcile(conv *entity.Conversation) bool {
	if conv.Stage != entity.ConversationStageGenerating {
		return false
	}

	switch {
	case conv.Result != nil:
		conv.Stage = entity.ConversationStageCompleted
		return true
	case conv.GenerationError != "":
		conv.Stage = entity.ConversationStageGenerationFailed
		return true
	}
	return false
}

func resetConversation(conv *entity.Conversation) {
	conv.Stage = entity.ConversationStageWaitingForImage
	conv.SessionID = ""
	conv.ImageUploaded = false
	conv.ImagePath = ""
	conv.Analysis = nil
	conv.Collected = entity.CollectedInfo{}
	conv.CurrentQuestion = nil
	conv.QuestionsAsked = 0
	conv.Result = nil
	conv.GenerationError = ""
}

func (u *UseCase) reply(conv *entity.Conversation, message string) *entity.ChatResponse {
	return &entity.ChatResponse{
		ConversationID: conv.ID,
		Stage:          conv.Stage,
		Message:        message,
	}
}

// finish appends the agent reply to the transcript and persists the record.
func (u *UseCase) finish(conv *entity.Conversation, resp *entity.ChatResponse) (*entity.ChatResponse, error) {
	appendHistory(conv, entity.RoleAgent, resp.Message)
	conv.UpdatedAt = time.Now()

	if err := u.conversations.Update(conv); err != nil {
		return nil, fmt.Errorf("update conversation: %w", err)
	}
	return resp, nil
}

func appendHistory(conv *entity.Conversation, role entity.MessageRole, message string) {
	conv.History = append(conv.History, entity.Message{
		Role:      role,
		Text:      message,
		Timestamp: time.Now(),
	})
}
