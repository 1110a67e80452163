package conversation

import (
	"context"

	"github.com/adforge/adgen-backend/internal/entity"
)

type ConversationUsecase interface {
	StartConversation(ctx context.Context) (*entity.ChatResponse, error)
	ProcessMessage(ctx context.Context, conversationID, message string) (*entity.ChatResponse, error)
	UploadImage(ctx context.Context, conversationID string, data []byte, filename string) (*entity.ChatResponse, error)
	GetStatus(ctx context.Context, conversationID string) (*entity.ConversationStatusResponse, error)
	GetHistory(ctx context.Context, conversationID string) (*entity.HistoryResponse, error)
	Reset(ctx context.Context, conversationID string) (*entity.ChatResponse, error)
	GetConversation(ctx context.Context, conversationID string) (*entity.Conversation, error)
}

type ReportGenerator interface {
	Render(conv *entity.Conversation) ([]byte, error)
	ContentType() string
}
