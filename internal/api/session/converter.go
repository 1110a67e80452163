package session

import "github.com/adforge/adgen-backend/internal/entity"

func toStartResponse(session *entity.Session) *entity.StartSessionResponse {
	return &entity.StartSessionResponse{
		SessionID: session.ID,
		Stage:     session.Stage,
	}
}

func toUploadResponse(session *entity.Session) *entity.UploadImageResponse {
	return &entity.UploadImageResponse{
		SessionID: session.ID,
		Stage:     session.Stage,
		Analysis:  session.Analysis,
		Questions: session.Questions,
	}
}

func toStatusResponse(session *entity.Session) *entity.SessionStatusResponse {
	return &entity.SessionStatusResponse{
		SessionID:          session.ID,
		Stage:              session.Stage,
		HasAnalysis:        session.Analysis != nil,
		QuestionsCount:     len(session.Questions),
		ResponsesCount:     len(session.Answers),
		GenerationComplete: session.Result != nil,
		CreatedAt:          session.CreatedAt,
	}
}
