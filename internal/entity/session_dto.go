package entity

import "time"

// AnswerSubmission is one answer in a SubmitAnswersRequest.
type AnswerSubmission struct {
	QuestionID   QuestionType `json:"question_id"`
	QuestionText string       `json:"question_text"`
	Response     string       `json:"response"`
}

// SubmitAnswersRequest is the body of POST /session/{id}/answers.
type SubmitAnswersRequest struct {
	Answers []AnswerSubmission `json:"answers"`
}

// StartSessionResponse is returned when a session is allocated.
type StartSessionResponse struct {
	SessionID string       `json:"session_id"`
	Stage     SessionStage `json:"stage"`
}

// UploadImageResponse is returned after a successful image analysis.
type UploadImageResponse struct {
	SessionID string         `json:"session_id"`
	Stage     SessionStage   `json:"stage"`
	Analysis  *ImageAnalysis `json:"analysis"`
	Questions []string       `json:"questions"`
}

// SessionStatusResponse is the read-only session snapshot.
type SessionStatusResponse struct {
	SessionID          string       `json:"session_id"`
	Stage              SessionStage `json:"stage"`
	HasAnalysis        bool         `json:"has_analysis"`
	QuestionsCount     int          `json:"questions_count"`
	ResponsesCount     int          `json:"responses_count"`
	GenerationComplete bool         `json:"generation_complete"`
	CreatedAt          time.Time    `json:"created_at"`
}
