package entity

import "time"

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	ConversationID string `json:"conversation_id"`
	Message        string `json:"message"`
}

// QuestionContext describes the active question for the client UI.
type QuestionContext struct {
	Type           QuestionType    `json:"type"`
	Category       ProductCategory `json:"category"`
	QuestionNumber int             `json:"question_number"`
	TotalQuestions int             `json:"total_questions"`
}

// AnalysisSummary is the condensed analysis echoed after an upload.
type AnalysisSummary struct {
	Category ProductCategory `json:"category"`
	Colors   []string        `json:"colors"`
	Quality  float64         `json:"quality"`
}

// ChatResponse is the orchestrator's reply for chat, upload and start calls.
// Stage-specific fields are omitted when empty.
type ChatResponse struct {
	ConversationID    string            `json:"conversation_id"`
	Stage             ConversationStage `json:"stage"`
	Message           string            `json:"message"`
	Actions           []string          `json:"actions,omitempty"`
	Examples          []string          `json:"examples,omitempty"`
	QuestionContext   *QuestionContext  `json:"question_context,omitempty"`
	AnalysisSummary   *AnalysisSummary  `json:"analysis_summary,omitempty"`
	InfoSummary       string            `json:"info_summary,omitempty"`
	Ads               []GeneratedAd     `json:"ads,omitempty"`
	GenerationTime    float64           `json:"generation_time,omitempty"`
	GenerationStarted bool              `json:"generation_started,omitempty"`
	Error             string            `json:"error,omitempty"`
}

// ConversationStatusResponse is the read-only poll payload.
type ConversationStatusResponse struct {
	ConversationID     string            `json:"conversation_id"`
	Stage              ConversationStage `json:"stage"`
	QuestionsAsked     int               `json:"questions_asked"`
	ReadyForGeneration bool              `json:"ready_for_generation"`
	ImageUploaded      bool              `json:"image_uploaded"`
	GenerationComplete bool              `json:"generation_complete"`
	CreatedAt          time.Time         `json:"created_at"`
}

// HistoryResponse returns the full transcript of a conversation.
type HistoryResponse struct {
	ConversationID string    `json:"conversation_id"`
	History        []Message `json:"history"`
}
