package entity

import (
	"fmt"
	"time"
)

type SessionStage string

// Session stage represents the current state of the upload/answer/generate workflow.
// Transitions are strictly forward: UPLOADING -> QUESTIONING -> GENERATING -> COMPLETED.
const (
	SessionStageUploading   SessionStage = "UPLOADING"   // Session created, waiting for product image
	SessionStageQuestioning SessionStage = "QUESTIONING" // Image analyzed, collecting answers
	SessionStageGenerating  SessionStage = "GENERATING"  // Answers accepted, ready to generate ads
	SessionStageCompleted   SessionStage = "COMPLETED"   // Generation finished
)

type ConversationStage string

// Conversation stage drives the chat orchestrator state machine.
const (
	ConversationStageGreeting           ConversationStage = "GREETING"
	ConversationStageWaitingForImage    ConversationStage = "WAITING_FOR_IMAGE"
	ConversationStageAnalyzingImage     ConversationStage = "ANALYZING_IMAGE"
	ConversationStageAskingQuestions    ConversationStage = "ASKING_QUESTIONS"
	ConversationStageReadyForGeneration ConversationStage = "READY_FOR_GENERATION"
	ConversationStageGenerating         ConversationStage = "GENERATING"
	ConversationStageCompleted          ConversationStage = "COMPLETED"
	ConversationStageGenerationFailed   ConversationStage = "GENERATION_FAILED"
)

type ProductCategory string

const (
	CategoryFashion     ProductCategory = "fashion"
	CategoryElectronics ProductCategory = "electronics"
	CategoryFood        ProductCategory = "food_beverage"
	CategoryHomeGarden  ProductCategory = "home_garden"
	CategoryBeauty      ProductCategory = "beauty_personal_care"
	CategorySports      ProductCategory = "sports_outdoors"
	CategoryAutomotive  ProductCategory = "automotive"
	CategoryBooksMedia  ProductCategory = "books_media"
	CategoryToysGames   ProductCategory = "toys_games"
	CategoryServices    ProductCategory = "services"
	CategoryOther       ProductCategory = "other"
)

type BrandTone string

const (
	ToneProfessional  BrandTone = "professional"
	TonePlayful       BrandTone = "playful"
	ToneLuxury        BrandTone = "luxury"
	ToneMinimalist    BrandTone = "minimalist"
	ToneBold          BrandTone = "bold"
	ToneFriendly      BrandTone = "friendly"
	ToneSophisticated BrandTone = "sophisticated"
)

func (bt *BrandTone) Validate() error {
	switch *bt {
	case ToneProfessional, TonePlayful, ToneLuxury, ToneMinimalist, ToneBold, ToneFriendly, ToneSophisticated:
		return nil
	default:
		return fmt.Errorf("unknown brand tone: %s", *bt)
	}
}

type AdVariationType string

// The fixed catalog of ad variations generated for every request.
const (
	VariationLifestyle   AdVariationType = "lifestyle"
	VariationProductHero AdVariationType = "product_hero"
	VariationBenefit     AdVariationType = "benefit_focused"
	VariationSocialProof AdVariationType = "social_proof"
)

// AdVariations lists the four variations in generation order.
var AdVariations = []AdVariationType{
	VariationLifestyle,
	VariationProductHero,
	VariationBenefit,
	VariationSocialProof,
}

type QuestionType string

const (
	QuestionTargetAudience QuestionType = "target_audience"
	QuestionBrandTone      QuestionType = "brand_tone"
	QuestionKeyMessage     QuestionType = "key_message"
)

// MaxQuestions is the fixed number of questions asked per conversation.
const MaxQuestions = 3

// ImageAnalysis is the product image analysis snapshot.
type ImageAnalysis struct {
	Category           ProductCategory `json:"category"`
	DominantColors     []string        `json:"dominant_colors"`
	ProductFeatures    []string        `json:"product_features"`
	BackgroundType     string          `json:"background_type"`
	QualityScore       float64         `json:"image_quality_score"`
	SuggestedQuestions []string        `json:"suggested_questions,omitempty"`
}

// Answer is a single question/answer pair submitted to a session.
type Answer struct {
	QuestionID   QuestionType   `json:"question_id"`
	QuestionText string         `json:"question_text"`
	Response     string         `json:"response"`
	Extraction   map[string]any `json:"processed_response,omitempty"`
}

// Session is the core agent record: one upload -> answer -> generate cycle.
type Session struct {
	ID        string              `json:"session_id"`
	Stage     SessionStage        `json:"stage"`
	Analysis  *ImageAnalysis      `json:"analysis,omitempty"`
	ImagePath string              `json:"image_path,omitempty"`
	Questions []string            `json:"questions,omitempty"`
	Answers   []Answer            `json:"answers,omitempty"`
	Result    *AdGenerationResult `json:"result,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// PendingQuestion describes the question currently awaiting a user answer.
type PendingQuestion struct {
	Type     QuestionType    `json:"type"`
	Question string          `json:"question"`
	Category ProductCategory `json:"category_context"`
}

// CollectedInfo holds the structured answers gathered during the question flow.
type CollectedInfo struct {
	TargetAudience string         `json:"target_audience,omitempty"`
	BrandTone      *BrandTone     `json:"brand_tone,omitempty"`
	KeyMessage     string         `json:"key_message,omitempty"`
	Extras         map[string]any `json:"additional_context,omitempty"`
}

type MessageRole string

const (
	RoleUser  MessageRole = "user"
	RoleAgent MessageRole = "agent"
)

// Message is one entry of the append-only conversation transcript.
// History is display/audit only and never drives control flow.
type Message struct {
	Role      MessageRole `json:"role"`
	Text      string      `json:"message"`
	Timestamp time.Time   `json:"timestamp"`
}

// Conversation is the orchestrator record wrapping at most one session.
type Conversation struct {
	ID              string              `json:"conversation_id"`
	Stage           ConversationStage   `json:"stage"`
	SessionID       string              `json:"session_id,omitempty"`
	ImageUploaded   bool                `json:"image_uploaded"`
	ImagePath       string              `json:"image_path,omitempty"`
	Analysis        *ImageAnalysis      `json:"analysis,omitempty"`
	Collected       CollectedInfo       `json:"collected_info"`
	CurrentQuestion *PendingQuestion    `json:"current_question,omitempty"`
	QuestionsAsked  int                 `json:"questions_asked"`
	History         []Message           `json:"conversation_history,omitempty"`
	Result          *AdGenerationResult `json:"generation_result,omitempty"`
	GenerationError string              `json:"generation_error,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// GeneratedAd is immutable once created.
type GeneratedAd struct {
	VariationType AdVariationType `json:"variation_type"`
	ImagePath     string          `json:"image_url"`
	PromptUsed    string          `json:"prompt_used"`
	ElapsedSecs   float64         `json:"generation_time_seconds"`
	QualityScore  *float64        `json:"quality_score,omitempty"`
}

// AdGenerationResult is the outcome of one four-variation fan-out.
type AdGenerationResult struct {
	RequestID    string        `json:"request_id"`
	Ads          []GeneratedAd `json:"ads"`
	TotalSeconds float64       `json:"total_generation_time_seconds"`
	Success      bool          `json:"success"`
	ErrorMessage string        `json:"error_message,omitempty"`
}
