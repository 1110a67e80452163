package conversation

import (
	"context"
	"fmt"
	"strings"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/adforge/adgen-backend/internal/entity"
	"github.com/adforge/adgen-backend/internal/prompts"
)

var affirmativeWords = []string{"yes", "generate", "start", "create"}
var negativeWords = []string{"no", "modify", "change"}
var restartWords = []string{"another", "new product", "start over", "restart"}

func (u *UseCase) handleGreeting(conv *entity.Conversation) *entity.ChatResponse {
	conv.Stage = entity.ConversationStageWaitingForImage

	resp := u.reply(conv, uploadPromptMessage)
	resp.Actions = []string{"upload_image"}
	return resp
}

func (u *UseCase) handleWaitingForImage(conv *entity.Conversation) *entity.ChatResponse {
	resp := u.reply(conv, stillWaitingForImageMessage)
	resp.Actions = []string{"upload_image"}
	return resp
}

// askFirstQuestion personalizes the opening question from the analysis and
// starts the question counter.
func (u *UseCase) askFirstQuestion(conv *entity.Conversation) *entity.ChatResponse {
	category := conv.Analysis.Category

	questionType, block := prompts.QuestionForIndex(1, category, "")
	conv.CurrentQuestion = &entity.PendingQuestion{
		Type:     questionType,
		Question: block.Question,
		Category: category,
	}
	conv.QuestionsAsked = 1

	quality := ""
	if conv.Analysis.QualityScore > 0.8 {
		quality = qualityComment
	}

	message := fmt.Sprintf("Perfect! %s%s\n\n%s\n\n💡 %s",
		block.Message, quality, block.Question, block.Tip)

	colors := conv.Analysis.DominantColors
	if len(colors) > 3 {
		colors = colors[:3]
	}

	resp := u.reply(conv, message)
	resp.QuestionContext = &entity.QuestionContext{
		Type:           questionType,
		Category:       category,
		QuestionNumber: 1,
		TotalQuestions: entity.MaxQuestions,
	}
	resp.AnalysisSummary = &entity.AnalysisSummary{
		Category: category,
		Colors:   colors,
		Quality:  conv.Analysis.QualityScore,
	}
	return resp
}

func (u *UseCase) handleQuestionResponse(conv *entity.Conversation, message string) *entity.ChatResponse {
	if conv.CurrentQuestion == nil {
		return u.handleUnknownStage(conv)
	}

	u.recordAnswer(conv, message)

	if conv.QuestionsAsked < entity.MaxQuestions {
		return u.askNextQuestion(conv)
	}

	return u.readyForGeneration(conv)
}

// recordAnswer classifies the answer for the active question and folds it
// into the collected info.
func (u *UseCase) recordAnswer(conv *entity.Conversation, response string) {
	questionType := conv.CurrentQuestion.Type
	extraction := u.classifier.Classify(questionType, response)

	if conv.Collected.Extras == nil {
		conv.Collected.Extras = map[string]any{}
	}

	switch questionType {
	case entity.QuestionTargetAudience:
		conv.Collected.TargetAudience = strings.TrimSpace(response)
		if demo, ok := extraction["demographics"]; ok {
			conv.Collected.Extras["demographics"] = demo
		}

	case entity.QuestionBrandTone:
		tone := entity.ToneProfessional
		if t, ok := extraction["brand_tone"].(string); ok {
			tone = entity.BrandTone(t)
		}
		conv.Collected.BrandTone = &tone
		if kws, ok := extraction["tone_keywords"]; ok {
			conv.Collected.Extras["tone_keywords"] = kws
		}

	case entity.QuestionKeyMessage:
		conv.Collected.KeyMessage = strings.TrimSpace(response)
		if cta, ok := extraction["call_to_action"]; ok {
			conv.Collected.Extras["call_to_action"] = cta
		}
	}
}

// askNextQuestion advances the question counter by exactly one.
// The counter is monotonic; nothing ever decrements it.
func (u *UseCase) askNextQuestion(conv *entity.Conversation) *entity.ChatResponse {
	number := conv.QuestionsAsked + 1
	category := conv.Analysis.Category

	questionType, block := prompts.QuestionForIndex(number, category, conv.Collected.TargetAudience)
	conv.CurrentQuestion = &entity.PendingQuestion{
		Type:     questionType,
		Question: block.Question,
		Category: category,
	}
	conv.QuestionsAsked = number

	message := fmt.Sprintf("%s\n\n%s\n\n💡 %s", block.Message, block.Question, block.Tip)

	resp := u.reply(conv, message)
	resp.QuestionContext = &entity.QuestionContext{
		Type:           questionType,
		Category:       category,
		QuestionNumber: number,
		TotalQuestions: entity.MaxQuestions,
	}
	return resp
}

func (u *UseCase) readyForGeneration(conv *entity.Conversation) *entity.ChatResponse {
	conv.Stage = entity.ConversationStageReadyForGeneration
	conv.CurrentQuestion = nil

	summary := buildInfoSummary(conv)
	message := fmt.Sprintf("Perfect! I have everything I need to create your ads. Here's what I understand:\n\n"+
		"%s\n\n"+
		"I'm ready to generate 4 unique social media ad variations for you! "+
		"This will take about 30-60 seconds.\n\n"+
		"Should I start creating your ads now? 🎨", summary)

	resp := u.reply(conv, message)
	resp.Actions = []string{"generate_ads", "modify_info"}
	resp.InfoSummary = summary
	return resp
}

// handleGenerationRequest interprets the confirmation answer. Anything
// neither affirmative nor negative re-asks the question without side effects.
func (u *UseCase) handleGenerationRequest(ctx context.Context, conv *entity.Conversation, message string) *entity.ChatResponse {
	lower := strings.ToLower(message)

	switch {
	case containsAny(lower, affirmativeWords):
		return u.beginGeneration(ctx, conv)
	case containsAny(lower, negativeWords):
		resp := u.reply(conv, modificationPromptMessage)
		resp.Actions = []string{"modify_audience", "modify_tone", "modify_message"}
		return resp
	default:
		resp := u.reply(conv, confirmationPromptMessage)
		resp.Actions = []string{"generate_ads", "modify_info"}
		return resp
	}
}

// beginGeneration packages the collected info into the three canonical
// answers and hands them to the core agent. The fan-out itself runs in the
// background after this message is persisted.
func (u *UseCase) beginGeneration(ctx context.Context, conv *entity.Conversation) *entity.ChatResponse {
	session, err := u.agent.GetSession(ctx, conv.SessionID)
	if err != nil {
		ctxzap.Error(ctx, "failed to load session", zap.Error(err))

		resp := u.reply(conv, generationStartFailedMessage)
		resp.Error = err.Error()
		return resp
	}

	// A failed fan-out leaves the session in GENERATING with the answers
	// already recorded; a retry must not resubmit them.
	if session.Stage != entity.SessionStageGenerating {
		tone := entity.ToneProfessional
		if conv.Collected.BrandTone != nil {
			tone = *conv.Collected.BrandTone
		}

		answers := []entity.AnswerSubmission{
			{
				QuestionID:   entity.QuestionTargetAudience,
				QuestionText: "Who is your target customer?",
				Response:     conv.Collected.TargetAudience,
			},
			{
				QuestionID:   entity.QuestionBrandTone,
				QuestionText: "What tone should your ad convey?",
				Response:     string(tone),
			},
			{
				QuestionID:   entity.QuestionKeyMessage,
				QuestionText: "What's your main selling point?",
				Response:     conv.Collected.KeyMessage,
			},
		}

		if _, err := u.agent.SubmitAnswers(ctx, conv.SessionID, answers); err != nil {
			ctxzap.Error(ctx, "failed to submit answers", zap.Error(err))

			resp := u.reply(conv, generationStartFailedMessage)
			resp.Error = err.Error()
			return resp
		}
	}

	conv.Stage = entity.ConversationStageGenerating

	resp := u.reply(conv, generationStartedMessage)
	resp.GenerationStarted = true
	return resp
}

// generateInBackground runs the fan-out and writes the outcome back into
// the stored conversation. Only the GENERATING stage is ever overwritten.
func (u *UseCase) generateInBackground(ctx context.Context, conversationID, sessionID string) {
	result, err := u.agent.GenerateAds(ctx, sessionID)

	unlock := u.lockConversation(conversationID)
	defer unlock()

	conv, getErr := u.conversations.Get(conversationID)
	if getErr != nil {
		ctxzap.Error(ctx, "conversation vanished during generation", zap.Error(getErr))
		return
	}
	if conv.Stage != entity.ConversationStageGenerating {
		ctxzap.Warn(ctx, "conversation left generating stage during fan-out",
			zap.String("stage", string(conv.Stage)))
		return
	}

	if err != nil {
		ctxzap.Error(ctx, "background generation failed", zap.Error(err))
		conv.Stage = entity.ConversationStageGenerationFailed
		conv.GenerationError = err.Error()
	} else {
		conv.Stage = entity.ConversationStageCompleted
		conv.Result = result
	}

	if err := u.conversations.Update(conv); err != nil {
		ctxzap.Error(ctx, "failed to store generation outcome", zap.Error(err))
	}
}

func (u *UseCase) handleGenerating(conv *entity.Conversation) *entity.ChatResponse {
	if reconcile(conv) {
		if conv.Stage == entity.ConversationStageCompleted {
			return u.presentResults(conv)
		}
		return u.handleGenerationFailed(conv)
	}

	return u.reply(conv, stillGeneratingMessage)
}

func (u *UseCase) handleCompletionChat(conv *entity.Conversation, message string) *entity.ChatResponse {
	if containsAny(strings.ToLower(message), restartWords) {
		resetConversation(conv)

		resp := u.reply(conv, restartMessage)
		resp.Actions = []string{"upload_image"}
		return resp
	}

	return u.presentResults(conv)
}

// handleGenerationFailed reports the failure and drops back to the
// confirmation stage so the user can retry.
func (u *UseCase) handleGenerationFailed(conv *entity.Conversation) *entity.ChatResponse {
	reason := conv.GenerationError
	if reason == "" {
		reason = "unknown error"
	}

	conv.Stage = entity.ConversationStageReadyForGeneration
	conv.GenerationError = ""

	resp := u.reply(conv, fmt.Sprintf(generationFailedMessage, reason))
	resp.Actions = []string{"generate_ads", "modify_info"}
	return resp
}

func (u *UseCase) presentResults(conv *entity.Conversation) *entity.ChatResponse {
	result := conv.Result

	var sb strings.Builder
	fmt.Fprintf(&sb, "🎉 Amazing! Your %d social media ads are ready! Generated in %.1f seconds.\n\n",
		len(result.Ads), result.TotalSeconds)

	for i, ad := range result.Ads {
		fmt.Fprintf(&sb, "**%d. %s Ad** - %.1fs\n", i+1, variationTitle(ad.VariationType), ad.ElapsedSecs)
	}

	sb.WriteString("\n📱 All ads are optimized for Instagram/TikTok Stories (9:16 format)\n" +
		"💾 Ready for download and immediate use!\n\n" +
		"Would you like to:\n" +
		"• Create ads for another product? 🔄\n" +
		"• Ask about ad customization? ✏️\n" +
		"• Get tips for using these ads? 💡")

	resp := u.reply(conv, sb.String())
	resp.Ads = result.Ads
	resp.GenerationTime = result.TotalSeconds
	resp.Actions = []string{"new_product", "customize", "tips", "download"}
	return resp
}

func (u *UseCase) handleUnknownStage(conv *entity.Conversation) *entity.ChatResponse {
	return u.reply(conv, unknownStageMessage)
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}
