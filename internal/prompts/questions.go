// Package prompts holds the static question bank and ad prompt templates.
// All tables key on the bare enum value; every lookup has an explicit
// generic fallback entry so unmapped categories never fall through.
package prompts

import (
	"fmt"

	"github.com/adforge/adgen-backend/internal/entity"
)

// categoryIntros personalizes the message shown right after image analysis.
var categoryIntros = map[entity.ProductCategory]string{
	entity.CategoryFashion:     "I can see this is a fashion item! It looks stylish with those colors.",
	entity.CategoryElectronics: "I can see this is an electronic device! It looks sleek and modern.",
	entity.CategoryFood:        "I can see this is a food or beverage product! It looks appetizing.",
	entity.CategoryBeauty:      "I can see this is a beauty product! It looks elegant and premium.",
	entity.CategoryHomeGarden:  "I can see this is a home or garden item! It looks practical and stylish.",
	entity.CategorySports:      "I can see this is sports or outdoor equipment! It looks durable and functional.",
}

const genericIntro = "I've analyzed your product image!"

// CategoryIntro returns the analysis intro line for a category.
func CategoryIntro(category entity.ProductCategory) string {
	if intro, ok := categoryIntros[category]; ok {
		return intro
	}
	return genericIntro
}

var audienceQuestions = map[entity.ProductCategory]string{
	entity.CategoryFashion:     "Who do you imagine wearing this? Are you targeting young trendsetters, working professionals, or perhaps a different style-conscious group?",
	entity.CategoryElectronics: "Who's your ideal customer for this device? Tech enthusiasts who love the latest gadgets, or everyday users who value reliability and simplicity?",
	entity.CategoryFood:        "Who do you see enjoying this? Busy professionals looking for convenience, food lovers seeking premium quality, or health-conscious consumers?",
	entity.CategoryBeauty:      "Who's your target customer? People focused on anti-aging, those who love trying new beauty trends, or perhaps those seeking natural/organic solutions?",
	entity.CategoryHomeGarden:  "Who would be most interested in this? New homeowners setting up their space, design enthusiasts, or practical people looking for functional solutions?",
	entity.CategorySports:      "Who's your target market? Serious athletes training for performance, weekend warriors staying active, or outdoor adventure enthusiasts?",
}

const genericAudienceQuestion = "Who is your ideal customer for this product?"

// AudienceQuestion returns the first (target audience) question for a category.
func AudienceQuestion(category entity.ProductCategory) string {
	if q, ok := audienceQuestions[category]; ok {
		return q
	}
	return genericAudienceQuestion
}

// QuestionBlock is a question plus its conversational framing.
type QuestionBlock struct {
	Question string
	Message  string
	Tip      string
}

var toneQuestions = map[entity.ProductCategory]QuestionBlock{
	entity.CategoryFashion: {
		Question: "What vibe should your fashion ads have for %s? Should they feel trendy and bold, elegant and sophisticated, or casual and approachable?",
		Message:  "Great! Now let's talk about the tone and feeling of your ads.",
		Tip:      "The tone should match both your brand personality and what appeals to your target audience.",
	},
	entity.CategoryElectronics: {
		Question: "How should your tech ads feel to %s? Professional and trustworthy, innovative and cutting-edge, or simple and user-friendly?",
		Message:  "Excellent! Now, what tone should your tech ads convey?",
		Tip:      "Tech ads can emphasize reliability, innovation, or ease-of-use depending on your audience.",
	},
	entity.CategoryFood: {
		Question: "What mood should your food ads create for %s? Indulgent and premium, healthy and fresh, or cozy and comforting?",
		Message:  "Perfect! Now let's determine the right mood for your food ads.",
		Tip:      "Food ads work best when they evoke the right emotions and appetite appeal.",
	},
}

var genericToneQuestion = QuestionBlock{
	Question: "What tone should your ads have for %s? Professional, playful, luxury, or something else?",
	Message:  "Great! Now let's talk about your brand tone.",
	Tip:      "Your tone should reflect your brand personality and resonate with your target audience.",
}

// ToneQuestion returns the second (brand tone) question, personalized with
// the collected target audience.
func ToneQuestion(category entity.ProductCategory, audience string) QuestionBlock {
	if audience == "" {
		audience = "your customers"
	}

	block, ok := toneQuestions[category]
	if !ok {
		block = genericToneQuestion
	}
	block.Question = fmt.Sprintf(block.Question, audience)
	return block
}

var messageQuestions = map[entity.ProductCategory]QuestionBlock{
	entity.CategoryFashion: {
		Question: "What's the key message you want %s to remember? Is it about style, quality, affordability, or a special offer? What should they do next?",
		Message:  "Almost done! What's the most important message for your fashion ads?",
		Tip:      "Include your unique selling point and a clear call-to-action like 'Shop Now' or 'Get 20% Off'.",
	},
	entity.CategoryElectronics: {
		Question: "What's the main benefit you want %s to know about? Superior performance, latest features, great value, or reliability? What action should they take?",
		Message:  "Last question! What's the key message for your tech ads?",
		Tip:      "Focus on the problem you solve or the benefit you provide, with a clear next step.",
	},
	entity.CategoryFood: {
		Question: "What should %s know most about your product? Amazing taste, health benefits, premium ingredients, or special pricing? What's your call-to-action?",
		Message:  "Final question! What's your main message for these food ads?",
		Tip:      "Food ads work well with sensory language and urgency like 'Try Today' or 'Limited Time'.",
	},
}

var genericMessageQuestion = QuestionBlock{
	Question: "What's the most important message for %s? What makes your product special and what should they do next?",
	Message:  "Final question! What's your key message?",
	Tip:      "Combine your unique value proposition with a clear call-to-action.",
}

// MessageQuestion returns the third (key message) question.
func MessageQuestion(category entity.ProductCategory, audience string) QuestionBlock {
	if audience == "" {
		audience = "your customers"
	}

	block, ok := messageQuestions[category]
	if !ok {
		block = genericMessageQuestion
	}
	block.Question = fmt.Sprintf(block.Question, audience)
	return block
}

// QuestionForIndex resolves the question template that fires for a given
// 1-based question index: 1 -> target audience, 2 -> brand tone,
// 3 -> key message.
func QuestionForIndex(index int, category entity.ProductCategory, audience string) (entity.QuestionType, QuestionBlock) {
	switch index {
	case 1:
		return entity.QuestionTargetAudience, QuestionBlock{
			Question: AudienceQuestion(category),
			Message:  CategoryIntro(category),
			Tip:      "The more specific you are, the better I can tailor your ads!",
		}
	case 2:
		return entity.QuestionBrandTone, ToneQuestion(category, audience)
	default:
		return entity.QuestionKeyMessage, MessageQuestion(category, audience)
	}
}

var baseQuestions = []string{
	"Who is your target customer? (e.g., young professionals, parents, fitness enthusiasts, etc.)",
	"What tone should your ad convey? (professional, playful, luxury, minimalist, bold, friendly, sophisticated)",
	"What's the main selling point or call-to-action for your product?",
}

var categoryQuestions = map[entity.ProductCategory][]string{
	entity.CategoryFashion: {
		"What style aesthetic best describes your target customers? (minimalist, bohemian, streetwear, classic, trendy, etc.)",
		"What occasion or season is this product designed for? (everyday wear, special events, work, casual, seasonal, etc.)",
	},
	entity.CategoryElectronics: {
		"What are the key technical features or benefits we should highlight? (performance, convenience, innovation, etc.)",
		"Are you targeting tech enthusiasts, general consumers, or professionals?",
	},
	entity.CategoryFood: {
		"What eating or drinking occasion is this for? (breakfast, snack, dinner, celebration, workout, etc.)",
		"Should we emphasize taste, health benefits, convenience, or tradition?",
	},
	entity.CategoryBeauty: {
		"What beauty concerns or goals does this product address? (anti-aging, hydration, acne, glow, etc.)",
		"When in their beauty routine would someone use this? (morning, evening, weekly treatment, daily care, etc.)",
	},
}

// QuestionsForCategory returns the initial question set attached to a
// session after analysis: the three base questions plus up to two
// category-specific extras.
func QuestionsForCategory(category entity.ProductCategory) []string {
	questions := make([]string, 0, 5)
	questions = append(questions, baseQuestions...)
	questions = append(questions, categoryQuestions[category]...)
	return questions
}
