// Package classifier maps free-text user answers to structured fields with
// keyword and regex matching. It is a pure strategy with no state; the
// conversation flow depends only on the Classify signature, not on the
// matching technique.
package classifier

import (
	"regexp"
	"strings"

	"github.com/adforge/adgen-backend/internal/entity"
)

// Extraction is the structured result of classifying one answer.
type Extraction map[string]any

// Keyword maps to a brand tone enum value. Order within a slice matters only
// for the first match; tones are probed in declaration order.
var toneMapping = []struct {
	tone     entity.BrandTone
	keywords []string
}{
	{entity.ToneProfessional, []string{"professional", "business", "corporate", "formal", "serious"}},
	{entity.TonePlayful, []string{"playful", "fun", "energetic", "casual", "vibrant", "colorful"}},
	{entity.ToneLuxury, []string{"luxury", "premium", "high-end", "exclusive", "elegant"}},
	{entity.ToneMinimalist, []string{"minimalist", "simple", "clean", "minimal", "understated"}},
	{entity.ToneBold, []string{"bold", "strong", "dramatic", "striking", "powerful", "intense"}},
	{entity.ToneFriendly, []string{"friendly", "warm", "approachable", "welcoming", "kind", "caring"}},
	{entity.ToneSophisticated, []string{"sophisticated", "refined", "cultured", "tasteful", "classy"}},
}

var toneKeywords = []string{
	"professional", "playful", "luxury", "minimalist", "bold", "friendly",
	"sophisticated", "casual", "formal", "elegant", "modern", "traditional",
	"vibrant", "subtle", "energetic", "calm",
}

var agePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d+)[-\s]*(?:to|-)?\s*(\d+)?\s*(?:year|yr)s?\s*old`),
	regexp.MustCompile(`(?:age|aged)\s*(\d+)[-\s]*(?:to|-)?\s*(\d+)?`),
	regexp.MustCompile(`(teen|teenager|young|adult|senior|elderly|millennial|gen\s*z|boomer)`),
}

// Longer, more specific terms first so "women" wins over "men".
var genderKeywords = []string{"women", "female", "men", "male", "unisex", "all genders", "everyone"}

var interestKeywords = []string{"fitness", "fashion", "tech", "business", "family", "travel", "food", "music", "sports"}

var ctaPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(buy\s+now|shop\s+now|get\s+yours|order\s+today)`),
	regexp.MustCompile(`(?i)(learn\s+more|find\s+out|discover)`),
	regexp.MustCompile(`(?i)(sign\s+up|register|subscribe)`),
	regexp.MustCompile(`(?i)(contact\s+us|call\s+now|book\s+now)`),
	regexp.MustCompile(`(?i)(try\s+it|try\s+today|test\s+it|experience)`),
}

var sellingPointKeywords = map[string]bool{
	"unique": true, "different": true, "special": true, "innovative": true,
	"exclusive": true, "premium": true, "quality": true, "best": true,
	"leading": true, "advanced": true, "superior": true, "excellent": true,
	"affordable": true, "cheap": true, "value": true, "efficient": true,
	"fast": true, "easy": true,
}

var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true, "but": true,
	"in": true, "on": true, "at": true, "to": true, "for": true, "of": true,
	"with": true, "by": true, "is": true, "are": true, "was": true, "were": true,
	"be": true, "been": true, "being": true, "have": true, "has": true, "had": true,
	"do": true, "does": true, "did": true, "will": true, "would": true,
	"should": true, "could": true, "may": true, "might": true, "must": true,
	"shall": true, "can": true, "this": true, "that": true, "these": true,
	"those": true, "i": true, "you": true, "he": true, "she": true, "it": true,
	"we": true, "they": true,
}

var wordRe = regexp.MustCompile(`\b\w+\b`)

// Keyword classifies answers by matching against static keyword tables.
type Keyword struct{}

func NewKeyword() *Keyword {
	return &Keyword{}
}

// Classify extracts structured fields from a free-text answer, keyed by
// question type. Unknown question types get generic keyword extraction.
func (k *Keyword) Classify(questionType entity.QuestionType, text string) Extraction {
	normalized := strings.ToLower(strings.TrimSpace(text))
	data := Extraction{}

	switch questionType {
	case entity.QuestionTargetAudience:
		data["target_audience"] = strings.TrimSpace(text)
		if demo := extractDemographics(normalized); len(demo) > 0 {
			data["demographics"] = demo
		}

	case entity.QuestionBrandTone:
		data["brand_tone"] = string(ExtractBrandTone(normalized))
		if kws := matchAny(normalized, toneKeywords); len(kws) > 0 {
			data["tone_keywords"] = kws
		}

	case entity.QuestionKeyMessage:
		data["key_message"] = strings.TrimSpace(text)
		if cta := extractCallToAction(normalized); cta != "" {
			data["call_to_action"] = cta
		}
		if points := extractSellingPoints(normalized); len(points) > 0 {
			data["unique_selling_points"] = points
		}

	default:
		data["raw_response"] = strings.TrimSpace(text)
		if kws := extractKeywords(normalized); len(kws) > 0 {
			data["keywords"] = kws
		}
	}

	return data
}

// ExtractBrandTone maps answer text to a brand tone enum value,
// defaulting to professional when nothing matches.
func ExtractBrandTone(text string) entity.BrandTone {
	for _, m := range toneMapping {
		for _, kw := range m.keywords {
			if strings.Contains(text, kw) {
				return m.tone
			}
		}
	}
	return entity.ToneProfessional
}

func extractDemographics(text string) map[string]any {
	demo := map[string]any{}

	for _, re := range agePatterns {
		if match := re.FindString(text); match != "" {
			demo["age_info"] = match
			break
		}
	}

	for _, kw := range genderKeywords {
		if strings.Contains(text, kw) {
			demo["gender"] = kw
			break
		}
	}

	if interests := matchAny(text, interestKeywords); len(interests) > 0 {
		demo["interests"] = interests
	}

	return demo
}

func extractCallToAction(text string) string {
	for _, re := range ctaPatterns {
		if match := re.FindString(text); match != "" {
			return match
		}
	}
	return ""
}

// extractSellingPoints returns selling-point keywords with two words of
// surrounding context each.
func extractSellingPoints(text string) []string {
	words := strings.Fields(text)
	var points []string

	for i, word := range words {
		if sellingPointKeywords[word] {
			start := max(0, i-2)
			end := min(len(words), i+3)
			points = append(points, strings.Join(words[start:end], " "))
		}
	}

	return points
}

func extractKeywords(text string) []string {
	seen := map[string]bool{}
	var keywords []string

	for _, word := range wordRe.FindAllString(text, -1) {
		if stopWords[word] || len(word) <= 2 || seen[word] {
			continue
		}
		seen[word] = true
		keywords = append(keywords, word)
		if len(keywords) == 10 {
			break
		}
	}

	return keywords
}

func matchAny(text string, keywords []string) []string {
	var found []string
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			found = append(found, kw)
		}
	}
	return found
}
