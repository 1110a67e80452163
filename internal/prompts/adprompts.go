package prompts

import (
	"fmt"
	"strings"

	"github.com/adforge/adgen-backend/internal/entity"
)

// Per-variation prompt templates. Placeholders are filled positionally via
// strings.NewReplacer so a template can reuse or omit any of them.
var adTemplates = map[entity.AdVariationType]string{
	entity.VariationLifestyle: `Create a vertical 9:16 social media advertisement showing {product_features} in a real-world lifestyle context.
The image should feature the product being used by {target_audience} in a {lifestyle_setting}.
Style: {brand_tone} tone with natural lighting and authentic scenario.
The scene should convey {key_message} through the lifestyle integration.
Include space for text overlay in the upper or lower third of the image.
High-quality, Instagram/TikTok Stories optimized, professional photography aesthetic.`,

	entity.VariationProductHero: `Create a vertical 9:16 social media advertisement featuring {product_features} as the hero element.
Clean, minimal background with professional product photography lighting.
Style: {brand_tone} aesthetic with focus on product details and quality.
The product should be prominently displayed with {key_message} clearly communicated.
Include negative space for text overlay and call-to-action elements.
High-resolution, crisp product shot optimized for social media platforms.`,

	entity.VariationBenefit: `Create a vertical 9:16 social media advertisement that visually represents the benefits of {product_features}.
Show the transformation, solution, or positive outcome the product provides to {target_audience}.
Style: {brand_tone} tone with before/after concept or benefit visualization.
The image should clearly communicate {key_message} through visual storytelling.
Include areas for benefit-focused text and compelling call-to-action.
Engaging, results-oriented design optimized for social media engagement.`,

	entity.VariationSocialProof: `Create a vertical 9:16 social media advertisement with a testimonial or review aesthetic featuring {product_features}.
Include visual elements that suggest customer satisfaction, ratings, or social validation.
Style: {brand_tone} tone with trustworthy, authentic social proof indicators.
The design should reinforce {key_message} through credibility and customer success.
Include space for testimonial text, star ratings, or customer quote overlays.
Professional yet approachable design that builds trust and social validation.`,
}

var toneModifiers = map[entity.BrandTone]string{
	entity.ToneProfessional:  "clean, sophisticated, business-like",
	entity.TonePlayful:       "fun, colorful, energetic, whimsical",
	entity.ToneLuxury:        "premium, elegant, high-end, exclusive",
	entity.ToneMinimalist:    "simple, clean lines, lots of white space, understated",
	entity.ToneBold:          "vibrant colors, strong contrast, eye-catching, dramatic",
	entity.ToneFriendly:      "warm, approachable, welcoming, casual",
	entity.ToneSophisticated: "refined, cultured, tasteful, mature",
}

var lifestyleSettings = map[entity.ProductCategory]string{
	entity.CategoryFashion:     "trendy urban environment, stylish cafe, or fashion-forward setting",
	entity.CategoryElectronics: "modern workspace, tech-savvy environment, or contemporary home",
	entity.CategoryFood:        "inviting kitchen, cozy dining space, or social gathering",
	entity.CategoryBeauty:      "elegant bathroom, vanity area, or spa-like setting",
	entity.CategoryHomeGarden:  "beautifully designed home interior or lush garden space",
	entity.CategorySports:      "active outdoor setting, gym environment, or athletic venue",
	entity.CategoryAutomotive:  "scenic road, modern city street, or premium garage",
	entity.CategoryServices:    "professional office, consultation space, or client meeting area",
	entity.CategoryOther:       "appropriate real-world context for product usage",
}

const qualitySuffix = `
Additional requirements:
- Aspect ratio: exactly 9:16 (vertical)
- Resolution: minimum 1080x1920 pixels
- Professional photography quality
- Optimized for mobile viewing
- Ensure text overlay areas are clear and readable
- Use appropriate lighting for product visibility
- Maintain brand consistency throughout`

// AdPromptParams are the inputs to the deterministic prompt builder.
type AdPromptParams struct {
	Variation      entity.AdVariationType
	Features       []string
	TargetAudience string
	BrandTone      entity.BrandTone
	KeyMessage     string
	Category       entity.ProductCategory
	DominantColors []string
}

// BuildAdPrompt renders the full generation prompt for one variation:
// template + lifestyle setting + tone modifier + color guidance + quality suffix.
func BuildAdPrompt(p AdPromptParams) string {
	template := adTemplates[p.Variation]

	setting, ok := lifestyleSettings[p.Category]
	if !ok {
		setting = lifestyleSettings[entity.CategoryOther]
	}

	tone, ok := toneModifiers[p.BrandTone]
	if !ok {
		tone = toneModifiers[entity.ToneProfessional]
	}

	replacer := strings.NewReplacer(
		"{product_features}", strings.Join(p.Features, ", "),
		"{target_audience}", p.TargetAudience,
		"{brand_tone}", tone,
		"{key_message}", p.KeyMessage,
		"{lifestyle_setting}", setting,
	)

	prompt := strings.TrimSpace(replacer.Replace(template))

	if len(p.DominantColors) > 0 {
		colors := p.DominantColors
		if len(colors) > 3 {
			colors = colors[:3]
		}
		prompt += fmt.Sprintf("\nColor palette: Incorporate or complement these dominant colors from the original product image: %s.", strings.Join(colors, ", "))
	}

	return prompt + qualitySuffix
}
