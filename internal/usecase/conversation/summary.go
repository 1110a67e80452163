package conversation

import (
	"fmt"
	"strings"

	"github.com/adforge/adgen-backend/internal/entity"
)

// buildInfoSummary renders the collected info block shown before the
// generation confirmation.
func buildInfoSummary(conv *entity.Conversation) string {
	tone := entity.ToneProfessional
	if conv.Collected.BrandTone != nil {
		tone = *conv.Collected.BrandTone
	}

	colors := conv.Analysis.DominantColors
	if len(colors) > 3 {
		colors = colors[:3]
	}

	return fmt.Sprintf("🎯 **Target Audience:** %s\n"+
		"🎨 **Brand Tone:** %s\n"+
		"💬 **Key Message:** %s\n"+
		"📂 **Product Category:** %s\n"+
		"🌈 **Main Colors:** %s",
		conv.Collected.TargetAudience,
		tone,
		conv.Collected.KeyMessage,
		categoryTitle(conv.Analysis.Category),
		strings.Join(colors, ", "),
	)
}

func categoryTitle(category entity.ProductCategory) string {
	return titleCase(strings.ReplaceAll(string(category), "_", " "))
}

func variationTitle(variation entity.AdVariationType) string {
	return titleCase(strings.ReplaceAll(string(variation), "_", " "))
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
