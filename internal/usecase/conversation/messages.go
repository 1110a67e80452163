package conversation

// Canned agent messages. Question text lives in the prompts package;
// everything here is flow narration.
const (
	greetingMessage = "Hello! I'm your AI Social Media Ad Generator assistant. 🎨\n\n" +
		"I'll help you create 4 stunning social media advertisements from your product images! " +
		"These ads will be optimized for Instagram and TikTok Stories (9:16 format).\n\n" +
		"To get started, please upload a product image, and I'll analyze it and ask you a few " +
		"smart questions to create the perfect ads for your audience.\n\n" +
		"What product would you like to create ads for today?"

	uploadPromptMessage = "Great! Please upload your product image and I'll analyze it to create the perfect ads for you. 📸"

	stillWaitingForImageMessage = "I'm ready for your product image! Please upload it and I'll get started with the analysis. 📸✨"

	analysisFailedMessage = "I'm sorry, I had trouble analyzing your image: %s. " +
		"Could you try uploading a different image?"

	invalidImageMessage = "I'm sorry, I couldn't process your image. Please make sure it's a valid image file " +
		"(JPEG, PNG, or WebP) under 10MB and try again."

	qualityComment = " The image quality looks great for ad creation!"

	confirmationPromptMessage = "Should I go ahead and generate your 4 ad variations now? " +
		"Just say 'yes' to start, or 'modify' if you'd like to change any information."

	generationStartedMessage = "🎨 Perfect! I'm now generating your 4 social media ad variations...\n\n" +
		"⏱️ This usually takes 30-60 seconds\n" +
		"🎯 Creating: Lifestyle, Product Hero, Benefit-Focused, and Social Proof styles\n" +
		"📱 Format: 9:16 vertical for Instagram/TikTok Stories\n\n" +
		"I'll let you know as soon as they're ready! ✨"

	generationStartFailedMessage = "I'm sorry, I encountered an issue starting the ad generation. Could you try again?"

	stillGeneratingMessage = "🎨 Still working on your ads... Almost there! ⏱️"

	generationFailedMessage = "I'm sorry, the ad generation failed: %s\n\nWould you like to try again?"

	modificationPromptMessage = "What would you like to modify? I can adjust your target audience, brand tone, or key message."

	restartMessage = "Let's create ads for a new product! Please upload the product image and we'll start fresh. 📸"

	unknownStageMessage = "I'm not sure how to help with that right now. Would you like to start over with a new product image?"
)

var greetingExamples = []string{
	"Fashion items (clothing, accessories)",
	"Electronics (phones, laptops, gadgets)",
	"Food & beverages",
	"Beauty products",
	"Home & garden items",
}
