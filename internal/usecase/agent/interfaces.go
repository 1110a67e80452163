package agent

import (
	"context"

	"github.com/adforge/adgen-backend/internal/entity"
	"github.com/adforge/adgen-backend/internal/integration/imagegen"
	"github.com/adforge/adgen-backend/internal/pkg/classifier"
)

// Analyzer inspects an uploaded product image.
type Analyzer interface {
	Analyze(imagePath string) (*entity.ImageAnalysis, error)
}

// Classifier extracts structured fields from free-text answers.
type Classifier interface {
	Classify(questionType entity.QuestionType, text string) classifier.Extraction
}

// Generator produces one ad creative per request.
type Generator interface {
	Generate(ctx context.Context, req imagegen.Request) ([]byte, error)
}
