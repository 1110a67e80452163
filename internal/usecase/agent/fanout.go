package agent

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/adforge/adgen-backend/internal/entity"
	"github.com/adforge/adgen-backend/internal/imaging"
	"github.com/adforge/adgen-backend/internal/integration/imagegen"
	"github.com/adforge/adgen-backend/internal/pkg/classifier"
	"github.com/adforge/adgen-backend/internal/prompts"
)

const (
	defaultAudience = "general consumers"
	defaultMessage  = "Discover quality and value"
)

type variationOutcome struct {
	ad  *entity.GeneratedAd
	err error
}

// fanOut generates all four variations, concurrently or sequentially per
// config. Variations are isolated: one failure never aborts the others, and
// any failed generation falls back to a deterministic placeholder. The run
// counts as successful when at least one ad was produced.
func (u *UseCase) fanOut(ctx context.Context, session *entity.Session) *entity.AdGenerationResult {
	requestID := uuid.NewString()
	started := time.Now()

	audience, tone, message := collectFromAnswers(session.Answers)

	image, mimeType, err := readProductImage(session.ImagePath)
	if err != nil {
		ctxzap.Warn(ctx, "product image unavailable for generation", zap.Error(err))
	}

	outcomes := make([]variationOutcome, len(entity.AdVariations))

	if u.cfg.Concurrent {
		var wg sync.WaitGroup
		for i, variation := range entity.AdVariations {
			i, variation := i, variation
			wg.Add(1)
			go func() {
				defer wg.Done()
				outcomes[i] = u.generateVariation(ctx, session, variation, i, requestID, audience, tone, message, image, mimeType)
			}()
		}
		wg.Wait()
	} else {
		for i, variation := range entity.AdVariations {
			outcomes[i] = u.generateVariation(ctx, session, variation, i, requestID, audience, tone, message, image, mimeType)
		}
	}

	result := &entity.AdGenerationResult{
		RequestID:    requestID,
		TotalSeconds: time.Since(started).Seconds(),
	}

	var failures []string
	for i, outcome := range outcomes {
		if outcome.err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", entity.AdVariations[i], outcome.err))
			continue
		}
		result.Ads = append(result.Ads, *outcome.ad)
	}

	result.Success = len(result.Ads) > 0
	if !result.Success {
		result.ErrorMessage = strings.Join(failures, "; ")
	}

	return result
}

func (u *UseCase) generateVariation(
	ctx context.Context,
	session *entity.Session,
	variation entity.AdVariationType,
	index int,
	requestID, audience string,
	tone entity.BrandTone,
	message string,
	image []byte,
	mimeType string,
) variationOutcome {
	started := time.Now()

	prompt := prompts.BuildAdPrompt(prompts.AdPromptParams{
		Variation:      variation,
		Features:       session.Analysis.ProductFeatures,
		TargetAudience: audience,
		BrandTone:      tone,
		KeyMessage:     message,
		Category:       session.Analysis.Category,
		DominantColors: session.Analysis.DominantColors,
	})

	genCtx, cancel := context.WithTimeout(ctx, u.cfg.GenerationTimeout)
	defer cancel()

	data, err := u.generator.Generate(genCtx, imagegen.Request{
		Prompt:    prompt,
		Image:     image,
		MIMEType:  mimeType,
		Index:     index,
		RequestID: requestID,
	})
	if err != nil {
		ctxzap.Warn(ctx, "generation failed, using placeholder",
			zap.String("variation", string(variation)), zap.Error(err))

		data, err = imaging.Placeholder(index, requestID)
		if err != nil {
			return variationOutcome{err: fmt.Errorf("placeholder: %w", err)}
		}
	}

	filename := fmt.Sprintf("ad_%s_%d.png", shortID(requestID), index+1)
	outPath := filepath.Join(u.cfg.OutputDir, filename)
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return variationOutcome{err: fmt.Errorf("write creative: %w", err)}
	}

	return variationOutcome{ad: &entity.GeneratedAd{
		VariationType: variation,
		ImagePath:     "/view-ad/" + filename,
		PromptUsed:    prompt,
		ElapsedSecs:   time.Since(started).Seconds(),
	}}
}

// collectFromAnswers derives the three prompt inputs from recorded answers,
// with generic defaults when an answer is absent.
func collectFromAnswers(answers []entity.Answer) (audience string, tone entity.BrandTone, message string) {
	audience = defaultAudience
	tone = entity.ToneProfessional
	message = defaultMessage

	for _, a := range answers {
		response := strings.TrimSpace(a.Response)
		if response == "" {
			continue
		}

		switch a.QuestionID {
		case entity.QuestionTargetAudience:
			audience = response
		case entity.QuestionBrandTone:
			tone = classifier.ExtractBrandTone(strings.ToLower(response))
		case entity.QuestionKeyMessage:
			message = response
		}
	}

	return audience, tone, message
}

func readProductImage(path string) ([]byte, string, error) {
	if path == "" {
		return nil, "", fmt.Errorf("no product image recorded")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("read product image: %w", err)
	}

	mimeType := "image/png"
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		mimeType = "image/jpeg"
	case ".webp":
		mimeType = "image/webp"
	}

	return data, mimeType, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
