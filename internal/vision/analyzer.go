// Package vision analyzes product images locally: category classification,
// dominant colors, feature tags, background complexity and a quality score.
// Classification is heuristic (filename keywords plus image properties);
// callers treat it as an opaque collaborator.
package vision

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/adforge/adgen-backend/internal/entity"
	"github.com/adforge/adgen-backend/internal/prompts"
	"go.uber.org/zap"
	_ "golang.org/x/image/webp"
)

type Analyzer struct {
	maxImageSize int64
	logger       *zap.Logger
}

func NewAnalyzer(maxImageSize int64, logger *zap.Logger) *Analyzer {
	return &Analyzer{
		maxImageSize: maxImageSize,
		logger:       logger,
	}
}

var categoryKeywords = []struct {
	category entity.ProductCategory
	words    []string
}{
	{entity.CategoryFashion, []string{"fashion", "clothing", "shirt", "dress", "shoe", "bag"}},
	{entity.CategoryElectronics, []string{"electronic", "phone", "laptop", "camera", "tech"}},
	{entity.CategoryFood, []string{"food", "drink", "coffee", "cake", "restaurant"}},
	{entity.CategoryHomeGarden, []string{"home", "furniture", "decor", "kitchen", "garden"}},
	{entity.CategoryBeauty, []string{"beauty", "cosmetic", "skincare", "makeup"}},
	{entity.CategorySports, []string{"sport", "fitness", "outdoor", "gym"}},
	{entity.CategoryAutomotive, []string{"car", "auto", "vehicle"}},
	{entity.CategoryBooksMedia, []string{"book", "media", "music", "movie"}},
	{entity.CategoryToysGames, []string{"toy", "game", "play"}},
	{entity.CategoryServices, []string{"service", "consulting", "business"}},
}

var categoryFeatures = map[entity.ProductCategory][]string{
	entity.CategoryFashion:     {"stylish design", "wearable", "trendy"},
	entity.CategoryElectronics: {"modern design", "high-tech", "functional"},
	entity.CategoryFood:        {"appetizing", "fresh", "delicious"},
	entity.CategoryBeauty:      {"premium quality", "skin-friendly", "beautiful"},
}

var genericFeatures = []string{"quality product", "reliable", "useful"}

// Analyze validates, decodes and inspects a product image.
func (a *Analyzer) Analyze(imagePath string) (*entity.ImageAnalysis, error) {
	a.logger.Info("analyzing image", zap.String("path", imagePath))

	img, err := a.loadImage(imagePath)
	if err != nil {
		return nil, err
	}

	colors := dominantColors(img, 5)
	category := a.classify(img, imagePath, colors)
	features := extractFeatures(img, category)

	analysis := &entity.ImageAnalysis{
		Category:           category,
		DominantColors:     colors,
		ProductFeatures:    features,
		BackgroundType:     backgroundType(img),
		QualityScore:       qualityScore(img, colors),
		SuggestedQuestions: prompts.QuestionsForCategory(category),
	}

	a.logger.Info("image analysis completed",
		zap.String("path", imagePath),
		zap.String("category", string(category)),
		zap.Float64("quality", analysis.QualityScore),
	)

	return analysis, nil
}

func (a *Analyzer) loadImage(imagePath string) (image.Image, error) {
	info, err := os.Stat(imagePath)
	if err != nil {
		return nil, fmt.Errorf("image file not found: %s", imagePath)
	}

	if info.Size() > a.maxImageSize {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", entity.ErrFileTooLarge, info.Size(), a.maxImageSize)
	}

	f, err := os.Open(imagePath)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrInvalidFile, err)
	}

	switch format {
	case "jpeg", "png", "webp":
	default:
		return nil, fmt.Errorf("%w: unsupported format %s", entity.ErrInvalidFile, format)
	}

	return img, nil
}

func (a *Analyzer) classify(img image.Image, imagePath string, colors []string) entity.ProductCategory {
	filename := strings.ToLower(filepath.Base(imagePath))

	for _, ck := range categoryKeywords {
		for _, word := range ck.words {
			if strings.Contains(filename, word) {
				return ck.category
			}
		}
	}

	// No filename hint; fall back to image-property heuristics.
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	switch {
	case width > height*3/2:
		return entity.CategoryElectronics
	case len(colors) > 3:
		return entity.CategoryFashion
	default:
		return entity.CategoryOther
	}
}

func extractFeatures(img image.Image, category entity.ProductCategory) []string {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	var features []string
	switch {
	case width > height:
		features = append(features, "landscape orientation")
	case height > width:
		features = append(features, "portrait orientation")
	default:
		features = append(features, "square format")
	}

	if extra, ok := categoryFeatures[category]; ok {
		features = append(features, extra...)
	} else {
		features = append(features, genericFeatures...)
	}

	return features
}

// dominantColors resamples the image to a small grid and returns the top n
// quantized colors as hex strings, most frequent first.
func dominantColors(img image.Image, n int) []string {
	const sample = 64

	type rgb struct{ r, g, b uint8 }
	counts := map[rgb]int{}

	bounds := img.Bounds()
	for sy := 0; sy < sample; sy++ {
		for sx := 0; sx < sample; sx++ {
			x := bounds.Min.X + sx*bounds.Dx()/sample
			y := bounds.Min.Y + sy*bounds.Dy()/sample
			r, g, b, _ := img.At(x, y).RGBA()
			// Quantize to 16 levels per channel so photographic noise
			// does not fragment the histogram.
			q := rgb{uint8(r >> 12 << 4), uint8(g >> 12 << 4), uint8(b >> 12 << 4)}
			counts[q]++
		}
	}

	keys := make([]rgb, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		// Stable order for equal counts
		a, b := keys[i], keys[j]
		return a.r != b.r && a.r < b.r || a.r == b.r && (a.g != b.g && a.g < b.g || a.g == b.g && a.b < b.b)
	})

	if len(keys) > n {
		keys = keys[:n]
	}

	hex := make([]string, 0, len(keys))
	for _, k := range keys {
		hex = append(hex, fmt.Sprintf("#%02x%02x%02x", k.r, k.g, k.b))
	}
	return hex
}

// backgroundType samples pixels along the image border and derives
// complexity from their grayscale variance.
func backgroundType(img image.Image) string {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width == 0 || height == 0 {
		return "unknown background"
	}

	var pixels []float64
	stepX := max(1, width/20)
	stepY := max(1, height/20)

	gray := func(x, y int) float64 {
		r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
		return (0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)) / 257.0
	}

	for x := 0; x < width; x += stepX {
		pixels = append(pixels, gray(x, 0), gray(x, height-1))
	}
	for y := 0; y < height; y += stepY {
		pixels = append(pixels, gray(0, y), gray(width-1, y))
	}

	var mean float64
	for _, p := range pixels {
		mean += p
	}
	mean /= float64(len(pixels))

	var variance float64
	for _, p := range pixels {
		variance += (p - mean) * (p - mean)
	}
	variance /= float64(len(pixels))

	switch {
	case variance < 100:
		return "clean background"
	case variance < 1000:
		return "simple background"
	default:
		return "complex background"
	}
}

// qualityScore combines resolution, aspect ratio and color variety into
// a score in [0, 1].
func qualityScore(img image.Image, colors []string) float64 {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	totalPixels := width * height

	var score float64

	// Resolution (0-0.4)
	switch {
	case totalPixels >= 1920*1080:
		score += 0.4
	case totalPixels >= 1280*720:
		score += 0.3
	case totalPixels >= 640*480:
		score += 0.2
	default:
		score += 0.1
	}

	// Aspect ratio (0-0.2)
	aspect := float64(width) / float64(height)
	if aspect >= 0.5 && aspect <= 2.0 {
		score += 0.2
	} else {
		score += 0.1
	}

	// Color variety (0-0.4)
	switch {
	case len(colors) >= 3:
		score += 0.4
	case len(colors) >= 2:
		score += 0.3
	default:
		score += 0.2
	}

	return min(score, 1.0)
}
