package vision

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/adforge/adgen-backend/internal/entity"
)

func writeTestImage(t *testing.T, dir, name string, width, height int, colors ...color.RGBA) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	if len(colors) == 0 {
		colors = []color.RGBA{{R: 200, G: 50, B: 50, A: 255}}
	}

	// Vertical stripes, one per color.
	stripe := width / len(colors)
	for x := 0; x < width; x++ {
		idx := min(x/max(stripe, 1), len(colors)-1)
		for y := 0; y < height; y++ {
			img.Set(x, y, colors[idx])
		}
	}

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))

	return path
}

func TestAnalyzeFilenameClassification(t *testing.T) {
	analyzer := NewAnalyzer(10<<20, zap.NewNop())
	dir := t.TempDir()

	tests := []struct {
		filename string
		want     entity.ProductCategory
	}{
		{"fashion_dress.png", entity.CategoryFashion},
		{"new_laptop_photo.png", entity.CategoryElectronics},
		{"coffee_cup.png", entity.CategoryFood},
		{"skincare_set.png", entity.CategoryBeauty},
		{"gym_equipment.png", entity.CategorySports},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			path := writeTestImage(t, dir, tt.filename, 400, 600)

			analysis, err := analyzer.Analyze(path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, analysis.Category)
		})
	}
}

func TestAnalyzeHeuristicFallback(t *testing.T) {
	analyzer := NewAnalyzer(10<<20, zap.NewNop())
	dir := t.TempDir()

	t.Run("wide image suggests electronics", func(t *testing.T) {
		path := writeTestImage(t, dir, "img1.png", 800, 400)

		analysis, err := analyzer.Analyze(path)
		require.NoError(t, err)
		assert.Equal(t, entity.CategoryElectronics, analysis.Category)
	})

	t.Run("colorful image suggests fashion", func(t *testing.T) {
		path := writeTestImage(t, dir, "img2.png", 400, 600,
			color.RGBA{R: 255, A: 255},
			color.RGBA{G: 255, A: 255},
			color.RGBA{B: 255, A: 255},
			color.RGBA{R: 255, G: 255, A: 255},
		)

		analysis, err := analyzer.Analyze(path)
		require.NoError(t, err)
		assert.Equal(t, entity.CategoryFashion, analysis.Category)
	})
}

func TestAnalyzeProperties(t *testing.T) {
	analyzer := NewAnalyzer(10<<20, zap.NewNop())
	dir := t.TempDir()

	path := writeTestImage(t, dir, "shoe_product.png", 1080, 1920,
		color.RGBA{R: 30, G: 30, B: 30, A: 255},
		color.RGBA{R: 220, G: 220, B: 220, A: 255},
	)

	analysis, err := analyzer.Analyze(path)
	require.NoError(t, err)

	t.Run("quality score in range", func(t *testing.T) {
		assert.GreaterOrEqual(t, analysis.QualityScore, 0.0)
		assert.LessOrEqual(t, analysis.QualityScore, 1.0)
	})

	t.Run("dominant colors are hex strings", func(t *testing.T) {
		require.NotEmpty(t, analysis.DominantColors)
		assert.LessOrEqual(t, len(analysis.DominantColors), 5)

		hexRe := regexp.MustCompile(`^#[0-9a-f]{6}$`)
		for _, c := range analysis.DominantColors {
			assert.Regexp(t, hexRe, c)
		}
	})

	t.Run("portrait orientation detected", func(t *testing.T) {
		assert.Contains(t, analysis.ProductFeatures, "portrait orientation")
	})

	t.Run("suggested questions attached", func(t *testing.T) {
		assert.GreaterOrEqual(t, len(analysis.SuggestedQuestions), 3)
	})

	t.Run("background type derived", func(t *testing.T) {
		assert.NotEmpty(t, analysis.BackgroundType)
	})
}

func TestAnalyzeRejectsOversizedFile(t *testing.T) {
	analyzer := NewAnalyzer(64, zap.NewNop())
	dir := t.TempDir()

	path := writeTestImage(t, dir, "big.png", 400, 400)

	_, err := analyzer.Analyze(path)
	assert.ErrorIs(t, err, entity.ErrFileTooLarge)
}

func TestAnalyzeRejectsMissingAndInvalidFiles(t *testing.T) {
	analyzer := NewAnalyzer(10<<20, zap.NewNop())
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		_, err := analyzer.Analyze(filepath.Join(dir, "nope.png"))
		assert.Error(t, err)
	})

	t.Run("not an image", func(t *testing.T) {
		path := filepath.Join(dir, "fake.png")
		require.NoError(t, os.WriteFile(path, []byte("definitely not a png"), 0o644))

		_, err := analyzer.Analyze(path)
		assert.ErrorIs(t, err, entity.ErrInvalidFile)
	})
}
