// Package report renders a campaign summary PDF: the collected briefing,
// the image analysis and the generated creatives.
package report

import (
	"bytes"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/adforge/adgen-backend/internal/entity"
)

const (
	pdfContentType = "application/pdf"

	reportTitle = "Ad Campaign Report"
)

// Generator builds campaign PDFs. outputDir is where the creatives were
// written by the fan-out.
type Generator struct {
	outputDir string
}

func NewGenerator(outputDir string) *Generator {
	return &Generator{outputDir: outputDir}
}

func (g *Generator) ContentType() string {
	return pdfContentType
}

// Render produces the campaign report for a completed conversation.
func (g *Generator) Render(conv *entity.Conversation) ([]byte, error) {
	if conv.Result == nil {
		return nil, fmt.Errorf("conversation has no generation result")
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 20)
	pdf.Cell(0, 10, reportTitle)
	pdf.Ln(14)

	pdf.SetFont("Arial", "B", 13)
	pdf.Cell(0, 8, "Campaign Briefing")
	pdf.Ln(9)

	pdf.SetFont("Arial", "", 11)
	writeField(pdf, "Target Audience", conv.Collected.TargetAudience)
	writeField(pdf, "Brand Tone", toneLabel(conv.Collected.BrandTone))
	writeField(pdf, "Key Message", conv.Collected.KeyMessage)

	if conv.Analysis != nil {
		pdf.Ln(4)
		pdf.SetFont("Arial", "B", 13)
		pdf.Cell(0, 8, "Product Analysis")
		pdf.Ln(9)

		pdf.SetFont("Arial", "", 11)
		writeField(pdf, "Category", strings.ReplaceAll(string(conv.Analysis.Category), "_", " "))
		writeField(pdf, "Dominant Colors", strings.Join(conv.Analysis.DominantColors, ", "))
		writeField(pdf, "Background", conv.Analysis.BackgroundType)
		writeField(pdf, "Quality Score", fmt.Sprintf("%.2f", conv.Analysis.QualityScore))
	}

	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 13)
	pdf.Cell(0, 8, fmt.Sprintf("Generated Ads (%.1fs total)", conv.Result.TotalSeconds))
	pdf.Ln(9)

	for i, ad := range conv.Result.Ads {
		pdf.SetFont("Arial", "B", 11)
		pdf.Cell(0, 7, fmt.Sprintf("%d. %s (%.1fs)", i+1,
			strings.ReplaceAll(string(ad.VariationType), "_", " "), ad.ElapsedSecs))
		pdf.Ln(8)

		g.embedCreative(pdf, ad)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}
	return buf.Bytes(), nil
}

// embedCreative places the ad image scaled to a fixed width. 9:16 creatives
// are tall, so each gets most of a page.
func (g *Generator) embedCreative(pdf *gofpdf.Fpdf, ad entity.GeneratedAd) {
	// ImagePath is the serving URL; only its base name maps to disk.
	imagePath := filepath.Join(g.outputDir, path.Base(ad.ImagePath))

	const width = 80.0
	height := width * 16.0 / 9.0

	if pdf.GetY()+height > 280 {
		pdf.AddPage()
	}

	pdf.ImageOptions(imagePath, pdf.GetX(), pdf.GetY(), width, height, false,
		gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	pdf.Ln(height + 6)
}

func writeField(pdf *gofpdf.Fpdf, label, value string) {
	if value == "" {
		value = "-"
	}
	pdf.MultiCell(0, 6, fmt.Sprintf("%s: %s", label, value), "", "", false)
	pdf.Ln(1)
}

func toneLabel(tone *entity.BrandTone) string {
	if tone == nil {
		return ""
	}
	return string(*tone)
}
