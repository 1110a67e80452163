// Package imaging renders deterministic fallback creatives. When the
// generation backend is unavailable the pipeline still produces a labeled
// 9:16 PNG so downstream consumers always receive an image per variation.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	PlaceholderWidth  = 1080
	PlaceholderHeight = 1920
)

// Placeholder renders a solid-color vertical PNG labeled with the variation
// index and a request identifier. The background shifts per index so the
// four variations stay visually distinguishable.
func Placeholder(index int, requestID string) ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, PlaceholderWidth, PlaceholderHeight))

	bg := color.RGBA{
		R: uint8(min(100+index*30, 255)),
		G: 150,
		B: 200,
		A: 255,
	}
	draw.Draw(img, img.Bounds(), &image.Uniform{C: bg}, image.Point{}, draw.Src)

	shortID := requestID
	if len(shortID) > 8 {
		shortID = shortID[:8]
	}
	label := fmt.Sprintf("Ad #%d %s", index+1, shortID)
	drawLabel(img, label)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode placeholder: %w", err)
	}

	return buf.Bytes(), nil
}

func drawLabel(img *image.RGBA, label string) {
	face := basicfont.Face7x13

	width := font.MeasureString(face, label).Ceil()
	x := (img.Bounds().Dx() - width) / 2
	y := img.Bounds().Dy() / 2

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.White),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(label)
}
