package imaging

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceholderDimensions(t *testing.T) {
	data, err := Placeholder(0, "0123456789abcdef")
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, PlaceholderWidth, img.Bounds().Dx())
	assert.Equal(t, PlaceholderHeight, img.Bounds().Dy())
}

func TestPlaceholderColorShiftsPerIndex(t *testing.T) {
	first, err := Placeholder(0, "req")
	require.NoError(t, err)
	second, err := Placeholder(3, "req")
	require.NoError(t, err)

	imgA, err := png.Decode(bytes.NewReader(first))
	require.NoError(t, err)
	imgB, err := png.Decode(bytes.NewReader(second))
	require.NoError(t, err)

	// Corner pixel is background in both; the red channel differs by index.
	rA, _, _, _ := imgA.At(0, 0).RGBA()
	rB, _, _, _ := imgB.At(0, 0).RGBA()
	assert.NotEqual(t, rA, rB)
}

func TestPlaceholderDeterministic(t *testing.T) {
	a, err := Placeholder(1, "0123456789abcdef")
	require.NoError(t, err)
	b, err := Placeholder(1, "0123456789abcdef")
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestPlaceholderShortRequestID(t *testing.T) {
	data, err := Placeholder(2, "abc")
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}
