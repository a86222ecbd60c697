package visualize

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func rgb(r, g, b uint8) color.RGBA {
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

func TestResolveColorPalette(t *testing.T) {
	assert.Equal(t, rgb(0, 0, 0), ResolveColor(0))
	assert.Equal(t, rgb(128, 128, 128), ResolveColor(1))
	assert.Equal(t, rgb(255, 255, 255), ResolveColor(2))
	assert.Equal(t, rgb(200, 162, 200), ResolveColor(10))
	assert.Len(t, palette, 11)
}

func TestResolveColorUnknownIsBlack(t *testing.T) {
	assert.Equal(t, rgb(0, 0, 0), ResolveColor(11))
	assert.Equal(t, rgb(0, 0, 0), ResolveColor(100))
	assert.Equal(t, rgb(0, 0, 0), ResolveColor(0x00FFFFFF))
}

func TestResolveColorARGB(t *testing.T) {
	assert.Equal(t, rgb(255, 0, 0), ResolveColor(0xFFFF0000))
	assert.Equal(t, rgb(0, 255, 0), ResolveColor(0xFF00FF00))

	// bits above 24 with low alpha still count as ARGB
	c := ResolveColor(0x01000000)
	assert.Equal(t, uint8(254), c.R)

	// half transparent red is blended toward white
	c = ResolveColor(0x80FF0000)
	assert.Equal(t, uint8(255), c.R)
	assert.Equal(t, uint8(127), c.G)
	assert.Equal(t, uint8(127), c.B)
	assert.Equal(t, uint8(255), c.A)
}

func TestArgbZeroAlphaUnblended(t *testing.T) {
	assert.Equal(t, rgb(255, 0, 0), argbToRGB(0x00FF0000))
}

func TestResolveColorZeroAlphaIsBlack(t *testing.T) {
	// without alpha or bits above the low 24 a value is not treated as ARGB
	assert.Equal(t, black, ResolveColor(0x00FF0000))
	assert.Equal(t, black, ResolveColor(0x00123456))
	assert.Equal(t, rgb(255, 0, 0), ResolveColor(0xFFFF0000))
}
