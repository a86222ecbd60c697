package visualize

import "image/color"

// palette maps the device colour slots to display colours
var palette = map[uint32]color.RGBA{
	0:  {0, 0, 0, 255},       // black
	1:  {128, 128, 128, 255}, // gray
	2:  {255, 255, 255, 255}, // white
	3:  {255, 235, 156, 255}, // yellow highlighter
	4:  {174, 214, 241, 255}, // blue highlighter
	5:  {183, 228, 199, 255}, // green highlighter
	6:  {255, 201, 201, 255}, // pink highlighter
	7:  {220, 80, 80, 255},   // red
	8:  {100, 149, 237, 255}, // blue
	9:  {255, 200, 100, 255}, // orange
	10: {200, 162, 200, 255}, // purple
}

var black = color.RGBA{0, 0, 0, 255}

// ResolveColor maps a raw stroke colour to an opaque RGB colour.
// Known palette slots map directly. Values with at least half alpha, or
// with bits above the low 24, are packed ARGB and get blended toward white.
// Everything else is black.
func ResolveColor(id uint32) color.RGBA {
	if c, ok := palette[id]; ok {
		return c
	}
	if id>>24 >= 0x80 || id > 0x00FFFFFF {
		return argbToRGB(id)
	}
	return black
}

// argbToRGB blends a translucent colour over white. Alpha 0 keeps the raw channels.
func argbToRGB(argb uint32) color.RGBA {
	a := uint8(argb >> 24)
	c := color.RGBA{
		R: uint8(argb >> 16),
		G: uint8(argb >> 8),
		B: uint8(argb),
		A: 255,
	}
	if a > 0 && a < 255 {
		c.R = blend(c.R, a)
		c.G = blend(c.G, a)
		c.B = blend(c.B, a)
	}
	return c
}

func blend(channel, alpha uint8) uint8 {
	f := float64(alpha) / 255
	// explicit conversions keep the compiler from fusing the multiply-add
	return uint8(float64(float64(channel)*f) + float64(255*(1-f)))
}
