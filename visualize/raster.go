package visualize

import (
	"image"
	"image/color"
	"image/draw"
)

// lineWidth is the pen size of every rendered segment
const lineWidth = 2

// newCanvas returns a white canvas
func newCanvas(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	return img
}

// drawPolyline draws consecutive segments of pts
func drawPolyline(img *image.RGBA, pts []image.Point, c color.RGBA) {
	for i := 0; i+1 < len(pts); i++ {
		drawLine(img, pts[i], pts[i+1], c)
	}
}

// drawLine walks the segment with Bresenham's algorithm and stamps a
// lineWidth square at every step. Pixels are overwritten, not blended.
func drawLine(img *image.RGBA, p0, p1 image.Point, c color.RGBA) {
	dx := abs(p1.X - p0.X)
	dy := -abs(p1.Y - p0.Y)
	sx, sy := 1, 1
	if p0.X > p1.X {
		sx = -1
	}
	if p0.Y > p1.Y {
		sy = -1
	}
	e := dx + dy

	x, y := p0.X, p0.Y
	for {
		stamp(img, x, y, c)
		if x == p1.X && y == p1.Y {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x += sx
		}
		if e2 <= dx {
			e += dx
			y += sy
		}
	}
}

func stamp(img *image.RGBA, x, y int, c color.RGBA) {
	b := img.Bounds()
	for j := 0; j < lineWidth; j++ {
		for i := 0; i < lineWidth; i++ {
			if image.Pt(x+i, y+j).In(b) {
				img.SetRGBA(x+i, y+j, c)
			}
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
