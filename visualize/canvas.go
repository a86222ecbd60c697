package visualize

import (
	"image"
	"math"

	"github.com/ddvk/rmraster/encoding/rm"
)

// contentMargin is added below rescaled content when it grows the canvas
const contentMargin = 40

// polyline is a stroke projected onto the canvas
type polyline struct {
	points []image.Point
	color  uint32
	brush  rm.BrushType
}

// layout is the resolved canvas size and the projected strokes
type layout struct {
	width, height int
	lines         []polyline
}

// mapPage positions the strokes of a page on a canvas of the given size.
// Pages with a bounding box are rescaled into the canvas, all others are
// clipped to it.
func mapPage(page *rm.Rm, dims Dimensions) layout {
	if page.BoundingBox != nil {
		return mapScaled(page.Strokes, *page.BoundingBox, dims)
	}
	return mapClipped(page.Strokes, dims)
}

// mapClipped clamps native pixel coordinates into the canvas
func mapClipped(strokes []rm.Stroke, dims Dimensions) layout {
	l := layout{width: dims.Width, height: dims.Height}
	for _, s := range strokes {
		pts := make([]image.Point, 0, len(s.Points))
		for _, p := range s.Points {
			pts = append(pts, image.Point{
				X: clampPixel(float64(p.X), l.width),
				Y: clampPixel(float64(p.Y), l.height),
			})
		}
		if len(pts) < 2 {
			continue
		}
		l.lines = append(l.lines, polyline{points: pts, color: s.Color, brush: s.BrushType})
	}
	return l
}

// mapScaled stretches the bounding box over the canvas. A page taller than
// the canvas grows it so nothing is cropped.
func mapScaled(strokes []rm.Stroke, box rm.BoundingBox, dims Dimensions) layout {
	l := layout{width: dims.Width, height: dims.Height}

	contentHeight := float64(box.Height())
	if contentHeight > 0 && contentHeight+contentMargin > float64(l.height) {
		l.height = int(math.Min(contentHeight+contentMargin, maxDimension))
	}

	spanX := math.Max(float64(box.Width()), 1)
	spanY := math.Max(float64(box.Height()), 1)
	for _, s := range strokes {
		pts := make([]image.Point, 0, len(s.Points))
		for _, p := range s.Points {
			x := (float64(p.X) - float64(box.MinX)) / spanX * float64(l.width-1)
			y := (float64(p.Y) - float64(box.MinY)) / spanY * float64(l.height-1)
			pts = append(pts, image.Point{
				X: clampPixel(x, l.width),
				Y: clampPixel(y, l.height),
			})
		}
		if len(pts) < 2 {
			continue
		}
		l.lines = append(l.lines, polyline{points: pts, color: s.Color, brush: s.BrushType})
	}
	return l
}

// clampPixel truncates v into [0, size-1]. NaN maps to 0.
func clampPixel(v float64, size int) int {
	upper := float64(size - 1)
	switch {
	case !(v > 0):
		return 0
	case v > upper:
		return size - 1
	default:
		return int(v)
	}
}
