// Package visualize rasterises decoded .lines pages.
package visualize

import (
	"image"
	"image/color"
	"os"

	"github.com/ddvk/rmraster/encoding/rm"
	"github.com/ddvk/rmraster/log"
	"github.com/pkg/errors"
)

// Options controls the canvas of a rendered page
type Options struct {
	// Width and Height override the page dimensions when positive
	Width  int
	Height int
	// Sidecar is the optional .content document with custom page sizes
	Sidecar string
}

// dimensions resolves the nominal canvas size
func (o Options) dimensions() Dimensions {
	dims := PageDimensions(o.Sidecar)
	if o.Width > 0 {
		dims.Width = o.Width
	}
	if o.Height > 0 {
		dims.Height = o.Height
	}
	return dims
}

// Render draws a decoded page on a white canvas. Strokes are drawn in
// decode order, later strokes overwrite earlier ones.
func Render(page *rm.Rm, opts Options) *image.RGBA {
	l := mapPage(page, opts.dimensions())
	img := newCanvas(l.width, l.height)
	for _, line := range l.lines {
		drawPolyline(img, line.points, ResolveColor(line.color))
	}
	log.Trace.Printf("rendered %s page: %d strokes on %dx%d", page.Version, len(l.lines), l.width, l.height)
	return img
}

// Line is a stroke projected onto the canvas of its page
type Line struct {
	Points []image.Point
	Color  color.RGBA
	Brush  rm.BrushType
}

// Project positions the strokes of page the way Render does without
// drawing them. It returns the canvas size and the projected strokes.
func Project(page *rm.Rm, opts Options) (image.Point, []Line) {
	l := mapPage(page, opts.dimensions())
	lines := make([]Line, 0, len(l.lines))
	for _, line := range l.lines {
		lines = append(lines, Line{Points: line.points, Color: ResolveColor(line.color), Brush: line.brush})
	}
	return image.Pt(l.width, l.height), lines
}

// RenderBytes decodes and renders a .lines buffer
func RenderBytes(data []byte, opts Options) (*image.RGBA, error) {
	page, err := rm.Decode(data)
	if err != nil {
		return nil, err
	}
	return Render(page, opts), nil
}

// RenderFile decodes and renders a .lines file
func RenderFile(rmPath string, opts Options) (*image.RGBA, error) {
	data, err := os.ReadFile(rmPath)
	if err != nil {
		return nil, errors.Wrap(err, "can't read page")
	}
	img, err := RenderBytes(data, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "can't decode %s", rmPath)
	}
	return img, nil
}

// VisualizePage renders a .lines file and writes the image to outputPath.
// The image format follows the extension of outputPath.
func VisualizePage(rmPath, sidecar, outputPath string) error {
	img, err := RenderFile(rmPath, Options{Sidecar: sidecar})
	if err != nil {
		return err
	}
	return SaveImage(img, outputPath)
}
