// Package annotations exports notebook strokes as vector PDF pages.
package annotations

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ddvk/rmraster/encoding/rm"
	"github.com/ddvk/rmraster/log"
	"github.com/ddvk/rmraster/notebook"
	"github.com/ddvk/rmraster/visualize"
	"github.com/pkg/errors"
	"github.com/unidoc/unipdf/v3/annotator"
	"github.com/unidoc/unipdf/v3/contentstream"
	"github.com/unidoc/unipdf/v3/contentstream/draw"
	"github.com/unidoc/unipdf/v3/creator"
	pdf "github.com/unidoc/unipdf/v3/model"
)

// PageWidth is the width in points of an exported page, the height
// follows the aspect ratio of the notebook page
const PageWidth = 445

const (
	// pen width in canvas pixels, same as the raster output
	penWidth         = 2
	highlighterWidth = 15
)

var ErrNoPages = errors.New("nothing to export")

type PdfGenerator struct {
	notebook       *notebook.Notebook
	outputFilePath string
	options        PdfGeneratorOptions
}

type PdfGeneratorOptions struct {
	AddPageNumbers bool
	// AllPages keeps pages without strokes as blank pages
	AllPages bool
}

func CreatePdfGenerator(nb *notebook.Notebook, outputFilePath string, options PdfGeneratorOptions) *PdfGenerator {
	return &PdfGenerator{notebook: nb, outputFilePath: outputFilePath, options: options}
}

func (p *PdfGenerator) Generate() error {
	c := creator.New()
	opts := visualize.Options{Sidecar: p.notebook.ContentPath}

	if p.options.AddPageNumbers {
		c.DrawFooter(func(block *creator.Block, args creator.FooterFunctionArgs) {
			p := c.NewParagraph(fmt.Sprintf("%d", args.PageNum))
			p.SetFontSize(8)
			p.SetPos(block.Width()-20, block.Height()-10)
			block.Draw(p)
		})
	}

	added := 0
	for _, pg := range p.notebook.Pages {
		page, err := loadPage(pg)
		if err != nil {
			return errors.Wrapf(err, "page %d", pg.Index)
		}
		if !p.options.AllPages && len(page.Strokes) == 0 {
			log.Trace.Printf("skipping empty page %d", pg.Index)
			continue
		}

		size, lines := visualize.Project(page, opts)
		ratio := PageWidth / float64(size.X)
		c.SetPageSize(creator.PageSize{PageWidth, float64(size.Y) * ratio})
		pdfPage := c.NewPage()
		added++

		if err := drawLines(c, pdfPage, lines, ratio); err != nil {
			return errors.Wrapf(err, "page %d", pg.Index)
		}
	}

	if added == 0 {
		return ErrNoPages
	}
	if err := os.MkdirAll(filepath.Dir(p.outputFilePath), 0755); err != nil {
		return err
	}
	log.Info.Printf("writing %d pages to %s", added, p.outputFilePath)
	return c.WriteToFile(p.outputFilePath)
}

// loadPage decodes the strokes of a page, a page without a stroke file is blank
func loadPage(pg notebook.Page) (*rm.Rm, error) {
	if pg.RmPath == "" {
		return rm.New(), nil
	}
	data, err := os.ReadFile(pg.RmPath)
	if err != nil {
		return nil, err
	}
	return rm.Decode(data)
}

func drawLines(c *creator.Creator, page *pdf.PdfPage, lines []visualize.Line, ratio float64) error {
	// pdf space starts at the bottom left corner
	normalized := func(x, y int) (float64, float64) {
		return float64(x) * ratio, c.Height() - float64(y)*ratio
	}

	contentCreator := contentstream.NewContentCreator()
	for _, line := range lines {
		if line.Brush.IsEraser() {
			continue
		}
		r, g, b := float64(line.Color.R)/255, float64(line.Color.G)/255, float64(line.Color.B)/255

		if line.Brush.IsHighlighter() {
			last := len(line.Points) - 1
			x1, y1 := normalized(line.Points[0].X, line.Points[0].Y)
			x2, _ := normalized(line.Points[last].X, line.Points[last].Y)
			// make horizontal lines only
			lineDef := annotator.LineAnnotationDef{X1: x1, Y1: y1, X2: x2, Y2: y1}
			lineDef.LineColor = pdf.NewPdfColorDeviceRGB(r, g, b)
			lineDef.Opacity = 0.5
			lineDef.LineWidth = highlighterWidth * ratio
			ann, err := annotator.CreateLineAnnotation(lineDef)
			if err != nil {
				return err
			}
			page.AddAnnotation(ann)
			continue
		}

		path := draw.NewPath()
		for _, pt := range line.Points {
			path = path.AppendPoint(draw.NewPoint(normalized(pt.X, pt.Y)))
		}
		contentCreator.Add_q()
		contentCreator.Add_w(penWidth * ratio)
		contentCreator.Add_RG(r, g, b)
		draw.DrawPathWithCreator(path, contentCreator)
		contentCreator.Add_S()
		contentCreator.Add_Q()
	}

	return page.AppendContentStream(string(contentCreator.Operations().Bytes()))
}
