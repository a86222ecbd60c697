// Package batch renders the pages of notebooks in parallel.
package batch

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/ddvk/rmraster/cache"
	"github.com/ddvk/rmraster/log"
	"github.com/ddvk/rmraster/notebook"
	"github.com/ddvk/rmraster/visualize"
	"github.com/nfnt/resize"
	"github.com/pkg/errors"
	"golang.org/x/sync/semaphore"
)

var ErrNoStrokes = errors.New("page has no stroke file")

// Status is the outcome of one page
type Status int

const (
	Failed Status = iota
	Rendered
	Cached
	Preview
)

func (s Status) String() string {
	switch s {
	case Rendered:
		return "rendered"
	case Cached:
		return "cached"
	case Preview:
		return "preview"
	default:
		return "failed"
	}
}

// Options controls a batch run
type Options struct {
	Format visualize.Format
	// Workers bounds the pages rendered at the same time
	Workers int64
	// PreviewFallback substitutes the thumbnail when a page can't be rendered
	PreviewFallback bool
	// ScalePreviews resizes substituted thumbnails to the page dimensions
	ScalePreviews bool
	// Snapshot skips unchanged pages when set
	Snapshot *cache.Snapshot
}

// PageResult describes one page. Err is the render error, also kept
// when a preview was substituted.
type PageResult struct {
	Index  int
	Output string
	Status Status
	Err    error
}

// Result lists the pages of a notebook in order
type Result struct {
	Notebook *notebook.Notebook
	Pages    []PageResult
}

// Outputs returns the files written or kept for the notebook
func (r Result) Outputs() []string {
	var out []string
	for _, p := range r.Pages {
		if p.Status != Failed {
			out = append(out, p.Output)
		}
	}
	return out
}

// Failed returns the pages without output
func (r Result) Failed() []PageResult {
	var failed []PageResult
	for _, p := range r.Pages {
		if p.Status == Failed {
			failed = append(failed, p)
		}
	}
	return failed
}

// PageFile is the output name of page index
func PageFile(index int, f visualize.Format) string {
	return fmt.Sprintf("page_%d%s", index, f.Ext())
}

// RenderNotebook renders every page of nb into outDir. A failing page
// never stops its siblings; cancelling ctx stops issuing new pages.
func RenderNotebook(ctx context.Context, nb *notebook.Notebook, outDir string, opts Options) (Result, error) {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.Format == "" {
		opts.Format = visualize.PNG
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return Result{}, errors.Wrap(err, "can't create output directory")
	}

	result := Result{Notebook: nb, Pages: make([]PageResult, len(nb.Pages))}
	sem := semaphore.NewWeighted(opts.Workers)
	for i, page := range nb.Pages {
		out := filepath.Join(outDir, PageFile(page.Index, opts.Format))
		if err := acquire(ctx, sem); err != nil {
			log.Trace.Printf("Failed to acquire semaphore: %v", err)
			for j := i; j < len(nb.Pages); j++ {
				result.Pages[j] = PageResult{
					Index:  nb.Pages[j].Index,
					Output: filepath.Join(outDir, PageFile(nb.Pages[j].Index, opts.Format)),
					Err:    err,
				}
			}
			break
		}
		go func(i int, page notebook.Page) {
			defer sem.Release(1)
			result.Pages[i] = renderPage(nb, page, out, opts)
		}(i, page)
	}

	// Wait for all goroutines to finish
	if err := sem.Acquire(context.Background(), opts.Workers); err != nil {
		return result, err
	}
	sem.Release(opts.Workers)

	for _, p := range result.Pages {
		if p.Status == Failed {
			log.Warning.Printf("%s page %d: %v", nb.VisibleName, p.Index, p.Err)
		} else {
			log.Trace.Printf("%s page %d: %s -> %s", nb.VisibleName, p.Index, p.Status, p.Output)
		}
	}
	return result, ctx.Err()
}

// acquire takes a worker slot. A slot is never granted once ctx is done,
// even if one is free.
func acquire(ctx context.Context, sem *semaphore.Weighted) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return sem.Acquire(ctx, 1)
}

// RenderAll renders each notebook into its own directory under outRoot
func RenderAll(ctx context.Context, notebooks []notebook.Notebook, outRoot string, opts Options) ([]Result, error) {
	results := make([]Result, 0, len(notebooks))
	for i := range notebooks {
		nb := &notebooks[i]
		log.Info.Printf("Notebook %d/%d: %s", i+1, len(notebooks), nb.VisibleName)
		res, err := RenderNotebook(ctx, nb, filepath.Join(outRoot, notebook.SafeName(nb.VisibleName)), opts)
		results = append(results, res)
		if err != nil {
			return results, err
		}
	}
	return results, nil
}

func renderPage(nb *notebook.Notebook, page notebook.Page, out string, opts Options) PageResult {
	res := PageResult{Index: page.Index, Output: out}

	res.Err = ErrNoStrokes
	if page.RmPath != "" {
		status, err := renderStrokes(nb, page, out, opts)
		if err == nil {
			res.Status = status
			res.Err = nil
			return res
		}
		res.Err = err
	}

	if !opts.PreviewFallback || page.ThumbnailPath == "" {
		return res
	}
	if err := substitutePreview(page.ThumbnailPath, out, visualize.PageDimensions(nb.ContentPath), opts.ScalePreviews); err != nil {
		log.Trace.Printf("preview for page %d: %v", page.Index, err)
		return res
	}
	if opts.Snapshot != nil {
		opts.Snapshot.Forget(out)
	}
	res.Status = Preview
	return res
}

func renderStrokes(nb *notebook.Notebook, page notebook.Page, out string, opts Options) (Status, error) {
	data, err := os.ReadFile(page.RmPath)
	if err != nil {
		return Failed, errors.Wrap(err, "can't read page")
	}

	hash := sourceHash(data, visualize.PageDimensions(nb.ContentPath))
	if opts.Snapshot != nil && opts.Snapshot.Fresh(out, hash) {
		return Cached, nil
	}

	img, err := visualize.RenderBytes(data, visualize.Options{Sidecar: nb.ContentPath})
	if err != nil {
		return Failed, errors.Wrapf(err, "can't decode %s", filepath.Base(page.RmPath))
	}
	if err := visualize.SaveImage(img, out); err != nil {
		return Failed, err
	}
	if opts.Snapshot != nil {
		opts.Snapshot.Record(out, hash)
	}
	return Rendered, nil
}

// sourceHash keys a page by its strokes and the page size they are drawn on
func sourceHash(data []byte, dims visualize.Dimensions) string {
	return fmt.Sprintf("%s@%dx%d", cache.HashBytes(data), dims.Width, dims.Height)
}

// substitutePreview writes the device thumbnail to out. Without scaling a
// thumbnail already in the output format is copied byte for byte.
func substitutePreview(thumbnail, out string, dims visualize.Dimensions, scale bool) error {
	if !scale && strings.EqualFold(filepath.Ext(thumbnail), filepath.Ext(out)) {
		b, err := os.ReadFile(thumbnail)
		if err != nil {
			return err
		}
		return os.WriteFile(out, b, 0644)
	}

	f, err := os.Open(thumbnail)
	if err != nil {
		return err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return errors.Wrap(err, "can't decode preview")
	}
	if scale {
		img = resize.Resize(uint(dims.Width), uint(dims.Height), img, resize.Bilinear)
	}
	return visualize.SaveImage(img, out)
}
