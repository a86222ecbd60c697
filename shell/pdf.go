package shell

import (
	"fmt"
	"path/filepath"

	"github.com/abiosoft/ishell"
	"github.com/ddvk/rmraster/annotations"
	"github.com/ddvk/rmraster/notebook"
	flag "github.com/ogier/pflag"
	"github.com/pkg/errors"
)

// pageAt returns the stroke file of the page with the given index
func pageAt(pages []notebook.Page, index int) (notebook.Page, error) {
	for _, p := range pages {
		if p.Index != index {
			continue
		}
		if p.RmPath == "" {
			return p, errors.Errorf("page %d has no strokes", index)
		}
		return p, nil
	}
	return notebook.Page{}, errors.Errorf("page %d doesn't exist", index)
}

func pdfCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name:      "pdf",
		Help:      "export the strokes of a notebook as a vector pdf, usage: pdf [-p] [-a] <notebook>",
		Completer: createNotebookCompleter(ctx),
		Func: func(c *ishell.Context) {
			flagSet := flag.NewFlagSet("pdf", flag.ContinueOnError)
			addPageNumbers := flagSet.BoolP("numbers", "p", false, "add page numbers")
			allPages := flagSet.BoolP("all", "a", false, "keep pages without strokes")
			if err := flagSet.Parse(c.Args); err != nil {
				if err != flag.ErrHelp {
					c.Err(err)
				}
				return
			}
			arg, err := notebookArg(flagSet.Args())
			if err != nil {
				c.Err(err)
				return
			}
			nb, err := ctx.lookup(arg)
			if err != nil {
				c.Err(err)
				return
			}

			pdfName := filepath.Join(ctx.Config.OutputDir, fmt.Sprintf("%s.pdf", notebook.SafeName(nb.VisibleName)))
			options := annotations.PdfGeneratorOptions{AddPageNumbers: *addPageNumbers, AllPages: *allPages}
			if err := annotations.CreatePdfGenerator(nb, pdfName, options).Generate(); err != nil {
				c.Err(errors.Wrapf(err, "Failed to export %s", nb.VisibleName))
				return
			}

			c.Printf("PDF generated in: %s\n", pdfName)
		},
	}
}
