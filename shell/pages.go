package shell

import (
	"github.com/abiosoft/ishell"
	"github.com/ddvk/rmraster/notebook"
	"github.com/ddvk/rmraster/visualize"
)

// pageSource describes what a page can be rendered from
func pageSource(p notebook.Page) string {
	switch {
	case p.RmPath != "" && p.ThumbnailPath != "":
		return "strokes, preview"
	case p.RmPath != "":
		return "strokes"
	case p.ThumbnailPath != "":
		return "preview"
	default:
		return "-"
	}
}

func pagesCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name:      "pages",
		Help:      "list the pages of a notebook, usage: pages <notebook>",
		Completer: createNotebookCompleter(ctx),
		Func: func(c *ishell.Context) {
			arg, err := notebookArg(c.Args)
			if err != nil {
				c.Err(err)
				return
			}
			nb, err := ctx.lookup(arg)
			if err != nil {
				c.Err(err)
				return
			}

			dims := visualize.PageDimensions(nb.ContentPath)
			c.Printf("%s: %d pages, %dx%d\n", nb.VisibleName, len(nb.Pages), dims.Width, dims.Height)
			for _, p := range nb.Pages {
				c.Printf("[%d]\t%s\t%s\n", p.Index, p.ID, pageSource(p))
			}
		},
	}
}
