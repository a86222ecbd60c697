package shell

import (
	"context"
	"path/filepath"

	"github.com/abiosoft/ishell"
	"github.com/ddvk/rmraster/batch"
	"github.com/ddvk/rmraster/log"
	"github.com/ddvk/rmraster/notebook"
	flag "github.com/ogier/pflag"
)

func convertCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name:      "convert",
		Help:      "render the pages of a notebook to images, usage: convert [-o dir] [--format png] <notebook>",
		Completer: createNotebookCompleter(ctx),
		Func: func(c *ishell.Context) {
			flagSet := flag.NewFlagSet("convert", flag.ContinueOnError)
			outDir := flagSet.StringP("output", "o", ctx.Config.OutputDir, "output directory")
			format := flagSet.String("format", ctx.Config.Format, "image format: png, jpeg, bmp, tiff")
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

			cfg := ctx.Config
			cfg.Format = *format
			opts, err := batch.NewOptions(cfg, "")
			if err != nil {
				c.Err(err)
				return
			}

			c.Printf("converting: [%s]...\n", nb.VisibleName)
			target := filepath.Join(*outDir, notebook.SafeName(nb.VisibleName))
			res, err := batch.RenderNotebook(context.Background(), nb, target, opts)
			if opts.Snapshot != nil {
				if err := opts.Snapshot.Save(); err != nil {
					log.Warning.Printf("can't save render snapshot: %v", err)
				}
			}
			if err != nil {
				c.Err(err)
				return
			}

			for _, p := range res.Pages {
				if p.Status == batch.Failed {
					c.Printf("  page %d: %v\n", p.Index, p.Err)
					continue
				}
				c.Printf("  page %d: %s %s\n", p.Index, p.Status, p.Output)
			}
			c.Printf("Converted %d of %d page(s) into %s\n", len(res.Outputs()), len(res.Pages), target)
		},
	}
}
