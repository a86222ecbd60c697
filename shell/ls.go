package shell

import (
	"github.com/abiosoft/ishell"
	"github.com/ddvk/rmraster/notebook"
	flag "github.com/ogier/pflag"
)

func displayNotebook(c *ishell.Context, i int, nb *notebook.Notebook) {
	c.Printf("#%d\t%s\t%d pages\t%s\n", i, nb.UUID, len(nb.Pages), nb.VisibleName)
}

func lsCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name: "ls",
		Help: "list notebooks, usage: ls [--json]",
		Func: func(c *ishell.Context) {
			flagSet := flag.NewFlagSet("ls", flag.ContinueOnError)
			jsonOutput := flagSet.Bool("json", ctx.JSONOutput, "print as json")
			if err := flagSet.Parse(c.Args); err != nil {
				if err != flag.ErrHelp {
					c.Err(err)
				}
				return
			}

			if *jsonOutput {
				if err := displayNotebooksJSON(c, ctx.Notebooks); err != nil {
					c.Err(err)
				}
				return
			}

			for i := range ctx.Notebooks {
				displayNotebook(c, i, &ctx.Notebooks[i])
			}
		},
	}
}
