package shell

import (
	"github.com/abiosoft/ishell"
)

func refreshCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name: "refresh",
		Help: "reload the notebooks of the data directory",
		Func: func(c *ishell.Context) {
			if err := ctx.reload(); err != nil {
				c.Err(err)
				return
			}
			c.Printf("%d notebooks\n", len(ctx.Notebooks))
			c.SetPrompt(ctx.prompt())
		},
	}
}
