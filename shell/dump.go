package shell

import (
	"encoding/json"
	"io"
	"os"

	"github.com/abiosoft/ishell"
	"github.com/ddvk/rmraster/batch"
	"github.com/ddvk/rmraster/encoding/rm"
	flag "github.com/ogier/pflag"
	"github.com/pkg/errors"
)

// DumpPage writes the decoded strokes of a .lines file as indented JSON
func DumpPage(w io.Writer, rmPath string) error {
	if rmPath == "" {
		return batch.ErrNoStrokes
	}
	data, err := os.ReadFile(rmPath)
	if err != nil {
		return errors.Wrap(err, "can't read page")
	}
	page, err := rm.Decode(data)
	if err != nil {
		return errors.Wrapf(err, "can't decode %s", rmPath)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(page)
}

func dumpCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name:      "dump",
		Help:      "print the strokes of a page as json, usage: dump [-p page] <notebook>",
		Completer: createNotebookCompleter(ctx),
		Func: func(c *ishell.Context) {
			flagSet := flag.NewFlagSet("dump", flag.ContinueOnError)
			index := flagSet.IntP("page", "p", 0, "page index")
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

			page, err := pageAt(nb.Pages, *index)
			if err != nil {
				c.Err(err)
				return
			}
			if err := DumpPage(os.Stdout, page.RmPath); err != nil {
				c.Err(err)
			}
		},
	}
}
