// Package shell is an interactive session over the notebooks of a data directory.
package shell

import (
	"fmt"
	"strings"

	"github.com/abiosoft/ishell"
	"github.com/ddvk/rmraster/config"
	"github.com/ddvk/rmraster/notebook"
	"github.com/pkg/errors"
)

type ShellCtxt struct {
	Config     config.Config
	Root       string
	Notebooks  []notebook.Notebook
	JSONOutput bool
}

// NewShellCtxt enumerates the notebooks of the configured data directory
func NewShellCtxt(cfg config.Config) (*ShellCtxt, error) {
	ctx := &ShellCtxt{Config: cfg, Root: notebook.Root(cfg.DataDir)}
	if err := ctx.reload(); err != nil {
		return nil, err
	}
	return ctx, nil
}

func (ctx *ShellCtxt) reload() error {
	notebooks, err := notebook.List(ctx.Root)
	if err != nil {
		return err
	}
	ctx.Notebooks = notebooks
	return nil
}

func (ctx *ShellCtxt) prompt() string {
	return fmt.Sprintf("[%s (%d notebooks)]>", ctx.Root, len(ctx.Notebooks))
}

// lookup resolves a notebook by uuid, by visible name, or by its
// position in the listing
func (ctx *ShellCtxt) lookup(arg string) (*notebook.Notebook, error) {
	for i := range ctx.Notebooks {
		if ctx.Notebooks[i].UUID == arg {
			return &ctx.Notebooks[i], nil
		}
	}
	for i := range ctx.Notebooks {
		if ctx.Notebooks[i].VisibleName == arg {
			return &ctx.Notebooks[i], nil
		}
	}
	var n int
	if _, err := fmt.Sscanf(arg, "#%d", &n); err == nil && n >= 0 && n < len(ctx.Notebooks) {
		return &ctx.Notebooks[n], nil
	}
	return nil, errors.Errorf("notebook doesn't exist: %s", arg)
}

// notebookArg joins the remaining arguments so names with spaces work unquoted
func notebookArg(args []string) (string, error) {
	if len(args) == 0 {
		return "", errors.New("missing notebook")
	}
	return strings.Join(args, " "), nil
}

func createNotebookCompleter(ctx *ShellCtxt) func([]string) []string {
	return func(args []string) []string {
		completions := make([]string, 0, len(ctx.Notebooks))
		for _, nb := range ctx.Notebooks {
			completions = append(completions, nb.VisibleName)
		}
		return completions
	}
}

func setCustomCompleter(shell *ishell.Shell) {
	cmdCompleter := make(cmdToCompleter)
	for _, cmd := range shell.Cmds() {
		cmdCompleter[cmd.Name] = cmd.Completer
	}

	completer := shellPathCompleter{cmdCompleter: cmdCompleter}
	shell.CustomCompleter(completer)
}

type cmdToCompleter map[string]func([]string) []string

type shellPathCompleter struct {
	cmdCompleter cmdToCompleter
}

func (pc shellPathCompleter) Do(line []rune, pos int) (newLine [][]rune, length int) {
	text := string(line[:pos])
	fields := strings.SplitN(text, " ", 2)
	if len(fields) < 2 {
		var names []string
		for name := range pc.cmdCompleter {
			names = append(names, name)
		}
		return suffixes(names, text), len([]rune(text))
	}

	completer, ok := pc.cmdCompleter[fields[0]]
	if !ok || completer == nil {
		return nil, 0
	}
	prefix := fields[1]
	return suffixes(completer(nil), prefix), len([]rune(prefix))
}

func suffixes(candidates []string, prefix string) [][]rune {
	var out [][]rune
	for _, c := range candidates {
		if strings.HasPrefix(c, prefix) {
			out = append(out, []rune(strings.TrimPrefix(c, prefix)))
		}
	}
	return out
}

// RunShell starts an interactive session, or runs args as a single command
func RunShell(ctx *ShellCtxt, args []string) error {
	shell := ishell.New()

	shell.SetPrompt(ctx.prompt())

	shell.AddCmd(lsCmd(ctx))
	shell.AddCmd(pagesCmd(ctx))
	shell.AddCmd(convertCmd(ctx))
	shell.AddCmd(dumpCmd(ctx))
	shell.AddCmd(pdfCmd(ctx))
	shell.AddCmd(refreshCmd(ctx))

	setCustomCompleter(shell)

	if len(args) > 0 {
		return shell.Process(args...)
	}

	shell.Printf("rmraster: %d notebooks in %s\n", len(ctx.Notebooks), ctx.Root)
	shell.Run()
	return nil
}
