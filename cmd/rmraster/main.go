package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/ddvk/rmraster/annotations"
	"github.com/ddvk/rmraster/batch"
	"github.com/ddvk/rmraster/config"
	"github.com/ddvk/rmraster/log"
	"github.com/ddvk/rmraster/notebook"
	"github.com/ddvk/rmraster/shell"
	"github.com/ddvk/rmraster/visualize"
	flag "github.com/ogier/pflag"
	"github.com/pkg/errors"
)

func main() {
	inputName := flag.StringP("input", "i", "", "render a single .rm page")
	outputName := flag.StringP("output", "o", "", "output image for -i, the extension picks the format")
	contentName := flag.String("content", "", ".content file with the page size for -i")
	width := flag.Int("width", 0, "override the page width")
	height := flag.Int("height", 0, "override the page height")
	dump := flag.Bool("dump", false, "print the strokes of -i as json")
	pdfName := flag.String("pdf", "", "export the notebook given as argument to this pdf file")
	notebooks := flag.Bool("notebooks", false, "render every notebook of the data directory")
	interactive := flag.Bool("shell", false, "interactive shell over the data directory")
	port := flag.String("serve", "", "serve rendered pages over http on this port")
	configPath := flag.String("config", config.DefaultPath(), "config file")
	flag.Parse()

	log.InitLog()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error.Fatalln(err)
	}

	switch {
	case *port != "":
		runServerMode(cfg, *port)
		return
	case *interactive:
		err = runShell(cfg, flag.Args())
	case *notebooks:
		err = renderNotebooks(cfg)
	case *pdfName != "":
		err = exportPdf(cfg, strings.Join(flag.Args(), " "), *pdfName)
	case *inputName != "" && *dump:
		err = shell.DumpPage(os.Stdout, *inputName)
	case *inputName != "":
		err = renderPage(*inputName, *outputName, visualize.Options{Width: *width, Height: *height, Sidecar: *contentName})
	default:
		flag.Usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func renderPage(inputName, outputName string, opts visualize.Options) error {
	if outputName == "" {
		nameOnly := strings.TrimSuffix(inputName, filepath.Ext(inputName))
		outputName = nameOnly + visualize.PNG.Ext()
	}
	img, err := visualize.RenderFile(inputName, opts)
	if err != nil {
		return err
	}
	if err := visualize.SaveImage(img, outputName); err != nil {
		return err
	}
	log.Info.Printf("wrote %s (%dx%d)", outputName, img.Bounds().Dx(), img.Bounds().Dy())
	return nil
}

func renderNotebooks(cfg config.Config) error {
	opts, err := batch.NewOptions(cfg, "")
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	list, err := notebook.List(notebook.Root(cfg.DataDir))
	if err != nil {
		return err
	}
	if len(list) == 0 {
		return errors.Errorf("no notebooks found in %s", cfg.DataDir)
	}

	results, err := batch.RenderAll(ctx, list, cfg.OutputDir, opts)
	if opts.Snapshot != nil {
		if err := opts.Snapshot.Save(); err != nil {
			log.Warning.Printf("can't save render snapshot: %v", err)
		}
	}

	failed := 0
	for _, res := range results {
		failed += len(res.Failed())
		fmt.Printf("%s: %d/%d pages\n", res.Notebook.VisibleName, len(res.Outputs()), len(res.Pages))
	}
	if err != nil {
		return err
	}
	if failed > 0 {
		return errors.Errorf("%d pages failed", failed)
	}
	return nil
}

func exportPdf(cfg config.Config, name, pdfName string) error {
	if name == "" {
		return errors.New("missing notebook")
	}
	nb, err := notebook.Find(notebook.Root(cfg.DataDir), name, name)
	if err != nil {
		return err
	}
	gen := annotations.CreatePdfGenerator(nb, pdfName, annotations.PdfGeneratorOptions{AllPages: true})
	return gen.Generate()
}

func runShell(cfg config.Config, args []string) error {
	ctx, err := shell.NewShellCtxt(cfg)
	if err != nil {
		return err
	}
	return shell.RunShell(ctx, args)
}
