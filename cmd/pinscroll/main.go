// Pinscroll plays a scroll-linked page description in the terminal, or in
// a window with -gui.
//
//	pinscroll -page examples/landing/landing.yaml
//	pinscroll -page examples/landing/landing.yaml -gui -status
//	pinscroll -page examples/landing/landing.yaml -layout
//	pinscroll -page examples/landing/minimal.toml -convert minimal.yaml
//	pinscroll -page examples/landing/landing.yaml -script examples/landing/tour.json -debug debug.log
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/gdamore/tcell/v2"

	"github.com/phanxgames/pinscroll"
	"github.com/phanxgames/pinscroll/ebitenhost"
	"github.com/phanxgames/pinscroll/page"
	"github.com/phanxgames/pinscroll/termhost"
)

// options are the parsed command-line flags.
type options struct {
	pagePath   string
	gui        bool
	status     bool
	width      int
	height     int
	debugPath  string
	scriptPath string
	convert    string
	layout     bool
}

func main() {
	var o options
	flag.StringVar(&o.pagePath, "page", "", "page description (.yaml, .yml or .toml)")
	flag.BoolVar(&o.gui, "gui", false, "open a window instead of drawing in the terminal")
	flag.BoolVar(&o.status, "status", false, "show the status overlay in the window")
	flag.IntVar(&o.width, "width", 0, "window width (default: the page's design viewport)")
	flag.IntVar(&o.height, "height", 0, "window height (default: the page's design viewport)")
	flag.StringVar(&o.debugPath, "debug", "", "write engine debug lines to this file")
	flag.StringVar(&o.scriptPath, "script", "", "JSON scroll script to play after start")
	flag.StringVar(&o.convert, "convert", "", "write the page to this path as YAML and exit")
	flag.BoolVar(&o.layout, "layout", false, "print the section layout for the design viewport and exit")
	flag.Parse()

	if o.pagePath == "" {
		flag.Usage()
		os.Exit(2)
	}
	if err := run(o); err != nil {
		log.Fatal(err)
	}
}

// run does the work of main. Every resource it opens is closed before it
// returns, so main can exit on the error.
func run(o options) error {
	p, err := page.Load(o.pagePath)
	if err != nil {
		return err
	}

	switch {
	case o.convert != "":
		return page.Write(p, o.convert)
	case o.layout:
		return printLayout(os.Stdout, p)
	}

	var debugOut io.Writer
	if o.debugPath != "" {
		f, err := os.Create(o.debugPath)
		if err != nil {
			return err
		}
		defer f.Close()
		debugOut = f
	}

	var runner *pinscroll.TestRunner
	if o.scriptPath != "" {
		if runner, err = loadScript(o.scriptPath, debugOut); err != nil {
			return err
		}
	}

	if o.gui {
		return runWindow(p, ebitenhost.Options{
			Width:       o.width,
			Height:      o.height,
			ShowStatus:  o.status,
			DebugOutput: debugOut,
		}, runner)
	}
	return runTerminal(p, termhost.Options{DebugOutput: debugOut}, runner)
}

// loadScript reads a JSON scroll script. Checkpoints are logged to
// debugOut when it is set.
func loadScript(path string, debugOut io.Writer) (*pinscroll.TestRunner, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	runner, err := pinscroll.LoadTestScript(data)
	if err != nil {
		return nil, err
	}
	runner.OnCheckpoint = func(label string, e *pinscroll.Engine) {
		if debugOut == nil {
			return
		}
		name := "none"
		if r, ok := e.Pinned(); ok {
			name = r.Name
		}
		fmt.Fprintf(debugOut, "checkpoint %s offset=%.1f pinned=%s\n", label, e.Offset(), name)
	}
	return runner, nil
}

func runWindow(p *page.Page, opts ebitenhost.Options, runner *pinscroll.TestRunner) error {
	g, err := ebitenhost.New(p, opts)
	if g == nil {
		return err
	}
	if err != nil {
		log.Printf("pinscroll: %v", err)
	}
	defer g.Close()
	if runner != nil {
		g.Engine().SetTestRunner(runner)
	}
	return g.Run()
}

func runTerminal(p *page.Page, opts termhost.Options, runner *pinscroll.TestRunner) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	h, err := termhost.New(screen, p, opts)
	if h == nil {
		return err
	}
	defer h.Close()
	// Rejected ranges are shown on the status line; the rest of the page
	// still runs.
	if runner != nil {
		h.Engine().SetTestRunner(runner)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return h.Run(ctx)
}

// printLayout lists every section's document geometry for the page's
// design viewport.
func printLayout(w io.Writer, p *page.Page) error {
	l, err := page.Compute(p, p.Viewport)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SECTION\tTOP\tHEIGHT\tSTART\tEND\tPINNED")
	for _, s := range l.Sections {
		pinned := ""
		if s.Pinned {
			pinned = fmt.Sprintf("%.0f", s.PinDistance())
		}
		fmt.Fprintf(tw, "%s\t%.0f\t%.0f\t%.0f\t%.0f\t%s\n", s.ID, s.Top, s.Height, s.Start, s.End, pinned)
	}
	fmt.Fprintf(tw, "\ndocument %.0f, max scroll %.0f (%gx%g)\n", l.DocumentHeight, l.MaxScroll(), p.Viewport.Width, p.Viewport.Height)
	return tw.Flush()
}
