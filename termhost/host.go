// Package termhost runs a page in a terminal. Sections are drawn as
// coloured bands, elements as their labels, and the wheel, arrow keys,
// PgUp/PgDn, Home and End scroll the document.
package termhost

import (
	"context"
	"io"
	"math"
	"time"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/sync/errgroup"

	"github.com/phanxgames/pinscroll"
	"github.com/phanxgames/pinscroll/page"
)

// Options configures a Host. Zero fields take the defaults.
type Options struct {
	// CellWidth and CellHeight are the page pixels covered by one terminal
	// cell. Defaults 10 and 20.
	CellWidth, CellHeight float64
	// FrameRate is the number of engine updates per second. Default 60.
	FrameRate int
	// LineStep is the scroll distance of one arrow key press or wheel
	// notch, in rows. Default 3.
	LineStep int
	// DebugOutput, when set, turns on engine debug mode and receives its
	// lines. Writing to the terminal itself would corrupt the display.
	DebugOutput io.Writer
}

func (o *Options) defaults() {
	if o.CellWidth <= 0 {
		o.CellWidth = 10
	}
	if o.CellHeight <= 0 {
		o.CellHeight = 20
	}
	if o.FrameRate <= 0 {
		o.FrameRate = 60
	}
	if o.LineStep <= 0 {
		o.LineStep = 3
	}
}

// Host owns the engine for one page and the terminal it is drawn on. It is
// the engine's ScrollSource. All methods except Run must be called from the
// goroutine running the frame loop.
type Host struct {
	screen tcell.Screen
	engine *pinscroll.Engine
	page   *page.Page
	built  *page.Built
	opts   Options

	offset     float64
	clock      time.Duration
	cols, rows int
	// buildErr is the last Build failure, shown in the status line.
	buildErr error
}

// New builds p for the screen's current size. The screen must already be
// initialised; the caller finalises it. Ranges the engine rejects are
// reported in the returned error but the host still runs the rest of the
// page; a nil Host means the page could not be laid out at all.
func New(screen tcell.Screen, p *page.Page, opts Options) (*Host, error) {
	opts.defaults()
	h := &Host{screen: screen, page: p, opts: opts}

	cfg := p.EngineConfig()
	if opts.DebugOutput != nil {
		cfg.DebugOutput = opts.DebugOutput
	}
	h.engine = pinscroll.NewEngine(h, cfg)
	h.engine.SetDebugMode(opts.DebugOutput != nil)

	screen.EnableMouse()
	screen.HideCursor()

	h.cols, h.rows = screen.Size()
	b, err := page.Build(h.engine, p, h.viewport())
	if b == nil {
		return nil, err
	}
	h.built = b
	h.buildErr = err
	h.engine.Activate()
	return h, err
}

// Engine returns the host's engine.
func (h *Host) Engine() *pinscroll.Engine {
	return h.engine
}

// Built returns the page as currently laid out.
func (h *Host) Built() *page.Built {
	return h.built
}

// Offset returns the current scroll offset in page pixels.
func (h *Host) Offset() float64 {
	return h.offset
}

// TotalScrollableExtent implements pinscroll.ScrollSource.
func (h *Host) TotalScrollableExtent() float64 {
	if h.built == nil {
		return 0
	}
	return h.built.MaxScroll()
}

// SetScrollOffset implements pinscroll.ScrollSource.
func (h *Host) SetScrollOffset(offset float64) {
	h.offset = h.clamp(offset)
}

// viewport is the page viewport covered by the terminal, less the status
// line.
func (h *Host) viewport() page.Viewport {
	rows := max(1, h.rows-1)
	return page.Viewport{
		Width:  float64(max(1, h.cols)) * h.opts.CellWidth,
		Height: float64(rows) * h.opts.CellHeight,
	}
}

func (h *Host) clamp(offset float64) float64 {
	return math.Max(0, math.Min(offset, h.TotalScrollableExtent()))
}

// ScrollTo moves the document and notifies the engine.
func (h *Host) ScrollTo(offset float64) {
	h.offset = h.clamp(offset)
	h.engine.OnScroll(pinscroll.ScrollEvent{Offset: h.offset, Time: h.clock})
}

// ScrollBy moves the document by delta page pixels.
func (h *Host) ScrollBy(delta float64) {
	h.ScrollTo(h.offset + delta)
}

// HandleEvent applies one terminal event. It returns false when the user
// asked to quit.
func (h *Host) HandleEvent(ev tcell.Event) bool {
	line := float64(h.opts.LineStep) * h.opts.CellHeight
	screenful := h.viewport().Height * 0.9

	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyUp:
			h.ScrollBy(-line)
		case tcell.KeyDown:
			h.ScrollBy(line)
		case tcell.KeyPgUp:
			h.ScrollBy(-screenful)
		case tcell.KeyPgDn:
			h.ScrollBy(screenful)
		case tcell.KeyHome:
			h.ScrollTo(0)
		case tcell.KeyEnd:
			h.ScrollTo(h.TotalScrollableExtent())
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				return false
			case ' ':
				h.ScrollBy(screenful)
			case 'k':
				h.ScrollBy(-line)
			case 'j':
				h.ScrollBy(line)
			}
		}
	case *tcell.EventMouse:
		buttons := ev.Buttons()
		if buttons&tcell.WheelUp != 0 {
			h.ScrollBy(-line)
		}
		if buttons&tcell.WheelDown != 0 {
			h.ScrollBy(line)
		}
	case *tcell.EventResize:
		h.screen.Sync()
		h.Resize()
	}
	return true
}

// Resize lays the page out again for the screen's current size. The old
// ranges are unregistered first so the new ones never conflict with them.
func (h *Host) Resize() {
	cols, rows := h.screen.Size()
	if cols == h.cols && rows == h.rows && h.built != nil {
		return
	}
	h.cols, h.rows = cols, rows

	var ratio float64
	if maxOld := h.TotalScrollableExtent(); maxOld > 0 {
		ratio = h.offset / maxOld
	}
	introDone := true
	if h.built != nil {
		introDone = h.built.Intro == nil || h.built.Intro.Done
		h.built.Close()
	}
	b, err := page.Build(h.engine, h.page, h.viewport())
	if b != nil && b.Intro != nil && introDone {
		b.Intro.Finish()
	}
	h.built = b
	h.buildErr = err
	h.engine.Resize()
	h.ScrollTo(ratio * h.TotalScrollableExtent())
}

// Step advances the engine by dt seconds and redraws.
func (h *Host) Step(dt float32) {
	h.clock += time.Duration(float64(dt) * float64(time.Second))
	h.engine.Update(dt)
	h.draw()
}

// Run pumps terminal events and runs the frame loop until the user quits
// or ctx is done. Events are read on their own goroutine and handed to the
// frame loop, which owns the engine.
func (h *Host) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	g, ctx := errgroup.WithContext(ctx)
	events := make(chan tcell.Event, 64)

	g.Go(func() error {
		for {
			ev := h.screen.PollEvent()
			if ev == nil || ctx.Err() != nil {
				return nil
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return nil
			}
		}
	})

	g.Go(func() error {
		// PollEvent only returns on an event, so post one once the loop
		// is done.
		defer func() {
			cancel()
			_ = h.screen.PostEvent(tcell.NewEventInterrupt(nil))
		}()

		ticker := time.NewTicker(time.Second / time.Duration(h.opts.FrameRate))
		defer ticker.Stop()
		last := time.Now()
		h.draw()
		for {
			select {
			case <-ctx.Done():
				return nil
			case ev := <-events:
				if !h.HandleEvent(ev) {
					return nil
				}
			case now := <-ticker.C:
				dt := float32(now.Sub(last).Seconds())
				last = now
				h.Step(dt)
			}
		}
	})

	err := g.Wait()
	cancel()
	return err
}

// Close unregisters the page and closes the engine. It does not finalise
// the screen.
func (h *Host) Close() {
	if h.built != nil {
		h.built.Close()
	}
	h.engine.Close()
}
