// Package ebitenhost runs a page in a window. Sections are drawn as
// full-width rectangles and elements as labelled boxes; the mouse wheel,
// arrow keys, PgUp/PgDn, Home and End scroll the document.
package ebitenhost

import (
	"image/color"
	"io"
	"log"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/phanxgames/pinscroll"
	"github.com/phanxgames/pinscroll/page"
)

// Options configures a Game. Zero fields take the defaults.
type Options struct {
	// Title is the window title. Default: the page title.
	Title string
	// Width and Height are the initial window size. Default: the page's
	// design viewport.
	Width, Height int
	// WheelStep is the scroll distance of one wheel notch. Default 60.
	WheelStep float64
	// KeySpeed is the arrow key scroll speed in pixels per second.
	// Default 900.
	KeySpeed float64
	// ShowStatus draws the offset, pinned section and frame rate.
	ShowStatus bool
	// DebugOutput, when set, turns on engine debug mode.
	DebugOutput io.Writer
}

func (o *Options) defaults(p *page.Page) {
	if o.Title == "" {
		o.Title = p.Title
	}
	if o.Width <= 0 || o.Height <= 0 {
		o.Width, o.Height = int(p.Viewport.Width), int(p.Viewport.Height)
	}
	if o.WheelStep <= 0 {
		o.WheelStep = 60
	}
	if o.KeySpeed <= 0 {
		o.KeySpeed = 900
	}
}

// Game implements ebiten.Game for one page. It is the engine's
// ScrollSource; the page's section views are its Pinners and elements its
// Targets.
type Game struct {
	engine *pinscroll.Engine
	page   *page.Page
	built  *page.Built
	opts   Options

	offset        float64
	clock         time.Duration
	width, height int
	buildErr      error

	pixel  *ebiten.Image
	status *statusOverlay
}

// New creates a game and builds the page for the initial window size.
// Rejected ranges are reported in the error while the rest of the page
// runs; a nil Game means the page could not be laid out.
func New(p *page.Page, opts Options) (*Game, error) {
	opts.defaults(p)
	g := &Game{page: p, opts: opts}

	cfg := p.EngineConfig()
	if opts.DebugOutput != nil {
		cfg.DebugOutput = opts.DebugOutput
	}
	g.engine = pinscroll.NewEngine(g, cfg)
	g.engine.SetDebugMode(opts.DebugOutput != nil)
	if opts.ShowStatus {
		g.status = newStatusOverlay()
	}

	g.width, g.height = opts.Width, opts.Height
	b, err := page.Build(g.engine, p, g.viewport())
	if b == nil {
		return nil, err
	}
	g.built = b
	g.buildErr = err
	g.engine.Activate()
	return g, err
}

// Engine returns the game's engine.
func (g *Game) Engine() *pinscroll.Engine {
	return g.engine
}

// Built returns the page as currently laid out.
func (g *Game) Built() *page.Built {
	return g.built
}

// Offset returns the scroll offset.
func (g *Game) Offset() float64 {
	return g.offset
}

// TotalScrollableExtent implements pinscroll.ScrollSource.
func (g *Game) TotalScrollableExtent() float64 {
	if g.built == nil {
		return 0
	}
	return g.built.MaxScroll()
}

// SetScrollOffset implements pinscroll.ScrollSource.
func (g *Game) SetScrollOffset(offset float64) {
	g.offset = g.clamp(offset)
}

func (g *Game) viewport() page.Viewport {
	return page.Viewport{Width: float64(g.width), Height: float64(g.height)}
}

func (g *Game) clamp(offset float64) float64 {
	return math.Max(0, math.Min(offset, g.TotalScrollableExtent()))
}

// ScrollTo moves the document and notifies the engine.
func (g *Game) ScrollTo(offset float64) {
	g.offset = g.clamp(offset)
	g.engine.OnScroll(pinscroll.ScrollEvent{Offset: g.offset, Time: g.clock})
}

// ScrollBy moves the document by delta pixels.
func (g *Game) ScrollBy(delta float64) {
	g.ScrollTo(g.offset + delta)
}

// Update implements ebiten.Game.
func (g *Game) Update() error {
	dt := float32(1.0 / float64(ebiten.TPS()))

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	g.handleInput(dt)
	g.Step(dt)
	return nil
}

func (g *Game) handleInput(dt float32) {
	if _, wy := ebiten.Wheel(); wy != 0 {
		g.ScrollBy(-wy * g.opts.WheelStep)
	}
	step := g.opts.KeySpeed * float64(dt)
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		g.ScrollBy(step)
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		g.ScrollBy(-step)
	}
	screenful := float64(g.height) * 0.9
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyPageDown), inpututil.IsKeyJustPressed(ebiten.KeySpace):
		g.ScrollBy(screenful)
	case inpututil.IsKeyJustPressed(ebiten.KeyPageUp):
		g.ScrollBy(-screenful)
	case inpututil.IsKeyJustPressed(ebiten.KeyHome):
		g.ScrollTo(0)
	case inpututil.IsKeyJustPressed(ebiten.KeyEnd):
		g.ScrollTo(g.TotalScrollableExtent())
	}
}

// Step advances the engine by dt seconds. Update calls it after reading
// input.
func (g *Game) Step(dt float32) {
	g.clock += time.Duration(float64(dt) * float64(time.Second))
	g.engine.Update(dt)
	if g.status != nil {
		g.status.update(dt)
	}
}

// Layout implements ebiten.Game. A new window size lays the page out
// again.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth > 0 && outsideHeight > 0 && (outsideWidth != g.width || outsideHeight != g.height) {
		g.Resize(outsideWidth, outsideHeight)
	}
	return g.width, g.height
}

// Resize rebuilds the page for a w x h viewport, keeping the scroll
// position proportional. A finished intro is not played again.
func (g *Game) Resize(w, h int) {
	var ratio float64
	if maxOld := g.TotalScrollableExtent(); maxOld > 0 {
		ratio = g.offset / maxOld
	}
	introDone := true
	if g.built != nil {
		introDone = g.built.Intro == nil || g.built.Intro.Done
		g.built.Close()
	}

	g.width, g.height = w, h
	b, err := page.Build(g.engine, g.page, g.viewport())
	if b != nil && b.Intro != nil && introDone {
		b.Intro.Finish()
	}
	g.built = b
	g.buildErr = err
	g.engine.Resize()
	g.ScrollTo(ratio * g.TotalScrollableExtent())
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.Black)
	if g.pixel == nil {
		g.pixel = ebiten.NewImage(1, 1)
		g.pixel.Fill(color.White)
	}
	for _, q := range g.quads() {
		g.drawQuad(screen, q)
	}
	if g.status != nil {
		g.status.draw(screen, g)
	}
}

// Close unregisters the page and closes the engine.
func (g *Game) Close() {
	if g.built != nil {
		g.built.Close()
	}
	g.engine.Close()
}

// Run opens a window and runs p until the window is closed or Escape is
// pressed.
func Run(p *page.Page, opts Options) error {
	g, err := New(p, opts)
	if g == nil {
		return err
	}
	if err != nil {
		log.Printf("pinscroll: %v", err)
	}
	defer g.Close()
	return g.Run()
}

// Run opens the game's window and blocks until it is closed.
func (g *Game) Run() error {
	ebiten.SetWindowTitle(g.opts.Title)
	ebiten.SetWindowSize(g.opts.Width, g.opts.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	return ebiten.RunGame(g)
}
