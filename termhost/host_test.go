package termhost

import (
	"context"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/phanxgames/pinscroll/page"
)

const frame = float32(1.0 / 60)

// newTestHost runs the landing page on a 128x41 simulation screen: 40 rows
// of 20px plus the status line give the page's 1280x800 design viewport.
func newTestHost(t *testing.T) (*Host, tcell.SimulationScreen) {
	t.Helper()
	p, err := page.Load("../page/testdata/landing.yaml")
	if err != nil {
		t.Fatal(err)
	}
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(screen.Fini)
	screen.SetSize(128, 41)

	h, err := New(screen, p, Options{})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(h.Close)
	return h, screen
}

func steps(h *Host, n int) {
	for i := 0; i < n; i++ {
		h.Step(frame)
	}
}

// rowText returns the runes of screen row y.
func rowText(screen tcell.SimulationScreen, y int) string {
	cells, w, _ := screen.GetContents()
	var sb strings.Builder
	for x := 0; x < w; x++ {
		c := cells[y*w+x]
		if len(c.Runes) == 0 {
			sb.WriteRune(' ')
			continue
		}
		sb.WriteRune(c.Runes[0])
	}
	return sb.String()
}

func cellBackground(screen tcell.SimulationScreen, x, y int) tcell.Color {
	cells, w, _ := screen.GetContents()
	_, bg, _ := cells[y*w+x].Style.Decompose()
	return bg
}

func TestNewBuildsPage(t *testing.T) {
	h, _ := newTestHost(t)
	if got := h.TotalScrollableExtent(); got != 13440 {
		t.Errorf("TotalScrollableExtent = %g, want 13440", got)
	}
	if n := h.Engine().Registry().Len(); n != 12 {
		t.Errorf("Expected 12 ranges, got %d", n)
	}
	if vp := h.viewport(); vp != (page.Viewport{Width: 1280, Height: 800}) {
		t.Errorf("viewport = %+v", vp)
	}
}

func TestDrawHeroAfterIntro(t *testing.T) {
	h, screen := newTestHost(t)
	steps(h, 120)

	if got := rowText(screen, 0); !strings.Contains(got, "Connect globally. Source locally.") {
		t.Errorf("row 0 = %q, want the hero title", got)
	}
	// label at 22vh = 176px, headline at 30vh = 240px.
	if got := rowText(screen, 8); !strings.Contains(got, "B2B Trade Platform") {
		t.Errorf("row 8 = %q, want the hero label", got)
	}
	if got := rowText(screen, 12); !strings.Contains(got, "Connect globally") {
		t.Errorf("row 12 = %q, want the headline", got)
	}
	if got, want := cellBackground(screen, 0, 0), tcell.NewRGBColor(0x0B, 0x0F, 0x17); got != want {
		t.Errorf("hero background = %v, want %v", got, want)
	}
	status := rowText(screen, 40)
	if !strings.Contains(status, "0/13440") || !strings.Contains(status, "pinned: hero") {
		t.Errorf("status = %q", status)
	}
}

func TestDrawIntroFadesIn(t *testing.T) {
	h, screen := newTestHost(t)
	steps(h, 2)
	faded := cellBackground(screen, 0, 0)
	steps(h, 118)
	full := cellBackground(screen, 0, 0)
	if faded == full {
		t.Error("hero background should fade in during the intro")
	}
}

func TestKeysScroll(t *testing.T) {
	h, _ := newTestHost(t)
	key := func(k tcell.Key, r rune) bool {
		return h.HandleEvent(tcell.NewEventKey(k, r, tcell.ModNone))
	}

	tests := []struct {
		name string
		k    tcell.Key
		r    rune
		want float64
	}{
		{"down", tcell.KeyDown, 0, 60},
		{"j", tcell.KeyRune, 'j', 120},
		{"up", tcell.KeyUp, 0, 60},
		{"page down", tcell.KeyPgDn, 0, 780},
		{"space", tcell.KeyRune, ' ', 1500},
		{"page up", tcell.KeyPgUp, 0, 780},
		{"end", tcell.KeyEnd, 0, 13440},
		{"down at end", tcell.KeyDown, 0, 13440},
		{"home", tcell.KeyHome, 0, 0},
		{"up at top", tcell.KeyUp, 0, 0},
	}
	for _, tt := range tests {
		if !key(tt.k, tt.r) {
			t.Fatalf("%s: should not quit", tt.name)
		}
		if got := h.Offset(); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("%s: offset = %g, want %g", tt.name, got, tt.want)
		}
	}

	if key(tcell.KeyRune, 'q') {
		t.Error("q should quit")
	}
	if key(tcell.KeyEscape, 0) {
		t.Error("Esc should quit")
	}
}

func TestWheelScrollsAndDrivesEngine(t *testing.T) {
	h, _ := newTestHost(t)
	for i := 0; i < 5; i++ {
		h.HandleEvent(tcell.NewEventMouse(10, 10, tcell.WheelDown, tcell.ModNone))
	}
	if h.Offset() != 300 {
		t.Fatalf("offset = %g, want 300", h.Offset())
	}
	h.Step(frame)
	if h.Engine().Offset() != 300 {
		t.Errorf("engine offset = %g, want 300", h.Engine().Offset())
	}
	h.HandleEvent(tcell.NewEventMouse(10, 10, tcell.WheelUp, tcell.ModNone))
	if h.Offset() != 240 {
		t.Errorf("offset = %g, want 240", h.Offset())
	}
}

func TestPinnedSectionStaysOnScreen(t *testing.T) {
	h, screen := newTestHost(t)
	steps(h, 120)

	// Halfway through the hero pin the band still starts at row 0.
	h.ScrollTo(520)
	steps(h, 2)
	if got := rowText(screen, 0); !strings.Contains(got, "Connect globally. Source locally.") {
		t.Errorf("row 0 = %q, want the pinned hero title", got)
	}

	// Past the pin the hero scrolls off and find-supplier follows it up.
	h.ScrollTo(1840)
	steps(h, 2)
	if got := rowText(screen, 0); !strings.Contains(got, "Find the right supplier without the endless search.") {
		t.Errorf("row 0 = %q, want the find-supplier title", got)
	}
	if strings.Contains(rowText(screen, 40), "pinned: hero") {
		t.Error("hero should be released")
	}
}

func TestSnapMovesHostOffset(t *testing.T) {
	h, _ := newTestHost(t)
	steps(h, 40) // settle delay

	h.ScrollTo(700)
	steps(h, 60)
	if got := h.Offset(); math.Abs(got-520) > 1e-6 {
		t.Errorf("offset after snap = %g, want 520", got)
	}
	if h.Engine().Settling() {
		t.Error("snap should have finished")
	}
}

func TestResizeRebuilds(t *testing.T) {
	h, screen := newTestHost(t)
	h.ScrollTo(6720)
	steps(h, 1)

	screen.SetSize(128, 51)
	h.HandleEvent(tcell.NewEventResize(128, 51))

	hero, ok := h.Built().Section("hero")
	if !ok {
		t.Fatal("hero missing after resize")
	}
	if hero.Layout.End != 1300 {
		t.Errorf("hero end = %g, want 1300", hero.Layout.End)
	}
	if n := h.Engine().Registry().Len(); n != 12 {
		t.Errorf("Expected 12 ranges after resize, got %d", n)
	}
	// The offset keeps its place relative to the document.
	if got, want := h.Offset(), 0.5*h.TotalScrollableExtent(); math.Abs(got-want) > 1e-9 {
		t.Errorf("offset = %g, want %g", got, want)
	}
}

func TestResizeKeepsFinishedIntro(t *testing.T) {
	h, screen := newTestHost(t)
	steps(h, 120)

	screen.SetSize(100, 41)
	h.HandleEvent(tcell.NewEventResize(100, 41))
	if !h.Built().Intro.Done {
		t.Error("a finished intro should not play again after resize")
	}
	h.Step(frame)
	hero, _ := h.Built().Section("hero")
	if hero.Background.Alpha != 1 {
		t.Errorf("hero alpha = %f, want 1", hero.Background.Alpha)
	}
}

func TestRunQuitsOnKey(t *testing.T) {
	h, screen := newTestHost(t)

	done := make(chan error, 1)
	go func() {
		done <- h.Run(context.Background())
	}()
	screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after q")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	h, _ := newTestHost(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- h.Run(ctx)
	}()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
