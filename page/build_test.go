package page

import (
	"errors"
	"testing"
	"time"

	"github.com/phanxgames/pinscroll"
)

const frame = float32(1.0 / 60)

type staticSource struct {
	extent float64
	offset float64
}

func (s *staticSource) TotalScrollableExtent() float64 { return s.extent }
func (s *staticSource) SetScrollOffset(offset float64) { s.offset = offset }

func runFrames(e *pinscroll.Engine, n int) {
	for i := 0; i < n; i++ {
		e.Update(frame)
	}
}

func buildLanding(t *testing.T) (*pinscroll.Engine, *Built) {
	t.Helper()
	p, err := Load("testdata/landing.yaml")
	if err != nil {
		t.Fatal(err)
	}
	src := &staticSource{}
	e := pinscroll.NewEngine(src, p.EngineConfig())
	b, err := Build(e, p, p.Viewport)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	src.extent = b.MaxScroll()
	return e, b
}

func TestBuildRegistersRanges(t *testing.T) {
	e, b := buildLanding(t)
	if got := e.Registry().Len(); got != 12 {
		t.Errorf("Expected 12 ranges, got %d", got)
	}
	pinned := 0
	for _, r := range e.Registry().Ranges() {
		if r.Pinned {
			pinned++
		}
	}
	if pinned != 4 {
		t.Errorf("Expected 4 pinned ranges, got %d", pinned)
	}
	for _, id := range []string{"hero", "find-supplier", "cut-time", "expand-uae"} {
		v, ok := b.Section(id)
		if !ok || v.RangeID == 0 {
			t.Errorf("section %s has no range", id)
		}
	}
	quote, _ := b.Section("quote")
	if quote.RangeID != 0 {
		t.Error("quote has nothing to animate and should not register")
	}
	if _, ok := b.Section("nope"); ok {
		t.Error("unknown section found")
	}
}

func TestBuildIntroPlays(t *testing.T) {
	e, b := buildLanding(t)
	if b.Intro == nil {
		t.Fatal("intro player missing")
	}
	hero, _ := b.Section("hero")
	runFrames(e, 6)
	if hero.Background.Alpha >= 1 {
		t.Errorf("hero should still be fading in, alpha %f", hero.Background.Alpha)
	}
	runFrames(e, 120)
	if !b.Intro.Done {
		t.Fatal("intro should be done after 2s")
	}
	if !approxEqual(hero.Background.Alpha, 1, 1e-9) || !approxEqual(hero.Background.ScaleX, 1, 1e-9) {
		t.Errorf("hero background = alpha %f scale %f, want 1, 1", hero.Background.Alpha, hero.Background.ScaleX)
	}
	card, _ := hero.Element("card")
	if !approxEqual(card.X, 0, 1e-9) || !approxEqual(card.Alpha, 1, 1e-9) {
		t.Errorf("card = x %f alpha %f", card.X, card.Alpha)
	}
}

func TestBuildScrollDrivesSections(t *testing.T) {
	e, b := buildLanding(t)
	runFrames(e, 120) // intro

	hero, _ := b.Section("hero")
	if hero.PinState() != pinscroll.PinPinned || hero.ViewTop(0) != 0 {
		t.Fatalf("hero should be pinned at the top, state %v", hero.PinState())
	}

	// 884 is progress 0.85: halfway through the exit segments.
	e.OnScroll(pinscroll.ScrollEvent{Offset: 884, Time: time.Second})
	runFrames(e, 60)

	headline, _ := hero.Element("headline")
	if !approxEqual(headline.X, -230.4*0.125, 1e-3) {
		t.Errorf("headline x = %f, want %f", headline.X, -230.4*0.125)
	}
	if !approxEqual(headline.Alpha, 0.875, 1e-3) {
		t.Errorf("headline alpha = %f, want 0.875", headline.Alpha)
	}
	if !approxEqual(hero.Background.ScaleX, 1.03, 1e-3) || !approxEqual(hero.Background.Y, -12, 1e-2) {
		t.Errorf("background = scale %f y %f", hero.Background.ScaleX, hero.Background.Y)
	}
	if hero.ViewTop(884) != 0 {
		t.Errorf("pinned hero should stay at the top, got %f", hero.ViewTop(884))
	}

	e.OnScroll(pinscroll.ScrollEvent{Offset: 1500, Time: 2 * time.Second})
	runFrames(e, 60)
	if hero.PinState() != pinscroll.PinAfter {
		t.Errorf("hero state = %v, want after", hero.PinState())
	}
	if got := hero.ViewTop(1500); got != -460 {
		t.Errorf("hero ViewTop = %f, want -460", got)
	}
	find, _ := b.Section("find-supplier")
	if got := find.ViewTop(1500); got != 340 {
		t.Errorf("find-supplier ViewTop = %f, want 340", got)
	}
	if r, ok := e.Pinned(); ok {
		t.Errorf("nothing should be pinned at 1500, got %q", r.Name)
	}
}

func TestBuildFlowRange(t *testing.T) {
	p, err := Load("testdata/minimal.toml")
	if err != nil {
		t.Fatal(err)
	}
	e := pinscroll.NewEngine(&staticSource{extent: 1750}, p.EngineConfig())
	b, err := Build(e, p, p.Viewport)
	if err != nil {
		t.Fatal(err)
	}
	var flow *pinscroll.Range
	for _, r := range e.Registry().Ranges() {
		if r.Name == "details/copy" {
			flow = r
		}
	}
	if flow == nil {
		t.Fatal("flow range not registered")
	}
	if flow.Start != 1200 || flow.End != 1350 {
		t.Errorf("flow range = [%g, %g], want [1200, 1350]", flow.Start, flow.End)
	}

	details, _ := b.Section("details")
	copyEl, _ := details.Element("copy")
	e.OnScroll(pinscroll.ScrollEvent{Offset: 1275, Time: time.Second})
	runFrames(e, 1)
	if !approxEqual(copyEl.Alpha, 0.5, 1e-9) || !approxEqual(copyEl.Y, 20, 1e-9) {
		t.Errorf("copy = alpha %f y %f, want 0.5 20", copyEl.Alpha, copyEl.Y)
	}
}

func TestBuildReportsRejectedRanges(t *testing.T) {
	p, err := ParseYAML([]byte(`
sections:
  - id: a
    pin: true
    elements: [{id: t}]
    segments: [{element: t, start: 0, end: 1, from: {opacity: 0}, to: {opacity: 1}}]
  - id: b
    pin: true
    start: top 200%
`))
	if err != nil {
		t.Fatal(err)
	}
	e := pinscroll.NewEngine(nil, pinscroll.DefaultConfig())
	b, err := Build(e, p, p.Viewport)
	if err == nil {
		t.Fatal("expected an overlap error")
	}
	var be *BuildError
	if !errors.As(err, &be) || len(be.Errs) != 1 {
		t.Fatalf("err = %v, want one BuildError entry", err)
	}
	if !errors.Is(err, pinscroll.ErrOverlappingPinConflict) {
		t.Errorf("err = %v, want overlapping pin conflict", err)
	}
	if b == nil {
		t.Fatal("Built should be returned with the rejected range skipped")
	}

	a, _ := b.Section("a")
	bad, _ := b.Section("b")
	if a.RangeID == 0 || bad.RangeID != 0 {
		t.Errorf("range ids a=%d b=%d", a.RangeID, bad.RangeID)
	}
	el, _ := a.Element("t")
	e.OnScroll(pinscroll.ScrollEvent{Offset: 400, Time: time.Second})
	runFrames(e, 1)
	if !approxEqual(el.Alpha, 0.5, 1e-9) {
		t.Errorf("surviving section alpha = %f, want 0.5", el.Alpha)
	}
}

func TestBuildUnknownElementReported(t *testing.T) {
	// Built directly, skipping Validate.
	p := &Page{Sections: []Section{
		{
			ID:       "a",
			Pin:      true,
			Elements: []ElementSpec{{ID: "t"}},
			Segments: []SegmentSpec{{Element: "t", Start: 0, End: 1, From: map[string]Length{"opacity": Px(0)}, To: map[string]Length{"opacity": Px(1)}}},
		},
		{
			ID:       "b",
			Segments: []SegmentSpec{{Element: "ghost", Start: 0, End: 1}},
			Flows:    []FlowSpec{{Element: "ghost"}},
		},
	}}
	e := pinscroll.NewEngine(nil, pinscroll.DefaultConfig())
	b, err := Build(e, p, Viewport{Width: 1000, Height: 500})
	var be *BuildError
	if !errors.As(err, &be) || len(be.Errs) != 2 {
		t.Fatalf("err = %v, want a BuildError with two entries", err)
	}
	if b == nil || e.Registry().Len() != 1 {
		t.Fatal("section a should still be registered")
	}
	a, _ := b.Section("a")
	el, _ := a.Element("t")
	e.OnScroll(pinscroll.ScrollEvent{Offset: 250, Time: time.Second})
	runFrames(e, 1)
	if !approxEqual(el.Alpha, 0.5, 1e-9) {
		t.Errorf("alpha = %f, want 0.5", el.Alpha)
	}
}

func TestBuildBadViewport(t *testing.T) {
	p, err := Load("testdata/minimal.toml")
	if err != nil {
		t.Fatal(err)
	}
	e := pinscroll.NewEngine(nil, pinscroll.DefaultConfig())
	b, err := Build(e, p, Viewport{})
	if err == nil || b != nil {
		t.Errorf("Build = %v, %v; want nil and an error", b, err)
	}
	if e.Registry().Len() != 0 {
		t.Error("nothing should be registered")
	}
}

func TestBuiltCloseAndRebuild(t *testing.T) {
	e, b := buildLanding(t)
	b.Close()
	if n := e.Registry().Len(); n != 0 {
		t.Errorf("Expected empty registry after Close, got %d", n)
	}
	if !b.Intro.Done {
		t.Error("Close should stop the intro")
	}
	b.Close()

	b2, err := Build(e, b.Page, Viewport{Width: 1280, Height: 1000})
	if err != nil {
		t.Fatalf("rebuild failed: %v", err)
	}
	if e.Registry().Len() != 12 {
		t.Errorf("Expected 12 ranges after rebuild, got %d", e.Registry().Len())
	}
	hero, _ := b2.Section("hero")
	if hero.Layout.End != 1300 {
		t.Errorf("hero end = %g, want 1300", hero.Layout.End)
	}
}

func TestSectionReset(t *testing.T) {
	_, b := buildLanding(t)
	hero, _ := b.Section("hero")
	headline, _ := hero.Element("headline")
	headline.Set(pinscroll.PropX, -50)
	headline.Set(pinscroll.PropOpacity, 0)
	hero.Background.Set(pinscroll.PropScale, 2)
	hero.reset()
	if headline.X != 0 || headline.Alpha != 1 || hero.Background.ScaleX != 1 {
		t.Errorf("reset left headline x %f alpha %f, bg scale %f", headline.X, headline.Alpha, hero.Background.ScaleX)
	}
}
