package page

import (
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/phanxgames/pinscroll"
)

// ElementView is an element placed in its section. The embedded Element
// carries the animated offsets; Left and Top are its layout position
// relative to the section.
type ElementView struct {
	*pinscroll.Element
	Label         string
	Left, Top     float64
	Width, Height float64
}

// SectionView is the runtime state of one section. It is the Pinner of the
// section's range and tells hosts where to draw the section.
type SectionView struct {
	Layout     SectionLayout
	Title      string
	Color      pinscroll.Color
	Background *pinscroll.Element
	Elements   []*ElementView
	// RangeID is the section's range, or zero if none was registered.
	RangeID pinscroll.RangeID

	state    pinscroll.PinState
	pinStart float64
	byID     map[string]*ElementView
}

// Pin implements pinscroll.Pinner.
func (v *SectionView) Pin(start float64) {
	v.state = pinscroll.PinPinned
	v.pinStart = start
}

// Release implements pinscroll.Pinner.
func (v *SectionView) Release(at float64) {
	if at <= v.Layout.Start {
		v.state = pinscroll.PinBefore
	} else {
		v.state = pinscroll.PinAfter
	}
}

// PinState returns the section's pin state as last told by the engine.
func (v *SectionView) PinState() pinscroll.PinState {
	return v.state
}

// ViewTop returns the section's top edge in viewport coordinates at the
// given scroll offset. A pinned section stays where it was when pinning
// began; after release it scrolls on below its pin distance.
func (v *SectionView) ViewTop(offset float64) float64 {
	switch v.state {
	case pinscroll.PinPinned:
		return v.Layout.Top - v.pinStart
	case pinscroll.PinAfter:
		return v.Layout.Top + v.Layout.PinDistance() - offset
	default:
		return v.Layout.Top - offset
	}
}

// Element returns the section element with the given id.
func (v *SectionView) Element(id string) (*ElementView, bool) {
	el, ok := v.byID[id]
	return el, ok
}

// target resolves a segment element reference; empty is the background.
func (v *SectionView) target(id string) (*pinscroll.Element, error) {
	if id == "" {
		return v.Background, nil
	}
	el, ok := v.byID[id]
	if !ok {
		return nil, errors.Errorf("unknown element %q", id)
	}
	return el.Element, nil
}

// reset puts every element of the section back at rest.
func (v *SectionView) reset() {
	rest := func(el *pinscroll.Element) {
		el.Set(pinscroll.PropX, 0)
		el.Set(pinscroll.PropY, 0)
		el.Set(pinscroll.PropScale, 1)
		el.Set(pinscroll.PropOpacity, 1)
	}
	rest(v.Background)
	for _, el := range v.Elements {
		rest(el.Element)
	}
}

// Built is a page registered on an engine.
type Built struct {
	Page     *Page
	Layout   *Layout
	Sections []*SectionView
	// Intro plays the page's load animation, if any.
	Intro *pinscroll.Player

	scope *pinscroll.Scope
}

// MaxScroll is the page's scrollable extent.
func (b *Built) MaxScroll() float64 {
	return b.Layout.MaxScroll()
}

// Section returns the view of the section with the given id.
func (b *Built) Section(id string) (*SectionView, bool) {
	for _, v := range b.Sections {
		if v.Layout.ID == id {
			return v, true
		}
	}
	return nil, false
}

// Close unregisters every range the page registered. Call it before
// building the page again for a new viewport.
func (b *Built) Close() {
	if b.Intro != nil {
		b.Intro.Stop()
	}
	b.scope.Release()
}

// BuildError lists the sections and flows whose ranges were rejected.
// The rest of the page is registered and works.
type BuildError struct {
	Errs []error
}

func (e *BuildError) Error() string {
	msgs := make([]string, len(e.Errs))
	for i, err := range e.Errs {
		msgs[i] = err.Error()
	}
	return "build page: " + strings.Join(msgs, "; ")
}

// Unwrap returns the individual failures for errors.Is and errors.As.
func (e *BuildError) Unwrap() []error {
	return e.Errs
}

// Build lays the page out for vp and registers its ranges on e. A range
// the engine rejects (an overlapping pin, a degenerate trigger) is skipped
// and reported in a *BuildError; the returned Built is usable either way.
// Layout failures return a nil Built.
func Build(e *pinscroll.Engine, p *Page, vp Viewport) (*Built, error) {
	layout, err := Compute(p, vp)
	if err != nil {
		return nil, err
	}
	b := &Built{Page: p, Layout: layout, scope: e.Scope()}

	for i := range p.Sections {
		b.Sections = append(b.Sections, newSectionView(i, &p.Sections[i], layout.Sections[i], vp))
	}

	var failed []error
	for i := range p.Sections {
		if errs := b.registerSection(&p.Sections[i], b.Sections[i], vp); len(errs) > 0 {
			failed = append(failed, errs...)
		}
	}

	if p.Intro != nil && len(p.Intro.Segments) > 0 {
		player, err := b.intro(p.Intro, vp)
		if err != nil {
			failed = append(failed, err)
		} else {
			b.Intro = player
			e.Play(player)
		}
	}

	if len(failed) > 0 {
		return b, &BuildError{Errs: failed}
	}
	return b, nil
}

func newSectionView(i int, s *Section, l SectionLayout, vp Viewport) *SectionView {
	color, _ := parseColor(s.Color)
	if s.Color == "" {
		color = paletteColor(i)
	}
	v := &SectionView{
		Layout:     l,
		Title:      s.Title,
		Color:      color,
		Background: pinscroll.NewElement(s.ID),
		byID:       make(map[string]*ElementView, len(s.Elements)),
	}
	v.Background.Color = color
	v.Background.UserData = v

	for _, spec := range s.Elements {
		el := pinscroll.NewElement(s.ID + "/" + spec.ID)
		if spec.Color != "" {
			el.Color, _ = parseColor(spec.Color)
		}
		ev := &ElementView{
			Element: el,
			Label:   spec.Label,
			Left:    spec.Left.Resolve(vp),
			Top:     spec.Top.Resolve(vp),
			Width:   spec.Width.Resolve(vp),
			Height:  spec.Height.Resolve(vp),
		}
		if ev.Label == "" {
			ev.Label = spec.ID
		}
		el.UserData = ev
		v.Elements = append(v.Elements, ev)
		v.byID[spec.ID] = ev
	}
	return v
}

// registerSection registers the section's own range and its flows. Each
// rejected range is reported without affecting the others.
func (b *Built) registerSection(s *Section, v *SectionView, vp Viewport) []error {
	var errs []error

	if s.Pin || len(s.Segments) > 0 {
		tl, err := sectionTimeline(s, v, vp)
		if err != nil {
			return append(errs, errors.Wrapf(err, "section %q", s.ID))
		}
		r := pinscroll.Range{
			Name:     s.ID,
			Start:    v.Layout.Start,
			End:      v.Layout.End,
			Pinned:   s.Pin,
			Timeline: tl,
			Scrub:    float32(s.Scrub),
		}
		if s.Pin {
			r.Pinner = v
		}
		if s.ResetOnLeaveBack {
			r.OnLeaveBack = func(*pinscroll.Range) { v.reset() }
		}
		id, err := b.scope.Register(r)
		if err != nil {
			errs = append(errs, err)
		} else {
			v.RangeID = id
		}
	}

	for i, f := range s.Flows {
		el, ok := v.byID[f.Element]
		if !ok {
			errs = append(errs, errors.Errorf("section %q flow %d: unknown element %q", s.ID, i, f.Element))
			continue
		}
		g := pinscroll.TriggerGeometry{
			ElementTop:     v.Layout.Top + el.Top,
			ElementHeight:  el.Height,
			ViewportHeight: vp.Height,
		}
		start, end, err := pinscroll.ResolveRange(f.Start, f.End, g)
		if err != nil {
			errs = append(errs, errors.Wrapf(err, "section %q flow %d", s.ID, i))
			continue
		}
		fn, _ := pinscroll.EaseByName(f.Ease)
		tl, _ := pinscroll.NewTimeline()
		if err := tl.FromTo(el.Element, 0, 1, resolveProps(f.From, vp), resolveProps(f.To, vp), fn); err != nil {
			errs = append(errs, errors.Wrapf(err, "section %q flow %d", s.ID, i))
			continue
		}
		_, err = b.scope.Register(pinscroll.Range{
			Name:     s.ID + "/" + f.Element,
			Start:    start,
			End:      end,
			Timeline: tl,
			Scrub:    float32(f.Scrub),
		})
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// sectionTimeline builds the timeline of a section's segments. A section
// without segments gets no timeline.
func sectionTimeline(s *Section, v *SectionView, vp Viewport) (*pinscroll.Timeline, error) {
	if len(s.Segments) == 0 {
		return nil, nil
	}
	tl, _ := pinscroll.NewTimeline()
	for i, seg := range s.Segments {
		target, err := v.target(seg.Element)
		if err == nil {
			err = addSegment(tl, target, seg, vp)
		}
		if err != nil {
			return nil, errors.Wrapf(err, "segment %d", i)
		}
	}
	return tl, nil
}

func addSegment(tl *pinscroll.Timeline, target *pinscroll.Element, seg SegmentSpec, vp Viewport) error {
	fn, ok := pinscroll.EaseByName(seg.Ease)
	if !ok {
		return errors.Errorf("unknown ease %q", seg.Ease)
	}
	from := resolveProps(seg.From, vp)
	to := resolveProps(seg.To, vp)

	names := make([]string, 0, len(to)+len(from))
	for name := range to {
		names = append(names, name)
	}
	for name := range from {
		if _, ok := to[name]; !ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	// A property missing from "from" starts at the element's current value.
	tracks := make([]pinscroll.Track, 0, len(names))
	for _, name := range names {
		f, okF := from[name]
		t, okT := to[name]
		if !okF {
			f, _ = target.Get(name)
		}
		if !okT {
			t = f
		}
		tracks = append(tracks, pinscroll.Track{Prop: name, From: f, To: t})
	}
	return tl.Add(pinscroll.Segment{
		Start:          seg.Start,
		End:            seg.End,
		Target:         target,
		Tracks:         tracks,
		Ease:           fn,
		ResetOnReverse: seg.ResetOnReverse,
		Rest:           resolveProps(seg.Rest, vp),
	})
}

// intro builds the load animation player.
func (b *Built) intro(in *Intro, vp Viewport) (*pinscroll.Player, error) {
	tl, _ := pinscroll.NewTimeline()
	for i, seg := range in.Segments {
		sectionID, elementID, err := b.Page.splitTarget(seg.Target)
		if err != nil {
			return nil, errors.Wrapf(err, "intro segment %d", i)
		}
		v, _ := b.Section(sectionID)
		target, err := v.target(elementID)
		if err == nil {
			err = addSegment(tl, target, seg.SegmentSpec, vp)
		}
		if err != nil {
			return nil, errors.Wrapf(err, "intro segment %d", i)
		}
	}
	fn, _ := pinscroll.EaseByName(in.Ease)
	return pinscroll.NewPlayer(tl, in.Duration, fn), nil
}

// resolveProps converts a length map to pixel values.
func resolveProps(m map[string]Length, vp Viewport) pinscroll.Props {
	if len(m) == 0 {
		return nil
	}
	out := make(pinscroll.Props, len(m))
	for name, l := range m {
		out[name] = l.Resolve(vp)
	}
	return out
}
