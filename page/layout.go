package page

import (
	"github.com/pkg/errors"

	"github.com/phanxgames/pinscroll"
)

// Default trigger expressions for pinned sections: pin when the section
// top reaches the viewport top and hold for one viewport height.
const (
	DefaultPinStart = "top top"
	DefaultPinEnd   = "+=100%"
)

// SectionLayout is a section's resolved document geometry.
type SectionLayout struct {
	ID string
	// Top is the section's document offset before its own pin spacing.
	Top    float64
	Height float64
	Pinned bool
	// Start and End bound the section's range in document offsets.
	Start, End float64
}

// PinDistance is the scroll distance the section stays pinned for.
func (s SectionLayout) PinDistance() float64 {
	if !s.Pinned || s.End <= s.Start {
		return 0
	}
	return s.End - s.Start
}

// Layout is the page stacked into document offsets for one viewport.
type Layout struct {
	Viewport       Viewport
	Sections       []SectionLayout
	DocumentHeight float64
}

// MaxScroll is the largest scroll offset: document height minus viewport
// height.
func (l *Layout) MaxScroll() float64 {
	return max(0, l.DocumentHeight-l.Viewport.Height)
}

// SectionAt returns the index of the section covering the viewport top at
// offset. Pinned sections cover their whole pin distance.
func (l *Layout) SectionAt(offset float64) int {
	idx := 0
	for i, s := range l.Sections {
		if offset >= s.Top {
			idx = i
		}
	}
	return idx
}

// Compute stacks the page's sections for vp. Pinned sections add their pin
// distance below themselves, so later sections start after the pin ends.
func Compute(p *Page, vp Viewport) (*Layout, error) {
	if vp.Width <= 0 || vp.Height <= 0 {
		return nil, errors.Errorf("bad viewport %gx%g", vp.Width, vp.Height)
	}
	l := &Layout{Viewport: vp, Sections: make([]SectionLayout, 0, len(p.Sections))}
	top := 0.0
	for i := range p.Sections {
		s := &p.Sections[i]
		height := vp.Height
		if !s.Height.IsZero() {
			height = s.Height.Resolve(vp)
		}
		if height <= 0 {
			return nil, errors.Errorf("section %q: height must be positive", s.ID)
		}

		start, end := s.Start, s.End
		if s.Pin {
			if start == "" {
				start = DefaultPinStart
			}
			if end == "" {
				end = DefaultPinEnd
			}
		}
		g := pinscroll.TriggerGeometry{ElementTop: top, ElementHeight: height, ViewportHeight: vp.Height}
		rs, re, err := pinscroll.ResolveRange(start, end, g)
		if err != nil {
			return nil, errors.Wrapf(err, "section %q", s.ID)
		}

		sl := SectionLayout{ID: s.ID, Top: top, Height: height, Pinned: s.Pin, Start: rs, End: re}
		l.Sections = append(l.Sections, sl)
		top += height + sl.PinDistance()
	}
	l.DocumentHeight = top
	return l, nil
}
