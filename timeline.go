package pinscroll

import (
	"fmt"
	"sort"

	"github.com/tanema/gween/ease"
)

// Track animates one property of a segment's target from From to To.
type Track struct {
	Prop     string
	From, To float64
	// Ease overrides the segment's easing for this property. Nil uses the
	// segment's Ease.
	Ease ease.TweenFunc
}

// Segment is a keyframe span on a timeline's [0,1] progress axis.
type Segment struct {
	// Start and End bound the segment on the parent progress axis.
	Start, End float64
	// Target receives the segment's property values.
	Target Target
	// Tracks lists the animated properties.
	Tracks []Track
	// Ease shapes local progress for every track without its own Ease.
	// Nil is linear.
	Ease ease.TweenFunc
	// ResetOnReverse snaps the segment's properties to Rest when progress
	// moves backward into the segment from beyond End. Values stay at rest
	// until progress leaves the segment again.
	ResetOnReverse bool
	// Rest holds the reset values. Properties missing here rest at From.
	Rest Props
}

func (s *Segment) rest(tr *Track) float64 {
	if v, ok := s.Rest[tr.Prop]; ok {
		return v
	}
	return tr.From
}

type trackRef struct {
	seg   int
	track int
}

// channel is one (target, property) pair and every track that writes it,
// in declaration order.
type channel struct {
	target int
	prop   string
	tracks []trackRef
}

type targetBuf struct {
	target Target
	props  Props
}

// Timeline is an ordered set of segments evaluated against a progress value.
// Segments may overlap; when several segments write the same property the
// last declared segment containing the progress wins.
//
// A Timeline is owned by exactly one range (or Player). Apply is
// allocation-free once the timeline has been evaluated once. Targets are
// grouped by identity, so they must be comparable (pointer types are).
type Timeline struct {
	segments []Segment
	latched  []bool

	channels []channel
	targets  []targetBuf
	compiled bool

	last     float64
	applied  bool
	released bool
}

// NewTimeline creates a timeline from the given segments.
func NewTimeline(segments ...Segment) (*Timeline, error) {
	tl := &Timeline{}
	for _, s := range segments {
		if err := tl.Add(s); err != nil {
			return nil, err
		}
	}
	return tl, nil
}

// Add appends a segment. Segments added later win over earlier ones where
// they overlap on the same property.
func (tl *Timeline) Add(s Segment) error {
	if tl.released {
		return fmt.Errorf("add segment: timeline released")
	}
	if s.Target == nil {
		return fmt.Errorf("add segment [%g, %g]: nil target", s.Start, s.End)
	}
	if !(s.Start >= 0 && s.End <= 1 && s.Start < s.End) {
		return fmt.Errorf("add segment [%g, %g]: bounds must satisfy 0 <= start < end <= 1", s.Start, s.End)
	}
	if len(s.Tracks) == 0 {
		return fmt.Errorf("add segment [%g, %g]: no tracks", s.Start, s.End)
	}
	tl.segments = append(tl.segments, s)
	tl.latched = append(tl.latched, false)
	tl.compiled = false
	return nil
}

// FromTo adds a segment animating target from the from values to the to
// values between start and end. Properties present in only one of the maps
// hold that value across the segment.
func (tl *Timeline) FromTo(target Target, start, end float64, from, to Props, fn ease.TweenFunc) error {
	names := make([]string, 0, len(to))
	for name := range to {
		names = append(names, name)
	}
	for name := range from {
		if _, ok := to[name]; !ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	tracks := make([]Track, 0, len(names))
	for _, name := range names {
		f, okF := from[name]
		t, okT := to[name]
		if !okF {
			f = t
		}
		if !okT {
			t = f
		}
		tracks = append(tracks, Track{Prop: name, From: f, To: t})
	}
	return tl.Add(Segment{Start: start, End: end, Target: target, Tracks: tracks, Ease: fn})
}

// Segments returns the timeline's segments. The returned slice MUST NOT be mutated.
func (tl *Timeline) Segments() []Segment {
	return tl.segments
}

// Progress returns the last applied progress and whether Apply has run.
func (tl *Timeline) Progress() (float64, bool) {
	return tl.last, tl.applied
}

// compile groups tracks into channels and preallocates one Props map per
// target so Apply only writes existing keys.
func (tl *Timeline) compile() {
	if tl.compiled {
		return
	}
	tl.compiled = true
	tl.channels = tl.channels[:0]
	tl.targets = tl.targets[:0]

	targetIdx := make(map[Target]int)
	chanIdx := make(map[struct {
		target int
		prop   string
	}]int)

	for si := range tl.segments {
		s := &tl.segments[si]
		ti, ok := targetIdx[s.Target]
		if !ok {
			ti = len(tl.targets)
			targetIdx[s.Target] = ti
			tl.targets = append(tl.targets, targetBuf{target: s.Target, props: make(Props)})
		}
		for k := range s.Tracks {
			tr := &s.Tracks[k]
			key := struct {
				target int
				prop   string
			}{ti, tr.Prop}
			ci, ok := chanIdx[key]
			if !ok {
				ci = len(tl.channels)
				chanIdx[key] = ci
				tl.channels = append(tl.channels, channel{target: ti, prop: tr.Prop})
				tl.targets[ti].props[tr.Prop] = tr.From
			}
			tl.channels[ci].tracks = append(tl.channels[ci].tracks, trackRef{seg: si, track: k})
		}
	}
}

// Apply evaluates every segment at progress (clamped to [0,1]) and pushes
// the resulting values to the targets, one SetProperties call per target.
// Moving backward evaluates the same forward definition at the new progress.
func (tl *Timeline) Apply(progress float64) {
	if tl.released {
		return
	}
	tl.compile()
	p := clamp01(progress)

	backward := tl.applied && p < tl.last
	for i := range tl.segments {
		s := &tl.segments[i]
		if !s.ResetOnReverse {
			continue
		}
		switch {
		case p <= s.Start || p >= s.End:
			tl.latched[i] = false
		case backward && tl.last >= s.End:
			tl.latched[i] = true
		}
	}

	for ci := range tl.channels {
		ch := &tl.channels[ci]
		tl.targets[ch.target].props[ch.prop] = tl.resolve(ch, p)
	}
	for i := range tl.targets {
		tl.targets[i].target.SetProperties(tl.targets[i].props)
	}

	tl.last = p
	tl.applied = true
}

// resolve picks the governing track for a channel: the last declared track
// whose segment contains p; else whichever boundary is nearest, the latest
// finished segment's End (its To) or the earliest upcoming segment's Start
// (its From). Ties go to the finished segment.
func (tl *Timeline) resolve(ch *channel, p float64) float64 {
	containing, past, future := -1, -1, -1
	for k, ref := range ch.tracks {
		s := &tl.segments[ref.seg]
		switch {
		case p >= s.Start && p <= s.End:
			containing = k
		case p > s.End:
			if past < 0 || s.End >= tl.segments[ch.tracks[past].seg].End {
				past = k
			}
		default:
			if future < 0 || s.Start < tl.segments[ch.tracks[future].seg].Start {
				future = k
			}
		}
	}

	switch {
	case containing >= 0:
		ref := ch.tracks[containing]
		s := &tl.segments[ref.seg]
		tr := &s.Tracks[ref.track]
		if tl.latched[ref.seg] {
			return s.rest(tr)
		}
		fn := tr.Ease
		if fn == nil {
			fn = s.Ease
		}
		t := (p - s.Start) / (s.End - s.Start)
		return lerp(tr.From, tr.To, easeUnit(fn, t))
	case past >= 0 && future >= 0:
		ps := &tl.segments[ch.tracks[past].seg]
		fs := &tl.segments[ch.tracks[future].seg]
		if fs.Start-p < p-ps.End {
			ref := ch.tracks[future]
			return fs.Tracks[ref.track].From
		}
		ref := ch.tracks[past]
		return ps.Tracks[ref.track].To
	case past >= 0:
		ref := ch.tracks[past]
		return tl.segments[ref.seg].Tracks[ref.track].To
	default:
		ref := ch.tracks[future]
		return tl.segments[ref.seg].Tracks[ref.track].From
	}
}

// Release drops the timeline's segments and targets. Apply becomes a no-op.
func (tl *Timeline) Release() {
	tl.released = true
	tl.segments = nil
	tl.latched = nil
	tl.channels = nil
	tl.targets = nil
}

// Released reports whether Release has been called.
func (tl *Timeline) Released() bool {
	return tl.released
}
