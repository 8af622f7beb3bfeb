package pinscroll

import (
	"fmt"
	"math"
)

const epsilon = 1e-6

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) < eps
}

// fakeSource is a ScrollSource with a fixed extent that records offsets set
// by snap settling.
type fakeSource struct {
	extent float64
	offset float64
	sets   int
}

func (s *fakeSource) TotalScrollableExtent() float64 { return s.extent }

func (s *fakeSource) SetScrollOffset(offset float64) {
	s.offset = offset
	s.sets++
}

// countingTarget records every SetProperties call.
type countingTarget struct {
	calls int
	last  map[string]float64
}

func (t *countingTarget) SetProperties(props Props) {
	t.calls++
	if t.last == nil {
		t.last = make(map[string]float64)
	}
	for k, v := range props {
		t.last[k] = v
	}
}

// pinRecorder records Pin/Release calls as strings.
type pinRecorder struct {
	log []string
}

func (p *pinRecorder) Pin(start float64) {
	p.log = append(p.log, fmt.Sprintf("pin %g", start))
}

func (p *pinRecorder) Release(at float64) {
	p.log = append(p.log, fmt.Sprintf("release %g", at))
}

// opacityTimeline returns a timeline animating el's opacity 0 -> 1 over the
// whole progress axis.
func opacityTimeline(el Target) *Timeline {
	tl, err := NewTimeline(Segment{
		Start: 0, End: 1,
		Target: el,
		Tracks: []Track{{Prop: PropOpacity, From: 0, To: 1}},
	})
	if err != nil {
		panic(err)
	}
	return tl
}
