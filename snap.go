package pinscroll

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// DefaultSnapTolerance is the normalized margin around each pinned range
// within which a rest position snaps to the range's centre.
const DefaultSnapTolerance = 0.08

// NoSnapTolerance as SnapConfig.Tolerance limits snapping to the pinned
// ranges themselves, with no band around them.
const NoSnapTolerance = -1

// snapRange is a pinned range normalized over the scrollable extent.
type snapRange struct {
	start, end, center float64
	seq                uint64
}

// SnapState is the derived snap geometry: every pinned range normalized
// against the scrollable extent. It never mutates ranges and is rebuilt,
// not patched, when ranges or the viewport change.
type SnapState struct {
	ranges    []snapRange
	tolerance float64
	maxScroll float64
}

// BuildSnap derives the snap geometry from ranges. The state is inert when
// there are no pinned ranges or maxScroll is not positive.
func BuildSnap(ranges []*Range, maxScroll, tolerance float64) *SnapState {
	s := &SnapState{tolerance: tolerance, maxScroll: maxScroll}
	if !(maxScroll > 0) {
		return s
	}
	for _, r := range ranges {
		if !r.Pinned {
			continue
		}
		start := r.Start / maxScroll
		end := r.End / maxScroll
		s.ranges = append(s.ranges, snapRange{
			start:  start,
			end:    end,
			center: start + (end-start)*0.5,
			seq:    r.seq,
		})
	}
	return s
}

// Inert reports whether the state never snaps.
func (s *SnapState) Inert() bool {
	return s == nil || len(s.ranges) == 0 || !(s.maxScroll > 0)
}

// Centers returns the normalized centres of the pinned ranges in ascending
// start order.
func (s *SnapState) Centers() []float64 {
	if s.Inert() {
		return nil
	}
	out := make([]float64, len(s.ranges))
	for i, r := range s.ranges {
		out[i] = r.center
	}
	return out
}

// Tolerance returns the normalized snap band margin.
func (s *SnapState) Tolerance() float64 {
	return s.tolerance
}

// MaxScroll returns the scrollable extent the state was built against.
func (s *SnapState) MaxScroll() float64 {
	return s.maxScroll
}

// SnapTo maps a normalized rest position to where the page should settle.
// Values outside every pinned band are returned unchanged; values inside
// one or more bands move to the closest centre, ties going to the range
// registered first. A centre past either end of the page is clamped to
// [0, 1].
func (s *SnapState) SnapTo(v float64) float64 {
	if s.Inert() {
		return v
	}
	best := -1
	bestDist := 0.0
	for i := range s.ranges {
		r := &s.ranges[i]
		if v < r.start-s.tolerance || v > r.end+s.tolerance {
			continue
		}
		d := math.Abs(r.center - v)
		if best < 0 || d < bestDist || (d == bestDist && r.seq < s.ranges[best].seq) {
			best = i
			bestDist = d
		}
	}
	if best < 0 {
		return v
	}
	return clamp01(s.ranges[best].center)
}

// SnapOffset is SnapTo in document-offset space. A snapped offset always
// lies in [0, maxScroll].
func (s *SnapState) SnapOffset(offset float64) float64 {
	if s.Inert() {
		return offset
	}
	snapped := s.SnapTo(offset / s.maxScroll)
	if snapped == offset/s.maxScroll {
		return offset
	}
	return snapped * s.maxScroll
}

// SnapConfig controls the settle transition toward a snap target.
type SnapConfig struct {
	// Tolerance is the normalized band margin. Zero means the default 0.08;
	// use NoSnapTolerance for no margin.
	Tolerance float64
	// MinDuration and MaxDuration bound the settle transition in seconds.
	// Defaults 0.15 and 0.35.
	MinDuration, MaxDuration float32
	// DistanceSpan is the normalized travel distance at which the settle
	// takes MaxDuration. Shorter trips scale down toward MinDuration.
	// Default 0.25.
	DistanceSpan float64
	// Ease shapes the settle motion. Default power2.out.
	Ease ease.TweenFunc
}

// DefaultSnapConfig returns the settle parameters used by DefaultConfig.
func DefaultSnapConfig() SnapConfig {
	return SnapConfig{
		Tolerance:    DefaultSnapTolerance,
		MinDuration:  0.15,
		MaxDuration:  0.35,
		DistanceSpan: 0.25,
		Ease:         ease.OutCubic,
	}
}

// duration scales the settle time with the normalized distance travelled.
func (c SnapConfig) duration(normDist float64) float32 {
	span := c.DistanceSpan
	if !(span > 0) {
		span = 1
	}
	f := clamp01(math.Abs(normDist) / span)
	return c.MinDuration + (c.MaxDuration-c.MinDuration)*float32(f)
}

// settleAnim is an active snap transition of the scroll offset.
type settleAnim struct {
	tween  *gween.Tween
	target float64
	last   float64
}

// newSettle starts a transition from offset to target. The tween runs in
// float32; the final frame lands exactly on target.
func newSettle(from, target float64, duration float32, fn ease.TweenFunc) *settleAnim {
	if fn == nil {
		fn = ease.OutCubic
	}
	return &settleAnim{
		tween:  gween.New(float32(from), float32(target), duration, fn),
		target: target,
		last:   from,
	}
}

// update advances the transition and returns the new offset.
func (a *settleAnim) update(dt float32) (offset float64, done bool) {
	v, finished := a.tween.Update(dt)
	if finished {
		a.last = a.target
		return a.target, true
	}
	a.last = float64(v)
	return a.last, false
}
