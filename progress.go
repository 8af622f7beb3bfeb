package pinscroll

import "github.com/tanema/gween/ease"

// RangeProgress is the mapped progress of one range at a scroll offset.
type RangeProgress struct {
	ID       RangeID
	Progress float64
	State    RangeState
}

// scrubState lets a timeline trail the mapped progress. The displayed
// progress eases from where it was to the newest target over the range's
// Scrub duration.
type scrubState struct {
	current float64
	from    float64
	target  float64
	elapsed float32
	moving  bool
	primed  bool
}

// scrubEase shapes the catch-up motion of scrubbed ranges.
var scrubEase ease.TweenFunc = ease.OutQuad

// ProgressMapper turns a scroll offset into per-range progress and drives
// the ranges' timelines.
type ProgressMapper struct {
	registry *Registry
	out      []RangeProgress
	version  uint64
	primed   bool
	// evaluated counts timeline applications during the last Update and
	// Advance calls. Used for debug stats.
	evaluated int
}

// NewProgressMapper creates a mapper over the given registry.
func NewProgressMapper(reg *Registry) *ProgressMapper {
	return &ProgressMapper{registry: reg}
}

// Update maps offset to progress for every range and applies the timelines
// of ranges that are active or have just crossed into a boundary state.
// Progress for every range is computed before any timeline runs, and
// callbacks run after all timelines.
//
// The returned slice is reused by the next call. Update does not allocate
// unless the registry changed since the previous call.
func (m *ProgressMapper) Update(offset float64) []RangeProgress {
	ranges := m.registry.Ranges()
	if !m.primed || m.version != m.registry.Version() {
		if cap(m.out) < len(ranges) {
			m.out = make([]RangeProgress, len(ranges))
		}
		m.out = m.out[:len(ranges)]
		m.version = m.registry.Version()
		m.primed = true
	}
	m.evaluated = 0

	// Phase 1: progress for every range. The previous state is parked in
	// out[i].State until phase 2 swaps it.
	for i, r := range ranges {
		prev := r.state
		switch {
		case offset < r.Start:
			r.state = StateBefore
			r.progress = 0
		case offset > r.End:
			r.state = StateAfter
			r.progress = 1
		default:
			r.state = StateActive
			r.progress = clamp01((offset - r.Start) / (r.End - r.Start))
		}
		m.out[i] = RangeProgress{ID: r.ID, Progress: r.progress, State: prev}
	}

	// Phase 2: timelines.
	for i, r := range ranges {
		prev := m.out[i].State
		if r.Timeline != nil && (r.state == StateActive || r.state != prev) {
			if r.Scrub > 0 {
				m.retarget(r)
			} else {
				r.Timeline.Apply(r.progress)
				m.evaluated++
			}
		}
	}

	// Phase 3: callbacks.
	for i, r := range ranges {
		prev := m.out[i].State
		m.out[i].State = r.state
		if prev != r.state {
			fireTransition(r, prev, r.state)
		}
	}
	return m.out
}

// retarget points a scrubbed range's trailing progress at its new progress.
// The first evaluation lands immediately.
func (m *ProgressMapper) retarget(r *Range) {
	s := &r.scrub
	if !s.primed {
		s.primed = true
		s.current = r.progress
		s.target = r.progress
		r.Timeline.Apply(s.current)
		m.evaluated++
		return
	}
	if s.target == r.progress {
		return
	}
	s.from = s.current
	s.target = r.progress
	s.elapsed = 0
	s.moving = true
}

// Advance moves scrubbed ranges toward their targets by dt seconds.
func (m *ProgressMapper) Advance(dt float32) {
	for _, r := range m.registry.Ranges() {
		s := &r.scrub
		if !s.moving || r.Timeline == nil {
			continue
		}
		s.elapsed += dt
		t := float64(s.elapsed / r.Scrub)
		if t >= 1 {
			s.current = s.target
			s.moving = false
		} else {
			s.current = lerp(s.from, s.target, easeUnit(scrubEase, t))
		}
		r.Timeline.Apply(s.current)
		m.evaluated++
	}
}

// Scrubbing reports whether any scrubbed range is still catching up.
func (m *ProgressMapper) Scrubbing() bool {
	for _, r := range m.registry.Ranges() {
		if r.scrub.moving {
			return true
		}
	}
	return false
}

// Progress returns the last mapped progress and state of a range.
func (m *ProgressMapper) Progress(id RangeID) (float64, RangeState, bool) {
	r, ok := m.registry.Get(id)
	if !ok {
		return 0, StateUnknown, false
	}
	return r.progress, r.state, true
}

// fireTransition runs the callbacks for a state change. A jump across the
// whole range fires both steps in scroll order.
func fireTransition(r *Range, from, to RangeState) {
	switch {
	case from == StateUnknown:
		// First evaluation establishes the state without callbacks,
		// except landing inside the range counts as entering it.
		if to == StateActive {
			call(r.OnEnter, r)
		}
	case from == StateBefore && to == StateActive:
		call(r.OnEnter, r)
	case from == StateActive && to == StateAfter:
		call(r.OnLeave, r)
	case from == StateBefore && to == StateAfter:
		call(r.OnEnter, r)
		call(r.OnLeave, r)
	case from == StateAfter && to == StateActive:
		call(r.OnEnterBack, r)
	case from == StateActive && to == StateBefore:
		call(r.OnLeaveBack, r)
	case from == StateAfter && to == StateBefore:
		call(r.OnEnterBack, r)
		call(r.OnLeaveBack, r)
	}
}

func call(fn func(*Range), r *Range) {
	if fn != nil {
		fn(r)
	}
}
