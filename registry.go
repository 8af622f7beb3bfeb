package pinscroll

import (
	"math"
	"sort"
)

// RangeID identifies a registered range. The zero value is never assigned.
type RangeID uint32

// Range is one scroll-linked region: a document-offset interval, whether it
// pins its section, and the timeline it drives.
type Range struct {
	// ID is assigned by Register. Any value set by the caller is ignored.
	ID RangeID
	// Name is used in errors and debug output.
	Name string

	// Start and End are document scroll offsets, Start < End.
	Start, End float64

	// Pinned holds the section fixed in the viewport between Start and End.
	Pinned bool
	// Pinner receives freeze/release calls for pinned ranges. May be nil.
	Pinner Pinner

	// Timeline is owned by the range and released on Unregister. May be nil
	// for ranges that only exist for pinning, snapping or callbacks.
	Timeline *Timeline

	// Scrub, when > 0, makes the timeline trail the scroll position, taking
	// Scrub seconds to catch up. Zero applies progress immediately.
	Scrub float32

	// Callbacks fire when the scroll offset moves across the range
	// boundaries: OnEnter (forward past Start), OnLeave (forward past End),
	// OnEnterBack (backward past End), OnLeaveBack (backward past Start).
	// Callbacks run during Engine.Update and must not register or
	// unregister ranges; queue such changes for after the frame.
	OnEnter, OnLeave, OnEnterBack, OnLeaveBack func(r *Range)

	seq      uint64
	state    RangeState
	progress float64
	pin      PinState
	scrub    scrubState
}

// State returns the range's state at the last evaluated offset.
func (r *Range) State() RangeState {
	return r.state
}

// Progress returns the range's progress at the last evaluated offset.
func (r *Range) Progress() float64 {
	return r.progress
}

// PinState returns the pin state of a pinned range.
func (r *Range) PinState() PinState {
	return r.pin
}

// overlaps reports whether the open intervals intersect. Ranges sharing only
// an endpoint do not overlap.
func (r *Range) overlaps(start, end float64) bool {
	return r.Start < end && start < r.End
}

// Registry records every registered range, sorted by Start.
type Registry struct {
	ranges  []*Range
	byID    map[RangeID]*Range
	nextID  RangeID
	seq     uint64
	version uint64
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[RangeID]*Range)}
}

// Register validates r and adds a copy to the registry. A rejected range is
// not added and the registry is unchanged.
func (reg *Registry) Register(r Range) (RangeID, error) {
	if math.IsNaN(r.Start) || math.IsNaN(r.End) || math.IsInf(r.Start, 0) || math.IsInf(r.End, 0) || r.Start >= r.End {
		return 0, &RegistrationError{Name: r.Name, Start: r.Start, End: r.End, Err: ErrDegenerateRange}
	}
	if r.Pinned {
		for _, other := range reg.ranges {
			if other.Pinned && other.overlaps(r.Start, r.End) {
				return 0, &RegistrationError{
					Name: r.Name, Start: r.Start, End: r.End,
					Conflict: other.Name,
					Err:      ErrOverlappingPinConflict,
				}
			}
		}
	}

	reg.nextID++
	reg.seq++
	reg.version++

	stored := r
	stored.ID = reg.nextID
	stored.seq = reg.seq
	stored.state = StateUnknown
	stored.pin = PinBefore
	stored.scrub = scrubState{}
	p := &stored

	i := sort.Search(len(reg.ranges), func(i int) bool {
		return reg.ranges[i].Start > p.Start
	})
	reg.ranges = append(reg.ranges, nil)
	copy(reg.ranges[i+1:], reg.ranges[i:])
	reg.ranges[i] = p
	reg.byID[p.ID] = p
	return p.ID, nil
}

// Unregister removes the range and releases its timeline. Unknown or
// already removed IDs are ignored. It reports whether a range was removed.
func (reg *Registry) Unregister(id RangeID) bool {
	r, ok := reg.byID[id]
	if !ok {
		return false
	}
	delete(reg.byID, id)
	for i, other := range reg.ranges {
		if other == r {
			copy(reg.ranges[i:], reg.ranges[i+1:])
			reg.ranges[len(reg.ranges)-1] = nil
			reg.ranges = reg.ranges[:len(reg.ranges)-1]
			break
		}
	}
	if r.Timeline != nil {
		r.Timeline.Release()
		r.Timeline = nil
	}
	reg.version++
	return true
}

// Get returns the registered range with the given ID.
func (reg *Registry) Get(id RangeID) (*Range, bool) {
	r, ok := reg.byID[id]
	return r, ok
}

// Ranges returns all ranges sorted by Start, ties in registration order.
// The returned slice MUST NOT be mutated.
func (reg *Registry) Ranges() []*Range {
	return reg.ranges
}

// Len returns the number of registered ranges.
func (reg *Registry) Len() int {
	return len(reg.ranges)
}

// Version changes every time a range is added or removed.
func (reg *Registry) Version() uint64 {
	return reg.version
}

// clear unregisters every range.
func (reg *Registry) clear() {
	for len(reg.ranges) > 0 {
		reg.Unregister(reg.ranges[len(reg.ranges)-1].ID)
	}
}
