package pinscroll

// PinCoordinator runs the BEFORE → PINNED → AFTER state machine of every
// pinned range and tells the ranges' Pinners when to freeze and release
// their sections. Backward scrolling runs the same transitions in reverse.
type PinCoordinator struct {
	registry *Registry
	pinned   *Range
	last     float64
	primed   bool

	// onChange, when set, is told about every transition. The engine uses it
	// for debug output.
	onChange func(r *Range, from, to PinState)
}

// NewPinCoordinator creates a coordinator over the given registry.
func NewPinCoordinator(reg *Registry) *PinCoordinator {
	return &PinCoordinator{registry: reg}
}

// Update moves every pinned range to the state for offset. Ranges are
// visited in scroll direction so a range is released before the next one
// pins.
func (c *PinCoordinator) Update(offset float64) {
	ranges := c.registry.Ranges()
	backward := c.primed && offset < c.last
	c.last = offset
	c.primed = true

	if c.pinned != nil && c.pinned.pin != PinPinned {
		c.pinned = nil
	}

	if backward {
		for i := len(ranges) - 1; i >= 0; i-- {
			c.step(ranges[i], offset)
		}
		return
	}
	for _, r := range ranges {
		c.step(r, offset)
	}
}

func (c *PinCoordinator) step(r *Range, offset float64) {
	if !r.Pinned {
		return
	}
	want := PinPinned
	switch {
	case offset < r.Start:
		want = PinBefore
	case offset >= r.End:
		want = PinAfter
	}

	// Crossing the whole range in one step passes through PINNED so hosts
	// see a balanced Pin/Release pair.
	if r.pin != want && r.pin != PinPinned && want != PinPinned {
		c.transition(r, PinPinned)
	}
	if r.pin != want {
		c.transition(r, want)
	}
}

func (c *PinCoordinator) transition(r *Range, to PinState) {
	from := r.pin
	r.pin = to
	switch to {
	case PinPinned:
		c.pinned = r
		if r.Pinner != nil {
			r.Pinner.Pin(r.Start)
		}
	case PinBefore:
		if c.pinned == r {
			c.pinned = nil
		}
		if r.Pinner != nil {
			r.Pinner.Release(r.Start)
		}
	case PinAfter:
		if c.pinned == r {
			c.pinned = nil
		}
		if r.Pinner != nil {
			r.Pinner.Release(r.End)
		}
	}
	if c.onChange != nil {
		c.onChange(r, from, to)
	}
}

// Pinned returns the range currently holding the viewport, if any.
func (c *PinCoordinator) Pinned() (*Range, bool) {
	if c.pinned == nil || c.pinned.pin != PinPinned {
		return nil, false
	}
	return c.pinned, true
}

// release lets go of every pinned section. Used at teardown.
func (c *PinCoordinator) release() {
	for _, r := range c.registry.Ranges() {
		if r.Pinned && r.pin == PinPinned {
			c.transition(r, PinBefore)
		}
	}
	c.pinned = nil
	c.primed = false
}
