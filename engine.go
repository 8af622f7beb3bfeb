package pinscroll

import (
	"io"
	"math"
	"os"
	"time"
)

// Config holds Engine parameters. Start from DefaultConfig and override
// fields as needed.
type Config struct {
	// SettleDelay is how long (seconds) registrations and resizes must stay
	// quiet before the snap geometry is built. Default 0.5.
	SettleDelay float32
	// ScrollEndDelay is how long (seconds) without a scroll notification
	// counts as the user having stopped scrolling. Default 0.15.
	ScrollEndDelay float32
	// Snap controls snap tolerance and the settle transition.
	Snap SnapConfig
	// DebugOutput receives debug lines when debug mode is on. Nil means
	// stderr.
	DebugOutput io.Writer
}

// DefaultConfig returns the engine defaults.
func DefaultConfig() Config {
	return Config{
		SettleDelay:    0.5,
		ScrollEndDelay: 0.15,
		Snap:           DefaultSnapConfig(),
	}
}

// ScrollEvent is one scroll-position notification from the host.
type ScrollEvent struct {
	// Offset is the document scroll offset.
	Offset float64
	// Time is the host's monotonic timestamp. Notifications older than the
	// newest one already received are dropped.
	Time time.Duration
}

// settleOffsetEpsilon is the distance (document units) below which the
// engine treats two offsets as the same position.
const settleOffsetEpsilon = 0.5

// Engine is the scroll-linked timeline engine for one page. It owns the
// range registry, maps scroll offsets to timeline progress, runs the pin
// state machines, and snaps the rest position toward pinned ranges.
//
// The Engine is single-threaded: the host calls OnScroll as notifications
// arrive and Update once per frame, both from the same goroutine.
type Engine struct {
	cfg    Config
	source ScrollSource

	registry *Registry
	mapper   *ProgressMapper
	pins     *PinCoordinator

	// Snap state
	snap          *SnapState
	snapActive    bool
	settlePending bool
	settleTimer   float32
	settle        *settleAnim

	// Scroll state
	offset       float64
	pending      ScrollEvent
	hasPending   bool
	parked       ScrollEvent
	hasParked    bool
	lastTime     time.Duration
	idle         float32
	scrolled     bool
	needsEval    bool
	listening    bool
	closed       bool
	clock        time.Duration
	players      []*Player
	injectQueue  []float64
	testRunner   *TestRunner
	debug        bool
	debugOut     io.Writer
	frameCounter uint64
}

// NewEngine creates an engine reading extents from and settling through
// source. source may be nil, in which case snapping is inert.
func NewEngine(source ScrollSource, cfg Config) *Engine {
	def := DefaultConfig()
	if cfg.SettleDelay <= 0 {
		cfg.SettleDelay = def.SettleDelay
	}
	if cfg.ScrollEndDelay <= 0 {
		cfg.ScrollEndDelay = def.ScrollEndDelay
	}
	switch {
	case cfg.Snap.Tolerance < 0:
		cfg.Snap.Tolerance = 0
	case cfg.Snap.Tolerance == 0:
		cfg.Snap.Tolerance = def.Snap.Tolerance
	}
	if cfg.Snap.MinDuration <= 0 {
		cfg.Snap.MinDuration = def.Snap.MinDuration
	}
	if cfg.Snap.MaxDuration <= 0 {
		cfg.Snap.MaxDuration = def.Snap.MaxDuration
	}
	if cfg.Snap.MaxDuration < cfg.Snap.MinDuration {
		cfg.Snap.MaxDuration = cfg.Snap.MinDuration
	}
	if cfg.Snap.DistanceSpan <= 0 {
		cfg.Snap.DistanceSpan = def.Snap.DistanceSpan
	}
	if cfg.Snap.Ease == nil {
		cfg.Snap.Ease = def.Snap.Ease
	}
	out := cfg.DebugOutput
	if out == nil {
		out = os.Stderr
	}

	reg := NewRegistry()
	e := &Engine{
		cfg:       cfg,
		source:    source,
		registry:  reg,
		mapper:    NewProgressMapper(reg),
		pins:      NewPinCoordinator(reg),
		listening: true,
		debugOut:  out,
	}
	e.pins.onChange = e.debugPinChange
	return e
}

// Config returns the engine's effective configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Registry returns the engine's range registry. Register and Unregister
// must go through the Engine so snap state is invalidated.
func (e *Engine) Registry() *Registry {
	return e.registry
}

// Register adds a range. Rejected ranges leave every other range untouched.
// While snapping is active the snap geometry is discarded and rebuilt after
// the settle delay.
func (e *Engine) Register(r Range) (RangeID, error) {
	if e.closed {
		return 0, &RegistrationError{Name: r.Name, Start: r.Start, End: r.End, Err: ErrEngineClosed}
	}
	id, err := e.registry.Register(r)
	if err != nil {
		e.debugf("reject %v", err)
		return 0, err
	}
	e.debugf("register %q [%g, %g] pinned=%t", r.Name, r.Start, r.End, r.Pinned)
	e.needsEval = true
	e.invalidate()
	return id, nil
}

// Unregister removes a range, releasing its pin and timeline. Unknown IDs
// are ignored.
func (e *Engine) Unregister(id RangeID) {
	r, ok := e.registry.Get(id)
	if !ok {
		return
	}
	if r.Pinned && r.pin == PinPinned {
		e.pins.transition(r, PinBefore)
	}
	e.registry.Unregister(id)
	e.debugf("unregister %q", r.Name)
	e.invalidate()
}

// Progress returns a range's last mapped progress and state.
func (e *Engine) Progress(id RangeID) (float64, RangeState, bool) {
	return e.mapper.Progress(id)
}

// Pinned returns the range currently holding the viewport, if any.
func (e *Engine) Pinned() (*Range, bool) {
	return e.pins.Pinned()
}

// Offset returns the scroll offset the engine last evaluated.
func (e *Engine) Offset() float64 {
	return e.offset
}

// Snap returns the current snap geometry, or nil if it has not been built.
func (e *Engine) Snap() *SnapState {
	return e.snap
}

// Settling reports whether a snap transition is running.
func (e *Engine) Settling() bool {
	return e.settle != nil
}

// OnScroll records a scroll notification. Notifications are coalesced: the
// next Update evaluates only the newest one. While deactivated only the
// newest offset is remembered, for Activate to pick up.
func (e *Engine) OnScroll(ev ScrollEvent) {
	if !e.listening {
		if !e.closed && (!e.hasParked || ev.Time >= e.parked.Time) {
			e.parked = ev
			e.hasParked = true
		}
		return
	}
	if e.hasPending && ev.Time < e.pending.Time {
		return
	}
	if ev.Time < e.lastTime {
		return
	}
	e.pending = ev
	e.hasPending = true
}

// Play runs a time-driven player each frame until it is done.
func (e *Engine) Play(p *Player) {
	if !e.listening || p == nil {
		return
	}
	e.players = append(e.players, p)
}

// Activate starts (or restarts) listening for scroll notifications and arms
// snapping: the snap geometry is built once SettleDelay passes without a
// registration or resize. Calling Activate while active re-arms the delay.
// The next Update re-evaluates every range at the newest offset seen, even
// one reported while deactivated.
func (e *Engine) Activate() {
	if e.closed {
		return
	}
	if e.hasParked {
		if e.parked.Time >= e.lastTime && (!e.hasPending || e.parked.Time >= e.pending.Time) {
			e.pending = e.parked
			e.hasPending = true
		}
		e.hasParked = false
	}
	e.needsEval = true
	e.listening = true
	e.snapActive = true
	e.snap = nil
	e.armSettle()
	e.debugf("activate (settle in %.2fs)", e.cfg.SettleDelay)
}

// Deactivate stops listening for scroll notifications, drops any pending
// notification, cancels the settle timer and any snap transition, and stops
// players. No target is mutated afterwards until Activate. Deactivating an
// inactive engine is a no-op.
func (e *Engine) Deactivate() {
	if !e.listening && !e.snapActive {
		return
	}
	e.listening = false
	e.snapActive = false
	e.snap = nil
	e.settlePending = false
	e.settleTimer = 0
	e.settle = nil
	e.hasPending = false
	e.hasParked = false
	e.injectQueue = e.injectQueue[:0]
	for _, p := range e.players {
		p.Stop()
	}
	e.players = e.players[:0]
	e.debugf("deactivate")
}

// Close deactivates the engine and unregisters every range. The engine
// cannot be reused. Close is idempotent.
func (e *Engine) Close() {
	if e.closed {
		return
	}
	e.Deactivate()
	e.pins.release()
	e.registry.clear()
	e.closed = true
	e.debugf("close")
}

// Resize tells the engine the viewport or document size changed. The snap
// geometry is discarded and rebuilt after the settle delay.
func (e *Engine) Resize() {
	e.needsEval = true
	e.invalidate()
}

// Settle builds the snap geometry now instead of waiting for the settle
// delay. Hosts with a real layout-stability signal call it when layout is
// final. No-op unless active.
func (e *Engine) Settle() {
	if !e.snapActive {
		return
	}
	e.buildSnap()
}

// invalidate discards derived snap state after a structural change.
func (e *Engine) invalidate() {
	if e.snap != nil {
		e.debugf("snap invalidated")
	}
	e.snap = nil
	if e.snapActive {
		e.armSettle()
	}
}

func (e *Engine) armSettle() {
	e.settlePending = true
	e.settleTimer = e.cfg.SettleDelay
}

func (e *Engine) buildSnap() {
	e.settlePending = false
	e.settleTimer = 0
	extent := 0.0
	if e.source != nil {
		extent = e.source.TotalScrollableExtent()
	}
	e.snap = BuildSnap(e.registry.Ranges(), extent, e.cfg.Snap.Tolerance)
	if e.snap.Inert() {
		e.debugf("snap inert (maxScroll=%g)", extent)
		return
	}
	e.debugf("snap built: centers=%v maxScroll=%g", e.snap.Centers(), extent)
}

// Update advances the engine by dt seconds: consumes the newest scroll
// notification, maps progress and drives timelines, runs the pin state
// machines, advances scrubbed ranges and players, then handles settle
// timing and snapping. Only an attached test runner steps while
// deactivated.
func (e *Engine) Update(dt float32) {
	if e.closed {
		return
	}
	e.frameCounter++
	e.clock += time.Duration(float64(dt) * float64(time.Second))

	// A script may reactivate a deactivated engine, so it steps first.
	if e.testRunner != nil {
		e.testRunner.step(e)
	}
	if !e.listening {
		return
	}

	var stats debugStats
	var t0 time.Time
	if e.debug {
		t0 = time.Now()
	}
	e.processInjectedInput()

	evaluated := false
	if e.hasPending {
		ev := e.pending
		e.hasPending = false
		e.lastTime = ev.Time
		if e.settle != nil && math.Abs(ev.Offset-e.settle.last) > settleOffsetEpsilon {
			e.debugf("snap cancelled by scroll to %g", ev.Offset)
			e.settle = nil
		}
		if ev.Offset != e.offset || e.needsEval {
			e.idle = 0
			e.scrolled = true
		}
		e.evaluate(ev.Offset)
		evaluated = true
	} else {
		e.idle += dt
		if e.needsEval {
			e.evaluate(e.offset)
			evaluated = true
		}
	}

	e.mapper.Advance(dt)
	e.updatePlayers(dt)

	if e.settlePending {
		e.settleTimer -= dt
		if e.settleTimer <= 0 {
			e.buildSnap()
		}
	}

	if e.settle != nil {
		off, done := e.settle.update(dt)
		if e.source != nil {
			e.source.SetScrollOffset(off)
		}
		e.evaluate(off)
		evaluated = true
		if done {
			e.debugf("snap settled at %g", off)
			e.settle = nil
			e.scrolled = false
		}
	} else if e.scrolled && e.idle >= e.cfg.ScrollEndDelay {
		e.scrolled = false
		e.scrollEnded()
	}

	if e.debug && evaluated {
		stats.updateTime = time.Since(t0)
		stats.rangeCount = e.registry.Len()
		stats.evaluated = e.mapper.evaluated
		for _, r := range e.registry.Ranges() {
			if r.state == StateActive {
				stats.activeCount++
			}
		}
		e.debugLog(stats)
	}
}

// evaluate runs the mapper and pin coordinator at offset.
func (e *Engine) evaluate(offset float64) {
	e.offset = offset
	e.needsEval = false
	e.mapper.Update(offset)
	e.pins.Update(offset)
}

// scrollEnded decides whether the rest position should move to a pinned
// range's centre and starts the settle transition.
func (e *Engine) scrollEnded() {
	if !e.snapActive || e.snap.Inert() {
		return
	}
	target := e.snap.SnapOffset(e.offset)
	if math.Abs(target-e.offset) <= settleOffsetEpsilon {
		return
	}
	d := e.cfg.Snap.duration((target - e.offset) / e.snap.maxScroll)
	e.debugf("snap %g -> %g over %.2fs", e.offset, target, d)
	e.settle = newSettle(e.offset, target, d, e.cfg.Snap.Ease)
}

func (e *Engine) updatePlayers(dt float32) {
	if len(e.players) == 0 {
		return
	}
	n := 0
	for _, p := range e.players {
		p.Update(dt)
		if !p.Done {
			e.players[n] = p
			n++
		}
	}
	for i := n; i < len(e.players); i++ {
		e.players[i] = nil
	}
	e.players = e.players[:n]
}
