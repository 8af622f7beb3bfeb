package pinscroll

import (
	"fmt"
	"time"
)

// debugStats holds per-frame timing and evaluation counts.
// Only populated when Engine.debug is true.
type debugStats struct {
	updateTime  time.Duration
	rangeCount  int
	activeCount int
	evaluated   int
}

// SetDebugMode enables or disables debug mode. When enabled, registrations,
// rejections, pin transitions and snap decisions are logged, along with
// per-frame stats for frames that evaluated a scroll offset.
func (e *Engine) SetDebugMode(enabled bool) {
	e.debug = enabled
}

// debugf writes one prefixed debug line.
func (e *Engine) debugf(format string, args ...any) {
	if !e.debug {
		return
	}
	_, _ = fmt.Fprintf(e.debugOut, "[pinscroll] "+format+"\n", args...)
}

// debugLog prints frame stats.
func (e *Engine) debugLog(stats debugStats) {
	if !e.debug {
		return
	}
	_, _ = fmt.Fprintf(e.debugOut,
		"[pinscroll] frame %d | offset: %.1f | ranges: %d | active: %d | timelines: %d | update: %v\n",
		e.frameCounter, e.offset, stats.rangeCount, stats.activeCount, stats.evaluated, stats.updateTime)
}

// debugPinChange logs pin state transitions.
func (e *Engine) debugPinChange(r *Range, from, to PinState) {
	e.debugf("pin %q %s -> %s at %.1f", r.Name, from, to, e.offset)
}
