package pinscroll

// InjectScroll queues a synthetic scroll notification to offset. Injected
// notifications are consumed one per frame and replace any host notification
// already pending for that frame.
func (e *Engine) InjectScroll(offset float64) {
	if !e.listening {
		return
	}
	e.injectQueue = append(e.injectQueue, offset)
}

// InjectScrollTo queues a scroll from the current (or last queued) offset to
// offset, linearly interpolated over frames notifications. frames < 1 is
// treated as 1.
func (e *Engine) InjectScrollTo(offset float64, frames int) {
	if frames < 1 {
		frames = 1
	}
	from := e.offset
	if n := len(e.injectQueue); n > 0 {
		from = e.injectQueue[n-1]
	}
	for i := 1; i <= frames; i++ {
		t := float64(i) / float64(frames)
		e.InjectScroll(from + (offset-from)*t)
	}
}

// InjectScrollBy is InjectScrollTo relative to the current (or last queued)
// offset.
func (e *Engine) InjectScrollBy(delta float64, frames int) {
	from := e.offset
	if n := len(e.injectQueue); n > 0 {
		from = e.injectQueue[n-1]
	}
	e.InjectScrollTo(from+delta, frames)
}

// PendingInjections returns the number of queued synthetic notifications.
func (e *Engine) PendingInjections() int {
	return len(e.injectQueue)
}

// processInjectedInput pops one injected offset and records it as the
// frame's scroll notification. Returns true if an event was consumed.
func (e *Engine) processInjectedInput() bool {
	if len(e.injectQueue) == 0 {
		return false
	}
	off := e.injectQueue[0]
	copy(e.injectQueue, e.injectQueue[1:])
	e.injectQueue = e.injectQueue[:len(e.injectQueue)-1]

	if e.source != nil {
		e.source.SetScrollOffset(off)
	}
	at := e.clock
	if e.lastTime > at {
		at = e.lastTime
	}
	if e.hasPending && e.pending.Time > at {
		at = e.pending.Time
	}
	e.OnScroll(ScrollEvent{Offset: off, Time: at})
	return true
}
