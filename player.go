package pinscroll

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Player drives a timeline by time instead of scroll: progress runs from 0
// to 1 over the given duration. Pages use it for load-in animations that
// play once regardless of scroll position.
//
// Call Update(dt) each frame, or hand the player to Engine.Play.
type Player struct {
	timeline *Timeline
	tween    *gween.Tween
	Done     bool
}

// NewPlayer creates a player for tl lasting duration seconds. fn shapes the
// overall progress; nil is linear. Per-segment easing still applies.
func NewPlayer(tl *Timeline, duration float32, fn ease.TweenFunc) *Player {
	if fn == nil {
		fn = ease.Linear
	}
	return &Player{
		timeline: tl,
		tween:    gween.New(0, 1, duration, fn),
	}
}

// Update advances the player by dt seconds and applies the timeline. If the
// timeline has been released, Done is set and nothing is applied.
func (p *Player) Update(dt float32) {
	if p.Done {
		return
	}
	if p.timeline == nil || p.timeline.Released() {
		p.Done = true
		return
	}
	v, finished := p.tween.Update(dt)
	if finished {
		v = 1
	}
	p.timeline.Apply(float64(v))
	p.Done = finished
}

// Stop ends playback where it is.
func (p *Player) Stop() {
	p.Done = true
}

// Finish jumps to the end of playback and applies the final values.
func (p *Player) Finish() {
	if p.Done {
		return
	}
	p.Done = true
	if p.timeline == nil || p.timeline.Released() {
		return
	}
	p.timeline.Apply(1)
}
