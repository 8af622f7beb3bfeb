package pinscroll

import (
	"encoding/json"
	"fmt"
)

// scriptStep represents a single action in a scroll script.
type scriptStep struct {
	Action string  `json:"action"`
	Label  string  `json:"label,omitempty"`
	To     float64 `json:"to,omitempty"`
	By     float64 `json:"by,omitempty"`
	Frames int     `json:"frames,omitempty"`
}

// scrollScript is the top-level JSON structure for a scroll script.
type scrollScript struct {
	Steps []scriptStep `json:"steps"`
}

// TestRunner sequences injected scroll notifications, waits and lifecycle
// calls across frames for automated scroll testing. Attach to an Engine via
// SetTestRunner.
//
// Actions: "scroll" (to, frames), "scrollBy" (by, frames), "wait" (frames),
// "resize", "activate", "deactivate", "settle", "checkpoint" (label).
type TestRunner struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool

	// OnCheckpoint is called for every "checkpoint" step with its label.
	OnCheckpoint func(label string, e *Engine)
}

// LoadTestScript parses a JSON scroll script and returns a TestRunner ready
// to be attached to an Engine via SetTestRunner.
func LoadTestScript(jsonData []byte) (*TestRunner, error) {
	var script scrollScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse scroll script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse scroll script: no steps")
	}
	for i, st := range script.Steps {
		switch st.Action {
		case "scroll", "scrollBy", "wait", "resize", "activate", "deactivate", "settle", "checkpoint":
		default:
			return nil, fmt.Errorf("parse scroll script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &TestRunner{steps: script.Steps}, nil
}

// SetTestRunner attaches a TestRunner to the engine. The runner's step
// method is called at the start of every Update.
func (e *Engine) SetTestRunner(runner *TestRunner) {
	e.testRunner = runner
}

// Done reports whether all steps in the script have been executed.
func (r *TestRunner) Done() bool {
	return r.done
}

// step advances the runner by one frame. Called from Engine.Update.
func (r *TestRunner) step(e *Engine) {
	if r.done {
		return
	}
	// Wait for pending injections to drain before advancing.
	if len(e.injectQueue) > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "scroll":
		e.InjectScrollTo(st.To, max(st.Frames, 1))
	case "scrollBy":
		e.InjectScrollBy(st.By, max(st.Frames, 1))
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	case "resize":
		e.Resize()
	case "activate":
		e.Activate()
	case "deactivate":
		e.Deactivate()
	case "settle":
		e.Settle()
	case "checkpoint":
		if r.OnCheckpoint != nil {
			r.OnCheckpoint(st.Label, e)
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && len(e.injectQueue) == 0 {
		r.done = true
	}
}
