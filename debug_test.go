package pinscroll

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

// ---- Debug mode tests ------------------------------------------------------

func newDebugEngine() (*Engine, *bytes.Buffer) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.DebugOutput = &buf
	e := NewEngine(&fakeSource{extent: 10000}, cfg)
	e.SetDebugMode(true)
	return e, &buf
}

func TestDebugMode_LogsRegistrationAndPins(t *testing.T) {
	e, buf := newDebugEngine()

	e.Register(Range{Name: "hero", Start: 1000, End: 2000, Pinned: true})
	e.Register(Range{Name: "clash", Start: 1500, End: 2500, Pinned: true})
	e.OnScroll(ScrollEvent{Offset: 1500, Time: time.Second})
	e.Update(frame)

	out := buf.String()
	for _, want := range []string{
		`[pinscroll] register "hero" [1000, 2000] pinned=true`,
		`[pinscroll] reject register range "clash"`,
		`pin "hero" before -> pinned`,
		`[pinscroll] frame 1 |`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("debug output missing %q:\n%s", want, out)
		}
	}
}

func TestDebugMode_LogsSnapDecisions(t *testing.T) {
	e, buf := newDebugEngine()
	e.Register(Range{Name: "hero", Start: 1000, End: 2300, Pinned: true})
	e.Activate()
	e.Settle()
	e.OnScroll(ScrollEvent{Offset: 1400, Time: time.Second})
	runFrames(e, 60)

	out := buf.String()
	for _, want := range []string{"activate", "snap built: centers=", "snap 1400 ->", "snap settled at"} {
		if !strings.Contains(out, want) {
			t.Errorf("debug output missing %q:\n%s", want, out)
		}
	}
}

func TestDebugMode_IdleFramesAreQuiet(t *testing.T) {
	e, buf := newDebugEngine()
	e.Register(Range{Name: "a", Start: 0, End: 100})
	e.Update(frame)
	buf.Reset()

	runFrames(e, 10)
	if buf.Len() != 0 {
		t.Errorf("idle frames logged output: %q", buf.String())
	}
}

func TestDebugMode_OffByDefault(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.DebugOutput = &buf
	e := NewEngine(nil, cfg)
	e.Register(Range{Name: "hero", Start: 0, End: 1})
	e.Update(frame)
	if buf.Len() != 0 {
		t.Errorf("unexpected debug output: %q", buf.String())
	}
}
