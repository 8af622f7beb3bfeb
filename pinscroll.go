package pinscroll

// Props maps animatable property names to values. Keys are the names used
// by segment tracks ("x", "y", "opacity", "scale", ...).
type Props map[string]float64

// Well-known property names understood by Element.
const (
	PropX        = "x"
	PropY        = "y"
	PropOpacity  = "opacity"
	PropScale    = "scale"
	PropScaleX   = "scaleX"
	PropScaleY   = "scaleY"
	PropRotation = "rotation"
)

// Target receives interpolated property values for one animated element.
// The engine never interprets the values beyond interpolation; the host
// decides what "x" or "opacity" means for its elements.
//
// The props map is owned by the engine and reused between calls. Targets
// must copy what they need and must not retain it.
type Target interface {
	SetProperties(props Props)
}

// ScrollSource is the host's scrollable container.
type ScrollSource interface {
	// TotalScrollableExtent returns the maximum scroll offset
	// (document height minus viewport height).
	TotalScrollableExtent() float64
	// SetScrollOffset moves the container. Used by snap settling.
	SetScrollOffset(offset float64)
}

// Pinner freezes and releases the visual section of a pinned range.
type Pinner interface {
	// Pin holds the section fixed in the viewport. start is the document
	// offset at which pinning began.
	Pin(start float64)
	// Release resumes normal document flow with the section resting at
	// document offset at (the range's start or end).
	Release(at float64)
}

// RangeState classifies a scroll offset relative to a range.
type RangeState uint8

const (
	StateUnknown RangeState = iota // not yet evaluated
	StateBefore                    // offset < Start, progress 0
	StateActive                    // Start <= offset <= End
	StateAfter                     // offset > End, progress 1
)

// String returns the state name used in debug output.
func (s RangeState) String() string {
	switch s {
	case StateBefore:
		return "before"
	case StateActive:
		return "active"
	case StateAfter:
		return "after"
	default:
		return "unknown"
	}
}

// PinState is the viewport pin state of a pinned range.
type PinState uint8

const (
	PinBefore PinState = iota // section not yet reached, scrolls normally
	PinPinned                 // section frozen in the viewport
	PinAfter                  // section released below the range
)

// String returns the state name used in debug output.
func (s PinState) String() string {
	switch s {
	case PinPinned:
		return "pinned"
	case PinAfter:
		return "after"
	default:
		return "before"
	}
}

// Color represents an RGBA color with components in [0, 1]. Hosts use it to
// paint section backgrounds.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default tint.
var ColorWhite = Color{1, 1, 1, 1}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
