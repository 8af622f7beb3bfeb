package pinscroll

import (
	"strings"

	"github.com/tanema/gween/ease"
)

// easings maps "family.direction" names onto gween easing functions.
// powerN counts from quad: power1 = quad, power2 = cubic, power3 = quart,
// power4 = quint.
var easings = map[string]ease.TweenFunc{
	"none":   ease.Linear,
	"linear": ease.Linear,

	"power1.in":    ease.InQuad,
	"power1.out":   ease.OutQuad,
	"power1.inout": ease.InOutQuad,
	"power2.in":    ease.InCubic,
	"power2.out":   ease.OutCubic,
	"power2.inout": ease.InOutCubic,
	"power3.in":    ease.InQuart,
	"power3.out":   ease.OutQuart,
	"power3.inout": ease.InOutQuart,
	"power4.in":    ease.InQuint,
	"power4.out":   ease.OutQuint,
	"power4.inout": ease.InOutQuint,

	"sine.in":    ease.InSine,
	"sine.out":   ease.OutSine,
	"sine.inout": ease.InOutSine,
	"expo.in":    ease.InExpo,
	"expo.out":   ease.OutExpo,
	"expo.inout": ease.InOutExpo,
	"circ.in":    ease.InCirc,
	"circ.out":   ease.OutCirc,
	"circ.inout": ease.InOutCirc,
	"back.in":    ease.InBack,
	"back.out":   ease.OutBack,
	"back.inout": ease.InOutBack,

	"elastic.in":    ease.InElastic,
	"elastic.out":   ease.OutElastic,
	"elastic.inout": ease.InOutElastic,
	"bounce.in":     ease.InBounce,
	"bounce.out":    ease.OutBounce,
	"bounce.inout":  ease.InOutBounce,
}

// EaseByName looks up an easing function by name ("power2.out",
// "sine.inOut", "none"). A bare family name ("power2") means ".out". Names
// are case-insensitive.
func EaseByName(name string) (ease.TweenFunc, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return ease.Linear, true
	}
	if !strings.Contains(key, ".") && key != "none" && key != "linear" {
		key += ".out"
	}
	fn, ok := easings[key]
	return fn, ok
}

// easeUnit evaluates fn over the unit interval: t in [0,1] maps to the eased
// fraction. A nil fn is linear.
func easeUnit(fn ease.TweenFunc, t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	if fn == nil {
		return t
	}
	return float64(fn(float32(t), 0, 1, 1))
}
