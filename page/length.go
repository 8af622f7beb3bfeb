package page

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Unit is the unit of a Length.
type Unit uint8

const (
	UnitPx Unit = iota // pixels, or a plain number such as an opacity
	UnitVW             // percent of the viewport width
	UnitVH             // percent of the viewport height
)

// Length is a number with an optional viewport-relative unit: 40, 40px,
// 18vw or 10vh.
type Length struct {
	Value float64
	Unit  Unit
}

// Px returns a plain length.
func Px(v float64) Length { return Length{Value: v} }

// ParseLength parses a length string.
func ParseLength(s string) (Length, error) {
	s = strings.TrimSpace(s)
	unit := UnitPx
	switch {
	case strings.HasSuffix(s, "vw"):
		unit, s = UnitVW, strings.TrimSuffix(s, "vw")
	case strings.HasSuffix(s, "vh"):
		unit, s = UnitVH, strings.TrimSuffix(s, "vh")
	case strings.HasSuffix(s, "px"):
		s = strings.TrimSuffix(s, "px")
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return Length{}, errors.Errorf("bad length %q", s)
	}
	return Length{Value: v, Unit: unit}, nil
}

// Resolve converts the length to pixels for the viewport.
func (l Length) Resolve(vp Viewport) float64 {
	switch l.Unit {
	case UnitVW:
		return l.Value * vp.Width / 100
	case UnitVH:
		return l.Value * vp.Height / 100
	default:
		return l.Value
	}
}

// IsZero reports whether the length is unset.
func (l Length) IsZero() bool {
	return l == Length{}
}

func (l Length) String() string {
	v := strconv.FormatFloat(l.Value, 'g', -1, 64)
	switch l.Unit {
	case UnitVW:
		return v + "vw"
	case UnitVH:
		return v + "vh"
	default:
		return v
	}
}

// UnmarshalYAML accepts numbers and unit strings.
func (l *Length) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode {
		return errors.Errorf("line %d: length must be a scalar", n.Line)
	}
	parsed, err := ParseLength(n.Value)
	if err != nil {
		return errors.Wrapf(err, "line %d", n.Line)
	}
	*l = parsed
	return nil
}

// MarshalYAML writes plain lengths as numbers and relative ones as strings.
func (l Length) MarshalYAML() (interface{}, error) {
	if l.Unit == UnitPx {
		return l.Value, nil
	}
	return l.String(), nil
}

// Scrub is the timeline catch-up time in seconds. In YAML it is a number or
// a boolean; true means the timeline follows the scroll offset directly.
type Scrub float32

// UnmarshalYAML accepts a boolean or a number of seconds.
func (s *Scrub) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode {
		return errors.Errorf("line %d: scrub must be a boolean or seconds", n.Line)
	}
	var b bool
	if n.Decode(&b) == nil {
		*s = 0
		return nil
	}
	var v float32
	if err := n.Decode(&v); err != nil || v < 0 {
		return errors.Errorf("line %d: scrub must be a boolean or non-negative seconds", n.Line)
	}
	*s = Scrub(v)
	return nil
}
