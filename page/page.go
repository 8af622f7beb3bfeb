// Package page loads page descriptions and registers them on a pinscroll
// engine.
//
// A page is a vertical stack of sections. Each section has a height, an
// optional pin over a scroll distance, segments animating its elements on
// the pinned range's progress axis, and flows: per-element ranges that
// animate as the element passes through the viewport. Descriptions are
// YAML or TOML; lengths accept px (or bare numbers), vw and vh.
package page

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/phanxgames/pinscroll"
)

// Page is a complete page description.
type Page struct {
	Title    string    `yaml:"title"`
	Viewport Viewport  `yaml:"viewport"`
	Snap     SnapSpec  `yaml:"snap,omitempty"`
	Intro    *Intro    `yaml:"intro,omitempty"`
	Sections []Section `yaml:"sections"`
}

// Viewport is the design viewport size. Hosts pass their real size to
// Build; vw and vh lengths resolve against it.
type Viewport struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// DefaultViewport is used when a page omits its viewport.
var DefaultViewport = Viewport{Width: 1280, Height: 800}

// SnapSpec overrides the engine's snap settings. Zero fields keep the
// engine defaults, except Tolerance: an explicit 0 snaps only inside the
// pinned ranges.
type SnapSpec struct {
	Tolerance   *float64 `yaml:"tolerance,omitempty"`
	SettleDelay float32  `yaml:"settleDelay,omitempty"`
	MinDuration float32  `yaml:"minDuration,omitempty"`
	MaxDuration float32  `yaml:"maxDuration,omitempty"`
	Ease        string   `yaml:"ease,omitempty"`
}

// Intro is a time-driven load animation played once when the page is built.
type Intro struct {
	Duration float32        `yaml:"duration"`
	Ease     string         `yaml:"ease,omitempty"`
	Segments []IntroSegment `yaml:"segments"`
}

// IntroSegment animates one element during the intro. Target is
// "section" for a section background or "section/element".
type IntroSegment struct {
	Target      string `yaml:"target"`
	SegmentSpec `yaml:",inline"`
}

// Section is one full-width band of the page.
type Section struct {
	ID    string `yaml:"id"`
	Title string `yaml:"title,omitempty"`
	// Color is a hex background colour. Empty picks one from a palette.
	Color string `yaml:"color,omitempty"`
	// Height defaults to 100vh.
	Height Length `yaml:"height,omitempty"`

	// Pin holds the section in the viewport from Start to End. Pinned
	// sections default to "top top" and "+=100%".
	Pin   bool   `yaml:"pin,omitempty"`
	Start string `yaml:"start,omitempty"`
	End   string `yaml:"end,omitempty"`
	Scrub Scrub  `yaml:"scrub,omitempty"`
	// ResetOnLeaveBack puts every element back at rest when the offset
	// moves above the section's range.
	ResetOnLeaveBack bool `yaml:"resetOnLeaveBack,omitempty"`

	Elements []ElementSpec `yaml:"elements,omitempty"`
	Segments []SegmentSpec `yaml:"segments,omitempty"`
	Flows    []FlowSpec    `yaml:"flows,omitempty"`
}

// ElementSpec places an animated element inside its section.
type ElementSpec struct {
	ID     string `yaml:"id"`
	Label  string `yaml:"label,omitempty"`
	Color  string `yaml:"color,omitempty"`
	Left   Length `yaml:"left,omitempty"`
	Top    Length `yaml:"top,omitempty"`
	Width  Length `yaml:"width,omitempty"`
	Height Length `yaml:"height,omitempty"`
}

// SegmentSpec is a keyframe span on the section range's progress axis.
// An empty Element animates the section background.
type SegmentSpec struct {
	Element        string            `yaml:"element,omitempty"`
	Start          float64           `yaml:"start"`
	End            float64           `yaml:"end"`
	Ease           string            `yaml:"ease,omitempty"`
	From           map[string]Length `yaml:"from,omitempty"`
	To             map[string]Length `yaml:"to,omitempty"`
	ResetOnReverse bool              `yaml:"resetOnReverse,omitempty"`
	Rest           map[string]Length `yaml:"rest,omitempty"`
}

// FlowSpec is a range tied to one element's position in the document,
// animating it as it scrolls through the viewport. Start and End default
// to "top bottom" and "bottom top".
type FlowSpec struct {
	Element string            `yaml:"element"`
	Start   string            `yaml:"start,omitempty"`
	End     string            `yaml:"end,omitempty"`
	Scrub   Scrub             `yaml:"scrub,omitempty"`
	Ease    string            `yaml:"ease,omitempty"`
	From    map[string]Length `yaml:"from,omitempty"`
	To      map[string]Length `yaml:"to,omitempty"`
}

// Load reads a page description. Files ending in .toml are parsed as TOML,
// everything else as YAML.
func Load(path string) (*Page, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open page description")
	}
	defer file.Close()

	var p *Page
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		p, err = ParseTOML(file)
	default:
		var data []byte
		data, err = io.ReadAll(file)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read %s", path)
		}
		p, err = ParseYAML(data)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load %s", path)
	}
	return p, nil
}

// ParseYAML decodes and validates a YAML page description.
func ParseYAML(data []byte) (*Page, error) {
	var p Page
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, errors.Wrap(err, "failed to decode YAML page")
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// ParseTOML decodes and validates a TOML page description. The TOML tree
// is re-encoded as YAML so both formats share the same field names and
// length parsing.
func ParseTOML(r io.Reader) (*Page, error) {
	tree, err := toml.LoadReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode TOML page")
	}
	data, err := yaml.Marshal(tree.ToMap())
	if err != nil {
		return nil, errors.Wrap(err, "failed to convert TOML page")
	}
	return ParseYAML(data)
}

// Write encodes p as YAML to path.
func Write(p *Page, path string) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(p); err != nil {
		return errors.Wrap(err, "failed to encode page")
	}
	if err := enc.Close(); err != nil {
		return errors.Wrap(err, "failed to encode page")
	}
	return errors.Wrapf(os.WriteFile(path, buf.Bytes(), 0o644), "failed to write %s", path)
}

// Validate checks identifiers, colours and ease names. It fills in the
// default viewport.
func (p *Page) Validate() error {
	if p.Viewport.Width <= 0 || p.Viewport.Height <= 0 {
		p.Viewport = DefaultViewport
	}
	if len(p.Sections) == 0 {
		return errors.New("page has no sections")
	}
	if p.Snap.Tolerance != nil && *p.Snap.Tolerance < 0 {
		return errors.Errorf("snap: negative tolerance %g", *p.Snap.Tolerance)
	}
	if p.Snap.Ease != "" {
		if _, ok := pinscroll.EaseByName(p.Snap.Ease); !ok {
			return errors.Errorf("snap: unknown ease %q", p.Snap.Ease)
		}
	}

	seen := make(map[string]bool, len(p.Sections))
	for i := range p.Sections {
		s := &p.Sections[i]
		if s.ID == "" {
			return errors.Errorf("section %d: missing id", i)
		}
		if seen[s.ID] {
			return errors.Errorf("section %q: duplicate id", s.ID)
		}
		seen[s.ID] = true
		if err := s.validate(); err != nil {
			return errors.Wrapf(err, "section %q", s.ID)
		}
	}

	if p.Intro != nil {
		if p.Intro.Duration <= 0 {
			return errors.New("intro: duration must be positive")
		}
		if _, ok := pinscroll.EaseByName(p.Intro.Ease); !ok {
			return errors.Errorf("intro: unknown ease %q", p.Intro.Ease)
		}
		for i, seg := range p.Intro.Segments {
			if _, _, err := p.splitTarget(seg.Target); err != nil {
				return errors.Wrapf(err, "intro segment %d", i)
			}
			if _, ok := pinscroll.EaseByName(seg.Ease); !ok {
				return errors.Errorf("intro segment %d: unknown ease %q", i, seg.Ease)
			}
		}
	}
	return nil
}

func (s *Section) validate() error {
	if _, err := parseColor(s.Color); err != nil {
		return err
	}
	ids := make(map[string]bool, len(s.Elements))
	for _, el := range s.Elements {
		if el.ID == "" {
			return errors.New("element missing id")
		}
		if ids[el.ID] {
			return errors.Errorf("element %q: duplicate id", el.ID)
		}
		ids[el.ID] = true
		if _, err := parseColor(el.Color); err != nil {
			return errors.Wrapf(err, "element %q", el.ID)
		}
	}
	for i, seg := range s.Segments {
		if seg.Element != "" && !ids[seg.Element] {
			return errors.Errorf("segment %d: unknown element %q", i, seg.Element)
		}
		if _, ok := pinscroll.EaseByName(seg.Ease); !ok {
			return errors.Errorf("segment %d: unknown ease %q", i, seg.Ease)
		}
	}
	for i, f := range s.Flows {
		if !ids[f.Element] {
			return errors.Errorf("flow %d: unknown element %q", i, f.Element)
		}
		if _, ok := pinscroll.EaseByName(f.Ease); !ok {
			return errors.Errorf("flow %d: unknown ease %q", i, f.Ease)
		}
	}
	return nil
}

// splitTarget resolves an intro target "section" or "section/element".
func (p *Page) splitTarget(target string) (section, element string, err error) {
	section, element, _ = strings.Cut(target, "/")
	for i := range p.Sections {
		s := &p.Sections[i]
		if s.ID != section {
			continue
		}
		if element == "" {
			return section, "", nil
		}
		for _, el := range s.Elements {
			if el.ID == element {
				return section, element, nil
			}
		}
		return "", "", errors.Errorf("unknown element %q in section %q", element, section)
	}
	return "", "", errors.Errorf("unknown section %q", section)
}

// EngineConfig returns the engine configuration with the page's snap
// overrides applied.
func (p *Page) EngineConfig() pinscroll.Config {
	cfg := pinscroll.DefaultConfig()
	switch {
	case p.Snap.Tolerance == nil:
	case *p.Snap.Tolerance == 0:
		cfg.Snap.Tolerance = pinscroll.NoSnapTolerance
	default:
		cfg.Snap.Tolerance = *p.Snap.Tolerance
	}
	if p.Snap.SettleDelay > 0 {
		cfg.SettleDelay = p.Snap.SettleDelay
	}
	if p.Snap.MinDuration > 0 {
		cfg.Snap.MinDuration = p.Snap.MinDuration
	}
	if p.Snap.MaxDuration > 0 {
		cfg.Snap.MaxDuration = p.Snap.MaxDuration
	}
	if fn, ok := pinscroll.EaseByName(p.Snap.Ease); ok && p.Snap.Ease != "" {
		cfg.Snap.Ease = fn
	}
	return cfg
}

// parseColor converts a hex colour. An empty string gives the zero Color.
func parseColor(hex string) (pinscroll.Color, error) {
	if hex == "" {
		return pinscroll.Color{}, nil
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return pinscroll.Color{}, errors.Wrapf(err, "bad colour %q", hex)
	}
	return pinscroll.Color{R: c.R, G: c.G, B: c.B, A: 1}, nil
}

// paletteColor picks a muted background for section i.
func paletteColor(i int) pinscroll.Color {
	c := colorful.Hsv(float64((i*47)%360), 0.45, 0.32)
	return pinscroll.Color{R: c.R, G: c.G, B: c.B, A: 1}
}
