package pinscroll

import (
	"fmt"
	"strconv"
	"strings"
)

// TriggerGeometry is the layout a trigger expression is resolved against.
type TriggerGeometry struct {
	// ElementTop is the element's document offset, ElementHeight its height.
	ElementTop, ElementHeight float64
	// ViewportHeight is the scroll container's visible height.
	ViewportHeight float64
}

// Default trigger expressions: the range starts when the element's top
// reaches the viewport bottom and ends when its bottom leaves the top.
const (
	DefaultTriggerStart = "top bottom"
	DefaultTriggerEnd   = "bottom top"
)

// ResolveTrigger converts a trigger expression into a document scroll offset.
//
// Absolute form: "<element edge> <viewport edge>", each edge one of top,
// center, bottom, a percentage of the element (or viewport) height, or a
// pixel value ("40px" or "40"). The offset is where the element edge meets
// the viewport edge: ElementTop + elementEdge - viewportEdge. A single word
// uses "top" for the viewport edge.
//
// Relative form: "+=N%" / "-=N%" (N percent of the viewport height) or
// "+=Npx" / "+=N", measured from relativeTo.
func ResolveTrigger(expr string, g TriggerGeometry, relativeTo float64) (float64, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return 0, fmt.Errorf("resolve trigger: empty expression")
	}

	if strings.HasPrefix(expr, "+=") || strings.HasPrefix(expr, "-=") {
		d, err := parseEdge(expr[2:], g.ViewportHeight)
		if err != nil {
			return 0, fmt.Errorf("resolve trigger %q: %w", expr, err)
		}
		if expr[0] == '-' {
			d = -d
		}
		return relativeTo + d, nil
	}

	fields := strings.Fields(expr)
	if len(fields) > 2 {
		return 0, fmt.Errorf("resolve trigger %q: want at most two edges", expr)
	}
	elem, err := parseEdge(fields[0], g.ElementHeight)
	if err != nil {
		return 0, fmt.Errorf("resolve trigger %q: %w", expr, err)
	}
	view := 0.0
	if len(fields) == 2 {
		view, err = parseEdge(fields[1], g.ViewportHeight)
		if err != nil {
			return 0, fmt.Errorf("resolve trigger %q: %w", expr, err)
		}
	}
	return g.ElementTop + elem - view, nil
}

// ResolveRange resolves a start/end expression pair. Empty expressions use
// DefaultTriggerStart and DefaultTriggerEnd; a relative end is measured from
// the resolved start.
func ResolveRange(start, end string, g TriggerGeometry) (float64, float64, error) {
	if strings.TrimSpace(start) == "" {
		start = DefaultTriggerStart
	}
	if strings.TrimSpace(end) == "" {
		end = DefaultTriggerEnd
	}
	s, err := ResolveTrigger(start, g, g.ElementTop)
	if err != nil {
		return 0, 0, err
	}
	e, err := ResolveTrigger(end, g, s)
	if err != nil {
		return 0, 0, err
	}
	return s, e, nil
}

// parseEdge parses one edge token against a reference size.
func parseEdge(tok string, size float64) (float64, error) {
	switch tok {
	case "top":
		return 0, nil
	case "center":
		return size / 2, nil
	case "bottom":
		return size, nil
	}
	switch {
	case strings.HasSuffix(tok, "%"):
		v, err := strconv.ParseFloat(strings.TrimSuffix(tok, "%"), 64)
		if err != nil {
			return 0, fmt.Errorf("bad percentage %q", tok)
		}
		return size * v / 100, nil
	case strings.HasSuffix(tok, "px"):
		tok = strings.TrimSuffix(tok, "px")
	}
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, fmt.Errorf("bad edge %q", tok)
	}
	return v, nil
}
