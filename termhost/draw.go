package termhost

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/phanxgames/pinscroll"
	"github.com/phanxgames/pinscroll/page"
)

var black = pinscroll.Color{A: 1}

// tcellColor converts an engine colour, ignoring alpha.
func tcellColor(c pinscroll.Color) tcell.Color {
	return tcell.NewRGBColor(int32(clamp255(c.R)), int32(clamp255(c.G)), int32(clamp255(c.B)))
}

func clamp255(v float64) float64 {
	return math.Round(math.Max(0, math.Min(1, v)) * 255)
}

// over blends fg over bg with the given alpha.
func over(fg, bg pinscroll.Color, alpha float64) pinscroll.Color {
	a := colorful.Color{R: bg.R, G: bg.G, B: bg.B}
	b := colorful.Color{R: fg.R, G: fg.G, B: fg.B}
	c := a.BlendRgb(b, math.Max(0, math.Min(1, alpha)))
	return pinscroll.Color{R: c.R, G: c.G, B: c.B, A: 1}
}

// band is a section as it appears on screen this frame.
type band struct {
	view *page.SectionView
	// top is the first screen row, rows the number of rows (either may be
	// off screen).
	top, rows int
	bg        pinscroll.Color
}

func (h *Host) draw() {
	h.screen.Clear()
	if h.built == nil {
		h.drawStatus()
		h.screen.Show()
		return
	}

	body := h.rows - 1
	cellH := h.opts.CellHeight
	for _, b := range h.bands() {
		style := tcell.StyleDefault.Background(tcellColor(b.bg))
		for y := max(0, b.top); y < min(body, b.top+b.rows); y++ {
			for x := 0; x < h.cols; x++ {
				h.screen.SetContent(x, y, ' ', nil, style)
			}
		}
		if b.top >= 0 && b.top < body && b.view.Title != "" {
			title := tcell.StyleDefault.Background(tcellColor(b.bg)).Foreground(tcellColor(over(pinscroll.ColorWhite, b.bg, 0.45)))
			h.puts(1, b.top, b.view.Title, title)
		}

		// Content moves with the background's y offset.
		contentTop := b.view.ViewTop(h.offset) + b.view.Background.Y
		for _, el := range b.view.Elements {
			if el.Alpha < 0.05 {
				continue
			}
			y := int(math.Floor((contentTop + el.Top + el.Y) / cellH))
			if y < max(0, b.top) || y >= min(body, b.top+b.rows) {
				continue
			}
			x := int(math.Floor((el.Left + el.X) / h.opts.CellWidth))
			fg := over(el.Color, b.bg, el.Alpha)
			h.puts(x, y, el.Label, tcell.StyleDefault.Background(tcellColor(b.bg)).Foreground(tcellColor(fg)))
		}
	}
	h.drawStatus()
	h.screen.Show()
}

// bands places every section on screen. Later sections are drawn over
// earlier ones.
func (h *Host) bands() []band {
	cellH := h.opts.CellHeight
	out := make([]band, 0, len(h.built.Sections))
	for _, v := range h.built.Sections {
		top := v.ViewTop(h.offset)
		bottom := top + v.Layout.Height
		if bottom <= 0 || top >= h.viewport().Height {
			continue
		}
		row := int(math.Floor(top / cellH))
		out = append(out, band{
			view: v,
			top:  row,
			rows: int(math.Ceil(bottom/cellH)) - row,
			bg:   over(v.Color, black, v.Background.Alpha),
		})
	}
	return out
}

// puts writes s from column x, clipping at the screen edges.
func (h *Host) puts(x, y int, s string, style tcell.Style) {
	for _, r := range s {
		if x >= h.cols {
			return
		}
		if x >= 0 {
			h.screen.SetContent(x, y, r, nil, style)
		}
		x++
	}
}

// drawStatus writes the status line: position, the pinned section and
// whether a snap transition is running.
func (h *Host) drawStatus() {
	y := h.rows - 1
	if y < 0 {
		return
	}
	style := tcell.StyleDefault.Reverse(true)
	for x := 0; x < h.cols; x++ {
		h.screen.SetContent(x, y, ' ', nil, style)
	}

	status := fmt.Sprintf(" %.0f/%.0f", h.offset, h.TotalScrollableExtent())
	if r, ok := h.engine.Pinned(); ok {
		status += "  pinned: " + r.Name
	}
	if h.engine.Settling() {
		status += "  snapping"
	}
	if h.buildErr != nil {
		status += "  " + h.buildErr.Error()
	}
	h.puts(0, y, status, style)
}
