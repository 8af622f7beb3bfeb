package ebitenhost

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font/basicfont"

	"github.com/phanxgames/pinscroll"
)

var labelFace = text.NewGoXFace(basicfont.Face7x13)

const (
	labelPadding  = 8
	defaultBoxH   = 28
	minVisibleA   = 0.01
	titleInsetX   = 24
	titleInsetY   = 16
	glyphWidth    = 7
	glyphHeight   = 13
	titleGrayness = 0.7
)

// quad is one rectangle to draw, with an optional label. A quad with zero
// size draws only its label.
type quad struct {
	X, Y, W, H float64
	Color      pinscroll.Color
	Alpha      float64
	Label      string
	LabelColor pinscroll.Color
}

// scaleAbout scales a rectangle about its centre.
func scaleAbout(x, y, w, h, sx, sy float64) (float64, float64, float64, float64) {
	cx, cy := x+w/2, y+h/2
	w, h = w*sx, h*sy
	return cx - w/2, cy - h/2, w, h
}

// labelColor picks dark text on light boxes and light text on dark ones.
func labelColor(bg pinscroll.Color) pinscroll.Color {
	_, _, l := colorful.Color{R: bg.R, G: bg.G, B: bg.B}.Hsl()
	if l > 0.6 {
		return pinscroll.Color{R: 0.08, G: 0.08, B: 0.1, A: 1}
	}
	return pinscroll.ColorWhite
}

// quads lists what the current frame draws, back to front: each visible
// section band, its title, then its elements.
func (g *Game) quads() []quad {
	if g.built == nil {
		return nil
	}
	vw, vh := float64(g.width), float64(g.height)
	var out []quad
	for _, v := range g.built.Sections {
		top := v.ViewTop(g.offset)
		if top+v.Layout.Height <= 0 || top >= vh {
			continue
		}
		bg := v.Background
		x, y, w, h := scaleAbout(0, top, vw, v.Layout.Height, bg.ScaleX, bg.ScaleY)
		out = append(out, quad{X: x, Y: y, W: w, H: h, Color: v.Color, Alpha: bg.Alpha})
		if v.Title != "" {
			gray := pinscroll.Color{R: titleGrayness, G: titleGrayness, B: titleGrayness, A: 1}
			out = append(out, quad{X: titleInsetX, Y: top + titleInsetY, Alpha: bg.Alpha, Label: v.Title, LabelColor: gray})
		}

		contentTop := top + bg.Y
		for _, el := range v.Elements {
			if el.Alpha < minVisibleA {
				continue
			}
			w, h := el.Width, el.Height
			if w <= 0 {
				w = float64(len(el.Label)*glyphWidth + 2*labelPadding)
			}
			if h <= 0 {
				h = defaultBoxH
			}
			x, y, w, h := scaleAbout(el.Left+el.X, contentTop+el.Top+el.Y, w, h, el.ScaleX, el.ScaleY)
			out = append(out, quad{
				X: x, Y: y, W: w, H: h,
				Color:      el.Color,
				Alpha:      el.Alpha,
				Label:      el.Label,
				LabelColor: labelColor(el.Color),
			})
		}
	}
	return out
}

func (g *Game) drawQuad(dst *ebiten.Image, q quad) {
	if q.W > 0 && q.H > 0 {
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(q.W, q.H)
		op.GeoM.Translate(q.X, q.Y)
		op.ColorScale.Scale(float32(q.Color.R), float32(q.Color.G), float32(q.Color.B), 1)
		op.ColorScale.ScaleAlpha(float32(q.Alpha))
		dst.DrawImage(g.pixel, op)
	}
	if q.Label == "" {
		return
	}
	op := &text.DrawOptions{}
	ty := q.Y
	if q.H > 0 {
		ty += math.Max(0, (q.H-glyphHeight)/2)
	}
	op.GeoM.Translate(q.X+labelPadding, ty)
	op.ColorScale.Scale(float32(q.LabelColor.R), float32(q.LabelColor.G), float32(q.LabelColor.B), 1)
	op.ColorScale.ScaleAlpha(float32(q.Alpha))
	text.Draw(dst, q.Label, labelFace, op)
}
