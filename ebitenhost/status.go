package ebitenhost

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// statusOverlay shows the scroll offset, the pinned section and the frame
// rate in the top-left corner. The frame rate is refreshed every ~0.5
// seconds.
type statusOverlay struct {
	img        *ebiten.Image
	sinceFrame float32
	rates      string
}

func newStatusOverlay() *statusOverlay {
	return &statusOverlay{rates: "FPS: -  TPS: -"}
}

func (s *statusOverlay) update(dt float32) {
	s.sinceFrame += dt
	if s.sinceFrame < 0.5 {
		return
	}
	s.sinceFrame = 0
	s.rates = fmt.Sprintf("FPS: %.1f  TPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS())
}

// lines returns the overlay text for the game's current state.
func (s *statusOverlay) lines(g *Game) string {
	msg := fmt.Sprintf("offset %.0f / %.0f", g.offset, g.TotalScrollableExtent())
	if r, ok := g.engine.Pinned(); ok {
		msg += "\npinned: " + r.Name
	}
	if g.engine.Settling() {
		msg += "\nsnapping"
	}
	if g.buildErr != nil {
		msg += "\n" + g.buildErr.Error()
	}
	return msg + "\n" + s.rates
}

func (s *statusOverlay) draw(screen *ebiten.Image, g *Game) {
	// 260x64 fits four lines of debug text.
	if s.img == nil {
		s.img = ebiten.NewImage(260, 64)
	}
	s.img.Clear()
	s.img.Fill(color.RGBA{0, 0, 0, 128})
	ebitenutil.DebugPrint(s.img, s.lines(g))

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(8, 8)
	screen.DrawImage(s.img, op)
}
