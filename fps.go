package scribble

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// fpsOverlay prints FPS, TPS and scene counts in the top-left corner. The
// text is refreshed every ~0.5 seconds.
type fpsOverlay struct {
	elapsed float64
	text    string
}

func (o *fpsOverlay) update(dt float64, s *Session) {
	o.elapsed += dt
	if o.elapsed < 0.5 && o.text != "" {
		return
	}
	o.elapsed = 0
	o.text = fmt.Sprintf("FPS: %.1f\nTPS: %.1f\nLines: %d\nDust: %d",
		ebiten.ActualFPS(), ebiten.ActualTPS(), len(s.sketch.Lines), s.dust.AliveCount())
}

func (o *fpsOverlay) draw(screen *ebiten.Image) {
	ebitenutil.DebugPrint(screen, o.text)
}
