package scribble

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

const (
	compassRadius   = 50
	compassDepth    = 6
	compassSpread   = 0.2
	compassSquash   = 0.5
	compassFadeTime = 0.5 // seconds
	compassSegments = 48
)

var (
	compassEdge = Color{165.0 / 255, 106.0 / 255, 70.0 / 255, 1}
	compassFill = Color{240.0 / 255, 150.0 / 255, 105.0 / 255, 0.85}
)

// compass is the small wedge that shows the global perspective while it is
// being changed. It is fully visible while a perspective control is held and
// fades out afterwards.
type compass struct {
	alpha float64
	fade  *gween.Tween
}

// show makes the compass fully opaque and cancels any running fade.
func (c *compass) show() {
	c.alpha = 1
	c.fade = nil
}

// update advances the fade by dt seconds. A fade starts the first frame the
// compass is visible but not being held.
func (c *compass) update(dt float64, held bool) {
	if held {
		c.show()
		return
	}
	if c.alpha <= 0 {
		return
	}
	if c.fade == nil {
		c.fade = gween.New(float32(c.alpha), 0, compassFadeTime, ease.Linear)
	}
	v, done := c.fade.Update(float32(dt))
	c.alpha = math.Max(float64(v), 0)
	if done {
		c.alpha = 0
		c.fade = nil
	}
}

// draw renders two stacked discs with a notch cut out in the direction of
// the global perspective. The lower disc is offset by compassDepth to fake
// thickness.
func (c *compass) draw(cv Canvas, perspective, width, height float64) {
	if c.alpha <= 0 {
		return
	}
	a := perspective*math.Pi - math.Pi/2
	cx := width / 2
	cy := height * 1.7

	for i := 0; i < 2; i++ {
		depth := 0.0
		if i == 0 {
			depth = compassDepth
		}
		cv.BeginPath()
		cv.MoveTo(cx, (cy+2)*compassSquash)
		for k := 0; k <= compassSegments; k++ {
			t := a - compassSpread - (2*math.Pi-2*compassSpread)*float64(k)/compassSegments
			cv.LineTo(cx+compassRadius*math.Cos(t), (cy+depth+compassRadius*math.Sin(t))*compassSquash)
		}
		cv.ClosePath()
		cv.Stroke(StrokeStyle{Width: 4, Color: withAlpha(compassEdge, c.alpha)})
		cv.Fill(withAlpha(compassFill, c.alpha))
	}
}

func withAlpha(c Color, alpha float64) Color {
	c.A *= alpha
	return c
}
