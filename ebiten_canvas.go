package scribble

import (
	"image"
	"image/color"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

var (
	whiteOnce  sync.Once
	whiteImage *ebiten.Image
	whiteSub   *ebiten.Image
)

// whiteSubImage returns a 1x1 opaque white source for DrawTriangles. The
// sub-image keeps sampling away from the texture edge.
func whiteSubImage() *ebiten.Image {
	whiteOnce.Do(func() {
		whiteImage = ebiten.NewImage(3, 3)
		whiteImage.Fill(color.White)
		whiteSub = whiteImage.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
	})
	return whiteSub
}

// EbitenCanvas draws onto an ebiten image. Paths are tessellated with
// ebiten's vector package and submitted with DrawTriangles, reusing the
// vertex buffers across calls.
type EbitenCanvas struct {
	dst   *ebiten.Image
	path  vector.Path
	verts []ebiten.Vertex
	inds  []uint16
}

// NewEbitenCanvas returns a Canvas targeting dst.
func NewEbitenCanvas(dst *ebiten.Image) *EbitenCanvas {
	return &EbitenCanvas{dst: dst}
}

// SetTarget retargets the canvas, typically to each frame's screen image.
func (c *EbitenCanvas) SetTarget(dst *ebiten.Image) {
	c.dst = dst
}

func (c *EbitenCanvas) BeginPath() {
	c.path = vector.Path{}
}

func (c *EbitenCanvas) MoveTo(x, y float64) {
	c.path.MoveTo(float32(x), float32(y))
}

func (c *EbitenCanvas) LineTo(x, y float64) {
	c.path.LineTo(float32(x), float32(y))
}

func (c *EbitenCanvas) QuadTo(cx, cy, x, y float64) {
	c.path.QuadTo(float32(cx), float32(cy), float32(x), float32(y))
}

func (c *EbitenCanvas) ClosePath() {
	c.path.Close()
}

func (c *EbitenCanvas) Stroke(style StrokeStyle) {
	op := &vector.StrokeOptions{
		Width:    float32(style.Width),
		LineCap:  vector.LineCapRound,
		LineJoin: vector.LineJoinRound,
	}
	c.verts, c.inds = c.path.AppendVerticesAndIndicesForStroke(c.verts[:0], c.inds[:0], op)
	c.submit(style.Color, ebiten.FillRuleFillAll)
}

func (c *EbitenCanvas) Fill(col Color) {
	c.verts, c.inds = c.path.AppendVerticesAndIndicesForFilling(c.verts[:0], c.inds[:0])
	c.submit(col, ebiten.FillRuleNonZero)
}

func (c *EbitenCanvas) FillRect(x, y, w, h float64, col Color) {
	vector.DrawFilledRect(c.dst, float32(x), float32(y), float32(w), float32(h), col.RGBA(), false)
}

// submit colors the tessellated vertices with premultiplied col and draws them.
func (c *EbitenCanvas) submit(col Color, rule ebiten.FillRule) {
	if c.dst == nil || len(c.inds) == 0 {
		return
	}
	a := float32(col.A)
	r, g, b := float32(col.R)*a, float32(col.G)*a, float32(col.B)*a
	for i := range c.verts {
		v := &c.verts[i]
		v.SrcX, v.SrcY = 1, 1
		v.ColorR, v.ColorG, v.ColorB, v.ColorA = r, g, b, a
	}
	op := &ebiten.DrawTrianglesOptions{FillRule: rule, AntiAlias: true}
	c.dst.DrawTriangles(c.verts, c.inds, whiteSubImage(), op)
}
