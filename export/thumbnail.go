package export

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/srwiley/rasterx"
	"golang.org/x/image/draw"
	"golang.org/x/image/math/fixed"

	"github.com/phanxgames/scribble"
)

// Gallery thumbnail size.
const (
	ThumbnailWidth  = 240
	ThumbnailHeight = 145
)

// Paper is the background thumbnails are rendered on.
var Paper = color.RGBA{R: 251, G: 249, B: 243, A: 255}

// Render rasterizes s at full canvas size.
func Render(s *scribble.Sketch, opts Options) *image.RGBA {
	opts = opts.withDefaults()
	w, h := int(opts.Width), int(opts.Height)
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(Paper), image.Point{}, draw.Src)

	c := newRasterCanvas(img)
	scribble.DrawStatic(c, s, opts.Width/2)
	return img
}

// Thumbnail rasterizes s at full size and scales it down to w x h with a
// Catmull-Rom filter.
func Thumbnail(s *scribble.Sketch, w, h int, opts Options) (*image.RGBA, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("thumbnail: invalid size %dx%d", w, h)
	}
	full := Render(s, opts)
	thumb := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(thumb, thumb.Bounds(), full, full.Bounds(), draw.Src, nil)
	return thumb, nil
}

// WritePNG encodes img as PNG.
func WritePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// rasterCanvas implements scribble.Canvas on an RGBA image with rasterx.
type rasterCanvas struct {
	pathRecorder
	img    *image.RGBA
	dasher *rasterx.Dasher
	filler *rasterx.Filler
}

func newRasterCanvas(img *image.RGBA) *rasterCanvas {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	return &rasterCanvas{
		img:    img,
		dasher: rasterx.NewDasher(w, h, rasterx.NewScannerGV(w, h, img, b)),
		filler: rasterx.NewFiller(w, h, rasterx.NewScannerGV(w, h, img, b)),
	}
}

func (c *rasterCanvas) Stroke(style scribble.StrokeStyle) {
	if !c.valid() {
		return
	}
	c.dasher.Clear()
	c.dasher.SetStroke(toFixed(style.Width), 4*64, rasterx.RoundCap, rasterx.RoundCap, rasterx.RoundGap, rasterx.Round, nil, 0)
	c.replay(c.dasher)
	c.dasher.SetColor(toNRGBA(style.Color))
	c.dasher.Draw()
}

func (c *rasterCanvas) Fill(col scribble.Color) {
	if !c.valid() {
		return
	}
	c.filler.Clear()
	c.filler.SetWinding(true)
	c.replay(c.filler)
	c.filler.SetColor(toNRGBA(col))
	c.filler.Draw()
}

func (c *rasterCanvas) FillRect(x, y, w, h float64, col scribble.Color) {
	r := image.Rect(int(x), int(y), int(x+w+0.5), int(y+h+0.5))
	draw.Draw(c.img, r, image.NewUniform(toNRGBA(col)), image.Point{}, draw.Over)
}

// replay feeds the recorded path into a rasterx adder. Subpaths are left
// open unless explicitly closed.
func (c *rasterCanvas) replay(a rasterx.Adder) {
	open := false
	for _, op := range c.ops {
		switch op.kind {
		case opMove:
			if open {
				a.Stop(false)
			}
			a.Start(toFixedP(op.x, op.y))
			open = true
		case opLine:
			a.Line(toFixedP(op.x, op.y))
		case opQuad:
			a.QuadBezier(toFixedP(op.cx, op.cy), toFixedP(op.x, op.y))
		case opClose:
			a.Stop(true)
			open = false
		}
	}
	if open {
		a.Stop(false)
	}
}

func toFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(v * 64)
}

func toFixedP(x, y float64) fixed.Point26_6 {
	return fixed.Point26_6{X: toFixed(x), Y: toFixed(y)}
}

func toNRGBA(c scribble.Color) color.NRGBA {
	return c.RGBA()
}
