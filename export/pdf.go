// Package export renders sketches outside the live engine: vector PDFs and
// raster thumbnails. Both draw the normal positions of every point, as seen
// from the sketch's saved perspective.
package export

import (
	"fmt"
	"io"
	"math"

	"github.com/jung-kurt/gofpdf"

	"github.com/phanxgames/scribble"
)

// Options controls the page or image a sketch is rendered onto.
type Options struct {
	// Width and Height are the canvas size the sketch was drawn on.
	// Zero uses scribble.DefaultWidth and scribble.DefaultHeight.
	Width, Height float64
	// Title is written into the PDF metadata.
	Title string
}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = scribble.DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = scribble.DefaultHeight
	}
	return o
}

// WritePDF writes s as a single-page vector PDF, one point per canvas pixel.
func WritePDF(w io.Writer, s *scribble.Sketch, opts Options) error {
	opts = opts.withDefaults()
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: opts.Width, Ht: opts.Height},
	})
	if opts.Title != "" {
		pdf.SetTitle(opts.Title, true)
	}
	pdf.SetCreator("scribble", true)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	pdf.SetLineCapStyle("round")
	pdf.SetLineJoinStyle("round")

	c := &pdfCanvas{pdf: pdf}
	scribble.DrawStatic(c, s, opts.Width/2)

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// pdfCanvas replays recorded paths into gofpdf on every Stroke or Fill,
// since gofpdf consumes the path when it is painted.
type pdfCanvas struct {
	pathRecorder
	pdf *gofpdf.Fpdf
}

func (c *pdfCanvas) Stroke(style scribble.StrokeStyle) {
	if !c.replay() {
		return
	}
	r, g, b := rgb(style.Color)
	c.pdf.SetDrawColor(r, g, b)
	c.pdf.SetAlpha(style.Color.A, "Normal")
	c.pdf.SetLineWidth(style.Width)
	c.pdf.DrawPath("D")
}

func (c *pdfCanvas) Fill(col scribble.Color) {
	if !c.replay() {
		return
	}
	r, g, b := rgb(col)
	c.pdf.SetFillColor(r, g, b)
	c.pdf.SetAlpha(col.A, "Normal")
	c.pdf.DrawPath("F")
}

func (c *pdfCanvas) FillRect(x, y, w, h float64, col scribble.Color) {
	r, g, b := rgb(col)
	c.pdf.SetFillColor(r, g, b)
	c.pdf.SetAlpha(col.A, "Normal")
	c.pdf.Rect(x, y, w, h, "F")
}

// replay emits the recorded path. A path must start with a move.
func (c *pdfCanvas) replay() bool {
	if !c.valid() {
		return false
	}
	for _, op := range c.ops {
		switch op.kind {
		case opMove:
			c.pdf.MoveTo(op.x, op.y)
		case opLine:
			c.pdf.LineTo(op.x, op.y)
		case opQuad:
			c.pdf.CurveTo(op.cx, op.cy, op.x, op.y)
		case opClose:
			c.pdf.ClosePath()
		}
	}
	return true
}

func rgb(c scribble.Color) (int, int, int) {
	return channel(c.R), channel(c.G), channel(c.B)
}

func channel(v float64) int {
	return int(math.Round(math.Max(0, math.Min(1, v)) * 255))
}
