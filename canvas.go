package scribble

import "image/color"

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float64
}

// InkColor is the translucent near-black every stroke is drawn with.
var InkColor = Color{0, 0, 0, 0.96}

// Canvas is the drawing surface the engine renders into. It mirrors a 2D
// path API: build a path with MoveTo/LineTo/QuadTo, then Stroke or Fill it.
// BeginPath discards any path under construction.
type Canvas interface {
	BeginPath()
	MoveTo(x, y float64)
	LineTo(x, y float64)
	QuadTo(cx, cy, x, y float64)
	ClosePath()
	Stroke(style StrokeStyle)
	Fill(c Color)
	FillRect(x, y, w, h float64, c Color)
}

// StrokeStyle describes how a path is stroked. Strokes always use round caps
// and round joins.
type StrokeStyle struct {
	Width float64
	Color Color
}

// RGBA converts c to a non-premultiplied color.NRGBA.
func (c Color) RGBA() color.NRGBA {
	return color.NRGBA{
		R: clampByte(c.R),
		G: clampByte(c.G),
		B: clampByte(c.B),
		A: clampByte(c.A),
	}
}

func clampByte(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	}
	return uint8(v*255 + 0.5)
}
