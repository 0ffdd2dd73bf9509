package scribble

import "math"

// dashScale multiplies the width of dashed segments. Dashed widths are also
// rounded to two decimals, matching how they were always stroked.
const dashScale = 1

// DrawLine renders l as a smooth curve: each segment is a quadratic whose
// control point is the segment start and whose end is the midpoint to the
// next point, so the curve passes through the midpoints of noisy samples.
// Both endpoints are sheared by rp around refX before interpolation.
//
// Solid lines are built as one path and stroked once. Dashed lines stroke
// every segment as its own path, which leaves visible gaps at the joins.
// When rest is true the normal positions are drawn instead of the animated ones.
func DrawLine(c Canvas, l *Line, rp, refX float64, rest bool) {
	pts := l.Points
	if len(pts) < 2 {
		return
	}
	at := func(i int) Vec2 {
		if rest {
			return pts[i].Normal
		}
		return pts[i].Position
	}

	if !l.Dashed {
		c.BeginPath()
	}
	for i := 1; i < len(pts); i++ {
		p1, p2 := at(i-1), at(i)
		if l.Dashed {
			c.BeginPath()
		}

		x1 := Project(p1.X, refX, rp)
		x2 := Project(p2.X, refX, rp)

		if i == 1 || l.Dashed {
			c.MoveTo(x1, p1.Y)
		}
		m := midpoint(Vec2{x1, p1.Y}, Vec2{x2, p2.Y})
		c.QuadTo(x1, p1.Y, m.X, m.Y)

		if l.Dashed {
			c.Stroke(StrokeStyle{Width: dashWidth(l.Thickness), Color: InkColor})
		}
	}
	if !l.Dashed {
		c.Stroke(StrokeStyle{Width: l.Thickness, Color: InkColor})
	}
}

func dashWidth(thickness float64) float64 {
	return math.Round(thickness*dashScale*100) / 100
}

// DrawStatic renders a sketch at rest, as seen from its saved perspective.
// Lines are drawn newest first so older strokes end up on top, the same
// stacking the live engine uses.
func DrawStatic(c Canvas, s *Sketch, refX float64) {
	for i := len(s.Lines) - 1; i >= 0; i-- {
		l := s.Lines[i]
		if l == nil {
			continue
		}
		DrawLine(c, l, RelativePerspective(s.Perspective, l.Perspective), refX, true)
	}
}
