package scribble

import "time"

const (
	perspectiveFriction = 0.8
	perspectiveStep     = 0.005
	drawDustQuantity    = 5
	jitterThreshold     = 1.0
)

// Update advances the session by one frame of dt seconds. The order is
// fixed: persistence results, replay easing, perspective momentum, compass
// fade, input, point physics and dust.
func (s *Session) Update(dt float64) {
	var start time.Time
	if s.debug {
		start = time.Now()
	}
	s.applyResults()
	s.processInjectedInput()

	in := s.input
	lastDist := s.distanceFromLastPoint(in.X, in.Y)

	s.replay.update(dt)

	s.sketch.Perspective = Wrap(s.sketch.Perspective+s.velocity, 1)
	s.velocity *= perspectiveFriction

	s.compass.update(dt, in.Space || in.Left || in.Right)

	switch {
	case in.Down && in.Space:
		s.velocity += in.DX / s.config.Width
	case in.Left && !in.Right:
		s.velocity -= perspectiveStep
	case in.Right && !in.Left:
		s.velocity += perspectiveStep
	case in.Down && s.drawing && lastDist > s.config.MinPointDistance:
		s.drawPoint(in.X, in.Y)
	}

	s.animate()
	s.dust.Update()

	s.input.DX = 0
	if s.debug {
		s.stats.updateTime = time.Since(start)
	}
}

// distanceFromLastPoint measures from the animated position of the last
// point of the current line. Without a point the distance is unbounded.
func (s *Session) distanceFromLastPoint(x, y float64) float64 {
	l := s.sketch.CurrentLine()
	if l == nil || len(l.Points) == 0 {
		return maxDistance
	}
	return Distance(l.Points[len(l.Points)-1].Position, Vec2{x, y})
}

const maxDistance = 999

func (s *Session) drawPoint(x, y float64) {
	if !s.sketch.AppendPoint(x, y) {
		return
	}
	s.pointsDrawn++
	l := s.sketch.CurrentLine()
	s.dust.Emit(x, y, drawDustQuantity, l.Perspective)
	s.emit(Event{
		Type:        EventPointAppended,
		Line:        len(s.sketch.Lines) - 1,
		X:           x,
		Y:           y,
		Perspective: l.Perspective,
	})
}

// beginLine starts an empty stroke with the current brush. Its first point
// is added by the next Update.
func (s *Session) beginLine() {
	l := s.sketch.BeginLine(s.thickness, s.sketch.Perspective, s.dashed)
	s.drawing = true
	s.emit(Event{Type: EventLineBegun, Line: len(s.sketch.Lines) - 1, Perspective: l.Perspective})
}

// animate relaxes every point toward its rest position. Points that have
// settled get a random kick so the drawing keeps vibrating. The last point
// of each line is never moved.
func (s *Session) animate() {
	amp := s.sketch.Amplitude
	for i := len(s.sketch.Lines) - 1; i >= 0; i-- {
		pts := s.sketch.Lines[i].Points
		for j := 1; j < len(pts); j++ {
			p := &pts[j-1]
			if Distance(p.Position, p.Normal) < jitterThreshold {
				Jitter(p, amp, s.rng.Float64(), s.rng.Float64())
			}
			Relax(p, s.config.Elasticity)
		}
	}
}

// Jitter offsets p's position by (u-0.5)*amplitude on each axis, where u and
// v are uniform samples in [0, 1).
func Jitter(p *Point, amplitude, u, v float64) {
	p.Position.X += (u - 0.5) * amplitude
	p.Position.Y += (v - 0.5) * amplitude
}

// Relax moves p's position toward its normal by the elasticity fraction.
func Relax(p *Point, elasticity float64) {
	p.Position.X += (p.Normal.X - p.Position.X) * elasticity
	p.Position.Y += (p.Normal.Y - p.Position.Y) * elasticity
}

// Draw renders the current frame onto c: every line at its perspective
// relative to the global one, newest first, then dust and the compass.
// Draw does not change any state.
func (s *Session) Draw(c Canvas) {
	var start time.Time
	if s.debug {
		start = time.Now()
	}
	g := s.sketch.Perspective
	refX := s.config.Width / 2
	for i := len(s.sketch.Lines) - 1; i >= 0; i-- {
		l := s.sketch.Lines[i]
		DrawLine(c, l, RelativePerspective(g, l.Perspective), refX, false)
	}
	s.dust.Draw(c, g, refX)
	s.compass.draw(c, g, s.config.Width, s.config.Height)
	if s.debug {
		s.stats.drawTime = time.Since(start)
		s.debugLog()
	}
}
