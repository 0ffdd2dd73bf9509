package scribble

import "errors"

// Point is a single sample of a stroke. Normal is the coordinate the user
// drew and is the only part that is persisted. Position is the animated
// coordinate that the engine keeps pulling back toward Normal.
type Point struct {
	Position Vec2
	Normal   Vec2
}

// NewPoint returns a point at rest on (x, y).
func NewPoint(x, y float64) Point {
	v := Vec2{X: x, Y: y}
	return Point{Position: v, Normal: v}
}

// Line is one stroke. Perspective is the global perspective at the moment
// the stroke was started and never changes afterwards.
type Line struct {
	Thickness   float64
	Perspective float64
	Dashed      bool
	Points      []Point
}

// Sketch is a complete drawing: the sketch-wide perspective, the vibration
// amplitude and the lines in drawing order.
type Sketch struct {
	Perspective float64
	Amplitude   float64
	Lines       []*Line
}

// NewSketch returns an empty sketch with the given amplitude.
func NewSketch(amplitude float64) *Sketch {
	return &Sketch{Amplitude: amplitude}
}

// BeginLine starts a new line and appends it to the sketch.
func (s *Sketch) BeginLine(thickness, perspective float64, dashed bool) *Line {
	l := &Line{Thickness: thickness, Perspective: perspective, Dashed: dashed}
	s.Lines = append(s.Lines, l)
	return l
}

// CurrentLine returns the most recently started line, or nil.
func (s *Sketch) CurrentLine() *Line {
	if len(s.Lines) == 0 {
		return nil
	}
	return s.Lines[len(s.Lines)-1]
}

// AppendPoint adds a point at rest on (x, y) to the current line. The first
// point of a line is added twice so that a single click still renders a dot.
// Reports false when there is no line to append to.
func (s *Sketch) AppendPoint(x, y float64) bool {
	l := s.CurrentLine()
	if l == nil {
		return false
	}
	l.Points = append(l.Points, NewPoint(x, y))
	if len(l.Points) < 2 {
		l.Points = append(l.Points, NewPoint(x, y))
	}
	return true
}

// PopLine removes the most recently started line and returns it.
func (s *Sketch) PopLine() *Line {
	l := s.CurrentLine()
	if l == nil {
		return nil
	}
	s.Lines[len(s.Lines)-1] = nil
	s.Lines = s.Lines[:len(s.Lines)-1]
	return l
}

// PruneEmpty removes lines that have no points and returns how many were removed.
func (s *Sketch) PruneEmpty() int {
	return s.prune(1)
}

// prune drops every line with fewer than min points, keeping order.
func (s *Sketch) prune(min int) int {
	kept := s.Lines[:0]
	for _, l := range s.Lines {
		if l != nil && len(l.Points) >= min {
			kept = append(kept, l)
		}
	}
	removed := len(s.Lines) - len(kept)
	for i := len(kept); i < len(s.Lines); i++ {
		s.Lines[i] = nil
	}
	s.Lines = kept
	return removed
}

// Validate reports every line that could not be persisted. The returned
// error joins one *ValidationError per offending line.
func (s *Sketch) Validate() error {
	var errs []error
	for i, l := range s.Lines {
		n := 0
		if l != nil {
			n = len(l.Points)
		}
		if n < minLinePoints {
			errs = append(errs, &ValidationError{Line: i, Points: n})
		}
	}
	return errors.Join(errs...)
}

// PointCount returns the total number of points across all lines.
func (s *Sketch) PointCount() int {
	n := 0
	for _, l := range s.Lines {
		if l != nil {
			n += len(l.Points)
		}
	}
	return n
}

// Clone returns a deep copy of the sketch.
func (s *Sketch) Clone() *Sketch {
	c := &Sketch{
		Perspective: s.Perspective,
		Amplitude:   s.Amplitude,
		Lines:       make([]*Line, 0, len(s.Lines)),
	}
	for _, l := range s.Lines {
		if l == nil {
			continue
		}
		cl := *l
		cl.Points = append([]Point(nil), l.Points...)
		c.Lines = append(c.Lines, &cl)
	}
	return c
}

// minLinePoints is the fewest points a persisted line may carry.
const minLinePoints = 2
