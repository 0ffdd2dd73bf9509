package scribble

import "testing"

type canvasOp struct {
	name  string
	args  []float64
	style StrokeStyle
	color Color
}

// recordingCanvas records every Canvas call.
type recordingCanvas struct {
	ops []canvasOp
}

func (c *recordingCanvas) add(name string, args ...float64) {
	c.ops = append(c.ops, canvasOp{name: name, args: args})
}

func (c *recordingCanvas) BeginPath()                  { c.add("BeginPath") }
func (c *recordingCanvas) MoveTo(x, y float64)         { c.add("MoveTo", x, y) }
func (c *recordingCanvas) LineTo(x, y float64)         { c.add("LineTo", x, y) }
func (c *recordingCanvas) QuadTo(cx, cy, x, y float64) { c.add("QuadTo", cx, cy, x, y) }
func (c *recordingCanvas) ClosePath()                  { c.add("ClosePath") }

func (c *recordingCanvas) Stroke(style StrokeStyle) {
	c.ops = append(c.ops, canvasOp{name: "Stroke", style: style})
}

func (c *recordingCanvas) Fill(col Color) {
	c.ops = append(c.ops, canvasOp{name: "Fill", color: col})
}

func (c *recordingCanvas) FillRect(x, y, w, h float64, col Color) {
	c.ops = append(c.ops, canvasOp{name: "FillRect", args: []float64{x, y, w, h}, color: col})
}

func (c *recordingCanvas) count(name string) int {
	n := 0
	for _, op := range c.ops {
		if op.name == name {
			n++
		}
	}
	return n
}

func (c *recordingCanvas) named(name string) []canvasOp {
	var out []canvasOp
	for _, op := range c.ops {
		if op.name == name {
			out = append(out, op)
		}
	}
	return out
}

func threePointLine(dashed bool) *Line {
	return &Line{
		Thickness: 3.456,
		Dashed:    dashed,
		Points:    []Point{NewPoint(0, 0), NewPoint(10, 20), NewPoint(30, 20)},
	}
}

func TestDrawLineSolid(t *testing.T) {
	rc := &recordingCanvas{}
	DrawLine(rc, threePointLine(false), 0, 100, false)

	if got := rc.count("BeginPath"); got != 1 {
		t.Errorf("BeginPath = %d, want 1", got)
	}
	if got := rc.count("MoveTo"); got != 1 {
		t.Errorf("MoveTo = %d, want 1", got)
	}
	strokes := rc.named("Stroke")
	if len(strokes) != 1 {
		t.Fatalf("Stroke = %d, want 1", len(strokes))
	}
	if strokes[0].style.Width != 3.456 {
		t.Errorf("width = %v, want 3.456", strokes[0].style.Width)
	}
	if strokes[0].style.Color != InkColor {
		t.Errorf("color = %v, want InkColor", strokes[0].style.Color)
	}

	quads := rc.named("QuadTo")
	want := [][]float64{
		{0, 0, 5, 10},
		{10, 20, 20, 20},
	}
	if len(quads) != len(want) {
		t.Fatalf("QuadTo = %d, want %d", len(quads), len(want))
	}
	for i, w := range want {
		for k := range w {
			if quads[i].args[k] != w[k] {
				t.Errorf("QuadTo %d = %v, want %v", i, quads[i].args, w)
				break
			}
		}
	}
}

func TestDrawLineDashed(t *testing.T) {
	rc := &recordingCanvas{}
	DrawLine(rc, threePointLine(true), 0, 100, false)

	if got := rc.count("BeginPath"); got != 2 {
		t.Errorf("BeginPath = %d, want 2", got)
	}
	if got := rc.count("MoveTo"); got != 2 {
		t.Errorf("MoveTo = %d, want 2", got)
	}
	strokes := rc.named("Stroke")
	if len(strokes) != 2 {
		t.Fatalf("Stroke = %d, want 2", len(strokes))
	}
	for _, s := range strokes {
		if s.style.Width != 3.46 {
			t.Errorf("dashed width = %v, want 3.46", s.style.Width)
		}
	}
}

func TestDrawLineShear(t *testing.T) {
	rc := &recordingCanvas{}
	l := &Line{Thickness: 1, Points: []Point{NewPoint(80, 0), NewPoint(120, 0)}}
	DrawLine(rc, l, 0.5, 100, false)

	move := rc.named("MoveTo")[0]
	if move.args[0] != 90 {
		t.Errorf("sheared start x = %v, want 90", move.args[0])
	}
	quad := rc.named("QuadTo")[0]
	// Midpoint of the sheared endpoints 90 and 110.
	if quad.args[2] != 100 {
		t.Errorf("sheared midpoint x = %v, want 100", quad.args[2])
	}
}

func TestDrawLineRest(t *testing.T) {
	l := &Line{Thickness: 1, Points: []Point{
		{Position: Vec2{50, 50}, Normal: Vec2{0, 0}},
		NewPoint(10, 0),
	}}
	rc := &recordingCanvas{}
	DrawLine(rc, l, 0, 0, true)
	if move := rc.named("MoveTo")[0]; move.args[0] != 0 || move.args[1] != 0 {
		t.Errorf("rest MoveTo = %v, want normal (0, 0)", move.args)
	}

	rc = &recordingCanvas{}
	DrawLine(rc, l, 0, 0, false)
	if move := rc.named("MoveTo")[0]; move.args[0] != 50 {
		t.Errorf("animated MoveTo = %v, want position (50, 50)", move.args)
	}
}

func TestDrawLineTooShort(t *testing.T) {
	rc := &recordingCanvas{}
	DrawLine(rc, &Line{Thickness: 1, Points: []Point{NewPoint(1, 1)}}, 0, 0, false)
	if len(rc.ops) != 0 {
		t.Errorf("ops = %d, want none for a single point", len(rc.ops))
	}
}

func TestDrawStaticOrder(t *testing.T) {
	s := NewSketch(3)
	a := s.BeginLine(1, 0, false)
	a.Points = []Point{NewPoint(0, 0), NewPoint(1, 1)}
	b := s.BeginLine(2, 0, false)
	b.Points = []Point{NewPoint(0, 0), NewPoint(1, 1)}

	rc := &recordingCanvas{}
	DrawStatic(rc, s, 480)
	strokes := rc.named("Stroke")
	if len(strokes) != 2 {
		t.Fatalf("Stroke = %d, want 2", len(strokes))
	}
	if strokes[0].style.Width != 2 || strokes[1].style.Width != 1 {
		t.Errorf("stroke order = %v, %v, want newest first", strokes[0].style.Width, strokes[1].style.Width)
	}
}

func TestColorRGBA(t *testing.T) {
	got := Color{1, 0, 0.5, 2}.RGBA()
	if got.R != 255 || got.G != 0 || got.B != 128 || got.A != 255 {
		t.Errorf("RGBA = %v, want {255 0 128 255}", got)
	}
}
