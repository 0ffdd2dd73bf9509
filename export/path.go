package export

type opKind uint8

const (
	opMove opKind = iota
	opLine
	opQuad
	opClose
)

type pathOp struct {
	kind   opKind
	cx, cy float64
	x, y   float64
}

// pathRecorder implements the path-building half of scribble.Canvas by
// recording operations. Backends replay them when a path is painted.
type pathRecorder struct {
	ops []pathOp
}

func (r *pathRecorder) BeginPath() { r.ops = r.ops[:0] }

func (r *pathRecorder) MoveTo(x, y float64) {
	r.ops = append(r.ops, pathOp{kind: opMove, x: x, y: y})
}

func (r *pathRecorder) LineTo(x, y float64) {
	r.ops = append(r.ops, pathOp{kind: opLine, x: x, y: y})
}

func (r *pathRecorder) QuadTo(cx, cy, x, y float64) {
	r.ops = append(r.ops, pathOp{kind: opQuad, cx: cx, cy: cy, x: x, y: y})
}

func (r *pathRecorder) ClosePath() {
	r.ops = append(r.ops, pathOp{kind: opClose})
}

// valid reports whether the path has something to paint.
func (r *pathRecorder) valid() bool {
	return len(r.ops) > 0 && r.ops[0].kind == opMove
}
