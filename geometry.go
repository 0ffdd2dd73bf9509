package scribble

import "math"

// Vec2 is a 2D vector used for point positions and velocities.
type Vec2 struct {
	X, Y float64
}

// Distance returns the Euclidean distance between a and b.
func Distance(a, b Vec2) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Wrap folds value back into [-limit, limit]. Overflow re-enters from the
// opposite bound with the remainder, so Wrap(1.5, 1) is -0.5 and
// Wrap(-1.5, 1) is 0.5. Values inside the range are returned unchanged.
func Wrap(value, limit float64) float64 {
	if value > limit {
		return -limit + math.Mod(value, limit)
	}
	if value < -limit {
		return limit + math.Mod(value, limit)
	}
	return value
}

// Project shears px horizontally around refX by the relative perspective rp.
// Points further from refX move further, and the direction flips with the
// sign of rp.
func Project(px, refX, rp float64) float64 {
	sign := -1.0
	if rp < 0 {
		sign = 1
	}
	return px + rp*(px-refX)*sign
}

// RelativePerspective returns the depth of something drawn at perspective p
// when viewed from the global perspective g, folded into [-2, 2].
func RelativePerspective(g, p float64) float64 {
	return Wrap((g-p)*2, 2)
}

// midpoint returns the point halfway between a and b.
func midpoint(a, b Vec2) Vec2 {
	return Vec2{X: a.X + (b.X-a.X)/2, Y: a.Y + (b.Y-a.Y)/2}
}
