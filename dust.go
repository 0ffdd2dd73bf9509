package scribble

import (
	"math"
	"math/rand/v2"
)

const (
	dustStartAlpha = 0.98
	dustFade       = 0.94
	dustMinAlpha   = 0.05
	dustSize       = 1.0
)

// dust holds per-particle state. Unexported; managed by DustSystem.
type dust struct {
	x, y        float64
	vx, vy      float64
	alpha       float64
	perspective float64 // global perspective of the line that emitted it
}

// DustSystem simulates the specks of lead that crumble off strokes while
// they are drawn. Particles live in a fixed pool; dead ones are swap-removed.
type DustSystem struct {
	particles []dust
	alive     int
	rng       *rand.Rand
}

// newDustSystem creates a DustSystem with a preallocated pool.
func newDustSystem(max int, rng *rand.Rand) *DustSystem {
	if max <= 0 {
		max = DefaultMaxDust
	}
	return &DustSystem{
		particles: make([]dust, max),
		rng:       rng,
	}
}

// AliveCount returns the number of live particles.
func (d *DustSystem) AliveCount() int {
	return d.alive
}

// Reset kills all particles.
func (d *DustSystem) Reset() {
	d.alive = 0
}

// Emit spawns a random number of particles, between zero and quantity, at
// (x, y). New particles are silently dropped when the pool is full.
func (d *DustSystem) Emit(x, y float64, quantity int, perspective float64) int {
	n := int(math.Round(d.rng.Float64() * float64(quantity)))
	spawned := 0
	for ; spawned < n && d.alive < len(d.particles); spawned++ {
		p := &d.particles[d.alive]
		p.x = x
		p.y = y
		p.vx = 0.5*d.rng.Float64() - 0.25
		p.vy = 3 * d.rng.Float64()
		p.alpha = dustStartAlpha
		p.perspective = perspective
		d.alive++
	}
	return spawned
}

// Update advances every particle by one frame: it moves by its velocity,
// fades geometrically, and is removed once nearly transparent.
func (d *DustSystem) Update() {
	i := 0
	for i < d.alive {
		p := &d.particles[i]
		p.x += p.vx
		p.y += p.vy
		p.alpha *= dustFade
		if p.alpha < dustMinAlpha {
			d.alive--
			d.particles[i] = d.particles[d.alive]
			continue
		}
		i++
	}
}

// Draw renders each particle as a single pixel, sheared the same way as the
// line it came from.
func (d *DustSystem) Draw(c Canvas, globalPerspective, refX float64) {
	for i := 0; i < d.alive; i++ {
		p := &d.particles[i]
		rp := RelativePerspective(globalPerspective, p.perspective)
		x := Project(p.x, refX, rp)
		c.FillRect(x, p.y, dustSize, dustSize, Color{0, 0, 0, p.alpha})
	}
}
