package scribble

import (
	"math/rand/v2"
	"testing"
)

func testRand() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

func TestDustEmitBounds(t *testing.T) {
	d := newDustSystem(100, testRand())
	for i := 0; i < 20; i++ {
		n := d.Emit(10, 20, 5, 0.3)
		if n < 0 || n > 5 {
			t.Fatalf("Emit = %d, want 0..5", n)
		}
	}
	for i := 0; i < d.AliveCount(); i++ {
		p := d.particles[i]
		if p.x != 10 || p.y != 20 || p.perspective != 0.3 {
			t.Errorf("particle %d = %+v, want emitted at (10, 20)", i, p)
		}
		if p.vx < -0.25 || p.vx >= 0.25 || p.vy < 0 || p.vy >= 3 {
			t.Errorf("particle %d velocity (%v, %v) out of range", i, p.vx, p.vy)
		}
		if p.alpha != dustStartAlpha {
			t.Errorf("particle %d alpha = %v, want %v", i, p.alpha, dustStartAlpha)
		}
	}
}

func TestDustEmitZero(t *testing.T) {
	d := newDustSystem(10, testRand())
	if n := d.Emit(0, 0, 0, 0); n != 0 {
		t.Errorf("Emit(quantity 0) = %d, want 0", n)
	}
}

func TestDustPoolCap(t *testing.T) {
	d := newDustSystem(3, testRand())
	for i := 0; i < 50; i++ {
		d.Emit(0, 0, 5, 0)
	}
	if d.AliveCount() != 3 {
		t.Errorf("AliveCount = %d, want 3", d.AliveCount())
	}
}

func TestDustFadesOut(t *testing.T) {
	d := newDustSystem(100, testRand())
	for d.AliveCount() == 0 {
		d.Emit(0, 0, 5, 0)
	}
	d.Update()
	if a := d.particles[0].alpha; !approx(a, dustStartAlpha*dustFade) {
		t.Errorf("alpha after one update = %v, want %v", a, dustStartAlpha*dustFade)
	}
	// 0.98 * 0.94^n drops under 0.05 at n = 49.
	for i := 0; i < 48; i++ {
		d.Update()
	}
	if d.AliveCount() != 0 {
		t.Errorf("AliveCount = %d after fade, want 0", d.AliveCount())
	}
}

func TestDustMoves(t *testing.T) {
	d := newDustSystem(10, testRand())
	for d.AliveCount() == 0 {
		d.Emit(50, 50, 5, 0)
	}
	p := d.particles[0]
	d.Update()
	got := d.particles[0]
	if !approx(got.x, p.x+p.vx) || !approx(got.y, p.y+p.vy) {
		t.Errorf("position = (%v, %v), want (%v, %v)", got.x, got.y, p.x+p.vx, p.y+p.vy)
	}
}

func TestDustReset(t *testing.T) {
	d := newDustSystem(10, testRand())
	for d.AliveCount() == 0 {
		d.Emit(0, 0, 5, 0)
	}
	d.Reset()
	if d.AliveCount() != 0 {
		t.Errorf("AliveCount = %d after Reset, want 0", d.AliveCount())
	}
}

func TestDustDraw(t *testing.T) {
	d := newDustSystem(10, testRand())
	for d.AliveCount() == 0 {
		d.Emit(120, 40, 5, 0)
	}
	rc := &recordingCanvas{}
	d.Draw(rc, 0, 100)
	if got := rc.count("FillRect"); got != d.AliveCount() {
		t.Errorf("FillRect calls = %d, want %d", got, d.AliveCount())
	}
	// Same perspective as the emitting line: no shear.
	if op := rc.ops[0]; op.args[0] != 120 || op.args[1] != 40 {
		t.Errorf("FillRect at (%v, %v), want (120, 40)", op.args[0], op.args[1])
	}
}
