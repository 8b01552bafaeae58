package bead

import (
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/iburimskiy/kaleidoscope/internal/config"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func physics() config.Physics { return config.Default().Physics }

func TestUpdate_OrderForceDampIntegrate(t *testing.T) {
	p := physics()
	p.Friction = 0.9
	p.SpinCoupling = 0
	bd := &Bead{Radius: 5}
	force := r2.Vec{X: 0, Y: 1}

	bd.Update(force, p, nil)
	if !near(bd.Vel.Y, 0.9) || !near(bd.Pos.Y, 0.9) {
		t.Fatalf("tick 1: expected vel=0.9 pos=0.9, got vel=%v pos=%v", bd.Vel.Y, bd.Pos.Y)
	}
	bd.Update(force, p, nil)
	if !near(bd.Vel.Y, 1.71) || !near(bd.Pos.Y, 2.61) {
		t.Fatalf("tick 2: expected vel=1.71 pos=2.61, got vel=%v pos=%v", bd.Vel.Y, bd.Pos.Y)
	}
	if bd.Vel.X != 0 || bd.Pos.X != 0 {
		t.Fatalf("x drifted without x force: %+v", bd)
	}
}

func TestUpdate_ZeroForceSpeedDecaysMonotonically(t *testing.T) {
	p := physics()
	b := Reflective{Limit: p.Limit, Restitution: p.Restitution}
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 50; i++ {
		bd := Spawn(rng, p, b)
		prev := bd.Speed()
		for tick := 0; tick < 500; tick++ {
			bd.Update(r2.Vec{}, p, b)
			s := bd.Speed()
			if s > prev+1e-12 {
				t.Fatalf("bead %d tick %d: speed grew %v -> %v", i, tick, prev, s)
			}
			prev = s
		}
		if prev > 1e-6 {
			t.Fatalf("bead %d: speed should tend to zero, still %v", i, prev)
		}
	}
}

func TestUpdate_SpeedClampBeforeDamping(t *testing.T) {
	p := physics()
	p.SpeedLimit = 12
	p.Friction = 0.5
	bd := &Bead{Vel: r2.Vec{X: 100, Y: -100}}
	bd.Update(r2.Vec{}, p, nil)
	if !near(bd.Vel.X, 6) || !near(bd.Vel.Y, -6) {
		t.Fatalf("expected clamp to ±12 then damp to ±6, got %v", bd.Vel)
	}
}

func TestUpdate_SpinCoupledToHorizontalVelocity(t *testing.T) {
	p := physics()
	p.Friction = 0.5
	p.SpinCoupling = 0.02
	bd := &Bead{Vel: r2.Vec{X: 4}, Spin: 0.1}
	bd.Update(r2.Vec{}, p, nil)
	if !near(bd.Angle, 0.1+0.02*2) {
		t.Fatalf("expected angle 0.14, got %v", bd.Angle)
	}
}

func TestReflective_AtRestStaysPut(t *testing.T) {
	p := physics()
	b := Reflective{Limit: 400, Restitution: 0.2}
	bd := &Bead{Pos: r2.Vec{X: 100}}
	for i := 0; i < 1000; i++ {
		bd.Update(r2.Vec{}, p, b)
	}
	if bd.Pos != (r2.Vec{X: 100}) || bd.Vel != (r2.Vec{}) {
		t.Fatalf("resting bead moved: pos=%v vel=%v", bd.Pos, bd.Vel)
	}
}

func TestReflective_NeverOutsideLimit(t *testing.T) {
	p := physics()
	b := Reflective{Limit: p.Limit, Restitution: p.Restitution}
	rng := rand.New(rand.NewSource(42))
	beads := make([]*Bead, 100)
	for i := range beads {
		beads[i] = Spawn(rng, p, b)
	}
	for tick := 0; tick < 2000; tick++ {
		// Strong force that rotates so beads hit the wall from every side.
		a := float64(tick) * 0.01
		force := r2.Vec{X: 3 * math.Cos(a), Y: 3 * math.Sin(a)}
		for i, bd := range beads {
			bd.Update(force, p, b)
			if d := r2.Norm(bd.Pos); d > p.Limit {
				t.Fatalf("tick %d bead %d: dist %v > limit %v", tick, i, d, p.Limit)
			}
		}
	}
}

func TestReflective_ProjectsAlongAngleAndBounces(t *testing.T) {
	b := Reflective{Limit: 400, Restitution: 0.2}
	bd := &Bead{Pos: r2.Vec{X: 300, Y: 400}, Vel: r2.Vec{X: 3, Y: 4}}
	b.Apply(bd)
	if !near(bd.Pos.X, 240) || !near(bd.Pos.Y, 320) {
		t.Fatalf("expected (240,320), got %v", bd.Pos)
	}
	if !near(bd.Vel.X, -0.6) || !near(bd.Vel.Y, -0.8) {
		t.Fatalf("expected velocity (-0.6,-0.8), got %v", bd.Vel)
	}
}

func TestReflective_ExactlyOnLimitUnchanged(t *testing.T) {
	b := Reflective{Limit: 400, Restitution: 0.2}
	bd := &Bead{Pos: r2.Vec{X: 400}, Vel: r2.Vec{X: 1}}
	b.Apply(bd)
	if bd.Pos != (r2.Vec{X: 400}) || bd.Vel != (r2.Vec{X: 1}) {
		t.Fatalf("bead on the wall was altered: %+v", bd)
	}
}

func TestToroidal_WrapScenario(t *testing.T) {
	p := physics()
	p.Boundary = config.BoundaryToroidal
	p.SpeedLimit = 0
	b := Toroidal{Bound: 400}
	bd := &Bead{Pos: r2.Vec{X: 399}, Vel: r2.Vec{X: 5}}
	bd.Update(r2.Vec{}, p, b)
	if bd.Pos.X != -400 || bd.Pos.Y != 0 {
		t.Fatalf("expected wrap to (-400, 0), got %v", bd.Pos)
	}
	if !near(bd.Vel.X, 5*p.Friction) {
		t.Fatalf("wrap must not touch velocity, got %v", bd.Vel)
	}
}

func TestToroidal_CoordinatesStayInBounds(t *testing.T) {
	p := physics()
	p.SpeedLimit = 0
	b := Toroidal{Bound: p.Bound}
	rng := rand.New(rand.NewSource(3))
	beads := make([]*Bead, 80)
	for i := range beads {
		beads[i] = Spawn(rng, p, b)
	}
	force := r2.Vec{X: 2.5, Y: -1.5}
	for tick := 0; tick < 1000; tick++ {
		for _, bd := range beads {
			bd.Update(force, p, b)
			if math.Abs(bd.Pos.X) > p.Bound || math.Abs(bd.Pos.Y) > p.Bound {
				t.Fatalf("tick %d: %v outside ±%v", tick, bd.Pos, p.Bound)
			}
		}
	}
}

func TestSpawn_DeterministicAndInRange(t *testing.T) {
	p := physics()
	b, err := NewBoundary(p)
	if err != nil {
		t.Fatal(err)
	}
	a := Spawn(rand.New(rand.NewSource(99)), p, b)
	c := Spawn(rand.New(rand.NewSource(99)), p, b)
	if *a != *c {
		t.Fatalf("same seed gave different beads:\n%+v\n%+v", a, c)
	}

	rng := rand.New(rand.NewSource(1))
	seen := map[Shape]bool{}
	for i := 0; i < 300; i++ {
		bd := Spawn(rng, p, b)
		if bd.Radius < p.RadiusMin || bd.Radius >= p.RadiusMax {
			t.Fatalf("radius %v outside [%v, %v)", bd.Radius, p.RadiusMin, p.RadiusMax)
		}
		if bd.Color.A != uint8(math.Round(p.Alpha*255)) {
			t.Fatalf("alpha %d", bd.Color.A)
		}
		if bd.Hue < 0 || bd.Hue >= 360 {
			t.Fatalf("hue %v", bd.Hue)
		}
		seen[bd.Shape] = true
	}
	if len(seen) != int(shapeCount) {
		t.Fatalf("expected every shape to appear, got %v", seen)
	}
}

func TestNewBoundary_Unknown(t *testing.T) {
	p := physics()
	p.Boundary = "portal"
	if _, err := NewBoundary(p); err == nil {
		t.Fatal("expected error for unknown boundary")
	}
}
