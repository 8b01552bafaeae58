// Package bead implements the kaleidoscope's particles: random spawn,
// per-tick physics under the shared force and drawing onto a surface.
package bead

import (
	"image/color"
	"math"
	"math/rand"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/iburimskiy/kaleidoscope/internal/config"
)

type Shape uint8

const (
	Circle Shape = iota
	Square
	Triangle
	shapeCount
)

func (s Shape) String() string {
	switch s {
	case Circle:
		return "circle"
	case Square:
		return "square"
	case Triangle:
		return "triangle"
	}
	return "unknown"
}

// Bead is one particle. Radius, Color and Shape are fixed at spawn; the
// kinematic fields change every tick.
type Bead struct {
	Pos   r2.Vec // arena frame, origin at the centre
	Vel   r2.Vec
	Angle float64
	Spin  float64 // added to Angle every tick

	Radius float64
	Hue    float64 // degrees, kept for debugging and tests
	Color  color.NRGBA
	Shape  Shape
}

// Spawn draws a fresh bead from rng. The same seed always yields the same
// bead.
func Spawn(rng *rand.Rand, p config.Physics, b Boundary) *Bead {
	hue := rng.Float64() * 360
	bd := &Bead{
		Radius: p.RadiusMin + rng.Float64()*(p.RadiusMax-p.RadiusMin),
		Hue:    hue,
		Color:  hsla(hue, p.Saturation, p.Lightness, p.Alpha),
		Pos: r2.Vec{
			X: (rng.Float64()*2 - 1) * p.SpawnHalf,
			Y: (rng.Float64()*2 - 1) * p.SpawnHalf,
		},
		Vel: r2.Vec{
			X: (rng.Float64()*2 - 1) * p.SpawnSpeed,
			Y: (rng.Float64()*2 - 1) * p.SpawnSpeed,
		},
		Shape: Shape(rng.Intn(int(shapeCount))),
		Angle: rng.Float64() * 2 * math.Pi,
		Spin:  (rng.Float64()*2 - 1) * p.SpinRange,
	}
	if bd.Radius <= 0 {
		bd.Radius = p.RadiusMin
	}
	// Spawn square may poke outside a small arena.
	if b != nil {
		b.Apply(bd)
	}
	return bd
}

func hsla(h, s, l, a float64) color.NRGBA {
	r, g, b := colorful.Hsl(h, s, l).Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: uint8(math.Round(a * 255))}
}

// Update advances the bead one tick: force, clamp, damping, position, spin,
// boundary. It reads nothing but force and the bead's own state.
func (bd *Bead) Update(force r2.Vec, p config.Physics, b Boundary) {
	bd.Vel = r2.Add(bd.Vel, force)
	if p.SpeedLimit > 0 {
		bd.Vel.X = clamp(bd.Vel.X, -p.SpeedLimit, p.SpeedLimit)
		bd.Vel.Y = clamp(bd.Vel.Y, -p.SpeedLimit, p.SpeedLimit)
	}
	bd.Vel = r2.Scale(p.Friction, bd.Vel)
	bd.Pos = r2.Add(bd.Pos, bd.Vel)
	bd.Angle += bd.Spin + p.SpinCoupling*bd.Vel.X
	if b != nil {
		b.Apply(bd)
	}
}

func (bd *Bead) Speed() float64 { return r2.Norm(bd.Vel) }

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
