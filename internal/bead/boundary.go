package bead

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/iburimskiy/kaleidoscope/internal/config"
)

// Boundary keeps a bead inside the arena after it moves.
type Boundary interface {
	Apply(bd *Bead)
	Name() string
}

// Reflective is a circular wall of radius Limit. A bead past the wall is put
// back on it along the same angle and bounces with Restitution.
type Reflective struct {
	Limit       float64
	Restitution float64
}

func (r Reflective) Name() string { return config.BoundaryReflective }

func (r Reflective) Apply(bd *Bead) {
	dist := r2.Norm(bd.Pos)
	if dist <= r.Limit {
		return
	}
	a := math.Atan2(bd.Pos.Y, bd.Pos.X)
	s, c := math.Sincos(a)
	bd.Pos = r2.Vec{X: c * r.Limit, Y: s * r.Limit}
	// Rounding can leave the projected point a hair outside.
	for r2.Norm(bd.Pos) > r.Limit {
		bd.Pos = r2.Scale(math.Nextafter(1, 0), bd.Pos)
	}
	bd.Vel = r2.Scale(-r.Restitution, bd.Vel)
}

// Toroidal wraps each axis independently within [-Bound, Bound]. Velocity is
// untouched.
type Toroidal struct {
	Bound float64
}

func (t Toroidal) Name() string { return config.BoundaryToroidal }

func (t Toroidal) Apply(bd *Bead) {
	bd.Pos.X = t.wrap(bd.Pos.X)
	bd.Pos.Y = t.wrap(bd.Pos.Y)
}

func (t Toroidal) wrap(v float64) float64 {
	if v > t.Bound {
		return -t.Bound
	}
	if v < -t.Bound {
		return t.Bound
	}
	return v
}

// NewBoundary builds the policy named in p.Boundary.
func NewBoundary(p config.Physics) (Boundary, error) {
	switch p.Boundary {
	case config.BoundaryReflective:
		return Reflective{Limit: p.Limit, Restitution: p.Restitution}, nil
	case config.BoundaryToroidal:
		return Toroidal{Bound: p.Bound}, nil
	}
	return nil, fmt.Errorf("%w: unknown boundary %q", config.ErrInvalid, p.Boundary)
}
