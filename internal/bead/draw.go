package bead

import (
	"math"

	"github.com/iburimskiy/kaleidoscope/internal/surface"
)

// Draw paints the bead onto s. half shifts the arena origin to the centre of
// a buffer of side 2*half. The bead itself is not modified.
func (bd *Bead) Draw(s surface.Surface, half float64, shadow surface.Shadow) {
	surface.Scoped(s, func() {
		s.Translate(bd.Pos.X+half, bd.Pos.Y+half)
		s.Rotate(bd.Angle)
		s.SetShadow(shadow)
		s.SetFillColor(bd.Color)
		s.BeginPath()
		r := bd.Radius
		switch bd.Shape {
		case Circle:
			s.Arc(0, 0, r, 0, 2*math.Pi)
		case Square:
			s.Rect(-r, -r, 2*r, 2*r)
		case Triangle:
			s.MoveTo(0, -r)
			s.LineTo(r, r)
			s.LineTo(-r, r)
			s.ClosePath()
		}
		s.Fill()
	})
}
