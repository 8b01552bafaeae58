// Package kaleido drives the animation: a particle system that renders beads
// into an offscreen buffer, a compositor that stamps that buffer into
// mirrored wedges, and the engine tying both to a frame loop.
package kaleido

import (
	"image/color"
	"math/rand"

	"github.com/iburimskiy/kaleidoscope/internal/bead"
	"github.com/iburimskiy/kaleidoscope/internal/config"
	"github.com/iburimskiy/kaleidoscope/internal/field"
	"github.com/iburimskiy/kaleidoscope/internal/surface"
)

// System owns the beads and the intermediate buffer they are drawn into.
type System struct {
	Physics  config.Physics
	Boundary bead.Boundary
	Shadow   surface.Shadow

	field  *field.ForceField
	buffer surface.Surface
	half   float64
	beads  []*bead.Bead
}

func NewSystem(buffer surface.Surface, f *field.ForceField, p config.Physics, b bead.Boundary) *System {
	return &System{
		Physics:  p,
		Boundary: b,
		field:    f,
		buffer:   buffer,
		half:     float64(buffer.Width()) / 2,
	}
}

// DefaultShadow is the soft dark shadow used when shadows are enabled.
func DefaultShadow(blur float64) surface.Shadow {
	return surface.Shadow{Color: color.NRGBA{A: 0x4d}, Blur: blur, OffsetX: 2, OffsetY: 2}
}

// Populate replaces the whole bead set with n fresh beads.
func (s *System) Populate(rng *rand.Rand, n int) {
	beads := make([]*bead.Bead, n)
	for i := range beads {
		beads[i] = bead.Spawn(rng, s.Physics, s.Boundary)
	}
	s.beads = beads
}

func (s *System) Beads() []*bead.Bead { return s.beads }

func (s *System) Buffer() surface.Surface { return s.buffer }

// Step clears the buffer, then moves and draws each bead in turn so every
// bead is drawn at its position for this frame.
func (s *System) Step() {
	s.buffer.ClearRect(0, 0, float64(s.buffer.Width()), float64(s.buffer.Height()))
	for _, b := range s.beads {
		b.Update(s.field.Load(), s.Physics, s.Boundary)
		b.Draw(s.buffer, s.half, s.Shadow)
	}
}
