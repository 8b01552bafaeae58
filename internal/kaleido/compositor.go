package kaleido

import (
	"image/color"
	"math"

	"github.com/iburimskiy/kaleidoscope/internal/surface"
)

// Compositor turns one buffer into Slices mirrored wedges around the centre
// of the destination.
type Compositor struct {
	Slices     int
	Seam       float64 // extra wedge angle hiding anti-aliasing gaps
	Background color.Color
}

func (c *Compositor) SliceAngle() float64 { return 2 * math.Pi / float64(c.Slices) }

// Composite paints buffer onto dst. Each wedge stamps the buffer twice,
// once as is and once mirrored across the wedge, inside a pie-slice clip.
func (c *Compositor) Composite(dst, buffer surface.Surface) {
	w, h := float64(dst.Width()), float64(dst.Height())
	half := float64(buffer.Width()) / 2
	radius := math.Max(w, h)
	slice := c.SliceAngle()

	surface.Scoped(dst, func() {
		dst.SetFillColor(c.Background)
		dst.FillRect(0, 0, w, h)

		dst.Translate(w/2, h/2)
		for i := 0; i < c.Slices; i++ {
			surface.Scoped(dst, func() {
				dst.Rotate(float64(i) * slice)

				dst.BeginPath()
				dst.MoveTo(0, 0)
				dst.Arc(0, 0, radius, 0, slice+c.Seam)
				dst.LineTo(0, 0)
				dst.Clip()

				dst.DrawSurface(buffer, -half, -half)

				dst.Rotate(slice)
				dst.Scale(1, -1)
				dst.DrawSurface(buffer, -half, -half)
			})
		}
	})
}
