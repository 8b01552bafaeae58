package bead

import (
	"image/color"
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/iburimskiy/kaleidoscope/internal/surface"
)

func TestDraw_ShapesAndTransform(t *testing.T) {
	const r = 10.0
	cases := []struct {
		shape Shape
		check func(t *testing.T, path []surface.Segment)
	}{
		{Circle, func(t *testing.T, path []surface.Segment) {
			if len(path) != 1 || path[0].Kind != surface.SegArc || path[0].Radius != r ||
				path[0].Start != 0 || !near(path[0].End, 2*math.Pi) {
				t.Fatalf("circle path %+v", path)
			}
		}},
		{Square, func(t *testing.T, path []surface.Segment) {
			if len(path) != 1 || path[0].Kind != surface.SegRect ||
				path[0].X != -r || path[0].Y != -r || path[0].W != 2*r || path[0].H != 2*r {
				t.Fatalf("square path %+v", path)
			}
		}},
		{Triangle, func(t *testing.T, path []surface.Segment) {
			want := []surface.Segment{
				{Kind: surface.SegMove, X: 0, Y: -r},
				{Kind: surface.SegLine, X: r, Y: r},
				{Kind: surface.SegLine, X: -r, Y: r},
				{Kind: surface.SegClose},
			}
			if len(path) != len(want) {
				t.Fatalf("triangle path %+v", path)
			}
			for i, w := range want {
				if path[i].Kind != w.Kind || path[i].X != w.X || path[i].Y != w.Y {
					t.Fatalf("triangle segment %d: got %+v want %+v", i, path[i], w)
				}
			}
		}},
	}

	for _, c := range cases {
		rec := surface.NewRecorder(1000, 1000)
		bd := &Bead{
			Pos:    r2.Vec{X: 30, Y: -40},
			Vel:    r2.Vec{X: 1, Y: 2},
			Angle:  math.Pi / 2,
			Radius: r,
			Color:  color.NRGBA{R: 10, G: 20, B: 30, A: 217},
			Shape:  c.shape,
		}
		before := *bd
		bd.Draw(rec, 500, surface.Shadow{})

		if len(rec.Fills) != 1 {
			t.Fatalf("%v: expected one fill, got %d", c.shape, len(rec.Fills))
		}
		fill := rec.Fills[0]
		c.check(t, fill.Path)
		if fill.Color != bd.Color {
			t.Fatalf("%v: fill colour %v", c.shape, fill.Color)
		}
		m := fill.Path[0].Transform
		ox, oy := surface.Apply(m, 0, 0)
		if !near(ox, 530) || !near(oy, 460) {
			t.Fatalf("%v: local origin maps to (%v,%v), want (530,460)", c.shape, ox, oy)
		}
		// Rotated by π/2: local +x points down.
		px, py := surface.Apply(m, 1, 0)
		if !near(px-ox, 0) || !near(py-oy, 1) {
			t.Fatalf("%v: rotation not applied, +x -> (%v,%v)", c.shape, px-ox, py-oy)
		}
		if rec.Depth() != 0 || rec.Transform() != surface.Identity {
			t.Fatalf("%v: draw leaked state", c.shape)
		}
		if *bd != before {
			t.Fatalf("%v: draw mutated the bead", c.shape)
		}
	}
}

func TestDraw_PassesShadow(t *testing.T) {
	rec := surface.NewRecorder(100, 100)
	sh := surface.Shadow{Color: color.NRGBA{A: 80}, Blur: 6, OffsetX: 2, OffsetY: 2}
	(&Bead{Radius: 3}).Draw(rec, 50, sh)
	if rec.Fills[0].Shadow != sh {
		t.Fatalf("shadow not applied: %+v", rec.Fills[0].Shadow)
	}
}
