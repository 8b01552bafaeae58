package softcanvas

import (
	"errors"
	"image/color"
	"math"
	"testing"

	"github.com/iburimskiy/kaleidoscope/internal/surface"
)

func TestRGBA8(t *testing.T) {
	cases := []struct {
		in   color.Color
		want [4]uint8
	}{
		{color.NRGBA{R: 255, G: 0, B: 10, A: 255}, [4]uint8{255, 0, 10, 255}},
		{color.NRGBA{R: 200, G: 100, B: 50, A: 217}, [4]uint8{200, 100, 50, 217}},
		{color.Black, [4]uint8{0, 0, 0, 255}},
		{color.Transparent, [4]uint8{}},
	}
	for _, c := range cases {
		if got := RGBA8(c.in); got != c.want {
			t.Fatalf("RGBA8(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestSoftware_ClearAndFill(t *testing.T) {
	c := NewSoftware(20, 20)
	c.SetFillColor(color.NRGBA{R: 255, A: 255})
	c.FillRect(0, 0, 20, 20)
	if px := c.RGBA().RGBAAt(10, 10); px.R != 255 || px.A != 255 {
		t.Fatalf("expected opaque red after fill, got %v", px)
	}
	c.ClearRect(0, 0, 20, 20)
	if px := c.RGBA().RGBAAt(10, 10); px.A != 0 {
		t.Fatalf("expected transparent after clear, got %v", px)
	}
}

func TestSoftware_TranslucentFill(t *testing.T) {
	c := NewSoftware(20, 20)
	c.SetFillColor(color.NRGBA{G: 255, A: 217})
	c.FillRect(0, 0, 20, 20)
	if px := c.RGBA().RGBAAt(10, 10); px.A < 200 || px.A > 230 || px.G < 200 {
		t.Fatalf("expected ~85%% green, got %v", px)
	}
}

func TestSoftware_ArcUnderRotation(t *testing.T) {
	c := NewSoftware(100, 100)
	c.SetFillColor(color.NRGBA{R: 255, A: 255})
	surface.Scoped(c, func() {
		c.Translate(50, 50)
		c.Rotate(math.Pi / 2)
		// Quarter disc from 0 to π/2, rotated into the lower-left quadrant.
		c.BeginPath()
		c.MoveTo(0, 0)
		c.Arc(0, 0, 40, 0, math.Pi/2)
		c.LineTo(0, 0)
		c.Fill()
	})
	img := c.RGBA()
	if px := img.RGBAAt(30, 70); px.R < 200 {
		t.Fatalf("lower-left quadrant not filled: %v", px)
	}
	for _, p := range [][2]int{{70, 70}, {70, 30}, {30, 30}} {
		if px := img.RGBAAt(p[0], p[1]); px.A != 0 {
			t.Fatalf("pixel %v painted outside the rotated quadrant: %v", p, px)
		}
	}
}

func TestDrawSurface_RecordsForeignSource(t *testing.T) {
	c := NewSoftware(10, 10)
	c.DrawSurface(surface.NewRecorder(10, 10), 0, 0)
	if err := c.Err(); !errors.Is(err, ErrForeignSurface) {
		t.Fatalf("expected ErrForeignSurface, got %v", err)
	}
	if err := c.Err(); err != nil {
		t.Fatalf("Err must clear after reading, got %v", err)
	}
	c.DrawSurface(c, 0, 0)
	if !errors.Is(c.Err(), ErrForeignSurface) {
		t.Fatalf("self stamp not reported")
	}
	c.DrawSurface(NewSoftware(10, 10), 0, 0)
	if err := c.Err(); err != nil {
		t.Fatalf("valid stamp reported %v", err)
	}
}
