// Package surface defines the drawable-surface capability the renderer
// needs: a small subset of the HTML canvas 2D context with a save/restore
// state stack, path filling, clipping and blitting one surface onto another.
package surface

import "image/color"

// Surface is a canvas-like raster target. Path coordinates are transformed
// by the current transform when they are added, as on an HTML canvas.
type Surface interface {
	Width() int
	Height() int

	// Save pushes the transform, clip, fill colour and shadow.
	Save()
	// Restore pops the state pushed by the matching Save.
	Restore()

	Translate(x, y float64)
	Rotate(angle float64)
	Scale(x, y float64)

	BeginPath()
	MoveTo(x, y float64)
	LineTo(x, y float64)
	// Arc adds a clockwise arc (y points down) from startAngle to endAngle.
	Arc(x, y, radius, startAngle, endAngle float64)
	Rect(x, y, w, h float64)
	ClosePath()

	// Fill paints the current path with the fill colour.
	Fill()
	// Clip restricts subsequent drawing to the current path until Restore.
	Clip()

	SetFillColor(c color.Color)
	SetShadow(s Shadow)

	// ClearRect makes the rectangle fully transparent.
	ClearRect(x, y, w, h float64)
	FillRect(x, y, w, h float64)

	// DrawSurface stamps src with its top-left corner at (x, y).
	DrawSurface(src Surface, x, y float64)
}

// Shadow describes a drop shadow painted under filled shapes. The zero value
// disables it.
type Shadow struct {
	Color   color.Color
	Blur    float64
	OffsetX float64
	OffsetY float64
}

func (s Shadow) Enabled() bool {
	if s.Color == nil {
		return false
	}
	_, _, _, a := s.Color.RGBA()
	return a > 0
}

// Scoped runs fn between Save and Restore. Restore runs on every exit path,
// including a panic in fn, so state set inside fn never leaks out.
func Scoped(s Surface, fn func()) {
	s.Save()
	defer s.Restore()
	fn()
}
