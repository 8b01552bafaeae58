// Package softcanvas adapts tfriedel6/canvas to surface.Surface. It works
// with the pure Go software backend for headless rendering and with any
// canvas created by sdlcanvas for a desktop window.
package softcanvas

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/tfriedel6/canvas"
	"github.com/tfriedel6/canvas/backend/softwarebackend"

	"github.com/iburimskiy/kaleidoscope/internal/surface"
)

type Canvas struct {
	cv *canvas.Canvas
	sw *softwarebackend.SoftwareBackend // nil for GL backed canvases

	// version changes on every draw so stamps know when to re-upload.
	version uint64
	stamps  map[*Canvas]*stamp
	err     error

	hasPoint bool
}

// ErrForeignSurface is recorded when DrawSurface is handed a source that is
// not a softcanvas.Canvas, or the canvas itself.
var ErrForeignSurface = errors.New("softcanvas: cannot stamp this surface")

type stamp struct {
	img     *canvas.Image
	version uint64
}

// NewSoftware allocates an offscreen canvas rendered in pure Go.
func NewSoftware(width, height int) *Canvas {
	sw := softwarebackend.New(width, height)
	return &Canvas{cv: canvas.New(sw), sw: sw}
}

// Wrap adapts an existing canvas, e.g. the one returned by
// sdlcanvas.CreateWindow.
func Wrap(cv *canvas.Canvas) *Canvas {
	return &Canvas{cv: cv}
}

func (c *Canvas) Canvas() *canvas.Canvas { return c.cv }

// RGBA returns the pixels. Software canvases share their backing image,
// others are read back.
func (c *Canvas) RGBA() *image.RGBA {
	if c.sw != nil {
		return c.sw.Image
	}
	return c.cv.GetImageData(0, 0, c.cv.Width(), c.cv.Height())
}

func (c *Canvas) Width() int  { return c.cv.Width() }
func (c *Canvas) Height() int { return c.cv.Height() }

func (c *Canvas) Save()    { c.cv.Save() }
func (c *Canvas) Restore() { c.cv.Restore() }

func (c *Canvas) Translate(x, y float64) { c.cv.Translate(x, y) }
func (c *Canvas) Rotate(angle float64)   { c.cv.Rotate(angle) }
func (c *Canvas) Scale(x, y float64)     { c.cv.Scale(x, y) }

func (c *Canvas) BeginPath() {
	c.cv.BeginPath()
	c.hasPoint = false
}

func (c *Canvas) MoveTo(x, y float64) {
	c.cv.MoveTo(x, y)
	c.hasPoint = true
}

func (c *Canvas) LineTo(x, y float64) {
	if !c.hasPoint {
		c.MoveTo(x, y)
		return
	}
	c.cv.LineTo(x, y)
}

func (c *Canvas) ClosePath() { c.cv.ClosePath() }

// Arc is flattened here rather than passed to cv.Arc, which applies a
// rotated transform to the arc twice.
func (c *Canvas) Arc(x, y, radius, startAngle, endAngle float64) {
	for _, p := range surface.FlattenArc(x, y, radius, startAngle, endAngle) {
		c.LineTo(p[0], p[1])
	}
}

func (c *Canvas) Rect(x, y, w, h float64) {
	c.cv.Rect(x, y, w, h)
	c.hasPoint = true
}

func (c *Canvas) Fill() {
	c.cv.Fill()
	c.version++
}

func (c *Canvas) Clip() { c.cv.Clip() }

func (c *Canvas) SetFillColor(col color.Color) { c.cv.SetFillStyle(RGBA8(col)) }

func (c *Canvas) SetShadow(s surface.Shadow) {
	if !s.Enabled() {
		c.cv.SetShadowColor([4]uint8{})
		c.cv.SetShadowBlur(0)
		c.cv.SetShadowOffset(0, 0)
		return
	}
	c.cv.SetShadowColor(RGBA8(s.Color))
	c.cv.SetShadowBlur(s.Blur)
	c.cv.SetShadowOffset(s.OffsetX, s.OffsetY)
}

func (c *Canvas) ClearRect(x, y, w, h float64) {
	c.cv.ClearRect(x, y, w, h)
	c.version++
}

func (c *Canvas) FillRect(x, y, w, h float64) {
	c.cv.FillRect(x, y, w, h)
	c.version++
}

// DrawSurface stamps another softcanvas.Canvas. The source pixels are
// uploaded once per source version and reused for the remaining stamps.
// A stamp that cannot be drawn is skipped and its error kept for Err.
func (c *Canvas) DrawSurface(src surface.Surface, x, y float64) {
	s, ok := src.(*Canvas)
	if !ok || s == c {
		c.err = fmt.Errorf("%w: %T", ErrForeignSurface, src)
		return
	}
	img, err := c.imageOf(s)
	if err != nil {
		c.err = err
		return
	}
	c.cv.DrawImage(img, x, y)
	c.version++
}

func (c *Canvas) imageOf(s *Canvas) (*canvas.Image, error) {
	if c.stamps == nil {
		c.stamps = make(map[*Canvas]*stamp)
	}
	st, ok := c.stamps[s]
	if !ok {
		img, err := c.cv.LoadImage(s.RGBA())
		if err != nil {
			return nil, fmt.Errorf("load stamp: %w", err)
		}
		st = &stamp{img: img, version: s.version}
		c.stamps[s] = st
		return st.img, nil
	}
	if st.version != s.version {
		if err := st.img.Replace(s.RGBA()); err != nil {
			return nil, fmt.Errorf("replace stamp: %w", err)
		}
		st.version = s.version
	}
	return st.img, nil
}

// Err returns the last stamp error and clears it.
func (c *Canvas) Err() error {
	err := c.err
	c.err = nil
	return err
}

// RGBA8 converts col to the straight-alpha byte form canvas styles accept.
func RGBA8(col color.Color) [4]uint8 {
	n := color.NRGBAModel.Convert(col).(color.NRGBA)
	return [4]uint8{n.R, n.G, n.B, n.A}
}
