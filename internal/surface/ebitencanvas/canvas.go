// Package ebitencanvas implements surface.Surface on top of ebiten images.
//
// Paths are flattened into device space as they are built and filled with
// vector.FillPath. A clip is kept as a device-space path: clipped drawing
// goes to a scratch image first, which is cut down to the clip through a
// mask before it reaches the destination.
package ebitencanvas

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/iburimskiy/kaleidoscope/internal/surface"
)

type state struct {
	geo    ebiten.GeoM
	fill   color.NRGBA
	shadow surface.Shadow
	clip   *vector.Path
}

type Canvas struct {
	dst   *ebiten.Image
	st    state
	stack []state

	path     vector.Path
	hasPoint bool

	scratch *ebiten.Image
	mask    *ebiten.Image
}

// New allocates an offscreen canvas.
func New(width, height int) *Canvas {
	return Wrap(ebiten.NewImage(width, height))
}

// Wrap draws onto an existing image, such as the screen passed to Draw.
func Wrap(img *ebiten.Image) *Canvas {
	return &Canvas{dst: img, st: state{fill: color.NRGBA{A: 0xff}}}
}

// Retarget points the canvas at img and drops any saved state. The screen
// image changes between frames, so the game calls this at the top of Draw.
func (c *Canvas) Retarget(img *ebiten.Image) {
	c.dst = img
	c.stack = c.stack[:0]
	c.st = state{fill: color.NRGBA{A: 0xff}}
	c.BeginPath()
}

func (c *Canvas) Image() *ebiten.Image { return c.dst }

func (c *Canvas) Width() int  { return c.dst.Bounds().Dx() }
func (c *Canvas) Height() int { return c.dst.Bounds().Dy() }

func (c *Canvas) Save() { c.stack = append(c.stack, c.st) }

func (c *Canvas) Restore() {
	if len(c.stack) == 0 {
		return
	}
	c.st = c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
}

// prepend makes m act on local coordinates before the current transform,
// which is how canvas transforms compose.
func (c *Canvas) prepend(m ebiten.GeoM) {
	m.Concat(c.st.geo)
	c.st.geo = m
}

func (c *Canvas) Translate(x, y float64) {
	var m ebiten.GeoM
	m.Translate(x, y)
	c.prepend(m)
}

func (c *Canvas) Rotate(angle float64) {
	var m ebiten.GeoM
	m.Rotate(angle)
	c.prepend(m)
}

func (c *Canvas) Scale(x, y float64) {
	var m ebiten.GeoM
	m.Scale(x, y)
	c.prepend(m)
}

func (c *Canvas) BeginPath() {
	c.path.Reset()
	c.hasPoint = false
}

func (c *Canvas) device(x, y float64) (float32, float32) {
	dx, dy := c.st.geo.Apply(x, y)
	return float32(dx), float32(dy)
}

func (c *Canvas) MoveTo(x, y float64) {
	c.path.MoveTo(c.device(x, y))
	c.hasPoint = true
}

func (c *Canvas) LineTo(x, y float64) {
	if !c.hasPoint {
		c.MoveTo(x, y)
		return
	}
	c.path.LineTo(c.device(x, y))
}

func (c *Canvas) Arc(x, y, radius, startAngle, endAngle float64) {
	for _, p := range surface.FlattenArc(x, y, radius, startAngle, endAngle) {
		c.LineTo(p[0], p[1])
	}
}

func (c *Canvas) Rect(x, y, w, h float64) {
	c.appendRect(&c.path, x, y, w, h)
	c.MoveTo(x, y)
}

// appendRect adds the closed rectangle to p in device space.
func (c *Canvas) appendRect(p *vector.Path, x, y, w, h float64) {
	p.MoveTo(c.device(x, y))
	p.LineTo(c.device(x+w, y))
	p.LineTo(c.device(x+w, y+h))
	p.LineTo(c.device(x, y+h))
	p.Close()
}

func (c *Canvas) ClosePath() { c.path.Close() }

func (c *Canvas) SetFillColor(col color.Color) {
	c.st.fill = color.NRGBAModel.Convert(col).(color.NRGBA)
}

func (c *Canvas) SetShadow(s surface.Shadow) { c.st.shadow = s }

func (c *Canvas) Fill() { c.fillPath(&c.path) }

func (c *Canvas) fillPath(p *vector.Path) {
	if c.st.shadow.Enabled() {
		c.fillShadow(p)
	}
	var cs ebiten.ColorScale
	cs.ScaleWithColor(c.st.fill)
	c.paint(p, cs)
}

// fillShadow approximates a blurred shadow with a few offset passes at a
// fraction of the shadow alpha each.
func (c *Canvas) fillShadow(p *vector.Path) {
	sh := c.st.shadow
	offsets := [][2]float64{{0, 0}}
	if sh.Blur > 0 {
		b := sh.Blur / 2
		offsets = [][2]float64{{-b, -b}, {b, -b}, {-b, b}, {b, b}}
	}
	var cs ebiten.ColorScale
	cs.ScaleWithColor(sh.Color)
	cs.ScaleAlpha(1 / float32(len(offsets)))
	for _, o := range offsets {
		var shadow vector.Path
		op := &vector.AddPathOptions{}
		op.GeoM.Translate(sh.OffsetX+o[0], sh.OffsetY+o[1])
		shadow.AddPath(p, op)
		c.paint(&shadow, cs)
	}
}

// paint fills p, routing through the clip when one is set.
func (c *Canvas) paint(p *vector.Path, cs ebiten.ColorScale) {
	op := &vector.DrawPathOptions{AntiAlias: true, ColorScale: cs}
	if c.st.clip == nil {
		vector.FillPath(c.dst, p, nil, op)
		return
	}
	scratch := fit(&c.scratch, c.dst)
	scratch.Clear()
	vector.FillPath(scratch, p, nil, op)
	c.drawClipped(scratch)
}

// fit returns *img resized to match dst, reallocating when the size changed.
func fit(img **ebiten.Image, dst *ebiten.Image) *ebiten.Image {
	b := dst.Bounds()
	if *img == nil || (*img).Bounds().Dx() != b.Dx() || (*img).Bounds().Dy() != b.Dy() {
		if *img != nil {
			(*img).Deallocate()
		}
		*img = ebiten.NewImage(b.Dx(), b.Dy())
	}
	return *img
}

// drawClipped keeps the part of layer inside the clip and draws it onto the
// destination. layer is left masked.
func (c *Canvas) drawClipped(layer *ebiten.Image) {
	mask := fit(&c.mask, c.dst)
	mask.Clear()
	vector.FillPath(mask, c.st.clip, nil, &vector.DrawPathOptions{AntiAlias: true})
	layer.DrawImage(mask, &ebiten.DrawImageOptions{Blend: ebiten.BlendDestinationIn})
	c.dst.DrawImage(layer, nil)
}

// Clip replaces the clip with the current path. Nested clips are not
// intersected; the compositor only ever sets one per save scope.
func (c *Canvas) Clip() {
	clip := &vector.Path{}
	clip.AddPath(&c.path, nil)
	c.st.clip = clip
}

func (c *Canvas) ClearRect(x, y, w, h float64) {
	if c.st.geo == (ebiten.GeoM{}) && c.st.clip == nil &&
		x <= 0 && y <= 0 && x+w >= float64(c.Width()) && y+h >= float64(c.Height()) {
		c.dst.Clear()
		return
	}
	var p vector.Path
	c.appendRect(&p, x, y, w, h)
	vector.FillPath(c.dst, &p, nil, &vector.DrawPathOptions{Blend: ebiten.BlendClear})
}

func (c *Canvas) FillRect(x, y, w, h float64) {
	var p vector.Path
	c.appendRect(&p, x, y, w, h)
	c.fillPath(&p)
}

// DrawSurface stamps another ebitencanvas.Canvas. Other implementations are
// ignored.
func (c *Canvas) DrawSurface(src surface.Surface, x, y float64) {
	s, ok := src.(*Canvas)
	if !ok || s.dst == c.dst {
		return
	}
	op := &ebiten.DrawImageOptions{Filter: ebiten.FilterLinear}
	op.GeoM.Translate(x, y)
	op.GeoM.Concat(c.st.geo)
	if c.st.clip == nil {
		c.dst.DrawImage(s.dst, op)
		return
	}
	scratch := fit(&c.scratch, c.dst)
	scratch.Clear()
	scratch.DrawImage(s.dst, op)
	c.drawClipped(scratch)
}
