package surface

import (
	"image/color"
	"math"

	"golang.org/x/image/math/f64"
)

// Identity is the identity affine transform.
var Identity = f64.Aff3{1, 0, 0, 0, 1, 0}

// Mul returns a·b, the transform that applies b first and then a.
func Mul(a, b f64.Aff3) f64.Aff3 {
	return f64.Aff3{
		a[0]*b[0] + a[1]*b[3], a[0]*b[1] + a[1]*b[4], a[0]*b[2] + a[1]*b[5] + a[2],
		a[3]*b[0] + a[4]*b[3], a[3]*b[1] + a[4]*b[4], a[3]*b[2] + a[4]*b[5] + a[5],
	}
}

// Apply maps (x, y) through m.
func Apply(m f64.Aff3, x, y float64) (float64, float64) {
	return m[0]*x + m[1]*y + m[2], m[3]*x + m[4]*y + m[5]
}

func Translation(x, y float64) f64.Aff3 { return f64.Aff3{1, 0, x, 0, 1, y} }

func Rotation(angle float64) f64.Aff3 {
	s, c := math.Sincos(angle)
	return f64.Aff3{c, -s, 0, s, c, 0}
}

func Scaling(x, y float64) f64.Aff3 { return f64.Aff3{x, 0, 0, 0, y, 0} }

// Segment kinds recorded in a path.
const (
	SegMove = iota
	SegLine
	SegArc
	SegRect
	SegClose
)

// Segment is one path command together with the transform that was current
// when it was added.
type Segment struct {
	Kind       int
	X, Y       float64
	W, H       float64
	Radius     float64
	Start, End float64
	Transform  f64.Aff3
}

// Stamp is one DrawSurface call.
type Stamp struct {
	Source    Surface
	X, Y      float64
	Transform f64.Aff3
	Clip      []Segment
}

// FillOp is one Fill or FillRect call.
type FillOp struct {
	Path   []Segment
	Color  color.Color
	Shadow Shadow
	Clip   []Segment
}

type recState struct {
	m      f64.Aff3
	clip   []Segment
	fill   color.Color
	shadow Shadow
}

// Recorder is a Surface that draws nothing and remembers every operation.
// Tests use it to check transforms, clips and stamp counts.
type Recorder struct {
	W, H int

	Stamps []Stamp
	Fills  []FillOp
	Clears int
	// Ops lists "clear", "fill", "clip" and "stamp" in call order.
	Ops []string
	// MaxDepth is the deepest Save nesting seen.
	MaxDepth int

	st    recState
	stack []recState
	path  []Segment
}

func NewRecorder(w, h int) *Recorder {
	return &Recorder{W: w, H: h, st: recState{m: Identity, fill: color.Black}}
}

// Reset forgets recorded operations but keeps the current state.
func (r *Recorder) Reset() {
	r.Stamps = r.Stamps[:0]
	r.Fills = r.Fills[:0]
	r.Clears = 0
	r.Ops = r.Ops[:0]
}

// Depth is the current Save nesting.
func (r *Recorder) Depth() int { return len(r.stack) }

// Transform is the current transform.
func (r *Recorder) Transform() f64.Aff3 { return r.st.m }

func (r *Recorder) Width() int  { return r.W }
func (r *Recorder) Height() int { return r.H }

func (r *Recorder) Save() {
	r.stack = append(r.stack, r.st)
	if len(r.stack) > r.MaxDepth {
		r.MaxDepth = len(r.stack)
	}
}

func (r *Recorder) Restore() {
	if len(r.stack) == 0 {
		return
	}
	r.st = r.stack[len(r.stack)-1]
	r.stack = r.stack[:len(r.stack)-1]
}

func (r *Recorder) Translate(x, y float64) { r.st.m = Mul(r.st.m, Translation(x, y)) }
func (r *Recorder) Rotate(angle float64)   { r.st.m = Mul(r.st.m, Rotation(angle)) }
func (r *Recorder) Scale(x, y float64)     { r.st.m = Mul(r.st.m, Scaling(x, y)) }

func (r *Recorder) BeginPath() { r.path = nil }

func (r *Recorder) MoveTo(x, y float64) {
	r.path = append(r.path, Segment{Kind: SegMove, X: x, Y: y, Transform: r.st.m})
}

func (r *Recorder) LineTo(x, y float64) {
	r.path = append(r.path, Segment{Kind: SegLine, X: x, Y: y, Transform: r.st.m})
}

func (r *Recorder) Arc(x, y, radius, startAngle, endAngle float64) {
	r.path = append(r.path, Segment{Kind: SegArc, X: x, Y: y, Radius: radius, Start: startAngle, End: endAngle, Transform: r.st.m})
}

func (r *Recorder) Rect(x, y, w, h float64) {
	r.path = append(r.path, Segment{Kind: SegRect, X: x, Y: y, W: w, H: h, Transform: r.st.m})
}

func (r *Recorder) ClosePath() {
	r.path = append(r.path, Segment{Kind: SegClose, Transform: r.st.m})
}

func (r *Recorder) Fill() {
	r.Ops = append(r.Ops, "fill")
	r.Fills = append(r.Fills, FillOp{
		Path:   append([]Segment(nil), r.path...),
		Color:  r.st.fill,
		Shadow: r.st.shadow,
		Clip:   r.st.clip,
	})
}

func (r *Recorder) Clip() {
	r.Ops = append(r.Ops, "clip")
	r.st.clip = append([]Segment(nil), r.path...)
}

func (r *Recorder) SetFillColor(c color.Color) { r.st.fill = c }
func (r *Recorder) SetShadow(s Shadow)         { r.st.shadow = s }

func (r *Recorder) ClearRect(x, y, w, h float64) {
	r.Clears++
	r.Ops = append(r.Ops, "clear")
}

func (r *Recorder) FillRect(x, y, w, h float64) {
	r.Ops = append(r.Ops, "fill")
	r.Fills = append(r.Fills, FillOp{
		Path:  []Segment{{Kind: SegRect, X: x, Y: y, W: w, H: h, Transform: r.st.m}},
		Color: r.st.fill,
		Clip:  r.st.clip,
	})
}

func (r *Recorder) DrawSurface(src Surface, x, y float64) {
	r.Ops = append(r.Ops, "stamp")
	r.Stamps = append(r.Stamps, Stamp{Source: src, X: x, Y: y, Transform: r.st.m, Clip: r.st.clip})
}
