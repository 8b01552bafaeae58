package surface

import "math"

// maxArcStep is the longest chord, in local units, used when flattening arcs.
const maxArcStep = 4.0

// FlattenArc returns points along a clockwise arc from start to end,
// inclusive of both ends. Backends without a native arc primitive transform
// these points one by one so arcs survive rotation and mirroring.
func FlattenArc(cx, cy, radius, start, end float64) [][2]float64 {
	sweep := end - start
	if sweep < 0 {
		sweep = math.Mod(sweep, 2*math.Pi) + 2*math.Pi
	}
	if sweep > 2*math.Pi {
		sweep = 2 * math.Pi
	}
	n := int(math.Ceil(sweep * radius / maxArcStep))
	if n < 8 {
		n = 8
	}
	if n > 512 {
		n = 512
	}
	pts := make([][2]float64, 0, n+1)
	for i := 0; i <= n; i++ {
		a := start + sweep*float64(i)/float64(n)
		s, c := math.Sincos(a)
		pts = append(pts, [2]float64{cx + radius*c, cy + radius*s})
	}
	return pts
}
