// Package geom provides the 2D ground-plane math used by the path planner
// and follower: vectors, compass headings, line intersections and arcs.
//
// Vectors build on r2.Point. Headings are compass-style degrees: 0 is +Y
// (north), increasing clockwise, so Hdg2Dir(90) is (1, 0).
package geom

import (
	"math"

	"github.com/golang/geo/r2"
	"gonum.org/v1/gonum/floats/scalar"
)

// Vec2 is a 2D vector or position in ground-plane meters.
type Vec2 = r2.Point

// NullVec2 is the "no result" sentinel. Test with IsNullVec2, never with ==.
var NullVec2 = Vec2{X: math.NaN(), Y: math.NaN()}

// IsNullVec2 reports whether v is the null-vector sentinel.
func IsNullVec2(v Vec2) bool {
	return math.IsNaN(v.X) || math.IsNaN(v.Y)
}

// Vec2Eq reports whether a and b agree component-wise within tol.
func Vec2Eq(a, b Vec2, tol float64) bool {
	return scalar.EqualWithinAbs(a.X, b.X, tol) && scalar.EqualWithinAbs(a.Y, b.Y, tol)
}

func Deg2Rad(d float64) float64 { return d * math.Pi / 180.0 }

func Rad2Deg(r float64) float64 { return r * 180.0 / math.Pi }

// SetAbs scales v to magnitude abs, preserving direction. A zero vector
// stays zero.
func SetAbs(v Vec2, abs float64) Vec2 {
	n := v.Norm()
	if n == 0 {
		return v
	}
	return v.Mul(abs / n)
}

// Perp returns the perpendicular of v: to the right of v when right is
// true, to the left otherwise.
func Perp(v Vec2, right bool) Vec2 {
	if right {
		return Vec2{X: v.Y, Y: -v.X}
	}
	return Vec2{X: -v.Y, Y: v.X}
}

// Rot rotates v by hdg degrees in the heading sense (clockwise when viewed
// with +Y up), so Rot(Hdg2Dir(h), a) == Hdg2Dir(h+a).
func Rot(v Vec2, hdg float64) Vec2 {
	s, c := math.Sincos(Deg2Rad(hdg))
	return Vec2{X: v.X*c + v.Y*s, Y: -v.X*s + v.Y*c}
}

// Dist returns the distance between points a and b.
func Dist(a, b Vec2) float64 {
	return a.Sub(b).Norm()
}

// Hdg2Dir converts a compass heading to a unit direction vector.
func Hdg2Dir(hdg float64) Vec2 {
	s, c := math.Sincos(Deg2Rad(hdg))
	return Vec2{X: s, Y: c}
}

// Dir2Hdg converts a direction vector to a compass heading in [0, 360).
func Dir2Hdg(v Vec2) float64 {
	return NormalizeHdg(Rad2Deg(math.Atan2(v.X, v.Y)))
}

// NormalizeHdg wraps a heading into [0, 360).
func NormalizeHdg(hdg float64) float64 {
	h := math.Mod(hdg, 360)
	if h < 0 {
		h += 360
	}
	return h
}

// RelHdg returns the signed shortest turn from heading a to heading b, in
// (-180, 180]. Positive means turn right (clockwise).
func RelHdg(a, b float64) float64 {
	d := NormalizeHdg(b - a)
	if d > 180 {
		d -= 360
	}
	return d
}

const isectEpsilon = 1e-12

// Isect intersects the line through oa along a with the line through ob
// along b. When confined is true only the segment extents [oa, oa+a] and
// [ob, ob+b] count. Returns NullVec2 when the lines are parallel or, in
// confined mode, do not meet within the segments.
func Isect(a, oa, b, ob Vec2, confined bool) Vec2 {
	cross := a.Cross(b)
	if math.Abs(cross) < isectEpsilon {
		return NullVec2
	}
	d := ob.Sub(oa)
	t := d.Cross(b) / cross
	s := d.Cross(a) / cross
	if confined && (t < 0 || t > 1 || s < 0 || s > 1) {
		return NullVec2
	}
	return oa.Add(a.Mul(t))
}

// IsOnArc reports whether heading hdg lies on the arc swept from start to
// end, clockwise or counterclockwise.
func IsOnArc(hdg, start, end float64, clockwise bool) bool {
	hdg = NormalizeHdg(hdg)
	start = NormalizeHdg(start)
	end = NormalizeHdg(end)
	if !clockwise {
		start, end = end, start
	}
	if start <= end {
		return hdg >= start && hdg <= end
	}
	return hdg >= start || hdg <= end
}

// ArcPoints samples the arc centered at c from point p0 through sweep
// degrees (heading sense) in steps of at most stepDeg, including both
// endpoints. Used for drawing turn segments.
func ArcPoints(c, p0 Vec2, sweep, stepDeg float64) []Vec2 {
	if stepDeg <= 0 {
		stepDeg = 5
	}
	v := p0.Sub(c)
	n := int(math.Ceil(math.Abs(sweep)/stepDeg)) + 1
	if n < 2 {
		n = 2
	}
	pts := make([]Vec2, n)
	for i := 0; i < n; i++ {
		a := sweep * float64(i) / float64(n-1)
		pts[i] = c.Add(Rot(v, a))
	}
	return pts
}
