package geom

import "math"

const quadEpsilon = 1e-10

// QuadraticSolve returns the real roots of a*x^2 + b*x + c = 0. It returns
// zero, one or two roots. A near-zero leading coefficient degrades to the
// linear equation instead of dividing by it.
func QuadraticSolve(a, b, c float64) []float64 {
	if math.Abs(a) < quadEpsilon {
		if math.Abs(b) < quadEpsilon {
			return nil
		}
		return []float64{-c / b}
	}
	d := b*b - 4*a*c
	if d < 0 {
		return nil
	}
	if d == 0 {
		return []float64{-b / (2 * a)}
	}
	sq := math.Sqrt(d)
	return []float64{(-b - sq) / (2 * a), (-b + sq) / (2 * a)}
}
