// Package vector holds the source-side representation of drawable
// assets: declarative path segments with fills, strokes and per-segment
// transforms, parsed from SVG-style path data. Assets are resolution
// independent; the raster package turns them into pixels.
package vector

import "math"

// Affine is a 2D affine transform, row-major 2x3:
//
//	| A  B  C |
//	| D  E  F |
//
// mapping (x, y) to (A*x + B*y + C, D*x + E*y + F).
type Affine struct {
	A, B, C float64
	D, E, F float64
}

// Identity returns the identity transform.
func Identity() Affine {
	return Affine{A: 1, E: 1}
}

// Translate returns a translation by (x, y).
func Translate(x, y float64) Affine {
	return Affine{A: 1, C: x, E: 1, F: y}
}

// Scale returns a scale by (x, y) about the origin.
func Scale(x, y float64) Affine {
	return Affine{A: x, E: y}
}

// Rotate returns a rotation by angle radians about the origin.
func Rotate(angle float64) Affine {
	sin, cos := math.Sincos(angle)
	return Affine{A: cos, B: -sin, D: sin, E: cos}
}

// Mul composes two transforms; the result applies other first, then t.
func (t Affine) Mul(other Affine) Affine {
	return Affine{
		A: t.A*other.A + t.B*other.D,
		B: t.A*other.B + t.B*other.E,
		C: t.A*other.C + t.B*other.F + t.C,
		D: t.D*other.A + t.E*other.D,
		E: t.D*other.B + t.E*other.E,
		F: t.D*other.C + t.E*other.F + t.F,
	}
}

// Apply transforms the point (x, y).
func (t Affine) Apply(x, y float64) (float64, float64) {
	return t.A*x + t.B*y + t.C, t.D*x + t.E*y + t.F
}

// IsIdentity reports whether t is exactly the identity transform.
func (t Affine) IsIdentity() bool {
	return t == Affine{A: 1, E: 1}
}

// MaxScale returns an upper bound on how much t stretches distances,
// used to widen stroke geometry under transformed segments.
func (t Affine) MaxScale() float64 {
	sx := math.Hypot(t.A, t.D)
	sy := math.Hypot(t.B, t.E)
	return math.Max(sx, sy)
}
