package svgpath

import (
	"fmt"
	"math"

	"github.com/benoitkugler/svgwriter/svgnum"
	"golang.org/x/image/math/f64"
)

// Matrix2D represents an SVG style affine transform:
//
//	| A C E |
//	| B D F |
//	| 0 0 1 |
//
// In the SVG vocabulary, A is scaleX, B skewY, C skewX,
// D scaleY, E translateX and F translateY.
type Matrix2D struct {
	A, B, C, D, E, F float64
}

// Identity is the identity transform.
var Identity = Matrix2D{1, 0, 0, 1, 0, 0}

// IsIdentity returns true for the identity transform.
func (a Matrix2D) IsIdentity() bool { return a == Identity }

// Transform applies the matrix to the point.
func (a Matrix2D) Transform(x, y float64) (x1, y1 float64) {
	x1 = x*a.A + y*a.C + a.E
	y1 = x*a.B + y*a.D + a.F
	return
}

// TransformVector applies the linear part of the matrix to (x, y).
func (a Matrix2D) TransformVector(x, y float64) (x1, y1 float64) {
	x1 = x*a.A + y*a.C
	y1 = x*a.B + y*a.D
	return
}

// Mult returns a*b: b is applied first.
func (a Matrix2D) Mult(b Matrix2D) Matrix2D {
	return Matrix2D{
		A: a.A*b.A + a.C*b.B,
		B: a.B*b.A + a.D*b.B,
		C: a.A*b.C + a.C*b.D,
		D: a.B*b.C + a.D*b.D,
		E: a.A*b.E + a.C*b.F + a.E,
		F: a.B*b.E + a.D*b.F + a.F,
	}
}

// Invert returns the inverse matrix, or false if a is singular.
func (a Matrix2D) Invert() (Matrix2D, bool) {
	det := a.A*a.D - a.B*a.C
	if det == 0 {
		return Matrix2D{}, false
	}
	return Matrix2D{
		A: a.D / det,
		B: -a.B / det,
		C: -a.C / det,
		D: a.A / det,
		E: (a.C*a.F - a.D*a.E) / det,
		F: (a.B*a.E - a.A*a.F) / det,
	}, true
}

// Translate composes a translation.
func (a Matrix2D) Translate(x, y float64) Matrix2D {
	return a.Mult(Matrix2D{1, 0, 0, 1, x, y})
}

// Scale composes a scaling.
func (a Matrix2D) Scale(x, y float64) Matrix2D {
	return a.Mult(Matrix2D{x, 0, 0, y, 0, 0})
}

// Rotate composes a rotation, theta in radians.
func (a Matrix2D) Rotate(theta float64) Matrix2D {
	s, c := math.Sincos(theta)
	return a.Mult(Matrix2D{c, s, -s, c, 0, 0})
}

// SkewX composes a skew along the x axis, theta in radians.
func (a Matrix2D) SkewX(theta float64) Matrix2D {
	return a.Mult(Matrix2D{1, 0, math.Tan(theta), 1, 0, 0})
}

// SkewY composes a skew along the y axis, theta in radians.
func (a Matrix2D) SkewY(theta float64) Matrix2D {
	return a.Mult(Matrix2D{1, math.Tan(theta), 0, 1, 0, 0})
}

// Shear composes a shear with factors sx (along x) and sy (along y).
func (a Matrix2D) Shear(sx, sy float64) Matrix2D {
	return a.Mult(Matrix2D{1, sy, sx, 1, 0, 0})
}

// Aff3 returns the matrix in the row major layout of
// golang.org/x/image/math/f64.
func (a Matrix2D) Aff3() f64.Aff3 {
	return f64.Aff3{a.A, a.C, a.E, a.B, a.D, a.F}
}

// FromAff3 is the inverse of Aff3.
func FromAff3(m f64.Aff3) Matrix2D {
	return Matrix2D{A: m[0], C: m[1], E: m[2], B: m[3], D: m[4], F: m[5]}
}

// Encode returns the "matrix(a,b,c,d,e,f)" transform attribute,
// components formatted with f.
func (a Matrix2D) Encode(f svgnum.Formatter) (string, error) {
	s, err := svgnum.Join(f, []float64{a.A, a.B, a.C, a.D, a.E, a.F}, ",")
	if err != nil {
		return "", fmt.Errorf("svgpath: transform: %w", err)
	}
	return "matrix(" + s + ")", nil
}

func (a Matrix2D) String() string {
	s, err := a.Encode(svgnum.Shortest{})
	if err != nil {
		return "<invalid matrix>"
	}
	return s
}
