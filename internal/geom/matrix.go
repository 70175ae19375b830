package geom

import (
	"errors"
	"math"
)

// ErrSingularMatrix is returned by Invert when the matrix collapses the
// plane and has no inverse.
var ErrSingularMatrix = errors.New("geom: matrix is not invertible")

// Matrix is a 2D affine transform:
//
//	| M11  M12  DX |
//	| M21  M22  DY |
//	|  0    0   1  |
//
// Applying it to a point computes x' = M11*x + M12*y + DX and
// y' = M21*x + M22*y + DY.
type Matrix struct {
	M11 float64 `json:"m11"`
	M12 float64 `json:"m12"`
	M21 float64 `json:"m21"`
	M22 float64 `json:"m22"`
	DX  float64 `json:"dx"`
	DY  float64 `json:"dy"`
}

// Identity returns the identity transform.
func Identity() Matrix {
	return Matrix{M11: 1, M22: 1}
}

// Translation returns a transform that moves points by (dx, dy).
func Translation(dx, dy float64) Matrix {
	return Matrix{M11: 1, M22: 1, DX: dx, DY: dy}
}

// Scaling returns a transform that scales points about the origin.
func Scaling(sx, sy float64) Matrix {
	return Matrix{M11: sx, M22: sy}
}

// Rotation returns a transform that rotates points about the origin by the
// given angle in degrees. Positive angles turn +x toward +y, which reads
// as clockwise on screen.
func Rotation(degrees float64) Matrix {
	rad := degrees * math.Pi / 180
	cos := math.Cos(rad)
	sin := math.Sin(rad)
	return Matrix{M11: cos, M12: -sin, M21: sin, M22: cos}
}

// NewMatrix builds the canonical shape transform: scale first, then
// rotate, then translate.
func NewMatrix(translate Point, rotateDegrees, scale float64) Matrix {
	return Translation(translate.X, translate.Y).
		Multiply(Rotation(rotateDegrees)).
		Multiply(Scaling(scale, scale))
}

// Multiply composes two transforms. The result applies other first, then m.
func (m Matrix) Multiply(other Matrix) Matrix {
	return Matrix{
		M11: m.M11*other.M11 + m.M12*other.M21,
		M12: m.M11*other.M12 + m.M12*other.M22,
		M21: m.M21*other.M11 + m.M22*other.M21,
		M22: m.M21*other.M12 + m.M22*other.M22,
		DX:  m.M11*other.DX + m.M12*other.DY + m.DX,
		DY:  m.M21*other.DX + m.M22*other.DY + m.DY,
	}
}

// TranslateBy composes a further translation onto m.
func TranslateBy(m Matrix, dx, dy float64) Matrix {
	return Translation(dx, dy).Multiply(m)
}

// RotateBy composes a further rotation onto m.
func RotateBy(m Matrix, degrees float64) Matrix {
	return Rotation(degrees).Multiply(m)
}

// ScaleBy composes a further uniform scale onto m.
func ScaleBy(m Matrix, factor float64) Matrix {
	return Scaling(factor, factor).Multiply(m)
}

// Apply transforms a single point.
func (m Matrix) Apply(p Point) Point {
	return Point{
		X: m.M11*p.X + m.M12*p.Y + m.DX,
		Y: m.M21*p.X + m.M22*p.Y + m.DY,
	}
}

// TransformRect returns the axis-aligned bounding box of r after
// transforming its four corners.
func (m Matrix) TransformRect(r Rect) Rect {
	p0 := m.Apply(Point{X: r.X, Y: r.Y})
	p1 := m.Apply(Point{X: r.X + r.Width, Y: r.Y})
	p2 := m.Apply(Point{X: r.X + r.Width, Y: r.Y + r.Height})
	p3 := m.Apply(Point{X: r.X, Y: r.Y + r.Height})

	minX := min(p0.X, min(p1.X, min(p2.X, p3.X)))
	minY := min(p0.Y, min(p1.Y, min(p2.Y, p3.Y)))
	maxX := max(p0.X, max(p1.X, max(p2.X, p3.X)))
	maxY := max(p0.Y, max(p1.Y, max(p2.Y, p3.Y)))

	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Determinant returns the determinant of the linear part of m.
func (m Matrix) Determinant() float64 {
	return m.M11*m.M22 - m.M12*m.M21
}

// Invert returns the inverse transform. Matrices with a near-zero
// determinant have no inverse and return ErrSingularMatrix.
func (m Matrix) Invert() (Matrix, error) {
	det := m.Determinant()
	if math.Abs(det) < 1e-12 {
		return Identity(), ErrSingularMatrix
	}
	invDet := 1 / det
	return Matrix{
		M11: m.M22 * invDet,
		M12: -m.M12 * invDet,
		M21: -m.M21 * invDet,
		M22: m.M11 * invDet,
		DX:  (m.M12*m.DY - m.M22*m.DX) * invDet,
		DY:  (m.M21*m.DX - m.M11*m.DY) * invDet,
	}, nil
}

// IsIdentity reports whether m is the identity within a small epsilon.
func (m Matrix) IsIdentity() bool {
	const eps = 1e-10
	return math.Abs(m.M11-1) < eps &&
		math.Abs(m.M12) < eps &&
		math.Abs(m.M21) < eps &&
		math.Abs(m.M22-1) < eps &&
		math.Abs(m.DX) < eps &&
		math.Abs(m.DY) < eps
}
