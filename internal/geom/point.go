package geom

import "math"

// Point is a position in 2D space. The y axis grows downward, matching
// screen coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p shifted by v.
func (p Point) Add(v Vector) Point {
	return Point{X: p.X + v.X, Y: p.Y + v.Y}
}

// Sub returns the vector from q to p.
func (p Point) Sub(q Point) Vector {
	return Vector{X: p.X - q.X, Y: p.Y - q.Y}
}

// Distance returns the Euclidean distance between p and q.
func (p Point) Distance(q Point) float64 {
	dx := p.X - q.X
	dy := p.Y - q.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Vector is a displacement in 2D space.
type Vector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Magnitude returns the length of v.
func (v Vector) Magnitude() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// Normalized returns the unit vector in the direction of v. The zero
// vector normalizes to itself.
func (v Vector) Normalized() Vector {
	mag := v.Magnitude()
	if mag == 0 {
		return Vector{}
	}
	return Vector{X: v.X / mag, Y: v.Y / mag}
}
