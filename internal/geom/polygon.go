package geom

import "math"

// DefaultCircleSegments is the segment count used when a circle is built
// without an explicit one.
const DefaultCircleSegments = 32

// Polygon is an ordered vertex list. The closing edge from the last
// vertex back to the first is implicit.
type Polygon struct {
	Vertices []Point `json:"vertices"`
}

// NewSquare returns a square of the given side length with its top-left
// corner at the origin.
func NewSquare(size float64) Polygon {
	return Polygon{Vertices: []Point{
		{X: 0, Y: 0},
		{X: size, Y: 0},
		{X: size, Y: size},
		{X: 0, Y: size},
	}}
}

// NewRectangle returns a rectangle with its top-left corner at the origin.
func NewRectangle(width, height float64) Polygon {
	return Polygon{Vertices: []Point{
		{X: 0, Y: 0},
		{X: width, Y: 0},
		{X: width, Y: height},
		{X: 0, Y: height},
	}}
}

// NewTriangle returns an isosceles triangle with its base along the x
// axis, starting at the origin, and its apex at (base/2, height).
func NewTriangle(base, height float64) Polygon {
	return Polygon{Vertices: []Point{
		{X: 0, Y: 0},
		{X: base, Y: 0},
		{X: base / 2, Y: height},
	}}
}

// NewCircle returns a regular polygon approximating a circle. A segment
// count of zero or less falls back to DefaultCircleSegments.
func NewCircle(center Point, radius float64, segments int) Polygon {
	if segments <= 0 {
		segments = DefaultCircleSegments
	}
	vertices := make([]Point, segments)
	for i := range vertices {
		angle := 2 * math.Pi * float64(i) / float64(segments)
		vertices[i] = Point{
			X: center.X + radius*math.Cos(angle),
			Y: center.Y + radius*math.Sin(angle),
		}
	}
	return Polygon{Vertices: vertices}
}

// Area returns the polygon's area by the shoelace formula. Polygons with
// fewer than three vertices have no area.
func Area(p Polygon) float64 {
	n := len(p.Vertices)
	if n < 3 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += p.Vertices[i].X * p.Vertices[j].Y
		sum -= p.Vertices[j].X * p.Vertices[i].Y
	}
	return math.Abs(sum) / 2
}

// Perimeter returns the total edge length of the closed polygon. A
// two-vertex polygon counts its single edge once; fewer vertices give
// zero.
func Perimeter(p Polygon) float64 {
	n := len(p.Vertices)
	if n < 2 {
		return 0
	}
	if n == 2 {
		return p.Vertices[0].Distance(p.Vertices[1])
	}
	var sum float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += p.Vertices[i].Distance(p.Vertices[j])
	}
	return sum
}

// Centroid returns the arithmetic mean of the vertices. This is the
// anchor the editor rotates and scales around, not the center of mass of
// the filled region. An empty polygon yields the origin.
func Centroid(p Polygon) Point {
	n := len(p.Vertices)
	if n == 0 {
		return Point{}
	}
	var sx, sy float64
	for _, v := range p.Vertices {
		sx += v.X
		sy += v.Y
	}
	return Point{X: sx / float64(n), Y: sy / float64(n)}
}

// Contains reports whether pt lies inside the polygon, by the even-odd
// ray casting rule. Polygons with fewer than three vertices contain
// nothing. Points exactly on an edge follow the crossing arithmetic: for
// an axis-aligned rectangle the minimum-x and minimum-y edges count as
// inside, the opposite edges as outside. Callers must not rely on
// boundary results.
func Contains(p Polygon, pt Point) bool {
	n := len(p.Vertices)
	if n < 3 {
		return false
	}
	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		vi := p.Vertices[i]
		vj := p.Vertices[j]
		if (vi.Y > pt.Y) != (vj.Y > pt.Y) &&
			pt.X < (vj.X-vi.X)*(pt.Y-vi.Y)/(vj.Y-vi.Y)+vi.X {
			inside = !inside
		}
	}
	return inside
}

// Transform returns a new polygon with every vertex passed through m.
// The input polygon is never modified.
func Transform(p Polygon, m Matrix) Polygon {
	out := make([]Point, len(p.Vertices))
	for i, v := range p.Vertices {
		out[i] = m.Apply(v)
	}
	return Polygon{Vertices: out}
}
