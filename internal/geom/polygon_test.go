package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewSquare(t *testing.T) {
	p := NewSquare(2)
	assert.Equal(t, []Point{{0, 0}, {2, 0}, {2, 2}, {0, 2}}, p.Vertices)
}

func TestNewRectangle(t *testing.T) {
	p := NewRectangle(3, 2)
	assert.Equal(t, []Point{{0, 0}, {3, 0}, {3, 2}, {0, 2}}, p.Vertices)
}

func TestNewTriangle(t *testing.T) {
	p := NewTriangle(4, 3)
	assert.Equal(t, []Point{{0, 0}, {4, 0}, {2, 3}}, p.Vertices)
}

func TestNewCircle(t *testing.T) {
	center := Point{X: 10, Y: 20}
	p := NewCircle(center, 5, 16)
	assert.Len(t, p.Vertices, 16)

	// First vertex sits on the +x axis from the center; every vertex is
	// one radius away.
	assert.InDelta(t, 15, p.Vertices[0].X, eps)
	assert.InDelta(t, 20, p.Vertices[0].Y, eps)
	for _, v := range p.Vertices {
		assert.InDelta(t, 5, v.Distance(center), eps)
	}
}

func TestNewCircleDefaultSegments(t *testing.T) {
	assert.Len(t, NewCircle(Point{}, 1, 0).Vertices, DefaultCircleSegments)
	assert.Len(t, NewCircle(Point{}, 1, -4).Vertices, DefaultCircleSegments)
}

func TestArea(t *testing.T) {
	assert.InDelta(t, 4, Area(NewSquare(2)), eps)
	assert.InDelta(t, 6, Area(NewTriangle(4, 3)), eps)
	assert.InDelta(t, 6, Area(NewRectangle(3, 2)), eps)
}

func TestAreaWindingInvariant(t *testing.T) {
	p := NewSquare(2)
	reversed := Polygon{Vertices: make([]Point, len(p.Vertices))}
	for i, v := range p.Vertices {
		reversed.Vertices[len(p.Vertices)-1-i] = v
	}
	assert.InDelta(t, Area(p), Area(reversed), eps)
}

func TestAreaDegenerate(t *testing.T) {
	assert.Zero(t, Area(Polygon{}))
	assert.Zero(t, Area(Polygon{Vertices: []Point{{1, 1}}}))
	assert.Zero(t, Area(Polygon{Vertices: []Point{{0, 0}, {5, 5}}}))
}

func TestAreaCircleApproximation(t *testing.T) {
	// A 1000-gon of radius 1 lands within 1e-3 of the true disc area.
	assert.InDelta(t, math.Pi, Area(NewCircle(Point{}, 1, 1000)), 1e-3)

	// A 128-gon is within a tenth of a percent of the true disc area; the
	// default 32-gon is within one percent.
	fine := Area(NewCircle(Point{}, 10, 128))
	assert.InEpsilon(t, math.Pi*100, fine, 1e-3)

	coarse := Area(NewCircle(Point{}, 10, DefaultCircleSegments))
	assert.InEpsilon(t, math.Pi*100, coarse, 1e-2)
}

func TestPerimeter(t *testing.T) {
	assert.InDelta(t, 4, Perimeter(NewSquare(1)), eps)
	assert.InDelta(t, 8, Perimeter(NewSquare(2)), eps)
	assert.InDelta(t, 10, Perimeter(NewRectangle(3, 2)), eps)
}

func TestPerimeterDegenerate(t *testing.T) {
	assert.Zero(t, Perimeter(Polygon{}))
	assert.Zero(t, Perimeter(Polygon{Vertices: []Point{{2, 2}}}))

	// Two vertices count their single edge once, not out and back.
	open := Polygon{Vertices: []Point{{0, 0}, {3, 4}}}
	assert.InDelta(t, 5, Perimeter(open), eps)
}

func TestPerimeterCircleApproximation(t *testing.T) {
	got := Perimeter(NewCircle(Point{}, 10, 128))
	assert.InEpsilon(t, 2*math.Pi*10, got, 1e-3)
}

func TestCentroid(t *testing.T) {
	c := Centroid(NewSquare(2))
	assert.InDelta(t, 1, c.X, eps)
	assert.InDelta(t, 1, c.Y, eps)

	c = Centroid(NewTriangle(4, 3))
	assert.InDelta(t, 2, c.X, eps)
	assert.InDelta(t, 1, c.Y, eps)
}

func TestCentroidDegenerate(t *testing.T) {
	assert.Equal(t, Point{}, Centroid(Polygon{}))
	assert.Equal(t, Point{X: 3, Y: 4}, Centroid(Polygon{Vertices: []Point{{3, 4}}}))
}

func TestContains(t *testing.T) {
	p := NewSquare(2)

	assert.True(t, Contains(p, Point{X: 1, Y: 1}))
	assert.True(t, Contains(p, Point{X: 0.001, Y: 1.999}))
	assert.False(t, Contains(p, Point{X: 3, Y: 1}))
	assert.False(t, Contains(p, Point{X: -0.001, Y: 1}))
	assert.False(t, Contains(p, Point{X: 1, Y: 2.5}))
}

func TestContainsBoundary(t *testing.T) {
	// The crossing arithmetic is half-open: the minimum-x and minimum-y
	// edges land inside, the opposite edges outside.
	p := NewSquare(2)
	assert.True(t, Contains(p, Point{X: 0, Y: 1}))
	assert.True(t, Contains(p, Point{X: 1, Y: 0}))
	assert.False(t, Contains(p, Point{X: 2, Y: 1}))
	assert.False(t, Contains(p, Point{X: 1, Y: 2}))
}

func TestContainsDegenerate(t *testing.T) {
	assert.False(t, Contains(Polygon{}, Point{}))
	assert.False(t, Contains(Polygon{Vertices: []Point{{0, 0}}}, Point{}))

	line := Polygon{Vertices: []Point{{0, 0}, {10, 10}}}
	assert.False(t, Contains(line, Point{X: 5, Y: 5}))
}

func TestContainsConcave(t *testing.T) {
	// An L shape: the notch is outside even though it is inside the
	// bounding box.
	l := Polygon{Vertices: []Point{
		{0, 0}, {4, 0}, {4, 1}, {1, 1}, {1, 4}, {0, 4},
	}}
	assert.True(t, Contains(l, Point{X: 2, Y: 0.5}))
	assert.True(t, Contains(l, Point{X: 0.5, Y: 2}))
	assert.False(t, Contains(l, Point{X: 2, Y: 2}))
}

func TestContainsCircle(t *testing.T) {
	c := NewCircle(Point{X: 50, Y: 50}, 10, DefaultCircleSegments)
	assert.True(t, Contains(c, Point{X: 50, Y: 50}))
	assert.True(t, Contains(c, Point{X: 57, Y: 50}))
	assert.False(t, Contains(c, Point{X: 61, Y: 50}))
}

func TestTransform(t *testing.T) {
	p := NewSquare(1)
	moved := Transform(p, Translation(2, 3))

	c := Centroid(moved)
	assert.InDelta(t, 2.5, c.X, eps)
	assert.InDelta(t, 3.5, c.Y, eps)

	// The input polygon is untouched.
	assert.Equal(t, Point{}, p.Vertices[0])
}

func TestTransformPreservesMetricsUnderRotation(t *testing.T) {
	p := NewRectangle(3, 2)
	rotated := Transform(p, Rotation(33))

	assert.InDelta(t, Area(p), Area(rotated), eps)
	assert.InDelta(t, Perimeter(p), Perimeter(rotated), eps)
}

func TestTransformRoundTrip(t *testing.T) {
	m := NewMatrix(Point{X: 40, Y: -10}, 72, 2.5)
	inv, err := m.Invert()
	assert.NoError(t, err)

	p := NewTriangle(4, 3)
	back := Transform(Transform(p, m), inv)
	for i, v := range back.Vertices {
		assert.InDelta(t, p.Vertices[i].X, v.X, eps)
		assert.InDelta(t, p.Vertices[i].Y, v.Y, eps)
	}
}

func TestBoundsOf(t *testing.T) {
	b := BoundsOf(NewTriangle(4, 3))
	assert.Equal(t, Rect{X: 0, Y: 0, Width: 4, Height: 3}, b)

	assert.True(t, BoundsOf(Polygon{}).IsEmpty())
}

func TestVectorOps(t *testing.T) {
	v := Point{X: 3, Y: 4}.Sub(Point{})
	assert.InDelta(t, 5, v.Magnitude(), eps)

	unit := v.Normalized()
	assert.InDelta(t, 1, unit.Magnitude(), eps)
	assert.InDelta(t, 0.6, unit.X, eps)
	assert.InDelta(t, 0.8, unit.Y, eps)

	assert.Equal(t, Vector{}, Vector{}.Normalized())

	p := Point{X: 1, Y: 1}.Add(Vector{X: 2, Y: -1})
	assert.Equal(t, Point{X: 3, Y: 0}, p)
}
