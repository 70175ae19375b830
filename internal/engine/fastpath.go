package engine

import (
	"math"

	"github.com/shapepad/shapepad/engine-go/internal/geom"
)

// fastPath is the throughput-tuned compute path. It mirrors the geom
// implementations but trades their clarity for tight loops: no modulo
// wraparound, hoisted vertex locals, and inlined point arithmetic.
type fastPath struct{}

// NewFastPath returns the built-in performance backend.
func NewFastPath() Backend {
	return fastPath{}
}

func (fastPath) Name() string { return "fastpath" }

func (fastPath) Init() error { return nil }

func (fastPath) Supports(Op) bool { return true }

func (fastPath) Area(p geom.Polygon) (float64, error) {
	vs := p.Vertices
	n := len(vs)
	if n < 3 {
		return 0, nil
	}
	prev := vs[n-1]
	var sum float64
	for i := 0; i < n; i++ {
		cur := vs[i]
		sum += prev.X*cur.Y - cur.X*prev.Y
		prev = cur
	}
	if sum < 0 {
		sum = -sum
	}
	return sum / 2, nil
}

func (fastPath) Perimeter(p geom.Polygon) (float64, error) {
	vs := p.Vertices
	n := len(vs)
	if n < 2 {
		return 0, nil
	}
	if n == 2 {
		dx := vs[1].X - vs[0].X
		dy := vs[1].Y - vs[0].Y
		return math.Sqrt(dx*dx + dy*dy), nil
	}
	prev := vs[n-1]
	var sum float64
	for i := 0; i < n; i++ {
		cur := vs[i]
		dx := cur.X - prev.X
		dy := cur.Y - prev.Y
		sum += math.Sqrt(dx*dx + dy*dy)
		prev = cur
	}
	return sum, nil
}

func (fastPath) Centroid(p geom.Polygon) (geom.Point, error) {
	vs := p.Vertices
	n := len(vs)
	if n == 0 {
		return geom.Point{}, nil
	}
	var sx, sy float64
	for i := 0; i < n; i++ {
		sx += vs[i].X
		sy += vs[i].Y
	}
	inv := 1 / float64(n)
	return geom.Point{X: sx * inv, Y: sy * inv}, nil
}

func (fastPath) Contains(p geom.Polygon, pt geom.Point) (bool, error) {
	vs := p.Vertices
	n := len(vs)
	if n < 3 {
		return false, nil
	}
	px, py := pt.X, pt.Y
	inside := false
	prev := vs[n-1]
	for i := 0; i < n; i++ {
		cur := vs[i]
		if (cur.Y > py) != (prev.Y > py) &&
			px < (prev.X-cur.X)*(py-cur.Y)/(prev.Y-cur.Y)+cur.X {
			inside = !inside
		}
		prev = cur
	}
	return inside, nil
}

func (fastPath) Transform(p geom.Polygon, m geom.Matrix) (geom.Polygon, error) {
	vs := p.Vertices
	out := make([]geom.Point, len(vs))
	a, b, tx := m.M11, m.M12, m.DX
	c, d, ty := m.M21, m.M22, m.DY
	for i := 0; i < len(vs); i++ {
		x, y := vs[i].X, vs[i].Y
		out[i] = geom.Point{X: a*x + b*y + tx, Y: c*x + d*y + ty}
	}
	return geom.Polygon{Vertices: out}, nil
}
