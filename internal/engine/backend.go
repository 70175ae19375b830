package engine

import "github.com/shapepad/shapepad/engine-go/internal/geom"

// Op identifies one geometry operation a backend can serve.
type Op uint32

const (
	OpArea Op = 1 << iota
	OpPerimeter
	OpCentroid
	OpContains
	OpTransform
)

// AllOps is the mask of every operation.
const AllOps = OpArea | OpPerimeter | OpCentroid | OpContains | OpTransform

// allOps lists the operations in a stable order for status reporting.
var allOps = []Op{OpArea, OpPerimeter, OpCentroid, OpContains, OpTransform}

func (op Op) String() string {
	switch op {
	case OpArea:
		return "area"
	case OpPerimeter:
		return "perimeter"
	case OpCentroid:
		return "centroid"
	case OpContains:
		return "contains"
	case OpTransform:
		return "transform"
	}
	return "unknown"
}

// Backend is an alternate compute path for geometry operations. The
// reference implementations in the geom package define correct results; a
// backend exists to produce the same answers faster. Implementations must
// be safe for concurrent use.
type Backend interface {
	// Name identifies the backend in logs and status reports.
	Name() string

	// Init prepares the backend. A backend whose Init fails is discarded
	// and never called again.
	Init() error

	// Supports reports whether the backend wants to serve an operation.
	// Unsupported operations stay on the reference path without counting
	// as failures.
	Supports(op Op) bool

	Area(p geom.Polygon) (float64, error)
	Perimeter(p geom.Polygon) (float64, error)
	Centroid(p geom.Polygon) (geom.Point, error)
	Contains(p geom.Polygon, pt geom.Point) (bool, error)
	Transform(p geom.Polygon, m geom.Matrix) (geom.Polygon, error)
}
