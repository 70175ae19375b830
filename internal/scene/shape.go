package scene

import (
	"errors"
	"fmt"

	"github.com/shapepad/shapepad/engine-go/internal/geom"
)

// ErrUnknownKind is returned when a shape is built from a kind the editor
// does not know.
var ErrUnknownKind = errors.New("scene: unknown shape kind")

// Kind enumerates the shape primitives the editor can place.
type Kind string

const (
	KindSquare    Kind = "square"
	KindRectangle Kind = "rectangle"
	KindTriangle  Kind = "triangle"
	KindCircle    Kind = "circle"
)

// Params carries the construction parameters for a primitive. Only the
// fields matching the shape's kind are read.
type Params struct {
	Size     float64 `json:"size,omitempty"`     // square
	Width    float64 `json:"width,omitempty"`    // rectangle
	Height   float64 `json:"height,omitempty"`   // rectangle, triangle
	Base     float64 `json:"base,omitempty"`     // triangle
	Radius   float64 `json:"radius,omitempty"`   // circle
	Segments int     `json:"segments,omitempty"` // circle, 0 for the default
}

// Transform is a shape's placement: a translation, a rotation in degrees
// and a uniform scale, applied to local vertices in scale-rotate-translate
// order.
type Transform struct {
	Translate geom.Point `json:"translate"`
	RotateDeg float64    `json:"rotateDeg"`
	Scale     float64    `json:"scale"`
}

// Matrix returns the affine transform for t.
func (t Transform) Matrix() geom.Matrix {
	return geom.NewMatrix(t.Translate, t.RotateDeg, t.Scale)
}

// Patch updates individual transform fields; nil fields keep their
// current value.
type Patch struct {
	Translate *geom.Point `json:"translate,omitempty"`
	RotateDeg *float64    `json:"rotateDeg,omitempty"`
	Scale     *float64    `json:"scale,omitempty"`
}

// Shape is one placed polygon. Local holds the kind's untransformed
// vertices; the world outline is Local passed through Transform.
type Shape struct {
	ID        string       `json:"id"`
	Kind      Kind         `json:"kind"`
	Params    Params       `json:"params"`
	Local     geom.Polygon `json:"local"`
	Transform Transform    `json:"transform"`
}

// buildLocal constructs the kind's local-space vertices. Squares,
// rectangles and triangles anchor their first vertex at the origin;
// circles center on it.
func buildLocal(kind Kind, p Params) (geom.Polygon, error) {
	switch kind {
	case KindSquare:
		return geom.NewSquare(p.Size), nil
	case KindRectangle:
		return geom.NewRectangle(p.Width, p.Height), nil
	case KindTriangle:
		return geom.NewTriangle(p.Base, p.Height), nil
	case KindCircle:
		return geom.NewCircle(geom.Point{}, p.Radius, p.Segments), nil
	}
	return geom.Polygon{}, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
}
