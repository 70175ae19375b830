package scene

import (
	"sync"

	"github.com/shapepad/shapepad/engine-go/internal/engine"
	"github.com/shapepad/shapepad/engine-go/internal/geom"
	"github.com/shapepad/shapepad/engine-go/internal/typeid"
)

// Store holds the shapes of one editing session in z-order: the shape
// added last is topmost. All geometry queries route through the engine
// facade.
type Store struct {
	engine *engine.Engine

	mu     sync.RWMutex
	shapes []Shape
}

// NewStore returns an empty store backed by the given engine.
func NewStore(eng *engine.Engine) *Store {
	return &Store{engine: eng}
}

// Add builds a shape from its construction parameters and places it
// topmost. A zero scale is normalized to 1 so a zero-valued Transform is
// usable as-is.
func (s *Store) Add(kind Kind, params Params, t Transform) (Shape, error) {
	local, err := buildLocal(kind, params)
	if err != nil {
		return Shape{}, err
	}
	if t.Scale == 0 {
		t.Scale = 1
	}
	shape := Shape{
		ID:        typeid.NewShapeID(),
		Kind:      kind,
		Params:    params,
		Local:     local,
		Transform: t,
	}

	s.mu.Lock()
	s.shapes = append(s.shapes, shape)
	s.mu.Unlock()
	return shape, nil
}

// Remove deletes a shape and reports whether it existed. Unknown IDs are
// a no-op.
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.shapes {
		if s.shapes[i].ID == id {
			s.shapes = append(s.shapes[:i], s.shapes[i+1:]...)
			return true
		}
	}
	return false
}

// Get returns a shape by ID.
func (s *Store) Get(id string) (Shape, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.find(id)
	if !ok {
		return Shape{}, false
	}
	return s.shapes[i], true
}

// Len returns the number of shapes.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.shapes)
}

// Shapes returns a copy of the shapes in z-order, bottom first.
func (s *Store) Shapes() []Shape {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Shape, len(s.shapes))
	copy(out, s.shapes)
	return out
}

// SetTransform replaces a shape's transform and returns the updated
// shape. Unknown IDs are a no-op.
func (s *Store) SetTransform(id string, t Transform) (Shape, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.find(id)
	if !ok {
		return Shape{}, false
	}
	s.shapes[i].Transform = t
	return s.shapes[i], true
}

// ApplyPatch merges a partial transform update and returns the updated
// shape. Unknown IDs are a no-op.
func (s *Store) ApplyPatch(id string, patch Patch) (Shape, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.find(id)
	if !ok {
		return Shape{}, false
	}
	t := &s.shapes[i].Transform
	if patch.Translate != nil {
		t.Translate = *patch.Translate
	}
	if patch.RotateDeg != nil {
		t.RotateDeg = *patch.RotateDeg
	}
	if patch.Scale != nil {
		t.Scale = *patch.Scale
	}
	return s.shapes[i], true
}

// Clear removes every shape.
func (s *Store) Clear() {
	s.mu.Lock()
	s.shapes = nil
	s.mu.Unlock()
}

// World returns the shape's polygon in world space.
func (s *Store) World(shape Shape) geom.Polygon {
	return s.engine.Transform(shape.Local, shape.Transform.Matrix())
}

// WorldCentroid returns the vertex mean of the shape's world polygon.
func (s *Store) WorldCentroid(shape Shape) geom.Point {
	return s.engine.Centroid(s.World(shape))
}

// Bounds returns the shape's world axis-aligned bounding box.
func (s *Store) Bounds(shape Shape) geom.Rect {
	return shape.Transform.Matrix().TransformRect(geom.BoundsOf(shape.Local))
}

// HitTest returns the topmost shape whose world polygon contains pt.
// Shapes are tested from the most recently added down, with a bounding
// box pre-check before the full containment test.
func (s *Store) HitTest(pt geom.Point) (Shape, bool) {
	shapes := s.Shapes()
	for i := len(shapes) - 1; i >= 0; i-- {
		b := s.Bounds(shapes[i])
		if b.IsEmpty() || !b.Contains(pt.X, pt.Y) {
			continue
		}
		if s.engine.Contains(s.World(shapes[i]), pt) {
			return shapes[i], true
		}
	}
	return Shape{}, false
}

// find returns the index of a shape. Callers must hold the lock.
func (s *Store) find(id string) (int, bool) {
	for i := range s.shapes {
		if s.shapes[i].ID == id {
			return i, true
		}
	}
	return 0, false
}
