package engine

import (
	"fmt"
	"log/slog"
	"math"
	"sync"

	"github.com/shapepad/shapepad/engine-go/internal/geom"
)

// Options configures a new Engine.
type Options struct {
	// Backend overrides the built-in performance backend. Tests use this
	// to inject failing backends.
	Backend Backend

	// DisableFastPath skips backend probing entirely; every call is
	// answered by the reference implementations.
	DisableFastPath bool

	// Logger receives probe and fallback warnings. Nil means
	// slog.Default().
	Logger *slog.Logger
}

// Engine routes geometry operations to the performance backend when it
// can serve them, and to the reference implementations in the geom
// package otherwise. Routing is decided per operation: a backend that
// fails one operation keeps serving the others.
//
// Backend failures are logged and demote the operation to the reference
// path for the lifetime of the engine; they are never surfaced to the
// caller. Every method always returns a usable result.
type Engine struct {
	logger  *slog.Logger
	backend Backend

	mu   sync.RWMutex
	live Op // operations still served by the performance backend
}

// New builds an engine. The performance backend is initialized and then
// probed one operation at a time against known answers; operations that
// fail the probe start on the reference path.
func New(opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	e := &Engine{logger: logger}

	if opts.DisableFastPath {
		return e
	}

	backend := opts.Backend
	if backend == nil {
		backend = NewFastPath()
	}
	if err := backend.Init(); err != nil {
		logger.Warn("performance backend init failed, using reference implementations",
			"backend", backend.Name(), "error", err)
		return e
	}

	e.backend = backend
	e.live = e.probe(backend)
	if e.live == 0 {
		e.backend = nil
	}
	return e
}

// probe verifies each operation against the reference implementation on
// small fixtures and returns the mask of operations the backend may
// serve.
func (e *Engine) probe(b Backend) Op {
	var live Op
	for _, op := range allOps {
		if !b.Supports(op) {
			continue
		}
		if err := verifyOp(b, op); err != nil {
			e.logger.Warn("performance backend failed verification, operation stays on reference path",
				"backend", b.Name(), "op", op.String(), "error", err)
			continue
		}
		live |= op
	}
	return live
}

// verifyOp checks one operation for agreement with the reference
// implementation. A panic counts as a failure.
func verifyOp(b Backend, op Op) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	const tol = 1e-9
	square := geom.NewSquare(2)

	switch op {
	case OpArea:
		got, aerr := b.Area(square)
		if aerr != nil {
			return aerr
		}
		if math.Abs(got-4) > tol {
			return fmt.Errorf("area of unit fixture: got %v, want 4", got)
		}
	case OpPerimeter:
		got, perr := b.Perimeter(square)
		if perr != nil {
			return perr
		}
		if math.Abs(got-8) > tol {
			return fmt.Errorf("perimeter of unit fixture: got %v, want 8", got)
		}
	case OpCentroid:
		got, cerr := b.Centroid(square)
		if cerr != nil {
			return cerr
		}
		if math.Abs(got.X-1) > tol || math.Abs(got.Y-1) > tol {
			return fmt.Errorf("centroid of unit fixture: got %v, want (1,1)", got)
		}
	case OpContains:
		in, ierr := b.Contains(square, geom.Point{X: 1, Y: 1})
		if ierr != nil {
			return ierr
		}
		out, oerr := b.Contains(square, geom.Point{X: 5, Y: 5})
		if oerr != nil {
			return oerr
		}
		if !in || out {
			return fmt.Errorf("containment of unit fixture: got in=%v out=%v", in, out)
		}
	case OpTransform:
		got, terr := b.Transform(square, geom.Translation(3, 4))
		if terr != nil {
			return terr
		}
		want := geom.Point{X: 3, Y: 4}
		if len(got.Vertices) != 4 ||
			math.Abs(got.Vertices[0].X-want.X) > tol ||
			math.Abs(got.Vertices[0].Y-want.Y) > tol {
			return fmt.Errorf("translation of unit fixture: got %v", got.Vertices)
		}
	}
	return nil
}

// Area returns the polygon's area.
func (e *Engine) Area(p geom.Polygon) float64 {
	if e.opLive(OpArea) {
		if v, ok := e.fastArea(p); ok {
			return v
		}
	}
	return geom.Area(p)
}

// Perimeter returns the polygon's closed perimeter.
func (e *Engine) Perimeter(p geom.Polygon) float64 {
	if e.opLive(OpPerimeter) {
		if v, ok := e.fastPerimeter(p); ok {
			return v
		}
	}
	return geom.Perimeter(p)
}

// Centroid returns the vertex mean of the polygon.
func (e *Engine) Centroid(p geom.Polygon) geom.Point {
	if e.opLive(OpCentroid) {
		if v, ok := e.fastCentroid(p); ok {
			return v
		}
	}
	return geom.Centroid(p)
}

// Contains reports whether pt lies inside the polygon.
func (e *Engine) Contains(p geom.Polygon, pt geom.Point) bool {
	if e.opLive(OpContains) {
		if v, ok := e.fastContains(p, pt); ok {
			return v
		}
	}
	return geom.Contains(p, pt)
}

// Transform returns a new polygon with every vertex passed through m.
func (e *Engine) Transform(p geom.Polygon, m geom.Matrix) geom.Polygon {
	if e.opLive(OpTransform) {
		if v, ok := e.fastTransform(p, m); ok {
			return v
		}
	}
	return geom.Transform(p, m)
}

func (e *Engine) fastArea(p geom.Polygon) (v float64, ok bool) {
	defer e.recoverOp(OpArea, &ok)
	v, err := e.backend.Area(p)
	if err != nil {
		e.demote(OpArea, err)
		return 0, false
	}
	return v, true
}

func (e *Engine) fastPerimeter(p geom.Polygon) (v float64, ok bool) {
	defer e.recoverOp(OpPerimeter, &ok)
	v, err := e.backend.Perimeter(p)
	if err != nil {
		e.demote(OpPerimeter, err)
		return 0, false
	}
	return v, true
}

func (e *Engine) fastCentroid(p geom.Polygon) (v geom.Point, ok bool) {
	defer e.recoverOp(OpCentroid, &ok)
	v, err := e.backend.Centroid(p)
	if err != nil {
		e.demote(OpCentroid, err)
		return geom.Point{}, false
	}
	return v, true
}

func (e *Engine) fastContains(p geom.Polygon, pt geom.Point) (v bool, ok bool) {
	defer e.recoverOp(OpContains, &ok)
	v, err := e.backend.Contains(p, pt)
	if err != nil {
		e.demote(OpContains, err)
		return false, false
	}
	return v, true
}

func (e *Engine) fastTransform(p geom.Polygon, m geom.Matrix) (v geom.Polygon, ok bool) {
	defer e.recoverOp(OpTransform, &ok)
	v, err := e.backend.Transform(p, m)
	if err != nil {
		e.demote(OpTransform, err)
		return geom.Polygon{}, false
	}
	return v, true
}

// recoverOp converts a backend panic into a demotion. The deferred call
// leaves ok false so the caller falls through to the reference path.
func (e *Engine) recoverOp(op Op, ok *bool) {
	if r := recover(); r != nil {
		e.demote(op, fmt.Errorf("panic: %v", r))
		*ok = false
	}
}

// demote permanently routes op to the reference path.
func (e *Engine) demote(op Op, err error) {
	e.mu.Lock()
	was := e.live
	e.live &^= op
	e.mu.Unlock()
	if was&op != 0 {
		e.logger.Warn("performance backend call failed, falling back to reference",
			"backend", e.backend.Name(), "op", op.String(), "error", err)
	}
}

func (e *Engine) opLive(op Op) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.live&op != 0
}

// Available reports whether any operation is still served by the
// performance backend.
func (e *Engine) Available() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.live != 0
}

// OpAvailable reports whether a single operation is on the performance
// path.
func (e *Engine) OpAvailable(op Op) bool {
	return e.opLive(op)
}

// BackendName returns the attached performance backend's name, or "" when
// every operation runs on the reference path.
func (e *Engine) BackendName() string {
	if e.backend == nil {
		return ""
	}
	return e.backend.Name()
}

// Status reports, per operation name, whether the performance backend is
// serving it.
func (e *Engine) Status() map[string]bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	st := make(map[string]bool, len(allOps))
	for _, op := range allOps {
		st[op.String()] = e.live&op != 0
	}
	return st
}
