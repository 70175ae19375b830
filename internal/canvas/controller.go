package canvas

import (
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/shapepad/shapepad/engine-go/internal/geom"
	"github.com/shapepad/shapepad/engine-go/internal/scene"
)

// Tool selects how a drag is interpreted.
type Tool string

const (
	ToolSelect Tool = "select"
	ToolRotate Tool = "rotate"
	ToolScale  Tool = "scale"
)

const (
	// moveThrottle is the minimum interval between applied drag updates,
	// one per frame at 60Hz. Pointer moves arriving faster are dropped.
	moveThrottle = 16 * time.Millisecond

	// DefaultMargin keeps dragged shapes at least this far inside the
	// viewport.
	DefaultMargin = 8.0

	minScale = 0.1
	maxScale = 5.0
)

type state int

const (
	stateIdle state = iota
	stateDragging
)

// Controller turns pointer events into shape updates. It is idle until a
// pointer-down hits a shape, then dragging under the active tool until
// pointer-up or pointer-leave. Methods are safe for concurrent use,
// though events are expected to arrive from a single producer.
type Controller struct {
	store  *scene.Store
	logger *slog.Logger
	now    func() time.Time

	// OnShapeSelect fires with the newly selected shape ID, or "" when
	// the selection clears. OnShapeUpdate fires after every applied
	// transform change. Callbacks run outside the controller's lock.
	OnShapeSelect func(id string)
	OnShapeUpdate func(shape scene.Shape)

	mu        sync.RWMutex
	tool      Tool
	viewportW float64
	viewportH float64
	margin    float64
	selection string

	st          state
	dragID      string
	anchor      geom.Vector // select: pointer offset from the translate
	pivot       geom.Point  // rotate, scale: world centroid at pointer-down
	startDist   float64     // scale: pointer distance from pivot at pointer-down
	lastApplied time.Time
}

// NewController builds a controller over a store. A nil logger falls back
// to slog.Default().
func NewController(store *scene.Store, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		store:  store,
		logger: logger,
		now:    time.Now,
		tool:   ToolSelect,
		margin: DefaultMargin,
	}
}

// Tool returns the active tool.
func (c *Controller) Tool() Tool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tool
}

// SetTool switches the active tool. Switching during a drag ends the
// drag; the selection is kept. Unknown tools are ignored.
func (c *Controller) SetTool(t Tool) {
	switch t {
	case ToolSelect, ToolRotate, ToolScale:
	default:
		c.logger.Warn("ignoring unknown tool", "tool", string(t))
		return
	}

	c.mu.Lock()
	c.endDragLocked()
	c.tool = t
	c.mu.Unlock()
}

// SetViewport sets the clamping region for select drags. Non-positive
// extents disable clamping.
func (c *Controller) SetViewport(width, height float64) {
	c.mu.Lock()
	c.viewportW = width
	c.viewportH = height
	c.mu.Unlock()
}

// Selection returns the selected shape ID, or "" when nothing is
// selected.
func (c *Controller) Selection() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.selection
}

// Dragging reports whether a drag is in progress.
func (c *Controller) Dragging() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.st == stateDragging
}

// ClearSelection drops the selection, firing OnShapeSelect if one was
// set.
func (c *Controller) ClearSelection() {
	c.mu.Lock()
	changed := c.setSelectionLocked("")
	c.mu.Unlock()
	if changed {
		c.notifySelect("")
	}
}

// PointerDown begins a drag if pt hits a shape. The hit shape becomes the
// selection under every tool; a miss clears the selection and stays idle.
func (c *Controller) PointerDown(pt geom.Point) {
	shape, hit := c.store.HitTest(pt)

	c.mu.Lock()
	if !hit {
		c.endDragLocked()
		changed := c.setSelectionLocked("")
		c.mu.Unlock()
		if changed {
			c.notifySelect("")
		}
		return
	}

	changed := c.setSelectionLocked(shape.ID)
	c.st = stateDragging
	c.dragID = shape.ID
	c.lastApplied = time.Time{}

	switch c.tool {
	case ToolSelect:
		c.anchor = pt.Sub(shape.Transform.Translate)
	case ToolRotate:
		c.pivot = c.store.WorldCentroid(shape)
	case ToolScale:
		c.pivot = c.store.WorldCentroid(shape)
		c.startDist = pt.Sub(c.pivot).Magnitude()
	}
	c.mu.Unlock()

	if changed {
		c.notifySelect(shape.ID)
	}
}

// PointerMove applies a drag update under the active tool, throttled to
// one per frame interval. Moves while idle are ignored.
func (c *Controller) PointerMove(pt geom.Point) {
	c.mu.Lock()
	if c.st != stateDragging {
		c.mu.Unlock()
		return
	}

	now := c.now()
	if !c.lastApplied.IsZero() && now.Sub(c.lastApplied) < moveThrottle {
		c.mu.Unlock()
		return
	}

	shape, ok := c.store.Get(c.dragID)
	if !ok {
		// The shape vanished mid-drag; end quietly.
		c.endDragLocked()
		c.mu.Unlock()
		return
	}

	var patch scene.Patch
	switch c.tool {
	case ToolSelect:
		translate := c.clampTranslateLocked(shape, geom.Point{
			X: pt.X - c.anchor.X,
			Y: pt.Y - c.anchor.Y,
		})
		patch.Translate = &translate
	case ToolRotate:
		deg := math.Atan2(pt.Y-c.pivot.Y, pt.X-c.pivot.X) * 180 / math.Pi
		patch.RotateDeg = &deg
	case ToolScale:
		if c.startDist < 1e-9 {
			// Grabbed exactly at the centroid; the ratio is undefined, so
			// the drag changes nothing.
			c.mu.Unlock()
			return
		}
		factor := pt.Sub(c.pivot).Magnitude() / c.startDist
		factor = min(max(factor, minScale), maxScale)
		patch.Scale = &factor
	}

	updated, ok := c.store.ApplyPatch(c.dragID, patch)
	if !ok {
		c.endDragLocked()
		c.mu.Unlock()
		return
	}
	c.lastApplied = now
	c.mu.Unlock()

	c.notifyUpdate(updated)
}

// PointerUp ends the drag. The last applied transform stands.
func (c *Controller) PointerUp() {
	c.mu.Lock()
	c.endDragLocked()
	c.mu.Unlock()
}

// PointerLeave cancels a drag exactly like PointerUp.
func (c *Controller) PointerLeave() {
	c.mu.Lock()
	c.endDragLocked()
	c.mu.Unlock()
}

// clampTranslateLocked keeps the shape's world bounding box at least
// margin inside the viewport. When the box cannot fit, its minimum edge
// wins.
func (c *Controller) clampTranslateLocked(shape scene.Shape, translate geom.Point) geom.Point {
	if c.viewportW <= 0 || c.viewportH <= 0 {
		return translate
	}

	t := shape.Transform
	t.Translate = translate
	b := t.Matrix().TransformRect(geom.BoundsOf(shape.Local))

	translate.X += clampShift(b.X, b.X+b.Width, c.margin, c.viewportW-c.margin)
	translate.Y += clampShift(b.Y, b.Y+b.Height, c.margin, c.viewportH-c.margin)
	return translate
}

// clampShift returns the delta that moves the span [lo,hi] inside
// [minEdge,maxEdge], pinning lo at minEdge when the span is too large.
func clampShift(lo, hi, minEdge, maxEdge float64) float64 {
	var d float64
	if hi > maxEdge {
		d = maxEdge - hi
	}
	if lo+d < minEdge {
		d = minEdge - lo
	}
	return d
}

func (c *Controller) endDragLocked() {
	c.st = stateIdle
	c.dragID = ""
	c.startDist = 0
}

// setSelectionLocked updates the selection and reports whether it
// changed. Callers fire OnShapeSelect after releasing the lock.
func (c *Controller) setSelectionLocked(id string) bool {
	if c.selection == id {
		return false
	}
	c.selection = id
	return true
}

func (c *Controller) notifySelect(id string) {
	if c.OnShapeSelect != nil {
		c.OnShapeSelect(id)
	}
}

func (c *Controller) notifyUpdate(shape scene.Shape) {
	if c.OnShapeUpdate != nil {
		c.OnShapeUpdate(shape)
	}
}
