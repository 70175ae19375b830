package canvas

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shapepad/shapepad/engine-go/internal/engine"
	"github.com/shapepad/shapepad/engine-go/internal/geom"
	"github.com/shapepad/shapepad/engine-go/internal/scene"
)

type fakeClock struct {
	t time.Time
}

func (f *fakeClock) Now() time.Time {
	return f.t
}

func (f *fakeClock) Advance(d time.Duration) {
	f.t = f.t.Add(d)
}

type recorder struct {
	selects []string
	updates []scene.Shape
}

func (r *recorder) attach(c *Controller) {
	c.OnShapeSelect = func(id string) { r.selects = append(r.selects, id) }
	c.OnShapeUpdate = func(s scene.Shape) { r.updates = append(r.updates, s) }
}

func newTestController(t *testing.T) (*Controller, *scene.Store, *fakeClock, *recorder) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := scene.NewStore(engine.New(engine.Options{Logger: logger}))
	clock := &fakeClock{t: time.Unix(1000, 0)}

	c := NewController(store, logger)
	c.now = clock.Now

	rec := &recorder{}
	rec.attach(c)
	return c, store, clock, rec
}

// addSquare places a 100x100 square at (100,100); its world centroid is
// (150,150).
func addSquare(t *testing.T, store *scene.Store) scene.Shape {
	t.Helper()
	shape, err := store.Add(scene.KindSquare, scene.Params{Size: 100},
		scene.Transform{Translate: geom.Point{X: 100, Y: 100}, Scale: 1})
	require.NoError(t, err)
	return shape
}

func TestSelectDragMovesShape(t *testing.T) {
	c, store, clock, rec := newTestController(t)
	shape := addSquare(t, store)

	c.PointerDown(geom.Point{X: 150, Y: 150})
	assert.Equal(t, shape.ID, c.Selection())
	assert.True(t, c.Dragging())
	assert.Equal(t, []string{shape.ID}, rec.selects)

	// The pointer grabbed the shape 50 px from its translate; that offset
	// is preserved while dragging.
	c.PointerMove(geom.Point{X: 250, Y: 170})
	got, _ := store.Get(shape.ID)
	assert.InDelta(t, 200, got.Transform.Translate.X, 1e-9)
	assert.InDelta(t, 120, got.Transform.Translate.Y, 1e-9)
	assert.Len(t, rec.updates, 1)

	c.PointerUp()
	assert.False(t, c.Dragging())
	assert.Equal(t, shape.ID, c.Selection(), "pointer-up keeps the selection")

	// Moves after the drag ended change nothing.
	clock.Advance(time.Second)
	c.PointerMove(geom.Point{X: 400, Y: 400})
	got, _ = store.Get(shape.ID)
	assert.InDelta(t, 200, got.Transform.Translate.X, 1e-9)
	assert.Len(t, rec.updates, 1)
}

func TestPointerDownMissClearsSelection(t *testing.T) {
	c, store, _, rec := newTestController(t)
	shape := addSquare(t, store)

	c.PointerDown(geom.Point{X: 150, Y: 150})
	c.PointerUp()
	require.Equal(t, shape.ID, c.Selection())

	c.PointerDown(geom.Point{X: 600, Y: 600})
	assert.Empty(t, c.Selection())
	assert.False(t, c.Dragging())
	assert.Equal(t, []string{shape.ID, ""}, rec.selects)
}

func TestReselectingSameShapeFiresOnce(t *testing.T) {
	c, store, clock, rec := newTestController(t)
	shape := addSquare(t, store)

	c.PointerDown(geom.Point{X: 150, Y: 150})
	c.PointerUp()
	clock.Advance(time.Second)
	c.PointerDown(geom.Point{X: 120, Y: 120})
	c.PointerUp()

	assert.Equal(t, []string{shape.ID}, rec.selects)
}

func TestMoveThrottling(t *testing.T) {
	c, store, clock, rec := newTestController(t)
	shape := addSquare(t, store)

	c.PointerDown(geom.Point{X: 150, Y: 150})

	// The first move of a drag always applies.
	c.PointerMove(geom.Point{X: 160, Y: 150})
	require.Len(t, rec.updates, 1)

	// 5ms later: dropped.
	clock.Advance(5 * time.Millisecond)
	c.PointerMove(geom.Point{X: 170, Y: 150})
	assert.Len(t, rec.updates, 1)
	got, _ := store.Get(shape.ID)
	assert.InDelta(t, 110, got.Transform.Translate.X, 1e-9)

	// Past the frame interval: applied.
	clock.Advance(12 * time.Millisecond)
	c.PointerMove(geom.Point{X: 180, Y: 150})
	assert.Len(t, rec.updates, 2)
	got, _ = store.Get(shape.ID)
	assert.InDelta(t, 130, got.Transform.Translate.X, 1e-9)
}

func TestRotateAbsoluteAngle(t *testing.T) {
	c, store, clock, _ := newTestController(t)
	shape := addSquare(t, store)
	c.SetTool(ToolRotate)

	// Pointer-down captures the pivot at the world centroid (150,150).
	c.PointerDown(geom.Point{X: 250, Y: 150})

	// Straight below the pivot reads as 90 degrees on a y-down canvas.
	c.PointerMove(geom.Point{X: 150, Y: 250})
	got, _ := store.Get(shape.ID)
	assert.InDelta(t, 90, got.Transform.RotateDeg, 1e-9)

	// The angle tracks the pointer absolutely, not incrementally.
	clock.Advance(20 * time.Millisecond)
	c.PointerMove(geom.Point{X: 50, Y: 150})
	got, _ = store.Get(shape.ID)
	assert.InDelta(t, 180, got.Transform.RotateDeg, 1e-9)

	clock.Advance(20 * time.Millisecond)
	c.PointerMove(geom.Point{X: 150, Y: 50})
	got, _ = store.Get(shape.ID)
	assert.InDelta(t, -90, got.Transform.RotateDeg, 1e-9)
}

func TestScaleFromDistanceRatio(t *testing.T) {
	c, store, clock, _ := newTestController(t)
	shape := addSquare(t, store)
	c.SetTool(ToolScale)

	// 50 px from the centroid at pointer-down.
	c.PointerDown(geom.Point{X: 200, Y: 150})

	// Tripling the distance applies factor 3.
	c.PointerMove(geom.Point{X: 300, Y: 150})
	got, _ := store.Get(shape.ID)
	assert.InDelta(t, 3.0, got.Transform.Scale, 1e-9)

	// Far out: clamped to 5.
	clock.Advance(20 * time.Millisecond)
	c.PointerMove(geom.Point{X: 450, Y: 150})
	got, _ = store.Get(shape.ID)
	assert.InDelta(t, 5.0, got.Transform.Scale, 1e-9)

	// Collapsed onto the pivot: clamped to 0.1.
	clock.Advance(20 * time.Millisecond)
	c.PointerMove(geom.Point{X: 151, Y: 150})
	got, _ = store.Get(shape.ID)
	assert.InDelta(t, 0.1, got.Transform.Scale, 1e-9)
}

func TestScaleGrabbedAtCentroidDoesNothing(t *testing.T) {
	c, store, clock, rec := newTestController(t)
	shape := addSquare(t, store)
	c.SetTool(ToolScale)

	c.PointerDown(geom.Point{X: 150, Y: 150})
	c.PointerMove(geom.Point{X: 300, Y: 150})
	clock.Advance(20 * time.Millisecond)
	c.PointerMove(geom.Point{X: 500, Y: 150})

	got, _ := store.Get(shape.ID)
	assert.InDelta(t, 1.0, got.Transform.Scale, 1e-9)
	assert.Empty(t, rec.updates)
}

func TestViewportClamp(t *testing.T) {
	c, store, clock, _ := newTestController(t)
	shape := addSquare(t, store)
	c.SetViewport(800, 600)

	c.PointerDown(geom.Point{X: 150, Y: 150})

	// Dragging far left pins the box margin px inside the viewport.
	c.PointerMove(geom.Point{X: 10, Y: 150})
	got, _ := store.Get(shape.ID)
	assert.InDelta(t, DefaultMargin, got.Transform.Translate.X, 1e-9)
	assert.InDelta(t, 100, got.Transform.Translate.Y, 1e-9)

	// Dragging far right stops at viewport minus margin minus width.
	clock.Advance(20 * time.Millisecond)
	c.PointerMove(geom.Point{X: 790, Y: 150})
	got, _ = store.Get(shape.ID)
	assert.InDelta(t, 800-DefaultMargin-100, got.Transform.Translate.X, 1e-9)

	// Same on the vertical axis.
	clock.Advance(20 * time.Millisecond)
	c.PointerMove(geom.Point{X: 400, Y: 595})
	got, _ = store.Get(shape.ID)
	assert.InDelta(t, 600-DefaultMargin-100, got.Transform.Translate.Y, 1e-9)
}

func TestNoViewportNoClamp(t *testing.T) {
	c, store, _, _ := newTestController(t)
	shape := addSquare(t, store)

	c.PointerDown(geom.Point{X: 150, Y: 150})
	c.PointerMove(geom.Point{X: -200, Y: -200})

	got, _ := store.Get(shape.ID)
	assert.InDelta(t, -250, got.Transform.Translate.X, 1e-9)
	assert.InDelta(t, -250, got.Transform.Translate.Y, 1e-9)
}

func TestPointerLeaveCancelsDrag(t *testing.T) {
	c, store, clock, rec := newTestController(t)
	shape := addSquare(t, store)

	c.PointerDown(geom.Point{X: 150, Y: 150})
	c.PointerMove(geom.Point{X: 200, Y: 150})
	require.Len(t, rec.updates, 1)

	c.PointerLeave()
	assert.False(t, c.Dragging())

	clock.Advance(time.Second)
	c.PointerMove(geom.Point{X: 400, Y: 400})
	got, _ := store.Get(shape.ID)
	assert.InDelta(t, 150, got.Transform.Translate.X, 1e-9, "position from the last applied move stands")
	assert.Len(t, rec.updates, 1)
}

func TestSetToolEndsDragKeepsSelection(t *testing.T) {
	c, store, clock, _ := newTestController(t)
	shape := addSquare(t, store)

	c.PointerDown(geom.Point{X: 150, Y: 150})
	require.True(t, c.Dragging())

	c.SetTool(ToolRotate)
	assert.False(t, c.Dragging())
	assert.Equal(t, ToolRotate, c.Tool())
	assert.Equal(t, shape.ID, c.Selection())

	clock.Advance(time.Second)
	c.PointerMove(geom.Point{X: 300, Y: 300})
	got, _ := store.Get(shape.ID)
	assert.Zero(t, got.Transform.RotateDeg)
}

func TestUnknownToolIgnored(t *testing.T) {
	c, _, _, _ := newTestController(t)
	c.SetTool(Tool("laser"))
	assert.Equal(t, ToolSelect, c.Tool())
}

func TestShapeRemovedMidDrag(t *testing.T) {
	c, store, clock, rec := newTestController(t)
	shape := addSquare(t, store)

	c.PointerDown(geom.Point{X: 150, Y: 150})
	require.True(t, store.Remove(shape.ID))

	clock.Advance(20 * time.Millisecond)
	c.PointerMove(geom.Point{X: 300, Y: 300})

	assert.False(t, c.Dragging())
	assert.Empty(t, rec.updates)
}

func TestClearSelection(t *testing.T) {
	c, store, _, rec := newTestController(t)
	shape := addSquare(t, store)

	c.PointerDown(geom.Point{X: 150, Y: 150})
	c.PointerUp()
	require.Equal(t, shape.ID, c.Selection())

	c.ClearSelection()
	assert.Empty(t, c.Selection())
	assert.Equal(t, []string{shape.ID, ""}, rec.selects)

	// Clearing an empty selection fires nothing.
	c.ClearSelection()
	assert.Len(t, rec.selects, 2)
}

func TestHitTopmostShape(t *testing.T) {
	c, store, _, _ := newTestController(t)
	addSquare(t, store)
	top, err := store.Add(scene.KindSquare, scene.Params{Size: 100},
		scene.Transform{Translate: geom.Point{X: 150, Y: 150}, Scale: 1})
	require.NoError(t, err)

	c.PointerDown(geom.Point{X: 175, Y: 175})
	assert.Equal(t, top.ID, c.Selection())
}
