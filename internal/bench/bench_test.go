package bench

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shapepad/shapepad/engine-go/internal/engine"
)

func quietEngine(disableFastPath bool) *engine.Engine {
	return engine.New(engine.Options{
		DisableFastPath: disableFastPath,
		Logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func TestRunEveryCategory(t *testing.T) {
	r := NewRunner(quietEngine(false))

	for _, c := range Categories() {
		res, err := r.Run(c)
		require.NoError(t, err, "category %s", c)

		assert.Equal(t, c, res.Category)
		assert.GreaterOrEqual(t, res.PerformanceBackendMs, 0.0)
		assert.GreaterOrEqual(t, res.ReferenceBackendMs, 0.0)
		assert.True(t, res.BackendAvailable)

		// The ratio is derived from the two measurements, nothing else.
		// Which path wins is a property of the machine, not asserted.
		if res.PerformanceBackendMs > 0 {
			assert.InDelta(t, res.ReferenceBackendMs/res.PerformanceBackendMs, res.Ratio, 1e-9)
		} else {
			assert.Zero(t, res.Ratio)
		}
	}
}

func TestRunUnknownCategory(t *testing.T) {
	r := NewRunner(quietEngine(false))

	_, err := r.Run(Category("warp"))
	assert.ErrorIs(t, err, ErrUnknownCategory)
}

func TestRunWithoutFastPath(t *testing.T) {
	r := NewRunner(quietEngine(true))

	res, err := r.Run(CategorySmall)
	require.NoError(t, err)
	assert.False(t, res.BackendAvailable)
	assert.GreaterOrEqual(t, res.PerformanceBackendMs, 0.0)
}

func TestRunAllOrder(t *testing.T) {
	r := NewRunner(quietEngine(false))

	results, err := r.RunAll()
	require.NoError(t, err)
	require.Len(t, results, len(Categories()))
	for i, c := range Categories() {
		assert.Equal(t, c, results[i].Category)
	}
}

func TestWorkloadGenerationIsDeterministic(t *testing.T) {
	a := generatePolygons(8, 16)
	b := generatePolygons(8, 16)
	assert.Equal(t, a, b)

	assert.Equal(t, generateMatrices(8), generateMatrices(8))
	assert.Equal(t, generateProbes(8), generateProbes(8))
}

func TestWorkloadShapes(t *testing.T) {
	for c, w := range workloads {
		polys := generatePolygons(w.polygons, w.vertices)
		require.Len(t, polys, w.polygons, "category %s", c)
		for _, p := range polys {
			assert.Len(t, p.Vertices, w.vertices)
		}
	}
}
