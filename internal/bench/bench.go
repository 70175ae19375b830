package bench

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/shapepad/shapepad/engine-go/internal/engine"
	"github.com/shapepad/shapepad/engine-go/internal/geom"
)

// ErrUnknownCategory is returned for a category outside Categories.
var ErrUnknownCategory = errors.New("bench: unknown category")

// Category selects a benchmark workload.
type Category string

const (
	CategorySmall   Category = "small"
	CategoryMedium  Category = "medium"
	CategoryLarge   Category = "large"
	CategoryComplex Category = "complex"
)

// Categories lists the valid categories in workload order.
func Categories() []Category {
	return []Category{CategorySmall, CategoryMedium, CategoryLarge, CategoryComplex}
}

// workload fixes a category's input sizes. The mixed flag adds chained
// transforms and hit tests on top of the metric sweep.
type workload struct {
	polygons   int
	vertices   int
	iterations int
	mixed      bool
}

var workloads = map[Category]workload{
	CategorySmall:   {polygons: 16, vertices: 8, iterations: 64},
	CategoryMedium:  {polygons: 64, vertices: 32, iterations: 64},
	CategoryLarge:   {polygons: 256, vertices: 128, iterations: 32},
	CategoryComplex: {polygons: 96, vertices: 48, iterations: 48, mixed: true},
}

// benchSeed keeps workload generation deterministic so both compute paths
// and every run see identical inputs.
const benchSeed = 0x5ead

// Result reports one benchmark run. Times are wall-clock milliseconds,
// reported as measured.
type Result struct {
	Category             Category `json:"category"`
	PerformanceBackendMs float64  `json:"performanceBackendMs"`
	ReferenceBackendMs   float64  `json:"referenceBackendMs"`
	Ratio                float64  `json:"ratio"`
	BackendAvailable     bool     `json:"backendAvailable"`
}

// computePath is the call surface both measured paths share, so dispatch
// overhead is identical on each side of the comparison.
type computePath interface {
	Area(p geom.Polygon) float64
	Perimeter(p geom.Polygon) float64
	Centroid(p geom.Polygon) geom.Point
	Contains(p geom.Polygon, pt geom.Point) bool
	Transform(p geom.Polygon, m geom.Matrix) geom.Polygon
}

// referencePath answers every operation with the plain geom
// implementations.
type referencePath struct{}

func (referencePath) Area(p geom.Polygon) float64      { return geom.Area(p) }
func (referencePath) Perimeter(p geom.Polygon) float64 { return geom.Perimeter(p) }
func (referencePath) Centroid(p geom.Polygon) geom.Point {
	return geom.Centroid(p)
}
func (referencePath) Contains(p geom.Polygon, pt geom.Point) bool {
	return geom.Contains(p, pt)
}
func (referencePath) Transform(p geom.Polygon, m geom.Matrix) geom.Polygon {
	return geom.Transform(p, m)
}

// Runner measures the engine's performance path against the reference
// implementations on identical, pre-generated inputs.
type Runner struct {
	engine *engine.Engine
}

// NewRunner builds a runner over the given engine.
func NewRunner(eng *engine.Engine) *Runner {
	return &Runner{engine: eng}
}

// Run executes one category's workload on both compute paths and reports
// the measured times. Inputs are generated up front, outside the timed
// region, from a fixed seed.
func (r *Runner) Run(category Category) (Result, error) {
	w, ok := workloads[category]
	if !ok {
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}

	polys := generatePolygons(w.polygons, w.vertices)
	matrices := generateMatrices(w.polygons)
	probes := generateProbes(w.polygons)

	perfMs := timeSweep(r.engine, w, polys, matrices, probes)
	refMs := timeSweep(referencePath{}, w, polys, matrices, probes)

	res := Result{
		Category:             category,
		PerformanceBackendMs: perfMs,
		ReferenceBackendMs:   refMs,
		BackendAvailable:     r.engine.Available(),
	}
	if perfMs > 0 {
		res.Ratio = refMs / perfMs
	}
	return res, nil
}

// RunAll executes every category in order.
func (r *Runner) RunAll() ([]Result, error) {
	results := make([]Result, 0, len(workloads))
	for _, c := range Categories() {
		res, err := r.Run(c)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}

// benchSink defeats dead-code elimination of the measured loops.
var benchSink float64

func timeSweep(path computePath, w workload, polys []geom.Polygon, matrices []geom.Matrix, probes []geom.Point) float64 {
	var sink float64
	start := time.Now()
	for it := 0; it < w.iterations; it++ {
		for i, p := range polys {
			sink += path.Area(p)
			sink += path.Perimeter(p)
			c := path.Centroid(p)
			sink += c.X + c.Y
			tp := path.Transform(p, matrices[i])
			sink += tp.Vertices[0].X
			if path.Contains(p, probes[i]) {
				sink++
			}
			if w.mixed {
				tp = path.Transform(tp, matrices[(i+1)%len(matrices)])
				sink += tp.Vertices[0].Y
				if path.Contains(tp, probes[(i+1)%len(probes)]) {
					sink++
				}
			}
		}
	}
	elapsed := time.Since(start)
	benchSink = sink
	return float64(elapsed.Nanoseconds()) / 1e6
}

// generatePolygons builds irregular star-shaped polygons scattered over a
// 800x600 field.
func generatePolygons(count, vertices int) []geom.Polygon {
	rng := rand.New(rand.NewSource(benchSeed))
	polys := make([]geom.Polygon, count)
	for i := range polys {
		cx := rng.Float64() * 800
		cy := rng.Float64() * 600
		base := 20 + rng.Float64()*80
		pts := make([]geom.Point, vertices)
		for v := range pts {
			angle := 2 * math.Pi * float64(v) / float64(vertices)
			radius := base * (0.6 + 0.4*rng.Float64())
			pts[v] = geom.Point{
				X: cx + radius*math.Cos(angle),
				Y: cy + radius*math.Sin(angle),
			}
		}
		polys[i] = geom.Polygon{Vertices: pts}
	}
	return polys
}

func generateMatrices(count int) []geom.Matrix {
	rng := rand.New(rand.NewSource(benchSeed + 1))
	ms := make([]geom.Matrix, count)
	for i := range ms {
		ms[i] = geom.NewMatrix(
			geom.Point{X: rng.Float64()*100 - 50, Y: rng.Float64()*100 - 50},
			rng.Float64()*360,
			0.5+rng.Float64()*2,
		)
	}
	return ms
}

func generateProbes(count int) []geom.Point {
	rng := rand.New(rand.NewSource(benchSeed + 2))
	pts := make([]geom.Point, count)
	for i := range pts {
		pts[i] = geom.Point{X: rng.Float64() * 800, Y: rng.Float64() * 600}
	}
	return pts
}
