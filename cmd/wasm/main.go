//go:build js && wasm

package main

import (
	"encoding/json"
	"syscall/js"

	"github.com/shapepad/shapepad/engine-go/internal/bench"
	"github.com/shapepad/shapepad/engine-go/internal/canvas"
	"github.com/shapepad/shapepad/engine-go/internal/engine"
	"github.com/shapepad/shapepad/engine-go/internal/geom"
	"github.com/shapepad/shapepad/engine-go/internal/render"
	"github.com/shapepad/shapepad/engine-go/internal/scene"
)

var (
	eng        *engine.Engine
	store      *scene.Store
	controller *canvas.Controller
	renderer   *render.Renderer
	runner     *bench.Runner
	engineObj  js.Value
)

func main() {
	eng = engine.New(engine.Options{})
	store = scene.NewStore(eng)
	scene.SampleScene(store)
	controller = canvas.NewController(store, nil)
	renderer = render.NewRenderer(960, 540)
	runner = bench.NewRunner(eng)

	controller.OnShapeSelect = func(id string) {
		invokeCallback("onShapeSelect", id)
	}
	controller.OnShapeUpdate = func(shape scene.Shape) {
		data, err := json.Marshal(shape)
		if err != nil {
			return
		}
		invokeCallback("onShapeUpdate", string(data))
	}

	// Create the engine API object
	engineObj = js.Global().Get("Object").New()

	// --- Geometry (pure, no scene state) ---
	engineObj.Set("createSquare", js.FuncOf(createSquare))
	engineObj.Set("createRectangle", js.FuncOf(createRectangle))
	engineObj.Set("createTriangle", js.FuncOf(createTriangle))
	engineObj.Set("createCircle", js.FuncOf(createCircle))
	engineObj.Set("calculateArea", js.FuncOf(calculateArea))
	engineObj.Set("calculatePerimeter", js.FuncOf(calculatePerimeter))
	engineObj.Set("calculateCentroid", js.FuncOf(calculateCentroid))
	engineObj.Set("isPointInPolygon", js.FuncOf(isPointInPolygon))
	engineObj.Set("createMatrix", js.FuncOf(createMatrix))
	engineObj.Set("transformPolygon", js.FuncOf(transformPolygon))

	// --- Commands (frontend → engine) ---
	engineObj.Set("setTool", js.FuncOf(setTool))
	engineObj.Set("setViewport", js.FuncOf(setViewport))
	engineObj.Set("pointerDown", js.FuncOf(pointerDown))
	engineObj.Set("pointerMove", js.FuncOf(pointerMove))
	engineObj.Set("pointerUp", js.FuncOf(pointerUp))
	engineObj.Set("pointerLeave", js.FuncOf(pointerLeave))
	engineObj.Set("addShape", js.FuncOf(addShape))
	engineObj.Set("removeShape", js.FuncOf(removeShape))
	engineObj.Set("resetScene", js.FuncOf(resetScene))

	// --- Queries (frontend ← engine) ---
	engineObj.Set("getScene", js.FuncOf(getScene))
	engineObj.Set("redraw", js.FuncOf(redraw))
	engineObj.Set("runBenchmark", js.FuncOf(runBenchmark))
	engineObj.Set("isBackendAvailable", js.FuncOf(isBackendAvailable))
	engineObj.Set("getBackendStatus", js.FuncOf(getBackendStatus))

	// Register on global scope
	js.Global().Set("shapepadEngine", engineObj)

	// Signal that WASM is ready
	js.Global().Set("shapepadWasmReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

// invokeCallback calls a handler the frontend attached to the engine
// object, if any.
func invokeCallback(name string, args ...interface{}) {
	cb := engineObj.Get(name)
	if cb.Type() != js.TypeFunction {
		return
	}
	cb.Invoke(args...)
}

func errorValue(msg string) interface{} {
	return js.ValueOf(map[string]interface{}{"error": msg})
}

func polygonValue(p geom.Polygon) interface{} {
	data, err := json.Marshal(p)
	if err != nil {
		return errorValue(err.Error())
	}
	return js.ValueOf(string(data))
}

func parsePolygon(s string) (geom.Polygon, bool) {
	var p geom.Polygon
	if err := json.Unmarshal([]byte(s), &p); err != nil {
		return geom.Polygon{}, false
	}
	return p, true
}

// --- Geometry Handlers ---

func createSquare(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errorValue("missing size")
	}
	return polygonValue(geom.NewSquare(args[0].Float()))
}

func createRectangle(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return errorValue("missing width or height")
	}
	return polygonValue(geom.NewRectangle(args[0].Float(), args[1].Float()))
}

func createTriangle(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return errorValue("missing base or height")
	}
	return polygonValue(geom.NewTriangle(args[0].Float(), args[1].Float()))
}

func createCircle(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errorValue("missing radius")
	}
	segments := 0
	if len(args) > 1 && args[1].Type() == js.TypeNumber {
		segments = args[1].Int()
	}
	return polygonValue(geom.NewCircle(geom.Point{}, args[0].Float(), segments))
}

func calculateArea(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(0.0)
	}
	p, ok := parsePolygon(args[0].String())
	if !ok {
		return js.ValueOf(0.0)
	}
	return js.ValueOf(eng.Area(p))
}

func calculatePerimeter(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(0.0)
	}
	p, ok := parsePolygon(args[0].String())
	if !ok {
		return js.ValueOf(0.0)
	}
	return js.ValueOf(eng.Perimeter(p))
}

func calculateCentroid(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(map[string]interface{}{"x": 0.0, "y": 0.0})
	}
	p, ok := parsePolygon(args[0].String())
	if !ok {
		return js.ValueOf(map[string]interface{}{"x": 0.0, "y": 0.0})
	}
	c := eng.Centroid(p)
	return js.ValueOf(map[string]interface{}{"x": c.X, "y": c.Y})
}

func isPointInPolygon(this js.Value, args []js.Value) interface{} {
	if len(args) < 3 {
		return js.ValueOf(false)
	}
	p, ok := parsePolygon(args[2].String())
	if !ok {
		return js.ValueOf(false)
	}
	pt := geom.Point{X: args[0].Float(), Y: args[1].Float()}
	return js.ValueOf(eng.Contains(p, pt))
}

func createMatrix(this js.Value, args []js.Value) interface{} {
	if len(args) < 4 {
		return errorValue("need tx, ty, rotation, scale")
	}
	m := geom.NewMatrix(
		geom.Point{X: args[0].Float(), Y: args[1].Float()},
		args[2].Float(),
		args[3].Float(),
	)
	data, err := json.Marshal(m)
	if err != nil {
		return errorValue(err.Error())
	}
	return js.ValueOf(string(data))
}

func transformPolygon(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return errorValue("missing polygon or matrix")
	}
	p, ok := parsePolygon(args[0].String())
	if !ok {
		return errorValue("invalid polygon")
	}
	var m geom.Matrix
	if err := json.Unmarshal([]byte(args[1].String()), &m); err != nil {
		return errorValue("invalid matrix")
	}
	return polygonValue(eng.Transform(p, m))
}

// --- Command Handlers ---

func setTool(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return nil
	}
	controller.SetTool(canvas.Tool(args[0].String()))
	return nil
}

func setViewport(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	w, h := args[0].Float(), args[1].Float()
	controller.SetViewport(w, h)
	renderer.Resize(int(w), int(h))
	return nil
}

func pointerDown(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	controller.PointerDown(geom.Point{X: args[0].Float(), Y: args[1].Float()})
	return nil
}

func pointerMove(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	controller.PointerMove(geom.Point{X: args[0].Float(), Y: args[1].Float()})
	return nil
}

func pointerUp(this js.Value, args []js.Value) interface{} {
	controller.PointerUp()
	return nil
}

func pointerLeave(this js.Value, args []js.Value) interface{} {
	controller.PointerLeave()
	return nil
}

func addShape(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errorValue("missing shape kind")
	}

	kind := scene.Kind(args[0].String())
	var params scene.Params
	if len(args) > 1 {
		if err := json.Unmarshal([]byte(args[1].String()), &params); err != nil {
			return errorValue("invalid params")
		}
	}
	var tr scene.Transform
	if len(args) > 2 {
		if err := json.Unmarshal([]byte(args[2].String()), &tr); err != nil {
			return errorValue("invalid transform")
		}
	}

	shape, err := store.Add(kind, params, tr)
	if err != nil {
		return errorValue(err.Error())
	}
	return js.ValueOf(shape.ID)
}

func removeShape(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(false)
	}
	id := args[0].String()
	removed := store.Remove(id)
	if removed && controller.Selection() == id {
		controller.ClearSelection()
	}
	return js.ValueOf(removed)
}

func resetScene(this js.Value, args []js.Value) interface{} {
	controller.ClearSelection()
	store.Clear()
	scene.SampleScene(store)
	return nil
}

// --- Query Handlers ---

func getScene(this js.Value, args []js.Value) interface{} {
	data, err := json.Marshal(map[string]interface{}{
		"shapes":    store.Shapes(),
		"selection": controller.Selection(),
		"tool":      string(controller.Tool()),
	})
	if err != nil {
		return errorValue(err.Error())
	}
	return js.ValueOf(string(data))
}

func redraw(this js.Value, args []js.Value) interface{} {
	grid := true
	if len(args) > 0 && args[0].Type() == js.TypeBoolean {
		grid = args[0].Bool()
	}

	renderer.Redraw(render.Compose(store, controller.Selection()), render.Options{Grid: grid})

	w, h := renderer.Size()
	pix := renderer.Pixels()
	buf := js.Global().Get("Uint8ClampedArray").New(len(pix))
	js.CopyBytesToJS(buf, pix)

	return js.ValueOf(map[string]interface{}{
		"width":  w,
		"height": h,
		"pixels": buf,
	})
}

func runBenchmark(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errorValue("missing category")
	}

	result, err := runner.Run(bench.Category(args[0].String()))
	if err != nil {
		return errorValue(err.Error())
	}
	data, err := json.Marshal(result)
	if err != nil {
		return errorValue(err.Error())
	}
	return js.ValueOf(string(data))
}

func isBackendAvailable(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.Available())
}

func getBackendStatus(this js.Value, args []js.Value) interface{} {
	data, err := json.Marshal(map[string]interface{}{
		"backend":    eng.BackendName(),
		"available":  eng.Available(),
		"operations": eng.Status(),
	})
	if err != nil {
		return errorValue(err.Error())
	}
	return js.ValueOf(string(data))
}
