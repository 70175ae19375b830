package render

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"

	"golang.org/x/image/vector"

	"github.com/shapepad/shapepad/engine-go/internal/geom"
	"github.com/shapepad/shapepad/engine-go/internal/scene"
)

// DefaultGridStep is the grid overlay spacing in pixels.
const DefaultGridStep = 50.0

var (
	backgroundColor = color.RGBA{R: 0x1a, G: 0x1a, B: 0x2e, A: 0xff}
	gridColor       = color.RGBA{R: 0x2a, G: 0x2a, B: 0x3e, A: 0xff}
	selectionColor  = color.RGBA{R: 0xff, G: 0xd5, B: 0x66, A: 0xff}
	fallbackFill    = color.RGBA{R: 0x8a, G: 0x8a, B: 0x9a, A: 0xff}

	kindFills = map[scene.Kind]color.RGBA{
		scene.KindSquare:    {R: 0xe9, G: 0x45, B: 0x60, A: 0xff},
		scene.KindTriangle:  {R: 0x53, G: 0xd7, B: 0x69, A: 0xff},
		scene.KindCircle:    {R: 0x0f, G: 0x83, B: 0xc0, A: 0xff},
		scene.KindRectangle: {R: 0xf5, G: 0xa6, B: 0x23, A: 0xff},
	}
)

// Item is one shape ready to paint: its world-space outline and how to
// color it.
type Item struct {
	World    geom.Polygon
	Kind     scene.Kind
	Selected bool
}

// Compose flattens a store into draw items, bottom first, marking the
// shape matching selection.
func Compose(st *scene.Store, selection string) []Item {
	shapes := st.Shapes()
	items := make([]Item, 0, len(shapes))
	for _, s := range shapes {
		items = append(items, Item{
			World:    st.World(s),
			Kind:     s.Kind,
			Selected: s.ID == selection,
		})
	}
	return items
}

// Options control a redraw pass.
type Options struct {
	// Grid draws the alignment grid under the shapes.
	Grid bool
	// GridStep overrides the grid spacing; zero means DefaultGridStep.
	GridStep float64
}

// Renderer rasterizes scenes into an RGBA surface it owns. The surface
// is reused between redraws, so callers must not hold the returned image
// across calls. Renderer is not safe for concurrent use.
type Renderer struct {
	width  int
	height int
	img    *image.RGBA
	ras    vector.Rasterizer
}

// NewRenderer allocates a surface of the given pixel size. Extents below
// one pixel are bumped to one.
func NewRenderer(width, height int) *Renderer {
	r := &Renderer{}
	r.Resize(width, height)
	return r
}

// Resize reallocates the surface. Resizing to the current size keeps the
// existing buffer.
func (r *Renderer) Resize(width, height int) {
	width = max(width, 1)
	height = max(height, 1)
	if width == r.width && height == r.height {
		return
	}
	r.width = width
	r.height = height
	r.img = image.NewRGBA(image.Rect(0, 0, width, height))
}

// Size returns the surface dimensions in pixels.
func (r *Renderer) Size() (width, height int) {
	return r.width, r.height
}

// Image exposes the current surface.
func (r *Renderer) Image() *image.RGBA {
	return r.img
}

// Pixels exposes the surface's raw RGBA bytes, row-major.
func (r *Renderer) Pixels() []byte {
	return r.img.Pix
}

// Redraw clears the surface and repaints every item in order. Selected
// items get an outline on top of their fill.
func (r *Renderer) Redraw(items []Item, opts Options) {
	draw.Draw(r.img, r.img.Bounds(), image.NewUniform(backgroundColor), image.Point{}, draw.Src)

	if opts.Grid {
		step := opts.GridStep
		if step <= 0 {
			step = DefaultGridStep
		}
		r.drawGrid(step)
	}

	for _, item := range items {
		fill, ok := kindFills[item.Kind]
		if !ok {
			fill = fallbackFill
		}
		r.fillPolygon(item.World, fill)
		if item.Selected {
			r.strokePolygon(item.World, selectionColor, 2)
		}
	}
}

// EncodePNG writes the current surface as a PNG stream.
func (r *Renderer) EncodePNG(w io.Writer) error {
	return png.Encode(w, r.img)
}

func (r *Renderer) drawGrid(step float64) {
	for x := step; x < float64(r.width); x += step {
		xi := int(x)
		for y := 0; y < r.height; y++ {
			r.img.SetRGBA(xi, y, gridColor)
		}
	}
	for y := step; y < float64(r.height); y += step {
		yi := int(y)
		for x := 0; x < r.width; x++ {
			r.img.SetRGBA(x, yi, gridColor)
		}
	}
}

func (r *Renderer) fillPolygon(p geom.Polygon, c color.RGBA) {
	if len(p.Vertices) < 3 {
		return
	}
	r.ras.Reset(r.width, r.height)
	r.ras.MoveTo(float32(p.Vertices[0].X), float32(p.Vertices[0].Y))
	for _, v := range p.Vertices[1:] {
		r.ras.LineTo(float32(v.X), float32(v.Y))
	}
	r.ras.ClosePath()
	r.ras.Draw(r.img, r.img.Bounds(), image.NewUniform(c), image.Point{})
}

// strokePolygon draws each closing edge as a thin filled quad. Good
// enough for a selection outline; corners are left unjoined.
func (r *Renderer) strokePolygon(p geom.Polygon, c color.RGBA, width float64) {
	n := len(p.Vertices)
	if n < 2 {
		return
	}
	half := width / 2
	r.ras.Reset(r.width, r.height)
	for i := 0; i < n; i++ {
		a := p.Vertices[i]
		b := p.Vertices[(i+1)%n]
		d := b.Sub(a).Normalized()
		if d == (geom.Vector{}) {
			continue
		}
		ox, oy := -d.Y*half, d.X*half
		r.ras.MoveTo(float32(a.X+ox), float32(a.Y+oy))
		r.ras.LineTo(float32(b.X+ox), float32(b.Y+oy))
		r.ras.LineTo(float32(b.X-ox), float32(b.Y-oy))
		r.ras.LineTo(float32(a.X-ox), float32(a.Y-oy))
		r.ras.ClosePath()
	}
	r.ras.Draw(r.img, r.img.Bounds(), image.NewUniform(c), image.Point{})
}
