package scene

import "github.com/shapepad/shapepad/engine-go/internal/geom"

// SampleScene seeds a store with the demo's starter shapes: one of each
// primitive, spread across a 960x540 canvas.
func SampleScene(s *Store) {
	s.Add(KindSquare, Params{Size: 120},
		Transform{Translate: geom.Point{X: 120, Y: 90}, Scale: 1})
	s.Add(KindTriangle, Params{Base: 150, Height: 120},
		Transform{Translate: geom.Point{X: 390, Y: 100}, Scale: 1})
	s.Add(KindCircle, Params{Radius: 70},
		Transform{Translate: geom.Point{X: 700, Y: 160}, Scale: 1})
	s.Add(KindRectangle, Params{Width: 180, Height: 110},
		Transform{Translate: geom.Point{X: 250, Y: 330}, Scale: 1})
}
