package session

import (
	"encoding/json"

	"github.com/shapepad/shapepad/engine-go/internal/scene"
)

// Message is the envelope for both directions of the session socket.
// Payload is decoded according to Type.
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Client-to-server message types.
const (
	TypeSetTool      = "set_tool"
	TypeSetViewport  = "set_viewport"
	TypePointerDown  = "pointer_down"
	TypePointerMove  = "pointer_move"
	TypePointerUp    = "pointer_up"
	TypePointerLeave = "pointer_leave"
	TypeAddShape     = "add_shape"
	TypeRemoveShape  = "remove_shape"
	TypeReset        = "reset"
)

// Server-to-client message types.
const (
	TypeScene       = "scene"
	TypeShapeUpdate = "shape_update"
	TypeSelection   = "selection"
	TypeError       = "error"
)

type SetToolPayload struct {
	Tool string `json:"tool"`
}

type SetViewportPayload struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type PointerPayload struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type AddShapePayload struct {
	Kind      scene.Kind      `json:"kind"`
	Params    scene.Params    `json:"params"`
	Transform scene.Transform `json:"transform"`
}

type RemoveShapePayload struct {
	ID string `json:"id"`
}

// ScenePayload is the full scene snapshot sent after connect and after
// any structural change.
type ScenePayload struct {
	Shapes    []scene.Shape `json:"shapes"`
	Selection string        `json:"selection"`
	Tool      string        `json:"tool"`
}

type ShapeUpdatePayload struct {
	Shape scene.Shape `json:"shape"`
}

type SelectionPayload struct {
	ID string `json:"id"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}
