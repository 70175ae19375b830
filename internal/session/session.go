package session

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"

	"github.com/shapepad/shapepad/engine-go/internal/canvas"
	"github.com/shapepad/shapepad/engine-go/internal/engine"
	"github.com/shapepad/shapepad/engine-go/internal/geom"
	"github.com/shapepad/shapepad/engine-go/internal/scene"
)

const (
	// writeWait bounds a single outbound write.
	writeWait = 10 * time.Second

	// pingPeriod is how often the server pings an idle connection.
	pingPeriod = 30 * time.Second

	// maxMessageSize bounds inbound messages; pointer events are tiny.
	maxMessageSize = 32 * 1024

	// sendBuffer is the outbound queue length. When the client cannot
	// keep up, messages are dropped rather than blocking the editor.
	sendBuffer = 256
)

// Session is one connection's isolated editor: its own shape store and
// interaction controller. Sessions never see each other's state.
type Session struct {
	// ID is the identity from the session token. ClientID distinguishes
	// multiple connections opened with the same token.
	ID       string
	ClientID string

	hub        *Hub
	conn       *websocket.Conn
	store      *scene.Store
	controller *canvas.Controller

	send        chan []byte
	connectedAt time.Time
}

// Info is a diagnostic snapshot of one live session.
type Info struct {
	ID          string    `json:"id"`
	ClientID    string    `json:"clientId"`
	Tool        string    `json:"tool"`
	Selection   string    `json:"selection"`
	ShapeCount  int       `json:"shapeCount"`
	ConnectedAt time.Time `json:"connectedAt"`
}

// NewSession builds a session around an accepted connection, seeded with
// the sample scene.
func NewSession(hub *Hub, conn *websocket.Conn, id string, eng *engine.Engine) *Session {
	store := scene.NewStore(eng)
	scene.SampleScene(store)

	s := &Session{
		ID:          id,
		ClientID:    uuid.New().String(),
		hub:         hub,
		conn:        conn,
		store:       store,
		send:        make(chan []byte, sendBuffer),
		connectedAt: time.Now(),
	}

	s.controller = canvas.NewController(store, slog.Default())
	s.controller.OnShapeSelect = func(id string) {
		s.Send(TypeSelection, SelectionPayload{ID: id})
	}
	s.controller.OnShapeUpdate = func(shape scene.Shape) {
		s.Send(TypeShapeUpdate, ShapeUpdatePayload{Shape: shape})
	}
	return s
}

// ReadPump consumes inbound messages until the connection drops, then
// unregisters the session.
func (s *Session) ReadPump(ctx context.Context) {
	defer func() {
		s.hub.Unregister(s)
		s.conn.Close(websocket.StatusNormalClosure, "")
	}()

	s.conn.SetReadLimit(maxMessageSize)
	s.sendScene()

	for {
		_, data, err := s.conn.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
				return
			}
			slog.Debug("session read ended", "session", s.ID, "error", err)
			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			slog.Warn("malformed session message", "session", s.ID, "error", err)
			s.sendError("malformed message")
			continue
		}

		s.handleMessage(&msg)
	}
}

// WritePump drains the send queue onto the wire and pings idle
// connections.
func (s *Session) WritePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		select {
		case data, ok := <-s.send:
			if !ok {
				return
			}
			writeCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := s.conn.Write(writeCtx, websocket.MessageText, data)
			cancel()
			if err != nil {
				return
			}
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := s.conn.Ping(pingCtx)
			cancel()
			if err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

// Send queues an outbound message. A full queue drops the message with a
// warning instead of stalling the editor.
func (s *Session) Send(msgType string, payload interface{}) {
	raw, err := json.Marshal(payload)
	if err != nil {
		slog.Error("marshal session payload", "type", msgType, "error", err)
		return
	}
	data, err := json.Marshal(Message{Type: msgType, Payload: raw})
	if err != nil {
		slog.Error("marshal session message", "type", msgType, "error", err)
		return
	}

	select {
	case s.send <- data:
	default:
		slog.Warn("session send buffer full, dropping message",
			"session", s.ID, "type", msgType)
	}
}

// handleMessage routes one inbound message to the store or controller.
// Unknown types and bad payloads answer with an error message and leave
// the session state untouched.
func (s *Session) handleMessage(msg *Message) {
	switch msg.Type {
	case TypeSetTool:
		var p SetToolPayload
		if !s.decode(msg, &p) {
			return
		}
		s.controller.SetTool(canvas.Tool(p.Tool))

	case TypeSetViewport:
		var p SetViewportPayload
		if !s.decode(msg, &p) {
			return
		}
		s.controller.SetViewport(p.Width, p.Height)

	case TypePointerDown:
		var p PointerPayload
		if !s.decode(msg, &p) {
			return
		}
		s.controller.PointerDown(geom.Point{X: p.X, Y: p.Y})

	case TypePointerMove:
		var p PointerPayload
		if !s.decode(msg, &p) {
			return
		}
		s.controller.PointerMove(geom.Point{X: p.X, Y: p.Y})

	case TypePointerUp:
		s.controller.PointerUp()

	case TypePointerLeave:
		s.controller.PointerLeave()

	case TypeAddShape:
		var p AddShapePayload
		if !s.decode(msg, &p) {
			return
		}
		if _, err := s.store.Add(p.Kind, p.Params, p.Transform); err != nil {
			slog.Warn("rejected shape", "session", s.ID, "kind", p.Kind, "error", err)
			s.sendError("unknown shape kind")
			return
		}
		s.sendScene()

	case TypeRemoveShape:
		var p RemoveShapePayload
		if !s.decode(msg, &p) {
			return
		}
		if s.store.Remove(p.ID) && s.controller.Selection() == p.ID {
			s.controller.ClearSelection()
		}
		s.sendScene()

	case TypeReset:
		s.controller.ClearSelection()
		s.store.Clear()
		scene.SampleScene(s.store)
		s.sendScene()

	default:
		slog.Warn("unknown session message type", "session", s.ID, "type", msg.Type)
		s.sendError("unknown message type")
	}
}

// decode unmarshals a payload, answering with an error message on
// failure.
func (s *Session) decode(msg *Message, v interface{}) bool {
	if err := json.Unmarshal(msg.Payload, v); err != nil {
		slog.Warn("invalid session payload", "session", s.ID, "type", msg.Type, "error", err)
		s.sendError("invalid payload for " + msg.Type)
		return false
	}
	return true
}

func (s *Session) sendScene() {
	s.Send(TypeScene, ScenePayload{
		Shapes:    s.store.Shapes(),
		Selection: s.controller.Selection(),
		Tool:      string(s.controller.Tool()),
	})
}

func (s *Session) sendError(message string) {
	s.Send(TypeError, ErrorPayload{Message: message})
}

func (s *Session) info() Info {
	return Info{
		ID:          s.ID,
		ClientID:    s.ClientID,
		Tool:        string(s.controller.Tool()),
		Selection:   s.controller.Selection(),
		ShapeCount:  s.store.Len(),
		ConnectedAt: s.connectedAt,
	}
}
