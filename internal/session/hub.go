package session

import (
	"log/slog"
	"sort"
	"sync"
)

// Hub tracks live sessions for diagnostics and shutdown. Sessions are
// isolated editors; the hub never routes messages between them.
type Hub struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	register   chan *Session
	unregister chan *Session
	done       chan struct{}
	stopOnce   sync.Once
}

// NewHub returns a hub ready for Run.
func NewHub() *Hub {
	return &Hub{
		sessions:   make(map[string]*Session),
		register:   make(chan *Session),
		unregister: make(chan *Session),
		done:       make(chan struct{}),
	}
}

// Run processes registration until Stop. Call it in its own goroutine.
func (h *Hub) Run() {
	for {
		select {
		case s := <-h.register:
			h.addSession(s)
		case s := <-h.unregister:
			h.removeSession(s)
		case <-h.done:
			return
		}
	}
}

// Register adds a session. Safe to call after Stop; it becomes a no-op.
func (h *Hub) Register(s *Session) {
	select {
	case h.register <- s:
	case <-h.done:
	}
}

// Unregister removes a session and closes its send queue.
func (h *Hub) Unregister(s *Session) {
	select {
	case h.unregister <- s:
	case <-h.done:
	}
}

// Stop shuts the hub down and closes every session's send queue, which
// ends their write pumps.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() {
		close(h.done)

		h.mu.Lock()
		remaining := make([]*Session, 0, len(h.sessions))
		for _, s := range h.sessions {
			remaining = append(remaining, s)
		}
		h.sessions = make(map[string]*Session)
		h.mu.Unlock()

		for _, s := range remaining {
			close(s.send)
		}
		slog.Info("session hub stopped", "sessions", len(remaining))
	})
}

func (h *Hub) addSession(s *Session) {
	h.mu.Lock()
	h.sessions[s.ClientID] = s
	count := len(h.sessions)
	h.mu.Unlock()

	slog.Info("session connected", "session", s.ID, "client", s.ClientID, "total", count)
}

func (h *Hub) removeSession(s *Session) {
	h.mu.Lock()
	_, present := h.sessions[s.ClientID]
	if present {
		delete(h.sessions, s.ClientID)
	}
	count := len(h.sessions)
	h.mu.Unlock()

	if !present {
		return
	}
	close(s.send)
	slog.Info("session disconnected", "session", s.ID, "client", s.ClientID, "total", count)
}

// Sessions returns a diagnostic snapshot ordered by connect time.
func (h *Hub) Sessions() []Info {
	h.mu.RLock()
	infos := make([]Info, 0, len(h.sessions))
	for _, s := range h.sessions {
		infos = append(infos, s.info())
	}
	h.mu.RUnlock()

	sort.Slice(infos, func(i, j int) bool {
		if !infos[i].ConnectedAt.Equal(infos[j].ConnectedAt) {
			return infos[i].ConnectedAt.Before(infos[j].ConnectedAt)
		}
		return infos[i].ClientID < infos[j].ClientID
	})
	return infos
}

// Count reports the number of live sessions.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}
