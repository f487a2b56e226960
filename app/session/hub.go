package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/lysyi3m/obs-overlay/app/overlay"
)

// Hub keeps the open sessions so acknowledgements from the page can be
// routed by session id.
type Hub struct {
	deps Deps

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewHub(deps Deps) *Hub {
	return &Hub{
		deps:     deps,
		sessions: make(map[string]*Session),
	}
}

// Open creates and starts a session. It lives until Close or until ctx is
// done.
func (h *Hub) Open(ctx context.Context, cfg overlay.Config) *Session {
	s := New(ctx, cfg, h.deps)

	h.mu.Lock()
	h.sessions[s.ID] = s
	h.mu.Unlock()
	h.deps.Metrics.SessionsActive.Inc()

	s.Start()
	return s
}

func (h *Hub) Get(id string) (*Session, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	s, ok := h.sessions[id]
	return s, ok
}

func (h *Hub) Close(id string) {
	h.mu.Lock()
	s, ok := h.sessions[id]
	delete(h.sessions, id)
	h.mu.Unlock()

	if !ok {
		return
	}
	s.Close()
	h.deps.Metrics.SessionsActive.Dec()
	slog.Info("Overlay session closed", "session", id)
}

func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

func (h *Hub) CloseAll() {
	h.mu.RLock()
	ids := make([]string, 0, len(h.sessions))
	for id := range h.sessions {
		ids = append(ids, id)
	}
	h.mu.RUnlock()

	for _, id := range ids {
		h.Close(id)
	}
}
