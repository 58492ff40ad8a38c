package session

import (
	"sync"

	"github.com/google/uuid"
)

// Session describes the authenticated user attached to incoming requests.
type Session struct {
	UserID   uuid.UUID
	Email    string
	IsSeller bool
	AccessID string
}

// Anonymous reports whether the session belongs to no signed-in user.
func (s *Session) Anonymous() bool {
	return s == nil || s.UserID == uuid.Nil
}

// Listener receives the previous and new session state after every change.
// A nil next session means the user signed out.
type Listener func(prev, next *Session)

// Holder tracks the current session and notifies subscribers on changes.
// Consumers that mirror per-user state (the cart registry) subscribe so they
// can reset when the user signs out.
type Holder struct {
	mu        sync.RWMutex
	current   *Session
	listeners map[int]Listener
	nextID    int
}

// NewHolder builds an empty session holder.
func NewHolder() *Holder {
	return &Holder{
		listeners: map[int]Listener{},
	}
}

// Current returns the active session, or nil when signed out.
func (h *Holder) Current() *Session {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current
}

// Set replaces the active session and notifies subscribers.
func (h *Holder) Set(s *Session) {
	h.mu.Lock()
	prev := h.current
	h.current = s
	listeners := h.snapshotListeners()
	h.mu.Unlock()

	for _, fn := range listeners {
		fn(prev, s)
	}
}

// Clear drops the active session and notifies subscribers with nil.
func (h *Holder) Clear() {
	h.Set(nil)
}

// ClearAccess drops the active session only when it carries the given access
// ID, so a sign-out for a session that is no longer current leaves the holder
// (and its subscribers) alone.
func (h *Holder) ClearAccess(accessID string) {
	h.mu.Lock()
	if h.current == nil || h.current.AccessID != accessID {
		h.mu.Unlock()
		return
	}
	prev := h.current
	h.current = nil
	listeners := h.snapshotListeners()
	h.mu.Unlock()

	for _, fn := range listeners {
		fn(prev, nil)
	}
}

// Subscribe registers a listener and returns an unsubscribe function.
func (h *Holder) Subscribe(fn Listener) func() {
	if fn == nil {
		return func() {}
	}

	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.listeners[id] = fn
	h.mu.Unlock()

	return func() {
		h.mu.Lock()
		delete(h.listeners, id)
		h.mu.Unlock()
	}
}

func (h *Holder) snapshotListeners() []Listener {
	out := make([]Listener, 0, len(h.listeners))
	for _, fn := range h.listeners {
		out = append(out, fn)
	}
	return out
}
