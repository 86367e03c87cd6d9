package search

import (
	"context"
	"sync"
)

// Token identifies one search within a session.
type Token struct {
	Session    string
	Generation uint64
}

type session struct {
	generation uint64
	cancel     context.CancelFunc
}

// Tracker hands out increasing generation tokens per session so that only
// the latest search of a session delivers results. Beginning a search
// cancels the previous one.
type Tracker struct {
	mu       sync.Mutex
	next     uint64
	sessions map[string]*session
}

// NewTracker creates an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{sessions: make(map[string]*session)}
}

// Begin starts a search for sessionID and returns a derived context that is
// canceled when a newer search for the same session begins. An empty
// sessionID is never tracked.
func (t *Tracker) Begin(ctx context.Context, sessionID string) (context.Context, Token) {
	if sessionID == "" {
		return ctx, Token{}
	}

	ctx, cancel := context.WithCancel(ctx)

	t.mu.Lock()
	defer t.mu.Unlock()

	s, ok := t.sessions[sessionID]
	if !ok {
		s = &session{}
		t.sessions[sessionID] = s
	}
	if s.cancel != nil {
		s.cancel()
	}
	t.next++
	s.generation = t.next
	s.cancel = cancel
	return ctx, Token{Session: sessionID, Generation: s.generation}
}

// Current reports whether tok is still the latest search of its session.
func (t *Tracker) Current(tok Token) bool {
	if tok.Session == "" {
		return true
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	s, ok := t.sessions[tok.Session]
	return ok && s.generation == tok.Generation
}

// Check returns ErrSuperseded when tok is stale.
func (t *Tracker) Check(tok Token) error {
	if !t.Current(tok) {
		return ErrSuperseded
	}
	return nil
}

// Finish releases tok's context. The session entry is dropped only when tok
// is still current, so a newer search keeps its state.
func (t *Tracker) Finish(tok Token) {
	if tok.Session == "" {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	s, ok := t.sessions[tok.Session]
	if !ok || s.generation != tok.Generation {
		return
	}
	if s.cancel != nil {
		s.cancel()
	}
	delete(t.sessions, tok.Session)
}

// Active returns the number of sessions with a search in flight.
func (t *Tracker) Active() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.sessions)
}
