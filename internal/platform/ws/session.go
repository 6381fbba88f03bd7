package ws

import "sync"

// SessionID identifies one websocket connection.
type SessionID string

// Session is the outbound side of a connection.
// The game loop sends messages; the connection's writer drains them.
type Session struct {
	id       SessionID
	out      chan any
	done     chan struct{}
	doneOnce sync.Once
}

// NewSession creates a session with a bounded outbound buffer.
func NewSession(id SessionID, bufferSize int) *Session {
	if bufferSize < 1 {
		bufferSize = 64
	}
	return &Session{
		id:   id,
		out:  make(chan any, bufferSize),
		done: make(chan struct{}),
	}
}

// ID returns the session identifier.
func (s *Session) ID() SessionID {
	return s.id
}

// Send queues a message for the client without blocking.
// When the buffer is full the oldest message is dropped; snapshots are
// complete, so a slow client only loses intermediate frames.
func (s *Session) Send(msg any) {
	select {
	case <-s.done:
		return
	default:
	}

	select {
	case s.out <- msg:
		return
	default:
	}

	select {
	case <-s.out:
	default:
	}
	select {
	case s.out <- msg:
	default:
	}
}

// Outbound returns the channel the writer reads from.
func (s *Session) Outbound() <-chan any {
	return s.out
}

// Done returns a channel that closes when the session ends.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Close ends the session. Safe to call multiple times.
func (s *Session) Close() {
	s.doneOnce.Do(func() {
		close(s.done)
	})
}

// Registry tracks active sessions.
type Registry struct {
	mu       sync.RWMutex
	sessions map[SessionID]*Session
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[SessionID]*Session)}
}

// Register adds a session.
func (r *Registry) Register(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID()] = s
}

// Unregister removes a session.
func (r *Registry) Unregister(id SessionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// Get looks up a session by ID.
func (r *Registry) Get(id SessionID) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Count returns the number of active sessions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// CloseAll ends every registered session.
func (r *Registry) CloseAll() {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, s := range r.sessions {
		s.Close()
	}
}
