package notify

import (
	"sync"

	"github.com/gorilla/websocket"
)

// Notice is the payload pushed to a connected recipient.
type Notice struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// WSSession represents a connected recipient organization session.
type WSSession struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (s *WSSession) Send(n Notice) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteJSON(n)
}

// WSRegistry holds live recipient sessions keyed by recipient id.
type WSRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*WSSession
}

func NewWSRegistry() *WSRegistry { return &WSRegistry{sessions: make(map[string]*WSSession)} }

func (r *WSRegistry) Add(recipientID string, conn *websocket.Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[recipientID] = &WSSession{conn: conn}
}

func (r *WSRegistry) Remove(recipientID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, recipientID)
}

func (r *WSRegistry) Notify(recipientID, subject, body string) error {
	r.mu.RLock()
	s, ok := r.sessions[recipientID]
	r.mu.RUnlock()
	if !ok {
		return ErrNoSession
	}
	return s.Send(Notice{Subject: subject, Body: body})
}

var ErrNoSession = &NoSessionError{}

type NoSessionError struct{}

func (n *NoSessionError) Error() string { return "no active session" }
