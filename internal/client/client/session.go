package client

import (
	"encoding/base64"
	"sync"
)

// Session holds the Basic credentials sent with every backend request.
// The zero value is an unauthenticated session. Safe for concurrent use.
type Session struct {
	mu    sync.RWMutex
	token string
}

func NewSession() *Session {
	return &Session{}
}

// SetBasic stores base64("username:password") as the session token.
func (s *Session) SetBasic(username, password string) {
	s.SetToken(BasicToken(username, password))
}

// SetToken installs an already encoded token, e.g. one restored from storage.
func (s *Session) SetToken(token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) Clear() {
	s.SetToken("")
}

func (s *Session) IsAuthenticated() bool {
	return s.Token() != ""
}

// BasicToken encodes credentials for the Authorization: Basic scheme.
func BasicToken(username, password string) string {
	return base64.StdEncoding.EncodeToString([]byte(username + ":" + password))
}
