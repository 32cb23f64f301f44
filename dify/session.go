package dify

import "sync"

// Session holds the bearer token obtained from a console login. It is owned
// by a single Client; concurrent calls read a snapshot of the token, and a
// 401/403 from any call invalidates it for everyone sharing the client.
type Session struct {
	mu    sync.RWMutex
	token string
}

// Token returns the current session token, or empty if not logged in.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// set stores a new token after a successful login.
func (s *Session) set(token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
}

// Invalidate clears the stored token. Safe to call repeatedly.
func (s *Session) Invalidate() {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
}
