package ftp

import (
	"io/fs"
	"sync"
)

// LoopbackServer is an in-process Server for simulation mode and tests.
// Sessions are opened and closed programmatically; the protocol side is a
// no-op.
type LoopbackServer struct {
	creds *Credentials

	mu          sync.Mutex
	began       bool
	filesystems map[string]fs.FS
	sessions    int
	handled     int
}

// NewLoopbackServer creates an idle loopback server.
func NewLoopbackServer() *LoopbackServer {
	return &LoopbackServer{
		creds:       NewCredentials(),
		filesystems: make(map[string]fs.FS),
	}
}

// AddUser registers an account.
func (s *LoopbackServer) AddUser(name, password string) error {
	return s.creds.Add(name, password)
}

// Authorize checks a login attempt against the registered accounts.
func (s *LoopbackServer) Authorize(name, password string) error {
	return s.creds.Authorize(name, password)
}

// RegisterFilesystem exposes a named filesystem.
func (s *LoopbackServer) RegisterFilesystem(name string, fsys fs.FS) {
	s.mu.Lock()
	s.filesystems[name] = fsys
	s.mu.Unlock()
}

// Begin marks the server started.
func (s *LoopbackServer) Begin() error {
	s.mu.Lock()
	s.began = true
	s.mu.Unlock()
	return nil
}

// Began reports whether Begin was called.
func (s *LoopbackServer) Began() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.began
}

// Handle counts invocations; the loopback server has no protocol work.
func (s *LoopbackServer) Handle() {
	s.mu.Lock()
	s.handled++
	s.mu.Unlock()
}

// Handled returns how often Handle ran.
func (s *LoopbackServer) Handled() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.handled
}

// OpenSession simulates a client connecting.
func (s *LoopbackServer) OpenSession() {
	s.mu.Lock()
	s.sessions++
	s.mu.Unlock()
}

// CloseSession simulates a client disconnecting.
func (s *LoopbackServer) CloseSession() {
	s.mu.Lock()
	if s.sessions > 0 {
		s.sessions--
	}
	s.mu.Unlock()
}

// SetSessions forces the open-session count.
func (s *LoopbackServer) SetSessions(n int) {
	s.mu.Lock()
	s.sessions = n
	s.mu.Unlock()
}

// CountOpenSessions returns the simulated session count.
func (s *LoopbackServer) CountOpenSessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions
}

// Compile-time interface satisfaction check.
var _ Server = (*LoopbackServer)(nil)
