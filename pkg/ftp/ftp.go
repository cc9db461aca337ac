// Package ftp defines the remote configuration-access collaborator.
//
// The wire protocol is implemented externally; the gateway only feeds the
// server its accounts and filesystems, services it once per tick and
// watches the open-session count. That count drives the restart guard: a
// session that closes may have rewritten the configuration, and the only
// way the gateway picks up a new configuration is a full restart.
package ftp

import (
	"errors"
	"io/fs"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// Account errors.
var (
	ErrDuplicateUser = errors.New("ftp: user already registered")
	ErrUnknownUser   = errors.New("ftp: unknown user")
)

// Server is the surface the gateway drives.
type Server interface {
	// AddUser registers an account before Begin.
	AddUser(name, password string) error

	// RegisterFilesystem exposes a named filesystem to remote sessions.
	RegisterFilesystem(name string, fsys fs.FS)

	// Begin starts listening for sessions.
	Begin() error

	// Handle services pending protocol work. Called once per tick; must
	// not block.
	Handle()

	// CountOpenSessions returns the number of sessions currently open.
	CountOpenSessions() int
}

// Credentials stores account passwords as bcrypt hashes. Protocol engines
// call Authorize on login; plaintext never remains in memory beyond AddUser.
type Credentials struct {
	mu     sync.Mutex
	hashes map[string][]byte
}

// NewCredentials creates an empty credential store.
func NewCredentials() *Credentials {
	return &Credentials{hashes: make(map[string][]byte)}
}

// Add hashes and stores an account password.
func (c *Credentials) Add(name, password string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.hashes[name]; exists {
		return ErrDuplicateUser
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	c.hashes[name] = hash
	return nil
}

// Authorize checks a login attempt.
func (c *Credentials) Authorize(name, password string) error {
	c.mu.Lock()
	hash, exists := c.hashes[name]
	c.mu.Unlock()

	if !exists {
		return ErrUnknownUser
	}
	return bcrypt.CompareHashAndPassword(hash, []byte(password))
}
