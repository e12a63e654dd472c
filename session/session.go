// Package session holds the current user and bearer token: the only state
// the client persists. The store is constructed and injected, never
// ambient; it hydrates from a JSON file at startup and is cleared
// explicitly on logout.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/campus-events/client-go/common/logger"
	"github.com/campus-events/client-go/models"
)

// persisted is the on-disk shape, the CLI analogue of the SPA's local
// storage entry
type persisted struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// Store is safe for concurrent use; the notification poller reads it
// while the CLI main goroutine mutates it.
type Store struct {
	mu    sync.RWMutex
	path  string
	token string
	user  *models.User
	log   *logger.Logger
}

// NewStore creates an unauthenticated store persisting to path
func NewStore(path string, log *logger.Logger) *Store {
	if log == nil {
		log = logger.Default()
	}
	return &Store{path: path, log: log}
}

// Hydrate loads a previously persisted session. A missing file is not an
// error; a session whose token is a parseable JWT past its expiry is
// discarded rather than presented to the backend.
func (s *Store) Hydrate() error {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read session file: %w", err)
	}

	var p persisted
	if err := json.Unmarshal(data, &p); err != nil {
		s.log.Warn("session file is corrupt, discarding: %v", err)
		_ = os.Remove(s.path)
		return nil
	}
	if p.Token == "" || p.User.ID == "" {
		return nil
	}

	if expired(p.Token) {
		s.log.Info("persisted session for %s has expired", p.User.Email)
		_ = os.Remove(s.path)
		return nil
	}

	s.mu.Lock()
	s.token = p.Token
	s.user = &p.User
	s.mu.Unlock()
	return nil
}

// SetSession enters the authenticated state and persists token + user
func (s *Store) SetSession(user models.User, token string) error {
	s.mu.Lock()
	s.token = token
	s.user = &user
	s.mu.Unlock()

	return s.persist(persisted{Token: token, User: user})
}

// Clear unconditionally returns to the unauthenticated state, wiping both
// memory and the persisted file
func (s *Store) Clear() error {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}

// Current returns a copy of the logged-in user, or nil
func (s *Store) Current() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Token returns the bearer token, or "" when unauthenticated. Implements
// api.TokenSource.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Role returns the current user's role, or "" when unauthenticated
func (s *Store) Role() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return ""
	}
	return s.user.Role
}

// Validate is a presence check only: token and user both exist. It does
// NOT confirm the token is still accepted server-side; a revoked token
// surfaces on the next failing call. Callers who need server confirmation
// use auth.Service.Probe.
func (s *Store) Validate() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != "" && s.user != nil
}

func (s *Store) persist(p persisted) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

// tokenClaims mirrors the claims the backend signs into its tokens
type tokenClaims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// expired reports whether token is a parseable JWT whose expiry has
// passed. The signature is deliberately not verified: that is the
// server's job; the client only wants to avoid presenting a token it can
// already see is dead. Opaque tokens are assumed live.
func expired(token string) bool {
	claims := &tokenClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return claims.ExpiresAt.Before(time.Now())
}

// ============================================================
// Role-gated access
// ============================================================

// Allowed is the route-guard predicate: an empty allow-list admits any
// authenticated role; otherwise the role must be listed.
func Allowed(role string, allowedRoles []string) bool {
	if len(allowedRoles) == 0 {
		return true
	}
	for _, allowed := range allowedRoles {
		if role == allowed {
			return true
		}
	}
	return false
}
