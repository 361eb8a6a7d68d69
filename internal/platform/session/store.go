package session

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"ragadmin/internal/backend"
)

// Session is a snapshot of the operator's authenticated state.
type Session struct {
	Token string
	User  *backend.User
}

// fileState mirrors what the browser dashboard kept in localStorage.
type fileState struct {
	AuthToken string        `json:"auth_token"`
	User      *backend.User `json:"user,omitempty"`
}

// Store holds the single token/user pair shared by every outgoing backend
// request. It is persisted to disk so the dashboard survives restarts, and
// notifies subscribers when the session is cleared (logout or a 401 from
// the backend) so the web layer can react without polling.
type Store struct {
	path string

	mu   sync.RWMutex
	cur  Session
	subs []func()
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reconstructs the session from disk. A missing file is not an error;
// it just means the operator is anonymous.
func (s *Store) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}

	var state fileState
	if err := json.Unmarshal(data, &state); err != nil {
		return err
	}

	s.mu.Lock()
	s.cur = Session{Token: state.AuthToken, User: state.User}
	s.mu.Unlock()
	return nil
}

// Set records a successful login and persists it.
func (s *Store) Set(token string, user *backend.User) error {
	s.mu.Lock()
	s.cur = Session{Token: token, User: user}
	s.mu.Unlock()
	return s.persist(fileState{AuthToken: token, User: user})
}

// Clear wipes the session, removes the persisted copy and notifies
// subscribers. Clearing an already-anonymous store is a no-op.
func (s *Store) Clear() error {
	s.mu.Lock()
	wasAuthenticated := s.cur.Token != ""
	s.cur = Session{}
	subs := s.subs
	s.mu.Unlock()

	if !wasAuthenticated {
		return nil
	}

	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	for _, fn := range subs {
		fn()
	}
	return nil
}

// Subscribe registers a callback invoked whenever the session is cleared.
func (s *Store) Subscribe(fn func()) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

// Current returns a snapshot of the session.
func (s *Store) Current() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur
}

// Token returns the bearer token, or "" when anonymous.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur.Token
}

// Authenticated reports whether a usable session exists. A token that is a
// JWT with an elapsed exp claim counts as anonymous; an opaque token is
// trusted as-is and left for the backend to reject.
func (s *Store) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cur.Token == "" {
		return false
	}
	return !tokenExpired(s.cur.Token, time.Now())
}

func tokenExpired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	// Unverified parse: the dashboard does not hold the signing secret, it
	// only inspects exp to avoid sending requests doomed to a 401.
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(now)
}

func (s *Store) persist(state fileState) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0600)
}
