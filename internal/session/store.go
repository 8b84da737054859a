package session

import (
	"encoding/json"
	"log"
	"os"
	"sync"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/pkg/errors"

	"github.com/mapsocial/mapsocial-go/internal/model"
)

// Store holds the single signed-in identity for this process: a bearer
// token and the user profile, persisted as a small JSON credentials file.
// Missing or unreadable stored state is treated as signed-out, never as an
// error.
type Store struct {
	path string

	mu        sync.Mutex
	creds     credentials
	gen       uint64
	onSignOut []func(gen uint64)
}

type credentials struct {
	AccessToken string      `json:"access_token,omitempty"`
	User        *model.User `json:"user,omitempty"`
}

func NewStore(path string) *Store {
	s := &Store{path: path}
	s.load()
	return s
}

func (s *Store) load() {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return
	}
	var c credentials
	if err := json.Unmarshal(raw, &c); err != nil {
		// Corrupt credentials read as signed-out.
		log.Printf("[Session]: ignoring malformed credentials file %s: %v", s.path, err)
		return
	}
	s.creds = c
}

func (s *Store) persist() error {
	raw, err := json.MarshalIndent(s.creds, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode credentials")
	}
	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		return errors.Wrap(err, "write credentials")
	}
	return nil
}

// Token returns the stored bearer token, or "" when signed out. Callers
// treat the empty string as "no token".
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.creds.AccessToken
}

func (s *Store) SaveToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds.AccessToken = token
	return s.persist()
}

// User returns the stored profile, or nil when absent.
func (s *Store) User() *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.creds.User == nil {
		return nil
	}
	u := *s.creds.User
	return &u
}

func (s *Store) SaveUser(u model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds.User = &u
	return s.persist()
}

// TokenValid reports whether a token is present and not past its exp claim.
// The signature is not checked here; the client has no signing secret and
// the server re-verifies every call. This only exists so mutations can fail
// fast before touching the network.
func (s *Store) TokenValid(now time.Time) bool {
	token := s.Token()
	if token == "" {
		return false
	}
	parsed, _, err := new(jwt.Parser).ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		// Opaque tokens pass through; the server is the backstop.
		return true
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return true
	}
	return claims.VerifyExpiresAt(now.Unix(), false)
}

// OnSignOut registers a callback fired after every identity teardown,
// receiving the new generation. Callbacks run outside the store lock;
// long-lived components use them to rebuild any state tied to the old
// identity.
func (s *Store) OnSignOut(fn func(gen uint64)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onSignOut = append(s.onSignOut, fn)
}

// SignOut clears token and user together, rewrites the credentials file,
// bumps the generation, and notifies OnSignOut subscribers. Subscribers
// are notified even when the rewrite fails; the in-memory identity is
// gone either way.
func (s *Store) SignOut() error {
	s.mu.Lock()
	s.creds = credentials{}
	s.gen++
	gen := s.gen
	subs := append([]func(uint64){}, s.onSignOut...)
	err := s.persist()
	s.mu.Unlock()

	for _, fn := range subs {
		fn(gen)
	}
	return err
}

// Generation increments on every SignOut.
func (s *Store) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}
