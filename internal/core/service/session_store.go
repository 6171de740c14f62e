package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/simmerkit/recipe-vault/internal/core/domain"
	"github.com/simmerkit/recipe-vault/internal/core/ports"
)

// SessionStore is the single source of truth for "is someone logged in" on
// one device profile, surviving process restarts through the key-value
// store.
//
// Durability discipline: every mutator writes through to the KV store
// before touching in-memory state, so a crash between the two never leaves
// memory ahead of disk.
type SessionStore struct {
	kv   ports.KVStore
	auth ports.Authenticator
	key  string
	log  zerolog.Logger

	mu      sync.Mutex
	loaded  bool
	session *domain.Session
}

// NewSessionStore creates a SessionStore persisting under the given storage
// key.
func NewSessionStore(kv ports.KVStore, auth ports.Authenticator, key string, log zerolog.Logger) *SessionStore {
	return &SessionStore{kv: kv, auth: auth, key: key, log: log}
}

// Restore reads the persisted session record, if any, into memory. Storage
// or decode failures fail open to the logged-out state and are never
// surfaced; a routing decision may be made as soon as Restore returns.
// The loaded flag is set exactly once.
func (s *SessionStore) Restore(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loaded {
		return
	}
	defer func() { s.loaded = true }()

	raw, err := s.kv.Get(ctx, s.key)
	if err != nil {
		if !errors.Is(err, ports.ErrKeyNotFound) {
			s.log.Warn().Err(err).Str("key", s.key).Msg("session restore failed, starting logged out")
		}
		return
	}

	var sess domain.Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil || sess.ID == "" {
		s.log.Warn().Err(err).Str("key", s.key).Msg("malformed session record, starting logged out")
		return
	}
	s.session = &sess
}

// Login verifies credentials through the authenticator, persists the
// resulting session, then installs it in memory. On a failed persist the
// in-memory state is left untouched.
func (s *SessionStore) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	sess, err := s.auth.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return s.install(ctx, sess)
}

// Register creates an account through the authenticator and then behaves
// like Login. It is a distinct entry point because callers branch on
// intent, not outcome.
func (s *SessionStore) Register(ctx context.Context, email, password string) (*domain.Session, error) {
	sess, err := s.auth.SignUp(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return s.install(ctx, sess)
}

func (s *SessionStore) install(ctx context.Context, sess *domain.Session) (*domain.Session, error) {
	raw, err := json.Marshal(sess)
	if err != nil {
		return nil, fmt.Errorf("encode session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.Set(ctx, s.key, string(raw)); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}
	s.session = sess

	clone := *sess
	return &clone, nil
}

// Logout removes the persisted record and clears the in-memory session.
// Idempotent: logging out with no active session is not an error.
func (s *SessionStore) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.Remove(ctx, s.key); err != nil {
		return fmt.Errorf("remove session: %w", err)
	}
	s.session = nil
	return nil
}

// Loaded reports whether Restore has completed.
func (s *SessionStore) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// Session returns a copy of the current session, or nil when logged out.
func (s *SessionStore) Session() *domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return nil
	}
	clone := *s.session
	return &clone
}
