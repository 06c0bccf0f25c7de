// Package session holds the client's authentication state: the bearer
// token issued by the credential service and the derived
// authenticated/anonymous flag. The store performs no network I/O;
// obtaining a token is the caller's concern.
package session

import (
	"context"
	"sync"
	"time"

	apperrors "github.com/a1-en/E-Shoe-Store/pkg/errors"
	"github.com/a1-en/E-Shoe-Store/pkg/jwt"
)

// Snapshot is the read-only view delivered to subscribers.
type Snapshot struct {
	Token         string
	Authenticated bool
}

// Store is the single source of truth for the client's session.
// It has two states, anonymous and authenticated; there is no
// intermediate "authenticating" state, in-flight credential requests
// belong to the caller.
type Store struct {
	mu      sync.RWMutex
	token   string
	expiry  time.Time // zero if the token carries no readable expiry
	storage TokenStorage

	subMu  sync.Mutex
	subs   map[int]func(Snapshot)
	nextID int
}

// New creates a session store and loads any previously persisted token.
// The load happens once, at construction.
func New(ctx context.Context, storage TokenStorage) (*Store, error) {
	s := &Store{
		storage: storage,
		subs:    make(map[int]func(Snapshot)),
	}

	token, err := storage.Load(ctx)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to load persisted token")
	}
	s.token = token
	s.expiry = tokenExpiry(token)

	return s, nil
}

// Login stores a freshly issued token and persists it. The token must
// be non-empty; its validity is not verified here, trust is deferred
// to whichever request later presents it.
func (s *Store) Login(ctx context.Context, token string) error {
	if token == "" {
		return apperrors.ErrTokenMissing
	}

	s.mu.Lock()
	s.token = token
	s.expiry = tokenExpiry(token)
	s.mu.Unlock()

	if err := s.storage.Save(ctx, token); err != nil {
		return err
	}

	s.notify()
	return nil
}

// Logout clears the session. Idempotent.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.token = ""
	s.expiry = time.Time{}
	s.mu.Unlock()

	if err := s.storage.Clear(ctx); err != nil {
		return err
	}

	s.notify()
	return nil
}

// IsAuthenticated reports whether a token is present and, when the
// token carries a readable expiry claim, not yet expired. Checking
// expiry locally avoids a stale "logged in" state for tokens the
// server would reject anyway.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.token == "" {
		return false
	}
	if !s.expiry.IsZero() && time.Now().After(s.expiry) {
		return false
	}
	return true
}

// Token returns the current bearer token, or "" when anonymous.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Subscribe registers fn to be called synchronously after every state
// change. The returned function unsubscribes.
func (s *Store) Subscribe(fn func(Snapshot)) func() {
	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

// Close drops all subscribers. The persisted token is left untouched.
func (s *Store) Close() {
	s.subMu.Lock()
	s.subs = make(map[int]func(Snapshot))
	s.subMu.Unlock()
}

func (s *Store) notify() {
	snap := Snapshot{
		Token:         s.Token(),
		Authenticated: s.IsAuthenticated(),
	}

	s.subMu.Lock()
	fns := make([]func(Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}

// tokenExpiry decodes the token's expiry claim when possible. Opaque
// tokens without a readable claim get a zero expiry and are treated as
// valid while present.
func tokenExpiry(token string) time.Time {
	if token == "" {
		return time.Time{}
	}
	exp, err := jwt.ExtractExpiry(token)
	if err != nil {
		return time.Time{}
	}
	return exp
}
