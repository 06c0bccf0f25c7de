// Package cart holds the client's shopping cart. Every mutation is
// gated on the session: anonymous callers get ErrAuthRequired and the
// cart stays untouched.
package cart

import (
	"context"
	"sync"

	apperrors "github.com/a1-en/E-Shoe-Store/pkg/errors"
)

// Item is a cart line. ID matches the catalog product id; Title, Price
// and Thumbnail are denormalized at add time so the cart renders
// without further catalog lookups.
type Item struct {
	ID        int64   `json:"id"`
	Title     string  `json:"title"`
	Price     float64 `json:"price"`
	Thumbnail string  `json:"thumbnail"`
	Quantity  int     `json:"quantity"`
}

// AuthChecker reports whether the current session may mutate the cart.
// *session.Store satisfies it.
type AuthChecker interface {
	IsAuthenticated() bool
}

// Store is an in-memory cart with optional persistence and synchronous
// change notification.
type Store struct {
	mu    sync.RWMutex
	items []Item

	auth    AuthChecker
	storage Storage

	subMu  sync.Mutex
	subs   map[int]func([]Item)
	nextID int
}

// Option configures a Store.
type Option func(*Store)

// WithStorage persists the cart through the given backend. Without it
// the cart is ephemeral and lost when the store goes away.
func WithStorage(storage Storage) Option {
	return func(s *Store) {
		s.storage = storage
	}
}

// New creates a cart store gated on auth. When a persistence backend
// is configured, previously saved items are loaded once here.
func New(ctx context.Context, auth AuthChecker, opts ...Option) (*Store, error) {
	s := &Store{
		auth: auth,
		subs: make(map[int]func([]Item)),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.storage != nil {
		items, err := s.storage.Load(ctx)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to load persisted cart")
		}
		s.items = items
	}

	return s, nil
}

// Add puts a product in the cart. Adding a product already present
// increments its quantity instead of creating a duplicate line.
func (s *Store) Add(ctx context.Context, item Item) error {
	if !s.auth.IsAuthenticated() {
		return apperrors.ErrAuthRequired
	}
	if item.Quantity < 1 {
		item.Quantity = 1
	}

	s.mu.Lock()
	found := false
	for i := range s.items {
		if s.items[i].ID == item.ID {
			s.items[i].Quantity += item.Quantity
			found = true
			break
		}
	}
	if !found {
		s.items = append(s.items, item)
	}
	s.mu.Unlock()

	return s.afterMutation(ctx)
}

// Remove drops a line entirely regardless of quantity. Removing an id
// that is not in the cart is a no-op.
func (s *Store) Remove(ctx context.Context, id int64) error {
	if !s.auth.IsAuthenticated() {
		return apperrors.ErrAuthRequired
	}

	s.mu.Lock()
	changed := false
	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			changed = true
			break
		}
	}
	s.mu.Unlock()

	if !changed {
		return nil
	}
	return s.afterMutation(ctx)
}

// SetQuantity replaces a line's quantity. Values below 1 clamp to 1;
// removing a line is Remove's job. Unknown ids are a no-op.
func (s *Store) SetQuantity(ctx context.Context, id int64, quantity int) error {
	if !s.auth.IsAuthenticated() {
		return apperrors.ErrAuthRequired
	}
	if quantity < 1 {
		quantity = 1
	}

	s.mu.Lock()
	changed := false
	for i := range s.items {
		if s.items[i].ID == id {
			if s.items[i].Quantity != quantity {
				s.items[i].Quantity = quantity
				changed = true
			}
			break
		}
	}
	s.mu.Unlock()

	if !changed {
		return nil
	}
	return s.afterMutation(ctx)
}

// Clear empties the cart.
func (s *Store) Clear(ctx context.Context) error {
	if !s.auth.IsAuthenticated() {
		return apperrors.ErrAuthRequired
	}

	s.mu.Lock()
	s.items = nil
	s.mu.Unlock()

	return s.afterMutation(ctx)
}

// Items returns a copy of the current lines.
func (s *Store) Items() []Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// Len returns the number of distinct lines, not total quantity.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Total returns the sum of price times quantity over all lines.
func (s *Store) Total() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var total float64
	for _, it := range s.items {
		total += it.Price * float64(it.Quantity)
	}
	return total
}

// Subscribe registers fn to be called synchronously with a copy of the
// items after every mutation. The returned function unsubscribes.
func (s *Store) Subscribe(fn func([]Item)) func() {
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

// Close drops all subscribers.
func (s *Store) Close() {
	s.subMu.Lock()
	s.subs = make(map[int]func([]Item))
	s.subMu.Unlock()
}

func (s *Store) afterMutation(ctx context.Context) error {
	items := s.Items()

	if s.storage != nil {
		if err := s.storage.Save(ctx, items); err != nil {
			return err
		}
	}

	s.subMu.Lock()
	fns := make([]func([]Item), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(items)
	}
	return nil
}
