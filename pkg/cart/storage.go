package cart

import (
	"context"
	"sync"
)

// Storage persists cart items between store lifetimes. An empty cart
// loads as a nil slice, not an error.
type Storage interface {
	Load(ctx context.Context) ([]Item, error)
	Save(ctx context.Context, items []Item) error
}

// MemoryStorage keeps items in process memory. Useful in tests and for
// sharing a cart across store instances within one process.
type MemoryStorage struct {
	mu    sync.Mutex
	items []Item
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

func (m *MemoryStorage) Load(_ context.Context) ([]Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Item, len(m.items))
	copy(out, m.items)
	return out, nil
}

func (m *MemoryStorage) Save(_ context.Context, items []Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = make([]Item, len(items))
	copy(m.items, items)
	return nil
}
